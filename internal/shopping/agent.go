package shopping

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/plateful/souschef/internal/service"
)

// Planner runs one planning round: it takes the conversation so far plus the
// tool definitions and returns the model's next message.
type Planner interface {
	Plan(ctx context.Context, messages []service.ChatMessage, tools []service.ToolDefinition) (*service.ChatMessage, error)
}

const agentSystemPrompt = `You are a shopping list management assistant. You maintain the user's shopping list using the available tools.

When the user gives you ingredients they need to buy:
1. First check the current shopping list to see what is already on it.
2. Add only the items that are genuinely missing. Do not add duplicates of things already listed, even if they are phrased differently (e.g. "bread" is already covered by "2 loaves of bread").
3. If the user asks for a different quantity of something already listed, update its quantity instead of adding a new entry.
4. Remove items only when the user explicitly asks for it.

When you are done, reply with a short plain-text summary of what you changed and what was already covered. Do not call any more tools once you have summarized.`

// Agent reconciles a set of needed ingredients against the persistent shopping
// list by letting the planning model drive list tools. The conversation is
// bounded: after maxRounds planning rounds the agent stops regardless of
// whether the model produced a final summary.
type Agent struct {
	planner   Planner
	list      *List
	maxRounds int
}

// NewAgent creates a new Agent instance
func NewAgent(planner Planner, list *List, maxRounds int) *Agent {
	if maxRounds < 1 {
		maxRounds = 1
	}
	return &Agent{planner: planner, list: list, maxRounds: maxRounds}
}

// List exposes the underlying shopping list.
func (a *Agent) List() *List {
	return a.list
}

// Reconcile updates the shopping list to cover ingredientsToBuy and returns the
// model's summary of what changed. An empty message gets a default phrasing of
// the request; a non-empty one is passed through as the user's instruction.
func (a *Agent) Reconcile(ctx context.Context, ingredientsToBuy []string, message string) (string, error) {
	if message == "" {
		message = fmt.Sprintf("I need to buy these ingredients: %s. Please check what's already on my shopping list and add what's missing.",
			strings.Join(ingredientsToBuy, ", "))
	}

	messages := []service.ChatMessage{
		{Role: "system", Content: agentSystemPrompt},
		{Role: "user", Content: message},
	}

	lastContent := ""
	for round := 1; round <= a.maxRounds; round++ {
		msg, err := a.planner.Plan(ctx, messages, Tools())
		if err != nil {
			return "", fmt.Errorf("planning round %d failed: %w", round, err)
		}

		if len(msg.ToolCalls) == 0 {
			if strings.TrimSpace(msg.Content) == "" {
				return "", fmt.Errorf("planner returned neither tool calls nor a summary")
			}
			return strings.TrimSpace(msg.Content), nil
		}

		if msg.Content != "" {
			lastContent = msg.Content
		}
		messages = append(messages, *msg)

		for _, call := range msg.ToolCalls {
			result, err := a.executeTool(call.Function.Name, call.Function.Arguments)
			if err != nil {
				// Tool failures go back to the model instead of
				// aborting the conversation.
				log.Printf("[ShoppingAgent] Tool %s failed: %v", call.Function.Name, err)
				result = map[string]any{"error": err.Error()}
			}

			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(`{"error":"failed to encode tool result"}`)
			}
			messages = append(messages, service.ChatMessage{
				Role:       "tool",
				Content:    string(payload),
				ToolCallID: call.ID,
			})
		}
	}

	log.Printf("[ShoppingAgent] Stopping after %d planning rounds without a final summary", a.maxRounds)
	if lastContent != "" {
		return strings.TrimSpace(lastContent), nil
	}
	return "Shopping list updated; the planner did not produce a summary within the round limit.", nil
}
