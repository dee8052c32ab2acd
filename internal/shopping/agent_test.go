package shopping

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/souschef/internal/service"
)

type scriptedPlanner struct {
	calls    int
	messages [][]service.ChatMessage
	fn       func(call int, messages []service.ChatMessage) (*service.ChatMessage, error)
}

func (p *scriptedPlanner) Plan(ctx context.Context, messages []service.ChatMessage, tools []service.ToolDefinition) (*service.ChatMessage, error) {
	p.calls++
	p.messages = append(p.messages, append([]service.ChatMessage(nil), messages...))
	return p.fn(p.calls, messages)
}

func toolCall(id, name, args string) service.ToolCall {
	return service.ToolCall{
		ID:   id,
		Type: "function",
		Function: service.ToolCallFunction{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestAgentReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("checks the list, adds what is missing and summarizes", func(t *testing.T) {
		list := tempList(t)
		_, err := list.Add([]string{"2 loaves of bread"})
		require.NoError(t, err)

		planner := &scriptedPlanner{fn: func(call int, messages []service.ChatMessage) (*service.ChatMessage, error) {
			switch call {
			case 1:
				return &service.ChatMessage{
					Role:      "assistant",
					ToolCalls: []service.ToolCall{toolCall("call_1", "check_items_exist", `{"items":["bread","basil"]}`)},
				}, nil
			case 2:
				// The tool result for the previous call must be in the conversation.
				last := messages[len(messages)-1]
				assert.Equal(t, "tool", last.Role)
				assert.Equal(t, "call_1", last.ToolCallID)
				assert.Contains(t, last.Content, "2 loaves of bread")

				return &service.ChatMessage{
					Role:      "assistant",
					ToolCalls: []service.ToolCall{toolCall("call_2", "add_items", `{"items":["basil"]}`)},
				}, nil
			default:
				return &service.ChatMessage{Role: "assistant", Content: "Added basil; bread was already covered."}, nil
			}
		}}

		summary, err := NewAgent(planner, list, 8).Reconcile(ctx, []string{"bread", "basil"}, "")
		require.NoError(t, err)
		assert.Equal(t, "Added basil; bread was already covered.", summary)
		assert.Equal(t, []string{"2 loaves of bread", "basil"}, list.Items())
		assert.Equal(t, 3, planner.calls)

		// First round starts with system prompt plus the default user message.
		first := planner.messages[0]
		require.Len(t, first, 2)
		assert.Equal(t, "system", first[0].Role)
		assert.Contains(t, first[1].Content, "bread, basil")
	})

	t.Run("round limit bounds the conversation", func(t *testing.T) {
		planner := &scriptedPlanner{fn: func(call int, messages []service.ChatMessage) (*service.ChatMessage, error) {
			return &service.ChatMessage{
				Role:      "assistant",
				ToolCalls: []service.ToolCall{toolCall("call", "get_shopping_list", `{}`)},
			}, nil
		}}

		summary, err := NewAgent(planner, tempList(t), 3).Reconcile(ctx, []string{"milk"}, "")
		require.NoError(t, err)
		assert.NotEmpty(t, summary)
		assert.Equal(t, 3, planner.calls)
	})

	t.Run("tool failures are reported back to the model", func(t *testing.T) {
		planner := &scriptedPlanner{fn: func(call int, messages []service.ChatMessage) (*service.ChatMessage, error) {
			if call == 1 {
				return &service.ChatMessage{
					Role:      "assistant",
					ToolCalls: []service.ToolCall{toolCall("call_1", "no_such_tool", `{}`)},
				}, nil
			}
			last := messages[len(messages)-1]
			assert.Equal(t, "tool", last.Role)
			assert.Contains(t, last.Content, "error")
			return &service.ChatMessage{Role: "assistant", Content: "done"}, nil
		}}

		summary, err := NewAgent(planner, tempList(t), 8).Reconcile(ctx, []string{"milk"}, "")
		require.NoError(t, err)
		assert.Equal(t, "done", summary)
	})

	t.Run("custom message overrides the default phrasing", func(t *testing.T) {
		planner := &scriptedPlanner{fn: func(call int, messages []service.ChatMessage) (*service.ChatMessage, error) {
			assert.Equal(t, "remove everything", messages[1].Content)
			return &service.ChatMessage{Role: "assistant", Content: "cleared"}, nil
		}}

		_, err := NewAgent(planner, tempList(t), 8).Reconcile(ctx, nil, "remove everything")
		require.NoError(t, err)
	})

	t.Run("planner failure aborts", func(t *testing.T) {
		boom := errors.New("model offline")
		planner := &scriptedPlanner{fn: func(int, []service.ChatMessage) (*service.ChatMessage, error) {
			return nil, boom
		}}

		_, err := NewAgent(planner, tempList(t), 8).Reconcile(ctx, []string{"milk"}, "")
		assert.ErrorIs(t, err, boom)
	})
}

func TestExecuteTool(t *testing.T) {
	list := tempList(t)
	_, err := list.Add([]string{"milk", "2 loaves of bread"})
	require.NoError(t, err)
	agent := NewAgent(nil, list, 1)

	t.Run("get_shopping_list", func(t *testing.T) {
		result, err := agent.executeTool("get_shopping_list", `{}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"milk", "2 loaves of bread"}, result["shopping_list"])
	})

	t.Run("check_items_exist", func(t *testing.T) {
		result, err := agent.executeTool("check_items_exist", `{"items":["bread","eggs"]}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"eggs"}, result["missing"])
	})

	t.Run("update_item_quantity", func(t *testing.T) {
		result, err := agent.executeTool("update_item_quantity", `{"item":"milk","new_quantity":"2 liters"}`)
		require.NoError(t, err)
		assert.Equal(t, true, result["updated"])
		assert.Contains(t, list.Items(), "2 liters milk")
	})

	t.Run("remove_items", func(t *testing.T) {
		result, err := agent.executeTool("remove_items", `{"items":["2 loaves of bread"]}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"2 loaves of bread"}, result["removed"])
	})

	t.Run("malformed arguments fail", func(t *testing.T) {
		_, err := agent.executeTool("add_items", `not json`)
		assert.Error(t, err)
	})

	t.Run("unknown tool fails", func(t *testing.T) {
		_, err := agent.executeTool("no_such_tool", `{}`)
		assert.Error(t, err)
	})
}
