package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/plateful/souschef/config"
	"github.com/plateful/souschef/internal/types"
)

// reasoningDelimiter terminates the reasoning block some models prepend to
// their answer. Parsers take whatever follows the last occurrence.
const reasoningDelimiter = "</think>"

// jsonAfterThinkRe extracts the JSON object following the reasoning block.
var jsonAfterThinkRe = regexp.MustCompile(`(?s)</think>\s*(\{.*\})`)

// LLMService talks to an OpenAI-compatible chat-completions endpoint. It covers
// keyword expansion, recipe synthesis, recipe review, image prompt authoring
// and shopping-plan tool calling.
type LLMService struct {
	apiURL      string
	apiKey      string
	model       string
	modelBig    string
	reviewModel string
	client      *http.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg *config.Config) *LLMService {
	return &LLMService{
		apiURL:      cfg.LLMAPIURL,
		apiKey:      cfg.LLMAPIKey,
		model:       cfg.LLMModel,
		modelBig:    cfg.LLMModelBig,
		reviewModel: cfg.ReviewModel,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ChatMessage represents a message in the chat
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a tool invocation requested by the model
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction carries the requested tool name and its JSON-encoded arguments
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition describes a callable tool offered to the model
type ToolDefinition struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction is the schema part of a tool definition
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// chatRequest represents a request to the chat-completions API
type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []ChatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	Stream         bool              `json:"stream"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Tools          []ToolDefinition  `json:"tools,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// completeChat sends one chat-completion request and returns the first choice.
func (s *LLMService) completeChat(ctx context.Context, req chatRequest) (*ChatMessage, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	return &result.Choices[0].Message, nil
}

const expansionSystemPrompt = `You are an intelligent recipe query enrichment assistant. Your task is not to answer the user's question, but to think out loud and then output a list of highly relevant keywords related to food, cooking, ingredients, cuisines, or dish types.

Begin your answer with a <think> block where you reason about what the user might want, and how to expand their query in a food-related context. Also take into account the current season, which is provided as a hint.

End your answer with a comma-separated list of keywords. Do not include full sentences, explanations, or unrelated topics.

For example:

User: I want to eat something Italian.
<think>
They're probably looking for Italian food - maybe pasta, pizza, or other dishes typical of that cuisine. I will expand with some core ingredients and dish types.
</think>
Italian, pasta, pizza, mozzarella, tomato, olive oil, herbs, risotto`

// ExpandKeywords asks the model to enrich the user's question into a
// comma-separated keyword list, hinted with the current season. Returns
// ErrExpansion when the endpoint is unreachable or the response lacks the
// reasoning delimiter.
func (s *LLMService) ExpandKeywords(ctx context.Context, question string) (string, error) {
	season := CurrentSeason(time.Now())
	questionWithContext := fmt.Sprintf("%s, season %s", question, season)

	msg, err := s.completeChat(ctx, chatRequest{
		Model: s.model,
		Messages: []ChatMessage{
			{Role: "system", Content: expansionSystemPrompt},
			{Role: "user", Content: questionWithContext},
		},
		Temperature: 0.1,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExpansion, err)
	}

	idx := strings.LastIndex(msg.Content, reasoningDelimiter)
	if idx < 0 {
		return "", fmt.Errorf("%w: response missing %q delimiter", ErrExpansion, reasoningDelimiter)
	}

	keywords := strings.TrimSpace(msg.Content[idx+len(reasoningDelimiter):])
	if keywords == "" {
		return "", fmt.Errorf("%w: empty keyword list", ErrExpansion)
	}
	return keywords, nil
}

const synthesisSystemPrompt = `You are a helpful recipe assistant. Your task is to provide a concise and relevant response based on the user's question and the ingredients they have at home.
You should return a new recipe based on the user's question and the ingredients they have, using the top recipes from a dataset.
Do not include any explanations or additional information, just the recipe details in valid JSON format.
If the user specifies that he doesn't like a certain ingredient, or is allergic to it, DO NOT INCLUDE IT and replace it with something similar.

Return ONLY a JSON object in this format:
{
"title": "...",
"ingredients": ["..."],
"directions": ["..."]
}`

// GenerateRecipe produces a structured recipe candidate from the user's request,
// the retrieved similar recipes and optional feedback from a prior rejection.
// A non-empty feedback escalates to the stronger model: a rejected recipe
// warrants a stronger generation pass rather than repeating the same model.
func (s *LLMService) GenerateRecipe(ctx context.Context, question, ingredients string, retrieved []types.RetrievedRecipe, feedback string) (*types.RecipeCandidate, error) {
	model := s.model
	systemPrompt := synthesisSystemPrompt
	if feedback != "" {
		model = s.modelBig
		systemPrompt += fmt.Sprintf("\nThe last recipe was rejected for the following reason: %s\nMake sure to correct this in your new recipe.", feedback)
	}

	recipesJSON, err := json.Marshal(retrieved)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode retrieved recipes: %v", ErrSynthesis, err)
	}

	msg, err := s.completeChat(ctx, chatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("question: %s, ingredients: %s, top recipes: %s", question, ingredients, recipesJSON)},
		},
		Temperature: 0.6,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	candidate, err := parseRecipeCandidate(msg.Content)
	if err != nil {
		log.Printf("[LLMService] Failed to parse recipe, raw model output: %s", msg.Content)
		return nil, err
	}
	return candidate, nil
}

// parseRecipeCandidate extracts and validates the JSON recipe from raw model
// output. The JSON object after the last reasoning block wins; without a
// reasoning block the whole content is parsed.
func parseRecipeCandidate(content string) (*types.RecipeCandidate, error) {
	jsonBlock := strings.TrimSpace(content)
	if m := jsonAfterThinkRe.FindStringSubmatch(content); m != nil {
		jsonBlock = m[1]
	}

	var candidate types.RecipeCandidate
	if err := json.Unmarshal([]byte(jsonBlock), &candidate); err != nil {
		return nil, fmt.Errorf("%w: invalid recipe JSON: %v", ErrSynthesis, err)
	}
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("%w: schema validation: %v", ErrSynthesis, err)
	}
	return &candidate, nil
}

const reviewSystemPrompt = `You are a helpful recipe reviewer assistant.

Your task is to critically assess a newly generated recipe based on the user's original cooking request and the ingredients they currently have at home.

Your responsibilities are:

Determine whether the recipe logically and sensibly satisfies the user's request.

Check for any violations of dietary preferences, allergies, or other user-stated constraints.

Identify which ingredients the user needs to buy to make the recipe, based on the ingredients they already have.

Provide a clear and constructive explanation that will help a recipe-generation assistant revise the recipe in the next step.

Important:

Do not reject a recipe just because it uses ingredients the user doesn't currently have. New ingredients are acceptable as long as they make sense and respect the user's request.

Only reject a recipe if it fails to fulfill the user's request, includes inappropriate ingredients, or violates their stated constraints.

Return a JSON object ONLY with the following structure:

{
"approved": true or false,
"ingredients_to_buy": [list of missing ingredients, empty if none],
"explanation": "A detailed and actionable explanation for improving the recipe."
}`

// ReviewRecipe judges a candidate against the user's request, returning the
// approval status, the deduplicated set of ingredients to acquire and an
// explanation usable as corrective feedback.
func (s *LLMService) ReviewRecipe(ctx context.Context, question, ingredients string, candidate *types.RecipeCandidate) (*types.ReviewVerdict, error) {
	candidateJSON, err := json.Marshal(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode candidate: %v", ErrReview, err)
	}

	msg, err := s.completeChat(ctx, chatRequest{
		Model: s.reviewModel,
		Messages: []ChatMessage{
			{Role: "system", Content: reviewSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("User question: %s\nUser ingredients: %s\nRecipe: %s", question, ingredients, candidateJSON)},
		},
		Temperature:    0.2,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReview, err)
	}

	jsonBlock := strings.TrimSpace(msg.Content)
	if m := jsonAfterThinkRe.FindStringSubmatch(msg.Content); m != nil {
		jsonBlock = m[1]
	}

	var verdict types.ReviewVerdict
	if err := json.Unmarshal([]byte(jsonBlock), &verdict); err != nil {
		return nil, fmt.Errorf("%w: invalid verdict JSON: %v", ErrReview, err)
	}

	verdict.IngredientsToBuy = dedupeStrings(verdict.IngredientsToBuy)
	return &verdict, nil
}

const imagePromptSystemPrompt = `You are a helpful AI Assistant.
You write prompts for Stable Diffusion image generation, focused exclusively on food as the main subject.

Rules to follow:

Do NOT include kitchens, cooking tools, utensils, tables, people, or any detailed background elements.

Use only simple, neutral, or minimal backgrounds (e.g. plain color, subtle texture).

The food should be the centerpiece, placed clearly on a single plate or dish. No multiple plates or extra items.

Style must be a drawing or painting, NOT photorealistic. Emphasize illustration quality (e.g., watercolor, gouache, pencil sketch, digital painting, etc.).

Format:

Positive prompt: a [style] drawing/painting of [dish/food item], with [visual details: shape, texture, colors], on a single plate, on a simple background, [mood or lighting if relevant]

Example:

Positive prompt: a watercolor painting of a slice of strawberry cheesecake, creamy texture with bright red strawberries on top, on a white ceramic plate, placed on a soft beige background, warm and inviting`

// AuthorImagePrompt derives a single illustration prompt for the given recipe
// description, constrained to food-only, single-plate, non-photorealistic output.
func (s *LLMService) AuthorImagePrompt(ctx context.Context, recipeDescription string) (string, error) {
	msg, err := s.completeChat(ctx, chatRequest{
		Model: s.model,
		Messages: []ChatMessage{
			{Role: "system", Content: imagePromptSystemPrompt},
			{Role: "user", Content: recipeDescription},
		},
		Temperature: 0.1,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", fmt.Errorf("failed to author image prompt: %w", err)
	}

	answer := strings.TrimSpace(msg.Content)
	if idx := strings.LastIndex(answer, reasoningDelimiter); idx >= 0 {
		answer = strings.TrimSpace(answer[idx+len(reasoningDelimiter):])
	}

	prompt := strings.TrimSpace(strings.TrimPrefix(answer, "Positive prompt:"))
	if prompt == "" {
		return "", fmt.Errorf("empty image prompt from model")
	}
	return prompt, nil
}

// Plan runs one planning round for the shopping agent: the full conversation
// plus tool definitions go in, and the model's next message (plain text or
// tool calls) comes back.
func (s *LLMService) Plan(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (*ChatMessage, error) {
	return s.completeChat(ctx, chatRequest{
		Model:       s.reviewModel,
		Messages:    messages,
		Temperature: 0.2,
		Tools:       tools,
	})
}

// dedupeStrings removes exact duplicates while preserving first-seen order.
func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
