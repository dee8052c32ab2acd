package service

import (
	"context"

	"github.com/plateful/souschef/internal/types"
)

// LLMServiceInterface covers every chat-completion interaction the pipeline needs.
type LLMServiceInterface interface {
	ExpandKeywords(ctx context.Context, question string) (string, error)
	GenerateRecipe(ctx context.Context, question, ingredients string, retrieved []types.RetrievedRecipe, feedback string) (*types.RecipeCandidate, error)
	ReviewRecipe(ctx context.Context, question, ingredients string, candidate *types.RecipeCandidate) (*types.ReviewVerdict, error)
	AuthorImagePrompt(ctx context.Context, recipeDescription string) (string, error)
	Plan(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (*ChatMessage, error)
}

// EmbeddingServiceInterface defines the interface for text embedding
type EmbeddingServiceInterface interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// SimilarityServiceInterface defines the interface for image/text similarity scoring
type SimilarityServiceInterface interface {
	Score(ctx context.Context, image []byte, text string) (float64, error)
}

// ImageServiceInterface defines the interface for image generation and storage
type ImageServiceInterface interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	UploadImage(ctx context.Context, imageData []byte) (string, error)
}
