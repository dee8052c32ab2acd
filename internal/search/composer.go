package search

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/plateful/souschef/internal/service"
)

// Hybrid query weights: the raw question+ingredients text dominates, the
// LLM-expanded keywords refine.
const (
	primaryWeight  = 0.7
	expandedWeight = 0.3
)

// QueryComposer builds a hybrid query vector from the raw user query and an
// LLM-expanded keyword query.
type QueryComposer struct {
	llm      service.LLMServiceInterface
	embedder service.EmbeddingServiceInterface
}

// NewQueryComposer creates a new QueryComposer instance
func NewQueryComposer(llm service.LLMServiceInterface, embedder service.EmbeddingServiceInterface) *QueryComposer {
	return &QueryComposer{llm: llm, embedder: embedder}
}

// Compose returns 0.7*embed(question+" "+ingredients) + 0.3*embed(keywords).
// When keyword expansion fails (service.ErrExpansion) retrieval must not
// abort: the composer degrades to the primary text embedding alone.
func (c *QueryComposer) Compose(ctx context.Context, question, ingredients string) ([]float32, error) {
	primary := question + " " + ingredients

	expanded, err := c.llm.ExpandKeywords(ctx, question)
	if err != nil {
		if !errors.Is(err, service.ErrExpansion) {
			return nil, err
		}
		log.Printf("[QueryComposer] Keyword expansion failed, using primary query only: %v", err)
		return c.embedder.GenerateEmbedding(ctx, primary)
	}

	v1, err := c.embedder.GenerateEmbedding(ctx, primary)
	if err != nil {
		return nil, fmt.Errorf("failed to embed primary query: %w", err)
	}

	v2, err := c.embedder.GenerateEmbedding(ctx, expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to embed expanded query: %w", err)
	}

	if len(v1) != len(v2) {
		log.Printf("[QueryComposer] Embedding dimension mismatch (%d vs %d), using primary query only", len(v1), len(v2))
		return v1, nil
	}

	hybrid := make([]float32, len(v1))
	for i := range v1 {
		hybrid[i] = primaryWeight*v1[i] + expandedWeight*v2[i]
	}
	return hybrid, nil
}
