package search

import (
	"context"
	"fmt"

	"github.com/plateful/souschef/internal/service"
	"github.com/plateful/souschef/internal/types"
)

// RecipeNamespace scopes every index operation issued by this application.
const RecipeNamespace = "recipes-namespace"

// Match is one scored result from a vector index query.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]string
}

// IndexItem is one entry for upserting into a vector index.
type IndexItem struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// VectorIndex is an opaque nearest-neighbor service. Query returns matches in
// descending similarity order; ranking authority belongs to the index.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error)
	Upsert(ctx context.Context, items []IndexItem, namespace string) error
}

// Retriever issues top-k searches against the vector index and normalizes the
// results into recipe candidates.
type Retriever struct {
	index VectorIndex
}

// NewRetriever creates a new Retriever instance
func NewRetriever(index VectorIndex) *Retriever {
	return &Retriever{index: index}
}

// Retrieve returns up to topK recipes in descending similarity order. Missing
// metadata fields default to the empty string. The retriever never reranks or
// filters.
func (r *Retriever) Retrieve(ctx context.Context, vector []float32, topK int) ([]types.RetrievedRecipe, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", service.ErrRetrieval, topK)
	}

	matches, err := r.index.Query(ctx, vector, topK, RecipeNamespace)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrRetrieval, err)
	}

	recipes := make([]types.RetrievedRecipe, 0, len(matches))
	for _, m := range matches {
		recipes = append(recipes, types.RetrievedRecipe{
			Title:       m.Metadata["title"],
			Ingredients: m.Metadata["ingredients"],
			Directions:  m.Metadata["directions"],
		})
	}
	return recipes, nil
}
