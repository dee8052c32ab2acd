package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/souschef/internal/service"
)

type stubIndex struct {
	matches []Match
	err     error
}

func (s *stubIndex) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error) {
	return s.matches, s.err
}

func (s *stubIndex) Upsert(ctx context.Context, items []IndexItem, namespace string) error {
	return nil
}

func TestRetrieve(t *testing.T) {
	t.Run("maps matches in index order", func(t *testing.T) {
		index := &stubIndex{matches: []Match{
			{ID: "a", Score: 0.9, Metadata: map[string]string{"title": "Pasta", "ingredients": "pasta", "directions": "boil"}},
			{ID: "b", Score: 0.8, Metadata: map[string]string{"title": "Soup", "ingredients": "broth", "directions": "simmer"}},
		}}

		recipes, err := NewRetriever(index).Retrieve(context.Background(), []float32{1}, 2)
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.Equal(t, "Pasta", recipes[0].Title)
		assert.Equal(t, "Soup", recipes[1].Title)
	})

	t.Run("missing metadata defaults to empty strings", func(t *testing.T) {
		index := &stubIndex{matches: []Match{{ID: "a", Score: 0.9, Metadata: map[string]string{"title": "Pasta"}}}}

		recipes, err := NewRetriever(index).Retrieve(context.Background(), []float32{1}, 1)
		require.NoError(t, err)
		assert.Equal(t, "Pasta", recipes[0].Title)
		assert.Empty(t, recipes[0].Ingredients)
		assert.Empty(t, recipes[0].Directions)
	})

	t.Run("non-positive topK is a retrieval error", func(t *testing.T) {
		_, err := NewRetriever(&stubIndex{}).Retrieve(context.Background(), []float32{1}, 0)
		assert.ErrorIs(t, err, service.ErrRetrieval)
	})

	t.Run("index failure is a retrieval error", func(t *testing.T) {
		index := &stubIndex{err: errors.New("connection refused")}
		_, err := NewRetriever(index).Retrieve(context.Background(), []float32{1}, 3)
		assert.ErrorIs(t, err, service.ErrRetrieval)
	})
}
