package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plateful/souschef/internal/database"
	"github.com/plateful/souschef/internal/models"
)

func setupSQLiteIndex(t *testing.T) *PgVectorIndex {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return NewPgVectorIndex(db)
}

func item(id string, vector []float32, title string) IndexItem {
	return IndexItem{
		ID:     id,
		Vector: vector,
		Metadata: map[string]string{
			"title":       title,
			"ingredients": "some ingredients",
			"directions":  "some directions",
		},
	}
}

func TestPgVectorIndexQuery(t *testing.T) {
	index := setupSQLiteIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, []IndexItem{
		item("doc-1", []float32{1, 0}, "Exact match"),
		item("doc-2", []float32{0.7, 0.7}, "Diagonal"),
		item("doc-3", []float32{0, 1}, "Orthogonal"),
	}, RecipeNamespace))

	t.Run("orders by similarity and honors topK", func(t *testing.T) {
		matches, err := index.Query(ctx, []float32{1, 0}, 2, RecipeNamespace)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "doc-1", matches[0].ID)
		assert.Equal(t, "doc-2", matches[1].ID)
		assert.Greater(t, matches[0].Score, matches[1].Score)
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		matches, err := index.Query(ctx, []float32{1, 0}, 10, "other-namespace")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("metadata survives the round trip", func(t *testing.T) {
		matches, err := index.Query(ctx, []float32{0, 1}, 1, RecipeNamespace)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "Orthogonal", matches[0].Metadata["title"])
		assert.Equal(t, "some ingredients", matches[0].Metadata["ingredients"])
	})
}

func TestPgVectorIndexUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("same doc_id replaces the entry", func(t *testing.T) {
		index := setupSQLiteIndex(t)

		require.NoError(t, index.Upsert(ctx, []IndexItem{item("doc-1", []float32{1, 0}, "Original")}, RecipeNamespace))
		require.NoError(t, index.Upsert(ctx, []IndexItem{item("doc-1", []float32{1, 0}, "Updated")}, RecipeNamespace))

		var count int64
		require.NoError(t, index.db.Model(&models.RecipeDocument{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		matches, err := index.Query(ctx, []float32{1, 0}, 1, RecipeNamespace)
		require.NoError(t, err)
		assert.Equal(t, "Updated", matches[0].Metadata["title"])
	})

	t.Run("large batches are split", func(t *testing.T) {
		index := setupSQLiteIndex(t)

		items := make([]IndexItem, 0, 150)
		for i := 0; i < 150; i++ {
			items = append(items, item(fmt.Sprintf("doc-%d", i), []float32{float32(i), 1}, fmt.Sprintf("Recipe %d", i)))
		}
		require.NoError(t, index.Upsert(ctx, items, RecipeNamespace))

		var count int64
		require.NoError(t, index.db.Model(&models.RecipeDocument{}).Count(&count).Error)
		assert.EqualValues(t, 150, count)
	})
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
