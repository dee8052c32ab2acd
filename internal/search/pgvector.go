package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plateful/souschef/internal/models"
)

// upsertBatchSize caps how many vectors go to the index per upsert call.
const upsertBatchSize = 100

// PgVectorIndex is a VectorIndex backed by Postgres with the pgvector
// extension. On non-Postgres dialects (test databases) nearest-neighbor
// ordering is computed in process instead.
type PgVectorIndex struct {
	db *gorm.DB
}

// NewPgVectorIndex creates a new PgVectorIndex instance
func NewPgVectorIndex(db *gorm.DB) *PgVectorIndex {
	return &PgVectorIndex{db: db}
}

type scoredRow struct {
	DocID       string
	Title       string
	Ingredients string
	Directions  string
	Distance    float64
}

// Query returns the topK nearest documents in the namespace by cosine
// similarity, best first.
func (i *PgVectorIndex) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error) {
	if i.db.Dialector.Name() == "postgres" {
		var rows []scoredRow
		err := i.db.WithContext(ctx).
			Table("recipe_documents").
			Select("doc_id, title, ingredients, directions, (embedding <=> ?) AS distance", pgvector.NewVector(vector)).
			Where("namespace = ?", namespace).
			Order("distance ASC").
			Limit(topK).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("pgvector query failed: %w", err)
		}

		matches := make([]Match, 0, len(rows))
		for _, r := range rows {
			matches = append(matches, Match{
				ID:    r.DocID,
				Score: 1 - r.Distance,
				Metadata: map[string]string{
					"title":       r.Title,
					"ingredients": r.Ingredients,
					"directions":  r.Directions,
				},
			})
		}
		return matches, nil
	}

	return i.queryInProcess(ctx, vector, topK, namespace)
}

// queryInProcess is the fallback for dialects without pgvector support.
func (i *PgVectorIndex) queryInProcess(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error) {
	var docs []models.RecipeDocument
	if err := i.db.WithContext(ctx).Where("namespace = ?", namespace).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("index scan failed: %w", err)
	}

	matches := make([]Match, 0, len(docs))
	for _, doc := range docs {
		matches = append(matches, Match{
			ID:    doc.DocID,
			Score: cosineSimilarity(vector, doc.Embedding.Slice()),
			Metadata: map[string]string{
				"title":       doc.Title,
				"ingredients": doc.Ingredients,
				"directions":  doc.Directions,
			},
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Upsert writes items to the index in batches of at most 100, replacing
// existing entries with the same doc_id and namespace.
func (i *PgVectorIndex) Upsert(ctx context.Context, items []IndexItem, namespace string) error {
	for start := 0; start < len(items); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(items) {
			end = len(items)
		}

		docs := make([]models.RecipeDocument, 0, end-start)
		for _, item := range items[start:end] {
			docs = append(docs, models.RecipeDocument{
				ID:          uuid.New(),
				DocID:       item.ID,
				Namespace:   namespace,
				Title:       item.Metadata["title"],
				Ingredients: item.Metadata["ingredients"],
				Directions:  item.Metadata["directions"],
				Embedding:   pgvector.NewVector(item.Vector),
			})
		}

		err := i.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_id"}, {Name: "namespace"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "ingredients", "directions", "embedding", "updated_at"}),
		}).Create(&docs).Error
		if err != nil {
			return fmt.Errorf("failed to upsert batch starting at %d: %w", start, err)
		}
	}
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for idx := range a {
		dot += float64(a[idx]) * float64(b[idx])
		normA += float64(a[idx]) * float64(a[idx])
		normB += float64(b[idx]) * float64(b[idx])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
