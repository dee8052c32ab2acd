package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// RecipeDocument is a stored recipe embedding with its retrieval metadata.
// Rows are scoped by namespace so multiple corpora can share one table.
type RecipeDocument struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DocID       string          `gorm:"size:64;not null;uniqueIndex:idx_doc_namespace" json:"doc_id"`
	Namespace   string          `gorm:"size:64;not null;uniqueIndex:idx_doc_namespace;index" json:"namespace"`
	Title       string          `gorm:"size:512" json:"title"`
	Ingredients string          `gorm:"type:text" json:"ingredients"`
	Directions  string          `gorm:"type:text" json:"directions"`
	Embedding   pgvector.Vector `gorm:"type:vector(1024)" json:"-"`
}
