package database

import (
	"fmt"
	"log"

	"github.com/plateful/souschef/internal/models"
	"gorm.io/gorm"
)

// RunMigrations prepares the schema for the recipe document index. On Postgres
// the pgvector extension is required for the embedding column; SQLite test
// databases skip it and store the vector as text.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to create vector extension: %w", err)
		}
	} else {
		log.Printf("Using GORM auto-migration without pgvector on %s", db.Dialector.Name())
	}

	if err := db.AutoMigrate(&models.RecipeDocument{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
