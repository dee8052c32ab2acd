package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/plateful/souschef/config"
	"github.com/plateful/souschef/internal/database"
	"github.com/plateful/souschef/internal/search"
	"github.com/plateful/souschef/internal/service"
)

// embedBatchSize bounds how many recipe texts go to the embedding endpoint
// per request.
const embedBatchSize = 64

type recipeRow struct {
	id          string
	title       string
	ingredients []string
	directions  []string
}

func main() {
	csvPath := flag.String("csv", "recipes.csv", "path to the recipe dataset CSV")
	limit := flag.Int("limit", 0, "maximum number of recipes to index (0 = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	embeddingService := service.NewEmbeddingService(cfg)
	index := search.NewPgVectorIndex(db)

	rows, err := loadRecipes(*csvPath, *limit)
	if err != nil {
		log.Fatalf("Failed to load recipes: %v", err)
	}
	log.Printf("Loaded %d recipes from %s", len(rows), *csvPath)

	ctx := context.Background()
	indexed := 0

	for start := 0; start < len(rows); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		texts := make([]string, 0, len(batch))
		for _, row := range batch {
			texts = append(texts, fmt.Sprintf("%s %s %s",
				row.title,
				strings.Join(row.ingredients, " "),
				strings.Join(row.directions, " ")))
		}

		embeddings, err := embeddingService.GenerateEmbeddings(ctx, texts)
		if err != nil {
			log.Printf("Failed to embed batch starting at %d, skipping: %v", start, err)
			continue
		}

		items := make([]search.IndexItem, 0, len(batch))
		for i, row := range batch {
			items = append(items, search.IndexItem{
				ID:     row.id,
				Vector: embeddings[i],
				Metadata: map[string]string{
					"title":       row.title,
					"ingredients": strings.Join(row.ingredients, ", "),
					"directions":  strings.Join(row.directions, " "),
				},
			})
		}

		if err := index.Upsert(ctx, items, search.RecipeNamespace); err != nil {
			log.Fatalf("Failed to upsert batch starting at %d: %v", start, err)
		}

		indexed += len(items)
		log.Printf("Indexed %d/%d recipes", indexed, len(rows))
	}

	log.Printf("Done, %d recipes indexed into %s", indexed, search.RecipeNamespace)
}

// loadRecipes reads the dataset CSV. Expected columns are title, ingredients
// and directions; the list columns hold JSON-style arrays.
func loadRecipes(path string, limit int) ([]recipeRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "ingredients", "directions"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	// Datasets with an NER column carry cleaned ingredient names there.
	ingredientsCol := cols["ingredients"]
	if i, ok := cols["ner"]; ok {
		ingredientsCol = i
	}

	var rows []recipeRow
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Skipping malformed CSV line %d: %v", line, err)
			continue
		}

		row := recipeRow{
			id:          fmt.Sprintf("recipe-%d", line),
			title:       strings.TrimSpace(record[cols["title"]]),
			ingredients: parseListField(record[ingredientsCol]),
			directions:  parseListField(record[cols["directions"]]),
		}
		if row.title == "" || len(row.ingredients) == 0 {
			continue
		}

		rows = append(rows, row)
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	return rows, nil
}

// parseListField decodes a list column. Well-formed values are JSON arrays;
// anything else is split on commas as a fallback.
func parseListField(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed
	}

	raw = strings.Trim(raw, "[]")
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.Trim(strings.TrimSpace(part), `'"`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
