package types

import (
	"fmt"
	"time"
)

// RecipeCandidate is a structured recipe produced by the synthesis collaborator.
// Instances are immutable once returned; each regeneration round yields a new one.
type RecipeCandidate struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Directions  []string `json:"directions"`
}

// Validate checks the candidate against the expected schema. A candidate with
// an empty title, no ingredients or no directions is rejected at the boundary.
func (r *RecipeCandidate) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("recipe title is empty")
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("recipe has no ingredients")
	}
	if len(r.Directions) == 0 {
		return fmt.Errorf("recipe has no directions")
	}
	return nil
}

// Description renders the candidate as a single text block, used as the
// reference text for image similarity scoring.
func (r *RecipeCandidate) Description() string {
	out := r.Title
	for _, ing := range r.Ingredients {
		out += " " + ing
	}
	return out
}

// ReviewVerdict is the review collaborator's judgement of a candidate.
type ReviewVerdict struct {
	Approved         bool     `json:"approved"`
	IngredientsToBuy []string `json:"ingredients_to_buy"`
	Explanation      string   `json:"explanation"`
}

// RetrievedRecipe is a read-only projection of a vector index entry's metadata.
// Fields missing from the metadata default to the empty string.
type RetrievedRecipe struct {
	Title       string `json:"title"`
	Ingredients string `json:"ingredients"`
	Directions  string `json:"directions"`
}

// PipelineResult is the full outcome of one recipe generation request.
// Results are cached in Redis for later retrieval by ID.
type PipelineResult struct {
	ID               string          `json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	Question         string          `json:"question"`
	Ingredients      string          `json:"ingredients"`
	Recipe           RecipeCandidate `json:"recipe"`
	Approved         bool            `json:"approved"`
	Attempts         int             `json:"attempts"`
	IngredientsToBuy []string        `json:"ingredients_to_buy"`
	ImageURL         string          `json:"image_url,omitempty"`
	ShoppingSummary  string          `json:"shopping_summary,omitempty"`
}
