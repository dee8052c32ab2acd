package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/plateful/souschef/internal/service"
	"github.com/plateful/souschef/internal/types"
)

// Synthesizer produces a recipe candidate; a non-empty feedback string carries
// the reviewer's objection from the previous attempt.
type Synthesizer interface {
	GenerateRecipe(ctx context.Context, question, ingredients string, retrieved []types.RetrievedRecipe, feedback string) (*types.RecipeCandidate, error)
}

// Reviewer judges a candidate against the user's request.
type Reviewer interface {
	ReviewRecipe(ctx context.Context, question, ingredients string, candidate *types.RecipeCandidate) (*types.ReviewVerdict, error)
}

type loopState int

const (
	stateGenerating loopState = iota
	stateReviewing
	stateApproved
	stateExhausted
)

// ValidationResult is the outcome of a validation loop run. Recipe and
// IngredientsToBuy always come from the same generation round.
type ValidationResult struct {
	Recipe           *types.RecipeCandidate
	IngredientsToBuy []string
	Approved         bool
	Attempts         int
}

// ValidationLoop drives the generate-review cycle. Each attempt is one
// generation plus at most one review, so a run issues at most 2*maxAttempts
// model calls.
type ValidationLoop struct {
	synthesizer Synthesizer
	reviewer    Reviewer
	maxAttempts int
}

// NewValidationLoop creates a new ValidationLoop instance
func NewValidationLoop(synthesizer Synthesizer, reviewer Reviewer, maxAttempts int) *ValidationLoop {
	return &ValidationLoop{
		synthesizer: synthesizer,
		reviewer:    reviewer,
		maxAttempts: maxAttempts,
	}
}

// Run generates candidates until one is approved or the attempt budget is
// spent. A rejection feeds the reviewer's explanation into the next generation;
// generation and review errors consume the attempt and the loop moves on.
// When the budget runs out the last candidate is returned unapproved, and
// ErrSynthesisExhausted only when no candidate was ever produced.
func (l *ValidationLoop) Run(ctx context.Context, question, ingredients string, retrieved []types.RetrievedRecipe) (*ValidationResult, error) {
	budget := l.maxAttempts
	if budget < 1 {
		budget = 1
	}

	var (
		attempt       int
		feedback      string
		candidate     *types.RecipeCandidate
		lastCandidate *types.RecipeCandidate
		toBuy         []string
		state         = stateGenerating
	)

	for state != stateApproved && state != stateExhausted {
		switch state {
		case stateGenerating:
			c, err := l.synthesizer.GenerateRecipe(ctx, question, ingredients, retrieved, feedback)
			if err != nil {
				log.Printf("[ValidationLoop] Generation attempt %d failed: %v", attempt+1, err)
				attempt++
				if attempt >= budget {
					state = stateExhausted
				}
				continue
			}
			candidate = c
			lastCandidate = c
			state = stateReviewing

		case stateReviewing:
			verdict, err := l.reviewer.ReviewRecipe(ctx, question, ingredients, candidate)
			if err != nil {
				log.Printf("[ValidationLoop] Review of attempt %d failed: %v", attempt+1, err)
				attempt++
				if attempt >= budget {
					state = stateExhausted
				} else {
					state = stateGenerating
				}
				continue
			}

			toBuy = verdict.IngredientsToBuy
			if verdict.Approved {
				state = stateApproved
				continue
			}

			log.Printf("[ValidationLoop] Attempt %d rejected: %s", attempt+1, verdict.Explanation)
			feedback = verdict.Explanation
			attempt++
			if attempt >= budget {
				state = stateExhausted
			} else {
				state = stateGenerating
			}
		}
	}

	if state == stateApproved {
		return &ValidationResult{
			Recipe:           candidate,
			IngredientsToBuy: toBuy,
			Approved:         true,
			Attempts:         attempt + 1,
		}, nil
	}

	if lastCandidate == nil {
		return nil, fmt.Errorf("%w: no candidate produced in %d attempts", service.ErrSynthesisExhausted, budget)
	}

	log.Printf("[ValidationLoop] Budget of %d attempts exhausted, returning last unapproved candidate", budget)
	return &ValidationResult{
		Recipe:           lastCandidate,
		IngredientsToBuy: toBuy,
		Approved:         false,
		Attempts:         attempt,
	}, nil
}
