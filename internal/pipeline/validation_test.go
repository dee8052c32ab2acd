package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/souschef/internal/service"
	"github.com/plateful/souschef/internal/types"
)

type scriptedSynthesizer struct {
	calls     int
	feedbacks []string
	fn        func(call int, feedback string) (*types.RecipeCandidate, error)
}

func (s *scriptedSynthesizer) GenerateRecipe(ctx context.Context, question, ingredients string, retrieved []types.RetrievedRecipe, feedback string) (*types.RecipeCandidate, error) {
	s.calls++
	s.feedbacks = append(s.feedbacks, feedback)
	return s.fn(s.calls, feedback)
}

type scriptedReviewer struct {
	calls int
	fn    func(call int, candidate *types.RecipeCandidate) (*types.ReviewVerdict, error)
}

func (r *scriptedReviewer) ReviewRecipe(ctx context.Context, question, ingredients string, candidate *types.RecipeCandidate) (*types.ReviewVerdict, error) {
	r.calls++
	return r.fn(r.calls, candidate)
}

func candidateN(n int) *types.RecipeCandidate {
	return &types.RecipeCandidate{
		Title:       fmt.Sprintf("Recipe %d", n),
		Ingredients: []string{"pasta"},
		Directions:  []string{"cook"},
	}
}

func TestValidationLoop(t *testing.T) {
	ctx := context.Background()

	t.Run("first approval stops the loop", func(t *testing.T) {
		synth := &scriptedSynthesizer{fn: func(call int, feedback string) (*types.RecipeCandidate, error) {
			return candidateN(call), nil
		}}
		review := &scriptedReviewer{fn: func(call int, c *types.RecipeCandidate) (*types.ReviewVerdict, error) {
			return &types.ReviewVerdict{Approved: true, IngredientsToBuy: []string{"basil"}}, nil
		}}

		result, err := NewValidationLoop(synth, review, 3).Run(ctx, "q", "i", nil)
		require.NoError(t, err)
		assert.True(t, result.Approved)
		assert.Equal(t, 1, result.Attempts)
		assert.Equal(t, "Recipe 1", result.Recipe.Title)
		assert.Equal(t, []string{"basil"}, result.IngredientsToBuy)
		assert.Equal(t, 1, synth.calls)
		assert.Equal(t, 1, review.calls)
	})

	t.Run("rejection feeds the explanation into the next generation", func(t *testing.T) {
		synth := &scriptedSynthesizer{fn: func(call int, feedback string) (*types.RecipeCandidate, error) {
			return candidateN(call), nil
		}}
		review := &scriptedReviewer{fn: func(call int, c *types.RecipeCandidate) (*types.ReviewVerdict, error) {
			if call == 1 {
				return &types.ReviewVerdict{Approved: false, Explanation: "too bland"}, nil
			}
			return &types.ReviewVerdict{Approved: true}, nil
		}}

		result, err := NewValidationLoop(synth, review, 3).Run(ctx, "q", "i", nil)
		require.NoError(t, err)
		assert.True(t, result.Approved)
		assert.Equal(t, 2, result.Attempts)
		assert.Equal(t, "Recipe 2", result.Recipe.Title)
		require.Equal(t, []string{"", "too bland"}, synth.feedbacks)
	})

	t.Run("persistent rejection exhausts the budget", func(t *testing.T) {
		synth := &scriptedSynthesizer{fn: func(call int, feedback string) (*types.RecipeCandidate, error) {
			return candidateN(call), nil
		}}
		review := &scriptedReviewer{fn: func(call int, c *types.RecipeCandidate) (*types.ReviewVerdict, error) {
			return &types.ReviewVerdict{Approved: false, IngredientsToBuy: []string{"salt"}, Explanation: "no"}, nil
		}}

		result, err := NewValidationLoop(synth, review, 3).Run(ctx, "q", "i", nil)
		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.Equal(t, 3, result.Attempts)
		assert.Equal(t, "Recipe 3", result.Recipe.Title)
		assert.Equal(t, []string{"salt"}, result.IngredientsToBuy)
		assert.Equal(t, 3, synth.calls)
		assert.Equal(t, 3, review.calls)
	})

	t.Run("non-positive budget still generates once", func(t *testing.T) {
		synth := &scriptedSynthesizer{fn: func(call int, feedback string) (*types.RecipeCandidate, error) {
			return candidateN(call), nil
		}}
		review := &scriptedReviewer{fn: func(call int, c *types.RecipeCandidate) (*types.ReviewVerdict, error) {
			return &types.ReviewVerdict{Approved: false}, nil
		}}

		result, err := NewValidationLoop(synth, review, 0).Run(ctx, "q", "i", nil)
		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.Equal(t, 1, synth.calls)
	})

	t.Run("generation errors consume attempts", func(t *testing.T) {
		synth := &scriptedSynthesizer{fn: func(call int, feedback string) (*types.RecipeCandidate, error) {
			if call == 1 {
				return nil, fmt.Errorf("%w: bad JSON", service.ErrSynthesis)
			}
			return candidateN(call), nil
		}}
		review := &scriptedReviewer{fn: func(call int, c *types.RecipeCandidate) (*types.ReviewVerdict, error) {
			return &types.ReviewVerdict{Approved: true}, nil
		}}

		result, err := NewValidationLoop(synth, review, 3).Run(ctx, "q", "i", nil)
		require.NoError(t, err)
		assert.True(t, result.Approved)
		assert.Equal(t, 2, synth.calls)
	})

	t.Run("review errors keep the last candidate for exhaustion", func(t *testing.T) {
		synth := &scriptedSynthesizer{fn: func(call int, feedback string) (*types.RecipeCandidate, error) {
			return candidateN(call), nil
		}}
		review := &scriptedReviewer{fn: func(call int, c *types.RecipeCandidate) (*types.ReviewVerdict, error) {
			return nil, fmt.Errorf("%w: timeout", service.ErrReview)
		}}

		result, err := NewValidationLoop(synth, review, 2).Run(ctx, "q", "i", nil)
		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.Equal(t, "Recipe 2", result.Recipe.Title)
	})

	t.Run("no candidate ever produced is a hard failure", func(t *testing.T) {
		synth := &scriptedSynthesizer{fn: func(call int, feedback string) (*types.RecipeCandidate, error) {
			return nil, errors.New("model offline")
		}}
		review := &scriptedReviewer{fn: func(call int, c *types.RecipeCandidate) (*types.ReviewVerdict, error) {
			panic("review must not run without a candidate")
		}}

		_, err := NewValidationLoop(synth, review, 3).Run(ctx, "q", "i", nil)
		assert.ErrorIs(t, err, service.ErrSynthesisExhausted)
		assert.Equal(t, 3, synth.calls)
	})
}
