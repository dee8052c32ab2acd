package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/plateful/souschef/internal/service"
)

// PromptAuthor turns a recipe description into an image generation prompt.
type PromptAuthor interface {
	AuthorImagePrompt(ctx context.Context, recipeDescription string) (string, error)
}

// Generator produces one image for a prompt.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Scorer rates how well an image matches a text description.
type Scorer interface {
	Score(ctx context.Context, image []byte, text string) (float64, error)
}

// ImageSelector generates several images for the same prompt and keeps the one
// scoring highest against the recipe description.
type ImageSelector struct {
	prompter   PromptAuthor
	generator  Generator
	scorer     Scorer
	iterations int
}

// NewImageSelector creates a new ImageSelector instance
func NewImageSelector(prompter PromptAuthor, generator Generator, scorer Scorer, iterations int) *ImageSelector {
	if iterations < 1 {
		iterations = 1
	}
	return &ImageSelector{
		prompter:   prompter,
		generator:  generator,
		scorer:     scorer,
		iterations: iterations,
	}
}

// Select authors one prompt, generates iterations candidate images and returns
// the highest-scoring one. Ties keep the earliest candidate. Failed rounds are
// skipped; only when every round fails does selection fail as a whole.
func (s *ImageSelector) Select(ctx context.Context, recipeDescription string) ([]byte, error) {
	prompt, err := s.prompter.AuthorImagePrompt(ctx, recipeDescription)
	if err != nil {
		return nil, fmt.Errorf("%w: prompt authoring: %v", service.ErrImageSelection, err)
	}

	var best []byte
	bestScore := 0.0
	found := false

	for i := 0; i < s.iterations; i++ {
		image, err := s.generator.GenerateImage(ctx, prompt)
		if err != nil {
			log.Printf("[ImageSelector] Generation round %d failed: %v", i+1, err)
			continue
		}

		score, err := s.scorer.Score(ctx, image, recipeDescription)
		if err != nil {
			log.Printf("[ImageSelector] Scoring round %d failed: %v", i+1, err)
			continue
		}

		log.Printf("[ImageSelector] Round %d scored %.4f", i+1, score)
		if !found || score > bestScore {
			best = image
			bestScore = score
			found = true
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: all %d generation rounds failed", service.ErrImageSelection, s.iterations)
	}

	log.Printf("[ImageSelector] Selected image with score %.4f", bestScore)
	return best, nil
}
