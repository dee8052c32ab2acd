package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"log"

	"github.com/plateful/souschef/internal/search"
	"github.com/plateful/souschef/internal/service"
	"github.com/plateful/souschef/internal/shopping"
	"github.com/plateful/souschef/internal/types"
)

// Pipeline runs the full recipe flow: query composition, retrieval, the
// validation loop, then image selection and shopping reconciliation. Image,
// shopping and caching failures never invalidate an already validated recipe;
// they are logged and the result ships without that enrichment.
type Pipeline struct {
	composer  *search.QueryComposer
	retriever *search.Retriever
	loop      *ValidationLoop
	selector  *ImageSelector
	images    service.ImageServiceInterface
	agent     *shopping.Agent
	results   *service.ResultCache
	topK      int
}

// NewPipeline creates a new Pipeline instance. selector, images, agent and
// results may be nil, which disables the corresponding enrichment stage.
func NewPipeline(
	composer *search.QueryComposer,
	retriever *search.Retriever,
	loop *ValidationLoop,
	selector *ImageSelector,
	images service.ImageServiceInterface,
	agent *shopping.Agent,
	results *service.ResultCache,
	topK int,
) *Pipeline {
	return &Pipeline{
		composer:  composer,
		retriever: retriever,
		loop:      loop,
		selector:  selector,
		images:    images,
		agent:     agent,
		results:   results,
		topK:      topK,
	}
}

// Generate answers one recipe request end to end.
func (p *Pipeline) Generate(ctx context.Context, question, ingredients string) (*types.PipelineResult, error) {
	vector, err := p.composer.Compose(ctx, question, ingredients)
	if err != nil {
		return nil, err
	}

	retrieved, err := p.retriever.Retrieve(ctx, vector, p.topK)
	if err != nil {
		return nil, err
	}
	log.Printf("[Pipeline] Retrieved %d similar recipes", len(retrieved))

	validated, err := p.loop.Run(ctx, question, ingredients, retrieved)
	if err != nil {
		return nil, err
	}

	result := &types.PipelineResult{
		Question:         question,
		Ingredients:      ingredients,
		Recipe:           *validated.Recipe,
		Approved:         validated.Approved,
		Attempts:         validated.Attempts,
		IngredientsToBuy: validated.IngredientsToBuy,
	}

	p.attachImage(ctx, result)
	p.reconcileShopping(ctx, result)

	if p.results != nil {
		if err := p.results.SaveResult(ctx, result); err != nil {
			log.Printf("[Pipeline] Failed to cache result: %v", err)
		}
	}
	return result, nil
}

// attachImage selects and stores the best image for the recipe. On upload
// failure the image is embedded inline so the result still carries it.
func (p *Pipeline) attachImage(ctx context.Context, result *types.PipelineResult) {
	if p.selector == nil {
		return
	}

	image, err := p.selector.Select(ctx, result.Recipe.Description())
	if err != nil {
		if errors.Is(err, service.ErrImageSelection) {
			log.Printf("[Pipeline] Image selection failed, continuing without image: %v", err)
			return
		}
		log.Printf("[Pipeline] Unexpected image selection error, continuing without image: %v", err)
		return
	}

	if p.images != nil {
		url, err := p.images.UploadImage(ctx, image)
		if err == nil {
			result.ImageURL = url
			return
		}
		log.Printf("[Pipeline] Image upload failed, falling back to inline image: %v", err)
	}
	result.ImageURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
}

// reconcileShopping asks the agent to fold the missing ingredients into the
// persistent shopping list.
func (p *Pipeline) reconcileShopping(ctx context.Context, result *types.PipelineResult) {
	if p.agent == nil || len(result.IngredientsToBuy) == 0 {
		return
	}

	summary, err := p.agent.Reconcile(ctx, result.IngredientsToBuy, "")
	if err != nil {
		log.Printf("[Pipeline] Shopping reconciliation failed, continuing without it: %v", err)
		return
	}
	result.ShoppingSummary = summary
}
