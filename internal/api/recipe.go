package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/plateful/souschef/internal/pipeline"
	"github.com/plateful/souschef/internal/service"
	"github.com/plateful/souschef/internal/types"
)

// RecipeHandler serves recipe generation and result retrieval.
type RecipeHandler struct {
	pipeline *pipeline.Pipeline
	results  *service.ResultCache
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(p *pipeline.Pipeline, results *service.ResultCache) *RecipeHandler {
	return &RecipeHandler{pipeline: p, results: results}
}

// GenerateRecipe runs the full pipeline for one request.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	var req types.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pipeline.Generate(c.Request.Context(), req.Question, req.Ingredients)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSynthesisExhausted):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not produce a valid recipe for this request"})
		case errors.Is(err, service.ErrRetrieval):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Recipe search is unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResult returns a previously generated result by ID.
func (h *RecipeHandler) GetResult(c *gin.Context) {
	id := c.Param("id")
	if h.results == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Result not found"})
		return
	}

	result, err := h.results.GetResult(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Result not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load result"})
		return
	}

	c.JSON(http.StatusOK, result)
}
