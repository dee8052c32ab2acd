package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/souschef/internal/shopping"
	"github.com/plateful/souschef/internal/types"
)

// ShoppingHandler serves the shopping list and its reconciliation agent.
type ShoppingHandler struct {
	agent *shopping.Agent
}

// NewShoppingHandler creates a new ShoppingHandler instance
func NewShoppingHandler(agent *shopping.Agent) *ShoppingHandler {
	return &ShoppingHandler{agent: agent}
}

// GetShoppingList returns the current shopping list.
func (h *ShoppingHandler) GetShoppingList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shopping_list": h.agent.List().Items()})
}

// Reconcile lets the agent fold the given ingredients into the list.
func (h *ShoppingHandler) Reconcile(c *gin.Context) {
	var req types.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.agent.Reconcile(c.Request.Context(), req.IngredientsToBuy, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shopping list"})
		return
	}

	c.JSON(http.StatusOK, types.ReconcileResponse{
		Summary:      summary,
		ShoppingList: h.agent.List().Items(),
	})
}
