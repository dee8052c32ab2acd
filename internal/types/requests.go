package types

// GenerateRecipeRequest is the payload for POST /api/v1/recipes/generate
type GenerateRecipeRequest struct {
	Question    string `json:"question" binding:"required"`
	Ingredients string `json:"ingredients" binding:"required"`
}

// ReconcileRequest is the payload for POST /api/v1/shopping-list/reconcile
type ReconcileRequest struct {
	IngredientsToBuy []string `json:"ingredients_to_buy" binding:"required"`
	Message          string   `json:"message"`
}

// ReconcileResponse carries the agent's explanation and the resulting list
type ReconcileResponse struct {
	Summary      string   `json:"summary"`
	ShoppingList []string `json:"shopping_list"`
}
