package router

import (
	"github.com/gin-gonic/gin"

	"github.com/plateful/souschef/internal/api"
	"github.com/plateful/souschef/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	recipeHandler *api.RecipeHandler,
	shoppingHandler *api.ShoppingHandler,
	healthHandler *api.HealthHandler,
	rateLimiter *middleware.RateLimiter,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")

	recipes := v1.Group("/recipes")
	{
		generate := recipes.Group("")
		if rateLimiter != nil {
			generate.Use(rateLimiter.RateLimitMiddleware())
		}
		generate.POST("/generate", recipeHandler.GenerateRecipe)

		recipes.GET("/results/:id", recipeHandler.GetResult)
	}

	shoppingList := v1.Group("/shopping-list")
	{
		shoppingList.GET("", shoppingHandler.GetShoppingList)
		shoppingList.POST("/reconcile", shoppingHandler.Reconcile)
	}

	return router
}
