package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plateful/souschef/config"
	"github.com/plateful/souschef/internal/api"
	"github.com/plateful/souschef/internal/database"
	"github.com/plateful/souschef/internal/middleware"
	"github.com/plateful/souschef/internal/pipeline"
	"github.com/plateful/souschef/internal/router"
	"github.com/plateful/souschef/internal/search"
	"github.com/plateful/souschef/internal/server"
	"github.com/plateful/souschef/internal/service"
	"github.com/plateful/souschef/internal/shopping"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connections
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	gormDB, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to open gorm connection: %v", err)
	}

	if err := database.RunMigrations(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// S3 is optional: without it image URLs fall back to inline data.
	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Printf("S3 unavailable, images will be embedded inline: %v", err)
		s3Config = nil
	}

	// Initialize services
	llmService := service.NewLLMService(cfg)
	embeddingService := service.NewEmbeddingService(cfg)
	similarityService := service.NewSimilarityService(cfg)
	imageService := service.NewImageService(cfg, s3Config)
	resultCache := service.NewResultCache(redisClient)

	// Retrieval
	composer := search.NewQueryComposer(llmService, embeddingService)
	retriever := search.NewRetriever(search.NewPgVectorIndex(gormDB))

	// Shopping agent
	shoppingList, err := shopping.LoadList(cfg.ShoppingListPath)
	if err != nil {
		log.Fatalf("Failed to load shopping list: %v", err)
	}
	agent := shopping.NewAgent(llmService, shoppingList, cfg.ShoppingMaxRounds)

	// Pipeline
	loop := pipeline.NewValidationLoop(llmService, llmService, cfg.MaxAttempts)
	selector := pipeline.NewImageSelector(llmService, imageService, similarityService, cfg.ImageIterations)
	pipe := pipeline.NewPipeline(composer, retriever, loop, selector, imageService, agent, resultCache, cfg.TopKRecipes)

	// HTTP layer
	recipeHandler := api.NewRecipeHandler(pipe, resultCache)
	shoppingHandler := api.NewShoppingHandler(agent)
	healthHandler := api.NewHealthHandler(db, redisClient)
	rateLimiter := middleware.NewGenerationRateLimiter(redisClient)

	engine := router.SetupRouter(recipeHandler, shoppingHandler, healthHandler, rateLimiter, cfg.CORSAllowedOrigins)
	srv := server.New(engine, cfg.ServerHost, cfg.ServerPort)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
