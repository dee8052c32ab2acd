package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost         string
	ServerPort         string
	CORSAllowedOrigins []string

	// Database configuration (vector index storage)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (result cache)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Chat-completion endpoint and models
	LLMAPIURL   string
	LLMAPIKey   string
	LLMModel    string
	LLMModelBig string
	ReviewModel string

	// Embedding endpoint
	EmbeddingAPIURL string
	EmbeddingModel  string

	// Image generation and similarity scoring endpoints
	ImageAPIURL string
	ClipAPIURL  string

	// Pipeline parameters
	TopKRecipes     int
	MaxAttempts     int
	ImageIterations int

	// Shopping agent
	ShoppingListPath  string
	ShoppingMaxRounds int
}

// Load creates a new Config instance from environment variables,
// falling back to development defaults where a value is optional.
func Load() (*Config, error) {
	cfg := &Config{
		ServerHost:         getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "souschef"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisURL:      os.Getenv("REDIS_URL"),

		LLMAPIURL:   getEnv("LLM_API_URL", "http://localhost:1234/v1/chat/completions"),
		LLMModel:    getEnv("LLM_MODEL", "qwen3-0.6b"),
		LLMModelBig: getEnv("LLM_MODEL_BIG", "qwen3-8b"),
		ReviewModel: getEnv("REVIEW_MODEL", "gemini-1.5-flash"),

		EmbeddingAPIURL: getEnv("EMBEDDING_API_URL", "http://localhost:1234/v1/embeddings"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "avsolatorio/GIST-large-Embedding-v0"),

		ImageAPIURL: getEnv("IMAGE_API_URL", "http://localhost:7860/sdapi/v1/txt2img"),
		ClipAPIURL:  getEnv("CLIP_API_URL", "http://localhost:8000/v1/similarity"),

		TopKRecipes:     getEnvInt("TOP_K_RECIPES", 3),
		MaxAttempts:     getEnvInt("MAX_ATTEMPTS", 3),
		ImageIterations: getEnvInt("IMAGE_GENERATION_COUNT", 3),

		ShoppingListPath:  getEnv("SHOPPING_LIST_PATH", "shopping_list.txt"),
		ShoppingMaxRounds: getEnvInt("SHOPPING_MAX_ROUNDS", 8),
	}

	apiKey, err := loadSecret("LLM_API_KEY")
	if err != nil {
		return nil, err
	}
	cfg.LLMAPIKey = apiKey

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.TopKRecipes <= 0 {
		return fmt.Errorf("TOP_K_RECIPES must be positive, got %d", c.TopKRecipes)
	}
	if c.ImageIterations < 1 {
		return fmt.Errorf("IMAGE_GENERATION_COUNT must be at least 1, got %d", c.ImageIterations)
	}
	if c.ShoppingMaxRounds < 1 {
		return fmt.Errorf("SHOPPING_MAX_ROUNDS must be at least 1, got %d", c.ShoppingMaxRounds)
	}
	if c.LLMAPIURL == "" {
		return fmt.Errorf("LLM_API_URL must not be empty")
	}
	return nil
}

// loadSecret reads a value from the named environment variable, or from the
// file named by <NAME>_FILE. Local endpoints need no key, so empty is allowed
// when neither is set.
func loadSecret(name string) (string, error) {
	if v := os.Getenv(name); v != "" {
		return v, nil
	}

	file := os.Getenv(name + "_FILE")
	if file == "" {
		return "", nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file for %s: %w", name, err)
	}
	return strings.TrimSpace(string(content)), nil
}

// splitList parses a comma-separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
