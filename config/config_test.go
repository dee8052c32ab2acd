package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 3, cfg.TopKRecipes)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 3, cfg.ImageIterations)
	assert.Equal(t, 8, cfg.ShoppingMaxRounds)
	assert.Equal(t, "shopping_list.txt", cfg.ShoppingListPath)
	assert.NotEmpty(t, cfg.LLMModel)
	assert.NotEmpty(t, cfg.LLMModelBig)
	assert.NotEmpty(t, cfg.ReviewModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOP_K_RECIPES", "5")
	t.Setenv("MAX_ATTEMPTS", "1")
	t.Setenv("SHOPPING_MAX_ROUNDS", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.TopKRecipes)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 4, cfg.ShoppingMaxRounds)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadValidation(t *testing.T) {
	t.Run("rejects non-positive top k", func(t *testing.T) {
		t.Setenv("TOP_K_RECIPES", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects zero image iterations", func(t *testing.T) {
		t.Setenv("IMAGE_GENERATION_COUNT", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects zero shopping rounds", func(t *testing.T) {
		t.Setenv("SHOPPING_MAX_ROUNDS", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadSecretFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_api_key")
	require.NoError(t, os.WriteFile(path, []byte("sk-test-key\n"), 0600))
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("LLM_API_KEY_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-key", cfg.LLMAPIKey)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a, b,"))
	assert.Nil(t, splitList(""))
}
