package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/souschef/config"
)

func TestSimilarityScore(t *testing.T) {
	t.Run("sends base64 image and returns similarity", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req similarityRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), req.Image)
			assert.Equal(t, "Pasta with tomato", req.Text)
			fmt.Fprint(w, `{"similarity":0.87}`)
		}))
		defer srv.Close()

		svc := NewSimilarityService(&config.Config{ClipAPIURL: srv.URL})
		score, err := svc.Score(context.Background(), []byte("png-bytes"), "Pasta with tomato")
		require.NoError(t, err)
		assert.InDelta(t, 0.87, score, 1e-9)
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad image", http.StatusBadRequest)
		}))
		defer srv.Close()

		svc := NewSimilarityService(&config.Config{ClipAPIURL: srv.URL})
		_, err := svc.Score(context.Background(), []byte("x"), "text")
		assert.Error(t, err)
	})
}
