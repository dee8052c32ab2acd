package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/plateful/souschef/config"
)

// SimilarityService scores how well an image matches a text description via a
// cross-modal similarity endpoint. The endpoint embeds both sides, L2-normalizes
// the embeddings and returns their dot product (cosine similarity, [-1, 1]).
type SimilarityService struct {
	apiURL string
	client *http.Client
}

// NewSimilarityService creates a new SimilarityService instance
func NewSimilarityService(cfg *config.Config) *SimilarityService {
	return &SimilarityService{
		apiURL: cfg.ClipAPIURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type similarityRequest struct {
	Image string `json:"image"`
	Text  string `json:"text"`
}

type similarityResponse struct {
	Similarity float64 `json:"similarity"`
}

// Score returns the similarity between the image and the text.
func (s *SimilarityService) Score(ctx context.Context, image []byte, text string) (float64, error) {
	jsonData, err := json.Marshal(similarityRequest{
		Image: base64.StdEncoding.EncodeToString(image),
		Text:  text,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("similarity request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result similarityResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Similarity, nil
}
