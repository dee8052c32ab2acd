package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/plateful/souschef/config"
)

// negativePrompt is sent with every generation request to suppress the usual
// diffusion artifacts.
const negativePrompt = "blurry, low resolution, watermarks, text, logo, signature, bad anatomy, bad hands, bad proportions, ugly, duplicate, morbid, mutilated, out of frame, extra digit, fewer digits, cropped, worst quality, low quality"

// ImageGenerationRequest represents a request to the txt2img API
type ImageGenerationRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Steps          int    `json:"steps"`
	CfgScale       float64 `json:"cfg_scale"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	SamplerName    string `json:"sampler_name"`
	Seed           int    `json:"seed"`
}

// ImageGenerationResponse represents the response from the txt2img API
type ImageGenerationResponse struct {
	Images []string `json:"images"`
}

// ImageService handles image generation and storage operations
type ImageService struct {
	apiURL   string
	s3Config *config.S3Config
	client   *http.Client
}

// NewImageService creates a new ImageService instance. s3Config may be nil,
// in which case uploads fail and callers fall back to inline image data.
func NewImageService(cfg *config.Config, s3Config *config.S3Config) *ImageService {
	return &ImageService{
		apiURL:   cfg.ImageAPIURL,
		s3Config: s3Config,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// GenerateImage requests one image for the prompt. Sampling is stochastic
// (seed -1), so repeated calls with the same prompt yield different images.
func (s *ImageService) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	reqBody := ImageGenerationRequest{
		Prompt:         prompt,
		NegativePrompt: negativePrompt,
		Steps:          30,
		CfgScale:       7,
		Width:          1024,
		Height:         512,
		SamplerName:    "Euler a",
		Seed:           -1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ImageService] API request failed with status %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result ImageGenerationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Images) == 0 {
		return nil, fmt.Errorf("no image data in API response")
	}

	imageData, err := base64.StdEncoding.DecodeString(result.Images[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}

	return imageData, nil
}

// UploadImage uploads image data to S3 and returns the public URL.
func (s *ImageService) UploadImage(ctx context.Context, imageData []byte) (string, error) {
	if s.s3Config == nil {
		return "", fmt.Errorf("S3 storage not configured")
	}

	fileName := fmt.Sprintf("recipe-images/%s.png", uuid.New().String())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", publicURL)

	return publicURL, nil
}
