package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tripplanner-service/internal/domain/repository"
	"tripplanner-service/pkg/logger"
)

// ImageRepository generates cover images with the getimg.ai flux model
type ImageRepository struct {
	logger  logger.Logger
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewImageRepository creates a new image generation repository
func NewImageRepository(baseURL, apiKey string, timeout time.Duration, logger logger.Logger) repository.ImageRepository {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &ImageRepository{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type textToImageRequest struct {
	Prompt         string `json:"prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Steps          int    `json:"steps"`
	OutputFormat   string `json:"output_format"`
	ResponseFormat string `json:"response_format"`
}

// Generate returns the base64 encoded jpeg for prompt
func (r *ImageRepository) Generate(ctx context.Context, prompt string) (string, error) {
	jsonData, err := json.Marshal(textToImageRequest{
		Prompt:         prompt,
		Width:          1024,
		Height:         512,
		Steps:          4,
		OutputFormat:   "jpeg",
		ResponseFormat: "b64",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1/flux-schnell/text-to-image", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("image service returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Image string  `json:"image"`
		Seed  int64   `json:"seed"`
		Cost  float64 `json:"cost"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Image == "" {
		return "", fmt.Errorf("image service returned no image")
	}

	r.logger.Debug("Cover image generated", "seed", response.Seed, "cost", response.Cost)
	return response.Image, nil
}
