package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tripplanner-service/internal/domain/repository"
	"tripplanner-service/pkg/logger"
	"tripplanner-service/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// PlanningRepository sends planning queries to a chat model and decodes the
// JSON answer into the caller's schema type
type PlanningRepository struct {
	model       llms.Model
	validate    *validator.Validate
	logger      logger.Logger
	temperature float64
}

// NewOpenAIModel creates the chat model used for planning
func NewOpenAIModel(apiKey, model, baseURL string) (llms.Model, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("planning model needs an API key")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
	}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return client, nil
}

// NewPlanningRepository creates a new planning repository
func NewPlanningRepository(model llms.Model, temperature float64, logger logger.Logger) repository.PlanningRepository {
	return &PlanningRepository{
		model:       model,
		validate:    validator.New(),
		logger:      logger,
		temperature: temperature,
	}
}

// Invoke runs one planning query. The answer must be JSON matching the
// query schema and pass the validation tags of out.
func (r *PlanningRepository) Invoke(ctx context.Context, query repository.PlanningQuery, out interface{}) error {
	system := query.Instructions
	if query.Schema != "" {
		system += "\n\nAnswer only with JSON in exactly this shape:\n" + query.Schema
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(query.Input)},
		},
	}

	started := time.Now()
	resp, err := r.model.GenerateContent(ctx, messages,
		llms.WithTemperature(r.temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return fmt.Errorf("planning service call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return fmt.Errorf("planning service returned no answer")
	}

	answer := resp.Choices[0].Content
	r.logger.Debug("Planning answer received",
		"stage", query.Stage,
		"duration", time.Since(started),
		"length", len(answer))

	raw, err := utils.ExtractJSON(answer)
	if err != nil {
		return fmt.Errorf("planning answer is not JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("planning answer does not match the schema: %w", err)
	}
	if err := r.validate.Struct(out); err != nil {
		return fmt.Errorf("planning answer failed validation: %w", err)
	}
	return nil
}
