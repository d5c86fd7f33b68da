package generator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are the narrative engine of a turn-based text adventure. " +
	"Respond only with the requested JSON object, no prose around it."

// OpenAI is an alternate generator backend for OpenAI-compatible APIs.
type OpenAI struct {
	client *openai.Client
	log    zerolog.Logger
}

// NewOpenAI builds an OpenAI-backed generator. baseURL may point at any
// compatible endpoint; empty means the default API.
func NewOpenAI(apiKey, baseURL string, logger zerolog.Logger) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		log:    logger.With().Str("component", "generator").Str("backend", "openai").Logger(),
	}
}

// Generate requests structured content from the model.
func (o *OpenAI) Generate(ctx context.Context, prompt, modelID string, responseType ResponseType) (string, error) {
	if modelID == "" {
		return "", ErrModelNotConfigured
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		o.log.Error().Err(err).Str("response_type", string(responseType)).Msg("generation failed")
		return "", fmt.Errorf("openai generate: %v: %w", err, ErrUnavailable)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned no choices: %w", ErrUnavailable)
	}
	o.log.Debug().
		Str("response_type", string(responseType)).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("generation complete")
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests an image asset and returns its URL.
func (o *OpenAI) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt: prompt,
		Model:  openai.CreateImageModelDallE3,
		N:      1,
		Size:   openai.CreateImageSize1024x1024,
	})
	if err != nil {
		return "", fmt.Errorf("openai image: %v: %w", err, ErrUnavailable)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("openai returned no image data: %w", ErrUnavailable)
	}
	return resp.Data[0].URL, nil
}
