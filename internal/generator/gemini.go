package generator

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Gemini is the default generator backend.
type Gemini struct {
	client *genai.Client
	log    zerolog.Logger
}

// NewGemini connects a Gemini-backed generator.
func NewGemini(ctx context.Context, apiKey string, logger zerolog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		log:    logger.With().Str("component", "generator").Str("backend", "gemini").Logger(),
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() {
	g.client.Close()
}

// Generate requests structured content from the model.
func (g *Gemini) Generate(ctx context.Context, prompt, modelID string, responseType ResponseType) (string, error) {
	if modelID == "" {
		return "", ErrModelNotConfigured
	}
	model := g.client.GenerativeModel(modelID)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.log.Error().Err(err).Str("response_type", string(responseType)).Msg("generation failed")
		return "", fmt.Errorf("gemini generate: %v: %w", err, ErrUnavailable)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates: %w", ErrUnavailable)
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("gemini returned a non-text part: %w", ErrUnavailable)
	}
	g.log.Debug().Str("response_type", string(responseType)).Int("chars", len(text)).Msg("generation complete")
	return string(text), nil
}

// GenerateImage is not supported by this backend; scenes degrade to text
// only. The OpenAI backend produces real image assets.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("gemini backend has no image model: %w", ErrUnavailable)
}
