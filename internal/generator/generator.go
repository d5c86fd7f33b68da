// Package generator defines the narrative-content generator contract: the
// call interface, the structured payloads exchanged for each response type,
// and the parsing that turns raw model output into typed values.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ResponseType selects which structured-content contract a Generate call
// expects back.
type ResponseType string

const (
	ResponseScene        ResponseType = "scene_description"
	ResponseDialogue     ResponseType = "npc_dialogue_response"
	ResponseCombatTurn   ResponseType = "combat_turn_outcome"
	ResponsePuzzleEval   ResponseType = "environmental_puzzle_solution_eval"
	ResponseCodexEntry   ResponseType = "codex_entry_generation"
	ResponseDynamicEvent ResponseType = "dynamic_event_outcome"
	ResponseWeather      ResponseType = "weather_update_description"
)

var (
	// ErrUnavailable means the generator produced no content.
	ErrUnavailable = errors.New("generator returned no content")
	// ErrMalformedResponse means the structured payload failed to parse.
	// Callers treat it identically to ErrUnavailable.
	ErrMalformedResponse = errors.New("malformed generator response")
	// ErrModelNotConfigured means no generation model is selected; no
	// further content can be produced.
	ErrModelNotConfigured = errors.New("no generation model configured")
)

// Generator produces structured narrative content and image assets. All
// calls are awaited to completion; a failed call is terminal for that call
// and is never retried here.
type Generator interface {
	Generate(ctx context.Context, prompt, modelID string, responseType ResponseType) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Delta is a parsed numeric change. Signed strings ("+5", "-2") are relative
// deltas; bare numbers ("12") are absolute values. Parsing happens eagerly
// at the response boundary so no string-encoded numbers reach business
// logic.
type Delta struct {
	Relative bool
	Value    int
}

// Apply resolves the delta against a current value.
func (d Delta) Apply(current int) int {
	if d.Relative {
		return current + d.Value
	}
	return d.Value
}

// ParseDelta parses a string-encoded numeric change.
func ParseDelta(s string) (Delta, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Delta{}, fmt.Errorf("empty delta: %w", ErrMalformedResponse)
	}
	relative := s[0] == '+' || s[0] == '-'
	v, err := strconv.Atoi(s)
	if err != nil {
		return Delta{}, fmt.Errorf("delta %q: %w", s, ErrMalformedResponse)
	}
	return Delta{Relative: relative, Value: v}, nil
}

// FloatDelta is the fractional counterpart of Delta, for chance-style stats.
type FloatDelta struct {
	Relative bool
	Value    float64
}

// Apply resolves the delta against a current value.
func (d FloatDelta) Apply(current float64) float64 {
	if d.Relative {
		return current + d.Value
	}
	return d.Value
}

// ParseFloatDelta parses a string-encoded fractional change.
func ParseFloatDelta(s string) (FloatDelta, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FloatDelta{}, fmt.Errorf("empty delta: %w", ErrMalformedResponse)
	}
	relative := s[0] == '+' || s[0] == '-'
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return FloatDelta{}, fmt.Errorf("delta %q: %w", s, ErrMalformedResponse)
	}
	return FloatDelta{Relative: relative, Value: v}, nil
}
