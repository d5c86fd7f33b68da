package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/tatianab/adventure-engine/internal/config"
	"github.com/tatianab/adventure-engine/internal/generator"
	"github.com/tatianab/adventure-engine/internal/session"
	"github.com/tatianab/adventure-engine/internal/state"
	"github.com/tatianab/adventure-engine/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	var gen generator.Generator
	switch cfg.Backend {
	case config.BackendGemini:
		g, gerr := generator.NewGemini(ctx, cfg.GeminiAPIKey, logger)
		if gerr != nil {
			return fmt.Errorf("creating generator: %w", gerr)
		}
		defer g.Close()
		gen = g
	case config.BackendOpenAI:
		gen = generator.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, logger)
	}

	store := state.New(logger)
	var doc state.Conception
	if cfg.WorldFile != "" {
		doc, err = state.LoadConception(cfg.WorldFile)
		if err != nil {
			return fmt.Errorf("loading world file: %w", err)
		}
	}
	store.Initialize(doc)

	return tui.Run(ctx, func(ui session.Presenter) *session.Controller {
		return session.New(store, gen, ui, cfg.ModelID, logger)
	})
}

// newLogger writes human-readable logs to stderr so they do not fight the
// terminal UI on stdout.
func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
