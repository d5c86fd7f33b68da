// Package session drives a single play session: a finite-state controller
// that sequences scene loads, action resolution, combat, dialogue, puzzles
// and time-based world changes, reading and writing the world state store
// and calling out to the narrative generator and the presentation layer.
package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tatianab/adventure-engine/internal/generator"
	"github.com/tatianab/adventure-engine/internal/state"
)

// State is the controller's position in the session state machine.
type State int

const (
	StateInit State = iota
	StatePresentingScene
	StateAwaitingPlayerAction
	StateProcessingAction
	StateNPCDialogue
	StateInCombat
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StatePresentingScene:
		return "PRESENTING_SCENE"
	case StateAwaitingPlayerAction:
		return "AWAITING_PLAYER_ACTION"
	case StateProcessingAction:
		return "PROCESSING_ACTION"
	case StateNPCDialogue:
		return "NPC_DIALOGUE"
	case StateInCombat:
		return "IN_COMBAT"
	case StateGameOver:
		return "GAME_OVER"
	}
	return "UNKNOWN"
}

// MessageLevel classifies presenter messages.
type MessageLevel string

const (
	LevelInfo  MessageLevel = "info"
	LevelWarn  MessageLevel = "warn"
	LevelError MessageLevel = "error"
)

// Presenter is the presentation-layer contract: pure I/O, no state. The
// controller awaits every call to completion before advancing.
type Presenter interface {
	RenderScene(scene state.Scene)
	RenderNarrative(text string)
	ShowMessage(level MessageLevel, text string)

	// PromptAction solicits the player's next move for the given scene:
	// an interactive-element id, a slash command, or free text.
	PromptAction(scene state.Scene) (string, error)

	RenderCombatState(turn int, player generator.CombatantStats, npcs []generator.CombatantStats)
	ChooseStrategy(strategies []generator.Strategy) (string, error)
	RenderCombatResult(summary string)

	RenderDialogue(npcName, text string, options []generator.DialogueOption)
	PromptDialogueReply(options []generator.DialogueOption) (string, error)

	// ShowMenu renders the system menu and its sub-screens (status,
	// inventory, equipment, codex) from a coherent snapshot.
	ShowMenu(snapshot state.WorldState) error

	NotifyWorldEvent(description string)
	NotifyWeather(weather state.Weather)
}

// Controller is the session state machine. Exactly one session is active at
// a time and all work runs synchronously on the caller's goroutine.
type Controller struct {
	store   *state.Store
	gen     generator.Generator
	prompts *generator.PromptBuilder
	ui      Presenter
	log     zerolog.Logger

	modelID string
	st      State
	combat  *combatRecord
}

// New wires a controller. modelID selects the generation model; an empty id
// makes every content-producing flow fatal.
func New(store *state.Store, gen generator.Generator, ui Presenter, modelID string, logger zerolog.Logger) *Controller {
	return &Controller{
		store:   store,
		gen:     gen,
		prompts: generator.NewPromptBuilder(generator.DefaultContextTokenBudget),
		ui:      ui,
		log:     logger.With().Str("component", "session").Logger(),
		modelID: modelID,
		st:      StateInit,
	}
}

// State reports the controller's current state.
func (c *Controller) State() State {
	return c.st
}

// Run executes the session loop until the game is over: present the first
// scene, then solicit and resolve player actions one at a time.
func (c *Controller) Run(ctx context.Context) error {
	snapshot := c.store.Snapshot()
	sceneID := snapshot.InitialSceneID
	if sceneID == "" {
		sceneID = "opening_scene"
	}
	c.InitiateScene(ctx, sceneID)

	for c.st != StateGameOver {
		if err := ctx.Err(); err != nil {
			return err
		}
		scene := c.store.Snapshot().CurrentScene
		choice, err := c.ui.PromptAction(scene)
		if err != nil {
			c.log.Info().Err(err).Msg("input closed, ending session")
			c.st = StateGameOver
			return nil
		}
		choice = strings.TrimSpace(choice)
		switch choice {
		case "":
			continue
		case "/quit":
			c.st = StateGameOver
		case "/menu":
			c.handleMenu()
		default:
			c.ProcessPlayerAction(ctx, choice)
		}
	}
	return nil
}

// handleMenu shows the system menu from a coherent whole-state snapshot.
func (c *Controller) handleMenu() {
	if err := c.ui.ShowMenu(c.store.Snapshot()); err != nil {
		c.log.Warn().Err(err).Msg("menu aborted")
	}
}

// gameOver transitions to the terminal state.
func (c *Controller) gameOver(reason string) {
	c.log.Error().Str("reason", reason).Msg("session over")
	c.ui.ShowMessage(LevelError, reason)
	c.store.LogEvent(reason, state.EventGeneral, nil, map[string]any{"game_over": true})
	c.st = StateGameOver
}
