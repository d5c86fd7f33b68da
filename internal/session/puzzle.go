package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/tatianab/adventure-engine/internal/generator"
	"github.com/tatianab/adventure-engine/internal/state"
)

// evaluatePuzzleAction resolves one interaction with an environmental puzzle
// element, optionally using an inventory item. The generator judges the
// attempt; element state, clues and the solved flag are merged into the
// stored puzzle record. A solved puzzle stays solved and never re-emits the
// solved event.
func (c *Controller) evaluatePuzzleAction(ctx context.Context, puzzleID, elementID, itemID string) {
	if c.modelID == "" {
		c.gameOver("No generation model is configured; the story cannot continue.")
		return
	}
	snapshot := c.store.Snapshot()
	puzzle, ok := snapshot.PuzzleLog[puzzleID]
	if !ok {
		c.log.Error().Str("puzzle_id", puzzleID).Msg("puzzle not found")
		c.ui.ShowMessage(LevelError, "Nothing about this seems workable.")
		return
	}
	alreadySolved := puzzle.Status == state.PuzzleSolved

	c.store.LogEvent(
		fmt.Sprintf("Player interacted with '%s' of puzzle '%s'.", elementID, puzzleID),
		state.EventPuzzleInteract, []string{puzzleID}, map[string]any{"element_id": elementID, "item_id": itemID})

	prompt, err := c.prompts.PuzzlePrompt(puzzleID, elementID, itemID, puzzle, snapshot.CurrentScene)
	var eval generator.PuzzleEval
	if err == nil {
		var raw string
		raw, err = c.gen.Generate(ctx, prompt, c.modelID, generator.ResponsePuzzleEval)
		if err == nil {
			eval, err = generator.ParsePuzzleEval(raw)
		}
	}
	if err != nil {
		if errors.Is(err, generator.ErrModelNotConfigured) {
			c.gameOver("No generation model is configured; the story cannot continue.")
			return
		}
		c.log.Error().Err(err).Str("puzzle_id", puzzleID).Msg("puzzle evaluation failed")
		c.ui.ShowMessage(LevelError, "You fiddle with it, but nothing gives.")
		return
	}

	updated := puzzle.Clone()
	changed := false
	if len(eval.UpdatedElementState) > 0 {
		if updated.ElementsState == nil {
			updated.ElementsState = make(map[string]string, len(eval.UpdatedElementState))
		}
		for k, v := range eval.UpdatedElementState {
			if updated.ElementsState[k] != v {
				updated.ElementsState[k] = v
				changed = true
			}
		}
	}
	for _, clue := range eval.NewCluesRevealed {
		if !containsString(updated.CluesFound, clue) {
			updated.CluesFound = append(updated.CluesFound, clue)
			changed = true
		}
	}
	if eval.Solved && !alreadySolved {
		updated.Status = state.PuzzleSolved
		changed = true
	}

	if changed {
		puzzles := snapshot.PuzzleLog
		puzzles[puzzleID] = updated
		c.store.Apply(state.Update{PuzzleLog: puzzles})
		c.store.LogEvent(
			fmt.Sprintf("Puzzle '%s' state updated.", puzzleID),
			state.EventPuzzleUpdate, []string{puzzleID}, map[string]any{
				"elements_state": updated.ElementsState,
				"clues_found":    updated.CluesFound,
			})
	}
	if eval.Solved && !alreadySolved {
		c.store.LogEvent(
			fmt.Sprintf("Puzzle '%s' solved.", puzzleID),
			state.EventPuzzleSolved, []string{puzzleID}, nil)
	}

	narrative := eval.ActionFeedback
	if eval.Solved && eval.SolutionNarrative != "" {
		narrative += "\n\n" + eval.SolutionNarrative
	}
	c.ui.RenderNarrative(narrative)

	for _, kr := range eval.KnowledgeRevealed {
		sourceType := kr.SourceType
		if sourceType == "" {
			sourceType = "puzzle"
		}
		sourceDetail := kr.SourceDetail
		if sourceDetail == "" {
			sourceDetail = puzzleID
		}
		c.UnlockKnowledgeEntry(ctx, sourceType, sourceDetail, kr.TopicID+": "+kr.Summary)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
