package tui

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/adventure-engine/internal/state"
)

func TestSceneMessages(t *testing.T) {
	scene := state.Scene{
		ID:                   "harbor",
		Narrative:            "Waves slap the pier.",
		EnvironmentalEffects: "A thick fog rolls in from the sea.",
	}

	msgs := sceneMessages(scene)
	require.Len(t, msgs, 2)
	assert.Equal(t, logMsg{kind: kindGame, text: "Waves slap the pier."}, msgs[0])
	// The effects text arrives as one entry, not split up.
	assert.Equal(t, logMsg{kind: kindInfo, text: "A thick fog rolls in from the sea."}, msgs[1])
}

func TestSceneMessagesWithoutEffects(t *testing.T) {
	msgs := sceneMessages(state.Scene{Narrative: "An empty room."})
	require.Len(t, msgs, 1)
	assert.Equal(t, kindGame, msgs[0].kind)
}

func TestRenderScenePanel(t *testing.T) {
	scene := state.Scene{
		ID:      "harbor",
		Weather: state.Weather{Condition: "rain", Intensity: "heavy"},
		NPCsInScene: []state.ScenePresence{
			{ID: "keeper", Name: "The Keeper", Status: "watchful"},
		},
		InteractiveElements: []state.InteractiveElement{
			{ID: "door", Name: "Rusted door", Type: state.ElementNavigate},
		},
	}

	panel := renderScenePanel(scene)
	assert.Contains(t, panel, "harbor")
	assert.Contains(t, panel, "rain (heavy)")
	assert.Contains(t, panel, "The Keeper (watchful)")
	assert.Contains(t, panel, "[door] Rusted door")
}

func TestRenderMenu(t *testing.T) {
	store := state.New(zerolog.Nop())
	store.Initialize(state.Conception{Title: "The Hollow City"})
	w := store.Snapshot()
	w.Codex = map[string]state.KnowledgeEntry{
		"the_light": {ID: "the_light", Title: "The Light", Content: "It never goes out."},
	}

	menu := renderMenu(w)
	assert.Contains(t, menu, "The Hollow City")
	assert.Contains(t, menu, "HP 100/100")
	assert.Contains(t, menu, "The Light")
	assert.True(t, strings.Contains(menu, "INVENTORY"))
}
