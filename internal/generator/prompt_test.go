package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/adventure-engine/internal/state"
)

func TestTruncateContextKeepsTail(t *testing.T) {
	b := NewPromptBuilder(5)

	short := "just a few words"
	assert.Equal(t, short, b.TruncateContext(short))

	long := strings.Repeat("history line\n", 200)
	out := b.TruncateContext(long)
	assert.Less(t, len(out), len(long))
	assert.True(t, strings.HasSuffix(long, out), "truncation should keep the tail")
}

func TestScenePromptEmbedsSceneID(t *testing.T) {
	b := NewPromptBuilder(DefaultContextTokenBudget)
	snapshot := state.WorldState{Title: "The Hollow City", GameTime: 4}

	prompt, err := b.ScenePrompt(snapshot, "lighthouse_base")
	require.NoError(t, err)
	assert.Contains(t, prompt, "lighthouse_base")
	assert.Contains(t, prompt, "The Hollow City")
}

func TestActionPromptEmbedsAction(t *testing.T) {
	b := NewPromptBuilder(DefaultContextTokenBudget)
	snapshot := state.WorldState{
		CurrentScene: state.Scene{ID: "harbor"},
	}

	prompt, err := b.ActionPrompt(snapshot, "search the crates")
	require.NoError(t, err)
	assert.Contains(t, prompt, "search the crates")
	assert.Contains(t, prompt, "harbor")
}

func TestCombatTurnPromptEmbedsStats(t *testing.T) {
	b := NewPromptBuilder(DefaultContextTokenBudget)

	prompt, err := b.CombatTurnPrompt("attack", 2,
		CombatantStats{ID: "player", Name: "You", CurrentHP: 95, MaxHP: 100},
		[]CombatantStats{{ID: "goblin", Name: "Goblin", CurrentHP: 42, MaxHP: 50}})
	require.NoError(t, err)
	assert.Contains(t, prompt, "attack")
	assert.Contains(t, prompt, "goblin")
	assert.Contains(t, prompt, "42")
}
