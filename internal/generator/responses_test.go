package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripFences(tc.in))
		})
	}
}

func TestParseScene(t *testing.T) {
	raw := "```json\n" + `{
		"scene_id": "lighthouse_base",
		"narrative": "The lighthouse looms above you.",
		"npcs_in_scene": [{"id": "keeper", "name": "The Keeper", "status": "watchful"}],
		"interactive_elements": [
			{"id": "door", "name": "Rusted door", "type": "navigate", "target_id": "lighthouse_interior"}
		],
		"on_scene_load_knowledge": [{"topic_id": "the_light", "summary": "The light never goes out."}]
	}` + "\n```"

	sc, err := ParseScene(raw)
	require.NoError(t, err)
	assert.Equal(t, "lighthouse_base", sc.SceneID)
	require.Len(t, sc.InteractiveElements, 1)
	assert.Equal(t, "lighthouse_interior", sc.InteractiveElements[0].TargetID)
	require.Len(t, sc.OnSceneLoadKnowledge, 1)
	assert.Equal(t, "the_light", sc.OnSceneLoadKnowledge[0].TopicID)
}

func TestParseSceneRejectsEmptyContent(t *testing.T) {
	_, err := ParseScene(`{"scene_id": "x"}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseScene("not json at all")
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseScene("   ")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestParseDialogue(t *testing.T) {
	raw := `{
		"dialogue_text": "Leave while you still can.",
		"new_npc_status": "hostile",
		"attitude_towards_player_change": "-2",
		"dialogue_options_for_player": [{"id": "ask_why", "name": "Ask why"}]
	}`

	d, err := ParseDialogue(raw)
	require.NoError(t, err)
	assert.Equal(t, "Leave while you still can.", d.DialogueText)
	assert.Equal(t, "hostile", d.NewNPCStatus)
	assert.Equal(t, "-2", d.AttitudeChange)
	require.Len(t, d.DialogueOptions, 1)

	_, err = ParseDialogue(`{"new_npc_status": "neutral"}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseCombatTurn(t *testing.T) {
	raw := `{
		"turn_summary_narrative": "You trade blows.",
		"player_hp_change": -5,
		"npc_hp_changes": [{"npc_id": "goblin", "hp_change": -8}],
		"combat_ended": false,
		"player_strategy_feedback": "A solid hit.",
		"available_player_strategies": [{"id": "feint", "name": "Feint"}]
	}`

	c, err := ParseCombatTurn(raw)
	require.NoError(t, err)
	assert.Equal(t, -5, c.PlayerHPChange)
	require.Len(t, c.NPCHPChanges, 1)
	assert.Equal(t, "goblin", c.NPCHPChanges[0].NPCID)
	assert.Equal(t, -8, c.NPCHPChanges[0].HPChange)
	assert.False(t, c.CombatEnded)
	require.Len(t, c.AvailableStrategies, 1)
	assert.Equal(t, "feint", c.AvailableStrategies[0].ID)
}

func TestParsePuzzleEval(t *testing.T) {
	raw := `{
		"puzzle_id": "beacon_mechanism",
		"action_feedback_narrative": "The gear clicks into place.",
		"puzzle_state_changed": true,
		"updated_puzzle_elements_state": {"gear": "aligned"},
		"new_clues_revealed": ["The beacon needs oil."],
		"puzzle_solved": false
	}`

	p, err := ParsePuzzleEval(raw)
	require.NoError(t, err)
	assert.Equal(t, "beacon_mechanism", p.PuzzleID)
	assert.True(t, p.StateChanged)
	assert.Equal(t, "aligned", p.UpdatedElementState["gear"])
	assert.False(t, p.Solved)
}

func TestParseCodexEntryRequiresID(t *testing.T) {
	raw := `{"knowledge_id": "the_light", "title": "The Light", "content": "It never goes out."}`
	e, err := ParseCodexEntry(raw)
	require.NoError(t, err)
	assert.Equal(t, "the_light", e.KnowledgeID)

	_, err = ParseCodexEntry(`{"title": "No ID"}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseWeatherUpdateRequiresCondition(t *testing.T) {
	raw := `{
		"new_weather_condition": "rain",
		"new_weather_intensity": "heavy",
		"weather_effects_description": "Sheets of rain hammer the rocks."
	}`
	w, err := ParseWeatherUpdate(raw)
	require.NoError(t, err)
	assert.Equal(t, "rain", w.NewCondition)

	_, err = ParseWeatherUpdate(`{"new_weather_intensity": "mild"}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseDelta(t *testing.T) {
	d, err := ParseDelta("+5")
	require.NoError(t, err)
	assert.Equal(t, Delta{Relative: true, Value: 5}, d)
	assert.Equal(t, 15, d.Apply(10))

	d, err = ParseDelta("-3")
	require.NoError(t, err)
	assert.Equal(t, Delta{Relative: true, Value: -3}, d)
	assert.Equal(t, 7, d.Apply(10))

	d, err = ParseDelta("12")
	require.NoError(t, err)
	assert.Equal(t, Delta{Relative: false, Value: 12}, d)
	assert.Equal(t, 12, d.Apply(99))

	_, err = ParseDelta("lots")
	assert.ErrorIs(t, err, ErrMalformedResponse)
	_, err = ParseDelta("")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseFloatDelta(t *testing.T) {
	d, err := ParseFloatDelta("+0.05")
	require.NoError(t, err)
	assert.Equal(t, FloatDelta{Relative: true, Value: 0.05}, d)
	assert.InDelta(t, 0.10, d.Apply(0.05), 1e-9)

	d, err = ParseFloatDelta("0.8")
	require.NoError(t, err)
	assert.False(t, d.Relative)
	assert.InDelta(t, 0.8, d.Apply(0.75), 1e-9)

	_, err = ParseFloatDelta("wet")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
