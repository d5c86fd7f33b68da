package state

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(zerolog.Nop())
}

func TestNewStoreDefaults(t *testing.T) {
	s := newTestStore(t)
	w := s.Snapshot()

	attrs := w.Player.Attributes
	assert.Equal(t, 10, attrs.Strength)
	assert.Equal(t, 10, attrs.Dexterity)
	assert.Equal(t, 10, attrs.Intelligence)
	assert.Equal(t, 100, attrs.Sanity)
	assert.Equal(t, 100, attrs.Willpower)
	assert.Equal(t, 5, attrs.Insight)
	assert.Equal(t, 100, attrs.CurrentHP)
	assert.Equal(t, 100, attrs.MaxHP)

	assert.Equal(t, Weather{
		Condition:          "clear",
		Intensity:          "mild",
		EffectsDescription: "The sky is clear and the air is calm.",
	}, w.Weather)

	for _, slot := range []string{"head", "torso", "hands", "legs", "feet", "main_hand", "off_hand"} {
		_, ok := w.Player.Equipment[slot]
		assert.True(t, ok, "missing equipment slot %q", slot)
	}
	assert.Equal(t, 0, w.GameTime)
	assert.Empty(t, w.SceneHistory)
}

func TestInitializeOverlaysPlayerAttributes(t *testing.T) {
	s := newTestStore(t)
	s.Initialize(Conception{
		Title: "The Hollow City",
		Player: &PlayerConception{
			Attributes: map[string]float64{
				"strength":    15,
				"occult_lore": 3,
			},
		},
	})

	w := s.Snapshot()
	assert.Equal(t, "The Hollow City", w.Title)
	assert.Equal(t, 15, w.Player.Attributes.Strength)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10, w.Player.Attributes.Dexterity)
	assert.Equal(t, 100, w.Player.Attributes.Sanity)
	// Unknown keys land in Extra instead of being dropped.
	assert.Equal(t, 3.0, w.Player.Attributes.Extra["occult_lore"])
}

func TestInitializeSynthesizesNPCs(t *testing.T) {
	s := newTestStore(t)
	s.Initialize(Conception{
		Characters: []Character{
			{
				Name: "Old Man Jenkins",
				Role: "lighthouse keeper",
				Attributes: map[string]float64{
					"attack_power":               7,
					"disposition_towards_player": 20,
				},
			},
		},
	})

	w := s.Snapshot()
	npc, ok := w.NPCs["old_man_jenkins"]
	require.True(t, ok, "NPC id should derive from the name")
	assert.Equal(t, "Old Man Jenkins", npc.Name)
	assert.Equal(t, 20, npc.Disposition)
	assert.Equal(t, 7, npc.Attributes.AttackPower)
	// Unspecified combat stats come from the default template.
	assert.Equal(t, 50, npc.Attributes.CurrentHP)
	assert.Equal(t, 50, npc.Attributes.MaxHP)
	assert.Equal(t, 3, npc.Attributes.DefensePower)
	assert.InDelta(t, 0.7, npc.Attributes.HitChance, 1e-9)
	assert.NotContains(t, npc.Attributes.Extra, "disposition_towards_player")
}

func TestInitializeLeavesConceptionUntouched(t *testing.T) {
	s := newTestStore(t)
	doc := Conception{
		Characters: []Character{{
			Name: "Keeper",
			Attributes: map[string]float64{
				"disposition_towards_player": 20,
				"attack_power":               7,
			},
		}},
	}

	s.Initialize(doc)

	// The caller's document is input, not working storage.
	assert.Equal(t, 20.0, doc.Characters[0].Attributes["disposition_towards_player"])
	npc := s.Snapshot().NPCs["keeper"]
	assert.Equal(t, 20, npc.Disposition)
	assert.NotContains(t, npc.Attributes.Extra, "disposition_towards_player")
}

func TestInitializeReplacesPlayerCollections(t *testing.T) {
	s := newTestStore(t)
	s.Initialize(Conception{
		Player: &PlayerConception{
			Skills:     []Skill{{Name: "Lockpicking"}},
			Inventory:  []Item{{ID: "lantern", Name: "Lantern", Quantity: 1}},
			LocationID: "harbor",
		},
	})

	w := s.Snapshot()
	require.Len(t, w.Player.Skills, 1)
	assert.Equal(t, "Lockpicking", w.Player.Skills[0].Name)
	require.Len(t, w.Player.Inventory, 1)
	assert.Equal(t, "lantern", w.Player.Inventory[0].ID)
	assert.Equal(t, "harbor", w.Player.LocationID)
	// Equipment was not supplied and keeps the default slots.
	assert.Contains(t, w.Player.Equipment, "main_hand")
}

func TestSnapshotIsIsolatedFromStore(t *testing.T) {
	s := newTestStore(t)
	s.Initialize(Conception{
		Characters: []Character{{Name: "Warden"}},
	})

	w := s.Snapshot()
	npc := w.NPCs["warden"]
	npc.Name = "Imposter"
	w.NPCs["warden"] = npc
	w.Player.Attributes.Strength = 99
	w.Player.Inventory = append(w.Player.Inventory, Item{ID: "sword"})

	fresh := s.Snapshot()
	assert.Equal(t, "Warden", fresh.NPCs["warden"].Name)
	assert.Equal(t, 10, fresh.Player.Attributes.Strength)
	assert.Empty(t, fresh.Player.Inventory)
}

func TestApplyIsIsolatedFromCaller(t *testing.T) {
	s := newTestStore(t)

	player := s.Snapshot().Player
	player.Attributes.Strength = 12
	s.Apply(Update{Player: &player})

	// Mutating the value after Apply must not leak into the store.
	player.Attributes.Strength = 0
	assert.Equal(t, 12, s.Snapshot().Player.Attributes.Strength)
}

func TestApplySceneAppendsHistory(t *testing.T) {
	s := newTestStore(t)

	long := strings.Repeat("a", 80)
	first := Scene{ID: "scene_1", Narrative: long}
	s.Apply(Update{CurrentScene: &first})

	tick := 3
	s.Apply(Update{GameTime: &tick})
	second := Scene{ID: "scene_2", Narrative: "short"}
	s.Apply(Update{CurrentScene: &second})

	w := s.Snapshot()
	require.Len(t, w.SceneHistory, 2)
	assert.Equal(t, "scene_1", w.SceneHistory[0].SceneID)
	assert.Equal(t, 0, w.SceneHistory[0].Time)
	assert.Equal(t, strings.Repeat("a", 50)+"...", w.SceneHistory[0].NarrativeSnippet)
	assert.Equal(t, "scene_2", w.SceneHistory[1].SceneID)
	assert.Equal(t, 3, w.SceneHistory[1].Time)
	assert.Equal(t, "short...", w.SceneHistory[1].NarrativeSnippet)
	assert.Equal(t, "scene_2", w.CurrentScene.ID)
}

func TestGameTimeNeverDecreases(t *testing.T) {
	s := newTestStore(t)

	five, three := 5, 3
	s.Apply(Update{GameTime: &five})
	s.Apply(Update{GameTime: &three})
	assert.Equal(t, 5, s.Snapshot().GameTime)
}

func TestLogEventStampsGameTime(t *testing.T) {
	s := newTestStore(t)
	seven := 7
	s.Apply(Update{GameTime: &seven})

	payload := map[string]any{"detail": "value"}
	s.LogEvent("Something happened.", EventGeneral, []string{"cause"}, payload)
	payload["detail"] = "mutated"

	w := s.Snapshot()
	require.Len(t, w.EventLog, 1)
	ev := w.EventLog[0]
	assert.Equal(t, 7, ev.Time)
	assert.Equal(t, EventGeneral, ev.Type)
	assert.Equal(t, []string{"cause"}, ev.CausalFactors)
	assert.Equal(t, "value", ev.Payload["detail"])
}

func TestDeriveID(t *testing.T) {
	assert.Equal(t, "old_man_jenkins", DeriveID("Old Man Jenkins"))
	assert.Equal(t, "dr_north", DeriveID("  Dr. North "))
	assert.Equal(t, "agent_7", DeriveID("Agent 7"))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "N/A...", snippet("", 50))
	assert.Equal(t, "hello...", snippet("hello", 50))
	assert.Equal(t, "ab...", snippet("abcd", 2))
}
