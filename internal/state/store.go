package state

import (
	"strings"

	"github.com/rs/zerolog"
)

// Store owns the authoritative world record for a single session. Values
// cross the API only as clones, so mutating anything a caller holds never
// touches stored state and vice versa. The record lives for the process
// lifetime only.
type Store struct {
	log  zerolog.Logger
	data WorldState
}

// New builds a store seeded with built-in defaults.
func New(logger zerolog.Logger) *Store {
	return &Store{
		log: logger.With().Str("component", "state").Logger(),
		data: WorldState{
			Player: PlayerState{
				Attributes: DefaultPlayerAttributes(),
				Equipment:  defaultEquipmentSlots(),
			},
			NPCs:      map[string]NPC{},
			PuzzleLog: map[string]PuzzleState{},
			Codex:     map[string]KnowledgeEntry{},
			Weather:   DefaultWeather(),
		},
	}
}

// DefaultPlayerAttributes is the baseline the conception document overlays.
func DefaultPlayerAttributes() Attributes {
	return Attributes{
		Strength:      10,
		Dexterity:     10,
		Intelligence:  10,
		Sanity:        100,
		Willpower:     100,
		Insight:       5,
		CurrentHP:     100,
		MaxHP:         100,
		AttackPower:   10,
		DefensePower:  5,
		EvasionChance: 0.05,
		HitChance:     0.75,
	}
}

// DefaultNPCAttributes is the combat-stat template raw characters overlay.
func DefaultNPCAttributes() Attributes {
	return Attributes{
		CurrentHP:     50,
		MaxHP:         50,
		AttackPower:   8,
		DefensePower:  3,
		EvasionChance: 0.05,
		HitChance:     0.7,
	}
}

// DefaultWeather is the clear/mild baseline.
func DefaultWeather() Weather {
	return Weather{
		Condition:          "clear",
		Intensity:          "mild",
		EffectsDescription: "The sky is clear and the air is calm.",
	}
}

func defaultEquipmentSlots() map[string]string {
	return map[string]string{
		"head": "", "torso": "", "hands": "",
		"legs": "", "feet": "", "main_hand": "", "off_hand": "",
	}
}

// Initialize merges the world conception document over the built-in
// defaults. Player attributes overlay key by key; skills, inventory,
// equipment and location replace wholesale only when present. Raw characters
// are synthesized into the NPC map against the default combat template.
func (s *Store) Initialize(doc Conception) {
	s.data.Title = doc.Title
	s.data.Setting = doc.Setting
	s.data.InitialSceneID = doc.InitialSceneID

	if doc.Player != nil {
		p := &s.data.Player
		p.Attributes = overlayAttributes(p.Attributes, doc.Player.Attributes)
		if doc.Player.Skills != nil {
			p.Skills = append([]Skill(nil), doc.Player.Skills...)
		}
		if doc.Player.Inventory != nil {
			p.Inventory = append([]Item(nil), doc.Player.Inventory...)
		}
		if doc.Player.Equipment != nil {
			p.Equipment = cloneStringMap(doc.Player.Equipment)
		}
		if doc.Player.LocationID != "" {
			p.LocationID = doc.Player.LocationID
		}
	}

	for _, c := range doc.Characters {
		npc := npcFromCharacter(c)
		s.data.NPCs[npc.ID] = npc
	}

	for id, p := range doc.PuzzleLog {
		s.data.PuzzleLog[id] = p.Clone()
	}
	for id, k := range doc.Codex {
		s.data.Codex[id] = k
	}
	for _, d := range doc.DynamicEvents {
		s.data.DynamicEvents = append(s.data.DynamicEvents, d.Clone())
	}

	if doc.World != nil {
		if doc.World.CurrentWeather != nil {
			s.data.Weather = *doc.World.CurrentWeather
		}
		if len(doc.World.Extra) > 0 {
			if s.data.Extra == nil {
				s.data.Extra = map[string]any{}
			}
			for k, v := range cloneAnyMap(doc.World.Extra) {
				s.data.Extra[k] = v
			}
		}
	}

	s.log.Info().
		Str("world_title", s.data.Title).
		Int("npcs", len(s.data.NPCs)).
		Msg("world state initialized from conception document")
}

// npcFromCharacter synthesizes a full NPC record from a raw character entry.
// The id comes from the explicit id or the lowercased, underscored name, and
// the supplied attributes overlay the default combat-stat template.
func npcFromCharacter(c Character) NPC {
	id := c.ID
	if id == "" {
		id = DeriveID(c.Name)
	}
	attrs := cloneFloatMap(c.Attributes)
	npc := NPC{
		ID:          id,
		Name:        c.Name,
		Role:        c.Role,
		Description: c.Description,
		Status:      c.Status,
		Faction:     c.Faction,
		LocationID:  c.LocationID,
		Knowledge:   append([]string(nil), c.Knowledge...),
	}
	if v, ok := attrs["disposition_towards_player"]; ok {
		npc.Disposition = int(v)
		delete(attrs, "disposition_towards_player")
	}
	npc.Attributes = overlayAttributes(DefaultNPCAttributes(), attrs)
	return npc
}

// DeriveID turns a display name into a stable identifier.
func DeriveID(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.Join(strings.Fields(id), "_")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return -1
		}
	}, id)
}

// overlayAttributes applies the provided keys over base; absent keys keep
// their base values. Unrecognized keys land in Extra.
func overlayAttributes(base Attributes, overlay map[string]float64) Attributes {
	out := base.Clone()
	for k, v := range overlay {
		switch k {
		case "strength":
			out.Strength = int(v)
		case "dexterity":
			out.Dexterity = int(v)
		case "intelligence":
			out.Intelligence = int(v)
		case "sanity":
			out.Sanity = int(v)
		case "willpower":
			out.Willpower = int(v)
		case "insight":
			out.Insight = int(v)
		case "current_hp":
			out.CurrentHP = int(v)
		case "max_hp":
			out.MaxHP = int(v)
		case "attack_power":
			out.AttackPower = int(v)
		case "defense_power":
			out.DefensePower = int(v)
		case "evasion_chance":
			out.EvasionChance = v
		case "hit_chance":
			out.HitChance = v
		default:
			if out.Extra == nil {
				out.Extra = map[string]float64{}
			}
			out.Extra[k] = v
		}
	}
	return out
}

// Update is a partial change set. Each non-nil key overwrites the stored
// value outright with an independent copy; this is shallow key replacement,
// not a recursive merge.
type Update struct {
	GameTime      *int
	CurrentScene  *Scene
	Player        *PlayerState
	NPCs          map[string]NPC
	CombatLog     []string
	PuzzleLog     map[string]PuzzleState
	Codex         map[string]KnowledgeEntry
	DynamicEvents []DynamicEvent
	Weather       *Weather
}

// Apply commits a partial change set. Replacing the current scene appends
// exactly one scene-history summary stamped with the current game time.
func (s *Store) Apply(u Update) {
	var keys []string
	if u.GameTime != nil {
		if *u.GameTime > s.data.GameTime {
			s.data.GameTime = *u.GameTime
		}
		keys = append(keys, "game_time")
	}
	if u.CurrentScene != nil {
		scene := u.CurrentScene.Clone()
		s.data.CurrentScene = scene
		s.data.SceneHistory = append(s.data.SceneHistory, SceneSummary{
			Time:                s.data.GameTime,
			SceneID:             scene.ID,
			NarrativeSnippet:    snippet(scene.Narrative, 50),
			ImageURL:            scene.ImageURL,
			InteractiveElements: len(scene.InteractiveElements),
		})
		keys = append(keys, "current_scene")
	}
	if u.Player != nil {
		s.data.Player = u.Player.Clone()
		keys = append(keys, "player_state")
	}
	if u.NPCs != nil {
		npcs := make(map[string]NPC, len(u.NPCs))
		for id, n := range u.NPCs {
			npcs[id] = n.Clone()
		}
		s.data.NPCs = npcs
		keys = append(keys, "npcs")
	}
	if u.CombatLog != nil {
		s.data.CombatLog = append([]string(nil), u.CombatLog...)
		keys = append(keys, "combat_log")
	}
	if u.PuzzleLog != nil {
		puzzles := make(map[string]PuzzleState, len(u.PuzzleLog))
		for id, p := range u.PuzzleLog {
			puzzles[id] = p.Clone()
		}
		s.data.PuzzleLog = puzzles
		keys = append(keys, "puzzle_log")
	}
	if u.Codex != nil {
		codex := make(map[string]KnowledgeEntry, len(u.Codex))
		for id, k := range u.Codex {
			codex[id] = k
		}
		s.data.Codex = codex
		keys = append(keys, "knowledge_codex")
	}
	if u.DynamicEvents != nil {
		events := make([]DynamicEvent, len(u.DynamicEvents))
		for i, d := range u.DynamicEvents {
			events[i] = d.Clone()
		}
		s.data.DynamicEvents = events
		keys = append(keys, "dynamic_events")
	}
	if u.Weather != nil {
		s.data.Weather = *u.Weather
		keys = append(keys, "weather")
	}
	if len(keys) == 0 {
		s.log.Debug().Msg("apply called with an empty change set")
		return
	}
	s.log.Debug().Strs("keys", keys).Msg("state updated")
}

// LogEvent appends one audit-trail entry stamped with the current game time.
func (s *Store) LogEvent(description string, typ EventType, causalFactors []string, payload map[string]any) {
	s.data.EventLog = append(s.data.EventLog, Event{
		Time:          s.data.GameTime,
		Type:          typ,
		Description:   description,
		CausalFactors: append([]string(nil), causalFactors...),
		Payload:       cloneAnyMap(payload),
	})
}

// Snapshot returns a fully independent copy of the entire root record. It is
// the only read path: every consumer needs a coherent whole-state view.
func (s *Store) Snapshot() WorldState {
	return s.data.Clone()
}

func snippet(text string, max int) string {
	if text == "" {
		return "N/A..."
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text + "..."
	}
	return string(runes[:max]) + "..."
}
