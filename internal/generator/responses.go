package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The payloads below mirror the per-responseType contracts. They are
// exchanged as serialized JSON; a payload that fails to parse is treated
// identically to a null response.

// SceneNPC is an NPC reference inside a scene description.
type SceneNPC struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// SceneElement is one interactive element in a scene description.
type SceneElement struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	TargetID string `json:"target_id,omitempty"`
	PuzzleID string `json:"puzzle_id,omitempty"`
}

// KnowledgeReveal is a codex unlock hint attached to another payload.
type KnowledgeReveal struct {
	TopicID      string `json:"topic_id"`
	Summary      string `json:"summary"`
	SourceType   string `json:"source_type,omitempty"`
	SourceDetail string `json:"source_detail,omitempty"`
}

// GrowthSkill and GrowthItem are player-growth additions.
type GrowthSkill struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type GrowthItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PlayerGrowth is the optional growth block a generic action outcome may
// carry. Attribute changes stay string-encoded on the wire and are parsed
// into Deltas by the consumer.
type PlayerGrowth struct {
	AttributeChanges map[string]string `json:"attribute_changes,omitempty"`
	NewSkills        []GrowthSkill     `json:"new_skills,omitempty"`
	NewItems         []GrowthItem      `json:"new_items,omitempty"`
}

// Scene is the scene_description contract. Generic action outcomes reuse it:
// a different scene id means a transition, the same id a refresh, and an
// empty id a narrative-only delta.
type Scene struct {
	SceneID              string            `json:"scene_id"`
	Narrative            string            `json:"narrative"`
	NPCsInScene          []SceneNPC        `json:"npcs_in_scene,omitempty"`
	InteractiveElements  []SceneElement    `json:"interactive_elements,omitempty"`
	EnvironmentalEffects string            `json:"environmental_effects,omitempty"`
	OnSceneLoadKnowledge []KnowledgeReveal `json:"on_scene_load_knowledge,omitempty"`
	PlayerGrowth         *PlayerGrowth     `json:"player_growth,omitempty"`
}

// DialogueOption is one suggested player reply.
type DialogueOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Dialogue is the npc_dialogue_response contract.
type Dialogue struct {
	NPCID             string            `json:"npc_id,omitempty"`
	DialogueText      string            `json:"dialogue_text"`
	NewNPCStatus      string            `json:"new_npc_status"`
	AttitudeChange    string            `json:"attitude_towards_player_change"`
	DialogueOptions   []DialogueOption  `json:"dialogue_options_for_player,omitempty"`
	KnowledgeRevealed []KnowledgeReveal `json:"knowledge_revealed,omitempty"`
}

// NPCHPChange is one per-NPC HP delta in a combat turn outcome.
type NPCHPChange struct {
	NPCID    string `json:"npc_id"`
	HPChange int    `json:"hp_change"`
}

// Strategy is one selectable combat strategy.
type Strategy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CombatTurn is the combat_turn_outcome contract. CombatEnded and Victor
// are advisory narrative framing; local HP checks decide the actual end.
type CombatTurn struct {
	TurnSummaryNarrative string        `json:"turn_summary_narrative"`
	PlayerHPChange       int           `json:"player_hp_change"`
	NPCHPChanges         []NPCHPChange `json:"npc_hp_changes"`
	CombatEnded          bool          `json:"combat_ended"`
	Victor               string        `json:"victor,omitempty"`
	StrategyFeedback     string        `json:"player_strategy_feedback,omitempty"`
	AvailableStrategies  []Strategy    `json:"available_player_strategies,omitempty"`
}

// PuzzleEval is the environmental_puzzle_solution_eval contract.
type PuzzleEval struct {
	PuzzleID            string            `json:"puzzle_id"`
	ActionFeedback      string            `json:"action_feedback_narrative"`
	StateChanged        bool              `json:"puzzle_state_changed"`
	UpdatedElementState map[string]string `json:"updated_puzzle_elements_state,omitempty"`
	NewCluesRevealed    []string          `json:"new_clues_revealed,omitempty"`
	Solved              bool              `json:"puzzle_solved"`
	SolutionNarrative   string            `json:"solution_narrative,omitempty"`
	KnowledgeRevealed   []KnowledgeReveal `json:"knowledge_revealed,omitempty"`
}

// CodexEntry is the codex_entry_generation contract.
type CodexEntry struct {
	KnowledgeID  string `json:"knowledge_id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	SourceType   string `json:"source_type"`
	SourceDetail string `json:"source_detail"`
}

// DynamicEvent is the dynamic_event_outcome contract.
type DynamicEvent struct {
	EventID        string   `json:"event_id"`
	Description    string   `json:"description"`
	EffectsOnWorld []string `json:"effects_on_world"`
	NewSceneID     string   `json:"new_scene_id,omitempty"`
}

// WeatherUpdate is the weather_update_description contract.
type WeatherUpdate struct {
	NewCondition       string `json:"new_weather_condition"`
	NewIntensity       string `json:"new_weather_intensity"`
	EffectsDescription string `json:"weather_effects_description"`
}

// StripFences removes a surrounding markdown code fence, which models add
// around structured payloads more often than not.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decode(raw string, v any, responseType ResponseType) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s: %w", responseType, ErrUnavailable)
	}
	if err := json.Unmarshal([]byte(StripFences(raw)), v); err != nil {
		return fmt.Errorf("%s: %v: %w", responseType, err, ErrMalformedResponse)
	}
	return nil
}

// ParseScene decodes and validates a scene_description payload. A scene
// with neither narrative nor elements is treated as malformed.
func ParseScene(raw string) (Scene, error) {
	var s Scene
	if err := decode(raw, &s, ResponseScene); err != nil {
		return Scene{}, err
	}
	if s.Narrative == "" && len(s.InteractiveElements) == 0 {
		return Scene{}, fmt.Errorf("scene has no narrative and no elements: %w", ErrMalformedResponse)
	}
	return s, nil
}

// ParseDialogue decodes an npc_dialogue_response payload.
func ParseDialogue(raw string) (Dialogue, error) {
	var d Dialogue
	if err := decode(raw, &d, ResponseDialogue); err != nil {
		return Dialogue{}, err
	}
	if d.DialogueText == "" {
		return Dialogue{}, fmt.Errorf("dialogue has no text: %w", ErrMalformedResponse)
	}
	return d, nil
}

// ParseCombatTurn decodes a combat_turn_outcome payload.
func ParseCombatTurn(raw string) (CombatTurn, error) {
	var c CombatTurn
	if err := decode(raw, &c, ResponseCombatTurn); err != nil {
		return CombatTurn{}, err
	}
	return c, nil
}

// ParsePuzzleEval decodes an environmental_puzzle_solution_eval payload.
func ParsePuzzleEval(raw string) (PuzzleEval, error) {
	var p PuzzleEval
	if err := decode(raw, &p, ResponsePuzzleEval); err != nil {
		return PuzzleEval{}, err
	}
	return p, nil
}

// ParseCodexEntry decodes a codex_entry_generation payload.
func ParseCodexEntry(raw string) (CodexEntry, error) {
	var c CodexEntry
	if err := decode(raw, &c, ResponseCodexEntry); err != nil {
		return CodexEntry{}, err
	}
	if c.KnowledgeID == "" {
		return CodexEntry{}, fmt.Errorf("codex entry has no id: %w", ErrMalformedResponse)
	}
	return c, nil
}

// ParseDynamicEvent decodes a dynamic_event_outcome payload.
func ParseDynamicEvent(raw string) (DynamicEvent, error) {
	var d DynamicEvent
	if err := decode(raw, &d, ResponseDynamicEvent); err != nil {
		return DynamicEvent{}, err
	}
	return d, nil
}

// ParseWeatherUpdate decodes a weather_update_description payload.
func ParseWeatherUpdate(raw string) (WeatherUpdate, error) {
	var w WeatherUpdate
	if err := decode(raw, &w, ResponseWeather); err != nil {
		return WeatherUpdate{}, err
	}
	if w.NewCondition == "" {
		return WeatherUpdate{}, fmt.Errorf("weather update has no condition: %w", ErrMalformedResponse)
	}
	return w, nil
}
