package state

// ElementType classifies an interactive element within a scene and decides
// which sub-flow the controller dispatches to.
type ElementType string

const (
	ElementNavigate      ElementType = "navigate"
	ElementDialogue      ElementType = "dialogue"
	ElementCombatTrigger ElementType = "combat_trigger"
	ElementPuzzle        ElementType = "puzzle_element"
	ElementExamine       ElementType = "examine"
)

// EventType tags entries in the session's audit trail.
type EventType string

const (
	EventGeneral          EventType = "general"
	EventSceneTransition  EventType = "scene_transition"
	EventPlayerUpdate     EventType = "player_update"
	EventCombatStart      EventType = "combat_start"
	EventCombatTurnDetail EventType = "combat_turn_detail"
	EventCombatEnd        EventType = "combat_end"
	EventDialogueExchange EventType = "dialogue_exchange"
	EventDialogueChoice   EventType = "player_dialogue_choice"
	EventPuzzleInteract   EventType = "puzzle_interaction"
	EventPuzzleUpdate     EventType = "puzzle_update"
	EventPuzzleSolved     EventType = "puzzle_solved"
	EventKnowledgeUnlock  EventType = "knowledge_unlock"
	EventDynamicEvent     EventType = "dynamic_event"
	EventWeatherChange    EventType = "weather_change"
)

// PuzzleStatus is the lifecycle of an environmental puzzle.
type PuzzleStatus string

const (
	PuzzleUnsolved PuzzleStatus = "unsolved"
	PuzzleSolved   PuzzleStatus = "solved"
)

// StatusDefeated is set on an NPC whose HP reached zero in combat.
const StatusDefeated = "defeated"

// Attributes holds the combat- and narrative-relevant stats shared by the
// player and NPCs. Generator-supplied keys that have no named field land in
// Extra so nothing the model invents is lost.
type Attributes struct {
	Strength     int `yaml:"strength"`
	Dexterity    int `yaml:"dexterity"`
	Intelligence int `yaml:"intelligence"`
	Sanity       int `yaml:"sanity"`
	Willpower    int `yaml:"willpower"`
	Insight      int `yaml:"insight"`

	CurrentHP     int     `yaml:"current_hp"`
	MaxHP         int     `yaml:"max_hp"`
	AttackPower   int     `yaml:"attack_power"`
	DefensePower  int     `yaml:"defense_power"`
	EvasionChance float64 `yaml:"evasion_chance"`
	HitChance     float64 `yaml:"hit_chance"`

	Extra map[string]float64 `yaml:"extra,omitempty"`
}

// Skill is unique by name within a player's skill list.
type Skill struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Item is unique by ID within an inventory; quantities accumulate on merge.
type Item struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

// PlayerState is the player's slice of the world record.
type PlayerState struct {
	Attributes Attributes        `yaml:"attributes"`
	Skills     []Skill           `yaml:"skills"`
	Inventory  []Item            `yaml:"inventory"`
	Equipment  map[string]string `yaml:"equipment_slots"`
	LocationID string            `yaml:"current_location_id"`
}

// DialogueExchange is one player/NPC utterance pair.
type DialogueExchange struct {
	Time   int    `yaml:"time"`
	Player string `yaml:"player"`
	NPC    string `yaml:"npc"`
}

// NPC is a character record held in the store's NPC map.
type NPC struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Role        string             `yaml:"role"`
	Description string             `yaml:"description"`
	Attributes  Attributes         `yaml:"attributes"`
	Status      string             `yaml:"status"`
	Disposition int                `yaml:"disposition_towards_player"`
	DialogueLog []DialogueExchange `yaml:"dialogue_log"`
	Knowledge   []string           `yaml:"knowledge"`
	LocationID  string             `yaml:"current_location_id"`
	Faction     string             `yaml:"faction"`
}

// InteractiveElement is one actionable thing in a scene. TargetID points at
// an NPC for dialogue and combat triggers; PuzzleID at a puzzle log entry.
type InteractiveElement struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Type     ElementType `yaml:"type"`
	TargetID string      `yaml:"target_id,omitempty"`
	PuzzleID string      `yaml:"puzzle_id,omitempty"`
}

// ScenePresence is the lightweight NPC reference embedded in a scene.
type ScenePresence struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Status string `yaml:"status,omitempty"`
}

// Scene is the snapshot of the active scene.
type Scene struct {
	ID                   string               `yaml:"scene_id"`
	Narrative            string               `yaml:"narrative"`
	NPCsInScene          []ScenePresence      `yaml:"npcs_in_scene"`
	InteractiveElements  []InteractiveElement `yaml:"interactive_elements"`
	EnvironmentalEffects string               `yaml:"environmental_effects"`
	ImageURL             string               `yaml:"image_url,omitempty"`
	Weather              Weather              `yaml:"current_weather"`
}

// SceneSummary is the append-only scene-history record written whenever the
// current scene is replaced.
type SceneSummary struct {
	Time                int    `yaml:"time"`
	SceneID             string `yaml:"scene_id"`
	NarrativeSnippet    string `yaml:"narrative_snippet"`
	ImageURL            string `yaml:"image_url,omitempty"`
	InteractiveElements int    `yaml:"num_interactive_elements"`
}

// Event is one entry in the session audit trail.
type Event struct {
	Time          int            `yaml:"time"`
	Type          EventType      `yaml:"type"`
	Description   string         `yaml:"description"`
	CausalFactors []string       `yaml:"causal_factors"`
	Payload       map[string]any `yaml:"payload,omitempty"`
}

// PuzzleState tracks one environmental puzzle.
type PuzzleState struct {
	Status        PuzzleStatus      `yaml:"status"`
	CluesFound    []string          `yaml:"clues_found"`
	ElementsState map[string]string `yaml:"elements_state"`
}

// KnowledgeEntry is one codex record; entries are append-once by ID.
type KnowledgeEntry struct {
	ID           string `yaml:"knowledge_id"`
	Title        string `yaml:"title"`
	Content      string `yaml:"content"`
	SourceType   string `yaml:"source_type"`
	SourceDetail string `yaml:"source_detail"`
}

// DynamicEvent is a world event appended by the dynamic-event sub-flow.
type DynamicEvent struct {
	ID             string   `yaml:"event_id"`
	Time           int      `yaml:"time"`
	Description    string   `yaml:"description"`
	EffectsOnWorld []string `yaml:"effects_on_world"`
	NewSceneID     string   `yaml:"new_scene_id,omitempty"`
}

// Weather is the ambient weather snapshot.
type Weather struct {
	Condition          string `yaml:"condition"`
	Intensity          string `yaml:"intensity"`
	EffectsDescription string `yaml:"effects_description"`
}

// WorldState is the single root record owned by the Store.
type WorldState struct {
	Title          string                    `yaml:"world_title"`
	Setting        string                    `yaml:"setting_description"`
	InitialSceneID string                    `yaml:"initial_scene_id"`
	GameTime       int                       `yaml:"current_game_time"`
	SceneHistory   []SceneSummary            `yaml:"scene_history"`
	EventLog       []Event                   `yaml:"event_log"`
	CurrentScene   Scene                     `yaml:"current_scene_data"`
	Player         PlayerState               `yaml:"player_state"`
	NPCs           map[string]NPC            `yaml:"npcs"`
	CombatLog      []string                  `yaml:"combat_log"`
	PuzzleLog      map[string]PuzzleState    `yaml:"environmental_puzzle_log"`
	Codex          map[string]KnowledgeEntry `yaml:"knowledge_codex"`
	DynamicEvents  []DynamicEvent            `yaml:"dynamic_world_events_log"`
	Weather        Weather                   `yaml:"current_weather"`
	Extra          map[string]any            `yaml:"extra,omitempty"`
}
