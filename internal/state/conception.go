package state

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Conception is the externally supplied world conception document that seeds
// a session. Everything in it is optional; absent sections keep the store's
// built-in defaults.
type Conception struct {
	Title          string                    `yaml:"world_title"`
	Setting        string                    `yaml:"setting_description"`
	InitialSceneID string                    `yaml:"initial_scene_id"`
	Player         *PlayerConception         `yaml:"player_state"`
	Characters     []Character               `yaml:"main_characters"`
	PuzzleLog      map[string]PuzzleState    `yaml:"environmental_puzzle_log"`
	Codex          map[string]KnowledgeEntry `yaml:"knowledge_codex"`
	DynamicEvents  []DynamicEvent            `yaml:"dynamic_world_events_log"`
	World          *WorldSection             `yaml:"world_state"`
}

// PlayerConception carries the player overrides. Attributes overlay the
// defaults key by key; the other fields replace wholesale when present.
type PlayerConception struct {
	Attributes map[string]float64 `yaml:"attributes"`
	Skills     []Skill            `yaml:"skills"`
	Inventory  []Item             `yaml:"inventory"`
	Equipment  map[string]string  `yaml:"equipment_slots"`
	LocationID string             `yaml:"current_location_id"`
}

// Character is a raw character entry, synthesized into an NPC record on
// initialization.
type Character struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Role        string             `yaml:"role"`
	Description string             `yaml:"description"`
	Status      string             `yaml:"status"`
	Faction     string             `yaml:"faction"`
	LocationID  string             `yaml:"current_location_id"`
	Knowledge   []string           `yaml:"knowledge"`
	Attributes  map[string]float64 `yaml:"attributes"`
}

// WorldSection holds global world variables; current_weather is lifted into
// the typed weather record and everything else is kept in Extra.
type WorldSection struct {
	CurrentWeather *Weather       `yaml:"current_weather"`
	Extra          map[string]any `yaml:",inline"`
}

// LoadConception reads a world conception document from a YAML file.
func LoadConception(path string) (Conception, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Conception{}, fmt.Errorf("reading conception document: %w", err)
	}
	var doc Conception
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Conception{}, fmt.Errorf("parsing conception document: %w", err)
	}
	return doc, nil
}
