package generator

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/pkoukk/tiktoken-go"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/adventure-engine/internal/state"
)

//go:embed prompts/scene.txt
var scenePrompt string

//go:embed prompts/dialogue.txt
var dialoguePrompt string

//go:embed prompts/combat_turn.txt
var combatTurnPrompt string

//go:embed prompts/puzzle_eval.txt
var puzzleEvalPrompt string

//go:embed prompts/codex_entry.txt
var codexEntryPrompt string

//go:embed prompts/dynamic_event.txt
var dynamicEventPrompt string

//go:embed prompts/weather.txt
var weatherPrompt string

var (
	sceneTmpl        = template.Must(template.New("scene").Parse(scenePrompt))
	dialogueTmpl     = template.Must(template.New("dialogue").Parse(dialoguePrompt))
	combatTurnTmpl   = template.Must(template.New("combat_turn").Parse(combatTurnPrompt))
	puzzleEvalTmpl   = template.Must(template.New("puzzle_eval").Parse(puzzleEvalPrompt))
	codexEntryTmpl   = template.Must(template.New("codex_entry").Parse(codexEntryPrompt))
	dynamicEventTmpl = template.Must(template.New("dynamic_event").Parse(dynamicEventPrompt))
	weatherTmpl      = template.Must(template.New("weather").Parse(weatherPrompt))
)

// DefaultContextTokenBudget caps the serialized world snapshot embedded in
// prompts.
const DefaultContextTokenBudget = 6000

// PromptBuilder renders the prompts sent to the generator. The world
// snapshot section is truncated to a token budget so long sessions do not
// blow the model's context window.
type PromptBuilder struct {
	enc    *tiktoken.Tiktoken
	budget int
}

// NewPromptBuilder builds a prompt builder with the given context token
// budget. When the tokenizer cannot be loaded, truncation falls back to a
// rune count approximation.
func NewPromptBuilder(budget int) *PromptBuilder {
	if budget <= 0 {
		budget = DefaultContextTokenBudget
	}
	enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		enc = nil
	}
	return &PromptBuilder{enc: enc, budget: budget}
}

// TruncateContext cuts text down to the configured token budget, keeping the
// tail: the most recent state is the most relevant.
func (b *PromptBuilder) TruncateContext(text string) string {
	if b.enc == nil {
		runes := []rune(text)
		// Rough heuristic of four characters per token.
		max := b.budget * 4
		if len(runes) <= max {
			return text
		}
		return string(runes[len(runes)-max:])
	}
	tokens := b.enc.Encode(text, nil, nil)
	if len(tokens) <= b.budget {
		return text
	}
	return b.enc.Decode(tokens[len(tokens)-b.budget:])
}

// worldContext serializes the snapshot for prompt embedding, truncated to
// the token budget.
func (b *PromptBuilder) worldContext(snapshot state.WorldState) string {
	raw, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Sprintf("world_title: %s\ngame_time: %d", snapshot.Title, snapshot.GameTime)
	}
	return b.TruncateContext(string(raw))
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// ScenePrompt asks for a scene_description for the given scene id.
func (b *PromptBuilder) ScenePrompt(snapshot state.WorldState, sceneID string) (string, error) {
	return render(sceneTmpl, struct {
		SceneID      string
		WorldContext string
		Action       string
	}{SceneID: sceneID, WorldContext: b.worldContext(snapshot)})
}

// ActionPrompt asks for the outcome of a free-form or generic player action.
func (b *PromptBuilder) ActionPrompt(snapshot state.WorldState, action string) (string, error) {
	return render(sceneTmpl, struct {
		SceneID      string
		WorldContext string
		Action       string
	}{snapshot.CurrentScene.ID, b.worldContext(snapshot), action})
}

// DialoguePrompt asks for an npc_dialogue_response. The context is narrowed
// to the target NPC plus a compact world view.
func (b *PromptBuilder) DialoguePrompt(snapshot state.WorldState, npc state.NPC, playerInput string) (string, error) {
	npcYAML, err := yaml.Marshal(npc)
	if err != nil {
		return "", fmt.Errorf("serializing npc context: %w", err)
	}
	return render(dialogueTmpl, struct {
		NPCName      string
		NPCContext   string
		WorldContext string
		PlayerInput  string
	}{npc.Name, b.TruncateContext(string(npcYAML)), b.worldContext(snapshot), playerInput})
}

// CombatantStats is the per-combatant stat block embedded in combat prompts.
type CombatantStats struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	CurrentHP     int     `yaml:"current_hp"`
	MaxHP         int     `yaml:"max_hp"`
	AttackPower   int     `yaml:"attack_power"`
	DefensePower  int     `yaml:"defense_power"`
	EvasionChance float64 `yaml:"evasion_chance"`
	HitChance     float64 `yaml:"hit_chance"`
}

// CombatTurnPrompt asks for a combat_turn_outcome given the chosen strategy
// and all living combatants' current stats.
func (b *PromptBuilder) CombatTurnPrompt(strategy string, turn int, player CombatantStats, npcs []CombatantStats) (string, error) {
	stats, err := yaml.Marshal(struct {
		Player CombatantStats   `yaml:"player"`
		NPCs   []CombatantStats `yaml:"npcs"`
	}{player, npcs})
	if err != nil {
		return "", fmt.Errorf("serializing combatant stats: %w", err)
	}
	return render(combatTurnTmpl, struct {
		Strategy string
		Turn     int
		Stats    string
	}{strategy, turn, string(stats)})
}

// PuzzlePrompt asks for an environmental_puzzle_solution_eval.
func (b *PromptBuilder) PuzzlePrompt(puzzleID, elementID, itemID string, puzzle state.PuzzleState, scene state.Scene) (string, error) {
	sub, err := yaml.Marshal(puzzle)
	if err != nil {
		return "", fmt.Errorf("serializing puzzle state: %w", err)
	}
	return render(puzzleEvalTmpl, struct {
		PuzzleID    string
		ElementID   string
		ItemID      string
		PuzzleState string
		SceneText   string
	}{puzzleID, elementID, itemID, string(sub), scene.Narrative})
}

// CodexPrompt asks for a codex_entry_generation.
func (b *PromptBuilder) CodexPrompt(sourceType, sourceDetail, hint string) (string, error) {
	return render(codexEntryTmpl, struct {
		SourceType   string
		SourceDetail string
		Hint         string
	}{sourceType, sourceDetail, hint})
}

// DynamicEventPrompt asks for a dynamic_event_outcome.
func (b *PromptBuilder) DynamicEventPrompt(snapshot state.WorldState, hint string) (string, error) {
	return render(dynamicEventTmpl, struct {
		Hint         string
		WorldContext string
	}{hint, b.worldContext(snapshot)})
}

// WeatherPrompt asks for a weather_update_description keyed off the prior
// condition.
func (b *PromptBuilder) WeatherPrompt(current state.Weather, gameTime int) (string, error) {
	return render(weatherTmpl, struct {
		Condition string
		Intensity string
		GameTime  int
	}{current.Condition, current.Intensity, gameTime})
}

// ImagePrompt keys an image asset request off the scene narrative.
func (b *PromptBuilder) ImagePrompt(narrative string) string {
	return "Atmospheric illustration for a text adventure scene: " + b.TruncateContext(narrative)
}
