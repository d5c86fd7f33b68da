package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/adventure-engine/internal/generator"
	"github.com/tatianab/adventure-engine/internal/session"
	"github.com/tatianab/adventure-engine/internal/state"
)

// Presenter bridges the synchronous session controller to the bubbletea
// event loop. Render calls post messages to the program; prompt calls block
// the controller goroutine on a reply channel until the player answers.
type Presenter struct {
	program *tea.Program
}

var _ session.Presenter = (*Presenter)(nil)

func (p *Presenter) RenderScene(scene state.Scene) {
	p.program.Send(panelMsg{content: renderScenePanel(scene)})
	for _, m := range sceneMessages(scene) {
		p.program.Send(m)
	}
}

// sceneMessages builds the log entries for a scene: the narrative, plus one
// entry for the environmental effects when present.
func sceneMessages(scene state.Scene) []logMsg {
	msgs := []logMsg{{kind: kindGame, text: scene.Narrative}}
	if scene.EnvironmentalEffects != "" {
		msgs = append(msgs, logMsg{kind: kindInfo, text: scene.EnvironmentalEffects})
	}
	return msgs
}

func (p *Presenter) RenderNarrative(text string) {
	p.program.Send(logMsg{kind: kindGame, text: text})
}

func (p *Presenter) ShowMessage(level session.MessageLevel, text string) {
	kind := kindInfo
	switch level {
	case session.LevelWarn:
		kind = kindWarn
	case session.LevelError:
		kind = kindError
	}
	p.program.Send(logMsg{kind: kind, text: text})
}

func (p *Presenter) PromptAction(scene state.Scene) (string, error) {
	return p.prompt("What do you do?")
}

func (p *Presenter) RenderCombatState(turn int, player generator.CombatantStats, npcs []generator.CombatantStats) {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Combat, turn %d ---\n", turn)
	fmt.Fprintf(&b, "You: %d/%d HP\n", player.CurrentHP, player.MaxHP)
	for _, n := range npcs {
		fmt.Fprintf(&b, "%s: %d/%d HP\n", n.Name, n.CurrentHP, n.MaxHP)
	}
	p.program.Send(logMsg{kind: kindWarn, text: b.String()})
}

// ChooseStrategy lists the strategies and accepts either a list number or a
// strategy id.
func (p *Presenter) ChooseStrategy(strategies []generator.Strategy) (string, error) {
	var b strings.Builder
	b.WriteString("Choose your strategy:\n")
	for i, s := range strategies {
		fmt.Fprintf(&b, "  %d. %s [%s]\n", i+1, s.Name, s.ID)
	}
	p.program.Send(logMsg{kind: kindInfo, text: b.String()})

	choice, err := p.prompt("Strategy number or id...")
	if err != nil {
		return "", err
	}
	if n, nerr := strconv.Atoi(choice); nerr == nil && n >= 1 && n <= len(strategies) {
		return strategies[n-1].ID, nil
	}
	return choice, nil
}

func (p *Presenter) RenderCombatResult(summary string) {
	p.program.Send(logMsg{kind: kindGame, text: summary})
}

func (p *Presenter) RenderDialogue(npcName, text string, options []generator.DialogueOption) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %q", npcName, text)
	if len(options) > 0 {
		b.WriteString("\n")
		for i, o := range options {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, o.Name)
		}
	}
	p.program.Send(logMsg{kind: kindGame, text: b.String()})
}

// PromptDialogueReply accepts a list number, an option id, or free speech.
func (p *Presenter) PromptDialogueReply(options []generator.DialogueOption) (string, error) {
	choice, err := p.prompt("Say something, pick an option, or /end...")
	if err != nil {
		return "", err
	}
	if n, nerr := strconv.Atoi(choice); nerr == nil && n >= 1 && n <= len(options) {
		return options[n-1].ID, nil
	}
	return choice, nil
}

func (p *Presenter) ShowMenu(snapshot state.WorldState) error {
	p.program.Send(logMsg{kind: kindInfo, text: renderMenu(snapshot)})
	return nil
}

func (p *Presenter) NotifyWorldEvent(description string) {
	p.program.Send(logMsg{kind: kindWarn, text: "! " + description})
}

func (p *Presenter) NotifyWeather(weather state.Weather) {
	text := fmt.Sprintf("The weather shifts: %s (%s). %s",
		weather.Condition, weather.Intensity, weather.EffectsDescription)
	p.program.Send(logMsg{kind: kindInfo, text: text})
}

func (p *Presenter) prompt(placeholder string) (string, error) {
	reply := make(chan string)
	p.program.Send(promptMsg{placeholder: placeholder, reply: reply})
	value, ok := <-reply
	if !ok {
		return "", io.EOF
	}
	return value, nil
}

func renderMenu(s state.WorldState) string {
	var b strings.Builder
	attrs := s.Player.Attributes

	fmt.Fprintf(&b, "=== %s ===\n", s.Title)
	fmt.Fprintf(&b, "Game time: %d | Weather: %s (%s)\n\n", s.GameTime, s.Weather.Condition, s.Weather.Intensity)

	b.WriteString("STATUS\n")
	fmt.Fprintf(&b, "  HP %d/%d  STR %d  DEX %d  INT %d\n", attrs.CurrentHP, attrs.MaxHP, attrs.Strength, attrs.Dexterity, attrs.Intelligence)
	fmt.Fprintf(&b, "  Sanity %d  Willpower %d  Insight %d\n\n", attrs.Sanity, attrs.Willpower, attrs.Insight)

	b.WriteString("SKILLS\n")
	if len(s.Player.Skills) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, sk := range s.Player.Skills {
		fmt.Fprintf(&b, "  %s: %s\n", sk.Name, sk.Description)
	}
	b.WriteString("\n")

	b.WriteString("INVENTORY\n")
	if len(s.Player.Inventory) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, it := range s.Player.Inventory {
		fmt.Fprintf(&b, "  %s x%d\n", it.Name, it.Quantity)
	}
	b.WriteString("\n")

	b.WriteString("EQUIPMENT\n")
	for slot, item := range s.Player.Equipment {
		if item == "" {
			item = "(empty)"
		}
		fmt.Fprintf(&b, "  %s: %s\n", slot, item)
	}
	b.WriteString("\n")

	b.WriteString("CODEX\n")
	if len(s.Codex) == 0 {
		b.WriteString("  (no entries yet)\n")
	}
	for _, entry := range s.Codex {
		fmt.Fprintf(&b, "  %s\n    %s\n", entry.Title, entry.Content)
	}

	return b.String()
}

// Run starts the terminal program and drives the session loop on its own
// goroutine until the session or the program ends.
func Run(ctx context.Context, newController func(ui session.Presenter) *session.Controller) error {
	p := &Presenter{}
	p.program = tea.NewProgram(newModel(), tea.WithAltScreen())

	ctrl := newController(p)
	go func() {
		err := ctrl.Run(ctx)
		p.program.Send(doneMsg{err: err})
	}()

	_, err := p.program.Run()
	return err
}
