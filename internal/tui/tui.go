// Package tui is the terminal presentation layer: a bubbletea program that
// renders the session log and a world-state side panel, and feeds player
// input back to the session controller.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/adventure-engine/internal/state"
)

type viewState int

const (
	stateWaiting viewState = iota
	statePrompting
	stateDone
)

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87D7AF")).
			Italic(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAF5F"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

type logKind int

const (
	kindGame logKind = iota
	kindInfo
	kindWarn
	kindError
)

// logMsg appends a block of text to the session log.
type logMsg struct {
	kind logKind
	text string
}

// promptMsg asks the player for a line of input. The typed value is sent on
// reply; the channel is closed instead when the player quits the program.
type promptMsg struct {
	placeholder string
	reply       chan string
}

// panelMsg refreshes the side panel.
type panelMsg struct {
	content string
}

// doneMsg ends the program when the session loop returns.
type doneMsg struct {
	err error
}

type model struct {
	state     viewState
	textInput textinput.Model
	viewport  viewport.Model
	gameLog   string
	panel     string
	reply     chan string
	err       error
	width     int
	height    int
	ready     bool
}

func newModel() model {
	ti := textinput.New()
	ti.Placeholder = "The story is being written..."
	ti.CharLimit = 256
	ti.Width = 60

	return model{
		state:     stateWaiting,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.reply != nil {
				close(m.reply)
				m.reply = nil
			}
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state != statePrompting || m.reply == nil {
				return m, nil
			}
			value := m.textInput.Value()
			m.textInput.Reset()
			m.textInput.Blur()

			logWidth := m.logWidth()
			m.gameLog += "\n\n" + userStyle.Width(logWidth).Render("> "+value) + "\n\n"
			m.refreshLog()

			m.reply <- value
			m.reply = nil
			m.state = stateWaiting
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.logWidth(), msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = m.logWidth()
			m.viewport.Height = msg.Height - 6
		}
		m.refreshLog()

	case logMsg:
		style := gameStyle
		switch msg.kind {
		case kindInfo:
			style = infoStyle
		case kindWarn:
			style = warnStyle
		case kindError:
			style = errorStyle
		}
		m.gameLog += style.Width(m.logWidth()).Render(msg.text) + "\n\n"
		m.refreshLog()

	case promptMsg:
		m.state = statePrompting
		m.reply = msg.reply
		m.textInput.Placeholder = msg.placeholder
		m.textInput.Focus()
		return m, textinput.Blink

	case panelMsg:
		m.panel = msg.content

	case doneMsg:
		m.state = stateDone
		m.err = msg.err
		return m, tea.Quit
	}

	if m.state == statePrompting {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if !m.ready {
		return "\n  Setting the scene...\n"
	}

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderPanel(),
	)
	help := helpStyle.Render("Commands: /menu, /quit, an element id, or just type what you want to do.")

	input := m.textInput.View()
	if m.state == stateWaiting {
		input = helpStyle.Render("...")
	}

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+input,
		"\n"+help,
	) + "\n"
}

func (m model) renderPanel() string {
	panelWidth := int(float64(m.width) * 0.23)
	return panelStyle.Width(panelWidth).Height(m.viewport.Height).Render(m.panel)
}

func (m *model) refreshLog() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

func renderScenePanel(scene state.Scene) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SCENE") + "\n" + scene.ID + "\n\n")

	if scene.Weather.Condition != "" {
		b.WriteString(titleStyle.Render("WEATHER") + "\n")
		fmt.Fprintf(&b, "%s (%s)\n\n", scene.Weather.Condition, scene.Weather.Intensity)
	}

	b.WriteString(titleStyle.Render("PRESENT") + "\n")
	if len(scene.NPCsInScene) == 0 {
		b.WriteString("(nobody)\n")
	}
	for _, n := range scene.NPCsInScene {
		fmt.Fprintf(&b, "- %s (%s)\n", n.Name, n.Status)
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("ACTIONS") + "\n")
	if len(scene.InteractiveElements) == 0 {
		b.WriteString("(none)\n")
	}
	for _, e := range scene.InteractiveElements {
		fmt.Fprintf(&b, "[%s] %s\n", e.ID, e.Name)
	}

	return b.String()
}
