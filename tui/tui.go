package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/chainspire/cli"
	"github.com/nathoo/chainspire/engine"
)

const introHint = "Type /help for commands. Tab completes, Up/Down walks history, PgUp/PgDn scrolls."

// Model renders a cli.Session as a scrolling transcript above a status bar
// and an input line. Every command goes through the session, so the TUI and
// the plain front end behave identically.
type Model struct {
	session *cli.Session
	log     *transcript

	viewport viewport.Model
	input    textinput.Model
	history  *History

	width, height int
	ready         bool
	quitting      bool
}

// New creates a TUI for eng. The intro is recorded right away and shown
// once the terminal size is known.
func New(eng *engine.Engine) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = styleInputPrompt
	in.CharLimit = 256
	in.Focus()

	s := cli.NewSession(eng, "")
	log := &transcript{}
	log.add("", s.Intro(introHint))
	return Model{session: s, log: log, input: in, history: NewHistory(100)}
}

// WithSaveDir points /save and /load at dir. An empty dir keeps the default.
func (m Model) WithSaveDir(dir string) Model {
	if dir != "" {
		m.session.SaveDir = dir
	}
	return m
}

// Run blocks until the player quits.
func Run(eng *engine.Engine, saveDir string) error {
	p := tea.NewProgram(New(eng).WithSaveDir(saveDir), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.execute()
		case "tab":
			m.setInput(complete(m.input.Value(), m.candidates()))
			return m, nil
		case "up":
			if prev, ok := m.history.Prev(m.input.Value()); ok {
				m.setInput(prev)
			}
			return m, nil
		case "down":
			next, ok := m.history.Next()
			if !ok {
				next = m.history.Prefix()
				m.history.ResetCursor()
			}
			m.setInput(next)
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize fits the viewport above the status bar and input line.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	vh := max(h-2, 1)
	if !m.ready {
		m.viewport = viewport.New(w, vh)
		m.viewport.KeyMap = scrollKeys()
		m.ready = true
	} else {
		m.viewport.Width, m.viewport.Height = w, vh
	}
	m.redraw()
}

// execute sends the input line through the session and records the reply.
func (m Model) execute() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if line == "" {
		return m, nil
	}
	m.history.Push(line)
	m.history.ResetCursor()

	reply := m.session.Exec(line)
	m.log.add(line, reply.Lines)
	m.input.Prompt = m.session.Prompt()
	m.redraw()
	if reply.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

func (m *Model) redraw() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.log.render(m.width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// scrollKeys leaves Up and Down to the input history.
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
