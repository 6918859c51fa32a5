// Package display provides the guide's display sinks: a Bubble Tea terminal
// UI and an in-memory Recorder.
//
// Every sink write from a poller goroutine reaches the [UI] as a message on
// the Bubble Tea event loop, so all display state is owned by that one
// loop and no locks are needed around it.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottoguide/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle — muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8")).
			Underline(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Foreground(lipgloss.Color("#bae6fd")).
			Padding(0, 1)
)

// ── Key bindings ─────────────────────────────────────────────────

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Tap     key.Binding
	Hide    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Tap:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "nutrition")),
		Hide:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "hide panel")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload list")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tap, k.Hide, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ── UI ───────────────────────────────────────────────────────────

// Compile-time interface check.
var _ domain.Display = (*UI)(nil)

// Actions are the user commands the UI forwards to the guide.
type Actions struct {
	HidePanel func()
	Refresh   func()
}

// UIOption configures the UI.
type UIOption func(*UI)

// WithSimpleLayout hides the ingredient list and the panel.
func WithSimpleLayout(simple bool) UIOption {
	return func(u *UI) {
		u.simple = simple
	}
}

// UI is the terminal display.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call the
// domain.Display setters at any time after [UI.WaitReady] returns; writes
// before that or after Run returns are dropped.
type UI struct {
	program *tea.Program
	readyCh chan struct{}
	quitCh  chan struct{}
	actions Actions
	simple  bool
	started atomic.Bool
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(opts ...UIOption) *UI {
	u := &UI{
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// SetActions wires the key commands. Must be called before Run.
func (u *UI) SetActions(a Actions) { u.actions = a }

func (u *UI) SetStep(text string)      { u.send(fieldMsg{FieldStep, text}) }
func (u *UI) SetTimeLeft(text string)  { u.send(fieldMsg{FieldTimeLeft, text}) }
func (u *UI) SetTimer(text string)     { u.send(fieldMsg{FieldTimer, text}) }
func (u *UI) SetNutrition(text string) { u.send(fieldMsg{FieldNutrition, text}) }
func (u *UI) SetPanel(text string)     { u.send(fieldMsg{FieldPanel, text}) }
func (u *UI) SetProgress(text string)  { u.send(fieldMsg{FieldProgress, text}) }

func (u *UI) SetPanelVisible(visible bool) { u.send(panelVisibleMsg(visible)) }

// SetRows replaces the ingredient list. The slice is copied.
func (u *UI) SetRows(rows []domain.IngredientRow) {
	u.send(rowsMsg(append([]domain.IngredientRow(nil), rows...)))
}

func (u *UI) send(msg tea.Msg) {
	if !u.started.Load() || u.done.Load() {
		return
	}
	u.program.Send(msg)
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	m := newModel(u.simple, u.actions, u.readyCh)
	u.program = tea.NewProgram(m, tea.WithAltScreen())
	u.started.Store(true)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type fieldMsg struct {
	field Field
	text  string
}

type panelVisibleMsg bool

type rowsMsg []domain.IngredientRow

type model struct {
	fields       map[Field]string
	panelVisible bool
	rows         []domain.IngredientRow
	cursor       int
	simple       bool
	width        int

	keys    keyMap
	help    help.Model
	actions Actions
	readyCh chan struct{}
}

func newModel(simple bool, actions Actions, readyCh chan struct{}) model {
	return model{
		fields: map[Field]string{
			FieldStep:      "Step: ...",
			FieldTimeLeft:  "Time Left: ...",
			FieldTimer:     "--:--",
			FieldNutrition: "Nutrition: ...",
		},
		simple:  simple,
		keys:    defaultKeys(),
		help:    help.New(),
		actions: actions,
		readyCh: readyCh,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		signalReady(m.readyCh),
		tea.SetWindowTitle("OttoGuide"),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

// run wraps fn in a Cmd. Actions write back into the display through
// Program.Send, which would deadlock if called from inside Update.
func run(fn func()) tea.Cmd {
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		fn()
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fieldMsg:
		m.fields[msg.field] = msg.text
		if msg.field == FieldTimer {
			return m, tea.SetWindowTitle("OttoGuide — " + msg.text)
		}
		return m, nil

	case panelVisibleMsg:
		m.panelVisible = bool(msg)
		return m, nil

	case rowsMsg:
		m.rows = msg
		if m.cursor >= len(m.rows) {
			m.cursor = max(0, len(m.rows)-1)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case m.simple:
			return m, nil
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Tap):
			if m.cursor < len(m.rows) {
				return m, run(m.rows[m.cursor].Tap)
			}
		case key.Matches(msg, m.keys.Hide):
			return m, run(m.actions.HidePanel)
		case key.Matches(msg, m.keys.Refresh):
			return m, run(m.actions.Refresh)
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(stepStyle.Render(m.fields[FieldStep]))
	b.WriteByte('\n')
	b.WriteString(primaryStyle.Render(m.fields[FieldTimeLeft]))
	b.WriteString(secondaryStyle.Render("   timer "))
	b.WriteString(clockStyle.Render(m.fields[FieldTimer]))
	b.WriteByte('\n')
	b.WriteString(primaryStyle.Render(m.fields[FieldNutrition]))
	b.WriteByte('\n')
	if p := m.fields[FieldProgress]; p != "" {
		b.WriteString(secondaryStyle.Render(p))
		b.WriteByte('\n')
	}

	if !m.simple {
		b.WriteByte('\n')
		b.WriteString(sectionStyle.Render("Ingredients"))
		b.WriteByte('\n')
		if len(m.rows) == 0 {
			b.WriteString(secondaryStyle.Render("  (none yet)"))
			b.WriteByte('\n')
		}
		for i, row := range m.rows {
			if i == m.cursor {
				b.WriteString(cursorStyle.Render(fmt.Sprintf("> %s", row.Ingredient())))
			} else {
				b.WriteString(primaryStyle.Render("  " + row.Ingredient()))
			}
			b.WriteByte('\n')
		}

		if m.panelVisible {
			b.WriteByte('\n')
			b.WriteString(m.renderPanel())
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	if m.simple {
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.Quit}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m model) renderPanel() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	// Border and padding take four columns.
	return panelStyle.Width(max(20, w-4)).Render(m.fields[FieldPanel])
}
