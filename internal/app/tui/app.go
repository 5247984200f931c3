package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/vburojevic/registrar/internal/app/tui/components"
	"github.com/vburojevic/registrar/internal/app/tui/theme"
	"github.com/vburojevic/registrar/internal/app/tui/views"
)

// Config holds the TUI configuration
type Config struct {
	Tenant string
	// Source names the backend: the API host or "local".
	Source   string
	StartTab string
	Styles   theme.Styles
	Keys     KeyMap
	Logger   logrus.FieldLogger
}

// Run starts the TUI over the given screens.
func Run(cfg Config, screens ...Screen) error {
	p := tea.NewProgram(New(cfg, screens...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Model is the main TUI model: a row of entity tabs, one screen each.
type Model struct {
	cfg     Config
	screens []Screen
	started map[int]bool
	active  int

	width  int
	height int

	showHelp bool
}

// New creates a new TUI model
func New(cfg Config, screens ...Screen) *Model {
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		cfg.Logger = l
	}
	m := &Model{cfg: cfg, screens: screens, started: map[int]bool{}}
	for i, s := range screens {
		if strings.EqualFold(s.Name(), cfg.StartTab) || strings.EqualFold(s.Title(), cfg.StartTab) {
			m.active = i
		}
	}
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.start(m.active)
}

// start initializes a screen the first time it is shown.
func (m *Model) start(i int) tea.Cmd {
	if i < 0 || i >= len(m.screens) || m.started[i] {
		return nil
	}
	m.started[i] = true
	m.cfg.Logger.WithField("screen", m.screens[i].Name()).Debug("screen opened")
	return m.screens[i].Init()
}

// Active returns the screen on the current tab.
func (m *Model) Active() Screen {
	if len(m.screens) == 0 {
		return nil
	}
	return m.screens[m.active]
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for _, s := range m.screens {
			s.SetSize(m.width, m.height-2)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case ScreenMsg:
		for _, s := range m.screens {
			if s.Name() == msg.ScreenName() {
				return m, s.Update(msg)
			}
		}
		return m, nil

	case spinner.TickMsg:
		// Each spinner ignores ticks that carry another spinner's id.
		cmds := make([]tea.Cmd, 0, len(m.screens))
		for i, s := range m.screens {
			if m.started[i] {
				cmds = append(cmds, s.Update(msg))
			}
		}
		return m, tea.Batch(cmds...)
	}

	if s := m.Active(); s != nil {
		return m, s.Update(msg)
	}
	return m, nil
}

// handleKeyMsg handles keyboard input
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	// Help view - dismiss on any key
	if m.showHelp {
		m.showHelp = false
		return nil
	}

	s := m.Active()
	if s == nil {
		return tea.Quit
	}
	if s.Capturing() {
		return s.Update(msg)
	}

	k := m.cfg.Keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, k.NextTab):
		return m.switchTab(1)
	case key.Matches(msg, k.PrevTab):
		return m.switchTab(-1)
	}
	return s.Update(msg)
}

func (m *Model) switchTab(delta int) tea.Cmd {
	n := len(m.screens)
	m.active = ((m.active+delta)%n + n) % n
	return m.start(m.active)
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	s := m.Active()
	if s == nil {
		return "Nothing to show"
	}
	st := m.cfg.Styles

	tabs := make([]string, 0, len(m.screens))
	for _, sc := range m.screens {
		tabs = append(tabs, sc.Title())
	}

	var b strings.Builder
	b.WriteString(components.RenderHeader(st, components.HeaderConfig{
		Tabs:     tabs,
		Active:   m.active,
		Tenant:   m.cfg.Tenant,
		Source:   m.cfg.Source,
		Selected: s.SelectedCount(),
	}, m.width))
	b.WriteString("\n")
	b.WriteString(s.View())
	b.WriteString("\n")
	status := s.Status()
	if status != "" {
		status = st.Muted.Render(status)
	}
	b.WriteString(components.RenderFooter(s.Shortcuts(), status, st, m.width))

	if m.showHelp {
		return views.Place(m.width, m.height, views.RenderHelpOverlay(m.cfg.Keys, st))
	}
	return b.String()
}
