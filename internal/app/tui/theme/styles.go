package theme

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all the lipgloss styles for the TUI
type Styles struct {
	Theme Theme

	// Text styles
	Text  lipgloss.Style // Primary text
	Muted lipgloss.Style // Secondary/dimmed text
	Title lipgloss.Style // App title
	Label lipgloss.Style // Field labels in the panel
	Value lipgloss.Style // Field values in the panel

	// Layout styles
	Header  lipgloss.Style // Header bar
	Footer  lipgloss.Style // Footer/shortcut bar
	List    lipgloss.Style // Table panel
	Panel   lipgloss.Style // Right-hand panel
	Divider lipgloss.Style
	Section lipgloss.Style // Section headings inside the panel

	// Tabs
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Tenant    lipgloss.Style

	// Selection
	Marker  lipgloss.Style // selected row marker
	Badge   lipgloss.Style // "3 selected" badge
	Chip    lipgloss.Style // active filter chip
	ChipOff lipgloss.Style

	// Search
	FilterPrompt lipgloss.Style
	FilterText   lipgloss.Style

	// Help overlay
	HelpOverlay lipgloss.Style
	HelpTitle   lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style

	// Record status text
	StatusGood    lipgloss.Style
	StatusPending lipgloss.Style
	StatusWarn    lipgloss.Style
	StatusBad     lipgloss.Style
	StatusOff     lipgloss.Style

	// Feedback
	ErrorText lipgloss.Style
	Success   lipgloss.Style
	Spinner   lipgloss.Style
}

// NewStyles creates styles from the theme
func NewStyles(t Theme) Styles {
	s := Styles{Theme: t}

	s.Text = lipgloss.NewStyle().Foreground(t.Text)
	s.Muted = lipgloss.NewStyle().Foreground(t.Overlay0)
	s.Title = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	s.Label = lipgloss.NewStyle().Foreground(t.Overlay1).Width(14)
	s.Value = lipgloss.NewStyle().Foreground(t.Text)

	s.Header = lipgloss.NewStyle().
		Foreground(t.Text).
		Padding(0, 1)

	s.Footer = lipgloss.NewStyle().
		Foreground(t.Overlay0).
		Padding(0, 1)

	s.List = lipgloss.NewStyle().
		Border(BorderRounded).
		BorderForeground(t.Surface1)

	s.Panel = lipgloss.NewStyle().
		Border(BorderRounded).
		BorderForeground(t.Surface1).
		Padding(0, 1)

	s.Divider = lipgloss.NewStyle().Foreground(t.Surface1)

	s.Section = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Bold(true)

	s.Tab = lipgloss.NewStyle().
		Foreground(t.Overlay1).
		Padding(0, 1)

	s.TabActive = lipgloss.NewStyle().
		Foreground(t.Base).
		Background(t.Accent).
		Bold(true).
		Padding(0, 1)

	s.Tenant = lipgloss.NewStyle().Foreground(t.Tertiary)

	s.Marker = lipgloss.NewStyle().Foreground(t.Warn).Bold(true)
	s.Badge = lipgloss.NewStyle().Foreground(t.Warn).Bold(true)
	s.Chip = lipgloss.NewStyle().
		Foreground(t.Base).
		Background(t.Tertiary).
		Padding(0, 1)
	s.ChipOff = lipgloss.NewStyle().
		Foreground(t.Overlay1).
		Padding(0, 1)

	s.FilterPrompt = lipgloss.NewStyle().Foreground(t.Overlay0)
	s.FilterText = lipgloss.NewStyle().Foreground(t.Text)

	s.HelpOverlay = lipgloss.NewStyle().
		Border(BorderRounded).
		BorderForeground(t.Surface2).
		Padding(1, 2).
		Background(t.Mantle)

	s.HelpTitle = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true).
		MarginBottom(1)

	s.HelpKey = lipgloss.NewStyle().Foreground(t.Warn)
	s.HelpDesc = lipgloss.NewStyle().Foreground(t.Overlay1)

	s.StatusGood = lipgloss.NewStyle().Foreground(t.Good)
	s.StatusPending = lipgloss.NewStyle().Foreground(t.Pending)
	s.StatusWarn = lipgloss.NewStyle().Foreground(t.Warn)
	s.StatusBad = lipgloss.NewStyle().Foreground(t.Bad)
	s.StatusOff = lipgloss.NewStyle().Foreground(t.Off)

	s.ErrorText = lipgloss.NewStyle().Foreground(t.Bad)
	s.Success = lipgloss.NewStyle().Foreground(t.Good)
	s.Spinner = lipgloss.NewStyle().Foreground(t.Secondary)

	return s
}

// DefaultStyles returns styles using the default theme
func DefaultStyles() Styles {
	return NewStyles(Mocha)
}

// Table returns bubbles table styles matching s.
func (s Styles) Table() table.Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(s.Theme.Surface1).
		BorderBottom(true).
		Foreground(s.Theme.Subtext1).
		Bold(true)
	ts.Cell = ts.Cell.Foreground(s.Theme.Text)
	ts.Selected = ts.Selected.
		Foreground(s.Theme.Text).
		Background(s.Theme.Surface0).
		Bold(false)
	return ts
}

// Form returns a huh theme matching s. The plain theme maps to huh's base
// theme, which carries no colors.
func (s Styles) Form() *huh.Theme {
	if s.Theme.Name == Plain.Name {
		return huh.ThemeBase()
	}
	return huh.ThemeCatppuccin()
}
