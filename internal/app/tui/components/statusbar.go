package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vburojevic/registrar/internal/app/tui/theme"
)

// Shortcut represents a keyboard shortcut
type Shortcut struct {
	Key  string
	Desc string
}

// MainShortcuts are shown while browsing a list.
var MainShortcuts = []Shortcut{
	{"j/k", "move"},
	{"enter", "select"},
	{"space", "toggle"},
	{"/", "search"},
	{"n", "new"},
	{"?", "help"},
	{"q", "quit"},
}

// SearchShortcuts are shown while the search box has focus.
var SearchShortcuts = []Shortcut{
	{"enter", "done"},
	{"esc", "clear"},
}

// FormShortcuts are shown while a form is open.
var FormShortcuts = []Shortcut{
	{"tab", "next field"},
	{"enter", "submit"},
	{"esc", "cancel"},
}

// RenderFooter renders the context-aware footer with shortcuts and an
// optional status message on the right.
func RenderFooter(shortcuts []Shortcut, status string, styles theme.Styles, width int) string {
	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, styles.HelpKey.Render(s.Key)+" "+styles.HelpDesc.Render(s.Desc))
	}
	shortcutStr := strings.Join(parts, "  ")

	if status == "" {
		return styles.Footer.Width(width).Render(shortcutStr)
	}

	gap := width - lipgloss.Width(shortcutStr) - lipgloss.Width(status) - 4
	if gap < 1 {
		return styles.Footer.Width(width).Render(status)
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")
	row := lipgloss.JoinHorizontal(lipgloss.Center, shortcutStr, spacer, status)
	return styles.Footer.Width(width).Render(row)
}
