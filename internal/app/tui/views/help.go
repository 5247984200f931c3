package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/vburojevic/registrar/internal/app/tui/theme"
)

// RenderHelpOverlay renders the help overlay modal from the key map groups.
func RenderHelpOverlay(keys help.KeyMap, styles theme.Styles) string {
	h := help.New()
	h.ShowAll = true
	h.FullSeparator = "    "
	h.Styles.FullKey = styles.HelpKey
	h.Styles.FullDesc = styles.HelpDesc
	h.Styles.FullSeparator = styles.Muted

	lines := []string{
		styles.HelpTitle.Render("Keyboard Shortcuts"),
		h.View(keys),
		"",
		styles.Muted.Render("Press any key to close"),
	}
	return styles.HelpOverlay.Render(strings.Join(lines, "\n"))
}

// Place centers the overlay over an area of the given size.
func Place(width, height int, overlay string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
}
