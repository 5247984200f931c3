package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vburojevic/registrar/internal/app/tui/theme"
)

// HeaderConfig holds header configuration
type HeaderConfig struct {
	Tabs     []string
	Active   int
	Tenant   string
	Source   string // API host or "local"
	Selected int    // rows selected on the active tab
}

// RenderHeader renders the title, the entity tabs and the tenant badge.
func RenderHeader(styles theme.Styles, cfg HeaderConfig, width int) string {
	title := RenderTitleOnly(styles)

	tabs := make([]string, 0, len(cfg.Tabs))
	for i, name := range cfg.Tabs {
		if i == cfg.Active {
			tabs = append(tabs, styles.TabActive.Render(name))
			continue
		}
		tabs = append(tabs, styles.Tab.Render(name))
	}
	tabRow := strings.Join(tabs, "")

	var badge string
	if cfg.Selected > 0 {
		badge = styles.Badge.Render(fmt.Sprintf("%d selected", cfg.Selected)) + "  "
	}
	meta := badge + styles.Tenant.Render("@"+cfg.Tenant) + styles.Muted.Render(" • "+cfg.Source)

	left := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", tabRow)
	gap := width - lipgloss.Width(left) - lipgloss.Width(meta) - 2
	if gap < 1 {
		// Narrow mode - stack vertically
		return lipgloss.JoinVertical(lipgloss.Left, left, meta)
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")
	return styles.Header.Render(lipgloss.JoinHorizontal(lipgloss.Center, left, spacer, meta))
}

// RenderTitleOnly renders just the title
func RenderTitleOnly(styles theme.Styles) string {
	return styles.Title.Render("◆ registrar")
}
