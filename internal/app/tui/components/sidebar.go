package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vburojevic/registrar/internal/app/tui/theme"
	"github.com/vburojevic/registrar/internal/app/tui/widgets"
)

// SummaryData describes the current query for the idle panel.
type SummaryData struct {
	Search  string
	Sort    string
	Filters []Chip
	Total   int
	Page    int
	Pages   int
}

// RenderSummary renders the idle panel: what is being listed and how.
func RenderSummary(data SummaryData, styles theme.Styles, width int) string {
	var b strings.Builder

	b.WriteString(styles.Section.Render("LIST"))
	b.WriteString("\n")
	b.WriteString(summaryLine("items", fmt.Sprintf("%d", data.Total), styles))
	b.WriteString(summaryLine("page", fmt.Sprintf("%d of %d", data.Page, max(data.Pages, 1)), styles))
	b.WriteString(summaryLine("search", widgets.Safe(data.Search, "—"), styles))
	b.WriteString(summaryLine("sort", widgets.Safe(data.Sort, "—"), styles))
	b.WriteString("\n")

	if len(data.Filters) > 0 {
		b.WriteString(styles.Section.Render("FILTERS"))
		b.WriteString("\n")
		for _, c := range data.Filters {
			b.WriteString(summaryLine(c.Title, c.Value, styles))
		}
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

// SelectionLine is one entry of a multi-selection summary.
type SelectionLine struct {
	Name    string
	OffPage bool
}

// RenderSelection lists the selected records, marking the ones that are not
// on the current page.
func RenderSelection(lines []SelectionLine, styles theme.Styles, width int) string {
	var b strings.Builder
	b.WriteString(styles.Badge.Render(fmt.Sprintf("%d selected", len(lines))))
	b.WriteString("\n\n")
	for _, l := range lines {
		line := styles.Marker.Render("● ") + widgets.TruncateString(l.Name, max(width-2, 1))
		if l.OffPage {
			line += styles.Muted.Render("  (other page)")
		}
		b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("x delete all • esc clear selection"))
	return b.String()
}

func summaryLine(label, value string, styles theme.Styles) string {
	return styles.Label.Render(label) + styles.Value.Render(value) + "\n"
}
