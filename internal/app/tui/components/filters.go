package components

import (
	"strings"

	"github.com/vburojevic/registrar/internal/app/tui/theme"
)

// Chip is one filterable column and its current value.
type Chip struct {
	Title string
	Value string
}

// RenderFilterBar renders the search line followed by the filter chips.
// input is the rendered search box when it has focus.
func RenderFilterBar(term, input string, active bool, chips []Chip, focus int, styles theme.Styles) string {
	var b strings.Builder
	switch {
	case active:
		b.WriteString(input)
	case term == "":
		b.WriteString(styles.FilterPrompt.Render("/ "))
		b.WriteString(styles.Muted.Render("search..."))
	default:
		b.WriteString(styles.FilterPrompt.Render("/ "))
		b.WriteString(styles.FilterText.Render(term))
	}
	for i, c := range chips {
		b.WriteString("  ")
		label := c.Title + ": " + c.Value
		if i == focus {
			label = "▸" + label
		}
		if c.Value == "all" {
			b.WriteString(styles.ChipOff.Render(label))
			continue
		}
		b.WriteString(styles.Chip.Render(label))
	}
	return b.String()
}
