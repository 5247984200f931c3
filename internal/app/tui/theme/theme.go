package theme

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines a complete color scheme for the TUI
type Theme struct {
	Name string

	// Background layers
	Crust    lipgloss.Color
	Mantle   lipgloss.Color
	Base     lipgloss.Color
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color
	Surface2 lipgloss.Color

	// Overlay layers
	Overlay0 lipgloss.Color
	Overlay1 lipgloss.Color
	Overlay2 lipgloss.Color

	// Text hierarchy
	Text     lipgloss.Color
	Subtext1 lipgloss.Color
	Subtext0 lipgloss.Color

	// Accent colors
	Accent    lipgloss.Color
	Secondary lipgloss.Color
	Tertiary  lipgloss.Color

	// Record status colors
	Good    lipgloss.Color // active, enrolled, sent
	Pending lipgloss.Color // invited, scheduled
	Warn    lipgloss.Color // draft, graduated
	Bad     lipgloss.Color // suspended, withdrawn, errors
	Off     lipgloss.Color // inactive
}

// Catppuccin flavors, darkest first. Mocha is the default.
var (
	Mocha     = fromFlavor("mocha", catppuccin.Mocha)
	Macchiato = fromFlavor("macchiato", catppuccin.Macchiato)
	Frappe    = fromFlavor("frappe", catppuccin.Frappe)
	Latte     = fromFlavor("latte", catppuccin.Latte)
)

func fromFlavor(name string, f catppuccin.Flavor) Theme {
	c := func(col catppuccin.Color) lipgloss.Color { return lipgloss.Color(col.Hex) }
	return Theme{
		Name:      name,
		Crust:     c(f.Crust()),
		Mantle:    c(f.Mantle()),
		Base:      c(f.Base()),
		Surface0:  c(f.Surface0()),
		Surface1:  c(f.Surface1()),
		Surface2:  c(f.Surface2()),
		Overlay0:  c(f.Overlay0()),
		Overlay1:  c(f.Overlay1()),
		Overlay2:  c(f.Overlay2()),
		Text:      c(f.Text()),
		Subtext1:  c(f.Subtext1()),
		Subtext0:  c(f.Subtext0()),
		Accent:    c(f.Blue()),
		Secondary: c(f.Mauve()),
		Tertiary:  c(f.Teal()),
		Good:      c(f.Green()),
		Pending:   c(f.Blue()),
		Warn:      c(f.Peach()),
		Bad:       c(f.Red()),
		Off:       c(f.Overlay0()),
	}
}

// Plain carries no colors at all. It is used for --no-color and NO_COLOR.
var Plain = Theme{Name: "plain"}

// Themes is the list of available themes
var Themes = []Theme{Mocha, Macchiato, Frappe, Latte, Plain}

// ThemeByName returns a theme by name, defaulting to Mocha
func ThemeByName(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Mocha
}

// Names lists the selectable theme names.
func Names() []string {
	out := make([]string, 0, len(Themes))
	for _, t := range Themes {
		out = append(out, t.Name)
	}
	return out
}

// Border characters for rounded subtle borders
var BorderRounded = lipgloss.Border{
	Top:         "─",
	Bottom:      "─",
	Left:        "│",
	Right:       "│",
	TopLeft:     "╭",
	TopRight:    "╮",
	BottomLeft:  "╰",
	BottomRight: "╯",
}
