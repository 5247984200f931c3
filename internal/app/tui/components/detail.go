package components

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vburojevic/registrar/internal/app/tui/theme"
	"github.com/vburojevic/registrar/internal/app/tui/widgets"
	"github.com/vburojevic/registrar/internal/models"
)

// Field is one labelled value in the detail panel.
type Field struct {
	Label string
	Value string
}

// RenderFields renders a key-value block. Values are truncated to fit width
// and a "Status" value is shown as a colored badge.
func RenderFields(fields []Field, styles theme.Styles, width int) string {
	var b strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		value := f.Value
		if f.Label == "Status" {
			value = widgets.StatusBadge(value, styles)
		}
		b.WriteString(renderRow(f.Label, value, styles, width))
	}
	return b.String()
}

// RenderEmptyDetail renders the panel when nothing is selected.
func RenderEmptyDetail(singular string, styles theme.Styles) string {
	return styles.Muted.Render(fmt.Sprintf("No %s selected\n\nenter select • space multi-select • n new", singular))
}

// RenderEmptyList renders the table area when a page has no rows.
func RenderEmptyList(plural string, filtered bool, styles theme.Styles) string {
	lines := []string{styles.Title.Render("No " + plural)}
	lines = append(lines, "")
	if filtered {
		lines = append(lines, styles.Muted.Render("Nothing matches the current search and filters."))
		lines = append(lines, styles.Muted.Render("Press c to clear filters or esc to clear the search."))
	} else {
		lines = append(lines, styles.Muted.Render("Press n to add one."))
	}
	return strings.Join(lines, "\n")
}

// RenderError renders an error message, listing per-field problems when the
// error carries them.
func RenderError(err error, styles theme.Styles) string {
	if err == nil {
		return ""
	}
	lines := []string{styles.ErrorText.Render("⚠ " + errorTitle(err))}
	if fields := fieldErrors(err); len(fields) > 0 {
		for _, f := range fields {
			lines = append(lines, "  "+styles.Label.Render(f.Label)+styles.ErrorText.Render(f.Value))
		}
		return strings.Join(lines, "\n")
	}
	lines = append(lines, styles.Muted.Render(err.Error()))
	return strings.Join(lines, "\n")
}

func errorTitle(err error) string {
	if len(fieldErrors(err)) > 0 {
		return "Please fix the highlighted fields"
	}
	return "Request failed"
}

func fieldErrors(err error) []Field {
	var fe models.FieldErrors
	var carrier interface{ FieldErrors() models.FieldErrors }
	switch {
	case errors.As(err, &fe):
	case errors.As(err, &carrier):
		fe = carrier.FieldErrors()
	}
	if len(fe) == 0 {
		return nil
	}
	out := make([]Field, 0, len(fe))
	for _, k := range fe.Keys() {
		out = append(out, Field{Label: k, Value: fe[k]})
	}
	return out
}

// renderRow renders a single key-value row
func renderRow(key, value string, styles theme.Styles, width int) string {
	style := styles.Value
	if max := width - styles.Label.GetWidth(); max > 0 {
		style = style.MaxWidth(max)
	}
	return styles.Label.Render(key) + style.Render(value) + "\n"
}
