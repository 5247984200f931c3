package app

import (
	"encoding/json"
	"fmt"
	"io"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vburojevic/registrar/internal/app/tui/components"
	"github.com/vburojevic/registrar/internal/query"
)

// -------------------------
// Output (non-TUI)
// -------------------------

// listPayload is the --json shape of a page, matching the API envelope.
type listPayload struct {
	Items      any                  `json:"items"`
	Pagination query.PaginationMeta `json:"paginationMetadata"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderList(w io.Writer, plural string, t table, asJSON, noColor bool) error {
	if asJSON {
		return writeJSON(w, listPayload{Items: t.Items, Pagination: t.Meta})
	}

	if len(t.Rows) == 0 {
		if t.Meta.TotalItemCount > 0 {
			fmt.Fprintf(w, "No %s on page %d (%d pages).\n", plural, t.Meta.PageNumber, t.Meta.TotalPageCount)
			return nil
		}
		fmt.Fprintf(w, "No %s found.\n", plural)
		return nil
	}

	tw := prettytable.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(prettytable.StyleLight)
	if !noColor {
		tw.Style().Color.Header = text.Colors{text.Bold}
	}
	tw.Style().Options.SeparateRows = false

	header := make(prettytable.Row, 0, len(t.Headers))
	for _, h := range t.Headers {
		header = append(header, h)
	}
	tw.AppendHeader(header)
	for _, r := range t.Rows {
		row := make(prettytable.Row, 0, len(r))
		for _, c := range r {
			row = append(row, c)
		}
		tw.AppendRow(row)
	}
	tw.SetCaption("page %d of %d, %d %s", t.Meta.PageNumber, max(t.Meta.TotalPageCount, 1), t.Meta.TotalItemCount, plural)
	tw.Render()
	return nil
}

func renderFields(w io.Writer, fields []components.Field, noColor bool) {
	tw := prettytable.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(prettytable.StyleLight)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateHeader = false
	label := prettytable.ColumnConfig{Number: 1, Align: text.AlignRight}
	if !noColor {
		label.Colors = text.Colors{text.Faint}
	}
	tw.SetColumnConfigs([]prettytable.ColumnConfig{label})
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		tw.AppendRow(prettytable.Row{f.Label, f.Value})
	}
	tw.Render()
}
