package components

import (
	"errors"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/vburojevic/registrar/internal/app/tui/theme"
	"github.com/vburojevic/registrar/internal/models"
)

var plain = theme.NewStyles(theme.Plain)

func TestRenderHeaderShowsTabsAndTenant(t *testing.T) {
	out := ansi.Strip(RenderHeader(plain, HeaderConfig{
		Tabs:     []string{"Organizations", "Members"},
		Active:   1,
		Tenant:   "acme",
		Source:   "local",
		Selected: 2,
	}, 120))

	assert.Contains(t, out, "registrar")
	assert.Contains(t, out, "Organizations")
	assert.Contains(t, out, "Members")
	assert.Contains(t, out, "@acme")
	assert.Contains(t, out, "2 selected")
}

func TestRenderFooterNarrowKeepsStatus(t *testing.T) {
	out := ansi.Strip(RenderFooter(MainShortcuts, "Saved", plain, 10))
	assert.Contains(t, out, "Saved")
	assert.NotContains(t, out, "quit")
}

func TestRenderFilterBar(t *testing.T) {
	out := ansi.Strip(RenderFilterBar("north", "", false, []Chip{
		{Title: "Status", Value: "active"},
		{Title: "Type", Value: "all"},
	}, 1, plain))

	assert.Contains(t, out, "/ north")
	assert.Contains(t, out, "Status: active")
	assert.Contains(t, out, "▸Type: all")
}

func TestRenderErrorListsFieldProblems(t *testing.T) {
	err := models.FieldErrors{"name": "is required", "email": "must be a valid email address"}
	out := ansi.Strip(RenderError(err, plain))

	assert.Contains(t, out, "Please fix the highlighted fields")
	assert.Contains(t, out, "is required")
	assert.Contains(t, out, "must be a valid email address")
}

func TestRenderErrorPlain(t *testing.T) {
	out := ansi.Strip(RenderError(errors.New("connection refused"), plain))
	assert.Contains(t, out, "Request failed")
	assert.Contains(t, out, "connection refused")
	assert.Empty(t, RenderError(nil, plain))
}

func TestRenderFieldsSkipsEmpty(t *testing.T) {
	out := ansi.Strip(RenderFields([]Field{
		{Label: "Name", Value: "Harbor University"},
		{Label: "Phone", Value: ""},
	}, plain, 60))

	assert.Contains(t, out, "Harbor University")
	assert.NotContains(t, out, "Phone")
}

func TestRenderFieldsBadgesStatus(t *testing.T) {
	out := ansi.Strip(RenderFields([]Field{
		{Label: "Status", Value: "training_center"},
		{Label: "Type", Value: "training_center"},
	}, plain, 60))

	assert.Contains(t, out, "· training center")
	assert.Contains(t, out, "training_center")
}

func TestRenderSelectionMarksOffPage(t *testing.T) {
	out := ansi.Strip(RenderSelection([]SelectionLine{
		{Name: "Ada Lovelace"},
		{Name: "Alan Turing", OffPage: true},
	}, plain, 60))

	assert.Contains(t, out, "2 selected")
	assert.Contains(t, out, "Alan Turing  (other page)")
}
