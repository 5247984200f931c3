package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vburojevic/registrar/internal/app/tui/components"
	"github.com/vburojevic/registrar/internal/app/tui/state"
	"github.com/vburojevic/registrar/internal/app/tui/theme"
	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
)

// memOrgs is an in-memory organization source that records every list call.
type memOrgs struct {
	items []models.Organization
	lists []query.Params
	next  int
}

func newMemOrgs(n int) *memOrgs {
	m := &memOrgs{}
	for i := 1; i <= n; i++ {
		status := models.OrgStatusActive
		if i%2 == 0 {
			status = models.OrgStatusInactive
		}
		m.items = append(m.items, models.Organization{
			ID:     fmt.Sprintf("org-%02d", i),
			Name:   fmt.Sprintf("Org %02d", i),
			Type:   models.OrgTypeSchool,
			Status: status,
		})
	}
	m.next = n
	return m
}

func (m *memOrgs) List(_ context.Context, p query.Params) (query.Page[models.Organization], error) {
	m.lists = append(m.lists, p)
	var out []models.Organization
	for _, o := range m.items {
		if want := p.Filters["status"]; len(want) > 0 && !slices.Contains(want, o.Status) {
			continue
		}
		if p.SearchTerm != "" && !strings.Contains(strings.ToLower(o.Name), strings.ToLower(p.SearchTerm)) {
			continue
		}
		out = append(out, o)
	}
	if spec, ok := p.Sort(); ok && spec.Desc {
		slices.Reverse(out)
	}
	return query.Paginate(out, p.PageNumber, p.PageSize), nil
}

func (m *memOrgs) Get(_ context.Context, key string) (models.Organization, error) {
	for _, o := range m.items {
		if o.ID == key {
			return o, nil
		}
	}
	return models.Organization{}, fmt.Errorf("organization %s: %w", key, query.ErrNotFound)
}

func (m *memOrgs) Create(_ context.Context, o models.Organization) (models.Organization, error) {
	o = o.Normalized()
	if err := models.Validate(o); err != nil {
		return models.Organization{}, err
	}
	m.next++
	o.ID = fmt.Sprintf("org-%02d", m.next)
	m.items = append(m.items, o)
	return o, nil
}

func (m *memOrgs) Update(_ context.Context, o models.Organization) (models.Organization, error) {
	for i := range m.items {
		if m.items[i].ID == o.ID {
			m.items[i] = o
			return o, nil
		}
	}
	return models.Organization{}, query.ErrNotFound
}

func (m *memOrgs) Delete(_ context.Context, key string) error {
	for i := range m.items {
		if m.items[i].ID == key {
			m.items = slices.Delete(m.items, i, i+1)
			return nil
		}
	}
	return query.ErrNotFound
}

func (m *memOrgs) lastList() query.Params { return m.lists[len(m.lists)-1] }

var testOrgEntity = Entity[models.Organization]{
	Name:     "organizations",
	Title:    "Organizations",
	Singular: "organization",
	Columns: []Column[models.Organization]{
		{ID: "name", Title: "Name", Width: 20, Value: func(o models.Organization) string { return o.Name }, Sortable: true},
		{ID: "status", Title: "Status", Width: 10, Value: func(o models.Organization) string { return o.Status }, Sortable: true},
	},
	Filters: []FilterDef{NewFilter("status", "Status", models.OrgStatusActive, models.OrgStatusInactive)},
	Fields: func(o models.Organization) []components.Field {
		return []components.Field{{Label: "Name", Value: o.Name}, {Label: "Status", Value: o.Status}}
	},
	New: func(state.CreateContext) models.Organization {
		return models.Organization{Type: models.OrgTypeSchool, Status: models.OrgStatusActive}
	},
	Form: func(d *models.Organization, _ bool) *huh.Form {
		return huh.NewForm(huh.NewGroup(huh.NewInput().Title("Name").Value(&d.Name)))
	},
}

func newTestScreen(t *testing.T, src *memOrgs, prune bool) *ListScreen[models.Organization] {
	t.Helper()
	s := NewListScreen(testOrgEntity, src, ScreenOptions{
		PageSize:       10,
		PruneSelection: prune,
		Styles:         theme.NewStyles(theme.Plain),
		Keys:           DefaultKeyMap(),
	})
	s.SetSize(120, 40)
	run(s, s.Init())
	return s
}

// run executes cmd and feeds back every message addressed to a screen,
// following batches. Other messages (cursor blinks, spinner ticks) are
// dropped.
func run(s Screen, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case ScreenMsg:
			queue = append(queue, s.Update(msg))
		}
	}
}

func press(s Screen, keys ...string) {
	for _, k := range keys {
		run(s, s.Update(keyMsg(k)))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestScreenLoadsFirstPage(t *testing.T) {
	src := newMemOrgs(25)
	s := newTestScreen(t, src, false)

	require.Len(t, src.lists, 1)
	assert.Equal(t, query.Params{PageNumber: 1, PageSize: 10}, src.lists[0])
	assert.Len(t, s.rows, 10)
	assert.Equal(t, 25, s.meta.TotalItemCount)
	assert.False(t, s.loading)

	out := ansi.Strip(s.View())
	assert.Contains(t, out, "Org 01")
	assert.Contains(t, out, "page 1 of 3")
	assert.Contains(t, out, "No organization selected")
}

func TestScreenPagingAndSearchReset(t *testing.T) {
	src := newMemOrgs(25)
	s := newTestScreen(t, src, false)

	press(s, "]")
	assert.Equal(t, 1, s.view.Pagination().PageIndex)
	assert.Equal(t, "Org 11", s.rows[0].Name)

	press(s, "]", "]")
	assert.Equal(t, 2, s.view.Pagination().PageIndex, "paging stops at the last page")

	s.Update(keyMsg("/"))
	require.True(t, s.Capturing())
	press(s, "2")
	assert.Equal(t, 0, s.view.Pagination().PageIndex)
	assert.Equal(t, "2", src.lastList().SearchTerm)
	assert.Equal(t, 1, src.lastList().PageNumber)

	press(s, "enter")
	assert.False(t, s.Capturing())
	assert.Equal(t, "2", s.view.SearchTerm())
}

func TestScreenStepsBackWhenPagesVanish(t *testing.T) {
	src := newMemOrgs(25)
	s := newTestScreen(t, src, false)
	press(s, "]", "]")
	require.Equal(t, 2, s.view.Pagination().PageIndex)

	src.items = src.items[:12]
	press(s, "r")
	assert.Equal(t, 1, s.view.Pagination().PageIndex)
	assert.Equal(t, 2, src.lastList().PageNumber)
	assert.Len(t, s.rows, 2)

	src.items = nil
	press(s, "r")
	assert.Equal(t, 0, s.view.Pagination().PageIndex, "an emptied list returns to the first page")
	assert.Equal(t, 1, src.lastList().PageNumber)
	assert.Contains(t, ansi.Strip(s.View()), "page 1 of 1")
}

func TestScreenDropsSupersededPage(t *testing.T) {
	src := newMemOrgs(25)
	s := newTestScreen(t, src, false)

	stale := query.Paginate([]models.Organization{{ID: "ghost", Name: "Ghost"}}, 1, 10)
	s.Update(pageLoadedMsg[models.Organization]{screen: s.Name(), seq: s.seq - 1, page: stale})

	assert.Len(t, s.rows, 10)
	assert.Equal(t, "org-01", s.rows[0].ID)
}

func TestScreenDoesNotRefetchUnchangedQuery(t *testing.T) {
	src := newMemOrgs(5)
	s := newTestScreen(t, src, false)

	press(s, "down", "enter", "space")
	assert.Len(t, src.lists, 1, "selection changes must not reload the list")

	press(s, "r")
	assert.Len(t, src.lists, 2)
}

func TestScreenClickShowsDetail(t *testing.T) {
	src := newMemOrgs(5)
	s := newTestScreen(t, src, false)

	press(s, "enter")

	one, ok := s.view.Panel(s.rows).(state.OneSelected[models.Organization])
	require.True(t, ok)
	assert.Equal(t, "org-01", one.Key)
	require.NotNil(t, s.detail)
	assert.Equal(t, "Org 01", s.detail.Name)

	out := ansi.Strip(s.View())
	assert.Contains(t, out, "e edit")

	press(s, "enter")
	assert.Equal(t, state.KindNoneSelected, s.view.Panel(s.rows).Kind(), "clicking the selected row deselects it")
}

func TestScreenToggleBuildsMultipleSelection(t *testing.T) {
	src := newMemOrgs(5)
	s := newTestScreen(t, src, false)

	press(s, "space", "down", "space")

	assert.Equal(t, state.KindMultipleSelected, s.view.Panel(s.rows).Kind())
	assert.Equal(t, 2, s.SelectedCount())
	assert.Contains(t, ansi.Strip(s.View()), "2 selected")
}

func TestScreenFilterAndSortKeys(t *testing.T) {
	src := newMemOrgs(25)
	s := newTestScreen(t, src, false)
	press(s, "]")

	press(s, "f")
	assert.Equal(t, map[string][]string{"status": {"active"}}, src.lastList().Filters)
	assert.Equal(t, 1, src.lastList().PageNumber)

	press(s, "f", "f")
	assert.Empty(t, src.lastList().Filters, "cycling wraps back to all")

	press(s, "s")
	assert.Equal(t, "name:asc", src.lastList().SortBy)
	press(s, "S")
	assert.Equal(t, "name:desc", src.lastList().SortBy)
	press(s, "s")
	assert.Equal(t, "status:asc", src.lastList().SortBy)
	press(s, "s")
	assert.Empty(t, src.lastList().SortBy)
}

func TestScreenCreateFromSelection(t *testing.T) {
	src := newMemOrgs(25)
	s := newTestScreen(t, src, false)
	press(s, "]", "enter")
	require.Equal(t, 1, s.SelectedCount())

	s.Update(keyMsg("n"))
	assert.True(t, s.view.IsCreating())
	assert.Zero(t, s.SelectedCount())
	assert.Equal(t, state.KindCreating, s.view.Panel(s.rows).Kind())
	require.NotNil(t, s.form)

	s.draft.Name = "Lakeside College"
	run(s, s.submit())

	assert.False(t, s.view.IsCreating())
	assert.Zero(t, s.SelectedCount())
	assert.Equal(t, 0, s.view.Pagination().PageIndex)
	assert.Nil(t, s.form)
	assert.Equal(t, "created Lakeside College", s.Status())
	assert.Len(t, src.items, 26)
	assert.Equal(t, 26, s.meta.TotalItemCount)
}

func TestScreenFailedCreateKeepsForm(t *testing.T) {
	src := newMemOrgs(3)
	s := newTestScreen(t, src, false)

	s.Update(keyMsg("n"))
	s.draft.Name = ""
	// Deliver the result without running the reopened form's commands.
	s.Update(s.submit()())

	assert.True(t, s.view.IsCreating())
	assert.NotNil(t, s.form)
	assert.Equal(t, formCreate, s.mode)
	var fe models.FieldErrors
	require.ErrorAs(t, s.formErr, &fe)
	assert.Contains(t, fe, "name")
	assert.Len(t, src.items, 3)
}

func TestScreenEscapeUnwinds(t *testing.T) {
	src := newMemOrgs(3)
	s := newTestScreen(t, src, false)

	s.Update(keyMsg("n"))
	require.True(t, s.view.IsCreating())
	press(s, "esc")
	assert.False(t, s.view.IsCreating())
	assert.Nil(t, s.form)

	press(s, "space")
	require.Equal(t, 1, s.SelectedCount())
	press(s, "esc")
	assert.Zero(t, s.SelectedCount())
}

// While the form is open it owns the keyboard; esc then enter on a row
// ends in the same state as clicking a row while creating.
func TestScreenRowAfterLeavingCreate(t *testing.T) {
	src := newMemOrgs(3)
	s := newTestScreen(t, src, false)

	s.Update(keyMsg("n"))
	require.True(t, s.view.IsCreating())
	press(s, "esc", "down", "enter")

	assert.False(t, s.view.IsCreating())
	one, ok := s.view.Panel(s.rows).(state.OneSelected[models.Organization])
	require.True(t, ok)
	assert.Equal(t, "org-02", one.Key)
}

func TestScreenDeleteSelection(t *testing.T) {
	src := newMemOrgs(5)
	s := newTestScreen(t, src, false)
	press(s, "space", "down", "space")

	s.Update(keyMsg("x"))
	require.Equal(t, formDelete, s.mode)
	assert.Equal(t, []string{"org-01", "org-02"}, s.pending)

	s.confirm = true
	run(s, s.submit())

	assert.Len(t, src.items, 3)
	assert.Zero(t, s.SelectedCount())
	assert.Equal(t, "deleted 2 organizations", s.Status())
	assert.Len(t, s.rows, 3)
}

func TestScreenDeclinedDeleteKeepsRows(t *testing.T) {
	src := newMemOrgs(5)
	s := newTestScreen(t, src, false)
	press(s, "space")

	s.Update(keyMsg("x"))
	run(s, s.submit())

	assert.Len(t, src.items, 5)
	assert.Equal(t, 1, s.SelectedCount())
	assert.Equal(t, formNone, s.mode)
}

func TestScreenKeepsSelectionAcrossPages(t *testing.T) {
	src := newMemOrgs(25)
	s := newTestScreen(t, src, false)
	press(s, "space", "]")

	assert.Equal(t, 1, s.SelectedCount())
	sel := s.view.Selected(s.rows)
	require.Len(t, sel, 1)
	require.NotNil(t, sel[0].Item)
	assert.Equal(t, "Org 01", sel[0].Name)
}

func TestScreenPrunesSelectionWhenEnabled(t *testing.T) {
	src := newMemOrgs(25)
	s := newTestScreen(t, src, true)
	press(s, "space", "]")

	assert.Zero(t, s.SelectedCount())
}

func TestScreenEditSavesAndClears(t *testing.T) {
	src := newMemOrgs(3)
	s := newTestScreen(t, src, false)
	press(s, "enter")

	s.Update(keyMsg("e"))
	require.Equal(t, formEdit, s.mode)
	s.draft.Name = "Renamed"
	run(s, s.submit())

	assert.Equal(t, "Renamed", src.items[0].Name)
	assert.Zero(t, s.SelectedCount())
	assert.Equal(t, "saved Renamed", s.Status())
}

func TestCreateTitleUsesFilterTitles(t *testing.T) {
	s := NewListScreen(testOrgEntity, newMemOrgs(0), ScreenOptions{Styles: theme.NewStyles(theme.Plain), Keys: DefaultKeyMap()})
	assert.Equal(t, "New organization", s.createTitle(nil))
	assert.Equal(t, "New organization (status: active)", s.createTitle(state.CreateContext{"status": "active"}))
}
