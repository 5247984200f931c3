package state

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/registrar/internal/query"
)

type row struct {
	id   string
	name string
}

func newView(pageSize int) *ListView[row] {
	return New(Identity[row]{
		Key:   func(r row) string { return r.id },
		Label: func(r row) string { return r.name },
	}, pageSize)
}

func rows(ids ...string) []row {
	out := make([]row, len(ids))
	for i, id := range ids {
		out[i] = row{id: id, name: "Row " + id}
	}
	return out
}

func TestNewIsIdle(t *testing.T) {
	lv := newView(20)

	assert.Equal(t, "", lv.SearchTerm())
	assert.Empty(t, lv.Sorting())
	assert.Empty(t, lv.ColumnFilters())
	assert.Equal(t, Pagination{PageIndex: 0, PageSize: 20}, lv.Pagination())
	assert.Empty(t, lv.RowSelection())
	assert.False(t, lv.IsCreating())
	assert.IsType(t, NoneSelected[row]{}, lv.Panel(nil))
	assert.Equal(t, query.Params{PageNumber: 1, PageSize: 20}, lv.Query())
}

func TestNewPanicsOnBadPageSize(t *testing.T) {
	assert.Panics(t, func() { newView(0) })
	assert.Panics(t, func() { New(Identity[row]{}, 10) })
}

func TestSetPaginationPanicsOnInvalidCursor(t *testing.T) {
	lv := newView(10)
	assert.Panics(t, func() { lv.SetPagination(Set(Pagination{PageIndex: 0, PageSize: 0})) })
	assert.Panics(t, func() { lv.SetPagination(Set(Pagination{PageIndex: -1, PageSize: 10})) })
	assert.Equal(t, Pagination{PageSize: 10}, lv.Pagination(), "state must be unchanged after a rejected update")
}

func TestUpdaterReceivesPreviousValue(t *testing.T) {
	lv := newView(10)
	lv.SetPagination(func(p Pagination) Pagination {
		p.PageIndex += 2
		return p
	})
	lv.SetPagination(func(p Pagination) Pagination {
		p.PageIndex++
		return p
	})
	assert.Equal(t, 3, lv.Pagination().PageIndex)

	lv.SetColumnFilters(func(prev ColumnFilters) ColumnFilters { return prev.With("status", "active") })
	lv.SetColumnFilters(func(prev ColumnFilters) ColumnFilters { return prev.With("type", "school") })
	assert.Equal(t, ColumnFilters{"status": {"active"}, "type": {"school"}}, lv.ColumnFilters())
}

func TestGettersReturnCopies(t *testing.T) {
	lv := newView(10)
	lv.SetColumnFilters(Set(ColumnFilters{"status": {"active"}}))
	lv.SelectRows("a")

	f := lv.ColumnFilters()
	f["status"][0] = "mutated"
	f["other"] = FilterValue{"x"}
	sel := lv.RowSelection()
	sel["b"] = true

	assert.Equal(t, ColumnFilters{"status": {"active"}}, lv.ColumnFilters())
	assert.Equal(t, []string{"a"}, lv.SelectedKeys())
}

func TestQueryProjection(t *testing.T) {
	lv := newView(25)
	lv.SetSearchTerm("  ridge ")
	lv.SetSorting(Set([]SortSpec{{ColumnID: "name", Desc: true}, {ColumnID: "createdAt"}}))
	lv.SetColumnFilters(Set(ColumnFilters{
		"status": {"inactive", "active"},
		"type":   {"all"},
		"role":   {},
	}))
	lv.GoToPage(2)

	want := query.Params{
		PageNumber: 3,
		PageSize:   25,
		SearchTerm: "ridge",
		SortBy:     "name:desc",
		Filters:    map[string][]string{"status": {"active", "inactive"}},
	}
	got := lv.Query()
	assert.True(t, want.Equal(got), "want %+v, got %+v", want, got)
	assert.Equal(t, got, lv.Query(), "projection must be idempotent")
}

func TestQueryCapsPageNumber(t *testing.T) {
	lv := newView(10)
	lv.GoToPage(math.MaxInt)
	assert.Equal(t, query.MaxPageNumber, lv.Query().PageNumber)
}

func TestQueryDropsAllSentinel(t *testing.T) {
	withAll := newView(10)
	withAll.SetColumnFilters(Set(ColumnFilters{"status": {"all"}}))
	empty := newView(10)

	assert.Equal(t, empty.Query(), withAll.Query())
	assert.Nil(t, withAll.Query().Filters)
}

func TestSetSortingDropsEmptyColumns(t *testing.T) {
	lv := newView(10)
	lv.SetSorting(Set([]SortSpec{{ColumnID: " "}, {ColumnID: "name"}}))
	assert.Equal(t, []SortSpec{{ColumnID: "name"}}, lv.Sorting())
	assert.Equal(t, "name:asc", lv.Query().SortBy)
}

func TestRawSetSearchTermKeepsPage(t *testing.T) {
	lv := newView(10)
	lv.GoToPage(3)
	lv.SetSearchTerm("foo")
	assert.Equal(t, 4, lv.Query().PageNumber)
}

func TestCompositeTransitionsResetPage(t *testing.T) {
	tests := []struct {
		name   string
		change func(*ListView[row])
	}{
		{"search", func(lv *ListView[row]) { lv.ChangeSearchAndResetPage("foo") }},
		{"sort", func(lv *ListView[row]) { lv.ChangeSortAndResetPage(Set([]SortSpec{{ColumnID: "name"}})) }},
		{"filters", func(lv *ListView[row]) {
			lv.ChangeFiltersAndResetPage(func(prev ColumnFilters) ColumnFilters { return prev.With("status", "active") })
		}},
		{"page size", func(lv *ListView[row]) { lv.ChangePageSize(50) }},
		{"dispatch search", func(lv *ListView[row]) { lv.Dispatch(SearchChanged{Term: "foo"}) }},
		{"dispatch sort", func(lv *ListView[row]) { lv.Dispatch(SortChanged{Sorting: []SortSpec{{ColumnID: "name", Desc: true}}}) }},
		{"dispatch filters", func(lv *ListView[row]) { lv.Dispatch(FiltersChanged{Filters: ColumnFilters{"k": {"v"}}}) }},
		{"dispatch filter set", func(lv *ListView[row]) { lv.Dispatch(FilterSet{Key: "k", Values: []string{"v"}}) }},
		{"dispatch page size", func(lv *ListView[row]) { lv.Dispatch(PageSizeChanged{Size: 5}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv := newView(10)
			lv.GoToPage(3)
			tt.change(lv)
			assert.Equal(t, 0, lv.Pagination().PageIndex)
			assert.Equal(t, 1, lv.Query().PageNumber)
		})
	}
}

func TestSearchAfterPagingQueriesFirstPage(t *testing.T) {
	lv := newView(10)
	lv.Dispatch(PageChanged{Index: 3})
	require.Equal(t, 4, lv.Query().PageNumber)

	lv.ChangeSearchAndResetPage("foo")

	q := lv.Query()
	assert.Equal(t, 1, q.PageNumber)
	assert.Equal(t, "foo", q.SearchTerm)
}

func TestColumnFiltersHelpers(t *testing.T) {
	f := ColumnFilters{}
	f = f.Toggle("status", "active")
	f = f.Toggle("status", "invited")
	assert.Equal(t, FilterValue{"active", "invited"}, f["status"])

	f = f.Toggle("status", "active")
	assert.Equal(t, FilterValue{"invited"}, f["status"])
	assert.Equal(t, "invited", f.Single("status"))

	f = f.With("status", "all")
	assert.NotContains(t, f, "status")
	assert.Equal(t, query.FilterAll, f.Single("status"))
}

func TestObserveKeepsNamesAcrossPages(t *testing.T) {
	lv := newView(2)
	page1 := rows("a", "b")
	lv.Observe(page1)
	lv.SelectRows("a")
	lv.ToggleRow("b")

	lv.GoToPage(1)
	page2 := rows("c", "d")
	lv.Observe(page2)
	lv.ToggleRow("c")

	sel := lv.Selected(page2)
	require.Len(t, sel, 3)
	assert.Equal(t, "c", sel[0].Key, "rows on the current page come first")
	assert.Equal(t, "Row a", sel[1].Name)
	require.NotNil(t, sel[1].Item)
	assert.Equal(t, "a", sel[1].Item.id)
	assert.Equal(t, "b", sel[2].Key)
}

func TestSelectedWithUnknownKey(t *testing.T) {
	lv := newView(10)
	lv.SelectRows("ghost")

	sel := lv.Selected(rows("a"))
	require.Len(t, sel, 1)
	assert.Equal(t, "ghost", sel[0].Name)
	assert.Nil(t, sel[0].Item)
}

func TestRetainSelection(t *testing.T) {
	lv := newView(10)
	lv.SelectRows("a", "b", "c")

	dropped := lv.RetainSelection([]string{"b", "z"})

	assert.Equal(t, 2, dropped)
	assert.Equal(t, []string{"b"}, lv.SelectedKeys())
}

// Random transition sequences must never break the create/selection
// exclusion or produce an unresolvable panel.
func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := []string{"a", "b", "c", "d"}
	pick := func() string { return keys[rng.Intn(len(keys))] }

	actions := []func() Action{
		func() Action { return SearchChanged{Term: pick()} },
		func() Action { return SortChanged{Sorting: []SortSpec{{ColumnID: pick(), Desc: rng.Intn(2) == 0}}} },
		func() Action { return FilterSet{Key: "status", Values: []string{pick(), "all"}} },
		func() Action { return PageChanged{Index: rng.Intn(5)} },
		func() Action { return RowsSelected{Keys: []string{pick(), pick()}} },
		func() Action { return RowToggled{Key: pick()} },
		func() Action { return RowClicked{Key: pick()} },
		func() Action { return CreateStarted{Context: CreateContext{"branch": pick()}} },
		func() Action { return CreateExited{} },
		func() Action { return MutationSucceeded{} },
		func() Action { return SelectionCleared{} },
	}

	lv := newView(10)
	page := rows(keys...)
	lv.Observe(page)
	for i := 0; i < 2000; i++ {
		lv.Dispatch(actions[rng.Intn(len(actions))]())

		if lv.IsCreating() {
			require.Empty(t, lv.RowSelection(), "step %d", i)
		}
		if len(lv.RowSelection()) > 0 {
			require.False(t, lv.IsCreating(), "step %d", i)
		}
		require.Equal(t, lv.Query(), lv.Query())

		p := lv.Panel(page)
		require.NotNil(t, p)
		switch len(lv.RowSelection()) {
		case 0:
			if lv.IsCreating() {
				require.IsType(t, Creating[row]{}, p)
			} else {
				require.IsType(t, NoneSelected[row]{}, p)
			}
		case 1:
			require.IsType(t, OneSelected[row]{}, p)
		default:
			require.IsType(t, MultipleSelected[row]{}, p)
		}
	}
}
