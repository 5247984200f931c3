// Package state holds the list-view controller shared by every entity tab:
// search, sorting, column filters, pagination, row selection and the
// create mode, plus the panel resolver that derives the right-hand panel.
package state

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/vburojevic/registrar/internal/query"
)

// SortSpec orders rows by one column.
type SortSpec = query.SortSpec

// Pagination is a zero-based page cursor.
type Pagination struct {
	PageIndex int
	PageSize  int
}

// FilterValue is a set of accepted values for one column. A single value is
// a one-element set.
type FilterValue []string

// ColumnFilters maps a column id to its accepted values. A missing key means
// no constraint.
type ColumnFilters map[string]FilterValue

// RowSelection is the set of selected row keys.
type RowSelection map[string]bool

// CreateContext carries what kind of record the create form is for, e.g.
// {"branch": "students"} for notifications.
type CreateContext map[string]string

// Update computes the next value of a field from the previous one.
type Update[V any] func(prev V) V

// Set returns an Update that ignores the previous value.
func Set[V any](v V) Update[V] {
	return func(V) V { return v }
}

// Identity extracts the stable key and display name of a row.
type Identity[T any] struct {
	Key   func(T) string
	Label func(T) string
}

// ListView is the state of one paged, searchable, selectable list. The zero
// value is not usable; call New.
type ListView[T any] struct {
	id Identity[T]

	search     string
	sorting    []SortSpec
	filters    ColumnFilters
	pagination Pagination
	selection  RowSelection
	creating   bool
	createCtx  CreateContext

	// page is the last observed page; known holds the last seen row for
	// each selected key so selections surviving a page change can still be
	// summarized.
	page  []T
	known map[string]T
}

// New returns an idle list view on the first page.
func New[T any](id Identity[T], pageSize int) *ListView[T] {
	if id.Key == nil {
		panic("state: Identity.Key is required")
	}
	if id.Label == nil {
		id.Label = id.Key
	}
	l := &ListView[T]{
		id:        id,
		filters:   ColumnFilters{},
		selection: RowSelection{},
		known:     map[string]T{},
	}
	l.SetPagination(Set(Pagination{PageIndex: 0, PageSize: pageSize}))
	return l
}

// SearchTerm returns the raw search text.
func (l *ListView[T]) SearchTerm() string { return l.search }

// SetSearchTerm replaces the search text. It does not touch the page; use
// ChangeSearchAndResetPage for user edits.
func (l *ListView[T]) SetSearchTerm(term string) { l.search = term }

// Sorting returns a copy of the sort specs in priority order.
func (l *ListView[T]) Sorting() []SortSpec { return slices.Clone(l.sorting) }

func (l *ListView[T]) SetSorting(u Update[[]SortSpec]) {
	next := u(l.Sorting())
	out := make([]SortSpec, 0, len(next))
	for _, s := range next {
		if strings.TrimSpace(s.ColumnID) == "" {
			continue
		}
		out = append(out, s)
	}
	l.sorting = out
}

// ColumnFilters returns a deep copy of the filters.
func (l *ListView[T]) ColumnFilters() ColumnFilters { return l.filters.Clone() }

func (l *ListView[T]) SetColumnFilters(u Update[ColumnFilters]) {
	next := u(l.ColumnFilters())
	out := make(ColumnFilters, len(next))
	for k, v := range next {
		if len(v) == 0 {
			continue
		}
		out[k] = slices.Clone(v)
	}
	l.filters = out
}

func (l *ListView[T]) Pagination() Pagination { return l.pagination }

// SetPagination replaces the page cursor. A non-positive page size or a
// negative index is a programming error and panics.
func (l *ListView[T]) SetPagination(u Update[Pagination]) {
	next := u(l.pagination)
	if next.PageSize <= 0 {
		panic(fmt.Sprintf("state: page size must be positive, got %d", next.PageSize))
	}
	if next.PageIndex < 0 {
		panic(fmt.Sprintf("state: page index must not be negative, got %d", next.PageIndex))
	}
	l.pagination = next
}

// RowSelection returns a copy of the selected keys.
func (l *ListView[T]) RowSelection() RowSelection { return maps.Clone(l.selection) }

// SelectedKeys returns the selected keys in sorted order.
func (l *ListView[T]) SelectedKeys() []string {
	keys := make([]string, 0, len(l.selection))
	for k := range l.selection {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l *ListView[T]) IsSelected(key string) bool { return l.selection[key] }

// SetRowSelection replaces the selection. A non-empty selection always
// leaves create mode.
func (l *ListView[T]) SetRowSelection(u Update[RowSelection]) {
	next := u(l.RowSelection())
	out := make(RowSelection, len(next))
	for k, on := range next {
		if on && k != "" {
			out[k] = true
		}
	}
	l.selection = out
	for k := range l.known {
		if !out[k] {
			delete(l.known, k)
		}
	}
	l.remember()
	if len(out) > 0 {
		l.creating = false
		l.createCtx = nil
	}
}

func (l *ListView[T]) IsCreating() bool { return l.creating }

// CreateContext returns a copy of the context passed to StartCreate.
func (l *ListView[T]) CreateContext() CreateContext { return maps.Clone(l.createCtx) }

// Query projects the state into data source parameters. It has no side
// effects.
func (l *ListView[T]) Query() query.Params {
	p := query.Params{
		PageNumber: min(l.pagination.PageIndex, query.MaxPageNumber-1) + 1,
		PageSize:   l.pagination.PageSize,
		SearchTerm: strings.TrimSpace(l.search),
	}
	if len(l.sorting) > 0 {
		p.SortBy = l.sorting[0].Token()
	}
	for k, v := range l.filters {
		kept := query.CleanFilterValues(v)
		if len(kept) == 0 {
			continue
		}
		if p.Filters == nil {
			p.Filters = map[string][]string{}
		}
		p.Filters[k] = kept
	}
	return p
}

// ChangeSearchAndResetPage sets the search text and returns to page one.
func (l *ListView[T]) ChangeSearchAndResetPage(term string) {
	l.SetSearchTerm(term)
	l.resetPage()
}

// ChangeSortAndResetPage updates sorting and returns to page one.
func (l *ListView[T]) ChangeSortAndResetPage(u Update[[]SortSpec]) {
	l.SetSorting(u)
	l.resetPage()
}

// ChangeFiltersAndResetPage updates the column filters and returns to page
// one.
func (l *ListView[T]) ChangeFiltersAndResetPage(u Update[ColumnFilters]) {
	l.SetColumnFilters(u)
	l.resetPage()
}

// ChangePageSize sets the page size and returns to page one.
func (l *ListView[T]) ChangePageSize(size int) {
	l.SetPagination(func(Pagination) Pagination {
		return Pagination{PageIndex: 0, PageSize: size}
	})
}

// GoToPage moves the cursor to a zero-based page index.
func (l *ListView[T]) GoToPage(index int) {
	l.SetPagination(func(p Pagination) Pagination {
		p.PageIndex = index
		return p
	})
}

func (l *ListView[T]) resetPage() { l.GoToPage(0) }

// Observe records the rows of a freshly loaded page so selected rows stay
// describable after they scroll out of view.
func (l *ListView[T]) Observe(rows []T) {
	l.page = slices.Clone(rows)
	l.remember()
}

func (l *ListView[T]) remember() {
	for _, row := range l.page {
		if k := l.id.Key(row); l.selection[k] {
			l.known[k] = row
		}
	}
}

// RetainSelection drops selected keys not present in keys and returns how
// many were dropped.
func (l *ListView[T]) RetainSelection(keys []string) int {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	dropped := 0
	l.SetRowSelection(func(prev RowSelection) RowSelection {
		for k := range prev {
			if !present[k] {
				delete(prev, k)
				dropped++
			}
		}
		return prev
	})
	return dropped
}

// Selected lists the selection with row data attached. Rows on the current
// page come first in page order, followed by selected keys that are not on
// the page in key order; those carry the last observed row or a nil Item.
func (l *ListView[T]) Selected(rows []T) []Selected[T] {
	if len(l.selection) == 0 {
		return nil
	}
	out := make([]Selected[T], 0, len(l.selection))
	seen := make(map[string]bool, len(l.selection))
	for i := range rows {
		k := l.id.Key(rows[i])
		if !l.selection[k] || seen[k] {
			continue
		}
		seen[k] = true
		row := rows[i]
		out = append(out, Selected[T]{Key: k, Name: l.id.Label(row), Item: &row})
	}
	for _, k := range l.SelectedKeys() {
		if seen[k] {
			continue
		}
		s := Selected[T]{Key: k, Name: k}
		if row, ok := l.known[k]; ok {
			s.Name = l.id.Label(row)
			s.Item = &row
		}
		out = append(out, s)
	}
	return out
}

// Panel resolves the panel for the current state against the loaded rows.
func (l *ListView[T]) Panel(rows []T) Panel[T] {
	return Resolve(l.Selected(rows), l.creating, l.CreateContext())
}

// Clone returns filters that share nothing with f.
func (f ColumnFilters) Clone() ColumnFilters {
	out := make(ColumnFilters, len(f))
	for k, v := range f {
		out[k] = slices.Clone(v)
	}
	return out
}

// With returns a copy of f with key constrained to values. Passing no values
// or only the "all" sentinel removes the key.
func (f ColumnFilters) With(key string, values ...string) ColumnFilters {
	out := f.Clone()
	kept := query.CleanFilterValues(values)
	if len(kept) == 0 {
		delete(out, key)
		return out
	}
	out[key] = kept
	return out
}

// Toggle returns a copy of f with value added to or removed from key.
func (f ColumnFilters) Toggle(key, value string) ColumnFilters {
	current := f[key]
	if slices.Contains(current, value) {
		return f.With(key, slices.DeleteFunc(slices.Clone(current), func(v string) bool { return v == value })...)
	}
	return f.With(key, append(slices.Clone(current), value)...)
}

// Single returns the first accepted value for key, or "all" when the key is
// unconstrained.
func (f ColumnFilters) Single(key string) string {
	v := query.CleanFilterValues(f[key])
	if len(v) == 0 {
		return query.FilterAll
	}
	return v[0]
}
