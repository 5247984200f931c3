package state

// Action is a tagged transition accepted by Dispatch.
type Action interface {
	action()
}

// SearchChanged replaces the search text and returns to page one.
type SearchChanged struct{ Term string }

// SortChanged replaces the sorting and returns to page one.
type SortChanged struct{ Sorting []SortSpec }

// FiltersChanged replaces the column filters and returns to page one.
type FiltersChanged struct{ Filters ColumnFilters }

// FilterSet constrains one column and returns to page one.
type FilterSet struct {
	Key    string
	Values []string
}

type PageChanged struct{ Index int }

type PageSizeChanged struct{ Size int }

type RowsSelected struct{ Keys []string }

type RowToggled struct{ Key string }

// RowClicked is a plain click: leave create mode, single-select.
type RowClicked struct{ Key string }

type CreateStarted struct{ Context CreateContext }

type CreateExited struct{}

type MutationSucceeded struct{}

type SelectionCleared struct{}

func (SearchChanged) action()     {}
func (SortChanged) action()       {}
func (FiltersChanged) action()    {}
func (FilterSet) action()         {}
func (PageChanged) action()       {}
func (PageSizeChanged) action()   {}
func (RowsSelected) action()      {}
func (RowToggled) action()        {}
func (RowClicked) action()        {}
func (CreateStarted) action()     {}
func (CreateExited) action()      {}
func (MutationSucceeded) action() {}
func (SelectionCleared) action()  {}

// Dispatch applies a. Search, sort and filter changes always reset the page.
func (l *ListView[T]) Dispatch(a Action) {
	switch a := a.(type) {
	case SearchChanged:
		l.ChangeSearchAndResetPage(a.Term)
	case SortChanged:
		l.ChangeSortAndResetPage(Set(a.Sorting))
	case FiltersChanged:
		l.ChangeFiltersAndResetPage(Set(a.Filters))
	case FilterSet:
		l.ChangeFiltersAndResetPage(func(prev ColumnFilters) ColumnFilters {
			return prev.With(a.Key, a.Values...)
		})
	case PageChanged:
		l.GoToPage(a.Index)
	case PageSizeChanged:
		l.ChangePageSize(a.Size)
	case RowsSelected:
		l.SelectRows(a.Keys...)
	case RowToggled:
		l.ToggleRow(a.Key)
	case RowClicked:
		l.SelectOnClick(a.Key)
	case CreateStarted:
		l.StartCreate(a.Context)
	case CreateExited:
		l.ExitCreate()
	case MutationSucceeded:
		l.AfterSuccessfulMutation()
	case SelectionCleared:
		l.ClearSelection()
	}
}
