package state

import "maps"

// PanelKind names the four right-hand panels.
type PanelKind int

const (
	KindNoneSelected PanelKind = iota
	KindOneSelected
	KindMultipleSelected
	KindCreating
)

func (k PanelKind) String() string {
	switch k {
	case KindNoneSelected:
		return "none-selected"
	case KindOneSelected:
		return "one-selected"
	case KindMultipleSelected:
		return "multiple-selected"
	case KindCreating:
		return "creating"
	}
	return "unknown"
}

// Selected is one selected row. Item is nil when the row has never been
// loaded in this view.
type Selected[T any] struct {
	Key  string
	Name string
	Item *T
}

// Panel is one of NoneSelected, OneSelected, MultipleSelected or Creating.
type Panel[T any] interface {
	Kind() PanelKind
	panel()
}

// NoneSelected shows the empty hint.
type NoneSelected[T any] struct{}

// OneSelected shows the detail of a single record. The panel loads the full
// record by Key itself.
type OneSelected[T any] struct {
	Key  string
	Name string
	Item *T
}

// MultipleSelected summarizes a selection of two or more rows.
type MultipleSelected[T any] struct {
	Items []Selected[T]
}

// Keys returns the selected keys in display order.
func (m MultipleSelected[T]) Keys() []string {
	keys := make([]string, len(m.Items))
	for i, s := range m.Items {
		keys[i] = s.Key
	}
	return keys
}

// Creating shows the create form.
type Creating[T any] struct {
	Context CreateContext
}

func (NoneSelected[T]) Kind() PanelKind     { return KindNoneSelected }
func (OneSelected[T]) Kind() PanelKind      { return KindOneSelected }
func (MultipleSelected[T]) Kind() PanelKind { return KindMultipleSelected }
func (Creating[T]) Kind() PanelKind         { return KindCreating }

func (NoneSelected[T]) panel()     {}
func (OneSelected[T]) panel()      {}
func (MultipleSelected[T]) panel() {}
func (Creating[T]) panel()         {}

// Resolve picks the panel for a selection and create flag. It is total and
// does no I/O. Create mode wins if both are somehow set.
func Resolve[T any](selected []Selected[T], creating bool, ctx CreateContext) Panel[T] {
	switch {
	case creating:
		return Creating[T]{Context: maps.Clone(ctx)}
	case len(selected) == 0:
		return NoneSelected[T]{}
	case len(selected) == 1:
		s := selected[0]
		return OneSelected[T]{Key: s.Key, Name: s.Name, Item: s.Item}
	default:
		items := make([]Selected[T], len(selected))
		copy(items, selected)
		return MultipleSelected[T]{Items: items}
	}
}

// SelectRows replaces the selection with keys.
func (l *ListView[T]) SelectRows(keys ...string) {
	l.SetRowSelection(func(RowSelection) RowSelection {
		next := make(RowSelection, len(keys))
		for _, k := range keys {
			next[k] = true
		}
		return next
	})
}

// ToggleRow adds or removes key from the selection.
func (l *ListView[T]) ToggleRow(key string) {
	l.SetRowSelection(func(prev RowSelection) RowSelection {
		if prev[key] {
			delete(prev, key)
		} else {
			prev[key] = true
		}
		return prev
	})
}

// SelectOnClick leaves create mode and single-selects key. Clicking the only
// selected row deselects it.
func (l *ListView[T]) SelectOnClick(key string) {
	l.ExitCreate()
	if len(l.selection) == 1 && l.selection[key] {
		l.ClearSelection()
		return
	}
	l.SelectRows(key)
}

func (l *ListView[T]) ClearSelection() {
	l.SetRowSelection(Set(RowSelection{}))
}

// StartCreate clears the selection and enters create mode with ctx.
func (l *ListView[T]) StartCreate(ctx CreateContext) {
	l.ClearSelection()
	l.creating = true
	l.createCtx = maps.Clone(ctx)
}

// ExitCreate leaves create mode. The selection is untouched.
func (l *ListView[T]) ExitCreate() {
	l.creating = false
	l.createCtx = nil
}

// AfterSuccessfulMutation returns to an idle first page after a create,
// update or delete.
func (l *ListView[T]) AfterSuccessfulMutation() {
	l.ClearSelection()
	l.ExitCreate()
	l.resetPage()
}
