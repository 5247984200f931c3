package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/vburojevic/registrar/internal/app/tui/components"
	"github.com/vburojevic/registrar/internal/app/tui/state"
	"github.com/vburojevic/registrar/internal/query"
)

// Column is one table column of an entity list.
type Column[T any] struct {
	// ID is the record field used for sorting.
	ID       string
	Title    string
	Width    int
	Value    func(T) string
	Sortable bool
}

// FilterDef is a filterable column. Options always start with "all".
type FilterDef struct {
	Key     string
	Title   string
	Options []string
}

// NewFilter builds a FilterDef with the "all" option prepended.
func NewFilter(key, title string, options ...string) FilterDef {
	return FilterDef{
		Key:     key,
		Title:   title,
		Options: append([]string{query.FilterAll}, options...),
	}
}

// CreateKind is one flavour of "add new" and the context it starts with.
type CreateKind struct {
	Label   string
	Context state.CreateContext
}

// Entity describes how one record type is listed, shown and edited.
type Entity[T any] struct {
	// Name is the resource name, e.g. "organizations".
	Name     string
	Title    string
	Singular string
	Columns  []Column[T]
	Filters  []FilterDef
	// QueryNames renames filter keys to data source parameters.
	QueryNames map[string]string
	Fields     func(T) []components.Field
	// CreateKinds lists the create flavours. With more than one the user
	// picks before the form opens.
	CreateKinds []CreateKind
	// New returns the draft for a create context.
	New func(ctx state.CreateContext) T
	// Form binds a huh form to draft.
	Form func(draft *T, editing bool) *huh.Form
}

func (e Entity[T]) kinds() []CreateKind {
	if len(e.CreateKinds) == 0 {
		return []CreateKind{{Label: e.Singular}}
	}
	return e.CreateKinds
}

func (e Entity[T]) filterTitle(key string) string {
	for _, f := range e.Filters {
		if f.Key == key {
			return f.Title
		}
	}
	return key
}
