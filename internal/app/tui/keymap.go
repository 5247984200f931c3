package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds all key bindings for the TUI
type KeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	NextPg  key.Binding
	PrevPg  key.Binding
	Quit    key.Binding

	// Selection
	Select key.Binding
	Toggle key.Binding
	Back   key.Binding

	// Search, sort and filter
	Search      key.Binding
	Sort        key.Binding
	SortDir     key.Binding
	Filter      key.Binding
	NextFilter  key.Binding
	ClearFilter key.Binding

	// Actions
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Help    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextTab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		NextPg:      key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "next page")),
		PrevPg:      key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "prev page")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "multi-select")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		SortDir:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort direction")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		NextFilter:  key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "next filter")),
		ClearFilter: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		New:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp returns the short help
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Toggle, k.Search, k.New, k.NextTab, k.Help, k.Quit}
}

// FullHelp returns the full help
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPg, k.NextPg, k.NextTab, k.PrevTab},
		{k.Select, k.Toggle, k.Back, k.Refresh},
		{k.Search, k.Sort, k.SortDir, k.Filter, k.NextFilter, k.ClearFilter},
		{k.New, k.Edit, k.Delete, k.Help, k.Quit},
	}
}
