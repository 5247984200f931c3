package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/vburojevic/registrar/internal/app/tui/components"
	"github.com/vburojevic/registrar/internal/app/tui/state"
	"github.com/vburojevic/registrar/internal/app/tui/theme"
	"github.com/vburojevic/registrar/internal/app/tui/widgets"
	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
)

// Screen is one tab of the TUI.
type Screen interface {
	Name() string
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	// Capturing reports whether text entry owns the keyboard.
	Capturing() bool
	Shortcuts() []components.Shortcut
	SelectedCount() int
	// Status is a one-line message about the last action.
	Status() string
}

// ScreenOptions configures a ListScreen.
type ScreenOptions struct {
	PageSize       int
	PruneSelection bool
	Timeout        time.Duration
	Styles         theme.Styles
	Keys           KeyMap
	Logger         logrus.FieldLogger
}

type formMode int

const (
	formNone formMode = iota
	formKind
	formCreate
	formEdit
	formDelete
)

// ListScreen is a paged, searchable list of one entity with a panel on the
// right that follows the selection.
type ListScreen[T models.Record[T]] struct {
	ent  Entity[T]
	src  query.Resource[T]
	opts ScreenOptions
	log  logrus.FieldLogger
	view *state.ListView[T]

	table  table.Model
	search textinput.Model
	spin   spinner.Model
	pager  paginator.Model

	rows    []T
	meta    query.PaginationMeta
	loading bool
	err     error
	seq     int
	last    *query.Params

	detail        *T
	detailKey     string
	detailSeq     int
	detailLoading bool
	detailErr     error

	form    *huh.Form
	mode    formMode
	draft   *T
	formErr error
	busy    bool
	confirm bool
	pending []string
	kindIdx int

	filterIdx int
	status    string

	width  int
	height int
}

// NewListScreen builds a screen for ent backed by src.
func NewListScreen[T models.Record[T]](ent Entity[T], src query.Resource[T], opts ScreenOptions) *ListScreen[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}

	view := state.New(state.Identity[T]{
		Key:   func(r T) string { return r.Key() },
		Label: func(r T) string { return r.Label() },
	}, opts.PageSize)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search " + strings.ToLower(ent.Title)
	search.CharLimit = 128
	search.Width = 40
	search.PromptStyle = opts.Styles.FilterPrompt
	search.TextStyle = opts.Styles.FilterText

	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(opts.Styles.Spinner))

	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.ArabicFormat = "page %d of %d"
	pager.PerPage = opts.PageSize

	s := &ListScreen[T]{
		ent:    ent,
		src:    src,
		opts:   opts,
		log:    logger.WithField("screen", ent.Name),
		view:   view,
		search: search,
		spin:   spin,
		pager:  pager,
	}
	s.table = table.New(
		table.WithColumns(s.columns()),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(opts.Styles.Table()),
	)
	return s
}

func (s *ListScreen[T]) Name() string  { return s.ent.Name }
func (s *ListScreen[T]) Title() string { return s.ent.Title }

// State returns the list controller behind the screen.
func (s *ListScreen[T]) State() *state.ListView[T] { return s.view }

func (s *ListScreen[T]) Init() tea.Cmd {
	return tea.Batch(s.spin.Tick, s.sync())
}

func (s *ListScreen[T]) Capturing() bool {
	return s.form != nil || s.search.Focused()
}

func (s *ListScreen[T]) SelectedCount() int { return len(s.view.SelectedKeys()) }

func (s *ListScreen[T]) Status() string { return s.status }

func (s *ListScreen[T]) Shortcuts() []components.Shortcut {
	switch {
	case s.form != nil:
		return components.FormShortcuts
	case s.search.Focused():
		return components.SearchShortcuts
	default:
		return components.MainShortcuts
	}
}

func (s *ListScreen[T]) SetSize(width, height int) {
	s.width, s.height = width, height
	listW, panelW := s.split()
	s.table.SetWidth(listW - 2)
	s.table.SetHeight(max(3, height-5))
	s.search.Width = widgets.ClampInt(listW-20, 10, 60)
	if s.form != nil {
		s.form = s.form.WithWidth(panelW - 4)
	}
}

func (s *ListScreen[T]) split() (int, int) {
	listW := s.width * 3 / 5
	return listW, s.width - listW - 1
}

// Update handles messages for this screen
func (s *ListScreen[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pageLoadedMsg[T]:
		return s.onPage(msg)
	case detailLoadedMsg[T]:
		return s.onDetail(msg)
	case mutationDoneMsg[T]:
		return s.onMutation(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	if s.form != nil {
		return s.updateForm(msg)
	}
	if s.search.Focused() {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return cmd
	}
	return nil
}

func (s *ListScreen[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.busy {
		return nil
	}
	if s.form != nil {
		if key.Matches(msg, s.opts.Keys.Back) {
			return s.cancelForm()
		}
		return s.updateForm(msg)
	}
	if s.search.Focused() {
		return s.handleSearchKey(msg)
	}

	k := s.opts.Keys
	switch {
	case key.Matches(msg, k.Up):
		s.table.MoveUp(1)
		return nil
	case key.Matches(msg, k.Down):
		s.table.MoveDown(1)
		return nil
	case key.Matches(msg, k.Select):
		if row := s.cursorKey(); row != "" {
			s.view.Dispatch(state.RowClicked{Key: row})
		}
	case key.Matches(msg, k.Toggle):
		if row := s.cursorKey(); row != "" {
			s.view.Dispatch(state.RowToggled{Key: row})
		}
	case key.Matches(msg, k.Back):
		s.back()
	case key.Matches(msg, k.Search):
		s.search.SetValue(s.view.SearchTerm())
		s.search.CursorEnd()
		return s.search.Focus()
	case key.Matches(msg, k.Sort):
		s.cycleSort()
	case key.Matches(msg, k.SortDir):
		s.flipSort()
	case key.Matches(msg, k.Filter):
		s.cycleFilter()
	case key.Matches(msg, k.NextFilter):
		if n := len(s.ent.Filters); n > 0 {
			s.filterIdx = (s.filterIdx + 1) % n
		}
		return nil
	case key.Matches(msg, k.ClearFilter):
		s.view.Dispatch(state.FiltersChanged{Filters: nil})
	case key.Matches(msg, k.NextPg):
		if next := s.view.Pagination().PageIndex + 1; next < s.meta.TotalPageCount {
			s.view.Dispatch(state.PageChanged{Index: next})
		}
	case key.Matches(msg, k.PrevPg):
		if prev := s.view.Pagination().PageIndex - 1; prev >= 0 {
			s.view.Dispatch(state.PageChanged{Index: prev})
		}
	case key.Matches(msg, k.New):
		return s.startCreate()
	case key.Matches(msg, k.Edit):
		return s.startEdit()
	case key.Matches(msg, k.Delete):
		return s.startDelete()
	case key.Matches(msg, k.Refresh):
		return s.refresh()
	default:
		return nil
	}
	return s.sync()
}

func (s *ListScreen[T]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		s.search.Blur()
		return nil
	case tea.KeyEsc:
		s.search.Blur()
		s.search.SetValue("")
		s.view.Dispatch(state.SearchChanged{Term: ""})
		return s.sync()
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if term := s.search.Value(); term != s.view.SearchTerm() {
		s.view.Dispatch(state.SearchChanged{Term: term})
	}
	return tea.Batch(cmd, s.sync())
}

// back unwinds one level: create mode, then selection, then search.
func (s *ListScreen[T]) back() {
	switch {
	case s.view.IsCreating():
		s.view.Dispatch(state.CreateExited{})
	case s.SelectedCount() > 0:
		s.view.Dispatch(state.SelectionCleared{})
	case s.view.SearchTerm() != "":
		s.search.SetValue("")
		s.view.Dispatch(state.SearchChanged{Term: ""})
	default:
		s.status = ""
	}
}

func (s *ListScreen[T]) cycleSort() {
	var ids []string
	for _, c := range s.ent.Columns {
		if c.Sortable {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	var next []state.SortSpec
	current := s.view.Sorting()
	switch {
	case len(current) == 0:
		next = []state.SortSpec{{ColumnID: ids[0]}}
	default:
		i := slices.Index(ids, current[0].ColumnID)
		if i+1 < len(ids) {
			next = []state.SortSpec{{ColumnID: ids[i+1]}}
		}
	}
	s.view.Dispatch(state.SortChanged{Sorting: next})
}

func (s *ListScreen[T]) flipSort() {
	current := s.view.Sorting()
	if len(current) == 0 {
		return
	}
	current[0].Desc = !current[0].Desc
	s.view.Dispatch(state.SortChanged{Sorting: current})
}

func (s *ListScreen[T]) cycleFilter() {
	if len(s.ent.Filters) == 0 {
		return
	}
	f := s.ent.Filters[s.filterIdx%len(s.ent.Filters)]
	cur := s.view.ColumnFilters().Single(f.Key)
	i := slices.Index(f.Options, cur)
	next := f.Options[(i+1)%len(f.Options)]
	s.view.Dispatch(state.FilterSet{Key: f.Key, Values: []string{next}})
}

func (s *ListScreen[T]) cursorKey() string {
	c := s.table.Cursor()
	if c < 0 || c >= len(s.rows) {
		return ""
	}
	return s.rows[c].Key()
}

// sync re-renders rows and issues whatever loads the state now needs: a
// list request when the query changed and a detail request when a new
// single row is selected.
func (s *ListScreen[T]) sync() tea.Cmd {
	s.renderRows()
	var cmds []tea.Cmd
	if q := s.view.Query(); s.last == nil || !q.Equal(*s.last) {
		cmds = append(cmds, s.fetch())
	}
	cmds = append(cmds, s.syncDetail())
	return tea.Batch(cmds...)
}

func (s *ListScreen[T]) refresh() tea.Cmd {
	s.last = nil
	s.detailKey = ""
	return s.sync()
}

func (s *ListScreen[T]) fetch() tea.Cmd {
	q := s.view.Query()
	s.last = &q
	s.seq++
	s.loading = true

	seq, name, src, timeout := s.seq, s.ent.Name, s.src, s.opts.Timeout
	p := q.RenameFilters(s.ent.QueryNames)
	s.log.WithFields(logrus.Fields{"seq": seq, "page": p.PageNumber, "search": p.SearchTerm, "sort": p.SortBy}).Debug("list requested")
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := src.List(ctx, p)
		return pageLoadedMsg[T]{screen: name, seq: seq, page: page, err: err}
	}
}

func (s *ListScreen[T]) onPage(msg pageLoadedMsg[T]) tea.Cmd {
	if msg.seq != s.seq {
		s.log.WithField("seq", msg.seq).Debug("dropping superseded page")
		return nil
	}
	s.loading = false
	if msg.err != nil {
		s.err = msg.err
		s.log.WithError(msg.err).Warn("list failed")
		return nil
	}
	s.err = nil
	s.meta = msg.page.Pagination

	// A delete can leave the cursor past the last page, or on a page of a
	// list that is now empty.
	idx := s.view.Pagination().PageIndex
	if len(msg.page.Items) == 0 && idx > 0 && idx >= s.meta.TotalPageCount {
		s.view.GoToPage(max(s.meta.TotalPageCount-1, 0))
		return s.sync()
	}

	s.rows = msg.page.Items
	s.view.Observe(s.rows)
	if s.opts.PruneSelection {
		keys := make([]string, 0, len(s.rows))
		for _, r := range s.rows {
			keys = append(keys, r.Key())
		}
		if n := s.view.RetainSelection(keys); n > 0 {
			s.log.WithField("dropped", n).Debug("pruned selection to loaded page")
		}
	}
	s.pager.TotalPages = max(1, s.meta.TotalPageCount)
	s.pager.Page = idx
	if s.table.Cursor() >= len(s.rows) {
		s.table.SetCursor(max(0, len(s.rows)-1))
	}
	return s.sync()
}

func (s *ListScreen[T]) syncDetail() tea.Cmd {
	one, ok := s.view.Panel(s.rows).(state.OneSelected[T])
	if !ok {
		s.detail, s.detailKey, s.detailErr, s.detailLoading = nil, "", nil, false
		return nil
	}
	if one.Key == s.detailKey {
		return nil
	}
	s.detailKey = one.Key
	s.detail = one.Item
	s.detailErr = nil
	s.detailLoading = true
	s.detailSeq++

	seq, name, src, timeout, rowKey := s.detailSeq, s.ent.Name, s.src, s.opts.Timeout, one.Key
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		item, err := src.Get(ctx, rowKey)
		return detailLoadedMsg[T]{screen: name, seq: seq, key: rowKey, item: item, err: err}
	}
}

func (s *ListScreen[T]) onDetail(msg detailLoadedMsg[T]) tea.Cmd {
	if msg.seq != s.detailSeq || msg.key != s.detailKey {
		return nil
	}
	s.detailLoading = false
	if msg.err != nil {
		if errors.Is(msg.err, query.ErrNotFound) {
			msg.err = fmt.Errorf("this %s no longer exists", s.ent.Singular)
		}
		s.detailErr = msg.err
		return nil
	}
	item := msg.item
	s.detail = &item
	return nil
}

func (s *ListScreen[T]) startCreate() tea.Cmd {
	kinds := s.ent.kinds()
	if len(kinds) == 1 {
		return s.beginCreate(kinds[0])
	}
	s.kindIdx = 0
	opts := make([]huh.Option[int], 0, len(kinds))
	for i, k := range kinds {
		opts = append(opts, huh.NewOption(k.Label, i))
	}
	s.mode = formKind
	return s.openForm(huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("New " + s.ent.Singular + " for").
			Options(opts...).
			Value(&s.kindIdx),
	)))
}

func (s *ListScreen[T]) beginCreate(kind CreateKind) tea.Cmd {
	s.view.Dispatch(state.CreateStarted{Context: kind.Context})
	draft := s.ent.New(kind.Context)
	s.draft = &draft
	s.mode = formCreate
	s.formErr = nil
	cmd := s.openForm(s.ent.Form(s.draft, false))
	return tea.Batch(cmd, s.sync())
}

func (s *ListScreen[T]) startEdit() tea.Cmd {
	one, ok := s.view.Panel(s.rows).(state.OneSelected[T])
	if !ok {
		s.status = "select a single " + s.ent.Singular + " to edit"
		return nil
	}
	item := one.Item
	if s.detail != nil && s.detailKey == one.Key {
		item = s.detail
	}
	if item == nil {
		return nil
	}
	draft := *item
	s.draft = &draft
	s.mode = formEdit
	s.formErr = nil
	return s.openForm(s.ent.Form(s.draft, true))
}

func (s *ListScreen[T]) startDelete() tea.Cmd {
	keys := s.view.SelectedKeys()
	if len(keys) == 0 {
		if row := s.cursorKey(); row != "" {
			keys = []string{row}
		}
	}
	if len(keys) == 0 {
		return nil
	}
	title := fmt.Sprintf("Delete %d %s?", len(keys), strings.ToLower(s.ent.Title))
	if len(keys) == 1 {
		title = fmt.Sprintf("Delete this %s?", s.ent.Singular)
	}
	s.pending = keys
	s.confirm = false
	s.mode = formDelete
	return s.openForm(huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&s.confirm),
	)))
}

func (s *ListScreen[T]) openForm(f *huh.Form) tea.Cmd {
	_, panelW := s.split()
	s.form = f.WithTheme(s.opts.Styles.Form()).WithShowHelp(false)
	if panelW > 8 {
		s.form = s.form.WithWidth(panelW - 4)
	}
	return s.form.Init()
}

func (s *ListScreen[T]) updateForm(msg tea.Msg) tea.Cmd {
	m, cmd := s.form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		s.form = f
	}
	switch s.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, s.submit())
	case huh.StateAborted:
		return tea.Batch(cmd, s.cancelForm())
	}
	return cmd
}

func (s *ListScreen[T]) closeForm() {
	s.form = nil
	s.draft = nil
	s.mode = formNone
	s.pending = nil
	s.confirm = false
}

func (s *ListScreen[T]) cancelForm() tea.Cmd {
	creating := s.mode == formCreate
	s.closeForm()
	s.formErr = nil
	if creating {
		s.view.Dispatch(state.CreateExited{})
	}
	return s.sync()
}

func (s *ListScreen[T]) submit() tea.Cmd {
	name, src, timeout := s.ent.Name, s.src, s.opts.Timeout
	switch s.mode {
	case formKind:
		kinds := s.ent.kinds()
		s.closeForm()
		return s.beginCreate(kinds[widgets.ClampInt(s.kindIdx, 0, len(kinds)-1)])

	case formCreate, formEdit:
		op := opCreate
		if s.mode == formEdit {
			op = opUpdate
		}
		draft := *s.draft
		s.form = nil
		s.busy = true
		s.status = "saving…"
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			var (
				item T
				err  error
			)
			if op == opCreate {
				item, err = src.Create(ctx, draft)
			} else {
				item, err = src.Update(ctx, draft)
			}
			return mutationDoneMsg[T]{screen: name, op: op, item: item, count: 1, err: err}
		}

	case formDelete:
		if !s.confirm {
			return s.cancelForm()
		}
		keys := slices.Clone(s.pending)
		s.closeForm()
		s.busy = true
		s.status = "deleting…"
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			var errs []error
			done := 0
			for _, k := range keys {
				if err := src.Delete(ctx, k); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", k, err))
					continue
				}
				done++
			}
			return mutationDoneMsg[T]{screen: name, op: opDelete, count: done, failed: len(errs), err: errors.Join(errs...)}
		}
	}
	s.closeForm()
	return nil
}

func (s *ListScreen[T]) onMutation(msg mutationDoneMsg[T]) tea.Cmd {
	s.busy = false
	log := s.log.WithField("count", msg.count)
	if msg.err != nil {
		log.WithError(msg.err).Warn("mutation failed")
		s.formErr = msg.err
		if msg.op != opDelete {
			s.status = ""
			// Keep the form open with what the user typed.
			return s.openForm(s.ent.Form(s.draft, msg.op == opUpdate))
		}
		s.status = fmt.Sprintf("deleted %d, %d failed", msg.count, msg.failed)
		if msg.count == 0 {
			return nil
		}
	} else {
		s.formErr = nil
		switch msg.op {
		case opCreate:
			s.status = "created " + msg.item.Label()
		case opUpdate:
			s.status = "saved " + msg.item.Label()
		case opDelete:
			s.status = fmt.Sprintf("deleted %d %s", msg.count, strings.ToLower(s.ent.Title))
		}
		s.closeForm()
	}
	log.Info("mutation succeeded")
	s.view.Dispatch(state.MutationSucceeded{})
	return s.refresh()
}

func (s *ListScreen[T]) columns() []table.Column {
	sortCol, desc := "", false
	if sorting := s.view.Sorting(); len(sorting) > 0 {
		sortCol, desc = sorting[0].ColumnID, sorting[0].Desc
	}
	cols := make([]table.Column, 0, len(s.ent.Columns)+1)
	cols = append(cols, table.Column{Title: " ", Width: 1})
	for _, c := range s.ent.Columns {
		title := c.Title
		if c.ID == sortCol {
			if desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		cols = append(cols, table.Column{Title: title, Width: c.Width})
	}
	return cols
}

func (s *ListScreen[T]) renderRows() {
	rows := make([]table.Row, 0, len(s.rows))
	for _, r := range s.rows {
		mark := " "
		if s.view.IsSelected(r.Key()) {
			mark = "●"
		}
		row := table.Row{mark}
		for _, c := range s.ent.Columns {
			row = append(row, c.Value(r))
		}
		rows = append(rows, row)
	}
	s.table.SetColumns(s.columns())
	s.table.SetRows(rows)
}

func (s *ListScreen[T]) chips() []components.Chip {
	filters := s.view.ColumnFilters()
	out := make([]components.Chip, 0, len(s.ent.Filters))
	for _, f := range s.ent.Filters {
		out = append(out, components.Chip{Title: f.Title, Value: strings.Join(query.CleanFilterValues(filters[f.Key]), ",")})
		if out[len(out)-1].Value == "" {
			out[len(out)-1].Value = query.FilterAll
		}
	}
	return out
}

// View renders the filter bar, the table and the panel side by side.
func (s *ListScreen[T]) View() string {
	st := s.opts.Styles
	listW, panelW := s.split()
	bodyH := max(5, s.height-2)

	bar := components.RenderFilterBar(s.view.SearchTerm(), s.search.View(), s.search.Focused(), s.chips(), s.filterIdx, st)

	var list string
	switch {
	case s.err != nil && len(s.rows) == 0:
		list = components.RenderError(s.err, st) + "\n\n" + st.Muted.Render("Press r to retry")
	case len(s.rows) == 0 && !s.loading:
		filtered := s.view.SearchTerm() != "" || len(s.view.ColumnFilters()) > 0
		list = components.RenderEmptyList(strings.ToLower(s.ent.Title), filtered, st)
	default:
		list = s.table.View()
	}
	list = lipgloss.JoinVertical(lipgloss.Left, list, s.pagerLine())

	listPanel := st.List.Width(max(1, listW-2)).Height(bodyH - 2).Render(list)
	side := st.Panel.Width(max(1, panelW-2)).Height(bodyH - 2).Render(s.renderPanel(max(1, panelW-4)))
	body := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, " ", side)
	return lipgloss.JoinVertical(lipgloss.Left, bar, body)
}

func (s *ListScreen[T]) pagerLine() string {
	st := s.opts.Styles
	var b strings.Builder
	if s.loading {
		b.WriteString(s.spin.View())
		b.WriteString(" ")
	}
	b.WriteString(st.Muted.Render(s.pager.View()))
	b.WriteString(st.Muted.Render(fmt.Sprintf(" • %d %s", s.meta.TotalItemCount, strings.ToLower(s.ent.Title))))
	if s.err != nil && len(s.rows) > 0 {
		b.WriteString("  ")
		b.WriteString(st.ErrorText.Render("⚠ refresh failed"))
	}
	return b.String()
}

func (s *ListScreen[T]) renderPanel(width int) string {
	st := s.opts.Styles
	if s.mode == formDelete && s.form != nil {
		return s.form.View()
	}
	if s.mode == formKind && s.form != nil {
		return s.form.View()
	}

	switch p := s.view.Panel(s.rows).(type) {
	case state.Creating[T]:
		parts := []string{st.Section.Render(s.createTitle(p.Context))}
		if s.formErr != nil {
			parts = append(parts, components.RenderError(s.formErr, st))
		}
		switch {
		case s.busy:
			parts = append(parts, s.spin.View()+" "+s.status)
		case s.form != nil:
			parts = append(parts, s.form.View())
		}
		return strings.Join(parts, "\n\n")

	case state.OneSelected[T]:
		parts := []string{st.Section.Render(p.Name)}
		if s.mode == formEdit {
			if s.formErr != nil {
				parts = append(parts, components.RenderError(s.formErr, st))
			}
			if s.busy {
				parts = append(parts, s.spin.View()+" "+s.status)
			} else if s.form != nil {
				parts = append(parts, s.form.View())
			}
			return strings.Join(parts, "\n\n")
		}
		item := p.Item
		if s.detail != nil {
			item = s.detail
		}
		switch {
		case s.detailErr != nil:
			parts = append(parts, components.RenderError(s.detailErr, st))
		case item == nil:
			parts = append(parts, s.spin.View()+" loading")
		default:
			parts = append(parts, components.RenderFields(s.ent.Fields(*item), st, width))
		}
		parts = append(parts, st.Muted.Render("e edit • x delete • esc close"))
		return strings.Join(parts, "\n\n")

	case state.MultipleSelected[T]:
		onPage := make(map[string]bool, len(s.rows))
		for _, r := range s.rows {
			onPage[r.Key()] = true
		}
		lines := make([]components.SelectionLine, 0, len(p.Items))
		for _, it := range p.Items {
			lines = append(lines, components.SelectionLine{Name: it.Name, OffPage: !onPage[it.Key]})
		}
		return components.RenderSelection(lines, st, width)

	default:
		summary := components.SummaryData{
			Search: s.view.SearchTerm(),
			Total:  s.meta.TotalItemCount,
			Page:   s.view.Pagination().PageIndex + 1,
			Pages:  s.meta.TotalPageCount,
		}
		if sorting := s.view.Sorting(); len(sorting) > 0 {
			summary.Sort = sorting[0].Token()
		}
		for _, c := range s.chips() {
			if c.Value != query.FilterAll {
				summary.Filters = append(summary.Filters, c)
			}
		}
		return components.RenderEmptyDetail(s.ent.Singular, st) + "\n\n" + components.RenderSummary(summary, st, width)
	}
}

func (s *ListScreen[T]) createTitle(ctx state.CreateContext) string {
	title := "New " + s.ent.Singular
	if len(ctx) == 0 {
		return title
	}
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strings.ToLower(s.ent.filterTitle(k))+": "+ctx[k])
	}
	return title + " (" + strings.Join(parts, ", ") + ")"
}
