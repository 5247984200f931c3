package app

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vburojevic/registrar/internal/api"
	"github.com/vburojevic/registrar/internal/app/tui"
	"github.com/vburojevic/registrar/internal/app/tui/components"
	"github.com/vburojevic/registrar/internal/app/tui/state"
	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
	"github.com/vburojevic/registrar/internal/server"
	"github.com/vburojevic/registrar/internal/store"
)

// -------------------------
// Backend
// -------------------------

// backend is where records live: the REST API when an URL is configured,
// otherwise the local store.
type backend struct {
	tenant string
	url    string
	client *api.Client
	store  *store.Store
}

func openBackend(cfg Config, logger logrus.FieldLogger) (*backend, error) {
	if cfg.APIURL != "" {
		c, err := api.NewClient(cfg.APIURL, cfg.Tenant, api.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return &backend{tenant: cfg.Tenant, url: cfg.APIURL, client: c}, nil
	}
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return &backend{tenant: cfg.Tenant, store: st}, nil
}

// source names the backend for the header line.
func (b *backend) source() string {
	if b.client == nil {
		return "local"
	}
	return hostOf(b.url)
}

func resourceOf[T models.Record[T]](b *backend, name string) (query.Resource[T], error) {
	if b.client != nil {
		return api.NewResource[T](b.client, name), nil
	}
	c, err := store.NewCollection[T](b.store, b.tenant, name)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// -------------------------
// Entity bindings
// -------------------------

// listRequest is a list query as typed on the command line.
type listRequest struct {
	Search   string
	Sort     string
	Filters  []string // key=value
	Page     int      // 1-based
	PageSize int
}

// table is one rendered page, ready for the table or JSON writer.
type table struct {
	Headers []string
	Rows    [][]string
	Meta    query.PaginationMeta
	Items   any
}

// binding is the type-erased face of one entity used by the commands.
type binding interface {
	Name() string
	Singular() string
	Aliases() []string
	Filters() []tui.FilterDef
	SortColumns() []string
	Screen(b *backend, opts tui.ScreenOptions) (tui.Screen, error)
	List(ctx context.Context, b *backend, req listRequest) (table, error)
	Show(ctx context.Context, b *backend, key string) ([]components.Field, any, error)
	Delete(ctx context.Context, b *backend, key string) error
	Register(s *server.Server)
}

type entityBinding[T models.Record[T]] struct {
	ent     tui.Entity[T]
	aliases []string
}

func bind[T models.Record[T]](ent tui.Entity[T], aliases ...string) binding {
	return entityBinding[T]{ent: ent, aliases: aliases}
}

func (e entityBinding[T]) Name() string      { return e.ent.Name }
func (e entityBinding[T]) Singular() string  { return e.ent.Singular }
func (e entityBinding[T]) Aliases() []string { return e.aliases }

func (e entityBinding[T]) Filters() []tui.FilterDef { return e.ent.Filters }

func (e entityBinding[T]) SortColumns() []string {
	var out []string
	for _, c := range e.ent.Columns {
		if c.Sortable {
			out = append(out, c.ID)
		}
	}
	return out
}

func (e entityBinding[T]) Screen(b *backend, opts tui.ScreenOptions) (tui.Screen, error) {
	res, err := resourceOf[T](b, e.ent.Name)
	if err != nil {
		return nil, err
	}
	return tui.NewListScreen(e.ent, res, opts), nil
}

// List runs the request through a list view so the CLI derives the same
// query parameters as the TUI.
func (e entityBinding[T]) List(ctx context.Context, b *backend, req listRequest) (table, error) {
	p, err := e.params(req)
	if err != nil {
		return table{}, err
	}
	res, err := resourceOf[T](b, e.ent.Name)
	if err != nil {
		return table{}, err
	}
	page, err := res.List(ctx, p)
	if err != nil {
		return table{}, fmt.Errorf("list %s: %w", e.ent.Name, err)
	}

	t := table{Meta: page.Pagination, Items: page.Items}
	for _, c := range e.ent.Columns {
		t.Headers = append(t.Headers, c.Title)
	}
	for _, item := range page.Items {
		row := make([]string, 0, len(e.ent.Columns))
		for _, c := range e.ent.Columns {
			row = append(row, c.Value(item))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (e entityBinding[T]) params(req listRequest) (query.Params, error) {
	view := state.New(state.Identity[T]{
		Key:   func(r T) string { return r.Key() },
		Label: func(r T) string { return r.Label() },
	}, req.PageSize)

	view.Dispatch(state.SearchChanged{Term: strings.TrimSpace(req.Search)})
	if req.Sort != "" {
		spec, err := query.ParseSort(req.Sort)
		if err != nil {
			return query.Params{}, err
		}
		if !e.sortable(spec.ColumnID) {
			return query.Params{}, fmt.Errorf("%s cannot be sorted by %q", e.ent.Name, spec.ColumnID)
		}
		view.Dispatch(state.SortChanged{Sorting: []state.SortSpec{spec}})
	}
	filters, err := e.parseFilters(req.Filters)
	if err != nil {
		return query.Params{}, err
	}
	for _, key := range sortedKeys(filters) {
		view.Dispatch(state.FilterSet{Key: key, Values: filters[key]})
	}
	if req.Page > 1 {
		view.Dispatch(state.PageChanged{Index: req.Page - 1})
	}
	return view.Query().RenameFilters(e.ent.QueryNames), nil
}

func (e entityBinding[T]) sortable(id string) bool {
	for _, c := range e.ent.Columns {
		if c.ID == id {
			return c.Sortable
		}
	}
	return false
}

// parseFilters reads key=value pairs. Values for the same key accumulate
// and may also be comma separated.
func (e entityBinding[T]) parseFilters(raw []string) (map[string][]string, error) {
	out := map[string][]string{}
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q: want key=value", kv)
		}
		def, known := e.filter(key)
		if !known {
			return nil, fmt.Errorf("%s has no filter %q (available: %s)", e.ent.Name, key, strings.Join(e.filterKeys(), ", "))
		}
		for _, v := range strings.Split(value, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if !slices.Contains(def.Options, v) {
				return nil, fmt.Errorf("invalid %s value %q (options: %s)", key, v, strings.Join(def.Options, ", "))
			}
			out[key] = append(out[key], v)
		}
	}
	return out, nil
}

func (e entityBinding[T]) filter(key string) (tui.FilterDef, bool) {
	for _, f := range e.ent.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return tui.FilterDef{}, false
}

func (e entityBinding[T]) filterKeys() []string {
	keys := make([]string, 0, len(e.ent.Filters))
	for _, f := range e.ent.Filters {
		keys = append(keys, f.Key)
	}
	return keys
}

func (e entityBinding[T]) Show(ctx context.Context, b *backend, key string) ([]components.Field, any, error) {
	res, err := resourceOf[T](b, e.ent.Name)
	if err != nil {
		return nil, nil, err
	}
	item, err := res.Get(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", e.ent.Singular, key, err)
	}
	return e.ent.Fields(item), item, nil
}

func (e entityBinding[T]) Delete(ctx context.Context, b *backend, key string) error {
	res, err := resourceOf[T](b, e.ent.Name)
	if err != nil {
		return err
	}
	if err := res.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s %s: %w", e.ent.Singular, key, err)
	}
	return nil
}

func (e entityBinding[T]) Register(s *server.Server) {
	server.Register[T](s, e.ent.Name)
}

// bindings lists the entities in tab order.
func bindings() []binding {
	return []binding{
		bind(organizationEntity, "organization", "org", "orgs"),
		bind(memberEntity, "member"),
		bind(studentEntity, "student"),
		bind(notificationEntity, "notification", "notif"),
		bind(addressEntity, "address"),
		bind(linkEntity, "link"),
	}
}

// lookupBinding resolves an entity name or alias.
func lookupBinding(name string) (binding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	names := make([]string, 0, 6)
	for _, b := range bindings() {
		if b.Name() == name || slices.Contains(b.Aliases(), name) {
			return b, nil
		}
		names = append(names, b.Name())
	}
	return nil, fmt.Errorf("unknown entity %q (available: %s)", name, strings.Join(names, ", "))
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// hostOf shortens an API URL for display.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
