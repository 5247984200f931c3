// Package store keeps tenant-scoped record collections as JSON files on
// disk. It backs the offline CLI mode and the demo server.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
)

// ErrConflict is returned when creating a record whose key already exists.
var ErrConflict = errors.New("already exists")

var fileSafeRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Store is a data directory holding one folder per tenant.
type Store struct {
	dir string
	now func() time.Time
}

// Open prepares dir for use.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("store: empty data directory")
	}
	if err := os.MkdirAll(filepath.Join(dir, "tenants"), 0o700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Tenants lists tenants that have at least one collection.
func (s *Store) Tenants() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "tenants"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) collectionPath(tenant, name string) (string, error) {
	tenant = fileSafeRe.ReplaceAllString(strings.TrimSpace(tenant), "_")
	if tenant == "" || tenant == "." || tenant == ".." {
		return "", errors.New("store: tenant is required")
	}
	td := filepath.Join(s.dir, "tenants", tenant)
	if err := os.MkdirAll(td, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(td, fileSafeRe.ReplaceAllString(name, "_")+".json"), nil
}

// Collection is one record type of one tenant. It implements
// query.Resource[T].
type Collection[T models.Record[T]] struct {
	store *Store
	path  string
	name  string
}

// NewCollection opens the collection name of tenant.
func NewCollection[T models.Record[T]](s *Store, tenant, name string) (*Collection[T], error) {
	p, err := s.collectionPath(tenant, name)
	if err != nil {
		return nil, err
	}
	return &Collection[T]{store: s, path: p, name: name}, nil
}

var _ query.Resource[models.Organization] = (*Collection[models.Organization])(nil)

func (c *Collection[T]) Name() string { return c.name }

// List applies search, filters and sorting, then returns the requested page.
func (c *Collection[T]) List(ctx context.Context, p query.Params) (query.Page[T], error) {
	if err := ctx.Err(); err != nil {
		return query.Page[T]{}, err
	}
	var items []T
	err := withLock(c.path+".lock", syscall.LOCK_SH, func() error {
		var err error
		items, err = c.load()
		return err
	})
	if err != nil {
		return query.Page[T]{}, err
	}
	items = Search(Filter(items, p.Filters), p.SearchTerm, p.SortBy == "")
	if spec, ok := p.Sort(); ok {
		SortBy(items, spec)
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = len(items)
	}
	return query.Paginate(items, p.PageNumber, pageSize), nil
}

func (c *Collection[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	var items []T
	err := withLock(c.path+".lock", syscall.LOCK_SH, func() error {
		var err error
		items, err = c.load()
		return err
	})
	if err != nil {
		return zero, err
	}
	if i := indexOf(items, key); i >= 0 {
		return items[i], nil
	}
	return zero, fmt.Errorf("%s %q: %w", c.name, key, query.ErrNotFound)
}

// Create validates item, assigns a new id when it has none and appends it.
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	item = item.Normalized()
	if item.Key() == "" {
		item = item.WithKey(uuid.NewString())
	}
	item = item.Stamped(time.Time{}, c.store.now())
	if err := models.Validate(item); err != nil {
		return zero, err
	}
	err := c.mutate(func(items []T) ([]T, error) {
		if indexOf(items, item.Key()) >= 0 {
			return nil, fmt.Errorf("%s %q: %w", c.name, item.Key(), ErrConflict)
		}
		return append(items, item), nil
	})
	if err != nil {
		return zero, err
	}
	return item, nil
}

// Update replaces the stored record with the same key.
func (c *Collection[T]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	item = item.Normalized()
	if err := models.Validate(item); err != nil {
		return zero, err
	}
	err := c.mutate(func(items []T) ([]T, error) {
		i := indexOf(items, item.Key())
		if i < 0 {
			return nil, fmt.Errorf("%s %q: %w", c.name, item.Key(), query.ErrNotFound)
		}
		item = item.Stamped(items[i].Created(), c.store.now())
		items[i] = item
		return items, nil
	})
	if err != nil {
		return zero, err
	}
	return item, nil
}

func (c *Collection[T]) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.mutate(func(items []T) ([]T, error) {
		i := indexOf(items, key)
		if i < 0 {
			return nil, fmt.Errorf("%s %q: %w", c.name, key, query.ErrNotFound)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

// Replace overwrites the whole collection. Records are validated but keep
// their keys and timestamps.
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	items = slices.Clone(items)
	seen := make(map[string]bool, len(items))
	for i := range items {
		items[i] = items[i].Normalized()
		if items[i].Key() == "" {
			items[i] = items[i].WithKey(uuid.NewString())
		}
		if seen[items[i].Key()] {
			return fmt.Errorf("%s %q: %w", c.name, items[i].Key(), ErrConflict)
		}
		seen[items[i].Key()] = true
		if err := models.Validate(items[i]); err != nil {
			return fmt.Errorf("%s %q: %w", c.name, items[i].Key(), err)
		}
	}
	return c.mutate(func([]T) ([]T, error) { return items, nil })
}

func (c *Collection[T]) mutate(fn func([]T) ([]T, error)) error {
	return withLock(c.path+".lock", syscall.LOCK_EX, func() error {
		items, err := c.load()
		if err != nil {
			return err
		}
		next, err := fn(items)
		if err != nil {
			return err
		}
		return c.save(next)
	})
}

func (c *Collection[T]) load() ([]T, error) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", c.path, err)
	}
	return items, nil
}

func (c *Collection[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

func withLock(lockPath string, how int, fn func() error) error {
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), how); err != nil {
		return err
	}
	defer func() { _ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN) }()

	return fn()
}

func indexOf[T models.Record[T]](items []T, key string) int {
	for i, it := range items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}
