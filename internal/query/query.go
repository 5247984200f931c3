// Package query holds the paged-list contract shared by the list controller,
// the local store, the REST client and the demo server.
package query

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Query string keys understood by every list endpoint.
const (
	ParamPageNumber = "pageNumber"
	ParamPageSize   = "pageSize"
	ParamSearch     = "searchTerm"
	ParamSort       = "sortByOption"
)

// FilterAll is the filter sentinel meaning "no constraint for this key".
const FilterAll = "all"

// MaxPageSize bounds page sizes accepted from clients.
const MaxPageSize = 500

// MaxPageNumber bounds page numbers accepted from clients.
const MaxPageNumber = 1_000_000

// ErrNotFound is returned by resources when a key does not exist.
var ErrNotFound = errors.New("not found")

// SortSpec orders a list by one column.
type SortSpec struct {
	ColumnID string
	Desc     bool
}

// Token renders the sort as "column:asc" or "column:desc".
func (s SortSpec) Token() string {
	dir := "asc"
	if s.Desc {
		dir = "desc"
	}
	return s.ColumnID + ":" + dir
}

// ParseSort parses "column", "column:asc" or "column:desc".
func ParseSort(token string) (SortSpec, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SortSpec{}, fmt.Errorf("empty sort token")
	}
	col, dir, hasDir := strings.Cut(token, ":")
	col = strings.TrimSpace(col)
	if col == "" {
		return SortSpec{}, fmt.Errorf("invalid sort token %q: missing column", token)
	}
	spec := SortSpec{ColumnID: col}
	if !hasDir {
		return spec, nil
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc", "":
	case "desc":
		spec.Desc = true
	default:
		return SortSpec{}, fmt.Errorf("invalid sort direction %q", dir)
	}
	return spec, nil
}

// Params is the shape a paged data source expects.
type Params struct {
	PageNumber int
	PageSize   int
	SearchTerm string
	SortBy     string
	Filters    map[string][]string
}

// Sort returns the parsed sort spec, if any.
func (p Params) Sort() (SortSpec, bool) {
	if p.SortBy == "" {
		return SortSpec{}, false
	}
	spec, err := ParseSort(p.SortBy)
	if err != nil {
		return SortSpec{}, false
	}
	return spec, true
}

// Equal reports whether two parameter sets would produce the same request.
func (p Params) Equal(o Params) bool {
	if p.PageNumber != o.PageNumber || p.PageSize != o.PageSize ||
		p.SearchTerm != o.SearchTerm || p.SortBy != o.SortBy {
		return false
	}
	if len(p.Filters) != len(o.Filters) {
		return false
	}
	for k, v := range p.Filters {
		ov, ok := o.Filters[k]
		if !ok || !slices.Equal(v, ov) {
			return false
		}
	}
	return true
}

// Values encodes the params as a URL query. Each filter key becomes one
// token per value.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set(ParamPageNumber, strconv.Itoa(p.PageNumber))
	v.Set(ParamPageSize, strconv.Itoa(p.PageSize))
	if p.SearchTerm != "" {
		v.Set(ParamSearch, p.SearchTerm)
	}
	if p.SortBy != "" {
		v.Set(ParamSort, p.SortBy)
	}
	for key, values := range p.Filters {
		for _, val := range values {
			v.Add(key, val)
		}
	}
	return v
}

// RenameFilters returns a copy of p with filter keys mapped through names.
// Keys missing from names are kept as they are.
func (p Params) RenameFilters(names map[string]string) Params {
	if len(p.Filters) == 0 || len(names) == 0 {
		return p
	}
	out := p
	out.Filters = make(map[string][]string, len(p.Filters))
	for k, v := range p.Filters {
		if renamed, ok := names[k]; ok {
			k = renamed
		}
		out.Filters[k] = append(out.Filters[k], v...)
	}
	return out
}

// ParseValues decodes a URL query into params. Unknown keys are filters;
// the "all" sentinel and empty values are dropped.
func ParseValues(v url.Values, defaultPageSize int) (Params, error) {
	p := Params{PageNumber: 1, PageSize: defaultPageSize}
	if raw := strings.TrimSpace(v.Get(ParamPageNumber)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxPageNumber {
			return Params{}, fmt.Errorf("invalid %s %q", ParamPageNumber, raw)
		}
		p.PageNumber = n
	}
	if raw := strings.TrimSpace(v.Get(ParamPageSize)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxPageSize {
			return Params{}, fmt.Errorf("invalid %s %q", ParamPageSize, raw)
		}
		p.PageSize = n
	}
	p.SearchTerm = strings.TrimSpace(v.Get(ParamSearch))
	if raw := strings.TrimSpace(v.Get(ParamSort)); raw != "" {
		spec, err := ParseSort(raw)
		if err != nil {
			return Params{}, err
		}
		p.SortBy = spec.Token()
	}
	for key, values := range v {
		switch key {
		case ParamPageNumber, ParamPageSize, ParamSearch, ParamSort:
			continue
		}
		kept := CleanFilterValues(values)
		if len(kept) == 0 {
			continue
		}
		if p.Filters == nil {
			p.Filters = map[string][]string{}
		}
		p.Filters[key] = kept
	}
	return p, nil
}

// CleanFilterValues trims, de-duplicates and sorts values and drops the
// "all" sentinel. A result of nil means the key imposes no constraint.
func CleanFilterValues(values []string) []string {
	var kept []string
	for _, val := range values {
		val = strings.TrimSpace(val)
		if val == "" || strings.EqualFold(val, FilterAll) {
			continue
		}
		if !slices.Contains(kept, val) {
			kept = append(kept, val)
		}
	}
	sort.Strings(kept)
	return kept
}

// PaginationMeta describes where a page sits in the full result set.
type PaginationMeta struct {
	TotalItemCount int  `json:"totalItemCount"`
	TotalPageCount int  `json:"totalPageCount"`
	PageSize       int  `json:"pageSize"`
	PageNumber     int  `json:"pageNumber"`
	HasNextPage    bool `json:"hasNextPage"`
}

// Page is one page of items plus its metadata.
type Page[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"paginationMetadata"`
}

// Paginate slices items into the requested page. Pages past the end are
// returned empty with correct totals.
func Paginate[T any](items []T, pageNumber, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	total := len(items)
	pages := (total + pageSize - 1) / pageSize
	// Compare by division so huge page numbers cannot overflow the offset.
	start := total
	if pageNumber-1 <= total/pageSize {
		start = min((pageNumber-1)*pageSize, total)
	}
	end := min(start+pageSize, total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{
		Items: out,
		Pagination: PaginationMeta{
			TotalItemCount: total,
			TotalPageCount: pages,
			PageSize:       pageSize,
			PageNumber:     pageNumber,
			HasNextPage:    pageNumber < pages,
		},
	}
}

// Resource is a paged, mutable collection of T.
type Resource[T any] interface {
	List(ctx context.Context, p Params) (Page[T], error)
	Get(ctx context.Context, key string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, key string) error
}
