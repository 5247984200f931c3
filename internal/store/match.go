package store

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
)

// Filter keeps records whose field matches one of the accepted values of
// every filter key. Matching ignores case.
func Filter[T models.Record[T]](items []T, filters map[string][]string) []T {
	if len(filters) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matchesAll(it, filters) {
			out = append(out, it)
		}
	}
	return out
}

func matchesAll[T models.Record[T]](it T, filters map[string][]string) bool {
	for key, accepted := range filters {
		values := query.CleanFilterValues(accepted)
		if len(values) == 0 {
			continue
		}
		got := it.Field(key)
		ok := false
		for _, v := range values {
			if strings.EqualFold(got, v) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Search keeps records whose search text fuzzy-matches term. With rank set,
// closer matches come first.
func Search[T models.Record[T]](items []T, term string, rank bool) []T {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}
	type scored struct {
		item T
		dist int
	}
	var hits []scored
	for _, it := range items {
		d := fuzzy.RankMatchNormalizedFold(term, it.SearchText())
		if d < 0 {
			continue
		}
		hits = append(hits, scored{item: it, dist: d})
	}
	if rank {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	}
	out := make([]T, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

// SortBy orders items in place by one field. Ties keep their order.
func SortBy[T models.Record[T]](items []T, spec query.SortSpec) {
	sort.SliceStable(items, func(i, j int) bool {
		a := strings.ToLower(items[i].Field(spec.ColumnID))
		b := strings.ToLower(items[j].Field(spec.ColumnID))
		if spec.Desc {
			return a > b
		}
		return a < b
	})
}
