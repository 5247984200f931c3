package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
)

func TestFilterIgnoresSentinelAndCase(t *testing.T) {
	items := []models.Member{
		{ID: "1", Role: "admin", Status: "active"},
		{ID: "2", Role: "teacher", Status: "invited"},
	}
	got := Filter(items, map[string][]string{"role": {"all"}, "status": {"Invited"}})
	assert.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Empty(t, Filter(items, map[string][]string{"nope": {"x"}}))
}

func TestSearchRanksCloserMatchesFirst(t *testing.T) {
	items := []models.Link{
		{ID: "1", Title: "Parent portal handbook"},
		{ID: "2", Title: "Portal"},
	}
	got := Search(items, "portal", true)
	assert.Equal(t, "2", got[0].ID)

	unranked := Search(items, "portal", false)
	assert.Equal(t, "1", unranked[0].ID)
}

func TestSortByIsStable(t *testing.T) {
	items := []models.Student{
		{ID: "1", LastName: "b", Grade: "2"},
		{ID: "2", LastName: "a", Grade: "1"},
		{ID: "3", LastName: "c", Grade: "1"},
	}
	SortBy(items, query.SortSpec{ColumnID: "grade"})
	assert.Equal(t, []string{"2", "3", "1"}, []string{items[0].ID, items[1].ID, items[2].ID})

	SortBy(items, query.SortSpec{ColumnID: "lastName", Desc: true})
	assert.Equal(t, []string{"3", "1", "2"}, []string{items[0].ID, items[1].ID, items[2].ID})
}
