package app

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
)

func TestParamsFollowListView(t *testing.T) {
	b := entityBinding[models.Notification]{ent: notificationEntity}

	p, err := b.params(listRequest{
		Search:   "  exam ",
		Sort:     "title:desc",
		Filters:  []string{"audience=students,members", "status=sent", "type=all"},
		Page:     3,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, query.Params{
		PageNumber: 3,
		PageSize:   10,
		SearchTerm: "exam",
		SortBy:     "title:desc",
		Filters: map[string][]string{
			"branch": {"members", "students"},
			"status": {"sent"},
		},
	}, p)
}

func TestParamsDefaultToFirstPage(t *testing.T) {
	b := entityBinding[models.Organization]{ent: organizationEntity}
	p, err := b.params(listRequest{PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, query.Params{PageNumber: 1, PageSize: 20}, p)
}

func TestLookupBinding(t *testing.T) {
	for _, name := range []string{"organizations", "Org", "orgs", "notif", "address", "links"} {
		b, err := lookupBinding(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, b.Name())
	}
	_, err := lookupBinding("courses")
	assert.ErrorContains(t, err, "available: organizations, members")
}

func TestEntitiesAreConsistent(t *testing.T) {
	for _, b := range bindings() {
		switch e := b.(type) {
		case entityBinding[models.Organization]:
			checkEntity(t, e)
		case entityBinding[models.Member]:
			checkEntity(t, e)
		case entityBinding[models.Student]:
			checkEntity(t, e)
		case entityBinding[models.Notification]:
			checkEntity(t, e)
		case entityBinding[models.Address]:
			checkEntity(t, e)
		case entityBinding[models.Link]:
			checkEntity(t, e)
		default:
			t.Fatalf("unexpected binding %T", b)
		}
	}
}

// checkEntity asserts that sortable columns and filters name real record
// fields and that every create kind starts a draft in its context.
func checkEntity[T models.Record[T]](t *testing.T, e entityBinding[T]) {
	t.Helper()
	fields := map[string]bool{"name": true} // derived full name of people
	rt := reflect.TypeFor[T]()
	for i := range rt.NumField() {
		tag, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
		fields[tag] = true
	}

	for _, c := range e.ent.Columns {
		if c.Sortable {
			assert.Contains(t, fields, c.ID, "%s sorts by unknown field", e.ent.Name)
		}
	}
	for _, f := range e.ent.Filters {
		require.NotEmpty(t, f.Options)
		assert.Equal(t, query.FilterAll, f.Options[0])
		key := f.Key
		if renamed, ok := e.ent.QueryNames[key]; ok {
			key = renamed
		}
		assert.Contains(t, fields, key, "%s filters by unknown field", e.ent.Name)
	}
	require.NotNil(t, e.ent.New)
	require.NotNil(t, e.ent.Form)
	require.NotNil(t, e.ent.Fields)

	for _, kind := range e.ent.CreateKinds {
		draft := e.ent.New(kind.Context)
		for key, value := range kind.Context {
			if renamed, ok := e.ent.QueryNames[key]; ok {
				key = renamed
			}
			assert.Equal(t, value, draft.Field(key), "%s create kind %q", e.ent.Name, kind.Label)
		}
		assert.NotNil(t, e.ent.Form(&draft, false))
	}
}
