package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func orgs(t *testing.T, s *Store, tenant string) *Collection[models.Organization] {
	t.Helper()
	c, err := NewCollection[models.Organization](s, tenant, "organizations")
	require.NoError(t, err)
	return c
}

func seedOrgs(t *testing.T, c *Collection[models.Organization]) {
	t.Helper()
	ctx := context.Background()
	for _, o := range []models.Organization{
		{Name: "North Ridge Academy", Type: models.OrgTypeSchool, Status: models.OrgStatusActive},
		{Name: "Harbor University", Type: models.OrgTypeUniversity, Status: models.OrgStatusActive},
		{Name: "Eastside Training", Type: models.OrgTypeTrainingCenter, Status: models.OrgStatusInactive},
		{Name: "Northwind School", Type: models.OrgTypeSchool, Status: models.OrgStatusInactive},
	} {
		_, err := c.Create(ctx, o)
		require.NoError(t, err)
	}
}

func names(items []models.Organization) []string {
	out := make([]string, len(items))
	for i, o := range items {
		out[i] = o.Name
	}
	return out
}

func TestOpenRejectsEmptyDir(t *testing.T) {
	_, err := Open(" ")
	assert.Error(t, err)
}

func TestCreateAssignsKeyAndTimestamps(t *testing.T) {
	s := openTest(t)
	c := orgs(t, s, "acme")

	created, err := c.Create(context.Background(), models.Organization{Name: " Blue Lake ", Type: "school", Status: "active"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Blue Lake", created.Name)
	assert.Equal(t, "blue-lake", created.Slug)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := c.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.FileExists(t, filepath.Join(s.Dir(), "tenants", "acme", "organizations.json"))
}

func TestCreateValidates(t *testing.T) {
	c := orgs(t, openTest(t), "acme")
	_, err := c.Create(context.Background(), models.Organization{Name: "X", Type: "castle", Status: "active"})

	var fe models.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "type")
}

func TestCreateConflict(t *testing.T) {
	c := orgs(t, openTest(t), "acme")
	o := models.Organization{ID: "fixed", Name: "A", Type: "school", Status: "active"}
	_, err := c.Create(context.Background(), o)
	require.NoError(t, err)
	_, err = c.Create(context.Background(), o)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateKeepsCreatedAt(t *testing.T) {
	c := orgs(t, openTest(t), "acme")
	ctx := context.Background()
	created, err := c.Create(ctx, models.Organization{Name: "A", Type: "school", Status: "active"})
	require.NoError(t, err)

	edit := created
	edit.Status = "inactive"
	edit.CreatedAt = time.Time{}
	updated, err := c.Update(ctx, edit)
	require.NoError(t, err)

	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, "inactive", updated.Status)

	_, err = c.Update(ctx, models.Organization{ID: "missing", Name: "B", Type: "school", Status: "active"})
	assert.ErrorIs(t, err, query.ErrNotFound)
}

func TestDelete(t *testing.T) {
	c := orgs(t, openTest(t), "acme")
	ctx := context.Background()
	created, err := c.Create(ctx, models.Organization{Name: "A", Type: "school", Status: "active"})
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, created.ID))
	_, err = c.Get(ctx, created.ID)
	assert.ErrorIs(t, err, query.ErrNotFound)
	assert.ErrorIs(t, c.Delete(ctx, created.ID), query.ErrNotFound)
}

func TestListFiltersSortsAndPages(t *testing.T) {
	c := orgs(t, openTest(t), "acme")
	seedOrgs(t, c)
	ctx := context.Background()

	page, err := c.List(ctx, query.Params{PageNumber: 1, PageSize: 10, SortBy: "name:asc",
		Filters: map[string][]string{"type": {"school"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"North Ridge Academy", "Northwind School"}, names(page.Items))

	page, err = c.List(ctx, query.Params{PageNumber: 1, PageSize: 10, SortBy: "name:desc",
		Filters: map[string][]string{"status": {"ACTIVE", "inactive"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Northwind School", "North Ridge Academy", "Harbor University", "Eastside Training"}, names(page.Items))

	page, err = c.List(ctx, query.Params{PageNumber: 2, PageSize: 3, SortBy: "name:asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Northwind School"}, names(page.Items))
	assert.Equal(t, query.PaginationMeta{TotalItemCount: 4, TotalPageCount: 2, PageSize: 3, PageNumber: 2}, page.Pagination)
}

func TestListSearchIsFuzzy(t *testing.T) {
	c := orgs(t, openTest(t), "acme")
	seedOrgs(t, c)

	page, err := c.List(context.Background(), query.Params{PageNumber: 1, PageSize: 10, SearchTerm: "north"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"North Ridge Academy", "Northwind School"}, names(page.Items))

	page, err = c.List(context.Background(), query.Params{PageNumber: 1, PageSize: 10, SearchTerm: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Pagination.TotalItemCount)
}

func TestTenantsAreIsolated(t *testing.T) {
	s := openTest(t)
	seedOrgs(t, orgs(t, s, "acme"))

	page, err := orgs(t, s, "globex").List(context.Background(), query.Params{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	tenants, err := s.Tenants()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex"}, tenants)
}

func TestTenantNameIsSanitized(t *testing.T) {
	s := openTest(t)
	_, err := NewCollection[models.Organization](s, "../../etc", "organizations")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.Dir(), "tenants", ".._.._etc"))
	assert.NoError(t, err)

	_, err = NewCollection[models.Organization](s, "  ", "organizations")
	assert.Error(t, err)
}

func TestReplace(t *testing.T) {
	c := orgs(t, openTest(t), "acme")
	ctx := context.Background()
	seedOrgs(t, c)

	err := c.Replace(ctx, []models.Organization{
		{ID: "a", Name: "Only", Type: "school", Status: "active"},
	})
	require.NoError(t, err)
	page, err := c.List(ctx, query.Params{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, names(page.Items))

	err = c.Replace(ctx, []models.Organization{
		{ID: "a", Name: "One", Type: "school", Status: "active"},
		{ID: "a", Name: "Two", Type: "school", Status: "active"},
	})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestReplaceLeavesInputUntouched(t *testing.T) {
	c := orgs(t, openTest(t), "acme")
	in := []models.Organization{{Name: "  North Ridge ", Type: "SCHOOL", Status: "Active"}}

	require.NoError(t, c.Replace(context.Background(), in))
	assert.Equal(t, models.Organization{Name: "  North Ridge ", Type: "SCHOOL", Status: "Active"}, in[0])

	page, err := c.List(context.Background(), query.Params{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "North Ridge", page.Items[0].Name)
	assert.Equal(t, "north-ridge", page.Items[0].Slug)
	assert.NotEmpty(t, page.Items[0].ID)
}

func TestCanceledContext(t *testing.T) {
	c := orgs(t, openTest(t), "acme")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.List(ctx, query.Params{PageNumber: 1, PageSize: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
