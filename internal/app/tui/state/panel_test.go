package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIsTotal(t *testing.T) {
	one := []Selected[row]{{Key: "a", Name: "A"}}
	two := []Selected[row]{{Key: "a"}, {Key: "b"}}

	tests := []struct {
		name     string
		selected []Selected[row]
		creating bool
		want     PanelKind
	}{
		{"idle", nil, false, KindNoneSelected},
		{"one", one, false, KindOneSelected},
		{"many", two, false, KindMultipleSelected},
		{"creating", nil, true, KindCreating},
		{"creating wins over a selection", two, true, KindCreating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.selected, tt.creating, nil)
			require.NotNil(t, p)
			assert.Equal(t, tt.want, p.Kind())
		})
	}
}

func TestResolveCarriesVariantData(t *testing.T) {
	item := row{id: "a", name: "Alpha"}
	p := Resolve([]Selected[row]{{Key: "a", Name: "Alpha", Item: &item}}, false, nil)
	one, ok := p.(OneSelected[row])
	require.True(t, ok)
	assert.Equal(t, "a", one.Key)
	assert.Equal(t, "Alpha", one.Name)
	assert.Same(t, &item, one.Item)

	ctx := CreateContext{"branch": "students"}
	p = Resolve[row](nil, true, ctx)
	c, ok := p.(Creating[row])
	require.True(t, ok)
	assert.Equal(t, "students", c.Context["branch"])
	ctx["branch"] = "members"
	assert.Equal(t, "students", c.Context["branch"], "context must be copied")

	p = Resolve([]Selected[row]{{Key: "b"}, {Key: "a"}}, false, nil)
	many, ok := p.(MultipleSelected[row])
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, many.Keys())
}

func TestPanelKindString(t *testing.T) {
	assert.Equal(t, "none-selected", KindNoneSelected.String())
	assert.Equal(t, "one-selected", KindOneSelected.String())
	assert.Equal(t, "multiple-selected", KindMultipleSelected.String())
	assert.Equal(t, "creating", KindCreating.String())
	assert.Equal(t, "unknown", PanelKind(42).String())
}

func TestSelectRowThenAddNew(t *testing.T) {
	lv := newView(10)
	lv.SelectRows("A")
	require.Equal(t, KindOneSelected, lv.Panel(rows("A")).Kind())

	lv.StartCreate(nil)

	assert.Empty(t, lv.RowSelection())
	assert.True(t, lv.IsCreating())
	assert.Equal(t, KindCreating, lv.Panel(rows("A")).Kind())
}

func TestClickRowWhileCreating(t *testing.T) {
	lv := newView(10)
	lv.StartCreate(CreateContext{"branch": "members"})

	lv.SelectOnClick("B")

	assert.False(t, lv.IsCreating())
	assert.Nil(t, lv.CreateContext())
	assert.Equal(t, []string{"B"}, lv.SelectedKeys())
	p := lv.Panel(rows("A", "B"))
	one, ok := p.(OneSelected[row])
	require.True(t, ok)
	assert.Equal(t, "B", one.Key)
	assert.Equal(t, "Row B", one.Name)
}

func TestSelectOnClickTogglesSingleRow(t *testing.T) {
	lv := newView(10)
	lv.SelectOnClick("a")
	assert.Equal(t, []string{"a"}, lv.SelectedKeys())

	lv.SelectOnClick("b")
	assert.Equal(t, []string{"b"}, lv.SelectedKeys(), "click replaces the selection")

	lv.SelectOnClick("b")
	assert.Empty(t, lv.SelectedKeys(), "clicking the only selected row deselects it")

	lv.SelectRows("a", "b")
	lv.SelectOnClick("a")
	assert.Equal(t, []string{"a"}, lv.SelectedKeys())
}

func TestStartCreateAlwaysClearsSelection(t *testing.T) {
	for _, prep := range []func(*ListView[row]){
		func(*ListView[row]) {},
		func(lv *ListView[row]) { lv.SelectRows("a") },
		func(lv *ListView[row]) { lv.SelectRows("a", "b", "c") },
		func(lv *ListView[row]) { lv.StartCreate(CreateContext{"branch": "students"}) },
	} {
		lv := newView(10)
		prep(lv)
		lv.StartCreate(CreateContext{"branch": "organization"})
		assert.Empty(t, lv.RowSelection())
		assert.True(t, lv.IsCreating())
		assert.Equal(t, CreateContext{"branch": "organization"}, lv.CreateContext())
	}
}

func TestSelectingRowsLeavesCreate(t *testing.T) {
	for _, sel := range []func(*ListView[row]){
		func(lv *ListView[row]) { lv.SelectRows("a") },
		func(lv *ListView[row]) { lv.SelectRows("a", "b") },
		func(lv *ListView[row]) { lv.ToggleRow("a") },
		func(lv *ListView[row]) { lv.SetRowSelection(Set(RowSelection{"a": true})) },
	} {
		lv := newView(10)
		lv.StartCreate(nil)
		sel(lv)
		assert.False(t, lv.IsCreating())
	}
}

func TestEmptySelectionKeepsCreate(t *testing.T) {
	lv := newView(10)
	lv.StartCreate(nil)
	lv.SetRowSelection(Set(RowSelection{"a": false}))
	assert.True(t, lv.IsCreating())
	assert.Empty(t, lv.RowSelection())
}

func TestExitCreateKeepsSelection(t *testing.T) {
	lv := newView(10)
	lv.SelectRows("a")
	lv.ExitCreate()
	assert.Equal(t, []string{"a"}, lv.SelectedKeys())
}

func TestAfterSuccessfulMutation(t *testing.T) {
	t.Run("after create", func(t *testing.T) {
		lv := newView(10)
		lv.GoToPage(2)
		lv.StartCreate(CreateContext{"branch": "students"})

		lv.Dispatch(MutationSucceeded{})

		assert.Empty(t, lv.RowSelection())
		assert.False(t, lv.IsCreating())
		assert.Equal(t, 0, lv.Pagination().PageIndex)
		assert.Equal(t, KindNoneSelected, lv.Panel(nil).Kind())
	})

	t.Run("after delete", func(t *testing.T) {
		lv := newView(10)
		lv.GoToPage(4)
		lv.SelectRows("a", "b")

		lv.AfterSuccessfulMutation()

		assert.Empty(t, lv.RowSelection())
		assert.False(t, lv.IsCreating())
		assert.Equal(t, 0, lv.Pagination().PageIndex)
	})
}

func TestToggleRow(t *testing.T) {
	lv := newView(10)
	lv.ToggleRow("a")
	lv.ToggleRow("b")
	assert.Equal(t, KindMultipleSelected, lv.Panel(rows("a", "b")).Kind())

	lv.ToggleRow("a")
	assert.Equal(t, []string{"b"}, lv.SelectedKeys())
	lv.Dispatch(RowToggled{Key: "b"})
	assert.Empty(t, lv.SelectedKeys())
}
