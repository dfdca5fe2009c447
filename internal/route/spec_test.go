package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crisisSpec() *Spec {
	return &Spec{
		Roots: []*NodeSpec{
			{
				Path:      "crises",
				Component: "CrisisList",
				Children: []*NodeSpec{
					{Path: ":id", Component: "CrisisDetail"},
				},
			},
			{Path: "heroes", Component: "HeroList"},
		},
	}
}

func TestSpecValidate(t *testing.T) {
	require.NoError(t, crisisSpec().Validate())
}

func TestSpecValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		spec *Spec
		want string
	}{
		{
			"empty path",
			&Spec{Roots: []*NodeSpec{{Path: "", Component: "X"}}},
			"empty path label",
		},
		{
			"multi-segment label",
			&Spec{Roots: []*NodeSpec{{Path: "a/b", Component: "X"}}},
			"single segment",
		},
		{
			"missing component",
			&Spec{Roots: []*NodeSpec{{Path: "crises"}}},
			"no component",
		},
		{
			"duplicate siblings",
			&Spec{Roots: []*NodeSpec{
				{Path: "crises", Component: "A"},
				{Path: "crises", Component: "B"},
			}},
			"duplicate sibling",
		},
		{
			"nested error",
			&Spec{Roots: []*NodeSpec{{
				Path: "crises", Component: "A",
				Children: []*NodeSpec{{Path: ":id"}},
			}}},
			"no component",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSpecBuild(t *testing.T) {
	roots := crisisSpec().Build()

	require.Len(t, roots, 2)
	crises := roots[0]
	assert.Equal(t, "crises", crises.Label)
	assert.Equal(t, "CrisisList", crises.Component)
	assert.Nil(t, crises.Parent())
	assert.False(t, crises.Occupied())

	require.Len(t, crises.Children, 1)
	detail := crises.Children[0]
	assert.Equal(t, ":id", detail.Label)
	assert.Same(t, crises, detail.Parent())
	assert.Equal(t, "/crises/:id", detail.Path())
}

func TestSpecBuildFreshTrees(t *testing.T) {
	spec := crisisSpec()
	a := spec.Build()
	b := spec.Build()

	a[0].Attach(struct{}{}, "inst-1")
	assert.False(t, b[0].Occupied(), "each Build returns an independent tree")
}

func TestFindSpec(t *testing.T) {
	spec := crisisSpec()

	list := spec.FindSpec([]string{"crises"})
	require.NotNil(t, list)
	assert.Equal(t, "CrisisList", list.Component)

	detail := spec.FindSpec([]string{"crises", "1"})
	require.NotNil(t, detail)
	assert.Equal(t, "CrisisDetail", detail.Component)
	assert.True(t, detail.IsParam())
	assert.Equal(t, "id", detail.ParamName())

	assert.Nil(t, spec.FindSpec([]string{"nonexistent"}))
	assert.Nil(t, spec.FindSpec([]string{"crises", "1", "deeper"}))
}

func TestNodesAlong(t *testing.T) {
	roots := crisisSpec().Build()

	chain := NodesAlong(roots, []string{"crises", "1"})
	require.Len(t, chain, 2)
	assert.Equal(t, "crises", chain[0].Label)
	assert.Equal(t, ":id", chain[1].Label)

	assert.Nil(t, NodesAlong(roots, []string{"missing"}))
	assert.Empty(t, NodesAlong(roots, nil))
}

func TestNodeAttachDetach(t *testing.T) {
	roots := crisisSpec().Build()
	n := roots[0]

	inst := &struct{ name string }{"list"}
	n.Attach(inst, "inst-1")
	assert.True(t, n.Occupied())
	assert.Same(t, inst, n.Instance)
	assert.Equal(t, "inst-1", n.InstanceID)

	n.Detach()
	assert.False(t, n.Occupied())
	assert.Empty(t, n.InstanceID)
}
