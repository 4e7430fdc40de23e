package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityContainerDirect(t *testing.T) {
	c := NewEntityContainer(NodeGroupKind)
	assert.True(t, c.Empty())

	c.AddDirect(5, 3, 5, 1)
	assert.True(t, c.HasEntities())
	assert.False(t, c.HasGroupReferences())
	assert.True(t, c.Contains(3))
	assert.False(t, c.Contains(4))
	assert.Equal(t, []int{1, 3, 5}, c.DirectIDs())

	ids, err := c.Flatten(nil, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, ids)

	c.Clear()
	assert.True(t, c.Empty())
}

func TestEntityContainerFlatten(t *testing.T) {
	m := NewMesh(NewStandardCatalog(), nil)
	a, err := m.CreateNodeGroup("A", 1, "")
	require.NoError(t, err)
	b, err := m.CreateNodeGroup("B", 2, "")
	require.NoError(t, err)
	ab, err := m.CreateNodeGroup("AB", 3, "")
	require.NoError(t, err)
	top, err := m.CreateNodeGroup("TOP", 4, "")
	require.NoError(t, err)

	a.AddDirect(1, 2)
	b.AddDirect(2, 3)
	ab.AddDirect(9)
	ab.AddGroupReference("A")
	ab.AddGroupReference("B")
	ab.AddGroupReference("A")
	assert.Equal(t, []string{"A", "B"}, ab.GroupNames())

	ids, err := ab.Flatten(m, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 9}, ids)

	ids, err = ab.Flatten(m, false)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, ids)

	// Only one level of group references is expanded
	top.AddGroupReference("AB")
	ids, err = top.Flatten(m, true)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, ids)

	// Contains ignores referenced groups
	assert.False(t, ab.Contains(1))

	groups, err := ab.Groups(m)
	require.NoError(t, err)
	assert.Equal(t, []*Group{a, b}, groups)
}

func TestEntityContainerUnknownGroup(t *testing.T) {
	m := NewMesh(NewStandardCatalog(), nil)
	c := NewEntityContainer(CellGroupKind)
	c.AddDirect(1)
	// Resolution is lazy: adding the reference does not fail
	c.AddGroupReference("missing")

	_, err := c.Flatten(m, true)
	var unknown *UnknownGroupError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)
	assert.Equal(t, CellGroupKind, unknown.Kind)

	// Group names are scoped by kind
	_, err = m.CreateNodeGroup("missing", NoDeckID, "")
	require.NoError(t, err)
	_, err = c.Flatten(m, true)
	assert.True(t, errors.As(err, &unknown))
}

func TestEntityContainerMerge(t *testing.T) {
	a := NewEntityContainer(CellGroupKind)
	a.AddDirect(1, 2)
	a.AddGroupReference("g1")
	b := NewEntityContainer(CellGroupKind)
	b.AddDirect(2, 3)
	b.AddGroupReference("g2")
	b.AddGroupReference("g1")

	a.Merge(b)
	assert.Equal(t, []int{1, 2, 3}, a.DirectIDs())
	assert.Equal(t, []string{"g1", "g2"}, a.GroupNames())
}

func TestGroupKind(t *testing.T) {
	assert.Equal(t, "node group", NodeGroupKind.String())
	assert.Equal(t, CellEntity, CellGroupKind.EntityKind())
	assert.Equal(t, NodeEntity, NodeGroupKind.EntityKind())

	g := newGroup(CellGroupKind, "wall", 3, "")
	assert.Equal(t, "cell group[wall]", g.String())
}
