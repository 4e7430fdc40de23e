package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDIndexBijection(t *testing.T) {
	ix := NewIDIndex(NodeEntity)
	ids := []int{42, 7, 1000, 3, 99}
	for i, id := range ids {
		pos, created := ix.Register(id)
		assert.True(t, created)
		assert.Equal(t, i, pos)
	}

	for p := 0; p < ix.Len(); p++ {
		id, err := ix.FindID(p)
		require.NoError(t, err)
		back, err := ix.FindPosition(id)
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}
	for _, id := range ids {
		pos, err := ix.FindPosition(id)
		require.NoError(t, err)
		back, err := ix.FindID(pos)
		require.NoError(t, err)
		assert.Equal(t, id, back)
	}
}

func TestIDIndexRegisterTwice(t *testing.T) {
	ix := NewIDIndex(CellEntity)
	first, _ := ix.Register(12)
	ix.Register(13)
	again, created := ix.Register(12)
	assert.False(t, created)
	assert.Equal(t, first, again)
	assert.Equal(t, 2, ix.Len())
}

func TestIDIndexUnknown(t *testing.T) {
	ix := NewIDIndex(NodeEntity)
	ix.Register(1)

	_, err := ix.FindPosition(2)
	var unknown *UnknownEntityError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, 2, unknown.ID)
	assert.False(t, unknown.ByPosition)

	_, err = ix.FindID(5)
	require.True(t, errors.As(err, &unknown))
	assert.True(t, unknown.ByPosition)
	_, err = ix.FindID(-1)
	assert.Error(t, err)
}

func TestReserveVirtual(t *testing.T) {
	ix := NewIDIndex(NodeEntity)
	ix.Register(1)
	// A deck id inside the reserved range is skipped
	ix.Register(AutoIDStart - 1)

	id, pos := ix.ReserveVirtual()
	assert.Equal(t, AutoIDStart, id)
	assert.Equal(t, 2, pos)

	id, pos = ix.ReserveVirtual()
	assert.Equal(t, AutoIDStart-2, id)
	assert.Equal(t, 3, pos)
	assert.Equal(t, 4, ix.Len())
}

func TestIDAllocator(t *testing.T) {
	a := NewIDAllocator(10)
	assert.Equal(t, 10, a.Peek())
	assert.Equal(t, 10, a.Next())
	assert.Equal(t, 9, a.Next())
	assert.Equal(t, 8, a.Peek())
}

func TestNodeStore(t *testing.T) {
	s := NewNodeStore()

	t.Run("reserve then define", func(t *testing.T) {
		pos := s.FindOrReserve(5)
		n, err := s.At(pos)
		require.NoError(t, err)
		assert.False(t, n.Defined())
		assert.False(t, n.GlobalResolved())
		assert.Equal(t, []int{5}, s.Undefined())

		got, err := s.Add(5, [3]float64{1, 2, 3}, GlobalCoordinateSystemID, GlobalCoordinateSystemID, TranslationDOFS)
		require.NoError(t, err)
		assert.Equal(t, pos, got)
		assert.True(t, n.Defined())
		assert.Equal(t, [3]float64{1, 2, 3}, n.Local)
		assert.Empty(t, s.Undefined())
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := s.Add(5, [3]float64{}, 0, 0, AllDOFS)
		var dup *DuplicateIDError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, NodeEntity, dup.Kind)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("virtual", func(t *testing.T) {
		id, pos := s.AddVirtual([3]float64{0, 0, 1})
		assert.Equal(t, AutoIDStart, id)
		n, err := s.Find(id)
		require.NoError(t, err)
		assert.Equal(t, pos, n.Position)
		assert.True(t, n.Defined())
	})
}

func TestDOFS(t *testing.T) {
	assert.Equal(t, "[DX,DY,DZ]", TranslationDOFS.String())
	assert.Equal(t, "[]", NoDOFS.String())
	assert.Equal(t, "[DX,RZ]", (DX | RZ).String())
	assert.True(t, AllDOFS.Contains(RotationDOFS))
	assert.False(t, TranslationDOFS.Contains(RX))
}

func TestCellStore(t *testing.T) {
	c := NewStandardCatalog()
	nodes := NewNodeStore()
	cells := NewCellStore()

	tri := c.MustFindByCode(TRI3)
	quad := c.MustFindByCode(QUAD4)

	pos, err := cells.Add(10, tri, []int{3, 1, 2}, nodes, GlobalCoordinateSystemID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	// Connectivity order is kept, node slots are reserved in reference order
	cell, err := cells.Find(10)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, cell.NodeIDs)
	assert.Equal(t, []int{0, 1, 2}, cell.NodePositions)
	assert.Equal(t, 3, nodes.Len())

	_, err = cells.Add(11, quad, []int{1, 2, 4, 5}, nodes, 2)
	require.NoError(t, err)
	_, err = cells.Add(12, tri, []int{2, 4, 5}, nodes, GlobalCoordinateSystemID)
	require.NoError(t, err)

	cell, _ = cells.Find(11)
	assert.True(t, cell.HasOrientation())
	cell, _ = cells.Find(12)
	assert.Equal(t, 1, cell.TypePosition)

	assert.Equal(t, []CellTypeCode{TRI3, QUAD4}, cells.Types())
	assert.Equal(t, []int{0, 2}, cells.PositionsByType(TRI3))
	assert.Equal(t, 1, cells.CountByType(QUAD4))

	t.Run("duplicate", func(t *testing.T) {
		_, err := cells.Add(10, tri, []int{1, 2, 3}, nodes, 0)
		var dup *DuplicateIDError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, CellEntity, dup.Kind)
	})

	t.Run("connectivity", func(t *testing.T) {
		_, err := cells.Add(13, quad, []int{1, 2, 3}, nodes, 0)
		var conn *ConnectivityError
		require.True(t, errors.As(err, &conn))
		assert.Equal(t, 4, conn.Expected)
		assert.Equal(t, 3, conn.Actual)
		assert.Equal(t, 3, cells.Len())
	})

	t.Run("virtual", func(t *testing.T) {
		id, pos, err := cells.AddVirtual(tri, []int{1, 4, 5}, nodes)
		require.NoError(t, err)
		assert.Equal(t, AutoIDStart, id)
		cell, err := cells.At(pos)
		require.NoError(t, err)
		assert.True(t, cell.Virtual)

		// A rejected virtual cell consumes no id
		next := cells.index.auto.Peek()
		_, _, err = cells.AddVirtual(tri, []int{1, 4}, nodes)
		var conn *ConnectivityError
		require.True(t, errors.As(err, &conn))
		assert.Zero(t, conn.CellID)
		assert.EqualError(t, err, "virtual cell of type TRI3 expects 3 nodes, got 2")
		assert.Equal(t, next, cells.index.auto.Peek())
	})

	t.Run("local index", func(t *testing.T) {
		cell, _ := cells.Find(11)
		local, err := cell.LocalIndex(4)
		require.NoError(t, err)
		assert.Equal(t, 3, local)
		_, err = cell.LocalIndex(3)
		var notIn *NodeNotInCellError
		assert.True(t, errors.As(err, &notIn))
	})
}
