package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardCatalog(t *testing.T) {
	c := NewStandardCatalog()

	t.Run("standard types", func(t *testing.T) {
		tests := []struct {
			code     CellTypeCode
			name     string
			numNodes int
			dim      SpaceDimension
			numFaces int
		}{
			{POINT1, "POINT1", 1, Dimension0D, 0},
			{SEG2, "SEG2", 2, Dimension1D, 0},
			{SEG5, "SEG5", 5, Dimension1D, 0},
			{TRI3, "TRI3", 3, Dimension2D, 0},
			{QUAD9, "QUAD9", 9, Dimension2D, 0},
			{TETRA4, "TETRA4", 4, Dimension3D, 4},
			{PYRA5, "PYRA5", 5, Dimension3D, 5},
			{PENTA6, "PENTA6", 6, Dimension3D, 5},
			{HEXA8, "HEXA8", 8, Dimension3D, 6},
			{HEXA27, "HEXA27", 27, Dimension3D, 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ct, err := c.FindByCode(tt.code)
				require.NoError(t, err)
				assert.Equal(t, tt.name, ct.Name)
				assert.Equal(t, tt.numNodes, ct.NumNodes)
				assert.Equal(t, tt.dim, ct.Dimension)
				assert.Len(t, ct.Faces, tt.numFaces)
				assert.True(t, ct.SpecificSize())
			})
		}
	})

	t.Run("polygon fallbacks", func(t *testing.T) {
		for n := 3; n <= 20; n++ {
			ct, err := c.FindByCode(PolyCodeBase + CellTypeCode(n))
			require.NoError(t, err)
			assert.Equal(t, n, ct.NumNodes)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := c.FindByCode(999)
		var unknown *UnknownCellTypeError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, CellTypeCode(999), unknown.Code)
	})

	t.Run("frozen", func(t *testing.T) {
		_, err := c.Register(777, 3, Dimension2D, "EXTRA")
		assert.ErrorIs(t, err, ErrCatalogFrozen)
	})

	t.Run("types ordered by code", func(t *testing.T) {
		types := c.Types()
		require.Equal(t, c.Len(), len(types))
		for i := 1; i < len(types); i++ {
			assert.Less(t, types[i-1].Code, types[i].Code)
		}
	})

	t.Run("find by node count", func(t *testing.T) {
		ct, err := c.FindByNodeCount(Dimension3D, 8)
		require.NoError(t, err)
		assert.Equal(t, HEXA8, ct.Code)
		_, err = c.FindByNodeCount(Dimension1D, 7)
		assert.Error(t, err)
	})
}

func TestCatalogRegister(t *testing.T) {
	c := NewCatalog()
	first, err := c.Register(TETRA4, 4, Dimension3D, "TETRA4", tetra4Faces...)
	require.NoError(t, err)

	// Identical registration is idempotent
	again, err := c.Register(TETRA4, 4, Dimension3D, "TETRA4", tetra4Faces...)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, c.Len())

	// Same code, different attributes
	_, err = c.Register(TETRA4, 10, Dimension3D, "TETRA10")
	var conflict *CatalogConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, TETRA4, conflict.Code)

	// Face index outside the node range
	_, err = c.Register(TRI3, 3, Dimension2D, "TRI3", []int{1, 2, 4})
	assert.Error(t, err)

	// Faces are copied on registration
	faces := [][]int{{1, 2}}
	ct, err := c.Register(SEG2, 2, Dimension1D, "SEG2", faces...)
	require.NoError(t, err)
	faces[0][0] = 2
	assert.Equal(t, 1, ct.Faces[0][0])
}

func TestSpaceDimension(t *testing.T) {
	assert.Equal(t, "3D", Dimension3D.String())
	assert.True(t, Dimension1D.Less(Dimension2D))
	assert.Equal(t, 0, Dimension3D.RelativeMeshDimension())
	assert.Equal(t, -3, Dimension0D.RelativeMeshDimension())
}
