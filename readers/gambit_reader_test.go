package readers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femxlate/mesh"
)

// Helper function to create temporary test files
func createTempMeshFile(t *testing.T, name, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

const gambitHeader = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
Test mesh for unit testing
PROGRAM:                  Gmsh     VERSION:  4.13.1
Sat Jun  7 21:41:35 2025
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         8         1         1         2         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         3   1.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         4   0.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         5   0.00000000000e+00   0.00000000000e+00   1.00000000000e+00
         6   1.00000000000e+00   0.00000000000e+00   1.00000000000e+00
         7   1.00000000000e+00   1.00000000000e+00   1.00000000000e+00
         8   0.00000000000e+00   1.00000000000e+00   1.00000000000e+00
ENDOFSECTION
`

const gambitHex = gambitHeader + `      ELEMENTS/CELLS 2.0.0
         1         4         8         1         2         3         4         5         6         7
                   8
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:           1 ELEMENTS:           1 MATERIAL:           2 NFLAGS:           1
fluid
       0
         1
ENDOFSECTION
 BOUNDARY CONDITIONS 2.0.0
                            wall       1       2       0       6
         1         4         1
         1         4         2
ENDOFSECTION
 BOUNDARY CONDITIONS 2.0.0
                           inlet       0       4       0       6
         1
         4
         5
         8
ENDOFSECTION
`

func TestReadGambitNeutral(t *testing.T) {
	catalog := mesh.NewStandardCatalog()
	msh, err := ReadGambitNeutral(createTempMeshFile(t, "hex.neu", gambitHex), catalog, nil)
	require.NoError(t, err)
	require.NoError(t, msh.Validate())

	assert.Equal(t, 8, msh.Nodes.Len())
	// One hex and two virtual face cells
	assert.Equal(t, 3, msh.Cells.Len())

	hex, err := msh.Cells.Find(1)
	require.NoError(t, err)
	assert.Equal(t, mesh.HEXA8, hex.Type.Code)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, hex.NodeIDs)

	n7, err := msh.Nodes.Find(7)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 1, 1}, n7.Local)

	t.Run("element group", func(t *testing.T) {
		fluid, err := msh.FindGroup(mesh.CellGroupKind, "fluid")
		require.NoError(t, err)
		assert.Equal(t, 1, fluid.ID)
		assert.Equal(t, "MATERIAL 2", fluid.Comment)
		assert.Equal(t, []int{1}, fluid.DirectIDs())
	})

	t.Run("face boundary", func(t *testing.T) {
		wall, err := msh.FindGroup(mesh.CellGroupKind, "wall")
		require.NoError(t, err)
		ids := wall.DirectIDs()
		require.Equal(t, []int{mesh.AutoIDStart - 1, mesh.AutoIDStart}, ids)

		bottom, err := msh.Cells.Find(mesh.AutoIDStart)
		require.NoError(t, err)
		assert.True(t, bottom.Virtual)
		assert.Equal(t, mesh.QUAD4, bottom.Type.Code)
		assert.Equal(t, []int{1, 4, 3, 2}, bottom.NodeIDs)

		top, err := msh.Cells.Find(mesh.AutoIDStart - 1)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 6, 7, 8}, top.NodeIDs)
	})

	t.Run("node boundary", func(t *testing.T) {
		inlet, err := msh.FindGroup(mesh.NodeGroupKind, "inlet")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 4, 5, 8}, inlet.DirectIDs())
	})

	t.Run("dispatch by extension", func(t *testing.T) {
		byExt, err := ReadMeshFile(createTempMeshFile(t, "HEX.NEU", gambitHex), catalog, nil)
		require.NoError(t, err)
		assert.Equal(t, msh.Cells.Len(), byExt.Cells.Len())
	})
}

func TestReadGambitNeutralErrors(t *testing.T) {
	catalog := mesh.NewStandardCatalog()
	elements := func(line string) string {
		return gambitHeader + "      ELEMENTS/CELLS 2.0.0\n" + line + "\nENDOFSECTION\n"
	}

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing control info",
			content: "   NODAL COORDINATES 2.0.0\nENDOFSECTION\n",
			errMsg:  "missing CONTROL INFO",
		},
		{
			name:    "unknown element type",
			content: elements("         1         9         3         1         2         3"),
			errMsg:  "unsupported element type 9",
		},
		{
			name:    "truncated element",
			content: gambitHeader + "      ELEMENTS/CELLS 2.0.0\n         1         6         4         1         2\n",
			errMsg:  "unexpected EOF",
		},
		{
			name: "bad face id",
			content: elements("         1         6         4         1         2         3         4") +
				" BOUNDARY CONDITIONS 2.0.0\n  wall 1 1 0 6\n         1         6         5\nENDOFSECTION\n",
			errMsg: "has no face 5",
		},
		{
			name: "unknown itype",
			content: elements("         1         6         4         1         2         3         4") +
				" BOUNDARY CONDITIONS 2.0.0\n  wall 3 1 0 6\n         1\nENDOFSECTION\n",
			errMsg: "unknown ITYPE 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGambitNeutral(createTempMeshFile(t, "bad.neu", tt.content), catalog, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("duplicate element id", func(t *testing.T) {
		content := elements("         1         6         4         1         2         3         4\n" +
			"         1         6         4         5         6         7         8")
		content = strings.Replace(content, "         8         1         1", "         8         2         1", 1)
		_, err := ReadGambitNeutral(createTempMeshFile(t, "dup.neu", content), catalog, nil)
		var dup *mesh.DuplicateIDError
		assert.True(t, errors.As(err, &dup))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadGambitNeutral(filepath.Join(t.TempDir(), "nope.neu"), catalog, nil)
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadMeshFile("mesh.msh", catalog, nil)
		assert.EqualError(t, err, "unsupported mesh format: .msh")
	})
}
