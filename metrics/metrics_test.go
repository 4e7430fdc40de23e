package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femxlate/families"
	"github.com/notargets/femxlate/mesh"
)

func TestRecorder(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	m, err := tm.GroupedLine.ConvertToMesh(mesh.NewStandardCatalog())
	require.NoError(t, err)
	p, err := families.NewPartitioner(nil, nil)
	require.NoError(t, err)

	r := NewRecorder()
	var nodeFams *families.Result
	require.NoError(t, r.Time("node_families", func() (err error) {
		nodeFams, err = p.NodeFamilies(m, m.NodeGroups())
		return
	}))
	assert.Error(t, r.Time("write", func() error { return errors.New("disk full") }))
	r.Observe("", true, time.Second)
	assert.Equal(t, []string{"node_families", "write"}, r.Stages())

	r.RecordMesh(m)
	r.RecordFamilies(nodeFams)
	r.RecordFamilies(nil)

	path := filepath.Join(t.TempDir(), "femxlate.prom")
	require.NoError(t, r.WriteToTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)

	assert.Contains(t, out, "femxlate_nodes 6\n")
	assert.Contains(t, out, `femxlate_cells{type="SEG2"} 5`)
	assert.Contains(t, out, `femxlate_groups{kind="node"} 2`)
	assert.Contains(t, out, `femxlate_groups{kind="cell"} 0`)
	assert.Contains(t, out, `femxlate_families{kind="node"} 3`)
	assert.Contains(t, out, `femxlate_generic_family_names{kind="node"} 0`)
	assert.Contains(t, out, `femxlate_unassigned_entities{kind="node"} 2`)
	assert.Contains(t, out, `femxlate_stage_results_total{stage="node_families",status="success"} 1`)
	assert.Contains(t, out, `femxlate_stage_results_total{stage="write",status="error"} 1`)
	assert.Contains(t, out, `femxlate_stage_duration_seconds{stage="write"}`)
}
