package InputParameters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femxlate/families"
)

func writeParameterFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	tp := NewTranslationParameters()
	assert.Equal(t, BestEffort, tp.TranslationMode)
	assert.Equal(t, "info", tp.LogLevel)
	assert.Equal(t, families.DefaultMaxNameLength, tp.MaxFamilyNameLength)
	assert.Equal(t, DefaultSkinGroupName, tp.SkinGroupName)
	assert.False(t, tp.CreateSkin)
	assert.NoError(t, tp.Validate())
}

func TestParseYAML(t *testing.T) {
	path := writeParameterFile(t, "params.yaml", `
Title: Wing box
OutputFile: wing.asc
LogLevel: DEBUG
TranslationMode: strict
MaxFamilyNameLength: 32
CreateSkin: true
NodeGroupOrder: [inlet, outlet]
CellGroupOrder:
  - fluid
`)
	tp, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Wing box", tp.Title)
	assert.Equal(t, "wing.asc", tp.OutputFile)
	assert.Equal(t, "debug", tp.LogLevel)
	assert.True(t, tp.Strict())
	assert.Equal(t, 32, tp.PartitionConfig().MaxNameLength)
	assert.True(t, tp.CreateSkin)
	assert.Equal(t, "SKIN", tp.SkinGroupName)
	assert.Equal(t, []string{"inlet", "outlet"}, tp.NodeGroupOrder)
	assert.Equal(t, []string{"fluid"}, tp.CellGroupOrder)
	tp.Print()
}

func TestParseTOML(t *testing.T) {
	path := writeParameterFile(t, "params.toml", `
Title = "Manifold"
TranslationMode = "mesh_at_least"
SkinGroupName = "OUTER"
ParallelFamilies = true
CellGroupOrder = ["solid", "liner"]
`)
	tp, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Manifold", tp.Title)
	assert.Equal(t, MeshAtLeast, tp.TranslationMode)
	assert.False(t, tp.Strict())
	assert.Equal(t, "OUTER", tp.SkinGroupName)
	assert.True(t, tp.ParallelFamilies)
	assert.Equal(t, []string{"solid", "liner"}, tp.CellGroupOrder)
	// untouched keys keep their defaults
	assert.Equal(t, "info", tp.LogLevel)
	assert.Equal(t, families.DefaultMaxNameLength, tp.MaxFamilyNameLength)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"mode", "TranslationMode: sloppy\n", "unknown TranslationMode"},
		{"log level", "LogLevel: loud\n", "loud"},
		{"name length", "MaxFamilyNameLength: 8\n", "below the minimum of 16"},
		{"duplicate group", "NodeGroupOrder: [a, b, a]\n", `NodeGroupOrder lists group "a" twice`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(writeParameterFile(t, "bad.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := ParseFile(writeParameterFile(t, "bad.toml", "Title = \n"))
	assert.Error(t, err)
}
