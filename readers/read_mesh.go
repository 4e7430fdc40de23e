package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/femxlate/mesh"
	"github.com/notargets/femxlate/utils"
)

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string, catalog *mesh.Catalog, logger *utils.Logger) (*mesh.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".neu":
		return ReadGambitNeutral(filename, catalog, logger)
	case ".su2":
		return ReadSU2(filename, catalog, logger)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}
