package readers

import (
	"fmt"
	"os"
	"strings"

	"github.com/notargets/femxlate/mesh"
	"github.com/notargets/femxlate/utils"
)

// su2CellTypes maps SU2/VTK element type identifiers to catalog codes
var su2CellTypes = map[int]mesh.CellTypeCode{
	3:  mesh.SEG2,   // VTK_LINE
	5:  mesh.TRI3,   // VTK_TRIANGLE
	9:  mesh.QUAD4,  // VTK_QUAD
	10: mesh.TETRA4, // VTK_TETRA
	12: mesh.HEXA8,  // VTK_HEXAHEDRON
	13: mesh.PENTA6, // VTK_WEDGE
	14: mesh.PYRA5,  // VTK_PYRAMID
}

// ReadSU2 reads an SU2 native format file. SU2 indices are implicit and
// 0-based: node i gets id i+1, volume element i gets id i+1, and boundary
// elements of each marker are numbered after the volume elements and
// collected in a cell group named after the marker.
func ReadSU2(filename string, catalog *mesh.Catalog, logger *utils.Logger) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if logger == nil {
		logger = utils.NewDiscardLogger()
	}
	msh := mesh.NewMesh(catalog, logger)
	d := newDeckScanner(file)

	var (
		ndime              int
		hasNDIME, hasNPOIN bool
		nextCellID         = 1
	)

	for d.scan() {
		line := d.trimmed()
		// Skip comments (text after %)
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			if _, err := fmt.Sscanf(line, "NDIME=%d", &ndime); err != nil {
				return nil, d.errorf("invalid NDIME line: %s", line)
			}
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
			}

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return nil, d.errorf("NPOIN= before NDIME=")
			}
			hasNPOIN = true
			var npoin int
			if _, err := fmt.Sscanf(line, "NPOIN=%d", &npoin); err != nil {
				return nil, d.errorf("invalid NPOIN line: %s", line)
			}
			if err := readSU2Nodes(d, msh, npoin, ndime); err != nil {
				return nil, fmt.Errorf("reading nodes: %w", err)
			}

		case strings.HasPrefix(line, "NELEM="):
			var nelem int
			if _, err := fmt.Sscanf(line, "NELEM=%d", &nelem); err != nil {
				return nil, d.errorf("invalid NELEM line: %s", line)
			}
			for i := 0; i < nelem; i++ {
				code, nodes, err := readSU2Element(d)
				if err != nil {
					return nil, fmt.Errorf("reading elements: %w", err)
				}
				if _, err := msh.AddCell(nextCellID, code, nodes, mesh.GlobalCoordinateSystemID); err != nil {
					return nil, err
				}
				nextCellID++
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			if _, err := fmt.Sscanf(line, "NMARK=%d", &nmark); err != nil {
				return nil, d.errorf("invalid NMARK line: %s", line)
			}
			for i := 0; i < nmark; i++ {
				if err := readSU2Marker(d, msh, &nextCellID); err != nil {
					return nil, fmt.Errorf("reading marker %d: %w", i, err)
				}
			}
		}
	}
	if err := d.err(); err != nil {
		return nil, err
	}

	// Validate that we read the required sections
	if !hasNDIME {
		return nil, fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}

	logger.Debugf("su2: %s: %d nodes, %d cells, %d markers",
		filename, msh.Nodes.Len(), msh.Cells.Len(), len(msh.CellGroups()))
	return msh, nil
}

func readSU2Nodes(d *deckScanner, msh *mesh.Mesh, npoin, ndime int) error {
	for i := 0; i < npoin; i++ {
		fields, err := d.fields(ndime)
		if err != nil {
			return err
		}
		var xyz [3]float64 // Always store 3D coordinates
		for j := 0; j < ndime; j++ {
			if xyz[j], err = d.atof(fields[j], "coordinate"); err != nil {
				return err
			}
		}
		// Legacy format may have explicit index at end of line (ignored)
		if _, err := msh.AddNode(i+1, xyz[0], xyz[1], xyz[2],
			mesh.GlobalCoordinateSystemID, mesh.GlobalCoordinateSystemID, mesh.AllDOFS); err != nil {
			return err
		}
	}
	return nil
}

// readSU2Element returns the catalog code and the 1-based node ids of an element line
func readSU2Element(d *deckScanner) (mesh.CellTypeCode, []int, error) {
	fields, err := d.fields(2)
	if err != nil {
		return 0, nil, err
	}
	vtkType, err := d.atoi(fields[0], "element type")
	if err != nil {
		return 0, nil, err
	}
	code, ok := su2CellTypes[vtkType]
	if !ok {
		return 0, nil, d.errorf("unknown element type: %d", vtkType)
	}
	numNodes := su2NodeCount(code)
	if len(fields) < numNodes+1 {
		return 0, nil, d.errorf("element type %d expects %d nodes, got %d fields",
			vtkType, numNodes, len(fields)-1)
	}
	nodes := make([]int, numNodes)
	for j := range nodes {
		idx, err := d.atoi(fields[1+j], "node index")
		if err != nil {
			return 0, nil, err
		}
		if idx < 0 {
			return 0, nil, d.errorf("node index %d out of range", idx)
		}
		nodes[j] = idx + 1
	}
	return code, nodes, nil
}

func su2NodeCount(code mesh.CellTypeCode) int {
	switch code {
	case mesh.SEG2:
		return 2
	case mesh.TRI3:
		return 3
	case mesh.QUAD4, mesh.TETRA4:
		return 4
	case mesh.PYRA5:
		return 5
	case mesh.PENTA6:
		return 6
	case mesh.HEXA8:
		return 8
	}
	return 0
}

func readSU2Marker(d *deckScanner, msh *mesh.Mesh, nextCellID *int) error {
	// Read MARKER_TAG= line
	if !d.scan() {
		return d.errorf("unexpected EOF reading marker tag")
	}
	markerLine := d.trimmed()
	if !strings.HasPrefix(markerLine, "MARKER_TAG=") {
		return d.errorf("expected MARKER_TAG=, got: %s", markerLine)
	}
	tagName := strings.TrimSpace(strings.TrimPrefix(markerLine, "MARKER_TAG="))

	// Read MARKER_ELEMS= line
	if !d.scan() {
		return d.errorf("unexpected EOF reading marker elements for %s", tagName)
	}
	var nMarkerElems int
	if _, err := fmt.Sscanf(d.trimmed(), "MARKER_ELEMS=%d", &nMarkerElems); err != nil {
		return d.errorf("invalid MARKER_ELEMS line: %s", d.trimmed())
	}

	group, err := msh.CreateCellGroup(tagName, mesh.NoDeckID, "marker")
	if err != nil {
		return err
	}
	for j := 0; j < nMarkerElems; j++ {
		code, nodes, err := readSU2Element(d)
		if err != nil {
			return err
		}
		if _, err := msh.AddCell(*nextCellID, code, nodes, mesh.GlobalCoordinateSystemID); err != nil {
			return err
		}
		group.AddDirect(*nextCellID)
		*nextCellID++
	}
	return nil
}
