package readers

import (
	"fmt"
	"os"
	"strings"

	"github.com/notargets/femxlate/mesh"
	"github.com/notargets/femxlate/utils"
)

// gambitType is the NTYPE element shape code of a Gambit neutral file
type gambitType struct {
	shape    int
	numNodes int
}

var gambitCellTypes = map[gambitType]mesh.CellTypeCode{
	{1, 2}:  mesh.SEG2,    // Edge
	{1, 3}:  mesh.SEG3,    // Edge
	{2, 4}:  mesh.QUAD4,   // Quadrilateral
	{2, 8}:  mesh.QUAD8,   // Quadrilateral
	{2, 9}:  mesh.QUAD9,   // Quadrilateral
	{3, 3}:  mesh.TRI3,    // Triangle
	{3, 6}:  mesh.TRI6,    // Triangle
	{3, 7}:  mesh.TRI7,    // Triangle
	{4, 8}:  mesh.HEXA8,   // Brick
	{4, 20}: mesh.HEXA20,  // Brick
	{4, 27}: mesh.HEXA27,  // Brick
	{5, 6}:  mesh.PENTA6,  // Wedge
	{5, 15}: mesh.PENTA15, // Wedge
	{6, 4}:  mesh.TETRA4,  // Tetrahedron
	{6, 10}: mesh.TETRA10, // Tetrahedron
	{7, 5}:  mesh.PYRA5,   // Pyramid
	{7, 13}: mesh.PYRA13,  // Pyramid
}

// gambitFaces holds the Gambit face numbering of linear cells, 0-based local
// node indices. Boundary condition records refer to faces by 1-based index.
var gambitFaces = map[mesh.CellTypeCode][][]int{
	mesh.TRI3:  {{0, 1}, {1, 2}, {2, 0}},
	mesh.QUAD4: {{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	mesh.TETRA4: {
		{0, 2, 1}, // Face 1
		{0, 1, 3}, // Face 2
		{1, 2, 3}, // Face 3
		{0, 3, 2}, // Face 4
	},
	mesh.HEXA8: {
		{0, 3, 2, 1}, // Face 1 (bottom)
		{4, 5, 6, 7}, // Face 2 (top)
		{0, 1, 5, 4}, // Face 3
		{1, 2, 6, 5}, // Face 4
		{2, 3, 7, 6}, // Face 5
		{3, 0, 4, 7}, // Face 6
	},
	mesh.PENTA6: {
		{0, 2, 1},    // Face 1 (bottom tri)
		{3, 4, 5},    // Face 2 (top tri)
		{0, 1, 4, 3}, // Face 3 (quad)
		{1, 2, 5, 4}, // Face 4 (quad)
		{2, 0, 3, 5}, // Face 5 (quad)
	},
	mesh.PYRA5: {
		{0, 3, 2, 1}, // Face 1 (base quad)
		{0, 1, 4},    // Face 2 (tri)
		{1, 2, 4},    // Face 3 (tri)
		{2, 3, 4},    // Face 4 (tri)
		{3, 0, 4},    // Face 5 (tri)
	},
}

var faceCellTypes = map[int]mesh.CellTypeCode{
	2: mesh.SEG2,
	3: mesh.TRI3,
	4: mesh.QUAD4,
}

type gambitControl struct {
	numnp, nelem, ngrps, nbsets, ndfcd int
}

// ReadGambitNeutral reads a Gambit neutral file (.neu). Element groups become
// cell groups. Boundary condition sets become node groups (ITYPE 0) or cell
// groups of virtual face cells (ITYPE 1).
func ReadGambitNeutral(filename string, catalog *mesh.Catalog, logger *utils.Logger) (*mesh.Mesh, error) {
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

	var ctl gambitControl
	var hasControl bool

	for d.scan() {
		line := d.trimmed()
		switch {
		case line == "" || line == "ENDOFSECTION":
			continue

		case strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM"):
			// Next line contains the actual values
			values, err := d.fields(5)
			if err != nil {
				return nil, fmt.Errorf("reading control info: %w", err)
			}
			ints := make([]int, 5)
			for i := range ints {
				if ints[i], err = d.atoi(values[i], "control value"); err != nil {
					return nil, err
				}
			}
			ctl = gambitControl{ints[0], ints[1], ints[2], ints[3], ints[4]}
			hasControl = true

		case strings.Contains(line, "NODAL COORDINATES"):
			if err := readGambitNodes(d, msh, ctl); err != nil {
				return nil, fmt.Errorf("reading nodal coordinates: %w", err)
			}

		case strings.Contains(line, "ELEMENTS/CELLS"):
			if err := readGambitCells(d, msh, ctl); err != nil {
				return nil, fmt.Errorf("reading elements: %w", err)
			}

		case strings.Contains(line, "ELEMENT GROUP"):
			if err := readGambitGroup(d, msh); err != nil {
				return nil, fmt.Errorf("reading element group: %w", err)
			}

		case strings.Contains(line, "BOUNDARY CONDITIONS"):
			if err := readGambitBoundary(d, msh, logger); err != nil {
				return nil, fmt.Errorf("reading boundary conditions: %w", err)
			}
		}
	}
	if err := d.err(); err != nil {
		return nil, err
	}
	if !hasControl {
		return nil, fmt.Errorf("missing CONTROL INFO section")
	}
	if msh.Nodes.Len() < ctl.numnp {
		return nil, fmt.Errorf("expected %d nodes, read %d", ctl.numnp, msh.Nodes.Len())
	}

	logger.Debugf("gambit: %s: %d nodes, %d cells, %d groups, %d boundary sets",
		filename, ctl.numnp, ctl.nelem, ctl.ngrps, ctl.nbsets)
	return msh, nil
}

func readGambitNodes(d *deckScanner, msh *mesh.Mesh, ctl gambitControl) error {
	ndim := ctl.ndfcd
	if ndim < 2 || ndim > 3 {
		ndim = 3
	}
	for i := 0; i < ctl.numnp; i++ {
		fields, err := d.fields(ndim + 1)
		if err != nil {
			return err
		}
		nodeID, err := d.atoi(fields[0], "node id")
		if err != nil {
			return err
		}
		var xyz [3]float64
		for j := 0; j < ndim; j++ {
			if xyz[j], err = d.atof(fields[1+j], "coordinate"); err != nil {
				return err
			}
		}
		if _, err := msh.AddNode(nodeID, xyz[0], xyz[1], xyz[2],
			mesh.GlobalCoordinateSystemID, mesh.GlobalCoordinateSystemID, mesh.AllDOFS); err != nil {
			return err
		}
	}
	return nil
}

func readGambitCells(d *deckScanner, msh *mesh.Mesh, ctl gambitControl) error {
	for i := 0; i < ctl.nelem; i++ {
		fields, err := d.fields(3)
		if err != nil {
			return err
		}
		var header [3]int
		for j, what := range []string{"element id", "element type", "node count"} {
			if header[j], err = d.atoi(fields[j], what); err != nil {
				return err
			}
		}
		elemID, shape, numNodes := header[0], header[1], header[2]
		// Connectivity of large elements continues on the next lines
		if fields, err = d.moreFields(fields, 3+numNodes); err != nil {
			return err
		}
		code, ok := gambitCellTypes[gambitType{shape, numNodes}]
		if !ok {
			return d.errorf("element %d: unsupported element type %d with %d nodes", elemID, shape, numNodes)
		}
		nodes := make([]int, numNodes)
		for j := range nodes {
			if nodes[j], err = d.atoi(fields[3+j], "node id"); err != nil {
				return err
			}
		}
		if _, err := msh.AddCell(elemID, code, nodes, mesh.GlobalCoordinateSystemID); err != nil {
			return err
		}
	}
	return nil
}

func readGambitGroup(d *deckScanner, msh *mesh.Mesh) error {
	// GROUP: id ELEMENTS: n MATERIAL: m NFLAGS: f
	if !d.scan() {
		return d.errorf("unexpected EOF reading group header")
	}
	var groupID, numElems, materialID, nflags int
	parts := strings.Fields(d.text)
	for i := 0; i < len(parts)-1; i++ {
		var (
			target *int
			err    error
		)
		switch parts[i] {
		case "GROUP:":
			target = &groupID
		case "ELEMENTS:":
			target = &numElems
		case "MATERIAL:":
			target = &materialID
		case "NFLAGS:":
			target = &nflags
		default:
			continue
		}
		if *target, err = d.atoi(parts[i+1], strings.TrimSuffix(parts[i], ":")); err != nil {
			return err
		}
	}

	// Read entity name
	if !d.scan() {
		return d.errorf("unexpected EOF reading group name")
	}
	name := d.trimmed()
	if nflags > 0 {
		if _, err := d.fields(nflags); err != nil {
			return err
		}
	}

	group, err := msh.CreateCellGroup(name, groupID, fmt.Sprintf("MATERIAL %d", materialID))
	if err != nil {
		return err
	}
	ids, err := d.fields(numElems)
	if err != nil {
		return err
	}
	for _, field := range ids[:numElems] {
		elemID, err := d.atoi(field, "element id")
		if err != nil {
			return err
		}
		group.AddDirect(elemID)
	}
	return nil
}

func readGambitBoundary(d *deckScanner, msh *mesh.Mesh, logger *utils.Logger) error {
	// NAME ITYPE NENTRY NVALUES IBCODE1 ...
	if !d.scan() {
		return d.errorf("unexpected EOF reading boundary condition header")
	}
	parts := strings.Fields(d.text)
	if len(parts) < 4 {
		return d.errorf("invalid boundary condition header %q", d.trimmed())
	}
	bcName := parts[0]
	itype, err := d.atoi(parts[1], "ITYPE")
	if err != nil {
		return err
	}
	nentry, err := d.atoi(parts[2], "NENTRY")
	if err != nil {
		return err
	}
	nvalues, err := d.atoi(parts[3], "NVALUES")
	if err != nil {
		return err
	}

	switch itype {
	case 0:
		group, err := msh.CreateNodeGroup(bcName, mesh.NoDeckID, "boundary condition")
		if err != nil {
			return err
		}
		for i := 0; i < nentry; i++ {
			fields, err := d.fields(1 + nvalues)
			if err != nil {
				return err
			}
			nodeID, err := d.atoi(fields[0], "node id")
			if err != nil {
				return err
			}
			group.AddDirect(nodeID)
		}

	case 1:
		group, err := msh.CreateCellGroup(bcName, mesh.NoDeckID, "boundary condition")
		if err != nil {
			return err
		}
		for i := 0; i < nentry; i++ {
			fields, err := d.fields(3 + nvalues)
			if err != nil {
				return err
			}
			elemID, err := d.atoi(fields[0], "element id")
			if err != nil {
				return err
			}
			faceID, err := d.atoi(fields[2], "face id")
			if err != nil {
				return err
			}
			faceNodes, err := gambitFaceNodes(msh, elemID, faceID)
			if err != nil {
				return d.errorf("%s: %v", bcName, err)
			}
			id, _, err := msh.AddVirtualCell(faceCellTypes[len(faceNodes)], faceNodes)
			if err != nil {
				return err
			}
			group.AddDirect(id)
		}
		logger.Debugf("gambit: boundary %s: %d face cells", bcName, nentry)

	default:
		return d.errorf("boundary condition %s: unknown ITYPE %d", bcName, itype)
	}
	return nil
}

// gambitFaceNodes returns the node ids of face faceID (1-based) of a cell
func gambitFaceNodes(msh *mesh.Mesh, elemID, faceID int) ([]int, error) {
	cell, err := msh.Cells.Find(elemID)
	if err != nil {
		return nil, err
	}
	faces, ok := gambitFaces[cell.Type.Code]
	if !ok {
		return nil, &mesh.UnsupportedTopologyError{CellID: elemID, Type: cell.Type.Name}
	}
	if faceID < 1 || faceID > len(faces) {
		return nil, fmt.Errorf("cell %d of type %s has no face %d", elemID, cell.Type.Name, faceID)
	}
	face := faces[faceID-1]
	nodes := make([]int, len(face))
	for i, local := range face {
		nodes[i] = cell.NodeIDs[local]
	}
	return nodes, nil
}
