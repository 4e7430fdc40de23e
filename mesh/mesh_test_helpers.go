package mesh

import "sort"

// TestMeshes provides a collection of standard test meshes that can be used
// across the mesh, families, readers and writers tests
type TestMeshes struct {
	// Node definitions
	CubeNodes  NodeSet
	TetraNodes NodeSet

	// Element definitions
	SingleTet     ElementSet
	SingleHex     ElementSet
	SinglePrism   ElementSet
	SinglePyramid ElementSet

	// Complete mesh definitions
	TwoTetMesh  CompleteMesh
	TwoHexMesh  CompleteMesh
	CubeMesh    CompleteMesh
	QuadPlate   CompleteMesh
	GroupedLine CompleteMesh
}

// NodeSet represents a set of nodes with their coordinates
type NodeSet struct {
	Nodes     [][3]float64   // Coordinates [N][3]
	NodeMap   map[string]int // Logical name -> array index
	NodeIDMap map[string]int // Logical name -> node ID (1-based)
}

// ElementSet represents a set of cells of one type with connectivity
type ElementSet struct {
	Type     CellTypeCode
	Elements [][]string // Connectivity using logical node names
}

// GroupSet is a named group listing logical node names or 1-based cell ids
type GroupSet struct {
	Name    string
	Nodes   []string
	CellIDs []int
}

// CompleteMesh represents a complete mesh with nodes, cells and groups
type CompleteMesh struct {
	Nodes      NodeSet
	Elements   []ElementSet
	NodeGroups []GroupSet
	CellGroups []GroupSet
	Dimension  SpaceDimension
}

// GetStandardTestMeshes returns a set of standard test meshes
func GetStandardTestMeshes() *TestMeshes {
	tm := &TestMeshes{}

	tm.CubeNodes = createCubeNodes()
	tm.TetraNodes = createTetraNodes()

	tm.SingleTet = ElementSet{Type: TETRA4, Elements: [][]string{{"v0", "v1", "v2", "v3"}}}
	tm.SingleHex = ElementSet{Type: HEXA8,
		Elements: [][]string{{"origin", "x", "xy", "y", "z", "xz", "xyz", "yz"}}}
	tm.SinglePrism = ElementSet{Type: PENTA6,
		Elements: [][]string{{"origin", "x", "y", "z", "xz", "yz"}}}
	tm.SinglePyramid = ElementSet{Type: PYRA5,
		Elements: [][]string{{"origin", "x", "xy", "y", "center_top"}}}

	tm.TwoTetMesh = createTwoTetMesh()
	tm.TwoHexMesh = createTwoHexMesh()
	tm.CubeMesh = createCubeMesh()
	tm.QuadPlate = createQuadPlate()
	tm.GroupedLine = createGroupedLine()

	return tm
}

func newNodeSet(nodes [][3]float64, names []string) NodeSet {
	ns := NodeSet{
		Nodes:     nodes,
		NodeMap:   make(map[string]int),
		NodeIDMap: make(map[string]int),
	}
	// Node IDs are 1-based
	for idx, name := range names {
		ns.NodeMap[name] = idx
		ns.NodeIDMap[name] = idx + 1
	}
	return ns
}

func createCubeNodes() NodeSet {
	return newNodeSet([][3]float64{
		{0, 0, 0},       // origin
		{1, 0, 0},       // x
		{1, 1, 0},       // xy
		{0, 1, 0},       // y
		{0, 0, 1},       // z
		{1, 0, 1},       // xz
		{1, 1, 1},       // xyz
		{0, 1, 1},       // yz
		{0.5, 0.5, 1},   // center_top
		{0.5, 0.5, 0.5}, // center
	}, []string{"origin", "x", "xy", "y", "z", "xz", "xyz", "yz", "center_top", "center"})
}

func createTetraNodes() NodeSet {
	// Standard tetrahedron with vertices at:
	// (0,0,0), (1,0,0), (0,1,0), (0,0,1)
	return newNodeSet([][3]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	}, []string{"v0", "v1", "v2", "v3", "v4"})
}

func createTwoTetMesh() CompleteMesh {
	// Two tetrahedra sharing the face v1 v2 v3
	return CompleteMesh{
		Nodes: createTetraNodes(),
		Elements: []ElementSet{{
			Type: TETRA4,
			Elements: [][]string{
				{"v0", "v1", "v2", "v3"},
				{"v1", "v2", "v3", "v4"},
			},
		}},
		CellGroups: []GroupSet{{Name: "fluid", CellIDs: []int{1, 2}}},
		Dimension:  Dimension3D,
	}
}

func createTwoHexMesh() CompleteMesh {
	// Two unit hexahedra stacked in x, sharing the face at x = 1
	nodes := newNodeSet([][3]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		{2, 0, 0}, {2, 1, 0}, {2, 0, 1}, {2, 1, 1},
	}, []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "b1", "b2", "b5", "b6"})
	return CompleteMesh{
		Nodes: nodes,
		Elements: []ElementSet{{
			Type: HEXA8,
			Elements: [][]string{
				{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7"},
				{"a1", "b1", "b2", "a2", "a5", "b5", "b6", "a6"},
			},
		}},
		NodeGroups: []GroupSet{
			{Name: "inlet", Nodes: []string{"a0", "a3", "a4", "a7"}},
			{Name: "bottom", Nodes: []string{"a0", "a1", "a2", "a3", "b1", "b2"}},
		},
		CellGroups: []GroupSet{
			{Name: "left", CellIDs: []int{1}},
			{Name: "all", CellIDs: []int{1, 2}},
		},
		Dimension: Dimension3D,
	}
}

func createCubeMesh() CompleteMesh {
	// A simple cube meshed with 6 tetrahedra
	return CompleteMesh{
		Nodes: createCubeNodes(),
		Elements: []ElementSet{{
			Type: TETRA4,
			Elements: [][]string{
				{"origin", "x", "y", "center"},
				{"x", "xy", "y", "center"},
				{"origin", "y", "z", "center"},
				{"y", "yz", "z", "center"},
				{"x", "center", "xz", "xyz"},
				{"center", "xyz", "yz", "y"},
			},
		}},
		Dimension: Dimension3D,
	}
}

func createQuadPlate() CompleteMesh {
	// Two quads and a triangle in the z = 0 plane
	nodes := newNodeSet([][3]float64{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
		{0, 1, 0}, {1, 1, 0}, {2, 1, 0},
		{3, 0, 0},
	}, []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6"})
	return CompleteMesh{
		Nodes: nodes,
		Elements: []ElementSet{
			{Type: QUAD4, Elements: [][]string{
				{"p0", "p1", "p4", "p3"},
				{"p1", "p2", "p5", "p4"},
			}},
			{Type: TRI3, Elements: [][]string{{"p2", "p6", "p5"}}},
		},
		CellGroups: []GroupSet{
			{Name: "plate", CellIDs: []int{1, 2}},
			{Name: "tip", CellIDs: []int{3}},
		},
		Dimension: Dimension2D,
	}
}

func createGroupedLine() CompleteMesh {
	// Six nodes on a line with two overlapping node groups
	nodes := newNodeSet([][3]float64{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0}, {5, 0, 0},
	}, []string{"n1", "n2", "n3", "n4", "n5", "n6"})
	return CompleteMesh{
		Nodes: nodes,
		Elements: []ElementSet{{Type: SEG2, Elements: [][]string{
			{"n1", "n2"}, {"n2", "n3"}, {"n3", "n4"}, {"n4", "n5"}, {"n5", "n6"},
		}}},
		NodeGroups: []GroupSet{
			{Name: "A", Nodes: []string{"n1", "n2", "n3"}},
			{Name: "B", Nodes: []string{"n2", "n3", "n4"}},
		},
		Dimension: Dimension1D,
	}
}

// Conversion helpers

// ConvertToMesh builds a Mesh from a CompleteMesh. Node ids are 1-based in
// array order; cell ids are 1-based in element set order.
func (cm *CompleteMesh) ConvertToMesh(catalog *Catalog) (*Mesh, error) {
	m := NewMesh(catalog, nil)

	for idx, coords := range cm.Nodes.Nodes {
		if _, err := m.AddNode(idx+1, coords[0], coords[1], coords[2],
			GlobalCoordinateSystemID, GlobalCoordinateSystemID, AllDOFS); err != nil {
			return nil, err
		}
	}

	cellID := 1
	for _, elemSet := range cm.Elements {
		for _, elemNodes := range elemSet.Elements {
			ids := make([]int, len(elemNodes))
			for i, name := range elemNodes {
				ids[i] = cm.Nodes.NodeIDMap[name]
			}
			if _, err := m.AddCell(cellID, elemSet.Type, ids, GlobalCoordinateSystemID); err != nil {
				return nil, err
			}
			cellID++
		}
	}

	for _, gs := range cm.NodeGroups {
		g, err := m.CreateNodeGroup(gs.Name, NoDeckID, "")
		if err != nil {
			return nil, err
		}
		for _, name := range gs.Nodes {
			g.AddDirect(cm.Nodes.NodeIDMap[name])
		}
	}
	for _, gs := range cm.CellGroups {
		g, err := m.CreateCellGroup(gs.Name, NoDeckID, "")
		if err != nil {
			return nil, err
		}
		g.AddDirect(gs.CellIDs...)
	}
	return m, nil
}

// NodeIDs maps logical names to node ids, ascending
func (ns *NodeSet) NodeIDs(names ...string) []int {
	ids := make([]int, len(names))
	for i, name := range names {
		ids[i] = ns.NodeIDMap[name]
	}
	sort.Ints(ids)
	return ids
}
