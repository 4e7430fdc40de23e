package mesh

import "strings"

// UnresolvedCoordinate is stored in Node.Global until global coordinates are computed
const UnresolvedCoordinate = -2.0e+300

// DOFS is a set of nodal degrees of freedom
type DOFS uint8

const (
	DX DOFS = 1 << iota
	DY
	DZ
	RX
	RY
	RZ

	NoDOFS           DOFS = 0
	TranslationDOFS       = DX | DY | DZ
	RotationDOFS          = RX | RY | RZ
	AllDOFS               = TranslationDOFS | RotationDOFS
)

func (d DOFS) Contains(other DOFS) bool {
	return d&other == other
}

func (d DOFS) String() string {
	if d == NoDOFS {
		return "[]"
	}
	names := [...]string{"DX", "DY", "DZ", "RX", "RY", "RZ"}
	var parts []string
	for i, name := range names {
		if d&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Node is a mesh vertex. Local coordinates are expressed in the system at
// PositionCS; Global holds the resolved global coordinates.
type Node struct {
	ID       int
	Position int
	Local    [3]float64
	Global   [3]float64
	// PositionCS and DisplacementCS are coordinate system positions in the owning mesh
	PositionCS     int
	DisplacementCS int
	DOFs           DOFS
	defined        bool
}

// Defined is false for a node referenced by a cell or group but never given coordinates
func (n *Node) Defined() bool {
	return n.defined
}

func (n *Node) GlobalResolved() bool {
	return n.Global[0] != UnresolvedCoordinate
}

// NodeStore holds nodes densely by position
type NodeStore struct {
	index *IDIndex
	nodes []Node
}

func NewNodeStore() *NodeStore {
	return &NodeStore{index: NewIDIndex(NodeEntity)}
}

// FindOrReserve returns the position of id, reserving an undefined slot when needed
func (s *NodeStore) FindOrReserve(id int) int {
	pos, created := s.index.Register(id)
	if created {
		s.nodes = append(s.nodes, newNode(id, pos))
	}
	return pos
}

// Add defines node id. A reserved slot is filled in place; an id already defined
// is a DuplicateIDError.
func (s *NodeStore) Add(id int, local [3]float64, positionCS, displacementCS int, dofs DOFS) (int, error) {
	pos := s.FindOrReserve(id)
	n := &s.nodes[pos]
	if n.defined {
		return pos, &DuplicateIDError{Kind: NodeEntity, ID: id}
	}
	n.Local = local
	n.PositionCS = positionCS
	n.DisplacementCS = displacementCS
	n.DOFs = dofs
	n.defined = true
	return pos, nil
}

// AddVirtual defines an internal node numbered from the reserved id range
func (s *NodeStore) AddVirtual(local [3]float64) (id, position int) {
	id, position = s.index.ReserveVirtual()
	n := newNode(id, position)
	n.Local = local
	n.DOFs = AllDOFS
	n.defined = true
	s.nodes = append(s.nodes, n)
	return
}

func (s *NodeStore) FindPosition(id int) (int, error) {
	return s.index.FindPosition(id)
}

func (s *NodeStore) FindID(position int) (int, error) {
	return s.index.FindID(position)
}

// At returns the node at position
func (s *NodeStore) At(position int) (*Node, error) {
	if position < 0 || position >= len(s.nodes) {
		return nil, &UnknownEntityError{Kind: NodeEntity, ID: position, ByPosition: true}
	}
	return &s.nodes[position], nil
}

// Find returns the node with the given id
func (s *NodeStore) Find(id int) (*Node, error) {
	pos, err := s.index.FindPosition(id)
	if err != nil {
		return nil, err
	}
	return &s.nodes[pos], nil
}

func (s *NodeStore) Len() int {
	return len(s.nodes)
}

// Undefined lists the ids reserved but never defined, in position order
func (s *NodeStore) Undefined() (ids []int) {
	for i := range s.nodes {
		if !s.nodes[i].defined {
			ids = append(ids, s.nodes[i].ID)
		}
	}
	return
}

func newNode(id, position int) Node {
	return Node{
		ID:             id,
		Position:       position,
		Global:         [3]float64{UnresolvedCoordinate, UnresolvedCoordinate, UnresolvedCoordinate},
		PositionCS:     GlobalCoordinateSystemID,
		DisplacementCS: GlobalCoordinateSystemID,
		DOFs:           AllDOFS,
	}
}
