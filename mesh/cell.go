package mesh

import "sort"

// Cell is a mesh element. NodeIDs order defines the local node numbering and is
// never re-sorted; NodePositions is parallel to NodeIDs.
type Cell struct {
	ID            int
	Position      int
	Type          *CellType
	NodeIDs       []int
	NodePositions []int
	Virtual       bool
	// OrientationCS is a coordinate system position, GlobalCoordinateSystemID when unset
	OrientationCS int
	// TypePosition is the dense index of the cell among cells of the same type
	TypePosition int
}

func (c *Cell) HasOrientation() bool {
	return c.OrientationCS != GlobalCoordinateSystemID
}

// LocalIndex returns the 1-based connectivity index of nodeID
func (c *Cell) LocalIndex(nodeID int) (int, error) {
	for i, id := range c.NodeIDs {
		if id == nodeID {
			return i + 1, nil
		}
	}
	return 0, &NodeNotInCellError{CellID: c.ID, NodeID: nodeID}
}

// CellStore holds cells densely by position, with a secondary per-type numbering
type CellStore struct {
	index           *IDIndex
	cells           []Cell
	positionsByType map[CellTypeCode][]int
}

func NewCellStore() *CellStore {
	return &CellStore{
		index:           NewIDIndex(CellEntity),
		positionsByType: make(map[CellTypeCode][]int),
	}
}

// Add defines cell id with the given connectivity. Node ids not yet known to
// nodes are reserved there.
func (s *CellStore) Add(id int, ct *CellType, nodeIDs []int, nodes *NodeStore, orientationCS int) (int, error) {
	if s.index.Contains(id) {
		return -1, &DuplicateIDError{Kind: CellEntity, ID: id}
	}
	if ct.SpecificSize() && len(nodeIDs) != ct.NumNodes {
		return -1, &ConnectivityError{CellID: id, Type: ct.Name, Expected: ct.NumNodes, Actual: len(nodeIDs)}
	}
	pos, _ := s.index.Register(id)
	s.append(id, pos, ct, nodeIDs, nodes, false, orientationCS)
	return pos, nil
}

// AddVirtual defines an internal cell numbered from the reserved id range
func (s *CellStore) AddVirtual(ct *CellType, nodeIDs []int, nodes *NodeStore) (id, position int, err error) {
	if ct.SpecificSize() && len(nodeIDs) != ct.NumNodes {
		return 0, -1, &ConnectivityError{Type: ct.Name, Expected: ct.NumNodes, Actual: len(nodeIDs)}
	}
	id, position = s.index.ReserveVirtual()
	s.append(id, position, ct, nodeIDs, nodes, true, GlobalCoordinateSystemID)
	return id, position, nil
}

func (s *CellStore) append(id, pos int, ct *CellType, nodeIDs []int, nodes *NodeStore,
	virtual bool, orientationCS int) {
	ids := append([]int(nil), nodeIDs...)
	positions := make([]int, len(ids))
	for i, nid := range ids {
		positions[i] = nodes.FindOrReserve(nid)
	}
	typePositions := s.positionsByType[ct.Code]
	s.cells = append(s.cells, Cell{
		ID:            id,
		Position:      pos,
		Type:          ct,
		NodeIDs:       ids,
		NodePositions: positions,
		Virtual:       virtual,
		OrientationCS: orientationCS,
		TypePosition:  len(typePositions),
	})
	s.positionsByType[ct.Code] = append(typePositions, pos)
}

func (s *CellStore) FindPosition(id int) (int, error) {
	return s.index.FindPosition(id)
}

func (s *CellStore) FindID(position int) (int, error) {
	return s.index.FindID(position)
}

func (s *CellStore) At(position int) (*Cell, error) {
	if position < 0 || position >= len(s.cells) {
		return nil, &UnknownEntityError{Kind: CellEntity, ID: position, ByPosition: true}
	}
	return &s.cells[position], nil
}

func (s *CellStore) Find(id int) (*Cell, error) {
	pos, err := s.index.FindPosition(id)
	if err != nil {
		return nil, err
	}
	return &s.cells[pos], nil
}

func (s *CellStore) Len() int {
	return len(s.cells)
}

// Types returns the codes of the cell types present, ascending
func (s *CellStore) Types() []CellTypeCode {
	codes := make([]CellTypeCode, 0, len(s.positionsByType))
	for code := range s.positionsByType {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// PositionsByType returns the cell positions of a type, indexed by TypePosition
func (s *CellStore) PositionsByType(code CellTypeCode) []int {
	return s.positionsByType[code]
}

func (s *CellStore) CountByType(code CellTypeCode) int {
	return len(s.positionsByType[code])
}
