package mesh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/notargets/femxlate/utils"
)

// Mesh owns the node and cell stores, the coordinate systems and the named
// groups of one model. It is built by a reader, then sealed before families are
// computed and the model is written.
type Mesh struct {
	Catalog *Catalog
	Nodes   *NodeStore
	Cells   *CellStore

	coordinateSystems []*CoordinateSystem // position 0 is the global frame
	groups            [2]map[string]*Group
	groupOrder        [2][]string
	sealed            bool
	log               *utils.Logger
}

// NewMesh creates an empty mesh drawing cell types from catalog
func NewMesh(catalog *Catalog, logger *utils.Logger) *Mesh {
	if logger == nil {
		logger = utils.NewDiscardLogger()
	}
	return &Mesh{
		Catalog:           catalog,
		Nodes:             NewNodeStore(),
		Cells:             NewCellStore(),
		coordinateSystems: []*CoordinateSystem{nil},
		groups:            [2]map[string]*Group{make(map[string]*Group), make(map[string]*Group)},
		log:               logger,
	}
}

// Seal makes the mesh read-only. Stores may then be shared between goroutines.
func (m *Mesh) Seal() {
	m.sealed = true
}

func (m *Mesh) Sealed() bool {
	return m.sealed
}

func (m *Mesh) AddNode(id int, x, y, z float64, positionCS, displacementCS int, dofs DOFS) (int, error) {
	if m.sealed {
		return -1, ErrSealed
	}
	return m.Nodes.Add(id, [3]float64{x, y, z}, positionCS, displacementCS, dofs)
}

func (m *Mesh) AddVirtualNode(x, y, z float64) (id, position int, err error) {
	if m.sealed {
		return 0, -1, ErrSealed
	}
	id, position = m.Nodes.AddVirtual([3]float64{x, y, z})
	return id, position, nil
}

// AddCell defines a cell of the catalog type code
func (m *Mesh) AddCell(id int, code CellTypeCode, nodeIDs []int, orientationCS int) (int, error) {
	if m.sealed {
		return -1, ErrSealed
	}
	ct, err := m.Catalog.FindByCode(code)
	if err != nil {
		return -1, err
	}
	return m.Cells.Add(id, ct, nodeIDs, m.Nodes, orientationCS)
}

func (m *Mesh) AddVirtualCell(code CellTypeCode, nodeIDs []int) (id, position int, err error) {
	if m.sealed {
		return 0, -1, ErrSealed
	}
	ct, err := m.Catalog.FindByCode(code)
	if err != nil {
		return 0, -1, err
	}
	return m.Cells.AddVirtual(ct, nodeIDs, m.Nodes)
}

// AddCoordinateSystem registers cs and returns its position
func (m *Mesh) AddCoordinateSystem(cs *CoordinateSystem) (int, error) {
	if m.sealed {
		return -1, ErrSealed
	}
	m.coordinateSystems = append(m.coordinateSystems, cs)
	return len(m.coordinateSystems) - 1, nil
}

// CoordinateSystemAt returns nil for the global frame or an unknown position
func (m *Mesh) CoordinateSystemAt(position int) *CoordinateSystem {
	if position <= GlobalCoordinateSystemID || position >= len(m.coordinateSystems) {
		return nil
	}
	return m.coordinateSystems[position]
}

// ResolveGlobalCoordinates fills Node.Global for every defined node. A node
// whose coordinate system is missing is an error in strict mode, otherwise its
// local coordinates are used as global ones.
func (m *Mesh) ResolveGlobalCoordinates(strict bool) error {
	for pos := 0; pos < m.Nodes.Len(); pos++ {
		n, _ := m.Nodes.At(pos)
		if !n.defined {
			continue
		}
		if n.PositionCS == GlobalCoordinateSystemID {
			n.Global = n.Local
			continue
		}
		cs := m.CoordinateSystemAt(n.PositionCS)
		if cs == nil {
			if strict {
				return &UnknownCoordinateSystemError{NodeID: n.ID, Position: n.PositionCS}
			}
			m.log.Warnf("coordinate system of position %d for node %d not found, global coordinate system used instead",
				n.PositionCS, n.ID)
			n.Global = n.Local
			continue
		}
		n.Global = cs.PositionToGlobal(n.Local)
	}
	return nil
}

func (m *Mesh) CreateNodeGroup(name string, id int, comment string) (*Group, error) {
	return m.createGroup(NodeGroupKind, name, id, comment)
}

func (m *Mesh) CreateCellGroup(name string, id int, comment string) (*Group, error) {
	return m.createGroup(CellGroupKind, name, id, comment)
}

func (m *Mesh) createGroup(kind GroupKind, name string, id int, comment string) (*Group, error) {
	if m.sealed {
		return nil, ErrSealed
	}
	if _, ok := m.groups[kind][name]; ok {
		return nil, &DuplicateGroupError{Kind: kind, Name: name}
	}
	g := newGroup(kind, name, id, comment)
	m.groups[kind][name] = g
	m.groupOrder[kind] = append(m.groupOrder[kind], name)
	m.log.Tracef("created %s", g)
	return g, nil
}

// FindGroup implements GroupResolver
func (m *Mesh) FindGroup(kind GroupKind, name string) (*Group, error) {
	g, ok := m.groups[kind][name]
	if !ok {
		return nil, &UnknownGroupError{Kind: kind, Name: name}
	}
	return g, nil
}

// NodeGroups returns node groups in creation order
func (m *Mesh) NodeGroups() []*Group {
	return m.orderedGroups(NodeGroupKind)
}

// CellGroups returns cell groups in creation order
func (m *Mesh) CellGroups() []*Group {
	return m.orderedGroups(CellGroupKind)
}

// GroupsByName resolves names in the given order
func (m *Mesh) GroupsByName(kind GroupKind, names []string) ([]*Group, error) {
	groups := make([]*Group, 0, len(names))
	for _, name := range names {
		g, err := m.FindGroup(kind, name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (m *Mesh) orderedGroups(kind GroupKind) []*Group {
	groups := make([]*Group, len(m.groupOrder[kind]))
	for i, name := range m.groupOrder[kind] {
		groups[i] = m.groups[kind][name]
	}
	return groups
}

// NodePositions returns the ascending node positions touched by a container:
// node members directly, cell members through their connectivity
func (m *Mesh) NodePositions(c *EntityContainer) ([]int, error) {
	ids, err := c.Flatten(m, true)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]struct{})
	for _, id := range ids {
		switch c.Kind {
		case NodeGroupKind:
			pos, err := m.Nodes.FindPosition(id)
			if err != nil {
				return nil, err
			}
			seen[pos] = struct{}{}
		case CellGroupKind:
			cell, err := m.Cells.Find(id)
			if err != nil {
				return nil, err
			}
			for _, pos := range cell.NodePositions {
				seen[pos] = struct{}{}
			}
		}
	}
	positions := make([]int, 0, len(seen))
	for pos := range seen {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions, nil
}

// MemberPositions returns the ascending store positions of a container's
// flattened members
func (m *Mesh) MemberPositions(c *EntityContainer) ([]int, error) {
	ids, err := c.Flatten(m, true)
	if err != nil {
		return nil, err
	}
	positions := make([]int, len(ids))
	for i, id := range ids {
		var pos int
		if c.Kind == CellGroupKind {
			pos, err = m.Cells.FindPosition(id)
		} else {
			pos, err = m.Nodes.FindPosition(id)
		}
		if err != nil {
			return nil, err
		}
		positions[i] = pos
	}
	sort.Ints(positions)
	return positions, nil
}

// ContainsCellType reports whether a cell container holds a cell of type code
func (m *Mesh) ContainsCellType(c *EntityContainer, code CellTypeCode) (bool, error) {
	if c.Kind != CellGroupKind {
		return false, fmt.Errorf("%s cannot hold cells", c.Kind)
	}
	ids, err := c.Flatten(m, true)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		cell, err := m.Cells.Find(id)
		if err != nil {
			return false, err
		}
		if cell.Type.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// Validate reports every node referenced but never defined and every group
// member or reference that does not resolve
func (m *Mesh) Validate() error {
	var errs []error
	for _, id := range m.Nodes.Undefined() {
		errs = append(errs, fmt.Errorf("node %d is referenced but never defined: %w",
			id, &UnknownEntityError{Kind: NodeEntity, ID: id}))
	}
	for _, kind := range []GroupKind{NodeGroupKind, CellGroupKind} {
		for _, g := range m.orderedGroups(kind) {
			if _, err := m.MemberPositions(g.EntityContainer); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", g, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Statistics logs the mesh content, in the manner of a partition report
func (m *Mesh) Statistics() {
	m.log.Infof("Mesh Statistics:")
	m.log.Infof("  Nodes: %d", m.Nodes.Len())
	m.log.Infof("  Cells: %d", m.Cells.Len())
	for _, code := range m.Cells.Types() {
		ct, _ := m.Catalog.FindByCode(code)
		m.log.Infof("    %s: %d", ct.Name, m.Cells.CountByType(code))
	}
	m.log.Infof("  Node groups: %d", len(m.groupOrder[NodeGroupKind]))
	m.log.Infof("  Cell groups: %d", len(m.groupOrder[CellGroupKind]))
}
