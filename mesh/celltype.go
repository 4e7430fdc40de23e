package mesh

import (
	"fmt"
	"sort"
	"sync"
)

// CellTypeCode is the stable integer key of a catalog entry
type CellTypeCode int

const (
	POINT1  CellTypeCode = 1
	SEG2    CellTypeCode = 102
	SEG3    CellTypeCode = 103
	SEG4    CellTypeCode = 104
	SEG5    CellTypeCode = 105
	TRI3    CellTypeCode = 203
	QUAD4   CellTypeCode = 204
	TRI6    CellTypeCode = 206
	TRI7    CellTypeCode = 207
	QUAD8   CellTypeCode = 208
	QUAD9   CellTypeCode = 209
	TETRA4  CellTypeCode = 304
	PYRA5   CellTypeCode = 305
	PENTA6  CellTypeCode = 306
	HEXA8   CellTypeCode = 308
	TETRA10 CellTypeCode = 310
	HEXGP12 CellTypeCode = 312
	PYRA13  CellTypeCode = 313
	PENTA15 CellTypeCode = 315
	HEXA20  CellTypeCode = 320
	HEXA27  CellTypeCode = 327

	// POLY3..POLY20 stand in for polygons/polyhedra until a variable size
	// type is supported: POLYn has code PolyCodeBase+n
	PolyCodeBase CellTypeCode = 1000
	POLY3        CellTypeCode = PolyCodeBase + 3
	POLY20       CellTypeCode = PolyCodeBase + 20
)

// VariableNodeCount marks a cell type without a canonical node count
const VariableNodeCount = -1

// CellType is an immutable catalog entry
type CellType struct {
	Code      CellTypeCode
	NumNodes  int
	Dimension SpaceDimension
	Name      string
	// Faces holds, for solid types, each face as 1-based local node indices
	Faces [][]int
}

// SpecificSize is false for variable sized types
func (ct *CellType) SpecificSize() bool {
	return ct.NumNodes > 0
}

// IsSolid is true for 3D types
func (ct *CellType) IsSolid() bool {
	return ct.Dimension == Dimension3D
}

func (ct *CellType) String() string {
	return "CellType[" + ct.Name + "]"
}

func (ct *CellType) sameAs(other *CellType) bool {
	if ct.NumNodes != other.NumNodes || ct.Dimension != other.Dimension || ct.Name != other.Name {
		return false
	}
	if len(ct.Faces) != len(other.Faces) {
		return false
	}
	for i := range ct.Faces {
		if len(ct.Faces[i]) != len(other.Faces[i]) {
			return false
		}
		for j := range ct.Faces[i] {
			if ct.Faces[i][j] != other.Faces[i][j] {
				return false
			}
		}
	}
	return true
}

// Catalog is a registry of cell types keyed by code. It is populated once,
// then frozen and shared read-only by every consumer.
type Catalog struct {
	mu     sync.RWMutex
	byCode map[CellTypeCode]*CellType
	frozen bool
}

func NewCatalog() *Catalog {
	return &Catalog{byCode: make(map[CellTypeCode]*CellType)}
}

// Register adds a cell type. Registering an identical entry twice returns the
// existing one; a different entry under a known code is a conflict.
func (c *Catalog) Register(code CellTypeCode, numNodes int, dimension SpaceDimension,
	name string, faces ...[]int) (*CellType, error) {
	proposed := &CellType{
		Code:      code,
		NumNodes:  numNodes,
		Dimension: dimension,
		Name:      name,
		Faces:     copyFaces(faces),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.byCode[code]; ok {
		if existing.sameAs(proposed) {
			return existing, nil
		}
		return nil, &CatalogConflictError{
			Code:     code,
			Existing: existing.String(),
			Proposed: proposed.String(),
		}
	}
	if c.frozen {
		return nil, ErrCatalogFrozen
	}
	for _, face := range proposed.Faces {
		for _, local := range face {
			if local < 1 || (numNodes > 0 && local > numNodes) {
				return nil, fmt.Errorf("cell type %s: face index %d out of range [1,%d]",
					name, local, numNodes)
			}
		}
	}
	c.byCode[code] = proposed
	return proposed, nil
}

// Freeze forbids any further registration
func (c *Catalog) Freeze() {
	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()
}

func (c *Catalog) FindByCode(code CellTypeCode) (*CellType, error) {
	c.mu.RLock()
	ct, ok := c.byCode[code]
	c.mu.RUnlock()
	if !ok {
		return nil, &UnknownCellTypeError{Code: code}
	}
	return ct, nil
}

// MustFindByCode is FindByCode for codes known to be in the standard catalog
func (c *Catalog) MustFindByCode(code CellTypeCode) *CellType {
	ct, err := c.FindByCode(code)
	if err != nil {
		panic(err)
	}
	return ct
}

// FindByNodeCount returns the first type, in code order, of the given dimension
// and node count
func (c *Catalog) FindByNodeCount(dimension SpaceDimension, numNodes int) (*CellType, error) {
	for _, ct := range c.Types() {
		if ct.Dimension == dimension && ct.NumNodes == numNodes {
			return ct, nil
		}
	}
	return nil, fmt.Errorf("no %s cell type with %d nodes", dimension, numNodes)
}

// Types returns all entries in ascending code order
func (c *Catalog) Types() []*CellType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	types := make([]*CellType, 0, len(c.byCode))
	for _, ct := range c.byCode {
		types = append(types, ct)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Code < types[j].Code })
	return types
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byCode)
}

func copyFaces(faces [][]int) [][]int {
	if len(faces) == 0 {
		return nil
	}
	out := make([][]int, len(faces))
	for i, f := range faces {
		out[i] = append([]int(nil), f...)
	}
	return out
}

// Face tables, local numbering follows the MED connectivity conventions
var (
	hexa8Faces = [][]int{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{3, 7, 8, 4},
		{1, 4, 8, 5},
	}
	tetra4Faces = [][]int{
		{1, 2, 3},
		{1, 4, 2},
		{1, 4, 3},
		{2, 3, 4},
	}
	pyra5Faces = [][]int{
		{1, 2, 3, 4},
		{1, 5, 2},
		{2, 5, 3},
		{3, 5, 4},
		{4, 5, 1},
	}
	penta6Faces = [][]int{
		{1, 2, 3},
		{4, 6, 5},
		{1, 4, 5, 2},
		{2, 5, 6, 3},
		{1, 3, 6, 4},
	}
)

// NewStandardCatalog builds and freezes the catalog of standard element types
func NewStandardCatalog() *Catalog {
	c := NewCatalog()
	mustRegister := func(code CellTypeCode, n int, dim SpaceDimension, name string, faces ...[]int) {
		if _, err := c.Register(code, n, dim, name, faces...); err != nil {
			panic(err)
		}
	}
	mustRegister(POINT1, 1, Dimension0D, "POINT1")
	mustRegister(SEG2, 2, Dimension1D, "SEG2")
	mustRegister(SEG3, 3, Dimension1D, "SEG3")
	mustRegister(SEG4, 4, Dimension1D, "SEG4")
	mustRegister(SEG5, 5, Dimension1D, "SEG5")
	mustRegister(TRI3, 3, Dimension2D, "TRI3")
	mustRegister(QUAD4, 4, Dimension2D, "QUAD4")
	mustRegister(TRI6, 6, Dimension2D, "TRI6")
	mustRegister(TRI7, 7, Dimension2D, "TRI7")
	mustRegister(QUAD8, 8, Dimension2D, "QUAD8")
	mustRegister(QUAD9, 9, Dimension2D, "QUAD9")
	mustRegister(TETRA4, 4, Dimension3D, "TETRA4", tetra4Faces...)
	mustRegister(PYRA5, 5, Dimension3D, "PYRA5", pyra5Faces...)
	mustRegister(PENTA6, 6, Dimension3D, "PENTA6", penta6Faces...)
	mustRegister(HEXA8, 8, Dimension3D, "HEXA8", hexa8Faces...)
	mustRegister(TETRA10, 10, Dimension3D, "TETRA10")
	mustRegister(HEXGP12, 12, Dimension3D, "HEXGP12")
	mustRegister(PYRA13, 13, Dimension3D, "PYRA13")
	mustRegister(PENTA15, 15, Dimension3D, "PENTA15")
	mustRegister(HEXA20, 20, Dimension3D, "HEXA20")
	mustRegister(HEXA27, 27, Dimension3D, "HEXA27")
	for n := 3; n <= 20; n++ {
		mustRegister(PolyCodeBase+CellTypeCode(n), n, Dimension3D, fmt.Sprintf("POLY%d", n))
	}
	c.Freeze()
	return c
}
