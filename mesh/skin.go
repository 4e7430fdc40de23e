package mesh

import (
	"fmt"
	"sort"
)

// SkinFace is a solid cell face not shared with any other solid cell
type SkinFace struct {
	CellID    int
	LocalFace int // index into the cell type face table
	NodeIDs   []int
}

// SkinFaces returns the boundary faces of every solid cell with a face table,
// in cell position then face table order. Solids without a face table are
// skipped.
func (m *Mesh) SkinFaces() []SkinFace {
	type faceRef struct {
		count int
		face  SkinFace
	}
	var (
		faceMap = make(map[string]*faceRef)
		order   []string
		skipped = make(map[CellTypeCode]int)
	)
	for pos := 0; pos < m.Cells.Len(); pos++ {
		cell, _ := m.Cells.At(pos)
		if !cell.Type.IsSolid() {
			continue
		}
		if len(cell.Type.Faces) == 0 {
			skipped[cell.Type.Code]++
			continue
		}
		for localFace, face := range cell.Type.Faces {
			sorted := make([]int, len(face))
			for i, local := range face {
				sorted[i] = cell.NodePositions[local-1]
			}
			sort.Ints(sorted)
			key := fmt.Sprintf("%v", sorted)
			if ref, exists := faceMap[key]; exists {
				ref.count++
				continue
			}
			faceMap[key] = &faceRef{
				count: 1,
				face: SkinFace{
					CellID:    cell.ID,
					LocalFace: localFace,
					NodeIDs:   faceNodeIDs(cell, face),
				},
			}
			order = append(order, key)
		}
	}
	for code, n := range skipped {
		m.log.Debugf("skin: %d cells of type %d have no face table, skipped", n, code)
	}

	var skin []SkinFace
	for _, key := range order {
		if ref := faceMap[key]; ref.count == 1 {
			skin = append(skin, ref.face)
		}
	}
	return skin
}

// CreateSkin builds a virtual TRI3 or QUAD4 cell on each skin face and collects
// them in a new cell group
func (m *Mesh) CreateSkin(groupName string) (*Group, error) {
	if m.sealed {
		return nil, ErrSealed
	}
	if _, err := m.FindGroup(CellGroupKind, groupName); err == nil {
		return nil, &DuplicateGroupError{Kind: CellGroupKind, Name: groupName}
	}
	faces := m.SkinFaces()
	g, err := m.CreateCellGroup(groupName, NoDeckID, "skin")
	if err != nil {
		return nil, err
	}
	for _, f := range faces {
		var code CellTypeCode
		switch len(f.NodeIDs) {
		case 3:
			code = TRI3
		case 4:
			code = QUAD4
		default:
			return nil, &UnsupportedTopologyError{CellID: f.CellID, Type: fmt.Sprintf("%d node face", len(f.NodeIDs))}
		}
		id, _, err := m.AddVirtualCell(code, f.NodeIDs)
		if err != nil {
			return nil, err
		}
		g.AddDirect(id)
	}
	m.log.Infof("skin: %d faces added to cell group %q", len(faces), groupName)
	return g, nil
}
