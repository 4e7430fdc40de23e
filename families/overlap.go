package families

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/notargets/femxlate/mesh"
)

// Overlap holds the number of entities shared by every pair of groups. The
// diagonal holds the group sizes.
type Overlap struct {
	Groups []*mesh.Group
	Counts *sparse.CSR
}

// GroupPair is a pair of groups with at least one common member
type GroupPair struct {
	A, B   *mesh.Group
	Shared int
}

// OverlapMatrix builds the group x entity incidence matrix M and returns M.Mt
func OverlapMatrix(m *mesh.Mesh, groups []*mesh.Group) (*Overlap, error) {
	if len(groups) == 0 {
		return &Overlap{}, nil
	}
	kind := groups[0].Kind
	numEntities := m.Nodes.Len()
	if kind == mesh.CellGroupKind {
		numEntities = m.Cells.Len()
	}
	if numEntities == 0 {
		return nil, fmt.Errorf("no %ss to build group overlaps from", kind.EntityKind())
	}

	SpGToEDOK := sparse.NewDOK(len(groups), numEntities)
	for row, g := range groups {
		if g.Kind != kind {
			return nil, fmt.Errorf("cannot mix %s with %s groups", g, kind)
		}
		positions, err := m.MemberPositions(g.EntityContainer)
		if err != nil {
			return nil, err
		}
		for _, pos := range positions {
			SpGToEDOK.Set(row, pos, 1)
		}
	}
	SpGToE := SpGToEDOK.ToCSR()
	SpGToG := sparse.NewCSR(len(groups), len(groups), nil, nil, nil)
	SpGToG.Mul(SpGToE, SpGToE.T())
	return &Overlap{Groups: groups, Counts: SpGToG}, nil
}

// Count returns the number of entities in both group i and group j
func (o *Overlap) Count(i, j int) int {
	return int(o.Counts.At(i, j))
}

// Pairs lists the overlapping group pairs, i < j, in group order
func (o *Overlap) Pairs() []GroupPair {
	if o.Counts == nil {
		return nil
	}
	var pairs []GroupPair
	o.Counts.DoNonZero(func(i, j int, v float64) {
		if i < j && v != 0 {
			pairs = append(pairs, GroupPair{A: o.Groups[i], B: o.Groups[j], Shared: int(v)})
		}
	})
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].A != pairs[b].A {
			return indexOf(o.Groups, pairs[a].A) < indexOf(o.Groups, pairs[b].A)
		}
		return indexOf(o.Groups, pairs[a].B) < indexOf(o.Groups, pairs[b].B)
	})
	return pairs
}

func indexOf(groups []*mesh.Group, g *mesh.Group) int {
	for i, gg := range groups {
		if gg == g {
			return i
		}
	}
	return -1
}
