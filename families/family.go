package families

import (
	"github.com/notargets/femxlate/mesh"
)

// Family is a disjoint partition class: the entities belonging to exactly the
// groups in Groups. IDs are positive for node families and negative for cell
// families.
type Family struct {
	ID     int
	Name   string
	Groups []*mesh.Group
	// Generic is set when the derived name was too long and replaced
	Generic bool
}

func (f *Family) GroupNames() []string {
	names := make([]string, len(f.Groups))
	for i, g := range f.Groups {
		names[i] = g.Name
	}
	return names
}

// Result is the output of one partitioning run
type Result struct {
	Kind mesh.GroupKind
	// Assignment holds the family id of every entity, indexed by store position
	Assignment []int
	// Families lists the families in use, ascending by |ID|
	Families     []*Family
	GenericNames int
	byID         map[int]*Family
}

// Family looks a family up by id
func (r *Result) Family(id int) (*Family, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// FamilyOf returns the family id of the entity at position
func (r *Result) FamilyOf(position int) int {
	return r.Assignment[position]
}

// Members returns the ascending positions assigned to family id
func (r *Result) Members(id int) []int {
	var positions []int
	for pos, fam := range r.Assignment {
		if fam == id {
			positions = append(positions, pos)
		}
	}
	return positions
}

// MembersByFamily returns the positions of every family in one sweep
func (r *Result) MembersByFamily() map[int][]int {
	members := make(map[int][]int, len(r.Families))
	for pos, fam := range r.Assignment {
		if fam != NoFamily {
			members[fam] = append(members[fam], pos)
		}
	}
	return members
}

// AssignmentByType regroups a cell assignment per cell type, each slice
// indexed by Cell.TypePosition
func (r *Result) AssignmentByType(cells *mesh.CellStore) map[mesh.CellTypeCode][]int {
	byType := make(map[mesh.CellTypeCode][]int)
	for _, code := range cells.Types() {
		positions := cells.PositionsByType(code)
		fams := make([]int, len(positions))
		for i, pos := range positions {
			fams[i] = r.Assignment[pos]
		}
		byType[code] = fams
	}
	return byType
}

// SameFamily reports whether two positions share a family
func (r *Result) SameFamily(posA, posB int) bool {
	return r.Assignment[posA] == r.Assignment[posB]
}
