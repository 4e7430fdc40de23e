package families

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/notargets/femxlate/mesh"
	"github.com/notargets/femxlate/utils"
)

const (
	// DefaultMaxNameLength is the family name limit of the ASC output format
	DefaultMaxNameLength = 64
	// MinMaxNameLength leaves room for any generic name
	MinMaxNameLength = 16
	// NoFamily is the family of entities outside every group
	NoFamily = 0
)

// PartitionConfig holds configuration for family partitioning
type PartitionConfig struct {
	MaxNameLength int
	// Generic name prefixes used when a derived name is too long
	NodePrefix string
	CellPrefix string
}

// DefaultPartitionConfig returns default partitioning configuration
func DefaultPartitionConfig() *PartitionConfig {
	return &PartitionConfig{
		MaxNameLength: DefaultMaxNameLength,
		NodePrefix:    "Family",
		CellPrefix:    "CellFamily",
	}
}

// Partitioner turns overlapping groups into disjoint families
type Partitioner struct {
	config *PartitionConfig
	log    *utils.Logger
}

func NewPartitioner(config *PartitionConfig, logger *utils.Logger) (*Partitioner, error) {
	if config == nil {
		config = DefaultPartitionConfig()
	}
	if config.MaxNameLength < MinMaxNameLength {
		return nil, fmt.Errorf("family name length limit %d is below the minimum %d",
			config.MaxNameLength, MinMaxNameLength)
	}
	if logger == nil {
		logger = utils.NewDiscardLogger()
	}
	return &Partitioner{config: config, log: logger}, nil
}

// NodeFamilies partitions the nodes of m by membership in groups. Families
// are numbered 1, 2, ...
func (p *Partitioner) NodeFamilies(m *mesh.Mesh, groups []*mesh.Group) (*Result, error) {
	return p.compute(m, mesh.NodeGroupKind, m.Nodes.Len(), groups)
}

// CellFamilies partitions the cells of m by membership in groups. Families
// are numbered -1, -2, ...
func (p *Partitioner) CellFamilies(m *mesh.Mesh, groups []*mesh.Group) (*Result, error) {
	return p.compute(m, mesh.CellGroupKind, m.Cells.Len(), groups)
}

// compute refines the partition one group at a time. Within a group pass,
// every family met is split once: split maps the old family to the new one.
func (p *Partitioner) compute(m *mesh.Mesh, kind mesh.GroupKind, numEntities int,
	groups []*mesh.Group) (*Result, error) {
	var (
		assignment = make([]int, numEntities)
		registry   = make(map[int]*Family)
		counter    = 0
		step       = 1
		prefix     = p.config.NodePrefix
		names      = newNameSet(groups)
		created    int
		generic    int
	)
	if kind == mesh.CellGroupKind {
		step = -1
		prefix = p.config.CellPrefix
	}

	for _, g := range groups {
		if g.Kind != kind {
			return nil, fmt.Errorf("%s cannot be used to build %s families", g, kind.EntityKind())
		}
		positions, err := m.MemberPositions(g.EntityContainer)
		if err != nil {
			return nil, fmt.Errorf("resolving members of %s: %w", g, err)
		}
		split := make(map[int]int)
		for _, pos := range positions {
			oldID := assignment[pos]
			newID, ok := split[oldID]
			if !ok {
				counter += step
				newID = counter
				fam := &Family{ID: newID, Name: g.Name, Groups: []*mesh.Group{g}}
				if old, found := registry[oldID]; found {
					fam.Name = names.available(old.Name + "_" + g.Name)
					fam.Groups = append(append([]*mesh.Group(nil), old.Groups...), g)
				}
				if len(fam.Name) > p.config.MaxNameLength {
					fam.Name = names.available(prefix + strconv.Itoa(abs(newID)))
					fam.Generic = true
					generic++
				}
				names.add(fam.Name)
				registry[newID] = fam
				split[oldID] = newID
				created++
				p.log.Tracef("%s family %d %q from %v", kind.EntityKind(), newID, fam.Name, oldID)
			}
			assignment[pos] = newID
		}
	}

	inUse := make(map[int]struct{})
	for _, id := range assignment {
		if id != NoFamily {
			inUse[id] = struct{}{}
		}
	}
	res := &Result{
		Kind:       kind,
		Assignment: assignment,
		byID:       make(map[int]*Family, len(inUse)),
	}
	for id := range inUse {
		fam := registry[id]
		res.Families = append(res.Families, fam)
		res.byID[id] = fam
	}
	sort.Slice(res.Families, func(i, j int) bool {
		return abs(res.Families[i].ID) < abs(res.Families[j].ID)
	})
	res.GenericNames = generic

	p.log.Infof("%s families: %d groups, %d created, %d in use, %d generic names",
		kind.EntityKind(), len(groups), created, len(res.Families), generic)
	return res, nil
}

// nameSet holds the group names and every family name issued so far
type nameSet map[string]struct{}

func newNameSet(groups []*mesh.Group) nameSet {
	ns := make(nameSet, len(groups))
	for _, g := range groups {
		ns.add(g.Name)
	}
	return ns
}

func (ns nameSet) add(name string) {
	ns[name] = struct{}{}
}

// available returns name, or the first of name_1, name_2, ... not yet taken
func (ns nameSet) available(name string) string {
	candidate := name
	for k := 1; ; k++ {
		if _, taken := ns[candidate]; !taken {
			return candidate
		}
		candidate = name + "_" + strconv.Itoa(k)
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
