package mesh

import "github.com/google/btree"

// idTreeDegree is the btree degree of container id sets
const idTreeDegree = 16

// GroupKind separates node groups from cell groups; names are unique per kind
type GroupKind uint8

const (
	NodeGroupKind GroupKind = iota
	CellGroupKind
)

func (k GroupKind) String() string {
	return [...]string{"node group", "cell group"}[k]
}

// EntityKind is the kind of entity members of this group kind refer to
func (k GroupKind) EntityKind() EntityKind {
	if k == CellGroupKind {
		return CellEntity
	}
	return NodeEntity
}

// GroupResolver looks a group up by kind and name
type GroupResolver interface {
	FindGroup(kind GroupKind, name string) (*Group, error)
}

// EntityContainer is a set of direct entity ids plus a set of referenced
// group names, resolved lazily. It is shared by groups, boundary conditions
// and output requests.
type EntityContainer struct {
	Kind       GroupKind
	ids        *btree.BTree // btree.Int items, ascending
	groupNames map[string]struct{}
	groupOrder []string
}

func NewEntityContainer(kind GroupKind) *EntityContainer {
	return &EntityContainer{
		Kind:       kind,
		ids:        btree.New(idTreeDegree),
		groupNames: make(map[string]struct{}),
	}
}

func (c *EntityContainer) AddDirect(ids ...int) {
	for _, id := range ids {
		c.ids.ReplaceOrInsert(btree.Int(id))
	}
}

// AddGroupReference records a group name; it is only checked when resolved
func (c *EntityContainer) AddGroupReference(name string) {
	if _, ok := c.groupNames[name]; ok {
		return
	}
	c.groupNames[name] = struct{}{}
	c.groupOrder = append(c.groupOrder, name)
}

// Contains reports direct membership only
func (c *EntityContainer) Contains(id int) bool {
	return c.ids.Has(btree.Int(id))
}

// Merge adds the direct ids and group references of other
func (c *EntityContainer) Merge(other *EntityContainer) {
	other.ids.Ascend(func(i btree.Item) bool {
		c.ids.ReplaceOrInsert(i)
		return true
	})
	for _, name := range other.groupOrder {
		c.AddGroupReference(name)
	}
}

// DirectIDs returns the direct members, ascending
func (c *EntityContainer) DirectIDs() []int {
	ids := make([]int, 0, c.ids.Len())
	c.ids.Ascend(func(i btree.Item) bool {
		ids = append(ids, int(i.(btree.Int)))
		return true
	})
	return ids
}

// GroupNames returns the referenced group names in insertion order
func (c *EntityContainer) GroupNames() []string {
	return append([]string(nil), c.groupOrder...)
}

// Flatten returns the ascending, duplicate free member ids. With includeGroups,
// the direct members of every referenced group are added; references held by
// those groups are not followed.
func (c *EntityContainer) Flatten(r GroupResolver, includeGroups bool) ([]int, error) {
	if !includeGroups || len(c.groupOrder) == 0 {
		return c.DirectIDs(), nil
	}
	all := c.ids.Clone()
	for _, name := range c.groupOrder {
		g, err := r.FindGroup(c.Kind, name)
		if err != nil {
			return nil, err
		}
		g.ids.Ascend(func(i btree.Item) bool {
			all.ReplaceOrInsert(i)
			return true
		})
	}
	ids := make([]int, 0, all.Len())
	all.Ascend(func(i btree.Item) bool {
		ids = append(ids, int(i.(btree.Int)))
		return true
	})
	return ids, nil
}

// Groups resolves every referenced group name
func (c *EntityContainer) Groups(r GroupResolver) ([]*Group, error) {
	groups := make([]*Group, 0, len(c.groupOrder))
	for _, name := range c.groupOrder {
		g, err := r.FindGroup(c.Kind, name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (c *EntityContainer) Empty() bool {
	return c.ids.Len() == 0 && len(c.groupNames) == 0
}

func (c *EntityContainer) HasEntities() bool {
	return c.ids.Len() > 0
}

func (c *EntityContainer) HasGroupReferences() bool {
	return len(c.groupNames) > 0
}

func (c *EntityContainer) Clear() {
	c.ids.Clear(false)
	c.groupNames = make(map[string]struct{})
	c.groupOrder = nil
}

// NoDeckID marks a group without a deck supplied numeric id
const NoDeckID = -1

// Group is a named node or cell collection. Members are node ids for node
// groups and cell ids for cell groups.
type Group struct {
	*EntityContainer
	Name    string
	ID      int
	Comment string
}

func newGroup(kind GroupKind, name string, id int, comment string) *Group {
	return &Group{
		EntityContainer: NewEntityContainer(kind),
		Name:            name,
		ID:              id,
		Comment:         comment,
	}
}

func (g *Group) String() string {
	return g.Kind.String() + "[" + g.Name + "]"
}
