package mesh

// SpaceDimension is the topological dimension of a cell type
type SpaceDimension uint8

const (
	Dimension0D SpaceDimension = iota
	Dimension1D
	Dimension2D
	Dimension3D
)

func (d SpaceDimension) String() string {
	return [...]string{"0D", "1D", "2D", "3D"}[d]
}

// Less orders dimensions by their code
func (d SpaceDimension) Less(other SpaceDimension) bool {
	return d < other
}

// RelativeMeshDimension is the dimension relative to a 3D mesh, 0 for solids
// down to -3 for points
func (d SpaceDimension) RelativeMeshDimension() int {
	return int(d) - 3
}
