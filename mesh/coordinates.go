package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// GlobalCoordinateSystemID identifies the global cartesian frame
const GlobalCoordinateSystemID = 0

// CoordinateSystem is a cartesian frame given by an origin and an orthonormal
// basis. Columns of Axes are the local unit vectors expressed in the global frame.
type CoordinateSystem struct {
	ID     int
	Origin *mat.VecDense
	Axes   *mat.Dense
}

// NewCartesianCoordinateSystem builds a frame from an origin, a point on the
// local x axis and a point in the local xy plane
func NewCartesianCoordinateSystem(id int, origin, xPoint, xyPoint [3]float64) (*CoordinateSystem, error) {
	var (
		ex, v, ez, ey [3]float64
	)
	for i := 0; i < 3; i++ {
		ex[i] = xPoint[i] - origin[i]
		v[i] = xyPoint[i] - origin[i]
	}
	if !normalize(&ex) {
		return nil, fmt.Errorf("coordinate system %d: x axis point coincides with origin", id)
	}
	ez = cross(ex, v)
	if !normalize(&ez) {
		return nil, fmt.Errorf("coordinate system %d: xy plane point is colinear with x axis", id)
	}
	ey = cross(ez, ex)
	axes := mat.NewDense(3, 3, []float64{
		ex[0], ey[0], ez[0],
		ex[1], ey[1], ez[1],
		ex[2], ey[2], ez[2],
	})
	return &CoordinateSystem{
		ID:     id,
		Origin: mat.NewVecDense(3, []float64{origin[0], origin[1], origin[2]}),
		Axes:   axes,
	}, nil
}

// PositionToGlobal maps local coordinates to the global frame
func (cs *CoordinateSystem) PositionToGlobal(local [3]float64) (global [3]float64) {
	var g mat.VecDense
	g.MulVec(cs.Axes, mat.NewVecDense(3, local[:]))
	g.AddVec(&g, cs.Origin)
	for i := 0; i < 3; i++ {
		global[i] = g.AtVec(i)
	}
	return
}

// VectorToGlobal rotates a direction without translating it
func (cs *CoordinateSystem) VectorToGlobal(local [3]float64) (global [3]float64) {
	var g mat.VecDense
	g.MulVec(cs.Axes, mat.NewVecDense(3, local[:]))
	for i := 0; i < 3; i++ {
		global[i] = g.AtVec(i)
	}
	return
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v *[3]float64) bool {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n < 1.e-14 {
		return false
	}
	for i := range v {
		v[i] /= n
	}
	return true
}
