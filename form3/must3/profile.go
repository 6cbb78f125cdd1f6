package must3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// rectProfile is the distance from p to a centered rectangle of half sizes
// half in the (radial, axial) plane of a solid of revolution.
func rectProfile(p, half r2.Vec) float64 {
	q := r2.Vec{X: math.Abs(p.X) - half.X, Y: math.Abs(p.Y) - half.Y}
	if q.X > 0 && q.Y > 0 {
		return r2.Norm(q)
	}
	return math.Max(q.X, q.Y)
}
