// Package render tessellates SDF3 bodies into triangle meshes and writes
// them as binary STL and STEP faceted boundary representations.
package render

import (
	"errors"

	"github.com/greenspire/goldentower/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyMesh is returned when a tessellation produced no triangles.
var ErrEmptyMesh = errors.New("empty mesh")

type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a triangle in 3D space. Vertices are counter-clockwise when
// seen from outside the solid.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle, zero if degenerate.
func (t Triangle3) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Area returns the area of the triangle.
func (t Triangle3) Area() float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0])))
}

// Degenerate returns true if two vertices are within tol of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// Bounds returns the axis aligned bounding box of a model.
func Bounds(model []Triangle3) r3.Box {
	if len(model) == 0 {
		return r3.Box{}
	}
	bb := r3.Box{Min: model[0].V[0], Max: model[0].V[0]}
	for _, t := range model {
		for _, v := range t.V {
			bb.Min = d3.MinElem(bb.Min, v)
			bb.Max = d3.MaxElem(bb.Max, v)
		}
	}
	return bb
}

// Finite reports whether every vertex coordinate of the model is finite.
func Finite(model []Triangle3) bool {
	for _, t := range model {
		for _, v := range t.V {
			if !d3.IsFinite(v) {
				return false
			}
		}
	}
	return true
}

// Volume returns the signed volume enclosed by the model using the
// divergence theorem. It is positive for an outward oriented closed mesh.
func Volume(model []Triangle3) float64 {
	var vol float64
	for _, t := range model {
		vol += r3.Dot(t.V[0], r3.Cross(t.V[1], t.V[2]))
	}
	return vol / 6
}
