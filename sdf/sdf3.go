package sdf

import (
	"strconv"

	"github.com/greenspire/goldentower/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	bbs []d3.Box
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects. A single
// argument is returned as is.
// Union3D will panic if arguments list is empty or if
// an argument SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3 {
	if len(sdf) == 0 {
		panic("union requires at least 1 sdf")
	}
	for i, x := range sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	if len(sdf) == 1 {
		return sdf[0]
	}
	s := union3{
		sdf: sdf,
		bbs: make([]d3.Box, len(sdf)),
	}
	// work out the bounding box
	bb := d3.Box(s.sdf[0].Bounds())
	for i, x := range s.sdf {
		s.bbs[i] = d3.Box(x.Bounds())
		bb = bb.Extend(s.bbs[i])
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union. Members whose
// bounding box lies farther than the current minimum are not evaluated;
// their distance can not be smaller than the distance to their box.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for i, x := range s.sdf[1:] {
		if bd := s.bbs[i+1].Distance(p); bd > 0 && bd >= d {
			continue
		}
		if dx := x.Evaluate(p); dx < d {
			d = dx
		}
	}
	return d
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0 SDF3
	s1 SDF3
	bb d3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3 {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	return &diff3{
		s0: s0,
		s1: s1,
		bb: d3.Box(s1.Bounds()),
	}
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	d0 := s.s0.Evaluate(p)
	// Points outside the cutter box keep the base distance whenever the
	// cutter can not be the binding term.
	if bd := s.bb.Distance(p); bd > 0 && -bd <= d0 {
		return d0
	}
	d1 := -s.s1.Evaluate(p)
	if d1 > d0 {
		return d1
	}
	return d0
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.s0.Bounds()
}

// intersection3 is the intersection of two SDF3s.
type intersection3 struct {
	s0 SDF3
	s1 SDF3
	bb r3.Box
}

// Intersect3D returns the intersection of two SDF3s.
// Intersect3D will panic if any of the arguments are nil.
func Intersect3D(s0, s1 SDF3) SDF3 {
	if s0 == nil || s1 == nil {
		panic("nil argument to Intersect3D")
	}
	a, b := s0.Bounds(), s1.Bounds()
	bb := r3.Box{
		Min: d3.MaxElem(a.Min, b.Min),
		Max: d3.MinElem(a.Max, b.Max),
	}
	// Disjoint operands yield an empty box at the overlap corner.
	bb.Max = d3.MaxElem(bb.Min, bb.Max)
	return &intersection3{s0: s0, s1: s1, bb: bb}
}

// Evaluate returns the minimum distance to the SDF3 intersection.
func (s *intersection3) Evaluate(p r3.Vec) float64 {
	d0, d1 := s.s0.Evaluate(p), s.s1.Evaluate(p)
	if d1 > d0 {
		return d1
	}
	return d0
}

// Bounds returns the bounding box of an SDF3 intersection.
func (s *intersection3) Bounds() r3.Box {
	return s.bb
}

// transform3 is an SDF3 transformed with an affine transform.
type transform3 struct {
	sdf     SDF3
	inverse d3.Transform
	bb      r3.Box
}

// Transform3D applies a transform to an SDF3. Distance is only
// preserved for rigid transforms (rotation and translation).
// Transform3D panics if the SDF3 is nil or the transform is singular.
func Transform3D(sdf SDF3, t d3.Transform) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if t.Singular() {
		panic("singular transform argument to Transform3D")
	}
	return &transform3{
		sdf:     sdf,
		inverse: t.Inv(),
		bb:      r3.Box(t.ApplyBox(d3.Box(sdf.Bounds()))),
	}
}

// Evaluate returns the minimum distance to a transformed SDF3.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.Transform(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// Translate3D moves an SDF3 by v.
func Translate3D(sdf SDF3, v r3.Vec) SDF3 {
	return Transform3D(sdf, d3.Translation(v))
}

// scaleUniform3 is an SDF3 scaled uniformly in XYZ directions.
type scaleUniform3 struct {
	sdf     SDF3
	k, invK float64
	bb      r3.Box
}

// ScaleUniform3D uniformly scales an SDF3 on all axes.
// The distance is correct with scaling.
func ScaleUniform3D(sdf SDF3, k float64) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if k <= 0 {
		panic("scale factor <= 0")
	}
	bb := sdf.Bounds()
	return &scaleUniform3{
		sdf:  sdf,
		k:    k,
		invK: 1.0 / k,
		bb:   r3.Box{Min: r3.Scale(k, bb.Min), Max: r3.Scale(k, bb.Max)},
	}
}

// Evaluate returns the minimum distance to a uniformly scaled SDF3.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	q := r3.Scale(s.invK, p)
	return s.sdf.Evaluate(q) * s.k
}

// Bounds returns the bounding box of a uniformly scaled SDF3.
func (s *scaleUniform3) Bounds() r3.Box {
	return s.bb
}
