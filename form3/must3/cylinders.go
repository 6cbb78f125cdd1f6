package must3

import (
	"math"

	"github.com/greenspire/goldentower/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// box is a 3d box.
type box struct {
	size  r3.Vec
	round float64
	bb    r3.Box
}

// Box return an SDF3 for a 3d box centered on the origin (rounded corners with round > 0).
func Box(size r3.Vec, round float64) *box {
	if d3.LTEZero(size) {
		panic("size <= 0")
	}
	if round < 0 {
		panic("round < 0")
	}
	size = r3.Scale(0.5, size)
	if round > d3.Min(size) {
		panic("round > half size")
	}
	s := box{
		size:  r3.Sub(size, d3.Elem(round)),
		round: round,
		bb:    r3.Box{Min: r3.Scale(-1, size), Max: size},
	}
	return &s
}

// Evaluate returns the minimum distance to a 3d box.
func (s *box) Evaluate(p r3.Vec) float64 {
	return sdfBox3d(p, s.size) - s.round
}

// Bounds returns the bounding box for a 3d box.
func (s *box) Bounds() r3.Box {
	return s.bb
}

// Sphere (exact distance field)

// sphere is a sphere.
type sphere struct {
	radius float64
	bb     r3.Box
}

// Sphere return an SDF3 for a sphere centered on the origin.
func Sphere(radius float64) *sphere {
	if radius <= 0 {
		panic("radius <= 0")
	}
	d := d3.Elem(radius)
	s := sphere{
		radius: radius,
		bb:     r3.Box{Min: r3.Scale(-1, d), Max: d},
	}
	return &s
}

// Evaluate returns the minimum distance to a sphere.
func (s *sphere) Evaluate(p r3.Vec) float64 {
	return r3.Norm(p) - s.radius
}

// Bounds returns the bounding box for a sphere.
func (s *sphere) Bounds() r3.Box {
	return s.bb
}

// Cylinder (exact distance field)

// cylinder is a cylinder with its axis along Z.
type cylinder struct {
	height float64
	radius float64
	round  float64
	bb     r3.Box
}

// Cylinder return an SDF3 for a cylinder centered on the origin (rounded edges with round > 0).
func Cylinder(height, radius, round float64) *cylinder {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if height <= 0 {
		panic("height <= 0")
	}
	if round < 0 {
		panic("round < 0")
	}
	if round > radius {
		panic("round > radius")
	}
	if height < 2.0*round {
		panic("height < 2 * round")
	}
	s := cylinder{}
	s.height = (height / 2) - round
	s.radius = radius - round
	s.round = round
	d := r3.Vec{X: radius, Y: radius, Z: height / 2}
	s.bb = r3.Box{Min: r3.Scale(-1, d), Max: d}
	return &s
}

// Evaluate returns the minimum distance to a cylinder.
func (s *cylinder) Evaluate(p r3.Vec) float64 {
	d := rectProfile(r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}, r2.Vec{X: s.radius, Y: s.height})
	return d - s.round
}

// Bounds returns the bounding box for a cylinder.
func (s *cylinder) Bounds() r3.Box {
	return s.bb
}

// tube is a thick walled cylinder: the solid between two coaxial radii.
type tube struct {
	mid  float64 // mean radius
	half r2.Vec  // half wall thickness, half height
	bb   r3.Box
}

// Tube returns the SDF3 of an annulus of height centered on the origin,
// spanning radii inner to outer. Exact distance field.
func Tube(height, outer, inner float64) *tube {
	if height <= 0 {
		panic("height <= 0")
	}
	if inner <= 0 {
		panic("inner radius <= 0")
	}
	if outer <= inner {
		panic("outer radius <= inner radius")
	}
	d := r3.Vec{X: outer, Y: outer, Z: height / 2}
	return &tube{
		mid:  (outer + inner) / 2,
		half: r2.Vec{X: (outer - inner) / 2, Y: height / 2},
		bb:   r3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the minimum distance to a tube.
func (s *tube) Evaluate(p r3.Vec) float64 {
	return rectProfile(r2.Vec{X: math.Hypot(p.X, p.Y) - s.mid, Y: p.Z}, s.half)
}

// Bounds returns the bounding box for a tube.
func (s *tube) Bounds() r3.Box {
	return s.bb
}

// Truncated Cone (exact distance field)

// cone is a truncated cone.
type cone struct {
	r0     float64 // base radius
	r1     float64 // top radius
	height float64 // half height
	round  float64 // rounding offset
	u      r2.Vec  // normalized cone slope vector
	n      r2.Vec  // normal to cone slope (points outward)
	l      float64 // length of cone slope
	bb     r3.Box  // bounding box
}

// Cone returns the SDF3 for a truncated cone centered on the origin with
// base radius r0 at -height/2 and top radius r1 at +height/2
// (round > 0 gives rounded edges).
func Cone(height, r0, r1, round float64) *cone {
	if height <= 0 {
		panic("height <= 0")
	}
	if r0 < 0 || r1 < 0 {
		panic("radius < 0")
	}
	if r0 == 0 && r1 == 0 {
		panic("both radii are zero")
	}
	if round < 0 {
		panic("round < 0")
	}
	if height < 2.0*round {
		panic("height < 2 * round")
	}
	s := cone{}
	s.height = (height / 2) - round
	s.round = round
	// cone slope vector and normal
	s.u = r2.Unit(r2.Sub(r2.Vec{X: r1, Y: height / 2}, r2.Vec{X: r0, Y: -height / 2}))
	s.n = r2.Vec{X: s.u.Y, Y: -s.u.X}
	// inset the radii for the rounding
	ofs := round / s.n.X
	s.r0 = r0 - (1+s.n.Y)*ofs
	s.r1 = r1 - (1-s.n.Y)*ofs
	// cone slope length
	s.l = r2.Norm(r2.Sub(r2.Vec{X: s.r1, Y: s.height}, r2.Vec{X: s.r0, Y: -s.height}))
	r := math.Max(s.r0+round, s.r1+round)
	s.bb = r3.Box{Min: r3.Vec{X: -r, Y: -r, Z: -height / 2}, Max: r3.Vec{X: r, Y: r, Z: height / 2}}
	return &s
}

// Evaluate returns the minimum distance to a truncated cone.
func (s *cone) Evaluate(p r3.Vec) float64 {
	// convert to SoR 2d coordinates
	p2 := r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}
	// is p2 above the cone?
	if p2.Y >= s.height && p2.X <= s.r1 {
		return p2.Y - s.height - s.round
	}
	// is p2 below the cone?
	if p2.Y <= -s.height && p2.X <= s.r0 {
		return -p2.Y - s.height - s.round
	}
	// distance to slope line
	v := r2.Sub(p2, r2.Vec{X: s.r0, Y: -s.height})
	dSlope := r2.Dot(v, s.n)
	// is p2 inside the cone?
	if dSlope < 0 && math.Abs(p2.Y) < s.height {
		return -math.Min(-dSlope, s.height-math.Abs(p2.Y)) - s.round
	}
	// is p2 closest to the slope line?
	t := r2.Dot(v, s.u)
	if t >= 0 && t <= s.l {
		return dSlope - s.round
	}
	// is p2 closest to the base radius vertex?
	if t < 0 {
		return r2.Norm(v) - s.round
	}
	// p2 is closest to the top radius vertex
	return r2.Norm(r2.Sub(p2, r2.Vec{X: s.r1, Y: s.height})) - s.round
}

// Bounds return the bounding box for the truncated cone.
func (s *cone) Bounds() r3.Box {
	return s.bb
}

func sdfBox3d(p, s r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), s)
	if d.X > 0 && d.Y > 0 && d.Z > 0 {
		return r3.Norm(d)
	}
	if d.X > 0 && d.Y > 0 {
		return math.Hypot(d.X, d.Y)
	}
	if d.X > 0 && d.Z > 0 {
		return math.Hypot(d.X, d.Z)
	}
	if d.Y > 0 && d.Z > 0 {
		return math.Hypot(d.Y, d.Z)
	}
	if d.X > 0 {
		return d.X
	}
	if d.Y > 0 {
		return d.Y
	}
	if d.Z > 0 {
		return d.Z
	}
	return d3.Max(d)
}
