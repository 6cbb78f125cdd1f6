package must3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// thread is a single start, right hand external V thread ridge.
type thread struct {
	radius float64 // root radius
	pitch  float64 // thread to thread distance
	length float64 // half length
	base   float64 // half width of the ridge at the root
	depth  float64 // radial height of the ridge
	flank  r2.Vec  // outward normal of the flank in profile space
	lips   float64 // Lipschitz correction of the helical mapping
	bb     r3.Box
}

// Thread returns the SDF3 of a helical V thread ridge wrapped around a
// cylinder of root radius, centered on the origin with its axis along Z.
// The ridge extends inward past the root by depth so it fuses with the
// surface it is wrapped on.
func Thread(length, radius, pitch, depth float64) *thread {
	if length <= 0 {
		panic("length <= 0")
	}
	if radius <= 0 {
		panic("radius <= 0")
	}
	if pitch <= 0 {
		panic("pitch <= 0")
	}
	if depth <= 0 || depth >= radius {
		panic("depth out of range (0, radius)")
	}
	s := thread{
		radius: radius,
		pitch:  pitch,
		length: length / 2,
		base:   0.45 * pitch,
		depth:  depth,
	}
	s.flank = r2.Unit(r2.Vec{X: depth, Y: s.base})
	// The helix shears the profile by pitch per turn; the distance estimate
	// is scaled down so it never overshoots at the root radius.
	k := pitch / (2 * math.Pi * (radius - depth))
	s.lips = math.Sqrt(1 + k*k)
	r := radius + depth
	s.bb = r3.Box{Min: r3.Vec{X: -r, Y: -r, Z: -s.length}, Max: r3.Vec{X: r, Y: r, Z: s.length}}
	return &s
}

// Evaluate returns the minimum distance to the thread ridge.
func (s *thread) Evaluate(p r3.Vec) float64 {
	// the distance from the 3d z-axis maps to the 2d y-axis
	y := math.Hypot(p.X, p.Y)
	// the x/y angle and the z-height map to the 2d x-axis
	// ie: the position along thread pitch
	theta := math.Atan2(p.Y, p.X)
	x := math.Abs(sawTooth(p.Z-s.pitch*theta/(2*math.Pi), s.pitch))
	// flank half plane through the root corner of the ridge
	d0 := r2.Dot(s.flank, r2.Vec{X: x - s.base, Y: y - s.radius})
	// inner cylinder that buries the ridge root into the host surface
	d1 := (s.radius - s.depth) - y
	// length of the threaded region
	d2 := math.Abs(p.Z) - s.length
	return math.Max(math.Max(d0, d1), d2) / s.lips
}

// Bounds returns the bounding box for the thread.
func (s *thread) Bounds() r3.Box {
	return s.bb
}

// sawTooth generates a sawtooth function. Returns [-period/2, period/2)
func sawTooth(x, period float64) float64 {
	x += period / 2
	t := x / period
	return period*(t-math.Floor(t)) - period/2
}
