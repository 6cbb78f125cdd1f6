package tower

import (
	"math"

	"github.com/greenspire/goldentower/internal/d3"
	"github.com/greenspire/goldentower/params"
	"github.com/greenspire/goldentower/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// PocketPlacement locates one planting pocket. Angles are degrees measured
// counter-clockwise from +X, heights are measured from the bottom of the
// segment the pocket belongs to (or from the tower base for TowerPockets).
type PocketPlacement struct {
	Segment      int
	Index        int
	AngleDeg     float64
	Z            float64
	TiltDeg      float64
	RadialOffset float64
}

// Center is the pocket centre point.
func (pp PocketPlacement) Center() r3.Vec {
	return d3.Polar(pp.RadialOffset, pp.AngleDeg, pp.Z)
}

// Axis is the unit pocket axis pointing out of the pocket mouth, tilted
// away from vertical toward the pocket angle.
func (pp PocketPlacement) Axis() r3.Vec {
	st, ct := math.Sincos(sdf.DtoR(pp.TiltDeg))
	sa, ca := math.Sincos(sdf.DtoR(pp.AngleDeg))
	return r3.Vec{X: st * ca, Y: st * sa, Z: ct}
}

// Transform maps the pocket local frame, whose +Z is the pocket axis and
// origin the pocket centre, into segment coordinates.
func (pp PocketPlacement) Transform() d3.Transform {
	spin := d3.Rotation(sdf.DtoR(pp.AngleDeg), axisZ)
	tilt := d3.Rotation(sdf.DtoR(pp.TiltDeg), axisY)
	return d3.Translation(pp.Center()).Mul(spin).Mul(tilt)
}

// Local is Transform shifted by offset along the pocket axis.
func (pp PocketPlacement) Local(offset float64) d3.Transform {
	return pp.Transform().Mul(d3.Translation(r3.Vec{Z: offset}))
}

// Pockets returns the pocket placements of one segment: the golden angle
// spiral, one pocket per node, climbing one node pitch per index.
func Pockets(p params.ParameterSet) []PocketPlacement {
	n := p.NodesPerSegment
	pitch := p.NodeVerticalPitch()
	z0 := p.PocketZOffset()
	out := make([]PocketPlacement, n)
	for i := range out {
		out[i] = PocketPlacement{
			Index:        i,
			AngleDeg:     sdf.NormalizeDeg(float64(i) * params.GoldenAngleDeg),
			Z:            z0 + float64(i)*pitch,
			TiltDeg:      p.PocketTiltDeg,
			RadialOffset: p.PocketRadialOffset,
		}
	}
	return out
}

// StackRotationDeg is the rotation of segment k of a stack relative to
// segment 0 when every segment seats on its keyed interlock.
func StackRotationDeg(p params.ParameterSet, k int) float64 {
	return sdf.NormalizeDeg(float64(k) * p.InterlockRotationDeg())
}

// TowerPockets returns the world placements of every pocket of a stack of
// segments. Segment k is rotated by StackRotationDeg and raised by k
// segment heights so pocket j of the tower sits at the golden angle j×GA
// and height offset + j×pitch.
func TowerPockets(p params.ParameterSet, segments int) []PocketPlacement {
	local := Pockets(p)
	out := make([]PocketPlacement, 0, segments*len(local))
	for k := 0; k < segments; k++ {
		rot := StackRotationDeg(p, k)
		for _, pp := range local {
			pp.Segment = k
			pp.AngleDeg = sdf.NormalizeDeg(pp.AngleDeg + rot)
			pp.Z += float64(k) * p.SegmentHeight
			out = append(out, pp)
		}
	}
	return out
}

// FemaleKeyAngleDeg is where the female key slot sits on the underside of a
// segment. The male key of the segment below sits at 0°; seating the
// upper segment turned by the interlock rotation brings its slot over it.
func FemaleKeyAngleDeg(p params.ParameterSet) float64 {
	return sdf.NormalizeDeg(360 - p.InterlockRotationDeg())
}

// AngularSeparationDeg is the smallest angle between two directions in degrees.
func AngularSeparationDeg(a, b float64) float64 {
	d := math.Abs(sdf.NormalizeDeg(a) - sdf.NormalizeDeg(b))
	return math.Min(d, 360-d)
}
