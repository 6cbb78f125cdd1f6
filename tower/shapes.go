package tower

import (
	"math"

	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/internal/d3"
	"github.com/greenspire/goldentower/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Placement helpers over the panicking primitives. Builders run under
// form3.Recover so a bad dimension becomes a GeometryError.

// cylinderZ is a cylinder of radius r on the Z axis spanning z0..z1.
func cylinderZ(r, z0, z1 float64) sdf.SDF3 {
	return atZ(must3.Cylinder(z1-z0, r, 0), z0, z1)
}

// tubeZ is an annulus between radii inner and outer spanning z0..z1.
func tubeZ(outer, inner, z0, z1 float64) sdf.SDF3 {
	return atZ(must3.Tube(z1-z0, outer, inner), z0, z1)
}

// coneZ is a truncated cone with radius r0 at z0 and r1 at z1.
func coneZ(r0, r1, z0, z1 float64) sdf.SDF3 {
	return atZ(must3.Cone(z1-z0, r0, r1, 0), z0, z1)
}

func atZ(s sdf.SDF3, z0, z1 float64) sdf.SDF3 {
	return sdf.Translate3D(s, r3.Vec{Z: (z0 + z1) / 2})
}

// radialBox is a box whose X size runs radially outward at angle deg,
// centered at radius r and height z.
func radialBox(size r3.Vec, r, deg, z float64) sdf.SDF3 {
	return radial(must3.Box(size, 0), r, deg, z)
}

// radial turns s by deg about Z and moves its origin to radius r, height z,
// so local +X points radially outward.
func radial(s sdf.SDF3, r, deg, z float64) sdf.SDF3 {
	t := d3.Translation(d3.Polar(r, deg, z)).Mul(d3.Rotation(sdf.DtoR(deg), axisZ))
	return sdf.Transform3D(s, t)
}

// translatePolar moves s to radius r at angle deg without turning it.
func translatePolar(s sdf.SDF3, r, deg float64) sdf.SDF3 {
	return sdf.Translate3D(s, d3.Polar(r, deg, 0))
}

// slopedChannel is a drain channel of the given length along X centered on
// the origin. Its floor is depth below top at the inner (-X) end and falls
// by slope radians toward +X. Its top is flat at top+ov so it opens into
// the space above the floor.
func slopedChannel(length, width, depth, slope, top, ov float64) sdf.SDF3 {
	ss, cs := math.Sincos(slope)
	hh := depth + length*ss
	zc := top - depth + hh*cs - length/2*ss
	tilt := d3.Translation(r3.Vec{Z: zc}).Mul(d3.Rotation(slope, axisY))
	floor := sdf.Transform3D(must3.Box(r3.Vec{X: length, Y: width, Z: 2 * hh}, 0), tilt)
	bottom := top - depth - length*ss - ov
	lid := atZ(must3.Box(r3.Vec{X: length + 2*ov, Y: width + 2*ov, Z: top + ov - bottom}, 0), bottom, top+ov)
	return sdf.Intersect3D(floor, lid)
}

// inPocket places s, built on the pocket local frame, at offset along the
// pocket axis.
func inPocket(pp PocketPlacement, offset float64, s sdf.SDF3) sdf.SDF3 {
	return sdf.Transform3D(s, pp.Local(offset))
}

// spanned returns the local center and length of the axial span a..b.
func spanned(a, b float64) (center, length float64) {
	return (a + b) / 2, b - a
}
