package tower

import (
	"fmt"

	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/params"
	"github.com/greenspire/goldentower/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// planBottomSegment records the reservoir connector: the segment body with
// a flat floor instead of the female socket, a hose barb and a lid ring
// hanging below z=0.
func planBottomSegment(p params.ParameterSet) *Construction {
	c := NewConstruction(string(BottomSegment))
	addBody(c, p)
	addBarb(c, p)
	addLidRing(c, p)

	drip := p.DripTrayDepth()
	cutBody(c, p, drip)
	ov := p.FuseOverlap
	c.Cut("barb bore", cylinderZ(p.QDFittingID/2, -p.QDBarbLength-ov, drip+ov))
	return c
}

// addBarb records the barb shaft and its ridges. Each ridge is a cone that
// narrows upward so the hose slides on and resists pulling off.
func addBarb(c *Construction, p params.ParameterSet) {
	rb := p.QDBarbRadius()
	c.Add("barb shaft", cylinderZ(rb, -p.QDBarbLength, p.FuseOverlap))
	z0 := -p.QDBarbLength + (p.QDBarbRidgeSpacing - p.QDBarbRidgeLength)
	for j := 0; j < p.QDBarbRidges; j++ {
		z := z0 + float64(j)*p.QDBarbRidgeSpacing
		c.Add(fmt.Sprintf("barb ridge %d", j), coneZ(rb+p.QDBarbRidgeHeight, rb, z, z+p.QDBarbRidgeLength))
	}
}

// addLidRing records the ring that seats in the reservoir lid and its
// retention: bayonet lugs or an external thread.
func addLidRing(c *Construction, p params.ParameterSet) {
	ov := p.FuseOverlap
	h := p.LidRingHeight
	ro := p.ReservoirLidOD / 2
	c.Add("lid ring", tubeZ(ro, p.LidRingID()/2, -h, ov))
	switch p.LidAttachment {
	case params.LidThreaded:
		pitch := p.LidThreadPitch
		thread := must3.Thread(h-pitch, ro, pitch, pitch/2)
		c.Add("lid thread", sdf.Translate3D(thread, r3.Vec{Z: -h / 2}))
	default:
		size := r3.Vec{X: p.LugDepth, Y: p.LugWidth, Z: p.LugHeight + ov}
		r := ro + p.LugDepth/2 - ov/2
		for k := 0; k < p.LidBayonetLugs; k++ {
			deg := float64(k) * 360 / float64(p.LidBayonetLugs)
			c.Add(fmt.Sprintf("bayonet lug %d", k), radialBox(size, r, deg, (ov-p.LugHeight)/2))
		}
	}
}
