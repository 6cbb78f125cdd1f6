package tower

import (
	"fmt"
	"math"

	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/params"
	"github.com/greenspire/goldentower/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// planTopCap records the cap that closes the top segment. Water pumped up
// the supply tube spills into the hollow deflector cone and drains back
// through radial slots in the base plate into the segment below.
func planTopCap(p params.ParameterSet) *Construction {
	c := NewConstruction(string(TopCap))
	wall, ww, ov := p.WallThickness, p.WaterWallThickness, p.FuseOverlap
	ih, capH := p.InterlockHeight, p.CapHeight
	rCap := p.CapOuterRadius()
	r, fb := p.SegmentOuterRadius(), p.FinialBaseRadius

	c.Add("base plate", cylinderZ(rCap, 0, wall))
	c.Add("deflector cone", coneZ(r, fb, wall-ov, capH))
	c.Add("rim lip", tubeZ(rCap, rCap-wall, 0, p.CapLipHeight))
	c.Add("finial", sdf.Translate3D(must3.Sphere(p.FinialDomeRadius), r3.Vec{Z: capH - ov}))
	c.Add("socket wall", tubeZ(p.FemaleRingRadius()+wall, p.FemaleRingRadius(), -ih, ov))

	// The inner cone is the deflector surface moved one water wall inward
	// along its normal, which is a vertical drop of ww·hyp/run.
	z0 := wall - ov
	run, rise := r-fb, capH-z0
	drop := ww * math.Hypot(run, rise) / run
	outer := func(z float64) float64 { return r - run*(z-z0)/rise }
	c.Cut("deflector hollow", coneZ(outer(wall+drop), fb, wall, capH-drop))
	c.Cut("tube bore", cylinderZ(p.SupplyTubeInnerRadius(), -ih-ov, wall+ov))
	c.Cut("female key slot", femaleKeySlot(p, -ih-ov, 0))

	// The channel end sits inside the bore at both corners so no sliver of
	// plate is left between the flat end and the round bore.
	rb, hw := p.SupplyTubeInnerRadius(), p.ChannelWidth/2
	ri := math.Sqrt(math.Max(0, rb*rb-hw*hw)) - ov
	ro := p.BodyInnerRadius() - wall
	mid, length := spanned(ri, ro)
	size := r3.Vec{X: length, Y: p.ChannelWidth, Z: wall + 2*ov}
	for k := 0; k < p.CapChannels; k++ {
		deg := float64(k) * 360 / float64(p.CapChannels)
		c.Cut(fmt.Sprintf("return channel %d", k), radialBox(size, mid, deg, wall/2))
	}
	return c
}
