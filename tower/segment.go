package tower

import (
	"fmt"
	"math"

	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/params"
	"github.com/greenspire/goldentower/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// planSegment records a standard stackable segment: the shared body plus
// the female socket that seats on the male ring of the segment below.
func planSegment(p params.ParameterSet) *Construction {
	c := NewConstruction(string(Segment))
	addBody(c, p)
	cutBody(c, p, -p.FuseOverlap)
	cutFemaleSocket(c, p)
	return c
}

// addBody records phase one of the segment body, shared by the standard
// and bottom segments.
func addBody(c *Construction, p params.ParameterSet) {
	h, ih, ov := p.SegmentHeight, p.InterlockHeight, p.FuseOverlap
	c.Add("outer shell", cylinderZ(p.SegmentOuterRadius(), 0, h))
	c.Add("supply tube", cylinderZ(p.SupplyTubeOuterRadius(), 0, h+ih))
	c.Add("male ring", cylinderZ(p.MaleRingRadius, h-ov, h+ih))
	c.Add("male key", maleKey(p, h))
	c.Add("male ring support cone", coneZ(p.SupplyTubeOuterRadius(), p.MaleRingRadius, p.ChamferStartZ(), h+ov))
	for _, pp := range Pockets(p) {
		for _, part := range pocketCup(p, pp) {
			c.Add(part.label, part.s)
		}
	}
}

type part struct {
	label string
	s     sdf.SDF3
}

// pocketCup returns the solid parts of one pocket: protrusion, flare cone
// and lip flange. The protrusion is flush with the pocket mouth and extends
// inward past the pocket bottom. Every part is clipped to the segment
// envelope so a pocket never reaches into the segment stacked above.
func pocketCup(p params.ParameterSet, pp PocketPlacement) []part {
	mouth := p.PocketDepth / 2
	ro := p.PocketOuterRadius()
	env := cylinderZ(p.SegmentOuterRadius(), 0, p.SegmentHeight)
	clip := func(s sdf.SDF3) sdf.SDF3 { return sdf.Intersect3D(s, env) }
	mid, length := spanned(mouth-p.PocketSolidLength(), mouth)
	return []part{
		{pocketLabel(pp, "protrusion"), clip(inPocket(pp, mid, must3.Cylinder(length, ro, 0)))},
		{pocketLabel(pp, "flare"), clip(inPocket(pp, -p.PocketFlareOffset,
			must3.Cone(p.PocketFlareHeight, ro+p.PocketFlareGrowth, ro, 0)))},
		{pocketLabel(pp, "lip flange"), clip(inPocket(pp, mouth-p.NetCupLipHeight/2,
			must3.Cylinder(p.NetCupLipHeight, p.NetCupLipOD/2+p.WaterWallThickness, 0)))},
	}
}

// pocketCups is the union of every pocket cup of a segment.
func pocketCups(p params.ParameterSet) sdf.SDF3 {
	var cups []sdf.SDF3
	for _, pp := range Pockets(p) {
		for _, part := range pocketCup(p, pp) {
			cups = append(cups, part.s)
		}
	}
	return sdf.Union3D(cups...)
}

// cutBody records phase two of the segment body. The supply tube bore
// starts at boreFrom. The interior hollow spares the pocket cups, which
// are then bored out on their own.
func cutBody(c *Construction, p params.ParameterSet, boreFrom float64) {
	h, ih, ov := p.SegmentHeight, p.InterlockHeight, p.FuseOverlap
	chz := p.ChamferStartZ()
	cups := pocketCups(p)
	c.Cut("lower hollow", sdf.Difference3D(
		tubeZ(p.BodyInnerRadius(), p.SupplyTubeOuterRadius(), p.DripTrayDepth(), chz), cups))
	c.Cut("upper hollow", sdf.Difference3D(
		tubeZ(p.BodyInnerRadius(), p.MaleRingRadius, chz, h+ov), cups))
	c.Cut("supply tube bore", cylinderZ(p.SupplyTubeInnerRadius(), boreFrom, h+ih+ov))
	zg := h + ih/2
	c.Cut("o-ring groove", tubeZ(p.ORingGrooveOuterRadius(), p.ORingGrooveInnerRadius(),
		zg-p.ORingGrooveWidth/2, zg+p.ORingGrooveWidth/2))
	for _, pp := range Pockets(p) {
		cutPocket(c, p, pp)
	}
	cutDrainage(c, p)
}

// cutPocket records the bore, lip counterbore and bottom chamfer of one
// pocket. Bores run past the mouth until they open through the outer wall.
func cutPocket(c *Construction, p params.ParameterSet, pp PocketPlacement) {
	mouth, ww := p.PocketDepth/2, p.WaterWallThickness
	relief := p.PocketMouthRelief()
	r := p.PocketRadius()
	mid, length := spanned(-mouth+ww, mouth+relief)
	c.Cut(pocketLabel(pp, "bore"), inPocket(pp, mid, must3.Cylinder(length, r, 0)))
	mid, length = spanned(mouth-p.NetCupLipHeight, mouth+relief)
	c.Cut(pocketLabel(pp, "lip counterbore"), inPocket(pp, mid, must3.Cylinder(length, p.NetCupLipOD/2, 0)))
	// Conical floor that turns the flat pocket bottom into a printable slope.
	base := -(mouth - ww/2)
	cl := 0.5 * r
	c.Cut(pocketLabel(pp, "bottom chamfer"), inPocket(pp, base+cl/2, must3.Cone(cl, 0.1, 0.85*r, 0)))
}

// cutDrainage records the drip tray drain channels, sloped down toward
// the outer wall, and the drain holes through the floor.
func cutDrainage(c *Construction, p params.ParameterSet) {
	drip, ov := p.DripTrayDepth(), p.FuseOverlap
	ri := p.SupplyTubeOuterRadius() + p.WallThickness
	ro := p.BodyInnerRadius() - p.WallThickness
	mid, length := spanned(ri, ro)
	slope := p.ChannelMinSlopeDeg * math.Pi / 180
	step := 360 / float64(p.DrainHoles)
	for k := 0; k < p.DrainHoles; k++ {
		deg := float64(k) * step
		ch := slopedChannel(length, p.ChannelWidth, p.ChannelDepth, slope, drip, ov)
		c.Cut(fmt.Sprintf("drain channel %d", k), radial(ch, mid, deg, 0))
	}
	for k := 0; k < p.DrainHoles; k++ {
		deg := float64(k) * step
		hole := cylinderZ(p.DrainHoleDiameter/2, -ov, drip+ov)
		c.Cut(fmt.Sprintf("drain hole %d", k), translatePolar(hole, p.DrainHoleRadialPos, deg))
	}
}

// cutFemaleSocket records the socket on the segment underside that takes
// the male ring, supply tube extension and key of the segment below.
func cutFemaleSocket(c *Construction, p params.ParameterSet) {
	ih, ov := p.InterlockHeight, p.FuseOverlap
	c.Cut("female socket", cylinderZ(p.FemaleRingRadius(), -ov, ih))
	c.Cut("female key slot", femaleKeySlot(p, -ov, ih))
}

// maleKey is the alignment key tab at angle 0 on top of a body of height h.
// It reaches one overlap into the male ring, its outer face stays at
// MaleRingRadius + InterlockKeyDepth.
func maleKey(p params.ParameterSet, h float64) sdf.SDF3 {
	ov := p.FuseOverlap
	size := r3.Vec{X: p.InterlockKeyDepth + ov, Y: p.InterlockKeyWidth, Z: p.InterlockHeight}
	return radialBox(size, p.MaleRingRadius+(p.InterlockKeyDepth-ov)/2, 0, h+p.InterlockHeight/2)
}

// femaleKeySlot is the oversized keyway at FemaleKeyAngleDeg spanning z0..z1.
func femaleKeySlot(p params.ParameterSet, z0, z1 float64) sdf.SDF3 {
	cl := p.InterlockClearance
	size := r3.Vec{X: p.InterlockKeyDepth + 2*cl, Y: p.InterlockKeyWidth + 2*cl, Z: z1 - z0}
	return radialBox(size, p.MaleRingRadius+p.InterlockKeyDepth/2, FemaleKeyAngleDeg(p), (z0+z1)/2)
}

func pocketLabel(pp PocketPlacement, part string) string {
	return fmt.Sprintf("pocket %d %s", pp.Index, part)
}
