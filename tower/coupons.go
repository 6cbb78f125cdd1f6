package tower

import (
	"github.com/greenspire/goldentower/params"
	"gonum.org/v1/gonum/spatial/r3"
)

// planInterlockMale records the male half of the interlock fit test: the
// male ring with its key, O-ring groove and tube bore, standing on z=0.
func planInterlockMale(p params.ParameterSet) *Construction {
	c := NewConstruction(string(InterlockMale))
	ih, ov := p.InterlockHeight, p.FuseOverlap
	c.Add("male ring", cylinderZ(p.MaleRingRadius, 0, ih))
	c.Add("male key", maleKey(p, 0))
	c.Cut("tube bore", cylinderZ(p.SupplyTubeInnerRadius(), -ov, ih+ov))
	c.Cut("o-ring groove", tubeZ(p.ORingGrooveOuterRadius(), p.ORingGrooveInnerRadius(),
		ih/2-p.ORingGrooveWidth/2, ih/2+p.ORingGrooveWidth/2))
	return c
}

// planInterlockFemale records the female half: a block with the socket
// opening downward, a floor on top and the key slot at angle 0 so the
// coupons seat without turning.
func planInterlockFemale(p params.ParameterSet) *Construction {
	c := NewConstruction(string(InterlockFemale))
	ih, wall, ov := p.InterlockHeight, p.WallThickness, p.FuseOverlap
	cl := p.InterlockClearance
	c.Add("socket block", cylinderZ(p.FemaleRingRadius()+3*wall, 0, ih+wall))
	c.Cut("female socket", cylinderZ(p.FemaleRingRadius(), -ov, ih))
	c.Cut("female key slot", radialBox(
		r3.Vec{X: p.InterlockKeyDepth + 2*cl, Y: p.InterlockKeyWidth + 2*cl, Z: ih + ov},
		p.MaleRingRadius+p.InterlockKeyDepth/2, 0, (ih-ov)/2))
	c.Cut("tube bore", cylinderZ(p.SupplyTubeInnerRadius(), -ov, ih+wall+ov))
	return c
}
