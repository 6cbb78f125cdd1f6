package params

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Validate checks the hard invariants of the parameter set. Every violation
// is reported; the returned error joins them.
func (p ParameterSet) Validate() error {
	var errs []error
	v := reflect.ValueOf(p)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		switch x := v.Field(i).Interface().(type) {
		case float64:
			if !(x > 0) || math.IsInf(x, 0) {
				errs = append(errs, fmt.Errorf("%s must be a positive length, got %g", f.Name, x))
			}
		case int:
			if x < 1 {
				errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", f.Name, x))
			}
		case [3]float64:
			for j, c := range x {
				if !(c > 0) {
					errs = append(errs, fmt.Errorf("%s[%d] must be positive, got %g", f.Name, j, c))
				}
			}
		}
	}
	if p.NodesPerSegment >= 1 {
		rot := p.InterlockRotationDeg()
		if rot <= 0.1 {
			errs = append(errs, fmt.Errorf("interlock rotation %.4f° is too close to 0: segments would have no unique seating", rot))
		} else if math.Mod(360, rot) <= 0.1 {
			errs = append(errs, fmt.Errorf("interlock rotation %.4f° evenly divides 360°: reassembly would be ambiguous", rot))
		}
	}
	if p.LidAttachment != LidBayonet && p.LidAttachment != LidThreaded {
		errs = append(errs, fmt.Errorf("lid attachment %q is neither %q nor %q", p.LidAttachment, LidBayonet, LidThreaded))
	}
	if p.CentralTubeID >= p.CentralTubeOD {
		errs = append(errs, fmt.Errorf("central tube ID %g must be below OD %g", p.CentralTubeID, p.CentralTubeOD))
	}
	if p.SupplyTubeID() <= 0 {
		errs = append(errs, fmt.Errorf("water wall %g leaves no supply tube bore", p.WaterWallThickness))
	}
	if p.MaleRingRadius <= p.SupplyTubeOuterRadius() {
		errs = append(errs, fmt.Errorf("male ring radius %g must exceed supply tube radius %g", p.MaleRingRadius, p.SupplyTubeOuterRadius()))
	}
	if p.BodyInnerRadius() <= p.MaleRingRadius {
		errs = append(errs, fmt.Errorf("body inner radius %g must exceed male ring radius %g", p.BodyInnerRadius(), p.MaleRingRadius))
	}
	if p.ChamferStartZ() <= p.DripTrayDepth() {
		errs = append(errs, fmt.Errorf("male ring chamfer start %g must be above the drip tray %g", p.ChamferStartZ(), p.DripTrayDepth()))
	}
	if p.LidRingID()/2 <= p.QDBarbRadius()+p.QDBarbRidgeHeight {
		errs = append(errs, fmt.Errorf("lid ring bore %g does not clear the QD barb", p.LidRingID()))
	}
	if p.PocketDepth <= p.WaterWallThickness {
		errs = append(errs, fmt.Errorf("pocket depth %g must exceed the water wall %g", p.PocketDepth, p.WaterWallThickness))
	}
	if p.PocketTiltDeg >= 90 {
		errs = append(errs, fmt.Errorf("pocket tilt %g° must be below 90°", p.PocketTiltDeg))
	}
	return errors.Join(errs...)
}

// Severity grades a Finding.
type Severity int

const (
	Pass Severity = iota
	Warn
	Fail
)

func (s Severity) String() string {
	switch s {
	case Pass:
		return "PASS"
	case Warn:
		return "WARN"
	case Fail:
		return "FAIL"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText lets findings print by name in YAML and logs.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	for _, v := range []Severity{Pass, Warn, Fail} {
		if strings.EqualFold(string(b), v.String()) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", b)
}

// Finding is the outcome of one advisory printability or assembly rule.
type Finding struct {
	Rule     string   `yaml:"rule"`
	Severity Severity `yaml:"severity"`
	Detail   string   `yaml:"detail"`
}

// Findings evaluates the advisory design rules. Findings never block a build.
func (p ParameterSet) Findings() []Finding {
	var out []Finding
	check := func(rule string, ok bool, onFail Severity, format string, args ...interface{}) {
		f := Finding{Rule: rule, Severity: Pass, Detail: fmt.Sprintf(format, args...)}
		if !ok {
			f.Severity = onFail
		}
		out = append(out, f)
	}
	fits := func(x, y, z float64) bool {
		return x <= p.BuildVolume[0] && y <= p.BuildVolume[1] && z <= p.BuildVolume[2]
	}
	// Products of decimal settings are compared with a small tolerance.
	atLeast := func(a, b float64) bool { return a >= b-1e-9 }
	nozzle2 := p.NozzleDiameter * 2

	h := p.TotalTowerHeight()
	check("tower-height", h >= 500 && h <= 2000, Fail, "total height %.1f mm in [500, 2000]", h)
	n := p.TargetSegmentCount
	check("segment-count", n >= 6 && n <= 10, Fail, "segment count %d in [6, 10]", n)
	np := p.TotalPockets()
	check("pocket-count", np >= 18 && np <= 30, Fail, "total pockets %d in [18, 30]", np)
	check("golden-angle", GoldenAngleDeg > 30, Fail, "golden angle %.3f° > 30°", GoldenAngleDeg)
	pitch := p.NodeVerticalPitch()
	check("node-pitch", pitch >= 25, Fail, "node pitch %.1f mm >= 25 mm for plant spacing", pitch)
	check("interlock-clearance", p.InterlockClearance >= 0.1 && p.InterlockClearance <= 0.5, Fail,
		"clearance %.2f mm in [0.1, 0.5]", p.InterlockClearance)
	check("interlock-height", p.InterlockHeight >= 5, Fail, "interlock height %.1f mm >= 5 mm", p.InterlockHeight)
	check("key-width", atLeast(p.InterlockKeyWidth, nozzle2), Fail, "key width %.2f mm >= %.2f mm (2 nozzle widths)", p.InterlockKeyWidth, nozzle2)
	check("key-depth", atLeast(p.InterlockKeyDepth, 2*p.LayerHeight), Fail, "key depth %.2f mm >= %.2f mm (2 layers)", p.InterlockKeyDepth, 2*p.LayerHeight)

	d := p.SegmentOuterDiameter
	check("segment-fits", fits(d, d, p.SegmentHeight+p.InterlockHeight), Fail,
		"segment %.0f x %.0f x %.0f mm within build volume", d, d, p.SegmentHeight+p.InterlockHeight)
	cd := 2 * p.CapOuterRadius()
	ch := p.CapHeight + p.FinialDomeRadius + p.InterlockHeight
	check("cap-fits", fits(cd, cd, ch), Fail, "top cap %.0f x %.0f x %.0f mm within build volume", cd, cd, ch)
	bd := math.Max(d, p.ReservoirLidOD+2*p.LugDepth)
	bh := p.SegmentHeight + p.InterlockHeight + math.Max(p.QDBarbLength, p.LidRingHeight)
	check("bottom-fits", fits(bd, bd, bh), Fail, "bottom segment %.0f x %.0f x %.0f mm within build volume", bd, bd, bh)

	minWall := float64(p.MinPerimeters) * p.NozzleDiameter * 2
	check("wall-thickness", atLeast(p.WallThickness, minWall), Fail, "wall %.2f mm >= %.2f mm", p.WallThickness, minWall)
	minWater := float64(p.WaterPerimeters) * p.NozzleDiameter * 2
	check("water-wall-thickness", atLeast(p.WaterWallThickness, minWater), Fail, "water wall %.2f mm >= %.2f mm", p.WaterWallThickness, minWater)
	check("tube-wall", atLeast(p.CentralTubeWall(), p.WallThickness), Fail, "tube wall %.2f mm >= wall %.2f mm", p.CentralTubeWall(), p.WallThickness)

	outerEdge := p.PocketRadialOffset + p.PocketRadius()
	check("pocket-outer-edge", outerEdge <= p.SegmentOuterRadius(), Warn,
		"pocket outer edge %.1f mm within outer radius %.1f mm (pockets protrude by design)", outerEdge, p.SegmentOuterRadius())
	innerEdge := p.PocketRadialOffset - p.PocketRadius()
	minInner := p.CentralTubeOD/2 + p.WallThickness
	check("pocket-inner-edge", innerEdge >= minInner, Fail, "pocket inner edge %.1f mm >= %.1f mm", innerEdge, minInner)
	check("pocket-fits-net-cup", p.PocketDiameter >= p.NetCupOD, Fail, "pocket %.1f mm >= net cup %.1f mm", p.PocketDiameter, p.NetCupOD)
	check("parastichy", np >= 15, Warn, "%d nodes >= 15 for a visible parastichy pattern", np)
	ov := p.CapInnerConeOverhangDeg()
	check("cap-overhang", ov <= p.MaxOverhangDeg, Warn, "cap inner cone overhang %.1f° <= %.1f°", ov, p.MaxOverhangDeg)
	return out
}

// Worst returns the highest severity among findings.
func Worst(findings []Finding) Severity {
	w := Pass
	for _, f := range findings {
		if f.Severity > w {
			w = f.Severity
		}
	}
	return w
}
