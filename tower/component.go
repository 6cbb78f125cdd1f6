// Package tower builds the printable parts of the golden tower from a
// ParameterSet: pocket placement on the golden angle spiral, the two-phase
// construction policy and one builder per component.
package tower

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/greenspire/goldentower/form3"
	"github.com/greenspire/goldentower/params"
	"github.com/greenspire/goldentower/sdf"
)

// Component names a buildable part. The value is also the export file name.
type Component string

const (
	Segment         Component = "segment"
	BottomSegment   Component = "bottom_segment"
	TopCap          Component = "top_cap"
	InterlockMale   Component = "interlock_male"
	InterlockFemale Component = "interlock_female"
)

// ErrUnknownComponent is returned for a component name with no builder.
var ErrUnknownComponent = errors.New("unknown component")

var planners = map[Component]func(params.ParameterSet) *Construction{
	Segment:         planSegment,
	BottomSegment:   planBottomSegment,
	TopCap:          planTopCap,
	InterlockMale:   planInterlockMale,
	InterlockFemale: planInterlockFemale,
}

// Components lists every buildable component.
func Components() []Component {
	return []Component{Segment, BottomSegment, TopCap, InterlockMale, InterlockFemale}
}

// Tower lists the parts of an assembled tower, built by default.
func Tower() []Component {
	return []Component{Segment, BottomSegment, TopCap}
}

// Coupons lists the interlock fit test pieces.
func Coupons() []Component {
	return []Component{InterlockMale, InterlockFemale}
}

// Parse resolves a component name. Dashes are accepted for underscores.
func Parse(name string) (Component, error) {
	c := Component(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	if _, ok := planners[c]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownComponent, name)
	}
	return c, nil
}

// Plan records the construction steps of c without evaluating the body.
// Invalid primitive dimensions are returned as a *form3.GeometryError.
func Plan(c Component, p params.ParameterSet) (con *Construction, err error) {
	plan, ok := planners[c]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownComponent, string(c))
	}
	defer form3.Recover(string(c), &err)
	return plan(p), err
}

// Build validates p and returns the solid body of c. Geometry failures are
// returned as a *form3.GeometryError and never yield a partial body.
func Build(c Component, p params.ParameterSet) (sdf.SDF3, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid parameters: %w", c, err)
	}
	con, err := Plan(c, p)
	if err != nil {
		return nil, err
	}
	return con.Solid()
}

// Envelope is the nominal size of a component: the diameter of its widest
// circular feature and its height range along Z.
type Envelope struct {
	Diameter float64
	ZMin     float64
	ZMax     float64
}

// Height is ZMax - ZMin.
func (e Envelope) Height() float64 { return e.ZMax - e.ZMin }

// Nominal returns the envelope a correctly built component should fill.
// Visual checks compare meshed bounds against it.
func Nominal(c Component, p params.ParameterSet) Envelope {
	top := p.SegmentHeight + p.InterlockHeight
	switch c {
	case Segment:
		return Envelope{Diameter: p.SegmentOuterDiameter, ZMax: top}
	case BottomSegment:
		return Envelope{
			Diameter: p.SegmentOuterDiameter,
			ZMin:     -math.Max(p.QDBarbLength, p.LidRingHeight),
			ZMax:     top,
		}
	case TopCap:
		return Envelope{
			Diameter: 2 * p.CapOuterRadius(),
			ZMin:     -p.InterlockHeight,
			ZMax:     p.CapHeight - p.FuseOverlap + p.FinialDomeRadius,
		}
	case InterlockMale:
		return Envelope{Diameter: 2 * (p.MaleRingRadius + p.InterlockKeyDepth), ZMax: p.InterlockHeight}
	case InterlockFemale:
		return Envelope{
			Diameter: 2 * (p.FemaleRingRadius() + 3*p.WallThickness),
			ZMax:     p.InterlockHeight + p.WallThickness,
		}
	}
	return Envelope{}
}
