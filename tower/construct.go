package tower

import (
	"errors"
	"fmt"

	"github.com/greenspire/goldentower/form3"
	"github.com/greenspire/goldentower/sdf"
)

var (
	// ErrUnionAfterCut is reported when an additive primitive is recorded
	// after the first subtractive one.
	ErrUnionAfterCut = errors.New("additive step after subtractive phase started")
	// ErrNoSolid is reported when a construction has no additive step.
	ErrNoSolid = errors.New("construction has no additive step")
)

// Phase tells whether a construction step adds or removes material.
type Phase int

const (
	Additive Phase = iota
	Subtractive
)

func (ph Phase) String() string {
	if ph == Subtractive {
		return "cut"
	}
	return "add"
}

// Step is one recorded primitive of a Construction.
type Step struct {
	Label string
	Phase Phase
}

func (s Step) String() string { return s.Phase.String() + " " + s.Label }

// Construction records a body as two ordered phases: every additive
// primitive first, so all material exists and fuses, then every
// subtractive primitive. A Construction is not safe for concurrent use.
type Construction struct {
	name  string
	adds  []sdf.SDF3
	cuts  []sdf.SDF3
	steps []Step
	err   error
}

// NewConstruction starts an empty construction of the named body.
func NewConstruction(name string) *Construction {
	return &Construction{name: name}
}

// Add records an additive primitive. Adding once the subtractive phase has
// started is a policy violation reported by Solid.
func (c *Construction) Add(label string, s sdf.SDF3) {
	if c.err != nil {
		return
	}
	if len(c.cuts) > 0 {
		c.err = fmt.Errorf("%w: %q", ErrUnionAfterCut, label)
		return
	}
	if s == nil {
		c.err = fmt.Errorf("nil solid for step %q", label)
		return
	}
	c.adds = append(c.adds, s)
	c.steps = append(c.steps, Step{Label: label, Phase: Additive})
}

// Cut records a subtractive primitive.
func (c *Construction) Cut(label string, s sdf.SDF3) {
	if c.err != nil {
		return
	}
	if s == nil {
		c.err = fmt.Errorf("nil solid for step %q", label)
		return
	}
	c.cuts = append(c.cuts, s)
	c.steps = append(c.steps, Step{Label: label, Phase: Subtractive})
}

// Steps returns the recorded steps in order.
func (c *Construction) Steps() []Step {
	return append([]Step(nil), c.steps...)
}

// Solid returns Difference(Union(adds), Union(cuts)). It returns a
// *form3.GeometryError and no body if the construction is invalid.
func (c *Construction) Solid() (sdf.SDF3, error) {
	if c.err != nil {
		return nil, form3.NewGeometryError(c.name, c.err)
	}
	if len(c.adds) == 0 {
		return nil, form3.NewGeometryError(c.name, ErrNoSolid)
	}
	body := sdf.Union3D(c.adds...)
	if len(c.cuts) == 0 {
		return body, nil
	}
	return sdf.Difference3D(body, sdf.Union3D(c.cuts...)), nil
}
