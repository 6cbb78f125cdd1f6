package form3_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/greenspire/goldentower/form3"
	"github.com/greenspire/goldentower/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPrimitiveDistances(t *testing.T) {
	for _, test := range []struct {
		name string
		d    float64
		want float64
	}{
		{"box face", must3.Box(r3.Vec{X: 4, Y: 2, Z: 2}, 0).Evaluate(r3.Vec{X: 3}), 1},
		{"box inside", must3.Box(r3.Vec{X: 4, Y: 2, Z: 2}, 0).Evaluate(r3.Vec{}), -1},
		{"box edge", must3.Box(r3.Vec{X: 2, Y: 2, Z: 2}, 0).Evaluate(r3.Vec{X: 4, Y: 5}), 5},
		{"cylinder side", must3.Cylinder(10, 2, 0).Evaluate(r3.Vec{Y: 5}), 3},
		{"cylinder cap", must3.Cylinder(10, 2, 0).Evaluate(r3.Vec{Z: 7}), 2},
		{"tube bore", must3.Tube(10, 5, 3).Evaluate(r3.Vec{}), 3},
		{"tube wall", must3.Tube(10, 5, 3).Evaluate(r3.Vec{X: 4}), -1},
		{"tube outside", must3.Tube(10, 5, 3).Evaluate(r3.Vec{Y: 8}), 3},
		{"cone base", must3.Cone(10, 4, 2, 0).Evaluate(r3.Vec{Z: -6}), 1},
		{"cone axis", must3.Cone(10, 4, 2, 0).Evaluate(r3.Vec{}), -2.9417420270727606},
		{"sphere", must3.Sphere(2).Evaluate(r3.Vec{X: 3, Y: 4}), 3},
	} {
		if math.Abs(test.d-test.want) > 1e-9 {
			t.Errorf("%s: got %g, want %g", test.name, test.d, test.want)
		}
	}
}

func TestThreadRidge(t *testing.T) {
	const radius, pitch, depth = 20., 3., 1.5
	th := must3.Thread(12, radius, pitch, depth)
	// The ridge crest sits at root radius + depth on the thread line and
	// the gap between turns is empty at the root radius.
	var inside, outside int
	for i := 0; i < 360; i++ {
		theta := float64(i) * math.Pi / 180
		s, c := math.Sincos(theta)
		z := pitch * theta / (2 * math.Pi)
		crest := r3.Vec{X: (radius + 0.2) * c, Y: (radius + 0.2) * s, Z: z - 3}
		gap := r3.Vec{X: (radius + 0.2) * c, Y: (radius + 0.2) * s, Z: z - 3 + pitch/2}
		if th.Evaluate(crest) < 0 {
			inside++
		}
		if th.Evaluate(gap) > 0 {
			outside++
		}
	}
	if inside != 360 || outside != 360 {
		t.Errorf("crest inside %d/360, gap outside %d/360", inside, outside)
	}
	if d := th.Evaluate(r3.Vec{}); d <= 0 {
		t.Errorf("thread axis is solid: %g", d)
	}
}

func TestGeometryError(t *testing.T) {
	for name, f := range map[string]func() error{
		"box":      func() error { _, err := form3.Box(r3.Vec{X: 1, Y: -1, Z: 1}, 0); return err },
		"sphere":   func() error { _, err := form3.Sphere(0); return err },
		"cylinder": func() error { _, err := form3.Cylinder(-1, 2, 0); return err },
		"tube":     func() error { _, err := form3.Tube(5, 2, 3); return err },
		"cone":     func() error { _, err := form3.Cone(5, 0, 0, 0); return err },
		"thread":   func() error { _, err := form3.Thread(5, 2, 1, 3); return err },
	} {
		err := f()
		if err == nil {
			t.Errorf("%s: no error for invalid arguments", name)
			continue
		}
		var ge *form3.GeometryError
		if !errors.As(err, &ge) {
			t.Errorf("%s: %T is not a GeometryError", name, err)
			continue
		}
		if ge.Op != name || ge.Stack == "" {
			t.Errorf("%s: op %q, stack captured %v", name, ge.Op, ge.Stack != "")
		}
		if !strings.HasPrefix(err.Error(), "geometry "+name+": ") {
			t.Errorf("%s: message %q", name, err)
		}
	}
	s, err := form3.Tube(5, 3, 2)
	if err != nil || s == nil {
		t.Fatalf("valid tube: %v", err)
	}
}

func TestRecoverKeepsGeometryError(t *testing.T) {
	inner := form3.NewGeometryError("segment", errors.New("no body"))
	err := func() (err error) {
		defer form3.Recover("tower", &err)
		panic(inner)
	}()
	if err != inner {
		t.Errorf("got %v, want the original error", err)
	}
	if !form3.IsGeometryError(err) || form3.IsGeometryError(errors.New("plain")) {
		t.Error("IsGeometryError")
	}
	cause := errors.Unwrap(err)
	if cause == nil || cause.Error() != "no body" {
		t.Errorf("unwrap: %v", cause)
	}
}
