package sdf_test

import (
	"math"
	"testing"

	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/internal/d3"
	"github.com/greenspire/goldentower/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBoolean(t *testing.T) {
	a := must3.Box(r3.Vec{X: 10, Y: 10, Z: 10}, 0)
	b := sdf.Translate3D(must3.Sphere(3), r3.Vec{X: 5})
	union := sdf.Union3D(a, b)
	diff := sdf.Difference3D(a, b)
	inter := sdf.Intersect3D(a, b)
	for _, test := range []struct {
		name string
		s    sdf.SDF3
		p    r3.Vec
		want float64
	}{
		{"union box", union, r3.Vec{}, -5},
		{"union sphere", union, r3.Vec{X: 7}, -1},
		{"union outside", union, r3.Vec{X: 10}, 2},
		{"diff kept", diff, r3.Vec{X: -4}, -1},
		{"diff removed", diff, r3.Vec{X: 4}, 2},
		{"diff far", diff, r3.Vec{Z: 20}, 15},
		{"intersect inside", inter, r3.Vec{X: 4}, -1},
		{"intersect outside box", inter, r3.Vec{X: 6}, 1},
	} {
		if got := test.s.Evaluate(test.p); math.Abs(got-test.want) > 1e-9 {
			t.Errorf("%s: got %g, want %g", test.name, got, test.want)
		}
	}
	bb := d3.Box(union.Bounds())
	if !bb.Equals(d3.Box{Min: r3.Vec{X: -5, Y: -5, Z: -5}, Max: r3.Vec{X: 8, Y: 5, Z: 5}}, 1e-9) {
		t.Errorf("union bounds %v", bb)
	}
	ib := d3.Box(inter.Bounds())
	if !ib.Equals(d3.Box{Min: r3.Vec{X: 2, Y: -3, Z: -3}, Max: r3.Vec{X: 5, Y: 3, Z: 3}}, 1e-9) {
		t.Errorf("intersection bounds %v", ib)
	}
}

// Pruned union evaluation must match a plain minimum over all members.
func TestUnionPruning(t *testing.T) {
	var parts []sdf.SDF3
	for i := 0; i < 12; i++ {
		parts = append(parts, sdf.Translate3D(must3.Sphere(2), d3.Polar(20, float64(i)*30, float64(i))))
	}
	u := sdf.Union3D(parts...)
	for i := 0; i < 200; i++ {
		p := d3.Polar(float64(i%25), float64(i)*7.3, float64(i%13)-1)
		want := math.Inf(1)
		for _, s := range parts {
			want = math.Min(want, s.Evaluate(p))
		}
		if got := u.Evaluate(p); math.Abs(got-want) > 1e-9 {
			t.Fatalf("at %v: got %g, want %g", p, got, want)
		}
	}
}

func TestTransformRigid(t *testing.T) {
	cyl := must3.Cylinder(10, 1, 0)
	lying := sdf.Transform3D(cyl, d3.Rotation(math.Pi/2, r3.Vec{Y: 1}))
	if d := lying.Evaluate(r3.Vec{X: 4.5}); math.Abs(d+0.5) > 1e-9 {
		t.Errorf("rotated cylinder end: got %g, want -0.5", d)
	}
	bb := d3.Box(lying.Bounds())
	if sz := bb.Size(); math.Abs(sz.X-10) > 1e-9 || math.Abs(sz.Z-2) > 1e-9 {
		t.Errorf("rotated bounds size %v", sz)
	}
	scaled := sdf.ScaleUniform3D(must3.Sphere(1), 3)
	if d := scaled.Evaluate(r3.Vec{X: 5}); math.Abs(d-2) > 1e-9 {
		t.Errorf("scaled sphere: got %g, want 2", d)
	}
}

func TestPanics(t *testing.T) {
	for name, f := range map[string]func(){
		"empty union":    func() { sdf.Union3D() },
		"nil union":      func() { sdf.Union3D(must3.Sphere(1), nil) },
		"nil difference": func() { sdf.Difference3D(nil, must3.Sphere(1)) },
		"singular": func() {
			sdf.Transform3D(must3.Sphere(1), d3.ComposeTransform(r3.Vec{}, r3.Vec{}, r3.Rotation{}))
		},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic", name)
				}
			}()
			f()
		}()
	}
}

func TestAngles(t *testing.T) {
	for _, test := range []struct{ in, want float64 }{
		{0, 0}, {360, 0}, {-90, 270}, {725, 5}, {137.5, 137.5},
	} {
		if got := sdf.NormalizeDeg(test.in); math.Abs(got-test.want) > 1e-9 {
			t.Errorf("NormalizeDeg(%g) = %g, want %g", test.in, got, test.want)
		}
	}
	if math.Abs(sdf.RtoD(sdf.DtoR(33))-33) > 1e-12 {
		t.Error("degree round trip")
	}
	if sdf.Clamp(5, 0, 1) != 1 || sdf.Clamp(-1, 0, 1) != 0 {
		t.Error("Clamp")
	}
	if sdf.Empty(must3.Sphere(1)) {
		t.Error("sphere reported empty")
	}
	far := sdf.Intersect3D(must3.Sphere(1), sdf.Translate3D(must3.Sphere(1), r3.Vec{X: 10}))
	if !sdf.Empty(far) {
		t.Error("disjoint intersection not empty")
	}
}
