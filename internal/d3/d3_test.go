package d3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func TestRotationRightHanded(t *testing.T) {
	for _, test := range []struct {
		axis, in, want r3.Vec
	}{
		{axis: r3.Vec{Z: 1}, in: r3.Vec{X: 1}, want: r3.Vec{Y: 1}},
		{axis: r3.Vec{Y: 1}, in: r3.Vec{Z: 1}, want: r3.Vec{X: 1}},
		{axis: r3.Vec{X: 1}, in: r3.Vec{Y: 1}, want: r3.Vec{Z: 1}},
	} {
		got := Rotation(math.Pi/2, test.axis).Transform(test.in)
		if !EqualWithin(got, test.want, tol) {
			t.Errorf("rotate %v about %v: got %v, want %v", test.in, test.axis, got, test.want)
		}
	}
}

func TestTransformCompose(t *testing.T) {
	move := Translation(r3.Vec{X: 10, Z: 5})
	turn := Rotation(math.Pi/2, r3.Vec{Z: 1})
	// Mul applies the right operand first.
	got := move.Mul(turn).Transform(r3.Vec{X: 1})
	want := r3.Vec{X: 10, Y: 1, Z: 5}
	if !EqualWithin(got, want, tol) {
		t.Errorf("got %v, want %v", got, want)
	}
	if d := move.Mul(turn).Direction(r3.Vec{X: 1}); !EqualWithin(d, r3.Vec{Y: 1}, tol) {
		t.Errorf("direction ignores translation: got %v", d)
	}
}

func TestTransformInverse(t *testing.T) {
	tr := Translation(r3.Vec{X: 3, Y: -2, Z: 7}).
		Mul(Rotation(0.7, r3.Unit(r3.Vec{X: 1, Y: 2, Z: 3}))).
		Mul(Rotation(-1.1, r3.Vec{Y: 1}))
	if !tr.Inv().Mul(tr).EqualWithin(Transform{}, tol) {
		t.Error("t.Inv()*t is not the identity")
	}
	p := r3.Vec{X: 1.5, Y: -4, Z: 2}
	if got := tr.Inv().Transform(tr.Transform(p)); !EqualWithin(got, p, tol) {
		t.Errorf("round trip: got %v, want %v", got, p)
	}
	if math.Abs(tr.Det()-1) > tol {
		t.Errorf("rigid transform determinant %g", tr.Det())
	}
}

func TestSingular(t *testing.T) {
	flat := ComposeTransform(r3.Vec{}, r3.Vec{X: 1, Y: 1}, r3.Rotation{})
	if !flat.Singular() {
		t.Fatal("zero Z scale should be singular")
	}
	defer func() {
		if recover() == nil {
			t.Error("Inv of a singular transform did not panic")
		}
	}()
	flat.Inv()
}

func TestApplyBox(t *testing.T) {
	b := NewBox(r3.Vec{}, r3.Vec{X: 2, Y: 4, Z: 6})
	got := Rotation(math.Pi/2, r3.Vec{Z: 1}).ApplyBox(b)
	want := NewBox(r3.Vec{}, r3.Vec{X: 4, Y: 2, Z: 6})
	if !got.Equals(want, tol) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBox(t *testing.T) {
	b := NewBox(r3.Vec{X: 1}, r3.Vec{X: 2, Y: 2, Z: 2})
	if v := b.Volume(); math.Abs(v-8) > tol {
		t.Errorf("volume %g", v)
	}
	if !b.Contains(r3.Vec{X: 2, Y: 1, Z: -1}) {
		t.Error("corner not contained")
	}
	if d := b.Distance(r3.Vec{X: 5, Y: 5}); math.Abs(d-5) > tol {
		t.Errorf("distance %g, want 5", d)
	}
	if d := b.Distance(r3.Vec{X: 1}); d != 0 {
		t.Errorf("inside distance %g", d)
	}
	e := b.Include(r3.Vec{Z: 10})
	if e.Max.Z != 10 || e.Min != b.Min {
		t.Errorf("include: %v", e)
	}
}

func TestPolar(t *testing.T) {
	got := Polar(2, 90, 3)
	if !EqualWithin(got, r3.Vec{Y: 2, Z: 3}, tol) {
		t.Errorf("got %v", got)
	}
	if IsFinite(r3.Vec{X: math.Inf(1)}) || !IsFinite(got) {
		t.Error("IsFinite")
	}
}
