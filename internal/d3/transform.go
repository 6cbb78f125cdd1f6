package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is an affine 3D transformation made of a linear part and a
// translation. The zero value of Transform is the identity transform.
type Transform struct {
	// The diagonal of the linear part is stored with the identity
	// subtracted so that Transform{} is the identity:
	//  d00 = x00-1, d11 = x11-1, d22 = x22-1
	d00, x01, x02 float64
	x10, d11, x12 float64
	x20, x21, d22 float64
	// translation column.
	t r3.Vec
}

// Transform applies the Transform to the argument point.
func (t Transform) Transform(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z + t.t.X,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z + t.t.Y,
		Z: t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z + t.t.Z,
	}
}

// Direction applies only the linear part of the Transform to v.
func (t Transform) Direction(v r3.Vec) r3.Vec {
	return r3.Sub(t.Transform(v), t.t)
}

// Translation returns a pure translation Transform.
func Translation(v r3.Vec) Transform {
	return Transform{t: v}
}

// Rotation returns a Transform rotating by angle radians about axis.
func Rotation(angle float64, axis r3.Vec) Transform {
	return ComposeTransform(r3.Vec{}, Elem(1), r3.NewRotation(angle, axis))
}

// ComposeTransform creates a new transform for a given translation to
// position, scaling vector scale and quaternion rotation, applied in the
// order scale, rotate, translate. The identity Transform is constructed with
//
//	ComposeTransform(r3.Vec{}, Elem(1), r3.Rotation{})
func ComposeTransform(position, scale r3.Vec, q r3.Rotation) Transform {
	if q == (r3.Rotation{}) {
		q.Real = 1
	}
	x2 := q.Imag + q.Imag
	y2 := q.Jmag + q.Jmag
	z2 := q.Kmag + q.Kmag
	xx := q.Imag * x2
	yy := q.Jmag * y2
	zz := q.Kmag * z2
	xy := q.Imag * y2
	xz := q.Imag * z2
	yz := q.Jmag * z2
	wx := q.Real * x2
	wy := q.Real * y2
	wz := q.Real * z2

	var t Transform
	t.d00 = (1-(yy+zz))*scale.X - 1
	t.x10 = (xy + wz) * scale.X
	t.x20 = (xz - wy) * scale.X

	t.x01 = (xy - wz) * scale.Y
	t.d11 = (1-(xx+zz))*scale.Y - 1
	t.x21 = (yz + wx) * scale.Y

	t.x02 = (xz + wy) * scale.Z
	t.x12 = (yz - wx) * scale.Z
	t.d22 = (1-(xx+yy))*scale.Z - 1

	t.t = position
	return t
}

// Translate returns the Transform followed by a translation of v.
func (t Transform) Translate(v r3.Vec) Transform {
	t.t = r3.Add(t.t, v)
	return t
}

// Mul returns the composition t*b, which applies b first and then t.
func (t Transform) Mul(b Transform) Transform {
	if t == (Transform{}) {
		return b
	}
	if b == (Transform{}) {
		return t
	}
	x00, x11, x22 := t.d00+1, t.d11+1, t.d22+1
	y00, y11, y22 := b.d00+1, b.d11+1, b.d22+1
	var m Transform
	m.d00 = x00*y00 + t.x01*b.x10 + t.x02*b.x20 - 1
	m.x01 = x00*b.x01 + t.x01*y11 + t.x02*b.x21
	m.x02 = x00*b.x02 + t.x01*b.x12 + t.x02*y22

	m.x10 = t.x10*y00 + x11*b.x10 + t.x12*b.x20
	m.d11 = t.x10*b.x01 + x11*y11 + t.x12*b.x21 - 1
	m.x12 = t.x10*b.x02 + x11*b.x12 + t.x12*y22

	m.x20 = t.x20*y00 + t.x21*b.x10 + x22*b.x20
	m.x21 = t.x20*b.x01 + t.x21*y11 + x22*b.x21
	m.d22 = t.x20*b.x02 + t.x21*b.x12 + x22*y22 - 1

	m.t = t.Transform(b.t)
	return m
}

// Det returns the determinant of the linear part of the Transform.
func (t Transform) Det() float64 {
	x00, x11, x22 := t.d00+1, t.d11+1, t.d22+1
	return x00*(x11*x22-t.x12*t.x21) -
		t.x01*(t.x10*x22-t.x12*t.x20) +
		t.x02*(t.x10*t.x21-x11*t.x20)
}

// Singular reports whether the Transform cannot be inverted.
func (t Transform) Singular() bool {
	return math.Abs(t.Det()) < 1e-12
}

// Inv returns the inverse of the transform such that
// t.Inv().Mul(t) is the identity Transform.
// Inv panics if the Transform is singular.
func (t Transform) Inv() Transform {
	if t == (Transform{}) {
		return t
	}
	det := t.Det()
	if math.Abs(det) < 1e-12 {
		panic("singular transform has no inverse")
	}
	d := 1 / det
	x00, x11, x22 := t.d00+1, t.d11+1, t.d22+1
	var m Transform
	m.d00 = (x11*x22-t.x12*t.x21)*d - 1
	m.x01 = (t.x02*t.x21 - t.x01*x22) * d
	m.x02 = (t.x01*t.x12 - t.x02*x11) * d

	m.x10 = (t.x12*t.x20 - t.x10*x22) * d
	m.d11 = (x00*x22-t.x02*t.x20)*d - 1
	m.x12 = (t.x02*t.x10 - x00*t.x12) * d

	m.x20 = (t.x10*t.x21 - x11*t.x20) * d
	m.x21 = (t.x01*t.x20 - x00*t.x21) * d
	m.d22 = (x00*x11-t.x01*t.x10)*d - 1

	m.t = r3.Scale(-1, m.Direction(t.t))
	return m
}

// ApplyBox returns the axis aligned box enclosing the transformed
// corners of b.
func (t Transform) ApplyBox(b Box) Box {
	if t == (Transform{}) {
		return b
	}
	v := b.Vertices()
	for i := range v {
		v[i] = t.Transform(v[i])
	}
	return Box{Min: v.Min(), Max: v.Max()}
}

// EqualWithin tests the equality of the Transforms to within a tolerance.
func (t Transform) EqualWithin(b Transform, tol float64) bool {
	return math.Abs(t.d00-b.d00) <= tol &&
		math.Abs(t.x01-b.x01) <= tol &&
		math.Abs(t.x02-b.x02) <= tol &&
		math.Abs(t.x10-b.x10) <= tol &&
		math.Abs(t.d11-b.d11) <= tol &&
		math.Abs(t.x12-b.x12) <= tol &&
		math.Abs(t.x20-b.x20) <= tol &&
		math.Abs(t.x21-b.x21) <= tol &&
		math.Abs(t.d22-b.d22) <= tol &&
		EqualWithin(t.t, b.t, tol)
}
