package render

import (
	"github.com/greenspire/goldentower/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// marchingTetMaxTriangles is the most triangles a leaf cube can emit: two
// per tetrahedron.
const marchingTetMaxTriangles = 2 * len(kuhnTets)

// kuhnTets splits a cube into six tetrahedra along the 0-7 diagonal. Corner
// i has bit 0 set for +x, bit 1 for +y and bit 2 for +z. Each tetrahedron
// walks from corner 0 to corner 7 one axis at a time.
var kuhnTets = [6][4]int{
	{0, 1, 3, 7},
	{0, 1, 5, 7},
	{0, 2, 3, 7},
	{0, 2, 6, 7},
	{0, 4, 5, 7},
	{0, 4, 6, 7},
}

type latticePoint struct {
	vi  sdf.V3i
	pos r3.Vec
	d   float64
}

func (p *latticePoint) inside() bool { return p.d < 0 }

// mtCube writes the triangles of a leaf cube to dst and returns how many.
func mtCube(dst []Triangle3, corners *[8]latticePoint) (n int) {
	for _, tet := range kuhnTets {
		n += mtTet(dst[n:], &corners[tet[0]], &corners[tet[1]], &corners[tet[2]], &corners[tet[3]])
	}
	return n
}

func mtTet(dst []Triangle3, a, b, c, d *latticePoint) int {
	var in, out [4]*latticePoint
	var nin, nout int
	for _, p := range [4]*latticePoint{a, b, c, d} {
		if p.inside() {
			in[nin] = p
			nin++
		} else {
			out[nout] = p
			nout++
		}
	}
	// direction from the solid toward the outside, used to wind triangles.
	var mi, mo r3.Vec
	for _, p := range in[:nin] {
		mi = r3.Add(mi, p.pos)
	}
	for _, p := range out[:nout] {
		mo = r3.Add(mo, p.pos)
	}
	switch nin {
	case 1, 3:
		// one corner separated from the other three.
		var apex *latticePoint
		var base [3]*latticePoint
		if nin == 1 {
			apex, base = in[0], [3]*latticePoint{out[0], out[1], out[2]}
		} else {
			apex, base = out[0], [3]*latticePoint{in[0], in[1], in[2]}
		}
		outward := r3.Sub(r3.Scale(1/float64(nout), mo), r3.Scale(1/float64(nin), mi))
		dst[0] = oriented(Triangle3{V: [3]r3.Vec{
			edgePoint(apex, base[0]),
			edgePoint(apex, base[1]),
			edgePoint(apex, base[2]),
		}}, outward)
		return 1
	case 2:
		outward := r3.Sub(r3.Scale(0.5, mo), r3.Scale(0.5, mi))
		p00 := edgePoint(in[0], out[0])
		p01 := edgePoint(in[0], out[1])
		p11 := edgePoint(in[1], out[1])
		p10 := edgePoint(in[1], out[0])
		// Wind the quad p00 p01 p11 p10 as a whole so both halves agree.
		n := r3.Cross(r3.Sub(p11, p00), r3.Sub(p10, p01))
		if r3.Dot(n, outward) < 0 {
			p01, p10 = p10, p01
		}
		dst[0] = Triangle3{V: [3]r3.Vec{p00, p01, p11}}
		dst[1] = Triangle3{V: [3]r3.Vec{p00, p11, p10}}
		return 2
	}
	return 0
}

// oriented flips t if its normal points against outward.
func oriented(t Triangle3, outward r3.Vec) Triangle3 {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	if r3.Dot(n, outward) < 0 {
		t.V[1], t.V[2] = t.V[2], t.V[1]
	}
	return t
}

// edgePoint interpolates the zero crossing on the lattice edge a-b. The
// endpoints are put in lattice order first so both tetrahedra sharing the
// edge compute bit-identical points. The parameter is kept away from the
// endpoints so no triangle collapses.
func edgePoint(a, b *latticePoint) r3.Vec {
	if b.vi.Less(a.vi) {
		a, b = b, a
	}
	t := a.d / (a.d - b.d)
	t = sdf.Clamp(t, 0.05, 0.95)
	return r3.Add(a.pos, r3.Scale(t, r3.Sub(b.pos, a.pos)))
}
