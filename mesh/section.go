package mesh

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Segment is one edge of a horizontal cross section, directed so the
// material lies on its left when viewed from +Z.
type Segment struct {
	A, B r2.Vec
}

// Section cuts m with the plane at height z. Vertices exactly on the plane
// count as above it so every crossing face contributes one segment.
func (m *Mesh) Section(z float64) []Segment {
	var segs []Segment
	for i := range m.Faces {
		t := m.Triangle(i)
		v := [3]r3.Vec{toR3(t[0]), toR3(t[1]), toR3(t[2])}
		var pts []r2.Vec
		for j := 0; j < 3; j++ {
			a, b := v[j], v[(j+1)%3]
			if (a.Z >= z) == (b.Z >= z) {
				continue
			}
			s := (z - a.Z) / (b.Z - a.Z)
			pts = append(pts, r2.Vec{X: a.X + s*(b.X-a.X), Y: a.Y + s*(b.Y-a.Y)})
		}
		if len(pts) != 2 {
			continue
		}
		n := r3.Cross(r3.Sub(v[1], v[0]), r3.Sub(v[2], v[0]))
		// Z × n points along the outer boundary counterclockwise.
		dir := r2.Vec{X: -n.Y, Y: n.X}
		seg := Segment{A: pts[0], B: pts[1]}
		if r2.Dot(r2.Sub(seg.B, seg.A), dir) < 0 {
			seg.A, seg.B = seg.B, seg.A
		}
		segs = append(segs, seg)
	}
	return segs
}

// SectionArea is the material area enclosed by directed segments. Outer
// loops count positive and holes negative.
func SectionArea(segs []Segment) float64 {
	var sum float64
	for _, s := range segs {
		sum += s.A.X*s.B.Y - s.B.X*s.A.Y
	}
	return sum / 2
}
