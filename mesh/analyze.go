package mesh

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/greenspire/goldentower/internal/d3"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ZeroAreaTolerance is the face area in mm² at or below which a face is
// counted as degenerate.
const ZeroAreaTolerance = 1e-9

// Report is the result of analyzing one mesh.
type Report struct {
	Name string
	Path string

	Triangles        int
	Vertices         int
	Edges            int
	BoundaryEdges    int
	NonManifoldEdges int
	ZeroAreaFaces    int
	NonFinite        int
	Shells           int

	Watertight        bool
	WindingConsistent bool

	Volume  float64
	Area    float64
	Bounds  r3.Box
	Extents r3.Vec

	// Size is the byte size check of a binary STL file, nil when the mesh
	// did not come from a file.
	Size *SizeCheck

	Failures []string
}

// Passed reports whether the mesh is printable.
func (r Report) Passed() bool { return len(r.Failures) == 0 }

func (r *Report) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

type edgeKey struct{ a, b int }

func undirected(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Analyze measures m and records every rule it breaks. A mesh is printable
// when it is watertight, consistently wound, encloses a positive volume and
// has no degenerate or non-finite faces.
func Analyze(name string, m *Mesh) Report {
	r := Report{Name: name}
	if m == nil {
		r.fail("%v", errNoMesh)
		return r
	}
	r.Triangles = len(m.Faces)
	r.Vertices = len(m.Vertices)

	// Each undirected edge counts its uses; each directed edge must be used
	// at most once, since a consistently wound neighbor traverses it backward.
	uses := make(map[edgeKey]int, 3*len(m.Faces)/2)
	directed := make(map[edgeKey]int, 3*len(m.Faces))
	shells := newUnionFind(len(m.Vertices))
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			uses[undirected(a, b)]++
			directed[edgeKey{a, b}]++
			shells.union(a, b)
		}
	}
	r.Edges = len(uses)
	for _, n := range uses {
		switch {
		case n == 1:
			r.BoundaryEdges++
		case n > 2:
			r.NonManifoldEdges++
		}
	}
	reversed := 0
	for _, n := range directed {
		if n > 1 {
			reversed++
		}
	}
	r.Watertight = r.Edges > 0 && r.BoundaryEdges == 0 && r.NonManifoldEdges == 0
	r.WindingConsistent = reversed == 0

	for _, v := range m.Vertices {
		if !finite(v) {
			r.NonFinite++
		}
	}
	roots := make(map[int]struct{})
	for _, f := range m.Faces {
		roots[shells.find(f[0])] = struct{}{}
	}
	r.Shells = len(roots)

	// Volume by the divergence theorem, summed in float64 about the first
	// vertex to keep the cancellation error small.
	var origin r3.Vec
	if len(m.Vertices) > 0 && finite(m.Vertices[0]) {
		origin = toR3(m.Vertices[0])
	}
	for i := range m.Faces {
		t := m.Triangle(i)
		a := r3.Sub(toR3(t[0]), origin)
		b := r3.Sub(toR3(t[1]), origin)
		c := r3.Sub(toR3(t[2]), origin)
		area := r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
		if math.IsNaN(area) || area <= ZeroAreaTolerance {
			r.ZeroAreaFaces++
		}
		if !math.IsNaN(area) && !math.IsInf(area, 0) {
			r.Area += area
			r.Volume += r3.Dot(a, r3.Cross(b, c)) / 6
		}
	}
	bb := m.Bounds()
	r.Bounds = r3.Box{Min: toR3(bb.Min), Max: toR3(bb.Max)}
	r.Extents = d3.Box(r.Bounds).Size()

	if !r.Watertight {
		r.fail("not watertight: %d boundary edges, %d non-manifold edges", r.BoundaryEdges, r.NonManifoldEdges)
	}
	if !r.WindingConsistent {
		r.fail("inconsistent winding: %d directed edges used twice", reversed)
	}
	if r.Volume <= 0 {
		r.fail("non-positive volume %.3f mm³", r.Volume)
	}
	if r.ZeroAreaFaces > 0 {
		r.fail("%d zero-area faces", r.ZeroAreaFaces)
	}
	if r.NonFinite > 0 {
		r.fail("%d non-finite vertices", r.NonFinite)
	}
	return r
}

func finite(v ms3.Vec) bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func toR3(v ms3.Vec) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}
