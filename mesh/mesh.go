// Package mesh loads exported STL files and checks them independently of
// the code that produced them: watertightness, winding, volume, size and
// horizontal sections.
package mesh

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/greenspire/goldentower/render"
	"github.com/hschendel/stl"
	"github.com/soypat/glgl/math/ms3"
)

// Mesh is an indexed triangle mesh. Vertices are welded by exact float32
// equality, the precision STL stores them in.
type Mesh struct {
	Name     string
	Header   string
	ASCII    bool
	Vertices []ms3.Vec
	Faces    [][3]int
}

// Load reads a binary or ASCII STL file and welds it.
func Load(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(solid.Triangles) == 0 {
		return nil, fmt.Errorf("read %s: %w", path, render.ErrEmptyMesh)
	}
	w := newWelder(len(solid.Triangles))
	for _, t := range solid.Triangles {
		var f [3]int
		for i, v := range t.Vertices {
			f[i] = w.index(ms3.Vec{X: v[0], Y: v[1], Z: v[2]})
		}
		w.faces = append(w.faces, f)
	}
	m := w.mesh()
	m.Name = solid.Name
	m.ASCII = solid.IsAscii
	if !solid.IsAscii {
		m.Header = strings.TrimRight(string(solid.BinaryHeader), "\x00 ")
	}
	return m, nil
}

// FromTriangles welds an in-memory model the same way Load welds a file,
// after rounding to float32.
func FromTriangles(name string, model []render.Triangle3) (*Mesh, error) {
	if len(model) == 0 {
		return nil, render.ErrEmptyMesh
	}
	w := newWelder(len(model))
	for _, t := range model {
		var f [3]int
		for i, v := range t.V {
			f[i] = w.index(ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)})
		}
		w.faces = append(w.faces, f)
	}
	m := w.mesh()
	m.Name = name
	return m, nil
}

// Triangle returns face i.
func (m *Mesh) Triangle(i int) ms3.Triangle {
	f := m.Faces[i]
	return ms3.Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// Bounds returns the axis aligned bounds of the vertices.
func (m *Mesh) Bounds() ms3.Box {
	if len(m.Vertices) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		bb.Min = ms3.Vec{X: math32.Min(bb.Min.X, v.X), Y: math32.Min(bb.Min.Y, v.Y), Z: math32.Min(bb.Min.Z, v.Z)}
		bb.Max = ms3.Vec{X: math32.Max(bb.Max.X, v.X), Y: math32.Max(bb.Max.Y, v.Y), Z: math32.Max(bb.Max.Z, v.Z)}
	}
	return bb
}

var errNoMesh = errors.New("nil mesh")

type welder struct {
	index_ map[ms3.Vec]int
	verts  []ms3.Vec
	faces  [][3]int
}

func newWelder(ntri int) *welder {
	return &welder{
		index_: make(map[ms3.Vec]int, ntri/2),
		verts:  make([]ms3.Vec, 0, ntri/2),
		faces:  make([][3]int, 0, ntri),
	}
}

// index returns the vertex index of v. NaN never compares equal, so every
// non-finite vertex stays unwelded and is reported by Analyze.
func (w *welder) index(v ms3.Vec) int {
	if i, ok := w.index_[v]; ok {
		return i
	}
	i := len(w.verts)
	w.verts = append(w.verts, v)
	w.index_[v] = i
	return i
}

func (w *welder) mesh() *Mesh {
	return &Mesh{Vertices: w.verts, Faces: w.faces}
}
