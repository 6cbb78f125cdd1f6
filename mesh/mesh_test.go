package mesh

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// cube returns the 12 outward wound triangles of an axis aligned cube of
// side s with a corner at the origin.
func cube(s float64) []render.Triangle3 {
	corner := func(i int) r3.Vec {
		return r3.Vec{X: s * float64(i&1), Y: s * float64(i>>1&1), Z: s * float64(i>>2&1)}
	}
	quads := [6][4]int{
		{0, 4, 6, 2}, {1, 3, 7, 5},
		{0, 1, 5, 4}, {2, 6, 7, 3},
		{0, 2, 3, 1}, {4, 5, 7, 6},
	}
	var model []render.Triangle3
	for _, q := range quads {
		a, b, c, d := corner(q[0]), corner(q[1]), corner(q[2]), corner(q[3])
		model = append(model,
			render.Triangle3{V: [3]r3.Vec{a, b, c}},
			render.Triangle3{V: [3]r3.Vec{a, c, d}})
	}
	return model
}

func mustMesh(t *testing.T, model []render.Triangle3) *Mesh {
	t.Helper()
	m, err := FromTriangles("cube", model)
	require.NoError(t, err)
	return m
}

func TestAnalyzeCube(t *testing.T) {
	m := mustMesh(t, cube(10))
	assert.Len(t, m.Vertices, 8)

	r := Analyze("cube", m)
	assert.True(t, r.Passed(), "failures: %v", r.Failures)
	assert.True(t, r.Watertight)
	assert.True(t, r.WindingConsistent)
	assert.Equal(t, 12, r.Triangles)
	assert.Equal(t, 18, r.Edges)
	assert.Equal(t, 1, r.Shells)
	assert.InDelta(t, 1000, r.Volume, 1e-6)
	assert.InDelta(t, 600, r.Area, 1e-6)
	assert.InDelta(t, 10, r.Extents.X, 1e-6)
	assert.InDelta(t, 10, r.Extents.Z, 1e-6)
}

func TestAnalyzeOpenMesh(t *testing.T) {
	model := cube(10)
	r := Analyze("open", mustMesh(t, model[:len(model)-1]))
	assert.False(t, r.Passed())
	assert.False(t, r.Watertight)
	assert.Equal(t, 3, r.BoundaryEdges)
}

func TestAnalyzeFlippedFace(t *testing.T) {
	model := cube(10)
	v := model[3].V
	model[3].V = [3]r3.Vec{v[0], v[2], v[1]}
	r := Analyze("flipped", mustMesh(t, model))
	assert.True(t, r.Watertight)
	assert.False(t, r.WindingConsistent)
	assert.False(t, r.Passed())
}

func TestAnalyzeInsideOut(t *testing.T) {
	model := cube(10)
	for i, tri := range model {
		model[i].V = [3]r3.Vec{tri.V[0], tri.V[2], tri.V[1]}
	}
	r := Analyze("inverted", mustMesh(t, model))
	assert.True(t, r.Watertight)
	assert.True(t, r.WindingConsistent)
	assert.InDelta(t, -1000, r.Volume, 1e-6)
	assert.False(t, r.Passed())
}

func TestAnalyzeDegenerate(t *testing.T) {
	model := cube(10)
	p := r3.Vec{X: 3}
	model = append(model, render.Triangle3{V: [3]r3.Vec{p, p, p}})
	r := Analyze("degenerate", mustMesh(t, model))
	assert.Equal(t, 1, r.ZeroAreaFaces)
	assert.False(t, r.Passed())

	model = cube(10)
	model[0].V[0].X = math.NaN()
	r = Analyze("nan", mustMesh(t, model))
	assert.Equal(t, 1, r.NonFinite)
	assert.False(t, r.Passed())
}

func TestTwoShells(t *testing.T) {
	model := cube(10)
	for _, tri := range cube(5) {
		for i := range tri.V {
			tri.V[i] = r3.Add(tri.V[i], r3.Vec{X: 20})
		}
		model = append(model, tri)
	}
	r := Analyze("pair", mustMesh(t, model))
	assert.True(t, r.Passed())
	assert.Equal(t, 2, r.Shells)
	assert.InDelta(t, 1125, r.Volume, 1e-6)
}

func TestLoadAndValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.stl")
	require.NoError(t, render.CreateSTL(good, "goldentower good test", cube(10)))
	m, err := Load(good)
	require.NoError(t, err)
	assert.False(t, m.ASCII)
	assert.Equal(t, "goldentower good test", m.Header)
	assert.Len(t, m.Faces, 12)

	truncated := filepath.Join(dir, "truncated.stl")
	b, err := os.ReadFile(good)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(truncated, b[:len(b)-10], 0o644))
	sc, err := CheckSize(truncated)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), sc.Count)
	assert.False(t, sc.OK())

	s := Validate([]string{good, truncated, filepath.Join(dir, "missing.stl")})
	require.Len(t, s.Reports, 3)
	assert.True(t, s.Reports[0].Passed(), "failures: %v", s.Reports[0].Failures)
	require.NotNil(t, s.Reports[0].Size)
	assert.True(t, s.Reports[0].Size.OK())
	assert.False(t, s.Reports[1].Passed())
	assert.False(t, s.Reports[2].Passed())
	assert.Len(t, s.Failed(), 2)
	assert.Equal(t, 1, s.ExitCode())

	assert.Equal(t, 0, Validate([]string{good}).ExitCode())
	assert.Equal(t, 1, Validate(nil).ExitCode())
}

func TestLoadASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	const text = `solid tri
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
endsolid tri
`
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	m, err := Load(path)
	require.NoError(t, err)
	assert.True(t, m.ASCII)
	assert.Equal(t, "tri", m.Name)

	r := ValidateFile(path)
	assert.False(t, r.Watertight)
	assert.Nil(t, r.Size)
	assert.False(t, r.Passed())
}

func TestSectionCube(t *testing.T) {
	m := mustMesh(t, cube(10))
	segs := m.Section(5)
	assert.NotEmpty(t, segs)
	assert.InDelta(t, 100, SectionArea(segs), 1e-6)
	assert.Empty(t, m.Section(11))
}

func TestSectionTube(t *testing.T) {
	model, err := render.RenderAll(render.NewOctreeRenderer(must3.Tube(20, 15, 10), 60))
	require.NoError(t, err)
	m := mustMesh(t, model)
	r := Analyze("tube", m)
	require.True(t, r.Passed(), "failures: %v", r.Failures)

	want := math.Pi * (15*15 - 10*10)
	got := SectionArea(m.Section(0.3))
	assert.InEpsilon(t, want, got, 0.05)
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "cube.stl")
	require.NoError(t, render.CreateSTL(good, "cube", cube(10)))
	s := Validate([]string{good, filepath.Join(dir, "missing.stl")})

	path := filepath.Join(dir, "validation.xlsx")
	require.NoError(t, WriteWorkbook(path, s))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "cube", rows[1][0])
	assert.Equal(t, "1000", rows[1][8])
	assert.Equal(t, "missing", rows[2][0])
}
