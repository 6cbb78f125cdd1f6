package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/greenspire/goldentower/form3"
	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/helpers/matter"
	"github.com/greenspire/goldentower/render"
	"github.com/greenspire/goldentower/sdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	l := Layout{Root: "out"}
	assert.Equal(t, filepath.Join("out", "stl", "segment.stl"), l.STLPath("segment"))
	assert.Equal(t, filepath.Join("out", "step", "segment.step"), l.STEPPath("segment"))
	assert.Equal(t, filepath.Join("out", "renders"), l.RenderDir())
	assert.Equal(t, filepath.Join("out", "reports"), l.ReportDir())
	assert.Equal(t, filepath.Join(DefaultRoot, "stl"), Layout{}.STLDir())
}

func TestExport(t *testing.T) {
	l := Layout{Root: t.TempDir()}
	opts := Options{MeshCells: 30, BuildID: "build-1", Time: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)}
	res, err := Export(l, "ball", must3.Sphere(10), opts)
	require.NoError(t, err)

	assert.Positive(t, res.Triangles)
	assert.Equal(t, render.STLSize(res.Triangles), res.STLBytes)
	assert.Positive(t, res.STEPBytes)
	assert.InDelta(t, 4188.8, res.Volume, 4188.8*0.05)
	assert.InDelta(t, 10, res.Bounds.Max.X, 0.5)

	f, err := os.Open(res.STLPath)
	require.NoError(t, err)
	defer f.Close()
	header, count, err := render.ReadSTLHeader(f)
	require.NoError(t, err)
	assert.Equal(t, "goldentower ball build-1", header)
	assert.EqualValues(t, res.Triangles, count)

	step, err := os.ReadFile(res.STEPPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(step), "ISO-10303-21;"))
	assert.Contains(t, string(step), "build-1")

	files, err := l.STLFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{res.STLPath}, files)
}

func TestExportMaterial(t *testing.T) {
	l := Layout{Root: t.TempDir()}
	plain, err := Export(l, "plain", must3.Sphere(10), Options{MeshCells: 30})
	require.NoError(t, err)
	pla, err := Export(l, "pla", must3.Sphere(10), Options{MeshCells: 30, Material: matter.PLA})
	require.NoError(t, err)
	assert.Greater(t, pla.Bounds.Max.X, plain.Bounds.Max.X)
}

func TestExportEmptyIsGeometryError(t *testing.T) {
	// Nothing is left of a sphere inside a larger one.
	body := sdf.Difference3D(must3.Sphere(5), must3.Sphere(10))
	_, err := Export(Layout{Root: t.TempDir()}, "nothing", body, Options{MeshCells: 10})
	require.Error(t, err)
	assert.True(t, form3.IsGeometryError(err))
	assert.ErrorIs(t, err, render.ErrEmptyMesh)
}

func TestExportBadCells(t *testing.T) {
	_, err := Tessellate("ball", must3.Sphere(1), Options{MeshCells: 1})
	assert.True(t, form3.IsGeometryError(err))
	_, err = Tessellate("nil", nil, Options{})
	assert.True(t, form3.IsGeometryError(err))
}

func TestExportIOErrorIsNotGeometry(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	_, err := Export(Layout{Root: blocker}, "ball", must3.Sphere(2), Options{MeshCells: 10})
	require.Error(t, err)
	assert.False(t, form3.IsGeometryError(err))
}
