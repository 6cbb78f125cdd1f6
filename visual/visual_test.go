package visual

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/mesh"
	"github.com/greenspire/goldentower/params"
	"github.com/greenspire/goldentower/render"
	"github.com/greenspire/goldentower/tower"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"gonum.org/v1/plot/cmpimg"
)

// tube meshes a 20 mm tall tube of radii 15 and 10 centered on the origin.
func tube(t *testing.T) (*mesh.Mesh, mesh.Report) {
	t.Helper()
	model, err := render.RenderAll(render.NewOctreeRenderer(must3.Tube(20, 15, 10), 40))
	require.NoError(t, err)
	m, err := mesh.FromTriangles("tube", model)
	require.NoError(t, err)
	r := mesh.Analyze("tube", m)
	require.True(t, r.Passed(), "failures: %v", r.Failures)
	return m, r
}

func TestComposeViews(t *testing.T) {
	m, _ := tube(t)
	opts := RenderOptions{Tile: 96, Supersample: 1}
	img, err := ComposeViews(m, "tube", opts)
	require.NoError(t, err)
	assert.Equal(t, 2*96, img.Bounds().Dx())
	assert.Equal(t, 2*96+bannerHeight, img.Bounds().Dy())
	// The banner is filled with the sheet background.
	bg := color.RGBAModel.Convert(background.NRGBA())
	assert.Equal(t, bg, img.At(2*96-1, 1))
	assert.Equal(t, bg, img.At(2*96-1, bannerHeight-1))

	again, err := ComposeViews(m, "tube", opts)
	require.NoError(t, err)
	var b1, b2 bytes.Buffer
	require.NoError(t, png.Encode(&b1, img))
	require.NoError(t, png.Encode(&b2, again))
	equal, err := cmpimg.EqualApprox("png", b1.Bytes(), b2.Bytes(), 0.01)
	require.NoError(t, err)
	assert.True(t, equal, "renders of the same mesh differ")

	_, err = ComposeViews(&mesh.Mesh{}, "empty", opts)
	assert.Error(t, err)
}

func TestRenderViewsFile(t *testing.T) {
	m, _ := tube(t)
	path := filepath.Join(t.TempDir(), "tube_ortho.png")
	require.NoError(t, RenderViews(m, path, "tube", RenderOptions{Tile: 64}))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Width)
}

func TestSlices(t *testing.T) {
	m, _ := tube(t)
	slices := Slices(m, []float64{0.5})
	require.Len(t, slices, 1)
	assert.InDelta(t, 0, slices[0].Z, 0.5)
	want := math.Pi * (15*15 - 10*10)
	assert.InEpsilon(t, want, slices[0].Area(), 0.06)
}

func TestPlotSections(t *testing.T) {
	m, _ := tube(t)
	dir := t.TempDir()
	paths, err := PlotSections(m, dir, "tube", params.Default())
	require.NoError(t, err)
	require.Len(t, paths, len(PlotFractions))
	for _, p := range paths {
		assert.True(t, strings.HasPrefix(filepath.Base(p), "tube_cross_Z"), p)
		fi, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, fi.Size())
	}
}

func TestWriteSectionsDXF(t *testing.T) {
	m, _ := tube(t)
	path := filepath.Join(t.TempDir(), "tube_sections.dxf")
	require.NoError(t, WriteSectionsDXF(path, m, params.Default()))

	d, err := dxf.Open(path)
	require.NoError(t, err)
	// Two reference circles plus the segments of five slices.
	assert.Greater(t, len(d.Entities()), 2+5*3)
}

func TestAnalyze(t *testing.T) {
	p := params.Default()
	m, r := tube(t)

	a := Analyze(r, m, p, "")
	assert.Nil(t, a.Expected)
	assert.Empty(t, a.Warnings)
	require.Len(t, a.Sections, len(AnalysisFractions))
	for _, s := range a.Sections {
		assert.Positive(t, s.Area)
	}
	env := math.Pi * p.SegmentOuterRadius() * p.SegmentOuterRadius() * p.SegmentHeight
	assert.InDelta(t, r.Volume/env, a.FillRatio, 1e-12)
	assert.InDelta(t, 30, a.XYSpan, 1)

	a = Analyze(r, m, p, tower.Segment)
	require.NotNil(t, a.Expected)
	assert.Equal(t, p.SegmentOuterDiameter, a.Expected.Diameter)
	require.Len(t, a.Warnings, 2)
	assert.Contains(t, a.Warnings[0], "XY span")
	assert.Contains(t, a.Warnings[1], "Z span")

	a.BuildID = "test-build"
	path := filepath.Join(t.TempDir(), "tube_analysis.txt")
	require.NoError(t, WriteAnalysis(path, a))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(b)
	assert.Contains(t, text, "=== Dimensional Analysis: tube ===")
	assert.Contains(t, text, "Build: test-build")
	assert.Contains(t, text, "Cross-section areas")
	assert.Contains(t, text, "Warnings:")
}

func TestWriteReviewSheet(t *testing.T) {
	m, r := tube(t)
	dir := t.TempDir()
	ortho := filepath.Join(dir, "tube_ortho.png")
	require.NoError(t, RenderViews(m, ortho, "tube", RenderOptions{Tile: 64}))

	entries := []ReviewEntry{
		{Analysis: Analyze(r, m, params.Default(), ""), OrthoPNG: ortho, Passed: true},
		{Analysis: Analysis{Name: "broken"}, Failures: []string{"not watertight"}},
	}
	path := filepath.Join(dir, "review.pdf")
	require.NoError(t, WriteReviewSheet(path, "build-1", entries))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))

	assert.Error(t, WriteReviewSheet(filepath.Join(dir, "none.pdf"), "build-1", nil))
}
