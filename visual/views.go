// Package visual produces the advisory review artifacts for exported
// meshes: view renders, cross sections, a dimensional analysis and a PDF
// review sheet. Nothing here decides whether a mesh passes.
package visual

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/greenspire/goldentower/mesh"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// View is one camera of the multi-view render. Elevation and azimuth are in
// degrees, azimuth measured from +X toward +Y.
type View struct {
	Title     string
	Elevation float64
	Azimuth   float64
	Ortho     bool
}

// Views are the four cameras of the ortho sheet, in tile order.
var Views = []View{
	{Title: "Front (XZ)", Elevation: 0, Azimuth: -90, Ortho: true},
	{Title: "Right (YZ)", Elevation: 0, Azimuth: 0, Ortho: true},
	{Title: "Top (XY)", Elevation: 90, Azimuth: -90, Ortho: true},
	{Title: "Perspective", Elevation: 30, Azimuth: -45},
}

// RenderOptions configures RenderViews.
type RenderOptions struct {
	// Tile is the side in pixels of one view.
	Tile int
	// Supersample renders each view this many times larger before
	// downscaling.
	Supersample int
}

// DefaultRenderOptions renders 400 px views supersampled twice.
var DefaultRenderOptions = RenderOptions{Tile: 400, Supersample: 2}

const (
	bannerHeight = 36
	eyeDistance  = 4
	fovy         = 30
	orthoHalf    = 1.8
)

var (
	background  = fauxgl.HexColor("#FFF8E3")
	objectColor = fauxgl.HexColor("#4A90D9")
	light       = fauxgl.V(-0.75, 1, 0.25).Normalize()
)

// RenderViews rasterizes m from every camera in Views and composes a 2x2
// PNG at path with a banner line of title and the mesh report.
func RenderViews(m *mesh.Mesh, path, title string, opts RenderOptions) error {
	img, err := ComposeViews(m, title, opts)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

// ComposeViews is RenderViews without writing the file.
func ComposeViews(m *mesh.Mesh, title string, opts RenderOptions) (*image.RGBA, error) {
	if m == nil || len(m.Faces) == 0 {
		return nil, fmt.Errorf("render %q: empty mesh", title)
	}
	if opts.Tile <= 0 {
		opts.Tile = DefaultRenderOptions.Tile
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	fm := toFauxgl(m)
	// Fit inside a bi-unit cube so every view shares one scale.
	fm.BiUnitCube()

	tile := opts.Tile
	sheet := image.NewRGBA(image.Rect(0, 0, 2*tile, 2*tile+bannerHeight))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(background.NRGBA()), image.Point{}, draw.Src)
	label(sheet, 8, 22, title)
	for i, v := range Views {
		view := renderView(fm, v, tile, opts.Supersample)
		at := image.Pt((i%2)*tile, bannerHeight+(i/2)*tile)
		draw.Draw(sheet, view.Bounds().Add(at), view, image.Point{}, draw.Src)
		label(sheet, at.X+8, at.Y+16, v.Title)
	}
	return sheet, nil
}

func renderView(fm *fauxgl.Mesh, v View, tile, supersample int) image.Image {
	size := tile * supersample
	ctx := fauxgl.NewContext(size, size)
	ctx.ClearColorBufferWith(background)
	ctx.ClearDepthBuffer()

	eye := camera(v.Elevation, v.Azimuth)
	up := fauxgl.V(0, 0, 1)
	if math.Abs(v.Elevation) >= 89 {
		up = fauxgl.V(0, 1, 0)
	}
	look := fauxgl.LookAt(eye, fauxgl.V(0, 0, 0), up)
	var matrix fauxgl.Matrix
	if v.Ortho {
		matrix = look.Orthographic(-orthoHalf, orthoHalf, -orthoHalf, orthoHalf, 0.1, 2*eyeDistance)
	} else {
		matrix = look.Perspective(fovy, 1, 0.1, 2*eyeDistance)
	}
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = objectColor
	ctx.Shader = shader
	ctx.DrawMesh(fm)
	return resize.Resize(uint(tile), uint(tile), ctx.Image(), resize.Bilinear)
}

func camera(elevation, azimuth float64) fauxgl.Vector {
	el, az := elevation*math.Pi/180, azimuth*math.Pi/180
	return fauxgl.V(
		eyeDistance*math.Cos(el)*math.Cos(az),
		eyeDistance*math.Cos(el)*math.Sin(az),
		eyeDistance*math.Sin(el),
	)
}

func toFauxgl(m *mesh.Mesh) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, len(m.Faces))
	for i := range m.Faces {
		t := m.Triangle(i)
		tris = append(tris, fauxgl.NewTriangleForPoints(
			fauxgl.V(float64(t[0].X), float64(t[0].Y), float64(t[0].Z)),
			fauxgl.V(float64(t[1].X), float64(t[1].Y), float64(t[1].Z)),
			fauxgl.V(float64(t[2].X), float64(t[2].Y), float64(t[2].Z)),
		))
	}
	return fauxgl.NewTriangleMesh(tris)
}

func label(dst draw.Image, x, y int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
