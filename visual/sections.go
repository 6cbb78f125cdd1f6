package visual

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/greenspire/goldentower/mesh"
	"github.com/greenspire/goldentower/params"
	"github.com/yofu/dxf"
	dxfcolor "github.com/yofu/dxf/color"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotFractions are the heights, as fractions of the mesh Z span, at
// which cross sections are plotted.
var PlotFractions = []float64{0.05, 0.25, 0.50, 0.75, 0.95}

// Slice is one horizontal cross section.
type Slice struct {
	Fraction float64
	Z        float64
	Segments []mesh.Segment
}

// Area is the solid area of the slice in mm².
func (s Slice) Area() float64 { return mesh.SectionArea(s.Segments) }

// Slices cuts m at each fraction of its Z span.
func Slices(m *mesh.Mesh, fractions []float64) []Slice {
	bb := m.Bounds()
	z0, z1 := float64(bb.Min.Z), float64(bb.Max.Z)
	out := make([]Slice, 0, len(fractions))
	for _, f := range fractions {
		z := z0 + f*(z1-z0)
		out = append(out, Slice{Fraction: f, Z: z, Segments: m.Section(z)})
	}
	return out
}

// SectionPlotName is the file name of the plot of slice s.
func SectionPlotName(name string, s Slice) string {
	return fmt.Sprintf("%s_cross_Z%.0f.png", name, s.Z)
}

// PlotSections writes one PNG per slice into dir with reference circles
// at the supply tube OD and the outer envelope. It returns the written paths.
func PlotSections(m *mesh.Mesh, dir, name string, p params.ParameterSet) ([]string, error) {
	var paths []string
	for _, s := range Slices(m, PlotFractions) {
		path := filepath.Join(dir, SectionPlotName(name, s))
		if err := plotSlice(path, name, s, p); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func plotSlice(path, name string, s Slice, p params.ParameterSet) error {
	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("%s  Z = %.1f mm (%.0f%% height)", name, s.Z, 100*s.Fraction)
	plt.X.Label.Text = "X (mm)"
	plt.Y.Label.Text = "Y (mm)"
	plt.Add(plotter.NewGrid())

	lim := 1.3 * p.SegmentOuterRadius()
	plt.X.Min, plt.X.Max = -lim, lim
	plt.Y.Min, plt.Y.Max = -lim, lim

	if len(s.Segments) == 0 {
		plt.Title.Text += "  no intersection"
	}
	plt.Add(sectionPlotter{segs: s.Segments, style: draw.LineStyle{
		Color: color.RGBA{B: 255, A: 255},
		Width: vg.Points(0.8),
	}})
	for _, ref := range []struct {
		name string
		r    float64
		c    color.Color
	}{
		{"Supply tube OD", p.SupplyTubeOuterRadius(), color.RGBA{R: 255, A: 255}},
		{"Outer envelope", p.SegmentOuterRadius(), color.RGBA{G: 160, A: 255}},
	} {
		l, err := plotter.NewLine(circle(ref.r, 96))
		if err != nil {
			return err
		}
		l.Color = ref.c
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		l.Width = vg.Points(0.5)
		plt.Add(l)
		plt.Legend.Add(ref.name, l)
	}
	plt.Legend.Top = true
	return plt.Save(5*vg.Inch, 5*vg.Inch, path)
}

func circle(r float64, n int) plotter.XYs {
	pts := make(plotter.XYs, n+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i].X, pts[i].Y = r*math.Cos(a), r*math.Sin(a)
	}
	return pts
}

// sectionPlotter draws unordered section segments.
type sectionPlotter struct {
	segs  []mesh.Segment
	style draw.LineStyle
}

func (sp sectionPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, s := range sp.segs {
		c.StrokeLine2(sp.style, trX(s.A.X), trY(s.A.Y), trX(s.B.X), trY(s.B.Y))
	}
}

func (sp sectionPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, s := range sp.segs {
		for _, v := range [2]r2.Vec{s.A, s.B} {
			xmin, xmax = math.Min(xmin, v.X), math.Max(xmax, v.X)
			ymin, ymax = math.Min(ymin, v.Y), math.Max(ymax, v.Y)
		}
	}
	return xmin, xmax, ymin, ymax
}

// WriteSectionsDXF writes every plotted slice to one DXF drawing, one layer
// per slice plus a layer with the reference circles. Slices keep their
// model coordinates with Z set to the slice height.
func WriteSectionsDXF(path string, m *mesh.Mesh, p params.ParameterSet) error {
	d := dxf.NewDrawing()
	if _, err := d.AddLayer("REFERENCE", dxfcolor.Red, dxf.DefaultLineType, true); err != nil {
		return err
	}
	for _, r := range []float64{p.SupplyTubeOuterRadius(), p.SegmentOuterRadius()} {
		if _, err := d.Circle(0, 0, 0, r); err != nil {
			return err
		}
	}
	for _, s := range Slices(m, PlotFractions) {
		layer := fmt.Sprintf("Z%03.0f", 100*s.Fraction)
		if _, err := d.AddLayer(layer, dxfcolor.Blue, dxf.DefaultLineType, true); err != nil {
			return err
		}
		for _, seg := range s.Segments {
			if _, err := d.Line(seg.A.X, seg.A.Y, s.Z, seg.B.X, seg.B.Y, s.Z); err != nil {
				return err
			}
		}
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save dxf %s: %w", path, err)
	}
	return nil
}
