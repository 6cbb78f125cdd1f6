package visual

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/greenspire/goldentower/mesh"
	"github.com/greenspire/goldentower/params"
	"github.com/greenspire/goldentower/tower"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// AnalysisFractions are the heights at which section areas are reported.
var AnalysisFractions = []float64{0.10, 0.25, 0.50, 0.75, 0.90}

// SpanTolerance is the absolute part of the allowed difference between an
// expected and a measured span. A further 1% of the expected span is added.
const SpanTolerance = 2.0

// SectionArea is the solid area at one analysis height.
type SectionArea struct {
	Fraction float64
	Z        float64
	Area     float64
	Segments int
}

// Analysis holds the dimensional spot checks of one mesh.
type Analysis struct {
	Name      string
	Component tower.Component // empty when the name is not a component
	BuildID   string

	Bounds            r3.Box
	Extents           r3.Vec
	Volume            float64
	Area              float64
	Watertight        bool
	WindingConsistent bool
	Faces             int
	Vertices          int

	// FillRatio is the volume over the π R² H segment envelope.
	FillRatio float64
	XYSpan    float64
	ZSpan     float64
	Expected  *tower.Envelope

	Sections []SectionArea
	Warnings []string
}

// Analyze combines the validator report with the nominal envelope of the
// component the mesh was exported as. Mismatches become warnings.
func Analyze(r mesh.Report, m *mesh.Mesh, p params.ParameterSet, c tower.Component) Analysis {
	a := Analysis{
		Name:              r.Name,
		Component:         c,
		Bounds:            r.Bounds,
		Extents:           r.Extents,
		Volume:            r.Volume,
		Area:              r.Area,
		Watertight:        r.Watertight,
		WindingConsistent: r.WindingConsistent,
		Faces:             r.Triangles,
		Vertices:          r.Vertices,
		XYSpan:            floats.Max([]float64{r.Extents.X, r.Extents.Y}),
		ZSpan:             r.Extents.Z,
	}
	envelope := math.Pi * p.SegmentOuterRadius() * p.SegmentOuterRadius() * p.SegmentHeight
	if envelope > 0 {
		a.FillRatio = a.Volume / envelope
	}
	if c != "" {
		e := tower.Nominal(c, p)
		a.Expected = &e
		if !within(a.XYSpan, e.Diameter) {
			a.warn("XY span %.1f mm, expected %.1f mm", a.XYSpan, e.Diameter)
		}
		if !within(a.ZSpan, e.Height()) {
			a.warn("Z span %.1f mm, expected %.1f mm", a.ZSpan, e.Height())
		}
	}
	if m != nil {
		for _, s := range Slices(m, AnalysisFractions) {
			area := s.Area()
			a.Sections = append(a.Sections, SectionArea{Fraction: s.Fraction, Z: s.Z, Area: area, Segments: len(s.Segments)})
			if len(s.Segments) == 0 || area <= 0 {
				a.warn("no solid section at %.0f%% height", 100*s.Fraction)
			}
		}
	}
	return a
}

func within(got, want float64) bool {
	return math.Abs(got-want) <= SpanTolerance+0.01*want
}

func (a *Analysis) warn(format string, args ...any) {
	a.Warnings = append(a.Warnings, fmt.Sprintf(format, args...))
}

// MeanSectionArea is the mean of the reported section areas.
func (a Analysis) MeanSectionArea() float64 {
	if len(a.Sections) == 0 {
		return 0
	}
	areas := make([]float64, len(a.Sections))
	for i, s := range a.Sections {
		areas[i] = s.Area
	}
	return floats.Sum(areas) / float64(len(areas))
}

// Lines renders the analysis as the text written by WriteAnalysis.
func (a Analysis) Lines() []string {
	b, e := a.Bounds, a.Extents
	l := []string{
		fmt.Sprintf("=== Dimensional Analysis: %s ===", a.Name),
	}
	if a.BuildID != "" {
		l = append(l, "Build: "+a.BuildID)
	}
	l = append(l,
		"",
		"Bounding Box:",
		fmt.Sprintf("  X: %.1f to %.1f (%.1f mm)", b.Min.X, b.Max.X, e.X),
		fmt.Sprintf("  Y: %.1f to %.1f (%.1f mm)", b.Min.Y, b.Max.Y, e.Y),
		fmt.Sprintf("  Z: %.1f to %.1f (%.1f mm)", b.Min.Z, b.Max.Z, e.Z),
		"",
		fmt.Sprintf("Volume: %.0f mm³ (%.1f cm³)", a.Volume, a.Volume/1000),
		fmt.Sprintf("Surface Area: %.0f mm²", a.Area),
		fmt.Sprintf("Watertight: %t", a.Watertight),
		fmt.Sprintf("Winding Consistent: %t", a.WindingConsistent),
		fmt.Sprintf("Faces: %d, Vertices: %d", a.Faces, a.Vertices),
		"",
		fmt.Sprintf("Fill ratio vs segment cylinder: %.1f%%", 100*a.FillRatio),
		"",
		"Dimensional Checks:",
	)
	if a.Expected != nil {
		l = append(l,
			fmt.Sprintf("  Expected diameter: %.1f mm", a.Expected.Diameter),
			fmt.Sprintf("  Actual XY span: %.1f mm (%+.1f mm)", a.XYSpan, a.XYSpan-a.Expected.Diameter),
			fmt.Sprintf("  Expected height: %.1f mm (Z %.1f to %.1f)", a.Expected.Height(), a.Expected.ZMin, a.Expected.ZMax),
			fmt.Sprintf("  Actual Z span: %.1f mm (%+.1f mm)", a.ZSpan, a.ZSpan-a.Expected.Height()),
		)
	} else {
		l = append(l,
			fmt.Sprintf("  Actual XY span: %.1f mm", a.XYSpan),
			fmt.Sprintf("  Actual Z span: %.1f mm", a.ZSpan),
			"  No nominal envelope for this name",
		)
	}
	l = append(l, "", "Cross-section areas (solid area at each Z height):")
	for _, s := range a.Sections {
		if s.Segments == 0 {
			l = append(l, fmt.Sprintf("  Z=%.1fmm (%.0f%%): no section", s.Z, 100*s.Fraction))
			continue
		}
		l = append(l, fmt.Sprintf("  Z=%.1fmm (%.0f%%): %.1f mm²", s.Z, 100*s.Fraction, s.Area))
	}
	if len(a.Sections) > 0 {
		l = append(l, fmt.Sprintf("  Mean: %.1f mm²", a.MeanSectionArea()))
	}
	if len(a.Warnings) > 0 {
		l = append(l, "", "Warnings:")
		for _, w := range a.Warnings {
			l = append(l, "  "+w)
		}
	}
	return l
}

// WriteAnalysis writes the analysis text to path.
func WriteAnalysis(path string, a Analysis) error {
	return os.WriteFile(path, []byte(strings.Join(a.Lines(), "\n")+"\n"), 0o644)
}
