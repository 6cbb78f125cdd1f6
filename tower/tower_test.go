package tower

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/greenspire/goldentower/export"
	"github.com/greenspire/goldentower/form3"
	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/internal/d3"
	"github.com/greenspire/goldentower/mesh"
	"github.com/greenspire/goldentower/params"
	"github.com/greenspire/goldentower/render"
	"github.com/greenspire/goldentower/sdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPocketsDefault(t *testing.T) {
	p := params.Default()
	z0 := p.PocketZOffset()
	want := []PocketPlacement{
		{Index: 0, AngleDeg: 0, Z: z0, TiltDeg: 20, RadialOffset: 55},
		{Index: 1, AngleDeg: 137.5078, Z: z0 + 40, TiltDeg: 20, RadialOffset: 55},
		{Index: 2, AngleDeg: 275.0155, Z: z0 + 80, TiltDeg: 20, RadialOffset: 55},
	}
	got := Pockets(p)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-3)); diff != "" {
		t.Errorf("pockets mismatch (-want +got):\n%s", diff)
	}
}

func TestPocketAnglesDistinct(t *testing.T) {
	p := params.Default()
	tp := TowerPockets(p, p.TargetSegmentCount)
	require.Len(t, tp, p.TotalPockets())
	for i := range tp {
		for j := i + 1; j < len(tp); j++ {
			sep := AngularSeparationDeg(tp[i].AngleDeg, tp[j].AngleDeg)
			assert.Greater(t, sep, 1.0, "pockets %d and %d", i, j)
		}
	}
}

func TestPocketHeightsIncrease(t *testing.T) {
	p := params.Default()
	for _, pockets := range [][]PocketPlacement{Pockets(p), TowerPockets(p, 4)} {
		for i := 1; i < len(pockets); i++ {
			assert.Greater(t, pockets[i].Z, pockets[i-1].Z)
		}
	}
}

func TestTowerPocketsContinuity(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5} {
		p := params.Default()
		p.NodesPerSegment = n
		tp := TowerPockets(p, 3)
		pitch := p.NodeVerticalPitch()
		for j := 0; j+1 < len(tp); j++ {
			next := tp[j].AngleDeg + params.GoldenAngleDeg
			assert.Less(t, AngularSeparationDeg(next, tp[j+1].AngleDeg), 1e-6, "n=%d pocket %d", n, j)
			assert.InDelta(t, pitch, tp[j+1].Z-tp[j].Z, 1e-9, "n=%d pocket %d", n, j)
		}
		// Tower pocket j sits at the absolute golden angle j×GA.
		for j, pp := range tp {
			want := math.Mod(float64(j)*params.GoldenAngleDeg, 360)
			assert.Less(t, AngularSeparationDeg(want, pp.AngleDeg), 1e-6)
		}
	}
}

func TestKeySeatsAfterRotation(t *testing.T) {
	p := params.Default()
	rot := StackRotationDeg(p, 1)
	assert.InDelta(t, p.InterlockRotationDeg(), rot, 1e-12)
	// The slot of the upper segment lands on the male key at 0°.
	assert.Less(t, AngularSeparationDeg(FemaleKeyAngleDeg(p)+rot, 0), 1e-9)
	assert.InDelta(t, 0, StackRotationDeg(p, 0), 1e-12)
}

func TestAngularSeparation(t *testing.T) {
	assert.InDelta(t, 20, AngularSeparationDeg(350, 10), 1e-12)
	assert.InDelta(t, 180, AngularSeparationDeg(0, 180), 1e-12)
	assert.InDelta(t, 0, AngularSeparationDeg(-90, 270), 1e-12)
}

func TestPocketFrame(t *testing.T) {
	p := params.Default()
	for _, pp := range Pockets(p) {
		tr := pp.Transform()
		assert.True(t, d3.EqualWithin(pp.Center(), tr.Transform(r3.Vec{}), 1e-9))
		assert.True(t, d3.EqualWithin(pp.Axis(), tr.Direction(r3.Vec{Z: 1}), 1e-9))
		assert.InDelta(t, 1, r3.Norm(pp.Axis()), 1e-12)
		mouth := pp.Local(p.PocketDepth / 2).Transform(r3.Vec{})
		// Tilted outward: the mouth is farther from the axis and higher.
		assert.Greater(t, math.Hypot(mouth.X, mouth.Y), pp.RadialOffset)
		assert.Greater(t, mouth.Z, pp.Z)
	}
}

func TestConstructionOrder(t *testing.T) {
	p := params.Default()
	for _, c := range Components() {
		con, err := Plan(c, p)
		require.NoError(t, err, c)
		steps := con.Steps()
		require.NotEmpty(t, steps, c)
		assert.Equal(t, Additive, steps[0].Phase, c)
		cutting := false
		for _, s := range steps {
			if s.Phase == Subtractive {
				cutting = true
			} else {
				assert.False(t, cutting, "%s: %s after the first cut", c, s)
			}
		}
	}
}

func TestConstructionUnionAfterCut(t *testing.T) {
	c := NewConstruction("probe")
	c.Add("block", must3.Box(r3.Vec{X: 10, Y: 10, Z: 10}, 0))
	c.Cut("hole", must3.Cylinder(12, 2, 0))
	c.Add("boss", must3.Cylinder(4, 3, 0))
	c.Cut("late hole", must3.Cylinder(12, 1, 0))
	s, err := c.Solid()
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnionAfterCut))
	assert.True(t, form3.IsGeometryError(err))
	assert.Contains(t, err.Error(), "boss")
	// Recording stops at the violation.
	assert.Len(t, c.Steps(), 2)
}

func TestConstructionNoSolid(t *testing.T) {
	c := NewConstruction("probe")
	c.Cut("hole", must3.Cylinder(12, 2, 0))
	_, err := c.Solid()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSolid))
	assert.True(t, form3.IsGeometryError(err))

	c = NewConstruction("nil")
	c.Add("missing", nil)
	_, err = c.Solid()
	assert.True(t, form3.IsGeometryError(err))
}

func TestConstructionSolid(t *testing.T) {
	c := NewConstruction("probe")
	c.Add("block", must3.Box(r3.Vec{X: 10, Y: 10, Z: 10}, 0))
	c.Cut("hole", must3.Cylinder(12, 2, 0))
	s, err := c.Solid()
	require.NoError(t, err)
	assert.Greater(t, s.Evaluate(r3.Vec{}), 0.0)
	assert.Less(t, s.Evaluate(r3.Vec{X: 3.5}), 0.0)
	assert.Equal(t, "cut hole", c.Steps()[1].String())
}

// Segment and bottom segment share the pocket builder: every pocket sits at
// the same place in both and is open inside a solid cup wall.
func TestSegmentAndBottomPocketsMatch(t *testing.T) {
	p := params.Default()
	seg, err := Plan(Segment, p)
	require.NoError(t, err)
	bot, err := Plan(BottomSegment, p)
	require.NoError(t, err)
	assert.Equal(t, pocketSteps(seg), pocketSteps(bot))

	segSolid, err := seg.Solid()
	require.NoError(t, err)
	botSolid, err := bot.Solid()
	require.NoError(t, err)
	wall := p.PocketRadius() + p.WaterWallThickness/2
	for _, pp := range Pockets(p) {
		open := pp.Transform().Transform(r3.Vec{})
		cup := pp.Transform().Transform(r3.Vec{X: wall})
		assert.Greater(t, segSolid.Evaluate(open), 0.0, "segment pocket %d bore", pp.Index)
		assert.Greater(t, botSolid.Evaluate(open), 0.0, "bottom pocket %d bore", pp.Index)
		assert.Less(t, segSolid.Evaluate(cup), 0.0, "segment pocket %d wall", pp.Index)
		assert.Less(t, botSolid.Evaluate(cup), 0.0, "bottom pocket %d wall", pp.Index)
	}
}

func pocketSteps(c *Construction) []Step {
	var out []Step
	for _, s := range c.Steps() {
		if strings.HasPrefix(s.Label, "pocket ") {
			out = append(out, s)
		}
	}
	return out
}

func TestBuildInvalid(t *testing.T) {
	p := params.Default()
	p.SegmentHeight = -1
	s, err := Build(Segment, p)
	assert.Nil(t, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parameters")

	// Valid numbers that leave no room for the deflector cone.
	p = params.Default()
	p.CapHeight = 1
	s, err = Build(TopCap, p)
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, form3.IsGeometryError(err))

	_, err = Plan("gazebo", params.Default())
	assert.True(t, errors.Is(err, ErrUnknownComponent))
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Component{
		"segment":          Segment,
		"bottom-segment":   BottomSegment,
		" Top_Cap ":        TopCap,
		"interlock-female": InterlockFemale,
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := Parse("bottom")
	assert.True(t, errors.Is(err, ErrUnknownComponent))
	assert.ElementsMatch(t, Components(), append(Tower(), Coupons()...))
}

func TestNominal(t *testing.T) {
	p := params.Default()
	seg := Nominal(Segment, p)
	assert.Equal(t, Envelope{Diameter: 180, ZMax: 130}, seg)
	assert.InDelta(t, 130, seg.Height(), 1e-12)
	bot := Nominal(BottomSegment, p)
	assert.InDelta(t, -20, bot.ZMin, 1e-12)
	top := Nominal(TopCap, p)
	assert.InDelta(t, 200, top.Diameter, 1e-12)
	assert.InDelta(t, 47, top.ZMax, 1e-12)
	assert.Equal(t, Envelope{}, Nominal("gazebo", p))
}

func TestThreadedLidPlan(t *testing.T) {
	p := params.Default()
	p.LidAttachment = params.LidThreaded
	con, err := Plan(BottomSegment, p)
	require.NoError(t, err)
	var labels []string
	for _, s := range con.Steps() {
		labels = append(labels, s.Label)
	}
	assert.Contains(t, labels, "lid thread")
	assert.NotContains(t, labels, "bayonet lug 0")
}

func TestCouponsMeshClosed(t *testing.T) {
	p := params.Default()
	for _, c := range Coupons() {
		s, err := Build(c, p)
		require.NoError(t, err, c)
		r := analyze(t, c, s, 48)
		assert.True(t, r.Watertight, "%s: %v", c, r.Failures)
		assert.True(t, r.WindingConsistent, c)
		assert.Greater(t, r.Volume, 0.0, c)
	}
}

func TestInterlockMaleVolume(t *testing.T) {
	p := params.Default()
	s, err := Build(InterlockMale, p)
	require.NoError(t, err)
	tris, err := render.RenderAll(render.NewOctreeRenderer(s, 64))
	require.NoError(t, err)
	ro, ri := p.MaleRingRadius, p.SupplyTubeInnerRadius()
	ring := math.Pi * (ro*ro - ri*ri) * p.InterlockHeight
	rg := p.ORingGrooveInnerRadius()
	groove := math.Pi * (ro*ro - rg*rg) * p.ORingGrooveWidth
	key := p.InterlockKeyDepth * p.InterlockKeyWidth * p.InterlockHeight
	want := ring - groove + key
	assert.InDelta(t, want, render.Volume(tris), 0.1*want)
}

func TestSegmentMeshClosed(t *testing.T) {
	if testing.Short() {
		t.Skip("meshing a full segment is slow")
	}
	p := params.Default()
	for _, c := range Tower() {
		s, err := Build(c, p)
		require.NoError(t, err, c)
		r := analyze(t, c, s, 64)
		assert.True(t, r.Watertight, "%s: %d boundary edges", c, r.BoundaryEdges)
		assert.True(t, r.WindingConsistent, c)
		assert.Greater(t, r.Volume, 0.0, c)
		env := Nominal(c, p)
		assert.InDelta(t, env.Height(), r.Extents.Z, 5, c)
	}
}

func TestCapChannelsOpenIntoBore(t *testing.T) {
	p := params.Default()
	s, err := Build(TopCap, p)
	require.NoError(t, err)
	rb, hw := p.SupplyTubeInnerRadius(), p.ChannelWidth/2
	for k := 0; k < p.CapChannels; k++ {
		deg := float64(k) * 360 / float64(p.CapChannels)
		sn, cs := math.Sincos(sdf.DtoR(deg))
		for _, y := range []float64{-0.9 * hw, 0, 0.9 * hw} {
			// Just outside the bore, inside the channel width.
			x := math.Sqrt(rb*rb-y*y) + 0.05
			pt := r3.Vec{X: x*cs - y*sn, Y: x*sn + y*cs, Z: p.WallThickness / 2}
			assert.Positive(t, s.Evaluate(pt), "channel %d at y=%g", k, y)
		}
	}
}

func TestTowerSingleShell(t *testing.T) {
	if testing.Short() {
		t.Skip("meshing at export resolution is slow")
	}
	p := params.Default()
	for _, c := range Tower() {
		s, err := Build(c, p)
		require.NoError(t, err, c)
		tris, err := export.Tessellate(string(c), s, export.Options{})
		require.NoError(t, err, c)
		m, err := mesh.FromTriangles(string(c), tris)
		require.NoError(t, err, c)
		r := mesh.Analyze(string(c), m)
		assert.True(t, r.Watertight, c)
		assert.Equal(t, 1, r.Shells, c)
	}
}

func analyze(t *testing.T, c Component, s sdf.SDF3, cells int) mesh.Report {
	t.Helper()
	tris, err := render.RenderAll(render.NewOctreeRenderer(s, cells))
	require.NoError(t, err, c)
	m, err := mesh.FromTriangles(string(c), tris)
	require.NoError(t, err, c)
	return mesh.Analyze(string(c), m)
}
