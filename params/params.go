// Package params holds the single source of truth for every tower dimension.
//
// All lengths are millimetres and all angles are degrees. A ParameterSet is a
// plain value: builders receive a copy, and every derived dimension is a
// method computed from the base fields on each call so that changing a base
// value can never leave a stale derived value behind.
package params

import (
	"math"
)

// Phi is the golden ratio (1+√5)/2.
const Phi = 1.618033988749894848204586834365638117720309179805762862135

// GoldenAngleDeg is 360/φ², approximately 137.508°.
const GoldenAngleDeg = 360 / (Phi * Phi)

// Lid attachment styles of the bottom segment.
const (
	LidBayonet  = "bayonet"
	LidThreaded = "threaded"
)

// ParameterSet is the immutable table of base dimensions.
type ParameterSet struct {
	// Golden spiral.
	NodesPerSegment    int `yaml:"nodes_per_segment"`
	TargetSegmentCount int `yaml:"target_segment_count"`

	// Segment body.
	SegmentHeight        float64 `yaml:"segment_height"`
	SegmentOuterDiameter float64 `yaml:"segment_outer_diameter"`

	// Central supply tube.
	CentralTubeOD float64 `yaml:"central_tube_od"`
	CentralTubeID float64 `yaml:"central_tube_id"`

	// Planting pocket.
	PocketDiameter       float64 `yaml:"pocket_diameter"`
	PocketTiltDeg        float64 `yaml:"pocket_tilt_deg"`
	PocketDepth          float64 `yaml:"pocket_depth"`
	PocketRadialOffset   float64 `yaml:"pocket_radial_offset"`
	PocketFloorClearance float64 `yaml:"pocket_floor_clearance"`
	PocketSolidExtension float64 `yaml:"pocket_solid_extension"`
	PocketFlareHeight    float64 `yaml:"pocket_flare_height"`
	PocketFlareGrowth    float64 `yaml:"pocket_flare_growth"`
	PocketFlareOffset    float64 `yaml:"pocket_flare_offset"`

	// Walls.
	WallThickness      float64 `yaml:"wall_thickness"`
	WaterWallThickness float64 `yaml:"water_wall_thickness"`

	// Interlock.
	InterlockHeight       float64 `yaml:"interlock_height"`
	InterlockClearance    float64 `yaml:"interlock_clearance"`
	InterlockKeyWidth     float64 `yaml:"interlock_key_width"`
	InterlockKeyDepth     float64 `yaml:"interlock_key_depth"`
	MaleRingRadius        float64 `yaml:"male_ring_radius"`
	MaleRingChamferHeight float64 `yaml:"male_ring_chamfer_height"`

	// Drip tray channels.
	ChannelWidth       float64 `yaml:"channel_width"`
	ChannelDepth       float64 `yaml:"channel_depth"`
	ChannelMinSlopeDeg float64 `yaml:"channel_min_slope_deg"`

	// Drain holes.
	DrainHoles         int     `yaml:"drain_holes"`
	DrainHoleDiameter  float64 `yaml:"drain_hole_diameter"`
	DrainHoleRadialPos float64 `yaml:"drain_hole_radial_pos"`

	// Top cap.
	CapDeflectorAngleDeg float64 `yaml:"cap_deflector_angle_deg"`
	CapOverhang          float64 `yaml:"cap_overhang"`
	CapHeight            float64 `yaml:"cap_height"`
	CapLipHeight         float64 `yaml:"cap_lip_height"`
	CapChannels          int     `yaml:"cap_channels"`
	FinialBaseRadius     float64 `yaml:"finial_base_radius"`
	FinialDomeRadius     float64 `yaml:"finial_dome_radius"`

	// Bottom segment.
	QDBarbOD           float64 `yaml:"qd_barb_od"`
	QDFittingID        float64 `yaml:"qd_fitting_id"`
	QDBarbLength       float64 `yaml:"qd_barb_length"`
	QDBarbRidges       int     `yaml:"qd_barb_ridges"`
	QDBarbRidgeHeight  float64 `yaml:"qd_barb_ridge_height"`
	QDBarbRidgeSpacing float64 `yaml:"qd_barb_ridge_spacing"`
	QDBarbRidgeLength  float64 `yaml:"qd_barb_ridge_length"`
	LidAttachment      string  `yaml:"lid_attachment"`
	LidBayonetLugs     int     `yaml:"lid_bayonet_lugs"`
	LidThreadPitch     float64 `yaml:"lid_thread_pitch"`
	ReservoirLidOD     float64 `yaml:"reservoir_lid_od"`
	LidRingHeight      float64 `yaml:"lid_ring_height"`
	LugWidth           float64 `yaml:"lug_width"`
	LugDepth           float64 `yaml:"lug_depth"`
	LugHeight          float64 `yaml:"lug_height"`

	// Printer.
	BuildVolume     [3]float64 `yaml:"build_volume,flow"`
	LayerHeight     float64    `yaml:"layer_height"`
	NozzleDiameter  float64    `yaml:"nozzle_diameter"`
	MaxOverhangDeg  float64    `yaml:"max_overhang_deg"`
	MaxBridgeSpan   float64    `yaml:"max_bridge_span"`
	MinPerimeters   int        `yaml:"min_perimeters"`
	WaterPerimeters int        `yaml:"water_perimeters"`

	// Inter-segment O-ring, AS568 dash number.
	ORingDash        int     `yaml:"oring_dash"`
	ORingID          float64 `yaml:"oring_id"`
	ORingCS          float64 `yaml:"oring_cs"`
	ORingGrooveDepth float64 `yaml:"oring_groove_depth"`
	ORingGrooveWidth float64 `yaml:"oring_groove_width"`

	// Net cup.
	NetCupOD        float64 `yaml:"net_cup_od"`
	NetCupLipOD     float64 `yaml:"net_cup_lip_od"`
	NetCupLipHeight float64 `yaml:"net_cup_lip_height"`
	NetCupDepth     float64 `yaml:"net_cup_depth"`

	// FuseOverlap is how far fusing primitives are oversized into their
	// neighbour to avoid coincident faces. The key tab uses half of it.
	FuseOverlap float64 `yaml:"fuse_overlap"`
}

// Default returns the reference tower dimensions.
func Default() ParameterSet {
	return ParameterSet{
		NodesPerSegment:    3,
		TargetSegmentCount: 8,

		SegmentHeight:        120,
		SegmentOuterDiameter: 180,

		CentralTubeOD: 32,
		CentralTubeID: 28,

		PocketDiameter:       52,
		PocketTiltDeg:        20,
		PocketDepth:          45,
		PocketRadialOffset:   55,
		PocketFloorClearance: 2,
		PocketSolidExtension: 1,
		PocketFlareHeight:    12,
		PocketFlareGrowth:    5,
		PocketFlareOffset:    5,

		WallThickness:      2.0,
		WaterWallThickness: 2.4,

		InterlockHeight:       10,
		InterlockClearance:    0.3,
		InterlockKeyWidth:     8,
		InterlockKeyDepth:     3,
		MaleRingRadius:        29,
		MaleRingChamferHeight: 10,

		ChannelWidth:       8,
		ChannelDepth:       3,
		ChannelMinSlopeDeg: 3,

		DrainHoles:         3,
		DrainHoleDiameter:  4,
		DrainHoleRadialPos: 80,

		CapDeflectorAngleDeg: 30,
		CapOverhang:          10,
		CapHeight:            40,
		CapLipHeight:         5,
		CapChannels:          3,
		FinialBaseRadius:     5,
		FinialDomeRadius:     8,

		QDBarbOD:           12.7,
		QDFittingID:        9.525,
		QDBarbLength:       20,
		QDBarbRidges:       3,
		QDBarbRidgeHeight:  0.8,
		QDBarbRidgeSpacing: 6,
		QDBarbRidgeLength:  2,
		LidAttachment:      LidBayonet,
		LidBayonetLugs:     3,
		LidThreadPitch:     3,
		ReservoirLidOD:     160,
		LidRingHeight:      10,
		LugWidth:           15,
		LugDepth:           5,
		LugHeight:          8,

		BuildVolume:     [3]float64{256, 256, 256},
		LayerHeight:     0.2,
		NozzleDiameter:  0.4,
		MaxOverhangDeg:  55,
		MaxBridgeSpan:   40,
		MinPerimeters:   2,
		WaterPerimeters: 3,

		ORingDash:        228,
		ORingID:          50.17,
		ORingCS:          3.53,
		ORingGrooveDepth: 2.65,
		ORingGrooveWidth: 4.5,

		NetCupOD:        50,
		NetCupLipOD:     57,
		NetCupLipHeight: 5,
		NetCupDepth:     50,

		FuseOverlap: 1.0,
	}
}

// GoldenAngleDeg returns the angular step between consecutive pockets.
func (p ParameterSet) GoldenAngleDeg() float64 { return GoldenAngleDeg }

// InterlockRotationDeg is the net rotation between stacked segments,
// (NodesPerSegment × golden angle) mod 360.
func (p ParameterSet) InterlockRotationDeg() float64 {
	return math.Mod(float64(p.NodesPerSegment)*GoldenAngleDeg, 360)
}

// NodeVerticalPitch is the height step between consecutive pockets.
func (p ParameterSet) NodeVerticalPitch() float64 {
	return p.SegmentHeight / float64(p.NodesPerSegment)
}

func (p ParameterSet) SegmentOuterRadius() float64 { return p.SegmentOuterDiameter / 2 }

func (p ParameterSet) CentralTubeWall() float64 { return (p.CentralTubeOD - p.CentralTubeID) / 2 }

// SupplyTubeOD is the outer diameter of the supply tube integrated in every segment.
func (p ParameterSet) SupplyTubeOD() float64 { return p.CentralTubeOD }

// SupplyTubeID is the bore of the integrated supply tube. Its wall is a
// water contact surface.
func (p ParameterSet) SupplyTubeID() float64 {
	return p.CentralTubeOD - 2*p.WaterWallThickness
}

func (p ParameterSet) SupplyTubeOuterRadius() float64 { return p.SupplyTubeOD() / 2 }
func (p ParameterSet) SupplyTubeInnerRadius() float64 { return p.SupplyTubeID() / 2 }

func (p ParameterSet) PocketRadius() float64 { return p.PocketDiameter / 2 }

// PocketZOffset is the height of the first pocket centre above the segment
// bottom: it clears the interlock and keeps the pocket bottom off the floor.
func (p ParameterSet) PocketZOffset() float64 {
	return p.InterlockHeight +
		p.PocketDepth/2*math.Cos(p.PocketTiltDeg*math.Pi/180) +
		p.PocketFloorClearance
}

// PocketSolidLength is the length of the pocket protrusion measured inward
// from the mouth, extended past the pocket bottom so it fuses with the body.
func (p ParameterSet) PocketSolidLength() float64 {
	return p.PocketDepth + p.PocketSolidExtension
}

// PocketOuterRadius is the protrusion radius around the pocket bore.
func (p ParameterSet) PocketOuterRadius() float64 {
	return p.PocketRadius() + p.WaterWallThickness
}

// PocketMouthRelief is how far the pocket bore and lip counterbore run past
// the mouth along the pocket axis: far enough for the counterbore rim to
// break through the outer wall, and never less than FuseOverlap.
func (p ParameterSet) PocketMouthRelief() float64 {
	st, ct := math.Sincos(p.PocketTiltDeg * math.Pi / 180)
	if st < 1e-6 {
		return p.FuseOverlap
	}
	reach := p.PocketRadialOffset + p.PocketDepth/2*st + p.NetCupLipOD/2*ct
	return math.Max(p.FuseOverlap, (p.SegmentOuterRadius()+p.FuseOverlap-reach)/st)
}

func (p ParameterSet) FemaleRingRadius() float64 {
	return p.MaleRingRadius + p.InterlockClearance
}

func (p ParameterSet) BodyInnerRadius() float64 {
	return p.SegmentOuterRadius() - p.WallThickness
}

// DripTrayDepth is the height of the segment floor top. The floor clears
// the female socket, holds the drain channels and keeps a water wall below them.
func (p ParameterSet) DripTrayDepth() float64 {
	return p.InterlockHeight + p.ChannelDepth + p.WaterWallThickness
}

// ChamferStartZ is where the support cone under the male ring starts.
func (p ParameterSet) ChamferStartZ() float64 {
	return p.SegmentHeight - p.MaleRingChamferHeight
}

func (p ParameterSet) CapOuterRadius() float64 {
	return p.SegmentOuterRadius() + p.CapOverhang
}

// LidRingID is the bore of the reservoir lid ring.
func (p ParameterSet) LidRingID() float64 {
	return p.ReservoirLidOD - 2*p.WallThickness
}

// TotalTowerHeight is the assembled height: cap, segments and bottom attachment.
func (p ParameterSet) TotalTowerHeight() float64 {
	return p.CapHeight + float64(p.TargetSegmentCount)*p.SegmentHeight + p.InterlockHeight
}

// TotalPockets is the number of planting positions of a full tower.
func (p ParameterSet) TotalPockets() int {
	return p.TargetSegmentCount * p.NodesPerSegment
}

// ORingGrooveOuterRadius overshoots the male ring surface so the groove
// opens cleanly through it.
func (p ParameterSet) ORingGrooveOuterRadius() float64 {
	return p.MaleRingRadius + p.FuseOverlap
}

func (p ParameterSet) ORingGrooveInnerRadius() float64 {
	return p.MaleRingRadius - p.ORingGrooveDepth
}

// QDBarbRadius is the outer radius of the barb shaft.
func (p ParameterSet) QDBarbRadius() float64 { return p.QDBarbOD / 2 }

// CapInnerConeOverhangDeg is the overhang of the cap's hollow cone measured
// from vertical. It is printed without support when below MaxOverhangDeg.
func (p ParameterSet) CapInnerConeOverhangDeg() float64 {
	rise := p.CapHeight - p.WallThickness
	run := p.SegmentOuterRadius() - p.FinialBaseRadius
	return math.Atan2(run, rise) * 180 / math.Pi
}
