package main

import (
	"context"
	"os"

	"github.com/greenspire/goldentower/internal/config"
	"github.com/greenspire/goldentower/internal/pipeline"
	"github.com/greenspire/goldentower/internal/watch"
	"github.com/greenspire/goldentower/params"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd)
	defer cancel()
	return build(ctx, cmd, cfg)
}

func build(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	p := pipeline.New(cfg, logger)
	res, err := p.BuildAll(ctx)
	if err != nil {
		return err
	}
	printBuildSummary(cmd.OutOrStdout(), res)
	if res.ExitCode() != 0 {
		return errFailed
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// The validate command always produces the review artifacts.
	cfg.Build.Visual = true
	ctx, cancel := signalContext(cmd)
	defer cancel()

	p := pipeline.New(cfg, logger)
	s, err := p.ValidateAll(ctx, args)
	if err != nil {
		return err
	}
	printValidationSummary(cmd.OutOrStdout(), s)
	if s.ExitCode() != 0 {
		return errFailed
	}
	return nil
}

// paramsDocument is what the params command prints.
type paramsDocument struct {
	Parameters params.ParameterSet `yaml:"parameters"`
	Derived    map[string]float64  `yaml:"derived"`
	Findings   []params.Finding    `yaml:"findings"`
}

func runParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p := cfg.Parameters
	doc := paramsDocument{
		Parameters: p,
		Derived: map[string]float64{
			"golden_angle_deg":            p.GoldenAngleDeg(),
			"interlock_rotation_deg":      p.InterlockRotationDeg(),
			"node_vertical_pitch":         p.NodeVerticalPitch(),
			"segment_outer_radius":        p.SegmentOuterRadius(),
			"supply_tube_od":              p.SupplyTubeOD(),
			"supply_tube_id":              p.SupplyTubeID(),
			"pocket_z_offset":             p.PocketZOffset(),
			"pocket_solid_length":         p.PocketSolidLength(),
			"pocket_outer_radius":         p.PocketOuterRadius(),
			"pocket_mouth_relief":         p.PocketMouthRelief(),
			"female_ring_radius":          p.FemaleRingRadius(),
			"body_inner_radius":           p.BodyInnerRadius(),
			"drip_tray_depth":             p.DripTrayDepth(),
			"chamfer_start_z":             p.ChamferStartZ(),
			"cap_outer_radius":            p.CapOuterRadius(),
			"lid_ring_id":                 p.LidRingID(),
			"total_tower_height":          p.TotalTowerHeight(),
			"total_pockets":               float64(p.TotalPockets()),
			"cap_inner_cone_overhang_deg": p.CapInnerConeOverhangDeg(),
		},
		Findings: p.Findings(),
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func runWatch(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd)
	defer cancel()

	rebuild := func(ctx context.Context) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := build(ctx, cmd, cfg); err != nil && err != errFailed {
			return err
		}
		return nil
	}
	if err := rebuild(ctx); err != nil {
		logger.Error("initial build failed", zap.Error(err))
	}
	w := &watch.Watcher{Path: configPath, OnChange: rebuild, Log: logger}
	return w.Run(ctx)
}
