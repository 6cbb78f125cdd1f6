// Command goldentower builds, exports and validates the printable parts of
// the golden tower.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenspire/goldentower/helpers/matter"
	"github.com/greenspire/goldentower/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	outDir     string
	meshCells  int

	// Build flags
	coupons  bool
	material string
	visual   bool

	// Validate flags
	noCrossSection bool

	logger *zap.Logger
)

// errFailed makes the process exit with status 1 after the summary has
// been printed.
var errFailed = errors.New("one or more components failed")

var rootCmd = &cobra.Command{
	Use:   "goldentower",
	Short: "Parametric CAD generator for a golden-angle hydroponic tower",
	Long: `goldentower builds the stackable segment, bottom reservoir segment and top
cap of a golden-angle hydroponic tower, exports STL and STEP files and checks
every exported mesh for printability.

Run without a subcommand to build the tower.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBuild,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build, export and validate every tower component",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

var validateCmd = &cobra.Command{
	Use:   "validate [file.stl]",
	Short: "Validate exported meshes and write the review artifacts",
	Long: `Validates one STL file, or every STL in the output directory, and writes
view renders, cross sections and a dimensional analysis for each.
Relative file names are looked up in <out>/stl.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the resolved parameters, derived values and design findings",
	Args:  cobra.NoArgs,
	RunE:  runParams,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever the configuration file changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&configPath, "config", config.DefaultPath, "configuration file")
	pf.StringVar(&outDir, "out", "", "output directory (overrides build.out_dir)")
	pf.IntVar(&meshCells, "cells", 0, "mesh cells along the longest side (overrides build.mesh_cells)")

	for _, cmd := range []*cobra.Command{rootCmd, buildCmd, watchCmd} {
		f := cmd.Flags()
		f.BoolVar(&coupons, "coupons", false, "also build the interlock fit test coupons")
		f.StringVar(&material, "material", "", fmt.Sprintf("shrink compensation material %v", matter.Names()))
		f.BoolVar(&visual, "visual", false, "write renders, cross sections and the review sheet")
	}
	validateCmd.Flags().BoolVar(&noCrossSection, "no-cross-section", false, "skip cross section plots")

	rootCmd.AddCommand(buildCmd, validateCmd, paramsCmd, watchCmd)
}

// loadConfig reads the configuration file and applies the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Build.OutDir = outDir
	}
	if flags.Changed("cells") {
		cfg.Build.MeshCells = meshCells
	}
	if flags.Changed("coupons") {
		cfg.Build.Coupons = coupons
	}
	if flags.Changed("material") {
		cfg.Build.Material = material
	}
	if flags.Changed("visual") {
		cfg.Build.Visual = visual
	}
	if flags.Changed("no-cross-section") {
		cfg.Build.CrossSections = !noCrossSection
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
