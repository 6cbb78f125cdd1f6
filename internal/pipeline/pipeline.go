// Package pipeline runs a build: every requested component is built,
// exported, validated and optionally reviewed, one after the other.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/greenspire/goldentower/export"
	"github.com/greenspire/goldentower/form3"
	"github.com/greenspire/goldentower/helpers/matter"
	"github.com/greenspire/goldentower/internal/config"
	"github.com/greenspire/goldentower/mesh"
	"github.com/greenspire/goldentower/params"
	"github.com/greenspire/goldentower/tower"
	"go.uber.org/zap"
)

// Report file names inside the layout report directory.
const (
	WorkbookName    = "validation.xlsx"
	ReviewSheetName = "review.pdf"
)

// Pipeline holds what every stage of one run shares.
type Pipeline struct {
	cfg     *config.Config
	log     *zap.Logger
	layout  export.Layout
	buildID string
}

// New returns a pipeline for cfg with a fresh build id.
func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Pipeline{
		cfg:     cfg,
		log:     log.With(zap.String("build", id)),
		layout:  export.Layout{Root: cfg.Build.OutDir},
		buildID: id,
	}
}

// BuildID identifies this run in file headers and review codes.
func (p *Pipeline) BuildID() string { return p.buildID }

// Layout is the output tree of this run.
func (p *Pipeline) Layout() export.Layout { return p.layout }

// ComponentResult is the outcome of one component.
type ComponentResult struct {
	Component tower.Component
	Export    export.Result
	Report    *mesh.Report
	// Err is the build or export failure. A failed component has no mesh.
	Err error
}

// OK reports whether the component was built and its mesh passed.
func (r ComponentResult) OK() bool {
	return r.Err == nil && r.Report != nil && r.Report.Passed()
}

// Result is the outcome of a run.
type Result struct {
	BuildID    string
	Components []ComponentResult
	Validation mesh.Summary
	Findings   []params.Finding
	Elapsed    time.Duration
}

// ExitCode is 1 when any component failed to build or validate.
func (r Result) ExitCode() int {
	for _, c := range r.Components {
		if !c.OK() {
			return 1
		}
	}
	return r.Validation.ExitCode()
}

// Targets resolves the configured component list.
func (p *Pipeline) Targets() ([]tower.Component, error) {
	var out []tower.Component
	if len(p.cfg.Build.Components) == 0 {
		out = tower.Tower()
	}
	for _, name := range p.cfg.Build.Components {
		c, err := tower.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if p.cfg.Build.Coupons {
		out = append(out, tower.Coupons()...)
	}
	return out, nil
}

// BuildAll builds, exports and validates every target. A component whose
// geometry fails is recorded and skipped. Export I/O failures abort the run.
func (p *Pipeline) BuildAll(ctx context.Context) (Result, error) {
	start := time.Now()
	res := Result{BuildID: p.buildID}
	ps := p.cfg.Parameters
	if err := ps.Validate(); err != nil {
		return res, fmt.Errorf("invalid parameters: %w", err)
	}
	targets, err := p.Targets()
	if err != nil {
		return res, err
	}
	material, err := matter.Lookup(p.cfg.Build.Material)
	if err != nil {
		return res, err
	}
	res.Findings = ps.Findings()
	p.logFindings(res.Findings)
	if err := p.layout.Ensure(); err != nil {
		return res, err
	}

	opts := export.Options{
		MeshCells: p.cfg.Build.MeshCells,
		BuildID:   p.buildID,
		Material:  material,
	}
	p.log.Info("build started",
		zap.Int("components", len(targets)),
		zap.Int("cells", opts.MeshCells),
		zap.String("material", material.Name),
		zap.String("out", p.layout.Root))

	var exported []string
	for _, c := range targets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		cr, err := p.buildOne(c, ps, opts)
		if err != nil {
			return res, err
		}
		if cr.Err == nil {
			exported = append(exported, cr.Export.STLPath)
		}
		res.Components = append(res.Components, cr)
	}

	res.Validation = p.validate(ctx, exported)
	for i := range res.Components {
		cr := &res.Components[i]
		for j := range res.Validation.Reports {
			if r := &res.Validation.Reports[j]; cr.Err == nil && r.Path == cr.Export.STLPath {
				cr.Report = r
			}
		}
	}
	res.Elapsed = time.Since(start)
	p.log.Info("build finished",
		zap.Duration("elapsed", res.Elapsed),
		zap.Int("exit_code", res.ExitCode()))
	return res, nil
}

func (p *Pipeline) buildOne(c tower.Component, ps params.ParameterSet, opts export.Options) (ComponentResult, error) {
	log := p.log.With(zap.String("component", string(c)))
	cr := ComponentResult{Component: c}
	body, err := tower.Build(c, ps)
	if err == nil {
		cr.Export, err = export.Export(p.layout, string(c), body, opts)
	}
	switch {
	case err == nil:
	case form3.IsGeometryError(err):
		var ge *form3.GeometryError
		errors.As(err, &ge)
		log.Error("geometry failed", zap.Error(err))
		if ge.Stack != "" {
			log.Debug("geometry failure stack", zap.String("stack", ge.Stack))
		}
		cr.Err = err
		return cr, nil
	default:
		// Invalid parameters were rejected before the loop, so anything
		// left is an I/O failure.
		return cr, fmt.Errorf("%s: %w", c, err)
	}
	log.Info("exported",
		zap.Int("triangles", cr.Export.Triangles),
		zap.Float64("volume_mm3", cr.Export.Volume),
		zap.Int64("stl_bytes", cr.Export.STLBytes),
		zap.Int64("step_bytes", cr.Export.STEPBytes),
		zap.Duration("elapsed", cr.Export.Elapsed))
	return cr, nil
}

func (p *Pipeline) logFindings(findings []params.Finding) {
	for _, f := range findings {
		switch f.Severity {
		case params.Pass:
			p.log.Debug("design rule", zap.String("rule", f.Rule), zap.String("detail", f.Detail))
		default:
			p.log.Warn("design rule", zap.String("rule", f.Rule),
				zap.Stringer("severity", f.Severity), zap.String("detail", f.Detail))
		}
	}
}

// ValidateAll validates paths, or every STL in the layout when paths is
// empty. Relative names without a directory resolve in the STL directory.
func (p *Pipeline) ValidateAll(ctx context.Context, paths []string) (mesh.Summary, error) {
	if len(paths) == 0 {
		files, err := p.layout.STLFiles()
		if err != nil {
			return mesh.Summary{}, err
		}
		paths = files
	}
	resolved := make([]string, len(paths))
	for i, path := range paths {
		resolved[i] = p.resolve(path)
	}
	if len(resolved) == 0 {
		p.log.Warn("no STL files found", zap.String("dir", p.layout.STLDir()))
	}
	s := p.validate(ctx, resolved)
	return s, ctx.Err()
}

// cancelledReport is the failed report of a file skipped by cancellation.
func cancelledReport(path string) mesh.Report {
	return mesh.Report{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:     path,
		Failures: []string{"cancelled"},
	}
}

func (p *Pipeline) resolve(path string) string {
	if filepath.IsAbs(path) || filepath.Dir(path) != "." {
		return path
	}
	return filepath.Join(p.layout.STLDir(), path)
}

// validate checks every file, then writes the workbook and runs the review
// stage. Report and review failures are logged, never returned.
func (p *Pipeline) validate(ctx context.Context, paths []string) mesh.Summary {
	var (
		s      mesh.Summary
		meshes []*mesh.Mesh
	)
	for _, path := range paths {
		if ctx.Err() != nil {
			s.Reports = append(s.Reports, cancelledReport(path))
			continue
		}
		m, r := mesh.Inspect(path)
		log := p.log.With(zap.String("mesh", r.Name))
		if r.Passed() {
			log.Info("mesh passed",
				zap.Int("triangles", r.Triangles),
				zap.Float64("volume_mm3", r.Volume),
				zap.Int("shells", r.Shells))
		} else {
			log.Error("mesh failed", zap.Strings("failures", r.Failures))
		}
		s.Reports = append(s.Reports, r)
		meshes = append(meshes, m)
	}
	if len(s.Reports) == 0 || ctx.Err() != nil {
		return s
	}
	if err := p.layout.Ensure(); err != nil {
		p.log.Warn("reports not written", zap.Error(err))
		return s
	}
	if p.cfg.Build.Workbook {
		path := filepath.Join(p.layout.ReportDir(), WorkbookName)
		if err := mesh.WriteWorkbook(path, s); err != nil {
			p.log.Warn("workbook not written", zap.Error(err))
		} else {
			p.log.Info("workbook written", zap.String("path", path))
		}
	}
	if p.cfg.Build.Visual {
		p.review(s, meshes)
	}
	return s
}
