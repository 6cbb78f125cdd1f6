package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/greenspire/goldentower/mesh"
	"github.com/greenspire/goldentower/tower"
	"github.com/greenspire/goldentower/visual"
	"go.uber.org/zap"
)

// review writes the visual artifacts of every loaded mesh and the review
// sheet, then logs the checklist. Everything here is advisory.
func (p *Pipeline) review(s mesh.Summary, meshes []*mesh.Mesh) {
	var entries []visual.ReviewEntry
	for i, r := range s.Reports {
		m := meshes[i]
		if m == nil {
			continue
		}
		entries = append(entries, p.reviewOne(r, m))
	}
	if len(entries) == 0 {
		return
	}
	if p.cfg.Build.ReviewSheet {
		path := filepath.Join(p.layout.ReportDir(), ReviewSheetName)
		if err := visual.WriteReviewSheet(path, p.buildID, entries); err != nil {
			p.log.Warn("review sheet not written", zap.Error(err))
		} else {
			p.log.Info("review sheet written", zap.String("path", path))
		}
	}
	p.log.Info("HUMAN REVIEW REQUIRED",
		zap.String("renders", p.layout.RenderDir()),
		zap.Strings("checklist", visual.ReviewChecklist))
}

func (p *Pipeline) reviewOne(r mesh.Report, m *mesh.Mesh) visual.ReviewEntry {
	log := p.log.With(zap.String("mesh", r.Name))
	dir := p.layout.RenderDir()
	ps := p.cfg.Parameters

	c, err := tower.Parse(r.Name)
	if err != nil {
		c = ""
	}
	a := visual.Analyze(r, m, ps, c)
	a.BuildID = p.buildID
	for _, w := range a.Warnings {
		log.Warn("dimensional check", zap.String("detail", w))
	}
	entry := visual.ReviewEntry{Analysis: a, Passed: r.Passed(), Failures: r.Failures}

	ortho := filepath.Join(dir, r.Name+"_ortho.png")
	title := bannerTitle(a)
	opts := visual.RenderOptions{Tile: p.cfg.Build.RenderTile, Supersample: 2}
	if err := visual.RenderViews(m, ortho, title, opts); err != nil {
		log.Warn("views not rendered", zap.Error(err))
	} else {
		entry.OrthoPNG = ortho
	}
	if p.cfg.Build.CrossSections {
		if paths, err := visual.PlotSections(m, dir, r.Name, ps); err != nil {
			log.Warn("cross sections not plotted", zap.Error(err))
		} else {
			log.Debug("cross sections plotted", zap.Strings("paths", paths))
		}
		dxfPath := filepath.Join(dir, r.Name+"_sections.dxf")
		if err := visual.WriteSectionsDXF(dxfPath, m, ps); err != nil {
			log.Warn("section drawing not written", zap.Error(err))
		}
	}
	analysis := filepath.Join(dir, r.Name+"_analysis.txt")
	if err := visual.WriteAnalysis(analysis, a); err != nil {
		log.Warn("analysis not written", zap.Error(err))
	}
	return entry
}

func bannerTitle(a visual.Analysis) string {
	e := a.Extents
	return fmt.Sprintf("%s  bbox %.1f x %.1f x %.1f mm  volume %.0f mm3  watertight %t",
		a.Name, e.X, e.Y, e.Z, a.Volume, a.Watertight)
}
