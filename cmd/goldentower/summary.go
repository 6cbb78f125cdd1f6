package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/greenspire/goldentower/internal/d3"
	"github.com/greenspire/goldentower/internal/pipeline"
	"github.com/greenspire/goldentower/mesh"
)

var (
	successColor = lipgloss.Color("#8BC34A")
	failColor    = lipgloss.Color("#E53935")
	mutedColor   = lipgloss.Color("#7A8699")

	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(mutedColor)
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(failColor)
	detailStyle = lipgloss.NewStyle().Foreground(mutedColor).PaddingLeft(2)
)

var columnWidths = []int{18, 6, 10, 12, 26, 10, 10}

func row(cells ...string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = lipgloss.NewStyle().Width(columnWidths[i]).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func status(ok bool) string {
	if ok {
		return passStyle.Render("PASS")
	}
	return failStyle.Render("FAIL")
}

func printBuildSummary(w io.Writer, res pipeline.Result) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("goldentower build "+res.BuildID) + "\n")
	b.WriteString(headerStyle.Render(row("component", "", "triangles", "volume cm³", "bbox mm", "STL", "time")) + "\n")
	for _, c := range res.Components {
		if c.Err != nil {
			b.WriteString(row(string(c.Component), status(false)) + "\n")
			b.WriteString(detailStyle.Render(c.Err.Error()) + "\n")
			continue
		}
		e := c.Export
		size := d3.Box(e.Bounds).Size()
		b.WriteString(row(
			string(c.Component),
			status(c.OK()),
			fmt.Sprint(e.Triangles),
			fmt.Sprintf("%.1f", e.Volume/1000),
			fmt.Sprintf("%.1f x %.1f x %.1f", size.X, size.Y, size.Z),
			humanBytes(e.STLBytes),
			e.Elapsed.Round(10*time.Millisecond).String(),
		) + "\n")
		if c.Report != nil {
			for _, f := range c.Report.Failures {
				b.WriteString(detailStyle.Render(f) + "\n")
			}
		}
	}
	fmt.Fprint(w, b.String())
	fmt.Fprintf(w, "%s in %s\n", overall(res.ExitCode() == 0), res.Elapsed.Round(10*time.Millisecond))
}

func printValidationSummary(w io.Writer, s mesh.Summary) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("goldentower validate") + "\n")
	for _, r := range s.Reports {
		b.WriteString(row(r.Name, status(r.Passed()), fmt.Sprint(r.Triangles),
			fmt.Sprintf("%.1f", r.Volume/1000)) + "\n")
		for _, f := range r.Failures {
			b.WriteString(detailStyle.Render(f) + "\n")
		}
	}
	fmt.Fprint(w, b.String())
	fmt.Fprintln(w, overall(s.ExitCode() == 0))
}

func overall(ok bool) string {
	if ok {
		return passStyle.Render("all meshes passed")
	}
	return failStyle.Render("validation failed")
}

func humanBytes(n int64) string {
	return humanize.Bytes(uint64(max(n, 0)))
}
