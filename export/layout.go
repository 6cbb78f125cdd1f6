// Package export tessellates built bodies and writes them to the output
// directory tree.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRoot is the output directory used when none is configured.
const DefaultRoot = "exports"

// Layout is the output directory tree:
//
//	<root>/stl/<name>.stl
//	<root>/step/<name>.step
//	<root>/renders/<name>_*.png, <name>_analysis.txt, <name>_sections.dxf
//	<root>/reports/validation.xlsx, review.pdf
type Layout struct {
	Root string
}

func (l Layout) root() string {
	if l.Root == "" {
		return DefaultRoot
	}
	return l.Root
}

func (l Layout) STLDir() string    { return filepath.Join(l.root(), "stl") }
func (l Layout) STEPDir() string   { return filepath.Join(l.root(), "step") }
func (l Layout) RenderDir() string { return filepath.Join(l.root(), "renders") }
func (l Layout) ReportDir() string { return filepath.Join(l.root(), "reports") }

func (l Layout) STLPath(name string) string  { return filepath.Join(l.STLDir(), name+".stl") }
func (l Layout) STEPPath(name string) string { return filepath.Join(l.STEPDir(), name+".step") }

// Ensure creates every directory of the layout.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.STLDir(), l.STEPDir(), l.RenderDir(), l.ReportDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return nil
}

// STLFiles lists the STL files in the layout, sorted by name.
func (l Layout) STLFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(l.STLDir(), "*.stl"))
	if err != nil {
		return nil, err
	}
	return files, nil
}
