package mesh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/greenspire/goldentower/render"
)

// SizeCheck compares a binary STL file size with the size implied by its
// triangle count.
type SizeCheck struct {
	Path     string
	Count    uint32
	Size     int64
	Expected int64
}

// OK reports whether the file holds exactly Count triangle records.
func (s SizeCheck) OK() bool { return s.Size == s.Expected }

// CheckSize reads the header of the binary STL at path.
func CheckSize(path string) (SizeCheck, error) {
	f, err := os.Open(path)
	if err != nil {
		return SizeCheck{}, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return SizeCheck{}, err
	}
	_, n, err := render.ReadSTLHeader(f)
	if err != nil {
		return SizeCheck{}, fmt.Errorf("read %s header: %w", path, err)
	}
	return SizeCheck{
		Path:     path,
		Count:    n,
		Size:     fi.Size(),
		Expected: render.STLSize(int(n)),
	}, nil
}

// ValidateFile loads and analyzes one STL file. Load and size failures are
// recorded in the report rather than returned.
func ValidateFile(path string) Report {
	_, r := Inspect(path)
	return r
}

// Inspect is ValidateFile that also returns the loaded mesh, nil when the
// file could not be read.
func Inspect(path string) (*Mesh, Report) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := Load(path)
	if err != nil {
		r := Report{Name: name, Path: path}
		r.fail("load: %v", err)
		return nil, r
	}
	r := Analyze(name, m)
	r.Path = path
	if m.ASCII {
		return m, r
	}
	sc, err := CheckSize(path)
	switch {
	case err != nil:
		r.fail("size: %v", err)
	case !sc.OK():
		r.Size = &sc
		r.fail("file size %d bytes, %d triangles need %d", sc.Size, sc.Count, sc.Expected)
	default:
		r.Size = &sc
	}
	return m, r
}

// Summary collects the reports of a validation run.
type Summary struct {
	Reports []Report
}

// Validate checks every file. One failing file does not stop the others.
func Validate(paths []string) Summary {
	var s Summary
	for _, p := range paths {
		s.Reports = append(s.Reports, ValidateFile(p))
	}
	return s
}

// Failed returns the reports that did not pass.
func (s Summary) Failed() []Report {
	var failed []Report
	for _, r := range s.Reports {
		if !r.Passed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// ExitCode is 0 when every file passed and there was at least one file.
func (s Summary) ExitCode() int {
	if len(s.Reports) == 0 || len(s.Failed()) > 0 {
		return 1
	}
	return 0
}
