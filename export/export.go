package export

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/greenspire/goldentower/form3"
	"github.com/greenspire/goldentower/helpers/matter"
	"github.com/greenspire/goldentower/internal/d3"
	"github.com/greenspire/goldentower/render"
	"github.com/greenspire/goldentower/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMeshCells is the mesh resolution along the longest body side.
const DefaultMeshCells = 200

var errNonFinite = errors.New("non-finite vertex in tessellation")

// Options control one export.
type Options struct {
	// MeshCells is the number of octree cells along the longest side of
	// the body. Zero means DefaultMeshCells.
	MeshCells int
	// BuildID is stamped into the STL and STEP headers.
	BuildID string
	// Material scales the body to compensate print shrinkage.
	Material matter.ViscousMaterial
	// Time is the STEP time stamp. Zero means now.
	Time time.Time
}

// Result describes the files written for one body.
type Result struct {
	Name      string
	STLPath   string
	STEPPath  string
	Triangles int
	Bounds    r3.Box
	Volume    float64 // mm³ enclosed by the mesh
	STLBytes  int64
	STEPBytes int64
	Elapsed   time.Duration
}

// Export tessellates body once and writes <name>.stl and <name>.step into
// the layout. An empty or non-finite tessellation is a *form3.GeometryError;
// I/O failures are returned wrapped.
func Export(l Layout, name string, body sdf.SDF3, opts Options) (Result, error) {
	start := time.Now()
	res := Result{Name: name, STLPath: l.STLPath(name), STEPPath: l.STEPPath(name)}
	model, err := Tessellate(name, body, opts)
	if err != nil {
		return res, err
	}
	if err := l.Ensure(); err != nil {
		return res, err
	}
	header := fmt.Sprintf("goldentower %s %s", name, opts.BuildID)
	if err := render.CreateSTL(res.STLPath, header, model); err != nil {
		return res, fmt.Errorf("write %s: %w", res.STLPath, err)
	}
	stamp := opts.Time
	if stamp.IsZero() {
		stamp = time.Now()
	}
	h := render.STEPHeader{Name: name, BuildID: opts.BuildID, Time: stamp}
	if err := render.CreateSTEP(res.STEPPath, h, model); err != nil {
		return res, fmt.Errorf("write %s: %w", res.STEPPath, err)
	}
	if res.STLBytes, err = fileSize(res.STLPath); err != nil {
		return res, err
	}
	if res.STEPBytes, err = fileSize(res.STEPPath); err != nil {
		return res, err
	}
	res.Triangles = len(model)
	res.Bounds = render.Bounds(model)
	res.Volume = render.Volume(model)
	res.Elapsed = time.Since(start)
	return res, nil
}

// Tessellate meshes body after material compensation.
func Tessellate(name string, body sdf.SDF3, opts Options) (model []render.Triangle3, err error) {
	op := "tessellate " + name
	if body == nil {
		return nil, form3.NewGeometryError(op, errors.New("nil body"))
	}
	cells := opts.MeshCells
	if cells == 0 {
		cells = DefaultMeshCells
	}
	if cells < 2 {
		return nil, form3.NewGeometryError(op, fmt.Errorf("mesh cells %d < 2", cells))
	}
	body = opts.Material.Scale(body)
	bb := body.Bounds()
	if !d3.IsFinite(bb.Min) || !d3.IsFinite(bb.Max) {
		return nil, form3.NewGeometryError(op, errors.New("unbounded body"))
	}
	defer form3.Recover(op, &err)
	model, err = render.RenderAll(render.NewOctreeRenderer(body, cells))
	if err != nil {
		return nil, form3.NewGeometryError(op, err)
	}
	if len(model) == 0 {
		return nil, form3.NewGeometryError(op, render.ErrEmptyMesh)
	}
	if !render.Finite(model) {
		return nil, form3.NewGeometryError(op, errNonFinite)
	}
	return model, nil
}

func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return fi.Size(), nil
}
