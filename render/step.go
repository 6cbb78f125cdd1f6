package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// STEPHeader names the product written to a STEP file.
type STEPHeader struct {
	Name    string
	BuildID string
	Time    time.Time
}

// CreateSTEP writes the model to a STEP file at path.
func CreateSTEP(path string, h STEPHeader, model []Triangle3) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteSTEP(file, h, model)
}

// WriteSTEP writes the model as an ISO 10303-21 AP214 faceted boundary
// representation: one CLOSED_SHELL of triangular FACEs over shared
// CARTESIAN_POINTs, in millimetres.
func WriteSTEP(w io.Writer, h STEPHeader, model []Triangle3) error {
	if len(model) == 0 {
		return ErrEmptyMesh
	}
	bw := bufio.NewWriter(w)
	sw := stepWriter{w: bw}
	name := stepString(h.Name)
	stamp := h.Time.UTC().Format("2006-01-02T15:04:05")

	fmt.Fprintf(bw, "ISO-10303-21;\nHEADER;\n")
	fmt.Fprintf(bw, "FILE_DESCRIPTION(('goldentower faceted BREP'),'2;1');\n")
	fmt.Fprintf(bw, "FILE_NAME('%s.step','%s',('goldentower'),(''),'goldentower %s','goldentower','');\n",
		name, stamp, stepString(h.BuildID))
	fmt.Fprintf(bw, "FILE_SCHEMA(('AUTOMOTIVE_DESIGN { 1 0 10303 214 1 1 1 1 }'));\nENDSEC;\nDATA;\n")

	appCtx := sw.entity("APPLICATION_CONTEXT('core data for automotive mechanical design processes')")
	sw.entity("APPLICATION_PROTOCOL_DEFINITION('international standard','automotive_design',2000,%s)", appCtx)
	prodCtx := sw.entity("PRODUCT_CONTEXT('',%s,'mechanical')", appCtx)
	prod := sw.entity("PRODUCT('%s','%s','%s',(%s))", name, name, stepString(h.BuildID), prodCtx)
	formation := sw.entity("PRODUCT_DEFINITION_FORMATION('','',%s)", prod)
	defCtx := sw.entity("PRODUCT_DEFINITION_CONTEXT('part definition',%s,'design')", appCtx)
	def := sw.entity("PRODUCT_DEFINITION('design','',%s,%s)", formation, defCtx)
	shape := sw.entity("PRODUCT_DEFINITION_SHAPE('','',%s)", def)
	length := sw.entity("(LENGTH_UNIT() NAMED_UNIT(*) SI_UNIT(.MILLI.,.METRE.))")
	angle := sw.entity("(NAMED_UNIT(*) PLANE_ANGLE_UNIT() SI_UNIT($,.RADIAN.))")
	solid := sw.entity("(NAMED_UNIT(*) SI_UNIT($,.STERADIAN.) SOLID_ANGLE_UNIT())")
	uncertainty := sw.entity("UNCERTAINTY_MEASURE_WITH_UNIT(LENGTH_MEASURE(1.E-05),%s,'distance_accuracy_value','confusion accuracy')", length)
	geomCtx := sw.entity("(GEOMETRIC_REPRESENTATION_CONTEXT(3) GLOBAL_UNCERTAINTY_ASSIGNED_CONTEXT((%s)) "+
		"GLOBAL_UNIT_ASSIGNED_CONTEXT((%s,%s,%s)) REPRESENTATION_CONTEXT('',''))", uncertainty, length, angle, solid)

	points := make(map[r3.Vec]string, len(model)/2)
	point := func(v r3.Vec) string {
		if ref, ok := points[v]; ok {
			return ref
		}
		ref := sw.entity("CARTESIAN_POINT('',(%s,%s,%s))", stepReal(v.X), stepReal(v.Y), stepReal(v.Z))
		points[v] = ref
		return ref
	}
	faces := make([]string, 0, len(model))
	for _, t := range model {
		a, b, c := point(t.V[0]), point(t.V[1]), point(t.V[2])
		loop := sw.entity("POLY_LOOP('',(%s,%s,%s))", a, b, c)
		bound := sw.entity("FACE_OUTER_BOUND('',%s,.T.)", loop)
		faces = append(faces, sw.entity("FACE('',(%s))", bound))
	}
	shell := sw.entity("CLOSED_SHELL('',(%s))", strings.Join(faces, ","))
	brep := sw.entity("FACETED_BREP('%s',%s)", name, shell)
	rep := sw.entity("FACETED_BREP_SHAPE_REPRESENTATION('%s',(%s),%s)", name, brep, geomCtx)
	sw.entity("SHAPE_DEFINITION_REPRESENTATION(%s,%s)", shape, rep)

	fmt.Fprintf(bw, "ENDSEC;\nEND-ISO-10303-21;\n")
	if sw.err != nil {
		return sw.err
	}
	return bw.Flush()
}

type stepWriter struct {
	w   *bufio.Writer
	id  int
	err error
}

// entity writes the next numbered instance and returns its reference.
func (sw *stepWriter) entity(format string, args ...any) string {
	sw.id++
	ref := "#" + strconv.Itoa(sw.id)
	if sw.err == nil {
		_, sw.err = fmt.Fprintf(sw.w, "%s=%s;\n", ref, fmt.Sprintf(format, args...))
	}
	return ref
}

// stepReal formats f as a STEP REAL, which always carries a decimal point.
func stepReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += "."
	}
	return s
}

// stepString escapes apostrophes for a STEP string literal.
func stepString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
