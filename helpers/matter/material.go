// Package matter compensates printed parts for the shrinkage of the
// filament they are printed in.
package matter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/greenspire/goldentower/sdf"
)

var (
	// PLA (polylactic acid) is the default tower filament.
	PLA = ViscousMaterial{Name: "pla", shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
	// PETG is food safe and tolerates nutrient solution better than PLA.
	PETG = ViscousMaterial{Name: "petg", shrink: 0.4e-2, pullShrink: .3}
	// ABS shrinks the most of the common filaments.
	ABS = ViscousMaterial{Name: "abs", shrink: 0.7e-2, pullShrink: .4}
	// None applies no compensation.
	None = ViscousMaterial{Name: "none"}
)

var materials = map[string]ViscousMaterial{
	PLA.Name:  PLA,
	PETG.Name: PETG,
	ABS.Name:  ABS,
	None.Name: None,
}

type ViscousMaterial struct {
	Name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage of holes, in mm.
	pullShrink float64
}

// Lookup returns the material with the given name. The empty name is None.
func Lookup(name string) (ViscousMaterial, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return None, nil
	}
	m, ok := materials[name]
	if !ok {
		return ViscousMaterial{}, fmt.Errorf("unknown material %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return m, nil
}

// Names lists the known materials in sorted order.
func Names() []string {
	names := make([]string, 0, len(materials))
	for n := range materials {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Shrink is the fractional linear shrinkage of the material.
func (m ViscousMaterial) Shrink() float64 { return m.shrink }

// ScaleFactor is the uniform scale that cancels the shrinkage.
func (m ViscousMaterial) ScaleFactor() float64 { return 1 / (1 - m.shrink) }

// Scale enlarges s so the part cools to its modelled size.
func (m ViscousMaterial) Scale(s sdf.SDF3) sdf.SDF3 {
	if m.shrink == 0 {
		return s
	}
	return sdf.ScaleUniform3D(s, m.ScaleFactor())
}

// InternalDimScale returns the dimension to model a hole with so it prints
// at real size.
func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}
