package form3

import (
	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Box return an SDF3 for a 3d box (rounded corners with round > 0).
func Box(size r3.Vec, round float64) (s sdf.SDF3, err error) {
	defer Recover("box", &err)
	return must3.Box(size, round), err
}

// Sphere return an SDF3 for a sphere.
func Sphere(radius float64) (s sdf.SDF3, err error) {
	defer Recover("sphere", &err)
	return must3.Sphere(radius), err
}

// Cylinder return an SDF3 for a cylinder (rounded edges with round > 0).
func Cylinder(height, radius, round float64) (s sdf.SDF3, err error) {
	defer Recover("cylinder", &err)
	return must3.Cylinder(height, radius, round), err
}

// Tube returns an SDF3 for an annulus between radii inner and outer.
func Tube(height, outer, inner float64) (s sdf.SDF3, err error) {
	defer Recover("tube", &err)
	return must3.Tube(height, outer, inner), err
}

// Cone returns the SDF3 for a truncated cone (round > 0 gives rounded edges).
func Cone(height, r0, r1, round float64) (s sdf.SDF3, err error) {
	defer Recover("cone", &err)
	return must3.Cone(height, r0, r1, round), err
}
