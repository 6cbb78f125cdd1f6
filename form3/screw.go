package form3

import (
	"github.com/greenspire/goldentower/form3/must3"
	"github.com/greenspire/goldentower/sdf"
)

// Thread returns a helical V thread ridge of the given pitch and depth
// wrapped around a cylinder of root radius.
func Thread(length, radius, pitch, depth float64) (s sdf.SDF3, err error) {
	defer Recover("thread", &err)
	return must3.Thread(length, radius, pitch, depth), err
}
