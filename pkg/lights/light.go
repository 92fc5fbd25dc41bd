package lights

import (
	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// Light is the single distant light of a frame. Its environment is looked up by
// direction only, so every point in the scene sees the same radiance along a direction.
type Light struct {
	Environment core.Environment
}

// NewLight binds an environment. A nil environment is treated as black.
func NewLight(env core.Environment) *Light {
	if env == nil {
		env = NewConstantEnvironment(core.Vec3{})
	}
	return &Light{Environment: env}
}

// Le returns the radiance arriving along -direction, i.e. seen looking along direction
func (l *Light) Le(direction core.Vec3) core.Vec3 {
	return l.Environment.Fetch(direction)
}
