package material

import (
	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// SurfaceInteraction describes a ray-surface hit. Normal is the outward geometric
// normal; it is not flipped toward the ray, the integrator decides which side it is on.
type SurfaceInteraction struct {
	T        float64
	Point    core.Vec3
	Normal   core.Vec3
	UV       core.Vec2
	Color    core.Vec3 // Shading color evaluated at the hit
	Material *Material
}

// FrontFace reports whether a ray travelling along direction hits the outside of the surface
func (si SurfaceInteraction) FrontFace(direction core.Vec3) bool {
	return direction.Dot(si.Normal) < 0
}
