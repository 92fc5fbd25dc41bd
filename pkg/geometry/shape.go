package geometry

import (
	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.SurfaceInteraction, bool)
	BoundingBox() core.AABB
}

// Surface carries the material and shading color shared by every shape
type Surface struct {
	Material *material.Material
	Color    material.ColorSource
}

// NewSurface binds a material to a color source. A nil color source shades white.
func NewSurface(mat *material.Material, color material.ColorSource) Surface {
	if color == nil {
		color = material.NewSolidColor(core.NewVec3(1, 1, 1))
	}
	return Surface{Material: mat, Color: color}
}

// interaction fills a hit record with the surface's material and evaluated color
func (s Surface) interaction(t float64, point, outwardNormal core.Vec3, uv core.Vec2) material.SurfaceInteraction {
	return material.SurfaceInteraction{
		T:        t,
		Point:    point,
		Normal:   outwardNormal,
		UV:       uv,
		Color:    s.Color.Evaluate(uv, point),
		Material: s.Material,
	}
}
