package geometry

import (
	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	Surface
	V0, V1, V2 core.Vec3
	normal     core.Vec3
	bbox       core.AABB
}

// NewTriangle creates a triangle whose outward normal follows the winding (V1-V0)×(V2-V0)
func NewTriangle(v0, v1, v2 core.Vec3, surface Surface) *Triangle {
	return &Triangle{
		Surface: surface,
		V0:      v0,
		V1:      v1,
		V2:      v2,
		normal:  v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
		bbox:    core.NewAABBFromPoints(v0, v1, v2).Expand(0.0001),
	}
}

// Hit tests the ray against the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (material.SurfaceInteraction, bool) {
	const epsilon = 1e-10

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return material.SurfaceInteraction{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return material.SurfaceInteraction{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return material.SurfaceInteraction{}, false
	}

	tHit := f * edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return material.SurfaceInteraction{}, false
	}

	return t.interaction(tHit, ray.At(tHit), t.normal, core.NewVec2(u, v)), true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's outward normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
