package geometry

import (
	"math"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Surface
	Corner core.Vec3
	U      core.Vec3
	V      core.Vec3
	Normal core.Vec3 // U × V, normalized
	d      float64   // Plane equation constant: n·p = d
	w      core.Vec3 // n / (n·(U×V)), used for the in-plane coordinates
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, surface Surface) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()
	return &Quad{
		Surface: surface,
		Corner:  corner,
		U:       u,
		V:       v,
		Normal:  normal,
		d:       normal.Dot(corner),
		w:       normal.Multiply(1.0 / normal.Dot(cross)),
	}
}

// Hit intersects the supporting plane and checks the in-plane coordinates
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (material.SurfaceInteraction, bool) {
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < 1e-8 {
		return material.SurfaceInteraction{}, false
	}

	t := (q.d - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return material.SurfaceInteraction{}, false
	}

	point := ray.At(t)
	rel := point.Subtract(q.Corner)
	alpha := q.w.Dot(rel.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(rel))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return material.SurfaceInteraction{}, false
	}

	return q.interaction(t, point, q.Normal, core.NewVec2(alpha, beta)), true
}

// BoundingBox returns the box around the four corners, padded so flat quads have volume
func (q *Quad) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	).Expand(0.0001)
}
