package geometry

import (
	"math"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// planeExtent bounds an infinite plane for BVH purposes
const planeExtent = 1e6

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Surface
	Point  core.Vec3
	Normal core.Vec3
}

// NewPlane creates a new plane. The normal is normalized.
func NewPlane(point, normal core.Vec3, surface Surface) *Plane {
	return &Plane{Surface: surface, Point: point, Normal: normal.Normalize()}
}

// Hit intersects the ray with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (material.SurfaceInteraction, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < 1e-8 {
		return material.SurfaceInteraction{}, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return material.SurfaceInteraction{}, false
	}

	point := ray.At(t)
	t1, t2 := core.OrthonormalBasis(p.Normal)
	local := point.Subtract(p.Point)
	return p.interaction(t, point, p.Normal, core.NewVec2(local.Dot(t1), local.Dot(t2))), true
}

// BoundingBox returns a thin slab for axis-aligned planes and a large cube otherwise
func (p *Plane) BoundingBox() core.AABB {
	const thickness = 0.001
	big := core.NewVec3(planeExtent, planeExtent, planeExtent)

	for axis := 0; axis < 3; axis++ {
		if math.Abs(math.Abs(p.Normal.Component(axis))-1) > 1e-9 {
			continue
		}
		lo, hi := big.Negate(), big
		c := p.Point.Component(axis)
		switch axis {
		case 0:
			lo.X, hi.X = c-thickness, c+thickness
		case 1:
			lo.Y, hi.Y = c-thickness, c+thickness
		case 2:
			lo.Z, hi.Z = c-thickness, c+thickness
		}
		return core.NewAABB(lo, hi)
	}
	return core.NewAABB(big.Negate(), big)
}
