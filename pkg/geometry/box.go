package geometry

import (
	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// Box is a closed box made of six outward-facing quads, optionally rotated about Y
type Box struct {
	Center    core.Vec3
	HalfSize  core.Vec3
	RotationY float64
	faces     [6]*Quad
	bbox      core.AABB
}

// NewBox creates a box from its center and half-extents
func NewBox(center, halfSize core.Vec3, rotationY float64, surface Surface) *Box {
	b := &Box{Center: center, HalfSize: halfSize, RotationY: rotationY}

	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1),
		core.NewVec3(1, -1, -1),
		core.NewVec3(1, 1, -1),
		core.NewVec3(-1, 1, -1),
		core.NewVec3(-1, -1, 1),
		core.NewVec3(1, -1, 1),
		core.NewVec3(1, 1, 1),
		core.NewVec3(-1, 1, 1),
	}
	for i, c := range corners {
		corners[i] = c.MultiplyVec(halfSize).RotateY(rotationY).Add(center)
	}

	// corner, u, v per face with u×v pointing out of the box
	faces := [6][3]int{
		{4, 5, 7}, // +Z
		{1, 0, 2}, // -Z
		{5, 1, 6}, // +X
		{0, 4, 3}, // -X
		{3, 7, 2}, // +Y
		{4, 0, 5}, // -Y
	}
	for i, f := range faces {
		corner := corners[f[0]]
		b.faces[i] = NewQuad(corner, corners[f[1]].Subtract(corner), corners[f[2]].Subtract(corner), surface)
	}

	b.bbox = core.NewAABBFromPoints(corners[:]...)
	return b
}

// Hit returns the closest face hit
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (material.SurfaceInteraction, bool) {
	var closest material.SurfaceInteraction
	hitAnything := false
	closestT := tMax

	for _, face := range b.faces {
		if hit, ok := face.Hit(ray, tMin, closestT); ok {
			hitAnything = true
			closestT = hit.T
			closest = hit
		}
	}
	return closest, hitAnything
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}
