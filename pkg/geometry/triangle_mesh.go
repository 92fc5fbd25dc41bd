package geometry

import (
	"fmt"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// TriangleMesh represents a collection of triangles with its own BVH
type TriangleMesh struct {
	triangles []Shape
	bvh       *BVH
}

// TriangleMeshOptions contains optional transforms applied to the vertices
type TriangleMeshOptions struct {
	Scale     float64   // Uniform scale about the origin, 0 means 1
	RotationY float64   // Rotation about the Y axis in radians
	Offset    core.Vec3 // Translation applied last
}

// NewTriangleMesh creates a mesh from vertices and face indices (each group of three
// indices forms a triangle)
func NewTriangleMesh(vertices []core.Vec3, faces []int, surface Surface, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}

	working := vertices
	if options != nil {
		scale := options.Scale
		if scale == 0 {
			scale = 1
		}
		working = make([]core.Vec3, len(vertices))
		for i, v := range vertices {
			working[i] = v.Multiply(scale).RotateY(options.RotationY).Add(options.Offset)
		}
	}

	triangles := make([]Shape, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		for _, idx := range []int{i0, i1, i2} {
			if idx < 0 || idx >= len(working) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range [0,%d)", i/3, idx, len(working))
			}
		}
		triangles = append(triangles, NewTriangle(working[i0], working[i1], working[i2], surface))
	}

	return &TriangleMesh{triangles: triangles, bvh: NewBVH(triangles)}, nil
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (material.SurfaceInteraction, bool) {
	return tm.bvh.Hit(ray, tMin, tMax)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bvh.BoundingBox()
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}
