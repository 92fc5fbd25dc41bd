package geometry

import (
	"math"
	"sort"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// RayEpsilon is the minimum hit distance accepted by Intersect. Rays leave surfaces from
// the hit point itself, so anything closer is treated as a self-intersection.
const RayEpsilon = 1e-4

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 8

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Leaf shapes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is immutable after construction and safe for concurrent queries.
type BVH struct {
	Root *BVHNode
}

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}

	// The build reorders shapes, keep the caller's slice intact
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{Root: buildBVH(shapesCopy)}
}

// buildBVH splits at the spatial midpoint of the longest axis, falling back to the
// median shape when every center lands on one side.
func buildBVH(shapes []Shape) *BVHNode {
	bounds := shapes[0].BoundingBox()
	centroids := core.NewAABBFromPoints(bounds.Center())
	for _, s := range shapes[1:] {
		box := s.BoundingBox()
		bounds = bounds.Union(box)
		centroids = centroids.Union(core.NewAABBFromPoints(box.Center()))
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: bounds, Shapes: shapes}
	}

	axis := centroids.LongestAxis()
	lo, hi := centroids.Min.Component(axis), centroids.Max.Component(axis)
	if hi <= lo {
		// All centers coincide, no split can separate them
		return &BVHNode{BoundingBox: bounds, Shapes: shapes}
	}

	mid := partitionShapes(shapes, axis, (lo+hi)*0.5)
	if mid == 0 || mid == len(shapes) {
		sortShapesByAxis(shapes, axis)
		mid = len(shapes) / 2
	}

	return &BVHNode{
		BoundingBox: bounds,
		Left:        buildBVH(shapes[:mid]),
		Right:       buildBVH(shapes[mid:]),
	}
}

// partitionShapes moves shapes whose center lies below split to the front and returns
// the number of such shapes
func partitionShapes(shapes []Shape, axis int, split float64) int {
	i := 0
	for j := range shapes {
		if shapes[j].BoundingBox().Center().Component(axis) < split {
			shapes[i], shapes[j] = shapes[j], shapes[i]
			i++
		}
	}
	return i
}

// sortShapesByAxis sorts shapes by their bounding box center along the specified axis
func sortShapesByAxis(shapes []Shape, axis int) {
	sort.Slice(shapes, func(i, j int) bool {
		return shapes[i].BoundingBox().Center().Component(axis) < shapes[j].BoundingBox().Center().Component(axis)
	})
}

// Hit returns the closest intersection in [tMin, tMax]
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (material.SurfaceInteraction, bool) {
	if bvh.Root == nil {
		return material.SurfaceInteraction{}, false
	}
	return hitNode(bvh.Root, ray, tMin, tMax)
}

// Intersect returns the closest hit beyond RayEpsilon
func (bvh *BVH) Intersect(ray core.Ray) (material.SurfaceInteraction, bool) {
	return bvh.Hit(ray, RayEpsilon, math.Inf(1))
}

func hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (material.SurfaceInteraction, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return material.SurfaceInteraction{}, false
	}

	var closest material.SurfaceInteraction
	hitAnything := false
	closestSoFar := tMax

	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
				hitAnything = true
				closestSoFar = hit.T
				closest = hit
			}
		}
		return closest, hitAnything
	}

	for _, child := range []*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit, ok := hitNode(child, ray, tMin, closestSoFar); ok {
			hitAnything = true
			closestSoFar = hit.T
			closest = hit
		}
	}
	return closest, hitAnything
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// Depth returns the number of levels in the tree
func (bvh *BVH) Depth() int {
	var depth func(*BVHNode) int
	depth = func(n *BVHNode) int {
		if n == nil {
			return 0
		}
		return 1 + max(depth(n.Left), depth(n.Right))
	}
	return depth(bvh.Root)
}
