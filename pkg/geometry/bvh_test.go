package geometry

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)
	if _, ok := bvh.Intersect(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))); ok {
		t.Error("Empty BVH should never report a hit")
	}
}

func TestBVH_MatchesLinearSearch(t *testing.T) {
	random := rand.New(rand.NewPCG(1, 2))

	var shapes []Shape
	for i := 0; i < 200; i++ {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		shapes = append(shapes, NewSphere(center, 0.2+random.Float64()*0.5, testSurface()))
	}
	shapes = append(shapes, NewPlane(core.NewVec3(0, -12, 0), core.NewVec3(0, 1, 0), testSurface()))

	bvh := NewBVH(shapes)
	if bvh.Depth() < 3 {
		t.Errorf("Expected a multi-level tree for %d shapes, depth %d", len(shapes), bvh.Depth())
	}

	for i := 0; i < 500; i++ {
		dir := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1).Normalize()
		ray := core.NewRay(core.NewVec3(0, 0, 0), dir)

		bvhHit, bvhOK := bvh.Intersect(ray)

		linearHit := math.Inf(1)
		linearOK := false
		for _, s := range shapes {
			if hit, ok := s.Hit(ray, RayEpsilon, linearHit); ok {
				linearHit = hit.T
				linearOK = true
			}
		}

		if bvhOK != linearOK {
			t.Fatalf("Ray %d: BVH hit=%v, linear hit=%v", i, bvhOK, linearOK)
		}
		if bvhOK && math.Abs(bvhHit.T-linearHit) > 1e-9 {
			t.Fatalf("Ray %d: BVH t=%f, linear t=%f", i, bvhHit.T, linearHit)
		}
	}
}

func TestBVH_IgnoresSelfIntersection(t *testing.T) {
	sphere := NewSphere(core.Vec3{}, 1, testSurface())
	bvh := NewBVH([]Shape{sphere})

	// Leaving the surface outward from the hit point must not re-hit it
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1))
	if hit, ok := bvh.Intersect(ray); ok {
		t.Errorf("Expected no self-hit, got t=%g", hit.T)
	}

	// Heading back inside finds the far side
	ray = core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit, ok := bvh.Intersect(ray)
	if !ok || math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("Expected far-side hit at t=2, got %v %f", ok, hit.T)
	}
}
