package integrator

import (
	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// PathTracer estimates radiance with a unidirectional random walk that ends in a single
// connection to the environment. It holds no per-sample state and is safe to share.
type PathTracer struct {
	scene       Intersector
	environment core.Environment
}

// NewPathTracer creates a path tracer over a scene lit by one distant environment
func NewPathTracer(scene Intersector, environment core.Environment) *PathTracer {
	return &PathTracer{scene: scene, environment: environment}
}

// Radiance estimates the radiance arriving along -ray.Direction at ray.Origin
func (pt *PathTracer) Radiance(ray core.Ray, sampler core.Sampler) PathResult {
	hit, ok := pt.scene.Intersect(ray)
	if !ok {
		return PathResult{
			Radiance:    pt.environment.Fetch(ray.Direction),
			PrimaryMiss: true,
		}
	}

	vertex := NewPathVertex(ray.Direction, hit)
	state := pt.Walk(&vertex, sampler)

	return PathResult{
		Radiance:    pt.Connect(&vertex, sampler),
		Termination: state,
		Depth:       vertex.Depth,
	}
}

// Walk extends the path until it stops. On return vertex is the last surface vertex
// reached; a step that escapes the scene leaves it untouched.
func (pt *PathTracer) Walk(vertex *PathVertex, sampler core.Sampler) Termination {
	state := Active
	for state == Active {
		state = pt.Step(vertex, sampler)
	}
	return state
}

// Step tries to extend the path by one vertex
func (pt *PathTracer) Step(vertex *PathVertex, sampler core.Sampler) Termination {
	if vertex.Depth >= MaxPathVertices {
		return TerminatedDepth
	}

	m := vertex.Hit.Material
	if !material.Survives(m, sampler) {
		return TerminatedRoulette
	}

	outDir, rtype, interior := scatter(vertex, sampler)

	next, ok := pt.scene.Intersect(core.NewRay(vertex.Hit.Point, outDir))
	if !ok {
		// The escaped direction was sampled by the BRDF, not toward the light; only
		// the final connection gathers environment radiance
		return TerminatedMiss
	}

	brdf := material.BRDF(rtype, m, vertex.Hit.Color, vertex.InDir, outDir, vertex.Hit.Normal)
	vertex.G = vertex.G.MultiplyVec(brdf)
	vertex.Depth++
	vertex.Interior = interior
	vertex.InDir = outDir
	vertex.Hit = next
	return Active
}

// Connect performs next-event estimation from the final vertex: it samples one more
// direction from the surface and, if that direction reaches the environment
// unobstructed, returns the environment radiance weighted by the path throughput.
func (pt *PathTracer) Connect(vertex *PathVertex, sampler core.Sampler) core.Vec3 {
	outDir, rtype, _ := scatter(vertex, sampler)

	brdf := material.BRDF(rtype, vertex.Hit.Material, vertex.Hit.Color, vertex.InDir, outDir, vertex.Hit.Normal)
	g := vertex.G.MultiplyVec(brdf)

	if _, blocked := pt.scene.Intersect(core.NewRay(vertex.Hit.Point, outDir)); blocked {
		return core.Vec3{}
	}
	return pt.environment.Fetch(outDir).MultiplyVec(g)
}

// scatter samples a transport mode and outgoing direction at the vertex. It returns the
// resolved mode and the interior flag the path would have after taking it; the vertex
// itself is not modified.
func scatter(vertex *PathVertex, sampler core.Sampler) (core.Vec3, material.ReflectionType, bool) {
	m := vertex.Hit.Material
	rtype := material.SampleReflectionType(m, sampler)

	wasInterior := vertex.Interior
	interior := wasInterior
	if interior && m.IsIndexMatched() {
		// An index-matched medium does not bend rays, treat the path as outside
		interior = false
	}

	outDir, resolved := material.SampleOutDir(rtype, interior, m, vertex.InDir, vertex.Hit.Normal, sampler)

	if resolved == material.SpecularTransmit {
		switch {
		case wasInterior:
			interior = false
		case !m.IsIndexMatched():
			interior = true
		}
	}
	return outDir, resolved, interior
}
