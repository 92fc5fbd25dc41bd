package integrator

import (
	"fmt"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// MaxPathVertices bounds the number of vertices of a path, camera and light included
const MaxPathVertices = 10

// InitialDepth is the depth of the first surface vertex: the camera is vertex 0 and the
// light connection is counted up front.
const InitialDepth = 2

// Intersector finds the closest surface hit along a ray. Implementations must be safe
// for concurrent use and must ignore self-intersections at the ray origin.
type Intersector interface {
	Intersect(ray core.Ray) (material.SurfaceInteraction, bool)
}

// Termination is the state of a path walk
type Termination int

const (
	Active Termination = iota
	TerminatedMiss
	TerminatedDepth
	TerminatedRoulette
)

func (t Termination) String() string {
	switch t {
	case Active:
		return "active"
	case TerminatedMiss:
		return "miss"
	case TerminatedDepth:
		return "depth"
	case TerminatedRoulette:
		return "roulette"
	default:
		return fmt.Sprintf("Termination(%d)", int(t))
	}
}

// PathVertex is the current end of a path being extended
type PathVertex struct {
	InDir    core.Vec3 // Direction the path arrived along
	Hit      material.SurfaceInteraction
	Interior bool      // The path is travelling inside a dielectric
	G        core.Vec3 // Product of BRDFs along the path so far
	Depth    int
}

// NewPathVertex starts a path at the first surface hit of a camera ray
func NewPathVertex(inDir core.Vec3, hit material.SurfaceInteraction) PathVertex {
	return PathVertex{
		InDir: inDir,
		Hit:   hit,
		G:     core.NewVec3(1, 1, 1),
		Depth: InitialDepth,
	}
}

// PathResult is the outcome of one radiance estimate
type PathResult struct {
	Radiance    core.Vec3
	PrimaryMiss bool
	Termination Termination // Why the walk stopped; Active for primary misses
	Depth       int         // Depth of the final vertex
}
