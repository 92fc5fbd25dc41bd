package scene

import (
	"math"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/geometry"
	"github.com/df07/go-ibl-pathtracer/pkg/lights"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// NewGlassScene creates a scene for checking refraction: a rotated glass slab and a glass
// sphere over a checkered floor, lit by a bright sky so caustics reach the floor through
// the light connection
func NewGlassScene() *Scene {
	s := &Scene{
		CameraConfig: lookAtCamera(core.NewVec3(-3, 3.5, 4), core.NewVec3(0, 0.5, 0), 300, 300, 40),
		Light:        lights.NewLight(lights.NewGradientEnvironment(core.NewVec3(1.2, 1.2, 1.3), core.NewVec3(0.1, 0.1, 0.1))),
		Samples:      128,
		Seed:         7,
	}

	floor := material.NewDiffuse(core.NewVec3(0.75, 0.75, 0.75))
	checker := material.NewChecker(0.4, core.NewVec3(1, 1, 1), core.NewVec3(0.2, 0.2, 0.25))

	// Mostly transmissive with a small mirror component, like a real dielectric at
	// near-normal incidence
	slabGlass := material.NewGlass(0.04, 1.5)
	denseGlass := material.NewGlass(0.06, 1.9)

	s.Shapes = append(s.Shapes,
		NewGroundQuad(core.Vec3{}, 100, geometry.NewSurface(floor, checker)),
		geometry.NewBox(core.NewVec3(-0.6, 0.4, 0), core.NewVec3(0.6, 0.4, 0.15), math.Pi/8, geometry.NewSurface(slabGlass, nil)),
		geometry.NewSphere(core.NewVec3(0.9, 0.6, 0.3), 0.6, geometry.NewSurface(denseGlass, nil)),
	)

	return s
}
