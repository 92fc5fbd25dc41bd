package scene

import (
	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/geometry"
	"github.com/df07/go-ibl-pathtracer/pkg/lights"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres on a checkered ground under a
// blue sky gradient
func NewDefaultScene() *Scene {
	s := &Scene{
		CameraConfig: lookAtCamera(
			core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
			core.NewVec3(0, 0.5, -1), // Look at the sphere center
			400, 225, 40,
		),
		Light:   lights.NewLight(lights.NewGradientEnvironment(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0))),
		Samples: 64,
		Seed:    42,
	}

	// Create materials
	diffuseGround := material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.8))
	diffuseRed := material.NewDiffuse(core.NewVec3(0.65, 0.25, 0.2))
	diffuseBlue := material.NewDiffuse(core.NewVec3(0.1, 0.2, 0.5))
	mirrorSilver := material.NewMirror(core.NewVec3(0.8, 0.8, 0.8))
	mirrorGold := material.NewMirror(core.NewVec3(0.8, 0.6, 0.2))
	glass := material.NewGlass(0.08, 1.5)

	// Half diffuse, half mirror: a glossy-looking plastic within the energy budget
	plastic, err := material.New(core.NewVec3(0.4, 0.1, 0.1), core.NewVec3(0.3, 0.3, 0.3), core.Vec3{}, 1.0)
	if err != nil {
		panic(err)
	}

	checker := material.NewChecker(0.5, core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.3, 0.35, 0.3))

	s.Shapes = append(s.Shapes,
		NewGroundQuad(core.NewVec3(0, 0, 0), 10000.0, geometry.NewSurface(diffuseGround, checker)),
		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, geometry.NewSurface(plastic, nil)),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, geometry.NewSurface(mirrorSilver, nil)),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, geometry.NewSurface(mirrorGold, nil)),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, geometry.NewSurface(glass, nil)),
		geometry.NewSphere(core.NewVec3(-0.5, 0.2, -0.5), 0.2, geometry.NewSurface(diffuseBlue, nil)),
		geometry.NewSphere(core.NewVec3(-0.4, 0.1, 0.2), 0.1, geometry.NewSurface(diffuseRed, nil)),
	)

	return s
}
