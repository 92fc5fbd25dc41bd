package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/geometry"
	"github.com/df07/go-ibl-pathtracer/pkg/lights"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// ErrUnknownScene is returned for scene names that are neither built in nor a scene file
var ErrUnknownScene = errors.New("scene: unknown scene")

// builtinScene describes one of the scenes compiled into the binary
type builtinScene struct {
	Name        string
	Description string
	New         func() *Scene
}

var builtinScenes = map[string]builtinScene{
	"empty":       {"Empty", "Environment only; every pixel sees the sky", NewEmptyScene},
	"furnace":     {"Furnace", "White diffuse sphere in a constant environment", NewFurnaceScene},
	"default":     {"Default Scene", "Diffuse, mirror and glass spheres on a checker ground", NewDefaultScene},
	"glass":       {"Glass", "Dielectric slab and sphere over a checker ground", NewGlassScene},
	"sphere-grid": {"Sphere Grid", "Grid of spheres sweeping diffuse, specular and transmissive weights", NewSphereGridScene},
	"mesh":        {"Triangle Meshes", "Box, pyramid and icosahedron triangle meshes", NewTriangleMeshScene},
}

// BuiltinNames returns the names of the built-in scenes in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBuiltinScene creates a built-in scene by name
func NewBuiltinScene(name string) (*Scene, error) {
	b, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return b.New(), nil
}

// NewEmptyScene has no geometry: the image is the environment seen through the camera
func NewEmptyScene() *Scene {
	return &Scene{
		CameraConfig: lookAtCamera(core.Vec3{}, core.NewVec3(0, 0, -1), 320, 180, 70),
		Light:        lights.NewLight(lights.NewGradientEnvironment(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0))),
		Samples:      4,
		Seed:         1,
	}
}

// NewFurnaceScene places a white diffuse sphere in a uniform environment. Every pixel on
// the sphere converges to the environment radiance divided by π.
func NewFurnaceScene() *Scene {
	white := material.NewDiffuse(core.NewVec3(1, 1, 1))

	return &Scene{
		CameraConfig: lookAtCamera(core.NewVec3(0, 0, 3), core.Vec3{}, 200, 200, 45),
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.Vec3{}, 1, geometry.NewSurface(white, nil)),
		},
		Light:   lights.NewLight(lights.NewConstantEnvironment(core.NewVec3(1, 1, 1))),
		Samples: 8,
		Seed:    1,
	}
}
