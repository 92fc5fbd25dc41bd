package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/geometry"
	"github.com/df07/go-ibl-pathtracer/pkg/lights"
	"github.com/df07/go-ibl-pathtracer/pkg/loaders"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
	"github.com/df07/go-ibl-pathtracer/pkg/renderer"
)

// Load returns the built-in scene called name, or loads a YAML scene file when name ends
// in .yaml or .yml
func Load(name string) (*Scene, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		sf, err := loaders.LoadSceneFile(name)
		if err != nil {
			return nil, err
		}
		return NewSceneFromFile(sf)
	default:
		return NewBuiltinScene(name)
	}
}

// NewSceneFromFile builds a scene from a decoded scene file, loading any referenced
// meshes and environment images
func NewSceneFromFile(sf *loaders.SceneFile) (*Scene, error) {
	s := &Scene{
		CameraConfig: cameraFromSpec(sf.Camera),
		Samples:      sf.Render.Samples,
		Seed:         sf.Render.Seed,
	}
	if s.Samples == 0 {
		s.Samples = DefaultSamples
	}

	env, err := environmentFromSpec(sf)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	s.Light = lights.NewLight(env)

	materials := make(map[string]*material.Material, len(sf.Materials))
	for name, spec := range sf.Materials {
		ior := spec.IOR
		if ior == 0 {
			ior = 1
		}
		m, err := material.New(vec(spec.Kd, core.Vec3{}), vec(spec.Ks, core.Vec3{}), vec(spec.Kt, core.Vec3{}), ior)
		if err != nil {
			return nil, fmt.Errorf("materials.%s: %w", name, err)
		}
		materials[name] = m
	}

	for i, obj := range sf.Objects {
		shape, err := shapeFromSpec(sf, obj, materials[obj.Material])
		if err != nil {
			return nil, fmt.Errorf("objects[%d]: %w", i, err)
		}
		s.Shapes = append(s.Shapes, shape)
	}

	return s, nil
}

// vec converts an optional triple, returning def when it is absent
func vec(t loaders.Triple, def core.Vec3) core.Vec3 {
	if len(t) != 3 {
		return def
	}
	return core.NewVec3(t[0], t[1], t[2])
}

func degrees(d float64) float64 {
	return d * math.Pi / 180.0
}

func cameraFromSpec(spec loaders.CameraSpec) renderer.CameraConfig {
	config := renderer.CameraConfig{
		Width:       spec.Width,
		Height:      spec.Height,
		FOV:         spec.FOV,
		RightHanded: spec.RightHanded,
	}
	if len(spec.ScreenWindow) == 4 {
		copy(config.ScreenWindow[:], spec.ScreenWindow)
	}

	if len(spec.WorldToCamera) == 16 {
		for i, v := range spec.WorldToCamera {
			config.WorldToCamera[i/4][i%4] = v
		}
	} else {
		config.WorldToCamera = renderer.LookAt(
			vec(spec.LookFrom, core.Vec3{}),
			vec(spec.LookAt, core.NewVec3(0, 0, -1)),
			vec(spec.Up, core.NewVec3(0, 1, 0)),
		)
	}
	return config
}

func environmentFromSpec(sf *loaders.SceneFile) (core.Environment, error) {
	spec := sf.Environment
	switch spec.Type {
	case "constant":
		return lights.NewConstantEnvironment(vec(spec.Radiance, core.Vec3{})), nil
	case "gradient":
		return lights.NewGradientEnvironment(vec(spec.Top, core.Vec3{}), vec(spec.Bottom, core.Vec3{})), nil
	case "image":
		img, err := loaders.LoadImage(sf.Resolve(spec.File))
		if err != nil {
			return nil, err
		}
		intensity := spec.Intensity
		if intensity == 0 {
			intensity = 1
		}
		env, err := lights.NewLatLongEnvironment(img.Width, img.Height, img.Pixels, intensity, degrees(spec.Rotation))
		if err != nil {
			return nil, err
		}
		return env, nil
	default:
		return nil, fmt.Errorf("unknown environment type %q", spec.Type)
	}
}

func surfaceFromSpec(obj loaders.ObjectSpec, m *material.Material) geometry.Surface {
	var color material.ColorSource
	switch {
	case obj.Checker != nil:
		size := obj.Checker.Size
		if size == 0 {
			size = 1
		}
		color = material.NewChecker(size, vec(obj.Checker.Even, core.Vec3{}), vec(obj.Checker.Odd, core.Vec3{}))
	case obj.Color != nil:
		color = material.NewSolidColor(vec(obj.Color, core.NewVec3(1, 1, 1)))
	}
	return geometry.NewSurface(m, color)
}

func shapeFromSpec(sf *loaders.SceneFile, obj loaders.ObjectSpec, m *material.Material) (geometry.Shape, error) {
	if m == nil {
		return nil, fmt.Errorf("unknown material %q", obj.Material)
	}
	surface := surfaceFromSpec(obj, m)

	switch obj.Type {
	case "sphere":
		return geometry.NewSphere(vec(obj.Center, core.Vec3{}), obj.Radius, surface), nil
	case "plane":
		return geometry.NewPlane(vec(obj.Point, core.Vec3{}), vec(obj.Normal, core.NewVec3(0, 1, 0)), surface), nil
	case "quad":
		return geometry.NewQuad(vec(obj.Corner, core.Vec3{}), vec(obj.U, core.Vec3{}), vec(obj.V, core.Vec3{}), surface), nil
	case "triangle":
		return geometry.NewTriangle(vec(obj.Vertices[0], core.Vec3{}), vec(obj.Vertices[1], core.Vec3{}), vec(obj.Vertices[2], core.Vec3{}), surface), nil
	case "box":
		return geometry.NewBox(vec(obj.Center, core.Vec3{}), vec(obj.HalfSize, core.Vec3{}), degrees(obj.RotationY), surface), nil
	case "mesh":
		data, err := loaders.LoadPLY(sf.Resolve(obj.File))
		if err != nil {
			return nil, err
		}
		mesh, err := geometry.NewTriangleMesh(data.Vertices, data.Faces, surface, &geometry.TriangleMeshOptions{
			Scale:     obj.Scale,
			RotationY: degrees(obj.RotationY),
			Offset:    vec(obj.Offset, core.Vec3{}),
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", obj.File, err)
		}
		return mesh, nil
	default:
		return nil, fmt.Errorf("unknown object type %q", obj.Type)
	}
}
