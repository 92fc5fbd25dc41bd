package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SceneFile is the YAML description of a renderable scene
type SceneFile struct {
	Camera      CameraSpec              `yaml:"camera"`
	Environment EnvironmentSpec         `yaml:"environment"`
	Materials   map[string]MaterialSpec `yaml:"materials"`
	Objects     []ObjectSpec            `yaml:"objects"`
	Render      RenderSpec              `yaml:"render"`

	// BaseDir is the directory relative asset paths are resolved against
	BaseDir string `yaml:"-"`
}

// Triple is an RGB color or a 3D point/vector
type Triple []float64

// CameraSpec places a pinhole camera either by look-at or by an explicit
// world-to-camera matrix (16 values, row-major, column-vector convention)
type CameraSpec struct {
	Width         int       `yaml:"width"`
	Height        int       `yaml:"height"`
	FOV           float64   `yaml:"fov"`
	ScreenWindow  []float64 `yaml:"screen_window"`
	LookFrom      Triple    `yaml:"look_from"`
	LookAt        Triple    `yaml:"look_at"`
	Up            Triple    `yaml:"up"`
	WorldToCamera []float64 `yaml:"world_to_camera"`
	RightHanded   bool      `yaml:"right_handed"`
}

// EnvironmentSpec selects the distant light
type EnvironmentSpec struct {
	Type      string  `yaml:"type"` // constant, gradient or image
	Radiance  Triple  `yaml:"radiance"`
	Top       Triple  `yaml:"top"`
	Bottom    Triple  `yaml:"bottom"`
	File      string  `yaml:"file"`
	Intensity float64 `yaml:"intensity"`
	Rotation  float64 `yaml:"rotation"` // degrees about +Y
}

// MaterialSpec holds the three mode coefficients and the index of refraction
type MaterialSpec struct {
	Kd  Triple  `yaml:"kd"`
	Ks  Triple  `yaml:"ks"`
	Kt  Triple  `yaml:"kt"`
	IOR float64 `yaml:"ior"`
}

// CheckerSpec is a procedural checkerboard shading color
type CheckerSpec struct {
	Size float64 `yaml:"size"`
	Even Triple  `yaml:"even"`
	Odd  Triple  `yaml:"odd"`
}

// ObjectSpec is one shape. Which fields apply depends on Type.
type ObjectSpec struct {
	Type     string       `yaml:"type"`
	Material string       `yaml:"material"`
	Color    Triple       `yaml:"color"`
	Checker  *CheckerSpec `yaml:"checker"`

	Center    Triple   `yaml:"center"`     // sphere, box
	Radius    float64  `yaml:"radius"`     // sphere
	Point     Triple   `yaml:"point"`      // plane
	Normal    Triple   `yaml:"normal"`     // plane
	Corner    Triple   `yaml:"corner"`     // quad
	U         Triple   `yaml:"u"`          // quad
	V         Triple   `yaml:"v"`          // quad
	Vertices  []Triple `yaml:"vertices"`   // triangle
	HalfSize  Triple   `yaml:"half_size"`  // box
	File      string   `yaml:"file"`       // mesh
	Scale     float64  `yaml:"scale"`      // mesh
	Offset    Triple   `yaml:"offset"`     // mesh
	RotationY float64  `yaml:"rotation_y"` // box, mesh; degrees
}

// RenderSpec holds sampling options
type RenderSpec struct {
	Samples int    `yaml:"samples"`
	Seed    uint64 `yaml:"seed"`
}

// LoadSceneFile reads and validates a YAML scene
func LoadSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("while reading scene file: %w", err)
	}

	sf, err := ParseSceneFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sf.BaseDir = filepath.Dir(path)
	return sf, nil
}

// ParseSceneFile decodes a YAML scene, rejecting unknown keys
func ParseSceneFile(r io.Reader) (*SceneFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	sf := &SceneFile{}
	if err := dec.Decode(sf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scene file")
		}
		return nil, fmt.Errorf("while decoding scene: %w", err)
	}
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return sf, nil
}

// Resolve returns an asset path relative to the scene file's directory
func (sf *SceneFile) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || sf.BaseDir == "" {
		return path
	}
	return filepath.Join(sf.BaseDir, path)
}

// Validate checks field shapes; it does not check material energy, which the material
// constructor does when the scene is built
func (sf *SceneFile) Validate() error {
	c := sf.Camera
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("camera: width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("camera.fov must be in (0, 180), got %g", c.FOV)
	}
	if c.ScreenWindow != nil && len(c.ScreenWindow) != 4 {
		return fmt.Errorf("camera.screen_window needs 4 values, got %d", len(c.ScreenWindow))
	}
	if c.WorldToCamera != nil {
		if len(c.WorldToCamera) != 16 {
			return fmt.Errorf("camera.world_to_camera needs 16 values, got %d", len(c.WorldToCamera))
		}
	} else {
		if err := checkTriples("camera", map[string]Triple{"look_from": c.LookFrom, "look_at": c.LookAt}, true); err != nil {
			return err
		}
		if err := checkTriples("camera", map[string]Triple{"up": c.Up}, false); err != nil {
			return err
		}
	}

	env := sf.Environment
	switch env.Type {
	case "constant":
		if err := checkTriples("environment", map[string]Triple{"radiance": env.Radiance}, true); err != nil {
			return err
		}
	case "gradient":
		if err := checkTriples("environment", map[string]Triple{"top": env.Top, "bottom": env.Bottom}, true); err != nil {
			return err
		}
	case "image":
		if env.File == "" {
			return fmt.Errorf("environment.file is required for image environments")
		}
	default:
		return fmt.Errorf("environment.type must be constant, gradient or image, got %q", env.Type)
	}

	for name, m := range sf.Materials {
		if err := checkTriples("materials."+name, map[string]Triple{"kd": m.Kd, "ks": m.Ks, "kt": m.Kt}, false); err != nil {
			return err
		}
	}

	for i, obj := range sf.Objects {
		if err := sf.validateObject(obj); err != nil {
			return fmt.Errorf("objects[%d]: %w", i, err)
		}
	}

	if sf.Render.Samples < 0 {
		return fmt.Errorf("render.samples must not be negative, got %d", sf.Render.Samples)
	}
	return nil
}

func (sf *SceneFile) validateObject(obj ObjectSpec) error {
	if _, ok := sf.Materials[obj.Material]; !ok {
		return fmt.Errorf("unknown material %q", obj.Material)
	}
	if err := checkTriples(obj.Type, map[string]Triple{"color": obj.Color}, false); err != nil {
		return err
	}
	if obj.Checker != nil {
		if err := checkTriples("checker", map[string]Triple{"even": obj.Checker.Even, "odd": obj.Checker.Odd}, true); err != nil {
			return err
		}
	}

	switch obj.Type {
	case "sphere":
		if obj.Radius <= 0 {
			return fmt.Errorf("sphere.radius must be positive, got %g", obj.Radius)
		}
		return checkTriples("sphere", map[string]Triple{"center": obj.Center}, true)
	case "plane":
		return checkTriples("plane", map[string]Triple{"point": obj.Point, "normal": obj.Normal}, true)
	case "quad":
		return checkTriples("quad", map[string]Triple{"corner": obj.Corner, "u": obj.U, "v": obj.V}, true)
	case "triangle":
		if len(obj.Vertices) != 3 {
			return fmt.Errorf("triangle needs 3 vertices, got %d", len(obj.Vertices))
		}
		return checkTriples("triangle", map[string]Triple{"vertices[0]": obj.Vertices[0], "vertices[1]": obj.Vertices[1], "vertices[2]": obj.Vertices[2]}, true)
	case "box":
		return checkTriples("box", map[string]Triple{"center": obj.Center, "half_size": obj.HalfSize}, true)
	case "mesh":
		if obj.File == "" {
			return fmt.Errorf("mesh.file is required")
		}
		return checkTriples("mesh", map[string]Triple{"offset": obj.Offset}, false)
	default:
		return fmt.Errorf("unknown object type %q", obj.Type)
	}
}

// checkTriples verifies each named triple has three values, or is absent when optional
func checkTriples(prefix string, fields map[string]Triple, required bool) error {
	for name, t := range fields {
		if t == nil && !required {
			continue
		}
		if len(t) != 3 {
			return fmt.Errorf("%s.%s needs 3 values, got %d", prefix, name, len(t))
		}
	}
	return nil
}
