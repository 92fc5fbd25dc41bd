package scene

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/geometry"
	"github.com/df07/go-ibl-pathtracer/pkg/loaders"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
	"github.com/df07/go-ibl-pathtracer/pkg/output"
	"github.com/df07/go-ibl-pathtracer/pkg/renderer"
)

const scenesDir = "../../scenes"

// nopLogger discards renderer progress output
type nopLogger struct{}

func (nopLogger) Printf(format string, args ...interface{}) {}

// renderSmall renders a scene at a tiny resolution with one sample per pixel
func renderSmall(t *testing.T, s *Scene, width, height, samples int) *output.FrameBuffer {
	t.Helper()
	s.SetResolution(width, height)
	s.Samples = samples

	rc, err := s.RenderContext()
	if err != nil {
		t.Fatalf("RenderContext failed: %v", err)
	}

	fb := output.NewFrameBuffer(width, height)
	if _, err := renderer.NewFrameRenderer(rc, renderer.FrameConfig{TileSize: 4, NumWorkers: 2}, nopLogger{}).Render(context.Background(), fb); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !fb.Complete() {
		t.Fatal("Render did not write every pixel")
	}
	return fb
}

func TestBuiltinScenes_Render(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, err := NewBuiltinScene(name)
			if err != nil {
				t.Fatalf("NewBuiltinScene(%q) failed: %v", name, err)
			}
			renderSmall(t, s, 8, 6, 1)
		})
	}
}

func TestNewBuiltinScene_Unknown(t *testing.T) {
	if _, err := NewBuiltinScene("no-such-scene"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
	if _, err := Load("no-such-scene"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected Load to fall back to built-ins, got %v", err)
	}
}

func TestFurnaceScene_Exact(t *testing.T) {
	fb := renderSmall(t, NewFurnaceScene(), 16, 16, 4)

	center := fb.At(8, 8)
	want := 1 / math.Pi
	for c := 0; c < 3; c++ {
		if math.Abs(float64(center[c])-want) > 1e-6 {
			t.Errorf("Channel %d: expected %v, got %v", c, want, center[c])
		}
	}
	if corner := fb.At(0, 0); corner != [3]float32{1, 1, 1} {
		t.Errorf("Expected the environment at the corner, got %v", corner)
	}
}

func TestGetPrimitiveCount(t *testing.T) {
	s := NewTriangleMeshScene()
	// Ground plane, 12-triangle box, 6-triangle pyramid, 20-triangle icosahedron
	if got := s.GetPrimitiveCount(); got != 39 {
		t.Errorf("Expected 39 primitives, got %d", got)
	}
}

func TestSetResolution(t *testing.T) {
	s := NewDefaultScene()
	s.SetResolution(0, 50)
	if s.CameraConfig.Width != 400 || s.CameraConfig.Height != 50 {
		t.Errorf("Expected 400x50, got %dx%d", s.CameraConfig.Width, s.CameraConfig.Height)
	}
}

func TestLoad_SceneFiles(t *testing.T) {
	tests := []struct {
		file       string
		wantShapes int
		wantSeed   uint64
		samples    int
	}{
		{"furnace.yaml", 1, 1, 8},
		{"glass-slab.yaml", 2, 9, 32},
		{"mesh.yaml", 2, 0, 16},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			s, err := Load(filepath.Join(scenesDir, tt.file))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(s.Shapes) != tt.wantShapes {
				t.Errorf("Expected %d shapes, got %d", tt.wantShapes, len(s.Shapes))
			}
			if s.Seed != tt.wantSeed || s.Samples != tt.samples {
				t.Errorf("Expected seed %d and %d samples, got %d and %d", tt.wantSeed, tt.samples, s.Seed, s.Samples)
			}
			renderSmall(t, s, 6, 4, 1)
		})
	}
}

func TestLoad_RightHandedMatrixCamera(t *testing.T) {
	s, err := Load(filepath.Join(scenesDir, "glass-slab.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	camera, err := renderer.NewCamera(s.CameraConfig)
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	if camera.Position.Subtract(core.NewVec3(0, 1, 5)).Length() > 1e-9 {
		t.Errorf("Expected camera at (0,1,5), got %v", camera.Position)
	}
	if camera.Direction.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected camera looking down -Z, got %v", camera.Direction)
	}
}

func parseScene(t *testing.T, doc string) *loaders.SceneFile {
	t.Helper()
	sf, err := loaders.ParseSceneFile(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseSceneFile failed: %v", err)
	}
	return sf
}

const minimalScene = `
camera: {width: 4, height: 4, fov: 45, look_from: [0, 0, 3], look_at: [0, 0, 0]}
environment: {type: constant, radiance: [1, 1, 1]}
materials:
  m: %s
objects:
  - {type: sphere, material: m, center: [0, 0, 0], radius: 1}
`

func TestNewSceneFromFile_Materials(t *testing.T) {
	t.Run("ior defaults to one", func(t *testing.T) {
		sf := parseScene(t, strings.Replace(minimalScene, "%s", "{kt: [1, 1, 1]}", 1))
		s, err := NewSceneFromFile(sf)
		if err != nil {
			t.Fatalf("NewSceneFromFile failed: %v", err)
		}
		sphere := s.Shapes[0].(*geometry.Sphere)
		if sphere.Material.IOR != 1 {
			t.Errorf("Expected IOR 1, got %v", sphere.Material.IOR)
		}
		if !sphere.Material.IsIndexMatched() {
			t.Error("Expected an index-matched material")
		}
	})

	t.Run("energy violation", func(t *testing.T) {
		sf := parseScene(t, strings.Replace(minimalScene, "%s", "{kd: [0.8, 0.8, 0.8], ks: [0.5, 0.5, 0.5]}", 1))
		if _, err := NewSceneFromFile(sf); !errors.Is(err, material.ErrEnergyNotConserved) {
			t.Errorf("Expected ErrEnergyNotConserved, got %v", err)
		}
	})
}

func TestNewSceneFromFile_ImageEnvironment(t *testing.T) {
	dir := t.TempDir()

	// 2x1 map: left half red, right half blue
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 0, 255, 255})
	f, err := os.Create(filepath.Join(dir, "sky.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	doc := `
camera: {width: 4, height: 4, fov: 45, look_from: [0, 0, 3], look_at: [0, 0, 0]}
environment: {type: image, file: sky.png, intensity: 2}
`
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Looking along -Z samples the center column, half way between the two texels
	got := s.Light.Le(core.NewVec3(0, 0, -1))
	if got.IsZero() || got.X > 2 || got.Z > 2 {
		t.Errorf("Expected a scaled map lookup, got %v", got)
	}
}

func TestNewSceneFromFile_MissingMesh(t *testing.T) {
	doc := `
camera: {width: 4, height: 4, fov: 45, look_from: [0, 0, 3], look_at: [0, 0, 0]}
environment: {type: constant, radiance: [1, 1, 1]}
materials:
  m: {kd: [0.5, 0.5, 0.5]}
objects:
  - {type: mesh, material: m, file: missing.ply}
`
	sf := parseScene(t, doc)
	sf.BaseDir = t.TempDir()
	if _, err := NewSceneFromFile(sf); err == nil {
		t.Error("Expected an error for a missing mesh file")
	}
}
