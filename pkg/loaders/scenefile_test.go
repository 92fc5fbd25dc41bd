package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validScene = `
camera:
  width: 64
  height: 48
  fov: 40
  look_from: [0, 1, 5]
  look_at: [0, 0, 0]
  up: [0, 1, 0]
  right_handed: true
environment:
  type: gradient
  top: [0.5, 0.7, 1.0]
  bottom: [1, 1, 1]
materials:
  white:
    kd: [0.8, 0.8, 0.8]
  glass:
    ks: [0.1, 0.1, 0.1]
    kt: [0.9, 0.9, 0.9]
    ior: 1.5
objects:
  - type: sphere
    material: glass
    center: [0, 0, 0]
    radius: 1
  - type: plane
    material: white
    point: [0, -1, 0]
    normal: [0, 1, 0]
    checker:
      size: 1
      even: [1, 1, 1]
      odd: [0.2, 0.2, 0.2]
render:
  samples: 8
  seed: 7
`

func TestParseSceneFile(t *testing.T) {
	sf, err := ParseSceneFile(strings.NewReader(validScene))
	if err != nil {
		t.Fatalf("ParseSceneFile failed: %v", err)
	}

	if sf.Camera.Width != 64 || sf.Camera.Height != 48 || !sf.Camera.RightHanded {
		t.Errorf("Unexpected camera %+v", sf.Camera)
	}
	if len(sf.Objects) != 2 || sf.Objects[1].Checker == nil {
		t.Fatalf("Unexpected objects %+v", sf.Objects)
	}
	if sf.Materials["glass"].IOR != 1.5 {
		t.Errorf("Expected glass ior 1.5, got %g", sf.Materials["glass"].IOR)
	}
	if sf.Render.Samples != 8 || sf.Render.Seed != 7 {
		t.Errorf("Unexpected render options %+v", sf.Render)
	}
}

func TestParseSceneFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{"unknown key", func(s string) string { return s + "bogus: 1\n" }, "bogus"},
		{"bad fov", func(s string) string { return strings.Replace(s, "fov: 40", "fov: 0", 1) }, "fov"},
		{"short triple", func(s string) string { return strings.Replace(s, "look_at: [0, 0, 0]", "look_at: [0, 0]", 1) }, "look_at"},
		{"unknown material", func(s string) string { return strings.Replace(s, "material: glass", "material: steel", 1) }, "steel"},
		{"bad environment", func(s string) string { return strings.Replace(s, "type: gradient", "type: hdr", 1) }, "environment.type"},
		{"zero radius", func(s string) string { return strings.Replace(s, "radius: 1", "radius: 0", 1) }, "radius"},
		{"unknown object", func(s string) string { return strings.Replace(s, "type: plane", "type: torus", 1) }, "torus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSceneFile(strings.NewReader(tt.mutate(validScene)))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := ParseSceneFile(strings.NewReader("")); err == nil {
		t.Error("Expected error for empty input")
	}
}

func TestLoadSceneFile_ResolvesAssets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(validScene), 0644); err != nil {
		t.Fatal(err)
	}

	sf, err := LoadSceneFile(path)
	if err != nil {
		t.Fatalf("LoadSceneFile failed: %v", err)
	}
	if got := sf.Resolve("meshes/bunny.ply"); got != filepath.Join(dir, "meshes/bunny.ply") {
		t.Errorf("Unexpected resolved path %s", got)
	}
	if got := sf.Resolve("/abs/sky.png"); got != "/abs/sky.png" {
		t.Errorf("Absolute paths should be untouched, got %s", got)
	}
}
