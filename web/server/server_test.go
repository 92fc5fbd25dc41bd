package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-ibl-pathtracer/pkg/scene"
)

const testScenesDir = "../../scenes"

func get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewServer(0, testScenesDir).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Invalid JSON response %q: %v", rec.Body.String(), err)
	}
}

// parseSSE splits an event stream body into (event, data) pairs
func parseSSE(body string) [][2]string {
	var events [][2]string
	for _, chunk := range strings.Split(body, "\n\n") {
		if chunk == "" {
			continue
		}
		var event, data string
		for _, line := range strings.Split(chunk, "\n") {
			if v, ok := strings.CutPrefix(line, "event: "); ok {
				event = v
			} else if v, ok := strings.CutPrefix(line, "data: "); ok {
				data = v
			}
		}
		events = append(events, [2]string{event, data})
	}
	return events
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp scene.ScenesResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Groups) == 0 || resp.Groups[0].Name != "Built-in Scenes" {
		t.Fatalf("Expected built-in scenes first, got %+v", resp.Groups)
	}
	if got, want := len(resp.Groups[0].Scenes), len(scene.BuiltinNames()); got != want {
		t.Errorf("Expected %d built-in scenes, got %d", want, got)
	}

	files := 0
	for _, group := range resp.Groups[1:] {
		files += len(group.Scenes)
	}
	if files != 3 {
		t.Errorf("Expected 3 scene files, got %d", files)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantSamples float64
	}{
		{"builtin", "/api/scene-config?scene=furnace", http.StatusOK, 8},
		{"scene file", "/api/scene-config?scene=file:mesh", http.StatusOK, 16},
		{"unknown builtin", "/api/scene-config?scene=nonexistent", http.StatusNotFound, 0},
		{"unknown file", "/api/scene-config?scene=file:nonexistent", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Defaults map[string]float64 `json:"defaults"`
			}
			decodeJSON(t, rec, &body)
			if body.Defaults["samples"] != tt.wantSamples {
				t.Errorf("Expected %v samples, got %v", tt.wantSamples, body.Defaults["samples"])
			}
		})
	}
}

func TestHandleImage(t *testing.T) {
	rec := get(t, "/api/image?scene=furnace&width=8&height=6&samples=1&tileSize=4")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("Expected 8x6 image, got %v", b)
	}
}

func TestHandleImage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"unknown scene", "/api/image?scene=nonexistent", http.StatusNotFound},
		{"path instead of id", "/api/image?scene=../../scenes/furnace.yaml", http.StatusNotFound},
		{"width below range", "/api/image?scene=furnace&width=0", http.StatusBadRequest},
		{"bad samples", "/api/image?scene=furnace&samples=abc", http.StatusBadRequest},
		{"bad seed", "/api/image?scene=furnace&seed=-3", http.StatusBadRequest},
		{"gamma out of range", "/api/image?scene=furnace&gamma=9", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, tt.target)
			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleRender_StreamsTilesAndFrame(t *testing.T) {
	rec := get(t, "/api/render?scene=furnace&width=8&height=8&samples=1&tileSize=4")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	events := parseSSE(rec.Body.String())
	if len(events) == 0 {
		t.Fatal("Expected events, got none")
	}

	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev[0]]++
		if ev[0] == "tile" {
			var update TileUpdate
			if err := json.Unmarshal([]byte(ev[1]), &update); err != nil {
				t.Fatalf("Invalid tile event: %v", err)
			}
			if update.TotalTiles != 4 {
				t.Errorf("Expected 4 tiles, got %d", update.TotalTiles)
			}
			data, err := base64.StdEncoding.DecodeString(update.ImageData)
			if err != nil {
				t.Fatalf("Invalid tile image data: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Invalid tile PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
				t.Errorf("Expected 4x4 tile, got %v", b)
			}
		}
	}
	if counts["tile"] != 4 {
		t.Errorf("Expected 4 tile events, got %d", counts["tile"])
	}
	if counts["console"] == 0 {
		t.Error("Expected console events")
	}
	if counts["error"] != 0 {
		t.Errorf("Unexpected error events: %+v", events)
	}

	last := events[len(events)-1]
	if last[0] != "complete" {
		t.Fatalf("Expected final complete event, got %q", last[0])
	}
	var done FrameComplete
	if err := json.Unmarshal([]byte(last[1]), &done); err != nil {
		t.Fatalf("Invalid complete event: %v", err)
	}
	if done.Width != 8 || done.Height != 8 || done.Stats.TotalPixels != 64 || done.Stats.TotalSamples != 64 {
		t.Errorf("Unexpected frame summary: %+v", done.Stats)
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		prefix string
	}{
		{"bad width", "/api/render?width=abc", "Invalid request"},
		{"unknown scene", "/api/render?scene=nonexistent", "Scene error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := parseSSE(get(t, tt.target).Body.String())
			last := events[len(events)-1]
			if last[0] != "error" || !strings.HasPrefix(last[1], tt.prefix) {
				t.Errorf("Expected error event starting %q, got %v", tt.prefix, last)
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	rec := get(t, "/api/inspect?scene=furnace&width=9&height=9&x=4&y=4")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp InspectResponse
	decodeJSON(t, rec, &resp)
	if !resp.Hit {
		t.Fatal("Expected the center pixel to hit the sphere")
	}
	if resp.MaterialType != "diffuse" || resp.GeometryType != "sphere" {
		t.Errorf("Expected diffuse sphere, got %s %s", resp.MaterialType, resp.GeometryType)
	}
	if math.Abs(resp.Distance-2) > 1e-6 {
		t.Errorf("Expected distance 2, got %v", resp.Distance)
	}
	if !resp.FrontFace {
		t.Error("Expected a front-face hit")
	}

	rec = get(t, "/api/inspect?scene=furnace&width=9&height=9&x=0&y=0")
	decodeJSON(t, rec, &resp)
	if resp.Hit {
		t.Error("Expected the corner pixel to miss")
	}
}

func TestHandleInspect_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing coordinates", "/api/inspect?scene=furnace"},
		{"x out of range", "/api/inspect?scene=furnace&width=9&height=9&x=9&y=0"},
		{"unknown scene", "/api/inspect?scene=nonexistent&x=0&y=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := get(t, tt.target); rec.Code == http.StatusOK {
				t.Errorf("Expected an error status, got 200: %s", rec.Body.String())
			}
		})
	}
}
