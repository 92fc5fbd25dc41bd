package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/df07/go-ibl-pathtracer/pkg/output"
	"github.com/df07/go-ibl-pathtracer/pkg/renderer"
	"github.com/df07/go-ibl-pathtracer/pkg/scene"
)

// Server handles web requests for the path tracer preview
type Server struct {
	port      int
	scenesDir string // Directory scanned for YAML scene files
}

// NewServer creates a new web server
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string  `json:"scene"`    // Built-in scene name or "file:<name>" scene file ID
	Width    int     `json:"width"`    // Image width; 0 keeps the scene's
	Height   int     `json:"height"`   // Image height; 0 keeps the scene's
	Samples  int     `json:"samples"`  // Samples per pixel; 0 keeps the scene's
	Seed     int64   `json:"seed"`     // Base seed; negative keeps the scene's
	TileSize int     `json:"tileSize"` // Tile size in pixels
	Exposure float64 `json:"exposure"`
	Gamma    float64 `json:"gamma"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels          int     `json:"totalPixels"`
	TotalSamples         int     `json:"totalSamples"`
	PrimaryMisses        int     `json:"primaryMisses"`
	MissTerminations     int     `json:"missTerminations"`
	DepthTerminations    int     `json:"depthTerminations"`
	RouletteTerminations int     `json:"rouletteTerminations"`
	MaxDepth             int     `json:"maxDepth"`
	AverageLuminance     float64 `json:"averageLuminance"`
}

func newStats(rs renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:          rs.TotalPixels,
		TotalSamples:         rs.TotalSamples,
		PrimaryMisses:        rs.PrimaryMisses,
		MissTerminations:     rs.MissTerminations,
		DepthTerminations:    rs.DepthTerminations,
		RouletteTerminations: rs.RouletteTerminations,
		MaxDepth:             rs.MaxDepth,
		AverageLuminance:     rs.AverageLuminance(),
	}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	glog.Infof("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Errorf("Error while writing output: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	resp, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		glog.Errorf("Error while listing scenes: %v", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	defaults := output.DefaultOptions()
	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, 10000); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(query, "tileSize", renderer.DefaultFrameConfig().TileSize, 4, 512); err != nil {
		return nil, err
	}
	if req.Exposure, err = parseFloatParam(query, "exposure", defaults.Exposure, 0.01, 100); err != nil {
		return nil, err
	}
	if req.Gamma, err = parseFloatParam(query, "gamma", defaults.Gamma, 0.1, 5); err != nil {
		return nil, err
	}

	req.Seed = -1
	if value := query.Get("seed"); value != "" {
		seed, err := strconv.ParseUint(value, 10, 63)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
		req.Seed = int64(seed)
	}

	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		glog.Warningf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a built-in scene name or a "file:<name>" ID from the scenes
// directory. Arbitrary paths are not accepted.
func (s *Server) createScene(id string) (*scene.Scene, error) {
	if !strings.HasPrefix(id, "file:") {
		return scene.NewBuiltinScene(id)
	}

	files, err := scene.ListFileScenes(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == id {
			return scene.Load(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, id)
}

// prepareScene creates the requested scene and applies the request's overrides
func (s *Server) prepareScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj.SetResolution(req.Width, req.Height)
	if req.Samples > 0 {
		sceneObj.Samples = req.Samples
	}
	if req.Seed >= 0 {
		sceneObj.Seed = uint64(req.Seed)
	}
	return sceneObj, nil
}

// sceneStatus maps scene errors to an HTTP status
func sceneStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeJSONError(w, sceneStatus(err), err.Error())
		return
	}

	samples := sceneObj.Samples
	if samples <= 0 {
		samples = scene.DefaultSamples
	}

	defaults := output.DefaultOptions()
	response := map[string]interface{}{
		"scene":      sceneName,
		"primitives": sceneObj.GetPrimitiveCount(),
		"defaults": map[string]interface{}{
			"width":    sceneObj.CameraConfig.Width,
			"height":   sceneObj.CameraConfig.Height,
			"fov":      sceneObj.CameraConfig.FOV,
			"samples":  samples,
			"seed":     sceneObj.Seed,
			"tileSize": renderer.DefaultFrameConfig().TileSize,
			"exposure": defaults.Exposure,
			"gamma":    defaults.Gamma,
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": 1, "max": 2000},
			"height":   map[string]int{"min": 1, "max": 2000},
			"samples":  map[string]int{"min": 1, "max": 10000},
			"tileSize": map[string]int{"min": 4, "max": 512},
		},
	}

	writeJSON(w, http.StatusOK, response)
}
