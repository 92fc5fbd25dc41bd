package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/output"
	"github.com/df07/go-ibl-pathtracer/pkg/renderer"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"` // Top-left corner in image coordinates
	TileY      int    `json:"tileY"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Tiles completed so far (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// FrameComplete is the final SSE payload of a render
type FrameComplete struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG of the whole frame
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes every event from the channel until it is closed or the client
// goes away. It is the only goroutine touching w.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		case <-ctx.Done():
			return
		}
	}
}

// sendEvent queues an event unless the client has disconnected
func sendEvent(ctx context.Context, events chan<- SSEEvent, eventType string, payload interface{}) {
	var data string
	switch p := payload.(type) {
	case string:
		data = p
	default:
		encoded, err := json.Marshal(p)
		if err != nil {
			glog.Errorf("Error while encoding %s event: %v", eventType, err)
			return
		}
		data = string(encoded)
	}

	select {
	case events <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

// streamConsoleMessages forwards logger output to the SSE stream
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- SSEEvent) {
	for msg := range consoleChan {
		sendEvent(ctx, events, "console", msg)
	}
}

// handleRender renders one frame and streams console output, finished tiles and the
// final image as Server-Sent Events
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	events := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(ctx, w, events)
		close(writerDone)
	}()
	defer func() {
		close(events)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sendEvent(ctx, events, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	var consoleWG sync.WaitGroup
	consoleWG.Add(1)
	go func() {
		defer consoleWG.Done()
		s.streamConsoleMessages(ctx, consoleChan, events)
	}()
	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan)

	rc, fb, err := s.prepareRender(req, logger)
	if err != nil {
		close(consoleChan)
		consoleWG.Wait()
		sendEvent(ctx, events, "error", fmt.Sprintf("Scene error: %v", err))
		return
	}

	startTime := time.Now()
	config := renderer.FrameConfig{
		TileSize: req.TileSize,
		OnTile: func(result renderer.TileResult, completed, total int) {
			bounds := result.Tile.SinkBounds(fb.Height)
			imageData, err := imageToBase64PNG(fb.RegionToRGBA(bounds, req.Exposure, req.Gamma))
			if err != nil {
				glog.Errorf("Error while encoding tile %d: %v", result.Tile.ID, err)
				return
			}
			sendEvent(ctx, events, "tile", TileUpdate{
				TileX:      bounds.Min.X,
				TileY:      bounds.Min.Y,
				ImageData:  imageData,
				TileNumber: completed,
				TotalTiles: total,
			})
		},
	}

	stats, err := renderer.NewFrameRenderer(rc, config, logger).Render(ctx, fb)
	close(consoleChan)
	consoleWG.Wait()
	if err != nil {
		sendEvent(ctx, events, "error", fmt.Sprintf("Render error: %v", err))
		return
	}

	imageData, err := imageToBase64PNG(fb.ToRGBA(req.Exposure, req.Gamma))
	if err != nil {
		sendEvent(ctx, events, "error", fmt.Sprintf("Failed to encode image: %v", err))
		return
	}
	sendEvent(ctx, events, "complete", FrameComplete{
		Width:     fb.Width,
		Height:    fb.Height,
		ImageData: imageData,
		Stats:     newStats(stats),
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// handleImage renders one frame and returns it as a PNG
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	logger := NewWebLogger(fmt.Sprintf("image-%d", time.Now().UnixNano()), nil)
	rc, fb, err := s.prepareRender(req, logger)
	if err != nil {
		writeJSONError(w, sceneStatus(err), fmt.Sprintf("Scene error: %v", err))
		return
	}
	config := renderer.FrameConfig{TileSize: req.TileSize}
	if _, err := renderer.NewFrameRenderer(rc, config, logger).Render(r.Context(), fb); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, fb, output.FormatPNG, output.Options{Exposure: req.Exposure, Gamma: req.Gamma}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if _, err := w.Write(buf.Bytes()); err != nil {
		glog.Errorf("Error while writing output: %v", err)
	}
}

// prepareRender builds the render context for a request and a frame buffer to receive it
func (s *Server) prepareRender(req *RenderRequest, logger core.Logger) (*renderer.RenderContext, *output.FrameBuffer, error) {
	sceneObj, err := s.prepareScene(req)
	if err != nil {
		return nil, nil, err
	}
	rc, err := sceneObj.RenderContext()
	if err != nil {
		return nil, nil, err
	}
	logger.Printf("Scene %s: %d primitives\n", req.Scene, sceneObj.GetPrimitiveCount())
	return rc, output.NewFrameBuffer(rc.Camera.Width, rc.Camera.Height), nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
