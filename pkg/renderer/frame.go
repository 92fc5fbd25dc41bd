package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// FrameConfig contains configuration for frame rendering
type FrameConfig struct {
	TileSize   int // Size of each square tile in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)

	// OnTile, if set, is called by the driver after a tile has been written to the sink
	OnTile func(result TileResult, completed, total int)
}

// DefaultFrameConfig returns sensible default values
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		TileSize:   32,
		NumWorkers: 0,
	}
}

// FrameRenderer drives the rendering of one frame: it fans tiles out to the worker pool
// and performs every sink write itself, so sinks need not be safe for concurrent use.
type FrameRenderer struct {
	rc     *RenderContext
	config FrameConfig
	pool   *WorkerPool
	logger core.Logger
}

// NewFrameRenderer creates a frame renderer for a render context
func NewFrameRenderer(rc *RenderContext, config FrameConfig, logger core.Logger) *FrameRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultFrameConfig().TileSize
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &FrameRenderer{
		rc:     rc,
		config: config,
		pool:   NewWorkerPool(config.NumWorkers),
		logger: logger,
	}
}

// Render renders every pixel and writes it to sink exactly once. Camera-space row y is
// written to sink row Height-1-y. Cancelling ctx stops scheduling further tiles; pixels
// already written are kept.
func (fr *FrameRenderer) Render(ctx context.Context, sink core.PixelSink) (RenderStats, error) {
	camera := fr.rc.Camera
	tiles := NewTileGrid(camera.Width, camera.Height, fr.config.TileSize)

	fr.logger.Printf("Rendering %dx%d at %d samples/pixel: %d tiles on %d workers\n",
		camera.Width, camera.Height, fr.rc.Samples, len(tiles), fr.pool.NumWorkers())
	startTime := time.Now()

	results := make(chan TileResult, fr.pool.NumWorkers())
	errChan := make(chan error, 1)
	go func() {
		errChan <- fr.pool.Run(ctx, fr.rc, tiles, results)
	}()

	var stats RenderStats
	completed := 0
	lastReported := 0
	for result := range results {
		fr.writeTile(sink, result)
		stats.Merge(result.Stats)

		completed++
		if fr.config.OnTile != nil {
			fr.config.OnTile(result, completed, len(tiles))
		}
		if percent := completed * 100 / len(tiles); percent/10 > lastReported/10 {
			lastReported = percent
			fr.logger.Printf("Rendered %d/%d tiles (%d%%)\n", completed, len(tiles), percent)
		}
	}

	if err := <-errChan; err != nil {
		return stats, err
	}

	fr.logger.Printf("Frame completed in %v (%d samples, %d primary misses, max depth %d)\n",
		time.Since(startTime), stats.TotalSamples, stats.PrimaryMisses, stats.MaxDepth)
	return stats, nil
}

func (fr *FrameRenderer) writeTile(sink core.PixelSink, result TileResult) {
	bounds := result.Tile.Bounds
	height := fr.rc.Camera.Height

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sink.Write(x, height-1-y, result.Pixels[i])
			i++
		}
	}
}
