package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/df07/go-ibl-pathtracer/pkg/output"
	"github.com/df07/go-ibl-pathtracer/pkg/renderer"
	"github.com/df07/go-ibl-pathtracer/pkg/scene"
)

// renderConfig holds the command line settings for one render
type renderConfig struct {
	Scene    string
	Out      string
	Width    int
	Height   int
	Samples  int
	Seed     int64 // negative keeps the scene's seed
	Workers  int
	TileSize int
	Exposure float64
	Gamma    float64
}

// glogLogger routes renderer progress through glog
type glogLogger struct{}

func (glogLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func main() {
	var cfg renderConfig
	flag.StringVar(&cfg.Scene, "scene", "default", "Built-in scene name or path to a .yaml scene file")
	flag.StringVar(&cfg.Out, "out", "", "Output file (.png, .tiff, .bmp or .rad.zst); defaults to output/<scene>/render_<timestamp>.png")
	flag.IntVar(&cfg.Width, "width", 0, "Image width override")
	flag.IntVar(&cfg.Height, "height", 0, "Image height override")
	flag.IntVar(&cfg.Samples, "samples", 0, "Samples per pixel override")
	flag.Int64Var(&cfg.Seed, "seed", -1, "Base seed override")
	flag.IntVar(&cfg.Workers, "workers", 0, "Number of parallel workers (0 = use CPU count)")
	flag.IntVar(&cfg.TileSize, "tile", renderer.DefaultFrameConfig().TileSize, "Tile size in pixels")
	flag.Float64Var(&cfg.Exposure, "exposure", output.DefaultOptions().Exposure, "Exposure multiplier for 8-bit output")
	flag.Float64Var(&cfg.Gamma, "gamma", output.DefaultOptions().Gamma, "Display gamma for 8-bit output")
	list := flag.Bool("list", false, "List available scenes and exit")
	flag.Parse()
	defer glog.Flush()

	if *list {
		printScenes("scenes")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := run(ctx, cfg, time.Now())
	if err != nil {
		glog.Errorf("Render failed: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Infof("Render saved as %s", path)
}

func printScenes(dir string) {
	resp, err := scene.ListAllScenes(dir)
	if err != nil {
		glog.Errorf("Error listing scenes: %v", err)
		return
	}
	for _, group := range resp.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			name := info.Name
			if info.FilePath != "" {
				name = info.FilePath
			}
			fmt.Printf("  %-24s %s\n", name, info.Description)
		}
	}
}

// createScene resolves a scene name or scene file path
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, errors.New("no scene given")
	}
	return scene.Load(sceneType)
}

// outputPath is the default location for a render of the named scene
func outputPath(sceneType string, now time.Time) string {
	name := filepath.Base(sceneType)
	for _, ext := range []string{".yaml", ".yml"} {
		name = strings.TrimSuffix(name, ext)
	}
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// run renders cfg.Scene once and writes the result, returning the output path
func run(ctx context.Context, cfg renderConfig, now time.Time) (string, error) {
	s, err := createScene(cfg.Scene)
	if err != nil {
		return "", err
	}
	s.SetResolution(cfg.Width, cfg.Height)
	if cfg.Samples > 0 {
		s.Samples = cfg.Samples
	}
	if cfg.Seed >= 0 {
		s.Seed = uint64(cfg.Seed)
	}

	glog.Infof("Scene %q: %d primitives", cfg.Scene, s.GetPrimitiveCount())
	rc, err := s.RenderContext()
	if err != nil {
		return "", fmt.Errorf("while preparing scene %q: %w", cfg.Scene, err)
	}

	fb := output.NewFrameBuffer(rc.Camera.Width, rc.Camera.Height)
	fr := renderer.NewFrameRenderer(rc, renderer.FrameConfig{
		TileSize:   cfg.TileSize,
		NumWorkers: cfg.Workers,
	}, glogLogger{})

	stats, err := fr.Render(ctx, fb)
	if err != nil {
		return "", err
	}
	glog.Infof("Average luminance %.4f over %d pixels (%d roulette, %d depth, %d miss terminations)",
		stats.AverageLuminance(), stats.TotalPixels,
		stats.RouletteTerminations, stats.DepthTerminations, stats.MissTerminations)

	path := cfg.Out
	if path == "" {
		path = outputPath(cfg.Scene, now)
	}
	if err := output.WriteFile(path, fb, output.Options{Exposure: cfg.Exposure, Gamma: cfg.Gamma}); err != nil {
		return "", err
	}
	return path, nil
}
