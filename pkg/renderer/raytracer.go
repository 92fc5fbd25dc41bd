package renderer

import (
	"fmt"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/integrator"
	"github.com/df07/go-ibl-pathtracer/pkg/lights"
)

// RenderContext is everything needed to render a frame. It is built once per frame and
// shared read-only by all workers.
type RenderContext struct {
	Camera  *Camera
	Light   *lights.Light
	Scene   integrator.Intersector
	Samples int    // Radiance estimates per pixel
	Seed    uint64 // Base seed of the per-pixel random streams

	tracer *integrator.PathTracer
}

// NewRenderContext binds a camera, scene and light for one frame
func NewRenderContext(camera *Camera, scene integrator.Intersector, light *lights.Light, samples int, seed uint64) (*RenderContext, error) {
	if camera == nil || scene == nil {
		return nil, fmt.Errorf("renderer: render context needs a camera and a scene")
	}
	if samples < 1 {
		return nil, fmt.Errorf("renderer: samples per pixel must be at least 1, got %d", samples)
	}
	if light == nil {
		light = lights.NewLight(nil)
	}

	return &RenderContext{
		Camera:  camera,
		Light:   light,
		Scene:   scene,
		Samples: samples,
		Seed:    seed,
		tracer:  integrator.NewPathTracer(scene, light.Environment),
	}, nil
}

// SamplePixel averages rc.Samples radiance estimates through pixel (x, y), with y counted
// upward in camera space. Each pixel draws from its own stream so the result does not
// depend on which worker renders it.
func (rc *RenderContext) SamplePixel(x, y int, stats *RenderStats) core.Vec3 {
	sampler := core.NewPixelSampler(rc.Seed, uint64(y*rc.Camera.Width+x))

	var ps PixelStats
	for i := 0; i < rc.Samples; i++ {
		jitter := sampler.Get2D()
		ray := rc.Camera.PrimaryRay(float64(x)+jitter.X, float64(y)+jitter.Y)

		result := rc.tracer.Radiance(ray, sampler)
		stats.Record(result)
		ps.AddSample(result.Radiance)
	}

	color := ps.Mean()
	stats.AddPixel(color)
	return color
}
