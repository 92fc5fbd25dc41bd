package renderer

import (
	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels          int     // Total number of pixels rendered
	TotalSamples         int     // Total number of radiance estimates taken
	PrimaryMisses        int     // Camera rays that saw the environment directly
	MissTerminations     int     // Walks that escaped the scene
	DepthTerminations    int     // Walks stopped by the vertex limit
	RouletteTerminations int     // Walks stopped by Russian roulette
	MaxDepth             int     // Deepest final vertex of any walk
	LuminanceSum         float64 // Sum of final pixel luminances
}

// Record adds one radiance estimate
func (s *RenderStats) Record(result integrator.PathResult) {
	s.TotalSamples++
	if result.PrimaryMiss {
		s.PrimaryMisses++
		return
	}

	switch result.Termination {
	case integrator.TerminatedMiss:
		s.MissTerminations++
	case integrator.TerminatedDepth:
		s.DepthTerminations++
	case integrator.TerminatedRoulette:
		s.RouletteTerminations++
	}
	s.MaxDepth = max(s.MaxDepth, result.Depth)
}

// AddPixel records a finished pixel
func (s *RenderStats) AddPixel(color core.Vec3) {
	s.TotalPixels++
	s.LuminanceSum += color.Luminance()
}

// Merge folds the statistics of another tile into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.PrimaryMisses += other.PrimaryMisses
	s.MissTerminations += other.MissTerminations
	s.DepthTerminations += other.DepthTerminations
	s.RouletteTerminations += other.RouletteTerminations
	s.MaxDepth = max(s.MaxDepth, other.MaxDepth)
	s.LuminanceSum += other.LuminanceSum
}

// AverageLuminance returns the mean luminance of the pixels rendered so far
func (s *RenderStats) AverageLuminance() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return s.LuminanceSum / float64(s.TotalPixels)
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB sum of all samples
	SampleCount int
}

// AddSample adds a new radiance sample
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// Mean returns the arithmetic mean of the samples, computed with a single division
// per channel
func (ps *PixelStats) Mean() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	n := float64(ps.SampleCount)
	return core.NewVec3(ps.ColorAccum.X/n, ps.ColorAccum.Y/n, ps.ColorAccum.Z/n)
}
