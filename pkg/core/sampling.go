package core

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Sampler provides uniform random numbers for rendering algorithms.
// Can be swapped out for deterministic testing.
type Sampler interface {
	// Get1D returns a value in [0, 1)
	Get1D() float64
	// Get2D returns two consecutive values in [0, 1)
	Get2D() Vec2
}

// RandomSampler wraps a Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewPixelSampler creates an independent PCG stream for one pixel. The same
// (seed, pixelIndex) pair always yields the same sequence.
func NewPixelSampler(seed uint64, pixelIndex uint64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewPCG(seed, pixelIndex)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	x := r.random.Float64()
	y := r.random.Float64()
	return NewVec2(x, y)
}

// SequenceSampler replays a fixed list of draws. It panics when the list is exhausted,
// which makes a test that consumes more draws than expected fail loudly.
type SequenceSampler struct {
	values []float64
	next   int
}

// NewSequenceSampler creates a sampler that returns values in order
func NewSequenceSampler(values ...float64) *SequenceSampler {
	return &SequenceSampler{values: values}
}

// Get1D returns the next value of the sequence
func (s *SequenceSampler) Get1D() float64 {
	if s.next >= len(s.values) {
		panic(fmt.Sprintf("core: sequence sampler exhausted after %d draws", len(s.values)))
	}
	v := s.values[s.next]
	s.next++
	return v
}

// Get2D returns the next two values of the sequence
func (s *SequenceSampler) Get2D() Vec2 {
	x := s.Get1D()
	y := s.Get1D()
	return NewVec2(x, y)
}

// Consumed returns the number of draws taken so far
func (s *SequenceSampler) Consumed() int {
	return s.next
}

// SampleCosineHemisphere maps two uniform draws to a cosine-weighted direction in the
// hemisphere around normal: cosθ = √r0, φ = 2π·r1.
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	cosTheta := math.Sqrt(sample.X)
	sinTheta := math.Sqrt(1.0 - sample.X)
	phi := 2.0 * math.Pi * sample.Y

	t1, t2 := OrthonormalBasis(normal)

	return t1.Multiply(math.Cos(phi) * sinTheta).
		Add(t2.Multiply(math.Sin(phi) * sinTheta)).
		Add(normal.Multiply(cosTheta))
}
