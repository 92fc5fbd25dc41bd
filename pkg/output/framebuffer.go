package output

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// FrameBuffer stores the averaged float radiance of every pixel. Row 0 is the top of
// the image. It implements core.PixelSink.
type FrameBuffer struct {
	Width  int
	Height int
	pixels []float32 // RGB triples, row-major
	writes []uint8
}

// NewFrameBuffer allocates a black buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		pixels: make([]float32, width*height*3),
		writes: make([]uint8, width*height),
	}
}

// Write stores one pixel. Writing outside the buffer is a caller bug and panics.
func (fb *FrameBuffer) Write(x, y int, rgb [3]float32) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		panic(fmt.Sprintf("output: pixel (%d, %d) outside %dx%d frame", x, y, fb.Width, fb.Height))
	}
	i := y*fb.Width + x
	copy(fb.pixels[i*3:i*3+3], rgb[:])
	if fb.writes[i] < 255 {
		fb.writes[i]++
	}
}

// At returns the stored radiance of a pixel
func (fb *FrameBuffer) At(x, y int) [3]float32 {
	i := (y*fb.Width + x) * 3
	return [3]float32{fb.pixels[i], fb.pixels[i+1], fb.pixels[i+2]}
}

// WriteCount returns how many times a pixel has been written
func (fb *FrameBuffer) WriteCount(x, y int) int {
	return int(fb.writes[y*fb.Width+x])
}

// Complete reports whether every pixel was written exactly once
func (fb *FrameBuffer) Complete() bool {
	for _, n := range fb.writes {
		if n != 1 {
			return false
		}
	}
	return true
}

// Pixels exposes the raw RGB float data
func (fb *FrameBuffer) Pixels() []float32 {
	return fb.pixels
}

// ToRGBA tone-maps the buffer to 8-bit sRGB-ish output: scale by exposure, clamp to
// [0,1] and apply gamma
func (fb *FrameBuffer) ToRGBA(exposure, gamma float64) *image.RGBA {
	return fb.RegionToRGBA(image.Rect(0, 0, fb.Width, fb.Height), exposure, gamma)
}

// RegionToRGBA tone-maps the part of the buffer inside r. The returned image keeps r's
// coordinates.
func (fb *FrameBuffer) RegionToRGBA(r image.Rectangle, exposure, gamma float64) *image.RGBA {
	r = r.Intersect(image.Rect(0, 0, fb.Width, fb.Height))
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := fb.At(x, y)
			c := core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2])).
				Multiply(exposure).
				Clamp(0, 1).
				GammaCorrect(gamma)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255 + 0.5),
				G: uint8(c.Y*255 + 0.5),
				B: uint8(c.Z*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}
