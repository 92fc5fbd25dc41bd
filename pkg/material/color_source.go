package material

import (
	"math"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// ColorSource provides spatially-varying shading colors for surfaces
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor provides a uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// Checker is a procedural 3D checkerboard with cubes of side Size
type Checker struct {
	Size float64
	Even core.Vec3
	Odd  core.Vec3
}

// NewChecker creates a checkerboard color source
func NewChecker(size float64, even, odd core.Vec3) *Checker {
	return &Checker{Size: size, Even: even, Odd: odd}
}

// Evaluate picks a color from the parity of the cell containing point
func (c *Checker) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	size := c.Size
	if size <= 0 {
		size = 1
	}
	ix := int(math.Floor(point.X / size))
	iy := int(math.Floor(point.Y / size))
	iz := int(math.Floor(point.Z / size))
	if (ix+iy+iz)&1 == 0 {
		return c.Even
	}
	return c.Odd
}
