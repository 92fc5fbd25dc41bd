package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// ConstantEnvironment emits the same radiance in every direction
type ConstantEnvironment struct {
	Radiance core.Vec3
}

// NewConstantEnvironment creates a uniform environment
func NewConstantEnvironment(radiance core.Vec3) *ConstantEnvironment {
	return &ConstantEnvironment{Radiance: radiance}
}

// Fetch returns the constant radiance
func (c *ConstantEnvironment) Fetch(direction core.Vec3) core.Vec3 {
	return c.Radiance
}

// GradientEnvironment blends from Bottom (straight down) to Top (straight up) by the
// Y component of the direction
type GradientEnvironment struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// NewGradientEnvironment creates a sky gradient
func NewGradientEnvironment(top, bottom core.Vec3) *GradientEnvironment {
	return &GradientEnvironment{Top: top, Bottom: bottom}
}

// Fetch maps Y from [-1,1] to [0,1] and interpolates
func (g *GradientEnvironment) Fetch(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return g.Bottom.Multiply(1.0 - t).Add(g.Top.Multiply(t))
}

// LatLongEnvironment is an equirectangular radiance map. Row 0 is straight up, the
// center column looks down -Z and u grows toward +X.
type LatLongEnvironment struct {
	width     int
	height    int
	pixels    []core.Vec3
	intensity float64
	rotation  float64 // Rotation of the map about +Y in radians
}

// NewLatLongEnvironment wraps row-major pixels (pixels[y*width+x]) as an environment
func NewLatLongEnvironment(width, height int, pixels []core.Vec3, intensity, rotation float64) (*LatLongEnvironment, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("environment map must be non-empty, got %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("environment map has %d pixels, want %d", len(pixels), width*height)
	}
	return &LatLongEnvironment{
		width:     width,
		height:    height,
		pixels:    pixels,
		intensity: intensity,
		rotation:  rotation,
	}, nil
}

// DirectionToUV maps a direction to map coordinates in [0,1)×[0,1]
func (e *LatLongEnvironment) DirectionToUV(direction core.Vec3) core.Vec2 {
	d := direction.Normalize().RotateY(-e.rotation)
	u := 0.5 + math.Atan2(d.X, -d.Z)/(2*math.Pi)
	v := math.Acos(math.Max(-1, math.Min(1, d.Y))) / math.Pi
	if u >= 1 {
		u -= 1
	}
	return core.NewVec2(u, v)
}

// Fetch bilinearly interpolates the map, wrapping horizontally and clamping at the poles
func (e *LatLongEnvironment) Fetch(direction core.Vec3) core.Vec3 {
	uv := e.DirectionToUV(direction)

	fx := uv.X*float64(e.width) - 0.5
	fy := uv.Y*float64(e.height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := e.texel(x0, y0)
	c10 := e.texel(x0+1, y0)
	c01 := e.texel(x0, y0+1)
	c11 := e.texel(x0+1, y0+1)

	top := c00.Multiply(1 - tx).Add(c10.Multiply(tx))
	bottom := c01.Multiply(1 - tx).Add(c11.Multiply(tx))
	return top.Multiply(1 - ty).Add(bottom.Multiply(ty)).Multiply(e.intensity)
}

func (e *LatLongEnvironment) texel(x, y int) core.Vec3 {
	x %= e.width
	if x < 0 {
		x += e.width
	}
	y = max(0, min(e.height-1, y))
	return e.pixels[y*e.width+x]
}

// Size returns the map resolution
func (e *LatLongEnvironment) Size() (int, int) {
	return e.width, e.height
}
