package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// ErrInvalidCamera is returned for camera configurations that cannot produce rays
var ErrInvalidCamera = errors.New("renderer: invalid camera")

// CameraConfig describes a pinhole camera. Camera space has +x to the right, +y up and
// looks down +z.
type CameraConfig struct {
	Width         int
	Height        int
	FOV           float64    // Field of view in degrees spanning screen coordinates -1..1
	ScreenWindow  [4]float64 // xmin, xmax, ymin, ymax; all zero derives it from the aspect ratio
	WorldToCamera core.Mat4
	RightHanded   bool // Flip camera-space z before mapping into the world
}

// LookAt returns the world-to-camera matrix of a camera at from looking toward at
func LookAt(from, at, up core.Vec3) core.Mat4 {
	forward := at.Subtract(from).Normalize()
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward)

	return core.Mat4{
		{right.X, right.Y, right.Z, -right.Dot(from)},
		{trueUp.X, trueUp.Y, trueUp.Z, -trueUp.Dot(from)},
		{forward.X, forward.Y, forward.Z, -forward.Dot(from)},
		{0, 0, 0, 1},
	}
}

// DefaultScreenWindow spans -1..1 along the shorter image axis and the aspect ratio along
// the longer one
func DefaultScreenWindow(width, height int) [4]float64 {
	aspect := float64(width) / float64(height)
	if aspect >= 1 {
		return [4]float64{-aspect, aspect, -1, 1}
	}
	return [4]float64{-1, 1, -1 / aspect, 1 / aspect}
}

// Camera is the per-frame camera state derived from a CameraConfig. It is immutable.
type Camera struct {
	Position      core.Vec3
	Direction     core.Vec3
	FOV           float64
	ScreenWindow  [4]float64
	Width         int
	Height        int
	CameraToWorld core.Mat4

	focalLength float64
}

// NewCamera validates the configuration and derives the camera-to-world transform,
// position and viewing direction
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%d", ErrInvalidCamera, config.Width, config.Height)
	}
	if config.FOV <= 0 || config.FOV >= 180 {
		return nil, fmt.Errorf("%w: field of view %g", ErrInvalidCamera, config.FOV)
	}

	window := config.ScreenWindow
	if window == [4]float64{} {
		window = DefaultScreenWindow(config.Width, config.Height)
	}
	if window[0] >= window[1] || window[2] >= window[3] {
		return nil, fmt.Errorf("%w: empty screen window %v", ErrInvalidCamera, window)
	}

	cameraToWorld, ok := config.WorldToCamera.Inverse()
	if !ok {
		return nil, fmt.Errorf("%w: world-to-camera matrix is singular", ErrInvalidCamera)
	}
	if config.RightHanded {
		flip := core.Identity()
		flip[2][2] = -1
		cameraToWorld = cameraToWorld.Multiply(flip)
	}

	position := cameraToWorld.TransformPoint(core.Vec3{})
	direction := cameraToWorld.TransformPoint(core.NewVec3(0, 0, 1)).Subtract(position).Normalize()

	return &Camera{
		Position:      position,
		Direction:     direction,
		FOV:           config.FOV,
		ScreenWindow:  window,
		Width:         config.Width,
		Height:        config.Height,
		CameraToWorld: cameraToWorld,
		focalLength:   1.0 / math.Tan(config.FOV*math.Pi/360.0),
	}, nil
}

// PrimaryRay returns the world-space ray through the continuous raster position (px, py).
// Raster y grows upward in camera space.
func (c *Camera) PrimaryRay(px, py float64) core.Ray {
	w := float64(c.Width)
	h := float64(c.Height)
	sw := c.ScreenWindow

	local := core.NewVec3(
		(2*px-w)/w*(sw[1]-sw[0])/2,
		(2*py-h)/h*(sw[3]-sw[2])/2,
		c.focalLength,
	)
	direction := c.CameraToWorld.TransformPoint(local).Subtract(c.Position).Normalize()
	return core.NewRay(c.Position, direction)
}
