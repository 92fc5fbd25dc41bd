package scene

import (
	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/geometry"
	"github.com/df07/go-ibl-pathtracer/pkg/lights"
	"github.com/df07/go-ibl-pathtracer/pkg/renderer"
)

// DefaultSamples is used when a scene does not set its samples per pixel
const DefaultSamples = 16

// Scene contains all the elements needed for rendering
type Scene struct {
	CameraConfig renderer.CameraConfig
	Shapes       []geometry.Shape // Objects in the scene
	Light        *lights.Light    // The distant light; nil is black
	Samples      int              // Radiance estimates per pixel
	Seed         uint64
	BVH          *geometry.BVH // Acceleration structure for ray-object intersection
}

// lookAtCamera configures a left-handed camera from a look-at description
func lookAtCamera(from, at core.Vec3, width, height int, fov float64) renderer.CameraConfig {
	return renderer.CameraConfig{
		Width:         width,
		Height:        height,
		FOV:           fov,
		WorldToCamera: renderer.LookAt(from, at, core.NewVec3(0, 1, 0)),
	}
}

// NewGroundQuad creates a large horizontal quad centered at the given point with normal
// pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, surface geometry.Surface) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) points up
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, surface)
}

// SetResolution overrides the image size. A non-positive value keeps the current one.
func (s *Scene) SetResolution(width, height int) {
	if width > 0 {
		s.CameraConfig.Width = width
	}
	if height > 0 {
		s.CameraConfig.Height = height
	}
}

// Preprocess prepares the scene for rendering by building the BVH
func (s *Scene) Preprocess() {
	s.BVH = geometry.NewBVH(s.Shapes)
	if s.Light == nil {
		s.Light = lights.NewLight(nil)
	}
	if s.Samples <= 0 {
		s.Samples = DefaultSamples
	}
}

// RenderContext derives the immutable per-frame state. The scene is preprocessed first
// if needed.
func (s *Scene) RenderContext() (*renderer.RenderContext, error) {
	if s.BVH == nil {
		s.Preprocess()
	}

	camera, err := renderer.NewCamera(s.CameraConfig)
	if err != nil {
		return nil, err
	}
	return renderer.NewRenderContext(camera, s.BVH, s.Light, s.Samples, s.Seed)
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		switch obj := shape.(type) {
		case *geometry.TriangleMesh:
			count += obj.TriangleCount()
		case *geometry.Box:
			count += 6
		default:
			count++
		}
	}
	return count
}
