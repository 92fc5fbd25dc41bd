package scene

import (
	"math"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/geometry"
	"github.com/df07/go-ibl-pathtracer/pkg/lights"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a grid of spheres. Hue varies along X; along Z the spheres
// trade diffuse weight for mirror weight, and the back rows add transmission.
func NewSphereGridScene() *Scene {
	s := &Scene{
		CameraConfig: lookAtCamera(
			core.NewVec3(4.5, 6, 18),    // Camera back and above the grid
			core.NewVec3(4.5, 0.8, 4.5), // Center of the grid
			480, 270, 40,
		),
		Light:   lights.NewLight(lights.NewGradientEnvironment(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0))),
		Samples: 32,
		Seed:    3,
	}

	groundPlane := geometry.NewPlane(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		geometry.NewSurface(material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)), nil),
	)
	s.Shapes = append(s.Shapes, groundPlane)

	gridSize := 8
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Min(0.35, spacing*0.35)

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, 0.15, hue)

			// Weights sum to at most 0.95 so every sphere conserves energy
			specular := 0.6 * float64(j) / float64(gridSize-1)
			transmit := 0.0
			if j >= gridSize-2 {
				transmit = 0.3
				specular = 0.1
			}
			diffuse := 0.95 - specular - transmit

			m, err := material.New(
				color.Multiply(diffuse),
				core.NewVec3(specular, specular, specular),
				core.NewVec3(transmit, transmit, transmit),
				1.5,
			)
			if err != nil {
				panic(err)
			}

			s.Shapes = append(s.Shapes, geometry.NewSphere(position, sphereRadius, geometry.NewSurface(m, nil)))
		}
	}

	return s
}
