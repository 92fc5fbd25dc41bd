package scene

import (
	"math"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/geometry"
	"github.com/df07/go-ibl-pathtracer/pkg/lights"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
)

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry
func NewTriangleMeshScene() *Scene {
	s := &Scene{
		CameraConfig: lookAtCamera(
			core.NewVec3(0, 2, 6), // Position camera to see the meshes
			core.NewVec3(0, 1, 0), // Look at the center of the scene
			480, 270, 45,
		),
		Light:   lights.NewLight(lights.NewGradientEnvironment(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0))),
		Samples: 32,
		Seed:    5,
	}

	ground := material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7))
	s.Shapes = append(s.Shapes, geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), geometry.NewSurface(ground, nil)))

	redMirror := material.NewMirror(core.NewVec3(0.8, 0.2, 0.2))
	blueDiffuse := material.NewDiffuse(core.NewVec3(0.2, 0.3, 0.8))
	goldMirror := material.NewMirror(core.NewVec3(0.8, 0.6, 0.2))

	// Box rotated to show multiple faces
	s.Shapes = append(s.Shapes, mustMesh(boxMesh(core.NewVec3(1, 1, 1)), redMirror, &geometry.TriangleMeshOptions{
		RotationY: math.Pi / 6,
		Offset:    core.NewVec3(-2, 0.5, 0),
	}))

	// Pyramid rotated so it reads as a pyramid
	s.Shapes = append(s.Shapes, mustMesh(pyramidMesh(1.5, 2.0), blueDiffuse, &geometry.TriangleMeshOptions{
		RotationY: math.Pi / 4,
		Offset:    core.NewVec3(0, 1, 0),
	}))

	s.Shapes = append(s.Shapes, mustMesh(icosahedronMesh(), goldMirror, &geometry.TriangleMeshOptions{
		Scale:     0.8,
		RotationY: math.Pi / 3,
		Offset:    core.NewVec3(2, 0.8, 0),
	}))

	return s
}

// meshData is an indexed triangle list centered on the origin
type meshData struct {
	vertices []core.Vec3
	faces    []int
}

// mustMesh builds a mesh from generated data, which is always well formed
func mustMesh(data meshData, m *material.Material, options *geometry.TriangleMeshOptions) *geometry.TriangleMesh {
	mesh, err := geometry.NewTriangleMesh(data.vertices, data.faces, geometry.NewSurface(m, nil), options)
	if err != nil {
		panic(err)
	}
	return mesh
}

// boxMesh creates a box with the given edge lengths
func boxMesh(size core.Vec3) meshData {
	h := size.Multiply(0.5)
	vertices := []core.Vec3{
		core.NewVec3(-h.X, -h.Y, -h.Z), // 0: left-bottom-back
		core.NewVec3(+h.X, -h.Y, -h.Z), // 1: right-bottom-back
		core.NewVec3(+h.X, +h.Y, -h.Z), // 2: right-top-back
		core.NewVec3(-h.X, +h.Y, -h.Z), // 3: left-top-back
		core.NewVec3(-h.X, -h.Y, +h.Z), // 4: left-bottom-front
		core.NewVec3(+h.X, -h.Y, +h.Z), // 5: right-bottom-front
		core.NewVec3(+h.X, +h.Y, +h.Z), // 6: right-top-front
		core.NewVec3(-h.X, +h.Y, +h.Z), // 7: left-top-front
	}

	// 2 triangles per face, wound counter-clockwise seen from outside
	faces := []int{
		0, 2, 1, 0, 3, 2, // back (Z-)
		4, 5, 6, 4, 6, 7, // front (Z+)
		0, 4, 7, 0, 7, 3, // left (X-)
		1, 2, 6, 1, 6, 5, // right (X+)
		0, 1, 5, 0, 5, 4, // bottom (Y-)
		3, 7, 6, 3, 6, 2, // top (Y+)
	}

	return meshData{vertices: vertices, faces: faces}
}

// pyramidMesh creates a square pyramid centered on the origin
func pyramidMesh(baseSize, height float64) meshData {
	b := baseSize * 0.5
	h := height * 0.5

	vertices := []core.Vec3{
		core.NewVec3(-b, -h, -b), // 0: left-back
		core.NewVec3(+b, -h, -b), // 1: right-back
		core.NewVec3(+b, -h, +b), // 2: right-front
		core.NewVec3(-b, -h, +b), // 3: left-front
		core.NewVec3(0, +h, 0),   // 4: apex
	}

	faces := []int{
		0, 1, 2, 0, 2, 3, // base
		0, 4, 1, // back
		1, 4, 2, // right
		2, 4, 3, // front
		3, 4, 0, // left
	}

	return meshData{vertices: vertices, faces: faces}
}

// icosahedronMesh creates a unit-radius icosahedron
func icosahedronMesh() meshData {
	phi := (1.0 + math.Sqrt(5)) / 2.0
	scale := 1.0 / math.Sqrt(1+phi*phi)

	raw := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0), core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi), core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1), core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}
	vertices := make([]core.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = v.Multiply(scale)
	}

	faces := []int{
		// 5 faces around point 0
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		// 5 adjacent faces
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		// 5 faces around point 3
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		// 5 adjacent faces
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return meshData{vertices: vertices, faces: faces}
}
