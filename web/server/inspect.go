package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
	"github.com/df07/go-ibl-pathtracer/pkg/geometry"
	"github.com/df07/go-ibl-pathtracer/pkg/material"
	"github.com/df07/go-ibl-pathtracer/pkg/renderer"
	"github.com/df07/go-ibl-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

func vec3JSON(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo classifies a material by which transport modes it uses
func extractMaterialInfo(mat *material.Material, shading core.Vec3) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if mat == nil {
		return "unknown", properties
	}

	d, s, t := mat.Probabilities()
	properties["kd"] = vec3JSON(mat.Kd)
	properties["ks"] = vec3JSON(mat.Ks)
	properties["kt"] = vec3JSON(mat.Kt)
	properties["ior"] = mat.IOR
	properties["probabilities"] = map[string]float64{"diffuse": d, "specular": s, "transmit": t}
	properties["absorption"] = math.Max(0, 1-(d+s+t))
	properties["indexMatched"] = mat.IsIndexMatched()
	properties["color"] = hexColor(mat.Kd.MultiplyVec(shading))

	switch {
	case t > 0:
		return "dielectric", properties
	case d > 0 && s > 0:
		return "plastic", properties
	case s > 0:
		return "mirror", properties
	case d > 0:
		return "diffuse", properties
	default:
		return "black", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vec3JSON(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Quad:
		properties["corner"] = vec3JSON(geom.Corner)
		properties["u"] = vec3JSON(geom.U)
		properties["v"] = vec3JSON(geom.V)
		properties["normal"] = vec3JSON(geom.Normal)
		return "quad", properties

	case *geometry.Plane:
		properties["point"] = vec3JSON(geom.Point)
		properties["normal"] = vec3JSON(geom.Normal)
		return "plane", properties

	case *geometry.Triangle:
		properties["normal"] = vec3JSON(geom.Normal())
		return "triangle", properties

	case *geometry.Box:
		bbox := geom.BoundingBox()
		properties["center"] = vec3JSON(geom.Center)
		properties["boundingBox"] = map[string]interface{}{
			"min": vec3JSON(bbox.Min),
			"max": vec3JSON(bbox.Max),
		}
		return "box", properties

	case *geometry.TriangleMesh:
		properties["triangleCount"] = geom.TriangleCount()
		bbox := geom.BoundingBox()
		properties["boundingBox"] = map[string]interface{}{
			"min": vec3JSON(bbox.Min),
			"max": vec3JSON(bbox.Max),
		}
		return "triangle_mesh", properties

	default:
		return "unknown", properties
	}
}

// InspectResult contains rich information about an object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord material.SurfaceInteraction
	Direction core.Vec3      // Direction of the inspection ray
	Shape     geometry.Shape // The shape that was hit, if it could be identified
}

// inspectPixel casts a ray through the center of an image pixel (row 0 at the top) and
// returns information about the first object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (InspectResult, error) {
	if sceneObj.BVH == nil {
		sceneObj.Preprocess()
	}
	camera, err := renderer.NewCamera(sceneObj.CameraConfig)
	if err != nil {
		return InspectResult{}, err
	}

	// Camera raster rows grow upward
	cameraY := camera.Height - 1 - pixelY
	ray := camera.PrimaryRay(float64(pixelX)+0.5, float64(cameraY)+0.5)

	hit, isHit := sceneObj.BVH.Intersect(ray)
	if !isHit {
		return InspectResult{Direction: ray.Direction}, nil
	}

	// The BVH does not say which shape it hit, so find the one at the same distance
	for _, shape := range sceneObj.Shapes {
		if shapeHit, ok := shape.Hit(ray, geometry.RayEpsilon, hit.T+geometry.RayEpsilon); ok && shapeHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Direction: ray.Direction, Shape: shape}, nil
		}
	}
	return InspectResult{Hit: true, HitRecord: hit, Direction: ray.Direction}, nil
}

// handleInspect handles object inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sceneObj, err := s.prepareScene(req)
	if err != nil {
		writeJSONError(w, sceneStatus(err), err.Error())
		return
	}

	query := r.URL.Query()
	width, height := sceneObj.CameraConfig.Width, sceneObj.CameraConfig.Height
	pixelX, err := parseIntParam(query, "x", -1, 0, width-1)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	pixelY, err := parseIntParam(query, "y", -1, 0, height-1)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if pixelX < 0 || pixelY < 0 {
		writeJSONError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	result, err := inspectPixel(sceneObj, pixelX, pixelY)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{
			Hit: false,
			Properties: map[string]interface{}{
				"direction": vec3JSON(result.Direction),
			},
		})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material, result.HitRecord.Color)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec3JSON(result.HitRecord.Point),
		Normal:       vec3JSON(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace(result.Direction),
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
