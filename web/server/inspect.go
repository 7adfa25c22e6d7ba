package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/geometry"
	"github.com/df07/go-frustum-survey/pkg/loaders"
	"github.com/df07/go-frustum-survey/pkg/scene"
	"github.com/df07/go-frustum-survey/pkg/survey"
)

// PlaneReport describes where an object's corners fall relative to one plane
type PlaneReport struct {
	Name        string  `json:"name"`
	Behind      int     `json:"behind"` // Corners behind the plane
	MinDistance float64 `json:"minDistance"`
	MaxDistance float64 `json:"maxDistance"`
}

// BoundsReport is the camera-space box around an object's transformed corners
type BoundsReport struct {
	Min    [3]float64 `json:"min"`
	Max    [3]float64 `json:"max"`
	Center [3]float64 `json:"center"`
	Size   [3]float64 `json:"size"`
}

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Object          string         `json:"object"`
	Camera          string         `json:"camera"`
	Frame           int            `json:"frame"`
	Containment     string         `json:"containment"`
	SeparatingPlane string         `json:"separatingPlane,omitempty"`
	Corners         [8][3]float64  `json:"corners"` // Camera space
	Bounds          BoundsReport   `json:"bounds"`
	Planes          [6]PlaneReport `json:"planes"`
}

// inspectObject classifies one object against the camera at one frame and
// reports the per-plane detail behind the result
func inspectObject(accessor scene.Accessor, cameraID, objectID string, frame int) (*InspectResponse, error) {
	if err := accessor.SetCurrentFrame(frame); err != nil {
		return nil, err
	}
	view, err := survey.ViewAt(accessor, cameraID, frame)
	if err != nil {
		return nil, err
	}
	corners, err := view.ObjectCorners(accessor, objectID)
	if err != nil {
		return nil, err
	}

	resp := &InspectResponse{
		Object:      objectID,
		Camera:      cameraID,
		Frame:       frame,
		Containment: view.Frustum.ClassifyBox(corners).String(),
	}
	if i := view.Frustum.SeparatingPlane(corners); i >= 0 {
		resp.SeparatingPlane = geometry.PlaneName(i)
	}
	for i, c := range corners {
		resp.Corners[i] = triple(c)
	}

	bounds := core.NewAABBFromPoints(corners[:]...)
	resp.Bounds = BoundsReport{
		Min:    triple(bounds.Min),
		Max:    triple(bounds.Max),
		Center: triple(bounds.Center()),
		Size:   triple(bounds.Size()),
	}

	for i, plane := range view.Frustum.Planes {
		report := PlaneReport{Name: geometry.PlaneName(i), MinDistance: math.Inf(1), MaxDistance: math.Inf(-1)}
		for _, c := range corners {
			d := plane.SignedDistance(c)
			report.MinDistance = math.Min(report.MinDistance, d)
			report.MaxDistance = math.Max(report.MaxDistance, d)
			if plane.Classify(c) == geometry.Behind {
				report.Behind++
			}
		}
		resp.Planes[i] = report
	}
	return resp, nil
}

// inspectStatus maps an inspection failure to an HTTP status
func inspectStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrMissingCamera), errors.Is(err, scene.ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrObjectQueryFailed), errors.Is(err, core.ErrInvalidFrustumParams):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func triple(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect explains how a single object classifies at a single frame
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	scenePath, err := resolveScenePath(query.Get("scene"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene: "+err.Error())
		return
	}
	objectID := query.Get("object")
	if objectID == "" {
		writeJSONError(w, http.StatusBadRequest, "object is required")
		return
	}
	frame, err := parseIntParam(query, "frame", 0, math.MinInt32, math.MaxInt32)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	desc, err := loaders.LoadScene(scenePath)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	sc, err := desc.Build()
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	cameraID := query.Get("camera")
	if cameraID == "" {
		cameraID = desc.Camera
	}
	if cameraID == "" {
		cameraID = s.settings.Camera
	}

	resp, err := inspectObject(sc, cameraID, objectID, frame)
	if err != nil {
		writeJSONError(w, inspectStatus(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
