package survey

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/geometry"
	"github.com/df07/go-frustum-survey/pkg/scene"
)

// CameraView is the reference camera's frustum and inverse transform at one frame
type CameraView struct {
	Camera        string
	Frame         int
	Frustum       geometry.Frustum
	WorldToCamera mgl64.Mat4
}

// ViewAt reads the camera's parameters and transform at frame. The caller is
// responsible for moving the accessor's time cursor first.
func ViewAt(accessor scene.Accessor, cameraID string, frame int) (CameraView, error) {
	params, err := accessor.CameraParams(cameraID, frame)
	if err != nil {
		return CameraView{}, missingCamera(cameraID, frame, err)
	}
	cameraToWorld, err := accessor.WorldMatrix(cameraID, frame)
	if err != nil {
		return CameraView{}, missingCamera(cameraID, frame, err)
	}
	worldToCamera, ok := core.Invert(cameraToWorld)
	if !ok {
		return CameraView{}, fmt.Errorf("%w: camera %q transform is singular at frame %d",
			core.ErrInvalidFrustumParams, cameraID, frame)
	}
	frustum, err := geometry.NewFrustum(params)
	if err != nil {
		return CameraView{}, fmt.Errorf("camera %q at frame %d: %w", cameraID, frame, err)
	}
	return CameraView{Camera: cameraID, Frame: frame, Frustum: frustum, WorldToCamera: worldToCamera}, nil
}

// ObjectCorners fetches the object's box and transform at the view's frame
// and returns its corners in camera space. Failures wrap ErrObjectQueryFailed.
func (v CameraView) ObjectCorners(accessor scene.Accessor, objectID string) ([8]core.Vec3, error) {
	var corners [8]core.Vec3

	box, err := accessor.LocalBoundingBox(objectID)
	if err != nil {
		return corners, fmt.Errorf("%w: %s bounding box: %w", core.ErrObjectQueryFailed, objectID, err)
	}
	if !box.IsValid() {
		return corners, fmt.Errorf("%w: %s has invalid bounding box %v - %v",
			core.ErrObjectQueryFailed, objectID, box.Min, box.Max)
	}

	localToWorld, err := accessor.WorldMatrix(objectID, v.Frame)
	if err != nil {
		return corners, fmt.Errorf("%w: %s transform: %w", core.ErrObjectQueryFailed, objectID, err)
	}

	corners = geometry.CameraSpaceCorners(box, localToWorld, v.WorldToCamera)
	for _, c := range corners {
		if c.IsNaN() {
			return corners, fmt.Errorf("%w: %s transform is not finite", core.ErrObjectQueryFailed, objectID)
		}
	}
	return corners, nil
}

// Classify tests one object against the view. Errors leave the object Outside.
func (v CameraView) Classify(accessor scene.Accessor, objectID string) (geometry.Containment, error) {
	corners, err := v.ObjectCorners(accessor, objectID)
	if err != nil {
		return geometry.Outside, err
	}
	return v.Frustum.ClassifyBox(corners), nil
}

func missingCamera(cameraID string, frame int, err error) error {
	if errors.Is(err, core.ErrMissingCamera) {
		return fmt.Errorf("frame %d: %w", frame, err)
	}
	return fmt.Errorf("%w: %q at frame %d: %w", core.ErrMissingCamera, cameraID, frame, err)
}
