package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/geometry"
)

// Accessor is the host scene as seen by the survey and the cull.
//
// Read methods (CameraParams, WorldMatrix, LocalBoundingBox) may be called
// concurrently from several goroutines, but never while SetCurrentFrame or
// DeleteObject is running.
type Accessor interface {
	// CameraParams returns the camera's clip distances and near-plane extents
	// at frame. Unknown cameras yield an error wrapping core.ErrMissingCamera.
	CameraParams(cameraID string, frame int) (geometry.FrustumParams, error)

	// WorldMatrix returns the local-to-world matrix of an object or camera at frame.
	WorldMatrix(entityID string, frame int) (mgl64.Mat4, error)

	// LocalBoundingBox returns the object's bounding box in its own space.
	LocalBoundingBox(objectID string) (core.AABB, error)

	// SetCurrentFrame moves the host's shared time cursor.
	SetCurrentFrame(frame int) error

	// ListSceneObjects returns every cullable object id.
	ListSceneObjects() ([]string, error)

	// DeleteObject removes an object from the scene.
	DeleteObject(objectID string) error
}

var (
	ErrEntityNotFound = errors.New("entity not found")
	ErrObjectLocked   = errors.New("object is locked")
)
