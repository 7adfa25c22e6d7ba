package scene

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/geometry"
)

// Camera is a reference camera in a Scene
type Camera struct {
	Name        string
	Near        float64
	Far         float64
	FovY        float64                 // Vertical field of view in degrees, used when Extents is nil
	AspectRatio float64                 // Width / height
	Extents     *geometry.FrustumParams // Explicit near-plane extents; Near/Far are taken from the camera
	Track       Track
}

// Params returns the frustum parameters of the camera
func (c *Camera) Params() geometry.FrustumParams {
	if c.Extents != nil {
		params := *c.Extents
		params.Near = c.Near
		params.Far = c.Far
		params.AspectRatio = c.AspectRatio
		return params
	}
	return geometry.PerspectiveExtents(c.FovY, c.AspectRatio, c.Near, c.Far)
}

// Object is a cullable scene object
type Object struct {
	Name   string
	Bounds core.AABB // Local-space bounding box
	Locked bool      // Locked objects refuse deletion
	Track  Track
}

var _ Accessor = (*Scene)(nil)

// Scene is an in-memory, keyframe-animated implementation of Accessor
type Scene struct {
	Name         string
	StartFrame   int // Playback range start
	EndFrame     int // Playback range end (inclusive)
	mu           sync.RWMutex
	currentFrame int
	cameras      map[string]*Camera
	objects      map[string]*Object
	order        []string // Object ids in insertion order
}

// NewScene creates an empty scene
func NewScene(name string) *Scene {
	return &Scene{
		Name:    name,
		cameras: make(map[string]*Camera),
		objects: make(map[string]*Object),
	}
}

// AddCamera adds or replaces a camera
func (s *Scene) AddCamera(camera *Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cameras[camera.Name] = camera
}

// AddObject adds or replaces an object. Replacing keeps the original position
// in ListSceneObjects.
func (s *Scene) AddObject(object *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[object.Name]; !exists {
		s.order = append(s.order, object.Name)
	}
	s.objects[object.Name] = object
}

// HasObject reports whether the object is still in the scene
func (s *Scene) HasObject(objectID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[objectID]
	return ok
}

// Object returns the object with the given id
func (s *Scene) Object(objectID string) (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[objectID]
	return obj, ok
}

// Camera returns the camera with the given id
func (s *Scene) Camera(cameraID string) (*Camera, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cam, ok := s.cameras[cameraID]
	return cam, ok
}

// CameraNames returns the ids of all cameras
func (s *Scene) CameraNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.cameras))
	for name := range s.cameras {
		names = append(names, name)
	}
	return names
}

// CurrentFrame returns the time cursor
func (s *Scene) CurrentFrame() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentFrame
}

// GetObjectCount returns the number of objects in the scene
func (s *Scene) GetObjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// CameraParams implements Accessor
func (s *Scene) CameraParams(cameraID string, frame int) (geometry.FrustumParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cam, ok := s.cameras[cameraID]
	if !ok {
		return geometry.FrustumParams{}, fmt.Errorf("%w: %q", core.ErrMissingCamera, cameraID)
	}
	return cam.Params(), nil
}

// WorldMatrix implements Accessor
func (s *Scene) WorldMatrix(entityID string, frame int) (mgl64.Mat4, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if obj, ok := s.objects[entityID]; ok {
		return obj.Track.Matrix(frame), nil
	}
	if cam, ok := s.cameras[entityID]; ok {
		return cam.Track.Matrix(frame), nil
	}
	return mgl64.Mat4{}, fmt.Errorf("%w: %q", ErrEntityNotFound, entityID)
}

// LocalBoundingBox implements Accessor
func (s *Scene) LocalBoundingBox(objectID string) (core.AABB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[objectID]
	if !ok {
		return core.AABB{}, fmt.Errorf("%w: %q", ErrEntityNotFound, objectID)
	}
	return obj.Bounds, nil
}

// SetCurrentFrame implements Accessor
func (s *Scene) SetCurrentFrame(frame int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentFrame = frame
	return nil
}

// ListSceneObjects implements Accessor
func (s *Scene) ListSceneObjects() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids, nil
}

// DeleteObject implements Accessor
func (s *Scene) DeleteObject(objectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[objectID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEntityNotFound, objectID)
	}
	if obj.Locked {
		return fmt.Errorf("%w: %q", ErrObjectLocked, objectID)
	}
	delete(s.objects, objectID)
	for i, id := range s.order {
		if id == objectID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
