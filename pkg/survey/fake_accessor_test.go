package survey

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/geometry"
	"github.com/df07/go-frustum-survey/pkg/scene"
)

// recordingAccessor wraps a scene, counting calls and injecting failures
type recordingAccessor struct {
	*scene.Scene

	mu            sync.Mutex
	calls         int
	frames        []int
	deleted       []string
	failTransform map[string]bool // WorldMatrix fails for these ids
	failDelete    map[string]bool
	failCamAt     map[int]bool         // CameraParams fails on these frames
	boxes         map[string]core.AABB // LocalBoundingBox overrides
}

func newRecordingAccessor(s *scene.Scene) *recordingAccessor {
	return &recordingAccessor{
		Scene:         s,
		failTransform: make(map[string]bool),
		failDelete:    make(map[string]bool),
		failCamAt:     make(map[int]bool),
		boxes:         make(map[string]core.AABB),
	}
}

func (ra *recordingAccessor) record() {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	ra.calls++
}

func (ra *recordingAccessor) callCount() int {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	return ra.calls
}

func (ra *recordingAccessor) CameraParams(cameraID string, frame int) (geometry.FrustumParams, error) {
	ra.record()
	if ra.failCamAt[frame] {
		return geometry.FrustumParams{}, fmt.Errorf("camera %s unavailable", cameraID)
	}
	return ra.Scene.CameraParams(cameraID, frame)
}

func (ra *recordingAccessor) WorldMatrix(entityID string, frame int) (mgl64.Mat4, error) {
	ra.record()
	if ra.failTransform[entityID] {
		return mgl64.Mat4{}, fmt.Errorf("transform of %s unavailable", entityID)
	}
	return ra.Scene.WorldMatrix(entityID, frame)
}

func (ra *recordingAccessor) LocalBoundingBox(objectID string) (core.AABB, error) {
	ra.record()
	if box, ok := ra.boxes[objectID]; ok {
		return box, nil
	}
	return ra.Scene.LocalBoundingBox(objectID)
}

func (ra *recordingAccessor) SetCurrentFrame(frame int) error {
	ra.record()
	ra.mu.Lock()
	ra.frames = append(ra.frames, frame)
	ra.mu.Unlock()
	return ra.Scene.SetCurrentFrame(frame)
}

func (ra *recordingAccessor) ListSceneObjects() ([]string, error) {
	ra.record()
	return ra.Scene.ListSceneObjects()
}

func (ra *recordingAccessor) DeleteObject(objectID string) error {
	ra.record()
	ra.mu.Lock()
	ra.deleted = append(ra.deleted, objectID)
	ra.mu.Unlock()
	if ra.failDelete[objectID] {
		return fmt.Errorf("%s is referenced", objectID)
	}
	return ra.Scene.DeleteObject(objectID)
}

func at(frame int, x, y, z float64) scene.Keyframe {
	tr := scene.IdentityTransform()
	tr.Translate = core.NewVec3(x, y, z)
	return scene.Keyframe{Frame: frame, Transform: tr}
}

func unitBox() core.AABB {
	return core.NewAABBFromCenter(core.Vec3{}, 0.5)
}

// newFlybyScene builds a scene with a camera at the origin looking down -Z
// with a 90 degree square frustum, so at z=-5 the view spans x in [-5, 5].
//
//	center: always in view
//	late:   in view around frame 15 only
//	onTen:  in view around frame 10 only
//	behind: always behind the camera
func newFlybyScene() *scene.Scene {
	s := scene.NewScene("flyby")
	s.StartFrame, s.EndFrame = 0, 20
	s.AddCamera(&scene.Camera{
		Name: "camRender", Near: 1, Far: 100, FovY: 90, AspectRatio: 1,
		Track: scene.StaticTrack(scene.IdentityTransform()),
	})
	s.AddObject(&scene.Object{Name: "center", Bounds: unitBox(), Track: scene.NewTrack(at(0, 0, 0, -5))})
	s.AddObject(&scene.Object{Name: "late", Bounds: unitBox(), Track: scene.NewTrack(
		at(0, 100, 0, -5), at(14, 100, 0, -5), at(15, 0, 0, -5), at(16, 100, 0, -5), at(20, 100, 0, -5),
	)})
	s.AddObject(&scene.Object{Name: "onTen", Bounds: unitBox(), Track: scene.NewTrack(
		at(0, 100, 0, -5), at(9, 100, 0, -5), at(10, 0, 0, -5), at(11, 100, 0, -5),
	)})
	s.AddObject(&scene.Object{Name: "behind", Bounds: unitBox(), Track: scene.NewTrack(at(0, 0, 0, 5))})
	return s
}
