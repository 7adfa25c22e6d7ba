package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-frustum-survey/pkg/core"
)

// CameraSpaceCorners maps the eight corners of a local-space box into the
// camera's local space through worldToCamera * localToWorld.
func CameraSpaceCorners(box core.AABB, localToWorld, worldToCamera mgl64.Mat4) [8]core.Vec3 {
	m := worldToCamera.Mul4(localToWorld)
	corners := box.Corners()
	for i, corner := range corners {
		corners[i] = core.TransformPoint(m, corner)
	}
	return corners
}
