package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-frustum-survey/pkg/core"
)

func TestCameraSpaceCorners_Identity(t *testing.T) {
	box := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	corners := CameraSpaceCorners(box, mgl64.Ident4(), mgl64.Ident4())

	assert.Equal(t, box.Corners(), corners)
}

func TestCameraSpaceCorners_ObjectAndCameraTransforms(t *testing.T) {
	box := core.NewAABBFromCenter(core.NewVec3(0, 0, 0), 0.1)

	// Object sits at world (10, 0, -5); camera sits at world (10, 0, 0)
	localToWorld := mgl64.Translate3D(10, 0, -5)
	cameraWorld := mgl64.Translate3D(10, 0, 0)
	worldToCamera, ok := core.Invert(cameraWorld)
	require.True(t, ok)

	corners := CameraSpaceCorners(box, localToWorld, worldToCamera)
	center := core.NewAABBFromPoints(corners[:]...).Center()
	assert.InDelta(t, 0, center.Subtract(core.NewVec3(0, 0, -5)).Length(), 1e-9)

	f, err := NewFrustum(FrustumParams{Near: 1, Far: 10, Left: -1, Right: 1, Bottom: -1, Top: 1})
	require.NoError(t, err)
	assert.Equal(t, PotentiallyVisible, f.ClassifyBox(corners))
}

func TestCameraSpaceCorners_RotatedCamera(t *testing.T) {
	// Camera turned 180° around Y looks down +Z in world space
	box := core.NewAABBFromCenter(core.NewVec3(0, 0, 0), 0.1)
	localToWorld := mgl64.Translate3D(0, 0, 5)
	worldToCamera, ok := core.Invert(mgl64.HomogRotate3DY(mgl64.DegToRad(180)))
	require.True(t, ok)

	corners := CameraSpaceCorners(box, localToWorld, worldToCamera)
	f, err := NewFrustum(FrustumParams{Near: 1, Far: 10, Left: -1, Right: 1, Bottom: -1, Top: 1})
	require.NoError(t, err)
	assert.Equal(t, PotentiallyVisible, f.ClassifyBox(corners))

	// Without the rotation the same object is behind the camera
	unrotated := CameraSpaceCorners(box, localToWorld, mgl64.Ident4())
	assert.Equal(t, Outside, f.ClassifyBox(unrotated))
}
