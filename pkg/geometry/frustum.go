package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-frustum-survey/pkg/core"
)

// Plane indices within a Frustum
const (
	PlaneRight = iota
	PlaneLeft
	PlaneBottom
	PlaneTop
	PlaneFar
	PlaneNear
	NumPlanes
)

var planeNames = [NumPlanes]string{"right", "left", "bottom", "top", "far", "near"}

// PlaneName returns the logical name of a frustum plane index
func PlaneName(index int) string {
	if index < 0 || index >= NumPlanes {
		return fmt.Sprintf("plane(%d)", index)
	}
	return planeNames[index]
}

// Containment is the result of classifying a box against a frustum
type Containment int

const (
	Outside            Containment = iota // Every corner behind a single plane
	PotentiallyVisible                    // No single plane separates the box
)

func (c Containment) String() string {
	if c == Outside {
		return "outside"
	}
	return "potentially visible"
}

// FrustumParams describes a camera's viewing volume in camera-local space.
// The camera looks down -Z; the extents are measured on the near plane at z = -Near.
type FrustumParams struct {
	Near        float64 // Near clip distance (> 0)
	Far         float64 // Far clip distance (> Near)
	AspectRatio float64 // Width / height; informational, extents already include it
	Left        float64
	Right       float64
	Bottom      float64
	Top         float64
}

// Validate checks the parameters describe a non-degenerate frustum
func (fp FrustumParams) Validate() error {
	for _, v := range []float64{fp.Near, fp.Far, fp.Left, fp.Right, fp.Bottom, fp.Top} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value in %+v", core.ErrInvalidFrustumParams, fp)
		}
	}
	if fp.Near <= 0 {
		return fmt.Errorf("%w: near clip must be positive, got %g", core.ErrInvalidFrustumParams, fp.Near)
	}
	if fp.Far <= fp.Near {
		return fmt.Errorf("%w: far clip %g must exceed near clip %g", core.ErrInvalidFrustumParams, fp.Far, fp.Near)
	}
	if fp.Left >= fp.Right {
		return fmt.Errorf("%w: left %g must be less than right %g", core.ErrInvalidFrustumParams, fp.Left, fp.Right)
	}
	if fp.Bottom >= fp.Top {
		return fmt.Errorf("%w: bottom %g must be less than top %g", core.ErrInvalidFrustumParams, fp.Bottom, fp.Top)
	}
	return nil
}

// PerspectiveExtents returns symmetric near-plane extents for a vertical field
// of view (degrees) and aspect ratio (width / height).
func PerspectiveExtents(fovYDegrees, aspectRatio, near, far float64) FrustumParams {
	top := near * math.Tan(fovYDegrees*math.Pi/360.0)
	right := top * aspectRatio
	return FrustumParams{
		Near:        near,
		Far:         far,
		AspectRatio: aspectRatio,
		Left:        -right,
		Right:       right,
		Bottom:      -top,
		Top:         top,
	}
}

// Frustum holds the six clip planes of a camera in camera-local space.
// Planes are ordered right, left, bottom, top, far, near; each normal points inward.
type Frustum struct {
	Planes [NumPlanes]Plane
	Params FrustumParams
}

// NewFrustum derives the six clip planes from the camera parameters
func NewFrustum(params FrustumParams) (Frustum, error) {
	if err := params.Validate(); err != nil {
		return Frustum{}, err
	}

	n := params.Near
	l, r, b, t := params.Left, params.Right, params.Bottom, params.Top

	// Side planes pass through the camera origin; each normal is the cross
	// product of the two near-plane corner rays bounding that side.
	var f Frustum
	f.Params = params
	f.Planes[PlaneRight] = NewPlaneThroughOrigin(core.NewVec3(r, t, -n), core.NewVec3(r, b, -n))
	f.Planes[PlaneLeft] = NewPlaneThroughOrigin(core.NewVec3(l, b, -n), core.NewVec3(l, t, -n))
	f.Planes[PlaneBottom] = NewPlaneThroughOrigin(core.NewVec3(r, b, -n), core.NewVec3(l, b, -n))
	f.Planes[PlaneTop] = NewPlaneThroughOrigin(core.NewVec3(l, t, -n), core.NewVec3(r, t, -n))
	f.Planes[PlaneFar] = NewPlane(core.NewVec3(0, 0, 1), params.Far)
	f.Planes[PlaneNear] = NewPlane(core.NewVec3(0, 0, -1), params.Near)

	return f, nil
}

// ClassifyBox tests eight camera-local box corners against the planes.
// It returns Outside only when all corners are behind the same plane; a box
// straddling two different planes is still PotentiallyVisible.
func (f Frustum) ClassifyBox(corners [8]core.Vec3) Containment {
	c, _ := f.classifyBox(corners)
	return c
}

// SeparatingPlane returns the index of the first plane that has every corner
// behind it, or -1 when the box is potentially visible.
func (f Frustum) SeparatingPlane(corners [8]core.Vec3) int {
	_, plane := f.classifyBox(corners)
	return plane
}

func (f Frustum) classifyBox(corners [8]core.Vec3) (Containment, int) {
	for i, plane := range f.Planes {
		behind := 0
		for _, corner := range corners {
			if plane.Classify(corner) != Behind {
				break
			}
			behind++
		}
		if behind == len(corners) {
			return Outside, i
		}
	}
	return PotentiallyVisible, -1
}

// ContainsPoint reports whether point is on or in front of every plane
func (f Frustum) ContainsPoint(point core.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.Classify(point) == Behind {
			return false
		}
	}
	return true
}
