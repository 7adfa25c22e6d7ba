package geometry

import (
	"github.com/df07/go-frustum-survey/pkg/core"
)

// Side is the result of classifying a point against a plane
type Side int

const (
	Behind Side = iota - 1 // Negative half-space
	On                     // Exactly on the plane
	Front                  // Positive half-space, the inside of a frustum
)

func (s Side) String() string {
	switch s {
	case Behind:
		return "behind"
	case On:
		return "on"
	case Front:
		return "front"
	default:
		return "unknown"
	}
}

// Plane is a half-space defined by a unit normal and a signed offset.
// The signed distance of p is Normal·p + Distance.
type Plane struct {
	Normal   core.Vec3 // Unit normal, points into the positive half-space
	Distance float64   // Signed offset from the origin
}

// NewPlane creates a plane, normalizing the given normal
func NewPlane(normal core.Vec3, distance float64) Plane {
	return Plane{
		Normal:   normal.Normalize(),
		Distance: distance,
	}
}

// NewPlaneThroughOrigin creates a plane through the origin whose normal is
// normalize(a × b)
func NewPlaneThroughOrigin(a, b core.Vec3) Plane {
	return NewPlane(a.Cross(b), 0)
}

// SignedDistance returns Normal·p + Distance
func (p Plane) SignedDistance(point core.Vec3) float64 {
	return p.Normal.Dot(point) + p.Distance
}

// Classify reports which side of the plane point lies on.
// NaN inputs classify as On; callers must not pass them.
func (p Plane) Classify(point core.Vec3) Side {
	s := p.SignedDistance(point)
	if s > 0 {
		return Front
	}
	if s < 0 {
		return Behind
	}
	return On
}
