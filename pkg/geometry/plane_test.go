package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-frustum-survey/pkg/core"
)

func TestPlane_Classify(t *testing.T) {
	// Far-plane style plane: normal +Z, offset 10, boundary at z = -10
	plane := NewPlane(core.NewVec3(0, 0, 1), 10)

	tests := []struct {
		name     string
		point    core.Vec3
		expected Side
	}{
		{"in front", core.NewVec3(0, 0, -5), Front},
		{"behind", core.NewVec3(0, 0, -20), Behind},
		{"on plane", core.NewVec3(3, 4, -10), On},
		{"on plane off axis", core.NewVec3(-100, 250, -10), On},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plane.Classify(tt.point); got != tt.expected {
				t.Errorf("Expected %v, got %v (signed distance %f)",
					tt.expected, got, plane.SignedDistance(tt.point))
			}
		})
	}
}

func TestPlane_ClassifyOnThroughOrigin(t *testing.T) {
	// Any point with dot(normal, p) + distance == 0 must be On
	plane := NewPlaneThroughOrigin(core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))

	for _, p := range []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(-3, 7, 0),
	} {
		if got := plane.Classify(p); got != On {
			t.Errorf("Point %v: expected On, got %v", p, got)
		}
	}
}

func TestNewPlane_NormalizesNormal(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 3, 4), 2)

	if math.Abs(plane.Normal.Length()-1) > 1e-12 {
		t.Errorf("Expected unit normal, got length %f", plane.Normal.Length())
	}
	if plane.Distance != 2 {
		t.Errorf("Distance should be kept as given, got %f", plane.Distance)
	}
}

func TestSide_String(t *testing.T) {
	if Front.String() != "front" || Behind.String() != "behind" || On.String() != "on" {
		t.Errorf("Unexpected side names: %v %v %v", Front, Behind, On)
	}
}
