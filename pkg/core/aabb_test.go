package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAABB_Corners(t *testing.T) {
	box := NewAABB(NewVec3(-1, -2, -3), NewVec3(1, 2, 3))
	corners := box.Corners()

	seen := make(map[Vec3]bool)
	for _, c := range corners {
		if c.X != -1 && c.X != 1 || c.Y != -2 && c.Y != 2 || c.Z != -3 && c.Z != 3 {
			t.Errorf("Corner %v is not a min/max combination", c)
		}
		seen[c] = true
	}

	if len(seen) != 8 {
		t.Errorf("Expected 8 distinct corners, got %d", len(seen))
	}
	assert.Equal(t, box.Min, corners[0])
	assert.Equal(t, box.Max, corners[7])
}

func TestAABB_FromCenter(t *testing.T) {
	box := NewAABBFromCenter(NewVec3(0, 0, -5), 0.1)

	assert.InDelta(t, -0.1, box.Min.X, 1e-12)
	assert.InDelta(t, -5.1, box.Min.Z, 1e-12)
	assert.InDelta(t, -4.9, box.Max.Z, 1e-12)
	assert.Equal(t, NewVec3(0, 0, -5), box.Center())
}

func TestAABB_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		box   AABB
		valid bool
	}{
		{"unit box", NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1)), true},
		{"flat box", NewAABB(NewVec3(0, 0, 0), NewVec3(1, 0, 1)), true},
		{"inverted X", NewAABB(NewVec3(2, 0, 0), NewVec3(1, 1, 1)), false},
		{"NaN", NewAABB(NewVec3(math.NaN(), 0, 0), NewVec3(1, 1, 1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.box.IsValid())
		})
	}
}

func TestAABB_FromPoints(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, 2, 3), NewVec3(-1, 5, 0), NewVec3(0, 0, 7))
	assert.Equal(t, NewVec3(-1, 0, 0), box.Min)
	assert.Equal(t, NewVec3(1, 5, 7), box.Max)
	assert.Equal(t, NewVec3(2, 5, 7), box.Size())
	assert.Equal(t, NewVec3(0, 2.5, 3.5), box.Center())

	assert.Equal(t, AABB{}, NewAABBFromPoints())
}
