package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromCenter creates a cube-shaped AABB around center with the given half extent
func NewAABBFromCenter(center Vec3, halfExtent float64) AABB {
	h := NewVec3(halfExtent, halfExtent, halfExtent)
	return AABB{Min: center.Subtract(h), Max: center.Add(h)}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// Corners returns the eight corners of the box, one per {min,max} combination.
// Order: x varies fastest, then y, then z.
func (aabb AABB) Corners() [8]Vec3 {
	mn, mx := aabb.Min, aabb.Max
	return [8]Vec3{
		{mn.X, mn.Y, mn.Z},
		{mx.X, mn.Y, mn.Z},
		{mn.X, mx.Y, mn.Z},
		{mx.X, mx.Y, mn.Z},
		{mn.X, mn.Y, mx.Z},
		{mx.X, mn.Y, mx.Z},
		{mn.X, mx.Y, mx.Z},
		{mx.X, mx.Y, mx.Z},
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// IsValid returns true if this is a valid AABB (min <= max for all axes).
// Boxes with NaN components are never valid.
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}
