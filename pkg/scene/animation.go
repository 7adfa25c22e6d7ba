package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-frustum-survey/pkg/core"
)

// Transform is a translate / rotate / scale triple. Rotation is in degrees and
// applied X, then Y, then Z.
type Transform struct {
	Translate core.Vec3
	Rotate    core.Vec3
	Scale     core.Vec3
}

// IdentityTransform returns a transform with unit scale and no offset
func IdentityTransform() Transform {
	return Transform{Scale: core.NewVec3(1, 1, 1)}
}

// Matrix returns T * Rz * Ry * Rx * S
func (t Transform) Matrix() mgl64.Mat4 {
	rotation := mgl64.HomogRotate3DZ(mgl64.DegToRad(t.Rotate.Z)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(t.Rotate.Y))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(t.Rotate.X)))
	return mgl64.Translate3D(t.Translate.X, t.Translate.Y, t.Translate.Z).
		Mul4(rotation).
		Mul4(mgl64.Scale3D(t.Scale.X, t.Scale.Y, t.Scale.Z))
}

// Lerp interpolates every channel of the transform
func (t Transform) Lerp(other Transform, f float64) Transform {
	return Transform{
		Translate: t.Translate.Lerp(other.Translate, f),
		Rotate:    t.Rotate.Lerp(other.Rotate, f),
		Scale:     t.Scale.Lerp(other.Scale, f),
	}
}

// Keyframe pins a transform to a frame
type Keyframe struct {
	Frame     int
	Transform Transform
}

// Track is a list of keyframes evaluated with linear interpolation. Frames
// before the first key or after the last hold the nearest key.
type Track struct {
	keys []Keyframe
}

// NewTrack creates a track from keys in any order. Later duplicates of a
// frame replace earlier ones.
func NewTrack(keys ...Keyframe) Track {
	var track Track
	for _, key := range keys {
		track.SetKey(key)
	}
	return track
}

// StaticTrack creates a track that holds transform on every frame
func StaticTrack(transform Transform) Track {
	return NewTrack(Keyframe{Frame: 0, Transform: transform})
}

// SetKey inserts or replaces the key at key.Frame
func (tr *Track) SetKey(key Keyframe) {
	i := sort.Search(len(tr.keys), func(i int) bool { return tr.keys[i].Frame >= key.Frame })
	if i < len(tr.keys) && tr.keys[i].Frame == key.Frame {
		tr.keys[i] = key
		return
	}
	tr.keys = append(tr.keys, Keyframe{})
	copy(tr.keys[i+1:], tr.keys[i:])
	tr.keys[i] = key
}

// Keys returns a copy of the keys in frame order
func (tr Track) Keys() []Keyframe {
	out := make([]Keyframe, len(tr.keys))
	copy(out, tr.keys)
	return out
}

// Evaluate returns the transform at frame. An empty track is the identity.
func (tr Track) Evaluate(frame int) Transform {
	if len(tr.keys) == 0 {
		return IdentityTransform()
	}
	if frame <= tr.keys[0].Frame {
		return tr.keys[0].Transform
	}
	last := tr.keys[len(tr.keys)-1]
	if frame >= last.Frame {
		return last.Transform
	}

	i := sort.Search(len(tr.keys), func(i int) bool { return tr.keys[i].Frame >= frame })
	next := tr.keys[i]
	if next.Frame == frame {
		return next.Transform
	}
	prev := tr.keys[i-1]
	f := float64(frame-prev.Frame) / float64(next.Frame-prev.Frame)
	return prev.Transform.Lerp(next.Transform, f)
}

// Matrix evaluates the track at frame and returns its matrix
func (tr Track) Matrix(frame int) mgl64.Mat4 {
	return tr.Evaluate(frame).Matrix()
}
