package survey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/scene"
)

func TestCullFailureIsolation(t *testing.T) {
	sc := scene.NewScene("cull")
	sc.AddObject(&scene.Object{Name: "A", Bounds: unitBox()})
	sc.AddObject(&scene.Object{Name: "B", Bounds: unitBox()})
	accessor := newRecordingAccessor(sc)
	accessor.failDelete["A"] = true

	result := NewCullExecutor(accessor, nil).Cull([]string{"A", "B"}, NewVisibleSet())

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"A", "B"}, accessor.deleted, "both deletions were attempted")
	require.Len(t, result.Failures, 1)
	assert.True(t, errors.Is(result.Failures[0], core.ErrDeletionFailed))
}

func TestCullKeepsVisibleAndLocked(t *testing.T) {
	sc := scene.NewScene("cull")
	sc.AddObject(&scene.Object{Name: "seen", Bounds: unitBox()})
	sc.AddObject(&scene.Object{Name: "unseen", Bounds: unitBox()})
	sc.AddObject(&scene.Object{Name: "locked", Bounds: unitBox(), Locked: true})

	visible := NewVisibleSet()
	visible.Add("seen")

	result := NewCullExecutor(sc, nil).Cull([]string{"seen", "unseen", "locked", "gone"}, visible)

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 2, result.Failed, "locked and already-missing objects both fail")
	assert.Equal(t, 1, result.Kept)
	assert.True(t, sc.HasObject("seen"))
	assert.True(t, sc.HasObject("locked"))
	assert.False(t, sc.HasObject("unseen"))
	for _, f := range result.Failures {
		assert.True(t, errors.Is(f, core.ErrDeletionFailed))
	}
	assert.True(t, errors.Is(result.Failures[0], scene.ErrObjectLocked))
}
