package survey

import (
	"fmt"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/scene"
)

// CullResult tallies a cull pass
type CullResult struct {
	Deleted  int
	Failed   int
	Kept     int
	Failures []error // Each wraps core.ErrDeletionFailed
}

// CullExecutor deletes every object a survey never saw
type CullExecutor struct {
	accessor scene.Accessor
	logger   core.Logger
}

// NewCullExecutor creates a cull executor over the given scene
func NewCullExecutor(accessor scene.Accessor, logger core.Logger) *CullExecutor {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &CullExecutor{accessor: accessor, logger: logger}
}

// Cull requests deletion of every id in objectIDs that is absent from
// visible. A failed deletion is counted and the remaining ids are still
// processed.
func (ce *CullExecutor) Cull(objectIDs []string, visible *VisibleSet) CullResult {
	var result CullResult
	for _, id := range dedupe(objectIDs) {
		if visible.Contains(id) {
			result.Kept++
			continue
		}
		if err := ce.accessor.DeleteObject(id); err != nil {
			result.Failed++
			failure := fmt.Errorf("%w: %s: %w", core.ErrDeletionFailed, id, err)
			result.Failures = append(result.Failures, failure)
			ce.logger.Printf("%v\n", failure)
			continue
		}
		result.Deleted++
	}
	ce.logger.Printf("Cull: deleted %d, failed %d, kept %d\n", result.Deleted, result.Failed, result.Kept)
	return result
}
