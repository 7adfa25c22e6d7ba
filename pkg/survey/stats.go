package survey

import (
	"fmt"
	"strings"
	"time"
)

// Summary is the user-facing report of a survey and optional cull
type Summary struct {
	Camera        string
	FramesVisited int
	Objects       int
	Visible       int
	QueryErrors   int      // Object query errors across all frames
	ErrorObjects  []string // Distinct objects that had query errors
	Culled        bool
	Deleted       int
	Failed        int
	Elapsed       time.Duration
}

// NewSummary builds a summary from a survey result and an optional cull
func NewSummary(camera string, result *Result, cull *CullResult) Summary {
	summary := Summary{Camera: camera}
	if result != nil {
		summary.FramesVisited = len(result.Frames)
		summary.Objects = result.Objects
		summary.Visible = result.Visible.Len()
		summary.QueryErrors = len(result.ObjectErrors)
		summary.ErrorObjects = sortedErrorIDs(result.ObjectErrors)
		summary.Elapsed = result.Elapsed
	}
	if cull != nil {
		summary.Culled = true
		summary.Deleted = cull.Deleted
		summary.Failed = cull.Failed
	}
	return summary
}

// VisiblePercent returns the share of surveyed objects marked visible
func (s Summary) VisiblePercent() float64 {
	if s.Objects == 0 {
		return 0
	}
	return 100 * float64(s.Visible) / float64(s.Objects)
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "camera %s: %d frames visited, %d/%d objects visible (%.1f%%)",
		s.Camera, s.FramesVisited, s.Visible, s.Objects, s.VisiblePercent())
	if s.QueryErrors > 0 {
		fmt.Fprintf(&b, ", %d query errors on %d objects", s.QueryErrors, len(s.ErrorObjects))
	}
	if s.Culled {
		fmt.Fprintf(&b, ", %d deleted, %d failed", s.Deleted, s.Failed)
	}
	fmt.Fprintf(&b, " in %v", s.Elapsed.Round(time.Millisecond))
	return b.String()
}
