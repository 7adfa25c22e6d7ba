package survey

import (
	"fmt"
	"math"

	"github.com/df07/go-frustum-survey/pkg/core"
)

// DefaultStride is the frame gap used when no stride is configured
const DefaultStride = 10

// Schedule is an inclusive frame range sampled every Stride frames
type Schedule struct {
	Start  int
	End    int
	Stride int
}

// Validate checks the schedule describes at least one frame
func (s Schedule) Validate() error {
	if s.Start > s.End {
		return fmt.Errorf("%w: start frame %d is after end frame %d", core.ErrInvalidSchedule, s.Start, s.End)
	}
	if s.Stride < 1 {
		return fmt.Errorf("%w: stride must be at least 1, got %d", core.ErrInvalidSchedule, s.Stride)
	}
	return nil
}

// Frames returns the frames the schedule visits in increasing order: Start,
// Start+Stride, ... up to End, with End always included.
// An invalid schedule yields no frames.
func (s Schedule) Frames() []int {
	if s.Validate() != nil {
		return nil
	}

	var frames []int
	for f := s.Start; f <= s.End; f += s.Stride {
		frames = append(frames, f)
		if f > math.MaxInt-s.Stride {
			break
		}
	}
	if frames[len(frames)-1] != s.End {
		frames = append(frames, s.End)
	}
	return frames
}

func (s Schedule) String() string {
	return fmt.Sprintf("[%d, %d] every %d", s.Start, s.End, s.Stride)
}
