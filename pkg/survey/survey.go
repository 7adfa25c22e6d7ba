package survey

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/geometry"
	"github.com/df07/go-frustum-survey/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// State is the lifecycle of a Survey
type State int

const (
	Idle State = iota
	Running
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config contains configuration for a survey
type Config struct {
	NumWorkers int // Number of parallel workers per frame (0 = use CPU count)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		NumWorkers: 1, // Sequential, matching a single host session
	}
}

// ObjectError records a per-object failure that was recovered from
type ObjectError struct {
	ObjectID string
	Frame    int
	Err      error
}

func (oe ObjectError) Error() string {
	return fmt.Sprintf("frame %d: %v", oe.Frame, oe.Err)
}

func (oe ObjectError) Unwrap() error {
	return oe.Err
}

// Result is the outcome of a completed survey
type Result struct {
	Visible      *VisibleSet
	Frames       []int // Frames visited, in order
	Objects      int   // Distinct objects surveyed
	ObjectErrors []ObjectError
	Elapsed      time.Duration
}

// FrameResult reports progress after each visited frame
type FrameResult struct {
	Frame        int
	FrameNumber  int // 1-based index into the schedule
	TotalFrames  int
	Tested       int // Objects classified this frame
	NewlyVisible []string
	Visible      int // Visible set size after this frame
	Errors       int // Object errors this frame
}

// Survey walks a frame schedule and accumulates every object that was
// potentially visible to one camera in at least one visited frame.
type Survey struct {
	accessor scene.Accessor
	config   Config
	logger   core.Logger

	// OnFrame, if set, is called on the calling goroutine after each frame
	OnFrame func(FrameResult)

	mu    sync.Mutex
	state State
}

// NewSurvey creates a survey over the given scene
func NewSurvey(accessor scene.Accessor, config Config, logger core.Logger) *Survey {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Survey{
		accessor: accessor,
		config:   config,
		logger:   logger,
		state:    Idle,
	}
}

// State returns the current lifecycle state
func (s *Survey) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Survey) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Run surveys objectIDs against cameraID over the schedule. A nil objectIDs
// surveys every object the scene lists. Frames are visited strictly in
// order; objects within a frame are classified by a worker pool and the
// frame completes before the time cursor moves on.
//
// Setup failures (invalid schedule, unresolvable camera, degenerate frustum,
// time cursor failure) and cancellation abort the survey and return a nil
// Result. Per-object failures are recorded in Result.ObjectErrors.
func (s *Survey) Run(ctx context.Context, cameraID string, objectIDs []string, schedule Schedule) (*Result, error) {
	s.mu.Lock()
	if s.state == Running {
		s.mu.Unlock()
		return nil, fmt.Errorf("survey already running")
	}
	s.state = Running
	s.mu.Unlock()

	result, err := s.run(ctx, cameraID, objectIDs, schedule)
	if err != nil {
		s.setState(Aborted)
		return nil, err
	}
	s.setState(Completed)
	return result, nil
}

func (s *Survey) run(ctx context.Context, cameraID string, objectIDs []string, schedule Schedule) (*Result, error) {
	startTime := time.Now()

	// Validate before touching the scene
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	frames := schedule.Frames()

	if objectIDs == nil {
		listed, err := s.accessor.ListSceneObjects()
		if err != nil {
			return nil, fmt.Errorf("failed to list scene objects: %w", err)
		}
		objectIDs = listed
	}
	objectIDs = dedupe(objectIDs)

	// Resolve the camera once up front so a bad name fails before any frame change
	if _, err := ViewAt(s.accessor, cameraID, schedule.Start); err != nil {
		return nil, err
	}

	pool := NewWorkerPool(s.accessor, s.config.NumWorkers, len(objectIDs))
	pool.Start()
	defer pool.Stop()

	s.logger.Printf("Surveying %d objects from %q over %d frames %s (using %d workers)...\n",
		len(objectIDs), cameraID, len(frames), schedule, pool.GetNumWorkers())

	visible := NewVisibleSet()
	var objectErrors []ObjectError

	for i, frame := range frames {
		// Cancellation is only honoured between frames
		select {
		case <-ctx.Done():
			s.logger.Printf("Survey cancelled before frame %d\n", frame)
			return nil, fmt.Errorf("survey cancelled at frame %d: %w", frame, ctx.Err())
		default:
		}

		frameResult, errs, err := s.surveyFrame(pool, cameraID, frame, objectIDs, visible)
		if err != nil {
			return nil, err
		}
		objectErrors = append(objectErrors, errs...)

		frameResult.FrameNumber = i + 1
		frameResult.TotalFrames = len(frames)
		s.logger.Printf("Frame %d: tested %d, %d newly visible, %d visible total\n",
			frame, frameResult.Tested, len(frameResult.NewlyVisible), frameResult.Visible)
		if s.OnFrame != nil {
			s.OnFrame(frameResult)
		}
	}

	elapsed := time.Since(startTime)
	s.logger.Printf("Survey completed in %v: %d of %d objects potentially visible\n",
		elapsed, visible.Len(), len(objectIDs))

	return &Result{
		Visible:      visible,
		Frames:       frames,
		Objects:      len(objectIDs),
		ObjectErrors: objectErrors,
		Elapsed:      elapsed,
	}, nil
}

// surveyFrame moves the time cursor to frame and classifies every object not
// yet visible. It returns once all submitted tasks have reported back.
func (s *Survey) surveyFrame(pool *WorkerPool, cameraID string, frame int, objectIDs []string, visible *VisibleSet) (FrameResult, []ObjectError, error) {
	fr := FrameResult{Frame: frame}

	if err := s.accessor.SetCurrentFrame(frame); err != nil {
		return fr, nil, fmt.Errorf("failed to set current frame %d: %w", frame, err)
	}

	view, err := ViewAt(s.accessor, cameraID, frame)
	if err != nil {
		return fr, nil, err
	}

	taskID := 0
	for _, id := range objectIDs {
		if visible.Contains(id) {
			continue
		}
		pool.SubmitTask(ObjectTask{TaskID: taskID, ObjectID: id, View: view})
		taskID++
	}
	fr.Tested = taskID

	// Barrier: drain every result before the frame is done
	results := make([]ObjectResult, taskID)
	for i := 0; i < taskID; i++ {
		result, ok := pool.GetResult()
		if !ok {
			return fr, nil, fmt.Errorf("worker pool closed unexpectedly")
		}
		results[result.TaskID] = result
	}

	var errs []ObjectError
	for _, result := range results {
		if result.Error != nil {
			s.logger.Printf("Frame %d: %v\n", frame, result.Error)
			errs = append(errs, ObjectError{ObjectID: result.ObjectID, Frame: frame, Err: result.Error})
			continue
		}
		if result.Containment == geometry.PotentiallyVisible && visible.Add(result.ObjectID) {
			fr.NewlyVisible = append(fr.NewlyVisible, result.ObjectID)
		}
	}
	fr.Visible = visible.Len()
	fr.Errors = len(errs)
	return fr, errs, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// sortedErrorIDs returns the distinct ids of objects that had query errors
func sortedErrorIDs(errs []ObjectError) []string {
	seen := make(map[string]struct{})
	for _, e := range errs {
		seen[e.ObjectID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
