package survey

import (
	"runtime"
	"sync"

	"github.com/df07/go-frustum-survey/pkg/geometry"
	"github.com/df07/go-frustum-survey/pkg/scene"
)

// ObjectTask asks a worker to classify one object against one frame's frustum
type ObjectTask struct {
	TaskID   int // For deterministic ordering
	ObjectID string
	View     CameraView
}

// ObjectResult contains the classification of one object
type ObjectResult struct {
	TaskID      int
	ObjectID    string
	Containment geometry.Containment
	Error       error
}

// WorkerPool manages parallel per-object classification within a frame
type WorkerPool struct {
	taskQueue   chan ObjectTask
	resultQueue chan ObjectResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual classification tasks
type Worker struct {
	ID          int
	accessor    scene.Accessor
	taskQueue   chan ObjectTask
	resultQueue chan ObjectResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// queueSize should cover every task submitted before results are drained.
func NewWorkerPool(accessor scene.Accessor, numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if queueSize < 1 {
		queueSize = 1
	}

	wp := &WorkerPool{
		taskQueue:   make(chan ObjectTask, queueSize),
		resultQueue: make(chan ObjectResult, queueSize),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			accessor:    accessor,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a classification task to the worker pool
func (wp *WorkerPool) SubmitTask(task ObjectTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed classification
func (wp *WorkerPool) GetResult() (ObjectResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		containment, err := task.View.Classify(w.accessor, task.ObjectID)
		w.resultQueue <- ObjectResult{
			TaskID:      task.TaskID,
			ObjectID:    task.ObjectID,
			Containment: containment,
			Error:       err,
		}
	}
}
