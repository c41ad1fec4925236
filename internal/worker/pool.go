package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"predictor/internal/models"
)

// PredictionWriter persists one prediction. Satisfied by the Postgres
// repository; faked in tests.
type PredictionWriter interface {
	UpsertPrediction(ctx context.Context, prediction *models.Prediction) error
}

// PredictionTask represents a prediction waiting to be persisted
type PredictionTask struct {
	Prediction models.Prediction
}

// WorkerPool manages a pool of workers for asynchronous prediction writes.
// Submissions are acknowledged before the row hits Postgres; a full queue
// surfaces as backpressure instead of blocking the request path.
type WorkerPool struct {
	jobs        chan PredictionTask
	workerCount int
	writer      PredictionWriter
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	metrics     *PoolMetrics
}

// PoolMetrics tracks worker pool performance
type PoolMetrics struct {
	mu              sync.RWMutex
	processed       int64
	failed          int64
	backpressure    int64
	totalProcessing time.Duration
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(workerCount, queueSize int, writer PredictionWriter) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		jobs:        make(chan PredictionTask, queueSize),
		workerCount: workerCount,
		writer:      writer,
		ctx:         ctx,
		cancel:      cancel,
		metrics:     &PoolMetrics{},
	}
}

// Start initializes and starts all worker goroutines
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers and queue size %d", wp.workerCount, cap(wp.jobs))

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker is the main worker loop that processes jobs
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return

		case task, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processTask(id, task)
		}
	}
}

// processTask persists a single prediction with panic recovery so one bad task
// cannot take a worker down
func (wp *WorkerPool) processTask(workerID int, task PredictionTask) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker #%d panic recovered: %v (user: %s, fixture: %d)",
				workerID, r, task.Prediction.UserID, task.Prediction.FixtureID)
			wp.metrics.incrementFailed()
		}
	}()

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pred := task.Prediction
	err := wp.writer.UpsertPrediction(ctx, &pred)

	processingTime := time.Since(startTime)

	if err != nil {
		log.Printf("worker #%d failed to persist prediction for user %s fixture %d: %v (took %v)",
			workerID, pred.UserID, pred.FixtureID, err, processingTime)
		wp.metrics.incrementFailed()
		return
	}

	wp.metrics.recordSuccess(processingTime)
}

// Submit attempts to add a task to the queue with backpressure handling
func (wp *WorkerPool) Submit(task PredictionTask) error {
	select {
	case wp.jobs <- task:
		return nil

	default:
		log.Printf("backpressure: queue full, dropping prediction write for user %s fixture %d",
			task.Prediction.UserID, task.Prediction.FixtureID)
		wp.metrics.incrementBackpressure()
		return fmt.Errorf("worker pool queue full (backpressure)")
	}
}

// Shutdown gracefully stops the worker pool, flushing queued writes
func (wp *WorkerPool) Shutdown(timeout time.Duration) error {
	log.Printf("Shutting down worker pool...")

	close(wp.jobs)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.printMetrics()
		return nil

	case <-time.After(timeout):
		wp.cancel()
		return fmt.Errorf("shutdown timeout exceeded")
	}
}

// GetMetrics returns a snapshot of the pool metrics
func (wp *WorkerPool) GetMetrics() map[string]interface{} {
	wp.metrics.mu.RLock()
	defer wp.metrics.mu.RUnlock()

	avgProcessing := time.Duration(0)
	if wp.metrics.processed > 0 {
		avgProcessing = wp.metrics.totalProcessing / time.Duration(wp.metrics.processed)
	}

	return map[string]interface{}{
		"processed":           wp.metrics.processed,
		"failed":              wp.metrics.failed,
		"backpressure_events": wp.metrics.backpressure,
		"avg_processing_time": avgProcessing.String(),
		"queue_utilization":   fmt.Sprintf("%d/%d", len(wp.jobs), cap(wp.jobs)),
	}
}

// printMetrics logs the final metrics
func (wp *WorkerPool) printMetrics() {
	metrics := wp.GetMetrics()
	log.Printf("Worker pool metrics: processed=%v failed=%v backpressure=%v avg=%v",
		metrics["processed"], metrics["failed"], metrics["backpressure_events"], metrics["avg_processing_time"])
}

// Metrics helper methods
func (pm *PoolMetrics) recordSuccess(duration time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.processed++
	pm.totalProcessing += duration
}

func (pm *PoolMetrics) incrementFailed() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.failed++
}

func (pm *PoolMetrics) incrementBackpressure() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.backpressure++
}
