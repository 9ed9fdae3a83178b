package bloch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Q is a fixed-size worker pool for batch conversions. Every conversion is
independent, so the pool only dispatches: a manager goroutine pairs queued
jobs with idle workers, and each job resolves on its own result channel.
*/
type Q struct {
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	workers    chan chan Job
	jobs       chan Job
	metrics    *Metrics
	workerMu   sync.Mutex
	workerList []*Worker
	closeMu    sync.RWMutex
	closed     bool
	config     *Config
}

// NewQ starts config.Workers workers; a nil config uses NewConfig.
func NewQ(ctx context.Context, config *Config) *Q {
	if config == nil {
		config = NewConfig()
	}

	ctx, cancel := context.WithCancel(ctx)
	size := config.workers()

	q := &Q{
		ctx:        ctx,
		cancel:     cancel,
		workerList: make([]*Worker, 0, size),
		jobs:       make(chan Job, size*10),
		workers:    make(chan chan Job, size),
		metrics:    NewMetrics(),
		config:     config,
	}

	for i := 0; i < size; i++ {
		q.startWorker()
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.manage()
	}()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.collectMetrics()
	}()

	errnie.Info(
		"NewQ - workers %v, tolerance %v, schedulingTimeout %v",
		size,
		config.tolerance(),
		config.schedulingTimeout(),
	)

	return q
}

// manage exits once the pool context is done, whether through Close or a
// cancelled parent, and takes the queue down with it.
func (q *Q) manage() {
	defer q.shutdown()

	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			select {
			case <-q.ctx.Done():
				job.resolve(SphericalCoordinate{}, ErrPoolClosed)
				return
			case workerChan := <-q.workers:
				select {
				case workerChan <- job:
				case <-q.ctx.Done():
					job.resolve(SphericalCoordinate{}, ErrPoolClosed)
					return
				}
			case <-time.After(q.config.schedulingTimeout()):
				errnie.Info("manage - no available workers for job %v", job.ID)
				q.metrics.recordSchedulingFailure()
				job.resolve(SphericalCoordinate{}, fmt.Errorf("no available workers for job %s", job.ID))
			}
		}
	}
}

func (q *Q) collectMetrics() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.metrics.mu.Lock()
			q.metrics.JobQueueSize = len(q.jobs)
			q.metrics.IdleWorkers = len(q.workers)
			q.metrics.mu.Unlock()
		}
	}
}

/*
Schedule queues one conversion. The returned channel always yields exactly
one Result: the coordinate, an *InvalidStateError, a scheduling timeout, or
ErrPoolClosed.
*/
func (q *Q) Schedule(id string, alpha, beta complex128) chan Result {
	job := Job{
		ID:        id,
		Alpha:     alpha,
		Beta:      beta,
		StartTime: time.Now(),
		result:    make(chan Result, 1),
	}

	q.closeMu.RLock()
	defer q.closeMu.RUnlock()

	if q.closed || q.ctx.Err() != nil {
		job.resolve(SphericalCoordinate{}, ErrPoolClosed)
		return job.result
	}

	ctx, cancel := context.WithTimeout(q.ctx, q.config.schedulingTimeout())
	defer cancel()

	select {
	case q.jobs <- job:
	case <-ctx.Done():
		if q.ctx.Err() != nil {
			job.resolve(SphericalCoordinate{}, ErrPoolClosed)
			break
		}

		q.metrics.recordSchedulingFailure()
		job.resolve(SphericalCoordinate{}, fmt.Errorf("job %s scheduling timeout: %w", id, ctx.Err()))
	}

	return job.result
}

/*
Convert runs a whole batch through the pool and returns the coordinates in
input order. The first failing state aborts the batch with its index.
*/
func (q *Q) Convert(ctx context.Context, batch []Amplitudes) ([]SphericalCoordinate, error) {
	results := make([]chan Result, len(batch))

	for i, amp := range batch {
		results[i] = q.Schedule(fmt.Sprintf("batch-%d", i), amp.Alpha, amp.Beta)
	}

	out := make([]SphericalCoordinate, len(batch))

	for i, ch := range results {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Error != nil {
				return nil, fmt.Errorf("state %d: %w", i, res.Error)
			}

			out[i] = res.Coordinate
		}
	}

	return out, nil
}

// Metrics exports a snapshot of the pool counters.
func (q *Q) Metrics() map[string]interface{} {
	return q.metrics.ExportMetrics()
}

func (q *Q) startWorker() {
	worker := &Worker{
		pool: q,
		jobs: make(chan Job),
	}

	q.workerMu.Lock()
	q.workerList = append(q.workerList, worker)
	q.workerMu.Unlock()

	q.metrics.mu.Lock()
	q.metrics.WorkerCount++
	q.metrics.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		worker.run()
	}()
}

// Close stops the workers and fails whatever was still queued.
func (q *Q) Close() {
	if q == nil {
		return
	}

	// Cancel first so a Schedule blocked on a full queue lets go of closeMu.
	q.cancel()
	q.shutdown()
	q.wg.Wait()

	q.workerMu.Lock()
	count := len(q.workerList)
	q.workerList = nil
	q.workerMu.Unlock()

	q.drain()
	errnie.Info("Close - pool closed, %v workers stopped", count)
}

/*
shutdown marks the pool closed and fails the queue. Taking closeMu for
writing waits out every Schedule that could still be enqueueing, so nothing
lands in the queue after the drain.
*/
func (q *Q) shutdown() {
	q.closeMu.Lock()
	q.closed = true
	q.closeMu.Unlock()

	q.drain()
}

func (q *Q) drain() {
	for {
		select {
		case job := <-q.jobs:
			job.resolve(SphericalCoordinate{}, ErrPoolClosed)
		default:
			return
		}
	}
}
