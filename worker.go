package bloch

// Worker converts jobs handed to it by the pool's manager.
type Worker struct {
	pool *Q
	jobs chan Job
}

func (w *Worker) run() {
	for {
		select {
		case <-w.pool.ctx.Done():
			return
		case w.pool.workers <- w.jobs:
			select {
			case job := <-w.jobs:
				w.processJob(job)
			case <-w.pool.ctx.Done():
				return
			}
		}
	}
}

func (w *Worker) processJob(job Job) {
	coord, err := ToSphericalWithin(job.Alpha, job.Beta, w.pool.config.tolerance())

	// Record metrics before resolving so callers see them updated.
	w.pool.metrics.recordJobExecution(job.StartTime, err == nil)

	job.resolve(coord, err)
}
