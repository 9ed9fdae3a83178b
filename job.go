package bloch

import "time"

// Amplitudes is an unvalidated alpha/beta pair queued for conversion.
type Amplitudes struct {
	Alpha complex128
	Beta  complex128
}

// Job represents a single conversion waiting for a worker
type Job struct {
	ID        string
	Alpha     complex128
	Beta      complex128
	StartTime time.Time
	result    chan Result
}

// Result is what a scheduled job resolves to.
type Result struct {
	ID         string
	Coordinate SphericalCoordinate
	Error      error
	CreatedAt  time.Time
}

// resolve delivers the outcome; result is buffered so this never blocks.
func (j Job) resolve(coord SphericalCoordinate, err error) {
	j.result <- Result{
		ID:         j.ID,
		Coordinate: coord,
		Error:      err,
		CreatedAt:  time.Now(),
	}
}
