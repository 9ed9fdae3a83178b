package bloch

import "time"

// DefaultTolerance bounds how far |alpha|^2 + |beta|^2 may drift from 1.
const DefaultTolerance = 1e-9

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 4

type Config struct {
	Tolerance         float64
	Workers           int
	SchedulingTimeout time.Duration
}

func NewConfig() *Config {
	return &Config{
		Tolerance:         DefaultTolerance,
		Workers:           DefaultWorkers,
		SchedulingTimeout: 5 * time.Second,
	}
}

func (c *Config) tolerance() float64 {
	if c != nil && c.Tolerance > 0 {
		return c.Tolerance
	}
	return DefaultTolerance
}

func (c *Config) workers() int {
	if c != nil && c.Workers > 0 {
		return c.Workers
	}
	return DefaultWorkers
}

// schedulingTimeout falls back to five seconds when unset.
func (c *Config) schedulingTimeout() time.Duration {
	if c != nil && c.SchedulingTimeout > 0 {
		return c.SchedulingTimeout
	}
	return 5 * time.Second
}
