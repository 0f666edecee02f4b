package tasks

import "time"

// Config tunes the queue client. Attempts, backoff, timeout and retention
// are per queue and live on each task type's Config method.
type Config struct {
	// Workers is the number of imports that may run at once.
	Workers int

	// ReleaseAfter returns a claimed task to the queue when its worker
	// has not finished by then, e.g. after a crash mid-import.
	ReleaseAfter time.Duration

	// CleanupInterval is how often expired task rows are purged.
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	return c
}
