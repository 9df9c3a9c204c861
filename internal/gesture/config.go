package gesture

import (
	"errors"
	"time"
)

// Config holds the detection thresholds.
type Config struct {
	// SwipeThreshold is the X or Y travel, in sensor units, that counts as a swipe.
	SwipeThreshold float64

	// PushThreshold is the travel toward the sensor that counts as a click.
	PushThreshold float64

	// SwipeTimeout is the lifetime of a tracking window.
	SwipeTimeout time.Duration

	// PushMaxDistance is the distance from the sensor a hand must be closer
	// than for a push to register.
	PushMaxDistance float64

	// ResetOnHandoff closes both tracking windows when the selected body changes.
	ResetOnHandoff bool
}

// DefaultConfig returns the thresholds the relay ships with.
func DefaultConfig() Config {
	return Config{
		SwipeThreshold:  0.20,
		PushThreshold:   0.20,
		SwipeTimeout:    2000 * time.Millisecond,
		PushMaxDistance: 1.0,
		ResetOnHandoff:  false,
	}
}

// Validate checks that every threshold is positive.
func (c Config) Validate() error {
	if c.SwipeThreshold <= 0 {
		return errors.New("swipe threshold must be positive")
	}
	if c.PushThreshold <= 0 {
		return errors.New("push threshold must be positive")
	}
	if c.SwipeTimeout <= 0 {
		return errors.New("swipe timeout must be positive")
	}
	if c.PushMaxDistance <= 0 {
		return errors.New("push max distance must be positive")
	}
	return nil
}
