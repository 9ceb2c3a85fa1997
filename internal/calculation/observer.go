package calculation

import "time"

// Observer receives one callback per analyzed scenario.
// Implementations should be fast; the default is a no-op.
type Observer interface {
	ObserveRun(scenario string, iterations int, elapsed time.Duration, err error)
}

// NopObserver implements Observer with no output.
type NopObserver struct{}

func (NopObserver) ObserveRun(string, int, time.Duration, error) {}
