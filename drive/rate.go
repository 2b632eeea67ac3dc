package drive

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidRate is returned for frequencies whose cycle time cannot be
// represented as a time.Duration of at least one nanosecond.
var ErrInvalidRate = errors.New("invalid rate")

// Period returns the cycle time of frequency Hz.
func Period(frequency float64) (time.Duration, error) {
	if !(frequency > 0) || math.IsInf(frequency, 0) {
		return 0, errors.Wrapf(ErrInvalidRate, "rate must be positive and finite, got %v", frequency)
	}
	ns := float64(time.Second) / frequency
	if ns < 1 || ns >= math.MaxInt64 {
		return 0, errors.Wrapf(ErrInvalidRate, "cycle time of %v Hz is out of range", frequency)
	}
	return time.Duration(ns), nil
}

// Rate paces a loop at a fixed cycle time.
type Rate struct {
	actualCycleTime   time.Duration
	expectedCycleTime time.Duration
	start             time.Time
}

// NewRate returns a Rate cycling at frequency Hz. The frequency must be
// accepted by Period.
func NewRate(frequency float64) Rate {
	expectedCycleTime := time.Duration(float64(time.Second) / frequency)
	return Rate{0, expectedCycleTime, time.Now()}
}

// CycleTime returns a Rate with a cycle time of d.
func CycleTime(d time.Duration) Rate {
	return Rate{0, d, time.Now()}
}

// CycleTime returns the length of the last completed cycle.
func (r *Rate) CycleTime() time.Duration {
	return r.actualCycleTime
}

func (r *Rate) ExpectedCycleTime() time.Duration {
	return r.expectedCycleTime
}

func (r *Rate) Reset() {
	r.actualCycleTime = 0
	r.start = time.Now()
}

// Sleep blocks until the end of the current cycle. It returns ctx.Err() if
// ctx is done first. A cycle that overran by more than one full period
// restarts the schedule instead of bursting to catch up.
func (r *Rate) Sleep(ctx context.Context) error {
	end := r.start.Add(r.expectedCycleTime)
	if remaining := time.Until(end); remaining > 0 {
		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now()
	r.actualCycleTime = now.Sub(r.start)
	r.start = end
	if now.Sub(end) > r.expectedCycleTime {
		r.start = now
	}
	return nil
}
