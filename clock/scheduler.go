package clock

import (
	"errors"
	"time"
)

// ErrInvalidStep is returned when a scheduler is constructed with a
// non-positive fixed step
var ErrInvalidStep = errors.New("clock: fixed step must be positive")

// Result reports the outcome of one scheduler tick
type Result struct {
	// Updates is the number of whole fixed steps consumed by this tick.
	// Zero means no logical work was warranted and the caller must skip
	// the render for this frame.
	Updates int

	// TimeLeft is the unconsumed remainder carried into the next tick,
	// always < the fixed step
	TimeLeft time.Duration
}

// Scheduler converts irregular wall-clock deltas into zero-or-more
// fixed-size logical steps. Durations are integer nanoseconds, so
// splitting elapsed time across Tick calls is exactly associative:
// Tick(a) then Tick(b) consumes the same number of steps and leaves
// the same remainder as Tick(a+b).
//
// The scheduler holds no clamp against oversized deltas; callers that
// can be suspended (backgrounded host, paused clock) cap the delta with
// ClampDelta before ticking.
type Scheduler struct {
	fixedStep   time.Duration
	accumulated time.Duration
}

// NewScheduler creates a scheduler with the given fixed step size
func NewScheduler(fixedStep time.Duration) (*Scheduler, error) {
	if fixedStep <= 0 {
		return nil, ErrInvalidStep
	}
	return &Scheduler{fixedStep: fixedStep}, nil
}

// Tick adds raw elapsed time to the accumulator and drains it in whole
// fixed steps, invoking fn once per step with the step size. Negative
// deltas are treated as zero.
func (s *Scheduler) Tick(raw time.Duration, fn func(dt time.Duration)) Result {
	if raw > 0 {
		s.accumulated += raw
	}

	updates := 0
	for s.accumulated >= s.fixedStep {
		if fn != nil {
			fn(s.fixedStep)
		}
		s.accumulated -= s.fixedStep
		updates++
	}

	return Result{Updates: updates, TimeLeft: s.accumulated}
}

// FixedStep returns the configured step size
func (s *Scheduler) FixedStep() time.Duration {
	return s.fixedStep
}

// Accumulated returns the current unconsumed remainder
func (s *Scheduler) Accumulated() time.Duration {
	return s.accumulated
}

// Alpha returns the interpolation fraction of the pending partial step,
// in [0, 1). Renderers use it to blend between the last two fixed states
func (s *Scheduler) Alpha() float64 {
	return float64(s.accumulated) / float64(s.fixedStep)
}

// Reset discards any accumulated time. Call after an intentional
// pause/resume so the gap is not replayed as a burst of fixed steps
func (s *Scheduler) Reset() {
	s.accumulated = 0
}

// ClampDelta caps a raw delta at max. The scheduler itself never clamps;
// this is the call-site policy against unbounded catch-up bursts after
// a host suspension
func ClampDelta(raw, max time.Duration) time.Duration {
	if max > 0 && raw > max {
		return max
	}
	return raw
}
