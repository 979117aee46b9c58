package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veylan/scenekit/clock"
	"github.com/veylan/scenekit/core"
)

// ErrInvalidInterval is returned when a runner is constructed with a
// non-positive frame interval
var ErrInvalidInterval = errors.New("engine: frame interval must be positive")

// RunnerConfig tunes the frame loop
type RunnerConfig struct {
	// Interval is the target frame interval (host refresh cadence)
	Interval time.Duration

	// MaxDelta caps the raw delta handed to the kernel after a stall or
	// resume, preventing an unbounded fixed-update burst.
	// Defaults to 4x Interval
	MaxDelta time.Duration
}

// Runner drives a kernel from its own goroutine at a target interval with
// deadline drift correction and pause awareness. The runner goroutine is
// the kernel's single logic thread; nothing else may call Step while it
// runs
type Runner struct {
	kernel *Kernel
	clk    *clock.PausableClock

	interval time.Duration
	maxDelta time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	frames   atomic.Uint64
}

// NewRunner creates a runner for k
func NewRunner(k *Kernel, cfg RunnerConfig) (*Runner, error) {
	if cfg.Interval <= 0 {
		return nil, ErrInvalidInterval
	}
	maxDelta := cfg.MaxDelta
	if maxDelta <= 0 {
		maxDelta = cfg.Interval * 4
	}
	return &Runner{
		kernel:   k,
		clk:      clock.NewPausableClock(),
		interval: cfg.Interval,
		maxDelta: maxDelta,
		stopChan: make(chan struct{}),
	}, nil
}

// Clock returns the runner's pausable clock
func (r *Runner) Clock() *clock.PausableClock {
	return r.clk
}

// Frames returns the number of frames stepped so far
func (r *Runner) Frames() uint64 {
	return r.frames.Load()
}

// Start begins the frame loop
func (r *Runner) Start() {
	if r.running.CompareAndSwap(false, true) {
		r.wg.Add(1)
		core.Go(r.loop)
	}
}

// Stop halts the frame loop and waits for the current frame to finish
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		if r.running.CompareAndSwap(true, false) {
			close(r.stopChan)
			r.wg.Wait()
		}
	})
}

// Pause freezes logical time; frames stop advancing until Resume
func (r *Runner) Pause() {
	r.clk.Pause()
}

// Resume continues logical time. The pause gap never reaches the
// scheduler: deltas are measured on the pausable clock
func (r *Runner) Resume() {
	r.clk.Resume()
}

// loop sleeps to the next deadline, steps the kernel with the measured
// (clamped) delta, then re-arms
func (r *Runner) loop() {
	defer r.wg.Done()

	last := r.clk.Now()
	deadline := last.Add(r.interval)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		var sleep time.Duration

		if r.clk.IsPaused() {
			// Back off while paused to save CPU
			sleep = r.interval * 2
		} else {
			now := r.clk.Now()
			if !now.Before(deadline) {
				dt := clock.ClampDelta(now.Sub(last), r.maxDelta)
				r.kernel.Step(dt)
				r.frames.Add(1)

				last = now
				deadline = deadline.Add(r.interval)
				if now.Sub(deadline) > r.interval*2 {
					// Too far behind: drop the backlog instead of
					// replaying it
					deadline = now.Add(r.interval)
				}

				sleep = deadline.Sub(r.clk.Now())
				if sleep < 0 {
					sleep = 0
				}
			} else {
				sleep = deadline.Sub(now)
			}
		}

		if sleep > 0 {
			timer.Reset(sleep)
			select {
			case <-timer.C:
			case <-r.stopChan:
				return
			}
		}
	}
}
