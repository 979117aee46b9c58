package clock

import (
	"testing"
	"time"
)

func TestPausableClockFreezesDuringPause(t *testing.T) {
	mock := NewMockProvider(time.Unix(1000, 0))
	pc := NewPausableClockWith(mock)

	mock.Advance(2 * time.Second)
	before := pc.Now()

	pc.Pause()
	mock.Advance(10 * time.Second)
	frozen := pc.Now()

	if !frozen.Equal(before) {
		t.Errorf("paused clock must freeze: before %v, during %v", before, frozen)
	}

	pc.Resume()
	mock.Advance(time.Second)
	after := pc.Now()

	if got := after.Sub(before); got != time.Second {
		t.Errorf("pause gap must be subtracted: expected 1s of logical time, got %v", got)
	}
}

func TestPausableClockPauseAccounting(t *testing.T) {
	mock := NewMockProvider(time.Unix(1000, 0))
	pc := NewPausableClockWith(mock)

	pc.Pause()
	mock.Advance(3 * time.Second)
	if got := pc.TotalPauseDuration(); got != 3*time.Second {
		t.Errorf("expected 3s of in-progress pause, got %v", got)
	}
	pc.Resume()

	pc.Pause()
	mock.Advance(2 * time.Second)
	pc.Resume()

	if got := pc.TotalPauseDuration(); got != 5*time.Second {
		t.Errorf("expected 5s cumulative pause, got %v", got)
	}
}

func TestPausableClockIdempotentTransitions(t *testing.T) {
	mock := NewMockProvider(time.Unix(1000, 0))
	pc := NewPausableClockWith(mock)

	pc.Resume() // resume while running is a no-op
	pc.Pause()
	pc.Pause() // double pause must not restart the pause window
	mock.Advance(time.Second)
	pc.Resume()
	pc.Resume()

	if got := pc.TotalPauseDuration(); got != time.Second {
		t.Errorf("expected 1s pause, got %v", got)
	}
	if pc.IsPaused() {
		t.Error("clock must be running")
	}
}

func TestRealTimeUnaffectedByPause(t *testing.T) {
	mock := NewMockProvider(time.Unix(1000, 0))
	pc := NewPausableClockWith(mock)

	pc.Pause()
	mock.Advance(5 * time.Second)

	if got := pc.RealTime(); !got.Equal(time.Unix(1005, 0)) {
		t.Errorf("real time must keep advancing, got %v", got)
	}
}
