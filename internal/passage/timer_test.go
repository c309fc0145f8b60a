package passage

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTimerLifecycle(t *testing.T) {
	clock := newFakeClock()
	tm := NewTimer(nil)
	tm.now = clock.now

	if got := tm.State(); got != TimerIdle {
		t.Fatalf("initial state = %v, want idle", got)
	}
	if got := tm.ElapsedMs(); got != 0 {
		t.Fatalf("idle ElapsedMs = %d, want 0", got)
	}

	tm.Start()
	clock.advance(90 * time.Second)
	if got := tm.State(); got != TimerRunning {
		t.Fatalf("state after Start = %v, want running", got)
	}
	if got := tm.ElapsedMs(); got != 90000 {
		t.Fatalf("running ElapsedMs = %d, want 90000", got)
	}

	tm.Stop()
	if got := tm.State(); got != TimerStopped {
		t.Fatalf("state after Stop = %v, want stopped", got)
	}

	// Frozen: further clock movement must not change the reading.
	clock.advance(time.Minute)
	if got := tm.ElapsedMs(); got != 90000 {
		t.Fatalf("stopped ElapsedMs = %d, want 90000", got)
	}
}

func TestTimerStartOnlyFromIdle(t *testing.T) {
	clock := newFakeClock()
	tm := NewTimer(nil)
	tm.now = clock.now

	tm.Start()
	clock.advance(10 * time.Second)
	tm.Start() // no-op; must not restart the clock
	if got := tm.ElapsedMs(); got != 10000 {
		t.Fatalf("ElapsedMs after second Start = %d, want 10000", got)
	}

	tm.Stop()
	tm.Start() // stopped, not idle: still a no-op
	if got := tm.State(); got != TimerStopped {
		t.Fatalf("state = %v, want stopped", got)
	}
}

func TestTimerStopOnlyFromRunning(t *testing.T) {
	tm := NewTimer(nil)
	tm.Stop()
	if got := tm.State(); got != TimerIdle {
		t.Fatalf("state after idle Stop = %v, want idle", got)
	}
}

func TestTimerReset(t *testing.T) {
	clock := newFakeClock()
	tm := NewTimer(nil)
	tm.now = clock.now

	tm.Start()
	clock.advance(30 * time.Second)
	tm.Stop()
	tm.Reset()

	if got := tm.State(); got != TimerIdle {
		t.Fatalf("state after Reset = %v, want idle", got)
	}
	if got := tm.ElapsedMs(); got != 0 {
		t.Fatalf("ElapsedMs after Reset = %d, want 0", got)
	}

	// Usable again after a reset.
	tm.Start()
	clock.advance(5 * time.Second)
	tm.Stop()
	if got := tm.ElapsedMs(); got != 5000 {
		t.Fatalf("ElapsedMs after restart = %d, want 5000", got)
	}
}

func TestTimerResetWhileRunning(t *testing.T) {
	clock := newFakeClock()
	tm := NewTimer(nil)
	tm.now = clock.now

	tm.Start()
	clock.advance(time.Second)
	tm.Reset()
	if got := tm.State(); got != TimerIdle {
		t.Fatalf("state = %v, want idle", got)
	}
	if got := tm.ElapsedMs(); got != 0 {
		t.Fatalf("ElapsedMs = %d, want 0", got)
	}
}

func TestTimerOnTickSampling(t *testing.T) {
	ticks := make(chan time.Duration, 16)
	tm := NewTimer(func(d time.Duration) {
		select {
		case ticks <- d:
		default:
		}
	})

	tm.Start()
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s of Start")
	}
	tm.Stop()
}
