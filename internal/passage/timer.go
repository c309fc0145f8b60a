package passage

import (
	"sync"
	"time"
)

// sampleInterval is how often a running timer reports elapsed time for
// display. Sampling is display-only; Stop always reads the wall clock.
const sampleInterval = 100 * time.Millisecond

// TimerState is the reading-timer lifecycle.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerStopped
)

func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Timer measures one oral reading. Idle -> Running -> Stopped; Reset
// returns to Idle from any state. Safe for the display sampler goroutine
// to race with the teacher's Start/Stop calls.
type Timer struct {
	mu      sync.Mutex
	state   TimerState
	startAt time.Time
	elapsed time.Duration
	stop    chan struct{}

	now    func() time.Time
	onTick func(time.Duration) // optional display callback
}

// NewTimer returns an idle timer. onTick may be nil; when set it is called
// roughly ten times a second while the timer runs.
func NewTimer(onTick func(time.Duration)) *Timer {
	return &Timer{now: time.Now, onTick: onTick}
}

// State returns the current lifecycle state.
func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// ElapsedMs returns the elapsed reading time in milliseconds: live while
// running, frozen once stopped.
func (t *Timer) ElapsedMs() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == TimerRunning {
		return t.now().Sub(t.startAt).Milliseconds()
	}
	return t.elapsed.Milliseconds()
}

// Start begins timing. No-op unless idle.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerIdle {
		return
	}
	t.state = TimerRunning
	t.startAt = t.now()
	t.stop = make(chan struct{})
	if t.onTick != nil {
		go t.sample(t.stop, t.startAt)
	}
}

// Stop freezes the elapsed time. No-op unless running.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning {
		return
	}
	t.state = TimerStopped
	t.elapsed = t.now().Sub(t.startAt)
	close(t.stop)
	t.stop = nil
}

// Reset returns to idle with zero elapsed time, from any state.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.state = TimerIdle
	t.elapsed = 0
	t.startAt = time.Time{}
}

func (t *Timer) sample(stop <-chan struct{}, startAt time.Time) {
	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.onTick(t.now().Sub(startAt))
		}
	}
}
