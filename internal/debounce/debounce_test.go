package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type manual struct {
	timers []*manualTimer
	waits  []time.Duration
}

func (m *manual) after(d time.Duration, f func()) Timer {
	t := &manualTimer{f: f}
	m.timers = append(m.timers, t)
	m.waits = append(m.waits, d)
	return t
}

// fireAll runs every scheduled callback, including stopped ones, the way a
// real timer could race with Stop.
func (m *manual) fireAll() {
	for _, t := range m.timers {
		t.f()
	}
}

func TestDebouncer_LastTriggerWins(t *testing.T) {
	m := &manual{}
	d := New(500*time.Millisecond, m.after)

	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		d.Trigger(func() { got = append(got, i) })
	}
	if !d.Pending() {
		t.Fatal("expected a pending call")
	}
	if len(m.timers) != 3 || !m.timers[0].stopped || !m.timers[1].stopped || m.timers[2].stopped {
		t.Fatalf("earlier timers should be stopped, last one active")
	}
	if m.waits[2] != 500*time.Millisecond {
		t.Errorf("wait = %v, want 500ms", m.waits[2])
	}

	m.fireAll()
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("got %v, want [3]", got)
	}
	if d.Pending() {
		t.Error("nothing should be pending after firing")
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	m := &manual{}
	d := New(time.Second, m.after)

	fired := false
	d.Trigger(func() { fired = true })
	d.Cancel()
	m.fireAll()

	if fired {
		t.Error("cancelled call must not run")
	}
	if d.Pending() {
		t.Error("nothing should be pending after Cancel")
	}
}

func TestDebouncer_RealTimer(t *testing.T) {
	d := New(10*time.Millisecond, nil)

	var calls atomic.Int32
	done := make(chan struct{})
	d.Trigger(func() { calls.Add(1) })
	d.Trigger(func() {
		calls.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(30 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}
