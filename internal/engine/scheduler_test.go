package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wallettrack/internal/core"
)

// manualTimer fires only when the test says so, with the stopped flag
// mirroring time.Timer.Stop semantics.
type manualTimer struct {
	fn      func()
	d       time.Duration
	stopped bool
}

func (t *manualTimer) Stop() bool {
	live := !t.stopped
	t.stopped = true
	return live
}

type manualTimers struct {
	armed []*manualTimer
}

func (m *manualTimers) factory(d time.Duration, fn func()) Timer {
	t := &manualTimer{fn: fn, d: d}
	m.armed = append(m.armed, t)
	return t
}

// last returns the most recently armed timer.
func (m *manualTimers) last(t *testing.T) *manualTimer {
	t.Helper()
	if len(m.armed) == 0 {
		t.Fatal("no timer armed")
	}
	return m.armed[len(m.armed)-1]
}

func fixedNow() time.Time {
	return time.Date(2024, time.June, 20, 10, 0, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T) (*Engine, *manualTimers) {
	t.Helper()
	timers := &manualTimers{}
	e, err := New(Options{
		TimerFactory: timers.factory,
		Now:          fixedNow,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, timers
}

func addTx(t *testing.T, e *Engine, amount, category string, at time.Time, kind core.TxKind) string {
	t.Helper()
	id, err := e.AddTransaction(context.Background(), decimal.RequireFromString(amount), category, at, kind)
	if err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	return id
}

func TestDebounceCoalescing(t *testing.T) {
	e, timers := newTestEngine(t)

	at := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	addTx(t, e, "100", "Food", at, core.Expense)
	addTx(t, e, "50", "Transport", at, core.Expense)
	addTx(t, e, "500", "Salary", at, core.Income)

	if e.recomputes != 0 {
		t.Fatalf("no recompute may run before the window elapses, got %d", e.recomputes)
	}
	if len(timers.armed) != 3 {
		t.Fatalf("each mutation must re-arm the timer, got %d", len(timers.armed))
	}

	// Firing every armed timer (including the superseded ones, as if Stop
	// had lost the race) must produce exactly one recompute.
	for _, tm := range timers.armed {
		tm.fn()
	}
	if e.recomputes != 1 {
		t.Fatalf("expected exactly one coalesced recompute, got %d", e.recomputes)
	}

	// The recompute observed the ledger state as of the last call.
	got := e.cache.category.value
	if len(got.Labels) != 2 {
		t.Fatalf("expected both expense categories, got %v", got.Labels)
	}
	if !got.Total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected total 150, got %s", got.Total)
	}
	if e.state != stateIdle {
		t.Fatalf("expected idle after fire, got %s", e.state)
	}
}

func TestSupersededTimerNeverRecomputes(t *testing.T) {
	e, timers := newTestEngine(t)
	at := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)

	addTx(t, e, "10", "Food", at, core.Expense)
	first := timers.last(t)
	if first.stopped {
		t.Fatal("first timer should still be live")
	}

	addTx(t, e, "20", "Food", at, core.Expense)
	if !first.stopped {
		t.Fatal("second mutation must stop the pending timer")
	}

	first.fn() // stale generation, must be a no-op
	if e.recomputes != 0 {
		t.Fatalf("superseded timer executed a recompute: %d", e.recomputes)
	}
	if e.state != statePendingRecompute {
		t.Fatalf("expected pending state, got %s", e.state)
	}

	timers.last(t).fn()
	if e.recomputes != 1 {
		t.Fatalf("expected one recompute from the live timer, got %d", e.recomputes)
	}
}

func TestTimerFireRecomputesActiveOnly(t *testing.T) {
	e, timers := newTestEngine(t)
	at := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	addTx(t, e, "10", "Food", at, core.Expense)

	timers.last(t).fn()
	if !e.cache.category.fresh {
		t.Fatal("active projection must be fresh after fire")
	}
	if e.cache.monthly.fresh || e.cache.daily.fresh {
		t.Fatal("inactive projections must stay stale")
	}
}

func TestSelectViewRecomputesStaleTargetSynchronously(t *testing.T) {
	e, timers := newTestEngine(t)
	at := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	addTx(t, e, "10", "Food", at, core.Expense)

	// Still inside the debounce window: switching is synchronous.
	if err := e.SelectView(context.Background(), "monthly"); err != nil {
		t.Fatalf("select view: %v", err)
	}
	if e.ActiveView() != ViewMonthly {
		t.Fatalf("selector not updated: %s", e.ActiveView())
	}
	if !e.cache.monthly.fresh {
		t.Fatal("stale target must be recomputed on demand")
	}
	if e.recomputes != 1 {
		t.Fatalf("expected one on-demand recompute, got %d", e.recomputes)
	}
	// The pending debounce survives the switch.
	if e.state != statePendingRecompute {
		t.Fatalf("expected pending state after switch, got %s", e.state)
	}

	// Fresh target: no recompute.
	if err := e.SelectView(context.Background(), "monthly"); err != nil {
		t.Fatalf("select view: %v", err)
	}
	if e.recomputes != 1 {
		t.Fatalf("fresh target must not recompute, got %d", e.recomputes)
	}

	timers.last(t).fn()
	if e.state != stateIdle {
		t.Fatalf("expected idle after fire, got %s", e.state)
	}
}

func TestCloseStopsPendingTimer(t *testing.T) {
	e, timers := newTestEngine(t)
	at := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	addTx(t, e, "10", "Food", at, core.Expense)

	e.Close()
	tm := timers.last(t)
	if !tm.stopped {
		t.Fatal("close must stop the pending timer")
	}
	tm.fn()
	if e.recomputes != 0 {
		t.Fatalf("no recompute may run after close, got %d", e.recomputes)
	}
}
