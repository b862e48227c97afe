// Package engine owns the derived-data lifecycle: one Engine instance
// holds the ledger, the display currency, the active view and the
// projection cache, and schedules recomputation under a debounce policy.
// There are no package-level globals; every piece of state hangs off the
// instance.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"wallettrack/internal/core"
	"wallettrack/internal/currency"
	"wallettrack/internal/ledger"
	"wallettrack/internal/projection"
)

const (
	ViewCategory View = "category"
	ViewMonthly  View = "monthly"
	ViewDaily    View = "daily"
)

// DefaultDebounce is the window after the last mutation before the
// pending recompute executes.
const DefaultDebounce = 150 * time.Millisecond

type View string

var ErrUnknownView = errors.New("unknown view")

// ParseView maps a view name onto the selector value.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewCategory:
		return ViewCategory, nil
	case ViewMonthly:
		return ViewMonthly, nil
	case ViewDaily:
		return ViewDaily, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}

// Publisher receives non-blocking notifications about ledger mutations
// and projection recomputes. Publish failures are logged and never fail
// the triggering operation.
type Publisher interface {
	PublishTransactionAdded(ctx context.Context, id string) error
	PublishTransactionRemoved(ctx context.Context, id string) error
	PublishProjectionRecomputed(ctx context.Context, view, currency string) error
}

// Options configures a new Engine. Zero values fall back to production
// defaults; tests inject TimerFactory and Now for deterministic time.
type Options struct {
	Window       time.Duration
	Display      string
	ActiveView   View
	TimerFactory TimerFactory
	Now          func() time.Time
	Events       Publisher
}

// Engine serializes every operation on one mutex; a recompute is
// synchronous and never overlaps another. The only deferred work is the
// debounce timer, which re-enters through fire.
type Engine struct {
	mu sync.Mutex

	ledger  *ledger.Ledger
	rates   *currency.Converter
	display string
	active  View

	cache projectionCache
	state state

	window   time.Duration
	newTimer TimerFactory
	timer    Timer
	gen      uint64

	now    func() time.Time
	events Publisher

	recomputes int // total recomputations, for tests and diagnostics
}

func New(opts Options) (*Engine, error) {
	e := &Engine{
		ledger:   ledger.New(),
		rates:    currency.NewConverter(),
		display:  opts.Display,
		active:   opts.ActiveView,
		window:   opts.Window,
		newTimer: opts.TimerFactory,
		now:      opts.Now,
		events:   opts.Events,
	}
	if e.display == "" {
		e.display = currency.Canonical
	}
	if !e.rates.Known(e.display) {
		return nil, fmt.Errorf("%w: %q", currency.ErrUnknownCurrency, e.display)
	}
	if e.active == "" {
		e.active = ViewCategory
	}
	if _, err := ParseView(string(e.active)); err != nil {
		return nil, err
	}
	if e.window <= 0 {
		e.window = DefaultDebounce
	}
	if e.newTimer == nil {
		e.newTimer = AfterFunc
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// Close cancels any armed debounce timer. The engine must not be used
// afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	e.state = stateIdle
}

// AddTransaction validates and admits a new transaction, returning its
// assigned id. The ledger is updated synchronously; recomputation is
// debounced.
func (e *Engine) AddTransaction(ctx context.Context, amount decimal.Decimal, category string, occurredAt time.Time, kind core.TxKind) (string, error) {
	tx, err := core.NewTransaction(amount, category, occurredAt, kind)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	if err := e.ledger.Add(tx); err != nil {
		e.mu.Unlock()
		return "", err
	}
	e.dataChangedLocked()
	e.mu.Unlock()

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"kind", string(tx.Kind),
		"category", tx.Category,
		"amount", tx.Amount.String())
	e.publish(ctx, func(p Publisher) error { return p.PublishTransactionAdded(ctx, tx.ID) })
	return tx.ID, nil
}

// RemoveTransaction removes a transaction by id. Unknown ids are a no-op
// on the ledger and reported as ledger.ErrNotFound.
func (e *Engine) RemoveTransaction(ctx context.Context, id string) error {
	e.mu.Lock()
	if err := e.ledger.Remove(id); err != nil {
		e.mu.Unlock()
		return err
	}
	e.dataChangedLocked()
	e.mu.Unlock()

	slog.InfoContext(ctx, "Transaction removed", "id", id)
	e.publish(ctx, func(p Publisher) error { return p.PublishTransactionRemoved(ctx, id) })
	return nil
}

// SetDisplayCurrency switches the display currency. Every projection
// depends on the conversion rate, so all three are invalidated and the
// debounced recompute path runs as if the data had changed. An unknown
// code leaves the previous currency in place.
func (e *Engine) SetDisplayCurrency(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	e.mu.Lock()
	if !e.rates.Known(code) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", currency.ErrUnknownCurrency, code)
	}
	e.display = code
	e.dataChangedLocked()
	e.mu.Unlock()

	slog.InfoContext(ctx, "Display currency changed", "currency", code)
	return nil
}

// SelectView switches the active view synchronously. A stale target is
// recomputed on demand before the call returns; a fresh one costs
// nothing.
func (e *Engine) SelectView(ctx context.Context, name string) error {
	v, err := ParseView(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.active = v
	if !e.cache.freshFor(v) {
		prev := e.state
		e.state = stateComputing
		e.recomputeLocked(v)
		e.state = prev
	}
	e.mu.Unlock()

	slog.InfoContext(ctx, "View selected", "view", string(v))
	return nil
}

// Projection returns the named projection, forcing a synchronous
// recompute when the cached value is stale.
func (e *Engine) Projection(name string) (any, error) {
	v, err := ParseView(name)
	if err != nil {
		return nil, err
	}
	switch v {
	case ViewMonthly:
		return e.Monthly(), nil
	case ViewDaily:
		return e.Daily(), nil
	default:
		return e.Category(), nil
	}
}

// Category returns the expense-by-category projection.
func (e *Engine) Category() core.CategoryBreakdown {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureFreshLocked(ViewCategory)
	return cloneCategory(e.cache.category.value)
}

// Monthly returns the six-month revenue-vs-expense projection.
func (e *Engine) Monthly() core.MonthlySeries {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureFreshLocked(ViewMonthly)
	return cloneMonthly(e.cache.monthly.value)
}

// Daily returns the cumulative daily balance projection.
func (e *Engine) Daily() core.DailyBalance {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureFreshLocked(ViewDaily)
	return cloneDaily(e.cache.daily.value)
}

// Snapshot returns the ordered, read-only transaction list for export
// collaborators.
func (e *Engine) Snapshot() []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Snapshot()
}

func (e *Engine) DisplayCurrency() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display
}

func (e *Engine) ActiveView() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Converter exposes the rate table to formatting and export
// collaborators.
func (e *Engine) Converter() *currency.Converter {
	return e.rates
}

// dataChangedLocked marks every projection stale and (re)arms the
// debounce timer. An already-pending timer is superseded: its generation
// no longer matches, so it can never trigger a recompute, even if Stop
// loses the race with an in-flight fire.
func (e *Engine) dataChangedLocked() {
	e.cache.invalidateAll()
	e.gen++
	gen := e.gen
	if e.timer != nil {
		e.timer.Stop()
	}
	e.state = statePendingRecompute
	e.timer = e.newTimer(e.window, func() { e.fire(gen) })
}

// fire runs when the debounce window elapses. It recomputes the active
// projection only, against the ledger and currency as they are now, not
// as they were when the timer was armed.
func (e *Engine) fire(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.state != statePendingRecompute {
		e.mu.Unlock()
		return
	}
	e.state = stateComputing
	e.recomputeLocked(e.active)
	e.state = stateIdle
	e.timer = nil
	view, display := e.active, e.display
	e.mu.Unlock()

	e.publish(context.Background(), func(p Publisher) error {
		return p.PublishProjectionRecomputed(context.Background(), string(view), display)
	})
}

func (e *Engine) ensureFreshLocked(v View) {
	if e.cache.freshFor(v) {
		return
	}
	prev := e.state
	e.state = stateComputing
	e.recomputeLocked(v)
	e.state = prev
}

// recomputeLocked rebuilds one projection from a fresh snapshot. The
// aggregators never fail; a fully built value replaces the cache entry in
// one assignment, so a consumer observes either the previous value or the
// complete new one.
func (e *Engine) recomputeLocked(v View) {
	txs := e.ledger.Snapshot()
	switch v {
	case ViewCategory:
		e.cache.category = entry[core.CategoryBreakdown]{value: projection.Category(txs, e.rates, e.display), fresh: true}
	case ViewMonthly:
		e.cache.monthly = entry[core.MonthlySeries]{value: projection.Monthly(txs, e.rates, e.display, e.now()), fresh: true}
	case ViewDaily:
		e.cache.daily = entry[core.DailyBalance]{value: projection.DailyBalance(txs, e.rates, e.display, e.now()), fresh: true}
	}
	e.recomputes++
}

func (e *Engine) publish(ctx context.Context, op func(Publisher) error) {
	if e.events == nil {
		return
	}
	if err := op(e.events); err != nil {
		slog.WarnContext(ctx, "Failed to publish engine event", "error", err)
	}
}

func cloneCategory(v core.CategoryBreakdown) core.CategoryBreakdown {
	v.Labels = append([]string(nil), v.Labels...)
	v.Values = append([]decimal.Decimal(nil), v.Values...)
	return v
}

func cloneMonthly(v core.MonthlySeries) core.MonthlySeries {
	v.Buckets = append([]core.MonthBucket(nil), v.Buckets...)
	return v
}

func cloneDaily(v core.DailyBalance) core.DailyBalance {
	v.Days = append([]int(nil), v.Days...)
	v.Balances = append([]decimal.Decimal(nil), v.Balances...)
	return v
}
