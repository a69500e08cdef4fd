package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/undercover/internal/game"
)

// DefaultDebounce is how long the Debouncer waits for the session to settle
// before writing it.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer coalesces bursts of session changes into a single write of the
// latest snapshot. Write failures are logged and dropped.
type Debouncer struct {
	store  Store
	clock  quartz.Clock
	delay  time.Duration
	logger *log.Logger

	mu      sync.Mutex
	timer   *quartz.Timer
	pending *game.Session

	// writeMu orders writes so an older snapshot never lands after a newer one.
	writeMu sync.Mutex
}

// NewDebouncer wraps st. A non-positive delay selects DefaultDebounce.
func NewDebouncer(st Store, clock quartz.Clock, delay time.Duration, logger *log.Logger) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		store:  st,
		clock:  clock,
		delay:  delay,
		logger: logger.WithPrefix("store"),
	}
}

// Schedule records s as the snapshot to write and restarts the quiet period.
func (d *Debouncer) Schedule(s game.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = &s
	if d.timer == nil {
		d.timer = d.clock.AfterFunc(d.delay, d.fire, "debounce")
		return
	}
	d.timer.Reset(d.delay, "debounce")
}

// Pending reports whether a snapshot is waiting to be written.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush writes the pending snapshot now, if there is one.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	return d.write(ctx)
}

// Clear drops the pending snapshot and deletes the stored session. It waits
// for any save already in progress so that save cannot land afterwards.
func (d *Debouncer) Clear(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
	d.mu.Unlock()

	return d.store.Clear(ctx)
}

func (d *Debouncer) fire() {
	if err := d.write(context.Background()); err != nil {
		d.logger.Warn("Failed to persist session", "error", err)
	}
}

func (d *Debouncer) write(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.mu.Lock()
	snap := d.pending
	d.pending = nil
	d.mu.Unlock()

	if snap == nil {
		return nil
	}
	if err := d.store.Save(ctx, *snap); err != nil {
		return err
	}
	d.logger.Debug("Session persisted", "players", len(snap.Players), "phase", snap.Phase())
	return nil
}
