// Package table hosts a single pass-and-play game. A Table owns the current
// session and the collaborators around it: the word pool, the random source,
// the clock and the session store.
package table

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/undercover/internal/game"
	"github.com/lox/undercover/internal/store"
	"github.com/lox/undercover/internal/wordpool"
)

// Options configures a Table. Rand is required; everything else has a default.
type Options struct {
	Logger   *log.Logger
	Rand     game.Rand
	Clock    quartz.Clock
	Pool     *wordpool.Pool
	Store    store.Store
	Debounce time.Duration
	Limits   game.Limits
	NewID    func() string
}

// Table applies session transitions in call order. It is not safe for
// concurrent use; the UI drives it from one goroutine.
type Table struct {
	logger  *log.Logger
	rng     game.Rand
	clock   quartz.Clock
	pool    *wordpool.Pool
	store   store.Store
	saver   *store.Debouncer
	limits  game.Limits
	newID   func() string
	session game.Session
}

// New creates a table with an empty lobby.
func New(opts Options) *Table {
	if opts.Rand == nil {
		panic("table: random source is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Pool == nil {
		opts.Pool = wordpool.Default()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Limits == (game.Limits{}) {
		opts.Limits = game.DefaultLimits()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	logger := opts.Logger.WithPrefix("table")
	return &Table{
		logger: logger,
		rng:    opts.Rand,
		clock:  opts.Clock,
		pool:   opts.Pool,
		store:  opts.Store,
		saver:  store.NewDebouncer(opts.Store, opts.Clock, opts.Debounce, opts.Logger),
		limits: opts.Limits,
		newID:  opts.NewID,
	}
}

// Session returns the current snapshot. Callers must treat it as read-only.
func (t *Table) Session() game.Session {
	return t.session
}

// Limits returns the player count range the lobby accepts.
func (t *Table) Limits() game.Limits {
	return t.limits
}

// Restore replaces the current session with the stored one, if any. It
// reports whether a session was found.
func (t *Table) Restore(ctx context.Context) (bool, error) {
	s, err := t.store.Load(ctx)
	if err != nil {
		t.logger.Warn("Failed to restore session", "error", err)
		return false, err
	}
	if s == nil {
		return false, nil
	}
	t.session = *s
	t.logger.Info("Session restored",
		"phase", s.Phase(),
		"players", len(s.Players),
		"playerCount", s.PlayerCount)
	return true, nil
}

// ChoosePlayerCount fixes the number of seats and draws the word pair if
// the session has none yet.
func (t *Table) ChoosePlayerCount(n int) error {
	next, err := t.session.ChoosePlayerCount(n, t.limits)
	if err != nil {
		return err
	}
	if next.Pair == nil {
		pair, err := t.pool.Draw(t.rng)
		if err != nil {
			return err
		}
		if next, err = next.SelectPair(pair); err != nil {
			return err
		}
		t.logger.Debug("Word pair drawn", "civilian", pair.Civilian, "undercover", pair.Undercover)
	}

	t.commit(next)
	t.logger.Info("Player count chosen", "playerCount", n, "quota", next.Quota())
	return nil
}

// AddPlayer seats a player and deals their role.
func (t *Table) AddPlayer(name string) (game.Player, error) {
	next, p, err := t.session.AddPlayer(t.newID(), name, t.rng)
	if err != nil {
		t.logger.Debug("Player rejected", "name", name, "error", err)
		return game.Player{}, err
	}
	t.commit(next)
	t.logger.Info("Player added", "name", p.Name, "seat", len(next.Players), "of", next.PlayerCount)
	t.logger.Debug("Role dealt", "name", p.Name, "role", p.Role)
	return p, nil
}

// RemovePlayer removes a seated player from the lobby.
func (t *Table) RemovePlayer(id string) error {
	next, err := t.session.RemovePlayer(id)
	if err != nil {
		return err
	}
	t.commit(next)
	t.logger.Info("Player removed", "id", id, "players", len(next.Players))
	return nil
}

// Start begins the reveal phase. It reports whether roles had to be
// reassigned because the lobby's distribution drifted from the quota.
func (t *Table) Start() (bool, error) {
	next, reassigned, err := t.session.Start(t.clock.Now(), t.limits, t.rng)
	if err != nil {
		return false, err
	}
	t.commit(next)
	t.logger.Info("Game started", "players", len(next.Players), "reassigned", reassigned)
	return reassigned, nil
}

// Reveal turns over the card at index.
func (t *Table) Reveal(index int) (game.RevealOutcome, error) {
	next, out, err := t.session.Reveal(index, t.clock.Now())
	if err != nil {
		return game.RevealOutcome{}, err
	}
	t.commit(next)
	t.logger.Info("Card revealed",
		"name", out.Player.Name,
		"role", out.Player.Role,
		"revealed", next.RevealedCount)
	switch {
	case out.GuessRequired:
		t.logger.Info("Waiting for Mr. White's guess", "name", out.Player.Name)
	case out.Winner != game.NoRole:
		t.logger.Info("Game over", "winner", out.Winner)
	}
	return out, nil
}

// SubmitGuess resolves Mr. White's pending guess.
func (t *Table) SubmitGuess(guess string) (game.GuessOutcome, error) {
	next, out, err := t.session.SubmitGuess(guess, t.clock.Now())
	if err != nil {
		return game.GuessOutcome{}, err
	}
	t.commit(next)
	t.logger.Info("Guess submitted", "correct", out.Correct)
	if out.Winner != game.NoRole {
		t.logger.Info("Game over", "winner", out.Winner)
	}
	return out, nil
}

// Reset discards the session and its stored copy. The word pool is kept.
func (t *Table) Reset(ctx context.Context) error {
	t.session = game.Session{}
	if err := t.saver.Clear(ctx); err != nil {
		t.logger.Warn("Failed to clear stored session", "error", err)
		return err
	}
	t.logger.Info("Session reset")
	return nil
}

// Flush writes any pending snapshot to the store.
func (t *Table) Flush(ctx context.Context) error {
	if !t.saver.Pending() {
		return nil
	}
	if err := t.saver.Flush(ctx); err != nil {
		t.logger.Warn("Failed to persist session", "error", err)
		return err
	}
	return nil
}

func (t *Table) commit(next game.Session) {
	t.session = next
	t.saver.Schedule(next)
}
