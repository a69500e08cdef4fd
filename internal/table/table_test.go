package table

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/undercover/internal/game"
	"github.com/lox/undercover/internal/randutil"
	"github.com/lox/undercover/internal/store"
	"github.com/lox/undercover/internal/wordpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	table *Table
	clock *quartz.Mock
	store *store.MemoryStore
}

func newFixture(t *testing.T, seed int64) *fixture {
	t.Helper()

	pool, err := wordpool.Parse([]byte(`[{"civilian":"Coffee","undercover":"Tea"}]`))
	require.NoError(t, err)

	mClock := quartz.NewMock(t)
	st := store.NewMemoryStore()
	ids := 0

	tbl := New(Options{
		Logger: log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
		Rand:   randutil.New(seed),
		Clock:  mClock,
		Pool:   pool,
		Store:  st,
		NewID: func() string {
			ids++
			return fmt.Sprintf("player-%d", ids)
		},
	})
	return &fixture{table: tbl, clock: mClock, store: st}
}

// seat chooses the player count and fills every seat.
func (f *fixture) seat(t *testing.T, n int) {
	t.Helper()
	require.NoError(t, f.table.ChoosePlayerCount(n))
	for i := range n {
		_, err := f.table.AddPlayer(fmt.Sprintf("Player %d", i+1))
		require.NoError(t, err)
	}
}

func indexOf(t *testing.T, s game.Session, role game.Role) int {
	t.Helper()
	for i, p := range s.Players {
		if p.Role == role {
			return i
		}
	}
	t.Fatalf("no %s seated", role)
	return -1
}

func TestNewRequiresRand(t *testing.T) {
	assert.Panics(t, func() { New(Options{}) })
}

func TestChoosePlayerCountDrawsPair(t *testing.T) {
	f := newFixture(t, 1)

	require.NoError(t, f.table.ChoosePlayerCount(5))
	s := f.table.Session()
	assert.Equal(t, 5, s.PlayerCount)
	require.NotNil(t, s.Pair)
	assert.Equal(t, game.WordPair{Civilian: "Coffee", Undercover: "Tea"}, *s.Pair)

	// Changing the count keeps the pair.
	require.NoError(t, f.table.ChoosePlayerCount(6))
	assert.Equal(t, *s.Pair, *f.table.Session().Pair)

	assert.ErrorIs(t, f.table.ChoosePlayerCount(2), game.ErrInvalidPlayerCount)
	assert.Equal(t, 6, f.table.Session().PlayerCount)
}

func TestAddPlayerDealsRoles(t *testing.T) {
	f := newFixture(t, 2)
	f.seat(t, 8)

	s := f.table.Session()
	assert.Equal(t, "player-1", s.Players[0].ID)
	assert.NotEqual(t, game.MrWhite, s.Players[0].Role)
	assert.Equal(t, game.RoleQuota{Civilian: 5, Undercover: 2, MrWhite: 1}, game.CountRoles(s.Players))

	_, err := f.table.AddPlayer("One Too Many")
	assert.ErrorIs(t, err, game.ErrRosterFull)
}

func TestFullGameCivilianWin(t *testing.T) {
	f := newFixture(t, 3)
	f.seat(t, 4)

	reassigned, err := f.table.Start()
	require.NoError(t, err)
	assert.False(t, reassigned)
	assert.Equal(t, f.clock.Now(), f.table.Session().StartedAt)

	s := f.table.Session()
	out, err := f.table.Reveal(indexOf(t, s, game.Undercover))
	require.NoError(t, err)
	assert.Equal(t, game.NoRole, out.Winner)

	out, err = f.table.Reveal(indexOf(t, s, game.MrWhite))
	require.NoError(t, err)
	assert.True(t, out.GuessRequired)

	_, err = f.table.Reveal(indexOf(t, s, game.Civilian))
	assert.ErrorIs(t, err, game.ErrGuessPending)

	guess, err := f.table.SubmitGuess("Tea")
	require.NoError(t, err)
	assert.False(t, guess.Correct)
	assert.Equal(t, game.Civilian, guess.Winner)

	s = f.table.Session()
	assert.Equal(t, game.PhaseEnded, s.Phase())
	assert.Equal(t, f.clock.Now(), s.EndedAt)
}

func TestMrWhiteGuessWins(t *testing.T) {
	f := newFixture(t, 4)
	f.seat(t, 6)
	_, err := f.table.Start()
	require.NoError(t, err)

	_, err = f.table.Reveal(indexOf(t, f.table.Session(), game.MrWhite))
	require.NoError(t, err)

	out, err := f.table.SubmitGuess("  coffee ")
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, game.MrWhite, out.Winner)

	s := f.table.Session()
	assert.Equal(t, 6, s.RevealedCount)
	for _, p := range s.Players {
		assert.True(t, p.Revealed, p.Name)
	}
}

func TestStartReassignsAfterRemoval(t *testing.T) {
	f := newFixture(t, 5)
	f.seat(t, 5)

	// Drop the undercover and shrink the table: the four who remain hold
	// three civilian cards and Mr. White, but four seats need an undercover.
	s := f.table.Session()
	require.NoError(t, f.table.RemovePlayer(s.Players[indexOf(t, s, game.Undercover)].ID))
	require.NoError(t, f.table.ChoosePlayerCount(4))

	reassigned, err := f.table.Start()
	require.NoError(t, err)
	assert.True(t, reassigned)

	s = f.table.Session()
	assert.Equal(t, game.RoleQuota{Civilian: 2, Undercover: 1, MrWhite: 1}, game.CountRoles(s.Players))
	for _, p := range s.Players {
		if p.Role == game.MrWhite {
			assert.Nil(t, p.Word)
			continue
		}
		assert.Equal(t, *s.Pair.WordFor(p.Role), *p.Word)
	}
}

func TestDeclinedOperationsKeepSession(t *testing.T) {
	f := newFixture(t, 6)

	_, err := f.table.AddPlayer("Early")
	assert.ErrorIs(t, err, game.ErrPlayerCountNotChosen)

	_, err = f.table.Start()
	assert.ErrorIs(t, err, game.ErrPlayerCountNotChosen)

	f.seat(t, 4)
	before := f.table.Session()

	_, err = f.table.Reveal(0)
	assert.ErrorIs(t, err, game.ErrNotInProgress)
	_, err = f.table.SubmitGuess("anything")
	assert.ErrorIs(t, err, game.ErrNotInProgress)
	assert.ErrorIs(t, f.table.RemovePlayer("nobody"), game.ErrUnknownPlayer)
	_, err = f.table.AddPlayer("   ")
	assert.ErrorIs(t, err, game.ErrEmptyName)

	assert.Equal(t, before, f.table.Session())
}

func TestSessionPersistsAfterQuietPeriod(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f := newFixture(t, 7)
	f.seat(t, 4)

	got, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "nothing is written before the quiet period ends")

	f.clock.Advance(store.DefaultDebounce).MustWait(ctx)

	got, err = f.store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.table.Session(), *got)
}

func TestFlushWritesImmediately(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, 8)
	require.NoError(t, f.table.ChoosePlayerCount(4))
	require.NoError(t, f.table.Flush(ctx))

	got, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.PlayerCount)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, 9)
	found, err := f.table.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	f.seat(t, 4)
	_, err = f.table.Start()
	require.NoError(t, err)
	require.NoError(t, f.table.Flush(ctx))
	want := f.table.Session()

	restored := New(Options{
		Logger: log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
		Rand:   randutil.New(9),
		Clock:  f.clock,
		Store:  f.store,
	})
	found, err = restored.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, restored.Session())
	assert.Equal(t, game.PhaseInProgress, restored.Session().Phase())
}

func TestReset(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f := newFixture(t, 10)
	f.seat(t, 4)
	require.NoError(t, f.table.Flush(ctx))

	_, err := f.table.Start()
	require.NoError(t, err)

	require.NoError(t, f.table.Reset(ctx))
	assert.Equal(t, game.Session{}, f.table.Session())

	// The start scheduled before the reset must not resurrect the game.
	f.clock.Advance(store.DefaultDebounce).MustWait(ctx)
	got, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// A fresh lobby works after reset and draws a new pair.
	require.NoError(t, f.table.ChoosePlayerCount(4))
	assert.NotNil(t, f.table.Session().Pair)
}

// slowStore holds every Save until release is closed.
type slowStore struct {
	*store.MemoryStore

	started chan struct{}
	release chan struct{}
}

func (s *slowStore) Save(ctx context.Context, sess game.Session) error {
	select {
	case s.started <- struct{}{}:
	default:
	}
	<-s.release
	return s.MemoryStore.Save(ctx, sess)
}

func TestResetDuringBackgroundSave(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := wordpool.Parse([]byte(`[{"civilian":"Coffee","undercover":"Tea"}]`))
	require.NoError(t, err)

	mClock := quartz.NewMock(t)
	st := &slowStore{
		MemoryStore: store.NewMemoryStore(),
		started:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
	f := &fixture{
		table: New(Options{
			Logger: log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
			Rand:   randutil.New(3),
			Clock:  mClock,
			Pool:   pool,
			Store:  st,
		}),
		clock: mClock,
		store: st.MemoryStore,
	}
	f.seat(t, 4)

	// The debounced save starts and stalls inside the store.
	mClock.Advance(store.DefaultDebounce)
	select {
	case <-st.started:
	case <-ctx.Done():
		t.Fatal("background save never started")
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(st.release)
	}()
	require.NoError(t, f.table.Reset(ctx))

	got, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "reset game must stay cleared")
	assert.Equal(t, game.Session{}, f.table.Session())
}
