package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/undercover/internal/game"
	"github.com/lox/undercover/internal/randutil"
	"github.com/lox/undercover/internal/store"
	"github.com/lox/undercover/internal/table"
	"github.com/lox/undercover/internal/wordpool"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Plain output keeps View assertions readable.
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests
}

func newTestTable(t *testing.T, st store.Store, seed int64) *table.Table {
	t.Helper()
	pool, err := wordpool.Parse([]byte(`[{"civilian":"Coffee","undercover":"Tea"}]`))
	require.NoError(t, err)
	return table.New(table.Options{
		Logger: quietLogger(),
		Rand:   randutil.New(seed),
		Clock:  quartz.NewMock(t),
		Pool:   pool,
		Store:  st,
	})
}

func newTestModel(t *testing.T, seed int64) (*Model, *table.Table) {
	t.Helper()
	tbl := newTestTable(t, store.NewMemoryStore(), seed)
	return New(context.Background(), tbl, quietLogger()), tbl
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m *Model, keys ...string) *Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(*Model)
	}
	return m
}

// seatAll picks n players and adds them, looking at each private card.
func seatAll(t *testing.T, m *Model, n int) *Model {
	t.Helper()
	for m.countChoice < n {
		m = press(m, "right")
	}
	for m.countChoice > n {
		m = press(m, "left")
	}
	m = press(m, "enter")
	require.Equal(t, "lobby", m.Screen())

	for i := range n {
		m = press(m, fmt.Sprintf("Player %d", i+1), "enter")
		require.Equal(t, "card", m.Screen(), m.Status())
		m = press(m, "space", "enter")
		require.Equal(t, "lobby", m.Screen())
	}
	return m
}

func boardIndex(s game.Session, role game.Role) int {
	for i, p := range s.Players {
		if p.Role == role {
			return i
		}
	}
	return -1
}

func moveTo(m *Model, index int) *Model {
	for m.boardCursor < index {
		m = press(m, "right")
	}
	for m.boardCursor > index {
		m = press(m, "left")
	}
	return m
}

func TestCountScreen(t *testing.T) {
	m, tbl := newTestModel(t, 1)
	assert.Equal(t, "count", m.Screen())
	assert.Equal(t, 6, m.countChoice)
	assert.Contains(t, m.View(), "1 Undercover • 1 Mr. White • 4 Civilians")

	m = press(m, "left", "left", "left", "left")
	assert.Equal(t, 4, m.countChoice, "clamped at the minimum")

	for range 10 {
		m = press(m, "right")
	}
	assert.Equal(t, 12, m.countChoice, "clamped at the maximum")
	assert.Contains(t, m.View(), "3 Undercover • 1 Mr. White • 8 Civilians")

	m = press(m, "enter")
	assert.Equal(t, "lobby", m.Screen())
	assert.Equal(t, 12, tbl.Session().PlayerCount)
}

func TestPrivateCardHiddenUntilAsked(t *testing.T) {
	m, tbl := newTestModel(t, 2)
	m = press(m, "left", "left", "enter")

	m = press(m, "Ana", "enter")
	require.Equal(t, "card", m.Screen())

	view := m.View()
	assert.Contains(t, view, "Pass the device to Ana")
	assert.NotContains(t, view, "Coffee")
	assert.NotContains(t, view, "Tea")

	m = press(m, "space")
	p := tbl.Session().Players[0]
	word, ok := p.SecretWord()
	require.True(t, ok, "the first player always has a word")
	view = m.View()
	assert.Contains(t, view, "You are "+p.Role.String())
	assert.Contains(t, view, "Your word: "+word)

	m = press(m, "enter")
	assert.Equal(t, "lobby", m.Screen())
	assert.Contains(t, m.View(), "1. Ana")
}

func TestLobbyRejectsBlankAndDuplicateNames(t *testing.T) {
	m, tbl := newTestModel(t, 3)
	m = press(m, "left", "left", "enter")

	m = press(m, "Ana", "enter", "space", "enter")
	m = press(m, "ana", "enter")
	assert.Equal(t, "lobby", m.Screen())
	assert.Contains(t, m.Status(), "already taken")
	assert.Len(t, tbl.Session().Players, 1)

	m = press(m, "ctrl+x")
	assert.Empty(t, tbl.Session().Players)
	assert.Contains(t, m.Status(), "Ana left the table")
}

func TestStartNeedsFullTable(t *testing.T) {
	m, tbl := newTestModel(t, 4)
	m = press(m, "left", "left", "enter")
	m = press(m, "Ana", "enter", "space", "enter")

	m = press(m, "enter")
	assert.Equal(t, "lobby", m.Screen())
	assert.Contains(t, m.Status(), "Seat 3 more player(s) first")
	assert.Equal(t, game.PhaseLobby, tbl.Session().Phase())
}

func TestChangePlayerCountFromLobby(t *testing.T) {
	m, tbl := newTestModel(t, 5)
	m = seatAll(t, m, 4)

	m = press(m, "ctrl+n")
	assert.Equal(t, "count", m.Screen())
	m = press(m, "left")
	assert.Equal(t, 4, m.countChoice, "cannot go below the seated players")

	m = press(m, "right", "enter")
	assert.Equal(t, "lobby", m.Screen())
	assert.Equal(t, 5, tbl.Session().PlayerCount)
	assert.Contains(t, m.View(), "Lobby: 4/5 seated")
}

func TestCivilianVictoryFlow(t *testing.T) {
	m, tbl := newTestModel(t, 6)
	m = seatAll(t, m, 4)
	assert.Contains(t, m.View(), "Everyone is seated")

	m = press(m, "enter")
	require.Equal(t, "board", m.Screen())
	assert.Equal(t, game.PhaseInProgress, tbl.Session().Phase())

	s := tbl.Session()
	m = press(moveTo(m, boardIndex(s, game.Undercover)), "enter")
	assert.Equal(t, "board", m.Screen())
	assert.Contains(t, m.View(), "Undercover")

	// Revealing the same card again is declined.
	m = press(m, "enter")
	assert.Equal(t, "That card is already face up", m.Status())

	m = press(moveTo(m, boardIndex(s, game.MrWhite)), "enter")
	require.Equal(t, "guess", m.Screen())

	m = press(m, "Tea", "enter")
	require.Equal(t, "result", m.Screen())
	assert.Equal(t, game.Civilian, tbl.Session().Winner)

	view := m.View()
	assert.Contains(t, view, "Civilians win!")
	assert.Contains(t, view, "Civilian word: Coffee")
}

func TestMrWhiteGuessFlow(t *testing.T) {
	m, tbl := newTestModel(t, 7)
	m = seatAll(t, m, 5)
	m = press(m, "enter")

	m = press(moveTo(m, boardIndex(tbl.Session(), game.MrWhite)), "space")
	require.Equal(t, "guess", m.Screen())

	m = press(m, "coffee", "enter")
	assert.Equal(t, "result", m.Screen())
	assert.Equal(t, game.MrWhite, tbl.Session().Winner)
	assert.Contains(t, m.View(), "Mr. White wins!")
}

func TestGivingUpGuessCountsAsMiss(t *testing.T) {
	m, tbl := newTestModel(t, 8)
	m = seatAll(t, m, 6)
	m = press(m, "enter")

	m = press(moveTo(m, boardIndex(tbl.Session(), game.MrWhite)), "enter", "esc")
	assert.Equal(t, "board", m.Screen())
	assert.Empty(t, tbl.Session().PendingGuess)
	assert.Equal(t, game.PhaseInProgress, tbl.Session().Phase())
}

func TestResetReturnsToCountScreen(t *testing.T) {
	m, tbl := newTestModel(t, 9)
	m = seatAll(t, m, 4)
	m = press(m, "enter", "ctrl+r")

	assert.Equal(t, "count", m.Screen())
	assert.Equal(t, game.Session{}, tbl.Session())
	assert.Equal(t, "New game", m.Status())
}

func TestResumesRestoredSession(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	first := newTestTable(t, st, 10)
	m := New(ctx, first, quietLogger())
	m = seatAll(t, m, 4)
	m = press(m, "enter")
	m = press(moveTo(m, boardIndex(first.Session(), game.MrWhite)), "enter")
	require.Equal(t, "guess", m.Screen())
	require.NoError(t, first.Flush(ctx))

	second := newTestTable(t, st, 11)
	found, err := second.Restore(ctx)
	require.NoError(t, err)
	require.True(t, found)

	resumed := New(ctx, second, quietLogger())
	assert.Equal(t, "guess", resumed.Screen())
	assert.Contains(t, resumed.View(), "is Mr. White!")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, 12)
	next, cmd := m.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}
