package game

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the lifecycle stage of a session, derived from its fields.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseInProgress Phase = "in_progress"
	PhaseEnded      Phase = "ended"
)

// Limits bounds the player counts a lobby accepts.
type Limits struct {
	Min int
	Max int
}

// DefaultLimits returns the 4 to 12 player range offered by the lobby.
func DefaultLimits() Limits {
	return Limits{Min: MinPlayers, Max: MaxPlayers}
}

// Contains reports whether n is an acceptable player count.
func (l Limits) Contains(n int) bool {
	return n >= l.Min && n <= l.Max
}

// Session is a snapshot of one game from lobby to result. Every transition
// is a value method that returns the next snapshot; the receiver is never
// modified, so a declined transition simply leaves the caller's copy as is.
type Session struct {
	PlayerCount   int       `json:"playerCount,omitempty"`
	StartedAt     time.Time `json:"startedAt,omitzero"`
	EndedAt       time.Time `json:"endedAt,omitzero"`
	Pair          *WordPair `json:"pair"`
	Players       Roster    `json:"players"`
	RevealedCount int       `json:"revealedCount"`
	Winner        Role      `json:"winner,omitempty"`

	// PendingGuess is the id of a revealed Mr. White who has yet to guess.
	PendingGuess string `json:"pendingGuess,omitempty"`
}

// RevealOutcome describes the effect of revealing one card.
type RevealOutcome struct {
	Player        Player
	GuessRequired bool
	Winner        Role
}

// GuessOutcome describes the effect of Mr. White's guess.
type GuessOutcome struct {
	Correct bool
	Winner  Role
}

// Phase reports where the session is in its lifecycle.
func (s Session) Phase() Phase {
	switch {
	case s.Winner != NoRole:
		return PhaseEnded
	case !s.StartedAt.IsZero():
		return PhaseInProgress
	default:
		return PhaseLobby
	}
}

// Quota is the role distribution for the chosen player count.
func (s Session) Quota() RoleQuota {
	return RequiredRoles(s.PlayerCount)
}

// Full reports whether every seat for the chosen count is taken.
func (s Session) Full() bool {
	return s.PlayerCount > 0 && len(s.Players) >= s.PlayerCount
}

// CanStart reports whether Start would currently succeed for lim.
func (s Session) CanStart(lim Limits) bool {
	return s.Phase() == PhaseLobby && s.Pair != nil && s.PlayerCount > 0 &&
		len(s.Players) >= lim.Min && len(s.Players) == s.PlayerCount
}

// SelectPair fixes the word pair for the session. A pair that is already
// selected is kept, since seated players may already hold its words.
func (s Session) SelectPair(pair WordPair) (Session, error) {
	if s.Phase() != PhaseLobby {
		return s, ErrNotInLobby
	}
	if s.Pair != nil {
		return s, nil
	}
	next := s.clone()
	next.Pair = &pair
	return next, nil
}

// ChoosePlayerCount sets how many players the table will seat. The count may
// change while in the lobby but never below the number already seated.
func (s Session) ChoosePlayerCount(n int, lim Limits) (Session, error) {
	if s.Phase() != PhaseLobby {
		return s, ErrNotInLobby
	}
	if !lim.Contains(n) {
		return s, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidPlayerCount, n, lim.Min, lim.Max)
	}
	if n < len(s.Players) {
		return s, fmt.Errorf("%w: %d players already seated", ErrInvalidPlayerCount, len(s.Players))
	}
	next := s.clone()
	next.PlayerCount = n
	return next, nil
}

// AddPlayer seats a new player and deals them a role from the remaining quota.
func (s Session) AddPlayer(id, name string, rng Rand) (Session, Player, error) {
	if s.Phase() != PhaseLobby {
		return s, Player{}, ErrNotInLobby
	}
	if s.PlayerCount == 0 {
		return s, Player{}, ErrPlayerCountNotChosen
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return s, Player{}, ErrEmptyName
	}
	if s.Full() {
		return s, Player{}, ErrRosterFull
	}
	if s.Players.HasName(name) {
		return s, Player{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	assignment, err := AssignRoleForNewPlayer(s.Players, s.Quota(), s.Pair, rng)
	if err != nil {
		return s, Player{}, err
	}

	player := Player{
		ID:   id,
		Name: name,
		Role: assignment.Role,
		Word: assignment.Word,
	}

	next := s.clone()
	next.Players = append(next.Players, player)
	return next, player, nil
}

// RemovePlayer unseats a player while still in the lobby. The roles left
// behind no longer match the quota, which Start corrects.
func (s Session) RemovePlayer(id string) (Session, error) {
	if s.Phase() != PhaseLobby {
		return s, ErrNotInLobby
	}
	idx := s.Players.IndexOf(id)
	if idx < 0 {
		return s, ErrUnknownPlayer
	}
	next := s.clone()
	next.Players = append(next.Players[:idx], next.Players[idx+1:]...)
	return next, nil
}

// Start freezes the roster and begins play. When the dealt roles drifted
// from the quota (players left, or the count changed) every role is dealt
// again; the second return value reports whether that happened.
func (s Session) Start(now time.Time, lim Limits, rng Rand) (Session, bool, error) {
	if s.Phase() != PhaseLobby {
		return s, false, ErrNotInLobby
	}
	if s.PlayerCount == 0 {
		return s, false, ErrPlayerCountNotChosen
	}
	if s.Pair == nil {
		return s, false, ErrNoWordPair
	}
	if len(s.Players) < lim.Min || len(s.Players) != s.PlayerCount {
		return s, false, fmt.Errorf("%w: have %d of %d", ErrNotEnoughPlayers, len(s.Players), s.PlayerCount)
	}

	next := s.clone()
	reassigned := false
	quota := s.Quota()
	if !RolesMatchQuota(next.Players, quota) {
		players, err := ReassignRoles(next.Players, quota, next.Pair, rng)
		if err != nil {
			return s, false, err
		}
		next.Players = players
		reassigned = true
	}

	next.StartedAt = now
	next.RevealedCount = next.Players.RevealedCount()
	return next, reassigned, nil
}

// Reveal turns over the card at index. Revealing Mr. White defers the
// outcome until SubmitGuess; any other reveal is evaluated immediately.
func (s Session) Reveal(index int, now time.Time) (Session, RevealOutcome, error) {
	if s.Phase() != PhaseInProgress {
		return s, RevealOutcome{}, ErrNotInProgress
	}
	if s.PendingGuess != "" {
		return s, RevealOutcome{}, ErrGuessPending
	}
	if index < 0 || index >= len(s.Players) {
		return s, RevealOutcome{}, ErrIndexOutOfRange
	}
	if s.Players[index].Revealed {
		return s, RevealOutcome{}, ErrAlreadyRevealed
	}

	next := s.clone()
	next.Players[index].Revealed = true
	next.RevealedCount = next.Players.RevealedCount()
	revealed := next.Players[index]

	if revealed.Role == MrWhite {
		next.PendingGuess = revealed.ID
		return next, RevealOutcome{Player: revealed, GuessRequired: true}, nil
	}

	if winner, ok := Evaluate(next.Players, next.Pair); ok {
		next.end(winner, now)
	}
	return next, RevealOutcome{Player: revealed, Winner: next.Winner}, nil
}

// SubmitGuess resolves a pending Mr. White guess. A correct guess ends the
// game for Mr. White at once and reveals everyone. A wrong or empty guess
// counts as an ordinary reveal and the table is evaluated again.
func (s Session) SubmitGuess(guess string, now time.Time) (Session, GuessOutcome, error) {
	if s.Phase() != PhaseInProgress {
		return s, GuessOutcome{}, ErrNotInProgress
	}
	if s.PendingGuess == "" {
		return s, GuessOutcome{}, ErrNoGuessPending
	}

	next := s.clone()
	next.PendingGuess = ""

	if CheckGuess(guess, next.Pair) {
		for i := range next.Players {
			next.Players[i].Revealed = true
		}
		next.RevealedCount = len(next.Players)
		next.end(MrWhite, now)
		return next, GuessOutcome{Correct: true, Winner: MrWhite}, nil
	}

	if idx := next.Players.IndexOf(s.PendingGuess); idx >= 0 {
		next.Players[idx].Revealed = true
	}
	next.RevealedCount = next.Players.RevealedCount()
	if winner, ok := Evaluate(next.Players, next.Pair); ok {
		next.end(winner, now)
	}
	return next, GuessOutcome{Winner: next.Winner}, nil
}

func (s *Session) end(winner Role, now time.Time) {
	s.Winner = winner
	s.EndedAt = now
}

func (s Session) clone() Session {
	next := s
	next.Players = s.Players.Clone()
	if s.Pair != nil {
		pair := *s.Pair
		next.Pair = &pair
	}
	return next
}
