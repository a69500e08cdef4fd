package game

import "errors"

// Declined operations. A transition that returns one of these leaves the
// session exactly as it was.
var (
	ErrQuotaFilled          = errors.New("every role in the quota is already assigned")
	ErrNoWordPair           = errors.New("no word pair selected")
	ErrNotInLobby           = errors.New("game has already started")
	ErrNotInProgress        = errors.New("game is not in progress")
	ErrPlayerCountNotChosen = errors.New("player count has not been chosen")
	ErrInvalidPlayerCount   = errors.New("invalid player count")
	ErrRosterFull           = errors.New("roster is full")
	ErrNotEnoughPlayers     = errors.New("not enough players to start")
	ErrEmptyName            = errors.New("player name is required")
	ErrDuplicateName        = errors.New("player name already taken")
	ErrUnknownPlayer        = errors.New("unknown player")
	ErrIndexOutOfRange      = errors.New("player index out of range")
	ErrAlreadyRevealed      = errors.New("player already revealed")
	ErrGuessPending         = errors.New("waiting for Mr. White to guess")
	ErrNoGuessPending       = errors.New("no guess is pending")
)
