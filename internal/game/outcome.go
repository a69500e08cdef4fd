package game

import "strings"

// Evaluate decides whether the reveals so far settle the game.
//
// Civilians win once every Undercover and Mr. White has been revealed while a
// civilian is still hidden. Mr. White wins when only Mr. White remains hidden.
// Undercover wins once every civilian and Mr. White is revealed, whether or
// not an Undercover is still hidden. Any other state, or a missing word pair,
// leaves the game running.
func Evaluate(roster Roster, pair *WordPair) (Role, bool) {
	if pair == nil {
		return NoRole, false
	}

	undercoverAlive := roster.AnyAlive(Undercover)
	civilianAlive := roster.AnyAlive(Civilian)
	mrwhiteAlive := roster.AnyAlive(MrWhite)

	switch {
	case !undercoverAlive && civilianAlive && !mrwhiteAlive:
		return Civilian, true
	case !undercoverAlive && !civilianAlive && mrwhiteAlive:
		return MrWhite, true
	case !civilianAlive && !mrwhiteAlive:
		return Undercover, true
	}
	return NoRole, false
}

// CheckGuess reports whether Mr. White's guess names the civilian word.
// Comparison ignores surrounding whitespace and case. An empty guess never
// matches.
func CheckGuess(guess string, pair *WordPair) bool {
	if pair == nil {
		return false
	}
	g := strings.TrimSpace(guess)
	if g == "" {
		return false
	}
	return strings.EqualFold(g, strings.TrimSpace(pair.Civilian))
}
