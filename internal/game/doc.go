// Package game implements the rules of Undercover: how many players hold
// each role, how roles are dealt, and when the reveals settle the game.
//
// Everything in this package is pure. Functions take a snapshot of the
// roster, quota and word pair and return new values, so they are safe to
// call repeatedly and trivial to test.
//
// # Basic Usage
//
// Deal roles one player at a time while the lobby fills up:
//
//	rng := randutil.New(42)
//	quota := game.RequiredRoles(6)
//	a, err := game.AssignRoleForNewPlayer(roster, quota, &pair, rng)
//
// Then evaluate after every reveal:
//
//	if winner, ok := game.Evaluate(roster, &pair); ok {
//	    fmt.Println(winner, "wins")
//	}
//
// # Sessions
//
// Session strings the rules together into a lobby to result lifecycle.
// Each transition returns the next Session and leaves its receiver alone:
//
//	s, _ := game.Session{}.ChoosePlayerCount(4, game.DefaultLimits())
//	s, _ = s.SelectPair(pair)
//	s, p, err := s.AddPlayer(id, "Alice", rng)
//	...
//	s, reassigned, err := s.Start(now, game.DefaultLimits(), rng)
//	s, outcome, err := s.Reveal(0, now)
//	if outcome.GuessRequired {
//	    s, guess, err := s.SubmitGuess("apple", now)
//	}
//
// # Deterministic Testing
//
// Randomness is injected through the Rand interface, which
// *math/rand/v2.Rand satisfies. Use a fixed seed to make draws repeatable.
package game
