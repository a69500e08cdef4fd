package game

import (
	"fmt"
	"time"
)

var (
	testPair = WordPair{Civilian: "apple", Undercover: "pear"}
	testNow  = time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
)

// scriptedRand replays fixed Float64 values and never reorders on Shuffle.
type scriptedRand struct {
	floats []float64
	next   int
}

func newScriptedRand(floats ...float64) *scriptedRand {
	return &scriptedRand{floats: floats}
}

func (s *scriptedRand) Float64() float64 {
	if s.next >= len(s.floats) {
		return 0
	}
	f := s.floats[s.next]
	s.next++
	return f
}

func (s *scriptedRand) IntN(int) int { return 0 }

func (s *scriptedRand) Shuffle(int, func(i, j int)) {}

// reverseRand shuffles by reversing the order, which is easy to predict.
type reverseRand struct{ scriptedRand }

func (r *reverseRand) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

// rosterOf builds an unrevealed roster holding the given roles in order.
func rosterOf(pair WordPair, roles ...Role) Roster {
	roster := make(Roster, len(roles))
	for i, r := range roles {
		roster[i] = Player{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: fmt.Sprintf("Player %d", i+1),
			Role: r,
			Word: pair.WordFor(r),
		}
	}
	return roster
}

// revealAll marks the players at the given indices as revealed.
func revealAll(roster Roster, indices ...int) Roster {
	out := roster.Clone()
	for _, i := range indices {
		out[i].Revealed = true
	}
	return out
}
