// Package wordpool loads the list of word pairs a session draws from.
package wordpool

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lox/undercover/internal/game"
)

//go:embed wordpool.json
var defaultPool []byte

// ErrEmptyPool is returned when a pool has no pairs to draw from.
var ErrEmptyPool = errors.New("word pool is empty")

// Pool is an immutable list of word pairs.
type Pool struct {
	pairs []game.WordPair
}

// Issue describes a pair that breaks the pool's assumptions.
type Issue struct {
	Index   int
	Pair    game.WordPair
	Problem string
}

func (i Issue) String() string {
	return fmt.Sprintf("pair %d (%q / %q): %s", i.Index, i.Pair.Civilian, i.Pair.Undercover, i.Problem)
}

// Default returns the pool compiled into the binary.
func Default() *Pool {
	p, err := Parse(defaultPool)
	if err != nil {
		panic("embedded word pool is invalid: " + err.Error())
	}
	return p
}

// Load reads a JSON pool from path. An empty path selects the default pool.
func Load(path string) (*Pool, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word pool: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a JSON array of {"civilian", "undercover"} objects.
func Parse(data []byte) (*Pool, error) {
	var pairs []game.WordPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("failed to decode word pool: %w", err)
	}
	if len(pairs) == 0 {
		return nil, ErrEmptyPool
	}
	return &Pool{pairs: pairs}, nil
}

// Len returns the number of pairs in the pool.
func (p *Pool) Len() int {
	return len(p.pairs)
}

// Pairs returns a copy of the pool's pairs.
func (p *Pool) Pairs() []game.WordPair {
	out := make([]game.WordPair, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// Draw picks a pair uniformly at random.
func (p *Pool) Draw(rng game.Rand) (game.WordPair, error) {
	if p == nil || len(p.pairs) == 0 {
		return game.WordPair{}, ErrEmptyPool
	}
	return p.pairs[rng.IntN(len(p.pairs))], nil
}

// Check reports pairs that would make a poor round: blank words, or a
// civilian word that is the same as the undercover word. These are not
// rejected at draw time.
func (p *Pool) Check() []Issue {
	var issues []Issue
	seen := make(map[string]int, len(p.pairs))

	for i, pair := range p.pairs {
		civ := strings.TrimSpace(pair.Civilian)
		und := strings.TrimSpace(pair.Undercover)

		switch {
		case civ == "" || und == "":
			issues = append(issues, Issue{Index: i, Pair: pair, Problem: "blank word"})
		case strings.EqualFold(civ, und):
			issues = append(issues, Issue{Index: i, Pair: pair, Problem: "civilian and undercover words are the same"})
		}

		key := strings.ToLower(civ) + "\x00" + strings.ToLower(und)
		if first, dup := seen[key]; dup {
			issues = append(issues, Issue{Index: i, Pair: pair, Problem: fmt.Sprintf("duplicate of pair %d", first)})
		} else {
			seen[key] = i
		}
	}
	return issues
}
