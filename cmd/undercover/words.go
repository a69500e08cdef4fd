package main

import (
	"fmt"

	"github.com/lox/undercover/cmd/undercover/shared"
	"github.com/lox/undercover/internal/config"
	"github.com/lox/undercover/internal/randutil"
	"github.com/lox/undercover/internal/wordpool"
)

// WordsCmd groups the word pool commands.
type WordsCmd struct {
	Check WordsCheckCmd `cmd:"" help:"Report word pairs that would make a poor round"`
	Draw  WordsDrawCmd  `cmd:"" help:"Draw a word pair the way a new game does"`
}

// WordsCheckCmd validates a word pool.
type WordsCheckCmd struct {
	File string `kong:"arg,optional,type='existingfile',help='Word pool to check (defaults to the configured pool)'"`
}

func (c *WordsCheckCmd) Run(g *Globals) error {
	pool, source, err := loadPool(g, c.File)
	if err != nil {
		return err
	}

	issues := pool.Check()
	for _, issue := range issues {
		fmt.Fprintln(g.Stdout, issue.String())
	}
	if len(issues) > 0 {
		return fmt.Errorf("%s: %d problem(s) in %d pairs", source, len(issues), pool.Len())
	}
	fmt.Fprintf(g.Stdout, "%s: %d pairs, no problems found\n", source, pool.Len())
	return nil
}

// WordsDrawCmd draws a word pair.
type WordsDrawCmd struct {
	File string `kong:"arg,optional,type='existingfile',help='Word pool to draw from (defaults to the configured pool)'"`
	Seed *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *WordsDrawCmd) Run(g *Globals) error {
	pool, _, err := loadPool(g, c.File)
	if err != nil {
		return err
	}

	rng, seed := randutil.FromOptionalSeed(c.Seed)
	shared.SetupLogger(g.Debug).Debug("Drawing word pair", "seed", seed, "pairs", pool.Len())

	pair, err := pool.Draw(rng)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "civilian:   %s\nundercover: %s\n", pair.Civilian, pair.Undercover)
	return nil
}

// loadPool loads file, or the configured pool when file is empty. It also
// returns a name for the pool to show in messages.
func loadPool(g *Globals, file string) (*wordpool.Pool, string, error) {
	cfg, err := loadConfig(g, func(cfg *config.Config) {
		if file != "" {
			cfg.WordPool.Path = file
		}
	})
	if err != nil {
		return nil, "", err
	}

	source := cfg.WordPool.Path
	if source == "" {
		source = "built-in pool"
	}
	pool, err := wordpool.Load(cfg.WordPool.Path)
	if err != nil {
		return nil, "", err
	}
	return pool, source, nil
}
