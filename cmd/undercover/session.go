package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lox/undercover/cmd/undercover/shared"
)

// SessionCmd groups the saved-game commands.
type SessionCmd struct {
	Show  SessionShowCmd  `cmd:"" help:"Print the saved game as JSON"`
	Clear SessionClearCmd `cmd:"" help:"Delete the saved game"`
}

// SessionShowCmd prints the stored session.
type SessionShowCmd struct {
	StoreFlags `embed:""`
}

func (c *SessionShowCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, c.StoreFlags.apply)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := st.Load(context.Background())
	if err != nil {
		return err
	}
	if s == nil {
		fmt.Fprintln(g.Stdout, "No saved game")
		return nil
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	fmt.Fprintln(g.Stdout, string(data))
	return nil
}

// SessionClearCmd deletes the stored session.
type SessionClearCmd struct {
	StoreFlags `embed:""`
}

func (c *SessionClearCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, c.StoreFlags.apply)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Clear(context.Background()); err != nil {
		return err
	}
	shared.SetupLogger(g.Debug).Info("Saved game cleared", "store", cfg.Session.Store, "path", cfg.Session.Path)
	return nil
}
