package main

import (
	"fmt"

	"github.com/lox/undercover/internal/config"
	"github.com/lox/undercover/internal/store"
)

// StoreFlags override the session block of the config file.
type StoreFlags struct {
	Store     string `kong:"help='Session store (bolt, file or memory)'"`
	StorePath string `kong:"type='path',help='Where the session store keeps its data'"`
}

func (f StoreFlags) apply(cfg *config.Config) {
	if f.Store != "" && f.Store != cfg.Session.Store {
		cfg.Session.Store = f.Store
		cfg.Session.Path = config.DefaultSessionPath(f.Store)
	}
	if f.StorePath != "" {
		cfg.Session.Path = f.StorePath
	}
}

// loadConfig reads the config file, lets mutate apply flag overrides and
// validates the result.
func loadConfig(g *Globals, mutate func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	backend, err := store.ParseBackend(cfg.Session.Store)
	if err != nil {
		return nil, err
	}
	return store.Open(backend, cfg.Session.Path)
}
