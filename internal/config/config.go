// Package config loads the undercover.hcl settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/undercover/internal/game"
	"github.com/lox/undercover/internal/store"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "undercover.hcl"

// Config represents the complete configuration. Every block is optional;
// after Load each block is non-nil.
type Config struct {
	Game     *GameSettings     `hcl:"game,block"`
	WordPool *WordPoolSettings `hcl:"wordpool,block"`
	Session  *SessionSettings  `hcl:"session,block"`
	Log      *LogSettings      `hcl:"log,block"`
}

// GameSettings narrows the player counts the lobby offers.
type GameSettings struct {
	MinPlayers int `hcl:"min_players,optional"`
	MaxPlayers int `hcl:"max_players,optional"`
}

// WordPoolSettings points at a JSON word pool. Empty uses the built-in pool.
type WordPoolSettings struct {
	Path string `hcl:"path,optional"`
}

// SessionSettings controls where the current session is persisted.
type SessionSettings struct {
	Store    string `hcl:"store,optional"`
	Path     string `hcl:"path,optional"`
	Debounce string `hcl:"debounce,optional"`
}

// LogSettings contains logging configuration.
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	diags = gohcl.DecodeBody(file.Body, nil, &c)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.MinPlayers == 0 {
		c.Game.MinPlayers = game.MinPlayers
	}
	if c.Game.MaxPlayers == 0 {
		c.Game.MaxPlayers = game.MaxPlayers
	}

	if c.WordPool == nil {
		c.WordPool = &WordPoolSettings{}
	}

	if c.Session == nil {
		c.Session = &SessionSettings{}
	}
	if c.Session.Store == "" {
		c.Session.Store = string(store.Bolt)
	}
	if c.Session.Path == "" {
		c.Session.Path = DefaultSessionPath(c.Session.Store)
	}
	if c.Session.Debounce == "" {
		c.Session.Debounce = store.DefaultDebounce.String()
	}

	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "undercover.log"
	}
}

// DefaultSessionPath is where a backend keeps the session when no path is set.
func DefaultSessionPath(backend string) string {
	if backend == string(store.File) {
		return "undercover-session.json"
	}
	return "undercover.db"
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	lim := c.Limits()
	if lim.Min < game.MinPlayers || lim.Max > game.MaxPlayers {
		return fmt.Errorf("player counts must stay between %d and %d", game.MinPlayers, game.MaxPlayers)
	}
	if lim.Min > lim.Max {
		return fmt.Errorf("min_players %d is greater than max_players %d", lim.Min, lim.Max)
	}

	if _, err := store.ParseBackend(c.Session.Store); err != nil {
		return err
	}
	if _, err := c.DebounceDelay(); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

// Limits returns the configured player count range.
func (c *Config) Limits() game.Limits {
	return game.Limits{Min: c.Game.MinPlayers, Max: c.Game.MaxPlayers}
}

// DebounceDelay parses the session debounce duration.
func (c *Config) DebounceDelay() (time.Duration, error) {
	d, err := time.ParseDuration(c.Session.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid session debounce: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("session debounce must be positive: %s", d)
	}
	return d, nil
}
