package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"
	"github.com/lox/undercover/cmd/undercover/shared"
	"github.com/lox/undercover/internal/config"
	"github.com/lox/undercover/internal/randutil"
	"github.com/lox/undercover/internal/table"
	"github.com/lox/undercover/internal/tui"
	"github.com/lox/undercover/internal/wordpool"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
)

// PlayCmd runs the terminal game.
type PlayCmd struct {
	StoreFlags `embed:""`

	Seed     *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	WordPool string `kong:"name='wordpool',type='path',help='JSON word pool to draw from instead of the built-in one'"`
	LogFile  string `kong:"type='path',help='Log file (defaults to the config log file)'"`
	Fresh    bool   `kong:"help='Ignore any saved game and start a new one'"`
	NoColor  bool   `kong:"help='Disable colours'"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, func(cfg *config.Config) {
		c.StoreFlags.apply(cfg)
		if c.WordPool != "" {
			cfg.WordPool.Path = c.WordPool
		}
		if c.LogFile != "" {
			cfg.Log.File = c.LogFile
		}
	})
	if err != nil {
		return err
	}

	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logFile, err := shared.OpenLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := shared.SetupFileLogger(logFile, cfg.Log.Level, g.Debug)
	if err != nil {
		return err
	}

	rng, seed := randutil.FromOptionalSeed(c.Seed)
	logger.Info("Starting game", "seed", seed, "store", cfg.Session.Store, "path", cfg.Session.Path)

	pool, err := wordpool.Load(cfg.WordPool.Path)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close session store", "error", err)
		}
	}()

	delay, err := cfg.DebounceDelay()
	if err != nil {
		return err
	}

	tbl := table.New(table.Options{
		Logger:   logger,
		Rand:     rng,
		Clock:    quartz.NewReal(),
		Pool:     pool,
		Store:    st,
		Debounce: delay,
		Limits:   cfg.Limits(),
	})

	ctx, cancel := shared.SetupSignalHandlerWithLogger(logger)
	defer cancel()

	if c.Fresh {
		_ = tbl.Reset(ctx)
	} else if _, err := tbl.Restore(ctx); err != nil {
		// A broken save should not stop people from playing.
		logger.Warn("Starting a new game instead", "error", err)
	}

	program := tea.NewProgram(tui.New(ctx, tbl, logger),
		tea.WithAltScreen(),
		tea.WithoutSignalHandler())

	grp, gctx := errgroup.WithContext(ctx)
	uiCtx, uiDone := context.WithCancel(gctx)

	grp.Go(func() error {
		defer uiDone()
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("terminal UI failed: %w", err)
		}
		return nil
	})

	grp.Go(func() error {
		<-uiCtx.Done()
		// Signal or UI exit; Quit is a no-op once the program has stopped.
		program.Quit()
		return nil
	})

	runErr := grp.Wait()

	if err := tbl.Flush(context.Background()); err != nil {
		logger.Error("Failed to save game on exit", "error", err)
	}
	logger.Info("Game closed")
	return runErr
}
