package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyseg/internal/app"
	"github.com/rebeliceyang/lazyseg/internal/config"
	"github.com/rebeliceyang/lazyseg/internal/db/connection"
	"github.com/rebeliceyang/lazyseg/internal/history"
	"github.com/rebeliceyang/lazyseg/internal/logging"
	"github.com/rebeliceyang/lazyseg/internal/segments"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	segmentName string
	noMouse     bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lazyseg",
		Short: "lazyseg builds property segments in your terminal",
		Long: `lazyseg is a terminal segment builder. Combine filters into AND/OR
groups, preview the resulting SQL, and keep a library of saved segments.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/lazyseg/config.yaml)")
	rootCmd.Flags().StringVarP(&segmentName, "segment", "s", "", "open a saved segment by name")
	rootCmd.Flags().BoolVar(&noMouse, "no-mouse", false, "disable mouse support")

	rootCmd.AddCommand(newSegmentsCmd(), newHistoryCmd())
	return rootCmd
}

// loadConfig reads the config file, falling back to defaults with a warning
func loadConfig(stderr io.Writer) *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}
	return cfg
}

func openLibrary(cfg *config.Config) (*segments.Manager, error) {
	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	return segments.NewManager(dir)
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	return history.NewStore(filepath.Join(dir, "history.db"))
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd.ErrOrStderr())
	if noMouse {
		cfg.UI.MouseEnabled = false
	}

	// The alt screen owns the terminal, so logs only go to a file if one is set
	closeLog, err := logging.Setup(cfg.Log, nil)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	library, err := openLibrary(cfg)
	if err != nil {
		return err
	}

	deps := app.Deps{Library: library}

	if cfg.Storage.HistoryEnabled {
		store, err := openHistory(cfg)
		if err != nil {
			slog.Warn("history disabled", "error", err)
		} else {
			defer store.Close()
			deps.History = store
		}
	}

	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(max(cfg.Database.TimeoutSeconds, 1))*time.Second)
		pool, err := connection.NewPool(ctx, cfg.Database.DSN)
		cancel()
		if err != nil {
			slog.Warn("match counting disabled", "error", err)
		} else {
			defer pool.Close()
			deps.Counter = pool
		}
	}

	zone.NewGlobal()

	a := app.New(cfg, deps)
	defer a.Close()

	if segmentName != "" {
		saved, err := library.FindByName(segmentName)
		if err != nil {
			return err
		}
		if err := a.LoadSegment(saved.Segment); err != nil {
			return fmt.Errorf("segment %q cannot be opened: %w", saved.Name, err)
		}
		if err := library.RecordUsage(saved.ID); err != nil {
			slog.Warn("failed to record segment usage", "id", saved.ID, "error", err)
		}
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(a, opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// setupCLILogging sends logs to stderr for the non-interactive subcommands
func setupCLILogging(cmd *cobra.Command, cfg *config.Config) (func() error, error) {
	return logging.Setup(cfg.Log, cmd.ErrOrStderr())
}
