package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"infinite-experiment/pilotlog/internal/config"
	"infinite-experiment/pilotlog/internal/db/repositories"
	"infinite-experiment/pilotlog/internal/logging"

	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitPartial = 3
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// app is shared by every subcommand once the root pre-run has loaded config.
type app struct {
	cfg *config.Config
}

func (a *app) openStore(ctx context.Context) (repositories.Store, error) {
	store, err := repositories.Open(ctx, a.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", a.cfg.Storage.Driver, err)
	}
	return store, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pilotlog",
		Short:         "Import pilot logbook exports and render them as import-template CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return withCode(exitUsage, err)
			}
			if err := logging.Init(cfg.AppEnv, cfg.Log.Level); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Close()
		},
	}

	root.AddCommand(
		newImportCmd(a),
		newExportCmd(a),
		newStatsCmd(a),
		newDeleteAircraftCmd(a),
		newTokenCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		os.Exit(exitOK)
	}

	fmt.Fprintln(os.Stderr, "error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	os.Exit(exitFailure)
}
