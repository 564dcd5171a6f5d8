// Command crewctl administers a FrogCrew roster through the same persister
// the API uses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/frogcrew/internal/app"
	"github.com/riskibarqy/frogcrew/internal/config"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/frogcrew/internal/interfaces/httpapi"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

// cliApp holds what every subcommand needs once the root pre-run has loaded it.
type cliApp struct {
	cfg      config.Config
	logger   *logging.Logger
	store    *memory.Store
	services httpapi.Services
	close    func() error
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &cliApp{}
	var verbose bool

	root := &cobra.Command{
		Use:          "crewctl",
		Short:        "FrogCrew roster administration",
		Long:         "crewctl reads and writes the crew roster using the STORE_* settings of the API.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context(), verbose)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.shutdown()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(snapshotCmd(a))
	root.AddCommand(seedCmd(a))
	root.AddCommand(gamesCmd(a))
	root.AddCommand(candidatesCmd(a))
	return root
}

func (a *cliApp) init(ctx context.Context, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// The CLI seeds explicitly through "crewctl seed".
	cfg.SeedEnabled = false

	level := logging.LevelWarn
	if verbose {
		level = logging.LevelDebug
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Options{Level: level, Output: os.Stderr, Service: "crewctl"})

	store, closeFn, err := app.OpenStore(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	a.store = store
	a.close = closeFn
	a.services = app.NewServices(store, cfg, nil, nil, nil, a.logger)
	return nil
}

func (a *cliApp) shutdown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.close == nil {
		return nil
	}
	return a.close()
}
