package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deadclick/internal/artifact"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run detection whenever the artifacts change",
	Long: `Watches the artifact files and re-runs detection after each rewrite,
debounced so the observer finishing a batch of files triggers one run.
Stops on SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		paths := artifact.Paths{
			Expectations: cfg.Artifacts.ExpectationsPath,
			Observations: cfg.Artifacts.ObservationsPath,
			RunInputs:    cfg.Artifacts.RunInputsPath,
		}
		w, err := artifact.NewWatcher(paths, cfg.WatchDebounce())
		if err != nil {
			return err
		}
		defer w.Close()

		ticks := make(chan struct{}, 1)
		errc := make(chan error, 1)
		go func() { errc <- w.Run(ctx, ticks) }()

		// One run up front so the watcher starts from a known state.
		if err := detectOnce(ctx, cmd); err != nil {
			logger.Warn("initial detection failed", zap.Error(err))
		}

		fmt.Fprintln(cmd.OutOrStdout(), "watching artifacts; Ctrl-C to stop")
		for {
			select {
			case <-ticks:
				if err := detectOnce(ctx, cmd); err != nil {
					logger.Warn("detection failed", zap.Error(err))
				}
			case err := <-errc:
				if ctx.Err() != nil {
					return nil
				}
				return err
			case <-ctx.Done():
				return nil
			}
		}
	},
}

func detectOnce(ctx context.Context, cmd *cobra.Command) error {
	runID, res, runInputs, err := runDetection(ctx)
	if err != nil {
		return err
	}
	printRunSummary(cmd, runID, res)
	return persistRun(ctx, runID, runInputs, res)
}
