// deadclick judges silent UI failures: it consumes statically-extracted
// interaction promises and runtime observations, and emits validated,
// identity-stable findings for the promises that were silently broken.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"deadclick/internal/config"
	"deadclick/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deadclick",
	Short: "deadclick - silent UI failure detection",
	Long: `deadclick detects interactions that execute without error but produce no
observable effect: dead clicks, broken navigations, and submissions that go
nowhere.

It consumes two artifacts produced by external tooling (extracted interaction
promises and recorded runtime observations), judges each promise against what
was actually observed, and emits findings that survive a strict evidence
constitution. When the evidence is insufficient to judge, it records an
auditable silence signal instead of guessing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".deadclick/config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", ".", "workspace directory")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
