package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deadclick/internal/artifact"
	"deadclick/internal/logging"
	"deadclick/internal/pipeline"
	"deadclick/internal/policy"
	"deadclick/internal/store"
	"deadclick/internal/types"
)

var (
	expectationsPath string
	observationsPath string
	runInputsPath    string
	noSave           bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run detection over the current artifacts",
	Long: `Loads the expectation and observation artifacts, runs the full judgment
pipeline under the configured policy, prints a summary, and persists the run
to the findings database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, res, runInputs, err := runDetection(cmd.Context())
		if err != nil {
			return err
		}
		printRunSummary(cmd, runID, res)

		if noSave {
			return nil
		}
		return persistRun(cmd.Context(), runID, runInputs, res)
	},
}

func init() {
	detectCmd.Flags().StringVar(&expectationsPath, "expectations", "", "expectations artifact (overrides config)")
	detectCmd.Flags().StringVar(&observationsPath, "observations", "", "observations artifact (overrides config)")
	detectCmd.Flags().StringVar(&runInputsPath, "run-inputs", "", "run inputs artifact (overrides config)")
	detectCmd.Flags().BoolVar(&noSave, "no-save", false, "skip persisting the run")
}

// runDetection is shared by detect and watch.
func runDetection(ctx context.Context) (string, pipeline.Result, types.RunInputs, error) {
	timer := logging.StartTimer(logging.CategoryPipeline, "detection run")
	defer timer.Stop()

	paths := artifact.Paths{
		Expectations: cfg.Artifacts.ExpectationsPath,
		Observations: cfg.Artifacts.ObservationsPath,
		RunInputs:    cfg.Artifacts.RunInputsPath,
	}
	if expectationsPath != "" {
		paths.Expectations = expectationsPath
	}
	if observationsPath != "" {
		paths.Observations = observationsPath
	}
	if runInputsPath != "" {
		paths.RunInputs = runInputsPath
	}

	bundle, err := artifact.Load(ctx, paths)
	if err != nil {
		return "", pipeline.Result{}, types.RunInputs{}, err
	}

	// Policy failures abort here, before any judgment happens.
	policies, err := policy.Load(cfg.Policy.GuardrailsPath, cfg.Policy.ConfidencePath)
	if err != nil {
		return "", pipeline.Result{}, types.RunInputs{}, err
	}

	p, err := pipeline.New(policies)
	if err != nil {
		return "", pipeline.Result{}, types.RunInputs{}, err
	}

	runID := fmt.Sprintf("run_%s", uuid.New().String()[:8])
	logger.Info("judging promises",
		zap.String("run", runID),
		zap.Int("expectations", len(bundle.Expectations)),
		zap.Int("observations", len(bundle.Observations)))

	res, err := p.Run(bundle.Expectations, bundle.Observations, bundle.RunInputs)
	if err != nil {
		return "", pipeline.Result{}, types.RunInputs{}, err
	}
	logging.Pipeline("run %s: %d findings emitted, %d dropped, %d collapsed",
		runID, res.Summary.Emitted, len(res.Summary.DroppedIDs), len(res.Summary.CollapsedIDs))

	return runID, res, bundle.RunInputs, nil
}

func persistRun(ctx context.Context, runID string, runInputs types.RunInputs, res pipeline.Result) error {
	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveRun(ctx, runID, runInputs, res); err != nil {
		return err
	}
	logger.Info("run saved", zap.String("run", runID), zap.String("db", cfg.Store.DatabasePath))
	return nil
}

func printRunSummary(cmd *cobra.Command, runID string, res pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summaryLine(runID, res))

	for _, f := range res.Findings {
		fmt.Fprintln(out, findingLine(f))
	}

	silences := 0
	for _, o := range res.Observations {
		silences += len(o.Silences)
	}
	if silences > 0 {
		fmt.Fprintln(out, silenceLine(silences))
	}
}
