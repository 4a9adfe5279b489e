// Package artifact loads the extractor and observer output consumed by a run:
// expectations, observations, and the external run inputs (determinism
// verdict, evidence-package completeness). It also watches artifact files so
// watch mode can re-run detection when the observer rewrites them.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"deadclick/internal/logging"
	"deadclick/internal/types"
)

// Bundle is one run's worth of input artifacts.
type Bundle struct {
	Expectations []types.Expectation
	Observations []types.Observation
	RunInputs    types.RunInputs
}

// Paths names the artifact files for a run.
type Paths struct {
	Expectations string
	Observations string
	RunInputs    string
}

// Load reads all three artifacts concurrently. The run-inputs file is
// optional: when absent the run is treated as deterministic with a complete
// package, matching a single uninstrumented run.
func Load(ctx context.Context, paths Paths) (Bundle, error) {
	var bundle Bundle
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := readJSON(ctx, paths.Expectations, &bundle.Expectations); err != nil {
			return fmt.Errorf("expectations: %w", err)
		}
		logging.ArtifactDebug("loaded %d expectations from %s", len(bundle.Expectations), paths.Expectations)
		return nil
	})
	g.Go(func() error {
		if err := readJSON(ctx, paths.Observations, &bundle.Observations); err != nil {
			return fmt.Errorf("observations: %w", err)
		}
		logging.ArtifactDebug("loaded %d observations from %s", len(bundle.Observations), paths.Observations)
		return nil
	})
	g.Go(func() error {
		run, err := loadRunInputs(paths.RunInputs)
		if err != nil {
			return fmt.Errorf("run inputs: %w", err)
		}
		bundle.RunInputs = run
		return nil
	})

	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}
	return bundle, nil
}

func loadRunInputs(path string) (types.RunInputs, error) {
	fallback := types.RunInputs{
		DeterminismVerdict: types.Deterministic,
		EvidencePackage:    types.EvidencePackage{IsComplete: true},
	}
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fallback, nil
		}
		return types.RunInputs{}, err
	}
	var run types.RunInputs
	if err := json.Unmarshal(data, &run); err != nil {
		return types.RunInputs{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if run.DeterminismVerdict != types.Deterministic && run.DeterminismVerdict != types.NonDeterministic {
		return types.RunInputs{}, fmt.Errorf("%s: unknown determinism verdict %q", path, run.DeterminismVerdict)
	}
	return run, nil
}

func readJSON(ctx context.Context, path string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("path not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
