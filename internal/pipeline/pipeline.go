// Package pipeline composes the full truth-judgment flow: match promises to
// observations, run the detectors, gate CONFIRMED eligibility, score with the
// unified confidence engine, apply guardrails, and validate the batch. The
// whole computation is pure and synchronous; identical inputs and policy
// always produce identical output, and caller-owned slices are never mutated.
package pipeline

import (
	"fmt"
	"strings"

	"deadclick/internal/actionability"
	"deadclick/internal/constitution"
	"deadclick/internal/detect"
	"deadclick/internal/guardrails"
	"deadclick/internal/policy"
	"deadclick/internal/types"
)

// Result is one full run's output. Observations are updated copies carrying
// any silence signals recorded while judging them.
type Result struct {
	Findings     []types.Finding         `json:"findings"`
	Observations []types.Observation     `json:"observations"`
	Summary      types.ValidationSummary `json:"summary"`
}

// Pipeline holds the detectors and engines for a loaded policy. Read-only
// after construction; safe for concurrent runs.
type Pipeline struct {
	analyzer  *actionability.Analyzer
	dead      *detect.DeadInteraction
	nav       *detect.BrokenNavigation
	sub       *detect.SilentSubmission
	fallback  *detect.IntentFallback
	validator *constitution.Validator
	policies  *policy.Store
}

// New builds a pipeline over the given policy store.
func New(store *policy.Store) (*Pipeline, error) {
	if store == nil {
		return nil, fmt.Errorf("pipeline: nil policy store")
	}
	analyzer, err := actionability.NewAnalyzer()
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return &Pipeline{
		analyzer:  analyzer,
		dead:      detect.NewDeadInteraction(analyzer),
		nav:       detect.NewBrokenNavigation(),
		sub:       detect.NewSilentSubmission(),
		fallback:  detect.NewIntentFallback(),
		validator: constitution.NewValidator(),
		policies:  store,
	}, nil
}

// Run judges every observation against its matched promise.
func (p *Pipeline) Run(exps []types.Expectation, obs []types.Observation, run types.RunInputs) (Result, error) {
	// Unmatched observations are not discarded; the fallback sweep below
	// covers them alongside the matched ones.
	pairs, _ := detect.Match(exps, obs)

	// Silences are attached to copies keyed by observation id; the caller's
	// slice stays untouched.
	updated := make([]types.Observation, len(obs))
	copy(updated, obs)
	index := make(map[string]int, len(obs))
	for i, o := range obs {
		index[o.ID] = i
	}
	record := func(id string, sig *types.SilenceSignal) {
		if sig == nil {
			return
		}
		if i, ok := index[id]; ok {
			updated[i] = updated[i].WithSilence(*sig)
		}
	}

	var candidates []*types.Candidate
	for _, pair := range pairs {
		det := p.detectorFor(pair)
		cand, sig, err := det.Detect(pair.Expectation, pair.Observation)
		if err != nil {
			return Result{}, fmt.Errorf("detector %s on %s: %w", det.Name(), pair.Observation.ID, err)
		}
		record(pair.Observation.ID, sig)
		if cand != nil {
			candidates = append(candidates, cand)
		}
	}
	candidates = append(candidates, p.fallback.Sweep(obs)...)

	var findings []types.Finding
	for _, cand := range candidates {
		f, err := p.judge(*cand, run)
		if err != nil {
			return Result{}, err
		}
		findings = append(findings, f)
	}

	final, summary := p.validator.Validate(findings)
	return Result{Findings: final, Observations: updated, Summary: summary}, nil
}

// detectorFor routes a matched pair to the detector owning its family.
func (p *Pipeline) detectorFor(pair detect.MatchedPair) detect.Detector {
	kind := strings.ToLower(pair.Expectation.Kind)
	switch {
	case pair.Observation.Type == types.ObservationNavigation || strings.Contains(kind, "navigation"):
		return p.nav
	case pair.Observation.Type == types.ObservationSubmission ||
		strings.Contains(kind, "submit") || strings.Contains(kind, "form"):
		return p.sub
	default:
		return p.dead
	}
}

// judge takes one surviving candidate through eligibility, scoring, guardrails
// and finalization.
func (p *Pipeline) judge(cand types.Candidate, run types.RunInputs) (types.Finding, error) {
	// CONFIRMED is only legally reachable through the eligibility gate,
	// independent of any score.
	if cand.Status == types.StatusConfirmed {
		actionable, err := p.snapshotActionable(cand)
		if err != nil {
			return types.Finding{}, err
		}
		gate := detect.CheckEligibility(detect.GateInputFromCandidate(cand, true, actionable))
		if !gate.Eligible {
			cand.Status = types.StatusSuspected
			cand.Enrichment.ConfirmedEligibilityMissing = gate.Missing
		}
	}

	scoring := p.policies.Confidence.Score(cand, run)
	if ceiling, capped := p.policies.Confidence.Cap(cand.Status, run); capped && cand.Confidence > ceiling {
		cand.Confidence = ceiling
	}

	report := p.policies.Guardrails.Evaluate(cand, run)
	cand = guardrails.Apply(cand, report)

	f := types.Finding{
		ID:         cand.Identity(),
		Type:       cand.Type,
		Status:     cand.Status,
		Severity:   cand.Severity,
		Confidence: cand.Confidence,
		Promise:    cand.Promise,
		Evidence:   cand.Evidence,
		Enrichment: cand.Enrichment,
		Impact:     cand.Impact,
		Summary:    cand.Summary,
		Scoring:    scoring,
		Guardrails: report,
	}
	if cand.Observed != nil {
		f.ObservedID = cand.Observed.ID
		f.Signals = cand.Observed.Signals
	}
	return f, nil
}

func (p *Pipeline) snapshotActionable(cand types.Candidate) (bool, error) {
	if cand.Observed == nil || cand.Observed.Evidence.Snapshot == nil {
		return false, nil
	}
	res, err := p.analyzer.Analyze(cand.Observed.Evidence.Snapshot)
	if err != nil {
		return false, fmt.Errorf("eligibility actionability: %w", err)
	}
	return res.Actionable, nil
}
