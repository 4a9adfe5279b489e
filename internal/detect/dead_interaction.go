package detect

import (
	"fmt"

	"deadclick/internal/actionability"
	"deadclick/internal/intent"
	"deadclick/internal/types"
)

// Confidence anchors for dead-interaction judgments.
const (
	deadInteractionBase = 0.9
	stateContextCap     = 0.3
	recognizedNoOpCap   = 0.2
)

// DeadInteraction detects clicks that executed without error yet produced no
// observable effect at all.
type DeadInteraction struct {
	analyzer *actionability.Analyzer
}

// NewDeadInteraction builds the detector around the actionability analyzer.
func NewDeadInteraction(analyzer *actionability.Analyzer) *DeadInteraction {
	return &DeadInteraction{analyzer: analyzer}
}

func (d *DeadInteraction) Name() string { return string(types.FindingDeadInteraction) }

// Detect judges one matched click pair.
func (d *DeadInteraction) Detect(exp types.Expectation, obs types.Observation) (*types.Candidate, *types.SilenceSignal, error) {
	if !sharedPreconditions(obs) {
		return nil, nil, nil
	}
	if obs.Action != types.ActionClick && obs.Type != types.ObservationInteraction {
		return nil, nil, nil
	}

	// Without the before/after/diff bundle there is no basis to claim
	// "no effect": record the gap, judge nothing.
	if !obs.Evidence.HasStateComparison() {
		return nil, silence(d.Name(), types.SilenceObservablesUnavailable,
			"state-comparison evidence bundle incomplete"), nil
	}

	act, err := d.analyzer.Analyze(obs.Evidence.Snapshot)
	if err != nil {
		return nil, nil, fmt.Errorf("dead interaction actionability: %w", err)
	}
	if !act.Actionable {
		// A click on a non-actionable element is not a broken promise;
		// nothing was there to respond.
		return nil, nil, nil
	}

	it := intent.ClassifyInteraction(obs.Evidence.Snapshot, obs.Action, obs.Evidence.RouteData, &exp)
	if it.Unknown() {
		return nil, silence(d.Name(), types.SilenceIntentBlocked,
			"interaction intent unresolvable; refusing to judge"), nil
	}

	var delta types.SnapshotDelta
	if obs.Evidence.Snapshot != nil {
		delta = obs.Evidence.Snapshot.Delta
	}
	if it.Satisfied(obs.Signals, delta) {
		return nil, nil, nil
	}

	ev := baseEvidence(obs)
	ev["intent"] = string(it.Kind)

	cand := &types.Candidate{
		Type:       types.FindingDeadInteraction,
		Severity:   types.SeverityHigh,
		Promise:    &exp,
		Observed:   &obs,
		Evidence:   ev,
		Impact:     "user action appears to work but nothing happens",
		Summary:    fmt.Sprintf("click on %q produced no observable effect", exp.Value),
		Enrichment: types.Enrichment{IntentReasons: it.Reasons},
	}

	// A legitimate explanation caps the judgment at informational; it never
	// suppresses detection.
	ctx := intent.AnalyzeStateContext(obs, &exp)
	if ctx.Explains() {
		cand.Status = types.StatusInformational
		cand.Severity = types.SeverityLow
		cand.Confidence = stateContextCap
		if ctx.IsNoOp {
			cand.Confidence = recognizedNoOpCap
		}
		cand.Enrichment.StateContext = &ctx
		cand.Summary = fmt.Sprintf("click on %q had no effect, explained by state context", exp.Value)
		return cand, nil, nil
	}

	cand.Status = types.StatusConfirmed
	cand.Confidence = deadInteractionBase
	return cand, nil, nil
}
