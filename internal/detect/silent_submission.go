package detect

import (
	"fmt"

	"deadclick/internal/intent"
	"deadclick/internal/types"
)

const silentSubmissionConfirmThreshold = 0.7

// SilentSubmission detects form submissions that triggered but produced
// neither a network attempt nor any user-visible outcome.
type SilentSubmission struct{}

// NewSilentSubmission builds the detector.
func NewSilentSubmission() *SilentSubmission { return &SilentSubmission{} }

func (d *SilentSubmission) Name() string { return string(types.FindingSilentSubmission) }

// Detect judges one matched submission pair.
func (d *SilentSubmission) Detect(exp types.Expectation, obs types.Observation) (*types.Candidate, *types.SilenceSignal, error) {
	if !sharedPreconditions(obs) {
		return nil, nil, nil
	}

	sub := intent.ClassifySubmission(obs.Evidence.Snapshot, obs.Type, &exp)
	if sub.Unknown() {
		return nil, silence(d.Name(), types.SilenceSubmissionAmbiguous,
			"nothing ties this interaction to a form submission"), nil
	}

	// The claim "the submission went nowhere" needs the full comparison
	// bundle plus both tri-state sensors. A nil sensor means it never
	// reported, which is not the same as "no attempt".
	if !obs.Evidence.HasStateComparison() ||
		obs.Signals.SubmissionTriggered == nil ||
		obs.Signals.NetworkAttemptAfterSubmit == nil {
		return nil, silence(d.Name(), types.SilenceSubmissionObservablesUnavailable,
			"submission sensors or state-comparison bundle incomplete"), nil
	}

	if !*obs.Signals.SubmissionTriggered {
		// Submission never fired; the dead-interaction detector owns that.
		return nil, nil, nil
	}

	if sub.EffectObserved(obs.Signals) {
		return nil, nil, nil
	}

	ev := baseEvidence(obs)
	ev["submission_intent"] = string(sub.Kind)
	ev["network_attempt_after_submit"] = boolWord(*obs.Signals.NetworkAttemptAfterSubmit)

	cand := &types.Candidate{
		Type:       types.FindingSilentSubmission,
		Severity:   types.SeverityCritical,
		Promise:    &exp,
		Observed:   &obs,
		Evidence:   ev,
		Confidence: SharedConfidence(obs),
		Impact:     "user believes data was submitted but nothing was sent",
		Summary:    fmt.Sprintf("submission of %q triggered but went nowhere", exp.Value),
		Enrichment: types.Enrichment{IntentReasons: sub.Reasons},
	}
	if cand.Confidence >= silentSubmissionConfirmThreshold {
		cand.Status = types.StatusConfirmed
	} else {
		cand.Status = types.StatusSuspected
	}
	return cand, nil, nil
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
