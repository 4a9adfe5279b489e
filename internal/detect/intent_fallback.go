package detect

import (
	"fmt"

	"deadclick/internal/types"
)

const fallbackConfidence = 0.8

// IntentFallback catches intentful interactions that never got acknowledged,
// including observations with no matched expectation at all. It runs over
// every observation, not just matched pairs, so a click on an element the
// static extractor never saw can still surface as SUSPECTED.
type IntentFallback struct{}

// NewIntentFallback builds the detector.
func NewIntentFallback() *IntentFallback { return &IntentFallback{} }

func (d *IntentFallback) Name() string { return string(types.FindingUnackedInteraction) }

// Sweep judges all observations and returns the synthetic candidates. The
// fallback never emits silence signals and never reaches CONFIRMED; without a
// source promise the most it can claim is suspicion.
func (d *IntentFallback) Sweep(observations []types.Observation) []*types.Candidate {
	var out []*types.Candidate
	for i := range observations {
		if c := d.judge(observations[i]); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (d *IntentFallback) judge(obs types.Observation) *types.Candidate {
	if !sharedPreconditions(obs) {
		return nil
	}
	rec := obs.Evidence.InteractionIntent
	if rec == nil || !rec.Intentful {
		return nil
	}
	if acknowledged(obs) {
		return nil
	}

	subject := "interaction " + obs.ID
	if obs.Evidence.Snapshot != nil {
		subject = obs.Evidence.Snapshot.Describe()
	}

	ev := baseEvidence(obs)
	ev["interaction_intent"] = rec.Kind

	return &types.Candidate{
		Type:       types.FindingUnackedInteraction,
		Status:     types.StatusSuspected,
		Severity:   types.SeverityMedium,
		Confidence: fallbackConfidence,
		Observed:   &obs,
		Evidence:   ev,
		Impact:     "intentful action completed without any acknowledgment to the user",
		Summary:    fmt.Sprintf("%s was never acknowledged", subject),
		Enrichment: types.Enrichment{IntentReasons: rec.Reasons},
	}
}

// acknowledged reports whether any affirmative acknowledgment exists. A nil
// watcher verdict counts as unacknowledged, not as unknown: the fallback is
// deliberately conservative in the other direction (SUSPECTED only).
func acknowledged(obs types.Observation) bool {
	if obs.Signals.OutcomeAcknowledged {
		return true
	}
	w := obs.Evidence.OutcomeWatcher
	return w != nil && w.Acknowledged != nil && *w.Acknowledged
}
