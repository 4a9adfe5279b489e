package detect

import "deadclick/internal/types"

// Shared signal/evidence confidence formula used by the silent-submission
// detector and by source-extracted navigation promises: start from a neutral
// base, credit each corroborating evidence type, debit each signal that
// contradicts a silent-failure claim. This heuristic only pre-screens the
// CONFIRMED/SUSPECTED threshold; the unified five-pillar engine remains the
// canonical scorer for levels and reason codes.
const (
	sharedBaseConfidence       = 0.6
	corroboratingEvidenceBonus = 0.1
	contradictionPenalty       = 0.2
)

// SharedConfidence computes the shared heuristic score for an observation.
func SharedConfidence(obs types.Observation) float64 {
	score := sharedBaseConfidence

	for _, present := range corroboratingEvidence(obs) {
		if present {
			score += corroboratingEvidenceBonus
		}
	}
	for _, fired := range contradictionSignals(obs.Signals) {
		if fired {
			score -= contradictionPenalty
		}
	}

	return clamp01(score)
}

// corroboratingEvidence lists the independent evidence types that strengthen
// a silent-failure claim.
func corroboratingEvidence(obs types.Observation) []bool {
	return []bool{
		obs.Evidence.HasStateComparison(),
		obs.Evidence.RouteData != nil,
		obs.Evidence.MutationSummary != nil,
		obs.Evidence.SourceSnippet != "",
		obs.Evidence.TraceID != "",
	}
}

// contradictionSignals lists signals that contradict the claim of a silent
// failure: the user visibly got something back.
func contradictionSignals(sig types.Signals) []bool {
	return []bool{
		sig.FeedbackSeen,
		sig.ValidationFeedback,
		sig.MeaningfulUIChange,
	}
}
