package detect

import (
	"deadclick/internal/types"
)

// GateInput is the evidence slice the CONFIRMED eligibility gate inspects.
// Decoupled from Candidate so the gate can be checked independently of how a
// candidate was produced.
type GateInput struct {
	Type               types.FindingType
	Attempted          bool
	ActionSuccess      bool
	IntentResolved     bool
	SnapshotActionable bool
	Signals            types.Signals
	Evidence           types.EvidenceRefs
	RouteData          *types.RouteData
}

// GateInputFromCandidate derives the gate input from a candidate produced by
// the detectors in this package.
func GateInputFromCandidate(c types.Candidate, intentResolved, snapshotActionable bool) GateInput {
	in := GateInput{
		Type:               c.Type,
		IntentResolved:     intentResolved,
		SnapshotActionable: snapshotActionable,
	}
	if c.Observed != nil {
		in.Attempted = c.Observed.Attempted
		in.ActionSuccess = c.Observed.ActionSuccess
		in.Signals = c.Observed.Signals
		in.Evidence = c.Observed.Evidence
		in.RouteData = c.Observed.Evidence.RouteData
	}
	return in
}

// CheckEligibility decides whether a candidate of the given type may carry a
// CONFIRMED status at all. Every missing requirement is named, so a downgrade
// stays explainable.
func CheckEligibility(in GateInput) types.EligibilityResult {
	var missing []string

	// Fallback findings have no source promise; they can never be CONFIRMED.
	if in.Type == types.FindingUnackedInteraction {
		return types.EligibilityResult{Missing: []string{"source promise"}}
	}

	if !in.Attempted {
		missing = append(missing, "interaction attempted")
	}
	if !in.ActionSuccess {
		missing = append(missing, "action success")
	}
	if !in.Evidence.HasStateComparison() {
		missing = append(missing, "state-comparison bundle")
	}
	if !in.IntentResolved {
		missing = append(missing, "resolved intent")
	}

	switch in.Type {
	case types.FindingDeadInteraction:
		if !in.SnapshotActionable {
			missing = append(missing, "actionable element")
		}
	case types.FindingBrokenNavigation:
		if in.RouteData == nil {
			missing = append(missing, "route record")
		}
	case types.FindingSilentSubmission:
		if in.Signals.SubmissionTriggered == nil {
			missing = append(missing, "submission sensor")
		}
		if in.Signals.NetworkAttemptAfterSubmit == nil {
			missing = append(missing, "post-submit network sensor")
		}
	}

	return types.EligibilityResult{Eligible: len(missing) == 0, Missing: missing}
}
