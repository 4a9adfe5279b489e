package confidence

import "deadclick/internal/types"

const maxTopReasons = 4

// Core reason buckets. Only these ever reach ConfidenceResult.Reasons;
// everything else is advisory context and never scored.
const (
	ReasonCriticalEvidence   = "critical_evidence"
	ReasonMultiSource        = "multi_source_corroboration"
	ReasonAssetCriticality   = "asset_criticality"
	ReasonKnownFailureMarker = "known_failure_indicators"
	ReasonReachability       = "reachability"
	ReasonFlowBlocking       = "flow_blocking_path"
	ReasonImpactRadius       = "impact_radius"
)

// coreReasons gates each bucket on the candidate and its pillar sub-scores.
// Bucket order is fixed so output is deterministic.
func coreReasons(cand types.Candidate, p pillars) []string {
	var ev types.EvidenceRefs
	attempted := false
	if cand.Observed != nil {
		ev = cand.Observed.Evidence
		attempted = cand.Observed.Attempted && cand.Observed.ActionSuccess
	}

	var reasons []string

	if p.evidence >= 0.75 || ev.HasStateComparison() {
		reasons = append(reasons, ReasonCriticalEvidence)
	}
	if corroboratingSources(ev) >= 2 {
		reasons = append(reasons, ReasonMultiSource)
	}
	if cand.Severity == types.SeverityCritical || cand.Severity == types.SeverityHigh {
		reasons = append(reasons, ReasonAssetCriticality)
	}
	if cand.Status != types.StatusInformational && knownFailureType(cand.Type) {
		reasons = append(reasons, ReasonKnownFailureMarker)
	}
	if attempted {
		reasons = append(reasons, ReasonReachability)
	}
	if cand.Type == types.FindingSilentSubmission {
		reasons = append(reasons, ReasonFlowBlocking)
	}
	if cand.Type == types.FindingBrokenNavigation || ev.RouteData != nil {
		reasons = append(reasons, ReasonImpactRadius)
	}

	return reasons
}

func corroboratingSources(ev types.EvidenceRefs) int {
	n := 0
	if ev.BeforeScreenshot != "" && ev.AfterScreenshot != "" {
		n++
	}
	if ev.DomDiff != "" {
		n++
	}
	if ev.TraceID != "" {
		n++
	}
	if ev.RouteData != nil {
		n++
	}
	if ev.MutationSummary != nil {
		n++
	}
	if ev.SourceSnippet != "" {
		n++
	}
	return n
}

func knownFailureType(t types.FindingType) bool {
	switch t {
	case types.FindingDeadInteraction, types.FindingBrokenNavigation, types.FindingSilentSubmission:
		return true
	}
	return false
}

// topReasons keeps the leading buckets for operator display.
func topReasons(reasons []string) []string {
	if len(reasons) <= maxTopReasons {
		return reasons
	}
	return reasons[:maxTopReasons]
}
