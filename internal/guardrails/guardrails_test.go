package guardrails

import (
	"testing"

	"deadclick/internal/types"
)

func completeRun() types.RunInputs {
	return types.RunInputs{
		DeterminismVerdict: types.Deterministic,
		EvidencePackage:    types.EvidencePackage{IsComplete: true},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultPolicy())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineRejectsBadPolicies(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{
			name:  "unknown evaluation type",
			rules: []Rule{{ID: "R1", Evaluation: Evaluation{Type: "nope"}, Action: ActionInfo}},
		},
		{
			name: "duplicate id",
			rules: []Rule{
				{ID: "R1", Evaluation: Evaluation{Type: "visible_feedback"}, Action: ActionInfo},
				{ID: "R1", Evaluation: Evaluation{Type: "visible_feedback"}, Action: ActionInfo},
			},
		},
		{
			name:  "unknown action",
			rules: []Rule{{ID: "R1", Evaluation: Evaluation{Type: "visible_feedback"}, Action: "ESCALATE"}},
		},
		{
			name:  "downgrade without recommended status",
			rules: []Rule{{ID: "R1", Evaluation: Evaluation{Type: "visible_feedback"}, Action: ActionDowngrade}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewEngine(Policy{Version: "1", Rules: tc.rules}); err == nil {
				t.Error("bad policy accepted")
			}
		})
	}
}

// A confirmed dead interaction with successful correlated network activity
// but no UI change must be forced down to SUSPECTED.
func TestNetworkSuccessWithoutUIForcesSuspected(t *testing.T) {
	e := newTestEngine(t)

	cand := types.Candidate{
		Type:       types.FindingDeadInteraction,
		Status:     types.StatusConfirmed,
		Confidence: 0.9,
		Observed: &types.Observation{
			Signals: types.Signals{CorrelatedNetworkActivity: true},
		},
	}

	report := e.Evaluate(cand, completeRun())
	if report.RecommendedStatus != types.StatusSuspected {
		t.Fatalf("recommended = %q, want SUSPECTED (report %+v)", report.RecommendedStatus, report)
	}

	out := Apply(cand, report)
	if out.Status != types.StatusSuspected {
		t.Errorf("status = %s, want SUSPECTED", out.Status)
	}
	if out.Confidence >= cand.Confidence {
		t.Errorf("confidence = %v, want below %v", out.Confidence, cand.Confidence)
	}
}

func TestGuardrailsNeverUpgrade(t *testing.T) {
	e := newTestEngine(t)

	cand := types.Candidate{
		Type:       types.FindingDeadInteraction,
		Status:     types.StatusInformational,
		Confidence: 0.3,
		Observed: &types.Observation{
			Signals: types.Signals{CorrelatedNetworkActivity: true},
		},
	}

	report := e.Evaluate(cand, completeRun())
	if report.RecommendedStatus != "" {
		t.Fatalf("recommended = %q, want none: SUSPECTED is above INFORMATIONAL", report.RecommendedStatus)
	}
	if out := Apply(cand, report); types.StatusPrivilege(out.Status) > types.StatusPrivilege(cand.Status) {
		t.Errorf("status rose from %s to %s", cand.Status, out.Status)
	}
}

func TestBlockOutranksDowngrade(t *testing.T) {
	e := newTestEngine(t)

	// Analytics-only traffic (BLOCK -> INFORMATIONAL) alongside a
	// network-success contradiction (DOWNGRADE -> SUSPECTED).
	cand := types.Candidate{
		Type:       types.FindingDeadInteraction,
		Status:     types.StatusConfirmed,
		Confidence: 0.9,
		Observed: &types.Observation{
			Signals: types.Signals{
				CorrelatedNetworkActivity: true,
				AnalyticsOnlyTraffic:      true,
			},
		},
	}

	report := e.Evaluate(cand, completeRun())
	if report.RecommendedStatus != types.StatusInformational {
		t.Fatalf("recommended = %q, want INFORMATIONAL from the blocking rule", report.RecommendedStatus)
	}
	if len(report.AppliedRules) < 2 {
		t.Errorf("applied = %v, want both rules recorded", report.AppliedRules)
	}
}

func TestDeltasSumAndClamp(t *testing.T) {
	e := newTestEngine(t)

	cand := types.Candidate{
		Type:       types.FindingSilentSubmission,
		Status:     types.StatusConfirmed,
		Confidence: 0.2,
		Observed: &types.Observation{
			Signals: types.Signals{
				CorrelatedNetworkActivity: true,
				AnalyticsOnlyTraffic:      true,
				ValidationFeedback:        true,
			},
		},
	}

	report := e.Evaluate(cand, completeRun())
	if len(report.ConfidenceAdjustments) < 3 {
		t.Fatalf("adjustments = %+v, want one per fired rule", report.ConfidenceAdjustments)
	}
	var sum float64
	for _, a := range report.ConfidenceAdjustments {
		sum += a.Delta
	}
	if sum != report.ConfidenceDelta {
		t.Errorf("delta total %v does not match adjustments sum %v", report.ConfidenceDelta, sum)
	}

	out := Apply(cand, report)
	if out.Confidence < 0 || out.Confidence > 1 {
		t.Errorf("confidence %v outside [0,1]", out.Confidence)
	}
}

func TestIncompletePackageForcesSuspected(t *testing.T) {
	e := newTestEngine(t)

	cand := types.Candidate{
		Type:       types.FindingBrokenNavigation,
		Status:     types.StatusConfirmed,
		Confidence: 0.95,
		Observed:   &types.Observation{},
	}
	run := completeRun()
	run.EvidencePackage.IsComplete = false

	report := e.Evaluate(cand, run)
	if report.RecommendedStatus != types.StatusSuspected {
		t.Fatalf("recommended = %q, want SUSPECTED for incomplete package", report.RecommendedStatus)
	}
}

func TestHashOnlyRoutingAppliesToNavigationOnly(t *testing.T) {
	e := newTestEngine(t)

	sig := types.Signals{HashOnlyRouting: true}
	nav := types.Candidate{
		Type: types.FindingBrokenNavigation, Status: types.StatusConfirmed, Confidence: 0.9,
		Observed: &types.Observation{Signals: sig},
	}
	dead := types.Candidate{
		Type: types.FindingDeadInteraction, Status: types.StatusConfirmed, Confidence: 0.9,
		Observed: &types.Observation{Signals: sig},
	}

	if rep := e.Evaluate(nav, completeRun()); rep.RecommendedStatus != types.StatusSuspected {
		t.Errorf("navigation recommended = %q, want SUSPECTED", rep.RecommendedStatus)
	}
	if rep := e.Evaluate(dead, completeRun()); len(rep.AppliedRules) != 0 {
		t.Errorf("dead interaction applied = %v, want no hash-routing rule", rep.AppliedRules)
	}
}
