package guardrails

import "deadclick/internal/types"

// verdict is one evaluator's outcome for one candidate.
type verdict struct {
	fires         bool
	contradiction bool
	message       string
}

type evaluator func(cand types.Candidate, run types.RunInputs) verdict

// evaluators is the closed registry of evaluation types a policy document may
// reference.
var evaluators = map[string]evaluator{
	"network_success_without_ui": func(cand types.Candidate, _ types.RunInputs) verdict {
		sig := signals(cand)
		if (sig.NetworkSuccess || sig.CorrelatedNetworkActivity) &&
			!sig.MeaningfulUIChange && !sig.FeedbackSeen && !sig.ConsoleErrors {
			return verdict{fires: true, contradiction: true,
				message: "network activity succeeded with no UI change and no errors"}
		}
		return verdict{}
	},
	"analytics_only_traffic": func(cand types.Candidate, _ types.RunInputs) verdict {
		if signals(cand).AnalyticsOnlyTraffic {
			return verdict{fires: true,
				message: "only analytics/beacon traffic observed; not a user promise"}
		}
		return verdict{}
	},
	"hash_only_routing": func(cand types.Candidate, _ types.RunInputs) verdict {
		sig := signals(cand)
		route := routeData(cand)
		if sig.HashOnlyRouting || (route != nil && route.HashOnly) {
			return verdict{fires: true, contradiction: true,
				message: "hash-only routing cannot confirm a real navigation"}
		}
		return verdict{}
	},
	"visible_feedback": func(cand types.Candidate, _ types.RunInputs) verdict {
		sig := signals(cand)
		if sig.FeedbackSeen || sig.MeaningfulUIChange {
			return verdict{fires: true, contradiction: true,
				message: "visible UI feedback contradicts a silent-failure claim"}
		}
		return verdict{}
	},
	"disabled_control": func(cand types.Candidate, _ types.RunInputs) verdict {
		snap := snapshot(cand)
		if snap != nil && (snap.Disabled || snap.AriaDisabled) {
			return verdict{fires: true,
				message: "control was disabled; lack of effect is expected behavior"}
		}
		if signals(cand).BlockedWrites {
			return verdict{fires: true,
				message: "writes were blocked; lack of effect is expected behavior"}
		}
		return verdict{}
	},
	"validation_feedback": func(cand types.Candidate, _ types.RunInputs) verdict {
		if signals(cand).ValidationFeedback {
			return verdict{fires: true, contradiction: true,
				message: "validation feedback was shown; the form did respond"}
		}
		return verdict{}
	},
	"incomplete_evidence_package": func(_ types.Candidate, run types.RunInputs) verdict {
		if !run.EvidencePackage.IsComplete {
			return verdict{fires: true,
				message: "evidence package incomplete; confirmation withheld"}
		}
		return verdict{}
	},
}

func signals(cand types.Candidate) types.Signals {
	if cand.Observed == nil {
		return types.Signals{}
	}
	return cand.Observed.Signals
}

func routeData(cand types.Candidate) *types.RouteData {
	if cand.Observed == nil {
		return nil
	}
	return cand.Observed.Evidence.RouteData
}

func snapshot(cand types.Candidate) *types.ElementSnapshot {
	if cand.Observed == nil {
		return nil
	}
	return cand.Observed.Evidence.Snapshot
}

// DefaultPolicy returns the embedded rule set used when no document is
// loaded. Ids are zero-padded so lexical order matches intended order.
func DefaultPolicy() Policy {
	silentClaims := []string{
		string(types.FindingDeadInteraction),
		string(types.FindingSilentSubmission),
		string(types.FindingUnackedInteraction),
	}
	return Policy{
		Version: "1",
		Rules: []Rule{
			{
				ID:                "G010",
				AppliesTo:         silentClaims,
				Evaluation:        Evaluation{Type: "network_success_without_ui"},
				Action:            ActionDowngrade,
				RecommendedStatus: types.StatusSuspected,
				ConfidenceDelta:   -0.1,
				Category:          "contradiction",
			},
			{
				ID:                "G020",
				Evaluation:        Evaluation{Type: "analytics_only_traffic"},
				Action:            ActionBlock,
				RecommendedStatus: types.StatusInformational,
				ConfidenceDelta:   -0.3,
				Category:          "non_promise",
			},
			{
				ID:                "G030",
				AppliesTo:         []string{string(types.FindingBrokenNavigation)},
				Evaluation:        Evaluation{Type: "hash_only_routing"},
				Action:            ActionDowngrade,
				RecommendedStatus: types.StatusSuspected,
				ConfidenceDelta:   -0.15,
				Category:          "contradiction",
			},
			{
				ID:                "G040",
				AppliesTo:         silentClaims,
				Evaluation:        Evaluation{Type: "visible_feedback"},
				Action:            ActionDowngrade,
				RecommendedStatus: types.StatusSuspected,
				ConfidenceDelta:   -0.2,
				Category:          "contradiction",
			},
			{
				ID:                "G050",
				Evaluation:        Evaluation{Type: "disabled_control"},
				Action:            ActionBlock,
				RecommendedStatus: types.StatusInformational,
				ConfidenceDelta:   -0.3,
				Category:          "expected_behavior",
			},
			{
				ID:                "G060",
				AppliesTo:         []string{string(types.FindingSilentSubmission)},
				Evaluation:        Evaluation{Type: "validation_feedback"},
				Action:            ActionDowngrade,
				RecommendedStatus: types.StatusSuspected,
				ConfidenceDelta:   -0.1,
				Category:          "contradiction",
			},
			{
				ID:                "G070",
				Evaluation:        Evaluation{Type: "incomplete_evidence_package"},
				Action:            ActionDowngrade,
				RecommendedStatus: types.StatusSuspected,
				ConfidenceDelta:   -0.1,
				Category:          "evidence",
			},
		},
	}
}
