package detect

import (
	"fmt"

	"deadclick/internal/intent"
	"deadclick/internal/types"
)

// Confidence anchors for broken-navigation judgments over runtime-discovered
// navigations.
const (
	runtimeNavBase            = 0.85
	routeEvidenceBonus        = 0.05
	screenshotBonus           = 0.05
	consoleErrorPenalty       = 0.2
	blockedWritesPenalty      = 0.2
	iframePenalty             = 0.1
	runtimeNavConfirmFloor    = 0.85
	sourceNavConfirmThreshold = 0.7
)

// BrokenNavigation detects navigation promises that never produced a real
// route or URL change.
type BrokenNavigation struct{}

// NewBrokenNavigation builds the detector.
func NewBrokenNavigation() *BrokenNavigation { return &BrokenNavigation{} }

func (d *BrokenNavigation) Name() string { return string(types.FindingBrokenNavigation) }

// Detect judges one matched navigation pair.
func (d *BrokenNavigation) Detect(exp types.Expectation, obs types.Observation) (*types.Candidate, *types.SilenceSignal, error) {
	if !sharedPreconditions(obs) {
		return nil, nil, nil
	}

	route := obs.Evidence.RouteData
	snap := obs.Evidence.Snapshot

	nav := intent.ClassifyNavigation(snap, route, &exp)
	if nav.Unknown() {
		// Only record the gap if enough context existed to attempt an
		// evaluation in the first place.
		if route != nil || snap != nil {
			return nil, silence(d.Name(), types.SilenceNavIntentUnresolved,
				"navigation intent unresolvable from record, snapshot or promise"), nil
		}
		return nil, nil, nil
	}

	if !nav.ContractEvaluable(route, obs.Channels) {
		return nil, silence(d.Name(), types.SilenceNavObservablesUnavailable,
			"no route record or UI channel to evaluate the navigation contract"), nil
	}

	if nav.Satisfied(obs.Signals, route) {
		return nil, nil, nil
	}

	ev := baseEvidence(obs)
	ev["navigation_intent"] = string(nav.Kind)
	if nav.Target != "" {
		ev["target"] = nav.Target
	}
	if route != nil {
		ev["route_record"] = route.FromURL + " -> " + route.ToURL
	}

	cand := &types.Candidate{
		Type:       types.FindingBrokenNavigation,
		Severity:   types.SeverityHigh,
		Promise:    &exp,
		Observed:   &obs,
		Evidence:   ev,
		Impact:     "user is promised a destination they can never reach",
		Summary:    fmt.Sprintf("navigation to %q never happened", nav.Target),
		Enrichment: types.Enrichment{IntentReasons: nav.Reasons},
	}

	if route != nil && route.RuntimeDiscovered {
		conf := runtimeNavBase
		if route.ExpectedRoute != "" || route.RouteDefinition != "" {
			conf += routeEvidenceBonus
		}
		if obs.Evidence.BeforeScreenshot != "" || obs.Evidence.AfterScreenshot != "" {
			conf += screenshotBonus
		}
		if obs.Signals.ConsoleErrors {
			conf -= consoleErrorPenalty
		}
		if obs.Signals.BlockedWrites {
			conf -= blockedWritesPenalty
		}
		if obs.Signals.IframeContext {
			conf -= iframePenalty
		}
		cand.Confidence = clamp01(conf)

		if cand.Confidence >= runtimeNavConfirmFloor && cand.Evidence.NonEmpty() {
			cand.Status = types.StatusConfirmed
		} else {
			cand.Status = types.StatusSuspected
		}
		return cand, nil, nil
	}

	// Source-extracted promise: pre-screen with the shared formula.
	cand.Confidence = SharedConfidence(obs)
	if cand.Confidence >= sourceNavConfirmThreshold {
		cand.Status = types.StatusConfirmed
	} else {
		cand.Status = types.StatusSuspected
	}
	return cand, nil, nil
}
