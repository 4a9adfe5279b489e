package detect

import (
	"math"
	"testing"

	"deadclick/internal/actionability"
	"deadclick/internal/types"
)

func boolPtr(b bool) *bool { return &b }

// bundledObservation returns an observation with the full state-comparison
// bundle and instrumented channels; tests mutate it from there.
func bundledObservation(id string) types.Observation {
	return types.Observation{
		ID:            id,
		Type:          types.ObservationInteraction,
		Action:        types.ActionClick,
		Attempted:     true,
		ActionSuccess: true,
		Channels:      types.ChannelPresence{Network: true, Console: true, UI: true},
		Evidence: types.EvidenceRefs{
			BeforeScreenshot: "before.png",
			AfterScreenshot:  "after.png",
			DomDiff:          "diff.json",
		},
	}
}

func actionableButton(text string) *types.ElementSnapshot {
	return &types.ElementSnapshot{
		TagName:     "button",
		Text:        text,
		Visible:     true,
		BoundingBox: types.BoundingBox{Width: 120, Height: 32},
	}
}

func TestMatchPairsByID(t *testing.T) {
	exps := []types.Expectation{{ID: "a"}, {ID: "b"}}
	obs := []types.Observation{{ID: "b"}, {ID: "c"}}

	pairs, unmatched := Match(exps, obs)
	if len(pairs) != 1 || pairs[0].Expectation.ID != "b" {
		t.Fatalf("pairs = %+v, want single match on b", pairs)
	}
	if len(unmatched) != 1 || unmatched[0].ID != "c" {
		t.Fatalf("unmatched = %+v, want [c]", unmatched)
	}
}

func TestDeadInteractionConfirmed(t *testing.T) {
	analyzer, err := actionability.NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	d := NewDeadInteraction(analyzer)

	exp := types.Expectation{ID: "e1", Kind: "click_handler", Value: "Save settings"}
	obs := bundledObservation("e1")
	obs.Evidence.Snapshot = actionableButton("Save settings")

	cand, sil, err := d.Detect(exp, obs)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if sil != nil {
		t.Fatalf("unexpected silence %+v", sil)
	}
	if cand == nil {
		t.Fatal("expected a candidate")
	}
	if cand.Status != types.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", cand.Status)
	}
	if cand.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", cand.Confidence)
	}
	if !cand.Evidence.NonEmpty() {
		t.Error("candidate carries no evidence")
	}
}

// A no-op action on an empty state is still reported, but only as
// informational with a hard confidence cap.
func TestDeadInteractionEmptyStateInformational(t *testing.T) {
	analyzer, err := actionability.NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	d := NewDeadInteraction(analyzer)

	exp := types.Expectation{ID: "e1", Kind: "click_handler", Value: "Clear all"}
	obs := bundledObservation("e1")
	obs.Evidence.Snapshot = actionableButton("Clear all")
	obs.Signals.EmptyState = true

	cand, sil, err := d.Detect(exp, obs)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if sil != nil {
		t.Fatalf("unexpected silence %+v", sil)
	}
	if cand == nil {
		t.Fatal("expected an informational candidate, not suppression")
	}
	if cand.Status != types.StatusInformational {
		t.Errorf("status = %s, want INFORMATIONAL", cand.Status)
	}
	if cand.Confidence > 0.3 {
		t.Errorf("confidence = %v, want <= 0.3", cand.Confidence)
	}
	if cand.Enrichment.StateContext == nil || !cand.Enrichment.StateContext.Explains() {
		t.Error("state context explanation missing from enrichment")
	}
}

func TestDeadInteractionSilences(t *testing.T) {
	analyzer, err := actionability.NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	d := NewDeadInteraction(analyzer)
	exp := types.Expectation{ID: "e1", Kind: "click_handler", Value: "Go"}

	t.Run("missing bundle", func(t *testing.T) {
		obs := bundledObservation("e1")
		obs.Evidence.DomDiff = ""
		obs.Evidence.Snapshot = actionableButton("Go")

		cand, sil, err := d.Detect(exp, obs)
		if err != nil || cand != nil {
			t.Fatalf("cand=%+v err=%v, want silence only", cand, err)
		}
		if sil == nil || sil.Code != types.SilenceObservablesUnavailable {
			t.Fatalf("silence = %+v, want %s", sil, types.SilenceObservablesUnavailable)
		}
	})

	t.Run("unknown intent", func(t *testing.T) {
		obs := bundledObservation("e1")
		obs.Evidence.Snapshot = &types.ElementSnapshot{
			TagName:     "div",
			Visible:     true,
			BoundingBox: types.BoundingBox{Width: 10, Height: 10},
		}

		cand, sil, err := d.Detect(exp, obs)
		if err != nil || cand != nil {
			t.Fatalf("cand=%+v err=%v, want silence only", cand, err)
		}
		if sil == nil || sil.Code != types.SilenceIntentBlocked {
			t.Fatalf("silence = %+v, want %s", sil, types.SilenceIntentBlocked)
		}
	})

	t.Run("non actionable element stays quiet", func(t *testing.T) {
		obs := bundledObservation("e1")
		snap := actionableButton("Go")
		snap.Disabled = true
		obs.Evidence.Snapshot = snap

		cand, sil, err := d.Detect(exp, obs)
		if err != nil || cand != nil || sil != nil {
			t.Fatalf("cand=%+v sil=%+v err=%v, want all nil", cand, sil, err)
		}
	})
}

func TestBrokenNavigationRuntimeDiscovered(t *testing.T) {
	d := NewBrokenNavigation()

	exp := types.Expectation{ID: "n1", Kind: "navigation", Value: "/settings"}
	obs := bundledObservation("n1")
	obs.Type = types.ObservationNavigation
	obs.Evidence.RouteData = &types.RouteData{
		FromURL:           "https://app.test/home",
		ExpectedRoute:     "/settings",
		Transitioned:      false,
		RuntimeDiscovered: true,
	}

	cand, sil, err := d.Detect(exp, obs)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if sil != nil {
		t.Fatalf("unexpected silence %+v", sil)
	}
	if cand == nil {
		t.Fatal("expected a candidate")
	}
	// 0.85 base + 0.05 route evidence + 0.05 screenshots, nothing contrary.
	if math.Abs(cand.Confidence-0.95) > 1e-9 {
		t.Errorf("confidence = %v, want 0.95", cand.Confidence)
	}
	if cand.Status != types.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", cand.Status)
	}
}

func TestBrokenNavigationPenaltiesDowngrade(t *testing.T) {
	d := NewBrokenNavigation()

	exp := types.Expectation{ID: "n1", Kind: "navigation", Value: "/settings"}
	obs := bundledObservation("n1")
	obs.Type = types.ObservationNavigation
	obs.Signals.ConsoleErrors = true
	obs.Signals.IframeContext = true
	obs.Evidence.RouteData = &types.RouteData{
		FromURL:           "https://app.test/home",
		ExpectedRoute:     "/settings",
		RuntimeDiscovered: true,
	}

	cand, _, err := d.Detect(exp, obs)
	if err != nil || cand == nil {
		t.Fatalf("cand=%+v err=%v", cand, err)
	}
	// 0.95 - 0.2 console - 0.1 iframe = 0.65, below the CONFIRMED floor.
	if math.Abs(cand.Confidence-0.65) > 1e-9 {
		t.Errorf("confidence = %v, want 0.65", cand.Confidence)
	}
	if cand.Status != types.StatusSuspected {
		t.Errorf("status = %s, want SUSPECTED", cand.Status)
	}
}

func TestBrokenNavigationSatisfiedStaysQuiet(t *testing.T) {
	d := NewBrokenNavigation()

	exp := types.Expectation{ID: "n1", Kind: "navigation", Value: "/settings"}
	obs := bundledObservation("n1")
	obs.Type = types.ObservationNavigation
	obs.Evidence.RouteData = &types.RouteData{
		FromURL:           "https://app.test/home",
		ToURL:             "https://app.test/settings",
		ExpectedRoute:     "/settings",
		Transitioned:      true,
		RuntimeDiscovered: true,
	}

	cand, sil, err := d.Detect(exp, obs)
	if err != nil || cand != nil || sil != nil {
		t.Fatalf("cand=%+v sil=%+v err=%v, want all nil", cand, sil, err)
	}
}

func TestBrokenNavigationUnresolvedIntent(t *testing.T) {
	d := NewBrokenNavigation()

	exp := types.Expectation{ID: "n1", Kind: "click_handler", Value: ""}
	obs := bundledObservation("n1")
	obs.Type = types.ObservationNavigation
	obs.Evidence.Snapshot = &types.ElementSnapshot{TagName: "div", Visible: true}

	cand, sil, err := d.Detect(exp, obs)
	if err != nil || cand != nil {
		t.Fatalf("cand=%+v err=%v, want silence only", cand, err)
	}
	if sil == nil || sil.Code != types.SilenceNavIntentUnresolved {
		t.Fatalf("silence = %+v, want %s", sil, types.SilenceNavIntentUnresolved)
	}
}

func TestSilentSubmissionConfirmed(t *testing.T) {
	d := NewSilentSubmission()

	exp := types.Expectation{ID: "s1", Kind: "form_submission", Value: "signup"}
	obs := bundledObservation("s1")
	obs.Type = types.ObservationSubmission
	obs.Action = types.ActionSubmit
	obs.Signals.SubmissionTriggered = boolPtr(true)
	obs.Signals.NetworkAttemptAfterSubmit = boolPtr(false)
	obs.Evidence.TraceID = "trace-7"

	cand, sil, err := d.Detect(exp, obs)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if sil != nil {
		t.Fatalf("unexpected silence %+v", sil)
	}
	if cand == nil {
		t.Fatal("expected a candidate")
	}
	if cand.Status != types.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", cand.Status)
	}
	if cand.Severity != types.SeverityCritical {
		t.Errorf("severity = %s, want critical", cand.Severity)
	}
}

// A nil sensor reading is an observability gap, never a judgment.
func TestSilentSubmissionNilSensorIsSilence(t *testing.T) {
	d := NewSilentSubmission()

	exp := types.Expectation{ID: "s1", Kind: "form_submission", Value: "signup"}
	obs := bundledObservation("s1")
	obs.Type = types.ObservationSubmission
	obs.Signals.SubmissionTriggered = boolPtr(true)
	// NetworkAttemptAfterSubmit deliberately left nil.

	cand, sil, err := d.Detect(exp, obs)
	if err != nil || cand != nil {
		t.Fatalf("cand=%+v err=%v, want silence only", cand, err)
	}
	if sil == nil || sil.Code != types.SilenceSubmissionObservablesUnavailable {
		t.Fatalf("silence = %+v, want %s", sil, types.SilenceSubmissionObservablesUnavailable)
	}
}

func TestSilentSubmissionEffectStaysQuiet(t *testing.T) {
	d := NewSilentSubmission()

	exp := types.Expectation{ID: "s1", Kind: "form_submission", Value: "signup"}
	obs := bundledObservation("s1")
	obs.Type = types.ObservationSubmission
	obs.Signals.SubmissionTriggered = boolPtr(true)
	obs.Signals.NetworkAttemptAfterSubmit = boolPtr(true)

	cand, sil, err := d.Detect(exp, obs)
	if err != nil || cand != nil || sil != nil {
		t.Fatalf("cand=%+v sil=%+v err=%v, want all nil", cand, sil, err)
	}
}

func TestIntentFallbackSweep(t *testing.T) {
	d := NewIntentFallback()

	unacked := bundledObservation("u1")
	unacked.Evidence.InteractionIntent = &types.IntentRecord{Kind: "click", Intentful: true}
	unacked.Evidence.Snapshot = actionableButton("Archive")
	unacked.Signals.MeaningfulDomChange = true

	acked := bundledObservation("u2")
	acked.Evidence.InteractionIntent = &types.IntentRecord{Kind: "click", Intentful: true}
	acked.Evidence.OutcomeWatcher = &types.OutcomeWatch{Acknowledged: boolPtr(true)}

	plain := bundledObservation("u3")

	out := d.Sweep([]types.Observation{unacked, acked, plain})
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	c := out[0]
	if c.Type != types.FindingUnackedInteraction {
		t.Errorf("type = %s", c.Type)
	}
	if c.Status != types.StatusSuspected {
		t.Errorf("status = %s, want SUSPECTED", c.Status)
	}
	if c.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", c.Confidence)
	}
	if c.Promise != nil {
		t.Error("fallback candidate must not carry a promise")
	}
}

func TestCheckEligibility(t *testing.T) {
	full := types.EvidenceRefs{
		BeforeScreenshot: "b.png",
		AfterScreenshot:  "a.png",
		DomDiff:          "d.json",
	}

	tests := []struct {
		name     string
		in       GateInput
		eligible bool
	}{
		{
			name: "dead interaction fully evidenced",
			in: GateInput{
				Type: types.FindingDeadInteraction, Attempted: true, ActionSuccess: true,
				IntentResolved: true, SnapshotActionable: true, Evidence: full,
			},
			eligible: true,
		},
		{
			name: "dead interaction without actionable element",
			in: GateInput{
				Type: types.FindingDeadInteraction, Attempted: true, ActionSuccess: true,
				IntentResolved: true, Evidence: full,
			},
		},
		{
			name: "navigation without route record",
			in: GateInput{
				Type: types.FindingBrokenNavigation, Attempted: true, ActionSuccess: true,
				IntentResolved: true, SnapshotActionable: true, Evidence: full,
			},
		},
		{
			name: "submission with both sensors",
			in: GateInput{
				Type: types.FindingSilentSubmission, Attempted: true, ActionSuccess: true,
				IntentResolved: true, Evidence: full,
				Signals: types.Signals{
					SubmissionTriggered:       boolPtr(true),
					NetworkAttemptAfterSubmit: boolPtr(false),
				},
			},
			eligible: true,
		},
		{
			name: "fallback findings are never eligible",
			in: GateInput{
				Type: types.FindingUnackedInteraction, Attempted: true, ActionSuccess: true,
				IntentResolved: true, SnapshotActionable: true, Evidence: full,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CheckEligibility(tc.in)
			if got.Eligible != tc.eligible {
				t.Fatalf("Eligible = %v (missing %v), want %v", got.Eligible, got.Missing, tc.eligible)
			}
			if !tc.eligible && len(got.Missing) == 0 {
				t.Error("ineligible result names nothing missing")
			}
		})
	}
}

func TestSharedConfidenceSaturates(t *testing.T) {
	obs := bundledObservation("x")
	obs.Evidence.RouteData = &types.RouteData{FromURL: "a"}
	obs.Evidence.MutationSummary = &types.MutationSummary{}
	obs.Evidence.SourceSnippet = "onClick={noop}"
	obs.Evidence.TraceID = "t"
	if got := SharedConfidence(obs); got != 1.0 {
		t.Errorf("fully corroborated score = %v, want 1.0", got)
	}

	obs.Signals.FeedbackSeen = true
	obs.Signals.ValidationFeedback = true
	obs.Signals.MeaningfulUIChange = true
	if got := SharedConfidence(obs); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("contradicted score = %v, want 0.5", got)
	}
}
