package types

import "testing"

func TestStatusPrivilegeOrdering(t *testing.T) {
	if !(StatusPrivilege(StatusInformational) < StatusPrivilege(StatusSuspected)) {
		t.Fatal("INFORMATIONAL must rank below SUSPECTED")
	}
	if !(StatusPrivilege(StatusSuspected) < StatusPrivilege(StatusConfirmed)) {
		t.Fatal("SUSPECTED must rank below CONFIRMED")
	}
	if StatusPrivilege(Status("bogus")) != -1 {
		t.Fatal("unknown status must rank below all real statuses")
	}
}

func TestSignalsAny(t *testing.T) {
	var s Signals
	if s.Any() {
		t.Fatal("zero signals should report no activity")
	}

	s.MeaningfulDomChange = true
	if !s.Any() {
		t.Fatal("dom change should count as activity")
	}

	s = Signals{}
	yes := true
	s.NetworkAttemptAfterSubmit = &yes
	if !s.Any() {
		t.Fatal("post-submit network attempt should count as activity")
	}

	s = Signals{}
	no := false
	s.SubmissionTriggered = &no
	if s.Any() {
		t.Fatal("explicit false tri-state is not activity")
	}
}

func TestWithSilenceDoesNotMutateReceiver(t *testing.T) {
	obs := Observation{ID: "obs-1"}
	updated := obs.WithSilence(SilenceSignal{Code: SilenceIntentBlocked, Detector: "dead_interaction"})

	if len(obs.Silences) != 0 {
		t.Fatalf("receiver mutated: %#v", obs.Silences)
	}
	if len(updated.Silences) != 1 || updated.Silences[0].Code != SilenceIntentBlocked {
		t.Fatalf("silence not recorded on copy: %#v", updated.Silences)
	}

	// Appending to the copy must not leak into a second copy.
	second := obs.WithSilence(SilenceSignal{Code: SilenceNavIntentUnresolved, Detector: "broken_navigation"})
	if second.Silences[0].Code != SilenceNavIntentUnresolved {
		t.Fatalf("copies share backing storage: %#v", second.Silences)
	}
}

func TestEvidenceRefsHasStateComparison(t *testing.T) {
	e := EvidenceRefs{BeforeScreenshot: "before.png", AfterScreenshot: "after.png"}
	if e.HasStateComparison() {
		t.Fatal("missing dom diff should fail the bundle check")
	}
	e.DomDiff = "diff.json"
	if !e.HasStateComparison() {
		t.Fatal("complete bundle should pass")
	}
}

func TestCandidateIdentityMatchesPromise(t *testing.T) {
	exp := &Expectation{
		Kind:   "click_handler",
		Value:  "clearCart",
		Source: SourceRef{File: "src/Cart.tsx", Line: 10, Column: 4},
	}
	c := Candidate{Type: FindingDeadInteraction, Promise: exp}
	if c.Identity() != exp.Identity() {
		t.Fatal("candidate identity should be promise-derived")
	}
}
