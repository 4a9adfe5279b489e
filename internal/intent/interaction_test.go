package intent

import (
	"testing"

	"deadclick/internal/types"
)

func TestClassifyInteraction(t *testing.T) {
	cases := []struct {
		name string
		snap *types.ElementSnapshot
		nav  *types.RouteData
		exp  *types.Expectation
		want InteractionKind
	}{
		{
			name: "nil_snapshot_never_guesses",
			want: UnknownIntent,
		},
		{
			name: "anchor_with_href",
			snap: &types.ElementSnapshot{TagName: "a", Href: "/checkout"},
			want: NavigationIntent,
		},
		{
			name: "role_link",
			snap: &types.ElementSnapshot{TagName: "span", Role: "link"},
			want: NavigationIntent,
		},
		{
			name: "runtime_nav_record",
			snap: &types.ElementSnapshot{TagName: "div"},
			nav:  &types.RouteData{ExpectedRoute: "/orders"},
			want: NavigationIntent,
		},
		{
			name: "submit_control",
			snap: &types.ElementSnapshot{TagName: "button", Type: "submit"},
			want: SubmissionIntent,
		},
		{
			name: "button_in_form",
			snap: &types.ElementSnapshot{TagName: "button", InForm: true},
			want: SubmissionIntent,
		},
		{
			name: "aria_expanded_toggle",
			snap: &types.ElementSnapshot{TagName: "button", AriaExpanded: "false"},
			want: ToggleIntent,
		},
		{
			name: "role_switch",
			snap: &types.ElementSnapshot{TagName: "div", Role: "switch"},
			want: ToggleIntent,
		},
		{
			name: "save_button",
			snap: &types.ElementSnapshot{TagName: "button", Text: "Save changes"},
			want: AsyncFeedbackIntent,
		},
		{
			name: "unlabeled_div",
			snap: &types.ElementSnapshot{TagName: "div"},
			want: UnknownIntent,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyInteraction(tc.snap, types.ActionClick, tc.nav, tc.exp)
			if got.Kind != tc.want {
				t.Fatalf("kind = %s, want %s (reasons: %v)", got.Kind, tc.want, got.Reasons)
			}
			if len(got.Reasons) == 0 {
				t.Fatal("classification must carry at least one reason")
			}
		})
	}
}

func TestInteractionContracts(t *testing.T) {
	t.Run("toggle_satisfied_by_aria_delta", func(t *testing.T) {
		it := ClassifyInteraction(&types.ElementSnapshot{TagName: "button", AriaPressed: "false"}, types.ActionClick, nil, nil)
		delta := types.SnapshotDelta{AriaPressedChanged: true}
		if !it.Satisfied(types.Signals{}, delta) {
			t.Fatal("aria delta should satisfy toggle contract")
		}
	})

	t.Run("toggle_satisfied_by_dom_change", func(t *testing.T) {
		it := ClassifyInteraction(&types.ElementSnapshot{TagName: "button", AriaExpanded: "true"}, types.ActionClick, nil, nil)
		if !it.Satisfied(types.Signals{MeaningfulDomChange: true}, types.SnapshotDelta{}) {
			t.Fatal("dom change should satisfy toggle contract")
		}
	})

	t.Run("navigation_requires_real_route_change", func(t *testing.T) {
		it := ClassifyInteraction(&types.ElementSnapshot{TagName: "a", Href: "/cart"}, types.ActionClick, nil, nil)
		if it.Satisfied(types.Signals{MeaningfulDomChange: true, FeedbackSeen: true}, types.SnapshotDelta{}) {
			t.Fatal("dom change alone must not satisfy navigation")
		}
		if !it.Satisfied(types.Signals{RouteChanged: true}, types.SnapshotDelta{}) {
			t.Fatal("route change should satisfy navigation")
		}
	})

	t.Run("submission_satisfied_by_post_submit_network", func(t *testing.T) {
		it := ClassifyInteraction(&types.ElementSnapshot{TagName: "button", Type: "submit"}, types.ActionClick, nil, nil)
		yes := true
		if !it.Satisfied(types.Signals{NetworkAttemptAfterSubmit: &yes}, types.SnapshotDelta{}) {
			t.Fatal("post-submit network attempt should satisfy submission")
		}
	})

	t.Run("unknown_never_satisfied", func(t *testing.T) {
		it := ClassifyInteraction(nil, types.ActionClick, nil, nil)
		if it.Satisfied(types.Signals{NavigationChanged: true, FeedbackSeen: true}, types.SnapshotDelta{AriaExpandedChanged: true}) {
			t.Fatal("unknown intent must never report success")
		}
	})
}

func TestCapReasons(t *testing.T) {
	long := make([]string, maxReasons+3)
	for i := range long {
		long[i] = "reason"
	}
	if got := capReasons(long); len(got) != maxReasons {
		t.Fatalf("count cap: got %d, want %d", len(got), maxReasons)
	}

	oversized := []string{string(make([]byte, maxReasonLen*2))}
	if got := capReasons(oversized); len(got[0]) != maxReasonLen {
		t.Fatalf("length cap: got %d, want %d", len(got[0]), maxReasonLen)
	}
}
