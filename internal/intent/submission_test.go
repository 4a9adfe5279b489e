package intent

import (
	"testing"

	"deadclick/internal/types"
)

func TestClassifySubmission(t *testing.T) {
	cases := []struct {
		name    string
		snap    *types.ElementSnapshot
		obsType string
		exp     *types.Expectation
		want    SubmissionFamily
	}{
		{
			name: "type_submit",
			snap: &types.ElementSnapshot{TagName: "input", Type: "submit"},
			want: FormSubmission,
		},
		{
			name: "async_labeled_in_form",
			snap: &types.ElementSnapshot{TagName: "button", InForm: true, Text: "Save draft"},
			want: AsyncSubmission,
		},
		{
			name: "plain_button_in_form",
			snap: &types.ElementSnapshot{TagName: "button", InForm: true, Text: "Next"},
			want: FormSubmission,
		},
		{
			name:    "observation_type_submission",
			obsType: types.ObservationSubmission,
			want:    FormSubmission,
		},
		{
			name: "promise_kind_form",
			exp:  &types.Expectation{Kind: "form_submission", Value: "checkoutForm"},
			want: FormSubmission,
		},
		{
			name: "unrelated_element",
			snap: &types.ElementSnapshot{TagName: "div"},
			want: UnknownSubmission,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifySubmission(tc.snap, tc.obsType, tc.exp)
			if got.Kind != tc.want {
				t.Fatalf("kind = %s, want %s (reasons %v)", got.Kind, tc.want, got.Reasons)
			}
		})
	}
}

func TestSubmissionEffectObserved(t *testing.T) {
	s := Submission{Kind: FormSubmission}
	yes, no := true, false

	if s.EffectObserved(types.Signals{SubmissionTriggered: &yes, NetworkAttemptAfterSubmit: &no}) {
		t.Fatal("triggered-without-effect is not an observed effect")
	}
	if !s.EffectObserved(types.Signals{NetworkAttemptAfterSubmit: &yes}) {
		t.Fatal("post-submit network attempt is an effect")
	}
	if !s.EffectObserved(types.Signals{FeedbackSeen: true}) {
		t.Fatal("feedback is an effect")
	}
	if !s.EffectObserved(types.Signals{NavigationChanged: true}) {
		t.Fatal("navigation is an effect")
	}
	if !s.EffectObserved(types.Signals{MeaningfulUIChange: true}) {
		t.Fatal("meaningful ui change is an effect")
	}
}
