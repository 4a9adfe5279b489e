package intent

import (
	"strings"

	"deadclick/internal/types"
)

// ClassifySubmission resolves a submission intent from the element snapshot,
// the observation type, and the matched expectation. Returns
// UNKNOWN_SUBMISSION_INTENT when nothing ties the interaction to a form.
func ClassifySubmission(snap *types.ElementSnapshot, obsType string, exp *types.Expectation) Submission {
	var reasons []string

	if snap != nil {
		if strings.ToLower(snap.Type) == "submit" {
			reasons = append(reasons, "control declared type=submit")
			return Submission{Kind: FormSubmission, Reasons: capReasons(reasons)}
		}
		if snap.InForm {
			reasons = append(reasons, "control lives inside a form")
			label := strings.ToLower(snap.AriaLabel + " " + snap.Text)
			for _, word := range asyncActionWords {
				if strings.Contains(label, word) {
					reasons = append(reasons, "labeled for "+word)
					return Submission{Kind: AsyncSubmission, Reasons: capReasons(reasons)}
				}
			}
			return Submission{Kind: FormSubmission, Reasons: capReasons(reasons)}
		}
	}

	if obsType == types.ObservationSubmission {
		reasons = append(reasons, "observer recorded a submission attempt")
		return Submission{Kind: FormSubmission, Reasons: capReasons(reasons)}
	}

	if exp != nil {
		kind := strings.ToLower(exp.Kind)
		if strings.Contains(kind, "submit") || strings.Contains(kind, "form") {
			reasons = append(reasons, "source promise is a form submission")
			return Submission{Kind: FormSubmission, Reasons: capReasons(reasons)}
		}
	}

	return Submission{
		Kind:    UnknownSubmission,
		Reasons: []string{"nothing ties this interaction to a form submission"},
	}
}

// EffectObserved reports whether any submission effect signal fired:
// navigation, feedback, a meaningful DOM/UI change, or a post-submit network
// attempt. Tri-state presence is checked by the detector before this runs.
func (s Submission) EffectObserved(sig types.Signals) bool {
	if sig.NavigationChanged || sig.RouteChanged || sig.FeedbackSeen ||
		sig.MeaningfulDomChange || sig.MeaningfulUIChange {
		return true
	}
	return sig.NetworkAttemptAfterSubmit != nil && *sig.NetworkAttemptAfterSubmit
}
