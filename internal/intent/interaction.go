package intent

import (
	"strings"

	"deadclick/internal/types"
)

// asyncActionWords are labels that promise deferred feedback rather than an
// immediate DOM effect.
var asyncActionWords = []string{
	"save", "submit", "send", "search", "load", "refresh", "sync",
	"delete", "remove", "add", "create", "update", "apply", "confirm",
	"clear", "reset",
}

// ClassifyInteraction resolves the intent of a click against an element
// snapshot, optionally informed by a runtime navigation record and the
// matched expectation. Returns UNKNOWN_INTENT whenever the snapshot does not
// clearly match a known pattern.
func ClassifyInteraction(snap *types.ElementSnapshot, action string, nav *types.RouteData, exp *types.Expectation) Interaction {
	if snap == nil {
		return Interaction{
			Kind:     UnknownIntent,
			Reasons:  []string{"no element snapshot captured"},
			contract: neverSatisfied,
		}
	}

	var reasons []string
	tag := strings.ToLower(snap.TagName)
	role := strings.ToLower(snap.Role)

	// Navigation: real anchors, link roles, runtime route records, and
	// navigation-kind expectations all promise a route/URL change.
	if (tag == "a" && snap.Href != "") || role == "link" {
		reasons = append(reasons, "element is a link ("+tag+")")
		if snap.Href != "" {
			reasons = append(reasons, "href="+snap.Href)
		}
		return navigationInteraction(reasons)
	}
	if nav != nil && (nav.ExpectedRoute != "" || nav.ToURL != "") {
		reasons = append(reasons, "runtime navigation record present")
		return navigationInteraction(reasons)
	}
	if exp != nil && strings.Contains(strings.ToLower(exp.Kind), "navigation") {
		reasons = append(reasons, "expectation kind is navigation")
		return navigationInteraction(reasons)
	}

	// Submission: submit controls inside forms.
	if strings.ToLower(snap.Type) == "submit" || (snap.InForm && (tag == "button" || tag == "input")) {
		reasons = append(reasons, "submit control inside a form")
		return Interaction{
			Kind:    SubmissionIntent,
			Reasons: capReasons(reasons),
			contract: func(sig types.Signals, _ types.SnapshotDelta) bool {
				return sig.NavigationChanged ||
					(sig.NetworkAttemptAfterSubmit != nil && *sig.NetworkAttemptAfterSubmit) ||
					sig.FeedbackSeen
			},
		}
	}

	// Toggle: the element advertises toggle state via ARIA.
	if snap.AriaExpanded != "" || snap.AriaPressed != "" || role == "switch" || role == "checkbox" {
		reasons = append(reasons, "element carries toggle-state ARIA")
		return Interaction{
			Kind:    ToggleIntent,
			Reasons: capReasons(reasons),
			contract: func(sig types.Signals, delta types.SnapshotDelta) bool {
				return delta.ToggleStateChanged() || sig.MeaningfulDomChange
			},
		}
	}

	// Async feedback: action-word buttons that promise some visible response.
	if tag == "button" || role == "button" {
		label := strings.ToLower(snap.AriaLabel + " " + snap.Text)
		for _, word := range asyncActionWords {
			if strings.Contains(label, word) {
				reasons = append(reasons, "action button labeled for "+word)
				return Interaction{
					Kind:    AsyncFeedbackIntent,
					Reasons: capReasons(reasons),
					contract: func(sig types.Signals, _ types.SnapshotDelta) bool {
						return sig.FeedbackSeen || sig.MeaningfulDomChange || sig.MeaningfulUIChange
					},
				}
			}
		}
	}

	return Interaction{
		Kind:     UnknownIntent,
		Reasons:  []string{"snapshot matches no known interaction pattern"},
		contract: neverSatisfied,
	}
}

func navigationInteraction(reasons []string) Interaction {
	return Interaction{
		Kind:    NavigationIntent,
		Reasons: capReasons(reasons),
		contract: func(sig types.Signals, _ types.SnapshotDelta) bool {
			// Only a real route/URL change proves navigation.
			return sig.NavigationChanged || sig.RouteChanged
		},
	}
}
