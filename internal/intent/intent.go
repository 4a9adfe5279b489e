// Package intent maps runtime element snapshots to closed intent variants,
// each carrying the observable contract that would prove the interaction
// succeeded. The core rule is: never guess. A snapshot that does not clearly
// match a known pattern classifies as UNKNOWN, which blocks any CONFIRMED
// judgment downstream.
package intent

import "deadclick/internal/types"

// Reason lists are capped so a pathological snapshot cannot inflate output.
const (
	maxReasons   = 6
	maxReasonLen = 160
)

// Contract is the success-observable predicate attached to an intent variant:
// given the captured signals and snapshot delta, did the promised effect
// provably occur?
type Contract func(sig types.Signals, delta types.SnapshotDelta) bool

func neverSatisfied(types.Signals, types.SnapshotDelta) bool { return false }

// capReasons enforces the reason count/length caps.
func capReasons(reasons []string) []string {
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	out := make([]string, len(reasons))
	for i, r := range reasons {
		if len(r) > maxReasonLen {
			r = r[:maxReasonLen]
		}
		out[i] = r
	}
	return out
}

// InteractionKind is the closed interaction-intent family.
type InteractionKind string

const (
	NavigationIntent    InteractionKind = "NAVIGATION_INTENT"
	SubmissionIntent    InteractionKind = "SUBMISSION_INTENT"
	AsyncFeedbackIntent InteractionKind = "ASYNC_FEEDBACK_INTENT"
	ToggleIntent        InteractionKind = "TOGGLE_INTENT"
	UnknownIntent       InteractionKind = "UNKNOWN_INTENT"
)

// Interaction is a resolved interaction intent. Never persisted; recomputed
// per detection call.
type Interaction struct {
	Kind     InteractionKind
	Reasons  []string
	contract Contract
}

// Unknown reports whether the classifier declined to guess.
func (i Interaction) Unknown() bool { return i.Kind == UnknownIntent }

// Satisfied evaluates the intent's observable contract.
func (i Interaction) Satisfied(sig types.Signals, delta types.SnapshotDelta) bool {
	if i.contract == nil {
		return false
	}
	return i.contract(sig, delta)
}

// NavigationKind is the closed navigation-intent family.
type NavigationKind string

const (
	RouteNavigation   NavigationKind = "ROUTE_NAVIGATION_INTENT"
	URLNavigation     NavigationKind = "URL_NAVIGATION_INTENT"
	HashNavigation    NavigationKind = "HASH_NAVIGATION_INTENT"
	UnknownNavigation NavigationKind = "UNKNOWN_NAVIGATION_INTENT"
)

// Navigation is a resolved navigation intent.
type Navigation struct {
	Kind              NavigationKind
	Target            string
	RuntimeDiscovered bool
	Reasons           []string
}

// Unknown reports whether the navigation intent could not be resolved.
func (n Navigation) Unknown() bool { return n.Kind == UnknownNavigation }

// SubmissionFamily is the closed submission-intent family.
type SubmissionFamily string

const (
	FormSubmission    SubmissionFamily = "FORM_SUBMISSION_INTENT"
	AsyncSubmission   SubmissionFamily = "ASYNC_SUBMISSION_INTENT"
	UnknownSubmission SubmissionFamily = "UNKNOWN_SUBMISSION_INTENT"
)

// Submission is a resolved submission intent.
type Submission struct {
	Kind    SubmissionFamily
	Reasons []string
}

// Unknown reports whether the submission intent could not be resolved.
func (s Submission) Unknown() bool { return s.Kind == UnknownSubmission }
