// Package types defines the shared data model for the deadclick truth-judgment
// pipeline: statically-extracted Expectations, runtime Observations, and the
// vetted Findings produced from them. Everything here is plain data - the
// judgment logic lives in intent, detect, confidence, guardrails and
// constitution.
package types

// DerivationStrength describes how an Expectation was derived from source.
type DerivationStrength string

const (
	DerivationProven   DerivationStrength = "PROVEN"   // directly bound handler / route definition
	DerivationObserved DerivationStrength = "OBSERVED" // seen at runtime, matched back to source
	DerivationWeak     DerivationStrength = "WEAK"     // pattern-matched, unverified
	DerivationUnknown  DerivationStrength = "UNKNOWN"
)

// SourceRef points at the source location a promise was extracted from.
type SourceRef struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Expectation is a statically-derived claim about intended interactive
// behavior. Produced by the external extractor; immutable here.
type Expectation struct {
	ID             string             `json:"id"`
	Kind           string             `json:"kind"` // click_handler, navigation, form_submission, ...
	Value          string             `json:"value"`
	Source         SourceRef          `json:"source"`
	ConfidenceHint DerivationStrength `json:"confidence_hint"`
	SelectorHint   string             `json:"selector_hint,omitempty"`
}

// Identity returns the content-derived finding id for this expectation.
func (e Expectation) Identity() string {
	return FindingID(e.Source.File, e.Source.Line, e.Source.Column, e.Kind, e.Value)
}

// Signals are the effect observations captured while exercising an
// expectation. Absent booleans mean "not satisfied", never "failed".
// SubmissionTriggered and NetworkAttemptAfterSubmit are tri-state: nil means
// the sensor never reported, which routes to an ambiguity signal rather than
// a judgment.
type Signals struct {
	NavigationChanged         bool    `json:"navigation_changed"`
	RouteChanged              bool    `json:"route_changed"`
	MeaningfulDomChange       bool    `json:"meaningful_dom_change"`
	MeaningfulUIChange        bool    `json:"meaningful_ui_change"`
	FeedbackSeen              bool    `json:"feedback_seen"`
	UIFeedbackScore           float64 `json:"ui_feedback_score,omitempty"` // 0..1 confirmation strength
	ConsoleErrors             bool    `json:"console_errors"`
	CorrelatedNetworkActivity bool    `json:"correlated_network_activity"`
	NetworkSuccess            bool    `json:"network_success"`
	NetworkFailure            bool    `json:"network_failure"`
	SubmissionTriggered       *bool   `json:"submission_triggered,omitempty"`
	NetworkAttemptAfterSubmit *bool   `json:"network_attempt_after_submit,omitempty"`
	BlockedWrites             bool    `json:"blocked_writes"`
	OutcomeAcknowledged       bool    `json:"outcome_acknowledged"`
	EmptyState                bool    `json:"empty_state"`
	ValidationFeedback        bool    `json:"validation_feedback"`
	AnalyticsOnlyTraffic      bool    `json:"analytics_only_traffic"`
	HashOnlyRouting           bool    `json:"hash_only_routing"`
	IframeContext             bool    `json:"iframe_context"`
}

// Any reports whether at least one effect signal fired.
func (s Signals) Any() bool {
	return s.NavigationChanged || s.RouteChanged || s.MeaningfulDomChange ||
		s.MeaningfulUIChange || s.FeedbackSeen || s.ConsoleErrors ||
		s.CorrelatedNetworkActivity || s.NetworkSuccess || s.NetworkFailure ||
		s.BlockedWrites || s.OutcomeAcknowledged || s.ValidationFeedback ||
		(s.SubmissionTriggered != nil && *s.SubmissionTriggered) ||
		(s.NetworkAttemptAfterSubmit != nil && *s.NetworkAttemptAfterSubmit)
}

// ChannelPresence records which sensor channels were instrumented at all.
// A missing channel is a distinct uncertainty from "no activity observed".
type ChannelPresence struct {
	Network bool `json:"network"`
	Console bool `json:"console"`
	UI      bool `json:"ui"`
}

// AllPresent reports whether every required sensor channel was instrumented.
func (c ChannelPresence) AllPresent() bool {
	return c.Network && c.Console && c.UI
}

// BoundingBox is the rendered geometry of an element.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SnapshotDelta captures attribute changes observed across the interaction.
type SnapshotDelta struct {
	AriaExpandedChanged bool `json:"aria_expanded_changed"`
	AriaPressedChanged  bool `json:"aria_pressed_changed"`
	AriaCheckedChanged  bool `json:"aria_checked_changed"`
	ClassChanged        bool `json:"class_changed"`
}

// ToggleStateChanged reports whether any toggle-style ARIA state flipped.
func (d SnapshotDelta) ToggleStateChanged() bool {
	return d.AriaExpandedChanged || d.AriaPressedChanged || d.AriaCheckedChanged
}

// ElementSnapshot is the runtime-captured state of the element that was
// exercised. Used only by the intent classifiers and the actionability check.
type ElementSnapshot struct {
	TagName           string        `json:"tag_name"`
	Role              string        `json:"role,omitempty"`
	Type              string        `json:"type,omitempty"` // input/button type attribute
	AriaLabel         string        `json:"aria_label,omitempty"`
	Text              string        `json:"text,omitempty"`
	Href              string        `json:"href,omitempty"`
	AriaExpanded      string        `json:"aria_expanded,omitempty"`
	AriaPressed       string        `json:"aria_pressed,omitempty"`
	AriaHidden        bool          `json:"aria_hidden"`
	Disabled          bool          `json:"disabled"`
	AriaDisabled      bool          `json:"aria_disabled"`
	Visible           bool          `json:"visible"`
	PointerEventsNone bool          `json:"pointer_events_none"`
	InForm            bool          `json:"in_form"`
	BoundingBox       BoundingBox   `json:"bounding_box"`
	Delta             SnapshotDelta `json:"delta"`
}

// Describe returns a short human-readable handle for the element, used when
// no Expectation exists to describe it.
func (s ElementSnapshot) Describe() string {
	switch {
	case s.AriaLabel != "":
		return s.TagName + " \"" + s.AriaLabel + "\""
	case s.Text != "":
		return s.TagName + " \"" + s.Text + "\""
	case s.Role != "":
		return s.TagName + " [role=" + s.Role + "]"
	default:
		return s.TagName
	}
}

// RouteData is the runtime navigation record attached to an observation.
type RouteData struct {
	FromURL           string `json:"from_url"`
	ToURL             string `json:"to_url,omitempty"`
	ExpectedRoute     string `json:"expected_route,omitempty"`
	RouteDefinition   string `json:"route_definition,omitempty"` // matched source route, if any
	Transitioned      bool   `json:"transitioned"`
	HashOnly          bool   `json:"hash_only"`
	RuntimeDiscovered bool   `json:"runtime_discovered"`
}

// OutcomeWatch summarizes the adaptive-wait acknowledgment watcher. The
// watcher itself runs outside this core; Acknowledged is tri-state because
// the watcher may never have attached.
type OutcomeWatch struct {
	Acknowledged *bool `json:"acknowledged,omitempty"`
	StableMs     int64 `json:"stable_ms,omitempty"`
	TimedOut     bool  `json:"timed_out"`
}

// MutationSummary condenses the DOM-mutation tracking for an interaction.
type MutationSummary struct {
	AddedNodes   int  `json:"added_nodes"`
	RemovedNodes int  `json:"removed_nodes"`
	TextChanges  int  `json:"text_changes"`
	AttrChanges  int  `json:"attr_changes"`
	Meaningful   bool `json:"meaningful"`
}

// IntentRecord is the upstream interaction-intent classification attached by
// the observer. Intentful records with no acknowledgment drive the fallback
// detector even when no Expectation matched.
type IntentRecord struct {
	Kind      string   `json:"kind"`
	Intentful bool     `json:"intentful"`
	Reasons   []string `json:"reasons,omitempty"`
}

// EvidenceRefs bundles the structured evidence captured for an observation.
type EvidenceRefs struct {
	BeforeScreenshot  string           `json:"before_screenshot,omitempty"`
	AfterScreenshot   string           `json:"after_screenshot,omitempty"`
	DomDiff           string           `json:"dom_diff,omitempty"`
	SourceSnippet     string           `json:"source_snippet,omitempty"`
	TraceID           string           `json:"trace_id,omitempty"`
	InteractionIntent *IntentRecord    `json:"interaction_intent,omitempty"`
	RouteData         *RouteData       `json:"route_data,omitempty"`
	OutcomeWatcher    *OutcomeWatch    `json:"outcome_watcher,omitempty"`
	MutationSummary   *MutationSummary `json:"mutation_summary,omitempty"`
	Snapshot          *ElementSnapshot `json:"snapshot,omitempty"`
}

// HasStateComparison reports whether the full before/after/diff bundle exists.
func (e EvidenceRefs) HasStateComparison() bool {
	return e.BeforeScreenshot != "" && e.AfterScreenshot != "" && e.DomDiff != ""
}

// SilenceSignal is a non-finding diagnostic recorded when evidence was
// insufficient to judge. Consumed by out-of-scope coverage reporting.
type SilenceSignal struct {
	Code     string `json:"code"`
	Detector string `json:"detector"`
	Message  string `json:"message,omitempty"`
}

// Silence signal codes.
const (
	SilenceIntentBlocked                    = "intent_blocked"
	SilenceObservablesUnavailable           = "observables_unavailable"
	SilenceNavIntentUnresolved              = "navigation_intent_unresolved"
	SilenceNavObservablesUnavailable        = "navigation_observables_unavailable"
	SilenceSubmissionAmbiguous              = "submission_ambiguous"
	SilenceSubmissionObservablesUnavailable = "submission_observables_unavailable"
)

// Observation is a recorded runtime attempt to exercise an Expectation.
// Produced by the external observer; treated as immutable. Silences are only
// ever populated on copies returned by the pipeline, never on caller inputs.
type Observation struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`   // interaction | navigation | submission
	Action        string          `json:"action"` // click | navigate | submit
	Attempted     bool            `json:"attempted"`
	ActionSuccess bool            `json:"action_success"`
	Signals       Signals         `json:"signals"`
	Channels      ChannelPresence `json:"channels"`
	EvidenceFiles []string        `json:"evidence_files,omitempty"`
	Evidence      EvidenceRefs    `json:"evidence"`
	Reason        string          `json:"reason,omitempty"`
	Silences      []SilenceSignal `json:"silences,omitempty"`
}

// WithSilence returns a copy of the observation with the signal appended.
func (o Observation) WithSilence(sig SilenceSignal) Observation {
	out := o
	out.Silences = append(append([]SilenceSignal(nil), o.Silences...), sig)
	return out
}

// Observation types.
const (
	ObservationInteraction = "interaction"
	ObservationNavigation  = "navigation"
	ObservationSubmission  = "submission"
)

// Actions.
const (
	ActionClick    = "click"
	ActionNavigate = "navigate"
	ActionSubmit   = "submit"
)

// DeterminismVerdict is the consumed verdict of the external multi-run
// determinism harness.
type DeterminismVerdict string

const (
	Deterministic    DeterminismVerdict = "DETERMINISTIC"
	NonDeterministic DeterminismVerdict = "NON_DETERMINISTIC"
)

// EvidencePackage carries the externally-computed package completeness flag.
type EvidencePackage struct {
	IsComplete bool `json:"is_complete"`
}

// RunInputs are the externally-produced verdicts consumed by the pipeline.
type RunInputs struct {
	DeterminismVerdict DeterminismVerdict `json:"determinism_verdict"`
	EvidencePackage    EvidencePackage    `json:"evidence_package"`
}
