package types

// FindingType identifies which detector produced a finding.
type FindingType string

const (
	FindingDeadInteraction    FindingType = "dead_interaction"
	FindingBrokenNavigation   FindingType = "broken_navigation"
	FindingSilentSubmission   FindingType = "silent_submission"
	FindingUnackedInteraction FindingType = "unacknowledged_interaction"
)

// Status is the judgment status of a finding.
type Status string

const (
	StatusInformational Status = "INFORMATIONAL"
	StatusSuspected     Status = "SUSPECTED"
	StatusConfirmed     Status = "CONFIRMED"
)

// StatusPrivilege orders statuses: INFORMATIONAL < SUSPECTED < CONFIRMED.
// Guardrails may only ever move a finding toward lower privilege.
func StatusPrivilege(s Status) int {
	switch s {
	case StatusConfirmed:
		return 2
	case StatusSuspected:
		return 1
	case StatusInformational:
		return 0
	default:
		return -1
	}
}

// Severity grades user impact.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Evidence is the proof payload backing a candidate. A finding with an empty
// evidence payload never leaves the pipeline.
type Evidence map[string]string

// NonEmpty reports whether the payload holds at least one entry.
func (e Evidence) NonEmpty() bool { return len(e) > 0 }

// StateContext explains an apparent non-effect as legitimate behavior.
type StateContext struct {
	IsEmpty    bool     `json:"is_empty"`
	IsDisabled bool     `json:"is_disabled"`
	IsNoOp     bool     `json:"is_no_op"`
	Reasons    []string `json:"reasons,omitempty"`
}

// Explains reports whether any explanatory flag is set.
func (c StateContext) Explains() bool { return c.IsEmpty || c.IsDisabled || c.IsNoOp }

// Enrichment carries auxiliary judgment context attached during the pipeline.
type Enrichment struct {
	ConfirmedEligibilityMissing []string      `json:"confirmed_eligibility_missing,omitempty"`
	StateContext                *StateContext `json:"state_context,omitempty"`
	IntentReasons               []string      `json:"intent_reasons,omitempty"`
	Notes                       []string      `json:"notes,omitempty"`
}

// EligibilityResult is the output of the CONFIRMED eligibility gate.
type EligibilityResult struct {
	Eligible bool     `json:"eligible"`
	Missing  []string `json:"missing,omitempty"`
}

// Level is the coarse confidence level derived from score01.
type Level string

const (
	LevelHigh     Level = "HIGH"
	LevelMedium   Level = "MEDIUM"
	LevelUnproven Level = "UNPROVEN"
)

// ConfidenceResult is the unified five-pillar scoring output.
type ConfidenceResult struct {
	Score01         float64  `json:"score01"`
	Score100        int      `json:"score100"`
	Level           Level    `json:"level"`
	Reasons         []string `json:"reasons,omitempty"`
	AdvisoryReasons []string `json:"advisory_reasons,omitempty"`
	TopReasons      []string `json:"top_reasons,omitempty"`
}

// ConfidenceAdjustment records a single guardrail delta applied to a score.
type ConfidenceAdjustment struct {
	RuleID string  `json:"rule_id"`
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason,omitempty"`
}

// GuardrailsReport is the outcome of the guardrails policy engine over an
// already-scored candidate.
type GuardrailsReport struct {
	AppliedRules          []string               `json:"applied_rules,omitempty"`
	Contradictions        []string               `json:"contradictions,omitempty"`
	RecommendedStatus     Status                 `json:"recommended_status,omitempty"`
	ConfidenceAdjustments []ConfidenceAdjustment `json:"confidence_adjustments,omitempty"`
	ConfidenceDelta       float64                `json:"confidence_delta"`
	FinalDecision         string                 `json:"final_decision,omitempty"`
}

// Candidate is a provisional finding flowing through the pipeline. Mutable
// only inside the pipeline; callers never see one before validation.
type Candidate struct {
	Type       FindingType  `json:"type"`
	Status     Status       `json:"status"`
	Severity   Severity     `json:"severity"`
	Confidence float64      `json:"confidence"`
	Promise    *Expectation `json:"promise,omitempty"`
	Observed   *Observation `json:"observed,omitempty"`
	Evidence   Evidence     `json:"evidence"`
	Enrichment Enrichment   `json:"enrichment"`
	Impact     string       `json:"impact,omitempty"`
	Summary    string       `json:"summary,omitempty"`
}

// Identity computes the content-derived id for the candidate. Fallback
// candidates without a promise derive identity from the observation instead,
// so re-runs over the same artifacts collapse identically.
func (c Candidate) Identity() string {
	if c.Promise != nil {
		return c.Promise.Identity()
	}
	if c.Observed != nil {
		return FindingID(c.Observed.ID, 0, 0, string(c.Type), c.Summary)
	}
	return FindingID("", 0, 0, string(c.Type), c.Summary)
}

// Finding is the immutable, validated output judgment.
type Finding struct {
	ID         string           `json:"id"`
	Type       FindingType      `json:"type"`
	Status     Status           `json:"status"`
	Severity   Severity         `json:"severity"`
	Confidence float64          `json:"confidence"`
	Promise    *Expectation     `json:"promise,omitempty"`
	ObservedID string           `json:"observed_id,omitempty"`
	Signals    Signals          `json:"signals"`
	Evidence   Evidence         `json:"evidence"`
	Enrichment Enrichment       `json:"enrichment"`
	Impact     string           `json:"impact,omitempty"`
	Summary    string           `json:"summary,omitempty"`
	Scoring    ConfidenceResult `json:"scoring"`
	Guardrails GuardrailsReport `json:"guardrails"`
}

// ValidationSummary reports what the constitution validator dropped or
// collapsed, so dropped findings stay observable to the caller.
type ValidationSummary struct {
	Emitted      int      `json:"emitted"`
	DroppedIDs   []string `json:"dropped_ids,omitempty"`
	DropReasons  []string `json:"drop_reasons,omitempty"`
	CollapsedIDs []string `json:"collapsed_ids,omitempty"`
}
