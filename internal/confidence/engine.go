// Package confidence implements the unified weighted-pillar scorer. Five
// sub-scores (promise strength, observation strength, correlation quality,
// internal guardrails, evidence completeness) combine via policy weights into
// a base score, which channel-absence penalties and truth locks then cap.
// The engine is canonical for the persisted level and reason codes; detector
// heuristics only pre-screen the CONFIRMED/SUSPECTED choice.
package confidence

import (
	"fmt"
	"math"

	"deadclick/internal/types"
)

// Weights are the pillar weights. They should sum to 1.0; Validate enforces a
// small tolerance.
type Weights struct {
	Promise     float64 `yaml:"promise"`
	Observation float64 `yaml:"observation"`
	Correlation float64 `yaml:"correlation"`
	Guardrails  float64 `yaml:"guardrails"`
	Evidence    float64 `yaml:"evidence"`
}

// Policy is the versioned confidence policy document.
type Policy struct {
	Version                 string  `yaml:"version"`
	Weights                 Weights `yaml:"weights"`
	HighThreshold           float64 `yaml:"high_threshold"`
	MediumThreshold         float64 `yaml:"medium_threshold"`
	ContradictionPenalty    float64 `yaml:"contradiction_penalty"`
	ChannelAbsencePenalty   float64 `yaml:"channel_absence_penalty"`
	NonDeterministicCeiling float64 `yaml:"non_deterministic_ceiling"`
	IncompletePackageCap    float64 `yaml:"incomplete_package_cap"`
}

// DefaultPolicy returns the embedded default used when no document is loaded.
func DefaultPolicy() Policy {
	return Policy{
		Version: "1",
		Weights: Weights{
			Promise:     0.25,
			Observation: 0.20,
			Correlation: 0.20,
			Guardrails:  0.20,
			Evidence:    0.15,
		},
		HighThreshold:           0.85,
		MediumThreshold:         0.60,
		ContradictionPenalty:    0.15,
		ChannelAbsencePenalty:   0.25,
		NonDeterministicCeiling: 0.5,
		IncompletePackageCap:    0.6,
	}
}

// Validate rejects malformed policy documents at load time.
func (p Policy) Validate() error {
	sum := p.Weights.Promise + p.Weights.Observation + p.Weights.Correlation +
		p.Weights.Guardrails + p.Weights.Evidence
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("confidence policy: pillar weights sum to %.3f, want 1.0", sum)
	}
	if p.HighThreshold <= p.MediumThreshold {
		return fmt.Errorf("confidence policy: high threshold %.2f must exceed medium %.2f",
			p.HighThreshold, p.MediumThreshold)
	}
	for name, v := range map[string]float64{
		"contradiction_penalty":     p.ContradictionPenalty,
		"channel_absence_penalty":   p.ChannelAbsencePenalty,
		"non_deterministic_ceiling": p.NonDeterministicCeiling,
		"incomplete_package_cap":    p.IncompletePackageCap,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("confidence policy: %s %.2f outside [0,1]", name, v)
		}
	}
	return nil
}

// Engine scores candidates against a fixed policy. Stateless beyond the
// policy; safe for concurrent use.
type Engine struct {
	policy Policy
}

// NewEngine builds an engine after validating the policy.
func NewEngine(policy Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy}, nil
}

// pillars holds the five sub-scores plus their advisory flags.
type pillars struct {
	promise     float64
	observation float64
	correlation float64
	guardrails  float64
	evidence    float64

	weakCorrelation    bool
	contradiction      bool
	incompleteEvidence bool
}

// Score computes the unified confidence result for a candidate.
func (e *Engine) Score(cand types.Candidate, run types.RunInputs) types.ConfidenceResult {
	p := e.pillars(cand)

	w := e.policy.Weights
	score := p.promise*w.Promise + p.observation*w.Observation +
		p.correlation*w.Correlation + p.guardrails*w.Guardrails +
		p.evidence*w.Evidence

	var advisory []string
	if p.weakCorrelation {
		advisory = append(advisory, "weak correlation between promise and observation")
	}
	if p.incompleteEvidence {
		advisory = append(advisory, "incomplete evidence pillar")
	}
	if p.guardrails < 0.5 {
		score -= e.policy.ContradictionPenalty
	}
	if p.contradiction {
		advisory = append(advisory, "contradiction detected by internal guardrails")
	}

	channels := types.ChannelPresence{Network: true, Console: true, UI: true}
	if cand.Observed != nil {
		channels = cand.Observed.Channels
	}
	if !channels.AllPresent() {
		score -= e.policy.ChannelAbsencePenalty
		advisory = append(advisory, "sensor channel absent; uncertainty penalty applied")
	}
	score = clamp01(score)

	// Truth locks apply after all weighting.
	if run.DeterminismVerdict == types.NonDeterministic && score > e.policy.NonDeterministicCeiling {
		score = e.policy.NonDeterministicCeiling
		advisory = append(advisory, "non-deterministic run; confidence capped")
	}
	if cand.Status == types.StatusConfirmed && !run.EvidencePackage.IsComplete &&
		score > e.policy.IncompletePackageCap {
		score = e.policy.IncompletePackageCap
		advisory = append(advisory, "evidence package incomplete; confidence capped")
	}

	reasons := coreReasons(cand, p)

	return types.ConfidenceResult{
		Score01:         score,
		Score100:        int(math.Round(score * 100)),
		Level:           e.level(score),
		Reasons:         reasons,
		AdvisoryReasons: advisory,
		TopReasons:      topReasons(reasons),
	}
}

// Cap returns the lowest truth-lock ceiling applicable to a candidate of the
// given status under the run inputs, so callers can hold their own scores to
// the same locks.
func (e *Engine) Cap(status types.Status, run types.RunInputs) (float64, bool) {
	ceiling := 1.0
	capped := false
	if run.DeterminismVerdict == types.NonDeterministic {
		ceiling = e.policy.NonDeterministicCeiling
		capped = true
	}
	if status == types.StatusConfirmed && !run.EvidencePackage.IsComplete &&
		e.policy.IncompletePackageCap < ceiling {
		ceiling = e.policy.IncompletePackageCap
		capped = true
	}
	return ceiling, capped
}

func (e *Engine) level(score float64) types.Level {
	switch {
	case score >= e.policy.HighThreshold:
		return types.LevelHigh
	case score >= e.policy.MediumThreshold:
		return types.LevelMedium
	default:
		return types.LevelUnproven
	}
}

func (e *Engine) pillars(cand types.Candidate) pillars {
	var p pillars

	p.promise = promiseStrength(cand.Promise)

	var sig types.Signals
	var ev types.EvidenceRefs
	if cand.Observed != nil {
		sig = cand.Observed.Signals
		ev = cand.Observed.Evidence
	}

	p.observation = observationStrength(sig)
	p.correlation, p.weakCorrelation = correlationQuality(sig, ev)
	p.guardrails, p.contradiction = internalGuardrails(sig)
	p.evidence, p.incompleteEvidence = evidenceCompleteness(sig, ev)

	return p
}

// promiseStrength grades how the originating promise was derived. Fallback
// candidates carry no promise and score at the floor.
func promiseStrength(exp *types.Expectation) float64 {
	if exp == nil {
		return 0.2
	}
	switch exp.ConfidenceHint {
	case types.DerivationProven:
		return 1.0
	case types.DerivationObserved:
		return 0.75
	case types.DerivationWeak:
		return 0.4
	default:
		return 0.2
	}
}

// observationStrength sums fixed per-signal contributions, clamped to 1.0.
// Zero signals means zero strength, not a default.
func observationStrength(sig types.Signals) float64 {
	var s float64
	if sig.NavigationChanged || sig.RouteChanged {
		s += 0.3
	}
	if sig.MeaningfulDomChange {
		s += 0.25
	}
	if sig.FeedbackSeen || sig.UIFeedbackScore > 0.5 {
		s += 0.25
	}
	if sig.ConsoleErrors {
		s += 0.1
	}
	if sig.NetworkFailure {
		s += 0.15
	}
	if sig.NetworkSuccess {
		s += 0.1
	}
	return clamp01(s)
}

// correlationQuality grades how tightly the observation ties back to the
// promise. Starts neutral and earns credit per linkage.
func correlationQuality(sig types.Signals, ev types.EvidenceRefs) (float64, bool) {
	s := 0.5
	if ev.OutcomeWatcher != nil && !ev.OutcomeWatcher.TimedOut {
		s += 0.1 // timing alignment: the watcher settled inside its window
	}
	if ev.RouteData != nil && ev.RouteData.RouteDefinition != "" {
		s += 0.15
	}
	if sig.CorrelatedNetworkActivity {
		s += 0.15
	}
	if ev.TraceID != "" || ev.SourceSnippet != "" {
		s += 0.1
	}
	s = clamp01(s)
	return s, s < 0.6
}

// internalGuardrails is the pillar-level contradiction check, distinct from
// the categorical policy engine that runs afterwards.
func internalGuardrails(sig types.Signals) (float64, bool) {
	s := 1.0
	if sig.AnalyticsOnlyTraffic {
		s -= 0.3
	}
	if sig.HashOnlyRouting {
		s -= 0.3
	}
	if sig.NetworkSuccess && !sig.MeaningfulUIChange && !sig.FeedbackSeen {
		s -= 0.3
	}
	if sig.FeedbackSeen || sig.MeaningfulUIChange {
		s -= 0.4
	}
	s = clamp01(s)
	return s, s < 0.6
}

// evidenceCompleteness credits each captured artifact class.
func evidenceCompleteness(sig types.Signals, ev types.EvidenceRefs) (float64, bool) {
	var s float64
	if ev.BeforeScreenshot != "" && ev.AfterScreenshot != "" {
		s += 0.35
	}
	if ev.TraceID != "" {
		s += 0.2
	}
	if sig.Any() {
		s += 0.25
	}
	if ev.SourceSnippet != "" {
		s += 0.2
	}
	s = clamp01(s)
	return s, s < 0.5
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
