// Package guardrails implements the categorical rule evaluator that runs over
// already-scored candidates. Rules come from a versioned policy document and
// can only ever move a finding toward lower status privilege; conflicting
// recommendations resolve by action precedence (BLOCK over DOWNGRADE over
// INFO), ties by ascending rule id.
package guardrails

import (
	"fmt"
	"sort"

	"deadclick/internal/types"
)

// Action grades how forcefully a rule intervenes.
type Action string

const (
	ActionBlock     Action = "BLOCK"
	ActionDowngrade Action = "DOWNGRADE"
	ActionInfo      Action = "INFO"
)

func actionRank(a Action) int {
	switch a {
	case ActionBlock:
		return 2
	case ActionDowngrade:
		return 1
	case ActionInfo:
		return 0
	default:
		return -1
	}
}

// Evaluation names the predicate a rule runs. The type must be registered in
// this package; unknown types are a policy error caught at load time.
type Evaluation struct {
	Type string `yaml:"type"`
}

// Rule is one policy object.
type Rule struct {
	ID                string       `yaml:"id"`
	AppliesTo         []string     `yaml:"applies_to,omitempty"` // finding types; empty means all
	Evaluation        Evaluation   `yaml:"evaluation"`
	Action            Action       `yaml:"action"`
	RecommendedStatus types.Status `yaml:"recommended_status,omitempty"`
	ConfidenceDelta   float64      `yaml:"confidence_delta"`
	Category          string       `yaml:"category,omitempty"`
	Message           string       `yaml:"message,omitempty"`
}

// Policy is the versioned guardrails policy document.
type Policy struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Engine evaluates a fixed, validated rule set. Read-only after construction;
// safe for concurrent use.
type Engine struct {
	rules []Rule
}

// NewEngine validates the policy and fixes evaluation order (ascending id).
func NewEngine(policy Policy) (*Engine, error) {
	seen := make(map[string]bool, len(policy.Rules))
	for _, r := range policy.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("guardrails policy: rule with empty id")
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("guardrails policy: duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		if actionRank(r.Action) < 0 {
			return nil, fmt.Errorf("guardrails policy: rule %s has unknown action %q", r.ID, r.Action)
		}
		if _, ok := evaluators[r.Evaluation.Type]; !ok {
			return nil, fmt.Errorf("guardrails policy: rule %s has unknown evaluation type %q", r.ID, r.Evaluation.Type)
		}
		if r.Action != ActionInfo && types.StatusPrivilege(r.RecommendedStatus) < 0 {
			return nil, fmt.Errorf("guardrails policy: rule %s (%s) needs a valid recommended status", r.ID, r.Action)
		}
	}

	rules := append([]Rule(nil), policy.Rules...)
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return &Engine{rules: rules}, nil
}

// Evaluate runs every applicable rule against the candidate and resolves a
// single recommendation. The report never raises status privilege: a
// recommendation at or above the candidate's current status is recorded as a
// no-op in the decision trail.
func (e *Engine) Evaluate(cand types.Candidate, run types.RunInputs) types.GuardrailsReport {
	var report types.GuardrailsReport
	var winner *Rule

	for i := range e.rules {
		r := &e.rules[i]
		if !r.applies(cand.Type) {
			continue
		}
		verdict := evaluators[r.Evaluation.Type](cand, run)
		if !verdict.fires {
			continue
		}

		report.AppliedRules = append(report.AppliedRules, r.ID)
		if verdict.contradiction {
			report.Contradictions = append(report.Contradictions, ruleMessage(r, verdict))
		}
		if r.ConfidenceDelta != 0 {
			report.ConfidenceAdjustments = append(report.ConfidenceAdjustments, types.ConfidenceAdjustment{
				RuleID: r.ID,
				Delta:  r.ConfidenceDelta,
				Reason: ruleMessage(r, verdict),
			})
			report.ConfidenceDelta += r.ConfidenceDelta
		}

		if r.Action == ActionInfo {
			continue
		}
		if winner == nil || actionRank(r.Action) > actionRank(winner.Action) {
			winner = r
		}
	}

	if winner == nil {
		report.FinalDecision = "no guardrail intervened"
		return report
	}

	if types.StatusPrivilege(winner.RecommendedStatus) < types.StatusPrivilege(cand.Status) {
		report.RecommendedStatus = winner.RecommendedStatus
		report.FinalDecision = fmt.Sprintf("rule %s forces %s", winner.ID, winner.RecommendedStatus)
	} else {
		report.FinalDecision = fmt.Sprintf("rule %s recommendation %s is not a downgrade; status unchanged",
			winner.ID, winner.RecommendedStatus)
	}
	return report
}

// Apply folds a report into the candidate: the recommended status (already
// privilege-checked) replaces the current one and the summed delta adjusts
// confidence, clamped into [0,1].
func Apply(cand types.Candidate, report types.GuardrailsReport) types.Candidate {
	out := cand
	if report.RecommendedStatus != "" {
		out.Status = report.RecommendedStatus
	}
	out.Confidence = clamp01(out.Confidence + report.ConfidenceDelta)
	return out
}

func (r *Rule) applies(t types.FindingType) bool {
	if len(r.AppliesTo) == 0 {
		return true
	}
	for _, a := range r.AppliesTo {
		if a == string(t) {
			return true
		}
	}
	return false
}

func ruleMessage(r *Rule, v verdict) string {
	if v.message != "" {
		return v.message
	}
	return r.Message
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
