// Package constitution batch-validates finalized findings before they reach a
// caller. A finding with no evidence payload, or with neither a fired signal
// nor a matched promise, is dropped; drops are never silent, they are reported
// in the batch summary. Survivors are deduplicated by content-derived id,
// first occurrence wins, relative order preserved.
package constitution

import "deadclick/internal/types"

// Validator applies the emission rules. Stateless.
type Validator struct{}

// NewValidator builds the validator.
func NewValidator() *Validator { return &Validator{} }

// Validate filters and deduplicates the batch. The input slice is never
// mutated; order of survivors matches input order.
func (v *Validator) Validate(findings []types.Finding) ([]types.Finding, types.ValidationSummary) {
	var summary types.ValidationSummary
	out := make([]types.Finding, 0, len(findings))
	seen := make(map[string]bool, len(findings))

	for _, f := range findings {
		if reason, ok := v.rejects(f); ok {
			summary.DroppedIDs = append(summary.DroppedIDs, f.ID)
			summary.DropReasons = append(summary.DropReasons, reason)
			continue
		}
		if seen[f.ID] {
			summary.CollapsedIDs = append(summary.CollapsedIDs, f.ID)
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}

	summary.Emitted = len(out)
	return out, summary
}

// rejects returns the drop reason for an invalid finding.
func (v *Validator) rejects(f types.Finding) (string, bool) {
	if !f.Evidence.NonEmpty() {
		return "no evidence payload", true
	}
	if !f.Signals.Any() && f.Promise == nil {
		return "no fired signals and no matched promise", true
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return "confidence outside [0,1]", true
	}
	return "", false
}
