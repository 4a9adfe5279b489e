package intent

import (
	"strings"

	"deadclick/internal/types"
)

// noOpActionWords are actions that legitimately do nothing against an empty
// state ("clear" an empty list, "delete" with nothing selected).
var noOpActionWords = []string{"clear", "delete", "remove", "reset", "dismiss", "deselect", "cancel"}

// AnalyzeStateContext explains an apparent non-effect as legitimate behavior:
// an empty-state result, a pre-disabled control, or a recognized no-op
// action/state combination. It only ever caps confidence or downgrades status
// downstream - detection itself is never suppressed by this.
func AnalyzeStateContext(obs types.Observation, exp *types.Expectation) types.StateContext {
	var ctx types.StateContext

	if obs.Signals.EmptyState {
		ctx.IsEmpty = true
		ctx.Reasons = append(ctx.Reasons, "ui reported an empty state")
	}

	if snap := obs.Evidence.Snapshot; snap != nil {
		if snap.Disabled || snap.AriaDisabled {
			ctx.IsDisabled = true
			ctx.Reasons = append(ctx.Reasons, "control was disabled before the interaction")
		}
	}

	if ctx.IsEmpty && isNoOpAction(obs, exp) {
		ctx.IsNoOp = true
		ctx.Reasons = append(ctx.Reasons, "recognized no-op action against an empty state")
	}

	ctx.Reasons = capReasons(ctx.Reasons)
	return ctx
}

// isNoOpAction checks the element label and promise value for a known
// no-op-against-empty-state action word.
func isNoOpAction(obs types.Observation, exp *types.Expectation) bool {
	var label strings.Builder
	if snap := obs.Evidence.Snapshot; snap != nil {
		label.WriteString(snap.AriaLabel)
		label.WriteString(" ")
		label.WriteString(snap.Text)
	}
	if exp != nil {
		label.WriteString(" ")
		label.WriteString(exp.Value)
	}

	lower := strings.ToLower(label.String())
	for _, word := range noOpActionWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
