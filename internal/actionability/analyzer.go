package actionability

import (
	"fmt"
	"sort"

	"deadclick/internal/types"
)

// rules derive not_actionable(Id, Reason) from element facts. Numeric and
// style thresholds are resolved to string-valued facts in Go before emission,
// keeping the rule bodies pure joins.
const rules = `
Decl control(Id, Tag) bound [/string, /string].
Decl visible(Id, Value) bound [/string, /string].
Decl enabled(Id, Value) bound [/string, /string].
Decl aria_hidden(Id, Value) bound [/string, /string].
Decl pointer_events(Id, Value) bound [/string, /string].
Decl zero_area(Id, Value) bound [/string, /string].

Decl not_actionable(Id, Reason) bound [/string, /string].

not_actionable(Id, "not visible") :- visible(Id, "false").
not_actionable(Id, "disabled control") :- enabled(Id, "false").
not_actionable(Id, "aria-hidden") :- aria_hidden(Id, "true").
not_actionable(Id, "pointer events disabled") :- pointer_events(Id, "none").
not_actionable(Id, "zero-area geometry") :- zero_area(Id, "true").
`

// Result is the actionability verdict for a single element snapshot.
type Result struct {
	Actionable bool     `json:"actionable"`
	Reasons    []string `json:"reasons,omitempty"`
}

// Analyzer evaluates element snapshots against the compiled actionability
// rules. Safe for concurrent use; each Analyze call sees a fresh fact store.
type Analyzer struct {
	eval *evaluator
}

// NewAnalyzer compiles the actionability rules.
func NewAnalyzer() (*Analyzer, error) {
	eval, err := newEvaluator(rules)
	if err != nil {
		return nil, err
	}
	return &Analyzer{eval: eval}, nil
}

// Analyze derives the actionability verdict for the snapshot. A nil snapshot
// is not actionable: without captured element state there is no basis to
// claim the click had a live target.
func (a *Analyzer) Analyze(snap *types.ElementSnapshot) (Result, error) {
	if snap == nil {
		return Result{Actionable: false, Reasons: []string{"no element snapshot captured"}}, nil
	}

	const id = "elem"
	facts := []fact{
		{predicate: "control", args: []string{id, snap.TagName}},
		{predicate: "visible", args: []string{id, boolWord(snap.Visible)}},
		{predicate: "enabled", args: []string{id, boolWord(!snap.Disabled && !snap.AriaDisabled)}},
		{predicate: "aria_hidden", args: []string{id, boolWord(snap.AriaHidden)}},
		{predicate: "zero_area", args: []string{id, boolWord(snap.BoundingBox.Width <= 0 || snap.BoundingBox.Height <= 0)}},
	}
	pointer := "auto"
	if snap.PointerEventsNone {
		pointer = "none"
	}
	facts = append(facts, fact{predicate: "pointer_events", args: []string{id, pointer}})

	rows, err := a.eval.evaluate(facts, "not_actionable")
	if err != nil {
		return Result{}, fmt.Errorf("actionability analysis: %w", err)
	}

	var reasons []string
	for _, row := range rows {
		if len(row) == 2 && row[0] == id {
			reasons = append(reasons, row[1])
		}
	}
	sort.Strings(reasons)

	return Result{Actionable: len(reasons) == 0, Reasons: reasons}, nil
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
