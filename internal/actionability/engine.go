// Package actionability decides whether an exercised element was actually
// actionable (visible, enabled, non-zero area, pointer events live) by
// deriving datalog facts over the captured element snapshot. The dead
// interaction detector refuses to judge clicks on non-actionable elements.
package actionability

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	_ "github.com/google/mangle/packages"
	"github.com/google/mangle/parse"
)

// evaluator wraps a compiled rule program. The schema is parsed once; every
// evaluation runs against a fresh fact store so results never depend on prior
// calls.
type evaluator struct {
	mu             sync.RWMutex
	programInfo    *analysis.ProgramInfo
	predicateIndex map[string]ast.PredicateSym
}

// fact is a single ground fact pushed before evaluation. All arguments are
// strings: numeric thresholds are resolved in Go before fact emission, so the
// rules stay pure joins.
type fact struct {
	predicate string
	args      []string
}

func newEvaluator(schema string) (*evaluator, error) {
	unit, err := parse.Unit(bytes.NewReader([]byte(schema)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse actionability rules: %w", err)
	}

	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze actionability rules: %w", err)
	}

	index := make(map[string]ast.PredicateSym, len(programInfo.Decls))
	for sym := range programInfo.Decls {
		index[sym.Symbol] = sym
	}

	return &evaluator{programInfo: programInfo, predicateIndex: index}, nil
}

// evaluate inserts the facts into a fresh store, runs the rules, and returns
// every derived fact for the given predicate.
func (e *evaluator) evaluate(facts []fact, derived string) ([][]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	store := factstore.NewSimpleInMemoryStore()
	for _, f := range facts {
		sym, ok := e.predicateIndex[f.predicate]
		if !ok {
			return nil, fmt.Errorf("predicate %s is not declared", f.predicate)
		}
		if len(f.args) != sym.Arity {
			return nil, fmt.Errorf("predicate %s expects %d args, got %d", f.predicate, sym.Arity, len(f.args))
		}
		args := make([]ast.BaseTerm, len(f.args))
		for i, a := range f.args {
			args[i] = ast.String(a)
		}
		store.Add(ast.Atom{Predicate: sym, Args: args})
	}

	if err := mengine.EvalProgram(e.programInfo, store); err != nil {
		return nil, fmt.Errorf("rule evaluation failed: %w", err)
	}

	sym, ok := e.predicateIndex[derived]
	if !ok {
		return nil, fmt.Errorf("derived predicate %s is not declared", derived)
	}

	var results [][]string
	err := store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		row := make([]string, len(atom.Args))
		for i, arg := range atom.Args {
			row[i] = termString(arg)
		}
		results = append(results, row)
		return nil
	})
	return results, err
}

func termString(term ast.BaseTerm) string {
	if c, ok := term.(ast.Constant); ok {
		switch c.Type {
		case ast.StringType, ast.NameType:
			return c.Symbol
		}
		return c.String()
	}
	return fmt.Sprintf("%v", term)
}
