package sem

import (
	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/types"
)

// registerAnalysisRules wires the pure-diagnostic analysis pass. Most of the
// language's structural checks (redeclaration, unresolved names, type
// mismatch, arity, const-assignment, invalid cast, void-return mismatch,
// missing struct) are reported inline by the scope/type rules as they
// resolve each node, since each of those checks needs the exact value a
// rule is already computing. The analysis-rule registry carries the
// remaining class of checks that only make sense after every node has both
// a scope and a dataType: If/While's condition must type as bool, since
// codegen emits it directly as a Wasm i32 branch test with no further
// coercion. Missing-return detection, alignment warnings, numeric-literal
// range checks, and &&/|| short-circuit semantics remain unimplemented, per
// the documented non-goals.
func registerAnalysisRules(a *Analyzer) {
	a.addAnalysisRule(ast.If, conditionMustBeBoolRule)
	a.addAnalysisRule(ast.While, conditionMustBeBoolRule)
}

func conditionMustBeBoolRule(a *Analyzer, n *ast.Node) {
	cond := n.Child(0)
	if cond == nil {
		return
	}
	t := a.getDataType(cond)
	if t != types.Bool && t != types.Invalid {
		a.errorf(cond, "Condition must be of type bool, got %s", t)
	}
}
