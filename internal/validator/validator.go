// Package validator runs structural shape checks over a parsed AST before it
// reaches the semantic analyzer: child-count and child-kind constraints per
// ast.Kind. A node failing its shape check is marked invalid so the analyzer
// can short-circuit on it (see internal/sem's handling of ast.Node.Valid)
// instead of indexing out of range or dereferencing a nil child.
//
// Grounded on the defensive arity checks scattered through the teacher's
// lang/parse/parser.go (e.g. parseParam/parseStructField bailing out on a
// malformed field list) promoted here into one explicit, table-driven pass
// run after parsing rather than inline during it.
package validator

import (
	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/diag"
)

const producer = "Validator"

// shape describes the expected child count (or a -1 "variadic" sentinel) and
// the expected Kind of each fixed child position for one ast.Kind.
type shape struct {
	minChildren int
	maxChildren int // -1 means unbounded
	childKinds  []ast.Kind
}

var shapes = map[ast.Kind]shape{
	ast.Program:      {0, -1, nil},
	ast.Block:        {0, -1, nil},
	ast.Fields:       {0, -1, nil},
	ast.Parameters:   {0, -1, nil},
	ast.Arguments:    {0, -1, nil},
	ast.StructDef:    {1, 1, []ast.Kind{ast.Fields}},
	ast.FunctionDef:  {2, 2, []ast.Kind{ast.Parameters, ast.Block}},
	ast.VariableDef:  {0, 0, nil},
	ast.Global:       {2, 2, []ast.Kind{ast.VariableDef, ast.Invalid}}, // 2nd child is any expression
	ast.Map:          {2, 2, []ast.Kind{ast.VariableDef, ast.Literal}},
	ast.Const:        {1, 1, nil},
	ast.Export:       {1, 1, nil},
	ast.Access:       {2, 2, nil},
	ast.Assignment:   {2, 2, nil},
	ast.BinaryOp:     {2, 2, nil},
	ast.UnaryOp:      {1, 1, nil},
	ast.FunctionCall: {2, 2, []ast.Kind{ast.Invalid, ast.Arguments}},
	ast.Return:       {1, 1, nil},
	ast.ReturnVoid:   {0, 0, nil},
	ast.If:           {2, 3, nil},
	ast.While:        {2, 2, nil},
	ast.Type:         {0, 0, nil},
	ast.VariableId:   {0, 0, nil},
	ast.FunctionId:   {0, 0, nil},
	ast.StructId:     {0, 0, nil},
	ast.Literal:      {0, 0, nil},
}

// Validate walks root and flips Valid to false on every node whose shape
// doesn't match its Kind's expectation. It never removes nodes or aborts:
// every reachable node is visited exactly once, same as the other passes in
// this pipeline.
func Validate(root *ast.Node) *diag.Logger {
	log := diag.NewLogger(producer)
	ast.Walk(root, func(n *ast.Node) {
		checkNode(log, n)
	})
	return log
}

func checkNode(log *diag.Logger, n *ast.Node) {
	sh, ok := shapes[n.Kind]
	if !ok {
		return
	}
	count := len(n.Children)
	if count < sh.minChildren || (sh.maxChildren >= 0 && count > sh.maxChildren) {
		errorf(log, n, "%s has %d children, expected between %d and %d", n.Kind, count, sh.minChildren, maxLabel(sh.maxChildren))
		n.Valid = false
		return
	}
	for i, want := range sh.childKinds {
		if want == ast.Invalid {
			continue // ast.Invalid is used as a wildcard: any kind is accepted at this position
		}
		child := n.Child(i)
		if child == nil || child.Kind != want {
			errorf(log, n, "%s expects child %d to be %s", n.Kind, i, want)
			n.Valid = false
			return
		}
	}
}

func maxLabel(max int) interface{} {
	if max < 0 {
		return "unbounded"
	}
	return max
}

func errorf(log *diag.Logger, n *ast.Node, format string, args ...interface{}) {
	log.Error(diag.Span{Row: n.Tok.Row, Col: n.Tok.Col, Length: len(n.Tok.Text)}, format, args...)
}
