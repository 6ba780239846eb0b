package sem

import (
	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/token"
	"github.com/schwa-lang/schwa/internal/types"
)

// unaryRow and binaryRow are one admissible row of an operator's type-set
// table: the operand type(s) that must match exactly, and the result type.
type unaryRow struct{ in, out string }
type binaryRow struct{ left, right, out string }

func uniformUnary(ts ...string) []unaryRow {
	rows := make([]unaryRow, len(ts))
	for i, t := range ts {
		rows[i] = unaryRow{in: t, out: t}
	}
	return rows
}

func uniformBinary(ts ...string) []binaryRow {
	rows := make([]binaryRow, len(ts))
	for i, t := range ts {
		rows[i] = binaryRow{left: t, right: t, out: t}
	}
	return rows
}

func comparisonBinary(includeBool bool) []binaryRow {
	numeric := []string{types.Int, types.UInt, types.Long, types.ULong, types.Float, types.Double}
	rows := make([]binaryRow, 0, len(numeric)+1)
	for _, t := range numeric {
		rows = append(rows, binaryRow{t, t, types.Bool})
	}
	if includeBool {
		rows = append(rows, binaryRow{types.Bool, types.Bool, types.Bool})
	}
	return rows
}

var unaryTables = map[token.Kind][]unaryRow{
	token.Minus: uniformUnary(types.Int, types.Long, types.Float, types.Double),
	token.Tilde: uniformUnary(types.Int, types.UInt, types.Long, types.ULong),
	token.Bang:  uniformUnary(types.Bool),
}

var (
	arithmeticRows  = uniformBinary(types.Int, types.UInt, types.Long, types.ULong, types.Float, types.Double)
	fixedWidthRows  = uniformBinary(types.Int, types.UInt, types.Long, types.ULong)
	equalityRows    = comparisonBinary(true)
	orderedRows     = comparisonBinary(false)
	logicRows       = []binaryRow{{types.Bool, types.Bool, types.Bool}}
)

var binaryTables = map[token.Kind][]binaryRow{
	token.Plus: arithmeticRows, token.Minus: arithmeticRows,
	token.Star: arithmeticRows, token.Slash: arithmeticRows,

	token.Percent: fixedWidthRows, token.Amp: fixedWidthRows, token.Pipe: fixedWidthRows,
	token.Caret: fixedWidthRows, token.Shl: fixedWidthRows, token.Shr: fixedWidthRows,
	token.RotL: fixedWidthRows, token.RotR: fixedWidthRows,

	token.Eq: equalityRows, token.Ne: equalityRows,
	token.Lt: orderedRows, token.Le: orderedRows, token.Gt: orderedRows, token.Ge: orderedRows,

	token.AndAnd: logicRows, token.OrOr: logicRows,
}

// pair and pairTable build the explicit cast tables: a map from (source,
// target) to the result type, per spec's permitted-pairs listing.
func pair(a, b string) [2]string { return [2]string{a, b} }

func pairTable(pairs ...[2]string) map[[2]string]string {
	m := make(map[[2]string]string, len(pairs))
	for _, p := range pairs {
		m[p] = p[1]
	}
	return m
}

// asTable backs the value-preserving `as` cast.
var asTable = pairTable(
	pair(types.Int, types.UInt), pair(types.UInt, types.Int),
	pair(types.Int, types.Float), pair(types.Float, types.Int),
	pair(types.UInt, types.Float), pair(types.Float, types.UInt),
	pair(types.Long, types.ULong), pair(types.ULong, types.Long),
	pair(types.Long, types.Double), pair(types.Double, types.Long),
	pair(types.ULong, types.Double), pair(types.Double, types.ULong),
)

// toTable backs the bit-reinterpret/widening `to` cast: every cross-type
// pair among the numeric primitives except same-type identity pairs, which
// `to` never needs since reinterpreting a type as itself is a no-op the
// parser should fold away upstream.
var toTable = buildToTable()

func buildToTable() map[[2]string]string {
	all := []string{types.Int, types.UInt, types.Long, types.ULong, types.Float, types.Double}
	m := make(map[[2]string]string)
	for _, from := range all {
		for _, to := range all {
			if from == to {
				continue
			}
			m[[2]string{from, to}] = to
		}
	}
	return m
}

func unaryOpTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	operand := n.Child(0)
	ot := a.getDataType(operand)
	if ot == types.Invalid {
		return types.Invalid, true
	}
	for _, row := range unaryTables[n.Tok.Kind] {
		if row.in == ot {
			return row.out, true
		}
	}
	a.errorf(n, "Invalid argument %s to operator %s", ot, n.Tok.Kind)
	return types.Invalid, true
}

func binaryOpTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	switch n.Tok.Kind {
	case token.KwAs:
		return castTypeRule(a, n, asTable)
	case token.KwTo:
		return castTypeRule(a, n, toTable)
	}

	lhs, rhs := n.Child(0), n.Child(1)
	lt, rt := a.getDataType(lhs), a.getDataType(rhs)
	if lt == types.Invalid || rt == types.Invalid {
		return types.Invalid, true
	}
	for _, row := range binaryTables[n.Tok.Kind] {
		if row.left == lt && row.right == rt {
			return row.out, true
		}
	}
	a.errorf(n, "Invalid arguments %s, %s to operator %s", lt, rt, n.Tok.Kind)
	return types.Invalid, true
}

// castTypeRule backs both `as` and `to`: the right child is a Type node
// naming the target, never an expression to infer a type from.
func castTypeRule(a *Analyzer, n *ast.Node, table map[[2]string]string) (string, bool) {
	lhs, rhs := n.Child(0), n.Child(1)
	lt := a.getDataType(lhs)
	if lt == types.Invalid {
		return types.Invalid, true
	}
	target := typeNameOf(rhs.Tok)
	if target == types.Bool {
		a.errorf(n, "Invalid argument %s to cast", target)
		return types.Invalid, true
	}
	if out, ok := table[[2]string{lt, target}]; ok {
		return out, true
	}
	a.errorf(n, "Invalid argument %s to cast", target)
	return types.Invalid, true
}
