package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	toks, lexLog := lexer.New(strings.NewReader(src)).Tokenize()
	require.Empty(t, lexLog.Diagnostics)
	root, parseLog := parser.New(toks).Parse()
	require.Empty(t, parseLog.Diagnostics)
	return root
}

func TestParseFunctionWithArithmeticReturn(t *testing.T) {
	root := parse(t, "func int add(int a, int b)\n    return a + b\n")
	require.Len(t, root.Children, 1)

	fn := root.Child(0)
	require.Equal(t, ast.FunctionDef, fn.Kind)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, "int", fn.Tok.Text)

	params := fn.Child(0)
	require.Len(t, params.Children, 2)
	require.Equal(t, "a", params.Child(0).Name)
	require.Equal(t, "b", params.Child(1).Name)

	body := fn.Child(1)
	require.Equal(t, ast.Block, body.Kind)
	require.Len(t, body.Children, 1)

	ret := body.Child(0)
	require.Equal(t, ast.Return, ret.Kind)
	plus := ret.Child(0)
	require.Equal(t, ast.BinaryOp, plus.Kind)
}

func TestParseVoidReturn(t *testing.T) {
	root := parse(t, "func void run()\n    return\n")
	fn := root.Child(0)
	body := fn.Child(1)
	require.Equal(t, ast.ReturnVoid, body.Child(0).Kind)
}

func TestParseGlobalAndAssignment(t *testing.T) {
	root := parse(t, "int x = 5\nfunc void main()\n    x = 3\n")
	require.Len(t, root.Children, 2)

	global := root.Child(0)
	require.Equal(t, ast.Global, global.Kind)
	require.Equal(t, "x", global.Child(0).Name)
	require.Equal(t, ast.Literal, global.Child(1).Kind)

	main := root.Child(1)
	assign := main.Child(1).Child(0)
	require.Equal(t, ast.Assignment, assign.Kind)
	require.Equal(t, ast.VariableId, assign.Child(0).Kind)
}

func TestParseConstGlobal(t *testing.T) {
	root := parse(t, "const int LIMIT = 10\n")
	constNode := root.Child(0)
	require.Equal(t, ast.Const, constNode.Kind)
	global := constNode.Child(0)
	require.Equal(t, ast.Global, global.Kind)
	require.Equal(t, "LIMIT", global.Child(0).Name)
}

func TestParseExportedFunction(t *testing.T) {
	root := parse(t, "export func int id(int x)\n    return x\n")
	exportNode := root.Child(0)
	require.Equal(t, ast.Export, exportNode.Kind)
	require.Equal(t, ast.FunctionDef, exportNode.Child(0).Kind)
}

func TestParseMapDecl(t *testing.T) {
	root := parse(t, "struct Point\n    int x\n    int y\nmap Point p 1024\n")
	structDef := root.Child(0)
	require.Equal(t, ast.StructDef, structDef.Kind)
	require.Equal(t, "Point", structDef.Name)
	fields := structDef.Child(0)
	require.Len(t, fields.Children, 2)

	mapNode := root.Child(1)
	require.Equal(t, ast.Map, mapNode.Kind)
	require.Equal(t, "p", mapNode.Child(0).Name)
	require.Equal(t, "1024", mapNode.Child(1).Tok.Text)
}

func TestParseMemberAccessAndCall(t *testing.T) {
	root := parse(t, "struct Point\n    int x\nmap Point p 0\nfunc void main()\n    p.x = int.load(0)\n")
	main := root.Child(2)
	assign := main.Child(1).Child(0)
	require.Equal(t, ast.Assignment, assign.Kind)

	access := assign.Child(0)
	require.Equal(t, ast.Access, access.Kind)
	require.Equal(t, "p", access.Child(0).Ident())
	require.Equal(t, "x", access.Child(1).Tok.Text)

	call := assign.Child(1)
	require.Equal(t, ast.FunctionCall, call.Kind)
	callee := call.Child(0)
	require.Equal(t, ast.Access, callee.Kind)
	require.Equal(t, "int", callee.Child(0).Ident())
	require.Equal(t, "load", callee.Child(1).Tok.Text)
}

func TestParseCastExpression(t *testing.T) {
	root := parse(t, "int x = 1\ndouble y = x as double\n")
	y := root.Child(1)
	cast := y.Child(1)
	require.Equal(t, ast.BinaryOp, cast.Kind)
	typeNode := cast.Child(1)
	require.Equal(t, ast.Type, typeNode.Kind)
	require.Equal(t, "double", typeNode.Tok.Text)
}

func TestParseIfWhileAndLocalVar(t *testing.T) {
	src := "func int f(int n)\n    int acc\n    acc = 0\n    while n > 0\n        acc = acc + n\n        n = n - 1\n    if acc > 10\n        return acc\n    else\n        return 0\n"
	root := parse(t, src)
	fn := root.Child(0)
	body := fn.Child(1)

	require.Equal(t, ast.VariableDef, body.Child(0).Kind)
	require.Equal(t, ast.Assignment, body.Child(1).Kind)

	whileNode := body.Child(2)
	require.Equal(t, ast.While, whileNode.Kind)
	require.Equal(t, ast.Block, whileNode.Child(1).Kind)

	ifNode := body.Child(3)
	require.Equal(t, ast.If, ifNode.Kind)
	require.Len(t, ifNode.Children, 3)
}

func TestParseOperatorPrecedence(t *testing.T) {
	root := parse(t, "bool b = 1 + 2 * 3 == 7 && true\n")
	global := root.Child(0)
	top := global.Child(1)
	require.Equal(t, ast.BinaryOp, top.Kind)
	// Outermost operator is &&, its left is the == comparison.
	require.Equal(t, "&&", top.Tok.Text)
	eqNode := top.Child(0)
	require.Equal(t, "==", eqNode.Tok.Text)
}

func TestParseUnexpectedTokenDiagnosed(t *testing.T) {
	toks, lexLog := lexer.New(strings.NewReader("func int f()\n    return +\n")).Tokenize()
	require.Empty(t, lexLog.Diagnostics)
	_, parseLog := parser.New(toks).Parse()
	require.NotEmpty(t, parseLog.Diagnostics)
}
