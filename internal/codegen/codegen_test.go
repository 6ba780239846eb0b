package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/codegen"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
	"github.com/schwa-lang/schwa/internal/sem"
	"github.com/schwa-lang/schwa/internal/validator"
)

// compile runs the full front end (lex, parse, validate, analyze) and fails
// the test immediately if any stage reports a diagnostic, returning the
// analyzed root ready for Generate.
func compile(t *testing.T, src string) *ast.Node {
	t.Helper()
	toks, lexLog := lexer.New(strings.NewReader(src)).Tokenize()
	require.Empty(t, lexLog.Diagnostics)

	tree, parseLog := parser.New(toks).Parse()
	require.Empty(t, parseLog.Diagnostics)

	valLog := validator.Validate(tree)
	require.Empty(t, valLog.Diagnostics)

	a := sem.NewAnalyzer()
	a.Analyze(tree)
	require.False(t, a.Log.HasErrors(), "%v", a.Log.Diagnostics)

	return tree
}

func TestModuleBytesHaveWasmHeader(t *testing.T) {
	m := codegen.NewModule(0, false)
	m.AddFunction(nil, nil, []byte{0x0B})
	b := m.Bytes()
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}, b[:8])
}

func TestGenerateSimpleAddFunction(t *testing.T) {
	root := compile(t, "export func int add(int a, int b)\n    return a + b\n")
	mod, err := codegen.Generate(root, 0)
	require.NoError(t, err)
	require.NotNil(t, mod)

	wasm := mod.Bytes()
	require.NoError(t, codegen.Verify(wasm))
}

func TestGenerateVoidFunctionWithLocalsAndLoop(t *testing.T) {
	src := "export func void count(int n)\n" +
		"    int acc\n" +
		"    acc = 0\n" +
		"    while acc < n\n" +
		"        acc = acc + 1\n" +
		"    return\n"
	root := compile(t, src)
	mod, err := codegen.Generate(root, 0)
	require.NoError(t, err)
	require.NoError(t, codegen.Verify(mod.Bytes()))
}

func TestGenerateIfElseBranches(t *testing.T) {
	src := "export func int max(int a, int b)\n" +
		"    if a > b\n" +
		"        return a\n" +
		"    else\n" +
		"        return b\n"
	root := compile(t, src)
	mod, err := codegen.Generate(root, 0)
	require.NoError(t, err)
	require.NoError(t, codegen.Verify(mod.Bytes()))
}

func TestGenerateMappedGlobalLoadStore(t *testing.T) {
	src := "map int counter 0\n" +
		"export func void bump()\n" +
		"    counter = counter + 1\n"
	root := compile(t, src)
	mod, err := codegen.Generate(root, 1)
	require.NoError(t, err)
	require.NoError(t, codegen.Verify(mod.Bytes()))
}

func TestGenerateBuiltinIntrinsicCall(t *testing.T) {
	src := "export func int peek(uint addr)\n" +
		"    return int.load(addr)\n"
	root := compile(t, src)
	mod, err := codegen.Generate(root, 1)
	require.NoError(t, err)
	require.NoError(t, codegen.Verify(mod.Bytes()))
}

func TestGenerateCastExpression(t *testing.T) {
	src := "export func long widen(int x)\n" +
		"    return x as long\n"
	root := compile(t, src)
	mod, err := codegen.Generate(root, 0)
	require.NoError(t, err)
	require.NoError(t, codegen.Verify(mod.Bytes()))
}

func TestGenerateStructFieldAccess(t *testing.T) {
	src := "struct Point\n" +
		"    int x\n" +
		"    int y\n" +
		"map Point origin 0\n" +
		"export func int getX()\n" +
		"    return origin.x\n"
	root := compile(t, src)
	mod, err := codegen.Generate(root, 1)
	require.NoError(t, err)
	require.NoError(t, codegen.Verify(mod.Bytes()))
}

func TestGenerateFunctionCallsAnotherFunction(t *testing.T) {
	src := "func int square(int n)\n" +
		"    return n * n\n" +
		"export func int sumOfSquares(int a, int b)\n" +
		"    return square(a) + square(b)\n"
	root := compile(t, src)
	mod, err := codegen.Generate(root, 0)
	require.NoError(t, err)
	require.NoError(t, codegen.Verify(mod.Bytes()))
}
