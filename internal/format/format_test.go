package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/format"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
)

func parse(t *testing.T, src string) (out string) {
	t.Helper()
	toks, lexLog := lexer.New(strings.NewReader(src)).Tokenize()
	require.Empty(t, lexLog.Diagnostics)
	root, parseLog := parser.New(toks).Parse()
	require.Empty(t, parseLog.Diagnostics)
	return format.Print(root)
}

func TestFormatFunctionDef(t *testing.T) {
	out := parse(t, "func int add(int a, int b)\n    return a + b\n")
	require.Equal(t, "func int add(int a, int b)\n    return a + b\n", out)
}

func TestFormatGlobalAndConst(t *testing.T) {
	out := parse(t, "const int LIMIT = 10\n")
	require.Equal(t, "const int LIMIT = 10\n", out)
}

func TestFormatStructAndMap(t *testing.T) {
	out := parse(t, "struct Point\n    int x\n    int y\nmap Point p 1024\n")
	require.Equal(t, "struct Point\n    int x\n    int y\nmap Point p 1024\n", out)
}

func TestFormatIsIdempotent(t *testing.T) {
	src := "func void main()\n    int acc\n    acc = 0\n    while acc < 10\n        acc = acc + 1\n"
	once := parse(t, src)
	toks, lexLog := lexer.New(strings.NewReader(once)).Tokenize()
	require.Empty(t, lexLog.Diagnostics)
	root, parseLog := parser.New(toks).Parse()
	require.Empty(t, parseLog.Diagnostics)
	twice := format.Print(root)
	require.Equal(t, once, twice)
}
