// Package format re-renders a parsed (not necessarily analyzed) AST as
// canonical, indented Schwa source text.
//
// Grounded on the teacher's lang/yparse/output.go: a buffered writer plus an
// indent counter and a single write(format, args...) helper that prefixes
// each line with the current indent. Adapted from output.go's custom
// "Pass 2" line-oriented dump format (STRUCT/FIELD/CONST directives) to
// re-emitting actual Schwa surface syntax, since here the formatter's
// output is meant to be valid input to the lexer again, not an intermediate
// representation consumed by a later pipeline stage.
package format

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/token"
)

// printer holds formatter state for one Print call.
type printer struct {
	w      *strings.Builder
	bw     *bufio.Writer
	indent int
}

func newPrinter() *printer {
	b := &strings.Builder{}
	return &printer{w: b, bw: bufio.NewWriter(b)}
}

func (p *printer) write(format string, args ...interface{}) {
	fmt.Fprintf(p.bw, "%s%s\n", strings.Repeat("    ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) writeNoNewline(format string, args ...interface{}) {
	fmt.Fprintf(p.bw, "%s%s", strings.Repeat("    ", p.indent), fmt.Sprintf(format, args...))
}

// Print renders root (an ast.Program) as canonical Schwa source.
func Print(root *ast.Node) string {
	p := newPrinter()
	for _, decl := range root.Children {
		p.printTopDecl(decl)
	}
	p.bw.Flush()
	return p.w.String()
}

func (p *printer) printTopDecl(n *ast.Node) {
	switch n.Kind {
	case ast.Export:
		p.writeNoNewline("export ")
		p.printTopDeclInline(n.Child(0))
	case ast.Const:
		p.writeNoNewline("const ")
		p.printTopDeclInline(n.Child(0))
	case ast.Global:
		p.printGlobal(n)
	case ast.Map:
		p.printMap(n)
	case ast.StructDef:
		p.printStructDef(n)
	case ast.FunctionDef:
		p.printFunctionDef(n)
	}
}

// printTopDeclInline prints a declaration that follows a "const "/"export "
// prefix already written without its own leading indent.
func (p *printer) printTopDeclInline(n *ast.Node) {
	saved := p.indent
	p.indent = 0
	switch n.Kind {
	case ast.Global:
		p.printGlobalHeader(n)
	case ast.Map:
		decl := n.Child(0)
		offset := n.Child(1)
		fmt.Fprintf(p.bw, "map %s %s %s\n", typeText(decl.Tok), decl.Name, offset.Tok.Text)
	case ast.FunctionDef:
		p.printFunctionHeader(n)
		p.indent = saved
		p.printBlock(n.Child(1))
		return
	case ast.StructDef:
		p.printStructHeader(n)
		p.indent = saved
		p.printFieldsBody(n.Child(0))
		return
	}
	p.indent = saved
}

func (p *printer) printGlobalHeader(n *ast.Node) {
	decl := n.Child(0)
	value := n.Child(1)
	fmt.Fprintf(p.bw, "%s %s = %s\n", typeText(decl.Tok), decl.Name, p.exprText(value))
}

func (p *printer) printGlobal(n *ast.Node) {
	decl := n.Child(0)
	value := n.Child(1)
	p.write("%s %s = %s", typeText(decl.Tok), decl.Name, p.exprText(value))
}

func (p *printer) printMap(n *ast.Node) {
	decl := n.Child(0)
	offset := n.Child(1)
	p.write("map %s %s %s", typeText(decl.Tok), decl.Name, offset.Tok.Text)
}

func (p *printer) printStructHeader(n *ast.Node) {
	fmt.Fprintf(p.bw, "struct %s\n", n.Ident())
}

func (p *printer) printStructDef(n *ast.Node) {
	p.write("struct %s", n.Ident())
	p.printFieldsBody(n.Child(0))
}

func (p *printer) printFieldsBody(fields *ast.Node) {
	p.indent++
	for _, f := range fields.Children {
		p.write("%s %s", typeText(f.Tok), f.Name)
	}
	p.indent--
}

func (p *printer) printFunctionHeader(n *ast.Node) {
	fmt.Fprintf(p.bw, "func %s %s(%s)\n", typeText(n.Tok), n.Ident(), p.paramList(n.Child(0)))
}

func (p *printer) printFunctionDef(n *ast.Node) {
	p.write("func %s %s(%s)", typeText(n.Tok), n.Ident(), p.paramList(n.Child(0)))
	p.printBlock(n.Child(1))
}

func (p *printer) paramList(params *ast.Node) string {
	parts := make([]string, 0, len(params.Children))
	for _, pc := range params.Children {
		parts = append(parts, fmt.Sprintf("%s %s", typeText(pc.Tok), pc.Name))
	}
	return strings.Join(parts, ", ")
}

func (p *printer) printBlock(block *ast.Node) {
	p.indent++
	for _, stmt := range block.Children {
		p.printStmt(stmt)
	}
	p.indent--
}

func (p *printer) printStmt(n *ast.Node) {
	switch n.Kind {
	case ast.VariableDef:
		p.write("%s %s", typeText(n.Tok), n.Name)
	case ast.Assignment:
		p.write("%s = %s", p.exprText(n.Child(0)), p.exprText(n.Child(1)))
	case ast.Return:
		p.write("return %s", p.exprText(n.Child(0)))
	case ast.ReturnVoid:
		p.write("return")
	case ast.If:
		p.write("if %s", p.exprText(n.Child(0)))
		p.printBlock(n.Child(1))
		if n.Child(2) != nil {
			p.write("else")
			p.printBlock(n.Child(2))
		}
	case ast.While:
		p.write("while %s", p.exprText(n.Child(0)))
		p.printBlock(n.Child(1))
	default:
		p.write("%s", p.exprText(n))
	}
}

// exprText renders an expression subtree as a single-line string; it never
// emits a trailing newline since it is always embedded in a caller's write().
func (p *printer) exprText(n *ast.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case ast.VariableId, ast.FunctionId:
		return n.Ident()
	case ast.Literal:
		return n.Tok.Text
	case ast.Access:
		return fmt.Sprintf("%s.%s", p.exprText(n.Child(0)), n.Child(1).Tok.Text)
	case ast.UnaryOp:
		return fmt.Sprintf("%s%s", n.Tok.Text, p.exprText(n.Child(0)))
	case ast.BinaryOp:
		if n.Tok.Kind == token.KwAs || n.Tok.Kind == token.KwTo {
			return fmt.Sprintf("%s %s %s", p.exprText(n.Child(0)), n.Tok.Text, typeText(n.Child(1).Tok))
		}
		return fmt.Sprintf("%s %s %s", p.exprText(n.Child(0)), n.Tok.Text, p.exprText(n.Child(1)))
	case ast.FunctionCall:
		args := make([]string, 0, len(n.Child(1).Children))
		for _, ac := range n.Child(1).Children {
			args = append(args, p.exprText(ac))
		}
		return fmt.Sprintf("%s(%s)", p.exprText(n.Child(0)), strings.Join(args, ", "))
	}
	return n.Tok.Text
}

// typeText renders a declarator's type annotation token, preferring the
// literal source spelling over the stringified token kind.
func typeText(tok token.Token) string {
	if tok.Text != "" {
		return tok.Text
	}
	return tok.Kind.String()
}
