// Package parser builds an AST from a token stream by recursive descent.
// It performs no semantic checks and marks every node it builds Valid, except
// the placeholder Literal it substitutes for a token that cannot start an
// expression; the structural validator and semantic analyzer run as later,
// separate passes.
//
// Grounded on the teacher's lang/parse/parser.go: a Parser struct wrapping a
// token cursor, one parse* method per grammar construct, panic-mode error
// recovery via synchronize/synchronizeStmt. Adapted from YAPL's brace/
// semicolon-delimited grammar to Schwa's indentation-delimited one (blocks
// open on Indent and close on Dedent instead of "{"/"}"), and from the
// teacher's ad hoc statement grammar to the fixed set of AST kinds the
// analyzer consumes.
package parser

import (
	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/diag"
	"github.com/schwa-lang/schwa/internal/token"
)

const producer = "Parser"

// Parser consumes a token slice and builds an *ast.Node tree.
type Parser struct {
	toks      []token.Token
	pos       int
	log       *diag.Logger
	panicMode bool
}

// New creates a Parser over a complete token stream (as produced by
// internal/lexer, already terminated with an EOF token).
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks, log: diag.NewLogger(producer)}
}

// Parse parses a whole program and returns its root Program node plus any
// diagnostics raised during recovery.
func (p *Parser) Parse() (*ast.Node, *diag.Logger) {
	root := ast.New(ast.Program, token.Token{})
	for !p.atEOF() {
		p.skipNewlines()
		if p.atEOF() {
			break
		}
		if decl := p.parseTopDecl(); decl != nil {
			root.Append(decl)
		}
	}
	return root, p.log
}

// --- token cursor ---

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.peek().Kind == token.EOF }

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) match(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.next(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) token.Token {
	if t, ok := p.match(k); ok {
		return t
	}
	tok := p.peek()
	p.errorf(tok, "expected %s, got %s", k, tok.Kind)
	return tok
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.log.Error(diag.Span{Row: tok.Row, Col: tok.Col, Length: len(tok.Text)}, format, args...)
}

func (p *Parser) skipNewlines() {
	for p.check(token.Newline) {
		p.next()
	}
}

// synchronize skips tokens up to the next declaration keyword or Dedent,
// leaving the parser able to make forward progress after a malformed
// top-level construct.
func (p *Parser) synchronize() {
	p.panicMode = false
	for !p.atEOF() {
		switch p.peek().Kind {
		case token.KwStruct, token.KwFunc, token.KwVar, token.KwConst, token.KwExport, token.KwGlobal, token.KwMap, token.Dedent:
			return
		}
		p.next()
	}
}

func (p *Parser) synchronizeStmt() {
	p.panicMode = false
	for !p.atEOF() {
		switch p.peek().Kind {
		case token.KwReturn, token.KwIf, token.KwWhile, token.KwVar, token.Dedent, token.Newline:
			return
		}
		p.next()
	}
}

// --- top-level declarations ---

func (p *Parser) parseTopDecl() *ast.Node {
	switch p.peek().Kind {
	case token.KwExport:
		p.next()
		inner := p.parseTopDecl()
		if inner == nil {
			return nil
		}
		return ast.New(ast.Export, token.Token{}, inner)

	case token.KwConst:
		p.next()
		inner := p.parseGlobalLike()
		if inner == nil {
			return nil
		}
		return ast.New(ast.Const, token.Token{}, inner)

	case token.KwGlobal:
		p.next()
		return p.parseGlobalLike()

	case token.KwMap:
		p.next()
		return p.parseMapDecl()

	case token.KwStruct:
		return p.parseStructDef()

	case token.KwFunc:
		return p.parseFunctionDef()

	default:
		if p.isTypeStart() {
			return p.parseGlobalLike()
		}
		tok := p.peek()
		p.errorf(tok, "expected a declaration, got %s", tok.Kind)
		p.synchronize()
		return nil
	}
}

// isTypeStart reports whether the current token can begin a type
// annotation: a primitive type keyword or a struct-name identifier.
func (p *Parser) isTypeStart() bool {
	return p.peek().Kind.IsTypeKeyword() || p.peek().Kind == token.Ident
}

// parseGlobalLike parses "Type ident = expr", producing a Global node
// wrapping the declarator and its initializer.
func (p *Parser) parseGlobalLike() *ast.Node {
	typeTok := p.next()
	nameTok := p.expect(token.Ident)
	decl := ast.New(ast.VariableDef, typeTok)
	decl.Name = nameTok.Text

	p.expect(token.Assign)
	value := p.parseExpr()
	p.expectStmtEnd()
	return ast.New(ast.Global, token.Token{}, decl, value)
}

// parseMapDecl parses "Type ident offsetLiteral", producing a Map node.
func (p *Parser) parseMapDecl() *ast.Node {
	typeTok := p.next()
	nameTok := p.expect(token.Ident)
	decl := ast.New(ast.VariableDef, typeTok)
	decl.Name = nameTok.Text

	offsetTok := p.expect(token.Int)
	offset := ast.New(ast.Literal, offsetTok)
	p.expectStmtEnd()
	return ast.New(ast.Map, token.Token{}, decl, offset)
}

func (p *Parser) parseStructDef() *ast.Node {
	p.expect(token.KwStruct)
	nameTok := p.expect(token.Ident)

	p.expectStmtEnd()
	p.expect(token.Indent)
	fields := ast.New(ast.Fields, token.Token{})
	for !p.check(token.Dedent) && !p.atEOF() {
		p.skipNewlines()
		if p.check(token.Dedent) {
			break
		}
		fields.Append(p.parseFieldDecl())
	}
	p.expect(token.Dedent)

	def := ast.New(ast.StructDef, token.Token{}, fields)
	def.Name = nameTok.Text
	return def
}

func (p *Parser) parseFieldDecl() *ast.Node {
	typeTok := p.next()
	nameTok := p.expect(token.Ident)
	p.expectStmtEnd()
	field := ast.New(ast.VariableDef, typeTok)
	field.Name = nameTok.Text
	return field
}

func (p *Parser) parseFunctionDef() *ast.Node {
	p.expect(token.KwFunc)
	retTok := p.next()
	nameTok := p.expect(token.Ident)

	p.expect(token.LParen)
	params := ast.New(ast.Parameters, token.Token{})
	for !p.check(token.RParen) && !p.atEOF() {
		ptypeTok := p.next()
		pnameTok := p.expect(token.Ident)
		param := ast.New(ast.VariableDef, ptypeTok)
		param.Name = pnameTok.Text
		params.Append(param)
		if _, ok := p.match(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen)

	body := p.parseBlock()

	fn := ast.New(ast.FunctionDef, retTok, params, body)
	fn.Name = nameTok.Text
	return fn
}

func (p *Parser) parseBlock() *ast.Node {
	p.expectStmtEnd()
	p.expect(token.Indent)
	block := ast.New(ast.Block, token.Token{})
	for !p.check(token.Dedent) && !p.atEOF() {
		p.skipNewlines()
		if p.check(token.Dedent) {
			break
		}
		if stmt := p.parseStmt(); stmt != nil {
			block.Append(stmt)
		}
	}
	p.expect(token.Dedent)
	return block
}

func (p *Parser) expectStmtEnd() {
	if _, ok := p.match(token.Newline); ok {
		return
	}
	if p.atEOF() || p.check(token.Dedent) {
		return
	}
	tok := p.peek()
	p.errorf(tok, "expected end of line, got %s", tok.Kind)
}

// --- statements ---

func (p *Parser) parseStmt() *ast.Node {
	var stmt *ast.Node
	switch p.peek().Kind {
	case token.KwReturn:
		stmt = p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwVar:
		stmt = p.parseLocalVarDecl()
	default:
		if p.isTypeStart() && p.peekAt(1).Kind == token.Ident {
			stmt = p.parseLocalVarDecl()
		} else {
			stmt = p.parseSimpleStmt()
		}
	}
	if p.panicMode {
		p.synchronizeStmt()
	}
	return stmt
}

func (p *Parser) parseReturn() *ast.Node {
	p.expect(token.KwReturn)
	if p.check(token.Newline) || p.check(token.Dedent) || p.atEOF() {
		p.expectStmtEnd()
		return ast.New(ast.ReturnVoid, token.Token{})
	}
	value := p.parseExpr()
	p.expectStmtEnd()
	return ast.New(ast.Return, token.Token{}, value)
}

func (p *Parser) parseIf() *ast.Node {
	p.expect(token.KwIf)
	cond := p.parseExpr()
	then := p.parseBlock()
	n := ast.New(ast.If, token.Token{}, cond, then)
	if _, ok := p.match(token.KwElse); ok {
		n.Append(p.parseBlock())
	}
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	p.expect(token.KwWhile)
	cond := p.parseExpr()
	body := p.parseBlock()
	return ast.New(ast.While, token.Token{}, cond, body)
}

// parseLocalVarDecl parses "[var] Type ident", a bare local declaration
// with no inline initializer; subsequent assignment is a separate statement.
func (p *Parser) parseLocalVarDecl() *ast.Node {
	p.match(token.KwVar)
	typeTok := p.next()
	nameTok := p.expect(token.Ident)
	p.expectStmtEnd()
	v := ast.New(ast.VariableDef, typeTok)
	v.Name = nameTok.Text
	return v
}

// parseSimpleStmt parses an assignment or a bare expression statement (a
// function call used for its side effect).
func (p *Parser) parseSimpleStmt() *ast.Node {
	expr := p.parseExpr()
	if _, ok := p.match(token.Assign); ok {
		value := p.parseExpr()
		p.expectStmtEnd()
		return ast.New(ast.Assignment, token.Token{}, expr, value)
	}
	p.expectStmtEnd()
	return expr
}

// --- expressions, lowest to highest precedence ---

func (p *Parser) parseExpr() *ast.Node { return p.parseLogicOr() }

func (p *Parser) parseLogicOr() *ast.Node {
	return p.parseBinaryLevel(p.parseLogicAnd, token.OrOr)
}

func (p *Parser) parseLogicAnd() *ast.Node {
	return p.parseBinaryLevel(p.parseEquality, token.AndAnd)
}

func (p *Parser) parseEquality() *ast.Node {
	return p.parseBinaryLevel(p.parseRelational, token.Eq, token.Ne)
}

func (p *Parser) parseRelational() *ast.Node {
	return p.parseBinaryLevel(p.parseBitOr, token.Lt, token.Le, token.Gt, token.Ge)
}

func (p *Parser) parseBitOr() *ast.Node {
	return p.parseBinaryLevel(p.parseBitXor, token.Pipe)
}

func (p *Parser) parseBitXor() *ast.Node {
	return p.parseBinaryLevel(p.parseBitAnd, token.Caret)
}

func (p *Parser) parseBitAnd() *ast.Node {
	return p.parseBinaryLevel(p.parseShift, token.Amp)
}

func (p *Parser) parseShift() *ast.Node {
	return p.parseBinaryLevel(p.parseAdditive, token.Shl, token.Shr, token.RotL, token.RotR)
}

func (p *Parser) parseAdditive() *ast.Node {
	return p.parseBinaryLevel(p.parseMultiplicative, token.Plus, token.Minus)
}

func (p *Parser) parseMultiplicative() *ast.Node {
	return p.parseBinaryLevel(p.parseCast, token.Star, token.Slash, token.Percent)
}

func (p *Parser) parseBinaryLevel(next func() *ast.Node, kinds ...token.Kind) *ast.Node {
	left := next()
	for {
		op := p.peek()
		if !containsKind(kinds, op.Kind) {
			return left
		}
		p.next()
		right := next()
		left = ast.New(ast.BinaryOp, op, left, right)
	}
}

func containsKind(kinds []token.Kind, k token.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// parseCast handles the postfix `as`/`to` cast operators, whose right
// operand is a bare type name rather than a general expression.
func (p *Parser) parseCast() *ast.Node {
	left := p.parseUnary()
	for p.check(token.KwAs) || p.check(token.KwTo) {
		op := p.next()
		typeTok := p.next()
		typeNode := ast.New(ast.Type, typeTok)
		left = ast.New(ast.BinaryOp, op, left, typeNode)
	}
	return left
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.peek().Kind {
	case token.Minus, token.Tilde, token.Bang:
		op := p.next()
		operand := p.parseUnary()
		return ast.New(ast.UnaryOp, op, operand)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	expr := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case token.Dot:
			p.next()
			memberTok := p.expect(token.Ident)
			member := ast.New(ast.VariableId, memberTok)
			expr = ast.New(ast.Access, token.Token{}, expr, member)
		case token.LParen:
			if expr.Kind == ast.VariableId {
				expr.Kind = ast.FunctionId
			}
			p.next()
			args := ast.New(ast.Arguments, token.Token{})
			for !p.check(token.RParen) && !p.atEOF() {
				args.Append(p.parseExpr())
				if _, ok := p.match(token.Comma); !ok {
					break
				}
			}
			p.expect(token.RParen)
			expr = ast.New(ast.FunctionCall, token.Token{}, expr, args)
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.peek()
	switch {
	case tok.Kind == token.Ident:
		p.next()
		return ast.New(ast.VariableId, tok)
	case tok.Kind.IsTypeKeyword():
		// A primitive type name used as an expression: only valid as the base
		// of a builtin namespace access (e.g. int.load), never standalone.
		p.next()
		return ast.New(ast.VariableId, tok)
	}

	switch tok.Kind {
	case token.Int, token.UInt, token.Long, token.ULong, token.Float, token.Double, token.Bool:
		p.next()
		return ast.New(ast.Literal, tok)
	case token.LParen:
		p.next()
		inner := p.parseExpr()
		p.expect(token.RParen)
		return inner
	}

	p.errorf(tok, "expected an expression, got %s", tok.Kind)
	n := ast.New(ast.Literal, tok)
	n.Valid = false
	if !p.atEOF() {
		p.next()
	}
	return n
}
