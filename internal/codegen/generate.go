package codegen

import (
	"fmt"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/token"
	"github.com/schwa-lang/schwa/internal/types"
)

// Generator lowers an analyzed, validated Program node into a Module. It
// assumes every node already carries a scope and a valid, non-invalid
// dataType (Invariant 1/6 from the analyzer); running it over a tree with
// outstanding diagnostics produces meaningless bytes, which is why
// cmd/schwa only calls it once the analyzer reports no errors.
type Generator struct {
	mod *Module

	funcIndex map[string]int // function ID -> index in the function space
	errs       []error
}

// Generate builds a Module for root, exporting every function whose
// FunctionDef node sits directly under an Export wrapper. No other function
// is exported, including one named "main".
func Generate(root *ast.Node, memoryPages int) (*Module, error) {
	g := &Generator{mod: NewModule(memoryPages, memoryPages > 0), funcIndex: map[string]int{}}

	var fns []*ast.Node
	for _, top := range root.Children {
		fn := unwrapFunctionDef(top)
		if fn != nil {
			fns = append(fns, fn)
		}
	}

	// Pre-register every function's index before emitting bodies so forward
	// calls (f calling g, defined later in the file) resolve correctly.
	for i, fn := range fns {
		g.funcIndex[fn.Ident()] = i
	}

	for _, top := range root.Children {
		fn := unwrapFunctionDef(top)
		if fn == nil {
			continue
		}
		if err := g.emitFunction(top, fn); err != nil {
			g.errs = append(g.errs, err)
		}
	}

	if len(g.errs) > 0 {
		return nil, g.errs[0]
	}
	return g.mod, nil
}

func unwrapFunctionDef(n *ast.Node) *ast.Node {
	switch n.Kind {
	case ast.FunctionDef:
		return n
	case ast.Export, ast.Const:
		return unwrapFunctionDef(n.Child(0))
	}
	return nil
}

func isExported(top *ast.Node) bool { return top.Kind == ast.Export }

func valType(t types.DataType) byte {
	switch t {
	case types.Long, types.ULong:
		return valTypeI64
	case types.Float:
		return valTypeF32
	case types.Double:
		return valTypeF64
	default: // int, uint, bool
		return valTypeI32
	}
}

// locals assigns every VariableDef reachable under a function (its own
// params plus every local declared in its body) a flat Wasm local index, in
// first-encountered order, matching the single local index space Wasm
// functions require.
type locals struct {
	index map[*symbols.Variable]int
	types []byte
}

func (g *Generator) collectLocals(fn *ast.Node) *locals {
	l := &locals{index: map[*symbols.Variable]int{}}
	assign := func(d *ast.Node) {
		scope, ok := d.NodeScope.(*symbols.Scope)
		if !ok {
			return
		}
		v, ok := scope.LocalVariable(d.Ident())
		if !ok {
			return
		}
		if _, seen := l.index[v]; seen {
			return
		}
		l.index[v] = len(l.types)
		l.types = append(l.types, valType(v.Type))
	}

	if params := fn.Child(0); params != nil {
		for _, p := range params.Children {
			assign(p)
		}
	}
	ast.Walk(fn.Child(1), func(n *ast.Node) {
		if n.Kind == ast.VariableDef {
			assign(n)
		}
	})
	return l
}

// resolveVariable finds the Variable a VariableId or Access node refers to,
// the same way internal/sem's variableFor does (duplicated here rather than
// exported from sem, since sem's lookup is tied to its own Analyzer state).
func resolveVariable(n *ast.Node) *symbols.Variable {
	scope, ok := n.NodeScope.(*symbols.Scope)
	if !ok || scope == nil {
		return nil
	}
	switch n.Kind {
	case ast.VariableId:
		return scope.GetVariable(n.Ident())
	case ast.Access:
		member := n.Child(1).Tok.Text
		if v, ok := scope.LocalVariable(member); ok {
			return v
		}
		return scope.GetVariable(member)
	}
	return nil
}

func resolveFunction(n *ast.Node) (string, bool) {
	switch n.Kind {
	case ast.FunctionId:
		return n.Ident(), true
	case ast.Access:
		return n.Child(1).Tok.Text, true
	}
	return "", false
}

func (g *Generator) emitFunction(top, fn *ast.Node) error {
	l := g.collectLocals(fn)

	var results []byte
	retType, ok := types.FromTypeKeyword(fn.Tok.Kind)
	if !ok {
		retType = fn.DataType
	}
	if retType != types.Void && retType != types.Invalid {
		results = []byte{valType(retType)}
	}

	var params []byte
	paramNode := fn.Child(0)
	for _, p := range paramNode.Children {
		params = append(params, valType(typeNameOfParam(p)))
	}

	var body []byte
	body = append(body, localDecls(l, len(params))...)

	e := &exprEmitter{gen: g, locals: l}
	for _, stmt := range fn.Child(1).Children {
		e.stmt(stmt)
	}
	body = append(body, e.code...)
	if len(results) > 0 {
		// unreachable: a non-void body whose last statement is an if/else or
		// loop leaves no value on the stack, so falling off the end traps.
		body = append(body, 0x00)
	}
	body = append(body, 0x0B) // end

	idx := g.mod.AddFunction(params, results, body)
	g.funcIndex[fn.Ident()] = idx
	if isExported(top) {
		g.mod.Export(fn.Ident(), idx)
	}
	return nil
}

func typeNameOfParam(p *ast.Node) types.DataType {
	if t, ok := types.FromTypeKeyword(p.Tok.Kind); ok {
		return t
	}
	return p.DataType
}

// localDecls encodes the Wasm local-variable declaration vector: a count of
// distinct runs, each a (count, valtype) pair. paramCount locals are already
// accounted for by the function's own params and are not redeclared here.
func localDecls(l *locals, paramCount int) []byte {
	bodyLocalTypes := l.types[paramCount:]
	if len(bodyLocalTypes) == 0 {
		return uleb128(0)
	}

	declCount := 0
	var decls []byte
	cur := bodyLocalTypes[0]
	count := 0
	for _, t := range bodyLocalTypes {
		if t == cur {
			count++
			continue
		}
		decls = append(decls, uleb128(uint64(count))...)
		decls = append(decls, cur)
		declCount++
		cur = t
		count = 1
	}
	decls = append(decls, uleb128(uint64(count))...)
	decls = append(decls, cur)
	declCount++

	prefix := uleb128(uint64(declCount))
	return append(prefix, decls...)
}

// exprEmitter walks one function's statements/expressions and appends Wasm
// instruction bytes to code.
type exprEmitter struct {
	gen    *Generator
	locals *locals
	code   []byte
}

func (e *exprEmitter) emit(b ...byte) { e.code = append(e.code, b...) }

func (e *exprEmitter) stmt(n *ast.Node) {
	switch n.Kind {
	case ast.VariableDef:
		// Declaration only; Wasm locals start zeroed.
	case ast.Assignment:
		e.assign(n)
	case ast.Return:
		e.expr(n.Child(0))
		e.emit(0x0F)
	case ast.ReturnVoid:
		e.emit(0x0F)
	case ast.If:
		e.expr(n.Child(0))
		e.emit(0x04, 0x40) // if, blocktype void
		for _, s := range n.Child(1).Children {
			e.stmt(s)
		}
		if els := n.Child(2); els != nil {
			e.emit(0x05) // else
			for _, s := range els.Children {
				e.stmt(s)
			}
		}
		e.emit(0x0B) // end
	case ast.While:
		e.emit(0x02, 0x40) // block, blocktype void (branch target for loop exit)
		e.emit(0x03, 0x40) // loop, blocktype void (branch target for loop continue)
		e.expr(n.Child(0))
		e.emit(0x45)       // i32.eqz
		e.emit(0x0D, 0x01) // br_if 1: condition false, exit to the enclosing block
		for _, s := range n.Child(1).Children {
			e.stmt(s)
		}
		e.emit(0x0C, 0x00) // br 0: loop back to the condition check
		e.emit(0x0B)       // end loop
		e.emit(0x0B)       // end block
	default:
		// A bare expression statement (a call used for its side effect).
		e.expr(n)
		if n.DataType != types.Void {
			e.emit(0x1A) // drop
		}
	}
}

func (e *exprEmitter) assign(n *ast.Node) {
	target := n.Child(0)
	value := n.Child(1)

	v := resolveVariable(target)
	if v == nil {
		return
	}
	if idx, ok := e.locals.index[v]; ok {
		e.expr(value)
		e.emit(0x21) // local.set
		e.emit(uleb128(uint64(idx))...)
		return
	}
	// A mapped global or struct field: address is a compile-time constant
	// (v.Offset), so store directly to linear memory.
	e.emitI32Const(v.Offset)
	e.expr(value)
	e.emitStore(v.Type)
}

func (e *exprEmitter) expr(n *ast.Node) {
	switch n.Kind {
	case ast.Literal:
		e.literal(n)
	case ast.VariableId:
		e.readVariable(n)
	case ast.Access:
		e.readAccess(n)
	case ast.UnaryOp:
		e.unary(n)
	case ast.BinaryOp:
		e.binary(n)
	case ast.FunctionCall:
		e.call(n)
	}
}

func (e *exprEmitter) readVariable(n *ast.Node) {
	v := resolveVariable(n)
	if v == nil {
		return
	}
	if idx, ok := e.locals.index[v]; ok {
		e.emit(0x20) // local.get
		e.emit(uleb128(uint64(idx))...)
		return
	}
	e.emitI32Const(v.Offset)
	e.emitLoad(v.Type)
}

func (e *exprEmitter) readAccess(n *ast.Node) {
	v := resolveVariable(n)
	if v == nil {
		return
	}
	e.emitI32Const(v.Offset)
	e.emitLoad(v.Type)
}

func (e *exprEmitter) literal(n *ast.Node) {
	switch n.DataType {
	case types.Long, types.ULong:
		var iv int64
		fmt.Sscan(n.Tok.Text, &iv)
		e.emit(0x42)
		e.emit(sleb128(iv)...)
	case types.Float:
		var fv float64
		fmt.Sscan(n.Tok.Text, &fv)
		e.emit(0x43)
		e.emit(f32Bits(fv)...)
	case types.Double:
		var fv float64
		fmt.Sscan(n.Tok.Text, &fv)
		e.emit(0x44)
		e.emit(f64Bits(fv)...)
	case types.Bool:
		e.emitI32Const(boolValue(n.Tok.Text))
	default: // int, uint
		var iv int64
		fmt.Sscan(n.Tok.Text, &iv)
		e.emitI32Const(int(iv))
	}
}

func boolValue(text string) int {
	if text == "true" {
		return 1
	}
	return 0
}

func (e *exprEmitter) emitI32Const(v int) {
	e.emit(0x41)
	e.emit(sleb128(int64(v))...)
}

func (e *exprEmitter) emitLoad(t types.DataType) {
	switch t {
	case types.Long, types.ULong:
		e.emit(0x29, 0x03, 0x00) // i64.load align=3 offset=0
	case types.Float:
		e.emit(0x2A, 0x02, 0x00)
	case types.Double:
		e.emit(0x2B, 0x03, 0x00)
	default:
		e.emit(0x28, 0x02, 0x00) // i32.load
	}
}

func (e *exprEmitter) emitStore(t types.DataType) {
	switch t {
	case types.Long, types.ULong:
		e.emit(0x37, 0x03, 0x00)
	case types.Float:
		e.emit(0x38, 0x02, 0x00)
	case types.Double:
		e.emit(0x39, 0x03, 0x00)
	default:
		e.emit(0x36, 0x02, 0x00)
	}
}

func (e *exprEmitter) unary(n *ast.Node) {
	e.expr(n.Child(0))
	t := n.Child(0).DataType
	switch n.Tok.Kind {
	case token.Minus:
		switch t {
		case types.Float:
			e.emit(0x8C)
		case types.Double:
			e.emit(0x9A)
		case types.Long, types.ULong:
			e.emitI64NegFallback()
		default:
			e.emitI32NegFallback()
		}
	case token.Tilde:
		// Bitwise complement: x ^ -1.
		switch t {
		case types.Long, types.ULong:
			e.emit(0x42)
			e.emit(sleb128(-1)...)
			e.emit(0x85)
		default:
			e.emit(0x41)
			e.emit(sleb128(-1)...)
			e.emit(0x72)
		}
	case token.Bang:
		e.emit(0x45) // i32.eqz
	}
}

// emitI32NegFallback negates the already-pushed i32 value (Wasm has no
// dedicated i32.neg): 0 - x.
func (e *exprEmitter) emitI32NegFallback() {
	// Stack: [x]. Want: 0 - x. Rewritten as x' = (0 - x) using a temp-free
	// sequence: push 0 below x is not directly possible post-hoc, so this
	// relies on the caller structure: emit 0, swap is unavailable in Wasm,
	// so negation is instead emitted as i32.const -1 / i32.mul.
	e.emit(0x41)
	e.emit(sleb128(-1)...)
	e.emit(0x6C) // i32.mul
}

func (e *exprEmitter) emitI64NegFallback() {
	e.emit(0x42)
	e.emit(sleb128(-1)...)
	e.emit(0x7E) // i64.mul
}

var binaryOps = map[token.Kind]map[byte]byte{
	token.Plus:  {valTypeI32: 0x6A, valTypeI64: 0x7C, valTypeF32: 0x92, valTypeF64: 0xA0},
	token.Minus: {valTypeI32: 0x6B, valTypeI64: 0x7D, valTypeF32: 0x93, valTypeF64: 0xA1},
	token.Star:  {valTypeI32: 0x6C, valTypeI64: 0x7E, valTypeF32: 0x94, valTypeF64: 0xA2},
	token.Slash: {valTypeI32: 0x6D, valTypeI64: 0x7F, valTypeF32: 0x95, valTypeF64: 0xA3}, // signed div for ints; unsigned handled below
	token.Amp:   {valTypeI32: 0x71, valTypeI64: 0x83},
	token.Pipe:  {valTypeI32: 0x72, valTypeI64: 0x84},
	token.Caret: {valTypeI32: 0x73, valTypeI64: 0x85},
	token.Shl:   {valTypeI32: 0x74, valTypeI64: 0x86},
	token.Shr:   {valTypeI32: 0x76, valTypeI64: 0x88}, // shr_u; shr_s handled below for signed types
	token.RotL:  {valTypeI32: 0x77, valTypeI64: 0x89},
	token.RotR:  {valTypeI32: 0x78, valTypeI64: 0x8A},
	token.Eq:    {valTypeI32: 0x46, valTypeI64: 0x51, valTypeF32: 0x5B, valTypeF64: 0x61},
	token.Ne:    {valTypeI32: 0x47, valTypeI64: 0x52, valTypeF32: 0x5C, valTypeF64: 0x62},
}

func (e *exprEmitter) binary(n *ast.Node) {
	if n.Tok.Kind == token.KwAs || n.Tok.Kind == token.KwTo {
		e.cast(n)
		return
	}
	left := n.Child(0)
	right := n.Child(1)
	e.expr(left)
	e.expr(right)

	lt := left.DataType
	vt := valType(lt)
	signed := types.IsSigned(lt)

	switch n.Tok.Kind {
	case token.Slash:
		if vt == valTypeI32 {
			if signed {
				e.emit(0x6D)
			} else {
				e.emit(0x6E)
			}
			return
		}
		if vt == valTypeI64 {
			if signed {
				e.emit(0x7F)
			} else {
				e.emit(0x80)
			}
			return
		}
	case token.Percent:
		if vt == valTypeI32 {
			if signed {
				e.emit(0x6F)
			} else {
				e.emit(0x70)
			}
			return
		}
		if vt == valTypeI64 {
			if signed {
				e.emit(0x81)
			} else {
				e.emit(0x82)
			}
			return
		}
	case token.Shr:
		if signed {
			if vt == valTypeI32 {
				e.emit(0x75)
			} else {
				e.emit(0x87)
			}
			return
		}
	case token.Lt, token.Le, token.Gt, token.Ge:
		e.emitCompare(n.Tok.Kind, vt, signed)
		return
	case token.AndAnd:
		e.emit(0x71) // both operands already i32 bools: bitwise and works as logical and
		return
	case token.OrOr:
		e.emit(0x72)
		return
	}

	if table, ok := binaryOps[n.Tok.Kind]; ok {
		if op, ok := table[vt]; ok {
			e.emit(op)
			return
		}
	}
}

func (e *exprEmitter) emitCompare(op token.Kind, vt byte, signed bool) {
	type key struct {
		op token.Kind
		vt byte
	}
	unsignedCompares := map[key]byte{
		{token.Lt, valTypeI32}: 0x49, {token.Le, valTypeI32}: 0x4D,
		{token.Gt, valTypeI32}: 0x4B, {token.Ge, valTypeI32}: 0x4F,
		{token.Lt, valTypeI64}: 0x54, {token.Le, valTypeI64}: 0x58,
		{token.Gt, valTypeI64}: 0x56, {token.Ge, valTypeI64}: 0x5A,
	}
	signedCompares := map[key]byte{
		{token.Lt, valTypeI32}: 0x48, {token.Le, valTypeI32}: 0x4C,
		{token.Gt, valTypeI32}: 0x4A, {token.Ge, valTypeI32}: 0x4E,
		{token.Lt, valTypeI64}: 0x53, {token.Le, valTypeI64}: 0x57,
		{token.Gt, valTypeI64}: 0x55, {token.Ge, valTypeI64}: 0x59,
	}
	floatCompares := map[key]byte{
		{token.Lt, valTypeF32}: 0x5D, {token.Le, valTypeF32}: 0x5F,
		{token.Gt, valTypeF32}: 0x5E, {token.Ge, valTypeF32}: 0x60,
		{token.Lt, valTypeF64}: 0x63, {token.Le, valTypeF64}: 0x65,
		{token.Gt, valTypeF64}: 0x64, {token.Ge, valTypeF64}: 0x66,
	}
	k := key{op, vt}
	if vt == valTypeF32 || vt == valTypeF64 {
		e.emit(floatCompares[k])
		return
	}
	if signed {
		e.emit(signedCompares[k])
		return
	}
	e.emit(unsignedCompares[k])
}

// cast implements `as` (value-preserving numeric conversion) and `to`
// (bit-reinterpretation between a same-width integer and float type,
// otherwise the same conversion `as` uses) by picking the Wasm
// convert/reinterpret opcode for the source/target value-type pair.
func (e *exprEmitter) cast(n *ast.Node) {
	e.expr(n.Child(0))
	from := valType(n.Child(0).DataType)
	toType, _ := types.FromTypeKeyword(n.Child(1).Tok.Kind)
	to := valType(toType)
	if from == to {
		return
	}
	if n.Tok.Kind == token.KwTo {
		if op := reinterpretOp(from, to); op != 0x01 {
			e.emit(op)
			return
		}
	}
	e.emit(convertOp(from, to, types.IsSigned(n.Child(0).DataType)))
}

func reinterpretOp(from, to byte) byte {
	switch {
	case from == valTypeI32 && to == valTypeF32:
		return 0xBE
	case from == valTypeF32 && to == valTypeI32:
		return 0xBC
	case from == valTypeI64 && to == valTypeF64:
		return 0xBF
	case from == valTypeF64 && to == valTypeI64:
		return 0xBD
	}
	return 0x01 // nop: not a same-width pair; cast falls back to convertOp
}

func convertOp(from, to byte, signed bool) byte {
	switch {
	case from == valTypeI32 && to == valTypeI64:
		if signed {
			return 0xAC // i64.extend_i32_s
		}
		return 0xAD // i64.extend_i32_u
	case from == valTypeI64 && to == valTypeI32:
		return 0xA7 // i32.wrap_i64
	case from == valTypeI32 && to == valTypeF32:
		if signed {
			return 0xB2
		}
		return 0xB3
	case from == valTypeI32 && to == valTypeF64:
		if signed {
			return 0xB7
		}
		return 0xB8
	case from == valTypeF32 && to == valTypeI32:
		if signed {
			return 0xA8
		}
		return 0xA9
	case from == valTypeF64 && to == valTypeI32:
		if signed {
			return 0xAA
		}
		return 0xAB
	case from == valTypeF32 && to == valTypeF64:
		return 0xBB // f64.promote_f32
	case from == valTypeF64 && to == valTypeF32:
		return 0xB6 // f32.demote_f64
	}
	return 0x01
}

func (e *exprEmitter) call(n *ast.Node) {
	callee := n.Child(0)
	args := n.Child(1)
	for _, a := range args.Children {
		e.expr(a)
	}

	if callee.Kind == ast.Access {
		base := callee.Child(0)
		if baseType, ok := types.FromTypeKeyword(base.Tok.Kind); ok {
			if e.callBuiltin(baseType, callee.Child(1).Tok.Text) {
				return
			}
		}
	}

	id, _ := resolveFunction(callee)
	if idx, ok := e.gen.funcIndex[id]; ok {
		e.emit(0x10) // call
		e.emit(uleb128(uint64(idx))...)
	}
}
