package sem

import (
	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/types"
)

func registerTypeRules(a *Analyzer) {
	a.addTypeRule(ast.VariableId, variableIdTypeRule)
	a.addTypeRule(ast.FunctionId, functionIdTypeRule)
	a.addTypeRule(ast.StructId, structIdTypeRule)
	a.addTypeRule(ast.Access, accessTypeRule)
	a.addTypeRule(ast.Type, typeNodeTypeRule)
	a.addTypeRule(ast.VariableDef, variableDefTypeRule)
	a.addTypeRule(ast.FunctionDef, functionDefTypeRule)
	a.addTypeRule(ast.StructDef, structDefTypeRule)
	a.addTypeRule(ast.Literal, literalTypeRule)
	a.addTypeRule(ast.UnaryOp, unaryOpTypeRule)
	a.addTypeRule(ast.BinaryOp, binaryOpTypeRule)
	a.addTypeRule(ast.Assignment, assignmentTypeRule)
	a.addTypeRule(ast.Global, globalTypeRule)
	a.addTypeRule(ast.FunctionCall, functionCallTypeRule)
	a.addTypeRule(ast.Return, returnTypeRule)
	a.addTypeRule(ast.ReturnVoid, returnVoidTypeRule)
}

func variableIdTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	scope := a.getScope(n)
	v := scope.GetVariable(n.Ident())
	if v == nil {
		a.errorf(n, "Undeclared variable %q", n.Ident())
		return types.Invalid, true
	}
	return v.Type, true
}

func functionIdTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	scope := a.getScope(n)
	f := scope.GetFunction(n.Ident())
	if f == nil {
		a.errorf(n, "Undeclared function %q", n.Ident())
		return types.Invalid, true
	}
	return f.ReturnType, true
}

func structIdTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	scope := a.getScope(n)
	st := scope.GetStruct(n.Ident())
	if st == nil {
		a.errorf(n, "Undeclared struct %q", n.Ident())
		return types.Invalid, true
	}
	return st.ID, true
}

// accessTypeRule reads the member variable's type out of the scope the
// accessScopeRule already resolved (a builtin namespace never reaches here;
// FunctionCall resolves builtins directly via functionFor).
func accessTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	scope := a.getScope(n)
	if scope == nil {
		return types.Invalid, true
	}
	member := identOf(n)
	if v, ok := scope.LocalVariable(member); ok {
		return v.Type, true
	}
	if v := scope.GetVariable(member); v != nil {
		return v.Type, true
	}
	a.errorf(n, "Undeclared member %q", member)
	return types.Invalid, true
}

func typeNodeTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	return types.Meta, true
}

func variableDefTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	return typeNameOf(n.Tok), true
}

func functionDefTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	return typeNameOf(n.Tok), true
}

func structDefTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	return n.Ident(), true
}

func literalTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	t, ok := types.FromTokenKind(n.Tok.Kind)
	if !ok {
		return types.Invalid, true
	}
	return t, true
}

// variableFor resolves the Variable record a VariableId or Access node
// refers to, so Assignment can check its const flag without re-deriving the
// scope-resolution logic.
func (a *Analyzer) variableFor(n *ast.Node) *symbols.Variable {
	switch n.Kind {
	case ast.VariableId:
		return a.getScope(n).GetVariable(n.Ident())
	case ast.Access:
		scope := a.getScope(n)
		if scope == nil {
			return nil
		}
		member := identOf(n)
		if v, ok := scope.LocalVariable(member); ok {
			return v
		}
		return scope.GetVariable(member)
	}
	return nil
}

func assignmentTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	target := n.Child(0)
	value := n.Child(1)

	if v := a.variableFor(target); v != nil && v.Const {
		a.errorf(n, "Constant globals cannot be assigned to")
		return types.Invalid, true
	}

	tt := a.getDataType(target)
	vt := a.getDataType(value)
	switch {
	case tt == types.Invalid:
		a.errorf(n, "Invalid left-hand side of assignment")
		return types.Invalid, true
	case vt == types.Invalid:
		a.errorf(n, "Invalid right-hand side of assignment")
		return types.Invalid, true
	case tt != vt:
		a.errorf(n, "Both sides of an assignment must be of the same type")
		return types.Invalid, true
	}
	return tt, true
}

// globalTypeRule is Assignment's sibling for a top-level "T x = value"
// declaration: same type-agreement rule, minus the const check (the
// declaration may itself be the thing marking x const).
func globalTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	target := n.Child(0)
	value := n.Child(1)

	tt := a.getDataType(target)
	vt := a.getDataType(value)
	switch {
	case tt == types.Invalid:
		a.errorf(n, "Invalid left-hand side of assignment")
		return types.Invalid, true
	case vt == types.Invalid:
		a.errorf(n, "Invalid right-hand side of assignment")
		return types.Invalid, true
	case tt != vt:
		a.errorf(n, "Both sides of an assignment must be of the same type")
		return types.Invalid, true
	}
	return tt, true
}

func (a *Analyzer) functionFor(n *ast.Node) *symbols.Function {
	switch n.Kind {
	case ast.FunctionId:
		return a.getScope(n).GetFunction(n.Ident())
	case ast.Access:
		scope := a.getScope(n)
		if scope == nil {
			return nil
		}
		member := identOf(n)
		if f, ok := scope.LocalFunction(member); ok {
			return f
		}
		return scope.GetFunction(member)
	}
	return nil
}

func functionCallTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	callee := n.Child(0)
	args := n.Child(1)

	fn := a.functionFor(callee)
	if fn == nil {
		a.errorf(callee, "Undeclared function %q", identOf(callee))
		return types.Invalid, true
	}

	var argNodes []*ast.Node
	if args != nil {
		argNodes = args.Children
	}

	if len(argNodes) != len(fn.Params) {
		a.errorf(n, "Function %q takes %d arguments, not %d", fn.ID, len(fn.Params), len(argNodes))
		for _, an := range argNodes {
			a.getDataType(an)
		}
		return types.Invalid, true
	}

	invalid := false
	for i, an := range argNodes {
		at := a.getDataType(an)
		pt := fn.Params[i].Type
		if at != pt {
			a.errorf(an, "Argument %d (%s) of %q expects %s, got %s", i+1, fn.Params[i].ID, fn.ID, pt, at)
			invalid = true
		}
	}
	if invalid {
		return types.Invalid, true
	}
	return fn.ReturnType, true
}

func enclosingReturnType(n *ast.Node, a *Analyzer) string {
	fn := n.AncestorOfKind(ast.FunctionDef)
	if fn == nil {
		return types.Void
	}
	if f, ok := a.funcOf[fn]; ok {
		return f.ReturnType
	}
	return types.Void
}

func returnTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	t := a.getDataType(n.Child(0))
	if t == types.Invalid {
		return types.Invalid, true
	}
	r := enclosingReturnType(n, a)
	if t != r || r == types.Void {
		a.errorf(n, "Returned value of type %s does not match function return type %s", t, r)
		return types.Invalid, true
	}
	return t, true
}

func returnVoidTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	r := enclosingReturnType(n, a)
	if r != types.Void {
		a.errorf(n, "Function declared to return %s must return a value", r)
		return types.Invalid, true
	}
	return types.Void, true
}
