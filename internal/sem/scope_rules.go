package sem

import (
	"strconv"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/types"
)

func registerScopeRules(a *Analyzer) {
	a.addScopeRule(ast.Program, blockScopeRule)
	a.addScopeRule(ast.Block, blockScopeRule)
	a.addScopeRule(ast.StructDef, structDefScopeRule)
	a.addScopeRule(ast.FunctionDef, functionDefScopeRule)
	a.addScopeRule(ast.VariableDef, variableDefScopeRule)
	a.addScopeRule(ast.Access, accessScopeRule)
	a.addScopeRule(ast.Const, constScopeRule)
	a.addScopeRule(ast.Export, exportScopeRule)
}

// blockScopeRule backs both Program (the implicit top-level block) and
// nested Block nodes: each opens a fresh anonymous child scope.
func blockScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	scope := symbols.NewScope("", parentScope, n)
	n.NodeScope = scope
	return scope
}

func structDefScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	id := n.Ident()
	scope := symbols.NewScope(id, parentScope, n)
	n.NodeScope = scope // set eagerly so field resolution below sees the new scope, not parentScope

	st := &symbols.Struct{ID: id, Scope: scope, Node: n}
	if fields := n.Child(0); fields != nil {
		for _, fc := range fields.Children {
			if fc.Kind != ast.VariableDef {
				continue
			}
			a.getScope(fc)
			if v, ok := a.varOf[fc]; ok {
				st.Fields = append(st.Fields, v)
			}
		}
	}

	if !parentScope.DefineStruct(st) {
		a.errorf(n, "Struct %q is already declared", id)
		return scope
	}
	a.structOf[n] = st
	return scope
}

func functionDefScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	id := n.Ident()
	scope := symbols.NewScope(id, parentScope, n)
	n.NodeScope = scope

	fn := &symbols.Function{ID: id, ReturnType: typeNameOf(n.Tok), Scope: scope, Node: n}
	if params := n.Child(0); params != nil {
		for _, pc := range params.Children {
			if pc.Kind != ast.VariableDef {
				continue
			}
			a.getScope(pc)
			if v, ok := a.varOf[pc]; ok {
				fn.Params = append(fn.Params, v)
			}
		}
	}

	if !parentScope.DefineFunction(fn) {
		a.errorf(n, "Function %q is already declared", id)
		return scope
	}
	a.funcOf[n] = fn
	return scope
}

func variableDefScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	id := n.Ident()
	v := &symbols.Variable{
		ID:    id,
		Type:  typeNameOf(n.Tok),
		Scope: parentScope,
		Node:  n,
	}
	if n.HasAncestorOfKind(ast.Global) {
		v.Global = true
	}
	if mapNode := n.AncestorOfKind(ast.Map); mapNode != nil {
		v.Global = true
		v.Mapped = true
		if offset := mapNode.Child(1); offset != nil && offset.Kind == ast.Literal {
			if off, err := strconv.Atoi(offset.Tok.Text); err == nil {
				v.Offset = off
			}
		}
	}

	if !parentScope.DefineVariable(v) {
		a.errorf(n, "Variable %q is already declared", id)
		return nil
	}
	a.varOf[n] = v
	return nil
}

// accessScopeRule resolves a member-access node's base to a scope: either a
// builtin namespace registered under the root (e.g. "int" for int.load), or
// the lazily materialized struct scope of a struct-typed variable. Chained
// accesses (p.x.y) recurse through the base, which is itself an Access node
// whose own scope is the struct scope containing its member.
func accessScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	base := n.Child(0)
	if base == nil {
		return nil
	}

	var lookupScope *symbols.Scope
	var lookupID string
	if base.Kind == ast.Access {
		lookupScope = a.getScope(base)
		lookupID = identOf(base)
	} else {
		lookupScope = parentScope
		lookupID = base.Ident()
	}
	if lookupScope == nil {
		a.errorf(n, "Cannot resolve %q", lookupID)
		return nil
	}

	if s := lookupScope.GetScope(lookupID); s != nil {
		return s
	}
	if v := lookupScope.GetVariable(lookupID); v != nil {
		if !types.IsPrimitive(v.Type) {
			if s := a.makeStructScope(v); s != nil {
				return s
			}
		}
	}
	a.errorf(n, "Cannot resolve %q", lookupID)
	return nil
}

func constScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	decl := declaratorNode(n)
	if decl == nil {
		a.errorf(n, "const has no declaration to apply to")
		return nil
	}
	a.getScope(decl)
	if v, ok := a.varOf[decl]; ok {
		v.Const = true
		v.Global = true
	}
	return nil
}

func exportScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	decl := declaratorNode(n)
	if decl == nil {
		a.errorf(n, "export has no declaration to apply to")
		return nil
	}
	a.getScope(decl)
	switch decl.Kind {
	case ast.VariableDef:
		if v, ok := a.varOf[decl]; ok {
			v.Export = true
		}
	case ast.FunctionDef:
		if f, ok := a.funcOf[decl]; ok {
			f.Export = true
		}
	case ast.StructDef:
		if st, ok := a.structOf[decl]; ok {
			st.Export = true
		}
	}
	return nil
}

// makeStructScope lazily materializes the per-variable member scope for a
// struct-typed variable v, caching on v so repeated accesses (p.x, p.y)
// share one scope and one set of field offsets.
func (a *Analyzer) makeStructScope(v *symbols.Variable) *symbols.Scope {
	if scope, ok := a.structScopeCache[v]; ok {
		return scope
	}
	p := v.Scope
	st := p.GetStruct(v.Type)
	if st == nil {
		a.errorf(v.Node, "Struct %q is not declared", v.Type)
		return nil
	}

	scope := symbols.NewScope(v.ID, p, v.Node)
	cursor := v.Offset
	for _, f := range st.Fields {
		fv := &symbols.Variable{
			ID:     f.ID,
			Type:   f.Type,
			Scope:  scope,
			Node:   f.Node,
			Offset: cursor,
			Const:  v.Const,
			Export: v.Export,
			Mapped: v.Mapped,
		}
		scope.DefineVariable(fv)
		cursor += a.getSize(fv, scope, 0)
	}
	a.structScopeCache[v] = scope
	return scope
}
