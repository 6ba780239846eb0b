package sem

import (
	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/token"
	"github.com/schwa-lang/schwa/internal/types"
)

// identOf returns the name used to resolve n in a scope: for a chained
// Access node, its own member name (the base's resolution is a separate
// concern, handled by recursing on the base itself), otherwise n.Ident().
func identOf(n *ast.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == ast.Access {
		if m := n.Child(1); m != nil {
			return m.Tok.Text
		}
		return ""
	}
	return n.Ident()
}

// typeNameOf resolves a type-annotation token (a primitive type keyword or a
// struct-name identifier) to its DataType string.
func typeNameOf(tok token.Token) string {
	if t, ok := types.FromTypeKeyword(tok.Kind); ok {
		return t
	}
	return tok.Text
}

// declaratorNode descends the leftmost-child chain of a Const/Export/Global/
// Map wrapper node to find the VariableDef, FunctionDef, or StructDef it
// ultimately wraps.
func declaratorNode(n *ast.Node) *ast.Node {
	cur := n.Child(0)
	for cur != nil {
		switch cur.Kind {
		case ast.VariableDef, ast.FunctionDef, ast.StructDef:
			return cur
		case ast.Const, ast.Export, ast.Global, ast.Map:
			cur = cur.Child(0)
		default:
			return nil
		}
	}
	return nil
}
