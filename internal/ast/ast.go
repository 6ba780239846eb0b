// Package ast defines the homogeneous abstract syntax tree node used by the
// parser, validator, and semantic analyzer. A single Node type, tagged by
// Kind, stands in for what a one-class-per-node-shape AST would otherwise
// need, so the analyzer's rule registries (see internal/sem) can dispatch
// on Kind uniformly instead of on a Go type switch.
package ast

import "github.com/schwa-lang/schwa/internal/token"

// Kind identifies what an AST node represents.
type Kind int

const (
	Invalid Kind = iota

	Program
	Block
	StructDef
	FunctionDef
	VariableDef
	Global
	Map
	Access
	Const
	Export
	Type
	VariableId
	FunctionId
	StructId
	Literal
	Assignment
	BinaryOp
	UnaryOp
	FunctionCall
	Arguments
	Parameters
	Fields
	Return
	ReturnVoid
	If
	While
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	Program:      "Program",
	Block:        "Block",
	StructDef:    "StructDef",
	FunctionDef:  "FunctionDef",
	VariableDef:  "VariableDef",
	Global:       "Global",
	Map:          "Map",
	Access:       "Access",
	Const:        "Const",
	Export:       "Export",
	Type:         "Type",
	VariableId:   "VariableId",
	FunctionId:   "FunctionId",
	StructId:     "StructId",
	Literal:      "Literal",
	Assignment:   "Assignment",
	BinaryOp:     "BinaryOp",
	UnaryOp:      "UnaryOp",
	FunctionCall: "FunctionCall",
	Arguments:    "Arguments",
	Parameters:   "Parameters",
	Fields:       "Fields",
	Return:       "Return",
	ReturnVoid:   "ReturnVoid",
	If:           "If",
	While:        "While",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Scope is the minimal interface the analyzer's scope/symbol tree must
// satisfy for ast.Node to hold a back-reference to it without internal/ast
// importing internal/symbols (which itself needs to reference ast.Node for
// a symbol's defining node). Kept tiny on purpose: internal/symbols.Scope
// implements this trivially.
type Scope interface {
	ScopeID() string
}

// Node is a single AST node. Tok carries the specific operator/kind-refining
// token for nodes whose behavior further depends on the token kind (e.g. a
// BinaryOp node's Tok.Kind is one of token.Plus, token.Minus, ...).
type Node struct {
	Kind     Kind
	Tok      token.Token
	Children []*Node
	Parent   *Node
	Valid    bool

	// Name carries the declared identifier for declarator kinds
	// (StructDef, FunctionDef, VariableDef) whose Tok is already occupied by
	// their type annotation (VariableDef/FunctionDef) or defining position
	// (StructDef). Reference kinds (VariableId, FunctionId, StructId, and
	// Access's member-name child) instead carry their identifier directly in
	// Tok.Text, since they have no competing use for it.
	Name string

	// Filled in by the analyzer.
	NodeScope Scope
	DataType  string
}

// New creates a node with the given kind and defining token, marked valid.
func New(kind Kind, tok token.Token, children ...*Node) *Node {
	n := &Node{Kind: kind, Tok: tok, Valid: true}
	n.Append(children...)
	return n
}

// Append adds children to n, wiring their parent pointer to n.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Parent = n
		n.Children = append(n.Children, c)
	}
}

// Child returns the i'th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Text returns the defining token's source text.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.Tok.Text
}

// Ident returns the node's own declared/referenced identifier: Name for
// declarator kinds, Tok.Text otherwise.
func (n *Node) Ident() string {
	if n == nil {
		return ""
	}
	if n.Name != "" {
		return n.Name
	}
	return n.Tok.Text
}

// HasScope reports whether the analyzer has already assigned n a scope.
func (n *Node) HasScope() bool { return n != nil && n.NodeScope != nil }

// HasDataType reports whether the analyzer has already assigned n a dataType.
func (n *Node) HasDataType() bool { return n != nil && n.DataType != "" }

// AncestorOfKind walks Parent links looking for the nearest ancestor of the
// given kind (not including n itself).
func (n *Node) AncestorOfKind(kind Kind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// HasAncestorOfKind reports whether any ancestor (not including n) has the
// given kind.
func (n *Node) HasAncestorOfKind(kind Kind) bool {
	return n.AncestorOfKind(kind) != nil
}

// Walk calls visit for n and every descendant, pre-order.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		Walk(c, visit)
	}
}
