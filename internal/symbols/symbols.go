// Package symbols implements the hierarchical scope/symbol tree built by the
// semantic analyzer: Scope, Variable, Function, and Struct records plus
// hierarchical name lookup. Grounded on the teacher's lang/yparse/symtab.go
// (global map + per-function flat scope), generalized from two fixed levels
// to an arbitrary-depth scope tree since the spec requires nested block,
// struct, and lazily materialized per-variable struct-member scopes.
package symbols

import (
	"strings"

	"github.com/schwa-lang/schwa/internal/ast"
)

// Variable is a variable symbol: a local, parameter, global, or synthesized
// struct-field copy.
type Variable struct {
	ID     string
	Type   string // primitive name or struct name
	Scope  *Scope // owning scope
	Node   *ast.Node // defining AST node; nil for builtins, the struct field's node for field copies
	Offset int

	Const  bool
	Export bool
	Global bool
	Mapped bool
}

// Function is a function symbol.
type Function struct {
	ID         string
	ReturnType string
	Params     []*Variable
	Scope      *Scope // owning scope (where the function is declared)
	Node       *ast.Node
	Export     bool
}

// Struct is a struct-type symbol.
type Struct struct {
	ID     string
	Fields []*Variable // in declaration order
	Scope  *Scope      // owning scope (where the struct is declared)
	Node   *ast.Node
	Export bool
}

// Scope is a lexical scope: a named or anonymous region with its own symbol
// maps and a parent link. The root scope has no parent and holds only
// builtins and program-level scopes.
type Scope struct {
	id     string
	Parent *Scope
	Node   *ast.Node // defining node; nil for root and builtin scopes

	scopes  map[string]*Scope
	vars    map[string]*Variable
	funcs   map[string]*Function
	structs map[string]*Struct
}

// NewScope creates a scope with the given id (may be "" for anonymous block
// scopes) and parent (nil for the root).
func NewScope(id string, parent *Scope, node *ast.Node) *Scope {
	return &Scope{
		id:      id,
		Parent:  parent,
		Node:    node,
		scopes:  make(map[string]*Scope),
		vars:    make(map[string]*Variable),
		funcs:   make(map[string]*Function),
		structs: make(map[string]*Struct),
	}
}

// ScopeID implements ast.Scope.
func (s *Scope) ScopeID() string { return s.id }

// ID returns the scope's own id (empty for anonymous scopes).
func (s *Scope) ID() string { return s.id }

// Path returns the dot-joined chain of non-empty scope ids from the root,
// plus name.
func (s *Scope) Path(name string) string {
	var parts []string
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.id != "" {
			parts = append([]string{cur.id}, parts...)
		}
	}
	parts = append(parts, name)
	return strings.Join(parts, ".")
}

// --- insertion; each returns false if id already present in this scope's map ---

// DefineScope registers a nested scope. Returns false (and does not insert)
// if id is already a nested scope of s.
func (s *Scope) DefineScope(id string, child *Scope) bool {
	if _, exists := s.scopes[id]; exists {
		return false
	}
	s.scopes[id] = child
	return true
}

// DefineVariable registers v under v.ID. Returns false if the id is already
// taken by a variable in this scope.
func (s *Scope) DefineVariable(v *Variable) bool {
	if _, exists := s.vars[v.ID]; exists {
		return false
	}
	s.vars[v.ID] = v
	return true
}

// DefineFunction registers f under f.ID. Returns false on duplicate.
func (s *Scope) DefineFunction(f *Function) bool {
	if _, exists := s.funcs[f.ID]; exists {
		return false
	}
	s.funcs[f.ID] = f
	return true
}

// DefineStruct registers st under st.ID. Returns false on duplicate.
func (s *Scope) DefineStruct(st *Struct) bool {
	if _, exists := s.structs[st.ID]; exists {
		return false
	}
	s.structs[st.ID] = st
	return true
}

// --- local-only lookups (no parent delegation) ---

func (s *Scope) LocalScope(id string) (*Scope, bool)       { v, ok := s.scopes[id]; return v, ok }
func (s *Scope) LocalVariable(id string) (*Variable, bool) { v, ok := s.vars[id]; return v, ok }
func (s *Scope) LocalFunction(id string) (*Function, bool) { v, ok := s.funcs[id]; return v, ok }
func (s *Scope) LocalStruct(id string) (*Struct, bool)     { v, ok := s.structs[id]; return v, ok }

// --- hierarchical lookups: consult this scope's map, else delegate to parent ---

// GetScope looks up a nested scope by id, walking up through ancestors.
func (s *Scope) GetScope(id string) *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.scopes[id]; ok {
			return v
		}
	}
	return nil
}

// GetVariable looks up a variable by id, walking up through ancestors.
func (s *Scope) GetVariable(id string) *Variable {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.vars[id]; ok {
			return v
		}
	}
	return nil
}

// GetFunction looks up a function by id, walking up through ancestors.
func (s *Scope) GetFunction(id string) *Function {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.funcs[id]; ok {
			return v
		}
	}
	return nil
}

// GetStruct looks up a struct by id, walking up through ancestors.
func (s *Scope) GetStruct(id string) *Struct {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.structs[id]; ok {
			return v
		}
	}
	return nil
}
