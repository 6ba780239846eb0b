package sem

import (
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/types"
)

// maxStructDepth bounds recursive struct-size computation so a
// self-referential (or mutually cyclic) struct type cannot hang the
// analyzer; beyond it, size is treated as 0 to break the cycle and keep
// compiling.
const maxStructDepth = 16

// getSize computes v's byte size: the primitive width for a primitive type,
// or the sum of its fields' sizes for a struct type, looked up in scope.
func (a *Analyzer) getSize(v *symbols.Variable, scope *symbols.Scope, depth int) int {
	if depth > maxStructDepth {
		return 0
	}
	if types.IsPrimitive(v.Type) {
		return types.Size(v.Type)
	}
	st := scope.GetStruct(v.Type)
	if st == nil {
		a.errorf(v.Node, "Struct %q is not declared", v.Type)
		return 0
	}
	total := 0
	for _, f := range st.Fields {
		total += a.getSize(f, st.Scope, depth+1)
	}
	return total
}
