package sem

import (
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/types"
)

// narrowLoads and narrowStores are the sign/zero-extending memory accessors
// that load/store a narrower width than an integer type's own size.
var narrowLoads = []string{"loadSByte", "loadShort", "loadByte", "loadUShort", "loadInt", "loadUInt"}
var narrowStores = []string{"storeSByte", "storeShort", "storeByte", "storeUShort", "storeInt", "storeUInt"}

// registerBuiltins prepopulates root with the fixed catalog of
// WebAssembly-style numeric intrinsics, each reachable by dotted path
// (<type>.<op>). The per-type namespaces are themselves scopes nested
// directly under root, materialized the same way a struct's would be.
func registerBuiltins(root *symbols.Scope) {
	integerTypes := []string{types.Int, types.UInt, types.Long, types.ULong}
	floatTypes := []string{types.Float, types.Double}

	for _, t := range append(append([]string{}, integerTypes...), floatTypes...) {
		ns := typeNamespace(root, t)
		defineFn(ns, "load", t, param("addr", types.UInt))
		defineFn(ns, "store", types.Void, param("addr", types.UInt), param("val", t))
	}

	for _, t := range integerTypes {
		ns := typeNamespace(root, t)
		for _, name := range narrowLoads {
			defineFn(ns, name, t, param("addr", types.UInt))
		}
		for _, name := range narrowStores {
			defineFn(ns, name, types.Void, param("addr", types.UInt), param("val", t))
		}
		defineFn(ns, "clz", t, param("val", t))
		defineFn(ns, "ctz", t, param("val", t))
		defineFn(ns, "popcnt", t, param("val", t))
		defineFn(ns, "eqz", t, param("val", t))
	}

	for _, t := range floatTypes {
		ns := typeNamespace(root, t)
		for _, name := range []string{"abs", "ceil", "floor", "truncate", "round", "sqrt"} {
			defineFn(ns, name, t, param("val", t))
		}
		defineFn(ns, "copysign", t, param("a", t), param("b", t))
		defineFn(ns, "min", t, param("a", t), param("b", t))
		defineFn(ns, "max", t, param("a", t), param("b", t))
	}

	defineFn(root, "nop", types.Void)
}

func typeNamespace(root *symbols.Scope, name string) *symbols.Scope {
	if s, ok := root.LocalScope(name); ok {
		return s
	}
	s := symbols.NewScope(name, root, nil)
	root.DefineScope(name, s)
	return s
}

func param(id, t string) *symbols.Variable {
	return &symbols.Variable{ID: id, Type: t}
}

func defineFn(scope *symbols.Scope, id, ret string, params ...*symbols.Variable) {
	scope.DefineFunction(&symbols.Function{ID: id, ReturnType: ret, Params: params, Scope: scope})
}
