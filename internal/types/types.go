// Package types defines the primitive data types of the Schwa language and
// the rules for their size and classification. A struct's data type is just
// its own name string (see DataType docs); this package only knows about the
// closed set of primitive names, not about struct layout (that lives in
// internal/sem, which needs the scope tree to resolve struct names).
package types

import "github.com/schwa-lang/schwa/internal/token"

// DataType names a node's result type: one of the primitive name constants
// below, or (for struct types) the struct's own name. Invalid is a poison
// value that suppresses cascading diagnostics.
type DataType = string

const (
	Void    DataType = "void"
	Invalid DataType = "invalid"
	Meta    DataType = "type" // the meta-type of a type literal in a cast RHS
	Int     DataType = "int"
	UInt    DataType = "uint"
	Long    DataType = "long"
	ULong   DataType = "ulong"
	Float   DataType = "float"
	Double  DataType = "double"
	Bool    DataType = "bool"
)

// primitives is the closed set of primitive type names.
var primitives = map[DataType]bool{
	Void: true, Invalid: true, Meta: true,
	Int: true, UInt: true, Long: true, ULong: true,
	Float: true, Double: true, Bool: true,
}

// IsPrimitive reports whether t names one of the built-in primitive types
// (as opposed to a user-defined struct).
func IsPrimitive(t DataType) bool {
	return primitives[t]
}

// numeric is the set of primitive types usable in arithmetic/comparison
// operator tables ("all numeric types" in the spec's operator-table column).
var numeric = map[DataType]bool{
	Int: true, UInt: true, Long: true, ULong: true, Float: true, Double: true,
}

// IsNumeric reports whether t is one of int/uint/long/ulong/float/double.
func IsNumeric(t DataType) bool { return numeric[t] }

// fixedWidthInteger is the set of types usable for bitwise ops/shifts/rotations.
var fixedWidthInteger = map[DataType]bool{
	Int: true, UInt: true, Long: true, ULong: true,
}

// IsFixedWidthInteger reports whether t is int/uint/long/ulong.
func IsFixedWidthInteger(t DataType) bool { return fixedWidthInteger[t] }

// IsSigned reports whether t is a signed arithmetic type (used by codegen to
// choose between signed and unsigned opcodes).
func IsSigned(t DataType) bool {
	switch t {
	case Int, Long, Float, Double:
		return true
	}
	return false
}

// Size returns the byte size of a primitive type per spec §3. Struct sizes
// are computed separately in internal/sem, which knows how to resolve a
// struct name via the scope tree.
func Size(t DataType) int {
	switch t {
	case Int, UInt, Float, Bool:
		return 4
	case Long, ULong, Double:
		return 8
	default:
		return 0
	}
}

// FromTokenKind maps a literal token kind to its data type, per
// DataType.fromTokenType in the spec's source language.
func FromTokenKind(k token.Kind) (DataType, bool) {
	switch k {
	case token.Int:
		return Int, true
	case token.UInt:
		return UInt, true
	case token.Long:
		return Long, true
	case token.ULong:
		return ULong, true
	case token.Float:
		return Float, true
	case token.Double:
		return Double, true
	case token.Bool:
		return Bool, true
	}
	return Invalid, false
}

// FromTypeKeyword maps a primitive type keyword token kind to its DataType.
func FromTypeKeyword(k token.Kind) (DataType, bool) {
	switch k {
	case token.KwVoid:
		return Void, true
	case token.KwIntType:
		return Int, true
	case token.KwUIntType:
		return UInt, true
	case token.KwLongType:
		return Long, true
	case token.KwULongType:
		return ULong, true
	case token.KwFloatType:
		return Float, true
	case token.KwDoubleType:
		return Double, true
	case token.KwBoolType:
		return Bool, true
	}
	return Invalid, false
}
