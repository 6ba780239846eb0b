package codegen

import "github.com/schwa-lang/schwa/internal/types"

// callBuiltin emits the direct Wasm instruction(s) for an intrinsic call
// (e.g. int.load, float.sqrt) instead of a real `call`, mirroring the
// catalog internal/sem/builtins.go registers: these are WebAssembly-shaped
// numeric operations, not user functions with their own code-section entry.
// Arguments have already been pushed onto the stack by the caller. Returns
// false if baseType/op is not a recognized intrinsic.
func (e *exprEmitter) callBuiltin(baseType types.DataType, op string) bool {
	vt := valType(baseType)

	switch op {
	case "load":
		e.emitLoad(baseType)
		return true
	case "store":
		e.emitStore(baseType)
		return true
	case "nop":
		e.emit(0x01)
		return true
	}

	if narrow, ok := narrowLoadOps[op]; ok {
		if ops, ok := narrow[vt]; ok {
			e.emit(ops...)
			return true
		}
	}
	if narrow, ok := narrowStoreOps[op]; ok {
		if ops, ok := narrow[vt]; ok {
			e.emit(ops...)
			return true
		}
	}
	if table, ok := intUnaryOps[op]; ok {
		if opc, ok := table[vt]; ok {
			e.emit(opc)
			return true
		}
	}
	if table, ok := floatUnaryOps[op]; ok {
		if opc, ok := table[vt]; ok {
			e.emit(opc)
			return true
		}
	}
	if table, ok := floatBinaryOps[op]; ok {
		if opc, ok := table[vt]; ok {
			e.emit(opc)
			return true
		}
	}
	return false
}

// narrowLoadOps/narrowStoreOps map a narrow accessor name to its
// (opcode, align, offset) triplet per value-type width. Only integer
// value-types (i32, i64) have narrow forms.
var narrowLoadOps = map[string]map[byte][]byte{
	"loadSByte":  {valTypeI32: {0x2C, 0x00, 0x00}, valTypeI64: {0x30, 0x00, 0x00}},
	"loadByte":   {valTypeI32: {0x2D, 0x00, 0x00}, valTypeI64: {0x31, 0x00, 0x00}},
	"loadShort":  {valTypeI32: {0x2E, 0x01, 0x00}, valTypeI64: {0x32, 0x01, 0x00}},
	"loadUShort": {valTypeI32: {0x2F, 0x01, 0x00}, valTypeI64: {0x33, 0x01, 0x00}},
	"loadInt":    {valTypeI64: {0x34, 0x02, 0x00}},
	"loadUInt":   {valTypeI64: {0x35, 0x02, 0x00}},
}

var narrowStoreOps = map[string]map[byte][]byte{
	"storeByte":   {valTypeI32: {0x3A, 0x00, 0x00}, valTypeI64: {0x3C, 0x00, 0x00}},
	"storeShort":  {valTypeI32: {0x3B, 0x01, 0x00}, valTypeI64: {0x3D, 0x01, 0x00}},
	"storeUShort": {valTypeI32: {0x3B, 0x01, 0x00}, valTypeI64: {0x3D, 0x01, 0x00}},
	"storeSByte":  {valTypeI32: {0x3A, 0x00, 0x00}, valTypeI64: {0x3C, 0x00, 0x00}},
	"storeInt":    {valTypeI64: {0x3E, 0x02, 0x00}},
	"storeUInt":   {valTypeI64: {0x3E, 0x02, 0x00}},
}

var intUnaryOps = map[string]map[byte]byte{
	"clz":    {valTypeI32: 0x67, valTypeI64: 0x79},
	"ctz":    {valTypeI32: 0x68, valTypeI64: 0x7A},
	"popcnt": {valTypeI32: 0x69, valTypeI64: 0x7B},
	"eqz":    {valTypeI32: 0x45, valTypeI64: 0x50},
}

var floatUnaryOps = map[string]map[byte]byte{
	"abs":      {valTypeF32: 0x8B, valTypeF64: 0x99},
	"ceil":     {valTypeF32: 0x8D, valTypeF64: 0x9B},
	"floor":    {valTypeF32: 0x8E, valTypeF64: 0x9C},
	"truncate": {valTypeF32: 0x8F, valTypeF64: 0x9D},
	"round":    {valTypeF32: 0x90, valTypeF64: 0x9E},
	"sqrt":     {valTypeF32: 0x91, valTypeF64: 0x9F},
}

var floatBinaryOps = map[string]map[byte]byte{
	"copysign": {valTypeF32: 0x98, valTypeF64: 0xA6},
	"min":      {valTypeF32: 0x96, valTypeF64: 0xA4},
	"max":      {valTypeF32: 0x97, valTypeF64: 0xA5},
}
