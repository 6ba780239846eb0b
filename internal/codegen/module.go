// Package codegen builds a WebAssembly binary module from an analyzed
// Schwa AST and verifies the result.
//
// Grounded on the teacher's lang/ygen/emit.go: a buffered-writer-backed
// Emitter with one small producer method per instruction shape (Instr0,
// Instr1, Ldi, Add, ...). Adapted from WUT-4 assembly text output to Wasm
// binary output: Module accumulates byte-slice sections instead of text
// lines. The function-body encoder in generate.go appends most opcodes as
// raw bytes through one emit method, with a few helpers (emitI32Const,
// emitLoad, emitStore, emitCompare) for the multi-byte shapes.
package codegen

import "math"

// Wasm value types, encoded as their LEB128 byte in the binary format.
const (
	valTypeI32 byte = 0x7F
	valTypeI64 byte = 0x7E
	valTypeF32 byte = 0x7D
	valTypeF64 byte = 0x7C
)

const (
	secType     byte = 1
	secFunction byte = 3
	secMemory   byte = 5
	secExport   byte = 7
	secCode     byte = 10
)

const (
	exportKindFunc   byte = 0x00
	exportKindMemory byte = 0x02
)

// funcType is one entry in the type section: a function signature.
type funcType struct {
	params  []byte
	results []byte
}

// funcExport names a function to export, by its index in Module.funcs.
type funcExport struct {
	name  string
	index int
}

// Module accumulates the pieces of a Wasm binary module as it is built by
// Generator, and renders them into the final section layout on Bytes().
type Module struct {
	types   []funcType
	funcs   []int // index into types, one per defined function, in order
	bodies  [][]byte
	exports []funcExport

	memoryMinPages int
	exportMemory   bool
}

// NewModule creates an empty module with a linear memory of the given
// minimum page count (each page is 64KiB, per the Wasm spec), exported as
// "memory" when exportMem is true (mapped globals live in this memory).
func NewModule(memoryMinPages int, exportMem bool) *Module {
	return &Module{memoryMinPages: memoryMinPages, exportMemory: exportMem}
}

// AddFunction registers a function signature and body, returning its index
// in the eventual function space.
func (m *Module) AddFunction(params, results []byte, body []byte) int {
	idx := len(m.funcs)
	m.types = append(m.types, funcType{params: params, results: results})
	m.funcs = append(m.funcs, idx)
	m.bodies = append(m.bodies, body)
	return idx
}

// Export marks a previously added function as exported under name.
func (m *Module) Export(name string, funcIndex int) {
	m.exports = append(m.exports, funcExport{name: name, index: funcIndex})
}

// Bytes renders the module's standard \0asm header followed by its
// sections, each length-prefixed per the binary format.
func (m *Module) Bytes() []byte {
	var out []byte
	out = append(out, 0x00, 0x61, 0x73, 0x6D) // "\0asm"
	out = append(out, 0x01, 0x00, 0x00, 0x00) // version 1

	out = append(out, section(secType, m.typeSection())...)
	out = append(out, section(secFunction, m.functionSection())...)
	if m.memoryMinPages > 0 {
		out = append(out, section(secMemory, m.memorySection())...)
	}
	out = append(out, section(secExport, m.exportSection())...)
	out = append(out, section(secCode, m.codeSection())...)
	return out
}

func section(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, uleb128(uint64(len(body)))...)
	out = append(out, body...)
	return out
}

func (m *Module) typeSection() []byte {
	var b []byte
	b = append(b, uleb128(uint64(len(m.types)))...)
	for _, ft := range m.types {
		b = append(b, 0x60) // func type tag
		b = append(b, uleb128(uint64(len(ft.params)))...)
		b = append(b, ft.params...)
		b = append(b, uleb128(uint64(len(ft.results)))...)
		b = append(b, ft.results...)
	}
	return b
}

func (m *Module) functionSection() []byte {
	var b []byte
	b = append(b, uleb128(uint64(len(m.funcs)))...)
	for _, typeIdx := range m.funcs {
		b = append(b, uleb128(uint64(typeIdx))...)
	}
	return b
}

func (m *Module) memorySection() []byte {
	var b []byte
	b = append(b, uleb128(1)...) // one memory
	b = append(b, 0x00)          // flags: no maximum
	b = append(b, uleb128(uint64(m.memoryMinPages))...)
	return b
}

func (m *Module) exportSection() []byte {
	var b []byte
	count := len(m.exports)
	if m.exportMemory {
		count++
	}
	b = append(b, uleb128(uint64(count))...)
	for _, e := range m.exports {
		b = append(b, name(e.name)...)
		b = append(b, exportKindFunc)
		b = append(b, uleb128(uint64(e.index))...)
	}
	if m.exportMemory {
		b = append(b, name("memory")...)
		b = append(b, exportKindMemory)
		b = append(b, uleb128(0)...)
	}
	return b
}

func (m *Module) codeSection() []byte {
	var b []byte
	b = append(b, uleb128(uint64(len(m.bodies)))...)
	for _, body := range m.bodies {
		b = append(b, uleb128(uint64(len(body)))...)
		b = append(b, body...)
	}
	return b
}

func name(s string) []byte {
	out := uleb128(uint64(len(s)))
	return append(out, []byte(s)...)
}

// --- LEB128 encoding ---

func uleb128(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func sleb128(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func f32Bits(f float64) []byte {
	bits := math.Float32bits(float32(f))
	return []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
}

func f64Bits(f float64) []byte {
	bits := math.Float64bits(f)
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(bits >> (8 * i))
	}
	return out
}
