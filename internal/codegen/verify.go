package codegen

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
)

// Verify feeds wasm bytes through wazero's module compiler for structural
// validation only; it never instantiates or runs the module.
//
// Grounded on cue-lang/cue's cue/wasm/wasm.go, whose runtime.Compile step
// does exactly this (wazero.NewRuntime(ctx).CompileModule) to check a wasm
// blob is well-formed before it is ever instantiated.
func Verify(wasm []byte) error {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return fmt.Errorf("invalid wasm module: %w", err)
	}
	defer mod.Close(ctx)
	return nil
}
