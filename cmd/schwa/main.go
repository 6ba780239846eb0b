// Command schwa is the Schwa compiler's CLI: build compiles a source file to
// a Wasm module, check runs the front end and the analyzer for diagnostics
// only, and fmt prints a file in its canonical layout (rewriting it in place
// with -w).
package main

func main() {
	execute()
}
