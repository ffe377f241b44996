package engine

import (
	"bytes"
	"io"
	"os"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/errors"
)

// Binding is a loaded solver library. It extends the raw entry-point
// surface with the path it was loaded from and release of the library.
//
// The call surface is safe for concurrent use across circuits. Close is
// not: it must not overlap in-flight calls, and any call after Close is
// undefined. Close is idempotent.
type Binding interface {
	phyengine.ABI

	// Path returns the filesystem path the library was loaded from.
	Path() string

	// Close releases the library and its symbols.
	Close() error
}

// wasmMagic is the 4-byte header of every WebAssembly binary.
var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// Load opens the library at path and binds the full entry-point set.
//
// WebAssembly builds are detected by content rather than extension, so
// a wasm build under any name still loads through the wasm backend.
// Every required symbol is resolved before Load returns; a library
// missing any of them is rejected with the full list of absent names.
func Load(path string) (Binding, error) {
	header := make([]byte, 4)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Binding(path, "open library", err)
	}
	n, _ := io.ReadFull(f, header)
	f.Close()

	if n == len(header) && bytes.Equal(header, wasmMagic) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Binding(path, "read library", err)
		}
		return loadWasm(path, data)
	}
	return loadNative(path)
}
