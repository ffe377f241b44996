// Package engine locates, loads, and shares solver libraries.
//
// The solver ships as a platform shared library or as a WebAssembly
// build; both export the same flat C entry-point set. This package
// hides the difference behind Binding, which extends the raw call
// surface in the root package with the source path and release.
//
// # Discovery
//
// Resolve locates a library in a fixed order:
//
//  1. An explicit path, when given. A miss fails immediately.
//  2. The PHYSICSLAB_PHYENGINE_LIB environment variable.
//  3. Conventional directories, probed for the platform library name
//     and then for phyengine.wasm:
//
//     native/
//     $HOME/.physicslab/native/
//     third-parties/Phy-Engine/build/
//     third-parties/Phy-Engine/src/build/
//     third-parties/Phy-Engine/src/cmake-build-release/
//     third-parties/Phy-Engine/src/cmake-build-debug/
//
// Nothing about discovery is cached: a failed Resolve reports every
// path it attempted, and a library installed afterwards is found by
// the next call.
//
// # Backends
//
// Load picks the backend by file content, not extension. Files opening
// with the WebAssembly magic run under wazero with WASI preview1; all
// other files are opened as shared libraries through the platform
// dynamic loader. Either way, every required entry point is resolved
// up front and the library's ABI version is probed, so a stale or
// partial build is rejected at load time with the full list of missing
// symbols rather than failing call by call.
//
// # Sharing
//
// Loading is not cheap, so bindings are shared through a Registry that
// reference counts per cleaned absolute path. Circuits acquire on build
// and release on close; the library is unloaded when its last holder
// releases it. DefaultRegistry is the process-wide instance used when
// no explicit registry is configured.
//
// # Thread Safety
//
// A Binding's call surface is safe for concurrent use from multiple
// circuits. The shared-library backend relies on the solver's own
// internal locking; the wasm backend serializes all calls because the
// module's linear memory is shared mutable state. Close must not
// overlap in-flight calls.
package engine
