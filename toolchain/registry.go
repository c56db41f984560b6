// Package toolchain resolves tool identifiers to absolute executable paths
// and prepares the environment build subprocesses run with.
//
// Lookup order for a tool:
//  1. bundled copy under the workspace tools directory
//  2. tool-specific environment hints (EMSDK for emcc)
//  3. the system search path
package toolchain

// Tool identifiers known to the registry.
const (
	CMake  = "cmake"
	Ninja  = "ninja"
	Emcc   = "emcc"
	CXX    = "c++"
	Zig    = "zig"
	Bridge = "oc-bridge"
)

// Tool describes where a tool may live.
type Tool struct {
	// ID is the tool identifier.
	ID string
	// Bundled lists slash-separated paths relative to the tools dir,
	// without executable suffix.
	Bundled []string
	// System lists names searched on PATH, in order.
	System []string
	// Script marks tools shipped as scripts (.bat on Windows) rather than binaries.
	Script bool
	// Hint is shown to the user when the tool cannot be found.
	Hint string
}

// registry is the fixed set of tools msdev knows how to find.
var registry = map[string]Tool{
	CMake: {
		ID:      CMake,
		Bundled: []string{"cmake/bin/cmake"},
		System:  []string{"cmake"},
		Hint:    "install CMake 3.20+ (https://cmake.org/download) or unpack it into tools/cmake",
	},
	Ninja: {
		ID:      Ninja,
		Bundled: []string{"ninja/ninja"},
		System:  []string{"ninja", "ninja-build"},
		Hint:    "install Ninja (https://ninja-build.org) or place the binary in tools/ninja",
	},
	Emcc: {
		ID:      Emcc,
		Bundled: []string{"emsdk/upstream/emscripten/emcc"},
		System:  []string{"emcc"},
		Script:  true,
		Hint:    "install emsdk and run `emsdk install latest && emsdk activate latest`, or unpack it into tools/emsdk",
	},
	CXX: {
		ID:     CXX,
		System: []string{"c++", "clang++", "g++"},
		Hint:   "install a C++ toolchain",
	},
	Zig: {
		ID:      Zig,
		Bundled: []string{"zig/zig"},
		System:  []string{"zig"},
		Hint:    "unpack zig into tools/zig",
	},
	Bridge: {
		ID:      Bridge,
		Bundled: []string{"bridge/oc-bridge"},
		System:  []string{"oc-bridge"},
		Hint:    "build or download oc-bridge into tools/bridge",
	},
}

// Lookup returns the registry entry for id.
func Lookup(id string) (Tool, bool) {
	t, ok := registry[id]
	return t, ok
}

// Hint returns the remediation hint for id, or a generic one.
func Hint(id string) string {
	if t, ok := registry[id]; ok {
		return t.Hint
	}
	return "install " + id + " and make sure it is on PATH"
}
