package types

import (
	goruntime "runtime"
	"strings"
)

// Platform describes the host operating system as far as builds and
// process management care about it.
type Platform struct {
	// OS is the GOOS value (linux, darwin, windows, ...).
	OS string
	// Arch is the GOARCH value.
	Arch string
}

// DetectPlatform returns the platform msdev is running on.
func DetectPlatform() Platform {
	return Platform{OS: goruntime.GOOS, Arch: goruntime.GOARCH}
}

// IsWindows reports whether the platform is Windows.
func (p Platform) IsWindows() bool {
	return p.OS == "windows"
}

// IsUnix reports whether the platform is a Unix family OS.
func (p Platform) IsUnix() bool {
	return !p.IsWindows()
}

// IsDarwin reports whether the platform is macOS.
func (p Platform) IsDarwin() bool {
	return p.OS == "darwin"
}

// ExeSuffix returns the executable file suffix (".exe" on Windows).
func (p Platform) ExeSuffix() string {
	if p.IsWindows() {
		return ".exe"
	}
	return ""
}

// ExeName appends the executable suffix to name unless already present.
func (p Platform) ExeName(name string) string {
	suffix := p.ExeSuffix()
	if suffix == "" || strings.HasSuffix(strings.ToLower(name), suffix) {
		return name
	}
	return name + suffix
}

// ScriptName returns the platform-specific name of a wrapper script:
// "<name>.cmd" on Windows, "<name>" elsewhere.
func (p Platform) ScriptName(name string) string {
	if p.IsWindows() {
		return name + ".cmd"
	}
	return name
}

// String returns "<os>/<arch>".
func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}
