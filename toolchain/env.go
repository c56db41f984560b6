package toolchain

import (
	"os"
	"runtime"
	"strings"
)

// ReproducibleLocale is forced on every build subprocess so generated
// sources and compiler diagnostics do not depend on the user's locale.
// It is the only variable msdev overrides.
const ReproducibleLocale = "C"

// EnvSpec describes how to augment a base environment.
type EnvSpec struct {
	// PathDirs are prepended to PATH in order.
	PathDirs []string
	// Defaults are set only when the variable is absent from the base.
	Defaults map[string]string
}

// AugmentEnv returns base plus spec. User-set variables are preserved;
// only LC_ALL is overridden.
func AugmentEnv(base []string, spec EnvSpec) []string {
	env := make([]string, 0, len(base)+len(spec.Defaults)+2)
	env = append(env, base...)

	pathKey := "PATH"
	existingPath := ""
	for _, entry := range base {
		key, value, _ := strings.Cut(entry, "=")
		if envKeyEqual(key, "PATH") {
			pathKey = key
			existingPath = value
		}
	}
	if len(spec.PathDirs) > 0 {
		parts := append([]string{}, spec.PathDirs...)
		if existingPath != "" {
			parts = append(parts, existingPath)
		}
		env = append(env, pathKey+"="+strings.Join(parts, string(os.PathListSeparator)))
	}

	for key, value := range spec.Defaults {
		if !hasKey(base, key) {
			env = append(env, key+"="+value)
		}
	}

	env = append(env, "LC_ALL="+ReproducibleLocale)
	return deduplicateEnv(env)
}

// ProcessEnv is AugmentEnv applied to the current process environment.
func ProcessEnv(spec EnvSpec) []string {
	return AugmentEnv(os.Environ(), spec)
}

func hasKey(env []string, key string) bool {
	for _, entry := range env {
		k, _, _ := strings.Cut(entry, "=")
		if envKeyEqual(k, key) {
			return true
		}
	}
	return false
}

func envKeyEqual(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// deduplicateEnv keeps the last occurrence of each env var key, so the
// values appended by AugmentEnv win over inherited duplicates.
func deduplicateEnv(env []string) []string {
	norm := func(k string) string {
		if runtime.GOOS == "windows" {
			return strings.ToUpper(k)
		}
		return k
	}
	seen := make(map[string]int, len(env))
	for i, entry := range env {
		key, _, _ := strings.Cut(entry, "=")
		seen[norm(key)] = i
	}
	result := make([]string, 0, len(seen))
	for i, entry := range env {
		key, _, _ := strings.Cut(entry, "=")
		if seen[norm(key)] == i {
			result = append(result, entry)
		}
	}
	return result
}
