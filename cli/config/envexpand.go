// Package config handles msdev.yaml loading and user directory lookup.
package config

import (
	"os"
	"regexp"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} in input using the
// process environment. Unset variables without a default expand to "".
func ExpandEnv(input string) string {
	return expandWith(input, os.LookupEnv)
}

// expandWith is ExpandEnv with an injectable lookup. An empty value is
// treated like an unset one so ${EMSDK:-/opt/emsdk} falls back when EMSDK="".
func expandWith(input string, lookup func(string) (string, bool)) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if value, ok := lookup(groups[1]); ok && value != "" {
			return value
		}
		return groups[2]
	})
}
