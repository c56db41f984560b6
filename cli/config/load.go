package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WorkspaceFileName is the config file looked up at the workspace root.
const WorkspaceFileName = "msdev.yaml"

// Load reads a YAML config file, expands environment variables,
// unmarshals into a Config, and fills defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	expanded := ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve picks the config for a workspace. Precedence:
//  1. explicit path (must exist)
//  2. <workspace>/msdev.yaml
//  3. <user config dir>/msdev/config.yaml
//  4. built-in defaults
//
// The returned string names the file used, or "" for defaults.
func Resolve(workspaceRoot, explicit string, dirs *Dirs) (*Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}

	candidates := []string{filepath.Join(workspaceRoot, WorkspaceFileName)}
	if dirs != nil {
		if userDir, err := dirs.ConfigDir(); err == nil {
			candidates = append(candidates, filepath.Join(userDir, "config.yaml"))
		}
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := Load(path)
		return cfg, path, err
	}

	cfg := Defaults()
	return cfg, "", nil
}
