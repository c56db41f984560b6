package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// appDirName is the per-user directory name under config and cache roots.
const appDirName = "msdev"

// Dirs caches user directory lookups for the lifetime of a process.
// Pass one instance explicitly to whatever needs it; tests call
// Invalidate after changing HOME or XDG variables.
type Dirs struct {
	mu     sync.Mutex
	cached map[string]string

	// Lookups counts uncached resolutions. Exposed for tests.
	Lookups int
}

// NewDirs creates an empty directory cache.
func NewDirs() *Dirs {
	return &Dirs{cached: make(map[string]string)}
}

// Home returns the user's home directory.
func (d *Dirs) Home() (string, error) {
	return d.get("home", os.UserHomeDir)
}

// ConfigDir returns <user config dir>/msdev.
func (d *Dirs) ConfigDir() (string, error) {
	return d.get("config", func() (string, error) {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, appDirName), nil
	})
}

// CacheDir returns <user cache dir>/msdev.
func (d *Dirs) CacheDir() (string, error) {
	return d.get("cache", func() (string, error) {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, appDirName), nil
	})
}

// Invalidate drops every cached lookup.
func (d *Dirs) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached = make(map[string]string)
}

func (d *Dirs) get(key string, resolve func() (string, error)) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cached == nil {
		d.cached = make(map[string]string)
	}
	if v, ok := d.cached[key]; ok {
		return v, nil
	}
	d.Lookups++
	v, err := resolve()
	if err != nil {
		return "", fmt.Errorf("resolve %s dir: %w", key, err)
	}
	d.cached[key] = v
	return v, nil
}
