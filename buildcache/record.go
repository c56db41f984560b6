// Package buildcache persists the last successful build per app and mode so
// `run --no-build` and `serve --no-build` can locate artifacts without
// re-running the pipeline.
//
// Records are msgpack-encoded, one file per (app, mode), written atomically.
package buildcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is bumped whenever Record changes incompatibly.
const SchemaVersion = 1

const recordExt = ".msgpack"

// ErrNotFound is returned when no usable record exists.
var ErrNotFound = errors.New("build record not found")

// Record describes one successful build.
type Record struct {
	Schema   int       `msgpack:"schema"`
	App      string    `msgpack:"app"`
	Mode     string    `msgpack:"mode"`
	AppID    string    `msgpack:"app_id"`
	ExeName  string    `msgpack:"exe_name"`
	Artifact string    `msgpack:"artifact"`
	BuildDir string    `msgpack:"build_dir"`
	Platform string    `msgpack:"platform"`
	Version  string    `msgpack:"msdev_version"`
	BuiltAt  time.Time `msgpack:"built_at"`
}

// Store reads and writes records under a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(app, mode string) string {
	return filepath.Join(s.dir, app+"-"+mode+recordExt)
}

// Write stores rec, replacing any previous record for the same app and mode.
func (s *Store) Write(rec Record) error {
	if rec.App == "" || rec.Mode == "" {
		return errors.New("build record requires app and mode")
	}
	rec.Schema = SchemaVersion
	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("encode build record: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create build record dir: %w", err)
	}

	path := s.path(rec.App, rec.Mode)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write build record: %w", err)
	}
	return os.Rename(tmp, path)
}

// Read returns the record for app and mode. Missing files and records from
// another schema version yield ErrNotFound.
func (s *Store) Read(app, mode string) (Record, error) {
	data, err := os.ReadFile(s.path(app, mode))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("read build record: %w", err)
	}
	var rec Record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode build record: %w", err)
	}
	if rec.Schema != SchemaVersion {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// List returns every decodable record sorted by app then mode.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list build records: %w", err)
	}
	var records []Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if msgpack.Unmarshal(data, &rec) != nil || rec.Schema != SchemaVersion {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].App != records[j].App {
			return records[i].App < records[j].App
		}
		return records[i].Mode < records[j].Mode
	})
	return records, nil
}
