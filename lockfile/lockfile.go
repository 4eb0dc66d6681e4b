// Package lockfile implements transl.lock — a lock file that remembers the
// MD5 checksum of the reference text each imported translation was made
// from. When the reference text changes later, sync and status can point
// out the translations that are now outdated.
//
// The lock file is stored in the language directory as transl.lock.
package lockfile

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = "transl.lock"

// Version is the lock file format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// LockFile represents the transl.lock file structure.
type LockFile struct {
	Version   int                          `yaml:"version"`
	Checksums map[string]map[string]string `yaml:"checksums"` // target -> key -> md5

	path string `yaml:"-"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads a lock file from the given directory.
// Returns an empty lock file if the file doesn't exist.
func Load(dir string) (*LockFile, error) {
	path := filepath.Join(dir, LockFileName)
	lf := &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
		path:      path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lf.path = path

	if lf.Checksums == nil {
		lf.Checksums = make(map[string]map[string]string)
	}

	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// ---------------------------------------------------------------------------
// Checksum operations
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// TargetKey builds the lock key of a translation file from its language
// and file name: "en/app.php".
func TargetKey(lang, file string) string {
	return filepath.ToSlash(filepath.Join(lang, file))
}

// IsStale reports whether key has a recorded checksum that no longer
// matches source. Keys that were never recorded are not stale.
func (lf *LockFile) IsStale(target, key, source string) bool {
	if lf == nil {
		return false
	}
	old, ok := lf.Checksums[target][key]
	if !ok {
		return false
	}
	return old != Hash(source)
}

// Update records the checksum of the reference text a translation was made from.
func (lf *LockFile) Update(target, key, source string) {
	if lf.Checksums[target] == nil {
		lf.Checksums[target] = make(map[string]string)
	}
	lf.Checksums[target][key] = Hash(source)
}

// Clean removes entries from the lock file that are no longer present in
// the current set of keys. This prevents stale entries from accumulating.
func (lf *LockFile) Clean(target string, currentKeys []string) {
	existing := lf.Checksums[target]
	if existing == nil {
		return
	}

	valid := make(map[string]bool, len(currentKeys))
	for _, k := range currentKeys {
		valid[k] = true
	}

	for k := range existing {
		if !valid[k] {
			delete(existing, k)
		}
	}
	if len(existing) == 0 {
		delete(lf.Checksums, target)
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Stats returns the number of targets and total keys in the lock file.
func (lf *LockFile) Stats() (targets, keys int) {
	targets = len(lf.Checksums)
	for _, m := range lf.Checksums {
		keys += len(m)
	}
	return
}

// Targets returns sorted list of target keys.
func (lf *LockFile) Targets() []string {
	targets := make([]string, 0, len(lf.Checksums))
	for t := range lf.Checksums {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	targets, keys := lf.Stats()
	if targets == 0 {
		return "empty"
	}

	var parts []string
	for _, t := range lf.Targets() {
		parts = append(parts, fmt.Sprintf("%s: %d keys", t, len(lf.Checksums[t])))
	}
	return fmt.Sprintf("%d files, %d keys (%s)", targets, keys, strings.Join(parts, ", "))
}
