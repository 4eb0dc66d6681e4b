// Package config — .transl.yaml / .transl.toml configuration file support.
//
// The configuration file is optional. Every field falls back to a default,
// and a missing language list means languages are detected from the
// directories present in the language directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// File schema
// ---------------------------------------------------------------------------

// File is the top-level configuration file structure.
type File struct {
	// LangDir is the directory holding one subdirectory per language,
	// relative to the project root (default ".").
	LangDir string `yaml:"lang_dir,omitempty" toml:"lang_dir,omitempty"`
	// Reference is the language every other language is compared to (default "zh").
	Reference string `yaml:"reference,omitempty" toml:"reference,omitempty"`
	// Languages lists the target languages (default: detected).
	Languages []string `yaml:"languages,omitempty" toml:"languages,omitempty"`
	// Namespace qualifies keys in the files: Transl::KEY (default "Transl").
	// An explicit empty string matches bare keys.
	Namespace *string `yaml:"namespace,omitempty" toml:"namespace,omitempty"`
	// Extension selects language files (default ".php").
	Extension string `yaml:"extension,omitempty" toml:"extension,omitempty"`
	// Report is the untranslated report path relative to LangDir
	// (default "untranslated.json").
	Report string `yaml:"report,omitempty" toml:"report,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// FileName is the default config file name.
const FileName = ".transl.yaml"

// TOMLFileName is the alternative config file name.
const TOMLFileName = ".transl.toml"

// LoadFile loads the configuration file from rootDir. The YAML file wins
// when both exist. Returns nil and an empty path if neither exists.
func LoadFile(rootDir string) (*File, string, error) {
	for _, name := range []string{FileName, TOMLFileName} {
		path := filepath.Join(rootDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("reading %s: %w", path, err)
		}

		var f File
		if name == TOMLFileName {
			err = toml.Unmarshal(data, &f)
		} else {
			err = yaml.Unmarshal(data, &f)
		}
		if err != nil {
			return nil, "", fmt.Errorf("parsing %s: %w", path, err)
		}
		return &f, path, nil
	}
	return nil, "", nil
}

// Save writes f as YAML to path.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
