// Package config resolves project settings from defaults, the optional
// configuration file, the environment and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultReference = "zh"
	DefaultNamespace = "Transl"
	DefaultExtension = ".php"
	DefaultReport    = "untranslated.json"
)

// Environment variables, read from the process environment or from a .env
// file in the project root. The process environment wins.
const (
	EnvLangDir   = "TRANSL_LANG_DIR"
	EnvReference = "TRANSL_REFERENCE"
	EnvLanguages = "TRANSL_LANGUAGES"
	EnvNamespace = "TRANSL_NAMESPACE"
	EnvExtension = "TRANSL_EXTENSION"
	EnvReport    = "TRANSL_REPORT"
)

// Project holds the resolved settings.
type Project struct {
	// Root is the absolute project root.
	Root string
	// LangDir is the absolute directory holding one directory per language.
	LangDir string
	// Reference is the reference language code.
	Reference string
	// Languages are the target languages, reference excluded.
	Languages []string
	// Namespace qualifies keys ("Transl" in Transl::KEY).
	Namespace string
	// Extension selects language files.
	Extension string
	// ReportPath is the absolute path of the untranslated report.
	ReportPath string
	// ConfigPath is the configuration file used, if any.
	ConfigPath string
	// Detected is true when Languages came from directory scanning.
	Detected bool
}

// Load resolves the project rooted at rootDir.
// Precedence: defaults < config file < .env < process environment.
func Load(rootDir string) (*Project, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	f, cfgPath, err := LoadFile(root)
	if err != nil {
		return nil, err
	}
	if f == nil {
		f = &File{}
	}

	env, err := loadEnv(root)
	if err != nil {
		return nil, err
	}
	applyEnv(f, env)

	p := &Project{
		Root:       root,
		LangDir:    root,
		Reference:  DefaultReference,
		Namespace:  DefaultNamespace,
		Extension:  DefaultExtension,
		ConfigPath: cfgPath,
	}
	if f.LangDir != "" {
		p.LangDir = resolvePath(root, f.LangDir)
	}
	if f.Reference != "" {
		p.Reference = f.Reference
	}
	if f.Namespace != nil {
		p.Namespace = *f.Namespace
	}
	if f.Extension != "" {
		p.Extension = f.Extension
	}
	if !strings.HasPrefix(p.Extension, ".") {
		p.Extension = "." + p.Extension
	}
	reportPath := DefaultReport
	if f.Report != "" {
		reportPath = f.Report
	}
	p.ReportPath = resolvePath(p.LangDir, reportPath)

	if len(f.Languages) > 0 {
		p.Languages = FilterOut(f.Languages, p.Reference)
	} else {
		p.Languages = DetectLanguages(p.LangDir, p.Reference, p.Extension)
		p.Detected = true
	}

	return p, nil
}

// loadEnv merges the .env file in root with the process environment.
func loadEnv(root string) (map[string]string, error) {
	path := filepath.Join(root, ".env")
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		env = make(map[string]string)
	}
	for _, k := range []string{EnvLangDir, EnvReference, EnvLanguages, EnvNamespace, EnvExtension, EnvReport} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return env, nil
}

func applyEnv(f *File, env map[string]string) {
	if v := env[EnvLangDir]; v != "" {
		f.LangDir = v
	}
	if v := env[EnvReference]; v != "" {
		f.Reference = v
	}
	if v := env[EnvLanguages]; v != "" {
		f.Languages = SplitList(v)
	}
	if v, ok := env[EnvNamespace]; ok {
		f.Namespace = &v
	}
	if v := env[EnvExtension]; v != "" {
		f.Extension = v
	}
	if v := env[EnvReport]; v != "" {
		f.Report = v
	}
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

// LangPath returns the directory of a language.
func (p *Project) LangPath(lang string) string {
	return filepath.Join(p.LangDir, lang)
}

// ReferenceDir returns the directory of the reference language.
func (p *Project) ReferenceDir() string {
	return p.LangPath(p.Reference)
}

// FilePath returns the path of file name for lang.
func (p *Project) FilePath(lang, name string) string {
	return filepath.Join(p.LangPath(lang), name)
}

// ListFiles returns the sorted names of language files in lang's directory.
// A missing directory yields an error wrapping fs.ErrNotExist.
func (p *Project) ListFiles(lang string) ([]string, error) {
	dir := p.LangPath(lang)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), p.Extension) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ---------------------------------------------------------------------------
// Language detection
// ---------------------------------------------------------------------------

// DetectLanguages finds language directories in langDir that contain at
// least one file with extension ext. The reference language is excluded.
func DetectLanguages(langDir, reference, ext string) []string {
	entries, err := os.ReadDir(langDir)
	if err != nil {
		return nil
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == reference || !isLangCode(name) {
			continue
		}
		sub, err := os.ReadDir(filepath.Join(langDir, name))
		if err != nil {
			continue
		}
		for _, s := range sub {
			if !s.IsDir() && strings.HasSuffix(s.Name(), ext) {
				langs = append(langs, name)
				break
			}
		}
	}
	sort.Strings(langs)
	return langs
}

// isLangCode checks if a string looks like a language code (en, fil, pt_BR, zh-TW, etc).
func isLangCode(s string) bool {
	base, region, hasRegion := strings.Cut(strings.ReplaceAll(s, "-", "_"), "_")
	if len(base) < 2 || len(base) > 3 || !isLower(base) {
		return false
	}
	if !hasRegion {
		return true
	}
	return len(region) == 2 && isUpper(region) || len(region) == 4 && isUpper(region[:1]) && isLower(region[1:])
}

func isLower(s string) bool {
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func isUpper(s string) bool {
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// List helpers
// ---------------------------------------------------------------------------

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FilterOut returns langs without lang, preserving order and dropping repeats.
func FilterOut(langs []string, lang string) []string {
	seen := make(map[string]bool, len(langs))
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if l == lang || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
