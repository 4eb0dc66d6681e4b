// Package report implements the untranslated.json report shared by the
// sync and import commands.
//
// The file format is:
//
//	{
//	  "en": {
//	    "Transl::GREETING": {
//	      "source": "你好",
//	      "translation": ""
//	    }
//	  },
//	  "ja": {}
//	}
//
// sync writes it with empty translations; a translator (human or machine)
// fills in "translation" and import writes the values back.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the default report file name.
const FileName = "untranslated.json"

// Entry is one untranslated key.
type Entry struct {
	Source      string `json:"source"`
	Translation string `json:"translation"`
}

// Report is an ordered language → key → Entry table.
type Report struct {
	langs   []string
	keys    map[string][]string
	entries map[string]map[string]Entry
}

// New returns an empty report that already lists langs.
func New(langs ...string) *Report {
	r := &Report{
		keys:    make(map[string][]string),
		entries: make(map[string]map[string]Entry),
	}
	for _, lang := range langs {
		r.addLang(lang)
	}
	return r
}

func (r *Report) addLang(lang string) {
	if _, ok := r.entries[lang]; ok {
		return
	}
	r.langs = append(r.langs, lang)
	r.entries[lang] = make(map[string]Entry)
}

// Add stores e under lang/key. Adding an existing key overwrites the entry
// and keeps its position.
func (r *Report) Add(lang, key string, e Entry) {
	r.addLang(lang)
	if _, ok := r.entries[lang][key]; !ok {
		r.keys[lang] = append(r.keys[lang], key)
	}
	r.entries[lang][key] = e
}

// Languages returns the languages in insertion order.
func (r *Report) Languages() []string {
	return r.langs
}

// Keys returns the keys of lang in insertion order.
func (r *Report) Keys(lang string) []string {
	return r.keys[lang]
}

// Get returns the entry for lang/key.
func (r *Report) Get(lang, key string) (Entry, bool) {
	e, ok := r.entries[lang][key]
	return e, ok
}

// Len returns the number of entries for lang.
func (r *Report) Len(lang string) int {
	return len(r.keys[lang])
}

// Total returns the number of entries over all languages.
func (r *Report) Total() int {
	n := 0
	for _, keys := range r.keys {
		n += len(keys)
	}
	return n
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal produces the JSON report with 2-space indentation, preserving
// language and key order.
func (r *Report) Marshal() ([]byte, error) {
	var b strings.Builder

	if len(r.langs) == 0 {
		return []byte("{}\n"), nil
	}

	b.WriteString("{\n")
	for i, lang := range r.langs {
		fmt.Fprintf(&b, "  %s: ", jsonString(lang))
		keys := r.keys[lang]
		if len(keys) == 0 {
			b.WriteString("{}")
		} else {
			b.WriteString("{\n")
			for j, key := range keys {
				e := r.entries[lang][key]
				fmt.Fprintf(&b, "    %s: {\n", jsonString(key))
				fmt.Fprintf(&b, "      \"source\": %s,\n", jsonString(e.Source))
				fmt.Fprintf(&b, "      \"translation\": %s\n", jsonString(e.Translation))
				b.WriteString("    }")
				if j < len(keys)-1 {
					b.WriteByte(',')
				}
				b.WriteByte('\n')
			}
			b.WriteString("  }")
		}
		if i < len(r.langs)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n")

	return []byte(b.String()), nil
}

// WriteFile writes the report to path, creating parent directories.
func (r *Report) WriteFile(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// jsonString returns s as a JSON string literal without HTML escaping.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // a string always encodes
	return strings.TrimSuffix(buf.String(), "\n")
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a report file.
func ParseFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a report, preserving language and key order.
func Parse(data []byte) (*Report, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	r := New()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		lang, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		r.addLang(lang)

		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("language %q: %w", lang, err)
		}
		for dec.More() {
			key, err := stringToken(dec)
			if err != nil {
				return nil, fmt.Errorf("language %q: %w", lang, err)
			}
			var e Entry
			if err := dec.Decode(&e); err != nil {
				return nil, fmt.Errorf("language %q, key %q: %w", lang, key, err)
			}
			r.Add(lang, key, e)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return r, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := t.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %v, got %v", want, t)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	t, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := t.(string)
	if !ok {
		return "", fmt.Errorf("expected string key, got %T", t)
	}
	return s, nil
}
