// Package phpfile implements reading of PHP language-array files.
//
// Format: a PHP file returning an array literal whose entries look like
//
//	Transl::GREETING => '你好',
//	Transl::FAREWELL => "再见",
//
// Keys are uppercase identifiers qualified by a namespace (the class holding
// the key constants). Values are kept raw: escape sequences such as \' are
// preserved exactly as written in the file so that output round-trips.
//
// File naming convention: each language is stored as a directory holding
// one or more array files:
//
//	lang/zh/app.php  (reference)
//	lang/en/app.php  (translation)
package phpfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// Entry is a single key => value pair.
type Entry struct {
	Key   string
	Value string // raw text between the quotes
	Quote byte   // ' or "

	start, end int // value span in the source (quotes excluded)
}

// Duplicate records a key seen more than once while scanning.
type Duplicate struct {
	Key  string
	Line int // line of the later occurrence
}

// File represents a parsed language-array file.
type File struct {
	// Namespace is the qualifier in front of every key ("Transl").
	Namespace string

	entries []Entry
	// index maps key → index in entries.
	index map[string]int
	// spans holds every value span, duplicates included.
	spans      [][2]int
	duplicates []Duplicate
	src        []byte
}

// New returns an empty File for namespace.
func New(namespace string) *File {
	return &File{Namespace: namespace, index: make(map[string]int)}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a language file from disk. A file that does
// not exist yields an empty File and no error.
func ParseFile(path, namespace string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(namespace), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, namespace), nil
}

// Parse scans data for entries. Parsing never fails: anything that does not
// look like a complete entry is skipped.
func Parse(data []byte, namespace string) *File {
	f := New(namespace)
	f.src = data

	pos := 0
	for pos < len(data) {
		start := f.nextCandidate(data, pos)
		if start < 0 {
			break
		}
		e, end, ok := scanEntry(data, start)
		if !ok {
			pos = start + 1
			continue
		}
		f.add(e, data)
		pos = end
	}
	return f
}

// nextCandidate returns the offset of the next possible key start at or
// after pos, or -1.
func (f *File) nextCandidate(data []byte, pos int) int {
	if f.Namespace != "" {
		prefix := []byte(f.Namespace + "::")
		for pos < len(data) {
			idx := bytes.Index(data[pos:], prefix)
			if idx < 0 {
				return -1
			}
			abs := pos + idx
			if AtBoundary(data, abs) {
				return abs + len(prefix)
			}
			pos = abs + 1
		}
		return -1
	}
	for i := pos; i < len(data); i++ {
		if isKeyByte(data[i]) && AtBoundary(data, i) {
			return i
		}
	}
	return -1
}

func (f *File) add(e Entry, data []byte) {
	f.spans = append(f.spans, [2]int{e.start, e.end})
	if idx, exists := f.index[e.Key]; exists {
		// Duplicate key: later value wins, first position is kept.
		line := bytes.Count(data[:e.start], []byte{'\n'}) + 1
		f.duplicates = append(f.duplicates, Duplicate{Key: e.Key, Line: line})
		f.entries[idx] = e
		return
	}
	f.index[e.Key] = len(f.entries)
	f.entries = append(f.entries, e)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Keys returns all keys in order of first appearance.
func (f *File) Keys() []string {
	keys := make([]string, len(f.entries))
	for i, e := range f.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the entries in order of first appearance.
func (f *File) Entries() []Entry {
	return f.entries
}

// Len returns the number of distinct keys.
func (f *File) Len() int {
	return len(f.entries)
}

// Get returns the raw value for key and whether it was found.
func (f *File) Get(key string) (string, bool) {
	if idx, ok := f.index[key]; ok {
		return f.entries[idx].Value, true
	}
	return "", false
}

// Has reports whether key is present.
func (f *File) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// UntranslatedKeys returns keys whose value is empty.
func (f *File) UntranslatedKeys() []string {
	var keys []string
	for _, e := range f.entries {
		if e.Value == "" {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Stats returns (total, translated) for this file.
func (f *File) Stats() (total, translated int) {
	for _, e := range f.entries {
		total++
		if e.Value != "" {
			translated++
		}
	}
	return total, translated
}

// End returns the offset just past the closing quote of the last entry in
// the source, or -1 when there are no entries.
func (f *File) End() int {
	if len(f.spans) == 0 {
		return -1
	}
	return f.spans[len(f.spans)-1][1] + 1
}

// Duplicates returns the duplicate keys found while parsing.
func (f *File) Duplicates() []Duplicate {
	return f.duplicates
}

// ---------------------------------------------------------------------------
// Serialization helpers
// ---------------------------------------------------------------------------

// QualifiedKey joins namespace and key the way they appear in the file.
func QualifiedKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + "::" + key
}

// FormatEntry renders a single entry. value is written as is, so it must
// already be escaped for quote.
func FormatEntry(namespace, key, value string, quote byte) string {
	q := string(quote)
	return QualifiedKey(namespace, key) + " => " + q + value + q
}

// Escape makes s safe to place between two quote characters. Quotes that
// are already escaped are left alone, so escaping twice is a no-op.
func Escape(s string, quote byte) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	slashes := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == quote && slashes%2 == 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
		if c == '\\' {
			slashes++
		} else {
			slashes = 0
		}
	}
	// A lone trailing backslash would escape the closing quote.
	if slashes%2 == 1 {
		b.WriteByte('\\')
	}
	return b.String()
}

// Blank returns a copy of the parsed source with every value emptied. It is
// used to create a translation file that mirrors the reference layout.
func (f *File) Blank() []byte {
	var buf bytes.Buffer
	buf.Grow(len(f.src))

	last := 0
	for _, sp := range f.spans {
		buf.Write(f.src[last:sp[0]])
		last = sp[1]
	}
	buf.Write(f.src[last:])
	return buf.Bytes()
}
