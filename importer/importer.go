// Package importer writes finished translations into language files by
// filling in empty placeholders of the form `KEY => ''`.
package importer

import (
	"bytes"

	"github.com/minios-linux/transl/phpfile"
)

// Translation is the text to inject for one qualified key ("Transl::KEY").
type Translation struct {
	Key  string
	Text string
}

// Result tells what Substitute did with each key.
type Result struct {
	// Updated lists keys whose placeholder was filled, in input order.
	Updated []string
	// Skipped lists keys without an empty placeholder in the text.
	Skipped []string
	// Blank lists keys with a placeholder whose translation text was empty.
	// Their placeholder matched but the text is unchanged.
	Blank []string
}

// Count returns the number of matched placeholders, blank ones included.
func (r Result) Count() int {
	return len(r.Updated) + len(r.Blank)
}

// Changed reports whether the text was modified.
func (r Result) Changed() bool {
	return len(r.Updated) > 0
}

// Substitute replaces, for every translation in order, the first
// `KEY => ''` in data with `KEY => '<text>'`. Quotes inside text are
// escaped. Keys that are already translated, written with double quotes or
// absent are skipped without error.
func Substitute(data []byte, translations []Translation) ([]byte, Result) {
	var res Result
	out := data

	for _, t := range translations {
		idx := findPlaceholder(out, t.Key)
		if idx < 0 {
			res.Skipped = append(res.Skipped, t.Key)
			continue
		}
		if t.Text == "" {
			// Replacing '' with '' leaves the text as is.
			res.Blank = append(res.Blank, t.Key)
			continue
		}

		search := placeholder(t.Key)
		replace := []byte(phpfile.FormatEntry("", t.Key, phpfile.Escape(t.Text, '\''), '\''))

		var buf bytes.Buffer
		buf.Grow(len(out) + len(replace))
		buf.Write(out[:idx])
		buf.Write(replace)
		buf.Write(out[idx+len(search):])
		out = buf.Bytes()

		res.Updated = append(res.Updated, t.Key)
	}

	return out, res
}

func placeholder(key string) []byte {
	return []byte(key + " => ''")
}

// findPlaceholder returns the offset of the first `key => ''` that is not
// the tail of a longer name, or -1.
func findPlaceholder(data []byte, key string) int {
	search := placeholder(key)
	pos := 0
	for {
		i := bytes.Index(data[pos:], search)
		if i < 0 {
			return -1
		}
		abs := pos + i
		if phpfile.AtBoundary(data, abs) {
			return abs
		}
		pos = abs + 1
	}
}
