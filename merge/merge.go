// Package merge compares a translation file against the reference file
// and appends missing keys to the translation, in the spirit of msgmerge.
package merge

import (
	"bytes"
	"errors"
	"strings"

	"github.com/minios-linux/transl/lockfile"
	"github.com/minios-linux/transl/phpfile"
)

// ClosingMarker ends the top-level array literal. New entries are inserted
// right before its last occurrence.
const ClosingMarker = "];"

// ErrNoClosingMarker is returned by Patch when the text has no ClosingMarker.
var ErrNoClosingMarker = errors.New("closing marker \"];\" not found")

// Item is one untranslated key.
type Item struct {
	Key         string
	Source      string // reference value
	Translation string // current value, "" when missing
	Missing     bool   // key absent from the translation file
}

// Diff is the result of comparing a translation against the reference.
type Diff struct {
	// Missing lists reference keys absent from the translation, in reference order.
	Missing []string
	// Empty lists translation keys with an empty value, in translation order.
	Empty []string
	// Obsolete lists translation keys the reference no longer has.
	Obsolete []string
	// Untranslated holds reference keys that are missing or empty.
	Untranslated []Item
}

// Compare diffs target against ref.
// - Keys only in ref are missing.
// - Keys in target with an empty value are empty.
// - Both kinds are untranslated when ref knows the key.
// - Keys only in target are obsolete.
func Compare(ref, target *phpfile.File) *Diff {
	d := &Diff{}

	for _, e := range ref.Entries() {
		cur, ok := target.Get(e.Key)
		switch {
		case !ok:
			d.Missing = append(d.Missing, e.Key)
			d.Untranslated = append(d.Untranslated, Item{Key: e.Key, Source: e.Value, Missing: true})
		case cur == "":
			d.Untranslated = append(d.Untranslated, Item{Key: e.Key, Source: e.Value})
		}
	}

	d.Empty = target.UntranslatedKeys()
	for _, key := range target.Keys() {
		if !ref.Has(key) {
			d.Obsolete = append(d.Obsolete, key)
		}
	}

	return d
}

// MissingItems returns the untranslated items whose key is absent.
func (d *Diff) MissingItems() []Item {
	var items []Item
	for _, it := range d.Untranslated {
		if it.Missing {
			items = append(items, it)
		}
	}
	return items
}

// Patch inserts an empty placeholder line for every missing item before the
// last ClosingMarker in data. Existing text is left untouched. Items that
// are not missing are ignored.
func Patch(data []byte, namespace string, items []Item) ([]byte, error) {
	var lines []string
	for _, it := range items {
		if !it.Missing {
			continue
		}
		lines = append(lines, "    "+phpfile.FormatEntry(namespace, it.Key, "", '\'')+", // "+commentText(it.Source))
	}
	if len(lines) == 0 {
		return data, nil
	}

	idx := bytes.LastIndex(data, []byte(ClosingMarker))
	if idx < 0 {
		return nil, ErrNoClosingMarker
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + 64*len(lines))
	buf.Write(data[:idx])
	if idx > 0 && data[idx-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.Join(lines, "\n"))
	buf.WriteByte('\n')
	buf.Write(data[idx:])
	return buf.Bytes(), nil
}

// MissingComma reports whether the last entry before the closing marker
// has no trailing comma. Lines appended by Patch would then follow it
// without a separator.
func MissingComma(data []byte, namespace string) bool {
	idx := bytes.LastIndex(data, []byte(ClosingMarker))
	if idx < 0 {
		return false
	}
	end := phpfile.Parse(data[:idx], namespace).End()
	if end < 0 {
		return false
	}
	rest := bytes.TrimLeft(data[end:idx], " \t\r\n")
	return len(rest) == 0 || rest[0] != ','
}

// commentText folds line breaks so the source fits in a // comment.
func commentText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

// Outdated returns translated keys whose reference text changed since the
// translation was imported, according to the checksums in lock.
func Outdated(ref, target *phpfile.File, lock *lockfile.LockFile, lockTarget string) []string {
	var keys []string
	for _, e := range target.Entries() {
		if e.Value == "" {
			continue
		}
		src, ok := ref.Get(e.Key)
		if !ok {
			continue
		}
		if lock.IsStale(lockTarget, e.Key, src) {
			keys = append(keys, e.Key)
		}
	}
	return keys
}
