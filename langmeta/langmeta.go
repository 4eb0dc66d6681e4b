// Package langmeta provides language display metadata (native names and
// emoji flags) for the CLI, backed by the CLDR data in golang.org/x/text.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	Name string
	Flag string
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like pt_BR and pt-BR. The flag comes from the
// explicit region or, failing that, the most likely region of the
// language. Unknown codes are returned as their own name without a flag.
func Resolve(lang string) Meta {
	normalized := canonicalize(lang)
	if normalized == "" {
		return Meta{Name: lang}
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return Meta{Name: lang}
	}

	name := display.Self.Name(tag)
	if name == "" {
		name = lang
	}

	flag := ""
	if region, conf := tag.Region(); conf != language.No {
		flag = FlagFromRegion(region.String())
	}
	return Meta{Name: name, Flag: flag}
}

// FlagFromRegion converts a two-letter region code into its emoji flag.
// Anything else yields "".
func FlagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range strings.ToUpper(region) {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}
