package phpfile

// scanState is the position of the entry scanner inside one candidate.
type scanState int

const (
	stateKey    scanState = iota // reading KEY bytes
	stateArrow                   // whitespace, then "=>"
	stateQuote                   // whitespace, then opening quote
	stateValue                   // inside the value
	stateEscape                  // byte after a backslash
)

// scanEntry tries to read `KEY => 'value'` starting at the first key byte.
// It returns the entry, the offset just past the closing quote and whether
// a complete entry was found.
func scanEntry(data []byte, start int) (Entry, int, bool) {
	var e Entry
	st := stateKey

	for i := start; i < len(data); i++ {
		c := data[i]

		switch st {
		case stateKey:
			if isKeyByte(c) {
				continue
			}
			if i == start {
				return Entry{}, 0, false
			}
			e.Key = string(data[start:i])
			st = stateArrow
			fallthrough

		case stateArrow:
			switch {
			case isSpace(c):
			case c == '=' && i+1 < len(data) && data[i+1] == '>':
				i++
				st = stateQuote
			default:
				return Entry{}, 0, false
			}

		case stateQuote:
			switch {
			case isSpace(c):
			case c == '\'' || c == '"':
				e.Quote = c
				e.start = i + 1
				st = stateValue
			default:
				return Entry{}, 0, false
			}

		case stateValue:
			switch c {
			case '\\':
				st = stateEscape
			case e.Quote:
				e.end = i
				e.Value = string(data[e.start:e.end])
				return e, i + 1, true
			}

		case stateEscape:
			st = stateValue
		}
	}

	// Ran out of input before the closing quote.
	return Entry{}, 0, false
}

func isKeyByte(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// IsNameByte reports bytes that continue a PHP name: a key or namespace
// preceded by one of them is the tail of a longer name. A backslash is a
// namespace separator, so `\App\Transl::KEY` still starts a key.
func IsNameByte(c byte) bool {
	return isKeyByte(c) || c >= 'a' && c <= 'z' || c == ':' || c == '$'
}

// AtBoundary reports whether a name may start at data[i].
func AtBoundary(data []byte, i int) bool {
	return i == 0 || !IsNameByte(data[i-1])
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
