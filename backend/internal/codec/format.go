package codec

import (
	"fmt"
	"strings"
)

// Characters of the persisted text format
const (
	FieldSep   = ';'
	ListOpen   = '{'
	ListClose  = '}'
	ItemSep    = ','
	PairSep    = ':'
	EscapeRune = '\\'
)

func isSpecial(c byte) bool {
	switch c {
	case FieldSep, ListOpen, ListClose, ItemSep, PairSep, EscapeRune:
		return true
	}
	return false
}

// Escape makes value safe to embed in any field, list item or attribute pair.
// Every special character is ASCII, so the value is walked byte by byte and
// anything else, including invalid UTF-8, is copied through untouched.
func Escape(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case isSpecial(c):
			b.WriteByte(EscapeRune)
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape reverses Escape
func Unescape(raw string) (string, error) {
	if strings.IndexByte(raw, EscapeRune) < 0 {
		return raw, nil
	}
	var b strings.Builder
	b.Grow(len(raw))
	escaped := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if !escaped {
			if c == EscapeRune {
				escaped = true
				continue
			}
			b.WriteByte(c)
			continue
		}
		escaped = false
		switch {
		case c == 'n':
			b.WriteByte('\n')
		case c == 'r':
			b.WriteByte('\r')
		case isSpecial(c):
			b.WriteByte(c)
		default:
			return "", fmt.Errorf("unknown escape sequence %q", raw[i-1:i+1])
		}
	}
	if escaped {
		return "", fmt.Errorf("dangling escape at end of value")
	}
	return b.String(), nil
}

// split cuts raw at every unescaped sep, leaving escapes in place
func split(raw string, sep byte) []string {
	var parts []string
	start := 0
	escaped := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == EscapeRune:
			escaped = true
		case c == sep:
			parts = append(parts, raw[start:i])
			start = i + 1
		}
	}
	return append(parts, raw[start:])
}

// EncodeList renders items as {a,b,c}
func EncodeList(items []string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = Escape(item)
	}
	return string(ListOpen) + strings.Join(escaped, string(ItemSep)) + string(ListClose)
}

// DecodeList parses a {a,b,c} field
func DecodeList(raw string) ([]string, error) {
	if len(raw) < 2 || raw[0] != ListOpen || raw[len(raw)-1] != ListClose {
		return nil, fmt.Errorf("list %q is not wrapped in braces", raw)
	}
	inner := raw[1 : len(raw)-1]
	if inner == "" {
		return []string{}, nil
	}
	parts := split(inner, ItemSep)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		item, err := Unescape(p)
		if err != nil {
			return nil, err
		}
		if item == "" {
			return nil, fmt.Errorf("empty item in list %q", raw)
		}
		items = append(items, item)
	}
	return items, nil
}

// FormatList renders items for display, e.g. {ana,bruno}
func FormatList(items []string) string {
	return string(ListOpen) + strings.Join(items, string(ItemSep)) + string(ListClose)
}

// joinFields escapes nothing; callers pass already-encoded fields
func joinFields(fields ...string) string {
	return strings.Join(fields, string(FieldSep))
}

func unescapeAll(raw []string) ([]string, error) {
	out := make([]string, len(raw))
	for i, r := range raw {
		v, err := Unescape(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
