package scan

import "strings"

// SplitTopLevel splits s on sep, ignoring separators nested inside
// (), [], {}, <> or quoted strings. It is used for parameter lists and
// base-class lists, where commas inside generics or default values must
// not split: "a: Map<K, V>, b = f(1, 2)" yields two parts.
//
// Angle brackets are only treated as nesting when they look like generic
// argument brackets (no surrounding spaces suggesting comparison
// operators would require expression parsing this package does not do).
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	angle := 0
	start := 0

	i := 0
	for i < len(s) {
		switch c := s[i]; c {
		case '"', '\'':
			i = skipString(s, i, c)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '<':
			angle++
		case '>':
			if angle > 0 {
				angle--
			}
		default:
			if c == sep && depth == 0 && angle == 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					parts = append(parts, part)
				}
				start = i + 1
			}
		}
		i++
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// Collapse rewrites every whitespace run as a single space and trims the
// ends, so declaration headers that span lines match single-line patterns.
func Collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteByte(c)
	}
	return b.String()
}
