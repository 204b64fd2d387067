package scan

// StripComments removes all line and block comments from source text,
// replacing them with spaces so byte offsets and line structure survive.
// Characters inside string, template, character, or regex literals are
// never altered. An unterminated literal or comment at end of input is
// treated as extending to the end — no error.
//
// Re-scrubbing already-scrubbed text is a no-op.
func StripComments(src string, d Dialect) string {
	out := []byte(src)
	i := 0
	for i < len(src) {
		switch src[i] {
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				end := skipLineComment(src, i)
				blank(out, i, end)
				i = end
				continue
			}
			if i+1 < len(src) && src[i+1] == '*' {
				end := skipBlockComment(src, i)
				blank(out, i, end)
				i = end
				continue
			}
			if d == DialectECMAScript && regexCanFollow(src, i) {
				i = skipRegex(src, i)
				continue
			}
		case '"':
			i = skipString(src, i, '"')
			continue
		case '\'':
			i = skipString(src, i, '\'')
			continue
		case '`':
			if d == DialectECMAScript {
				i = scrubTemplate(src, out, i)
				continue
			}
		}
		i++
	}
	return string(out)
}

// blank overwrites out[from:to] with spaces, preserving newlines.
func blank(out []byte, from, to int) {
	for j := from; j < to && j < len(out); j++ {
		if out[j] != '\n' && out[j] != '\r' {
			out[j] = ' '
		}
	}
}

// scrubTemplate walks a template literal, scrubbing comments found inside
// ${...} interpolations while leaving template text untouched.
func scrubTemplate(src string, out []byte, i int) int {
	i++ // opening backtick
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '`':
			return i + 1
		case '$':
			if i+1 < len(src) && src[i+1] == '{' {
				i = scrubInterpolation(src, out, i+2)
				continue
			}
		}
		i++
	}
	return len(src)
}

// scrubInterpolation scrubs code inside ${...}, starting just past the
// opening brace, and returns the index past the matching close brace.
func scrubInterpolation(src string, out []byte, i int) int {
	depth := 1
	for i < len(src) {
		switch src[i] {
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				end := skipLineComment(src, i)
				blank(out, i, end)
				i = end
				continue
			}
			if i+1 < len(src) && src[i+1] == '*' {
				end := skipBlockComment(src, i)
				blank(out, i, end)
				i = end
				continue
			}
			if regexCanFollow(src, i) {
				i = skipRegex(src, i)
				continue
			}
		case '"':
			i = skipString(src, i, '"')
			continue
		case '\'':
			i = skipString(src, i, '\'')
			continue
		case '`':
			i = scrubTemplate(src, out, i)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return len(src)
}
