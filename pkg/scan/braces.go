package scan

// DefaultMaxScan bounds how far ExtractBody will walk before giving up.
// It prevents quadratic blow-up when many declarations in a huge file each
// trigger a scan that runs to EOF on unbalanced input.
const DefaultMaxScan = 1 << 20

// ExtractBody returns the text between a known opening brace and its
// matching close brace. start is the index immediately after the opening
// '{'. Braces inside strings, templates, comments, and (for ECMAScript)
// regex literals are ignored.
//
// The second return is false when the input ends, or maxScan bytes are
// consumed, before the matching brace is found. Callers treat that as
// "malformed declaration, skip it", never as fatal. maxScan <= 0 applies
// DefaultMaxScan.
func ExtractBody(src string, start int, d Dialect, maxScan int) (string, bool) {
	if maxScan <= 0 {
		maxScan = DefaultMaxScan
	}
	if start < 0 || start > len(src) {
		return "", false
	}

	depth := 1
	i := start
	for i < len(src) {
		if i-start > maxScan {
			return "", false
		}
		if next, ok := skipLiteralOrComment(src, i, d); ok {
			i = next
			continue
		}
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[start:i], true
			}
		}
		i++
	}
	return "", false
}

// MatchBrace is like ExtractBody but returns the index of the matching
// close brace instead of the body text. Returns -1 when not found.
func MatchBrace(src string, start int, d Dialect, maxScan int) int {
	if maxScan <= 0 {
		maxScan = DefaultMaxScan
	}
	if start < 0 || start > len(src) {
		return -1
	}

	depth := 1
	i := start
	for i < len(src) {
		if i-start > maxScan {
			return -1
		}
		if next, ok := skipLiteralOrComment(src, i, d); ok {
			i = next
			continue
		}
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}
