// Package scan provides the lexical groundwork for the structural parsers:
// comment scrubbing, balanced-brace extraction, and top-level statement
// splitting, all aware of string, template, character, and regex literal
// contexts so structural patterns never match inside them.
//
// The scanners are state machines over raw text, not tokenizers. They
// recover just enough lexical structure to let regex-based parsers work on
// real-world source without a compiler front end.
package scan

import "strings"

// Dialect selects the literal syntax the scanners understand.
type Dialect int

const (
	// DialectECMAScript enables template literals with ${} interpolation
	// and /regex/ literal detection in addition to quoted strings.
	DialectECMAScript Dialect = iota

	// DialectC covers C-family languages (C++, C#): double-quoted strings
	// and single-quoted character literals only.
	DialectC
)

// regexPrecedingKeywords are ECMAScript keywords after which a '/' starts
// a regex literal rather than a division.
var regexPrecedingKeywords = map[string]bool{
	"return":     true,
	"typeof":     true,
	"instanceof": true,
	"in":         true,
	"of":         true,
	"new":        true,
	"delete":     true,
	"void":       true,
	"case":       true,
	"do":         true,
	"else":       true,
	"yield":      true,
	"await":      true,
	"throw":      true,
}

// regexCanFollow reports whether a '/' at position i can begin a regex
// literal, judged by the preceding significant text. After an identifier,
// number, or closing bracket a '/' is division; after operators, openers,
// separators, or certain keywords it is a regex.
func regexCanFollow(src string, i int) bool {
	j := i - 1
	for j >= 0 && (src[j] == ' ' || src[j] == '\t' || src[j] == '\n' || src[j] == '\r') {
		j--
	}
	if j < 0 {
		return true
	}

	switch src[j] {
	case '=', '(', '[', '{', ',', ';', ':', '!', '&', '|', '?', '+', '-', '*', '%', '^', '~', '<', '>':
		return true
	}

	// Collect a trailing identifier and check for regex-preceding keywords.
	end := j + 1
	for j >= 0 && (isWordByte(src[j])) {
		j--
	}
	if word := src[j+1 : end]; regexPrecedingKeywords[word] {
		return true
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// skipString advances past a quoted literal starting at the opening quote.
// Escape sequences never terminate the literal. An unterminated literal
// consumes the rest of the input.
func skipString(src string, i int, quote byte) int {
	i++ // opening quote
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		}
		i++
	}
	return len(src)
}

// skipRegex advances past a /regex/ literal starting at the slash.
// Character classes suppress '/' as terminator; escapes never terminate.
func skipRegex(src string, i int) int {
	i++ // opening slash
	inClass := false
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				i++
				// Trailing flags.
				for i < len(src) && isWordByte(src[i]) {
					i++
				}
				return i
			}
		case '\n':
			// A regex literal cannot span lines; treat as mis-detection
			// and stop so the scanner resynchronizes.
			return i
		}
		i++
	}
	return len(src)
}

// skipTemplate advances past a template literal starting at the backtick.
// ${...} interpolations re-enter code context, respecting nested literals
// and braces before returning to template mode.
func skipTemplate(src string, i int) int {
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
				i = skipInterpolation(src, i+2)
				continue
			}
		}
		i++
	}
	return len(src)
}

// skipInterpolation walks code inside ${...} until the matching close brace,
// starting just past the opening brace.
func skipInterpolation(src string, i int) int {
	depth := 1
	for i < len(src) {
		if next, ok := skipLiteralOrComment(src, i, DialectECMAScript); ok {
			i = next
			continue
		}
		switch src[i] {
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

// skipLineComment advances past a // comment, leaving the newline.
func skipLineComment(src string, i int) int {
	for i < len(src) && src[i] != '\n' {
		i++
	}
	return i
}

// skipBlockComment advances past a /* */ comment.
// An unterminated comment consumes the rest of the input.
func skipBlockComment(src string, i int) int {
	end := strings.Index(src[i+2:], "*/")
	if end < 0 {
		return len(src)
	}
	return i + 2 + end + 2
}

// skipLiteralOrComment reports whether position i begins a comment or
// literal region and, if so, returns the index just past it. Code bytes
// return (i, false).
func skipLiteralOrComment(src string, i int, d Dialect) (int, bool) {
	switch src[i] {
	case '/':
		if i+1 < len(src) {
			switch src[i+1] {
			case '/':
				return skipLineComment(src, i), true
			case '*':
				return skipBlockComment(src, i), true
			}
		}
		if d == DialectECMAScript && regexCanFollow(src, i) {
			return skipRegex(src, i), true
		}
	case '"':
		return skipString(src, i, '"'), true
	case '\'':
		return skipString(src, i, '\''), true
	case '`':
		if d == DialectECMAScript {
			return skipTemplate(src, i), true
		}
	}
	return i, false
}
