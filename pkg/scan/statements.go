package scan

import "strings"

// Statement pairs a top-level statement header with the nested block that
// followed it, when one did. For `speak(): string { return ""; }` the Text
// is `speak(): string` and Block holds the skipped body.
type Statement struct {
	Text     string
	Block    string
	HasBlock bool
}

// SplitStatements breaks a class or struct body into its top-level
// statements. A statement ends at a ';' at brace depth 0. An opening '{'
// at depth 0 flushes the text accumulated so far as one statement (the
// declaration header) and skips the nested block entirely, so method
// bodies never leak into the statement list.
//
// String, template, comment, and regex contexts are respected exactly as
// in StripComments. Empty statements are dropped; results are trimmed.
func SplitStatements(body string, d Dialect) []string {
	var stmts []string
	for _, p := range SplitStatementsWithBlocks(body, d) {
		stmts = append(stmts, p.Text)
	}
	return stmts
}

// SplitStatementsWithBlocks is SplitStatements, but each statement that
// introduced a nested block keeps that block's text. Parsers that only
// need declaration headers ignore it; the C# parser reads auto-property
// accessor lists (`{ get; set; }`) from it.
func SplitStatementsWithBlocks(body string, d Dialect) []Statement {
	var stmts []Statement
	flush := func(text, block string, hasBlock bool) {
		text = strings.TrimSpace(text)
		if text != "" {
			stmts = append(stmts, Statement{Text: text, Block: block, HasBlock: hasBlock})
		}
	}

	segStart := 0
	i := 0
	for i < len(body) {
		if next, ok := skipLiteralOrComment(body, i, d); ok {
			i = next
			continue
		}
		switch body[i] {
		case ';':
			flush(body[segStart:i], "", false)
			segStart = i + 1
		case '{':
			header := body[segStart:i]
			close := MatchBrace(body, i+1, d, 0)
			if close < 0 {
				// Unbalanced block: nothing after it can be trusted.
				flush(header, "", false)
				return stmts
			}
			flush(header, body[i+1:close], true)
			i = close + 1
			// Consume a trailing ';' (C++ "};" forms).
			for i < len(body) && (body[i] == ' ' || body[i] == '\t' || body[i] == '\n' || body[i] == '\r') {
				i++
			}
			if i < len(body) && body[i] == ';' {
				i++
			}
			segStart = i
			continue
		case '}':
			// Stray close brace at depth 0: drop accumulated text.
			segStart = i + 1
		}
		i++
	}
	flush(body[segStart:], "", false)
	return stmts
}
