package scan

import (
	"strings"
	"testing"
)

func TestStripCommentsBasics(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		src     string
		want    string
	}{
		{
			name:    "line comment",
			dialect: DialectECMAScript,
			src:     "let x = 1; // trailing\nlet y = 2;",
			want:    "let x = 1;            \nlet y = 2;",
		},
		{
			name:    "block comment preserves newlines",
			dialect: DialectECMAScript,
			src:     "a /* one\ntwo */ b",
			want:    "a       \n       b",
		},
		{
			name:    "comment marker inside string",
			dialect: DialectECMAScript,
			src:     `let url = "http://example.com"; // real`,
			want:    `let url = "http://example.com";        `,
		},
		{
			name:    "comment marker inside single quotes",
			dialect: DialectC,
			src:     `char c = '/'; // real`,
			want:    `char c = '/';        `,
		},
		{
			name:    "escaped quote does not end string",
			dialect: DialectECMAScript,
			src:     `let s = "a\"b // not a comment";`,
			want:    `let s = "a\"b // not a comment";`,
		},
		{
			name:    "unterminated block comment",
			dialect: DialectC,
			src:     "int x; /* runs to EOF",
			want:    "int x;               ",
		},
		{
			name:    "no comments is no-op",
			dialect: DialectC,
			src:     "class Foo { int x; };",
			want:    "class Foo { int x; };",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripComments(tt.src, tt.dialect)
			if got != tt.want {
				t.Errorf("StripComments() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripCommentsIdempotent(t *testing.T) {
	src := "class A { // c\n x = /re/; /* b */ y = `t${1}`; }"
	once := StripComments(src, DialectECMAScript)
	twice := StripComments(once, DialectECMAScript)
	if once != twice {
		t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestStripCommentsPreservesLength(t *testing.T) {
	src := "a // comment\nb /* c */ d"
	got := StripComments(src, DialectECMAScript)
	if len(got) != len(src) {
		t.Errorf("length changed: %d -> %d", len(src), len(got))
	}
}

func TestStripCommentsRegexLiteral(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"after assignment", `const re = /http:\/\/x/; let y = 1;`},
		{"after return", "function f() { return /a\\/b/ }"},
		{"after open paren", `match(/no\/comment/)`},
		{"character class slash", `const re = /[/]/; let z = 2;`},
		{"character class comment chars", `const re = [/a[//]b/]; let q = 3;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripComments(tt.src, DialectECMAScript)
			if got != tt.src {
				t.Errorf("regex body altered:\nin:  %q\nout: %q", tt.src, got)
			}
		})
	}
}

func TestStripCommentsDivisionNotRegex(t *testing.T) {
	src := "let a = b / 2; // half\nlet c = d / e;"
	got := StripComments(src, DialectECMAScript)
	if strings.Contains(got, "half") {
		t.Errorf("comment after division survived: %q", got)
	}
	if !strings.Contains(got, "let c = d / e;") {
		t.Errorf("second division mangled: %q", got)
	}
}

func TestStripCommentsTemplateLiteral(t *testing.T) {
	// Comment-looking text inside template text must survive; comments
	// inside ${} interpolation must be removed.
	src := "const s = `// not a comment ${x /* gone */ + 1} tail`;"
	got := StripComments(src, DialectECMAScript)

	if !strings.Contains(got, "// not a comment") {
		t.Errorf("template text altered: %q", got)
	}
	if strings.Contains(got, "gone") {
		t.Errorf("interpolation comment survived: %q", got)
	}
}

func TestStripCommentsNestedInterpolationBraces(t *testing.T) {
	src := "const s = `a${ {k: {n: 1}}.k.n }b`; // tail"
	got := StripComments(src, DialectECMAScript)
	if strings.Contains(got, "tail") {
		t.Errorf("trailing comment survived nested interpolation: %q", got)
	}
	if !strings.Contains(got, "{k: {n: 1}}") {
		t.Errorf("interpolation body altered: %q", got)
	}
}

func TestStripCommentsUnterminatedString(t *testing.T) {
	src := `let s = "runs to EOF // not a comment`
	got := StripComments(src, DialectECMAScript)
	if got != src {
		t.Errorf("unterminated string altered: %q", got)
	}
}
