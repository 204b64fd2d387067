// Package cpp provides the structural parser for C++ headers and sources
// (.h/.hpp/.hxx/.cpp/.cc/.cxx).
//
// The parser reads class and struct declarations with their base-specifier
// lists, tracks visibility sections (struct members default to public,
// class members to private), and classifies fields, methods, constructors,
// and destructors from the statements inside the body. Method bodies,
// templates beyond simple wrappers, and the preprocessor are out of scope:
// preprocessor lines are blanked before scanning.
package cpp

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/classcanvas/classcanvas/pkg/model"
	"github.com/classcanvas/classcanvas/pkg/scan"
)

var (
	classRe = regexp.MustCompile(
		`(^|[\s;}])(class|struct)\s+([A-Za-z_]\w*)\s*(?:final\s*)?(?::\s*([^{;]+?))?\s*\{`)

	baseRe = regexp.MustCompile(
		`^(?:(public|protected|private)\s+)?(?:virtual\s+)?([A-Za-z_][\w:]*)\s*(?:<.*>)?$`)

	sectionRe = regexp.MustCompile(`^(public|protected|private)\s*:$`)

	methodRe = regexp.MustCompile(
		`^(.*?)\b([A-Za-z_]\w*|operator\s*[^\s(]+)\s*\((.*)\)\s*` +
			`((?:const|noexcept|override|final|\s)*)(?:=\s*(0|default|delete))?$`)

	ctorRe = regexp.MustCompile(
		`^(?:(?:explicit|constexpr|inline|virtual)\s+)*(~?)([A-Za-z_]\w*)\s*\((.*)\)\s*` +
			`(?:noexcept\s*)?(?:override\s*)?(?:=\s*(0|default|delete))?$`)

	paramRe = regexp.MustCompile(`^(.*?)\s*\b([A-Za-z_]\w*)\s*(?:\[\s*\d*\s*\])?(?:=\s*(.+))?$`)

	preprocessorRe = regexp.MustCompile(`(?m)^[ \t]*#[^\n]*`)

	// Declaration heads that the method regex would otherwise swallow.
	keywordGuard = map[string]bool{
		"if": true, "for": true, "while": true, "switch": true,
		"return": true, "sizeof": true, "typedef": true, "using": true,
	}
)

// Parser is the C++ structural parser.
type Parser struct {
	maxScan int
	logger  *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxScan bounds the brace extractor's forward scan.
func WithMaxScan(n int) Option {
	return func(p *Parser) { p.maxScan = n }
}

// WithLogger sets the logger for skipped-declaration warnings.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// New creates a C++ parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: log.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns the parser's language tag.
func (p *Parser) Language() string { return "cpp" }

// Parse extracts classes, structs, and base-specifier relationships.
func (p *Parser) Parse(source, fileName string) (*model.ClassDiagram, error) {
	diagram := model.NewClassDiagram()
	scrubbed := scan.StripComments(source, scan.DialectC)
	scrubbed = blankPreprocessor(scrubbed)

	for _, m := range classRe.FindAllStringSubmatchIndex(scrubbed, -1) {
		keyword := scrubbed[m[4]:m[5]]
		name := scrubbed[m[6]:m[7]]

		body, ok := scan.ExtractBody(scrubbed, m[1], scan.DialectC, p.maxScan)
		if !ok {
			p.logger.Warn("skipping type with unbalanced body", "type", name, "file", fileName)
			continue
		}

		class := &model.ClassInfo{Name: name}
		p.parseBody(class, body, keyword)
		class.Abstract = hasPureVirtual(class)
		diagram.AddClass(class)

		if m[8] >= 0 {
			p.addBases(diagram, name, scrubbed[m[8]:m[9]])
		}
	}

	return diagram, nil
}

// addBases records one relationship per base-specifier. An all-abstract
// base read cannot be made here, so every base is inheritance; the access
// modifier is preserved on the edge (C++ defaults to private for class).
func (p *Parser) addBases(d *model.ClassDiagram, name, clause string) {
	for _, spec := range scan.SplitTopLevel(clause, ',') {
		m := baseRe.FindStringSubmatch(strings.TrimSpace(spec))
		if m == nil {
			continue
		}
		modifier := m[1]
		if modifier == "" {
			modifier = "private"
		}
		d.AddRelationship(model.Relationship{
			From:     name,
			To:       lastScopeSegment(m[2]),
			Type:     model.RelInheritance,
			Modifier: modifier,
		})
	}
}

// parseBody walks the statements of a class body, switching visibility at
// section labels. Structs start public, classes private.
func (p *Parser) parseBody(class *model.ClassInfo, body, keyword string) {
	visibility := model.VisibilityPrivate
	if keyword == "struct" {
		visibility = model.VisibilityPublic
	}

	for _, stmt := range scan.SplitStatementsWithBlocks(body, scan.DialectC) {
		text := scan.Collapse(stmt.Text)
		if text == "" {
			continue
		}

		// A statement can open with a section label glued to a member
		// ("public: void run();" splits on ';' not ':').
		for {
			label, rest, found := splitSectionLabel(text)
			if !found {
				break
			}
			visibility = model.Visibility(label)
			text = rest
		}
		if text == "" {
			continue
		}

		if m := ctorRe.FindStringSubmatch(text); m != nil && m[2] == class.Name {
			p.addLifecycle(class, visibility, m)
			continue
		}

		if m := methodRe.FindStringSubmatch(text); m != nil && !keywordGuard[m[2]] &&
			!strings.HasSuffix(strings.TrimSpace(m[1]), "=") {
			p.addMethod(class, visibility, m)
			continue
		}

		p.addFields(class, visibility, text)
	}
}

// splitSectionLabel peels "public:", "protected:", or "private:" off the
// front of a statement.
func splitSectionLabel(text string) (string, string, bool) {
	if m := sectionRe.FindStringSubmatch(text); m != nil {
		return m[1], "", true
	}
	for _, label := range []string{"public", "protected", "private"} {
		prefix := label + ":"
		if strings.HasPrefix(text, prefix) && !strings.HasPrefix(text, label+"::") {
			return label, strings.TrimSpace(text[len(prefix):]), true
		}
	}
	return "", "", false
}

// addLifecycle records a constructor or destructor. "= delete" members are
// declared but unusable, so they are skipped. "= default" members keep
// their slot.
func (p *Parser) addLifecycle(class *model.ClassInfo, visibility model.Visibility, m []string) {
	if m[4] == "delete" {
		return
	}
	name := m[1] + m[2]
	if class.HasOwnMethod(name) {
		return
	}
	class.Methods = append(class.Methods, model.Method{
		Name:       name,
		Visibility: visibility,
		Parameters: p.parseParameters(m[3]),
	})
}

func (p *Parser) addMethod(class *model.ClassInfo, visibility model.Visibility, m []string) {
	head := strings.TrimSpace(m[1])
	name := strings.TrimSpace(m[2])
	if m[5] == "delete" || class.HasOwnMethod(name) {
		return
	}

	static := false
	for _, word := range []string{"static", "virtual", "inline", "constexpr", "explicit", "friend"} {
		if trimmed, ok := trimSpecifier(head, word); ok {
			head = trimmed
			if word == "static" {
				static = true
			}
		}
	}

	class.Methods = append(class.Methods, model.Method{
		Name:       name,
		Visibility: visibility,
		ReturnType: strings.TrimSpace(head),
		Parameters: p.parseParameters(m[3]),
		Static:     static,
		Abstract:   m[5] == "0",
	})
}

// addFields parses a data-member declaration, honoring comma-separated
// declarator lists ("int x, y;" declares two fields of type int).
func (p *Parser) addFields(class *model.ClassInfo, visibility model.Visibility, text string) {
	static := false
	for _, word := range []string{"static", "mutable", "inline", "constexpr"} {
		if trimmed, ok := trimSpecifier(text, word); ok {
			text = trimmed
			if word == "static" {
				static = true
			}
		}
	}

	baseType := ""
	for _, declarator := range scan.SplitTopLevel(text, ',') {
		declarator = strings.TrimSpace(declarator)
		m := paramRe.FindStringSubmatch(declarator)
		if m == nil || m[2] == "" {
			continue
		}
		if baseType == "" {
			// The first declarator carries the shared base type; sigils
			// belong to individual declarators ("int *p, q": q is int).
			baseType = strings.TrimRight(strings.TrimSpace(m[1]), "*& \t")
			if baseType == "" {
				return // no type in front of the first name: not a field
			}
		}
		name := m[2]
		if class.HasOwnField(name) {
			continue
		}
		class.Fields = append(class.Fields, model.Field{
			Name:       name,
			Visibility: visibility,
			Type:       baseType + sigils(declarator, name),
			Static:     static,
			Default:    strings.TrimSpace(m[3]),
		})
	}
}

// sigils recovers pointer/reference markers attached to the declarator
// rather than the shared base type ("int *p, q;").
func sigils(declarator, name string) string {
	i := strings.Index(declarator, name)
	if i <= 0 {
		return ""
	}
	var out string
	for j := i - 1; j >= 0; j-- {
		switch declarator[j] {
		case '*', '&':
			out = string(declarator[j]) + out
		case ' ', '\t':
		default:
			return out
		}
	}
	return out
}

// parseParameters reads a C++ parameter list: type then name, with
// optional defaults. Unnamed parameters keep their type with an empty name.
func (p *Parser) parseParameters(raw string) []model.Parameter {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "void" {
		return nil
	}
	var params []model.Parameter
	for _, part := range scan.SplitTopLevel(raw, ',') {
		part = strings.TrimSpace(part)
		m := paramRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		typ := strings.TrimSpace(m[1])
		name := m[2]
		if typ == "" {
			// Single token: an unnamed parameter like "(int)".
			typ, name = name, ""
		}
		params = append(params, model.Parameter{
			Name:    name,
			Type:    typ,
			Default: strings.TrimSpace(m[3]),
		})
	}
	return params
}

// trimSpecifier removes a leading specifier word, reporting whether it was
// present.
func trimSpecifier(s, word string) (string, bool) {
	if s == word {
		return "", true
	}
	if strings.HasPrefix(s, word+" ") || strings.HasPrefix(s, word+"\t") {
		return strings.TrimSpace(s[len(word):]), true
	}
	return s, false
}

// blankPreprocessor replaces preprocessor lines with spaces so offsets
// into the source stay valid.
func blankPreprocessor(src string) string {
	return preprocessorRe.ReplaceAllStringFunc(src, func(line string) string {
		return strings.Repeat(" ", len(line))
	})
}

// lastScopeSegment strips namespace qualifiers (ns::Base -> Base).
func lastScopeSegment(s string) string {
	if i := strings.LastIndex(s, "::"); i >= 0 {
		return s[i+2:]
	}
	return s
}

// hasPureVirtual reports whether any own method is pure virtual.
func hasPureVirtual(class *model.ClassInfo) bool {
	for _, m := range class.Methods {
		if m.Abstract {
			return true
		}
	}
	return false
}
