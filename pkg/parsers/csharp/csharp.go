// Package csharp provides the structural parser for C# source (.cs).
//
// The parser recognizes class and interface declarations with base lists,
// fields (static/readonly/const), auto-properties and expression-bodied
// properties surfaced as fields, methods, and constructors. C# base lists
// mix the base class and interfaces in one clause; entries matching the
// I-prefix naming convention are recorded as interface implementations,
// the rest as inheritance.
package csharp

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/classcanvas/classcanvas/pkg/model"
	"github.com/classcanvas/classcanvas/pkg/scan"
)

var (
	typeRe = regexp.MustCompile(
		`(^|[\s}])(?:(?:public|private|protected|internal|sealed|partial|static)\s+)*` +
			`(abstract\s+)?(class|interface)\s+([A-Za-z_]\w*)(?:<[^>{]*>)?` +
			`(?:\s*:\s*([^{]+?))?\s*(?:where\s[^{]*)?\{`)

	memberHeadRe = regexp.MustCompile(
		`^(?:\[[^\]]*\]\s*)*(?:(public|private|protected|internal)\s+)?(?:(?:protected|internal)\s+)?` +
			`((?:(?:static|readonly|const|abstract|virtual|override|sealed|async|new|partial)\s+)*)(.+)$`)

	methodRe = regexp.MustCompile(
		`^(.+?)\s+([A-Za-z_]\w*)\s*(?:<[^>]*>)?\s*\((.*)\)\s*(?:where\s.*)?$`)

	ctorRe = regexp.MustCompile(
		`^([A-Za-z_]\w*)\s*\((.*?)\)\s*(?::\s*(?:base|this)\s*\(.*\)\s*)?$`)

	fieldRe = regexp.MustCompile(
		`^(.+?)\s+([A-Za-z_]\w*)\s*(?:=\s*(.+))?$`)

	paramRe = regexp.MustCompile(
		`^(?:(?:ref|out|in|params|this)\s+)?(.+?)\s+([A-Za-z_]\w*)\s*(?:=\s*(.+))?$`)

	keywordGuard = map[string]bool{
		"if": true, "for": true, "foreach": true, "while": true,
		"switch": true, "return": true, "using": true, "lock": true,
		"new": true, "nameof": true, "typeof": true,
	}
)

// Parser is the C# structural parser.
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

// New creates a C# parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: log.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns the parser's language tag.
func (p *Parser) Language() string { return "csharp" }

// Parse extracts classes, interfaces, and base-list relationships.
func (p *Parser) Parse(source, fileName string) (*model.ClassDiagram, error) {
	diagram := model.NewClassDiagram()
	scrubbed := scan.StripComments(source, scan.DialectC)

	for _, m := range typeRe.FindAllStringSubmatchIndex(scrubbed, -1) {
		abstract := m[4] >= 0
		keyword := scrubbed[m[6]:m[7]]
		name := scrubbed[m[8]:m[9]]

		body, ok := scan.ExtractBody(scrubbed, m[1], scan.DialectC, p.maxScan)
		if !ok {
			p.logger.Warn("skipping type with unbalanced body", "type", name, "file", fileName)
			continue
		}

		class := &model.ClassInfo{
			Name:      name,
			Interface: keyword == "interface",
			Abstract:  abstract,
		}
		p.parseBody(class, body)
		diagram.AddClass(class)

		if m[10] >= 0 {
			p.addBases(diagram, class, scrubbed[m[10]:m[11]])
		}
	}

	return diagram, nil
}

// addBases splits a base list and classifies each entry. For a class, an
// entry named like an interface (leading I followed by a capital) is an
// implementation edge; anything else is inheritance. Interfaces only
// extend interfaces, so all of their entries are inheritance.
func (p *Parser) addBases(d *model.ClassDiagram, class *model.ClassInfo, clause string) {
	for _, entry := range scan.SplitTopLevel(clause, ',') {
		base := genericHead(strings.TrimSpace(entry))
		if base == "" {
			continue
		}
		relType := model.RelInheritance
		if !class.Interface && looksLikeInterface(base) {
			relType = model.RelImplementation
		}
		d.AddRelationship(model.Relationship{
			From: class.Name,
			To:   base,
			Type: relType,
		})
	}
}

// parseBody classifies each top-level statement or block of a type body.
// Properties arrive as blocks (auto-properties and full accessors alike);
// methods arrive as blocks too, so the header text drives classification
// and the block distinguishes a property from a method by its parens.
func (p *Parser) parseBody(class *model.ClassInfo, body string) {
	for _, stmt := range scan.SplitStatementsWithBlocks(body, scan.DialectC) {
		text := scan.Collapse(stmt.Text)
		if text == "" {
			continue
		}

		head := memberHeadRe.FindStringSubmatch(text)
		if head == nil {
			continue
		}
		visibility := memberVisibility(head[1], class.Interface)
		mods := head[2]
		rest := strings.TrimSpace(head[3])

		// Expression-bodied members: "Type Name => expr" is a read-only
		// property; with parens it is a method. A bare "=" before the
		// arrow means the arrow belongs to a lambda initializer instead.
		if decl, ok := splitExpressionBody(rest); ok && topLevelAssign(decl) < 0 {
			rest = decl
			if !strings.Contains(decl, "(") {
				if m := fieldRe.FindStringSubmatch(rest); m != nil {
					p.addProperty(class, visibility, mods, m[1], m[2], true)
					continue
				}
			}
		}

		// Field initializers can mention call expressions on the right
		// of "="; classify on the left side only.
		if i := topLevelAssign(rest); i >= 0 && !strings.ContainsRune(rest[:i], '(') {
			if m := fieldRe.FindStringSubmatch(rest); m != nil {
				p.addField(class, visibility, mods, m)
			}
			continue
		}

		if m := ctorRe.FindStringSubmatch(rest); m != nil && m[1] == class.Name && stmt.HasBlock {
			p.addConstructor(class, visibility, m)
			continue
		}

		if m := methodRe.FindStringSubmatch(rest); m != nil && !keywordGuard[m[2]] {
			p.addMethod(class, visibility, mods, m)
			continue
		}

		if stmt.HasBlock {
			// A block without parens in the header is a property; the
			// accessor list decides whether it is writable.
			if m := fieldRe.FindStringSubmatch(rest); m != nil {
				readonly := !strings.Contains(stmt.Block, "set")
				p.addProperty(class, visibility, mods, m[1], m[2], readonly)
			}
			continue
		}

		if m := fieldRe.FindStringSubmatch(rest); m != nil {
			p.addField(class, visibility, mods, m)
		}
	}
}

func (p *Parser) addConstructor(class *model.ClassInfo, visibility model.Visibility, m []string) {
	if class.HasOwnMethod(m[1]) {
		return
	}
	class.Methods = append(class.Methods, model.Method{
		Name:       m[1],
		Visibility: visibility,
		Parameters: p.parseParameters(m[2]),
	})
}

func (p *Parser) addMethod(class *model.ClassInfo, visibility model.Visibility, mods string, m []string) {
	if class.HasOwnMethod(m[2]) {
		return
	}
	class.Methods = append(class.Methods, model.Method{
		Name:       m[2],
		Visibility: visibility,
		ReturnType: strings.TrimSpace(m[1]),
		Parameters: p.parseParameters(m[3]),
		Static:     hasModifier(mods, "static"),
		Abstract:   hasModifier(mods, "abstract"),
	})
}

func (p *Parser) addField(class *model.ClassInfo, visibility model.Visibility, mods string, m []string) {
	fieldType := strings.TrimSpace(m[1])
	for _, name := range scan.SplitTopLevel(m[2], ',') {
		name = strings.TrimSpace(name)
		if name == "" || class.HasOwnField(name) {
			continue
		}
		class.Fields = append(class.Fields, model.Field{
			Name:       name,
			Visibility: visibility,
			Type:       fieldType,
			Static:     hasModifier(mods, "static") || hasModifier(mods, "const"),
			Readonly:   hasModifier(mods, "readonly") || hasModifier(mods, "const"),
			Default:    strings.TrimSpace(m[3]),
		})
	}
}

// addProperty records a property as a field, the shape class diagrams
// conventionally use for C# auto-properties.
func (p *Parser) addProperty(class *model.ClassInfo, visibility model.Visibility, mods, propType, name string, readonly bool) {
	if class.HasOwnField(name) {
		return
	}
	class.Fields = append(class.Fields, model.Field{
		Name:       name,
		Visibility: visibility,
		Type:       strings.TrimSpace(propType),
		Static:     hasModifier(mods, "static"),
		Readonly:   readonly,
	})
}

func (p *Parser) parseParameters(raw string) []model.Parameter {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var params []model.Parameter
	for _, part := range scan.SplitTopLevel(raw, ',') {
		m := paramRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		params = append(params, model.Parameter{
			Name:    m[2],
			Type:    strings.TrimSpace(m[1]),
			Default: strings.TrimSpace(m[3]),
		})
	}
	return params
}

// splitExpressionBody separates "decl => expr" at the first top-level
// arrow and returns the declaration side.
func splitExpressionBody(text string) (string, bool) {
	depth := 0
	for i := 0; i+1 < len(text); i++ {
		switch text[i] {
		case '(', '[', '<', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '>':
			if i > 0 && text[i-1] == '=' {
				continue
			}
			depth--
		case '=':
			if depth == 0 && text[i+1] == '>' {
				return strings.TrimSpace(text[:i]), true
			}
		}
	}
	return "", false
}

// topLevelAssign returns the index of a plain "=" assignment outside all
// bracket nesting, or -1. Arrows and comparison operators do not count.
func topLevelAssign(text string) int {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '<', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '>':
			if i > 0 && text[i-1] == '=' {
				continue
			}
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			if i+1 < len(text) && (text[i+1] == '=' || text[i+1] == '>') {
				i++
				continue
			}
			if i > 0 && strings.ContainsRune("=!<>+-*/%&|^", rune(text[i-1])) {
				continue
			}
			return i
		}
	}
	return -1
}

// memberVisibility resolves the C# defaults: interface members are
// public, class members without a modifier are private.
func memberVisibility(modifier string, isInterface bool) model.Visibility {
	if modifier != "" {
		return model.Visibility(modifier)
	}
	if isInterface {
		return model.VisibilityPublic
	}
	return model.VisibilityPrivate
}

func hasModifier(mods, word string) bool {
	for _, m := range strings.Fields(mods) {
		if m == word {
			return true
		}
	}
	return false
}

// looksLikeInterface applies the .NET naming convention: a leading I
// followed by another capital letter.
func looksLikeInterface(name string) bool {
	return len(name) >= 2 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}

// genericHead strips generic arguments and namespace qualifiers.
func genericHead(s string) string {
	if i := strings.Index(s, "<"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
