// Package ecmascript provides the structural parser for TypeScript and
// JavaScript source (.ts/.tsx/.js/.jsx).
//
// The parser recognizes class and interface declarations, extends and
// implements clauses, typed and untyped fields, constructor-promoted
// parameters, and method signatures with visibility/static/abstract/async
// and get/set prefixes. Interfaces contribute property and method
// signatures only. Plain JavaScript falls out naturally: annotations are
// simply absent and parameters parse untyped.
package ecmascript

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/classcanvas/classcanvas/pkg/model"
	"github.com/classcanvas/classcanvas/pkg/scan"
)

var (
	classRe = regexp.MustCompile(
		`(^|[\s}])(?:export\s+)?(?:default\s+)?(abstract\s+)?class\s+([A-Za-z_$][\w$]*)` +
			`(?:\s+extends\s+([A-Za-z_$][\w$.]*))?` +
			`(?:\s+implements\s+([A-Za-z_$][\w$.,\s]*?))?\s*\{`)

	interfaceRe = regexp.MustCompile(
		`(^|[\s}])(?:export\s+)?interface\s+([A-Za-z_$][\w$]*)` +
			`(?:\s+extends\s+([A-Za-z_$][\w$.,\s]*?))?\s*\{`)

	constructorRe = regexp.MustCompile(`^constructor\s*\((.*)\)\s*$`)

	methodRe = regexp.MustCompile(
		`^(?:(public|private|protected)\s+)?(?:(static)\s+)?(?:(abstract)\s+)?(?:(async)\s+)?` +
			`(?:(get|set)\s+)?([A-Za-z_$#][\w$]*)\s*(?:<[^>]*>)?\s*\((.*)\)\s*(?::\s*(.+?))?$`)

	typedFieldRe = regexp.MustCompile(
		`^(?:(public|private|protected)\s+)?(?:(static)\s+)?(?:(readonly)\s+)?` +
			`([A-Za-z_$#][\w$]*)(\?)?\s*:\s*(.+?)(?:\s*=\s*(.+))?$`)

	untypedFieldRe = regexp.MustCompile(
		`^(?:(static)\s+)?([A-Za-z_$#][\w$]*)\s*=\s*(.+)$`)

	// Statement heads that look like methods but are control flow or
	// declarations the statement splitter surfaced from sloppy input.
	keywordGuard = map[string]bool{
		"if": true, "for": true, "while": true, "switch": true,
		"return": true, "function": true, "catch": true, "do": true,
	}
)

// Parser is the ECMAScript-family structural parser.
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

// New creates an ECMAScript parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: log.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns the parser's language tag.
func (p *Parser) Language() string { return "ecmascript" }

// Parse extracts classes, interfaces, and declared relationships.
func (p *Parser) Parse(source, fileName string) (*model.ClassDiagram, error) {
	diagram := model.NewClassDiagram()
	scrubbed := scan.StripComments(source, scan.DialectECMAScript)

	for _, m := range classRe.FindAllStringSubmatchIndex(scrubbed, -1) {
		abstract := m[4] >= 0
		name := scrubbed[m[6]:m[7]]

		body, ok := scan.ExtractBody(scrubbed, m[1], scan.DialectECMAScript, p.maxScan)
		if !ok {
			p.logger.Warn("skipping class with unbalanced body", "class", name, "file", fileName)
			continue
		}

		class := &model.ClassInfo{Name: name, Abstract: abstract}
		p.parseClassBody(class, body)
		diagram.AddClass(class)

		if m[8] >= 0 {
			diagram.AddRelationship(model.Relationship{
				From: name,
				To:   baseName(scrubbed[m[8]:m[9]]),
				Type: model.RelInheritance,
			})
		}
		if m[10] >= 0 {
			for _, impl := range scan.SplitTopLevel(scrubbed[m[10]:m[11]], ',') {
				diagram.AddRelationship(model.Relationship{
					From: name,
					To:   baseName(impl),
					Type: model.RelImplementation,
				})
			}
		}
	}

	for _, m := range interfaceRe.FindAllStringSubmatchIndex(scrubbed, -1) {
		name := scrubbed[m[4]:m[5]]

		body, ok := scan.ExtractBody(scrubbed, m[1], scan.DialectECMAScript, p.maxScan)
		if !ok {
			p.logger.Warn("skipping interface with unbalanced body", "interface", name, "file", fileName)
			continue
		}

		iface := &model.ClassInfo{Name: name, Interface: true}
		p.parseInterfaceBody(iface, body)
		diagram.AddClass(iface)

		if m[6] >= 0 {
			for _, base := range scan.SplitTopLevel(scrubbed[m[6]:m[7]], ',') {
				diagram.AddRelationship(model.Relationship{
					From: name,
					To:   baseName(base),
					Type: model.RelInheritance,
				})
			}
		}
	}

	return diagram, nil
}

// parseClassBody classifies each top-level statement of a class body.
func (p *Parser) parseClassBody(class *model.ClassInfo, body string) {
	for _, stmt := range scan.SplitStatementsWithBlocks(body, scan.DialectECMAScript) {
		text := scan.Collapse(stmt.Text)
		if text == "" {
			continue
		}

		if m := constructorRe.FindStringSubmatch(text); m != nil {
			p.addConstructor(class, m[1])
			continue
		}

		if m := methodRe.FindStringSubmatch(text); m != nil && !keywordGuard[m[6]] {
			p.addMethod(class, m)
			continue
		}

		if m := typedFieldRe.FindStringSubmatch(text); m != nil {
			p.addTypedField(class, m)
			continue
		}

		if m := untypedFieldRe.FindStringSubmatch(text); m != nil {
			class.Fields = append(class.Fields, model.Field{
				Name:       m[2],
				Visibility: fieldVisibility("", m[2]),
				Static:     m[1] != "",
				Default:    strings.TrimSpace(m[3]),
			})
		}
		// Anything else (decorators, index signatures, stray tokens) is a
		// recoverable parse gap: skipped silently.
	}
}

// parseInterfaceBody reads property and method signatures. Interface
// members are public and bodiless.
func (p *Parser) parseInterfaceBody(iface *model.ClassInfo, body string) {
	for _, raw := range scan.SplitStatements(body, scan.DialectECMAScript) {
		text := scan.Collapse(raw)
		if m := methodRe.FindStringSubmatch(text); m != nil && strings.Contains(text, "(") {
			iface.Methods = append(iface.Methods, model.Method{
				Name:       m[6],
				Visibility: model.VisibilityPublic,
				ReturnType: strings.TrimSpace(m[8]),
				Parameters: p.parseParameters(m[7]),
			})
			continue
		}
		if m := typedFieldRe.FindStringSubmatch(text); m != nil {
			iface.Fields = append(iface.Fields, model.Field{
				Name:       m[4],
				Visibility: model.VisibilityPublic,
				Type:       optionalType(m[6], m[5] != ""),
				Readonly:   m[3] != "",
			})
		}
	}
}

// addConstructor records the constructor once and promotes visibility-
// modified parameters to fields (constructor(public x: T) declares x).
func (p *Parser) addConstructor(class *model.ClassInfo, rawParams string) {
	var params []model.Parameter
	for _, raw := range scan.SplitTopLevel(rawParams, ',') {
		visibility, promoted, readonly, param := p.parsePromotedParameter(raw)
		params = append(params, param)
		if promoted && !class.HasOwnField(param.Name) {
			class.Fields = append(class.Fields, model.Field{
				Name:       param.Name,
				Visibility: visibility,
				Type:       param.Type,
				Readonly:   readonly,
				Default:    param.Default,
			})
		}
	}

	if class.HasOwnMethod("constructor") {
		return
	}
	class.Methods = append(class.Methods, model.Method{
		Name:       "constructor",
		Visibility: model.VisibilityPublic,
		Parameters: params,
	})
}

func (p *Parser) addMethod(class *model.ClassInfo, m []string) {
	name := m[6]
	if accessor := m[5]; accessor != "" {
		name = accessor + " " + name
	}
	if class.HasOwnMethod(name) {
		return
	}
	class.Methods = append(class.Methods, model.Method{
		Name:       name,
		Visibility: fieldVisibility(m[1], m[6]),
		ReturnType: strings.TrimSpace(m[8]),
		Parameters: p.parseParameters(m[7]),
		Static:     m[2] != "",
		Abstract:   m[3] != "",
	})
}

func (p *Parser) addTypedField(class *model.ClassInfo, m []string) {
	if class.HasOwnField(m[4]) {
		return
	}
	class.Fields = append(class.Fields, model.Field{
		Name:       m[4],
		Visibility: fieldVisibility(m[1], m[4]),
		Type:       optionalType(m[6], m[5] != ""),
		Static:     m[2] != "",
		Readonly:   m[3] != "",
		Default:    strings.TrimSpace(m[7]),
	})
}

// parseParameters reads a parameter list, tolerating untyped JavaScript
// parameters and default values.
func (p *Parser) parseParameters(raw string) []model.Parameter {
	var params []model.Parameter
	for _, part := range scan.SplitTopLevel(raw, ',') {
		_, _, _, param := p.parsePromotedParameter(part)
		if param.Name != "" {
			params = append(params, param)
		}
	}
	return params
}

var paramRe = regexp.MustCompile(
	`^(?:(public|private|protected)\s+)?(?:(readonly)\s+)?(\.\.\.)?([A-Za-z_$][\w$]*)(\?)?` +
		`\s*(?::\s*(.+?))?(?:\s*=\s*(.+))?$`)

// parsePromotedParameter parses one parameter, returning its promotion
// visibility (TypeScript parameter properties) alongside the parameter.
func (p *Parser) parsePromotedParameter(raw string) (model.Visibility, bool, bool, model.Parameter) {
	m := paramRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return model.VisibilityPublic, false, false, model.Parameter{}
	}
	param := model.Parameter{
		Name:    m[4],
		Type:    optionalType(m[6], m[5] != ""),
		Default: strings.TrimSpace(m[7]),
	}
	promoted := m[1] != "" || m[2] != ""
	visibility := model.VisibilityPublic
	if m[1] != "" {
		visibility = model.Visibility(m[1])
	}
	return visibility, promoted, m[2] != "", param
}

// fieldVisibility resolves an explicit modifier, #-private names, and the
// ECMAScript default (public).
func fieldVisibility(modifier, name string) model.Visibility {
	if strings.HasPrefix(name, "#") {
		return model.VisibilityPrivate
	}
	if modifier != "" {
		return model.Visibility(modifier)
	}
	return model.VisibilityPublic
}

// optionalType appends the "?" optional marker to the declared type so
// relationship inference can see it.
func optionalType(declared string, optional bool) string {
	t := strings.TrimSpace(declared)
	if optional && t != "" {
		t += "?"
	}
	return t
}

// baseName strips generic arguments and namespace qualifiers from an
// extends/implements clause entry.
func baseName(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "<"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
