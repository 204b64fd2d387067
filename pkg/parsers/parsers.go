// Package parsers turns raw source text into class diagrams.
//
// Each supported language provides a structural parser that recovers
// classes, members, and relationships through pattern matching over
// scrubbed source (see pkg/scan) rather than real compilation. Heuristic
// misses are an accepted tradeoff: a declaration that doesn't match a
// pattern is skipped, never an error.
//
// Parsers are dispatched through an explicit Registry constructed once at
// startup and passed to whoever needs it; there is no global parser table.
package parsers

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/classcanvas/classcanvas/pkg/errors"
	"github.com/classcanvas/classcanvas/pkg/model"
)

// Parser extracts a class diagram from a single source file.
type Parser interface {
	// Language returns the parser's language tag (e.g. "ecmascript").
	Language() string

	// Parse recovers classes, members, and declared relationships from
	// source text. fileName is used only for log context. The returned
	// diagram may be empty; an error indicates the whole file was
	// unusable, not a single skipped declaration.
	Parse(source, fileName string) (*model.ClassDiagram, error)
}

// Registry maps language tags and file extensions to parsers.
// Construct with NewRegistry and pass explicitly; the registry is
// immutable after construction and safe for concurrent use.
type Registry struct {
	byLanguage map[string]Parser
	byExt      map[string]string
}

// NewRegistry creates a registry from the given parsers and their
// extension claims. Extensions are lowercased with a leading dot
// (".ts" style).
func NewRegistry(entries ...RegistryEntry) *Registry {
	r := &Registry{
		byLanguage: make(map[string]Parser),
		byExt:      make(map[string]string),
	}
	for _, e := range entries {
		r.byLanguage[e.Parser.Language()] = e.Parser
		for _, ext := range e.Extensions {
			r.byExt[strings.ToLower(ext)] = e.Parser.Language()
		}
	}
	return r
}

// RegistryEntry binds a parser to the file extensions it claims.
type RegistryEntry struct {
	Parser     Parser
	Extensions []string
}

// Parser returns the parser for a language tag.
func (r *Registry) Parser(language string) (Parser, bool) {
	p, ok := r.byLanguage[language]
	return p, ok
}

// ParserForFile selects a parser by the file's extension.
// Returns an UNSUPPORTED_EXTENSION error for unknown extensions.
func (r *Registry) ParserForFile(fileName string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	lang, ok := r.byExt[ext]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedExtension, "no parser for extension %q (file %s)", ext, fileName)
	}
	return r.byLanguage[lang], nil
}

// Languages returns the registered language tags, sorted.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.byLanguage))
	for l := range r.byLanguage {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for e := range r.byExt {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}
