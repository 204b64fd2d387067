package model

import "strings"

// collectionWrappers are generic types whose sole (or element) argument
// is the contained type. Lowercased for case-insensitive matching across
// languages (Array<T>, std::vector<T>, List<T>, ...).
var collectionWrappers = map[string]bool{
	"array":           true,
	"list":            true,
	"ilist":           true,
	"set":             true,
	"hashset":         true,
	"vector":          true,
	"deque":           true,
	"queue":           true,
	"stack":           true,
	"ienumerable":     true,
	"icollection":     true,
	"readonlyarray":   true,
	"observablearray": true,
}

// valueWrappers are generic types whose argument is the contained type but
// which do not imply a collection (at most one element).
var valueWrappers = map[string]bool{
	"promise":    true,
	"task":       true,
	"optional":   true,
	"nullable":   true,
	"shared_ptr": true,
	"unique_ptr": true,
	"weak_ptr":   true,
}

// mapWrappers are generic types whose second argument is the contained type.
var mapWrappers = map[string]bool{
	"map":           true,
	"unordered_map": true,
	"dictionary":    true,
	"idictionary":   true,
	"record":        true,
}

// typeShape is the result of dissecting a declared type string.
type typeShape struct {
	name       string // bare candidate class name
	collection bool   // array suffix or collection/map generic
	optional   bool   // optional/nullable marker present
}

// dissectType strips markers and generic wrappers from a declared type
// string, returning the innermost candidate class name. This is shape
// analysis over the literal string, not type resolution: heuristic misses
// are an accepted tradeoff.
func dissectType(declared string) typeShape {
	s := typeShape{}
	t := strings.TrimSpace(declared)
	if t == "" {
		return s
	}

	// Optional/nullable markers.
	for {
		switch {
		case strings.HasSuffix(t, "?"):
			t = strings.TrimSpace(strings.TrimSuffix(t, "?"))
			s.optional = true
			continue
		case strings.HasSuffix(t, "| null") || strings.HasSuffix(t, "|null"):
			t = strings.TrimSpace(t[:strings.LastIndex(t, "|")])
			s.optional = true
			continue
		case strings.HasSuffix(t, "| undefined") || strings.HasSuffix(t, "|undefined"):
			t = strings.TrimSpace(t[:strings.LastIndex(t, "|")])
			s.optional = true
			continue
		}
		break
	}

	// Array suffixes.
	for strings.HasSuffix(t, "[]") {
		t = strings.TrimSpace(strings.TrimSuffix(t, "[]"))
		s.collection = true
	}

	// Pointer/reference sigils (C++).
	t = strings.TrimRight(t, "*& ")

	// Generic wrappers, possibly nested (Promise<Order[]>, vector<shared_ptr<T>>).
	for {
		open := strings.Index(t, "<")
		if open <= 0 || !strings.HasSuffix(t, ">") {
			break
		}
		outer := strings.ToLower(stripNamespace(t[:open]))
		inner := t[open+1 : len(t)-1]

		switch {
		case collectionWrappers[outer]:
			s.collection = true
			t = strings.TrimSpace(inner)
		case mapWrappers[outer]:
			s.collection = true
			// Value type is the second top-level argument.
			if second := secondTypeArgument(inner); second != "" {
				t = second
			} else {
				t = strings.TrimSpace(inner)
			}
		case valueWrappers[outer]:
			t = strings.TrimSpace(inner)
		default:
			// Unknown generic (e.g. Foo<T>): keep the head as candidate.
			t = strings.TrimSpace(t[:open])
		}

		// Inner shapes may carry their own markers.
		for strings.HasSuffix(t, "[]") {
			t = strings.TrimSpace(strings.TrimSuffix(t, "[]"))
			s.collection = true
		}
		t = strings.TrimRight(t, "*& ")
	}

	s.name = stripNamespace(strings.TrimSpace(t))
	return s
}

// secondTypeArgument returns the second top-level comma-separated type
// argument, or "" if there is none.
func secondTypeArgument(args string) string {
	depth := 0
	for i, r := range args {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(args[i+1:])
			}
		}
	}
	return ""
}

// stripNamespace removes qualifier prefixes (std::vector, System.Collections.List).
func stripNamespace(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// InferRelationships cross-references field, parameter, and return types
// against the diagram's known class names and adds the implied edges.
//
// Field types produce AGGREGATION for collection shapes, ASSOCIATION for
// optional/nullable types, and COMPOSITION otherwise, labelled with the
// field name. Method parameter and return types always produce DEPENDENCY.
// Self-references and duplicate (from, to, type) triples are skipped.
func InferRelationships(d *ClassDiagram) {
	for _, c := range d.Classes() {
		for _, f := range c.Fields {
			if f.Inherited {
				continue
			}
			shape := dissectType(f.Type)
			if shape.name == "" || shape.name == c.Name || !d.HasClass(shape.name) {
				continue
			}

			relType := RelComposition
			switch {
			case shape.collection:
				relType = RelAggregation
			case shape.optional:
				relType = RelAssociation
			}
			d.AddRelationshipUnique(Relationship{
				From:  c.Name,
				To:    shape.name,
				Type:  relType,
				Label: f.Name,
			})
		}

		for _, m := range c.Methods {
			if m.Inherited {
				continue
			}
			for _, p := range m.Parameters {
				addDependency(d, c.Name, p.Type, p.Name)
			}
			addDependency(d, c.Name, m.ReturnType, m.Name)
		}
	}
}

// addDependency adds a DEPENDENCY edge if the declared type resolves to a
// known class other than the owner.
func addDependency(d *ClassDiagram, owner, declared, label string) {
	shape := dissectType(declared)
	if shape.name == "" || shape.name == owner || !d.HasClass(shape.name) {
		return
	}
	d.AddRelationshipUnique(Relationship{
		From:  owner,
		To:    shape.name,
		Type:  RelDependency,
		Label: label,
	})
}
