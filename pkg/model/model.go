// Package model defines the class diagram data model.
//
// A ClassDiagram is built per source file by the language parsers, merged
// across files, enriched by relationship inference, and finally expanded by
// inheritance propagation before layout and rendering.
package model

import (
	"encoding/json"
	"slices"
)

// Visibility is the access level of a field or method.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityPackage   Visibility = "package"
)

// RelationshipType tags the kind of connection between two classes.
type RelationshipType string

const (
	RelInheritance    RelationshipType = "inheritance"
	RelImplementation RelationshipType = "implementation"
	RelComposition    RelationshipType = "composition"
	RelAggregation    RelationshipType = "aggregation"
	RelAssociation    RelationshipType = "association"
	RelDependency     RelationshipType = "dependency"
)

// Parameter is a single method parameter.
type Parameter struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Default string `json:"default,omitempty"`
}

// Field is a data member of a class. The Type string may carry the source
// language's optional marker ("?") or array marker ("[]"); relationship
// inference interprets those shapes.
type Field struct {
	Name          string     `json:"name"`
	Visibility    Visibility `json:"visibility"`
	Type          string     `json:"type,omitempty"`
	Static        bool       `json:"static,omitempty"`
	Readonly      bool       `json:"readonly,omitempty"`
	Default       string     `json:"default,omitempty"`
	Inherited     bool       `json:"inherited,omitempty"`
	InheritedFrom string     `json:"inherited_from,omitempty"`
}

// Method is a callable member of a class.
type Method struct {
	Name          string      `json:"name"`
	Visibility    Visibility  `json:"visibility"`
	ReturnType    string      `json:"return_type,omitempty"`
	Parameters    []Parameter `json:"parameters,omitempty"`
	Static        bool        `json:"static,omitempty"`
	Abstract      bool        `json:"abstract,omitempty"`
	Inherited     bool        `json:"inherited,omitempty"`
	InheritedFrom string      `json:"inherited_from,omitempty"`
}

// ClassInfo holds the structural facts recovered for one class, interface,
// or struct. Fields and Methods keep declaration order; inherited copies
// are appended after own members by inheritance propagation.
type ClassInfo struct {
	Name      string   `json:"name"`
	Interface bool     `json:"interface,omitempty"`
	Abstract  bool     `json:"abstract,omitempty"`
	Fields    []Field  `json:"fields,omitempty"`
	Methods   []Method `json:"methods,omitempty"`
}

// HasField reports whether the class has a field with the given name,
// own or inherited.
func (c *ClassInfo) HasField(name string) bool {
	return slices.ContainsFunc(c.Fields, func(f Field) bool { return f.Name == name })
}

// HasMethod reports whether the class has a method with the given name,
// own or inherited.
func (c *ClassInfo) HasMethod(name string) bool {
	return slices.ContainsFunc(c.Methods, func(m Method) bool { return m.Name == name })
}

// HasOwnField reports whether the class declares its own (non-inherited)
// field with the given name.
func (c *ClassInfo) HasOwnField(name string) bool {
	return slices.ContainsFunc(c.Fields, func(f Field) bool { return f.Name == name && !f.Inherited })
}

// HasOwnMethod reports whether the class declares its own (non-inherited)
// method with the given name.
func (c *ClassInfo) HasOwnMethod(name string) bool {
	return slices.ContainsFunc(c.Methods, func(m Method) bool { return m.Name == name && !m.Inherited })
}

// Relationship is a directed, typed connection between two class names.
// Endpoints need not reference classes present in the diagram; rendering
// skips edges without positions.
type Relationship struct {
	From  string           `json:"from"`
	To    string           `json:"to"`
	Type  RelationshipType `json:"type"`
	Label string           `json:"label,omitempty"`

	// Modifier carries the textual inheritance access specifier for C++
	// base classes (e.g. "public", "virtual private").
	Modifier string `json:"modifier,omitempty"`
}

// ClassDiagram maps class names to their recovered structure plus an
// ordered relationship list. Class keys are unique; re-adding a name
// replaces the previous entry (last writer wins) without changing its
// position in the iteration order.
//
// The zero value is not usable - use NewClassDiagram.
type ClassDiagram struct {
	classes       map[string]*ClassInfo
	order         []string
	relationships []Relationship
}

// NewClassDiagram creates an empty diagram.
func NewClassDiagram() *ClassDiagram {
	return &ClassDiagram{classes: make(map[string]*ClassInfo)}
}

// AddClass inserts or replaces a class. Replacement is whole-record:
// fields and methods from an earlier entry with the same name are
// discarded, not unioned.
func (d *ClassDiagram) AddClass(c *ClassInfo) {
	if c == nil || c.Name == "" {
		return
	}
	if _, exists := d.classes[c.Name]; !exists {
		d.order = append(d.order, c.Name)
	}
	d.classes[c.Name] = c
}

// Class returns the class with the given name, or nil and false.
func (d *ClassDiagram) Class(name string) (*ClassInfo, bool) {
	c, ok := d.classes[name]
	return c, ok
}

// HasClass reports whether a class with the given name exists.
func (d *ClassDiagram) HasClass(name string) bool {
	_, ok := d.classes[name]
	return ok
}

// Classes returns all classes in insertion order.
func (d *ClassDiagram) Classes() []*ClassInfo {
	out := make([]*ClassInfo, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.classes[name])
	}
	return out
}

// ClassNames returns all class names in insertion order.
func (d *ClassDiagram) ClassNames() []string {
	return slices.Clone(d.order)
}

// ClassCount returns the number of classes.
func (d *ClassDiagram) ClassCount() int { return len(d.classes) }

// AddRelationship appends a relationship. Duplicates are allowed; use
// AddRelationshipUnique when merging diagrams.
func (d *ClassDiagram) AddRelationship(r Relationship) {
	d.relationships = append(d.relationships, r)
}

// AddRelationshipUnique appends a relationship unless an identical
// (from, to, type) triple is already present.
func (d *ClassDiagram) AddRelationshipUnique(r Relationship) {
	for _, existing := range d.relationships {
		if existing.From == r.From && existing.To == r.To && existing.Type == r.Type {
			return
		}
	}
	d.relationships = append(d.relationships, r)
}

// Relationships returns a copy of all relationships in insertion order.
func (d *ClassDiagram) Relationships() []Relationship {
	return slices.Clone(d.relationships)
}

// RelationshipCount returns the number of relationships.
func (d *ClassDiagram) RelationshipCount() int { return len(d.relationships) }

// Parents returns the names of the direct INHERITANCE/IMPLEMENTATION
// targets of the given class, in relationship order.
func (d *ClassDiagram) Parents(name string) []string {
	var parents []string
	for _, r := range d.relationships {
		if r.From == name && (r.Type == RelInheritance || r.Type == RelImplementation) {
			parents = append(parents, r.To)
		}
	}
	return parents
}

// InheritanceParents returns only the INHERITANCE targets of the class.
// Implementation edges do not count toward hierarchy depth.
func (d *ClassDiagram) InheritanceParents(name string) []string {
	var parents []string
	for _, r := range d.relationships {
		if r.From == name && r.Type == RelInheritance {
			parents = append(parents, r.To)
		}
	}
	return parents
}

// InheritanceChildren returns the classes that directly inherit from the
// given class.
func (d *ClassDiagram) InheritanceChildren(name string) []string {
	var children []string
	for _, r := range d.relationships {
		if r.To == name && r.Type == RelInheritance {
			children = append(children, r.From)
		}
	}
	return children
}

// Degree returns the total number of relationships touching the class.
func (d *ClassDiagram) Degree(name string) int {
	n := 0
	for _, r := range d.relationships {
		if r.From == name || r.To == name {
			n++
		}
	}
	return n
}

// Merge unions another diagram into this one. Classes are last-write-wins
// per name; relationships are deduplicated by (from, to, type).
func (d *ClassDiagram) Merge(other *ClassDiagram) {
	if other == nil {
		return
	}
	for _, c := range other.Classes() {
		d.AddClass(c)
	}
	for _, r := range other.relationships {
		d.AddRelationshipUnique(r)
	}
}

// diagramJSON is the wire shape for serialization.
type diagramJSON struct {
	Classes       []*ClassInfo   `json:"classes"`
	Relationships []Relationship `json:"relationships"`
}

// MarshalJSON serializes the diagram deterministically (insertion order).
func (d *ClassDiagram) MarshalJSON() ([]byte, error) {
	return json.Marshal(diagramJSON{
		Classes:       d.Classes(),
		Relationships: d.relationships,
	})
}

// UnmarshalJSON restores a diagram serialized by MarshalJSON.
func (d *ClassDiagram) UnmarshalJSON(data []byte) error {
	var wire diagramJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	d.classes = make(map[string]*ClassInfo, len(wire.Classes))
	d.order = nil
	d.relationships = wire.Relationships
	for _, c := range wire.Classes {
		d.AddClass(c)
	}
	return nil
}
