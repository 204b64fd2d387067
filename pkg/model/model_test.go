package model

import (
	"encoding/json"
	"testing"
)

func TestAddClassLastWriteWins(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{Name: "Widget", Fields: []Field{{Name: "old", Visibility: VisibilityPublic}}})
	d.AddClass(&ClassInfo{Name: "Widget", Fields: []Field{{Name: "new", Visibility: VisibilityPublic}}})

	if d.ClassCount() != 1 {
		t.Fatalf("ClassCount = %d, want 1", d.ClassCount())
	}

	c, _ := d.Class("Widget")
	if len(c.Fields) != 1 || c.Fields[0].Name != "new" {
		t.Errorf("expected replacement, got fields %+v", c.Fields)
	}
}

func TestClassesInsertionOrder(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{Name: "B"})
	d.AddClass(&ClassInfo{Name: "A"})
	d.AddClass(&ClassInfo{Name: "B"}) // replacement keeps position

	names := d.ClassNames()
	if len(names) != 2 || names[0] != "B" || names[1] != "A" {
		t.Errorf("ClassNames = %v, want [B A]", names)
	}
}

func TestAddRelationshipUnique(t *testing.T) {
	d := NewClassDiagram()
	r := Relationship{From: "Dog", To: "Animal", Type: RelInheritance}
	d.AddRelationshipUnique(r)
	d.AddRelationshipUnique(r)
	d.AddRelationshipUnique(Relationship{From: "Dog", To: "Animal", Type: RelDependency})

	if n := d.RelationshipCount(); n != 2 {
		t.Errorf("RelationshipCount = %d, want 2", n)
	}
}

func TestMerge(t *testing.T) {
	a := NewClassDiagram()
	a.AddClass(&ClassInfo{Name: "Animal", Fields: []Field{{Name: "name", Visibility: VisibilityProtected}}})
	a.AddRelationship(Relationship{From: "Dog", To: "Animal", Type: RelInheritance})

	b := NewClassDiagram()
	b.AddClass(&ClassInfo{Name: "Dog"})
	b.AddClass(&ClassInfo{Name: "Animal"}) // same name parsed again in another file
	b.AddRelationship(Relationship{From: "Dog", To: "Animal", Type: RelInheritance})

	a.Merge(b)

	if a.ClassCount() != 2 {
		t.Errorf("ClassCount = %d, want 2", a.ClassCount())
	}

	// Last writer wins: Animal from b has no fields.
	animal, _ := a.Class("Animal")
	if len(animal.Fields) != 0 {
		t.Errorf("expected overwrite, Animal still has %d fields", len(animal.Fields))
	}

	if a.RelationshipCount() != 1 {
		t.Errorf("RelationshipCount = %d, want 1 after dedupe", a.RelationshipCount())
	}
}

func TestParentsFiltersTypes(t *testing.T) {
	d := NewClassDiagram()
	d.AddRelationship(Relationship{From: "Dog", To: "Animal", Type: RelInheritance})
	d.AddRelationship(Relationship{From: "Dog", To: "Pet", Type: RelImplementation})
	d.AddRelationship(Relationship{From: "Dog", To: "Bone", Type: RelComposition})

	parents := d.Parents("Dog")
	if len(parents) != 2 {
		t.Fatalf("Parents = %v, want [Animal Pet]", parents)
	}

	inh := d.InheritanceParents("Dog")
	if len(inh) != 1 || inh[0] != "Animal" {
		t.Errorf("InheritanceParents = %v, want [Animal]", inh)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{
		Name:     "Shape",
		Abstract: true,
		Methods:  []Method{{Name: "area", Visibility: VisibilityPublic, ReturnType: "number", Abstract: true}},
	})
	d.AddClass(&ClassInfo{Name: "Circle"})
	d.AddRelationship(Relationship{From: "Circle", To: "Shape", Type: RelInheritance})

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	restored := NewClassDiagram()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if restored.ClassCount() != 2 {
		t.Errorf("ClassCount = %d, want 2", restored.ClassCount())
	}
	names := restored.ClassNames()
	if names[0] != "Shape" || names[1] != "Circle" {
		t.Errorf("order not preserved: %v", names)
	}
	if restored.RelationshipCount() != 1 {
		t.Errorf("RelationshipCount = %d, want 1", restored.RelationshipCount())
	}
	shape, ok := restored.Class("Shape")
	if !ok || !shape.Abstract || len(shape.Methods) != 1 {
		t.Errorf("Shape not restored: %+v", shape)
	}
}
