package model

import "testing"

// chainDiagram builds A <- B <- C with a public field and method on A.
func chainDiagram() *ClassDiagram {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{
		Name:    "A",
		Fields:  []Field{{Name: "f", Visibility: VisibilityPublic, Type: "string"}},
		Methods: []Method{{Name: "describe", Visibility: VisibilityPublic, ReturnType: "string"}},
	})
	d.AddClass(&ClassInfo{Name: "B"})
	d.AddClass(&ClassInfo{Name: "C"})
	d.AddRelationship(Relationship{From: "B", To: "A", Type: RelInheritance})
	d.AddRelationship(Relationship{From: "C", To: "B", Type: RelInheritance})
	return d
}

func TestPropagateGrandparentReachability(t *testing.T) {
	d := chainDiagram()
	PropagateInheritance(d)

	c, _ := d.Class("C")
	if !c.HasField("f") {
		t.Fatal("C did not receive field f from grandparent A")
	}
	for _, f := range c.Fields {
		if f.Name == "f" {
			if !f.Inherited {
				t.Error("inherited copy not marked Inherited")
			}
			if f.InheritedFrom != "A" {
				t.Errorf("InheritedFrom = %q, want %q", f.InheritedFrom, "A")
			}
		}
	}
	if !c.HasMethod("describe") {
		t.Error("C did not receive method describe")
	}
}

func TestPropagateShadowing(t *testing.T) {
	d := chainDiagram()
	b, _ := d.Class("B")
	b.Fields = append(b.Fields, Field{Name: "f", Visibility: VisibilityPublic, Type: "number"})

	PropagateInheritance(d)

	// B's own f shadows A's: it stays own.
	for _, f := range b.Fields {
		if f.Name == "f" && f.Inherited {
			t.Error("B's own field f was replaced by inherited copy")
		}
	}

	// C receives B's f (provenance B), not A's.
	c, _ := d.Class("C")
	count := 0
	for _, f := range c.Fields {
		if f.Name == "f" {
			count++
			if f.InheritedFrom != "B" {
				t.Errorf("InheritedFrom = %q, want %q", f.InheritedFrom, "B")
			}
		}
	}
	if count != 1 {
		t.Errorf("C has %d fields named f, want 1", count)
	}
}

func TestPropagateChildOverride(t *testing.T) {
	d := chainDiagram()
	c, _ := d.Class("C")
	c.Fields = append(c.Fields, Field{Name: "f", Visibility: VisibilityPublic, Type: "bool"})

	PropagateInheritance(d)

	count := 0
	for _, f := range c.Fields {
		if f.Name == "f" {
			count++
			if f.Inherited {
				t.Error("C's own f was overwritten by an inherited copy")
			}
		}
	}
	if count != 1 {
		t.Errorf("C has %d fields named f, want 1", count)
	}
}

func TestPropagateVisibilityFilter(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{
		Name: "Base",
		Fields: []Field{
			{Name: "secret", Visibility: VisibilityPrivate},
			{Name: "shared", Visibility: VisibilityProtected},
		},
	})
	d.AddClass(&ClassInfo{Name: "Derived"})
	d.AddRelationship(Relationship{From: "Derived", To: "Base", Type: RelInheritance})

	PropagateInheritance(d)

	derived, _ := d.Class("Derived")
	if derived.HasField("secret") {
		t.Error("private member leaked into child")
	}
	if !derived.HasField("shared") {
		t.Error("protected member not propagated")
	}
}

func TestPropagateSkipsLifecycleMethods(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{
		Name: "Vehicle",
		Methods: []Method{
			{Name: "Vehicle", Visibility: VisibilityPublic},
			{Name: "~Vehicle", Visibility: VisibilityPublic},
			{Name: "start", Visibility: VisibilityPublic},
		},
	})
	d.AddClass(&ClassInfo{Name: "Car"})
	d.AddRelationship(Relationship{From: "Car", To: "Vehicle", Type: RelInheritance})

	PropagateInheritance(d)

	car, _ := d.Class("Car")
	if car.HasMethod("Vehicle") || car.HasMethod("~Vehicle") {
		t.Error("constructor/destructor propagated to child")
	}
	if !car.HasMethod("start") {
		t.Error("regular method not propagated")
	}
}

func TestPropagateImplementationParents(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{
		Name:      "Printable",
		Interface: true,
		Methods:   []Method{{Name: "print", Visibility: VisibilityPublic}},
	})
	d.AddClass(&ClassInfo{Name: "Report"})
	d.AddRelationship(Relationship{From: "Report", To: "Printable", Type: RelImplementation})

	PropagateInheritance(d)

	report, _ := d.Class("Report")
	if !report.HasMethod("print") {
		t.Error("interface method not propagated through implementation edge")
	}
}

func TestPropagateCycleTerminates(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{Name: "A", Fields: []Field{{Name: "x", Visibility: VisibilityPublic}}})
	d.AddClass(&ClassInfo{Name: "B", Fields: []Field{{Name: "y", Visibility: VisibilityPublic}}})
	d.AddRelationship(Relationship{From: "A", To: "B", Type: RelInheritance})
	d.AddRelationship(Relationship{From: "B", To: "A", Type: RelInheritance})

	// Must not loop forever; both end up with both members.
	PropagateInheritance(d)

	a, _ := d.Class("A")
	b, _ := d.Class("B")
	if !a.HasField("y") || !b.HasField("x") {
		t.Error("members not exchanged across cycle")
	}
}
