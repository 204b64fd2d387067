package csharp

import (
	"testing"

	"github.com/classcanvas/classcanvas/pkg/model"
)

func TestParseClassMembers(t *testing.T) {
	source := `
using System;

namespace Zoo
{
    public abstract class Animal
    {
        private string _name;
        protected static int Count;
        public const double MaxAge = 120.5;

        public string Name { get; set; }
        public int Age { get; }
        public string Label => _name;

        public Animal(string name)
        {
            _name = name;
        }

        public abstract string Speak();

        public virtual void Describe(string prefix, bool loud)
        {
            Console.WriteLine(prefix + _name);
        }
    }
}
`
	d, err := New().Parse(source, "Animal.cs")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	animal, ok := d.Class("Animal")
	if !ok {
		t.Fatal("Animal not found")
	}
	if !animal.Abstract {
		t.Error("Animal should be abstract")
	}

	fields := map[string]model.Field{}
	for _, f := range animal.Fields {
		fields[f.Name] = f
	}
	if f := fields["_name"]; f.Visibility != model.VisibilityPrivate || f.Type != "string" {
		t.Errorf("_name = %+v", f)
	}
	if f := fields["Count"]; !f.Static || f.Visibility != model.VisibilityProtected {
		t.Errorf("Count = %+v", f)
	}
	if f := fields["MaxAge"]; !f.Static || !f.Readonly || f.Default != "120.5" {
		t.Errorf("MaxAge = %+v", f)
	}
	if f := fields["Name"]; f.Readonly || f.Type != "string" {
		t.Errorf("Name property = %+v", f)
	}
	if f := fields["Age"]; !f.Readonly {
		t.Errorf("Age property = %+v, want read-only", f)
	}
	if f := fields["Label"]; !f.Readonly || f.Type != "string" {
		t.Errorf("Label property = %+v", f)
	}

	methods := map[string]model.Method{}
	for _, m := range animal.Methods {
		methods[m.Name] = m
	}
	if _, ok := methods["Animal"]; !ok {
		t.Error("constructor missing")
	}
	if m := methods["Speak"]; !m.Abstract || m.ReturnType != "string" {
		t.Errorf("Speak = %+v", m)
	}
	if m := methods["Describe"]; len(m.Parameters) != 2 || m.Parameters[1].Name != "loud" {
		t.Errorf("Describe = %+v", m)
	}
}

func TestBaseListClassification(t *testing.T) {
	source := `
public interface IMovable
{
    void Move();
}

public interface ITrackable : IMovable
{
    string Position { get; }
}

public class Robot : Machine, IMovable, ITrackable
{
    public void Move() { }
}
`
	d, err := New().Parse(source, "Robot.cs")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rels := map[string]model.RelationshipType{}
	for _, r := range d.Relationships() {
		rels[r.From+"->"+r.To] = r.Type
	}
	if rels["Robot->Machine"] != model.RelInheritance {
		t.Errorf("Robot->Machine = %v, want inheritance", rels["Robot->Machine"])
	}
	if rels["Robot->IMovable"] != model.RelImplementation {
		t.Errorf("Robot->IMovable = %v, want implementation", rels["Robot->IMovable"])
	}
	if rels["Robot->ITrackable"] != model.RelImplementation {
		t.Errorf("Robot->ITrackable = %v, want implementation", rels["Robot->ITrackable"])
	}
	// Interface-to-interface extension stays inheritance.
	if rels["ITrackable->IMovable"] != model.RelInheritance {
		t.Errorf("ITrackable->IMovable = %v, want inheritance", rels["ITrackable->IMovable"])
	}

	movable, _ := d.Class("IMovable")
	if !movable.Interface {
		t.Error("IMovable should be an interface")
	}
	if len(movable.Methods) != 1 || movable.Methods[0].Visibility != model.VisibilityPublic {
		t.Errorf("IMovable methods = %+v", movable.Methods)
	}
}

func TestFieldInitializerWithCall(t *testing.T) {
	source := `
public class Inventory
{
    private List<Item> items = new List<Item>();
    public int Capacity = 10;
}
`
	d, err := New().Parse(source, "Inventory.cs")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	inv, _ := d.Class("Inventory")
	if len(inv.Methods) != 0 {
		t.Errorf("methods = %+v, want none", inv.Methods)
	}
	fields := map[string]model.Field{}
	for _, f := range inv.Fields {
		fields[f.Name] = f
	}
	if f := fields["items"]; f.Type != "List<Item>" || f.Default != "new List<Item>()" {
		t.Errorf("items = %+v", f)
	}
	if f := fields["Capacity"]; f.Visibility != model.VisibilityPublic || f.Default != "10" {
		t.Errorf("Capacity = %+v", f)
	}
}

func TestConstructorWithBaseCall(t *testing.T) {
	source := `
public class Dog : Animal
{
    public Dog(string name, string breed) : base(name)
    {
        Breed = breed;
    }

    public string Breed { get; }
}
`
	d, err := New().Parse(source, "Dog.cs")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	dog, _ := d.Class("Dog")

	var ctor *model.Method
	for i := range dog.Methods {
		if dog.Methods[i].Name == "Dog" {
			ctor = &dog.Methods[i]
		}
	}
	if ctor == nil {
		t.Fatal("constructor missing")
	}
	if len(ctor.Parameters) != 2 || ctor.Parameters[0].Type != "string" || ctor.Parameters[1].Name != "breed" {
		t.Errorf("constructor parameters = %+v", ctor.Parameters)
	}
}

func TestDefaultVisibilityIsPrivate(t *testing.T) {
	source := `
class Widget
{
    int size;
    void Resize(int to) { size = to; }
}
`
	d, err := New().Parse(source, "Widget.cs")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	w, _ := d.Class("Widget")
	if len(w.Fields) != 1 || w.Fields[0].Visibility != model.VisibilityPrivate {
		t.Errorf("fields = %+v, want private size", w.Fields)
	}
	if len(w.Methods) != 1 || w.Methods[0].Visibility != model.VisibilityPrivate {
		t.Errorf("methods = %+v, want private Resize", w.Methods)
	}
}
