package cpp

import (
	"testing"

	"github.com/classcanvas/classcanvas/pkg/model"
)

const vehicleHeader = `
#ifndef VEHICLE_H
#define VEHICLE_H

#include <string>

class Vehicle {
public:
    Vehicle(const std::string& make, int year);
    virtual ~Vehicle() = default;

    virtual void start() = 0;
    std::string describe() const;
    static int count();

protected:
    std::string make_;
    int year_ = 0;

private:
    bool started_;
};

class Car : public Vehicle {
public:
    Car(const std::string& make, int year, int doors);
    void start() override;

private:
    int doors_, seats_;
};

struct ElectricCar : Car {
    double batteryKwh;
    void charge(double kwh);
};

#endif
`

func TestParseVehicleHeader(t *testing.T) {
	d, err := New().Parse(vehicleHeader, "vehicle.h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n := d.ClassCount(); n != 3 {
		t.Fatalf("ClassCount() = %d, want 3", n)
	}

	vehicle, _ := d.Class("Vehicle")
	if !vehicle.Abstract {
		t.Error("Vehicle has a pure virtual method and should be abstract")
	}

	fields := map[string]model.Field{}
	for _, f := range vehicle.Fields {
		fields[f.Name] = f
	}
	if f := fields["make_"]; f.Visibility != model.VisibilityProtected {
		t.Errorf("make_ = %+v", f)
	}
	if f := fields["year_"]; f.Default != "0" {
		t.Errorf("year_ = %+v", f)
	}
	if f := fields["started_"]; f.Visibility != model.VisibilityPrivate {
		t.Errorf("started_ = %+v", f)
	}

	methods := map[string]model.Method{}
	for _, m := range vehicle.Methods {
		methods[m.Name] = m
	}
	if _, ok := methods["Vehicle"]; !ok {
		t.Error("constructor missing")
	}
	if _, ok := methods["~Vehicle"]; !ok {
		t.Error("destructor missing")
	}
	if m := methods["start"]; !m.Abstract {
		t.Errorf("start = %+v, want abstract", m)
	}
	if m := methods["count"]; !m.Static || m.ReturnType != "int" {
		t.Errorf("count = %+v", m)
	}
	if m := methods["describe"]; m.ReturnType != "std::string" {
		t.Errorf("describe = %+v", m)
	}
}

func TestBaseSpecifiers(t *testing.T) {
	d, err := New().Parse(vehicleHeader, "vehicle.h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rels := map[string]model.Relationship{}
	for _, r := range d.Relationships() {
		rels[r.From+"->"+r.To] = r
	}

	car := rels["Car->Vehicle"]
	if car.Type != model.RelInheritance || car.Modifier != "public" {
		t.Errorf("Car->Vehicle = %+v", car)
	}
	// Struct inheritance without an access modifier still records the
	// class-default modifier the way the declaration reads.
	ec := rels["ElectricCar->Car"]
	if ec.Type != model.RelInheritance || ec.Modifier != "private" {
		t.Errorf("ElectricCar->Car = %+v", ec)
	}
}

func TestStructDefaultsToPublic(t *testing.T) {
	d, err := New().Parse(vehicleHeader, "vehicle.h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	ec, _ := d.Class("ElectricCar")
	for _, f := range ec.Fields {
		if f.Visibility != model.VisibilityPublic {
			t.Errorf("struct field %s visibility = %s, want public", f.Name, f.Visibility)
		}
	}
	if len(ec.Fields) != 1 || ec.Fields[0].Name != "batteryKwh" {
		t.Errorf("ElectricCar fields = %+v", ec.Fields)
	}
}

func TestCommaSeparatedDeclarators(t *testing.T) {
	d, err := New().Parse(vehicleHeader, "vehicle.h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	car, _ := d.Class("Car")
	var names []string
	for _, f := range car.Fields {
		if f.Type != "int" {
			t.Errorf("%s type = %q, want int", f.Name, f.Type)
		}
		names = append(names, f.Name)
	}
	if len(names) != 2 || names[0] != "doors_" || names[1] != "seats_" {
		t.Errorf("Car fields = %v", names)
	}
}

func TestPointerDeclarators(t *testing.T) {
	source := `
class Node {
public:
    Node *next, prev;
    int value;
};
`
	d, err := New().Parse(source, "node.h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	node, _ := d.Class("Node")
	fields := map[string]model.Field{}
	for _, f := range node.Fields {
		fields[f.Name] = f
	}
	if f := fields["next"]; f.Type != "Node*" {
		t.Errorf("next type = %q, want Node*", f.Type)
	}
	if f := fields["prev"]; f.Type != "Node" {
		t.Errorf("prev type = %q, want Node", f.Type)
	}
}

func TestDeletedMembersSkipped(t *testing.T) {
	source := `
class Singleton {
public:
    static Singleton& instance();
    Singleton(const Singleton&) = delete;
private:
    Singleton();
};
`
	d, err := New().Parse(source, "singleton.h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	s, _ := d.Class("Singleton")
	methods := map[string]model.Method{}
	for _, m := range s.Methods {
		methods[m.Name] = m
	}
	ctor, ok := methods["Singleton"]
	if !ok {
		t.Fatal("private default constructor missing")
	}
	if ctor.Visibility != model.VisibilityPrivate || len(ctor.Parameters) != 0 {
		t.Errorf("constructor = %+v, want the private zero-arg one", ctor)
	}
}

func TestPreprocessorAndCommentsIgnored(t *testing.T) {
	source := `
#define class struct
// class Hidden {};
/* class AlsoHidden {}; */
class Visible { public: int x; };
`
	d, err := New().Parse(source, "macros.h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n := d.ClassCount(); n != 1 {
		t.Fatalf("ClassCount() = %d, want 1", n)
	}
	if _, ok := d.Class("Visible"); !ok {
		t.Error("Visible not parsed")
	}
}
