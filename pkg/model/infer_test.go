package model

import "testing"

func TestDissectType(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		want     typeShape
	}{
		{"plain", "Product", typeShape{name: "Product"}},
		{"array suffix", "Product[]", typeShape{name: "Product", collection: true}},
		{"nested array", "Product[][]", typeShape{name: "Product", collection: true}},
		{"optional", "Product?", typeShape{name: "Product", optional: true}},
		{"union null", "Product | null", typeShape{name: "Product", optional: true}},
		{"union undefined", "Product | undefined", typeShape{name: "Product", optional: true}},
		{"generic array", "Array<Product>", typeShape{name: "Product", collection: true}},
		{"generic list", "List<Product>", typeShape{name: "Product", collection: true}},
		{"map second arg", "Map<string, Product>", typeShape{name: "Product", collection: true}},
		{"dictionary", "Dictionary<int, Product>", typeShape{name: "Product", collection: true}},
		{"promise", "Promise<Product>", typeShape{name: "Product"}},
		{"promise of array", "Promise<Product[]>", typeShape{name: "Product", collection: true}},
		{"std vector", "std::vector<Product>", typeShape{name: "Product", collection: true}},
		{"vector of shared_ptr", "std::vector<std::shared_ptr<Product>>", typeShape{name: "Product", collection: true}},
		{"pointer", "Product*", typeShape{name: "Product"}},
		{"reference", "Product&", typeShape{name: "Product"}},
		{"namespace", "std::string", typeShape{name: "string"}},
		{"dotted namespace", "System.DateTime", typeShape{name: "DateTime"}},
		{"unknown generic head", "Repository<Product>", typeShape{name: "Repository"}},
		{"empty", "", typeShape{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dissectType(tt.declared)
			if got != tt.want {
				t.Errorf("dissectType(%q) = %+v, want %+v", tt.declared, got, tt.want)
			}
		})
	}
}

func TestInferFieldRelationships(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{Name: "Order", Fields: []Field{
		{Name: "items", Visibility: VisibilityPrivate, Type: "Product[]"},
		{Name: "payment", Visibility: VisibilityPrivate, Type: "Payment"},
		{Name: "coupon", Visibility: VisibilityPrivate, Type: "Coupon?"},
		{Name: "count", Visibility: VisibilityPrivate, Type: "number"},
	}})
	d.AddClass(&ClassInfo{Name: "Product"})
	d.AddClass(&ClassInfo{Name: "Payment"})
	d.AddClass(&ClassInfo{Name: "Coupon"})

	InferRelationships(d)

	want := map[string]RelationshipType{
		"Product": RelAggregation,
		"Payment": RelComposition,
		"Coupon":  RelAssociation,
	}
	rels := d.Relationships()
	if len(rels) != len(want) {
		t.Fatalf("got %d relationships, want %d: %+v", len(rels), len(want), rels)
	}
	for _, r := range rels {
		if r.From != "Order" {
			t.Errorf("From = %q, want Order", r.From)
		}
		if wt, ok := want[r.To]; !ok || r.Type != wt {
			t.Errorf("Order -> %s type = %s, want %s", r.To, r.Type, wt)
		}
	}

	// Label carries the field name.
	for _, r := range rels {
		if r.To == "Product" && r.Label != "items" {
			t.Errorf("label = %q, want items", r.Label)
		}
	}
}

func TestInferMethodDependencies(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{Name: "Checkout", Methods: []Method{
		{
			Name:       "process",
			Visibility: VisibilityPublic,
			ReturnType: "Receipt",
			Parameters: []Parameter{{Name: "order", Type: "Order"}},
		},
	}})
	d.AddClass(&ClassInfo{Name: "Order"})
	d.AddClass(&ClassInfo{Name: "Receipt"})

	InferRelationships(d)

	rels := d.Relationships()
	if len(rels) != 2 {
		t.Fatalf("got %d relationships, want 2: %+v", len(rels), rels)
	}
	for _, r := range rels {
		if r.Type != RelDependency {
			t.Errorf("type = %s, want dependency", r.Type)
		}
	}
}

func TestInferSkipsSelfAndUnknown(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{Name: "Node", Fields: []Field{
		{Name: "next", Visibility: VisibilityPrivate, Type: "Node"},
		{Name: "payload", Visibility: VisibilityPrivate, Type: "Unknown"},
	}})

	InferRelationships(d)

	if n := d.RelationshipCount(); n != 0 {
		t.Errorf("RelationshipCount = %d, want 0: %+v", n, d.Relationships())
	}
}

func TestInferSkipsInheritedMembers(t *testing.T) {
	d := NewClassDiagram()
	d.AddClass(&ClassInfo{Name: "Child", Fields: []Field{
		{Name: "tool", Visibility: VisibilityPublic, Type: "Tool", Inherited: true, InheritedFrom: "Base"},
	}})
	d.AddClass(&ClassInfo{Name: "Tool"})

	InferRelationships(d)

	if n := d.RelationshipCount(); n != 0 {
		t.Errorf("inherited member produced relationship: %+v", d.Relationships())
	}
}
