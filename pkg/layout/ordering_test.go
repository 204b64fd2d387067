package layout

import (
	"testing"

	"github.com/classcanvas/classcanvas/pkg/model"
)

func TestSortLevelCompositeKey(t *testing.T) {
	d := model.NewClassDiagram()
	d.AddClass(&model.ClassInfo{Name: "Base"})
	d.AddClass(&model.ClassInfo{Name: "Busy"})  // two parents in prev
	d.AddClass(&model.ClassInfo{Name: "Quiet"}) // no parents in prev
	d.AddClass(&model.ClassInfo{Name: "Other"})
	d.AddRelationship(model.Relationship{From: "Busy", To: "Base", Type: model.RelInheritance})
	d.AddRelationship(model.Relationship{From: "Busy", To: "Other", Type: model.RelInheritance})

	level := []string{"Quiet", "Busy"}
	sortLevel(d, level, []string{"Base", "Other"})
	if level[0] != "Busy" {
		t.Errorf("level = %v, want Busy first (more links into previous level)", level)
	}
}

func TestSortLevelKindOrder(t *testing.T) {
	d := model.NewClassDiagram()
	d.AddClass(&model.ClassInfo{Name: "Plain"})
	d.AddClass(&model.ClassInfo{Name: "AbstractOne", Abstract: true})
	d.AddClass(&model.ClassInfo{Name: "Iface", Interface: true})

	level := []string{"Plain", "AbstractOne", "Iface"}
	sortLevel(d, level, nil)
	want := []string{"Iface", "AbstractOne", "Plain"}
	for i := range want {
		if level[i] != want[i] {
			t.Fatalf("level = %v, want %v", level, want)
		}
	}
}

func TestReduceInversionsUncrossesEdges(t *testing.T) {
	d := model.NewClassDiagram()
	for _, n := range []string{"L", "R", "A", "B"} {
		d.AddClass(&model.ClassInfo{Name: n})
	}
	// A's parent is on the right, B's parent is on the left: the order
	// [A, B] crosses, [B, A] does not.
	d.AddRelationship(model.Relationship{From: "A", To: "R", Type: model.RelInheritance})
	d.AddRelationship(model.Relationship{From: "B", To: "L", Type: model.RelInheritance})

	level := []string{"A", "B"}
	upper := []string{"L", "R"}
	if !reduceInversions(d, level, upper) {
		t.Fatal("expected a swap to be kept")
	}
	if level[0] != "B" || level[1] != "A" {
		t.Errorf("level = %v, want [B A]", level)
	}
	if got := Inversions(d, level, upper); got != 0 {
		t.Errorf("Inversions() = %d after swap, want 0", got)
	}
}

func TestInversionsCount(t *testing.T) {
	d := model.NewClassDiagram()
	for _, n := range []string{"P1", "P2", "X", "Y"} {
		d.AddClass(&model.ClassInfo{Name: n})
	}
	d.AddRelationship(model.Relationship{From: "X", To: "P2", Type: model.RelInheritance})
	d.AddRelationship(model.Relationship{From: "Y", To: "P1", Type: model.RelInheritance})

	if got := Inversions(d, []string{"X", "Y"}, []string{"P1", "P2"}); got != 1 {
		t.Errorf("Inversions() = %d, want 1", got)
	}
	if got := Inversions(d, []string{"Y", "X"}, []string{"P1", "P2"}); got != 0 {
		t.Errorf("Inversions() = %d for clean order, want 0", got)
	}
}

func TestOrderLevelsStable(t *testing.T) {
	d := shapeDiagram()
	levels := BuildLevels(d, DefaultConfig())
	OrderLevels(d, levels, DefaultConfig())

	// Equal keys fall back to name order.
	if levels[1][0] != "Circle" || levels[1][1] != "Square" {
		t.Errorf("level 1 = %v, want name-ordered [Circle Square]", levels[1])
	}
}
