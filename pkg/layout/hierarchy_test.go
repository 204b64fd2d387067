package layout

import (
	"fmt"
	"testing"

	"github.com/classcanvas/classcanvas/pkg/model"
)

func shapeDiagram() *model.ClassDiagram {
	d := model.NewClassDiagram()
	d.AddClass(&model.ClassInfo{Name: "Shape", Abstract: true})
	d.AddClass(&model.ClassInfo{Name: "Circle"})
	d.AddClass(&model.ClassInfo{Name: "Square"})
	d.AddRelationship(model.Relationship{From: "Circle", To: "Shape", Type: model.RelInheritance})
	d.AddRelationship(model.Relationship{From: "Square", To: "Shape", Type: model.RelInheritance})
	return d
}

func TestBuildLevelsShapeHierarchy(t *testing.T) {
	levels := BuildLevels(shapeDiagram(), DefaultConfig())

	if len(levels) != 2 {
		t.Fatalf("levels = %d, want 2", len(levels))
	}
	if len(levels[0]) != 1 || levels[0][0] != "Shape" {
		t.Errorf("level 0 = %v, want [Shape]", levels[0])
	}
	got := map[string]bool{}
	for _, n := range levels[1] {
		got[n] = true
	}
	if len(levels[1]) != 2 || !got["Circle"] || !got["Square"] {
		t.Errorf("level 1 = %v, want Circle and Square", levels[1])
	}
}

func TestBuildLevelsThreeDeep(t *testing.T) {
	d := model.NewClassDiagram()
	for _, n := range []string{"A", "B", "C"} {
		d.AddClass(&model.ClassInfo{Name: n})
	}
	d.AddRelationship(model.Relationship{From: "B", To: "A", Type: model.RelInheritance})
	d.AddRelationship(model.Relationship{From: "C", To: "B", Type: model.RelInheritance})

	levels := BuildLevels(d, DefaultConfig())
	want := [][]string{{"A"}, {"B"}, {"C"}}
	if len(levels) != 3 {
		t.Fatalf("levels = %v, want %v", levels, want)
	}
	for i := range want {
		if len(levels[i]) != 1 || levels[i][0] != want[i][0] {
			t.Errorf("level %d = %v, want %v", i, levels[i], want[i])
		}
	}
}

func TestBuildLevelsIsolatedInterfacesJoinRoots(t *testing.T) {
	d := shapeDiagram()
	d.AddClass(&model.ClassInfo{Name: "Drawable", Interface: true})

	levels := BuildLevels(d, DefaultConfig())
	found := false
	for _, n := range levels[0] {
		if n == "Drawable" {
			found = true
		}
	}
	if !found {
		t.Errorf("level 0 = %v, want it to include the isolated interface", levels[0])
	}
}

func TestBuildLevelsIsolatedBatches(t *testing.T) {
	d := model.NewClassDiagram()
	for i := 0; i < 9; i++ {
		d.AddClass(&model.ClassInfo{Name: fmt.Sprintf("Util%d", i)})
	}
	cfg := DefaultConfig()
	cfg.IsolatedBatch = 4

	levels := BuildLevels(d, cfg)
	if len(levels) != 3 {
		t.Fatalf("levels = %d, want 3 batches of <=4", len(levels))
	}
	for i, level := range levels {
		if len(level) > 4 {
			t.Errorf("level %d has %d classes, want <=4", i, len(level))
		}
	}
}

func TestBuildLevelsCycleTerminates(t *testing.T) {
	d := model.NewClassDiagram()
	d.AddClass(&model.ClassInfo{Name: "A"})
	d.AddClass(&model.ClassInfo{Name: "B"})
	d.AddRelationship(model.Relationship{From: "A", To: "B", Type: model.RelInheritance})
	d.AddRelationship(model.Relationship{From: "B", To: "A", Type: model.RelInheritance})

	levels := BuildLevels(d, DefaultConfig())
	total := 0
	for _, level := range levels {
		total += len(level)
	}
	if total != 2 {
		t.Errorf("placed %d classes, want both members of the cycle in the leftover batches", total)
	}
}

func TestBuildLevelsUnknownParentDoesNotBlock(t *testing.T) {
	d := model.NewClassDiagram()
	d.AddClass(&model.ClassInfo{Name: "Widget"})
	d.AddClass(&model.ClassInfo{Name: "Button"})
	d.AddRelationship(model.Relationship{From: "Widget", To: "Component", Type: model.RelInheritance})
	d.AddRelationship(model.Relationship{From: "Button", To: "Widget", Type: model.RelInheritance})

	levels := BuildLevels(d, DefaultConfig())
	total := 0
	for _, level := range levels {
		total += len(level)
	}
	if total != 2 {
		t.Errorf("placed %d classes, want 2", total)
	}
}
