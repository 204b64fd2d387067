package layout

import (
	"fmt"
	"testing"

	"github.com/classcanvas/classcanvas/pkg/model"
)

func TestSolvePositionsNoOverlap(t *testing.T) {
	d := model.NewClassDiagram()
	d.AddClass(&model.ClassInfo{Name: "Root"})
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("Child%d", i)
		d.AddClass(&model.ClassInfo{Name: name})
		d.AddRelationship(model.Relationship{From: name, To: "Root", Type: model.RelInheritance})
	}

	ctx := Compute(d, DefaultConfig())

	for _, level := range ctx.Levels {
		for i := 0; i < len(level); i++ {
			for j := i + 1; j < len(level); j++ {
				a := ctx.Positions[level[i]]
				b := ctx.Positions[level[j]]
				if a.X < b.Right() && a.Right() > b.X {
					t.Errorf("boxes %s and %s overlap horizontally: %+v %+v",
						level[i], level[j], a, b)
				}
			}
		}
	}
}

func TestBoxHeightGrowsWithMembers(t *testing.T) {
	d := model.NewClassDiagram()
	small := &model.ClassInfo{Name: "Small"}
	big := &model.ClassInfo{Name: "Big"}
	for i := 0; i < 8; i++ {
		big.Fields = append(big.Fields, model.Field{Name: fmt.Sprintf("f%d", i)})
		big.Methods = append(big.Methods, model.Method{Name: fmt.Sprintf("m%d", i)})
	}
	d.AddClass(small)
	d.AddClass(big)

	cfg := DefaultConfig()
	if h := boxHeight(d, "Small", cfg); h != cfg.MinBoxHeight {
		t.Errorf("small height = %v, want floor %v", h, cfg.MinBoxHeight)
	}
	want := cfg.HeaderHeight + 16*cfg.RowHeight + cfg.BoxPadding
	if h := boxHeight(d, "Big", cfg); h != want {
		t.Errorf("big height = %v, want %v", h, want)
	}
}

func TestLevelsStackDownward(t *testing.T) {
	d := shapeDiagram()
	ctx := Compute(d, DefaultConfig())

	shape := ctx.Positions["Shape"]
	circle := ctx.Positions["Circle"]
	if circle.Y <= shape.Bottom() {
		t.Errorf("child level should sit below parent level: parent bottom %v, child top %v",
			shape.Bottom(), circle.Y)
	}
}

func TestCentroidPullCentersOnlyChild(t *testing.T) {
	d := model.NewClassDiagram()
	d.AddClass(&model.ClassInfo{Name: "A"})
	d.AddClass(&model.ClassInfo{Name: "B"})
	d.AddClass(&model.ClassInfo{Name: "Only"})
	d.AddRelationship(model.Relationship{From: "Only", To: "A", Type: model.RelInheritance})

	ctx := Compute(d, DefaultConfig())
	only := ctx.Positions["Only"]
	a := ctx.Positions["A"]
	// A lone child with a single parent and nothing beside it ends up
	// centered under that parent.
	if diff := only.CenterX() - a.CenterX(); diff > 1 || diff < -1 {
		t.Errorf("Only center %v, parent center %v", only.CenterX(), a.CenterX())
	}
}

func TestDenseLevelGetsMoreGap(t *testing.T) {
	cfg := DefaultConfig()

	sparse := model.NewClassDiagram()
	sparse.AddClass(&model.ClassInfo{Name: "Lone"})

	dense := model.NewClassDiagram()
	dense.AddClass(&model.ClassInfo{Name: "Hub"})
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("Spoke%d", i)
		dense.AddClass(&model.ClassInfo{Name: name})
		dense.AddRelationship(model.Relationship{From: "Hub", To: name, Type: model.RelDependency})
	}

	if g1, g2 := levelGap(sparse, []string{"Lone"}, cfg), levelGap(dense, []string{"Hub"}, cfg); g2 <= g1 {
		t.Errorf("dense gap %v should exceed sparse gap %v", g2, g1)
	}
}

func TestBoundsCoverAllBoxes(t *testing.T) {
	d := shapeDiagram()
	ctx := Compute(d, DefaultConfig())

	w, h := ctx.Bounds()
	for name, b := range ctx.Positions {
		if b.Right() > w || b.Bottom() > h {
			t.Errorf("box %s (%+v) escapes bounds %v x %v", name, b, w, h)
		}
	}
}
