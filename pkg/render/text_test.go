package render

import (
	"testing"

	"github.com/classcanvas/classcanvas/pkg/model"
)

func TestFieldLine(t *testing.T) {
	tests := []struct {
		name  string
		field model.Field
		want  string
	}{
		{
			name:  "public typed",
			field: model.Field{Name: "radius", Visibility: model.VisibilityPublic, Type: "number"},
			want:  "+ radius: number",
		},
		{
			name:  "private untyped",
			field: model.Field{Name: "secret", Visibility: model.VisibilityPrivate},
			want:  "- secret",
		},
		{
			name:  "protected static",
			field: model.Field{Name: "count", Visibility: model.VisibilityProtected, Type: "int", Static: true},
			want:  "# count: int $",
		},
		{
			name: "inherited carries origin",
			field: model.Field{Name: "name", Visibility: model.VisibilityProtected, Type: "string",
				Inherited: true, InheritedFrom: "Animal"},
			want: "# name: string «Animal»",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fieldLine(tt.field); got != tt.want {
				t.Errorf("fieldLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMethodLine(t *testing.T) {
	m := model.Method{
		Name:       "describe",
		Visibility: model.VisibilityPublic,
		ReturnType: "string",
		Parameters: []model.Parameter{
			{Name: "prefix", Type: "string"},
			{Name: "loud", Type: "boolean"},
		},
	}
	want := "+ describe(prefix: string, loud: boolean): string"
	if got := methodLine(m); got != want {
		t.Errorf("methodLine() = %q, want %q", got, want)
	}
}

func TestMemberRowsOwnBeforeInherited(t *testing.T) {
	c := &model.ClassInfo{
		Name: "Dog",
		Fields: []model.Field{
			{Name: "name", Inherited: true, InheritedFrom: "Animal"},
			{Name: "breed"},
		},
		Methods: []model.Method{
			{Name: "speak", Inherited: true, InheritedFrom: "Animal"},
			{Name: "bark"},
		},
	}
	lines, inherited, divider := memberRows(c)

	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	// Own field, inherited field, then own method, inherited method.
	wantInherited := []bool{false, true, false, true}
	for i, w := range wantInherited {
		if inherited[i] != w {
			t.Errorf("row %d (%s) inherited = %v, want %v", i, lines[i], inherited[i], w)
		}
	}
	if divider != 2 {
		t.Errorf("divider = %d, want 2 (between fields and methods)", divider)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	got := truncate("a very long member signature line", 10)
	if len([]rune(got)) != 10 {
		t.Errorf("truncate() length = %d, want 10", len([]rune(got)))
	}
	if got[len(got)-3:] != "…" {
		t.Errorf("truncate() = %q, want ellipsis suffix", got)
	}
}

func TestStereotype(t *testing.T) {
	if s := stereotype(&model.ClassInfo{Interface: true}); s != "«interface»" {
		t.Errorf("interface stereotype = %q", s)
	}
	if s := stereotype(&model.ClassInfo{Abstract: true}); s != "«abstract»" {
		t.Errorf("abstract stereotype = %q", s)
	}
	if s := stereotype(&model.ClassInfo{}); s != "" {
		t.Errorf("concrete stereotype = %q, want empty", s)
	}
}

func TestRelationshipLabel(t *testing.T) {
	r := model.Relationship{From: "Order", To: "Product", Type: model.RelAggregation, Label: "items"}
	if got := relationshipLabel(r); got != "aggregation: items" {
		t.Errorf("relationshipLabel() = %q", got)
	}
	r.Label = ""
	if got := relationshipLabel(r); got != "aggregation" {
		t.Errorf("relationshipLabel() = %q", got)
	}
}
