package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/classcanvas/classcanvas/pkg/errors"
	"github.com/classcanvas/classcanvas/pkg/model"
)

// ToDOT converts a class diagram to Graphviz DOT with record-shaped
// nodes (name, fields, methods) and per-relationship edge styling. The
// output renders with [RenderDOT] or any external Graphviz install.
func ToDOT(d *model.ClassDiagram) string {
	var buf bytes.Buffer
	buf.WriteString("digraph classes {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  node [shape=record, fontsize=11, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [fontsize=9, fontname=\"Helvetica\"];\n")

	for _, class := range d.Classes() {
		var fields, methods []string
		for _, f := range class.Fields {
			fields = append(fields, dotEscape(fieldLine(f)))
		}
		for _, m := range class.Methods {
			methods = append(methods, dotEscape(methodLine(m)))
		}
		title := dotEscape(class.Name)
		if tag := stereotype(class); tag != "" {
			title = dotEscape(tag) + `\n` + title
		}
		fmt.Fprintf(&buf, "  %q [label=\"{%s|%s|%s}\"];\n",
			class.Name, title,
			strings.Join(fields, `\l`)+`\l`,
			strings.Join(methods, `\l`)+`\l`)
	}

	for _, rel := range d.Relationships() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", rel.From, rel.To, edgeAttrs(rel))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// edgeAttrs maps relationship types onto Graphviz arrow and line styles
// mirroring the canvas terminators.
func edgeAttrs(rel model.Relationship) string {
	var attrs []string
	switch rel.Type {
	case model.RelInheritance:
		attrs = append(attrs, "arrowhead=empty")
	case model.RelImplementation:
		attrs = append(attrs, "arrowhead=empty", "style=dashed")
	case model.RelComposition:
		attrs = append(attrs, "arrowhead=diamond")
	case model.RelAggregation:
		attrs = append(attrs, "arrowhead=odiamond")
	case model.RelDependency:
		attrs = append(attrs, "arrowhead=open", "style=dashed")
	default:
		attrs = append(attrs, "arrowhead=open")
	}
	if rel.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", rel.Label))
	}
	return strings.Join(attrs, ", ")
}

// RenderDOT renders DOT source to SVG in-process.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "initializing graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "parsing DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "rendering DOT")
	}
	return buf.Bytes(), nil
}

// dotEscape protects record-label metacharacters.
func dotEscape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"{", `\{`,
		"}", `\}`,
		"|", `\|`,
		"<", `\<`,
		">", `\>`,
	)
	return r.Replace(s)
}
