package render

import (
	"strings"

	"github.com/classcanvas/classcanvas/pkg/model"
)

// visibilitySymbol maps visibility to the conventional UML marker.
func visibilitySymbol(v model.Visibility) string {
	switch v {
	case model.VisibilityPrivate:
		return "-"
	case model.VisibilityProtected:
		return "#"
	case model.VisibilityPackage:
		return "~"
	default:
		return "+"
	}
}

// fieldLine formats one field row. Inherited members carry their origin
// class in angle quotes after the type.
func fieldLine(f model.Field) string {
	var b strings.Builder
	b.WriteString(visibilitySymbol(f.Visibility))
	b.WriteByte(' ')
	b.WriteString(f.Name)
	if f.Type != "" {
		b.WriteString(": ")
		b.WriteString(f.Type)
	}
	if f.Static {
		b.WriteString(" $")
	}
	if f.Inherited && f.InheritedFrom != "" {
		b.WriteString(" «" + f.InheritedFrom + "»")
	}
	return b.String()
}

// methodLine formats one method row with its parameter list.
func methodLine(m model.Method) string {
	var b strings.Builder
	b.WriteString(visibilitySymbol(m.Visibility))
	b.WriteByte(' ')
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Type != "" {
			b.WriteString(": " + p.Type)
		}
	}
	b.WriteByte(')')
	if m.ReturnType != "" {
		b.WriteString(": " + m.ReturnType)
	}
	if m.Static {
		b.WriteString(" $")
	}
	if m.Inherited && m.InheritedFrom != "" {
		b.WriteString(" «" + m.InheritedFrom + "»")
	}
	return b.String()
}

// stereotype returns the header tag for a class kind.
func stereotype(c *model.ClassInfo) string {
	switch {
	case c.Interface:
		return "«interface»"
	case c.Abstract:
		return "«abstract»"
	default:
		return ""
	}
}

// truncate shortens a line to at most max runes, ellipsized.
func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// memberRows returns the display lines for a class: own fields, then
// inherited fields, then own methods, then inherited methods. The
// returned flags mark which rows are inherited and where the divider
// between the field and method sections sits.
func memberRows(c *model.ClassInfo) (lines []string, inherited []bool, divider int) {
	appendFields := func(wantInherited bool) {
		for _, f := range c.Fields {
			if f.Inherited != wantInherited {
				continue
			}
			lines = append(lines, fieldLine(f))
			inherited = append(inherited, f.Inherited)
		}
	}
	appendMethods := func(wantInherited bool) {
		for _, m := range c.Methods {
			if m.Inherited != wantInherited {
				continue
			}
			lines = append(lines, methodLine(m))
			inherited = append(inherited, m.Inherited)
		}
	}

	appendFields(false)
	appendFields(true)
	divider = len(lines)
	appendMethods(false)
	appendMethods(true)
	return lines, inherited, divider
}

// relationshipLabel names a relationship kind for its connector label.
func relationshipLabel(r model.Relationship) string {
	name := string(r.Type)
	if r.Label != "" {
		return name + ": " + r.Label
	}
	return name
}
