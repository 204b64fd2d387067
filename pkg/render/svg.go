package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/classcanvas/classcanvas/pkg/layout"
	"github.com/classcanvas/classcanvas/pkg/model"
)

// SVGOption configures the SVG sink.
type SVGOption func(*svgRenderer)

// SVGWithTheme overrides the default palette.
func SVGWithTheme(t Theme) SVGOption {
	return func(r *svgRenderer) { r.theme = t }
}

type svgRenderer struct {
	theme Theme
}

// RenderSVG draws the diagram as a standalone SVG document.
func RenderSVG(d *model.ClassDiagram, ctx *layout.Context, routes []layout.Route, opts ...SVGOption) []byte {
	r := svgRenderer{theme: DefaultTheme()}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := ctx.Bounds()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)

	for _, route := range routes {
		r.renderRoute(&buf, ctx, route)
	}
	for _, level := range ctx.Levels {
		for _, name := range level {
			class, ok := d.Class(name)
			if !ok {
				continue
			}
			box, ok := ctx.Box(name)
			if !ok {
				continue
			}
			r.renderClass(&buf, class, box)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderClass(buf *bytes.Buffer, class *model.ClassInfo, box layout.Box) {
	t := r.theme
	headerH := headerHeight(box)

	fmt.Fprintf(buf, `  <g id="class-%s">`+"\n", esc(class.Name))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		box.X, box.Y, box.Width, box.Height, t.BoxFill, t.BoxBorder)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		box.X, box.Y, box.Width, headerH, headerColor(t, class))

	nameY := box.Y + headerH/2 + 4
	if tag := stereotype(class); tag != "" {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-size="%.0f" fill="%s">%s</text>`+"\n",
			box.CenterX(), box.Y+12, labelFontSize, t.HeaderText, esc(tag))
		nameY = box.Y + headerH - 8
	}
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
		box.CenterX(), nameY, headerFontSize, t.HeaderText, esc(class.Name))

	lines, inherited, divider := memberRows(class)
	maxChars := int((box.Width - 12) / charWidth)
	rowH := 16.0
	y := box.Y + headerH + 14
	for i, line := range lines {
		if i == divider && divider > 0 && divider < len(lines) {
			dy := y - rowH/2 - 4
			fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
				box.X, dy, box.Right(), dy, t.Divider)
		}
		style, color := "", t.Text
		if inherited[i] {
			style = ` font-style="italic"`
			color = t.InheritedText
		}
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.0f"%s fill="%s">%s</text>`+"\n",
			box.X+6, y, fontSize, style, color, esc(truncate(line, maxChars)))
		y += rowH
		if y > box.Bottom()-4 {
			break
		}
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderRoute(buf *bytes.Buffer, ctx *layout.Context, route layout.Route) {
	t := r.theme
	kind := markerFor(route.Rel.Type)
	dash := ""
	if route.Rel.Type == model.RelImplementation || route.Rel.Type == model.RelDependency {
		dash = ` stroke-dasharray="5 4"`
	}

	for _, branch := range route.Branches {
		fmt.Fprintf(buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="1.3"%s/>`+"\n",
			pointList(branch), t.Edge, dash)
	}
	fmt.Fprintf(buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="1.3"%s/>`+"\n",
		pointList(pathShortenedForMarker(route.Points, kind)), t.Edge, dash)

	r.renderMarker(buf, route.Points, kind)
	r.renderLabel(buf, ctx, route)
}

func (r *svgRenderer) renderMarker(buf *bytes.Buffer, pts []layout.Point, kind markerKind) {
	shape := markerPoints(pts, kind)
	if len(shape) == 0 {
		return
	}
	t := r.theme

	if !markerClosed(kind) {
		tip := shape[0]
		fmt.Fprintf(buf, `  <polyline points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="none" stroke="%s" stroke-width="1.3"/>`+"\n",
			shape[1].X, shape[1].Y, tip.X, tip.Y, shape[2].X, shape[2].Y, t.Edge)
		return
	}

	fill := t.BoxFill
	if markerFilled(kind) {
		fill = t.Edge
	}
	fmt.Fprintf(buf, `  <polygon points="%s" fill="%s" stroke="%s" stroke-width="1.3"/>`+"\n",
		pointList(shape), fill, t.Edge)
}

func (r *svgRenderer) renderLabel(buf *bytes.Buffer, ctx *layout.Context, route layout.Route) {
	t := r.theme
	text := relationshipLabel(route.Rel)
	w := float64(len(text))*labelFontSize*0.56 + 8
	h := labelFontSize + 6
	l := ctx.PlaceLabel(route.Points, w, h)

	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`+"\n",
		l.X, l.Y, l.Width, l.Height, t.LabelFill, t.LabelBorder)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-size="%.0f" fill="%s">%s</text>`+"\n",
		l.X+l.Width/2, l.Y+l.Height/2+3.5, labelFontSize, t.LabelText, esc(text))
}

// WrapPNGInSVG embeds an already-rendered PNG in a minimal SVG document,
// the trivial vector export.
func WrapPNGInSVG(png []byte, width, height float64) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%.0f" height="%.0f">`+"\n", width, height)
	fmt.Fprintf(&buf, `  <image width="%.0f" height="%.0f" xlink:href="data:image/png;base64,%s"/>`+"\n",
		width, height, base64.StdEncoding.EncodeToString(png))
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func pointList(pts []layout.Point) string {
	var b bytes.Buffer
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", p.X, p.Y)
	}
	return b.String()
}

func esc(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
