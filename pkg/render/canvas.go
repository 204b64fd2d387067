package render

import (
	"bytes"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/classcanvas/classcanvas/pkg/errors"
	"github.com/classcanvas/classcanvas/pkg/layout"
	"github.com/classcanvas/classcanvas/pkg/model"
)

const (
	fontSize       = 12.0
	headerFontSize = 13.0
	labelFontSize  = 10.0
	charWidth      = 6.6 // approximate advance for truncation math
)

// Canvas renders a diagram to an in-memory raster image.
type Canvas struct {
	theme   Theme
	scale   float64
	regular font.Face
	italic  font.Face
	bold    font.Face
	header  font.Face
	label   font.Face
}

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithTheme overrides the default palette.
func WithTheme(t Theme) CanvasOption {
	return func(c *Canvas) { c.theme = t }
}

// WithScale multiplies the output resolution (1 = layout units as pixels).
func WithScale(s float64) CanvasOption {
	return func(c *Canvas) {
		if s > 0 {
			c.scale = s
		}
	}
}

// NewCanvas creates a raster renderer with embedded Go fonts.
func NewCanvas(opts ...CanvasOption) (*Canvas, error) {
	c := &Canvas{theme: DefaultTheme(), scale: 1}
	for _, opt := range opts {
		opt(c)
	}

	faces := []struct {
		data []byte
		size float64
		dst  *font.Face
	}{
		{goregular.TTF, fontSize, &c.regular},
		{goitalic.TTF, fontSize, &c.italic},
		{gobold.TTF, fontSize, &c.bold},
		{gobold.TTF, headerFontSize, &c.header},
		{goregular.TTF, labelFontSize, &c.label},
	}
	for _, f := range faces {
		parsed, err := truetype.Parse(f.data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "parsing embedded font")
		}
		*f.dst = truetype.NewFace(parsed, &truetype.Options{Size: f.size * c.scale})
	}
	return c, nil
}

// Render draws the diagram and returns the image. The surface size comes
// from the layout bounds; relationships without positions for both
// endpoints were already dropped by the router.
func (c *Canvas) Render(d *model.ClassDiagram, ctx *layout.Context, routes []layout.Route) (image.Image, error) {
	w, h := ctx.Bounds()
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeEmptyDiagram, "nothing to render")
	}

	dc := gg.NewContext(int(w*c.scale), int(h*c.scale))
	dc.Scale(c.scale, c.scale)
	dc.SetHexColor(c.theme.Background)
	dc.Clear()

	// Connectors first so boxes sit on top of any segment that brushes
	// a box edge.
	for _, r := range routes {
		c.drawRoute(dc, ctx, r)
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
			c.drawClass(dc, class, box)
		}
	}
	return dc.Image(), nil
}

// EncodePNG renders and PNG-encodes the diagram.
func (c *Canvas) EncodePNG(d *model.ClassDiagram, ctx *layout.Context, routes []layout.Route) ([]byte, error) {
	img, err := c.Render(d, ctx, routes)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "encoding png")
	}
	return buf.Bytes(), nil
}

func (c *Canvas) drawClass(dc *gg.Context, class *model.ClassInfo, box layout.Box) {
	t := c.theme

	dc.SetHexColor(t.BoxFill)
	dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
	dc.Fill()

	headerH := headerHeight(box)
	dc.SetHexColor(headerColor(t, class))
	dc.DrawRectangle(box.X, box.Y, box.Width, headerH)
	dc.Fill()

	dc.SetHexColor(t.BoxBorder)
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
	dc.Stroke()

	// Header: stereotype line (when present) above the bold name.
	dc.SetHexColor(t.HeaderText)
	nameY := box.Y + headerH/2 + 2
	if tag := stereotype(class); tag != "" {
		dc.SetFontFace(c.label)
		dc.DrawStringAnchored(tag, box.CenterX(), box.Y+9, 0.5, 0.5)
		nameY = box.Y + headerH - 11
	}
	dc.SetFontFace(c.header)
	dc.DrawStringAnchored(class.Name, box.CenterX(), nameY, 0.5, 0.5)

	lines, inherited, divider := memberRows(class)
	maxChars := int((box.Width - 12) / charWidth)
	rowH := 16.0
	y := box.Y + headerH + 12
	for i, line := range lines {
		if i == divider && divider > 0 && divider < len(lines) {
			dc.SetHexColor(t.Divider)
			dc.SetLineWidth(1)
			dc.DrawLine(box.X, y-rowH/2-2, box.Right(), y-rowH/2-2)
			dc.Stroke()
		}
		if inherited[i] {
			dc.SetFontFace(c.italic)
			dc.SetHexColor(t.InheritedText)
		} else {
			dc.SetFontFace(c.regular)
			dc.SetHexColor(t.Text)
		}
		dc.DrawString(truncate(line, maxChars), box.X+6, y)
		y += rowH
		if y > box.Bottom()-4 {
			break
		}
	}
}

func (c *Canvas) drawRoute(dc *gg.Context, ctx *layout.Context, r layout.Route) {
	t := c.theme
	kind := markerFor(r.Rel.Type)
	dashed := r.Rel.Type == model.RelImplementation || r.Rel.Type == model.RelDependency

	dc.SetHexColor(t.Edge)
	dc.SetLineWidth(1.3)
	if dashed {
		dc.SetDash(5, 4)
	}
	for _, branch := range r.Branches {
		c.strokePath(dc, branch)
	}
	c.strokePath(dc, pathShortenedForMarker(r.Points, kind))
	dc.SetDash()

	c.drawMarker(dc, r.Points, kind)
	c.drawLabel(dc, ctx, r)
}

func (c *Canvas) strokePath(dc *gg.Context, pts []layout.Point) {
	if len(pts) < 2 {
		return
	}
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

func (c *Canvas) drawMarker(dc *gg.Context, pts []layout.Point, kind markerKind) {
	shape := markerPoints(pts, kind)
	if len(shape) == 0 {
		return
	}
	t := c.theme

	if !markerClosed(kind) {
		// Open arrow: two barbs stroked from the tip.
		tip := shape[0]
		dc.SetHexColor(t.Edge)
		dc.SetLineWidth(1.3)
		dc.DrawLine(tip.X, tip.Y, shape[1].X, shape[1].Y)
		dc.Stroke()
		dc.DrawLine(tip.X, tip.Y, shape[2].X, shape[2].Y)
		dc.Stroke()
		return
	}

	dc.MoveTo(shape[0].X, shape[0].Y)
	for _, p := range shape[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	if markerFilled(kind) {
		dc.SetHexColor(t.Edge)
		dc.Fill()
		return
	}
	dc.SetHexColor(t.BoxFill)
	dc.FillPreserve()
	dc.SetHexColor(t.Edge)
	dc.SetLineWidth(1.3)
	dc.Stroke()
}

func (c *Canvas) drawLabel(dc *gg.Context, ctx *layout.Context, r layout.Route) {
	text := relationshipLabel(r.Rel)
	w := float64(len(text))*labelFontSize*0.56 + 8
	h := labelFontSize + 6
	l := ctx.PlaceLabel(r.Points, w, h)

	t := c.theme
	dc.SetHexColor(t.LabelFill)
	dc.DrawRectangle(l.X, l.Y, l.Width, l.Height)
	dc.Fill()
	dc.SetHexColor(t.LabelBorder)
	dc.SetLineWidth(1)
	dc.DrawRectangle(l.X, l.Y, l.Width, l.Height)
	dc.Stroke()

	dc.SetFontFace(c.label)
	dc.SetHexColor(t.LabelText)
	dc.DrawStringAnchored(text, l.X+l.Width/2, l.Y+l.Height/2, 0.5, 0.5)
}

func headerColor(t Theme, c *model.ClassInfo) string {
	switch {
	case c.Interface:
		return t.HeaderInterface
	case c.Abstract:
		return t.HeaderAbstract
	default:
		return t.HeaderConcrete
	}
}

// headerHeight gives the band a little more room when a stereotype line
// is stacked above the name.
func headerHeight(box layout.Box) float64 {
	h := 34.0
	if h > box.Height {
		h = box.Height / 2
	}
	return h
}
