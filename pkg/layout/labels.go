package layout

// labelOffsets is the candidate ring around a path midpoint, tried in
// order. The first entry doubles as the fallback when every candidate
// is occupied.
var labelOffsets = [][2]float64{
	{8, -20},
	{8, 6},
	{-8, -20}, // shifted left of the midpoint by the label width below
	{-8, 6},
	{8, -44},
	{8, 30},
	{-8, -44},
	{-8, 30},
}

// PlaceLabel chooses a position for a label of the given size near the
// midpoint of a routed path, picking the first ring candidate that
// overlaps no class box and no previously placed label. The chosen box
// is recorded on the context and returned.
func (c *Context) PlaceLabel(pts []Point, width, height float64) LabelBox {
	mx, my := pathMidpoint(pts)

	fallback := LabelBox{}
	for i, off := range labelOffsets {
		x := mx + off[0]
		if off[0] < 0 {
			x = mx + off[0] - width
		}
		candidate := LabelBox{X: x, Y: my + off[1], Width: width, Height: height}
		if i == 0 {
			fallback = candidate
		}
		if !c.labelCollides(candidate) {
			c.Labels = append(c.Labels, candidate)
			return candidate
		}
	}
	c.Labels = append(c.Labels, fallback)
	return fallback
}

func (c *Context) labelCollides(l LabelBox) bool {
	for _, b := range c.boxes() {
		if b.Intersects(l.X, l.Y, l.X+l.Width, l.Y+l.Height, 0) {
			return true
		}
	}
	for _, other := range c.Labels {
		if l.X < other.X+other.Width && l.X+l.Width > other.X &&
			l.Y < other.Y+other.Height && l.Y+l.Height > other.Y {
			return true
		}
	}
	return false
}

// pathMidpoint returns the midpoint of the middle segment, the natural
// anchor for a connector label.
func pathMidpoint(pts []Point) (float64, float64) {
	if len(pts) == 0 {
		return 0, 0
	}
	if len(pts) == 1 {
		return pts[0].X, pts[0].Y
	}
	i := (len(pts) - 1) / 2
	a, b := pts[i], pts[i+1]
	return (a.X + b.X) / 2, (a.Y + b.Y) / 2
}
