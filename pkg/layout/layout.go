// Package layout turns a class diagram into box positions and orthogonal
// connector paths.
//
// The pipeline runs in four passes: hierarchy construction (inheritance
// levels, roots first), within-level ordering (crossing reduction), position
// solving (sizes, centering, overlap resolution), and path routing
// (rectilinear connectors with obstruction avoidance). Each render pass
// owns a fresh Context; nothing here is shared or persisted.
package layout

import "sort"

// Config carries the layout constants. Zero values are not meaningful;
// start from DefaultConfig and override.
type Config struct {
	// BoxWidth is the fixed width of every class box.
	BoxWidth float64
	// HeaderHeight is the height of the class header band.
	HeaderHeight float64
	// RowHeight is the per-member line height.
	RowHeight float64
	// BoxPadding is vertical padding inside a box below the member rows.
	BoxPadding float64
	// MinBoxHeight floors the computed box height.
	MinBoxHeight float64

	// HGap is the horizontal gap between boxes in a level.
	HGap float64
	// LevelGap is the base vertical gap between levels.
	LevelGap float64
	// LevelGapStep is added to LevelGap per unit of average relationship
	// density in the level above, up to MaxLevelGap.
	LevelGapStep float64
	// MaxLevelGap bounds the density-scaled level gap.
	MaxLevelGap float64
	// Margin is the outer margin around the whole drawing.
	Margin float64

	// OrderPasses caps the adjacent-swap crossing reduction sweeps.
	OrderPasses int
	// OverlapPasses caps the pairwise overlap resolution sweeps.
	OverlapPasses int
	// CentroidPull dampens the nudge toward the parents' centroid
	// (0 = no pull, 1 = jump to centroid).
	CentroidPull float64

	// IsolatedBatch caps how many isolated classes share one synthetic
	// level.
	IsolatedBatch int
	// MaxLevels guards against cyclic inheritance graphs.
	MaxLevels int

	// EdgeMargin is the clearance the router keeps from unrelated boxes.
	EdgeMargin float64
	// TypeOffset separates parallel edges of different relationship
	// types between the same pair of levels.
	TypeOffset float64
}

// DefaultConfig returns the built-in layout constants.
func DefaultConfig() Config {
	return Config{
		BoxWidth:      220,
		HeaderHeight:  34,
		RowHeight:     16,
		BoxPadding:    10,
		MinBoxHeight:  60,
		HGap:          48,
		LevelGap:      90,
		LevelGapStep:  14,
		MaxLevelGap:   170,
		Margin:        40,
		OrderPasses:   4,
		OverlapPasses: 16,
		CentroidPull:  0.5,
		IsolatedBatch: 4,
		MaxLevels:     12,
		EdgeMargin:    12,
		TypeOffset:    6,
	}
}

// Box is the placed rectangle for one class. Coordinates are in user
// units with the origin at the top-left, y growing downward.
type Box struct {
	Name          string
	X, Y          float64
	Width, Height float64
}

// Right returns the x-coordinate of the box's right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y-coordinate of the box's bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return b.Y + b.Height/2 }

// Intersects reports whether the box overlaps the given rectangle,
// expanded by margin on every side.
func (b Box) Intersects(x1, y1, x2, y2, margin float64) bool {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return b.X-margin < x2 && b.Right()+margin > x1 &&
		b.Y-margin < y2 && b.Bottom()+margin > y1
}

// Point is a path vertex.
type Point struct {
	X, Y float64
}

// Segment is one horizontal or vertical piece of a committed path.
type Segment struct {
	A, B Point
}

// Horizontal reports whether the segment runs left-right.
func (s Segment) Horizontal() bool { return s.A.Y == s.B.Y }

// LabelBox is a placed relationship label's bounding rectangle.
type LabelBox struct {
	X, Y          float64
	Width, Height float64
}

// Context is the per-render layout state: computed positions, committed
// path segments, and placed labels. Build one per render and discard it.
type Context struct {
	Config    Config
	Levels    [][]string
	Positions map[string]Box
	Segments  []Segment
	Labels    []LabelBox
}

// NewContext creates an empty layout context with the given config.
func NewContext(cfg Config) *Context {
	return &Context{
		Config:    cfg,
		Positions: make(map[string]Box),
	}
}

// Clone deep-copies the context. Label placement mutates the context, so
// each render pass over the same layout needs its own copy.
func (c *Context) Clone() *Context {
	out := &Context{
		Config:    c.Config,
		Levels:    make([][]string, len(c.Levels)),
		Positions: make(map[string]Box, len(c.Positions)),
		Segments:  append([]Segment(nil), c.Segments...),
		Labels:    append([]LabelBox(nil), c.Labels...),
	}
	for i, level := range c.Levels {
		out.Levels[i] = append([]string(nil), level...)
	}
	for name, box := range c.Positions {
		out.Positions[name] = box
	}
	return out
}

// boxes returns the placed boxes sorted by class name. Routing and
// label placement break ties by the first box seen, so they walk this
// slice instead of ranging over the Positions map.
func (c *Context) boxes() []Box {
	names := make([]string, 0, len(c.Positions))
	for name := range c.Positions {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Box, 0, len(names))
	for _, name := range names {
		out = append(out, c.Positions[name])
	}
	return out
}

// Box returns the placed box for a class, if it was positioned.
func (c *Context) Box(name string) (Box, bool) {
	b, ok := c.Positions[name]
	return b, ok
}

// Bounds returns the bounding rectangle of all placed boxes plus the
// configured margin. Empty contexts report zero bounds.
func (c *Context) Bounds() (width, height float64) {
	if len(c.Positions) == 0 {
		return 0, 0
	}
	var maxX, maxY float64
	for _, b := range c.Positions {
		if r := b.Right(); r > maxX {
			maxX = r
		}
		if bo := b.Bottom(); bo > maxY {
			maxY = bo
		}
	}
	return maxX + c.Config.Margin, maxY + c.Config.Margin
}

// AddSegments records a committed path so later routes avoid it.
func (c *Context) AddSegments(pts []Point) {
	for i := 0; i+1 < len(pts); i++ {
		c.Segments = append(c.Segments, Segment{A: pts[i], B: pts[i+1]})
	}
}
