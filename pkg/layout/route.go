package layout

import (
	"math"

	"github.com/classcanvas/classcanvas/pkg/model"
)

// Route is one routed connector. Points runs from the source side to the
// target side; the terminator belongs at the last point. A fan-in route
// carries extra branch polylines that join the shared trunk.
type Route struct {
	Rel      model.Relationship
	Points   []Point
	Branches [][]Point
}

// RoutePaths computes an orthogonal path for every relationship whose
// endpoints both have positions. Relationships of the same type sharing
// a target are merged into a fan-in trunk when two or more sources
// participate. Committed segments are recorded on the context so later
// paths avoid reusing the same horizontal lines.
func RoutePaths(d *model.ClassDiagram, ctx *Context) []Route {
	var routes []Route

	type groupKey struct {
		to  string
		typ model.RelationshipType
	}
	groups := map[groupKey][]model.Relationship{}
	var order []groupKey
	for _, rel := range d.Relationships() {
		if rel.From == rel.To {
			continue
		}
		if _, ok := ctx.Positions[rel.From]; !ok {
			continue
		}
		if _, ok := ctx.Positions[rel.To]; !ok {
			continue
		}
		k := groupKey{rel.To, rel.Type}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], rel)
	}

	for _, k := range order {
		rels := groups[k]
		if len(rels) >= 2 && fanInEligible(ctx, rels) {
			routes = append(routes, routeFanIn(ctx, rels))
			continue
		}
		for _, rel := range rels {
			routes = append(routes, routeSingle(ctx, rel))
		}
	}
	return routes
}

// fanInEligible requires every source to sit on the same side (above or
// below) of the target so one horizontal trunk can collect them all.
func fanInEligible(ctx *Context, rels []model.Relationship) bool {
	target := ctx.Positions[rels[0].To]
	above, below := 0, 0
	for _, rel := range rels {
		src := ctx.Positions[rel.From]
		switch {
		case src.Bottom() <= target.Y:
			above++
		case src.Y >= target.Bottom():
			below++
		default:
			return false
		}
	}
	return above == len(rels) || below == len(rels)
}

// routeFanIn draws one shared horizontal trunk between the sources and
// the target, a branch from each source down (or up) to the trunk, and a
// single trunk-to-target segment.
func routeFanIn(ctx *Context, rels []model.Relationship) Route {
	cfg := ctx.Config
	target := ctx.Positions[rels[0].To]
	first := ctx.Positions[rels[0].From]
	fromAbove := first.Bottom() <= target.Y

	// Trunk sits in the gap between the sources and the target.
	var nearEdge float64
	if fromAbove {
		nearEdge = 0
		for _, rel := range rels {
			if b := ctx.Positions[rel.From].Bottom(); b > nearEdge {
				nearEdge = b
			}
		}
		nearEdge = (nearEdge + target.Y) / 2
	} else {
		nearEdge = math.Inf(1)
		for _, rel := range rels {
			if y := ctx.Positions[rel.From].Y; y < nearEdge {
				nearEdge = y
			}
		}
		nearEdge = (target.Bottom() + nearEdge) / 2
	}

	minX, maxX := target.CenterX(), target.CenterX()
	trunkY := pickWaist(ctx, nearEdge, minXOf(ctx, rels, target), maxXOf(ctx, rels, target), rels[0].From, rels[0].To)

	var branches [][]Point
	for _, rel := range rels {
		src := ctx.Positions[rel.From]
		x := src.CenterX() + typeOffset(rel.Type, cfg)
		var startY float64
		if fromAbove {
			startY = src.Bottom()
		} else {
			startY = src.Y
		}
		branch := []Point{{x, startY}, {x, trunkY}}
		branches = append(branches, branch)
		ctx.AddSegments(branch)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
	}

	tx := target.CenterX()
	var endY float64
	if fromAbove {
		endY = target.Y
	} else {
		endY = target.Bottom()
	}
	// Trunk span first, then the single drop to the target.
	main := []Point{{minX, trunkY}, {maxX, trunkY}, {tx, trunkY}, {tx, endY}}
	ctx.AddSegments(main)

	return Route{Rel: rels[0], Points: main, Branches: branches}
}

func minXOf(ctx *Context, rels []model.Relationship, target Box) float64 {
	min := target.CenterX()
	for _, rel := range rels {
		if x := ctx.Positions[rel.From].CenterX(); x < min {
			min = x
		}
	}
	return min
}

func maxXOf(ctx *Context, rels []model.Relationship, target Box) float64 {
	max := target.CenterX()
	for _, rel := range rels {
		if x := ctx.Positions[rel.From].CenterX(); x > max {
			max = x
		}
	}
	return max
}

// routeSingle draws a vertical-horizontal-vertical path when the boxes
// are stacked, or horizontal-vertical-horizontal when they sit side by
// side, offset per relationship type and routed around obstructions.
func routeSingle(ctx *Context, rel model.Relationship) Route {
	cfg := ctx.Config
	src := ctx.Positions[rel.From]
	dst := ctx.Positions[rel.To]
	off := typeOffset(rel.Type, cfg)

	var pts []Point
	switch {
	case src.Bottom() <= dst.Y: // source above target
		sx := src.CenterX() + off
		tx := dst.CenterX() + off
		waist := pickWaist(ctx, (src.Bottom()+dst.Y)/2, math.Min(sx, tx), math.Max(sx, tx), rel.From, rel.To)
		sx = nudgeVertical(ctx, sx, src.Bottom(), waist, rel.From, rel.To)
		tx = nudgeVertical(ctx, tx, waist, dst.Y, rel.From, rel.To)
		pts = []Point{{sx, src.Bottom()}, {sx, waist}, {tx, waist}, {tx, dst.Y}}
	case dst.Bottom() <= src.Y: // source below target
		sx := src.CenterX() + off
		tx := dst.CenterX() + off
		waist := pickWaist(ctx, (dst.Bottom()+src.Y)/2, math.Min(sx, tx), math.Max(sx, tx), rel.From, rel.To)
		sx = nudgeVertical(ctx, sx, src.Y, waist, rel.From, rel.To)
		tx = nudgeVertical(ctx, tx, waist, dst.Bottom(), rel.From, rel.To)
		pts = []Point{{sx, src.Y}, {sx, waist}, {tx, waist}, {tx, dst.Bottom()}}
	default: // side by side: horizontal-vertical-horizontal
		sy := src.CenterY() + off
		ty := dst.CenterY() + off
		var sx, tx float64
		if src.CenterX() < dst.CenterX() {
			sx, tx = src.Right(), dst.X
		} else {
			sx, tx = src.X, dst.Right()
		}
		midX := (sx + tx) / 2
		pts = []Point{{sx, sy}, {midX, sy}, {midX, ty}, {tx, ty}}
	}

	ctx.AddSegments(pts)
	return Route{Rel: rel, Points: pts}
}

// pickWaist chooses the horizontal waist Y for a path spanning
// [minX, maxX]. The naive midline is kept when it scores clean;
// otherwise candidates above and below each obstruction and at even
// fractions of the span are scored by how many boxes and used segments
// they would still conflict with, lowest first, zero short-circuiting.
func pickWaist(ctx *Context, naive, minX, maxX float64, from, to string) float64 {
	if score := waistScore(ctx, naive, minX, maxX, from, to); score == 0 {
		return naive
	}

	cfg := ctx.Config
	candidates := []float64{naive}
	for _, b := range ctx.boxes() {
		if b.Name == from || b.Name == to {
			continue
		}
		if b.Intersects(minX, naive, maxX, naive, cfg.EdgeMargin) {
			candidates = append(candidates,
				b.Y-cfg.EdgeMargin,
				b.Bottom()+cfg.EdgeMargin)
		}
	}
	span := cfg.LevelGap
	for _, f := range []float64{0.25, 0.5, 0.75} {
		candidates = append(candidates, naive+(f-0.5)*span)
	}

	best := naive
	bestScore := math.MaxInt32
	for _, y := range candidates {
		s := waistScore(ctx, y, minX, maxX, from, to)
		if s == 0 {
			return y
		}
		if s < bestScore {
			best, bestScore = y, s
		}
	}
	return best
}

// waistScore counts the boxes and committed horizontal segments a waist
// at y would conflict with across [minX, maxX].
func waistScore(ctx *Context, y, minX, maxX float64, from, to string) int {
	cfg := ctx.Config
	score := 0
	for _, b := range ctx.boxes() {
		if b.Name == from || b.Name == to {
			continue
		}
		if b.Intersects(minX, y, maxX, y, cfg.EdgeMargin) {
			score++
		}
	}
	for _, s := range ctx.Segments {
		if !s.Horizontal() {
			continue
		}
		if math.Abs(s.A.Y-y) > cfg.TypeOffset {
			continue
		}
		lo, hi := math.Min(s.A.X, s.B.X), math.Max(s.A.X, s.B.X)
		if lo <= maxX && hi >= minX {
			score++
		}
	}
	return score
}

// nudgeVertical shifts a vertical segment's x away from any unrelated
// box side edge it would shave past.
func nudgeVertical(ctx *Context, x, y1, y2 float64, from, to string) float64 {
	cfg := ctx.Config
	for _, b := range ctx.boxes() {
		if b.Name == from || b.Name == to {
			continue
		}
		if !b.Intersects(x, y1, x, y2, cfg.EdgeMargin) {
			continue
		}
		// Step just outside whichever side edge is closer.
		if math.Abs(x-b.X) < math.Abs(x-b.Right()) {
			x = b.X - cfg.EdgeMargin
		} else {
			x = b.Right() + cfg.EdgeMargin
		}
	}
	return x
}

// typeOffset spaces parallel edges of different relationship types so
// they do not draw on top of each other.
func typeOffset(t model.RelationshipType, cfg Config) float64 {
	rank := map[model.RelationshipType]float64{
		model.RelInheritance:    0,
		model.RelImplementation: 1,
		model.RelComposition:    2,
		model.RelAggregation:    3,
		model.RelAssociation:    4,
		model.RelDependency:     5,
	}
	return (rank[t] - 2.5) * cfg.TypeOffset
}
