package layout

import (
	"github.com/classcanvas/classcanvas/pkg/model"
)

// SolvePositions assigns a box to every leveled class. Boxes have the
// configured fixed width and a height derived from the member counts.
// Levels stack top to bottom with a gap scaled by the level's average
// relationship density; each level is centered under the widest level,
// then classes are pulled toward the centroid of their placed parents
// and pairwise overlaps are pushed apart over a bounded number of
// alternating sweeps.
func SolvePositions(d *model.ClassDiagram, ctx *Context) {
	cfg := ctx.Config

	// First pass: sizes and naive left-to-right placement.
	widest := 0.0
	for _, level := range ctx.Levels {
		w := levelWidth(len(level), cfg)
		if w > widest {
			widest = w
		}
	}

	y := cfg.Margin
	for _, level := range ctx.Levels {
		x := cfg.Margin + (widest-levelWidth(len(level), cfg))/2
		tallest := 0.0
		for _, name := range level {
			h := boxHeight(d, name, cfg)
			ctx.Positions[name] = Box{
				Name:   name,
				X:      x,
				Y:      y,
				Width:  cfg.BoxWidth,
				Height: h,
			}
			x += cfg.BoxWidth + cfg.HGap
			if h > tallest {
				tallest = h
			}
		}
		y += tallest + levelGap(d, level, cfg)
	}

	// Second pass: damped pull toward the parents' centroid, then
	// overlap resolution, level by level.
	for i, level := range ctx.Levels {
		if i > 0 {
			pullTowardParents(d, ctx, level)
		}
		resolveOverlaps(ctx, level)
	}
}

func levelWidth(n int, cfg Config) float64 {
	if n == 0 {
		return 0
	}
	return float64(n)*cfg.BoxWidth + float64(n-1)*cfg.HGap
}

// boxHeight derives a class box height from its member counts, floored
// at the configured minimum.
func boxHeight(d *model.ClassDiagram, name string, cfg Config) float64 {
	c, ok := d.Class(name)
	if !ok {
		return cfg.MinBoxHeight
	}
	rows := len(c.Fields) + len(c.Methods)
	h := cfg.HeaderHeight + float64(rows)*cfg.RowHeight + cfg.BoxPadding
	if h < cfg.MinBoxHeight {
		h = cfg.MinBoxHeight
	}
	return h
}

// levelGap grows the base gap with the level's average relationship
// degree, bounded by MaxLevelGap. Densely connected levels get more
// vertical room for connector waists.
func levelGap(d *model.ClassDiagram, level []string, cfg Config) float64 {
	if len(level) == 0 {
		return cfg.LevelGap
	}
	total := 0
	for _, name := range level {
		total += d.Degree(name)
	}
	avg := float64(total) / float64(len(level))
	gap := cfg.LevelGap + avg*cfg.LevelGapStep
	if gap > cfg.MaxLevelGap {
		gap = cfg.MaxLevelGap
	}
	return gap
}

// pullTowardParents nudges each class horizontally toward the x-centroid
// of its already-placed direct parents, damped by CentroidPull.
func pullTowardParents(d *model.ClassDiagram, ctx *Context, level []string) {
	for _, name := range level {
		box, ok := ctx.Positions[name]
		if !ok {
			continue
		}
		sum, n := 0.0, 0
		for _, parent := range d.Parents(name) {
			if pb, ok := ctx.Positions[parent]; ok && pb.Y < box.Y {
				sum += pb.CenterX()
				n++
			}
		}
		if n == 0 {
			continue
		}
		centroid := sum / float64(n)
		box.X += (centroid - box.CenterX()) * ctx.Config.CentroidPull
		ctx.Positions[name] = box
	}
}

// resolveOverlaps pushes horizontally overlapping neighbors apart by half
// the excess on each side, sweeping alternately left-to-right and
// right-to-left until clean or the pass cap is hit.
func resolveOverlaps(ctx *Context, level []string) {
	cfg := ctx.Config
	passes := cfg.OverlapPasses
	if passes <= 0 {
		passes = 1
	}
	for pass := 0; pass < passes; pass++ {
		moved := false
		if pass%2 == 0 {
			for i := 0; i+1 < len(level); i++ {
				if pushApart(ctx, level[i], level[i+1]) {
					moved = true
				}
			}
		} else {
			for i := len(level) - 2; i >= 0; i-- {
				if pushApart(ctx, level[i], level[i+1]) {
					moved = true
				}
			}
		}
		if !moved {
			return
		}
	}
}

func pushApart(ctx *Context, leftName, rightName string) bool {
	left, ok1 := ctx.Positions[leftName]
	right, ok2 := ctx.Positions[rightName]
	if !ok1 || !ok2 {
		return false
	}
	// Keep the level's left-right order even if the centroid pull
	// reordered centers.
	if right.X < left.X {
		left.X, right.X = right.X, left.X
	}
	overlap := left.Right() + ctx.Config.HGap - right.X
	if overlap <= 0 {
		return false
	}
	left.X -= overlap / 2
	right.X += overlap / 2
	if left.X < ctx.Config.Margin {
		shift := ctx.Config.Margin - left.X
		left.X += shift
		right.X += shift
	}
	ctx.Positions[leftName] = left
	ctx.Positions[rightName] = right
	return true
}
