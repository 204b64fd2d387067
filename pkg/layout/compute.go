package layout

import "github.com/classcanvas/classcanvas/pkg/model"

// Compute runs the full layout pipeline — levels, ordering, positions —
// and returns the context ready for routing and rendering.
func Compute(d *model.ClassDiagram, cfg Config) *Context {
	ctx := NewContext(cfg)
	ctx.Levels = BuildLevels(d, cfg)
	OrderLevels(d, ctx.Levels, cfg)
	SolvePositions(d, ctx)
	return ctx
}
