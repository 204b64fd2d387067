package render

import (
	"math"

	"github.com/classcanvas/classcanvas/pkg/layout"
	"github.com/classcanvas/classcanvas/pkg/model"
)

// markerKind selects the terminator shape for a relationship type.
type markerKind int

const (
	markerTriangle markerKind = iota // hollow: inheritance, implementation
	markerDiamondFilled              // composition
	markerDiamondHollow              // aggregation
	markerArrow                      // open arrow: association, dependency
)

func markerFor(t model.RelationshipType) markerKind {
	switch t {
	case model.RelInheritance, model.RelImplementation:
		return markerTriangle
	case model.RelComposition:
		return markerDiamondFilled
	case model.RelAggregation:
		return markerDiamondHollow
	default:
		return markerArrow
	}
}

// markerFilled reports whether the shape is drawn filled.
func markerFilled(k markerKind) bool { return k == markerDiamondFilled }

// markerClosed reports whether the shape is a closed polygon (the open
// arrow is two strokes, not a polygon).
func markerClosed(k markerKind) bool { return k != markerArrow }

const (
	markerLength = 14.0
	markerWidth  = 10.0
)

// markerPoints builds the terminator polygon at the end of a path. The
// tip sits on the final point; the shape extends back along the last
// segment's direction. For diamonds the polygon has four points, for
// triangles three, for the open arrow the two barb endpoints (to be
// stroked tip-to-barb).
func markerPoints(pts []layout.Point, kind markerKind) []layout.Point {
	if len(pts) < 2 {
		return nil
	}
	tip := pts[len(pts)-1]
	prev := pts[len(pts)-2]

	dx, dy := tip.X-prev.X, tip.Y-prev.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return nil
	}
	ux, uy := dx/dist, dy/dist // unit along the segment, toward the tip
	px, py := -uy, ux          // unit perpendicular

	back := layout.Point{X: tip.X - ux*markerLength, Y: tip.Y - uy*markerLength}
	left := layout.Point{X: back.X + px*markerWidth/2, Y: back.Y + py*markerWidth/2}
	right := layout.Point{X: back.X - px*markerWidth/2, Y: back.Y - py*markerWidth/2}

	switch kind {
	case markerTriangle:
		return []layout.Point{tip, left, right}
	case markerDiamondFilled, markerDiamondHollow:
		tail := layout.Point{X: tip.X - ux*markerLength*2, Y: tip.Y - uy*markerLength*2}
		return []layout.Point{tip, left, tail, right}
	default:
		return []layout.Point{tip, left, right}
	}
}

// pathShortenedForMarker trims the final segment so the stroked line
// stops at the marker's back edge instead of poking through it.
func pathShortenedForMarker(pts []layout.Point, kind markerKind) []layout.Point {
	if len(pts) < 2 || kind == markerArrow {
		return pts
	}
	length := markerLength
	if kind == markerDiamondFilled || kind == markerDiamondHollow {
		length *= 2
	}
	tip := pts[len(pts)-1]
	prev := pts[len(pts)-2]
	dx, dy := tip.X-prev.X, tip.Y-prev.Y
	dist := math.Hypot(dx, dy)
	if dist <= length {
		return pts
	}
	trimmed := make([]layout.Point, len(pts))
	copy(trimmed, pts)
	trimmed[len(pts)-1] = layout.Point{
		X: tip.X - dx/dist*length,
		Y: tip.Y - dy/dist*length,
	}
	return trimmed
}
