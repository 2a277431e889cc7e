// Package geometry implements the per-tool math: bounding-box handles,
// selection and eraser hit-testing, resize transforms, and freehand path
// simplification. Everything here is a pure function of its inputs; the only
// state is the in-flight gesture snapshot the caller owns.
package geometry

import (
	"math"

	"drawboard-backend/internal/shape"
)

// Tool tolerances, in canvas units.
const (
	// HandleSize is the full edge length of a selection handle square.
	HandleSize = 8.0
	// HitPadding expands a shape's interior containment test.
	HitPadding = 5.0
	// EraserRadius is the fixed proximity radius of the eraser tool.
	EraserRadius = 8.0
	// MinShapeSize is the smallest bounding-box extent a resize may produce.
	MinShapeSize = 6.0
	// MinPointSpacing suppresses pointer jitter while drawing freehand.
	MinPointSpacing = 0.5
	// SimplifyTolerance is the Ramer-Douglas-Peucker deviation bound.
	SimplifyTolerance = 1.5
)

// Entry pairs a store id with its shape, in paint order (frontmost last).
type Entry struct {
	ID    string
	Shape shape.Shape
}

func distance(a, b shape.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// pointSegmentDistance returns the distance from p to the segment a-b.
func pointSegmentDistance(p, a, b shape.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return distance(p, shape.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// diamondContains tests taxicab-normalized containment: inside when the sum
// of the normalized center offsets is at most 1.
func diamondContains(d *shape.Diamond, p shape.Point, pad float64) bool {
	hw := math.Abs(d.Width)/2 + pad
	hh := math.Abs(d.Height)/2 + pad
	if hw == 0 || hh == 0 {
		return false
	}
	return math.Abs(p.X-d.CenterX)/hw+math.Abs(p.Y-d.CenterY)/hh <= 1
}
