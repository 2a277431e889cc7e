package geometry

import (
	"math"

	"drawboard-backend/internal/shape"
)

// StrokeBuilder accumulates a freehand stroke. Pointer samples closer than
// MinPointSpacing to the last accepted point are dropped to suppress jitter,
// and the accepted sequence is re-simplified after every accepted point so
// the working path is always render-ready.
type StrokeBuilder struct {
	accepted   []shape.Point
	simplified []shape.Point
}

// NewStrokeBuilder starts an empty stroke.
func NewStrokeBuilder() *StrokeBuilder {
	return &StrokeBuilder{}
}

// Add offers a pointer sample. It returns true when the point was accepted.
func (b *StrokeBuilder) Add(p shape.Point) bool {
	if n := len(b.accepted); n > 0 && distance(b.accepted[n-1], p) < MinPointSpacing {
		return false
	}
	b.accepted = append(b.accepted, p)
	b.simplified = Simplify(b.accepted, SimplifyTolerance)
	return true
}

// Points returns the current simplified path. The slice is shared; callers
// that keep it across further Add calls must copy.
func (b *StrokeBuilder) Points() []shape.Point {
	return b.simplified
}

// Len returns the number of accepted (pre-simplification) points.
func (b *StrokeBuilder) Len() int { return len(b.accepted) }

// Finish returns the simplified stroke as a pencil shape, or nil when the
// stroke never accepted a point.
func (b *StrokeBuilder) Finish(style shape.Style) *shape.Pencil {
	if len(b.simplified) == 0 {
		return nil
	}
	pts := make([]shape.Point, len(b.simplified))
	copy(pts, b.simplified)
	return &shape.Pencil{Points: pts, Style: style}
}

// Simplify runs Ramer-Douglas-Peucker on the point sequence: keep the point
// of maximum perpendicular deviation from the endpoint chord when it exceeds
// tolerance and recurse on both halves, otherwise collapse the run to its
// endpoints. The first and last points are always preserved.
func Simplify(points []shape.Point, tolerance float64) []shape.Point {
	if len(points) <= 2 {
		out := make([]shape.Point, len(points))
		copy(out, points)
		return out
	}

	maxDist := 0.0
	maxIdx := 0
	first, last := points[0], points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		if d := perpendicularDistance(points[i], first, last); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= tolerance {
		return []shape.Point{first, last}
	}

	left := Simplify(points[:maxIdx+1], tolerance)
	right := Simplify(points[maxIdx:], tolerance)
	return append(left[:len(left)-1], right...)
}

// perpendicularDistance is the deviation of p from the chord a-b. When the
// chord is degenerate it falls back to plain distance.
func perpendicularDistance(p, a, b shape.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return distance(p, a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / norm
}
