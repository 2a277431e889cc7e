package geometry

import "drawboard-backend/internal/shape"

// HitKind classifies the result of a selection probe.
type HitKind int

const (
	// HitNone means no shape was hit; selection should clear.
	HitNone HitKind = iota
	// HitInside means the point landed in a shape's padded interior.
	HitInside
	// HitHandle means the point landed on a resize handle.
	HitHandle
)

// Hit is the outcome of a selection probe.
type Hit struct {
	Kind   HitKind
	ID     string
	Handle Handle
}

// HitTest scans entries from topmost to bottommost so frontmost shapes
// occlude older ones, matching their visual stacking. For each shape the
// handle squares win over the padded interior.
func HitTest(entries []Entry, p shape.Point) Hit {
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Shape == nil {
			continue
		}
		if h, ok := HandleAt(e.Shape.Bounds(), p); ok {
			return Hit{Kind: HitHandle, ID: e.ID, Handle: h}
		}
		if containsPoint(e.Shape, p) {
			return Hit{Kind: HitInside, ID: e.ID}
		}
	}
	return Hit{Kind: HitNone}
}

// containsPoint is the variant-specific interior test with HitPadding
// tolerance.
func containsPoint(s shape.Shape, p shape.Point) bool {
	switch v := s.(type) {
	case *shape.Rect:
		return v.Bounds().Contains(p, HitPadding)
	case *shape.Text:
		return v.Bounds().Contains(p, HitPadding)
	case *shape.Circle:
		return distance(shape.Point{X: v.CenterX, Y: v.CenterY}, p) <= v.Radius+HitPadding
	case *shape.Diamond:
		return diamondContains(v, p, HitPadding)
	case *shape.Line:
		return pointSegmentDistance(p, shape.Point{X: v.X1, Y: v.Y1}, shape.Point{X: v.X2, Y: v.Y2}) <= HitPadding
	case *shape.Arrow:
		return pointSegmentDistance(p, shape.Point{X: v.X1, Y: v.Y1}, shape.Point{X: v.X2, Y: v.Y2}) <= HitPadding
	case *shape.Pencil:
		return v.Bounds().Contains(p, HitPadding)
	default:
		return false
	}
}

// EraseTarget returns the id of the topmost shape within the eraser's fixed
// proximity radius of p, or false when nothing is close enough.
func EraseTarget(entries []Entry, p shape.Point) (string, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Shape == nil {
			continue
		}
		if erasable(e.Shape, p) {
			return e.ID, true
		}
	}
	return "", false
}

func erasable(s shape.Shape, p shape.Point) bool {
	switch v := s.(type) {
	case *shape.Rect:
		return v.Bounds().Contains(p, EraserRadius)
	case *shape.Text:
		return v.Bounds().Contains(p, EraserRadius)
	case *shape.Circle:
		return distance(shape.Point{X: v.CenterX, Y: v.CenterY}, p) <= v.Radius+EraserRadius
	case *shape.Diamond:
		return diamondContains(v, p, EraserRadius)
	case *shape.Line:
		return pointSegmentDistance(p, shape.Point{X: v.X1, Y: v.Y1}, shape.Point{X: v.X2, Y: v.Y2}) <= EraserRadius
	case *shape.Arrow:
		return pointSegmentDistance(p, shape.Point{X: v.X1, Y: v.Y1}, shape.Point{X: v.X2, Y: v.Y2}) <= EraserRadius
	case *shape.Pencil:
		// Minimum distance to any path vertex, not the bounding box.
		for _, pt := range v.Points {
			if distance(pt, p) <= EraserRadius {
				return true
			}
		}
		return false
	default:
		return false
	}
}
