package geometry

import (
	"math"

	"drawboard-backend/internal/shape"
)

// Handle names one of the eight fixed resize positions on a bounding box.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
)

// movesLeft reports whether dragging this handle moves the left edge.
func (h Handle) movesLeft() bool { return h == HandleNW || h == HandleW || h == HandleSW }

// movesRight reports whether dragging this handle moves the right edge.
func (h Handle) movesRight() bool { return h == HandleNE || h == HandleE || h == HandleSE }

// movesTop reports whether dragging this handle moves the top edge.
func (h Handle) movesTop() bool { return h == HandleNW || h == HandleN || h == HandleNE }

// movesBottom reports whether dragging this handle moves the bottom edge.
func (h Handle) movesBottom() bool { return h == HandleSW || h == HandleS || h == HandleSE }

// affectsVertical reports whether the handle moves a horizontal edge.
func (h Handle) affectsVertical() bool { return h.movesTop() || h.movesBottom() }

// HandlePoint is a handle name with its canvas position.
type HandlePoint struct {
	Handle Handle
	Pos    shape.Point
}

// HandlePositions returns the eight handle centers for a bounding box:
// the four corners plus the four edge midpoints.
func HandlePositions(b shape.Box) []HandlePoint {
	n := b.Normalized()
	cx, cy := n.CenterX(), n.CenterY()
	return []HandlePoint{
		{HandleNW, shape.Point{X: n.X, Y: n.Y}},
		{HandleN, shape.Point{X: cx, Y: n.Y}},
		{HandleNE, shape.Point{X: n.MaxX(), Y: n.Y}},
		{HandleE, shape.Point{X: n.MaxX(), Y: cy}},
		{HandleSE, shape.Point{X: n.MaxX(), Y: n.MaxY()}},
		{HandleS, shape.Point{X: cx, Y: n.MaxY()}},
		{HandleSW, shape.Point{X: n.X, Y: n.MaxY()}},
		{HandleW, shape.Point{X: n.X, Y: cy}},
	}
}

// HandleAt returns the handle whose square contains p, if any. A handle
// square extends half of HandleSize from its center on each axis.
func HandleAt(b shape.Box, p shape.Point) (Handle, bool) {
	half := HandleSize / 2
	for _, hp := range HandlePositions(b) {
		if math.Abs(p.X-hp.Pos.X) <= half && math.Abs(p.Y-hp.Pos.Y) <= half {
			return hp.Handle, true
		}
	}
	return "", false
}
