package geometry

import (
	"math"

	"drawboard-backend/internal/shape"
)

// ResizeGesture snapshots a shape at gesture start. Apply is a pure function
// of the snapshot and the cumulative pointer delta, never of the previous
// preview frame, so repeated redraws cannot accumulate drift.
type ResizeGesture struct {
	Handle   Handle
	Original shape.Shape
	StartBox shape.Box
}

// StartResize captures the gesture-start snapshot for a shape.
func StartResize(s shape.Shape, h Handle) *ResizeGesture {
	return &ResizeGesture{
		Handle:   h,
		Original: s.Clone(),
		StartBox: s.Bounds(),
	}
}

// Apply computes the resized shape for the pointer's cumulative delta from
// gesture start. The snapshot is never mutated.
func (g *ResizeGesture) Apply(dx, dy float64) shape.Shape {
	newBox := resizeBox(g.StartBox, g.Handle, dx, dy)

	switch v := g.Original.(type) {
	case *shape.Rect:
		out := v.Clone().(*shape.Rect)
		out.X, out.Y = newBox.X, newBox.Y
		out.Width, out.Height = newBox.Width, newBox.Height
		return out

	case *shape.Circle:
		// Recenter and take half the larger extent: always a true circle.
		out := v.Clone().(*shape.Circle)
		out.CenterX = newBox.CenterX()
		out.CenterY = newBox.CenterY()
		out.Radius = math.Max(newBox.Width, newBox.Height) / 2
		return out

	case *shape.Diamond:
		out := v.Clone().(*shape.Diamond)
		out.CenterX = newBox.CenterX()
		out.CenterY = newBox.CenterY()
		out.Width, out.Height = newBox.Width, newBox.Height
		return out

	case *shape.Line:
		out := v.Clone().(*shape.Line)
		out.X1, out.Y1, out.X2, out.Y2 = resizeSegment(g, v.X1, v.Y1, v.X2, v.Y2, dx, dy)
		return out

	case *shape.Arrow:
		out := v.Clone().(*shape.Arrow)
		out.X1, out.Y1, out.X2, out.Y2 = resizeSegment(g, v.X1, v.Y1, v.X2, v.Y2, dx, dy)
		return out

	case *shape.Text:
		return resizeText(g, v, newBox)

	case *shape.Pencil:
		return resizePencil(g, v, newBox)

	default:
		return g.Original.Clone()
	}
}

// resizeBox moves only the edges the handle implies and clamps the result so
// neither extent falls below MinShapeSize, adjusting the side that moved
// rather than the anchored side.
func resizeBox(b shape.Box, h Handle, dx, dy float64) shape.Box {
	n := b.Normalized()
	left, top := n.X, n.Y
	right, bottom := n.MaxX(), n.MaxY()

	if h.movesLeft() {
		left += dx
		if right-left < MinShapeSize {
			left = right - MinShapeSize
		}
	}
	if h.movesRight() {
		right += dx
		if right-left < MinShapeSize {
			right = left + MinShapeSize
		}
	}
	if h.movesTop() {
		top += dy
		if bottom-top < MinShapeSize {
			top = bottom - MinShapeSize
		}
	}
	if h.movesBottom() {
		bottom += dy
		if bottom-top < MinShapeSize {
			bottom = top + MinShapeSize
		}
	}

	return shape.Box{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// resizeSegment moves only the endpoint nearer the dragged side. Left-family
// handles move the start point, right-family handles move the end point, and
// top/bottom handles move whichever endpoint sat vertically closer to that
// edge in the original box.
func resizeSegment(g *ResizeGesture, x1, y1, x2, y2, dx, dy float64) (float64, float64, float64, float64) {
	h := g.Handle
	moveStart := false
	switch {
	case h.movesLeft():
		moveStart = true
	case h.movesRight():
		moveStart = false
	case h == HandleN:
		moveStart = math.Abs(y1-g.StartBox.Y) <= math.Abs(y2-g.StartBox.Y)
	case h == HandleS:
		moveStart = math.Abs(y1-g.StartBox.MaxY()) <= math.Abs(y2-g.StartBox.MaxY())
	}

	mx, my := dx, dy
	if !h.movesLeft() && !h.movesRight() {
		mx = 0
	}
	if !h.affectsVertical() {
		my = 0
	}

	if moveStart {
		nx, ny := clampEndpoint(x1+mx, y1+my, x2, y2, x1, y1)
		return nx, ny, x2, y2
	}
	nx, ny := clampEndpoint(x2+mx, y2+my, x1, y1, x2, y2)
	return x1, y1, nx, ny
}

// clampEndpoint keeps the moved endpoint at least MinShapeSize away from the
// anchored one on each axis the segment originally spanned, so a drag past
// the anchor pins the moved side instead of inverting.
func clampEndpoint(nx, ny, ax, ay, origX, origY float64) (float64, float64) {
	if math.Abs(origX-ax) >= MinShapeSize {
		if origX >= ax && nx < ax+MinShapeSize {
			nx = ax + MinShapeSize
		} else if origX < ax && nx > ax-MinShapeSize {
			nx = ax - MinShapeSize
		}
	}
	if math.Abs(origY-ay) >= MinShapeSize {
		if origY >= ay && ny < ay+MinShapeSize {
			ny = ay + MinShapeSize
		} else if origY < ay && ny > ay-MinShapeSize {
			ny = ay - MinShapeSize
		}
	}
	return nx, ny
}

// resizeText rescales the font with the vertical scale factor on a
// vertical-affecting handle, re-wraps the content against the new width, and
// recomputes height from the wrapped line count.
func resizeText(g *ResizeGesture, t *shape.Text, newBox shape.Box) shape.Shape {
	out := t.Clone().(*shape.Text)
	out.X, out.Y = newBox.X, newBox.Y
	out.Width = newBox.Width

	if g.Handle.affectsVertical() && g.StartBox.Height > 0 {
		out.FontSize = t.FontSize * (newBox.Height / g.StartBox.Height)
	}

	lines := WrapText(out.Content, out.Width, out.FontSize)
	lineCount := len(lines)
	if lineCount == 0 {
		lineCount = 1
	}
	lineHeight := out.LineHeight
	if lineHeight <= 0 {
		lineHeight = DefaultLineHeight
	}
	out.Height = float64(lineCount) * out.FontSize * lineHeight
	if out.Height < MinShapeSize {
		out.Height = MinShapeSize
	}
	return out
}

// resizePencil scales every path point about the original box's center by
// the extent scale factors, then translates so the path center lands on the
// new box's center.
func resizePencil(g *ResizeGesture, p *shape.Pencil, newBox shape.Box) shape.Shape {
	sx, sy := 1.0, 1.0
	if g.StartBox.Width > 0 {
		sx = newBox.Width / g.StartBox.Width
	}
	if g.StartBox.Height > 0 {
		sy = newBox.Height / g.StartBox.Height
	}
	ocx, ocy := g.StartBox.CenterX(), g.StartBox.CenterY()
	ncx, ncy := newBox.CenterX(), newBox.CenterY()

	out := p.Clone().(*shape.Pencil)
	for i, pt := range out.Points {
		out.Points[i] = shape.Point{
			X: ncx + (pt.X-ocx)*sx,
			Y: ncy + (pt.Y-ocy)*sy,
		}
	}
	return out
}
