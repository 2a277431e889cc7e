package geometry

import "drawboard-backend/internal/shape"

// Translate returns a copy of the shape moved by (dx, dy). Like resize, drag
// previews are computed from the gesture-start snapshot plus the cumulative
// delta, so the original is never mutated.
func Translate(s shape.Shape, dx, dy float64) shape.Shape {
	switch v := s.(type) {
	case *shape.Rect:
		out := v.Clone().(*shape.Rect)
		out.X += dx
		out.Y += dy
		return out
	case *shape.Circle:
		out := v.Clone().(*shape.Circle)
		out.CenterX += dx
		out.CenterY += dy
		return out
	case *shape.Diamond:
		out := v.Clone().(*shape.Diamond)
		out.CenterX += dx
		out.CenterY += dy
		return out
	case *shape.Line:
		out := v.Clone().(*shape.Line)
		out.X1 += dx
		out.Y1 += dy
		out.X2 += dx
		out.Y2 += dy
		return out
	case *shape.Arrow:
		out := v.Clone().(*shape.Arrow)
		out.X1 += dx
		out.Y1 += dy
		out.X2 += dx
		out.Y2 += dy
		return out
	case *shape.Pencil:
		out := v.Clone().(*shape.Pencil)
		for i := range out.Points {
			out.Points[i].X += dx
			out.Points[i].Y += dy
		}
		return out
	case *shape.Text:
		out := v.Clone().(*shape.Text)
		out.X += dx
		out.Y += dy
		return out
	default:
		return s.Clone()
	}
}
