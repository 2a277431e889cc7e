package shape

import "math"

// Rect is an axis-aligned rectangle anchored at its top-left origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Style
}

func (r *Rect) Kind() Kind { return KindRect }

func (r *Rect) Bounds() Box {
	return Box{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}.Normalized()
}

func (r *Rect) Clone() Shape {
	out := *r
	out.Style = r.Style.clone()
	return &out
}

// Circle is always a true circle, never an ellipse.
type Circle struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Radius  float64 `json:"radius"`
	Style
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Bounds() Box {
	return Box{
		X:      c.CenterX - c.Radius,
		Y:      c.CenterY - c.Radius,
		Width:  c.Radius * 2,
		Height: c.Radius * 2,
	}
}

func (c *Circle) Clone() Shape {
	out := *c
	out.Style = c.Style.clone()
	return &out
}

// Diamond is a rhombus described by its center and full extents.
type Diamond struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Style
}

func (d *Diamond) Kind() Kind { return KindDiamond }

func (d *Diamond) Bounds() Box {
	return Box{
		X:      d.CenterX - d.Width/2,
		Y:      d.CenterY - d.Height/2,
		Width:  d.Width,
		Height: d.Height,
	}.Normalized()
}

func (d *Diamond) Clone() Shape {
	out := *d
	out.Style = d.Style.clone()
	return &out
}

// Line is a straight segment between two endpoints.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
	Style
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Bounds() Box { return segmentBounds(l.X1, l.Y1, l.X2, l.Y2) }

func (l *Line) Clone() Shape {
	out := *l
	out.Style = l.Style.clone()
	return &out
}

// Arrow is a line with a head rendered at its end point. It shares no code
// with Line so each variant keeps its own complete field set.
type Arrow struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
	Style
}

func (a *Arrow) Kind() Kind { return KindArrow }

func (a *Arrow) Bounds() Box { return segmentBounds(a.X1, a.Y1, a.X2, a.Y2) }

func (a *Arrow) Clone() Shape {
	out := *a
	out.Style = a.Style.clone()
	return &out
}

// Pencil is a freehand stroke: an ordered list of simplified path points.
type Pencil struct {
	Points []Point `json:"points"`
	Style
}

func (p *Pencil) Kind() Kind { return KindPencil }

func (p *Pencil) Bounds() Box {
	if len(p.Points) == 0 {
		return Box{}
	}
	minX, minY := p.Points[0].X, p.Points[0].Y
	maxX, maxY := minX, minY
	for _, pt := range p.Points[1:] {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (p *Pencil) Clone() Shape {
	out := *p
	out.Points = make([]Point, len(p.Points))
	copy(out.Points, p.Points)
	out.Style = p.Style.clone()
	return &out
}

// Text is a wrapped text block inside an explicit box.
type Text struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	FontSize      float64 `json:"fontSize"`
	LineHeight    float64 `json:"lineHeight"`
	FontFamily    string  `json:"fontFamily"`
	Align         string  `json:"align"`         // left, center, right
	VerticalAlign string  `json:"verticalAlign"` // top, middle, bottom
	Content       string  `json:"content"`
	Style
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) Bounds() Box {
	return Box{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}.Normalized()
}

func (t *Text) Clone() Shape {
	out := *t
	out.Style = t.Style.clone()
	return &out
}

func segmentBounds(x1, y1, x2, y2 float64) Box {
	return Box{
		X:      math.Min(x1, x2),
		Y:      math.Min(y1, y2),
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}
