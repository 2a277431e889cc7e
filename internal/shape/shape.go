package shape

import "errors"

var ErrUnknownKind = errors.New("unknown shape kind")

// Kind discriminates the shape union on the wire and in storage.
type Kind string

const (
	KindRect    Kind = "rect"
	KindCircle  Kind = "circle"
	KindDiamond Kind = "diamond"
	KindLine    Kind = "line"
	KindArrow   Kind = "arrow"
	KindPencil  Kind = "pencil"
	KindText    Kind = "text"
)

// Point is a 2D canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned bounding rectangle. All hit-testing and resize
// math is derived from Bounds() plus variant-specific refinement.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MaxX returns the right edge.
func (b Box) MaxX() float64 { return b.X + b.Width }

// MaxY returns the bottom edge.
func (b Box) MaxY() float64 { return b.Y + b.Height }

// CenterX returns the horizontal center.
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center.
func (b Box) CenterY() float64 { return b.Y + b.Height/2 }

// Normalized flips negative extents so Width and Height are non-negative.
func (b Box) Normalized() Box {
	if b.Width < 0 {
		b.X += b.Width
		b.Width = -b.Width
	}
	if b.Height < 0 {
		b.Y += b.Height
		b.Height = -b.Height
	}
	return b
}

// Contains reports whether the point lies inside the box expanded by pad on
// every side.
func (b Box) Contains(p Point, pad float64) bool {
	n := b.Normalized()
	return p.X >= n.X-pad && p.X <= n.MaxX()+pad &&
		p.Y >= n.Y-pad && p.Y <= n.MaxY()+pad
}

// Session defaults applied when a shape carries no explicit style.
const (
	DefaultStrokeWidth = 2.0
	DefaultStrokeColor = "#1e1e1e"
)

// Style holds the optional stroke attributes shared by every variant.
// Absent values fall back to the session defaults.
type Style struct {
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	StrokeColor *string  `json:"strokeColor,omitempty"`
}

// Width returns the stroke width or the session default.
func (s Style) Width() float64 {
	if s.StrokeWidth != nil {
		return *s.StrokeWidth
	}
	return DefaultStrokeWidth
}

// Color returns the stroke color or the session default.
func (s Style) Color() string {
	if s.StrokeColor != nil {
		return *s.StrokeColor
	}
	return DefaultStrokeColor
}

func (s Style) clone() Style {
	out := Style{}
	if s.StrokeWidth != nil {
		w := *s.StrokeWidth
		out.StrokeWidth = &w
	}
	if s.StrokeColor != nil {
		c := *s.StrokeColor
		out.StrokeColor = &c
	}
	return out
}

// Shape is the tagged union over all drawable variants. Every variant
// declares its complete field set; geometry helpers switch on Kind and never
// reach into fields another variant owns.
type Shape interface {
	Kind() Kind
	// Bounds returns the deterministic axis-aligned bounding box.
	Bounds() Box
	// Clone returns a structural deep copy, safe to snapshot before a
	// gesture mutates the original.
	Clone() Shape
}
