package shape

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeDispatchesOnType(t *testing.T) {
	cases := []struct {
		name string
		data string
		kind Kind
	}{
		{"rect", `{"type":"rect","x":1,"y":2,"width":3,"height":4}`, KindRect},
		{"circle", `{"type":"circle","centerX":5,"centerY":5,"radius":2}`, KindCircle},
		{"diamond", `{"type":"diamond","centerX":0,"centerY":0,"width":10,"height":6}`, KindDiamond},
		{"line", `{"type":"line","x1":0,"y1":0,"x2":10,"y2":10}`, KindLine},
		{"arrow", `{"type":"arrow","x1":0,"y1":0,"x2":-3,"y2":4}`, KindArrow},
		{"pencil", `{"type":"pencil","points":[{"x":0,"y":0},{"x":1,"y":1}]}`, KindPencil},
		{"text", `{"type":"text","x":0,"y":0,"width":100,"height":20,"fontSize":16,"content":"hi"}`, KindText},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sh, err := Decode([]byte(tc.data))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if sh.Kind() != tc.kind {
				t.Fatalf("kind = %q, want %q", sh.Kind(), tc.kind)
			}
		})
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"type":"hexagon","x":1}`))
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}

func TestEncodeRoundTripKeepsGeometry(t *testing.T) {
	w := 3.5
	orig := &Line{X1: 1, Y1: 2, X2: -4, Y2: 7, Style: Style{StrokeWidth: &w}}

	data, err := Encode(orig)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Tag must be present exactly once, at the top level.
	var probe map[string]any
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("unmarshal probe: %v", err)
	}
	if probe["type"] != "line" {
		t.Fatalf("type tag = %v, want line", probe["type"])
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	line, ok := back.(*Line)
	if !ok {
		t.Fatalf("decoded %T, want *Line", back)
	}
	if line.X2 != -4 || line.Y2 != 7 {
		t.Fatalf("endpoint = (%v,%v), want (-4,7)", line.X2, line.Y2)
	}
	if line.Width() != 3.5 {
		t.Fatalf("stroke width = %v, want 3.5", line.Width())
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := "#ff0000"
	orig := &Pencil{
		Points: []Point{{0, 0}, {5, 5}},
		Style:  Style{StrokeColor: &c},
	}

	cp := orig.Clone().(*Pencil)
	cp.Points[0].X = 99
	*cp.StrokeColor = "#000000"

	if orig.Points[0].X != 0 {
		t.Fatal("clone shares the points slice")
	}
	if *orig.StrokeColor != "#ff0000" {
		t.Fatal("clone shares the style pointer")
	}
}

func TestBoundsNormalizesNegativeExtents(t *testing.T) {
	// A line drawn right-to-left still yields a normalized box.
	line := &Line{X1: 10, Y1: 8, X2: 2, Y2: 1}
	b := line.Bounds()
	if b.X != 2 || b.Y != 1 || b.Width != 8 || b.Height != 7 {
		t.Fatalf("bounds = %+v", b)
	}

	circle := &Circle{CenterX: 0, CenterY: 0, Radius: 3}
	cb := circle.Bounds()
	if cb.X != -3 || cb.Width != 6 {
		t.Fatalf("circle bounds = %+v", cb)
	}
}

func TestStyleDefaults(t *testing.T) {
	var s Style
	if s.Width() != DefaultStrokeWidth {
		t.Fatalf("width = %v, want default %v", s.Width(), DefaultStrokeWidth)
	}
	if s.Color() != DefaultStrokeColor {
		t.Fatalf("color = %q, want default %q", s.Color(), DefaultStrokeColor)
	}
}
