package geometry

import (
	"math"
	"testing"

	"drawboard-backend/internal/shape"
)

func TestSimplifyPreservesEndpoints(t *testing.T) {
	points := []shape.Point{{X: 0, Y: 0}, {X: 3, Y: 8}, {X: 7, Y: -2}, {X: 10, Y: 1}}
	for _, tol := range []float64{0, 0.5, SimplifyTolerance, 100, 1e9} {
		out := Simplify(points, tol)
		if len(out) < 2 {
			t.Fatalf("tolerance %v: %d points, want at least endpoints", tol, len(out))
		}
		if out[0] != points[0] || out[len(out)-1] != points[len(points)-1] {
			t.Fatalf("tolerance %v: endpoints moved: %v", tol, out)
		}
	}
}

func TestSimplifyCollapsesCollinearRuns(t *testing.T) {
	var points []shape.Point
	for i := 0; i <= 100; i++ {
		points = append(points, shape.Point{X: float64(i), Y: 0})
	}
	out := Simplify(points, SimplifyTolerance)
	if len(out) != 2 {
		t.Fatalf("collinear run simplified to %d points, want 2", len(out))
	}
}

func TestSimplifyKeepsSignificantDeviation(t *testing.T) {
	points := []shape.Point{{X: 0, Y: 0}, {X: 50, Y: 40}, {X: 100, Y: 0}}
	out := Simplify(points, SimplifyTolerance)
	if len(out) != 3 {
		t.Fatalf("corner dropped: %v", out)
	}
}

func TestStrokeBuilderRejectsJitter(t *testing.T) {
	b := NewStrokeBuilder()
	if !b.Add(shape.Point{X: 0, Y: 0}) {
		t.Fatal("first point rejected")
	}
	// Closer than the spacing floor to the last accepted point.
	if b.Add(shape.Point{X: 0.1, Y: 0.1}) {
		t.Fatal("jitter sample accepted")
	}
	if !b.Add(shape.Point{X: 1, Y: 1}) {
		t.Fatal("spaced sample rejected")
	}
	if b.Len() != 2 {
		t.Fatalf("accepted %d points, want 2", b.Len())
	}
}

func TestStrokeBuilderWorkingPathIsSimplified(t *testing.T) {
	b := NewStrokeBuilder()
	for i := 0; i <= 50; i++ {
		b.Add(shape.Point{X: float64(i), Y: 0})
	}
	if got := len(b.Points()); got != 2 {
		t.Fatalf("working path has %d points, want 2", got)
	}
}

func TestStrokeBuilderFinish(t *testing.T) {
	b := NewStrokeBuilder()
	if b.Finish(shape.Style{}) != nil {
		t.Fatal("empty stroke should finish to nil")
	}

	b.Add(shape.Point{X: 0, Y: 0})
	b.Add(shape.Point{X: 10, Y: 10})
	w := 4.0
	pencil := b.Finish(shape.Style{StrokeWidth: &w})
	if pencil == nil || len(pencil.Points) != 2 {
		t.Fatalf("pencil = %+v", pencil)
	}
	if pencil.Width() != 4 {
		t.Fatalf("width = %v, want 4", pencil.Width())
	}

	// The finished path is a copy, not the builder's working slice.
	pencil.Points[0].X = 99
	if b.Points()[0].X == 99 {
		t.Fatal("Finish shares the working slice")
	}
}

func TestPointSegmentDistance(t *testing.T) {
	a := shape.Point{X: 0, Y: 0}
	b := shape.Point{X: 10, Y: 0}

	if d := pointSegmentDistance(shape.Point{X: 5, Y: 3}, a, b); math.Abs(d-3) > 1e-9 {
		t.Fatalf("perpendicular distance = %v, want 3", d)
	}
	// Beyond the endpoint the projection clamps.
	if d := pointSegmentDistance(shape.Point{X: 14, Y: 3}, a, b); math.Abs(d-5) > 1e-9 {
		t.Fatalf("clamped distance = %v, want 5", d)
	}
	// Degenerate segment behaves as a point.
	if d := pointSegmentDistance(shape.Point{X: 3, Y: 4}, a, a); math.Abs(d-5) > 1e-9 {
		t.Fatalf("degenerate distance = %v, want 5", d)
	}
}
