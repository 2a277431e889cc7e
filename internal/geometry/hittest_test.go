package geometry

import (
	"testing"

	"drawboard-backend/internal/shape"
)

func entriesOf(shapes ...shape.Shape) []Entry {
	out := make([]Entry, len(shapes))
	for i, s := range shapes {
		out[i] = Entry{ID: string(rune('a' + i)), Shape: s}
	}
	return out
}

func TestHitTestTopmostWins(t *testing.T) {
	// Two overlapping rects; the later entry renders frontmost.
	entries := []Entry{
		{ID: "back", Shape: &shape.Rect{X: 0, Y: 0, Width: 100, Height: 100}},
		{ID: "front", Shape: &shape.Rect{X: 50, Y: 50, Width: 100, Height: 100}},
	}

	hit := HitTest(entries, shape.Point{X: 75, Y: 75})
	if hit.Kind != HitInside || hit.ID != "front" {
		t.Fatalf("hit = %+v, want inside front", hit)
	}

	// Outside the front rect but inside the back one.
	hit = HitTest(entries, shape.Point{X: 25, Y: 25})
	if hit.Kind != HitInside || hit.ID != "back" {
		t.Fatalf("hit = %+v, want inside back", hit)
	}
}

func TestHitTestHandleBeatsInterior(t *testing.T) {
	// The SE corner of a 100x100 rect at the origin is (100,100); a press
	// within half the handle size of it must classify as a resize grip even
	// though the point is also inside the padded interior.
	entries := entriesOf(&shape.Rect{X: 0, Y: 0, Width: 100, Height: 100})

	hit := HitTest(entries, shape.Point{X: 99, Y: 99})
	if hit.Kind != HitHandle {
		t.Fatalf("hit = %+v, want handle", hit)
	}
	if hit.Handle != HandleSE {
		t.Fatalf("handle = %q, want %q", hit.Handle, HandleSE)
	}
}

func TestHitTestMissClears(t *testing.T) {
	entries := entriesOf(&shape.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	hit := HitTest(entries, shape.Point{X: 500, Y: 500})
	if hit.Kind != HitNone || hit.ID != "" {
		t.Fatalf("hit = %+v, want none", hit)
	}
}

func TestHitTestPaddedEdges(t *testing.T) {
	entries := entriesOf(&shape.Rect{X: 0, Y: 0, Width: 50, Height: 50})

	// Just inside the padding band still hits.
	if hit := HitTest(entries, shape.Point{X: -HitPadding + 0.5, Y: 25}); hit.Kind == HitNone {
		t.Fatal("point inside padding should hit")
	}
	// Just beyond it misses.
	if hit := HitTest(entries, shape.Point{X: -HitPadding - 1, Y: 25}); hit.Kind != HitNone {
		t.Fatalf("point beyond padding hit %+v", hit)
	}
}

func TestDiamondUsesTaxicabContainment(t *testing.T) {
	// 100x100 diamond centered at origin: a bounding-box corner is outside
	// the rotated square, but a point out on the axis is inside.
	d := &shape.Diamond{CenterX: 0, CenterY: 0, Width: 100, Height: 100}
	entries := entriesOf(d)

	if hit := HitTest(entries, shape.Point{X: 40, Y: 0}); hit.Kind != HitInside {
		t.Fatalf("axis point should be inside, got %+v", hit)
	}
	if hit := HitTest(entries, shape.Point{X: 40, Y: 40}); hit.Kind == HitInside {
		t.Fatal("bounding-box corner should be outside the diamond")
	}
}

func TestLineHitUsesSegmentDistance(t *testing.T) {
	line := &shape.Line{X1: 0, Y1: 0, X2: 100, Y2: 0}
	entries := entriesOf(line)

	// Near the segment, away from any handle position.
	if hit := HitTest(entries, shape.Point{X: 25, Y: HitPadding - 1}); hit.Kind != HitInside {
		t.Fatalf("near-segment point missed: %+v", hit)
	}
	// Same y-band but far past the endpoint: distance is to the endpoint,
	// not the infinite line.
	if hit := HitTest(entries, shape.Point{X: 130, Y: 0}); hit.Kind != HitNone {
		t.Fatalf("point past endpoint hit %+v", hit)
	}
}

func TestEraseTargetPencilUsesVertices(t *testing.T) {
	// An L-shaped stroke has a large bounding box; a point in the empty
	// middle of that box must not erase it.
	pencil := &shape.Pencil{Points: []shape.Point{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}}}
	entries := entriesOf(pencil)

	if _, ok := EraseTarget(entries, shape.Point{X: 60, Y: 30}); ok {
		t.Fatal("empty interior of stroke bbox should not erase")
	}
	if id, ok := EraseTarget(entries, shape.Point{X: 0, Y: 100 - EraserRadius + 1}); !ok || id != "a" {
		t.Fatalf("vertex-adjacent point should erase, got ok=%v id=%q", ok, id)
	}
}

func TestEraseTargetTopmostFirst(t *testing.T) {
	entries := []Entry{
		{ID: "old", Shape: &shape.Rect{X: 0, Y: 0, Width: 40, Height: 40}},
		{ID: "new", Shape: &shape.Rect{X: 0, Y: 0, Width: 40, Height: 40}},
	}
	id, ok := EraseTarget(entries, shape.Point{X: 20, Y: 20})
	if !ok || id != "new" {
		t.Fatalf("erase picked %q, want new", id)
	}
}

func TestHandlePositionsCoverCornersAndEdges(t *testing.T) {
	b := shape.Box{X: 0, Y: 0, Width: 10, Height: 20}
	got := map[Handle]shape.Point{}
	for _, hp := range HandlePositions(b) {
		got[hp.Handle] = hp.Pos
	}
	if len(got) != 8 {
		t.Fatalf("%d handles, want 8", len(got))
	}
	if p := got[HandleE]; p.X != 10 || p.Y != 10 {
		t.Fatalf("east handle at %+v, want (10,10)", p)
	}
	if p := got[HandleNW]; p.X != 0 || p.Y != 0 {
		t.Fatalf("nw handle at %+v, want origin", p)
	}
}
