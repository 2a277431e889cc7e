package store

import (
	"reflect"
	"testing"

	"drawboard-backend/internal/shape"
)

func rect(x float64) *shape.Rect {
	return &shape.Rect{X: x, Y: 0, Width: 10, Height: 10}
}

func TestAddPendingIsVisibleImmediately(t *testing.T) {
	renders := 0
	s := New(func() { renders++ }, nil)

	id := s.AddPending(rect(0))
	if !IsEphemeralID(id) {
		t.Fatalf("id %q is not ephemeral", id)
	}
	if renders != 1 {
		t.Fatalf("renders = %d, want 1 before any confirmation", renders)
	}

	got, ok := s.Get(id)
	if !ok || got.Status != StatusPending {
		t.Fatalf("entry = %+v, ok=%v", got, ok)
	}
	if got.TempID != id {
		t.Fatalf("tempID = %q, want the ephemeral id for reconciliation lookups", got.TempID)
	}
}

func TestReconcileSwapsInPlace(t *testing.T) {
	s := New(nil, nil)
	s.AddPending(rect(0))
	tempID := s.AddPending(rect(1))
	s.AddPending(rect(2))

	s.Reconcile(tempID, "42", rect(1))

	order := s.Order()
	if order[1] != "42" {
		t.Fatalf("order = %v, want durable id at position 1", order)
	}
	got, _ := s.Get("42")
	if got.Status != StatusConfirmed {
		t.Fatalf("status = %q, want confirmed", got.Status)
	}
	if got.TempID != "" {
		t.Fatalf("tempID = %q, want cleared once the id is durable", got.TempID)
	}
	if _, ok := s.Get(tempID); ok {
		t.Fatal("ephemeral id still resolvable after reconciliation")
	}
}

func TestReconcileMatchesByTempID(t *testing.T) {
	// An entry whose addressing id moved on can still be reconciled through
	// its retained ephemeral id.
	s := New(nil, nil)
	s.mu.Lock()
	s.shapes = append(s.shapes, Stored{ID: "local-1", TempID: "pending-y", Status: StatusPending, Shape: rect(0)})
	s.mu.Unlock()

	s.Reconcile("pending-y", "42", rect(0))

	if s.Len() != 1 {
		t.Fatalf("len = %d, want the entry swapped, not duplicated", s.Len())
	}
	got, ok := s.Get("42")
	if !ok || got.Status != StatusConfirmed || got.TempID != "" {
		t.Fatalf("entry = %+v, ok=%v", got, ok)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	// The relay may redeliver the confirmation; the scenario from a dropped
	// ack: tempId pending-1700000000000 confirmed as id 42, twice.
	s := New(nil, nil)
	tempID := "pending-1700000000000"
	s.mu.Lock()
	s.shapes = append(s.shapes, Stored{ID: tempID, Status: StatusPending, Shape: rect(0)})
	s.mu.Unlock()

	s.Reconcile(tempID, "42", rect(0))
	s.Reconcile(tempID, "42", rect(0))

	if s.Len() != 1 {
		t.Fatalf("len = %d, want a single entry", s.Len())
	}
	if got, ok := s.Get("42"); !ok || got.Status != StatusConfirmed {
		t.Fatalf("entry = %+v, ok=%v", got, ok)
	}
}

func TestReconcileUnknownTempUpserts(t *testing.T) {
	// A peer's creation arrives with a tempId we never issued.
	s := New(nil, nil)
	s.Reconcile("pending-someone-else", "7", rect(3))

	if got, ok := s.Get("7"); !ok || got.Status != StatusConfirmed {
		t.Fatalf("entry = %+v, ok=%v", got, ok)
	}
}

func TestApplyRemoteUpdateUpserts(t *testing.T) {
	s := New(nil, nil)
	s.ApplyRemoteUpdate("9", rect(1))
	s.ApplyRemoteUpdate("9", rect(5))

	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	got, _ := s.Get("9")
	if got.Shape.(*shape.Rect).X != 5 {
		t.Fatalf("shape = %+v, want replacement", got.Shape)
	}
}

func TestApplyRemoteDeleteIsIdempotent(t *testing.T) {
	s := New(nil, nil)
	s.ApplyRemoteUpdate("3", rect(0))
	s.Select("3")

	s.ApplyRemoteDelete("3")
	s.ApplyRemoteDelete("3")
	s.ApplyRemoteDelete("never-existed")

	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}
	if s.Selection() != "" {
		t.Fatalf("selection = %q, want cleared", s.Selection())
	}
}

func TestRemoteDeleteCancelsActiveGesture(t *testing.T) {
	s := New(nil, nil)
	s.ApplyRemoteUpdate("5", rect(0))
	s.PressAt(shape.Point{X: 5, Y: 5}) // starts a drag on "5"

	s.ApplyRemoteDelete("5")

	if _, _, ok := s.EndDrag(10, 10); ok {
		t.Fatal("drag survived deletion of its target")
	}
}

func TestReorderFollowsOrderAndKeepsUnmentioned(t *testing.T) {
	s := New(nil, nil)
	s.ApplyRemoteUpdate("1", rect(1))
	s.ApplyRemoteUpdate("2", rect(2))
	localID := s.AddPending(rect(9))
	s.ApplyRemoteUpdate("3", rect(3))

	// A peer restacked before seeing our pending shape or id 3.
	s.ApplyRemoteReorder([]string{"2", "1"})

	want := []string{"2", "1", localID, "3"}
	if got := s.Order(); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestReorderIgnoresUnknownAndDuplicateIDs(t *testing.T) {
	s := New(nil, nil)
	s.ApplyRemoteUpdate("1", rect(1))
	s.ApplyRemoteUpdate("2", rect(2))

	s.ApplyRemoteReorder([]string{"2", "ghost", "2", "1"})

	want := []string{"2", "1"}
	if got := s.Order(); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestBringToFrontEmitsFullOrder(t *testing.T) {
	var emitted []string
	s := New(nil, func(order []string) { emitted = order })
	s.ApplyRemoteUpdate("1", rect(1))
	s.ApplyRemoteUpdate("2", rect(2))
	s.ApplyRemoteUpdate("3", rect(3))

	s.BringToFront("1")

	want := []string{"2", "3", "1"}
	if !reflect.DeepEqual(s.Order(), want) {
		t.Fatalf("order = %v, want %v", s.Order(), want)
	}
	if !reflect.DeepEqual(emitted, want) {
		t.Fatalf("emitted = %v, want %v", emitted, want)
	}
}

func TestMarkFailedOnlyWhilePending(t *testing.T) {
	s := New(nil, nil)
	id := s.AddPending(rect(0))

	if !s.MarkFailed(id) {
		t.Fatal("pending entry should mark failed")
	}
	got, _ := s.Get(id)
	if got.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", got.Status)
	}

	// Already failed: no second transition.
	if s.MarkFailed(id) {
		t.Fatal("failed entry marked failed again")
	}

	// Confirmation that arrives late must not be failed afterwards.
	tempID := s.AddPending(rect(1))
	s.Reconcile(tempID, "11", rect(1))
	if s.MarkFailed("11") {
		t.Fatal("confirmed entry marked failed")
	}
}

func TestResumePendingAllowsRetry(t *testing.T) {
	s := New(nil, nil)
	id := s.AddPending(rect(4))
	s.MarkFailed(id)

	sh, ok := s.ResumePending(id)
	if !ok || sh == nil {
		t.Fatal("failed entry should resume")
	}
	got, _ := s.Get(id)
	if got.Status != StatusPending {
		t.Fatalf("status = %q, want pending", got.Status)
	}

	// Retry eventually confirms under the same ephemeral id.
	s.Reconcile(id, "77", sh)
	if got, _ := s.Get("77"); got.Status != StatusConfirmed {
		t.Fatalf("status = %q, want confirmed", got.Status)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(nil, nil)
	s.ApplyRemoteUpdate("1", rect(1))

	snap := s.Snapshot()
	snap[0].ID = "mutated"

	if s.Order()[0] != "1" {
		t.Fatal("snapshot aliases store state")
	}
}

func TestPressAtSelectsAndClears(t *testing.T) {
	s := New(nil, nil)
	s.ApplyRemoteUpdate("1", rect(0))

	hit := s.PressAt(shape.Point{X: 5, Y: 5})
	if hit.ID != "1" || s.Selection() != "1" {
		t.Fatalf("hit = %+v, selection = %q", hit, s.Selection())
	}

	s.PressAt(shape.Point{X: 500, Y: 500})
	if s.Selection() != "" {
		t.Fatalf("selection = %q, want cleared on miss", s.Selection())
	}
}

func TestEndStrokeStagesPendingPencil(t *testing.T) {
	s := New(nil, nil)
	s.BeginStroke()
	s.AddStrokePoint(shape.Point{X: 0, Y: 0})
	s.AddStrokePoint(shape.Point{X: 10, Y: 0})
	s.AddStrokePoint(shape.Point{X: 20, Y: 0})

	id, ok := s.EndStroke(shape.Style{})
	if !ok {
		t.Fatal("stroke with points should stage a shape")
	}
	got, _ := s.Get(id)
	pencil, isPencil := got.Shape.(*shape.Pencil)
	if !isPencil || got.Status != StatusPending {
		t.Fatalf("entry = %+v", got)
	}
	if len(pencil.Points) != 2 {
		t.Fatalf("collinear stroke kept %d points, want simplified 2", len(pencil.Points))
	}

	// Finishing again without a new stroke is a no-op.
	if _, ok := s.EndStroke(shape.Style{}); ok {
		t.Fatal("second EndStroke should report no stroke")
	}
}
