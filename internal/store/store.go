// Package store holds the client-side shape collection for one open room:
// ordered shapes in paint order, optimistic local edits under ephemeral ids,
// and the reconciliation logic that swaps them for durable records once the
// relay confirms.
package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"drawboard-backend/internal/shape"
)

// EphemeralPrefix marks client-generated placeholder ids.
const EphemeralPrefix = "pending-"

// Status tracks a shape's synchronization state from this client's view.
type Status string

const (
	// StatusPending means the creation was sent but not yet confirmed.
	StatusPending Status = "pending"
	// StatusConfirmed means the relay assigned a durable id.
	StatusConfirmed Status = "confirmed"
	// StatusFailed means the creation was never confirmed within the
	// deadline; the entry stays visible and can be retried.
	StatusFailed Status = "failed"
)

// Stored is one entry of the ordered shape collection. Array position is
// paint order: the last entry renders frontmost. TempID carries the
// ephemeral id for one-time reconciliation lookups and is cleared once the
// entry holds its durable id.
type Stored struct {
	ID     string
	TempID string
	Status Status
	Shape  shape.Shape
}

// Store is the mutable shape collection. Every state transition is a total
// function of the current sequence and the event payload: malformed or
// unknown ids degrade to no-ops or inserts, never errors.
type Store struct {
	mu        sync.Mutex
	shapes    []Stored
	selection string

	tool    Tool
	camera  Camera
	gesture gestureState

	onChange  func()
	onReorder func(order []string)
}

// New creates an empty store. onChange fires after every visible state
// transition (the render loop's redraw trigger); onReorder receives the full
// id order whenever a local restack should be broadcast. Either may be nil.
func New(onChange func(), onReorder func([]string)) *Store {
	return &Store{
		tool:      ToolSelect,
		camera:    Camera{Zoom: 1},
		onChange:  onChange,
		onReorder: onReorder,
	}
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// NewEphemeralID mints a collision-resistant placeholder id.
func NewEphemeralID() string {
	return EphemeralPrefix + uuid.NewString()
}

// IsEphemeralID reports whether id is a client-generated placeholder.
func IsEphemeralID(id string) bool {
	return strings.HasPrefix(id, EphemeralPrefix)
}

// AddPending appends a new shape at the end of the order (frontmost) under a
// fresh ephemeral id and returns that id for reconciliation matching. The
// shape is visible immediately, before any network confirmation.
func (s *Store) AddPending(sh shape.Shape) string {
	s.mu.Lock()
	id := NewEphemeralID()
	s.shapes = append(s.shapes, Stored{ID: id, TempID: id, Status: StatusPending, Shape: sh})
	s.mu.Unlock()

	s.notify()
	return id
}

// Reconcile replaces the entry addressed by tempID (matched against either
// ID or TempID) with the durable record, preserving its z-order position.
// When no entry matches (already reconciled, or a peer's creation) the
// durable record is upserted instead, which makes duplicate and
// out-of-order delivery idempotent.
func (s *Store) Reconcile(tempID, durableID string, sh shape.Shape) {
	s.mu.Lock()
	replaced := false
	for i := range s.shapes {
		if s.shapes[i].ID == tempID || s.shapes[i].TempID == tempID {
			s.shapes[i] = Stored{ID: durableID, Status: StatusConfirmed, Shape: sh}
			replaced = true
			break
		}
	}
	if !replaced {
		s.upsertLocked(durableID, sh)
	}
	s.mu.Unlock()

	s.notify()
}

// ApplyRemoteUpdate replaces the shape at id, inserting when absent so an
// update arriving before its creation record is not lost.
func (s *Store) ApplyRemoteUpdate(id string, sh shape.Shape) {
	s.mu.Lock()
	s.upsertLocked(id, sh)
	s.mu.Unlock()

	s.notify()
}

// upsertLocked replaces in place or appends; the store never holds two
// entries with the same id.
func (s *Store) upsertLocked(id string, sh shape.Shape) {
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			s.shapes[i].Shape = sh
			s.shapes[i].Status = StatusConfirmed
			s.shapes[i].TempID = ""
			return
		}
	}
	s.shapes = append(s.shapes, Stored{ID: id, Status: StatusConfirmed, Shape: sh})
}

// ApplyRemoteDelete removes the entry, clearing selection and cancelling any
// in-progress resize on it. Absent ids are a no-op, so duplicates converge.
func (s *Store) ApplyRemoteDelete(id string) {
	s.mu.Lock()
	idx := -1
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.shapes = append(s.shapes[:idx], s.shapes[idx+1:]...)
	if s.selection == id {
		s.selection = ""
	}
	s.gesture.cancelFor(id)
	s.mu.Unlock()

	s.notify()
}

// ApplyRemoteReorder rebuilds the sequence following order for every id
// present in both, then appends any local entries the order never mentioned,
// preserving their prior relative order. A stale reorder snapshot therefore
// cannot drop locally-created, not-yet-broadcast shapes.
func (s *Store) ApplyRemoteReorder(order []string) {
	s.mu.Lock()
	byID := make(map[string]int, len(s.shapes))
	for i := range s.shapes {
		byID[s.shapes[i].ID] = i
	}

	next := make([]Stored, 0, len(s.shapes))
	taken := make(map[string]bool, len(order))
	for _, id := range order {
		if i, ok := byID[id]; ok && !taken[id] {
			next = append(next, s.shapes[i])
			taken[id] = true
		}
	}
	for i := range s.shapes {
		if !taken[s.shapes[i].ID] {
			next = append(next, s.shapes[i])
		}
	}
	s.shapes = next
	s.mu.Unlock()

	s.notify()
}

// BringToFront moves the entry to the end of the order and emits a reorder
// intent carrying the full current id order.
func (s *Store) BringToFront(id string) {
	s.mu.Lock()
	idx := -1
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	entry := s.shapes[idx]
	s.shapes = append(s.shapes[:idx], s.shapes[idx+1:]...)
	s.shapes = append(s.shapes, entry)

	order := make([]string, len(s.shapes))
	for i := range s.shapes {
		order[i] = s.shapes[i].ID
	}
	emit := s.onReorder
	s.mu.Unlock()

	if emit != nil {
		emit(order)
	}
	s.notify()
}

// MarkFailed moves a still-pending entry to the failed state so the gap is
// observable instead of pending forever. Returns false when the entry was
// already confirmed or removed.
func (s *Store) MarkFailed(id string) bool {
	s.mu.Lock()
	ok := false
	for i := range s.shapes {
		if s.shapes[i].ID == id && s.shapes[i].Status == StatusPending {
			s.shapes[i].Status = StatusFailed
			ok = true
			break
		}
	}
	s.mu.Unlock()

	if ok {
		s.notify()
	}
	return ok
}

// ResumePending returns a failed entry to the pending state and hands back
// its shape so the caller can resend the creation under the same id.
func (s *Store) ResumePending(id string) (shape.Shape, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shapes {
		if s.shapes[i].ID == id && s.shapes[i].Status == StatusFailed {
			s.shapes[i].Status = StatusPending
			return s.shapes[i].Shape, true
		}
	}
	return nil, false
}

// Get returns the entry for id.
func (s *Store) Get(id string) (Stored, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			return s.shapes[i], true
		}
	}
	return Stored{}, false
}

// Len returns the number of stored shapes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shapes)
}

// Snapshot copies the current sequence in paint order for the render loop.
func (s *Store) Snapshot() []Stored {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Stored, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// Order returns the current id sequence in paint order.
func (s *Store) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.shapes))
	for i := range s.shapes {
		out[i] = s.shapes[i].ID
	}
	return out
}
