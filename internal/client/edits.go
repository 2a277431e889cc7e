package client

import (
	"log"
	"time"

	"drawboard-backend/internal/protocol"
	"drawboard-backend/internal/shape"
)

// CreateShape stages the shape locally under an ephemeral id and sends the
// creation. If no confirmation echoes back within the deadline the entry is
// marked failed so the user can retry it.
func (s *Session) CreateShape(sh shape.Shape) string {
	tempID := s.store.AddPending(sh)
	s.send(&protocol.Message{
		Type:   protocol.TypeChat,
		RoomID: s.roomID,
		TempID: tempID,
		Shape:  shape.Wrap(sh),
	})
	s.armConfirm(tempID)
	return tempID
}

// Retry resends a failed creation under its original ephemeral id, so the
// eventual confirmation still reconciles the same entry.
func (s *Session) Retry(tempID string) bool {
	sh, ok := s.store.ResumePending(tempID)
	if !ok {
		return false
	}
	s.send(&protocol.Message{
		Type:   protocol.TypeChat,
		RoomID: s.roomID,
		TempID: tempID,
		Shape:  shape.Wrap(sh),
	})
	s.armConfirm(tempID)
	return true
}

// UpdateShape sends a whole-shape replacement. Last completed write wins;
// there is no merge.
func (s *Session) UpdateShape(id string, sh shape.Shape) {
	s.store.ApplyRemoteUpdate(id, sh)
	s.send(&protocol.Message{
		Type:   protocol.TypeUpdate,
		RoomID: s.roomID,
		ID:     id,
		Shape:  shape.Wrap(sh),
	})
}

// DeleteShape removes the shape locally, and tells the relay when the id is
// durable. Shapes still under an ephemeral id exist only on this client, so
// there is nothing remote to delete; if a confirmation races in afterwards
// the reconcile upsert restores the shape and the user deletes it again.
func (s *Session) DeleteShape(id string) {
	s.store.ApplyRemoteDelete(id)
	if protocol.LooksDurable(id) {
		s.send(&protocol.Message{
			Type:   protocol.TypeDelete,
			RoomID: s.roomID,
			ID:     id,
		})
	}
}

// EraseAt deletes the topmost shape under the eraser, if any.
func (s *Session) EraseAt(p shape.Point) (string, bool) {
	id, ok := s.store.EraseAt(p)
	if !ok {
		return "", false
	}
	s.DeleteShape(id)
	return id, true
}

// FinishStroke completes the active pencil stroke and sends its creation.
func (s *Session) FinishStroke(style shape.Style) (string, bool) {
	tempID, ok := s.store.EndStroke(style)
	if !ok {
		return "", false
	}
	stored, ok := s.store.Get(tempID)
	if !ok {
		return "", false
	}
	s.send(&protocol.Message{
		Type:   protocol.TypeChat,
		RoomID: s.roomID,
		TempID: tempID,
		Shape:  shape.Wrap(stored.Shape),
	})
	s.armConfirm(tempID)
	return tempID, true
}

// FinishResize completes the active resize and broadcasts the final shape.
func (s *Session) FinishResize(dx, dy float64) {
	id, final, ok := s.store.EndResize(dx, dy)
	if !ok {
		return
	}
	s.sendFinal(id, final)
}

// FinishDrag completes the active drag and broadcasts the final shape.
func (s *Session) FinishDrag(dx, dy float64) {
	id, final, ok := s.store.EndDrag(dx, dy)
	if !ok {
		return
	}
	s.sendFinal(id, final)
}

// sendFinal sends a gesture result as an update when the shape already has
// a durable identity. Ephemeral shapes keep their edits local; the pending
// creation already carries the latest geometry the relay will persist.
func (s *Session) sendFinal(id string, final shape.Shape) {
	if !protocol.LooksDurable(id) {
		return
	}
	s.send(&protocol.Message{
		Type:   protocol.TypeUpdate,
		RoomID: s.roomID,
		ID:     id,
		Shape:  shape.Wrap(final),
	})
}

// BringToFront restacks locally; the store's reorder callback broadcasts
// the resulting order.
func (s *Session) BringToFront(id string) {
	s.store.BringToFront(id)
}

func (s *Session) sendReorder(order []string) {
	s.send(&protocol.Message{
		Type:   protocol.TypeReorder,
		RoomID: s.roomID,
		Order:  order,
	})
}

// =============================================================================
// Confirmation deadlines
// =============================================================================

func (s *Session) armConfirm(tempID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.confirm[tempID]; ok {
		old.Stop()
	}
	s.confirm[tempID] = time.AfterFunc(s.opts.ConfirmTimeout, func() {
		s.mu.Lock()
		delete(s.confirm, tempID)
		s.mu.Unlock()
		if s.store.MarkFailed(tempID) {
			log.Printf("[Client] Creation %s unconfirmed after %s, marked failed",
				tempID, s.opts.ConfirmTimeout)
		}
	})
}

func (s *Session) cancelConfirm(tempID string) {
	if tempID == "" {
		return
	}
	s.mu.Lock()
	if t, ok := s.confirm[tempID]; ok {
		t.Stop()
		delete(s.confirm, tempID)
	}
	s.mu.Unlock()
}
