// Package relay is the server-side fan-out engine: it validates inbound
// shape events, persists the ones that carry durable state, and rebroadcasts
// to every connection in the room, sender included.
package relay

import (
	"context"
	"log"
	"time"

	"drawboard-backend/internal/history"
	"drawboard-backend/internal/protocol"
)

// Presence is the optional room-presence sink (Redis-backed in production).
// A nil Presence disables it.
type Presence interface {
	Join(ctx context.Context, roomID string, userID int64, nickname string) error
	Leave(ctx context.Context, roomID string, userID int64) error
	Heartbeat(ctx context.Context, roomID string, userID int64, nickname string) error
}

const persistTimeout = 5 * time.Second

// Hub owns the registry and drives the persist-then-broadcast pipeline.
type Hub struct {
	registry *Registry
	history  history.Store
	presence Presence
}

func NewHub(hist history.Store, pres Presence) *Hub {
	return &Hub{
		registry: NewRegistry(),
		history:  hist,
		presence: pres,
	}
}

// Registry exposes the connection registry (health endpoints, tests).
func (h *Hub) Registry() *Registry { return h.registry }

// Dispatch routes one inbound frame. Malformed frames are logged and
// dropped; the connection stays open. Nothing here blocks on the database:
// persistence runs in its own goroutine and the broadcast follows it.
func (h *Hub) Dispatch(c *Conn, raw []byte) {
	c.Touch()

	msg, err := protocol.Decode(raw)
	if err != nil {
		log.Printf("[Hub] Dropping frame from conn %s: %v", c.ID, err)
		return
	}

	switch msg.Type {
	case protocol.TypeJoinRoom:
		h.handleJoin(c, msg)
	case protocol.TypeLeaveRoom:
		h.handleLeave(c, msg)
	case protocol.TypeChat:
		go h.handleCreate(c, msg)
	case protocol.TypeUpdate:
		go h.handleUpdate(c, msg)
	case protocol.TypeDelete:
		go h.handleDelete(c, msg)
	case protocol.TypeReorder:
		h.handleReorder(c, msg)
	}
}

func (h *Hub) handleJoin(c *Conn, msg *protocol.Message) {
	c.joinRoom(msg.RoomID)
	log.Printf("[Hub] Conn %s joined room %s", c.ID, msg.RoomID)

	if h.presence != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := h.presence.Join(ctx, msg.RoomID, c.UserID, c.Nickname); err != nil {
			log.Printf("[Hub] Presence join failed for room %s: %v", msg.RoomID, err)
		}
	}
}

func (h *Hub) handleLeave(c *Conn, msg *protocol.Message) {
	c.leaveRoom(msg.RoomID)
	log.Printf("[Hub] Conn %s left room %s", c.ID, msg.RoomID)

	if h.presence != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := h.presence.Leave(ctx, msg.RoomID, c.UserID); err != nil {
			log.Printf("[Hub] Presence leave failed for room %s: %v", msg.RoomID, err)
		}
	}
}

// handleCreate persists the shape, then broadcasts the creation with the
// durable id alongside the client's tempId. When the insert fails nothing is
// broadcast: the author's entry stays pending until their retry deadline
// surfaces it as failed.
func (h *Hub) handleCreate(c *Conn, msg *protocol.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	id, err := h.history.Append(ctx, msg.RoomID, c.UserID, msg.Shape.Shape)
	if err != nil {
		log.Printf("[Hub] ❌ Persist create failed in room %s: %v", msg.RoomID, err)
		return
	}

	h.broadcast(msg.RoomID, &protocol.Message{
		Type:   protocol.TypeChat,
		RoomID: msg.RoomID,
		ID:     id,
		TempID: msg.TempID,
		Shape:  msg.Shape,
	})
}

// handleUpdate persists the replacement, then broadcasts it. A failed write
// is not broadcast, so peers keep the last successfully persisted state.
func (h *Hub) handleUpdate(c *Conn, msg *protocol.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := h.history.Update(ctx, msg.ID, msg.Shape.Shape); err != nil {
		log.Printf("[Hub] ❌ Persist update failed for shape %s: %v", msg.ID, err)
		return
	}

	h.broadcast(msg.RoomID, &protocol.Message{
		Type:   protocol.TypeUpdate,
		RoomID: msg.RoomID,
		ID:     msg.ID,
		Shape:  msg.Shape,
	})
}

// handleDelete broadcasts unconditionally so every client converges on the
// shape being gone, but only touches storage for ids the relay itself
// minted. Ephemeral ids never reached the database.
func (h *Hub) handleDelete(c *Conn, msg *protocol.Message) {
	if protocol.LooksDurable(msg.ID) {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := h.history.Delete(ctx, msg.ID); err != nil {
			log.Printf("[Hub] ⚠️ Persist delete failed for shape %s: %v", msg.ID, err)
		}
	}

	h.broadcast(msg.RoomID, &protocol.Message{
		Type:   protocol.TypeDelete,
		RoomID: msg.RoomID,
		ID:     msg.ID,
	})
}

// handleReorder rebroadcasts the z-order verbatim. Order is never persisted;
// a fresh bootstrap always shows creation order.
func (h *Hub) handleReorder(c *Conn, msg *protocol.Message) {
	h.broadcast(msg.RoomID, &protocol.Message{
		Type:   protocol.TypeReorder,
		RoomID: msg.RoomID,
		Order:  msg.Order,
	})
}

func (h *Hub) broadcast(roomID string, msg *protocol.Message) {
	data, err := msg.Encode()
	if err != nil {
		log.Printf("[Hub] Failed to marshal broadcast for room %s: %v", roomID, err)
		return
	}

	h.registry.ForEachInRoom(roomID, func(c *Conn) {
		if err := c.Send(data); err != nil {
			log.Printf("[Hub] Failed to send to conn %s: %v", c.ID, err)
		}
	})
}

// =============================================================================
// Connection lifecycle
// =============================================================================

// HandleConnection runs the read loop for one websocket until it closes.
// Called from the fiber websocket handler's goroutine.
func (h *Hub) HandleConnection(sock Socket, reader FrameReader, userID int64, nickname string) {
	c := NewConn(sock, userID, nickname)
	h.registry.Register(c)
	defer h.cleanup(c)

	reader.SetPongHandler(func(string) error {
		c.Touch()
		return nil
	})

	for {
		_, data, err := reader.ReadMessage()
		if err != nil {
			log.Printf("[Hub] Conn %s read loop ended: %v", c.ID, err)
			return
		}
		h.Dispatch(c, data)
	}
}

// FrameReader is the read side of a websocket connection.
type FrameReader interface {
	ReadMessage() (messageType int, p []byte, err error)
	SetPongHandler(func(appData string) error)
}

func (h *Hub) cleanup(c *Conn) {
	if h.presence != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		for _, roomID := range c.Rooms() {
			if err := h.presence.Leave(ctx, roomID, c.UserID); err != nil {
				log.Printf("[Hub] Presence leave failed for room %s: %v", roomID, err)
			}
		}
	}
	h.registry.Deregister(c)
	c.ForceClose()
}

// RunSweeper force-disconnects connections that stayed silent past the
// liveness timeout and refreshes presence TTLs for everyone who survived
// the sweep. Runs until ctx is cancelled.
func (h *Hub) RunSweeper(ctx context.Context, timeout, interval time.Duration) {
	log.Printf("[Hub] Liveness sweeper started (timeout %s, every %s)", timeout, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Hub] Liveness sweeper stopped")
			return
		case <-ticker.C:
			for _, c := range h.registry.Stale(timeout) {
				log.Printf("[Hub] Evicting stale conn %s (user %d), last seen %s",
					c.ID, c.UserID, c.LastSeen().Format(time.RFC3339))
				c.ForceClose()
			}
			h.beatPresence(ctx)
		}
	}
}

// beatPresence extends the presence TTL of every registered connection's
// rooms. The sweep interval must stay shorter than the presence TTL or a
// quiet but live client drops out of the member list.
func (h *Hub) beatPresence(ctx context.Context) {
	if h.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	for _, c := range h.registry.All() {
		for _, roomID := range c.Rooms() {
			if err := h.presence.Heartbeat(ctx, roomID, c.UserID, c.Nickname); err != nil {
				log.Printf("[Hub] Presence heartbeat failed for room %s: %v", roomID, err)
			}
		}
	}
}
