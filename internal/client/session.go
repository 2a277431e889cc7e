// Package client is the room-facing sync session: it bootstraps the shape
// history over HTTP, keeps a websocket to the relay, applies remote events
// to the local store, and sends local edits fire-and-forget with a
// confirmation deadline on creations.
package client

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"drawboard-backend/internal/protocol"
	"drawboard-backend/internal/shape"
	"drawboard-backend/internal/store"
)

const (
	defaultConfirmTimeout = 10 * time.Second
	pingInterval          = 30 * time.Second
	writeWait             = 10 * time.Second
	sendBuffer            = 64
)

// Options configures a session.
type Options struct {
	// ServerURL is the relay's base HTTP URL, e.g. "http://localhost:8080".
	ServerURL string
	// Token is the access token used for the bootstrap request and the
	// websocket upgrade.
	Token string
	// RoomID is the room to join.
	RoomID string
	// ConfirmTimeout bounds how long a creation may stay pending before it
	// is marked failed. Zero means the default.
	ConfirmTimeout time.Duration
	// OnChange fires after every visible store transition.
	OnChange func()
}

// Session is one client's live connection to a room.
type Session struct {
	store  *store.Store
	roomID string
	opts   Options

	conn     *websocket.Conn
	outgoing chan []byte
	done     chan struct{}

	mu        sync.Mutex
	confirm   map[string]*time.Timer
	closeOnce sync.Once
}

// bootstrapResponse is the room shapes payload from the REST API.
type bootstrapResponse struct {
	Shapes []struct {
		ID    string      `json:"id"`
		Shape shape.Union `json:"shape"`
	} `json:"shapes"`
}

// Open bootstraps the room history, dials the relay, and joins the room.
func Open(opts Options) (*Session, error) {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = defaultConfirmTimeout
	}

	s := &Session{
		roomID:   opts.RoomID,
		opts:     opts,
		outgoing: make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		confirm:  make(map[string]*time.Timer),
	}
	s.store = store.New(opts.OnChange, s.sendReorder)

	if err := s.bootstrap(); err != nil {
		return nil, err
	}
	if err := s.dial(); err != nil {
		return nil, err
	}

	go s.writePump()
	go s.readLoop()

	s.send(&protocol.Message{Type: protocol.TypeJoinRoom, RoomID: s.roomID})
	return s, nil
}

// Store exposes the session's shape store for rendering and gestures.
func (s *Session) Store() *store.Store { return s.store }

// bootstrap loads the persisted shapes so the canvas starts in creation
// order. Events arriving over the socket afterwards are all idempotent
// against this baseline.
func (s *Session) bootstrap() error {
	endpoint := fmt.Sprintf("%s/api/rooms/%s/shapes", strings.TrimRight(s.opts.ServerURL, "/"), s.roomID)
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.opts.Token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bootstrap: server returned %s", resp.Status)
	}

	var payload bootstrapResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("bootstrap: decode: %w", err)
	}

	for _, rec := range payload.Shapes {
		if rec.Shape.Shape == nil {
			continue
		}
		s.store.ApplyRemoteUpdate(rec.ID, rec.Shape.Shape)
	}
	log.Printf("[Client] Bootstrapped room %s with %d shapes", s.roomID, len(payload.Shapes))
	return nil
}

func (s *Session) dial() error {
	u, err := url.Parse(s.opts.ServerURL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/board"
	q := u.Query()
	q.Set("token", s.opts.Token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	s.conn = conn
	return nil
}

// =============================================================================
// Pumps
// =============================================================================

func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case data := <-s.outgoing:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("[Client] Write failed: %v", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[Client] Ping failed: %v", err)
				return
			}
		}
	}
}

func (s *Session) readLoop() {
	defer s.Close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			log.Printf("[Client] Read loop ended: %v", err)
			return
		}
		s.handleEvent(data)
	}
}

// handleEvent applies one relay event to the store. Events for other rooms
// and malformed frames are ignored.
func (s *Session) handleEvent(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.Printf("[Client] Ignoring frame: %v", err)
		return
	}
	if msg.RoomID != s.roomID {
		return
	}

	switch msg.Type {
	case protocol.TypeChat:
		s.cancelConfirm(msg.TempID)
		s.store.Reconcile(msg.TempID, msg.ID, msg.Shape.Shape)
	case protocol.TypeUpdate:
		s.store.ApplyRemoteUpdate(msg.ID, msg.Shape.Shape)
	case protocol.TypeDelete:
		s.store.ApplyRemoteDelete(msg.ID)
	case protocol.TypeReorder:
		s.store.ApplyRemoteReorder(msg.Order)
	}
}

// send queues a message. The channel is buffered; when the socket cannot
// drain fast enough the frame is dropped rather than blocking a gesture.
func (s *Session) send(msg *protocol.Message) {
	data, err := msg.Encode()
	if err != nil {
		log.Printf("[Client] Failed to marshal %s: %v", msg.Type, err)
		return
	}
	select {
	case s.outgoing <- data:
	default:
		log.Printf("[Client] Send buffer full, dropping %s", msg.Type)
	}
}

// Close leaves the room and tears down the socket. Safe to call twice.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.send(&protocol.Message{Type: protocol.TypeLeaveRoom, RoomID: s.roomID})
		// Give the pump a moment to flush the leave frame.
		time.Sleep(50 * time.Millisecond)
		close(s.done)
		_ = s.conn.Close()

		s.mu.Lock()
		for _, t := range s.confirm {
			t.Stop()
		}
		s.confirm = map[string]*time.Timer{}
		s.mu.Unlock()
	})
}
