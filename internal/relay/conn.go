package relay

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Socket is the write side of a websocket connection. The contrib conn
// satisfies it; tests substitute an in-memory fake.
type Socket interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Conn is one client connection. A connection may sit in several rooms at
// once; room membership lives here, not in the database.
type Conn struct {
	ID       string
	UserID   int64
	Nickname string

	sock Socket

	mu       sync.Mutex
	writeMu  sync.Mutex
	rooms    map[string]bool
	lastSeen time.Time
	closed   bool
}

// NewConn wraps a socket in a relay connection.
func NewConn(sock Socket, userID int64, nickname string) *Conn {
	return &Conn{
		ID:       uuid.NewString(),
		UserID:   userID,
		Nickname: nickname,
		sock:     sock,
		rooms:    make(map[string]bool),
		lastSeen: time.Now(),
	}
}

// Send writes a text frame. Writes are serialized; the relay broadcasts from
// multiple goroutines.
func (c *Conn) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.sock.WriteMessage(websocket.TextMessage, data)
}

// Touch stamps the liveness clock. Called on every inbound frame and pong.
func (c *Conn) Touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

// LastSeen returns the time of the last inbound activity.
func (c *Conn) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// ForceClose closes the underlying socket once. The read loop's exit then
// runs the normal deregistration path.
func (c *Conn) ForceClose() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	_ = c.sock.Close()
}

func (c *Conn) joinRoom(roomID string) {
	c.mu.Lock()
	c.rooms[roomID] = true
	c.mu.Unlock()
}

func (c *Conn) leaveRoom(roomID string) {
	c.mu.Lock()
	delete(c.rooms, roomID)
	c.mu.Unlock()
}

func (c *Conn) inRoom(roomID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms[roomID]
}

// Rooms returns a snapshot of the connection's room ids.
func (c *Conn) Rooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.rooms))
	for id := range c.rooms {
		out = append(out, id)
	}
	return out
}
