package relay

import (
	"log"
	"sync"
	"time"
)

// Registry tracks every live connection. It is the single broadcast
// fan-out surface: room targeting always goes through ForEachInRoom.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Conn)}
}

// Register adds a connection.
func (r *Registry) Register(c *Conn) {
	r.mu.Lock()
	r.conns[c.ID] = c
	total := len(r.conns)
	r.mu.Unlock()

	log.Printf("[Registry] Registered conn %s (user %d), total: %d", c.ID, c.UserID, total)
}

// Deregister removes a connection. Safe to call twice.
func (r *Registry) Deregister(c *Conn) {
	r.mu.Lock()
	_, exists := r.conns[c.ID]
	delete(r.conns, c.ID)
	total := len(r.conns)
	r.mu.Unlock()

	if exists {
		log.Printf("[Registry] Deregistered conn %s, remaining: %d", c.ID, total)
	}
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// ForEachInRoom calls fn for every connection currently in the room,
// including the sender when it is a member.
func (r *Registry) ForEachInRoom(roomID string, fn func(*Conn)) {
	r.mu.RLock()
	targets := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		if c.inRoom(roomID) {
			targets = append(targets, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range targets {
		fn(c)
	}
}

// All returns a snapshot of every live connection.
func (r *Registry) All() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}

// Stale returns connections whose last inbound activity is older than the
// timeout.
func (r *Registry) Stale(timeout time.Duration) []*Conn {
	cutoff := time.Now().Add(-timeout)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var stale []*Conn
	for _, c := range r.conns {
		if c.LastSeen().Before(cutoff) {
			stale = append(stale, c)
		}
	}
	return stale
}
