// Package history persists a room's shapes. Each creation mints the durable
// id the whole protocol revolves around: the decimal form of the record's
// primary key.
package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"drawboard-backend/internal/shape"
)

var ErrNotFound = errors.New("shape record not found")

// Record is one persisted shape: durable id plus decoded geometry.
type Record struct {
	ID    string
	Shape shape.Shape
}

// Store is the persistence surface the relay depends on. Implementations
// must be safe for concurrent use; the relay persists from per-message
// goroutines.
type Store interface {
	// Append stores a new shape and returns its durable id. createdBy is
	// the authoring user's id, or 0 when unknown.
	Append(ctx context.Context, roomID string, createdBy int64, s shape.Shape) (string, error)
	// Update replaces the shape stored under id.
	Update(ctx context.Context, id string, s shape.Shape) error
	// Delete removes the record under id. Deleting an absent id is not an
	// error; the protocol treats deletes as idempotent.
	Delete(ctx context.Context, id string) error
	// List returns a room's shapes in creation order.
	List(ctx context.Context, roomID string) ([]Record, error)
}

// FormatID renders a primary key as a wire id.
func FormatID(pk int64) string {
	return strconv.FormatInt(pk, 10)
}

// ParseID parses a wire id back to a primary key.
func ParseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid shape id %q", id)
	}
	return n, nil
}
