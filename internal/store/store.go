// Package store defines the per-room event log contract shared by the relay
// and the storage backends in its subpackages.
package store

import (
	"cmp"
	"context"
	"slices"
	"time"
)

// Entry is one persisted edit event.
type Entry struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"roomId"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// AppendParams describes a new log row. ShapeID and ContentKey are the match
// columns used by later deletes; both may be empty.
type AppendParams struct {
	RoomID     int64
	UserID     string
	Message    string
	ShapeID    string
	ContentKey string
}

// EventLog is the append-only log of a room's edit events.
type EventLog interface {
	Append(ctx context.Context, p AppendParams) (int64, error)
	DeleteByShapeID(ctx context.Context, roomID int64, shapeID string) (int64, error)
	DeleteByContent(ctx context.Context, roomID int64, contentKey string) (int64, error)
	DeleteAll(ctx context.Context, roomID int64) (int64, error)
	// ListRecent returns at most limit entries for the room, newest first.
	ListRecent(ctx context.Context, roomID int64, limit int) ([]Entry, error)
	Close() error
}

// Chronological returns entries sorted oldest first. ListRecent pages newest
// first; replay needs creation order.
func Chronological(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
