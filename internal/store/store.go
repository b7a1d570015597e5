package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no snapshot exists for a source.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore persists raw dataset downloads keyed by their source.
type SnapshotStore interface {
	// PutSnapshot stores the raw bytes of a dataset source, replacing any previous snapshot
	PutSnapshot(ctx context.Context, snap *Snapshot) error

	// GetSnapshot retrieves the snapshot for a source
	GetSnapshot(ctx context.Context, source string) (*Snapshot, error)

	// ListSnapshots retrieves metadata for all snapshots, newest first. Data is not loaded.
	ListSnapshots(ctx context.Context) ([]Snapshot, error)

	// DeleteSnapshot removes a snapshot and its data
	DeleteSnapshot(ctx context.Context, source string) error

	// Close closes the database connection
	Close() error
}

// Snapshot is a cached copy of one dataset source.
type Snapshot struct {
	Source    string    `json:"source"`
	Size      int       `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
	Data      []byte    `json:"-"`
}

// Fresh reports whether the snapshot is younger than ttl. A non-positive ttl
// means snapshots never expire.
func (s *Snapshot) Fresh(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return true
	}
	return now.Sub(s.FetchedAt) < ttl
}
