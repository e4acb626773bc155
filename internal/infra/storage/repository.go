// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern so the engine never sees SQL.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

var (
	// ErrNoSave means the slot is empty, or held a save of another schema version that was discarded.
	ErrNoSave = errors.New("no save")
	// ErrCorruptSave means the slot holds a payload that cannot be decoded.
	ErrCorruptSave = errors.New("corrupt save")
)

// SaveRecord is a save slot row.
type SaveRecord struct {
	Key       string
	Version   int
	Data      engine.SaveData
	UpdatedAt time.Time
}

// SaveRepository stores the single versioned save slot per key.
type SaveRepository interface {
	// Save writes data under key with the current schema version.
	Save(ctx context.Context, key string, data engine.SaveData) error

	// Load returns the save under key. A row with another version is deleted and
	// reported as ErrNoSave.
	Load(ctx context.Context, key string) (*SaveRecord, error)

	// Delete wipes the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context, key string) error
}

// EventRepository defines the durable event history.
type EventRepository interface {
	// Append adds a new event to the history.
	Append(ctx context.Context, event events.GameEvent) error

	// Since returns up to limit events with seq greater than seq, oldest first.
	Since(ctx context.Context, seq int64, limit int) ([]events.GameEvent, error)

	// ByType returns up to limit of the newest events of one type, oldest first.
	ByType(ctx context.Context, eventType events.EventType, limit int) ([]events.GameEvent, error)

	// Latest returns up to limit of the newest events, oldest first.
	Latest(ctx context.Context, limit int) ([]events.GameEvent, error)

	// Clear removes the whole history.
	Clear(ctx context.Context) error
}
