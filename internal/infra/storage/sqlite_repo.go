package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

// SQLiteSaveRepository implements SaveRepository for SQLite.
type SQLiteSaveRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteSaveRepository(db *sql.DB) *SQLiteSaveRepository {
	return &SQLiteSaveRepository{db: db, now: time.Now}
}

func (r *SQLiteSaveRepository) Save(ctx context.Context, key string, data engine.SaveData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	query := `
		INSERT INTO saves (save_key, version, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(save_key) DO UPDATE SET
			version=excluded.version,
			payload=excluded.payload,
			updated_at=excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query, key, engine.SaveVersion, string(payload), r.now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to write save %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteSaveRepository) Load(ctx context.Context, key string) (*SaveRecord, error) {
	query := `SELECT version, payload, updated_at FROM saves WHERE save_key = ?`

	var (
		rec       = SaveRecord{Key: key}
		payload   string
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, key).Scan(&rec.Version, &payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save %q: %w", key, err)
	}

	if rec.Version != engine.SaveVersion {
		if err := r.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: discarded version %d, want %d", ErrNoSave, rec.Version, engine.SaveVersion)
	}

	if err := json.Unmarshal([]byte(payload), &rec.Data); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCorruptSave, key, err)
	}
	rec.UpdatedAt = time.Unix(0, updatedAt)
	return &rec, nil
}

func (r *SQLiteSaveRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM saves WHERE save_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete save %q: %w", key, err)
	}
	return nil
}

// ---------------------------------------------------------
// SQLiteEventRepository
// ---------------------------------------------------------

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event events.GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, seq, timestamp, event_type, target_id, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Seq, event.Timestamp.UnixNano(), string(event.Type),
		event.TargetID, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

const eventColumns = `id, seq, timestamp, event_type, target_id, payload`

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]events.GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []events.GameEvent
	for rows.Next() {
		var (
			e          events.GameEvent
			ts         int64
			eventType  string
			payloadStr string
		)
		if err := rows.Scan(&e.ID, &e.Seq, &ts, &eventType, &e.TargetID, &payloadStr); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		e.Type = events.EventType(eventType)
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteEventRepository) Since(ctx context.Context, seq int64, limit int) ([]events.GameEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE seq > ? ORDER BY seq ASC LIMIT ?`
	return r.getMany(ctx, query, seq, sqlLimit(limit))
}

func (r *SQLiteEventRepository) ByType(ctx context.Context, eventType events.EventType, limit int) ([]events.GameEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM (
		SELECT ` + eventColumns + ` FROM events WHERE event_type = ? ORDER BY seq DESC LIMIT ?
	) ORDER BY seq ASC`
	return r.getMany(ctx, query, string(eventType), sqlLimit(limit))
}

func (r *SQLiteEventRepository) Latest(ctx context.Context, limit int) ([]events.GameEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM (
		SELECT ` + eventColumns + ` FROM events ORDER BY seq DESC LIMIT ?
	) ORDER BY seq ASC`
	return r.getMany(ctx, query, sqlLimit(limit))
}

func (r *SQLiteEventRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	return nil
}

// sqlLimit maps "no limit" (<= 0) to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// ---------------------------------------------------------
// EventPersister
// ---------------------------------------------------------

// EventPersister adapts an EventRepository to events.EventPersister.
type EventPersister struct {
	Repo    EventRepository
	Timeout time.Duration
	// OnWrite observes every write result; optional.
	OnWrite func(err error)
}

// Append writes one event with its own timeout.
func (p *EventPersister) Append(event events.GameEvent) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := p.Repo.Append(ctx, event)
	if p.OnWrite != nil {
		p.OnWrite(err)
	}
	return err
}
