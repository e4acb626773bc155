// Package events provides the audit log of notable progression events.
// Clicks and ticks are too frequent to record; purchases, skills, bugs and resets are.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeUpgradePurchased       EventType = "UPGRADE_PURCHASED"
	EventTypeSecOpsUpgradePurchased EventType = "SECOPS_UPGRADE_PURCHASED"
	EventTypeTalentPurchased        EventType = "TALENT_PURCHASED"
	EventTypeSkillActivated         EventType = "SKILL_ACTIVATED"
	EventTypeBugSpawned             EventType = "BUG_SPAWNED"
	EventTypeBugCaught              EventType = "BUG_CAUGHT"
	EventTypeBugExpired             EventType = "BUG_EXPIRED"
	EventTypePrestige               EventType = "PRESTIGE"
	EventTypePromoted               EventType = "PROMOTED_SECOPS"
	EventTypeRunReset               EventType = "RUN_RESET"
)

// DefaultCapacity bounds how many events the in-memory log retains.
const DefaultCapacity = 4096

// GameEvent represents an immutable record of an action in the game.
type GameEvent struct {
	ID        string                 `json:"id"`
	Seq       int64                  `json:"seq"`
	Timestamp time.Time              `json:"timestamp"`
	Type      EventType              `json:"type"`
	TargetID  string                 `json:"target_id,omitempty"` // Upgrade, talent, skill or bug id
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
// Old events fall off the front once capacity is reached; sequence numbers keep growing.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	nextSeq   int64
	capacity  int
	persister EventPersister
	onError   func(error)
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		nextSeq:   1,
		capacity:  DefaultCapacity,
		persister: persister,
	}
}

// SetCapacity changes how many events are retained in memory.
func (el *EventLog) SetCapacity(n int) {
	el.mu.Lock()
	defer el.mu.Unlock()
	if n > 0 {
		el.capacity = n
		el.trim()
	}
}

// OnPersistError registers a callback for failed durable writes.
func (el *EventLog) OnPersistError(fn func(error)) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.onError = fn
}

// Append stamps the event with id, sequence and time (when missing) and stores it.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Seq = el.nextSeq
	el.nextSeq++
	el.events = append(el.events, event)
	el.trim()
	persister, onError := el.persister, el.onError
	el.mu.Unlock()

	if persister != nil {
		// Write through to persistent storage off the caller's path.
		go func(e GameEvent) {
			if err := persister.Append(e); err != nil && onError != nil {
				onError(err)
			}
		}(event)
	}
}

// Seed loads already-persisted history without writing it again.
// The next appended event continues after the highest seeded sequence number.
func (el *EventLog) Seed(history []GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	for _, e := range history {
		el.events = append(el.events, e)
		if e.Seq >= el.nextSeq {
			el.nextSeq = e.Seq + 1
		}
	}
	el.trim()
}

func (el *EventLog) trim() {
	if over := len(el.events) - el.capacity; over > 0 {
		el.events = append([]GameEvent(nil), el.events[over:]...)
	}
}

// Since returns retained events with a sequence number greater than seq.
func (el *EventLog) Since(seq int64) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Seq > seq {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns retained events of a given type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of every retained event, oldest first.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return append([]GameEvent(nil), el.events...)
}

// LastSeq is the sequence number of the newest event, 0 when empty.
func (el *EventLog) LastSeq() int64 {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.nextSeq - 1
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
