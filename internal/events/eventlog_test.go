package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	mu     sync.Mutex
	stored []GameEvent
	err    error
}

func (p *memPersister) Append(e GameEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.stored = append(p.stored, e)
	return nil
}

func (p *memPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stored)
}

func TestAppendStampsEvents(t *testing.T) {
	log := NewEventLog(nil)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	log.Append(GameEvent{Type: EventTypeBugSpawned, Timestamp: at})
	log.Append(GameEvent{Type: EventTypeBugCaught})

	all := log.Replay()
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].Seq)
	assert.Equal(t, int64(2), all[1].Seq)
	assert.Equal(t, at, all[0].Timestamp)
	assert.False(t, all[1].Timestamp.IsZero())
	assert.NotEmpty(t, all[0].ID)
	assert.NotEqual(t, all[0].ID, all[1].ID)
	assert.Equal(t, int64(2), log.LastSeq())
}

func TestSinceAndByType(t *testing.T) {
	log := NewEventLog(nil)
	log.Append(GameEvent{Type: EventTypeUpgradePurchased, TargetID: "u1"})
	log.Append(GameEvent{Type: EventTypePrestige})
	log.Append(GameEvent{Type: EventTypeUpgradePurchased, TargetID: "u2"})

	since := log.Since(1)
	require.Len(t, since, 2)
	assert.Equal(t, EventTypePrestige, since[0].Type)

	assert.Empty(t, log.Since(3))

	ups := log.GetByType(EventTypeUpgradePurchased)
	require.Len(t, ups, 2)
	assert.Equal(t, "u2", ups[1].TargetID)
}

func TestCapacityTrimsOldest(t *testing.T) {
	log := NewEventLog(nil)
	log.SetCapacity(2)
	for i := 0; i < 5; i++ {
		log.Append(GameEvent{Type: EventTypeBugExpired})
	}

	all := log.Replay()
	require.Len(t, all, 2)
	assert.Equal(t, int64(4), all[0].Seq)
	assert.Equal(t, int64(5), log.LastSeq())
}

func TestPersisterReceivesEvents(t *testing.T) {
	p := &memPersister{}
	log := NewEventLog(p)
	log.Append(GameEvent{Type: EventTypeRunReset})
	log.Append(GameEvent{Type: EventTypeRunReset})

	assert.Eventually(t, func() bool { return p.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestPersistErrorsAreReported(t *testing.T) {
	p := &memPersister{err: errors.New("disk full")}
	log := NewEventLog(p)

	errs := make(chan error, 1)
	log.OnPersistError(func(err error) { errs <- err })
	log.Append(GameEvent{Type: EventTypePromoted})

	select {
	case err := <-errs:
		assert.EqualError(t, err, "disk full")
	case <-time.After(time.Second):
		t.Fatal("persist error was not reported")
	}
	assert.Len(t, log.Replay(), 1, "in-memory log keeps the event")
}

func TestSeedContinuesSequence(t *testing.T) {
	p := &memPersister{}
	log := NewEventLog(p)
	log.Seed([]GameEvent{
		{ID: "a", Seq: 7, Type: EventTypePrestige},
		{ID: "b", Seq: 9, Type: EventTypeRunReset},
	})
	log.Append(GameEvent{Type: EventTypeBugSpawned})

	assert.Equal(t, int64(10), log.LastSeq())
	require.Len(t, log.Since(8), 2)
	assert.Eventually(t, func() bool { return p.count() == 1 }, time.Second, 5*time.Millisecond, "seeded events are not written again")
}
