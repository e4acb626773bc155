package engine

import (
	"math"
	"sort"
	"time"
)

// effect is a deferred engine mutation. It reads state when it fires, not when scheduled.
type effect int

const (
	effectSpawnBug effect = iota
)

type scheduled struct {
	fireAt time.Time
	seq    uint64
	effect effect
}

// effectQueue holds delayed side effects ordered by fire time, then by scheduling order.
// It is drained by Tick and is never persisted.
type effectQueue struct {
	items   []scheduled
	nextSeq uint64
}

func (q *effectQueue) schedule(at time.Time, eff effect) {
	q.items = append(q.items, scheduled{fireAt: at, seq: q.nextSeq, effect: eff})
	q.nextSeq++
	sort.SliceStable(q.items, func(i, j int) bool {
		if q.items[i].fireAt.Equal(q.items[j].fireAt) {
			return q.items[i].seq < q.items[j].seq
		}
		return q.items[i].fireAt.Before(q.items[j].fireAt)
	})
}

// popDue removes and returns every entry with fireAt <= now, in order.
func (q *effectQueue) popDue(now time.Time) []scheduled {
	n := 0
	for n < len(q.items) && !q.items[n].fireAt.After(now) {
		n++
	}
	if n == 0 {
		return nil
	}
	due := append([]scheduled(nil), q.items[:n]...)
	q.items = q.items[n:]
	return due
}

func (q *effectQueue) len() int {
	return len(q.items)
}

// drainDue fires every delayed effect that came due on the engine clock.
func (e *Engine) drainDue() {
	for _, s := range e.pending.popDue(e.now) {
		switch s.effect {
		case effectSpawnBug:
			e.spawnBugAt(s.fireAt)
		}
	}
}

// PendingEffects is the number of delayed effects waiting to fire.
func (e *Engine) PendingEffects() int {
	return e.pending.len()
}

// maxStep caps a single clock advance so the conversion cannot overflow.
const maxStep = 100 * 365 * 24 * time.Hour

func secondsToDuration(s float64) time.Duration {
	ns := math.Round(s * float64(time.Second))
	if ns >= float64(maxStep) {
		return maxStep
	}
	return time.Duration(ns)
}
