// Package engine is the progression engine: a synchronous state machine advanced by clicks
// and by Tick(deltaSeconds).
//
// ARCHITECTURAL RULE: the Engine has no locks and starts no goroutines. The host runtime
// must serialize every call. Invalid operations are silent no-ops; every mutating method
// reports whether it changed anything.
package engine

import (
	"math/rand"
	"time"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

const (
	BaseClickPower   = 1.0
	SecOpsClickPower = 1.0
)

// EventSink receives notable events. *events.EventLog satisfies it.
type EventSink interface {
	Append(event events.GameEvent)
}

// Engine owns the whole game state.
type Engine struct {
	cat  *catalog.Catalog
	rng  *rand.Rand
	sink EventSink

	now     time.Time // simulated clock, advanced only by Tick
	pending effectQueue

	st state
}

// Option configures an Engine.
type Option func(*Engine)

// WithStartTime sets the simulated clock origin. Defaults to time.Now().
func WithStartTime(t time.Time) Option {
	return func(e *Engine) { e.now = t }
}

// WithRand sets the randomness source used for bug ids and positions.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithEventSink routes notable events to sink.
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// New builds a fresh game on the given catalog (catalog.Default() when nil).
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	e := &Engine{cat: cat}
	for _, opt := range opts {
		opt(e)
	}
	if e.now.IsZero() {
		e.now = time.Now()
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.st = state{
		mode:    ModeDev,
		dev:     newDevState(cat),
		talents: make(map[string]int),
	}
	return e
}

// Catalog returns the content the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Mode returns the active game mode.
func (e *Engine) Mode() Mode {
	return e.st.mode
}

// Now returns the simulated clock.
func (e *Engine) Now() time.Time {
	return e.now
}

// Commits returns the prestige currency balance.
func (e *Engine) Commits() int {
	return e.st.commits
}

// LinesOfCode returns the dev resource balance.
func (e *Engine) LinesOfCode() float64 {
	return e.st.dev.LinesOfCode
}

// LifetimeLines returns every line ever earned.
func (e *Engine) LifetimeLines() float64 {
	return e.st.dev.LifetimeLines
}

// TalentLevel returns the level of a talent, 0 when never bought.
func (e *Engine) TalentLevel(id string) int {
	return e.st.talents[id]
}

func (e *Engine) emit(t events.EventType, target string, payload map[string]interface{}) {
	if e.sink == nil {
		return
	}
	e.sink.Append(events.GameEvent{
		Timestamp: e.now,
		Type:      t,
		TargetID:  target,
		Payload:   payload,
	})
}

// Reset restarts the dev run. Commits, talents and lifetime totals are kept.
func (e *Engine) Reset() bool {
	if e.st.mode != ModeDev {
		return false
	}
	e.resetRun()
	e.emit(events.EventTypeRunReset, "", nil)
	return true
}

// resetRun puts lines, production, upgrades, hazards and skills back to their initial values.
func (e *Engine) resetRun() {
	lifetime := e.st.dev.LifetimeLines
	e.st.dev = newDevState(e.cat)
	e.st.dev.LifetimeLines = lifetime
}
