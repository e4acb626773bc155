// Package session hosts one progression engine for many callers.
//
// ARCHITECTURAL RULE: every engine call (player actions, ticks, scheduled spawns,
// autosave snapshots) goes through the Session mutex. The engine itself has no locks.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
	"github.com/MRamiBalles/CommitClicker/server/internal/infra/storage"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/logger"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/metrics"
)

// ActionType names a player action.
type ActionType string

const (
	ActionClick            ActionType = "click"
	ActionClickSecOps      ActionType = "click_secops"
	ActionBuyUpgrade       ActionType = "buy_upgrade"
	ActionBuySecOpsUpgrade ActionType = "buy_secops_upgrade"
	ActionBuyTalent        ActionType = "buy_talent"
	ActionActivateSkill    ActionType = "activate_skill"
	ActionSpawnBug         ActionType = "spawn_bug"
	ActionCatchBug         ActionType = "catch_bug"
	ActionPrestige         ActionType = "prestige"
	ActionPromote          ActionType = "promote"
	ActionReset            ActionType = "reset"
)

// Action is one player intent. ID is the upgrade, talent, skill or bug it targets.
type Action struct {
	Type ActionType `json:"type"`
	ID   string     `json:"id,omitempty"`
}

// Session serializes access to one engine and keeps it saved.
type Session struct {
	mu  sync.Mutex
	eng *engine.Engine
	rng *rand.Rand

	log     *logger.Logger
	metrics *metrics.Metrics

	saves   storage.SaveRepository
	saveKey string

	spawnRate float64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithMetrics records actions, ticks and saves.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithSaves enables Load and Save against repo under key.
func WithSaves(repo storage.SaveRepository, key string) Option {
	return func(s *Session) {
		s.saves = repo
		s.saveKey = key
	}
}

// WithBugSpawnRate sets the expected number of random bug spawns per second.
func WithBugSpawnRate(rate float64) Option {
	return func(s *Session) { s.spawnRate = rate }
}

// WithRand sets the randomness used for the spawn roll.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// New wraps eng. The session becomes its only caller.
func New(eng *engine.Engine, opts ...Option) *Session {
	s := &Session{
		eng:       eng,
		spawnRate: 0.05,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Apply runs one action and reports whether it changed the game.
// Unknown action types are ignored.
func (s *Session) Apply(ctx context.Context, a Action) bool {
	s.mu.Lock()
	applied := s.dispatch(a)
	var data engine.SaveData
	checkpoint := applied && (a.Type == ActionPrestige || a.Type == ActionPromote)
	if checkpoint {
		data = s.eng.SaveData()
	}
	s.mu.Unlock()

	s.metrics.IncAction(string(a.Type), applied)
	if checkpoint {
		if err := s.write(ctx, data); err != nil {
			s.log.Errorf("checkpoint save after %s failed: %v", a.Type, err)
		}
	}
	return applied
}

func (s *Session) dispatch(a Action) bool {
	switch a.Type {
	case ActionClick:
		return s.eng.Click()
	case ActionClickSecOps:
		return s.eng.ClickSecOps()
	case ActionBuyUpgrade:
		return s.eng.BuyUpgrade(a.ID)
	case ActionBuySecOpsUpgrade:
		return s.eng.BuySecOpsUpgrade(a.ID)
	case ActionBuyTalent:
		return s.eng.BuyTalent(a.ID)
	case ActionActivateSkill:
		return s.eng.ActivateSkill(a.ID)
	case ActionSpawnBug:
		return s.eng.SpawnBug()
	case ActionCatchBug:
		return s.eng.CatchBug(a.ID)
	case ActionPrestige:
		return s.eng.Prestige()
	case ActionPromote:
		return s.eng.PromoteToSecOps()
	case ActionReset:
		return s.eng.Reset()
	}
	return false
}

// Tick advances the game by dt seconds, then rolls a random bug spawn.
func (s *Session) Tick(dt float64) {
	start := time.Now()

	s.mu.Lock()
	s.eng.Tick(dt)
	if shouldSpawn(s.rng, s.spawnRate, dt) {
		s.eng.SpawnBug()
	}
	stats := metrics.GameStats{
		ProductionRate:  s.eng.GetProductionRate(),
		Commits:         s.eng.Commits(),
		ActiveBugs:      s.eng.ActiveBugs(),
		LifetimeLines:   s.eng.LifetimeLines(),
		LifetimeEntropy: s.eng.LifetimeEntropy(),
	}
	s.mu.Unlock()

	s.metrics.ObserveTick(time.Since(start))
	s.metrics.SetGame(stats)
}

// shouldSpawn rolls with probability rate×dt, so the expected spawn rate
// does not depend on how often ticks happen.
func shouldSpawn(rng *rand.Rand, rate, dt float64) bool {
	p := math.Min(1, rate*dt)
	if p <= 0 || math.IsNaN(p) {
		return false
	}
	return rng.Float64() < p
}

// Snapshot returns a deep copy of the game.
func (s *Session) Snapshot() engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Snapshot()
}

// Do runs fn with exclusive access to the engine. fn must not keep the pointer.
func (s *Session) Do(fn func(e *engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng)
}

// Load restores the saved game, if any. An empty, stale or corrupt slot leaves the
// fresh game in place; only storage failures are returned.
func (s *Session) Load(ctx context.Context) error {
	if s.saves == nil {
		return nil
	}
	rec, err := s.saves.Load(ctx, s.saveKey)
	switch {
	case errors.Is(err, storage.ErrNoSave):
		s.log.Infof("no save under %q (%v), starting fresh", s.saveKey, err)
		return nil
	case errors.Is(err, storage.ErrCorruptSave):
		s.log.Warnf("ignoring unreadable save: %v", err)
		return nil
	case err != nil:
		return fmt.Errorf("load save: %w", err)
	}

	s.mu.Lock()
	s.eng.Restore(rec.Data)
	s.mu.Unlock()
	s.log.Infof("restored save %q from %s", s.saveKey, rec.UpdatedAt.Format(time.RFC3339))
	return nil
}

// Save writes the current game to the save slot.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	data := s.eng.SaveData()
	s.mu.Unlock()
	return s.write(ctx, data)
}

func (s *Session) write(ctx context.Context, data engine.SaveData) error {
	if s.saves == nil {
		return nil
	}
	start := time.Now()
	err := s.saves.Save(ctx, s.saveKey, data)
	s.metrics.ObserveSave(time.Since(start), err)
	return err
}
