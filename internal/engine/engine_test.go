package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	events []events.GameEvent
}

func (r *recorder) Append(e events.GameEvent) {
	r.events = append(r.events, e)
}

func (r *recorder) types() []events.EventType {
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithStartTime(epoch),
		WithRand(rand.New(rand.NewSource(42))),
	}
	return New(catalog.Default(), append(base, opts...)...)
}

func TestClickAddsClickPower(t *testing.T) {
	e := newTestEngine(t)

	require.True(t, e.Click())
	require.True(t, e.Click())

	assert.Equal(t, 2.0, e.LinesOfCode())
	assert.Equal(t, 2.0, e.Snapshot().LifetimeLines)
}

func TestTickAccruesCPSTimesDelta(t *testing.T) {
	e := newTestEngine(t)
	e.st.dev.LinesOfCode = 100
	require.True(t, e.BuyUpgrade("u2"))
	require.Equal(t, 1.0, e.st.dev.CPS)
	require.Equal(t, 0.0, e.LinesOfCode())

	e.Tick(2.5)
	assert.InDelta(t, 2.5, e.LinesOfCode(), 1e-9)
	assert.InDelta(t, 2.5, e.st.dev.LifetimeLines, 1e-9)
}

func TestTickIsAdditive(t *testing.T) {
	for _, split := range [][2]float64{{0.1, 0.2}, {1, 9}, {0.016, 123.4}, {0, 5}} {
		a := newTestEngine(t)
		b := newTestEngine(t)
		for _, e := range []*Engine{a, b} {
			e.st.dev.LinesOfCode = 1100
			require.True(t, e.BuyUpgrade("u3"))
		}

		a.Tick(split[0])
		a.Tick(split[1])
		b.Tick(split[0] + split[1])

		assert.InDelta(t, b.LinesOfCode(), a.LinesOfCode(), 1e-6, "split %v", split)
	}
}

func TestTickIgnoresInvalidDelta(t *testing.T) {
	e := newTestEngine(t)
	e.st.dev.CPS = 10
	before := e.Now()

	e.Tick(-1)
	assert.Equal(t, 0.0, e.LinesOfCode())
	assert.Equal(t, before, e.Now())
}

func TestMultipliersAreIndependentFactors(t *testing.T) {
	e := newTestEngine(t)
	e.st.dev.CPS = 1
	e.st.dev.Upgrades[1].Count = 1 // u2 keeps CPS consistent with counts

	base := e.ProductionMultipliers()
	assert.Equal(t, Multipliers{Commit: 1, Skill: 1, Talent: 1, BugPenalty: 1}, base)

	e.st.commits = 10
	assert.InDelta(t, 2.0, e.ProductionMultipliers().Commit, 1e-12)

	require.True(t, e.ActivateSkill("s1"))
	assert.Equal(t, 2.0, e.ProductionMultipliers().Skill)

	e.st.talents["t_b1"] = 2
	assert.InDelta(t, 1.5, e.ProductionMultipliers().Talent, 1e-12)

	require.True(t, e.SpawnBug())
	require.True(t, e.SpawnBug())
	assert.InDelta(t, 0.6, e.ProductionMultipliers().BugPenalty, 1e-12)

	want := 2.0 * 2.0 * 1.5 * 0.6
	assert.InDelta(t, want, e.ProductionMultipliers().Product(), 1e-9)
	assert.InDelta(t, want, e.GetProductionRate(), 1e-9)

	e.Tick(1)
	assert.InDelta(t, want, e.LinesOfCode(), 1e-9)
}

func TestClickIgnoresBugPenalty(t *testing.T) {
	e := newTestEngine(t)
	e.st.commits = 10
	e.st.talents["t_f1"] = 1
	require.True(t, e.ActivateSkill("s2"))
	require.True(t, e.SpawnBug())
	require.True(t, e.SpawnBug())
	require.True(t, e.SpawnBug())

	m := e.ClickMultipliers()
	assert.Equal(t, 1.0, m.BugPenalty)
	assert.Equal(t, 10.0, m.Skill)

	require.True(t, e.Click())
	assert.InDelta(t, 2.0*10*1.5, e.LinesOfCode(), 1e-9)
	assert.Equal(t, 0.0, e.GetProductionRate())
}

func TestBugResistanceSoftensPenalty(t *testing.T) {
	e := newTestEngine(t)
	e.st.talents["t_b2"] = 5
	require.True(t, e.SpawnBug())
	require.True(t, e.SpawnBug())

	// each bug bites 0.2 * (1 - 0.5)
	assert.InDelta(t, 0.8, e.ProductionMultipliers().BugPenalty, 1e-12)
}

func TestNonPeriodicOperationsEmitEvents(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, WithEventSink(rec))

	e.Click()
	e.Tick(0.1)
	assert.Empty(t, rec.events)

	e.st.dev.LinesOfCode = 15
	require.True(t, e.BuyUpgrade("u1"))
	require.True(t, e.SpawnBug())
	require.True(t, e.Reset())

	assert.Equal(t, []events.EventType{
		events.EventTypeUpgradePurchased,
		events.EventTypeBugSpawned,
		events.EventTypeRunReset,
	}, rec.types())
	assert.Equal(t, "u1", rec.events[0].TargetID)
	assert.Equal(t, epoch.Add(100*time.Millisecond), rec.events[0].Timestamp)
}

func TestResetKeepsMetaProgress(t *testing.T) {
	e := newTestEngine(t)
	e.st.commits = 7
	e.st.talents["t_f1"] = 3
	e.st.dev.LinesOfCode = 5000
	e.st.dev.LifetimeLines = 9000
	require.True(t, e.BuyUpgrade("u2"))
	require.True(t, e.ActivateSkill("s1"))
	require.True(t, e.SpawnBug())

	require.True(t, e.Reset())

	snap := e.Snapshot()
	assert.Equal(t, 0.0, snap.LinesOfCode)
	assert.Equal(t, 0.0, snap.CPS)
	assert.Equal(t, 9000.0, snap.LifetimeLines)
	assert.Equal(t, 7, snap.Commits)
	assert.Equal(t, 3, e.TalentLevel("t_f1"))
	assert.Empty(t, snap.Bugs)
	for _, u := range snap.Upgrades {
		assert.Zero(t, u.Count)
	}
	for _, s := range snap.Skills {
		assert.Equal(t, SkillIdle, s.Phase)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	e := newTestEngine(t)
	e.st.dev.LinesOfCode = 15
	require.True(t, e.BuyUpgrade("u1"))
	require.True(t, e.SpawnBug())

	snap := e.Snapshot()
	snap.Upgrades[0].Count = 99
	snap.Bugs[0].ID = "changed"
	snap.Skills[2].BugSpawnDelays[0] = 99

	again := e.Snapshot()
	assert.Equal(t, 1, again.Upgrades[0].Count)
	assert.NotEqual(t, "changed", again.Bugs[0].ID)
	assert.Equal(t, 0.1, e.cat.Skills[2].BugSpawnDelays[0])
}

func TestSnapshotDerivedValues(t *testing.T) {
	e := newTestEngine(t)
	e.st.dev.LinesOfCode = 50000

	snap := e.Snapshot()
	assert.Equal(t, ModeDev, snap.Mode)
	assert.Equal(t, 1, snap.PrestigeGain)
	assert.Equal(t, 50000.0, snap.NextCommitCost)
	assert.False(t, snap.CommitCapReached)
	assert.False(t, snap.CanPromote)
	assert.Equal(t, 15.0, snap.Upgrades[0].NextCost)
	assert.True(t, snap.Upgrades[0].Affordable)
	assert.Nil(t, snap.SecOps)
	assert.Equal(t, "+0% Click Power", snap.Talents[0].EffectText)
}
