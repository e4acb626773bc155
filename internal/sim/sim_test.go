package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
	"github.com/MRamiBalles/CommitClicker/server/internal/session"
)

func runNamed(t *testing.T, name string) Result {
	t.Helper()
	sc, ok := Find(DefaultScenarios(), name)
	require.True(t, ok, name)
	return NewRunner(nil, nil).Run(context.Background(), sc)
}

func TestOpeningScenario(t *testing.T) {
	res := runNamed(t, "opening")
	assert.True(t, res.Passed, res.Reason)
	assert.True(t, res.Trace.GoalReached)
	assert.Equal(t, 1, res.Trace.Actions["buy_upgrade"])
	assert.Less(t, res.Trace.SimSeconds, 4.0)
}

func TestBugSwarmScenario(t *testing.T) {
	res := runNamed(t, "bug-swarm")
	assert.True(t, res.Passed, res.Reason)
	assert.Equal(t, rules.MaxBugs, res.Trace.MaxBugs)
	assert.InDelta(t, 0.4, res.Trace.MinBugPenalty, 1e-9)
}

func TestCommitCapScenario(t *testing.T) {
	res := runNamed(t, "commit-cap")
	assert.True(t, res.Passed, res.Reason)
	assert.Equal(t, 1, res.Trace.Actions["prestige"])
	assert.Equal(t, rules.MaxCommits, res.Trace.Final.Commits)
}

func TestSecOpsScenario(t *testing.T) {
	res := runNamed(t, "secops")
	assert.True(t, res.Passed, res.Reason)
	assert.Equal(t, engine.ModeSecOps, res.Trace.Final.Mode)
	assert.Equal(t, 1, res.Trace.Actions["promote"])
	assert.Contains(t, res.Actual, "secops:")
}

func TestFirstCommitScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("plays an hour of simulated time")
	}
	res := runNamed(t, "first-commit")
	assert.True(t, res.Passed, res.Reason)
	assert.GreaterOrEqual(t, res.Trace.Final.Commits, 1)
	assert.Empty(t, res.Trace.Violations)
}

func TestUnreachedGoalFails(t *testing.T) {
	res := NewRunner(catalog.Default(), nil).Run(context.Background(), Scenario{
		Name:       "impossible",
		Step:       1,
		MaxSeconds: 3,
		Goal:       func(s engine.Snapshot) bool { return s.Commits > 0 },
	})
	assert.False(t, res.Passed)
	assert.Contains(t, res.Reason, "goal not reached")
	assert.Equal(t, 3, res.Trace.Steps)
}

func TestCheckFailureFails(t *testing.T) {
	res := NewRunner(nil, nil).Run(context.Background(), Scenario{
		Name:       "checked",
		MaxSeconds: 1,
		Check:      func(*Trace) error { return errors.New("nope") },
	})
	assert.False(t, res.Passed)
	assert.Equal(t, "nope", res.Reason)
}

func TestRunAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, NewRunner(nil, nil).RunAll(ctx, DefaultScenarios()))
}

func TestMonitorFlagsViolations(t *testing.T) {
	trace := newTrace()
	m := newMonitor(trace)
	m.observe(engine.Snapshot{LifetimeLines: 10, Commits: 5, ProductionMultipliers: engine.Multipliers{BugPenalty: 1}})
	m.observe(engine.Snapshot{LifetimeLines: 5, Commits: 4, ProductionMultipliers: engine.Multipliers{BugPenalty: 1}})
	require.Len(t, trace.Violations, 2)
	assert.Contains(t, trace.Violations[0], "lifetime lines decreased")
	assert.Contains(t, trace.Violations[1], "commits decreased")
}

func TestBotClicksAtPolicyRate(t *testing.T) {
	b := NewBot(Policy{ClicksPerSecond: 3})
	snap := engine.Snapshot{Mode: engine.ModeDev}
	total := 0
	for i := 0; i < 2; i++ {
		total += len(b.Decide(snap, 0.5))
	}
	assert.Equal(t, 3, total)

	actions := NewBot(Policy{ClicksPerSecond: 2}).Decide(engine.Snapshot{Mode: engine.ModeSecOps}, 1)
	require.Len(t, actions, 2)
	assert.Equal(t, session.ActionClickSecOps, actions[0].Type)
}

func TestBotPicksShortestPayback(t *testing.T) {
	b := NewBot(Policy{BuyUpgrades: true, PaybackLimit: 100})
	ups := []engine.UpgradeView{
		{UpgradeDef: catalog.UpgradeDef{ID: "slow", BaseRate: 1}, NextCost: 90, Affordable: true},
		{UpgradeDef: catalog.UpgradeDef{ID: "fast", BaseRate: 10}, NextCost: 200, Affordable: true},
		{UpgradeDef: catalog.UpgradeDef{ID: "poor", BaseRate: 100}, NextCost: 10, Affordable: false},
		{UpgradeDef: catalog.UpgradeDef{ID: "long", BaseRate: 1}, NextCost: 500, Affordable: true},
	}
	id, ok := b.bestUpgrade(ups, 1)
	require.True(t, ok)
	assert.Equal(t, "fast", id)

	_, ok = b.bestUpgrade(ups[3:], 1)
	assert.False(t, ok, "payback over the limit")
}

func TestBotCatchesOldBugsAndPrestiges(t *testing.T) {
	b := NewBot(Policy{CatchBugs: true, ReactionSeconds: 1, PrestigeAt: 2})
	snap := engine.Snapshot{
		Mode: engine.ModeDev,
		Bugs: []engine.BugView{
			{Bug: engine.Bug{ID: "young"}, Age: 0.5},
			{Bug: engine.Bug{ID: "old"}, Age: 1.5},
		},
		PrestigeGain: 2,
	}
	actions := b.Decide(snap, 0.1)
	assert.Equal(t, []session.Action{
		{Type: session.ActionCatchBug, ID: "old"},
		{Type: session.ActionPrestige},
	}, actions)
}
