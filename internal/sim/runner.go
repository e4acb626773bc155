package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/logger"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/numfmt"
	"github.com/MRamiBalles/CommitClicker/server/internal/session"
)

const maxViolations = 10

// simEpoch is where every simulated clock starts.
var simEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Runner plays scenarios against a catalog.
type Runner struct {
	cat    *catalog.Catalog
	logger *logger.Logger
}

// NewRunner creates a runner. A nil catalog uses the default one.
func NewRunner(cat *catalog.Catalog, log *logger.Logger) *Runner {
	if cat == nil {
		cat = catalog.Default()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Runner{cat: cat, logger: log}
}

// RunAll plays every scenario in order. It stops early when ctx is cancelled.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			break
		}
		results = append(results, r.Run(ctx, sc))
	}
	return results
}

// Run plays one scenario on a fresh game.
func (r *Runner) Run(ctx context.Context, sc Scenario) Result {
	step := sc.Step
	if step <= 0 {
		step = 0.1
	}
	r.logger.Infof("scenario %q: %s", sc.Name, sc.Description)

	eng := engine.New(r.cat,
		engine.WithStartTime(simEpoch),
		engine.WithRand(rand.New(rand.NewSource(sc.Seed))),
	)
	if sc.Setup != nil {
		eng.Restore(*sc.Setup)
	}
	s := session.New(eng,
		session.WithBugSpawnRate(sc.SpawnRate),
		session.WithRand(rand.New(rand.NewSource(sc.Seed+1))),
	)

	bot := NewBot(sc.Policy)
	trace := newTrace()
	mon := newMonitor(trace)
	mon.observe(s.Snapshot())

	for trace.SimSeconds < sc.MaxSeconds {
		if ctx.Err() != nil {
			trace.Violations = append(trace.Violations, "cancelled: "+ctx.Err().Error())
			break
		}

		for _, a := range bot.Decide(s.Snapshot(), step) {
			if s.Apply(ctx, a) {
				trace.Actions[string(a.Type)]++
			} else {
				trace.Rejected[string(a.Type)]++
			}
		}
		s.Tick(step)
		trace.Steps++
		trace.SimSeconds += step

		snap := s.Snapshot()
		mon.observe(snap)
		if sc.Goal != nil && sc.Goal(snap) {
			trace.GoalReached = true
			break
		}
	}
	trace.Final = s.Snapshot()

	res := Result{
		ScenarioName: sc.Name,
		Expected:     sc.Expect,
		Actual:       describe(trace),
		Trace:        trace,
	}
	switch {
	case len(trace.Violations) > 0:
		res.Reason = "invariant broken: " + trace.Violations[0]
	case sc.Goal != nil && !trace.GoalReached:
		res.Reason = fmt.Sprintf("goal not reached in %s simulated", time.Duration(sc.MaxSeconds*float64(time.Second)))
	default:
		res.Passed = true
		res.Reason = fmt.Sprintf("done after %s simulated", time.Duration(trace.SimSeconds*float64(time.Second)).Round(time.Millisecond))
		if sc.Check != nil {
			if err := sc.Check(trace); err != nil {
				res.Passed = false
				res.Reason = err.Error()
			}
		}
	}

	if res.Passed {
		r.logger.Infof("scenario %q passed: %s", sc.Name, res.Reason)
	} else {
		r.logger.Warnf("scenario %q failed: %s", sc.Name, res.Reason)
	}
	return res
}

func describe(t *Trace) string {
	f := t.Final
	if f.Mode == engine.ModeSecOps && f.SecOps != nil {
		return fmt.Sprintf("secops: %s entropy (%s lifetime), %s eps",
			numfmt.Format(f.SecOps.Entropy), numfmt.Format(f.SecOps.LifetimeEntropy), numfmt.Format(f.SecOps.EPS))
	}
	return fmt.Sprintf("dev: %s lines (%s lifetime), %s cps, %d commits",
		numfmt.Format(f.LinesOfCode), numfmt.Format(f.LifetimeLines), numfmt.Format(f.CPS), f.Commits)
}

// monitor checks game invariants between steps.
type monitor struct {
	trace    *Trace
	lifetime float64
	entropy  float64
	commits  int
}

func newMonitor(t *Trace) *monitor {
	return &monitor{trace: t}
}

func (m *monitor) observe(s engine.Snapshot) {
	t := m.trace
	if n := len(s.Bugs); n > t.MaxBugs {
		t.MaxBugs = n
	}
	if p := s.ProductionMultipliers.BugPenalty; p < t.MinBugPenalty {
		t.MinBugPenalty = p
	}
	if s.ProductionRate > t.PeakProduction {
		t.PeakProduction = s.ProductionRate
	}

	m.check(s.LinesOfCode >= 0 && !math.IsNaN(s.LinesOfCode), "lines went negative: %v", s.LinesOfCode)
	m.check(s.LifetimeLines >= m.lifetime, "lifetime lines decreased: %v -> %v", m.lifetime, s.LifetimeLines)
	m.check(s.Commits >= m.commits, "commits decreased: %d -> %d", m.commits, s.Commits)
	m.check(s.Commits <= rules.MaxCommits, "commits above cap: %d", s.Commits)
	m.check(len(s.Bugs) <= rules.MaxBugs, "%d bugs alive", len(s.Bugs))
	m.check(s.ProductionMultipliers.BugPenalty >= 0, "negative bug penalty %v", s.ProductionMultipliers.BugPenalty)
	m.check(!math.IsInf(s.ProductionRate, 0) && !math.IsNaN(s.ProductionRate), "production not finite")
	m.lifetime = math.Max(m.lifetime, s.LifetimeLines)
	m.commits = s.Commits

	if so := s.SecOps; so != nil {
		m.check(so.Entropy >= 0, "entropy went negative: %v", so.Entropy)
		m.check(so.LifetimeEntropy >= m.entropy, "lifetime entropy decreased: %v -> %v", m.entropy, so.LifetimeEntropy)
		m.entropy = math.Max(m.entropy, so.LifetimeEntropy)
	}
}

func (m *monitor) check(ok bool, format string, args ...interface{}) {
	if ok || len(m.trace.Violations) >= maxViolations {
		return
	}
	m.trace.Violations = append(m.trace.Violations,
		fmt.Sprintf("step %d: ", m.trace.Steps)+fmt.Sprintf(format, args...))
}
