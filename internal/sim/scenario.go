// Package sim plays the progression engine headlessly with scripted bots.
// Scenarios are balance checks: each one drives a fresh game through the session
// layer on simulated time and reports whether it met its goal without breaking
// any game invariant along the way.
package sim

import (
	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
)

// Policy is how a bot plays.
type Policy struct {
	ClicksPerSecond float64 `yaml:"clicks_per_second"`
	BuyUpgrades     bool    `yaml:"buy_upgrades"`
	// PaybackLimit skips upgrades that take longer than this many seconds to pay for
	// themselves. 0 buys anything affordable.
	PaybackLimit float64 `yaml:"payback_limit"`
	BuyTalents   bool    `yaml:"buy_talents"`
	UseSkills    bool    `yaml:"use_skills"`
	CatchBugs    bool    `yaml:"catch_bugs"`
	// ReactionSeconds is how old a bug must be before the bot notices it.
	ReactionSeconds float64 `yaml:"reaction_seconds"`
	// PrestigeAt prestiges once the gain reaches this many commits. 0 never prestiges.
	PrestigeAt int  `yaml:"prestige_at"`
	Promote    bool `yaml:"promote"`
}

// Scenario is one scripted run.
type Scenario struct {
	Name        string
	Description string
	// Setup restores this save before the first step.
	Setup  *engine.SaveData
	Policy Policy
	// SpawnRate is the random bug rate per second rolled by the session.
	SpawnRate float64
	// Step is the simulated seconds per tick.
	Step       float64
	MaxSeconds float64
	Seed       int64

	Expect string
	// Goal ends the run early when it returns true. A nil goal runs to MaxSeconds and passes.
	Goal func(engine.Snapshot) bool
	// Check runs after the last step and can fail the scenario.
	Check func(*Trace) error
}

// Trace is what happened during a run.
type Trace struct {
	Steps       int
	SimSeconds  float64
	GoalReached bool
	Actions     map[string]int
	Rejected    map[string]int

	MaxBugs        int
	MinBugPenalty  float64
	PeakProduction float64
	Violations     []string

	Final engine.Snapshot
}

func newTrace() *Trace {
	return &Trace{
		Actions:       make(map[string]int),
		Rejected:      make(map[string]int),
		MinBugPenalty: 1,
	}
}

// Result captures the outcome of a scenario.
type Result struct {
	ScenarioName string
	Expected     string
	Actual       string
	Passed       bool
	Reason       string
	Trace        *Trace
}
