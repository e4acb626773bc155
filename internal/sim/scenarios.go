package sim

import (
	"fmt"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
)

// Greedy is a bot that plays well without being clever.
var Greedy = Policy{
	ClicksPerSecond: 5,
	BuyUpgrades:     true,
	PaybackLimit:    300,
	BuyTalents:      true,
	UseSkills:       true,
	CatchBugs:       true,
	ReactionSeconds: 0.5,
}

// DefaultScenarios is the balance suite run by the balance runner.
func DefaultScenarios() []Scenario {
	firstCommit := Greedy
	firstCommit.PrestigeAt = 1

	secops := Greedy
	secops.ClicksPerSecond = 10

	return []Scenario{
		{
			Name:        "opening",
			Description: "a player who only clicks affords the first upgrade quickly",
			Policy:      Policy{ClicksPerSecond: 5, BuyUpgrades: true},
			Step:        0.1,
			MaxSeconds:  10,
			Seed:        1,
			Expect:      "owns u1 within 10s",
			Goal: func(s engine.Snapshot) bool {
				return len(s.Upgrades) > 0 && s.Upgrades[0].Count > 0
			},
		},
		{
			Name:        "first-commit",
			Description: "a greedy player reaches the first prestige",
			Policy:      firstCommit,
			SpawnRate:   0.05,
			Step:        0.25,
			MaxSeconds:  3600,
			Seed:        2,
			Expect:      "1+ commits within an hour",
			Goal: func(s engine.Snapshot) bool {
				return s.Commits >= 1
			},
		},
		{
			Name:        "bug-swarm",
			Description: "an idle player under constant bug pressure keeps some production",
			Setup: &engine.SaveData{
				Upgrades: []engine.SavedUpgrade{{ID: "u2", Count: 10}},
			},
			SpawnRate:  20,
			Step:       0.1,
			MaxSeconds: 60,
			Seed:       3,
			Expect:     "bug cap holds and production never drops below 40%",
			Check: func(t *Trace) error {
				if t.MaxBugs != rules.MaxBugs {
					return fmt.Errorf("expected the swarm to hit the cap, peaked at %d bugs", t.MaxBugs)
				}
				if t.MinBugPenalty < 0.4-1e-9 {
					return fmt.Errorf("bug penalty dropped to %.2f", t.MinBugPenalty)
				}
				return nil
			},
		},
		{
			Name:        "commit-cap",
			Description: "prestige never pushes commits past the cap",
			Setup: &engine.SaveData{
				LinesOfCode: 1e300,
				Commits:     rules.MaxCommits - 10,
			},
			Policy:     Policy{PrestigeAt: 1},
			Step:       0.1,
			MaxSeconds: 5,
			Seed:       4,
			Expect:     fmt.Sprintf("commits end at exactly %d", rules.MaxCommits),
			Check: func(t *Trace) error {
				if t.Final.Commits != rules.MaxCommits || !t.Final.CommitCapReached {
					return fmt.Errorf("ended with %d commits", t.Final.Commits)
				}
				if t.Final.PrestigeGain != 0 {
					return fmt.Errorf("prestige still offers %d commits at the cap", t.Final.PrestigeGain)
				}
				return nil
			},
		},
		{
			Name:        "secops",
			Description: "a promoted player builds an entropy economy",
			Setup: &engine.SaveData{
				Commits: rules.PromotionCommits,
			},
			Policy: func() Policy {
				p := secops
				p.Promote = true
				return p
			}(),
			Step:       0.25,
			MaxSeconds: 600,
			Seed:       5,
			Expect:     "promoted and 1k lifetime entropy within 10m",
			Goal: func(s engine.Snapshot) bool {
				return s.SecOps != nil && s.SecOps.LifetimeEntropy >= 1000
			},
			Check: func(t *Trace) error {
				if t.Actions["buy_secops_upgrade"] == 0 {
					return fmt.Errorf("never bought a secops upgrade")
				}
				return nil
			},
		},
	}
}

// Find returns the named scenario from list.
func Find(list []Scenario, name string) (Scenario, bool) {
	for _, sc := range list {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}
