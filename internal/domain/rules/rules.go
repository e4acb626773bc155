// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "math"

const (
	CostGrowth = 1.15 // Every purchase makes the next one 15% pricier

	CommitBaseCost   = 50000.0
	CommitBonus      = 0.1  // Production/click bonus per commit
	MaxCommits       = 3000 // Hard ceiling on the prestige currency
	MaxPrestigeGain  = 1000 // Most commits one prestige can grant
	PromotionCommits = 100  // Commits required to unlock SecOps

	MaxUpgradeDiscount = 0.5

	MaxBugs         = 3
	BugLifetime     = 5.0 // seconds
	BugPenaltyEach  = 0.2
	BugCatchCPSMult = 20.0
	BugCatchMinimum = 500.0
	BugMinPos       = 10.0
	BugMaxPos       = 90.0
)

// UpgradeCost returns floor(baseCost × 1.15^count × discount).
// discount is the fraction of the price actually paid (1 = full price).
func UpgradeCost(baseCost float64, count int, discount float64) float64 {
	return math.Floor(baseCost * math.Pow(CostGrowth, float64(count)) * discount)
}

// UpgradeDiscount converts a summed per-level discount into the price factor, capped at 50% off.
func UpgradeDiscount(totalDiscount float64) float64 {
	return 1 - math.Min(MaxUpgradeDiscount, math.Max(0, totalDiscount))
}

// CommitMultiplier is the permanent bonus granted by owned commits.
func CommitMultiplier(commits int) float64 {
	return 1 + float64(commits)*CommitBonus
}

// BugPenalty is the production factor left after active bugs take their cut.
// resistance reduces each bug's bite (0.1 = 10% less effective) and saturates at 1.
func BugPenalty(activeBugs int, resistance float64) float64 {
	if activeBugs <= 0 {
		return 1
	}
	perBug := BugPenaltyEach * (1 - math.Min(1, math.Max(0, resistance)))
	return math.Max(0, 1-perBug*float64(activeBugs))
}

// BugCatchBonus is what catching a bug pays out.
func BugCatchBonus(cps float64) float64 {
	return math.Max(cps*BugCatchCPSMult, BugCatchMinimum)
}
