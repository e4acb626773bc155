package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpgradeCost(t *testing.T) {
	assert.Equal(t, 15.0, UpgradeCost(15, 0, 1))
	assert.Equal(t, 17.0, UpgradeCost(15, 1, 1))
	assert.Equal(t, 1100.0, UpgradeCost(1100, 0, 1))
	assert.Equal(t, 7.0, UpgradeCost(15, 0, 0.5))
}

func TestUpgradeDiscount(t *testing.T) {
	assert.Equal(t, 1.0, UpgradeDiscount(0))
	assert.InDelta(t, 0.75, UpgradeDiscount(0.25), 1e-12)
	assert.Equal(t, 0.5, UpgradeDiscount(0.9))
	assert.Equal(t, 1.0, UpgradeDiscount(-1))
}

func TestCommitMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, CommitMultiplier(0))
	assert.InDelta(t, 2.0, CommitMultiplier(10), 1e-12)
	assert.InDelta(t, 301.0, CommitMultiplier(MaxCommits), 1e-9)
}

func TestBugPenalty(t *testing.T) {
	tests := []struct {
		name       string
		bugs       int
		resistance float64
		want       float64
	}{
		{"no bugs", 0, 0, 1},
		{"one bug", 1, 0, 0.8},
		{"three bugs", 3, 0, 0.4},
		{"floored at zero", 10, 0, 0},
		{"half resistance", 2, 0.5, 0.8},
		{"full resistance", 3, 1, 1},
		{"resistance saturates", 3, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BugPenalty(tt.bugs, tt.resistance), 1e-12)
		})
	}
}

func TestBugCatchBonus(t *testing.T) {
	assert.Equal(t, 500.0, BugCatchBonus(0))
	assert.Equal(t, 500.0, BugCatchBonus(25))
	assert.Equal(t, 2000.0, BugCatchBonus(100))
}

func TestNextCommitCost(t *testing.T) {
	cost, ok := NextCommitCost(0)
	assert.True(t, ok)
	assert.Equal(t, 50000.0, cost)

	cost, ok = NextCommitCost(1)
	assert.True(t, ok)
	assert.InDelta(t, 57500.0, cost, 1, "floored, so 50000*1.15 may land on 57499")

	_, ok = NextCommitCost(MaxCommits)
	assert.False(t, ok)
}

func TestRawPrestigeGain(t *testing.T) {
	assert.Equal(t, 0, RawPrestigeGain(0, 0))
	assert.Equal(t, 0, RawPrestigeGain(49999.99, 0))
	assert.Equal(t, 1, RawPrestigeGain(50000, 0))
	assert.Equal(t, 1, RawPrestigeGain(107499, 0))
	assert.Equal(t, 2, RawPrestigeGain(107500, 0))
	assert.Equal(t, 0, RawPrestigeGain(math.Inf(1), 0))
	assert.Equal(t, 0, RawPrestigeGain(math.NaN(), 0))
}

func TestRawPrestigeGainBracketsResource(t *testing.T) {
	for commits := 0; commits < 400; commits += 37 {
		for _, r := range []float64{1, 1.15, 2, 10, 123.456, 1e4, 1e8} {
			resource := CommitCost(commits) * r
			n := RawPrestigeGain(resource, commits)
			assert.LessOrEqual(t, CumulativeCommitCost(commits, n), resource)
			assert.Greater(t, CumulativeCommitCost(commits, n+1), resource)
		}
	}
}

func TestPrestigeGain(t *testing.T) {
	assert.Equal(t, 1, PrestigeGain(50000, 0, 0))
	assert.Equal(t, 1, PrestigeGain(50000, 0, 0.4), "floor(1.4)")
	assert.Equal(t, 3, PrestigeGain(107500, 0, 0.5))
	// 45 * 1.4 is 62.999... in float64.
	assert.Equal(t, 63, PrestigeGain(CumulativeCommitCost(0, 45), 0, 4*0.1))
	assert.Equal(t, MaxPrestigeGain, PrestigeGain(1e300, 0, 0))
	assert.Equal(t, 1, PrestigeGain(1e300, MaxCommits-1, 0))
	assert.Equal(t, 0, PrestigeGain(1e300, MaxCommits, 0))
}
