package rules

import "math"

// prestigeRate is (CostGrowth - 1) written out, so 50000 lines at 0 commits lands exactly on 1.
const prestigeRate = 0.15

// CommitCost is the exact (unfloored) price of the next commit.
func CommitCost(commits int) float64 {
	return CommitBaseCost * math.Pow(CostGrowth, float64(commits))
}

// NextCommitCost returns floor(CommitCost). ok is false once the commit cap is reached.
func NextCommitCost(commits int) (cost float64, ok bool) {
	if commits >= MaxCommits {
		return 0, false
	}
	return math.Floor(CommitCost(commits)), true
}

// CumulativeCommitCost is the geometric sum of the next n commit prices.
func CumulativeCommitCost(commits, n int) float64 {
	if n <= 0 {
		return 0
	}
	return CommitCost(commits) * (math.Pow(CostGrowth, float64(n)) - 1) / prestigeRate
}

// RawPrestigeGain is the largest n whose cumulative cost fits in resource,
// before talents and caps. Returns 0 when nothing is affordable or the math overflows.
func RawPrestigeGain(resource float64, commits int) int {
	next := CommitCost(commits)
	if math.IsNaN(resource) || math.IsInf(next, 0) || resource < next {
		return 0
	}

	val := resource*prestigeRate/next + 1
	raw := math.Floor(math.Log(val) / math.Log(CostGrowth))
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw > math.MaxInt32 {
		return 0
	}

	n := int(raw)
	// The closed form can land one off at exact boundaries.
	for n > 0 && CumulativeCommitCost(commits, n) > resource {
		n--
	}
	for n < math.MaxInt32 && CumulativeCommitCost(commits, n+1) <= resource {
		n++
	}
	return n
}

// PrestigeGain scales the raw gain by the prestige talent bonus and applies both caps.
func PrestigeGain(resource float64, commits int, talentBonus float64) int {
	if commits >= MaxCommits {
		return 0
	}
	raw := RawPrestigeGain(resource, commits)
	if raw <= 0 {
		return 0
	}

	// Products like 45*1.4 land a hair under the integer.
	scaled := math.Floor(float64(raw)*(1+talentBonus) + 1e-9)
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return 0
	}

	gain := int(math.Min(scaled, MaxPrestigeGain))
	if headroom := MaxCommits - commits; gain > headroom {
		gain = headroom
	}
	if gain < 0 {
		return 0
	}
	return gain
}
