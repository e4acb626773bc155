package engine

import (
	"math"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
)

// Multipliers is the breakdown of the composite factors. Every factor is independent;
// the composite is their product.
type Multipliers struct {
	Commit     float64 `json:"commit"`
	Skill      float64 `json:"skill"`
	Talent     float64 `json:"talent"`
	BugPenalty float64 `json:"bug_penalty"`
}

// Product multiplies every factor.
func (m Multipliers) Product() float64 {
	return m.Commit * m.Skill * m.Talent * m.BugPenalty
}

// ClickMultipliers is the composite for manual clicks. Bugs never slow clicks down.
func (e *Engine) ClickMultipliers() Multipliers {
	return Multipliers{
		Commit:     rules.CommitMultiplier(e.st.commits),
		Skill:      e.activeSkillMultiplier(catalog.SkillClick),
		Talent:     1 + e.talentTotal(catalog.TalentClickPower),
		BugPenalty: 1,
	}
}

// ProductionMultipliers is the composite for passive production.
func (e *Engine) ProductionMultipliers() Multipliers {
	return Multipliers{
		Commit:     rules.CommitMultiplier(e.st.commits),
		Skill:      e.activeSkillMultiplier(catalog.SkillProduction),
		Talent:     1 + e.talentTotal(catalog.TalentProduction),
		BugPenalty: rules.BugPenalty(len(e.st.dev.Bugs), e.talentTotal(catalog.TalentBugResistance)),
	}
}

// ClickYield is what one dev click is worth right now.
func (e *Engine) ClickYield() float64 {
	return e.st.dev.ClickPower * e.ClickMultipliers().Product()
}

// GetProductionRate is the effective per-second production of the active mode.
func (e *Engine) GetProductionRate() float64 {
	if e.st.mode == ModeSecOps {
		return e.st.secops.EPS
	}
	return e.st.dev.CPS * e.ProductionMultipliers().Product()
}

// Click adds one click worth of lines. Always succeeds in dev mode.
func (e *Engine) Click() bool {
	if e.st.mode != ModeDev {
		return false
	}
	e.gainLines(e.ClickYield())
	return true
}

// Tick advances the game by deltaSeconds of elapsed time. Negative or non-finite deltas are ignored.
func (e *Engine) Tick(deltaSeconds float64) {
	if deltaSeconds < 0 || math.IsNaN(deltaSeconds) || math.IsInf(deltaSeconds, 0) {
		return
	}

	e.now = e.now.Add(secondsToDuration(deltaSeconds))
	e.decaySkills(deltaSeconds)

	switch e.st.mode {
	case ModeSecOps:
		gain := e.st.secops.EPS * deltaSeconds
		e.st.secops.Entropy += gain
		e.st.secops.LifetimeEntropy += gain
		e.drainDue()
	default:
		mult := e.ProductionMultipliers().Product()
		if e.st.dev.CPS > 0 {
			e.gainLines(e.st.dev.CPS * mult * deltaSeconds)
		}
		e.drainDue()
		e.CleanupBugs()
	}
}

func (e *Engine) gainLines(amount float64) {
	if amount <= 0 || math.IsNaN(amount) {
		return
	}
	e.st.dev.LinesOfCode += amount
	e.st.dev.LifetimeLines += amount
}
