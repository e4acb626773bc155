package engine

import (
	"time"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
)

// UpgradeView is an owned upgrade with its current price.
type UpgradeView struct {
	catalog.UpgradeDef
	Count      int     `json:"count"`
	NextCost   float64 `json:"next_cost"`
	Affordable bool    `json:"affordable"`
}

// SkillView is a skill definition with its live timers.
type SkillView struct {
	catalog.SkillDef
	ActiveTimeRemaining float64    `json:"active_time_remaining"`
	CooldownRemaining   float64    `json:"cooldown_remaining"`
	Phase               SkillPhase `json:"phase"`
}

// TalentView is a talent definition with its owned level.
type TalentView struct {
	catalog.TalentDef
	Level      int    `json:"level"`
	EffectText string `json:"effect_text"`
	Affordable bool   `json:"affordable"`
}

// BugView is a live bug and its age in seconds.
type BugView struct {
	Bug
	Age float64 `json:"age"`
}

// SecOpsView is the secops half of a snapshot.
type SecOpsView struct {
	Entropy         float64       `json:"entropy"`
	LifetimeEntropy float64       `json:"lifetime_entropy"`
	EPS             float64       `json:"eps"`
	Upgrades        []UpgradeView `json:"upgrades"`
}

// Snapshot is a deep copy of the game plus every derived value a client displays.
type Snapshot struct {
	Mode  Mode      `json:"mode"`
	Clock time.Time `json:"clock"`

	LinesOfCode           float64     `json:"lines_of_code"`
	LifetimeLines         float64     `json:"lifetime_lines"`
	CPS                   float64     `json:"cps"`
	ClickPower            float64     `json:"click_power"`
	ClickYield            float64     `json:"click_yield"`
	ProductionRate        float64     `json:"production_rate"`
	ProductionMultipliers Multipliers `json:"production_multipliers"`
	ClickMultipliers      Multipliers `json:"click_multipliers"`

	Commits          int     `json:"commits"`
	PrestigeGain     int     `json:"prestige_gain"`
	NextCommitCost   float64 `json:"next_commit_cost"`
	CommitCapReached bool    `json:"commit_cap_reached"`
	CanPromote       bool    `json:"can_promote"`

	Upgrades       []UpgradeView `json:"upgrades"`
	Skills         []SkillView   `json:"skills"`
	Talents        []TalentView  `json:"talents"`
	Bugs           []BugView     `json:"bugs"`
	PendingEffects int           `json:"pending_effects"`

	SecOps *SecOpsView `json:"secops,omitempty"`
}

// Snapshot copies the full state. The result shares nothing with the engine.
func (e *Engine) Snapshot() Snapshot {
	dev := e.st.dev
	snap := Snapshot{
		Mode:                  e.st.mode,
		Clock:                 e.now,
		LinesOfCode:           dev.LinesOfCode,
		LifetimeLines:         dev.LifetimeLines,
		CPS:                   dev.CPS,
		ClickPower:            dev.ClickPower,
		ClickYield:            e.ClickYield(),
		ProductionRate:        e.GetProductionRate(),
		ProductionMultipliers: e.ProductionMultipliers(),
		ClickMultipliers:      e.ClickMultipliers(),
		Commits:               e.st.commits,
		PrestigeGain:          e.GetPrestigeGain(),
		CanPromote:            e.CanPromote(),
		PendingEffects:        e.pending.len(),
	}

	if cost, ok := e.GetNextCommitCost(); ok {
		snap.NextCommitCost = cost
	} else {
		snap.CommitCapReached = true
	}

	discount := e.upgradeDiscount()
	snap.Upgrades = viewUpgrades(dev.Upgrades, discount, dev.LinesOfCode)

	for _, def := range e.cat.Skills {
		s := dev.Skills[def.ID]
		def.BugSpawnDelays = append([]float64(nil), def.BugSpawnDelays...)
		snap.Skills = append(snap.Skills, SkillView{
			SkillDef:            def,
			ActiveTimeRemaining: s.ActiveTimeRemaining,
			CooldownRemaining:   s.CooldownRemaining,
			Phase:               s.Phase(),
		})
	}

	for _, def := range e.cat.Talents {
		level := e.st.talents[def.ID]
		snap.Talents = append(snap.Talents, TalentView{
			TalentDef:  def,
			Level:      level,
			EffectText: def.EffectDescription(level),
			Affordable: level < def.MaxLevel && e.st.commits >= def.BaseCost,
		})
	}

	snap.Bugs = make([]BugView, 0, len(dev.Bugs))
	for _, b := range dev.Bugs {
		snap.Bugs = append(snap.Bugs, BugView{Bug: b, Age: e.bugAge(b).Seconds()})
	}

	if so := e.st.secops; so != nil {
		snap.SecOps = &SecOpsView{
			Entropy:         so.Entropy,
			LifetimeEntropy: so.LifetimeEntropy,
			EPS:             so.EPS,
			Upgrades:        viewUpgrades(so.Upgrades, 1, so.Entropy),
		}
	}
	return snap
}

func viewUpgrades(upgrades []Upgrade, discount, balance float64) []UpgradeView {
	out := make([]UpgradeView, len(upgrades))
	for i, u := range upgrades {
		cost := rules.UpgradeCost(u.BaseCost, u.Count, discount)
		out[i] = UpgradeView{
			UpgradeDef: u.UpgradeDef,
			Count:      u.Count,
			NextCost:   cost,
			Affordable: balance >= cost,
		}
	}
	return out
}
