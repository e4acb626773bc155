package engine

import (
	"time"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
)

// Mode is the active game mode. The dev → secops transition is one-way.
type Mode string

const (
	ModeDev    Mode = "dev"
	ModeSecOps Mode = "secops"
)

// Upgrade is an owned producer: the catalog definition plus how many units were bought.
type Upgrade struct {
	catalog.UpgradeDef
	Count int `json:"count"`
}

// SkillState holds the two countdowns of a skill, in seconds. Both decay toward zero.
type SkillState struct {
	ActiveTimeRemaining float64 `json:"active_time_remaining"`
	CooldownRemaining   float64 `json:"cooldown_remaining"`
}

// Bug is a transient hazard. X and Y are percentages in [10, 90].
type Bug struct {
	ID        string    `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	CreatedAt time.Time `json:"created_at"`
}

// DevState is the dev-mode run. It stays in memory after promotion but is inert.
type DevState struct {
	LinesOfCode   float64
	LifetimeLines float64
	CPS           float64 // derived from Upgrades, never set directly
	ClickPower    float64
	Upgrades      []Upgrade
	Skills        map[string]SkillState
	Bugs          []Bug // transient
}

// SecOpsState exists only after promotion.
type SecOpsState struct {
	Entropy         float64
	LifetimeEntropy float64
	EPS             float64 // derived from Upgrades
	Upgrades        []Upgrade
}

// state is the whole mutable game, owned by exactly one Engine.
type state struct {
	mode    Mode
	dev     DevState
	secops  *SecOpsState // nil while in dev mode
	commits int
	talents map[string]int
}

func newUpgrades(defs []catalog.UpgradeDef) []Upgrade {
	out := make([]Upgrade, len(defs))
	for i, d := range defs {
		out[i] = Upgrade{UpgradeDef: d}
	}
	return out
}

func newDevState(cat *catalog.Catalog) DevState {
	return DevState{
		ClickPower: BaseClickPower,
		Upgrades:   newUpgrades(cat.Upgrades),
		Skills:     make(map[string]SkillState),
	}
}

func newSecOpsState(cat *catalog.Catalog) *SecOpsState {
	return &SecOpsState{Upgrades: newUpgrades(cat.SecOpsUpgrades)}
}

// productionOf sums baseRate × count. Production is always recomputed, never patched.
func productionOf(upgrades []Upgrade) float64 {
	total := 0.0
	for _, u := range upgrades {
		total += u.BaseRate * float64(u.Count)
	}
	return total
}
