package catalog

import (
	"fmt"
	"math"
)

// TalentEffect identifies which multiplier a talent feeds.
type TalentEffect string

const (
	TalentClickPower      TalentEffect = "click_power"      // +PerLevel click yield
	TalentSkillDuration   TalentEffect = "skill_duration"   // +PerLevel skill active time
	TalentProduction      TalentEffect = "production"       // +PerLevel passive production
	TalentBugResistance   TalentEffect = "bug_resistance"   // -PerLevel bug penalty effectiveness
	TalentUpgradeDiscount TalentEffect = "upgrade_discount" // -PerLevel upgrade cost
	TalentPrestigeGain    TalentEffect = "prestige_gain"    // +PerLevel commits on prestige
)

func (e TalentEffect) valid() bool {
	switch e {
	case TalentClickPower, TalentSkillDuration, TalentProduction,
		TalentBugResistance, TalentUpgradeDiscount, TalentPrestigeGain:
		return true
	}
	return false
}

// TalentDef is a permanent, leveled modifier bought with commits.
// The cost is flat: every level costs BaseCost.
type TalentDef struct {
	ID          string       `yaml:"id" json:"id"`
	Branch      Branch       `yaml:"branch" json:"branch"`
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description" json:"description"`
	BaseCost    int          `yaml:"base_cost" json:"base_cost"`
	MaxLevel    int          `yaml:"max_level" json:"max_level"`
	Effect      TalentEffect `yaml:"effect" json:"effect"`
	PerLevel    float64      `yaml:"per_level" json:"per_level"`
}

// EffectDescription renders the bonus granted at the given level, e.g. "+100% Click Power".
func (t TalentDef) EffectDescription(level int) string {
	pct := int(math.Round(float64(level) * t.PerLevel * 100))
	switch t.Effect {
	case TalentClickPower:
		return fmt.Sprintf("+%d%% Click Power", pct)
	case TalentSkillDuration:
		return fmt.Sprintf("+%d%% Duration", pct)
	case TalentProduction:
		return fmt.Sprintf("+%d%% CPS", pct)
	case TalentBugResistance:
		return fmt.Sprintf("-%d%% Bug Penalty", pct)
	case TalentUpgradeDiscount:
		return fmt.Sprintf("-%d%% Upgrade Cost", pct)
	case TalentPrestigeGain:
		return fmt.Sprintf("+%d%% Prestige Gain", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}
