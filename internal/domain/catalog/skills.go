package catalog

// SkillEffect identifies what a skill does when activated.
type SkillEffect string

const (
	SkillProduction SkillEffect = "production" // Multiplies passive production while active
	SkillClick      SkillEffect = "click"      // Multiplies click yield while active
	SkillBurst      SkillEffect = "burst"      // One-shot bonus plus scheduled bug spawns
)

func (e SkillEffect) valid() bool {
	switch e {
	case SkillProduction, SkillClick, SkillBurst:
		return true
	}
	return false
}

// SkillDef is a player-triggered timed buff. Cooldown and Duration are in seconds.
type SkillDef struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Cooldown    float64     `yaml:"cooldown" json:"cooldown"`
	Duration    float64     `yaml:"duration" json:"duration"`
	Effect      SkillEffect `yaml:"effect" json:"effect"`

	// Multiplier applies to SkillProduction and SkillClick while active.
	Multiplier float64 `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`

	// InstantBonus is a fraction of current lines granted on activation (SkillBurst).
	InstantBonus float64 `yaml:"instant_bonus,omitempty" json:"instant_bonus,omitempty"`

	// BugSpawnDelays schedules one bug spawn per entry, in seconds after activation.
	BugSpawnDelays []float64 `yaml:"bug_spawn_delays,omitempty" json:"bug_spawn_delays,omitempty"`
}
