package engine

import (
	"math"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

// SkillPhase is the derived state of a skill's two timers.
type SkillPhase string

const (
	SkillIdle     SkillPhase = "idle"
	SkillActive   SkillPhase = "active"
	SkillCooldown SkillPhase = "cooldown"
)

// Phase reports where the timers put the skill.
func (s SkillState) Phase() SkillPhase {
	switch {
	case s.ActiveTimeRemaining > 0:
		return SkillActive
	case s.CooldownRemaining > 0:
		return SkillCooldown
	}
	return SkillIdle
}

// ActivateSkill fires a skill. No-op on unknown id or while the cooldown runs
// (which covers the active phase too).
func (e *Engine) ActivateSkill(id string) bool {
	if e.st.mode != ModeDev {
		return false
	}
	def, ok := e.cat.Skill(id)
	if !ok {
		return false
	}
	if e.st.dev.Skills[id].CooldownRemaining > 0 {
		return false
	}

	payload := map[string]interface{}{}
	if def.Effect == catalog.SkillBurst {
		bonus := e.st.dev.LinesOfCode * def.InstantBonus
		e.gainLines(bonus)
		payload["bonus"] = bonus
		for _, delay := range def.BugSpawnDelays {
			e.pending.schedule(e.now.Add(secondsToDuration(delay)), effectSpawnBug)
		}
	}

	duration := def.Duration * (1 + e.talentTotal(catalog.TalentSkillDuration))
	e.st.dev.Skills[id] = SkillState{
		ActiveTimeRemaining: duration,
		CooldownRemaining:   def.Cooldown,
	}

	payload["duration"] = duration
	payload["cooldown"] = def.Cooldown
	e.emit(events.EventTypeSkillActivated, id, payload)
	return true
}

// decaySkills moves both timers of every skill toward zero.
func (e *Engine) decaySkills(dt float64) {
	for id, s := range e.st.dev.Skills {
		s.ActiveTimeRemaining = math.Max(0, s.ActiveTimeRemaining-dt)
		s.CooldownRemaining = math.Max(0, s.CooldownRemaining-dt)
		e.st.dev.Skills[id] = s
	}
}

// activeSkillMultiplier is the largest multiplier among active skills of the given kind, 1 if none.
func (e *Engine) activeSkillMultiplier(kind catalog.SkillEffect) float64 {
	best := 1.0
	for _, def := range e.cat.Skills {
		if def.Effect != kind {
			continue
		}
		if e.st.dev.Skills[def.ID].ActiveTimeRemaining > 0 && def.Multiplier > best {
			best = def.Multiplier
		}
	}
	return best
}
