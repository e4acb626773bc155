package engine

import (
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

// BuyTalent spends the talent's flat cost in commits for one more level.
// No-op on unknown id, max level or too few commits. Talents survive prestige.
func (e *Engine) BuyTalent(id string) bool {
	if e.st.mode != ModeDev {
		return false
	}
	def, ok := e.cat.Talent(id)
	if !ok {
		return false
	}
	level := e.st.talents[id]
	if level >= def.MaxLevel || e.st.commits < def.BaseCost {
		return false
	}

	e.st.commits -= def.BaseCost
	e.st.talents[id] = level + 1

	e.emit(events.EventTypeTalentPurchased, id, map[string]interface{}{
		"level":   level + 1,
		"cost":    def.BaseCost,
		"commits": e.st.commits,
	})
	return true
}

// talentTotal sums level × perLevel over every talent feeding the given effect.
func (e *Engine) talentTotal(effect catalog.TalentEffect) float64 {
	total := 0.0
	for _, t := range e.cat.Talents {
		if t.Effect != effect {
			continue
		}
		total += float64(e.st.talents[t.ID]) * t.PerLevel
	}
	return total
}
