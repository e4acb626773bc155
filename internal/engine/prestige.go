package engine

import (
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

// GetNextCommitCost is the floored price of the next commit. ok is false at the commit cap.
func (e *Engine) GetNextCommitCost() (cost float64, ok bool) {
	return rules.NextCommitCost(e.st.commits)
}

// GetPrestigeGain is how many commits a prestige would grant right now.
func (e *Engine) GetPrestigeGain() int {
	if e.st.mode != ModeDev {
		return 0
	}
	return rules.PrestigeGain(e.st.dev.LinesOfCode, e.st.commits, e.talentTotal(catalog.TalentPrestigeGain))
}

// Prestige trades the current run for commits. No-op when the gain is 0.
// Talents, commits and pending delayed effects survive.
func (e *Engine) Prestige() bool {
	gain := e.GetPrestigeGain()
	if gain <= 0 {
		return false
	}

	spent := e.st.dev.LinesOfCode
	e.st.dev.LifetimeLines += spent
	e.resetRun()
	e.st.commits += gain

	e.emit(events.EventTypePrestige, "", map[string]interface{}{
		"gain":    gain,
		"lines":   spent,
		"commits": e.st.commits,
	})
	return true
}

// CanPromote reports whether PromoteToSecOps would succeed.
func (e *Engine) CanPromote() bool {
	return e.st.mode == ModeDev && e.st.commits >= rules.PromotionCommits
}

// PromoteToSecOps switches to secops for good. Requires dev mode and enough commits.
func (e *Engine) PromoteToSecOps() bool {
	if !e.CanPromote() {
		return false
	}
	e.st.mode = ModeSecOps
	e.st.secops = newSecOpsState(e.cat)
	e.st.dev.Bugs = nil

	e.emit(events.EventTypePromoted, "", map[string]interface{}{
		"commits": e.st.commits,
	})
	return true
}
