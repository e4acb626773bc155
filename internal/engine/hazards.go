package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

var bugLifetime = secondsToDuration(rules.BugLifetime)

// SpawnBug adds one bug at a random position. No-op once MaxBugs are alive.
// This is the only way bugs come into existence, scheduled spawns included.
func (e *Engine) SpawnBug() bool {
	return e.spawnBugAt(e.now)
}

// spawnBugAt creates a bug born at createdAt, which is earlier than now for delayed spawns.
func (e *Engine) spawnBugAt(createdAt time.Time) bool {
	if e.st.mode != ModeDev || len(e.st.dev.Bugs) >= rules.MaxBugs {
		return false
	}

	id, err := uuid.NewRandomFromReader(e.rng)
	if err != nil {
		return false
	}
	span := rules.BugMaxPos - rules.BugMinPos
	bug := Bug{
		ID:        id.String(),
		X:         rules.BugMinPos + e.rng.Float64()*span,
		Y:         rules.BugMinPos + e.rng.Float64()*span,
		CreatedAt: createdAt,
	}
	e.st.dev.Bugs = append(e.st.dev.Bugs, bug)

	e.emit(events.EventTypeBugSpawned, bug.ID, map[string]interface{}{
		"x":      bug.X,
		"y":      bug.Y,
		"active": len(e.st.dev.Bugs),
	})
	return true
}

// CatchBug squashes a bug and pays the catch bonus. No-op on unknown id.
func (e *Engine) CatchBug(id string) bool {
	if e.st.mode != ModeDev {
		return false
	}
	for i, b := range e.st.dev.Bugs {
		if b.ID != id {
			continue
		}
		e.st.dev.Bugs = append(e.st.dev.Bugs[:i:i], e.st.dev.Bugs[i+1:]...)
		bonus := rules.BugCatchBonus(e.st.dev.CPS)
		e.gainLines(bonus)

		e.emit(events.EventTypeBugCaught, id, map[string]interface{}{
			"bonus": bonus,
		})
		return true
	}
	return false
}

// CleanupBugs removes every bug whose age on the engine clock has reached the lifetime.
// Returns how many expired.
func (e *Engine) CleanupBugs() int {
	if len(e.st.dev.Bugs) == 0 {
		return 0
	}
	kept := e.st.dev.Bugs[:0:0]
	expired := 0
	for _, b := range e.st.dev.Bugs {
		if e.bugAge(b) >= bugLifetime {
			expired++
			e.emit(events.EventTypeBugExpired, b.ID, nil)
			continue
		}
		kept = append(kept, b)
	}
	e.st.dev.Bugs = kept
	return expired
}

func (e *Engine) bugAge(b Bug) time.Duration {
	return e.now.Sub(b.CreatedAt)
}

// ActiveBugs is the number of bugs currently alive.
func (e *Engine) ActiveBugs() int {
	return len(e.st.dev.Bugs)
}
