package engine

import (
	"math"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
)

// SaveVersion is the schema version of SaveData. A stored save with another version is discarded.
const SaveVersion = 1

// SavedUpgrade is the persisted part of an owned upgrade.
type SavedUpgrade struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// SaveData is everything that survives a reload. Bugs and delayed effects are transient.
type SaveData struct {
	Mode            Mode                  `json:"game_mode"`
	LinesOfCode     float64               `json:"lines_of_code"`
	CPS             float64               `json:"cps"` // informational, recomputed on Restore
	Upgrades        []SavedUpgrade        `json:"upgrades"`
	Commits         int                   `json:"commits"`
	LifetimeLines   float64               `json:"lifetime_lines"`
	Skills          map[string]SkillState `json:"skills"`
	Talents         map[string]int        `json:"talents"`
	Entropy         float64               `json:"entropy"`
	LifetimeEntropy float64               `json:"lifetime_entropy"`
	SecOpsUpgrades  []SavedUpgrade        `json:"secops_upgrades"`
}

// SaveData captures the persistent fields.
func (e *Engine) SaveData() SaveData {
	data := SaveData{
		Mode:          e.st.mode,
		LinesOfCode:   e.st.dev.LinesOfCode,
		CPS:           e.st.dev.CPS,
		Upgrades:      saveUpgrades(e.st.dev.Upgrades),
		Commits:       e.st.commits,
		LifetimeLines: e.st.dev.LifetimeLines,
		Skills:        make(map[string]SkillState, len(e.st.dev.Skills)),
		Talents:       make(map[string]int, len(e.st.talents)),
	}
	for id, s := range e.st.dev.Skills {
		data.Skills[id] = s
	}
	for id, lvl := range e.st.talents {
		data.Talents[id] = lvl
	}
	if so := e.st.secops; so != nil {
		data.Entropy = so.Entropy
		data.LifetimeEntropy = so.LifetimeEntropy
		data.SecOpsUpgrades = saveUpgrades(so.Upgrades)
	}
	return data
}

// Restore replaces the game with a loaded save. Counts are merged onto the current catalog
// by id, unknown ids are dropped, every number is clamped into range and the production
// caches are recomputed. Bugs and delayed effects start empty.
func (e *Engine) Restore(data SaveData) {
	dev := newDevState(e.cat)
	dev.LinesOfCode = sanitize(data.LinesOfCode)
	dev.LifetimeLines = sanitize(data.LifetimeLines)
	mergeCounts(dev.Upgrades, data.Upgrades)
	dev.CPS = productionOf(dev.Upgrades)
	for id, s := range data.Skills {
		if _, ok := e.cat.Skill(id); !ok {
			continue
		}
		dev.Skills[id] = SkillState{
			ActiveTimeRemaining: sanitize(s.ActiveTimeRemaining),
			CooldownRemaining:   sanitize(s.CooldownRemaining),
		}
	}

	talents := make(map[string]int)
	for id, lvl := range data.Talents {
		def, ok := e.cat.Talent(id)
		if !ok || lvl <= 0 {
			continue
		}
		if lvl > def.MaxLevel {
			lvl = def.MaxLevel
		}
		talents[id] = lvl
	}

	commits := data.Commits
	if commits < 0 {
		commits = 0
	}
	if commits > rules.MaxCommits {
		commits = rules.MaxCommits
	}

	e.st = state{mode: ModeDev, dev: dev, commits: commits, talents: talents}
	e.pending = effectQueue{}

	if data.Mode == ModeSecOps {
		so := newSecOpsState(e.cat)
		so.Entropy = sanitize(data.Entropy)
		so.LifetimeEntropy = sanitize(data.LifetimeEntropy)
		mergeCounts(so.Upgrades, data.SecOpsUpgrades)
		so.EPS = productionOf(so.Upgrades)
		e.st.mode = ModeSecOps
		e.st.secops = so
	}
}

func saveUpgrades(upgrades []Upgrade) []SavedUpgrade {
	out := make([]SavedUpgrade, len(upgrades))
	for i, u := range upgrades {
		out[i] = SavedUpgrade{ID: u.ID, Count: u.Count}
	}
	return out
}

func mergeCounts(upgrades []Upgrade, saved []SavedUpgrade) {
	for _, s := range saved {
		if i := indexOf(upgrades, s.ID); i >= 0 && s.Count > 0 {
			upgrades[i].Count = s.Count
		}
	}
}

// sanitize maps negative and non-finite numbers to 0.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
