package engine

import (
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

// UpgradeCost is the current price of a dev upgrade, talent discount included.
func (e *Engine) UpgradeCost(id string) (float64, bool) {
	i := indexOf(e.st.dev.Upgrades, id)
	if i < 0 {
		return 0, false
	}
	u := e.st.dev.Upgrades[i]
	return rules.UpgradeCost(u.BaseCost, u.Count, e.upgradeDiscount()), true
}

// BuyUpgrade buys one unit of a dev upgrade. No-op on unknown id or insufficient lines.
func (e *Engine) BuyUpgrade(id string) bool {
	if e.st.mode != ModeDev {
		return false
	}
	i := indexOf(e.st.dev.Upgrades, id)
	if i < 0 {
		return false
	}

	u := &e.st.dev.Upgrades[i]
	cost := rules.UpgradeCost(u.BaseCost, u.Count, e.upgradeDiscount())
	if e.st.dev.LinesOfCode < cost {
		return false
	}

	e.st.dev.LinesOfCode -= cost
	u.Count++
	e.st.dev.CPS = productionOf(e.st.dev.Upgrades)

	e.emit(events.EventTypeUpgradePurchased, id, map[string]interface{}{
		"cost":  cost,
		"count": u.Count,
		"cps":   e.st.dev.CPS,
	})
	return true
}

func (e *Engine) upgradeDiscount() float64 {
	return rules.UpgradeDiscount(e.talentTotal(catalog.TalentUpgradeDiscount))
}

func indexOf(upgrades []Upgrade, id string) int {
	for i := range upgrades {
		if upgrades[i].ID == id {
			return i
		}
	}
	return -1
}
