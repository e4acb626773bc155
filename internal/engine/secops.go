package engine

import (
	"github.com/MRamiBalles/CommitClicker/server/internal/domain/rules"
	"github.com/MRamiBalles/CommitClicker/server/internal/events"
)

// ClickSecOps adds SecOpsClickPower entropy. Flat: no commits, talents or skills apply.
func (e *Engine) ClickSecOps() bool {
	if e.st.mode != ModeSecOps {
		return false
	}
	e.st.secops.Entropy += SecOpsClickPower
	e.st.secops.LifetimeEntropy += SecOpsClickPower
	return true
}

// SecOpsUpgradeCost is the current price of a secops upgrade. No discount applies.
func (e *Engine) SecOpsUpgradeCost(id string) (float64, bool) {
	if e.st.secops == nil {
		def, ok := e.cat.SecOpsUpgrade(id)
		if !ok {
			return 0, false
		}
		return rules.UpgradeCost(def.BaseCost, 0, 1), true
	}
	i := indexOf(e.st.secops.Upgrades, id)
	if i < 0 {
		return 0, false
	}
	u := e.st.secops.Upgrades[i]
	return rules.UpgradeCost(u.BaseCost, u.Count, 1), true
}

// BuySecOpsUpgrade buys one unit of a secops upgrade with entropy.
func (e *Engine) BuySecOpsUpgrade(id string) bool {
	if e.st.mode != ModeSecOps {
		return false
	}
	i := indexOf(e.st.secops.Upgrades, id)
	if i < 0 {
		return false
	}

	u := &e.st.secops.Upgrades[i]
	cost := rules.UpgradeCost(u.BaseCost, u.Count, 1)
	if e.st.secops.Entropy < cost {
		return false
	}

	e.st.secops.Entropy -= cost
	u.Count++
	e.st.secops.EPS = productionOf(e.st.secops.Upgrades)

	e.emit(events.EventTypeSecOpsUpgradePurchased, id, map[string]interface{}{
		"cost":  cost,
		"count": u.Count,
		"eps":   e.st.secops.EPS,
	})
	return true
}

// Entropy returns the secops resource balance, 0 before promotion.
func (e *Engine) Entropy() float64 {
	if e.st.secops == nil {
		return 0
	}
	return e.st.secops.Entropy
}

// LifetimeEntropy returns every unit of entropy ever earned, 0 before promotion.
func (e *Engine) LifetimeEntropy() float64 {
	if e.st.secops == nil {
		return 0
	}
	return e.st.secops.LifetimeEntropy
}
