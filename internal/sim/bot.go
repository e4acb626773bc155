package sim

import (
	"math"

	"github.com/MRamiBalles/CommitClicker/server/internal/engine"
	"github.com/MRamiBalles/CommitClicker/server/internal/session"
)

// Bot turns snapshots into actions according to a Policy.
type Bot struct {
	policy    Policy
	clickDebt float64
}

// NewBot creates a bot.
func NewBot(p Policy) *Bot {
	return &Bot{policy: p}
}

// Decide returns the actions to take during the next step of dt seconds.
func (b *Bot) Decide(snap engine.Snapshot, dt float64) []session.Action {
	var actions []session.Action

	b.clickDebt += b.policy.ClicksPerSecond * dt
	clicks := math.Floor(b.clickDebt)
	b.clickDebt -= clicks
	click := session.ActionClick
	if snap.Mode == engine.ModeSecOps {
		click = session.ActionClickSecOps
	}
	for i := 0; i < int(clicks); i++ {
		actions = append(actions, session.Action{Type: click})
	}

	if snap.Mode == engine.ModeSecOps {
		if b.policy.BuyUpgrades && snap.SecOps != nil {
			if id, ok := b.bestUpgrade(snap.SecOps.Upgrades, 1); ok {
				actions = append(actions, session.Action{Type: session.ActionBuySecOpsUpgrade, ID: id})
			}
		}
		return actions
	}

	if b.policy.CatchBugs {
		for _, bug := range snap.Bugs {
			if bug.Age >= b.policy.ReactionSeconds {
				actions = append(actions, session.Action{Type: session.ActionCatchBug, ID: bug.ID})
			}
		}
	}

	if b.policy.UseSkills {
		for _, s := range snap.Skills {
			if s.Phase == engine.SkillIdle {
				actions = append(actions, session.Action{Type: session.ActionActivateSkill, ID: s.ID})
			}
		}
	}

	if b.policy.Promote && snap.CanPromote {
		return append(actions, session.Action{Type: session.ActionPromote})
	}

	if b.policy.PrestigeAt > 0 && snap.PrestigeGain >= b.policy.PrestigeAt {
		return append(actions, session.Action{Type: session.ActionPrestige})
	}

	if b.policy.BuyTalents {
		for _, t := range snap.Talents {
			if t.Affordable {
				actions = append(actions, session.Action{Type: session.ActionBuyTalent, ID: t.ID})
				break
			}
		}
	}

	if b.policy.BuyUpgrades {
		if id, ok := b.bestUpgrade(snap.Upgrades, snap.ProductionMultipliers.Product()); ok {
			actions = append(actions, session.Action{Type: session.ActionBuyUpgrade, ID: id})
		}
	}
	return actions
}

// bestUpgrade picks the affordable upgrade with the shortest payback time.
func (b *Bot) bestUpgrade(upgrades []engine.UpgradeView, multiplier float64) (string, bool) {
	if multiplier <= 0 {
		multiplier = 1
	}
	best, bestPayback := "", math.Inf(1)
	for _, u := range upgrades {
		if !u.Affordable || u.BaseRate <= 0 {
			continue
		}
		payback := u.NextCost / (u.BaseRate * multiplier)
		if b.policy.PaybackLimit > 0 && payback > b.policy.PaybackLimit {
			continue
		}
		if payback < bestPayback {
			best, bestPayback = u.ID, payback
		}
	}
	return best, best != ""
}
