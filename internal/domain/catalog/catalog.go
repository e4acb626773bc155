// Package catalog defines the static content of the game: upgrades, talents and skills.
// This package is PURE and must NOT import any infrastructure packages.
package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate when a catalog cannot be played.
var ErrInvalid = errors.New("invalid catalog")

// Branch groups talents in the tech tree.
type Branch string

const (
	BranchFrontend Branch = "frontend"
	BranchBackend  Branch = "backend"
	BranchDevOps   Branch = "devops"
)

// UpgradeDef is a purchasable producer. BaseRate is lines (or entropy) per second per unit owned.
type UpgradeDef struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	BaseCost    float64 `yaml:"base_cost" json:"base_cost"`
	BaseRate    float64 `yaml:"base_rate" json:"base_rate"`
}

// Catalog is the full set of content the engine plays with.
type Catalog struct {
	Upgrades       []UpgradeDef `yaml:"upgrades"`
	SecOpsUpgrades []UpgradeDef `yaml:"secops_upgrades"`
	Talents        []TalentDef  `yaml:"talents"`
	Skills         []SkillDef   `yaml:"skills"`
}

// Default returns the stock content.
func Default() *Catalog {
	return &Catalog{
		Upgrades: []UpgradeDef{
			{ID: "u1", Name: "Fix Typos", Description: "Correct simple mistakes.", BaseCost: 15, BaseRate: 0.1},
			{ID: "u2", Name: "Snippets", Description: "Copy-paste efficiency.", BaseCost: 100, BaseRate: 1},
			{ID: "u3", Name: "Linter", Description: "Auto-fix formatting.", BaseCost: 1100, BaseRate: 8},
			{ID: "u4", Name: "Mechanical Keyboard", Description: "Clickity clack!", BaseCost: 12000, BaseRate: 47},
			{ID: "u5", Name: "Pair Programmer", Description: "Two heads are better.", BaseCost: 130000, BaseRate: 260},
			{ID: "u6", Name: "AI Assistant", Description: "Code generates itself.", BaseCost: 1400000, BaseRate: 1400},
		},
		SecOpsUpgrades: []UpgradeDef{
			{ID: "su1", Name: "Port Scanner", Description: "Knock on every door.", BaseCost: 15, BaseRate: 0.1},
			{ID: "su2", Name: "Password Cracker", Description: "hunter2 never stood a chance.", BaseCost: 100, BaseRate: 1},
			{ID: "su3", Name: "Phishing Kit", Description: "Urgent: verify your account.", BaseCost: 1100, BaseRate: 8},
			{ID: "su4", Name: "Zero-Day Exploit", Description: "Unpatched and unstoppable.", BaseCost: 12000, BaseRate: 47},
			{ID: "su5", Name: "Botnet", Description: "A million toasters, one purpose.", BaseCost: 130000, BaseRate: 260},
			{ID: "su6", Name: "AI Sentinel", Description: "It watches the watchers.", BaseCost: 1400000, BaseRate: 1400},
		},
		Talents: []TalentDef{
			{ID: "t_f1", Branch: BranchFrontend, Name: "Hydration Optimization", Description: "Increases Click Power by 50% per level.", BaseCost: 1, MaxLevel: 10, Effect: TalentClickPower, PerLevel: 0.5},
			{ID: "t_f2", Branch: BranchFrontend, Name: "Component Memoization", Description: "Active Skills last 20% longer per level.", BaseCost: 2, MaxLevel: 5, Effect: TalentSkillDuration, PerLevel: 0.2},
			{ID: "t_b1", Branch: BranchBackend, Name: "Microservices", Description: "Increases Passive Income (CPS) by 25% per level.", BaseCost: 1, MaxLevel: 10, Effect: TalentProduction, PerLevel: 0.25},
			{ID: "t_b2", Branch: BranchBackend, Name: "Load Balancing", Description: "Reduces passive bug penalty effectiveness.", BaseCost: 3, MaxLevel: 5, Effect: TalentBugResistance, PerLevel: 0.1},
			{ID: "t_d1", Branch: BranchDevOps, Name: "Containerization", Description: "Reduces Upgrade Costs by 5% per level.", BaseCost: 2, MaxLevel: 10, Effect: TalentUpgradeDiscount, PerLevel: 0.05},
			{ID: "t_d2", Branch: BranchDevOps, Name: "CI/CD Pipeline", Description: "Gain +10% more Commits on Prestige per level.", BaseCost: 5, MaxLevel: 5, Effect: TalentPrestigeGain, PerLevel: 0.1},
		},
		Skills: []SkillDef{
			{ID: "s1", Name: "Coffee Break", Description: "Double CPS for 30s", Cooldown: 300, Duration: 30, Effect: SkillProduction, Multiplier: 2},
			{ID: "s2", Name: "Hackathon", Description: "Click Power x10 for 10s", Cooldown: 600, Duration: 10, Effect: SkillClick, Multiplier: 10},
			{ID: "s3", Name: "Stack Overflow", Description: "+10% LoC instantly, triggers bugs. Active bugs reduce CPS by 20%!", Cooldown: 900, Duration: 0, Effect: SkillBurst, InstantBonus: 0.10, BugSpawnDelays: []float64{0.1, 0.3, 0.5}},
		},
	}
}

// Upgrade looks up a dev upgrade by id.
func (c *Catalog) Upgrade(id string) (UpgradeDef, bool) {
	return findUpgrade(c.Upgrades, id)
}

// SecOpsUpgrade looks up a secops upgrade by id.
func (c *Catalog) SecOpsUpgrade(id string) (UpgradeDef, bool) {
	return findUpgrade(c.SecOpsUpgrades, id)
}

// Talent looks up a talent by id.
func (c *Catalog) Talent(id string) (TalentDef, bool) {
	for _, t := range c.Talents {
		if t.ID == id {
			return t, true
		}
	}
	return TalentDef{}, false
}

// Skill looks up a skill by id.
func (c *Catalog) Skill(id string) (SkillDef, bool) {
	for _, s := range c.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return SkillDef{}, false
}

func findUpgrade(list []UpgradeDef, id string) (UpgradeDef, bool) {
	for _, u := range list {
		if u.ID == id {
			return u, true
		}
	}
	return UpgradeDef{}, false
}

// Validate checks ids are unique and numbers are playable.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool)
	claim := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%w: %s with empty id", ErrInvalid, kind)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalid, id)
		}
		seen[id] = true
		return nil
	}

	for _, list := range [][]UpgradeDef{c.Upgrades, c.SecOpsUpgrades} {
		for _, u := range list {
			if err := claim("upgrade", u.ID); err != nil {
				return err
			}
			if u.BaseCost <= 0 || u.BaseRate < 0 {
				return fmt.Errorf("%w: upgrade %q needs base_cost > 0 and base_rate >= 0", ErrInvalid, u.ID)
			}
		}
	}
	for _, t := range c.Talents {
		if err := claim("talent", t.ID); err != nil {
			return err
		}
		if t.BaseCost <= 0 || t.MaxLevel <= 0 {
			return fmt.Errorf("%w: talent %q needs base_cost > 0 and max_level > 0", ErrInvalid, t.ID)
		}
		if !t.Effect.valid() {
			return fmt.Errorf("%w: talent %q has unknown effect %q", ErrInvalid, t.ID, t.Effect)
		}
	}
	for _, s := range c.Skills {
		if err := claim("skill", s.ID); err != nil {
			return err
		}
		if s.Cooldown < 0 || s.Duration < 0 {
			return fmt.Errorf("%w: skill %q has negative timers", ErrInvalid, s.ID)
		}
		if !s.Effect.valid() {
			return fmt.Errorf("%w: skill %q has unknown effect %q", ErrInvalid, s.ID, s.Effect)
		}
	}
	return nil
}
