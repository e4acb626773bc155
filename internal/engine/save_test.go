package engine

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRestoreRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.st.dev.LinesOfCode = 100000
	e.st.commits = 12
	require.True(t, e.BuyUpgrade("u1"))
	require.True(t, e.BuyUpgrade("u2"))
	require.True(t, e.BuyUpgrade("u2"))
	require.True(t, e.BuyTalent("t_f1"))
	require.True(t, e.ActivateSkill("s1"))
	require.True(t, e.SpawnBug())
	e.Tick(3)

	raw, err := json.Marshal(e.SaveData())
	require.NoError(t, err)

	var data SaveData
	require.NoError(t, json.Unmarshal(raw, &data))

	loaded := newTestEngine(t)
	loaded.Restore(data)

	assert.Equal(t, e.SaveData(), loaded.SaveData())
	assert.Equal(t, e.st.dev.CPS, loaded.st.dev.CPS)
	assert.Zero(t, loaded.ActiveBugs(), "bugs are transient")
}

func TestRestoreRecomputesCPS(t *testing.T) {
	e := newTestEngine(t)
	e.Restore(SaveData{
		Mode:     ModeDev,
		CPS:      123456,
		Upgrades: []SavedUpgrade{{ID: "u1", Count: 10}, {ID: "u3", Count: 2}},
	})
	assert.InDelta(t, 17, e.st.dev.CPS, 1e-9)
}

func TestRestoreClampsAndDropsUnknown(t *testing.T) {
	e := newTestEngine(t)
	e.Restore(SaveData{
		Mode:          "weird",
		LinesOfCode:   -5,
		LifetimeLines: math.NaN(),
		Commits:       99999,
		Upgrades:      []SavedUpgrade{{ID: "gone", Count: 3}, {ID: "u2", Count: -4}},
		Talents:       map[string]int{"t_f1": 50, "t_b1": -1, "t_gone": 2},
		Skills:        map[string]SkillState{"s1": {ActiveTimeRemaining: -1, CooldownRemaining: 12}, "s_gone": {CooldownRemaining: 5}},
	})

	assert.Equal(t, ModeDev, e.Mode())
	assert.Equal(t, 0.0, e.LinesOfCode())
	assert.Equal(t, 0.0, e.st.dev.LifetimeLines)
	assert.Equal(t, 3000, e.Commits())
	assert.Len(t, e.st.dev.Upgrades, 6)
	assert.Zero(t, e.st.dev.Upgrades[1].Count)
	assert.Equal(t, map[string]int{"t_f1": 10}, e.st.talents)
	assert.Equal(t, map[string]SkillState{"s1": {CooldownRemaining: 12}}, e.st.dev.Skills)
}

func TestRestoreSecOps(t *testing.T) {
	e := newTestEngine(t)
	e.Restore(SaveData{
		Mode:            ModeSecOps,
		Commits:         150,
		Entropy:         42,
		LifetimeEntropy: 420,
		SecOpsUpgrades:  []SavedUpgrade{{ID: "su2", Count: 3}},
	})

	assert.Equal(t, ModeSecOps, e.Mode())
	assert.Equal(t, 42.0, e.Entropy())
	assert.Equal(t, 3.0, e.GetProductionRate())

	snap := e.Snapshot()
	require.NotNil(t, snap.SecOps)
	assert.Equal(t, 3, snap.SecOps.Upgrades[1].Count)
	assert.False(t, snap.CanPromote)
}

func TestRestoreClearsPendingEffects(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.ActivateSkill("s3"))
	require.Equal(t, 3, e.PendingEffects())

	e.Restore(e.SaveData())
	assert.Zero(t, e.PendingEffects())
}
