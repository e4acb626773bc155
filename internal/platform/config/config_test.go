package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range []string{"default", "stress", "low"} {
		cfg, err := Preset(name)
		require.NoError(t, err, name)
		assert.NoError(t, cfg.Validate(), name)
		assert.Equal(t, name, cfg.Preset)
	}

	_, err := Preset("turbo")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 5*time.Second, cfg.SaveInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.BroadcastInterval)
	assert.Equal(t, 0.05, cfg.BugSpawnRate)
	assert.Equal(t, "clicker-storage", cfg.SaveKey)
}

func TestLoadOverridesPreset(t *testing.T) {
	path := writeFile(t, "server.yaml", `
preset: low
listen: 127.0.0.1:9000
tick_interval: 50ms
bug_spawn_rate: 0.2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 0.2, cfg.BugSpawnRate)
	assert.Equal(t, LowResourceConfig().ClientSendBuffer, cfg.ClientSendBuffer, "kept from preset")
	assert.Equal(t, 15*time.Second, cfg.SaveInterval)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeFile(t, "server.yaml", "tick_interval: 0s\n")
	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	path = writeFile(t, "server.yaml", "tick_interval: [\n")
	_, err = Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := StressTestConfig()
	cfg.BalanceFile = "balance.yaml"
	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "tick_interval: 100ms")

	loaded, err := Load(writeFile(t, "round.yaml", string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadBalance(t *testing.T) {
	path := writeFile(t, "balance.yaml", `
upgrades:
  - id: u1
    name: Fix Typos
    base_cost: 10
    base_rate: 0.5
  - id: u2
    name: Snippets
    base_cost: 80
    base_rate: 2
`)
	cat, err := LoadBalance(path)
	require.NoError(t, err)
	require.Len(t, cat.Upgrades, 2)
	assert.Equal(t, 0.5, cat.Upgrades[0].BaseRate)
	assert.Len(t, cat.Talents, 6, "omitted lists keep defaults")
	assert.Len(t, cat.SecOpsUpgrades, 6)
}

func TestLoadBalanceRejectsInvalid(t *testing.T) {
	path := writeFile(t, "balance.yaml", `
skills:
  - id: s1
    effect: teleport
`)
	_, err := LoadBalance(path)
	assert.True(t, errors.Is(err, ErrInvalidCatalog))

	cfg := DefaultConfig()
	cfg.BalanceFile = path
	_, err = cfg.Catalog()
	assert.True(t, errors.Is(err, ErrInvalidCatalog))

	cfg.BalanceFile = ""
	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Len(t, cat.Upgrades, 6)
}
