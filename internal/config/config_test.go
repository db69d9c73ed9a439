package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TICK_RATE", "")
	t.Setenv("TUNING_FILE", "")
	t.Setenv("PLACEMENT_ATTEMPTS", "")
	t.Setenv("AIR_DRAG", "")

	cfg := Load()

	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, DefaultTuning(), cfg.Tuning)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("TICK_RATE", "30")
	t.Setenv("MAX_SESSIONS", "3")
	t.Setenv("PLACEMENT_ATTEMPTS", "42")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("AIR_DRAG", "0.02")
	t.Setenv("TUNING_FILE", "")

	cfg := Load()

	assert.Equal(t, 30, cfg.TickRate)
	assert.Equal(t, 3, cfg.MaxSessions)
	assert.Equal(t, 42, cfg.Tuning.PlacementAttempts)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, 0.02, cfg.Tuning.AirDrag)
}

func TestLoadTuningOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("air_drag: 0.01\nteleporter_cooldown: 20\n"), 0o600))

	tuning, err := LoadTuning(path)
	require.NoError(t, err)

	assert.Equal(t, 0.01, tuning.AirDrag)
	assert.Equal(t, 20, tuning.TeleporterCooldown)
	assert.Equal(t, DefaultTuning().MaxForceComponent, tuning.MaxForceComponent)
}

func TestLoadTuningRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("air_drag: [oops"), 0o600))

	tuning, err := LoadTuning(path)

	assert.Error(t, err)
	assert.Equal(t, DefaultTuning(), tuning)
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
