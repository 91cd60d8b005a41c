package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyDir(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{DotEnvPath: filepath.Join(dir, ".env"), ConfigDir: dir}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(emptyDir(t))
	require.NoError(t, err)
	def := DefaultConfig()
	assert.Equal(t, def.DBPath, cfg.DBPath)
	assert.Equal(t, 900*time.Millisecond, cfg.TypingDelay)
	assert.Equal(t, 1.0, cfg.GapThreshold)
	assert.False(t, cfg.LogUseCases)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MERIDIAN_DB", "/tmp/x.db")
	t.Setenv("MERIDIAN_LOG_USE_CASES", "true")
	t.Setenv("MERIDIAN_TYPING_DELAY", "2s")
	t.Setenv("MERIDIAN_GAP_THRESHOLD", "1.5")

	cfg, err := Load(emptyDir(t))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, 2*time.Second, cfg.TypingDelay)
	assert.Equal(t, 1.5, cfg.GapThreshold)
}

func TestLoad_ConfigFile(t *testing.T) {
	opts := emptyDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(opts.ConfigDir, "meridian.yaml"), []byte(
		"participant: Robin\nramp_step: 250ms\nplan_start: \"2026-09-01\"\n"), 0o644))

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "Robin", cfg.ParticipantName)
	assert.Equal(t, 250*time.Millisecond, cfg.RampStep)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), cfg.PlanStartDate(time.Now()))
}

func TestLoad_DotEnv(t *testing.T) {
	opts := emptyDir(t)
	require.NoError(t, os.WriteFile(opts.DotEnvPath, []byte("MERIDIAN_CATALOG=/srv/catalog\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("MERIDIAN_CATALOG") })

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "/srv/catalog", cfg.CatalogPath)
}

func TestLoad_InvalidPlanStart(t *testing.T) {
	t.Setenv("MERIDIAN_PLAN_START", "next tuesday")
	_, err := Load(emptyDir(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PlanStart")
}

func TestValidate_NegativeDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TypingDelay = -time.Second
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TypingDelay")
}

func TestPlanStartDate_FallsBackToNow(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, now, Config{}.PlanStartDate(now))
}
