package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2015, cfg.FirstSeason)
	assert.Equal(t, 2021, cfg.LastSeason)
	assert.Equal(t, 2017, cfg.SalaryFrom)
	assert.Equal(t, "Fred VanVleet", cfg.ReferencePlayer)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CAPMETRICS_MIN_MINUTES", "1200")
	t.Setenv("CAPMETRICS_REFERENCE_PLAYER", "Jrue Holiday")
	t.Setenv("CAPMETRICS_K_MAX", "10")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, float64(1200), cfg.MinMinutes)
	assert.Equal(t, "Jrue Holiday", cfg.ReferencePlayer)
	assert.Equal(t, 10, cfg.KMax)
}

func TestFileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capmetrics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\nmin_minutes: 500\n"), 0o644))
	t.Setenv("CAPMETRICS_CONFIG", path)
	t.Setenv("CAPMETRICS_MIN_MINUTES", "900")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed, "file value survives when env does not override")
	assert.Equal(t, float64(900), cfg.MinMinutes, "env beats file")
}

func TestExplicitPathBeatsEnvPath(t *testing.T) {
	dir := t.TempDir()
	flagPath := filepath.Join(dir, "flag.yaml")
	envPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(flagPath, []byte("seed: 11\n"), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("seed: 22\n"), 0o644))
	t.Setenv("CAPMETRICS_CONFIG", envPath)

	cfg, err := Load(flagPath)
	require.NoError(t, err)
	assert.Equal(t, int64(11), cfg.Seed)
}

func TestValidateRejectsBadRanges(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"seasons reversed", func(c *Config) { c.FirstSeason, c.LastSeason = 2021, 2015 }},
		{"salary_from outside range", func(c *Config) { c.SalaryFrom = 2014 }},
		{"cap unknown for joined season", func(c *Config) { c.LastSeason = 2030; c.SalaryFrom = 2030 }},
		{"train fraction at 1", func(c *Config) { c.TrainFraction = 1 }},
		{"k range reversed", func(c *Config) { c.KMin, c.KMax = 5, 2 }},
		{"zero rps", func(c *Config) { c.RequestsPerSecond = 0 }},
		{"empty reference player", func(c *Config) { c.ReferencePlayer = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSalaryCapKnownForAllDefaultSeasons(t *testing.T) {
	cfg := New()
	for season := cfg.FirstSeason; season <= cfg.LastSeason; season++ {
		cap, ok := SalaryCap(season)
		require.True(t, ok, "season %d", season)
		assert.Greater(t, cap, 50_000_000.0)
	}
}
