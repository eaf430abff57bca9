package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/lazharichir/pokerodds/odds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(env(nil))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, int64(2_000_000), cfg.ExactnessThreshold)
	assert.Equal(t, ":7777", cfg.Addr)
	assert.Nil(t, cfg.Seed)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(env(map[string]string{
		"POKERODDS_EXACT_THRESHOLD": "500_000",
		"POKERODDS_TRIALS":          "20000",
		"POKERODDS_SEED":            "-7",
		"POKERODDS_WORKERS":         "4",
		"POKERODDS_RANKER":          "table",
		"POKERODDS_ADDR":            "127.0.0.1:9000",
		"POKERODDS_REDIS_URL":       "redis://localhost:6379/0",
		"POKERODDS_CACHE_TTL":       "15m",
		"POKERODDS_LOG_LEVEL":       "debug",
		"POKERODDS_AGGRESSION":      "0.9",
		"POKERODDS_BLUFF_FREQUENCY": "0.2",
		"POKERODDS_TIGHTNESS":       "0",
		"POKERODDS_RAISE_SIZING":    "3",
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(500_000), cfg.ExactnessThreshold)
	assert.Equal(t, 20000, cfg.Trials)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(-7), *cfg.Seed)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "table", cfg.Ranker)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)

	oc, err := cfg.Odds()
	require.NoError(t, err)
	assert.IsType(t, &odds.TableRanker{}, oc.Ranker)
	assert.Equal(t, cfg.Seed, oc.Seed)

	ac := cfg.Advisor()
	assert.Equal(t, 0.9, ac.Aggression)
	assert.Equal(t, 0.2, ac.BluffFrequency)
	assert.Zero(t, ac.Tightness)
	assert.Equal(t, 3.0, ac.RaiseSizing)
	assert.Equal(t, int64(-7), ac.Seed)
}

func TestFromLookup_EmptyValuesKeepDefaults(t *testing.T) {
	cfg, err := FromLookup(env(map[string]string{"POKERODDS_TRIALS": "  "}))
	require.NoError(t, err)
	assert.Equal(t, odds.DefaultTrials, cfg.Trials)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := map[string]string{
		"POKERODDS_EXACT_THRESHOLD": "-1",
		"POKERODDS_TRIALS":          "0",
		"POKERODDS_SEED":            "abc",
		"POKERODDS_WORKERS":         "many",
		"POKERODDS_RANKER":          "magic",
		"POKERODDS_CACHE_TTL":       "soon",
		"POKERODDS_LOG_LEVEL":       "loud",
		"POKERODDS_AGGRESSION":      "1.5",
		"POKERODDS_BLUFF_FREQUENCY": "often",
		"POKERODDS_TIGHTNESS":       "-0.1",
		"POKERODDS_RAISE_SIZING":    "1",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(env(map[string]string{name: value}))
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}
