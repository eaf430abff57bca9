// Package config reads pokerodds settings from the environment, after
// loading a .env file when one exists.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lazharichir/pokerodds/advisor"
	"github.com/lazharichir/pokerodds/odds"
)

// ErrInvalidValue is returned for environment values that cannot be parsed.
var ErrInvalidValue = errors.New("invalid configuration value")

const envPrefix = "POKERODDS_"

// Config is the process configuration.
type Config struct {
	ExactnessThreshold int64
	Trials             int
	Seed               *int64
	Workers            int
	Ranker             string
	Addr               string
	RedisURL           string
	CacheTTL           time.Duration
	LogLevel           slog.Level

	// Advisor playing style.
	Aggression     float64
	BluffFrequency float64
	Tightness      float64
	RaiseSizing    float64
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ExactnessThreshold: odds.DefaultExactnessThreshold,
		Trials:             odds.DefaultTrials,
		Ranker:             "native",
		Addr:               ":7777",
		CacheTTL:           time.Hour,
		LogLevel:           slog.LevelInfo,
		Aggression:         advisor.DefaultConfig().Aggression,
		BluffFrequency:     advisor.DefaultConfig().BluffFrequency,
		Tightness:          advisor.DefaultConfig().Tightness,
		RaiseSizing:        advisor.DefaultConfig().RaiseSizing,
	}
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a lookup function shaped like os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	invalid := func(name, v string, err error) error {
		return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidValue, envPrefix, name, v, err)
	}

	if v, ok := get("EXACT_THRESHOLD"); ok {
		n, err := strconv.ParseInt(strings.ReplaceAll(v, "_", ""), 10, 64)
		if err != nil || n < 0 {
			return cfg, invalid("EXACT_THRESHOLD", v, errOrNegative(err))
		}
		cfg.ExactnessThreshold = n
	}
	if v, ok := get("TRIALS"); ok {
		n, err := strconv.Atoi(strings.ReplaceAll(v, "_", ""))
		if err != nil || n <= 0 {
			return cfg, invalid("TRIALS", v, errOrNegative(err))
		}
		cfg.Trials = n
	}
	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, invalid("SEED", v, err)
		}
		cfg.Seed = &n
	}
	if v, ok := get("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, invalid("WORKERS", v, errOrNegative(err))
		}
		cfg.Workers = n
	}
	if v, ok := get("RANKER"); ok {
		if _, err := odds.ParseRanker(v); err != nil {
			return cfg, invalid("RANKER", v, err)
		}
		cfg.Ranker = v
	}
	if v, ok := get("ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := get("REDIS_URL"); ok {
		cfg.RedisURL = v
	}
	if v, ok := get("CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return cfg, invalid("CACHE_TTL", v, errOrNegative(err))
		}
		cfg.CacheTTL = d
	}
	if v, ok := get("LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, invalid("LOG_LEVEL", v, err)
		}
	}
	for name, dst := range map[string]*float64{
		"AGGRESSION":      &cfg.Aggression,
		"BLUFF_FREQUENCY": &cfg.BluffFrequency,
		"TIGHTNESS":       &cfg.Tightness,
	} {
		if v, ok := get(name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 || f > 1 {
				return cfg, invalid(name, v, errOrOutOfRange(err, "must be between 0 and 1"))
			}
			*dst = f
		}
	}
	if v, ok := get("RAISE_SIZING"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 2 {
			return cfg, invalid("RAISE_SIZING", v, errOrOutOfRange(err, "must be at least 2"))
		}
		cfg.RaiseSizing = f
	}
	return cfg, nil
}

func errOrNegative(err error) error {
	return errOrOutOfRange(err, "must not be negative")
}

func errOrOutOfRange(err error, want string) error {
	if err != nil {
		return err
	}
	return errors.New(want)
}

// Odds converts the configuration into calculator options.
func (c Config) Odds() (odds.Config, error) {
	ranker, err := odds.ParseRanker(c.Ranker)
	if err != nil {
		return odds.Config{}, err
	}
	return odds.Config{
		ExactnessThreshold: c.ExactnessThreshold,
		Trials:             c.Trials,
		Seed:               c.Seed,
		Workers:            c.Workers,
		Ranker:             ranker,
	}, nil
}

// Advisor converts the configuration into an advisor style. Seed is shared
// with the calculator.
func (c Config) Advisor() advisor.Config {
	cfg := advisor.DefaultConfig()
	cfg.Aggression = c.Aggression
	cfg.BluffFrequency = c.BluffFrequency
	cfg.Tightness = c.Tightness
	cfg.RaiseSizing = c.RaiseSizing
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	}
	return cfg
}
