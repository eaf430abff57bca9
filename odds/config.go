package odds

import (
	"log/slog"
	"runtime"
)

const (
	// DefaultExactnessThreshold bounds exact enumeration. Heads-up preflop
	// (C(48,5) = 1,712,304 boards) stays below it.
	DefaultExactnessThreshold int64 = 2_000_000
	// DefaultTrials is the Monte Carlo sample size.
	DefaultTrials = 100_000

	sampleChunkSize = 1024
)

// Config holds the options recognized by the Calculator.
type Config struct {
	// ExactnessThreshold is the largest number of board completions that is
	// enumerated exactly; larger domains are sampled.
	ExactnessThreshold int64
	// Trials is the number of Monte Carlo completions drawn when sampling.
	Trials int
	// Seed makes sampling reproducible. Nil seeds from system entropy.
	Seed *int64
	// Workers caps concurrent chunks. Zero means GOMAXPROCS.
	Workers int
	// Ranker scores seven-card hands. Nil means NativeRanker.
	Ranker Ranker
}

// DefaultConfig returns the configuration used for interactive calls.
func DefaultConfig() Config {
	return Config{
		ExactnessThreshold: DefaultExactnessThreshold,
		Trials:             DefaultTrials,
	}
}

// WithSeed returns a copy of the config that samples deterministically.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}

func (c Config) normalized() Config {
	if c.ExactnessThreshold < 0 {
		c.ExactnessThreshold = 0
	}
	if c.Trials <= 0 {
		c.Trials = DefaultTrials
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Ranker == nil {
		c.Ranker = NativeRanker{}
	}
	return c
}

// Calculator computes equities and draw odds. It holds no mutable state and
// is safe for concurrent use.
type Calculator struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCalculator creates a calculator with the given configuration.
func NewCalculator(cfg Config, opts ...Option) *Calculator {
	c := &Calculator{
		cfg:    cfg.normalized(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// With returns a calculator sharing the logger but using cfg.
func (c *Calculator) With(cfg Config) *Calculator {
	return &Calculator{cfg: cfg.normalized(), logger: c.logger}
}
