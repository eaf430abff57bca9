// Package cache stores equity reports that are worth reusing: exact runs and
// explicitly seeded runs always produce the same report for the same input.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/lazharichir/pokerodds/cards"
	"github.com/lazharichir/pokerodds/odds"
)

const keyPrefix = "pokerodds:equity:"

// ResultCache stores complete equity reports by request key.
type ResultCache interface {
	Get(ctx context.Context, key string) (*odds.EquityReport, bool, error)
	Set(ctx context.Context, key string, report *odds.EquityReport) error
}

// Request identifies an equity calculation for caching.
type Request struct {
	Players   []cards.Stack
	Board     cards.Stack
	Dead      cards.Stack
	Opponents int
	Config    odds.Config
}

// Cacheable reports whether a report for r can be reused: the run completed
// and was either exact or seeded.
func Cacheable(report *odds.EquityReport, cfg odds.Config) bool {
	if report == nil || report.Partial {
		return false
	}
	return report.Mode == odds.ModeExact || cfg.Seed != nil
}

// Key returns a stable key for r. Card order inside each player's hand, the
// board and the dead cards does not matter; player order does, since the
// report is indexed by player.
func Key(r Request) string {
	var b strings.Builder
	for _, p := range r.Players {
		b.WriteString("p=")
		b.WriteString(canonical(p))
		b.WriteByte(';')
	}
	fmt.Fprintf(&b, "b=%s;d=%s;o=%d;", canonical(r.Board), canonical(r.Dead), r.Opponents)
	fmt.Fprintf(&b, "x=%d;n=%d;r=%T;", r.Config.ExactnessThreshold, r.Config.Trials, r.Config.Ranker)
	if r.Config.Seed != nil {
		fmt.Fprintf(&b, "s=%d;", *r.Config.Seed)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return keyPrefix + hex.EncodeToString(sum[:16])
}

func canonical(s cards.Stack) string {
	sorted := slices.Clone(s)
	slices.SortFunc(sorted, func(a, b cards.Card) int { return a.Index() - b.Index() })
	return sorted.String()
}
