package odds

import (
	"github.com/lazharichir/pokerodds/hands"
)

// Mode tells how an equity report was produced.
type Mode string

const (
	ModeExact   Mode = "exact"
	ModeSampled Mode = "sampled"
)

// EquityResult holds one player's outcome counters over a run.
type EquityResult struct {
	Wins   int64 `json:"wins"`
	Ties   int64 `json:"ties"`
	Losses int64 `json:"losses"`
	Total  int64 `json:"total"`
	// TieShare is the pot share won through ties: each k-way tie adds 1/k.
	TieShare float64 `json:"tieShare"`
	// Categories counts the player's final hand category per scenario,
	// indexed by hands.Category. Nil when the ranker cannot categorize.
	Categories []int64 `json:"categories,omitempty"`
}

func (r EquityResult) ratio(n float64) float64 {
	if r.Total == 0 {
		return 0
	}
	return n / float64(r.Total)
}

// WinProbability is the fraction of scenarios won outright.
func (r EquityResult) WinProbability() float64 { return r.ratio(float64(r.Wins)) }

// TieProbability is the fraction of scenarios tied for the best hand.
func (r EquityResult) TieProbability() float64 { return r.ratio(float64(r.Ties)) }

// LossProbability is the fraction of scenarios lost.
func (r EquityResult) LossProbability() float64 { return r.ratio(float64(r.Losses)) }

// Equity is the expected share of the pot, counting split pots.
func (r EquityResult) Equity() float64 { return r.ratio(float64(r.Wins) + r.TieShare) }

// CategoryProbability is how often the player finished with the category.
func (r EquityResult) CategoryProbability(c hands.Category) float64 {
	if int(c) >= len(r.Categories) {
		return 0
	}
	return r.ratio(float64(r.Categories[c]))
}

// EquityReport is the result of one Equity call.
type EquityReport struct {
	Players []EquityResult `json:"players"`
	Mode    Mode           `json:"mode"`
	// Requested is the number of completions to enumerate (exact) or the
	// number of trials to draw (sampled).
	Requested int64 `json:"requested"`
	Completed int64 `json:"completed"`
	// Partial is set when the run was cancelled before Requested was reached.
	Partial bool `json:"partial"`
	// Seed is the RNG seed used when sampling.
	Seed int64 `json:"seed,omitempty"`
}

// tally is a chunk-local accumulator. Chunks never share one.
type tally struct {
	wins, ties, losses []int64
	// tieWays[p][k] counts k-way ties that player p was part of
	tieWays    [][]int64
	categories [][hands.NumCategories]int64
	total      int64
}

func newTally(players int) *tally {
	t := &tally{
		wins:       make([]int64, players),
		ties:       make([]int64, players),
		losses:     make([]int64, players),
		tieWays:    make([][]int64, players),
		categories: make([][hands.NumCategories]int64, players),
	}
	for p := range t.tieWays {
		t.tieWays[p] = make([]int64, players+1)
	}
	return t
}

// record scores one scenario from the players' hand values.
func (t *tally) record(values []uint32, categorize CategoryRanker) {
	var best uint32
	for _, v := range values {
		best = max(best, v)
	}
	winners := 0
	for _, v := range values {
		if v == best {
			winners++
		}
	}

	for p, v := range values {
		switch {
		case v != best:
			t.losses[p]++
		case winners == 1:
			t.wins[p]++
		default:
			t.ties[p]++
			t.tieWays[p][winners]++
		}
		if categorize != nil {
			t.categories[p][categorize.Category(v)]++
		}
	}
	t.total++
}

// merge adds other into t.
func (t *tally) merge(other *tally) {
	for p := range t.wins {
		t.wins[p] += other.wins[p]
		t.ties[p] += other.ties[p]
		t.losses[p] += other.losses[p]
		for k := range t.tieWays[p] {
			t.tieWays[p][k] += other.tieWays[p][k]
		}
		for c := range t.categories[p] {
			t.categories[p][c] += other.categories[p][c]
		}
	}
	t.total += other.total
}

// results converts the tally into immutable per-player results.
func (t *tally) results(withCategories bool) []EquityResult {
	out := make([]EquityResult, len(t.wins))
	for p := range out {
		var share float64
		for k, n := range t.tieWays[p] {
			if k > 0 {
				share += float64(n) / float64(k)
			}
		}
		out[p] = EquityResult{
			Wins:     t.wins[p],
			Ties:     t.ties[p],
			Losses:   t.losses[p],
			Total:    t.total,
			TieShare: share,
		}
		if withCategories {
			out[p].Categories = append([]int64(nil), t.categories[p][:]...)
		}
	}
	return out
}

// reduce merges chunk tallies in chunk order.
func reduce(players int, chunks []*tally) *tally {
	sum := newTally(players)
	for _, c := range chunks {
		if c != nil {
			sum.merge(c)
		}
	}
	return sum
}
