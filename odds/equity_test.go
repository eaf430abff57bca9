package odds

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/lazharichir/pokerodds/cards"
	"github.com/lazharichir/pokerodds/hands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stack = cards.MustParseStack

func players(hands ...string) []cards.Stack {
	out := make([]cards.Stack, len(hands))
	for i, h := range hands {
		out[i] = stack(h)
	}
	return out
}

func assertConserved(t *testing.T, r *EquityReport) {
	t.Helper()
	var share float64
	for i, p := range r.Players {
		assert.Equal(t, r.Completed, p.Total, "player %d total", i)
		assert.Equal(t, p.Total, p.Wins+p.Ties+p.Losses, "player %d counters", i)
		share += p.Equity()
		if p.Categories != nil {
			var n int64
			for _, c := range p.Categories {
				n += c
			}
			assert.Equal(t, p.Total, n, "player %d categories", i)
		}
	}
	if r.Completed > 0 {
		assert.InDelta(t, 1.0, share, 1e-9)
	}
}

func TestEquity_RiverComplete(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	r, err := calc.Equity(context.Background(), players("As Ks", "Qd Qc"), stack("Ah 7c 2d 9s 3h"), nil)
	require.NoError(t, err)

	assert.Equal(t, ModeExact, r.Mode)
	assert.Equal(t, int64(1), r.Requested)
	assert.Equal(t, int64(1), r.Completed)
	assert.False(t, r.Partial)
	assert.Equal(t, int64(1), r.Players[0].Wins)
	assert.Equal(t, int64(1), r.Players[1].Losses)
	assert.Equal(t, int64(1), r.Players[0].Categories[hands.Pair])
	assert.Equal(t, 1.0, r.Players[0].Equity())
	assertConserved(t, r)
}

func TestEquity_BoardPlaysSplitsThreeWays(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	r, err := calc.Equity(context.Background(), players("2c 3d", "4h 5c", "8d 9c"), stack("Ts Js Qs Ks As"), nil)
	require.NoError(t, err)

	for _, p := range r.Players {
		assert.Equal(t, int64(0), p.Wins)
		assert.Equal(t, int64(1), p.Ties)
		assert.InDelta(t, 1.0/3, p.TieShare, 1e-12)
		assert.InDelta(t, 1.0/3, p.Equity(), 1e-12)
	}
	assertConserved(t, r)
}

func TestEquity_FlopExact(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	r, err := calc.Equity(context.Background(), players("Kd Kc", "Kh Ks"), stack("2c 7d 9h"), nil)
	require.NoError(t, err)

	assert.Equal(t, ModeExact, r.Mode)
	assert.Equal(t, int64(990), r.Requested) // C(45,2)
	assert.Equal(t, int64(990), r.Completed)
	assert.False(t, r.Partial)
	// Same ranks and no flush is reachable, so every board splits.
	assert.Equal(t, int64(990), r.Players[0].Ties)
	assert.Equal(t, int64(990), r.Players[1].Ties)
	assert.InDelta(t, 0.5, r.Players[0].Equity(), 1e-12)
	assertConserved(t, r)
}

func TestEquity_AcesVersusKingsPreflop(t *testing.T) {
	if testing.Short() {
		t.Skip("enumerates 1.7M boards")
	}
	calc := NewCalculator(DefaultConfig())

	r, err := calc.Equity(context.Background(), players("As Ah", "Kd Kc"), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, ModeExact, r.Mode)
	assert.Equal(t, int64(1_712_304), r.Completed)
	assert.False(t, r.Partial)
	assert.InDelta(t, 0.82, r.Players[0].WinProbability(), 0.01)
	assert.InDelta(t, 0.18, r.Players[1].WinProbability(), 0.01)
	assert.Zero(t, r.Players[0].Categories[hands.HighCard], "pocket aces always hold a pair")
	assertConserved(t, r)
}

func TestEquity_RankersAgree(t *testing.T) {
	ctx := context.Background()
	native := NewCalculator(DefaultConfig())
	table := native.With(Config{ExactnessThreshold: DefaultExactnessThreshold, Ranker: NewTableRanker()})

	in := players("Ah Kh", "Qs Qd", "7c 8c")
	board := stack("Th 9c 2h")

	a, err := native.Equity(ctx, in, board, nil)
	require.NoError(t, err)
	b, err := table.Equity(ctx, in, board, nil)
	require.NoError(t, err)

	require.Len(t, b.Players, 3)
	for i := range a.Players {
		assert.Equal(t, a.Players[i].Wins, b.Players[i].Wins)
		assert.Equal(t, a.Players[i].Ties, b.Players[i].Ties)
		assert.Equal(t, a.Players[i].Losses, b.Players[i].Losses)
		assert.Nil(t, b.Players[i].Categories)
	}
}

func TestEquity_SampledIsDeterministicWithSeed(t *testing.T) {
	ctx := context.Background()
	cfg := Config{ExactnessThreshold: 0, Trials: 5000}.WithSeed(42)

	in := players("As Ah", "Kd Kc", "7h 8h")
	cfg.Workers = 1
	a, err := NewCalculator(cfg).Equity(ctx, in, nil, nil)
	require.NoError(t, err)
	cfg.Workers = 8
	b, err := NewCalculator(cfg).Equity(ctx, in, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, ModeSampled, a.Mode)
	assert.Equal(t, int64(5000), a.Completed)
	assert.Equal(t, int64(42), a.Seed)
	assert.Equal(t, a.Players, b.Players)
	assertConserved(t, a)

	c, err := NewCalculator(cfg.WithSeed(43)).Equity(ctx, in, nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.Players, c.Players)
}

func TestEquity_SampledApproximatesExact(t *testing.T) {
	cfg := Config{ExactnessThreshold: 0, Trials: 50_000}.WithSeed(7)

	r, err := NewCalculator(cfg).Equity(context.Background(), players("As Ah", "Kd Kc"), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, ModeSampled, r.Mode)
	assert.InDelta(t, 0.82, r.Players[0].Equity(), 0.015)
}

func TestEquity_AboveThresholdIsSampled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExactnessThreshold = 1_000_000 // C(46,5) = 1,370,754 three-way preflop
	cfg.Trials = 2048

	r, err := NewCalculator(cfg).Equity(context.Background(), players("As Ah", "Kd Kc", "Qh Qs"), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, ModeSampled, r.Mode)
	assert.Equal(t, int64(2048), r.Requested)
	assert.NotZero(t, r.Seed)
	assertConserved(t, r)
}

func TestEquity_Errors(t *testing.T) {
	known := players("As Ah", "Kd Kc")
	dead := cards.Remaining(known...)[:44]

	tests := []struct {
		name    string
		players []cards.Stack
		board   cards.Stack
		dead    cards.Stack
		want    error
	}{
		{"no players", nil, nil, nil, ErrNoPlayers},
		{"one hole card", players("As", "Kd Kc"), nil, nil, hands.ErrInvalidHandSize},
		{"three hole cards", players("As Ah Ad", "Kd Kc"), nil, nil, hands.ErrInvalidHandSize},
		{"six card board", known, stack("2c 3c 4c 5c 6c 7c"), nil, hands.ErrInvalidHandSize},
		{"player duplicate", []cards.Stack{{cards.MustParse("As"), cards.MustParse("As")}}, nil, nil, cards.ErrDuplicateCard},
		{"shared hole card", players("As Ah", "As Kc"), nil, nil, ErrCardConflict},
		{"board overlaps player", known, stack("Ah 2c 3c"), nil, ErrCardConflict},
		{"dead overlaps board", known, stack("2c 3c 4d"), stack("4d"), ErrCardConflict},
		{"invalid card", []cards.Stack{{cards.Card{Rank: 1, Suit: cards.Spades}, cards.MustParse("Kd")}}, nil, nil, cards.ErrInvalidCardToken},
		{"pool too small", known, nil, dead, ErrInsufficientUnknownCards},
	}

	calc := NewCalculator(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := calc.Equity(context.Background(), tt.players, tt.board, tt.dead)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, r)
		})
	}
}

func TestEquity_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewCalculator(DefaultConfig()).Equity(ctx, players("As Ah", "Kd Kc"), nil, nil)
	require.NoError(t, err)

	assert.True(t, r.Partial)
	assert.Equal(t, int64(0), r.Completed)
	assert.Equal(t, int64(1_712_304), r.Requested)
}

// cancellingRanker cancels the run after a fixed number of evaluations.
type cancellingRanker struct {
	NativeRanker
	calls  atomic.Int64
	after  int64
	cancel context.CancelFunc
}

func (r *cancellingRanker) Rank7(hand *[7]cards.Card) uint32 {
	if r.calls.Add(1) == r.after {
		r.cancel()
	}
	return r.NativeRanker.Rank7(hand)
}

func TestEquity_CancelledMidRunIsPartial(t *testing.T) {
	for _, exact := range []bool{true, false} {
		ctx, cancel := context.WithCancel(context.Background())
		ranker := &cancellingRanker{after: 5000, cancel: cancel}
		cfg := Config{ExactnessThreshold: DefaultExactnessThreshold, Trials: 200_000, Workers: 1, Ranker: ranker}
		if !exact {
			cfg.ExactnessThreshold = 0
		}

		r, err := NewCalculator(cfg).Equity(ctx, players("As Ah", "Kd Kc"), nil, nil)
		require.NoError(t, err)

		assert.True(t, r.Partial)
		assert.Greater(t, r.Completed, int64(0))
		assert.Less(t, r.Completed, r.Requested)
		assertConserved(t, r)
		cancel()
	}
}

func TestEquityVsRandom(t *testing.T) {
	cfg := Config{Trials: 20_000}.WithSeed(3)
	calc := NewCalculator(cfg)

	r, err := calc.EquityVsRandom(context.Background(), stack("As Ah"), nil, nil, 1)
	require.NoError(t, err)

	require.Len(t, r.Players, 2)
	assert.Equal(t, ModeSampled, r.Mode)
	assert.InDelta(t, 0.85, r.Players[0].Equity(), 0.02)
	assertConserved(t, r)

	again, err := calc.EquityVsRandom(context.Background(), stack("As Ah"), nil, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, r.Players, again.Players)
}

func TestEquityVsRandom_Errors(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	ctx := context.Background()

	_, err := calc.EquityVsRandom(ctx, stack("As Ah"), nil, nil, 0)
	assert.ErrorIs(t, err, ErrNoPlayers)

	_, err = calc.EquityVsRandom(ctx, stack("As"), nil, nil, 2)
	assert.ErrorIs(t, err, hands.ErrInvalidHandSize)

	_, err = calc.EquityVsRandom(ctx, stack("As Ah"), nil, nil, 24)
	assert.ErrorIs(t, err, ErrInsufficientUnknownCards)
}
