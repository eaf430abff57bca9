package odds

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/lazharichir/pokerodds/cards"
	"golang.org/x/sync/errgroup"
)

// sample draws Trials random completions. Trials are cut into fixed-size
// chunks and chunk i draws from its own PCG stream seeded with (seed, i), so a
// given seed yields the same report whatever the worker count or scheduling.
func (c *Calculator) sample(ctx context.Context, s *spot, randomHoles int) *EquityReport {
	seed := rand.Int64()
	if c.cfg.Seed != nil {
		seed = *c.cfg.Seed
	}

	trials := c.cfg.Trials
	missing := s.missing()
	draw := missing + 2*randomHoles
	numChunks := (trials + sampleChunkSize - 1) / sampleChunkSize

	chunks := make([]*tally, numChunks)
	var g errgroup.Group
	g.SetLimit(c.cfg.Workers)
	for i := 0; i < numChunks; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rng := rand.New(rand.NewPCG(uint64(seed), uint64(i)))
			pool := slices.Clone(s.pool)
			holes := slices.Clone(s.holes)
			t := newTally(len(holes))
			w := c.newWorker(len(holes))
			board := s.board

			size := min(sampleChunkSize, trials-i*sampleChunkSize)
			for trial := 0; trial < size; trial++ {
				if trial%256 == 0 && ctx.Err() != nil {
					break
				}
				// partial Fisher-Yates: pool[:draw] becomes a uniform draw without replacement
				for d := 0; d < draw; d++ {
					j := d + rng.IntN(len(pool)-d)
					pool[d], pool[j] = pool[j], pool[d]
				}
				copy(board[s.known:], pool[:missing])
				for o := 0; o < randomHoles; o++ {
					holes[s.fixed+o] = [2]cards.Card{pool[missing+2*o], pool[missing+2*o+1]}
				}
				w.score(&board, holes, t)
			}
			chunks[i] = t
			return nil
		})
	}
	_ = g.Wait()

	r := c.report(ModeSampled, len(s.holes), chunks, int64(trials))
	r.Seed = seed
	return r
}
