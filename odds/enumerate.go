package odds

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// enumerate scores every completion of the board exactly once.
//
// The domain is split into chunks by the first (up to two) pool indices of
// each completion; every chunk runs with its own tally and the tallies are
// summed after all workers finish.
func (c *Calculator) enumerate(ctx context.Context, s *spot, domain int64) *EquityReport {
	missing := s.missing()
	n := len(s.pool)

	var prefixes [][]int
	combinations(n, min(missing, 2), 0, func(idx []int) bool {
		prefixes = append(prefixes, slices.Clone(idx))
		return true
	})

	chunks := make([]*tally, len(prefixes))
	var g errgroup.Group
	g.SetLimit(c.cfg.Workers)
	for i, prefix := range prefixes {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			t := newTally(len(s.holes))
			w := c.newWorker(len(s.holes))

			board := s.board
			for j, idx := range prefix {
				board[s.known+j] = s.pool[idx]
			}
			start := 0
			if len(prefix) > 0 {
				start = prefix[len(prefix)-1] + 1
			}
			offset := s.known + len(prefix)

			visited := 0
			combinations(n, missing-len(prefix), start, func(idx []int) bool {
				if visited++; visited%1024 == 0 && ctx.Err() != nil {
					return false
				}
				for j, k := range idx {
					board[offset+j] = s.pool[k]
				}
				w.score(&board, s.holes, t)
				return true
			})
			chunks[i] = t
			return nil
		})
	}
	_ = g.Wait()

	return c.report(ModeExact, len(s.holes), chunks, domain)
}
