package odds

import (
	"context"
	"errors"
	"fmt"

	"github.com/lazharichir/pokerodds/cards"
	"github.com/lazharichir/pokerodds/hands"
)

var (
	// ErrCardConflict is returned when the same card is known in two places
	// (two players, a player and the board, the board and the dead cards...).
	ErrCardConflict = errors.New("card conflict")
	// ErrInsufficientUnknownCards is returned when the unknown pool cannot
	// supply the cards a calculation needs.
	ErrInsufficientUnknownCards = errors.New("insufficient unknown cards")
	// ErrNoPlayers is returned when a calculation has nobody to score.
	ErrNoPlayers = errors.New("no players")
)

const boardSize = 5

// spot is the validated, read-only input of one calculation.
type spot struct {
	holes [][2]cards.Card // known players first, then random opponents
	fixed int             // number of players with known hole cards
	board [boardSize]cards.Card
	known int // board cards already dealt
	pool  cards.Stack
}

func (s *spot) missing() int {
	return boardSize - s.known
}

// newSpot validates players, board and dead cards and builds the unknown pool.
// randomHoles extra players are dealt hole cards from the pool when sampling.
func newSpot(players []cards.Stack, board, dead cards.Stack, randomHoles int) (*spot, error) {
	if len(players)+randomHoles == 0 {
		return nil, ErrNoPlayers
	}
	for i, p := range players {
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: player %d has %d hole cards, want 2", hands.ErrInvalidHandSize, i+1, len(p))
		}
	}
	if len(board) > boardSize {
		return nil, fmt.Errorf("%w: board has %d cards, want at most %d", hands.ErrInvalidHandSize, len(board), boardSize)
	}

	var used cards.Mask
	claim := func(label string, s cards.Stack) error {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		for _, c := range s {
			if used.Has(c) {
				return fmt.Errorf("%w: %s in %s is already known", ErrCardConflict, c, label)
			}
		}
		used |= s.Mask()
		return nil
	}
	for i, p := range players {
		if err := claim(fmt.Sprintf("player %d", i+1), p); err != nil {
			return nil, err
		}
	}
	if err := claim("board", board); err != nil {
		return nil, err
	}
	if err := claim("dead cards", dead); err != nil {
		return nil, err
	}

	s := &spot{
		holes: make([][2]cards.Card, len(players)+randomHoles),
		fixed: len(players),
		known: len(board),
	}
	for i, p := range players {
		s.holes[i] = [2]cards.Card{p[0], p[1]}
	}
	copy(s.board[:], board)
	s.pool = cards.Remaining(append(append([]cards.Stack{}, players...), board, dead)...)

	if need := s.missing() + 2*randomHoles; len(s.pool) < need {
		return nil, fmt.Errorf("%w: need %d, %d left", ErrInsufficientUnknownCards, need, len(s.pool))
	}
	return s, nil
}

// Validate runs the input checks of Equity (opponents == 0) or
// EquityVsRandom (opponents > 0) without computing anything.
func Validate(players []cards.Stack, board, dead cards.Stack, opponents int) error {
	if opponents < 0 {
		return fmt.Errorf("%w: negative opponent count", ErrNoPlayers)
	}
	_, err := newSpot(players, board, dead, opponents)
	return err
}

// Equity computes every player's chance of holding the best hand once the
// board is complete. Each player needs exactly two known hole cards; the
// board may hold 0 to 5 cards. Completions are enumerated exactly when their
// number is within the exactness threshold and sampled otherwise.
//
// Cancelling ctx stops the workers early; the report then covers only the
// completed scenarios and is marked Partial.
func (c *Calculator) Equity(ctx context.Context, players []cards.Stack, board, dead cards.Stack) (*EquityReport, error) {
	s, err := newSpot(players, board, dead, 0)
	if err != nil {
		return nil, err
	}

	domain := binomial(len(s.pool), s.missing())
	if domain <= c.cfg.ExactnessThreshold {
		c.logger.Debug("equity strategy selected",
			"mode", ModeExact, "players", len(players), "missing", s.missing(), "domain", domain)
		return c.enumerate(ctx, s, domain), nil
	}

	c.logger.Debug("equity strategy selected",
		"mode", ModeSampled, "players", len(players), "missing", s.missing(),
		"domain", domain, "threshold", c.cfg.ExactnessThreshold, "trials", c.cfg.Trials)
	return c.sample(ctx, s, 0), nil
}

// EquityVsRandom computes hero's equity against opponents whose hole cards
// are unknown. The space is always sampled. Players[0] of the report is the
// hero; the rest are the random opponents.
func (c *Calculator) EquityVsRandom(ctx context.Context, hero, board, dead cards.Stack, opponents int) (*EquityReport, error) {
	if opponents < 1 {
		return nil, fmt.Errorf("%w: need at least one opponent", ErrNoPlayers)
	}
	s, err := newSpot([]cards.Stack{hero}, board, dead, opponents)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("equity vs random opponents",
		"opponents", opponents, "missing", s.missing(), "trials", c.cfg.Trials)
	return c.sample(ctx, s, opponents), nil
}

// worker scores scenarios into a tally with private scratch space.
type worker struct {
	ranker     Ranker
	categorize CategoryRanker
	values     []uint32
	hand       [7]cards.Card
}

func (c *Calculator) newWorker(players int) *worker {
	categorize, _ := c.cfg.Ranker.(CategoryRanker)
	return &worker{
		ranker:     c.cfg.Ranker,
		categorize: categorize,
		values:     make([]uint32, players),
	}
}

func (w *worker) score(board *[boardSize]cards.Card, holes [][2]cards.Card, t *tally) {
	copy(w.hand[2:], board[:])
	for p, h := range holes {
		w.hand[0], w.hand[1] = h[0], h[1]
		w.values[p] = w.ranker.Rank7(&w.hand)
	}
	t.record(w.values, w.categorize)
}

func (c *Calculator) report(mode Mode, players int, chunks []*tally, requested int64) *EquityReport {
	sum := reduce(players, chunks)
	_, categorizes := c.cfg.Ranker.(CategoryRanker)
	r := &EquityReport{
		Players:   sum.results(categorizes),
		Mode:      mode,
		Requested: requested,
		Completed: sum.total,
		Partial:   sum.total < requested,
	}
	if r.Partial {
		c.logger.Debug("equity run stopped early", "mode", mode, "completed", r.Completed, "requested", requested)
	}
	return r
}
