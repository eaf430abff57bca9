// Package api holds the JSON requests and responses shared by the HTTP and
// websocket front ends, and their conversion to calculator calls.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/lazharichir/pokerodds/advisor"
	"github.com/lazharichir/pokerodds/cache"
	"github.com/lazharichir/pokerodds/cards"
	"github.com/lazharichir/pokerodds/hands"
	"github.com/lazharichir/pokerodds/odds"
)

// MaxTrials caps the sample size a single request may ask for.
const MaxTrials = 10_000_000

// ErrBadRequest marks request errors that are not card or hand errors.
var ErrBadRequest = errors.New("bad request")

// IsInputError reports whether err was caused by the caller's input.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrBadRequest,
		cards.ErrInvalidCardToken,
		cards.ErrDuplicateCard,
		hands.ErrInvalidHandSize,
		odds.ErrCardConflict,
		odds.ErrInsufficientUnknownCards,
		odds.ErrNoPlayers,
		advisor.ErrInvalidSituation,
		advisor.ErrInvalidPosition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// EquityRequest asks for the equity of known hands, or of one hand against
// random opponents when Opponents is set.
type EquityRequest struct {
	Players   []string `json:"players"`
	Board     string   `json:"board,omitempty"`
	Dead      string   `json:"dead,omitempty"`
	Opponents int      `json:"opponents,omitempty"`
	Trials    int      `json:"trials,omitempty"`
	Seed      *int64   `json:"seed,omitempty"`
}

// EquityInput is a parsed EquityRequest.
type EquityInput struct {
	Players   []cards.Stack
	Board     cards.Stack
	Dead      cards.Stack
	Opponents int
}

func parse(label, s string) (cards.Stack, error) {
	stack, err := cards.ParseStack(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return stack, nil
}

// Parse parses the card strings and validates the input.
func (r EquityRequest) Parse() (EquityInput, error) {
	var in EquityInput
	if r.Opponents < 0 {
		return in, fmt.Errorf("%w: opponents must not be negative", ErrBadRequest)
	}
	if r.Opponents > 0 && len(r.Players) != 1 {
		return in, fmt.Errorf("%w: random opponents need exactly one known hand", ErrBadRequest)
	}
	if r.Trials < 0 || r.Trials > MaxTrials {
		return in, fmt.Errorf("%w: trials must be between 0 and %d", ErrBadRequest, MaxTrials)
	}

	for i, p := range r.Players {
		stack, err := parse(fmt.Sprintf("player %d", i+1), p)
		if err != nil {
			return in, err
		}
		in.Players = append(in.Players, stack)
	}
	var err error
	if in.Board, err = parse("board", r.Board); err != nil {
		return in, err
	}
	if in.Dead, err = parse("dead", r.Dead); err != nil {
		return in, err
	}
	in.Opponents = r.Opponents

	if err := odds.Validate(in.Players, in.Board, in.Dead, in.Opponents); err != nil {
		return in, err
	}
	return in, nil
}

// Configure applies the request's trial count and seed to base.
func (r EquityRequest) Configure(base odds.Config) odds.Config {
	if r.Trials > 0 {
		base.Trials = r.Trials
	}
	if r.Seed != nil {
		base = base.WithSeed(*r.Seed)
	}
	return base
}

// Run calls the matching calculator operation.
func (in EquityInput) Run(ctx context.Context, calc *odds.Calculator) (*odds.EquityReport, error) {
	if in.Opponents > 0 {
		return calc.EquityVsRandom(ctx, in.Players[0], in.Board, in.Dead, in.Opponents)
	}
	return calc.Equity(ctx, in.Players, in.Board, in.Dead)
}

// CacheKey identifies the calculation under cfg.
func (in EquityInput) CacheKey(cfg odds.Config) string {
	return cache.Key(cache.Request{
		Players:   in.Players,
		Board:     in.Board,
		Dead:      in.Dead,
		Opponents: in.Opponents,
		Config:    cfg,
	})
}

// Labels names each player of a report: their cards, or "random".
func (in EquityInput) Labels() []string {
	labels := make([]string, 0, len(in.Players)+in.Opponents)
	for _, p := range in.Players {
		labels = append(labels, p.String())
	}
	for i := 0; i < in.Opponents; i++ {
		labels = append(labels, "random")
	}
	return labels
}

// PlayerEquity is one player's share of an equity response.
type PlayerEquity struct {
	Cards      string             `json:"cards"`
	Win        float64            `json:"win"`
	Tie        float64            `json:"tie"`
	Loss       float64            `json:"loss"`
	Equity     float64            `json:"equity"`
	Wins       int64              `json:"wins"`
	Ties       int64              `json:"ties"`
	Losses     int64              `json:"losses"`
	Categories map[string]float64 `json:"categories,omitempty"`
}

// EquityResponse is the JSON form of an equity report.
type EquityResponse struct {
	RunID     string         `json:"runId"`
	Mode      odds.Mode      `json:"mode"`
	Requested int64          `json:"requested"`
	Completed int64          `json:"completed"`
	Partial   bool           `json:"partial"`
	Seed      int64          `json:"seed,omitempty"`
	Cached    bool           `json:"cached"`
	Players   []PlayerEquity `json:"players"`
}

// NewEquityResponse converts a report; labels name the players in order.
func NewEquityResponse(runID string, labels []string, r *odds.EquityReport, cached bool) EquityResponse {
	resp := EquityResponse{
		RunID:     runID,
		Mode:      r.Mode,
		Requested: r.Requested,
		Completed: r.Completed,
		Partial:   r.Partial,
		Seed:      r.Seed,
		Cached:    cached,
		Players:   make([]PlayerEquity, len(r.Players)),
	}
	for i, p := range r.Players {
		pe := PlayerEquity{
			Win:    p.WinProbability(),
			Tie:    p.TieProbability(),
			Loss:   p.LossProbability(),
			Equity: p.Equity(),
			Wins:   p.Wins,
			Ties:   p.Ties,
			Losses: p.Losses,
		}
		if i < len(labels) {
			pe.Cards = labels[i]
		}
		if p.Categories != nil {
			pe.Categories = map[string]float64{}
			for _, c := range hands.Categories {
				if f := p.CategoryProbability(c); f > 0 {
					pe.Categories[c.String()] = f
				}
			}
		}
		resp.Players[i] = pe
	}
	return resp
}

// EvaluateRequest asks for the best hand among 5 to 7 cards.
type EvaluateRequest struct {
	Cards string `json:"cards"`
}

// EvaluateResponse describes an evaluated hand.
type EvaluateResponse struct {
	Category    hands.Category `json:"category"`
	Description string         `json:"description"`
	TieBreak    []string       `json:"tieBreak"`
	Value       uint32         `json:"value"`
	Best        []string       `json:"best"`
}

// Evaluate parses and evaluates the request's cards.
func Evaluate(req EvaluateRequest) (EvaluateResponse, error) {
	stack, err := parse("cards", req.Cards)
	if err != nil {
		return EvaluateResponse{}, err
	}
	rank, best, err := hands.BestHand(stack)
	if err != nil {
		return EvaluateResponse{}, err
	}

	resp := EvaluateResponse{
		Category:    rank.Category,
		Description: hands.Describe(rank),
		Value:       rank.Value(),
		Best:        best.Strings(),
	}
	for _, r := range rank.TieBreak() {
		resp.TieBreak = append(resp.TieBreak, r.String())
	}
	return resp, nil
}

// OutsRequest asks which next cards reach a target. Target defaults to
// "improve".
type OutsRequest struct {
	Player string `json:"player"`
	Board  string `json:"board"`
	Dead   string `json:"dead,omitempty"`
	Target string `json:"target,omitempty"`
}

// OutsResponse is the JSON form of a draw outcome.
type OutsResponse struct {
	Target      string  `json:"target"`
	Current     string  `json:"current"`
	Outs        int     `json:"outs"`
	Remaining   int     `json:"remaining"`
	Probability float64 `json:"probability"`
	// ByRiver is the chance of hitting an out on any card still to come.
	ByRiver    float64             `json:"byRiver"`
	Cards      []string            `json:"cards"`
	ByCategory map[string][]string `json:"byCategory"`
}

// Outs parses the request and counts the outs.
func Outs(req OutsRequest, calc *odds.Calculator) (OutsResponse, error) {
	target := odds.Improvement()
	if req.Target != "" {
		t, err := odds.ParseTarget(req.Target)
		if err != nil {
			return OutsResponse{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		target = t
	}
	player, err := parse("player", req.Player)
	if err != nil {
		return OutsResponse{}, err
	}
	board, err := parse("board", req.Board)
	if err != nil {
		return OutsResponse{}, err
	}
	dead, err := parse("dead", req.Dead)
	if err != nil {
		return OutsResponse{}, err
	}

	d, err := calc.Outs(player, board, dead, target)
	if err != nil {
		return OutsResponse{}, err
	}

	resp := OutsResponse{
		Target:      target.String(),
		Current:     hands.Describe(d.Current),
		Outs:        d.Outs,
		Remaining:   d.Remaining,
		Probability: d.Probability(),
		ByRiver:     d.HitProbability(5 - len(board)),
		Cards:       d.Cards.Strings(),
		ByCategory:  map[string][]string{},
	}
	for c, stack := range d.ByCategory {
		resp.ByCategory[c.String()] = stack.Strings()
	}
	return resp, nil
}
