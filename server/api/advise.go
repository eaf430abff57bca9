package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lazharichir/pokerodds/advisor"
	"github.com/lazharichir/pokerodds/odds"
)

// AdviseRequest describes one decision. Chip amounts are in big blinds.
// The position is named directly or given as a seat counted from UTG at a
// table of Players (all seated players by default). The style fields
// override the server's advisor settings.
type AdviseRequest struct {
	Hole      string  `json:"hole"`
	Board     string  `json:"board,omitempty"`
	Position  string  `json:"position,omitempty"`
	Seat      *int    `json:"seat,omitempty"`
	Players   int     `json:"players,omitempty"`
	Opponents int     `json:"opponents"`
	Pot       float64 `json:"pot"`
	ToCall    float64 `json:"toCall,omitempty"`
	Stack     float64 `json:"stack,omitempty"`
	Invested  float64 `json:"invested,omitempty"`

	Aggression     *float64 `json:"aggression,omitempty"`
	BluffFrequency *float64 `json:"bluffFrequency,omitempty"`
	Tightness      *float64 `json:"tightness,omitempty"`
	Seed           *int64   `json:"seed,omitempty"`
}

// AdviseResponse is the advice with the position it was given for.
type AdviseResponse struct {
	Position advisor.Position `json:"position"`
	advisor.Decision
}

// Situation parses the request's cards and position.
func (r AdviseRequest) Situation() (advisor.Situation, error) {
	pos, err := r.position()
	if err != nil {
		return advisor.Situation{}, err
	}
	hole, err := parse("hole", r.Hole)
	if err != nil {
		return advisor.Situation{}, err
	}
	board, err := parse("board", r.Board)
	if err != nil {
		return advisor.Situation{}, err
	}
	return advisor.Situation{
		Hole:      hole,
		Board:     board,
		Position:  pos,
		Opponents: r.Opponents,
		Pot:       r.Pot,
		ToCall:    r.ToCall,
		Stack:     r.Stack,
		Invested:  r.Invested,
	}, nil
}

func (r AdviseRequest) position() (advisor.Position, error) {
	if r.Seat == nil {
		return advisor.ParsePosition(r.Position)
	}
	if r.Position != "" {
		return 0, fmt.Errorf("%w: give a position or a seat, not both", ErrBadRequest)
	}
	players := r.Players
	if players == 0 {
		players = r.Opponents + 1
	}
	return advisor.PositionForSeat(*r.Seat, players)
}

// Configure applies the request's style overrides to base.
func (r AdviseRequest) Configure(base advisor.Config) (advisor.Config, error) {
	for name, v := range map[string]*float64{
		"aggression":     r.Aggression,
		"bluffFrequency": r.BluffFrequency,
		"tightness":      r.Tightness,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return base, fmt.Errorf("%w: %s must be between 0 and 1", ErrBadRequest, name)
		}
	}
	if r.Aggression != nil {
		base.Aggression = *r.Aggression
	}
	if r.BluffFrequency != nil {
		base.BluffFrequency = *r.BluffFrequency
	}
	if r.Tightness != nil {
		base.Tightness = *r.Tightness
	}
	if r.Seed != nil {
		base.Seed = *r.Seed
	}
	return base, nil
}

// Advise answers the request with an advisor built on calc and base.
func Advise(ctx context.Context, req AdviseRequest, calc *odds.Calculator, base advisor.Config, logger *slog.Logger) (AdviseResponse, error) {
	s, err := req.Situation()
	if err != nil {
		return AdviseResponse{}, err
	}
	cfg, err := req.Configure(base)
	if err != nil {
		return AdviseResponse{}, err
	}
	d, err := advisor.New(calc, cfg, advisor.WithLogger(logger)).Decide(ctx, s)
	if err != nil {
		return AdviseResponse{}, err
	}
	return AdviseResponse{Position: s.Position, Decision: d}, nil
}
