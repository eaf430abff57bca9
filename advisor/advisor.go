// Package advisor suggests a poker action for one decision point from the
// hand's range key, the table position, pot odds and, after the flop, the
// hand's equity against random opponents.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/lazharichir/pokerodds/cards"
	"github.com/lazharichir/pokerodds/hands"
	"github.com/lazharichir/pokerodds/odds"
)

// ErrInvalidSituation is returned for negative chip amounts and boards that
// do not match a street.
var ErrInvalidSituation = errors.New("invalid situation")

const (
	// shortStack is the effective stack, in big blinds, at which preflop
	// play switches to push or fold.
	shortStack = 15
	// facingRaise is the call amount, in big blinds, that marks an open
	// raise in front of the hero.
	facingRaise = 2
	// committedShare of the effective stack already invested makes a hand
	// pot committed.
	committedShare = 0.4
)

// Street is the betting round.
type Street string

const (
	Preflop Street = "preflop"
	Flop    Street = "flop"
	Turn    Street = "turn"
	River   Street = "river"
)

// StreetOf derives the street from the number of board cards.
func StreetOf(board cards.Stack) (Street, error) {
	switch len(board) {
	case 0:
		return Preflop, nil
	case 3:
		return Flop, nil
	case 4:
		return Turn, nil
	case 5:
		return River, nil
	}
	return "", fmt.Errorf("%w: board has %d cards, want 0, 3, 4 or 5", ErrInvalidSituation, len(board))
}

// Kind is the type of a suggested action.
type Kind string

const (
	Fold  Kind = "fold"
	Check Kind = "check"
	Call  Kind = "call"
	Raise Kind = "raise"
	AllIn Kind = "all_in"
)

// Action is a suggested action. Amount is the raise or shove size in big
// blinds and is zero otherwise.
type Action struct {
	Kind   Kind    `json:"kind"`
	Amount float64 `json:"amount,omitempty"`
}

func (a Action) String() string {
	if a.Amount > 0 {
		return fmt.Sprintf("%s %.1f BB", a.Kind, a.Amount)
	}
	return string(a.Kind)
}

// Situation is the hero's view of one decision. Chip amounts are in big
// blinds. A zero Stack means the stack is unknown, which turns off
// short-stack play and the stack-to-pot checks.
type Situation struct {
	Hole      cards.Stack
	Board     cards.Stack
	Position  Position
	Opponents int
	Pot       float64
	ToCall    float64
	Stack     float64
	Invested  float64
}

// Decision is the advice for a situation.
type Decision struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
	Street Street `json:"street"`
	// Hand is the range key of the hole cards, e.g. "AKs".
	Hand    string  `json:"hand"`
	PotOdds float64 `json:"potOdds"`
	// Equity against random hands; only computed after the flop.
	Equity *float64 `json:"equity,omitempty"`
	// SPR is the stack-to-pot ratio when the stack is known.
	SPR        *float64 `json:"spr,omitempty"`
	Committed  bool     `json:"committed"`
	Confidence float64  `json:"confidence"`
}

// Config tunes the playing style.
type Config struct {
	// Aggression from 0 (passive) to 1 lowers the equity needed to raise.
	Aggression float64
	// BluffFrequency from 0 to 1 is the base chance of a bluff. Zero makes
	// every decision deterministic.
	BluffFrequency float64
	// Tightness above 0.7 plays one range tier tighter.
	Tightness float64
	// RaiseSizing is the open raise in big blinds, at least 2.
	RaiseSizing float64
	// Trials is the sample size of the postflop equity run.
	Trials int
	// Seed drives the bluff rolls and the equity sample. Zero seeds from
	// system entropy.
	Seed int64
}

// DefaultConfig is a tight-aggressive style that never bluffs.
func DefaultConfig() Config {
	return Config{
		Aggression:  0.6,
		Tightness:   0.5,
		RaiseSizing: 2.5,
		Trials:      2000,
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func (c Config) normalized() Config {
	c.Aggression = clamp01(c.Aggression)
	c.BluffFrequency = clamp01(c.BluffFrequency)
	c.Tightness = clamp01(c.Tightness)
	c.RaiseSizing = max(c.RaiseSizing, 2)
	if c.Trials <= 0 {
		c.Trials = DefaultConfig().Trials
	}
	return c
}

// Advisor makes decisions. It is safe for concurrent use.
type Advisor struct {
	calc   *odds.Calculator
	cfg    Config
	logger *slog.Logger

	mutex sync.Mutex
	rng   *rand.Rand
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Advisor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an advisor that runs postflop equities on calc.
func New(calc *odds.Calculator, cfg Config, opts ...Option) *Advisor {
	cfg = cfg.normalized()
	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = rand.Uint64()
	}

	calcCfg := calc.Config()
	calcCfg.Trials = cfg.Trials
	if cfg.Seed != 0 {
		calcCfg = calcCfg.WithSeed(cfg.Seed)
	}

	a := &Advisor{
		calc:   calc.With(calcCfg),
		cfg:    cfg,
		logger: slog.Default(),
		rng:    rand.New(rand.NewPCG(seed, 0)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the effective style.
func (a *Advisor) Config() Config {
	return a.cfg
}

func (s Situation) validate() (Street, error) {
	if len(s.Hole) != 2 {
		return "", fmt.Errorf("%w: %d hole cards, want 2", hands.ErrInvalidHandSize, len(s.Hole))
	}
	if s.Position < UTG || s.Position > BB {
		return "", fmt.Errorf("%w: %v", ErrInvalidPosition, s.Position)
	}
	if s.Opponents < 1 {
		return "", fmt.Errorf("%w: need at least one opponent", odds.ErrNoPlayers)
	}
	amounts := []struct {
		name  string
		value float64
	}{{"pot", s.Pot}, {"to call", s.ToCall}, {"stack", s.Stack}, {"invested", s.Invested}}
	for _, amount := range amounts {
		if v := amount.value; v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("%w: %s is %v", ErrInvalidSituation, amount.name, v)
		}
	}
	street, err := StreetOf(s.Board)
	if err != nil {
		return "", err
	}
	if err := odds.Validate([]cards.Stack{s.Hole}, s.Board, nil, s.Opponents); err != nil {
		return "", err
	}
	return street, nil
}

// spr is the stack-to-pot ratio, unknown without a stack or a pot.
func (s Situation) spr() (float64, bool) {
	if s.Stack <= 0 || s.Pot <= 0 {
		return 0, false
	}
	return s.Stack / s.Pot, true
}

// committed reports whether the hero has put in a large share of the
// effective stack.
func (s Situation) committed() bool {
	effective := s.Stack + s.Invested
	return effective > 0 && s.Invested/effective > committedShare
}

// Decide suggests an action. Preflop play follows range charts; later
// streets compare a sampled equity against pot odds.
func (a *Advisor) Decide(ctx context.Context, s Situation) (Decision, error) {
	street, err := s.validate()
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Street:    street,
		Hand:      hands.RangeKey(s.Hole[0], s.Hole[1]),
		PotOdds:   odds.PotOdds(s.Pot, s.ToCall),
		Committed: s.committed(),
	}
	if spr, ok := s.spr(); ok {
		d.SPR = &spr
	}

	if street == Preflop {
		a.preflop(s, &d)
	} else if err := a.postflop(ctx, s, &d); err != nil {
		return Decision{}, err
	}

	a.logger.Debug("advice", "hand", d.Hand, "position", s.Position, "street", d.Street, "action", d.Action.String())
	return d, nil
}

func (d *Decision) set(action Action, confidence float64, format string, args ...any) {
	d.Action = action
	d.Confidence = confidence
	d.Reason = fmt.Sprintf(format, args...)
}

func (a *Advisor) preflop(s Situation, d *Decision) {
	effective := s.Stack + s.Invested
	switch {
	case effective > 0 && effective <= shortStack:
		a.shortStack(s, d, effective)
	case s.ToCall >= facingRaise:
		a.facingRaise(s, d)
	default:
		a.open(s, d)
	}
}

func (a *Advisor) shortStack(s Situation, d *Decision, effective float64) {
	key := d.Hand
	if s.ToCall >= facingRaise {
		if shoveOverRaise[key] {
			d.set(Action{AllIn, effective}, 0.80, "short stack (%.0f BB), shoving %s over the raise", effective, key)
			return
		}
		d.set(Action{Kind: Fold}, 0.75, "short stack (%.0f BB), %s too weak against a raise", effective, key)
		return
	}

	switch {
	case pushRange(effective)[key]:
		d.set(Action{AllIn, effective}, 0.80, "short stack (%.0f BB), pushing %s", effective, key)
	case s.ToCall == 0:
		d.set(Action{Kind: Check}, 0.50, "short stack, %s not in the push range, free check", key)
	default:
		d.set(Action{Kind: Fold}, 0.80, "short stack (%.0f BB), %s outside the push range", effective, key)
	}
}

func (a *Advisor) facingRaise(s Situation, d *Decision) {
	key := d.Hand
	switch {
	case threeBetRange[key]:
		d.set(Action{Raise, round1(s.ToCall * 3)}, 0.85, "%s, 3-betting against a raise from %s", key, s.Position)
	case callRaiseRange[key]:
		d.set(Action{Kind: Call}, 0.65, "%s, calling a raise from %s", key, s.Position)
	case s.Position.IsLate() && a.bluff():
		d.set(Action{Raise, round1(s.ToCall * 3)}, 0.25, "bluff 3-bet with %s from %s", key, s.Position)
	default:
		d.set(Action{Kind: Fold}, 0.80, "%s too weak to continue against a raise from %s", key, s.Position)
	}
}

// openingPosition widens the ranges when few opponents are left to act.
func openingPosition(p Position, opponents int) Position {
	switch {
	case opponents <= 1:
		return BTN
	case opponents <= 2:
		return max(p, CO)
	case opponents <= 4:
		return max(p, HJ)
	}
	return p
}

func (a *Advisor) open(s Situation, d *Decision) {
	key := d.Hand
	pos := openingPosition(s.Position, s.Opponents)
	ranges := openingRanges[pos]
	if a.cfg.Tightness > 0.7 && !tiers[premium][key] {
		ranges.raise = ranges.raise.tighter()
		if ranges.call != noTier {
			ranges.call = ranges.call.tighter()
		}
	}

	seat := s.Position.String()
	if pos != s.Position {
		seat = fmt.Sprintf("%s (playing as %s, %d opponents)", s.Position, pos, s.Opponents)
	}

	switch {
	case ranges.raise.contains(key):
		d.set(Action{Raise, a.cfg.RaiseSizing}, 0.85, "%s is in the raise range for %s", key, seat)
	case ranges.call.contains(key) && s.ToCall > 0:
		d.set(Action{Kind: Call}, 0.65, "%s is in the call range for %s", key, seat)
	case a.bluff():
		d.set(Action{Raise, a.cfg.RaiseSizing}, 0.30, "bluff raise with %s from %s", key, seat)
	case s.ToCall == 0:
		d.set(Action{Kind: Check}, 0.50, "%s outside the range, checking for free", key)
	default:
		d.set(Action{Kind: Fold}, 0.80, "%s outside the range for %s", key, seat)
	}
}

func (a *Advisor) postflop(ctx context.Context, s Situation, d *Decision) error {
	report, err := a.calc.EquityVsRandom(ctx, s.Hole, s.Board, nil, s.Opponents)
	if err != nil {
		return err
	}
	if report.Partial {
		return fmt.Errorf("equity run interrupted: %w", context.Cause(ctx))
	}
	equity := report.Players[0].Equity()
	d.Equity = &equity

	spr, hasSPR := s.spr()
	raiseAt := 0.65 - a.cfg.Aggression*0.15
	if hasSPR && spr < 3 {
		raiseAt -= 0.10
	}
	callAt := 0.15
	if s.ToCall > 0 {
		callAt = max(d.PotOdds, 0.25)
		if d.Committed {
			callAt = min(callAt, 0.15)
		}
	}

	switch {
	case equity >= raiseAt:
		d.set(a.postflopRaise(s, equity), min(0.95, equity), "strong hand (%.0f%% equity), raising", equity*100)
	case equity >= callAt && s.ToCall > 0:
		reason := "%.0f%% equity against %.0f%% pot odds, calling"
		if d.Committed {
			reason += " (pot committed)"
		}
		d.set(Action{Kind: Call}, min(0.80, equity), reason, equity*100, d.PotOdds*100)
	case s.ToCall == 0 && hasDraw(s.Hole, s.Board) && a.bluff():
		d.set(a.postflopRaise(s, equity), 0.40, "semi-bluff with a draw from %s (%.0f%% equity)", s.Position, equity*100)
	case s.ToCall == 0:
		d.set(Action{Kind: Check}, 0.50, "checking with %.0f%% equity", equity*100)
	case a.bluffPostflop(s, equity):
		d.set(a.postflopRaise(s, equity), 0.25, "bluff from %s (%.0f%% equity)", s.Position, equity*100)
	default:
		d.set(Action{Kind: Fold}, 0.75, "%.0f%% equity below %.0f%% pot odds, folding", equity*100, d.PotOdds*100)
	}
	return nil
}

// postflopRaise bets two thirds of the pot, larger with very strong or
// very weak hands and smaller with medium ones. Low SPR stacks jam.
func (a *Advisor) postflopRaise(s Situation, equity float64) Action {
	size := s.Pot * 2 / 3
	switch {
	case equity > 0.8 || equity < 0.3:
		size *= 1.3
	case equity < 0.5:
		size *= 0.8
	}
	if spr, ok := s.spr(); ok && spr < 2 {
		size = max(size, s.Stack)
	}
	if s.Stack > 0 && size >= s.Stack {
		return Action{AllIn, round1(s.Stack)}
	}
	return Action{Raise, round1(max(size, 1))}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// roll reports true with probability p.
func (a *Advisor) roll(p float64) bool {
	if p <= 0 {
		return false
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.rng.Float64() < p
}

func (a *Advisor) bluff() bool {
	return a.roll(a.cfg.BluffFrequency * a.cfg.Aggression)
}

// bluffPostflop only bluffs from late position or the blinds, more often on
// dry boards and with some equity, less often on the river.
func (a *Advisor) bluffPostflop(s Situation, equity float64) bool {
	if !s.Position.IsLate() && !s.Position.IsBlind() {
		return false
	}
	p := a.cfg.BluffFrequency * a.cfg.Aggression
	if dryBoard(s.Board) {
		p *= 1.5
	}
	if equity > 0.15 {
		p *= 1.3
	}
	if len(s.Board) == 5 {
		p *= 0.5
	}
	return a.roll(p)
}

// hasDraw looks for four to a flush or four consecutive ranks before the
// river.
func hasDraw(hole, board cards.Stack) bool {
	if len(board) >= 5 {
		return false
	}
	var suits [4]int
	var ranks [cards.Ace + 1]bool
	for _, c := range append(append(cards.Stack(nil), hole...), board...) {
		suits[c.Suit]++
		if suits[c.Suit] >= 4 {
			return true
		}
		ranks[c.Rank] = true
	}
	run := 0
	for r := cards.Two; r <= cards.Ace; r++ {
		if !ranks[r] {
			run = 0
			continue
		}
		if run++; run >= 4 {
			return true
		}
	}
	return false
}

// dryBoard has no three cards of a suit and no two ranks within two of each
// other.
func dryBoard(board cards.Stack) bool {
	if len(board) < 3 {
		return true
	}
	var suits [4]int
	var ranks [cards.Ace + 1]bool
	for _, c := range board {
		suits[c.Suit]++
		if suits[c.Suit] >= 3 || ranks[c.Rank] {
			return false
		}
		ranks[c.Rank] = true
	}
	last := cards.Rank(0)
	for r := cards.Two; r <= cards.Ace; r++ {
		if !ranks[r] {
			continue
		}
		if last != 0 && r-last <= 2 {
			return false
		}
		last = r
	}
	return true
}
