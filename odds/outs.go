package odds

import (
	"fmt"
	"strings"

	"github.com/lazharichir/pokerodds/cards"
	"github.com/lazharichir/pokerodds/hands"
)

// Target is what a draw is aiming for: a minimum category, or any strict
// category improvement over the current hand.
type Target struct {
	Category hands.Category
	Improve  bool
}

// AtLeast targets any hand of category c or better.
func AtLeast(c hands.Category) Target {
	return Target{Category: c}
}

// Improvement targets any card that lifts the hand to a higher category.
func Improvement() Target {
	return Target{Improve: true}
}

func (t Target) String() string {
	if t.Improve {
		return "improve"
	}
	return t.Category.String()
}

// ParseTarget accepts "improve" (or "improvement") and any category name.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "improve", "improvement":
		return Improvement(), nil
	}
	c, err := hands.ParseCategory(s)
	if err != nil {
		return Target{}, err
	}
	return AtLeast(c), nil
}

func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Target) UnmarshalText(text []byte) error {
	parsed, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Target) hit(current, next hands.HandRank) bool {
	if t.Improve {
		return next.Category > current.Category
	}
	return next.Category >= t.Category
}

// DrawOutcome is the result of an Outs call.
type DrawOutcome struct {
	Target  Target         `json:"target"`
	Current hands.HandRank `json:"-"`
	// Outs is the number of unseen cards that reach the target on the next card.
	Outs int `json:"outs"`
	// Remaining is the number of unseen cards the next card is drawn from.
	Remaining int         `json:"remaining"`
	Cards     cards.Stack `json:"-"`
	// ByCategory groups the out cards by the category each one makes.
	ByCategory map[hands.Category]cards.Stack `json:"-"`
}

// Probability is the chance that the next card is an out.
func (d *DrawOutcome) Probability() float64 {
	if d.Remaining == 0 {
		return 0
	}
	return float64(d.Outs) / float64(d.Remaining)
}

// HitProbability is the chance of catching at least one out over the next
// cardsToCome cards, assuming outs stay outs.
func (d *DrawOutcome) HitProbability(cardsToCome int) float64 {
	return HitProbability(d.Outs, d.Remaining, cardsToCome)
}

// Outs counts the unseen cards that, dealt as the next board card, give the
// player a hand meeting target. The board must hold 3 or 4 cards. Every
// candidate is evaluated; nothing is sampled.
func Outs(player, board, dead cards.Stack, target Target) (*DrawOutcome, error) {
	if len(board) < 3 {
		return nil, fmt.Errorf("%w: outs need a board of 3 or 4 cards, got %d", hands.ErrInvalidHandSize, len(board))
	}
	if len(board) == boardSize {
		return nil, fmt.Errorf("%w: the board is complete", ErrInsufficientUnknownCards)
	}
	s, err := newSpot([]cards.Stack{player}, board, dead, 0)
	if err != nil {
		return nil, err
	}

	hand := make(cards.Stack, 0, 2+s.known+1)
	hand = append(hand, player...)
	hand = append(hand, board...)
	current, err := hands.Evaluate(hand)
	if err != nil {
		return nil, err
	}

	d := &DrawOutcome{
		Target:     target,
		Current:    current,
		Remaining:  len(s.pool),
		ByCategory: map[hands.Category]cards.Stack{},
	}
	hand = append(hand, cards.Card{})
	for _, c := range s.pool {
		hand[len(hand)-1] = c
		next, err := hands.Evaluate(hand)
		if err != nil {
			return nil, err
		}
		if target.hit(current, next) {
			d.Outs++
			d.Cards = append(d.Cards, c)
			d.ByCategory[next.Category] = append(d.ByCategory[next.Category], c)
		}
	}
	return d, nil
}

// Outs is the package-level Outs with debug logging.
func (c *Calculator) Outs(player, board, dead cards.Stack, target Target) (*DrawOutcome, error) {
	d, err := Outs(player, board, dead, target)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("outs counted", "target", target, "current", d.Current, "outs", d.Outs, "remaining", d.Remaining)
	return d, nil
}
