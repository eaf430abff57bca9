package hands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lazharichir/pokerodds/cards"
)

// ErrInvalidHandSize is returned when a hand has fewer than 5 or more than 7 cards.
var ErrInvalidHandSize = errors.New("invalid hand size")

// Category represents the class of a poker hand, weakest first
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// Categories lists every category from weakest to strongest.
var Categories = [...]Category{HighCard, Pair, TwoPair, ThreeOfAKind, Straight, Flush, FullHouse, FourOfAKind, StraightFlush}

// NumCategories is the number of hand categories.
const NumCategories = len(Categories)

var categoryNames = [...]string{
	"High Card",
	"Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
}

func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", c)
	}
	return categoryNames[c]
}

// ParseCategory accepts names such as "flush", "Two Pair", "two-pair" or "full_house".
func ParseCategory(s string) (Category, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for i, name := range categoryNames {
		if strings.ReplaceAll(strings.ToLower(name), " ", "") == norm {
			return Category(i), nil
		}
	}
	switch norm {
	case "onepair":
		return Pair, nil
	case "trips", "set":
		return ThreeOfAKind, nil
	case "quads":
		return FourOfAKind, nil
	}
	return 0, fmt.Errorf("unknown hand category %q", s)
}

// HandRank is the comparable strength of a 5-card hand: its category plus the
// ranks that break ties within the category, highest priority first.
// Unused kicker slots are zero.
type HandRank struct {
	Category Category
	Kickers  [5]cards.Rank
}

// TieBreak returns the tie-break sequence without the zero padding.
func (h HandRank) TieBreak() []cards.Rank {
	n := 0
	for n < len(h.Kickers) && h.Kickers[n] != 0 {
		n++
	}
	out := make([]cards.Rank, n)
	copy(out, h.Kickers[:n])
	return out
}

// Value packs the rank into an integer with the same total order.
func (h HandRank) Value() uint32 {
	v := uint32(h.Category)
	for _, k := range h.Kickers {
		v = v<<4 | uint32(k)
	}
	return v
}

// CategoryOf recovers the category from a packed Value.
func CategoryOf(value uint32) Category {
	return Category(value >> 20)
}

// Compare returns -1 if h is weaker than other, 0 if equal, 1 if stronger
func (h HandRank) Compare(other HandRank) int {
	a, b := h.Value(), other.Value()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Beats reports whether h is strictly stronger than other.
func (h HandRank) Beats(other HandRank) bool {
	return h.Value() > other.Value()
}

func (h HandRank) String() string {
	return Describe(h)
}

// Evaluate returns the strength of the best 5-card hand that can be made from
// 5, 6 or 7 distinct cards.
func Evaluate(hand []cards.Card) (HandRank, error) {
	rank, _, err := bestHand(hand)
	return rank, err
}

// BestHand is like Evaluate but also returns the five cards that make the hand.
func BestHand(hand []cards.Card) (HandRank, cards.Stack, error) {
	rank, five, err := bestHand(hand)
	if err != nil {
		return HandRank{}, nil, err
	}
	return rank, cards.NewStack(five[:]...), nil
}

func bestHand(hand []cards.Card) (HandRank, [5]cards.Card, error) {
	if len(hand) < 5 || len(hand) > 7 {
		return HandRank{}, [5]cards.Card{}, fmt.Errorf("%w: got %d cards, want 5 to 7", ErrInvalidHandSize, len(hand))
	}
	if err := cards.Stack(hand).Validate(); err != nil {
		return HandRank{}, [5]cards.Card{}, err
	}
	rank, five := bestOf(hand)
	return rank, five, nil
}

// Rank7 evaluates seven distinct cards without validation.
func Rank7(c *[7]cards.Card) HandRank {
	rank, _ := bestOf(c[:])
	return rank
}

// bestOf tries every 5-card subset by choosing the cards left out.
func bestOf(hand []cards.Card) (HandRank, [5]cards.Card) {
	var best HandRank
	var bestFive, five [5]cards.Card
	var bestValue uint32
	first := true

	try := func(skipA, skipB int) {
		n := 0
		for i := range hand {
			if i != skipA && i != skipB {
				five[n] = hand[i]
				n++
			}
		}
		rank := evaluateFive(&five)
		if v := rank.Value(); first || v > bestValue {
			best, bestValue, bestFive, first = rank, v, five, false
		}
	}

	switch len(hand) {
	case 5:
		try(-1, -1)
	case 6:
		for a := 0; a < 6; a++ {
			try(a, -1)
		}
	default:
		for a := 0; a < len(hand); a++ {
			for b := a + 1; b < len(hand); b++ {
				try(a, b)
			}
		}
	}
	return best, bestFive
}

// evaluateFive classifies exactly five cards.
func evaluateFive(hand *[5]cards.Card) HandRank {
	var counts [cards.Ace + 1]uint8
	flush := true
	for i := range hand {
		counts[hand[i].Rank]++
		if hand[i].Suit != hand[0].Suit {
			flush = false
		}
	}

	// Group ranks by multiplicity, highest rank first within each group
	var quad, trips cards.Rank
	var pairs [2]cards.Rank
	var singles [5]cards.Rank
	np, ns := 0, 0
	for r := cards.Ace; r >= cards.Two; r-- {
		switch counts[r] {
		case 4:
			quad = r
		case 3:
			trips = r
		case 2:
			pairs[np] = r
			np++
		case 1:
			singles[ns] = r
			ns++
		}
	}

	var straightHigh cards.Rank
	if ns == 5 {
		if singles[0]-singles[4] == 4 {
			straightHigh = singles[0]
		} else if singles[0] == cards.Ace && singles[1] == cards.Five {
			// wheel: A-2-3-4-5 plays as a five-high straight
			straightHigh = cards.Five
		}
	}

	switch {
	case flush && straightHigh != 0:
		return HandRank{Category: StraightFlush, Kickers: [5]cards.Rank{straightHigh}}
	case quad != 0:
		return HandRank{Category: FourOfAKind, Kickers: [5]cards.Rank{quad, singles[0]}}
	case trips != 0 && np == 1:
		return HandRank{Category: FullHouse, Kickers: [5]cards.Rank{trips, pairs[0]}}
	case flush:
		return HandRank{Category: Flush, Kickers: singles}
	case straightHigh != 0:
		return HandRank{Category: Straight, Kickers: [5]cards.Rank{straightHigh}}
	case trips != 0:
		return HandRank{Category: ThreeOfAKind, Kickers: [5]cards.Rank{trips, singles[0], singles[1]}}
	case np == 2:
		return HandRank{Category: TwoPair, Kickers: [5]cards.Rank{pairs[0], pairs[1], singles[0]}}
	case np == 1:
		return HandRank{Category: Pair, Kickers: [5]cards.Rank{pairs[0], singles[0], singles[1], singles[2]}}
	}
	return HandRank{Category: HighCard, Kickers: singles}
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if int(c) >= len(categoryNames) {
		return nil, fmt.Errorf("unknown hand category %d", c)
	}
	return []byte(categoryNames[c]), nil
}

// UnmarshalText accepts any name understood by ParseCategory.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
