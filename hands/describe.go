package hands

import (
	"fmt"

	"github.com/lazharichir/pokerodds/cards"
)

// Describe returns a human readable name for a hand rank, e.g. "Two Pair, Kings and Fives".
func Describe(h HandRank) string {
	k := h.Kickers
	switch h.Category {
	case StraightFlush:
		if k[0] == cards.Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("%s-high Straight Flush", k[0].Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", k[0].Plural())
	case FullHouse:
		return fmt.Sprintf("Full House, %s full of %s", k[0].Plural(), k[1].Plural())
	case Flush:
		return fmt.Sprintf("%s-high Flush", k[0].Name())
	case Straight:
		return fmt.Sprintf("%s-high Straight", k[0].Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", k[0].Plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", k[0].Plural(), k[1].Plural())
	case Pair:
		return fmt.Sprintf("Pair of %s", k[0].Plural())
	case HighCard:
		return fmt.Sprintf("High Card %s", k[0].Name())
	}
	return h.Category.String()
}
