package hands

import "github.com/lazharichir/pokerodds/cards"

// RangeKey names a starting hand the way range charts do: the higher rank
// first, then "s" for suited or "o" for offsuit. Pairs carry no suffix,
// e.g. "AKs", "T9o", "77".
func RangeKey(a, b cards.Card) string {
	if a.Rank < b.Rank {
		a, b = b, a
	}
	key := a.Rank.String() + b.Rank.String()
	switch {
	case a.Rank == b.Rank:
		return key
	case a.Suit == b.Suit:
		return key + "s"
	}
	return key + "o"
}
