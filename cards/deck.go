package cards

import "math/rand/v2"

// NewDeck52 creates a standard deck of 52 cards, ordered by Card.Index
func NewDeck52() Stack {
	deck := make(Stack, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// Remaining returns the cards of a fresh deck that are not in known.
func Remaining(known ...Stack) Stack {
	var used Mask
	for _, s := range known {
		used |= s.Mask()
	}
	deck := NewDeck52()
	out := deck[:0]
	for _, c := range deck {
		if !used.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// ShuffleCards returns a shuffled copy of cards. A zero seed shuffles from
// system entropy.
func ShuffleCards(cards []Card, seed int64) Stack {
	s := uint64(seed)
	if seed == 0 {
		s = rand.Uint64()
	}
	r := rand.New(rand.NewPCG(s, 0))

	shuffled := make(Stack, len(cards))
	copy(shuffled, cards)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// DealCard deals the top card from the deck and returns the card and the remaining deck
func DealCard(deck []Card) (Card, []Card) {
	if len(deck) == 0 {
		return Card{}, nil
	}
	return deck[0], deck[1:]
}

// DealCards deals count cards and returns them with the remaining deck.
// Short decks deal what they have.
func DealCards(deck []Card, count int) (Stack, []Card) {
	count = min(max(count, 0), len(deck))
	dealt := make(Stack, count)
	copy(dealt, deck[:count])
	return dealt, deck[count:]
}
