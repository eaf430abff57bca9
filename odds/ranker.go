package odds

import (
	"fmt"
	"strings"

	"github.com/lazharichir/pokerodds/cards"
	"github.com/lazharichir/pokerodds/hands"
	poker "github.com/paulhankin/poker"
)

// Ranker scores seven distinct cards. Larger values are stronger hands and
// equal values are equal hands.
type Ranker interface {
	Rank7(hand *[7]cards.Card) uint32
}

// CategoryRanker is a Ranker whose values also encode the hand category.
type CategoryRanker interface {
	Ranker
	Category(value uint32) hands.Category
}

// NativeRanker ranks with the hands package evaluator.
type NativeRanker struct{}

func (NativeRanker) Rank7(hand *[7]cards.Card) uint32 {
	return hands.Rank7(hand).Value()
}

func (NativeRanker) Category(value uint32) hands.Category {
	return hands.CategoryOf(value)
}

// TableRanker ranks with the paulhankin/poker lookup tables. It is faster
// than NativeRanker but cannot report hand categories.
type TableRanker struct {
	table [52]poker.Card
}

// NewTableRanker builds the card conversion table.
func NewTableRanker() *TableRanker {
	suits := [...]poker.Suit{poker.Club, poker.Diamond, poker.Heart, poker.Spade}
	t := &TableRanker{}
	for _, c := range cards.NewDeck52() {
		// The library numbers ranks 1..13 with the Ace as 1
		r := poker.Rank(c.Rank)
		if c.Rank == cards.Ace {
			r = poker.Rank(1)
		}
		pc, err := poker.MakeCard(suits[c.Suit], r)
		if err != nil {
			panic(fmt.Sprintf("odds: cannot convert %s: %v", c, err))
		}
		t.table[c.Index()] = pc
	}
	return t
}

func (t *TableRanker) Rank7(hand *[7]cards.Card) uint32 {
	var seven [7]poker.Card
	for i := range hand {
		seven[i] = t.table[hand[i].Index()]
	}
	return uint32(int32(poker.Eval7(&seven)) + 1<<15)
}

// ParseRanker maps a backend name ("native" or "table") to a Ranker.
func ParseRanker(name string) (Ranker, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "native":
		return NativeRanker{}, nil
	case "table", "lookup":
		return NewTableRanker(), nil
	}
	return nil, fmt.Errorf("unknown ranker %q", name)
}
