package hands

import (
	"fmt"
	"sort"

	"github.com/lazharichir/pokerodds/cards"
)

// HandComparisonResult represents one player's place in a showdown
type HandComparisonResult struct {
	PlayerID   string
	HandRank   HandRank
	HandCards  cards.Stack // The 5 cards that make the hand
	IsWinner   bool
	PlaceIndex int // 0 for first place; tied players share a place
}

// CompareHands compares multiple player hands and determines winners.
// playerCards maps a player ID to the cards available to that player (hole
// cards plus board). Results are sorted best first; players with equal hands
// are ordered by ID and share a place index.
func CompareHands(playerCards map[string]cards.Stack) ([]HandComparisonResult, error) {
	if len(playerCards) == 0 {
		return nil, nil
	}

	results := make([]HandComparisonResult, 0, len(playerCards))
	for playerID, available := range playerCards {
		rank, five, err := BestHand(available)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", playerID, err)
		}
		results = append(results, HandComparisonResult{
			PlayerID:  playerID,
			HandRank:  rank,
			HandCards: five,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if c := results[i].HandRank.Compare(results[j].HandRank); c != 0 {
			return c > 0
		}
		return results[i].PlayerID < results[j].PlayerID
	})

	placeIndex := 0
	for i := range results {
		if i > 0 && results[i].HandRank != results[i-1].HandRank {
			placeIndex = i
		}
		results[i].PlaceIndex = placeIndex
		// Only the best hand(s) are winners; ties for first split the pot
		results[i].IsWinner = placeIndex == 0
	}

	return results, nil
}
