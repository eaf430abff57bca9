package api

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lazharichir/pokerodds/cards"
	"github.com/lazharichir/pokerodds/hands"
	"github.com/lazharichir/pokerodds/odds"
)

// RandomHand is the Players entry that asks for hole cards dealt from the
// deck.
const RandomHand = "random"

// ShowdownRequest deals one hand to completion. Players entries are hole
// cards or "random"; missing board cards come from a deck shuffled by Seed.
type ShowdownRequest struct {
	Players []string `json:"players"`
	Board   string   `json:"board,omitempty"`
	Dead    string   `json:"dead,omitempty"`
	Seed    *int64   `json:"seed,omitempty"`
}

// ShowdownPlayer is one player's result, in finishing order.
type ShowdownPlayer struct {
	Player      int            `json:"player"` // 1-based position in the request
	Cards       []string       `json:"cards"`
	Dealt       bool           `json:"dealt"`
	Place       int            `json:"place"` // 1 for the winners
	Winner      bool           `json:"winner"`
	Category    hands.Category `json:"category"`
	Description string         `json:"description"`
	Best        []string       `json:"best"`
}

// ShowdownResponse is the completed board and the players' places.
type ShowdownResponse struct {
	Board   []string         `json:"board"`
	Seed    int64            `json:"seed"`
	Players []ShowdownPlayer `json:"players"`
}

// Showdown deals the random hands and the rest of the board, then ranks
// every player.
func Showdown(req ShowdownRequest) (ShowdownResponse, error) {
	var (
		known  []cards.Stack
		random []int
		holes  = make([]cards.Stack, len(req.Players))
	)
	for i, p := range req.Players {
		if strings.EqualFold(strings.TrimSpace(p), RandomHand) {
			random = append(random, i)
			continue
		}
		stack, err := parse(fmt.Sprintf("player %d", i+1), p)
		if err != nil {
			return ShowdownResponse{}, err
		}
		holes[i] = stack
		known = append(known, stack)
	}
	board, err := parse("board", req.Board)
	if err != nil {
		return ShowdownResponse{}, err
	}
	dead, err := parse("dead", req.Dead)
	if err != nil {
		return ShowdownResponse{}, err
	}
	if err := odds.Validate(known, board, dead, len(random)); err != nil {
		return ShowdownResponse{}, err
	}

	seed := newSeed()
	if req.Seed != nil && *req.Seed != 0 {
		seed = *req.Seed
	}
	deck := cards.ShuffleCards(cards.Remaining(append(known, board, dead)...), seed)

	for _, i := range random {
		holes[i], deck = cards.DealCards(deck, 2)
	}
	board = append(cards.Stack(nil), board...)
	if len(board) == 0 {
		var flop cards.Stack
		flop, deck = cards.DealCards(deck, 3)
		board = append(board, flop...)
	}
	for len(board) < 5 {
		var c cards.Card
		c, deck = cards.DealCard(deck)
		board = append(board, c)
	}

	available := make(map[string]cards.Stack, len(holes))
	index := make(map[string]int, len(holes))
	for i, h := range holes {
		id := playerID(i)
		available[id] = append(append(cards.Stack(nil), h...), board...)
		index[id] = i
	}
	results, err := hands.CompareHands(available)
	if err != nil {
		return ShowdownResponse{}, err
	}

	dealt := make(map[int]bool, len(random))
	for _, i := range random {
		dealt[i] = true
	}
	resp := ShowdownResponse{Board: board.Strings(), Seed: seed}
	for _, r := range results {
		i := index[r.PlayerID]
		resp.Players = append(resp.Players, ShowdownPlayer{
			Player:      i + 1,
			Cards:       holes[i].Strings(),
			Dealt:       dealt[i],
			Place:       r.PlaceIndex + 1,
			Winner:      r.IsWinner,
			Category:    r.HandRank.Category,
			Description: hands.Describe(r.HandRank),
			Best:        r.HandCards.Strings(),
		})
	}
	return resp, nil
}

// playerID orders tied players by their position in the request.
func playerID(i int) string {
	return fmt.Sprintf("%03d", i)
}

func newSeed() int64 {
	for {
		if s := rand.Int64(); s != 0 {
			return s
		}
	}
}
