package odds

import (
	"testing"

	"github.com/lazharichir/pokerodds/cards"
	"github.com/lazharichir/pokerodds/hands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOuts_FlushDrawOnTheTurn(t *testing.T) {
	d, err := Outs(stack("As Ks"), stack("5s 7s Jd 2c"), nil, AtLeast(hands.Flush))
	require.NoError(t, err)

	assert.Equal(t, 9, d.Outs)
	assert.Equal(t, 46, d.Remaining)
	assert.Equal(t, hands.HighCard, d.Current.Category)
	assert.Len(t, d.ByCategory[hands.Flush], 9)
	for _, c := range d.Cards {
		assert.Equal(t, cards.Spades, c.Suit)
	}
	assert.InDelta(t, 9.0/46, d.Probability(), 1e-12)
}

func TestOuts_FlushDrawOnTheFlop(t *testing.T) {
	d, err := Outs(stack("As Ks"), stack("5s 7s Jd"), nil, AtLeast(hands.Flush))
	require.NoError(t, err)

	assert.Equal(t, 9, d.Outs)
	assert.Equal(t, 47, d.Remaining)
	// turn and river: 1 - C(38,2)/C(47,2)
	assert.InDelta(t, 1-703.0/1081, d.HitProbability(2), 1e-12)
}

func TestOuts_OpenEndedStraightDraw(t *testing.T) {
	d, err := Outs(stack("8h 9c"), stack("6d 7s Kh 2c"), nil, AtLeast(hands.Straight))
	require.NoError(t, err)

	assert.Equal(t, 8, d.Outs)
	for _, c := range d.Cards {
		assert.Contains(t, []cards.Rank{cards.Five, cards.Ten}, c.Rank)
	}
}

func TestOuts_DeadCardsAreNotOuts(t *testing.T) {
	d, err := Outs(stack("8h 9c"), stack("6d 7s Kh 2c"), stack("5s Td"), AtLeast(hands.Straight))
	require.NoError(t, err)

	assert.Equal(t, 6, d.Outs)
	assert.Equal(t, 44, d.Remaining)
}

func TestOuts_Improvement(t *testing.T) {
	d, err := Outs(stack("As Kd"), stack("7c 8h 2s"), nil, Improvement())
	require.NoError(t, err)

	// six cards pair a hole card, nine pair the board
	assert.Equal(t, 15, d.Outs)
	assert.Len(t, d.ByCategory[hands.Pair], 15)
}

func TestOuts_ImprovementNeedsAHigherCategory(t *testing.T) {
	// Two pair on the board side: a card that only lifts the kicker or
	// makes a better two pair is not an improvement.
	d, err := Outs(stack("Ac Kd"), stack("Ah Kh 7s 2c"), nil, Improvement())
	require.NoError(t, err)

	assert.Equal(t, hands.TwoPair, d.Current.Category)
	// Two aces and two kings left make a full house; nothing else improves.
	assert.Equal(t, 4, d.Outs)
	assert.Len(t, d.ByCategory[hands.FullHouse], 4)
	assert.Empty(t, d.ByCategory[hands.TwoPair])
}

func TestOuts_MadeHandCountsEveryCard(t *testing.T) {
	d, err := Outs(stack("Qc Qd"), stack("Qh 7s 2c"), nil, AtLeast(hands.ThreeOfAKind))
	require.NoError(t, err)

	assert.Equal(t, d.Remaining, d.Outs)
}

func TestOuts_Errors(t *testing.T) {
	tests := []struct {
		name   string
		player string
		board  string
		dead   string
		want   error
	}{
		{"preflop", "As Ks", "", "", hands.ErrInvalidHandSize},
		{"two card board", "As Ks", "2c 3c", "", hands.ErrInvalidHandSize},
		{"river", "As Ks", "2c 3c 4c 5c 6c", "", ErrInsufficientUnknownCards},
		{"one hole card", "As", "2c 3c 4c", "", hands.ErrInvalidHandSize},
		{"board overlaps", "As Ks", "As 3c 4c", "", ErrCardConflict},
		{"dead overlaps", "As Ks", "2c 3c 4c", "Ks", ErrCardConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Outs(stack(tt.player), stack(tt.board), stack(tt.dead), AtLeast(hands.Flush))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Target
	}{
		{"improve", Improvement()},
		{"Improvement", Improvement()},
		{"flush", AtLeast(hands.Flush)},
		{"full-house", AtLeast(hands.FullHouse)},
		{"trips", AtLeast(hands.ThreeOfAKind)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseTarget("nuts")
	assert.Error(t, err)

	assert.Equal(t, "improve", Improvement().String())
	assert.Equal(t, "Straight", AtLeast(hands.Straight).String())
}
