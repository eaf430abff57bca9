package advisor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	tests := map[string]Position{
		"utg":    UTG,
		"UTG+1":  UTG1,
		"utg1":   UTG1,
		"mp":     MP,
		" hj ":   HJ,
		"co":     CO,
		"button": BTN,
		"BTN":    BTN,
		"sb":     SB,
		"7":      BB,
		"0":      UTG,
	}
	for input, want := range tests {
		got, err := ParsePosition(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "8", "-1", "dealer2", "lojack"} {
		_, err := ParsePosition(input)
		assert.ErrorIs(t, err, ErrInvalidPosition, input)
	}
}

func TestPosition_Groups(t *testing.T) {
	assert.True(t, CO.IsLate())
	assert.True(t, BTN.IsLate())
	assert.False(t, SB.IsLate())
	assert.True(t, BB.IsBlind())
	assert.False(t, UTG.IsBlind())
	assert.Equal(t, "UTG+1", UTG1.String())
	assert.Equal(t, "Position(9)", Position(9).String())
}

func TestPositionForSeat(t *testing.T) {
	var got []string
	for seat := 0; seat < 9; seat++ {
		p, err := PositionForSeat(seat, 9)
		require.NoError(t, err)
		got = append(got, p.String())
	}
	assert.Equal(t, []string{"UTG", "UTG+1", "MP", "MP", "HJ", "CO", "BTN", "SB", "BB"}, got)

	p, err := PositionForSeat(0, 2)
	require.NoError(t, err)
	assert.Equal(t, SB, p)

	_, err = PositionForSeat(3, 3)
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = PositionForSeat(0, 1)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestPosition_JSON(t *testing.T) {
	data, err := json.Marshal(struct{ P Position }{HJ})
	require.NoError(t, err)
	assert.JSONEq(t, `{"P":"HJ"}`, string(data))

	var v struct{ P Position }
	require.NoError(t, json.Unmarshal([]byte(`{"P":"cutoff"}`), &v))
	assert.Equal(t, CO, v.P)
}
