package advisor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPosition is returned for unknown table positions.
var ErrInvalidPosition = errors.New("invalid position")

// Position is a seat ordered by preflop action: UTG acts first, BB last.
type Position int

const (
	UTG Position = iota
	UTG1
	MP
	HJ
	CO
	BTN
	SB
	BB
)

var positionNames = [...]string{"UTG", "UTG+1", "MP", "HJ", "CO", "BTN", "SB", "BB"}

func (p Position) String() string {
	if p < UTG || p > BB {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// IsLate reports the cutoff and the button.
func (p Position) IsLate() bool { return p == CO || p == BTN }

// IsBlind reports the small and big blinds.
func (p Position) IsBlind() bool { return p == SB || p == BB }

// ParsePosition accepts a short name such as "btn" or "utg+1", or the seat
// index 0 (UTG) through 7 (BB).
func ParsePosition(s string) (Position, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(name); err == nil {
		if n < int(UTG) || n > int(BB) {
			return 0, fmt.Errorf("%w: seat %d, want 0 to 7", ErrInvalidPosition, n)
		}
		return Position(n), nil
	}
	switch name {
	case "UTG1", "UTG_1", "UTG+1":
		return UTG1, nil
	case "HIJACK":
		return HJ, nil
	case "CUTOFF":
		return CO, nil
	case "BUTTON", "BU", "DEALER":
		return BTN, nil
	}
	for i, n := range positionNames {
		if n == name {
			return Position(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
}

// PositionForSeat maps a seat's distance from UTG at a table of players
// to a position. The last seats are always BB, SB, BTN, CO and HJ; early
// seats fold into UTG, UTG+1 and MP.
func PositionForSeat(seat, players int) (Position, error) {
	if players < 2 || seat < 0 || seat >= players {
		return 0, fmt.Errorf("%w: seat %d at a table of %d", ErrInvalidPosition, seat, players)
	}
	switch players - 1 - seat {
	case 0:
		return BB, nil
	case 1:
		return SB, nil
	case 2:
		return BTN, nil
	case 3:
		return CO, nil
	case 4:
		return HJ, nil
	}
	switch seat {
	case 0:
		return UTG, nil
	case 1:
		return UTG1, nil
	}
	return MP, nil
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
