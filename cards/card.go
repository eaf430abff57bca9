package cards

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCardToken is returned when a card token cannot be parsed.
	ErrInvalidCardToken = errors.New("invalid card token")
	// ErrDuplicateCard is returned when the same card appears twice in a set.
	ErrDuplicateCard = errors.New("duplicate card")
)

// Suit represents a card suit
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists the four suits in index order.
var Suits = [4]Suit{Clubs, Diamonds, Hearts, Spades}

// String returns the unicode symbol of the suit
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	}
	return "?"
}

// Letter returns the single ASCII letter used in card notation.
func (s Suit) Letter() byte {
	return "cdhs?"[min(int(s), 4)]
}

// Rank represents a card rank, 2 through 14 where 14 is the Ace
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists the thirteen ranks from lowest to highest.
var Ranks = [13]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the single character notation of the rank
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string("23456789TJQKA"[r-Two])
}

// Name returns the English name of the rank, e.g. "Queen".
func (r Rank) Name() string {
	names := [...]string{"Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King", "Ace"}
	if r < Two || r > Ace {
		return "Unknown"
	}
	return names[r-Two]
}

// Plural returns the plural English name of the rank, e.g. "Sixes".
func (r Rank) Plural() string {
	if r == Six {
		return "Sixes"
	}
	return r.Name() + "s"
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card, validating rank and suit.
func NewCard(rank Rank, suit Suit) (Card, error) {
	if rank < Two || rank > Ace || suit > Spades {
		return Card{}, fmt.Errorf("%w: rank %d suit %d", ErrInvalidCardToken, rank, suit)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// String returns the two character ASCII notation of a card, e.g. "As"
func (c Card) String() string {
	return c.Rank.String() + string(c.Suit.Letter())
}

// Symbol returns the card with its unicode suit symbol, e.g. "A♠".
func (c Card) Symbol() string {
	return c.Rank.String() + c.Suit.String()
}

// Index returns a dense index in [0, 52) unique to the card.
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// Valid reports whether the card has a legal rank and suit.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit <= Spades
}

// CardFromString creates a card from a string representation
// e.g., "As", "AS", "A♠", "Ts" or "10s" -> Card{Rank: Ace/Ten, Suit: Spades}
func CardFromString(s string) (Card, error) {
	if len(s) < 2 || strings.TrimSpace(s) != s {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCardToken, s)
	}

	var suit Suit
	var valuePart string
	switch {
	case strings.HasSuffix(s, "♠"):
		suit, valuePart = Spades, strings.TrimSuffix(s, "♠")
	case strings.HasSuffix(s, "♥"):
		suit, valuePart = Hearts, strings.TrimSuffix(s, "♥")
	case strings.HasSuffix(s, "♦"):
		suit, valuePart = Diamonds, strings.TrimSuffix(s, "♦")
	case strings.HasSuffix(s, "♣"):
		suit, valuePart = Clubs, strings.TrimSuffix(s, "♣")
	default:
		valuePart = s[:len(s)-1]
		switch s[len(s)-1] {
		case 's', 'S':
			suit = Spades
		case 'h', 'H':
			suit = Hearts
		case 'd', 'D':
			suit = Diamonds
		case 'c', 'C':
			suit = Clubs
		default:
			return Card{}, fmt.Errorf("%w: invalid suit in %q", ErrInvalidCardToken, s)
		}
	}

	var rank Rank
	switch strings.ToUpper(valuePart) {
	case "A":
		rank = Ace
	case "K":
		rank = King
	case "Q":
		rank = Queen
	case "J":
		rank = Jack
	case "T", "10":
		rank = Ten
	case "9":
		rank = Nine
	case "8":
		rank = Eight
	case "7":
		rank = Seven
	case "6":
		rank = Six
	case "5":
		rank = Five
	case "4":
		rank = Four
	case "3":
		rank = Three
	case "2":
		rank = Two
	default:
		return Card{}, fmt.Errorf("%w: invalid rank in %q", ErrInvalidCardToken, s)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParse parses a card and panics on error. Intended for tests and constants.
func MustParse(s string) Card {
	c, err := CardFromString(s)
	if err != nil {
		panic(err)
	}
	return c
}
