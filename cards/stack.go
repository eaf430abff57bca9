package cards

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Stack represents multiple cards
type Stack []Card

// NewStack creates a new stack from the given cards
func NewStack(cards ...Card) Stack {
	return Stack(cards)
}

// ParseStack parses a list of card tokens separated by spaces or commas,
// e.g. "As Kh" or "As,Kh". Tokens may also be written back to back
// ("AsKh", "10sKh", "A♠K♥"): a token ends at its suit. Duplicates are rejected.
func ParseStack(s string) (Stack, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})

	var stack Stack
	for _, field := range fields {
		for _, token := range splitTokens(field) {
			card, err := CardFromString(token)
			if err != nil {
				return nil, err
			}
			stack = append(stack, card)
		}
	}

	if err := stack.Validate(); err != nil {
		return nil, err
	}
	return stack, nil
}

// splitTokens cuts a field after every suit letter or symbol. Leftover
// characters form a last token that fails to parse.
func splitTokens(field string) []string {
	var tokens []string
	start := 0
	for i, r := range field {
		if isSuit(r) {
			end := i + utf8.RuneLen(r)
			tokens = append(tokens, field[start:end])
			start = end
		}
	}
	if start < len(field) {
		tokens = append(tokens, field[start:])
	}
	return tokens
}

func isSuit(r rune) bool {
	switch r {
	case 's', 'S', 'h', 'H', 'd', 'D', 'c', 'C', '♠', '♥', '♦', '♣':
		return true
	}
	return false
}

// MustParseStack parses a stack and panics on error.
func MustParseStack(s string) Stack {
	stack, err := ParseStack(s)
	if err != nil {
		panic(err)
	}
	return stack
}

// Validate checks every card is legal and appears only once.
func (s Stack) Validate() error {
	var seen Mask
	for _, c := range s {
		if !c.Valid() {
			return fmt.Errorf("%w: %v", ErrInvalidCardToken, c)
		}
		if seen.Has(c) {
			return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen = seen.With(c)
	}
	return nil
}

// Contains reports whether the stack holds the card.
func (s Stack) Contains(card Card) bool {
	for _, c := range s {
		if c == card {
			return true
		}
	}
	return false
}

// Without returns a copy of the stack with the given cards removed.
func (s Stack) Without(cards ...Card) Stack {
	var exclude Mask
	for _, c := range cards {
		exclude = exclude.With(c)
	}
	out := make(Stack, 0, len(s))
	for _, c := range s {
		if !exclude.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Mask returns the set of cards in the stack as a bitmask.
func (s Stack) Mask() Mask {
	var m Mask
	for _, c := range s {
		m = m.With(c)
	}
	return m
}

// String returns the cards separated by spaces
func (s Stack) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Strings returns the ASCII notation of every card.
func (s Stack) Strings() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.String()
	}
	return out
}

// Mask is a set of cards keyed by Card.Index.
type Mask uint64

// Has reports whether the card is in the set.
func (m Mask) Has(c Card) bool {
	return m&(1<<uint(c.Index())) != 0
}

// With returns the set with the card added.
func (m Mask) With(c Card) Mask {
	return m | 1<<uint(c.Index())
}
