// Package deck provides playing cards that draw their order from a caller
// supplied generator. A round that shuffles with its own seeded source gets a
// deck order that is part of the round's auditable random sequence.
package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"

	"sidegame-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents a playing deck
type Deck struct {
	Cards []*Card `json:"cards"`
}

// New returns a new, unshuffled deck of 52 cards
func New() *Deck {
	cards := make([]*Card, 0, 52)
	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	return &Deck{Cards: cards}
}

// Shuffle performs a Fisher-Yates shuffle using the supplied generator.
// A 52-card shuffle consumes exactly 51 draws.
func (d *Deck) Shuffle(g rng.Generator) {
	for j := len(d.Cards) - 1; j > 0; j-- {
		i := g.Intn(j + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw will draw the next card.
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) == 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// CanDraw returns true if there are at least count cards remaining
func (d *Deck) CanDraw(count int) bool {
	return len(d.Cards) >= count
}

// HashCode returns a SHA1 hash code of the deck order for audit comparison
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
