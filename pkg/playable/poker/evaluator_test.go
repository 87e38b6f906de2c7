package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sidegame-server/pkg/deck"
)

func best(t *testing.T, hole, community string, used int) *HandValue {
	t.Helper()
	return BestHand(deck.CardsFromString(hole), deck.CardsFromString(community), used)
}

func TestBestHand_ranks(t *testing.T) {
	a := assert.New(t)

	tests := []struct {
		hole      string
		community string
		expect    Hand
	}{
		{"2c,9d", "3h,5s,7c,11d,13h", HighCard},
		{"2c,2d", "3h,5s,7c,11d,13h", OnePair},
		{"2c,2d", "3h,3s,7c,11d,13h", TwoPair},
		{"2c,2d", "2h,5s,7c,11d,13h", ThreeOfAKind},
		{"4c,5d", "6h,7s,8c,11d,13h", Straight},
		{"14c,5d", "4h,3s,2c,11d,13h", Straight},
		{"2s,9s", "4s,7s,12s,11d,13h", Flush},
		{"2c,2d", "2h,5s,5c,11d,13h", FullHouse},
		{"2c,2d", "2h,2s,7c,11d,13h", FourOfAKind},
		{"5h,6h", "7h,8h,9h,11d,13c", StraightFlush},
		{"14s,13s", "12s,11s,10s,2d,2c", RoyalFlush},
	}

	for _, test := range tests {
		v := best(t, test.hole, test.community, 0)
		a.Equal(test.expect, v.Hand, "%s + %s", test.hole, test.community)
	}
}

func TestBestHand_picksTheStrongestFive(t *testing.T) {
	a := assert.New(t)

	// the board pairs, but the flush is better
	v := best(t, "2s,9s", "4s,7s,12s,12d,12h", 0)
	a.Equal(ThreeOfAKind, best(t, "3c,9d", "4s,7s,12s,12d,12h", 0).Hand)
	a.Equal(Flush, v.Hand)

	// the wheel plays five high, losing to a six-high straight
	wheel := best(t, "14c,2d", "3h,4s,5c,11d,13h", 0)
	six := best(t, "2c,6d", "3h,4s,5c,11d,13h", 0)
	a.Equal(Straight, wheel.Hand)
	a.Equal(Straight, six.Hand)
	a.Positive(six.Compare(wheel))
}

func TestBestHand_omahaUsesExactlyTwoHoleCards(t *testing.T) {
	a := assert.New(t)

	// four spades in hand but only two may play; the board has three more
	hole := "2s,9s,10s,14d"
	community := "4s,7s,12s,11d,13h"

	a.Equal(Flush, best(t, hole, community, 2).Hand)

	// a board flush is not a flush for a player without two of the suit
	a.NotEqual(Flush, best(t, "2d,9c,10c,14d", "4s,7s,12s,11s,13s", 2).Hand)
	a.Equal(Flush, best(t, "2d,9c,10c,14d", "4s,7s,12s,11s,13s", 0).Hand)
}

func TestHandValue_compare(t *testing.T) {
	a := assert.New(t)

	kings := best(t, "13c,13d", "3h,5s,7c,9d,11h", 0)
	queens := best(t, "12c,12d", "3h,5s,7c,9d,11h", 0)
	a.Positive(kings.Compare(queens))
	a.Negative(queens.Compare(kings))

	// same pair, better kicker
	aceKicker := best(t, "9c,14d", "9h,5s,7c,11d,13h", 0)
	tenKicker := best(t, "9c,10d", "9h,5s,7c,11d,13h", 0)
	a.Positive(aceKicker.Compare(tenKicker))

	// a dead tie across suits
	a.Zero(best(t, "13c,13d", "3h,5s,7c,9d,11h", 0).
		Compare(best(t, "13h,13s", "3c,5d,7h,9s,11c", 0)))
}

func TestHand_string(t *testing.T) {
	a := assert.New(t)

	a.Equal("High card", HighCard.String())
	a.Equal("Full house", FullHouse.String())
	a.Equal("Royal flush", RoyalFlush.String())
	a.PanicsWithValue("unknown hand: 99", func() {
		_ = Hand(99).String()
	})
}
