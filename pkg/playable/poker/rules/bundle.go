// Package rules is the variant seam for poker. A variant is a bundle of
// optional hooks the game invokes at fixed lifecycle points; a bundle changes
// behavior by starting from Base and overwriting only the fields it cares
// about. The game itself never branches on a variant name.
package rules

import (
	"errors"

	"sidegame-server/pkg/settle"
)

// ErrTableLocked is returned by a join hook while the table is locked
var ErrTableLocked = errors.New("the table is locked")

// Table is the surface a bundle may act on from its hooks. It is implemented
// by the poker game; hooks must not retain it past the call.
type Table interface {
	// Lock prevents new players from joining until Unlock
	Lock()
	Unlock()
	Locked() bool

	// AwardTokens grants bounty tokens to a player
	AwardTokens(playerID int64, count int)
	// ResetTokens clears every player's bounty tokens
	ResetTokens()
	// Tokens returns each player's current bounty token count
	Tokens() map[int64]int

	// PlayerIDs returns every seated player, in seat order
	PlayerIDs() []int64
}

// PotWon is what a bundle decides when a pot is won
type PotWon struct {
	// RevealHands forces every live hand face up in the broadcast state
	RevealHands bool
	// EndGame ends the game after this hand regardless of hands remaining
	EndGame bool
}

// HandEnd is what a bundle decides when a hand completes
type HandEnd struct {
	// SideSettlement is applied to table stakes after the main pot,
	// never drawn from the pot itself
	SideSettlement *settle.Record
	// ResetTokens clears bounty tokens before the next hand
	ResetTokens bool
}

// Bundle is a named set of variant hooks. Nil hooks are no-ops.
type Bundle struct {
	// ID is the variant identifier used for registry lookup
	ID string

	// HoleCards is how many cards each player is dealt
	HoleCards int

	// HoleCardsUsed forces exactly this many hole cards into the final
	// hand (the omaha rule). Zero means any combination is allowed.
	HoleCardsUsed int

	// OnHandStart runs after the deal, before the decision window opens
	OnHandStart func(t Table)

	// OnPotWon runs once per hand with the pot winners
	OnPotWon func(t Table, winnerIDs []int64) PotWon

	// OnHandEnd runs after the hand settles. final is true when no more
	// hands will be played.
	OnHandEnd func(t Table, final bool) HandEnd

	// CanJoin decides whether a player may take a seat right now
	CanJoin func(t Table, playerID int64) error
}

// Base is the standard behavior every variant starts from
func Base() Bundle {
	return Bundle{
		ID:        "base",
		HoleCards: 2,
	}
}

// Holdem deals two hole cards and plays them any way
func Holdem() Bundle {
	b := Base()
	b.ID = "holdem"
	return b
}

// Omaha deals four hole cards, exactly two of which must play
func Omaha() Bundle {
	b := Base()
	b.ID = "omaha"
	b.HoleCards = 4
	b.HoleCardsUsed = 2
	return b
}

// Squidz is holdem with bounty tokens: the table locks for the life of the
// game, pot winners collect a token and force a reveal, and when the game
// ends everyone without a token pays each token holder out of their table
// stake.
func Squidz(bounty settle.BountyOptions) Bundle {
	b := Holdem()
	b.ID = "squidz"

	b.OnHandStart = func(t Table) {
		t.Lock()
	}

	b.OnPotWon = func(t Table, winnerIDs []int64) PotWon {
		for _, id := range winnerIDs {
			t.AwardTokens(id, 1)
		}

		return PotWon{RevealHands: true}
	}

	b.OnHandEnd = func(t Table, final bool) HandEnd {
		if !final {
			return HandEnd{}
		}

		record := settle.Bounty(t.Tokens(), t.PlayerIDs(), bounty)
		return HandEnd{
			SideSettlement: record,
			ResetTokens:    true,
		}
	}

	b.CanJoin = func(t Table, playerID int64) error {
		if t.Locked() {
			return ErrTableLocked
		}

		return nil
	}

	return b
}
