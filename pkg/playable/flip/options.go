package flip

import (
	"errors"
	"time"
)

// Options provides options for the game
type Options struct {
	// Ante is the per-card unit value in cents
	Ante int

	// BuyIn is the table stake each player brings, in cents
	BuyIn int

	// Rounds is how many flips are played before the game ends
	Rounds int

	// RakePct is the house cut of matchup winnings, in whole percent
	RakePct int

	// DecisionTimeout substitutes a random pick when it elapses
	DecisionTimeout time.Duration

	// DisplayDelay is how long results stay up between rounds
	DisplayDelay time.Duration
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Ante:            100,
		BuyIn:           2500,
		Rounds:          3,
		RakePct:         0,
		DecisionTimeout: time.Second * 15,
		DisplayDelay:    time.Second * 5,
	}
}

// Validate ensures a game can be constructed from these options
func (o Options) Validate() error {
	if o.Ante <= 0 {
		return errors.New("ante must be greater than 0")
	}

	if o.Rounds <= 0 {
		return errors.New("rounds must be greater than 0")
	}

	if o.RakePct < 0 || o.RakePct > 100 {
		return errors.New("rake percentage must be within [0, 100]")
	}

	// a sweep costs a loser three doubled units
	if o.BuyIn < o.Ante*cardCount*2 {
		return errors.New("buy-in cannot cover the worst-case loss")
	}

	return nil
}
