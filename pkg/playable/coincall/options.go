package coincall

import (
	"errors"
	"time"
)

// Options provides options for the game
type Options struct {
	// Ante is what each player pays into the pot per round, in cents
	Ante int

	// BuyIn is the table stake each player brings, in cents
	BuyIn int

	// Rounds is how many calls are made before the game ends
	Rounds int

	// RakePct is the house cut of the pot, in whole percent
	RakePct int

	// RakeCap limits the rake per winner, in cents. Zero means uncapped
	RakeCap int

	// DecisionTimeout substitutes a random call when it elapses
	DecisionTimeout time.Duration

	// DisplayDelay is how long results stay up between rounds
	DisplayDelay time.Duration
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Ante:            500,
		BuyIn:           2500,
		Rounds:          3,
		RakePct:         5,
		RakeCap:         0,
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

	if o.RakeCap < 0 {
		return errors.New("rake cap cannot be negative")
	}

	if o.BuyIn < o.Ante {
		return errors.New("buy-in cannot cover the ante")
	}

	return nil
}
