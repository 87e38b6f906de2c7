package poker

import (
	"errors"
	"time"

	"sidegame-server/pkg/settle"
)

// Options provides options for the game
type Options struct {
	// Variant selects the rules bundle from the registry
	Variant string

	// Ante is what each dealt-in player pays into the pot per hand, in cents
	Ante int

	// BuyIn is the table stake each player brings, in cents
	BuyIn int

	// Hands is how many hands are played before the game ends
	Hands int

	// RakePct is the house cut of the pot, in whole percent
	RakePct int

	// RakeCap limits the rake per winner, in cents. Zero means uncapped
	RakeCap int

	// Bounty configures the side-settlement for variants that use it
	Bounty settle.BountyOptions

	// DecisionTimeout substitutes a random stay/fold when it elapses
	DecisionTimeout time.Duration

	// DisplayDelay is how long results stay up between hands
	DisplayDelay time.Duration
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Variant: "holdem",
		Ante:    200,
		BuyIn:   5000,
		Hands:   5,
		RakePct: 5,
		RakeCap: 0,
		Bounty: settle.BountyOptions{
			TokenValue:     500,
			TierThreshold:  3,
			TierMultiplier: 2,
		},
		DecisionTimeout: time.Second * 20,
		DisplayDelay:    time.Second * 5,
	}
}

// Validate ensures a game can be constructed from these options
func (o Options) Validate() error {
	if o.Variant == "" {
		return errors.New("a variant is required")
	}

	if o.Ante <= 0 {
		return errors.New("ante must be greater than 0")
	}

	if o.Hands <= 0 {
		return errors.New("hands must be greater than 0")
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
