package lastbreath

import (
	"errors"
	"fmt"
	"time"
)

// AdvanceMode controls how the shared clock moves
type AdvanceMode string

// advance mode constants
const (
	// ModeInterval advances the dive on a fixed timer
	ModeInterval AdvanceMode = "interval"
	// ModeSync advances only once every active diver has decided
	ModeSync AdvanceMode = "sync"
)

// Options provides options for the game
type Options struct {
	// Bid is the per-diver stake in cents
	Bid int

	// AdvanceMode selects interval or sync descent
	AdvanceMode AdvanceMode

	// TickInterval is how often the dive advances in interval mode, and the
	// spectator clock once no divers remain in sync mode
	TickInterval time.Duration

	// DecisionTimeout is how long a diver has to decide in sync mode before a
	// random default is substituted
	DecisionTimeout time.Duration

	// StartDelay auto-starts the dive if nobody starts it explicitly
	StartDelay time.Duration

	// EndDelay is the display window before the run is archived
	EndDelay time.Duration

	MaxOxygen float64
	MaxHull   float64

	// SurgeProbability is the chance of the rare high-value surge each step
	SurgeProbability float64
	SurgeRewardMin   float64
	SurgeRewardMax   float64

	// LeakProbability raises corruption
	LeakProbability float64

	// SalvageProbability replenishes oxygen and raises the multiplier
	SalvageProbability float64
	SalvageOxygen      float64
	SalvageReward      float64

	// StabilizeProbability partially restores the hull
	StabilizeProbability float64
	StabilizeHull        float64

	// baseline multiplier gain per step, boosted by corruption
	RewardMin             float64
	RewardMax             float64
	CorruptionRewardBonus float64

	// oxygen cost per step, plus a corruption surcharge
	BaseOxygenCost  float64
	OxygenSurcharge float64

	// hull decay drawn per step
	HullDecayMin float64
	HullDecayMax float64

	// hazard chance grows with depth and corruption, clamped at 0.95
	HazardBase          float64
	HazardPerStep       float64
	HazardPerCorruption float64
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Bid:                   100,
		AdvanceMode:           ModeInterval,
		TickInterval:          time.Second * 2,
		DecisionTimeout:       time.Second * 10,
		StartDelay:            time.Second * 30,
		EndDelay:              time.Second * 5,
		MaxOxygen:             100,
		MaxHull:               100,
		SurgeProbability:      0.05,
		SurgeRewardMin:        0.25,
		SurgeRewardMax:        0.75,
		LeakProbability:       0.15,
		SalvageProbability:    0.1,
		SalvageOxygen:         8,
		SalvageReward:         0.05,
		StabilizeProbability:  0.1,
		StabilizeHull:         6,
		RewardMin:             0.01,
		RewardMax:             0.05,
		CorruptionRewardBonus: 0.1,
		BaseOxygenCost:        4,
		OxygenSurcharge:       0.5,
		HullDecayMin:          1,
		HullDecayMax:          4,
		HazardBase:            0.01,
		HazardPerStep:         0.005,
		HazardPerCorruption:   0.01,
	}
}

// Validate ensures a run can be constructed from these options.
// A failure here must surface before the run exists, never during it.
func (o Options) Validate() error {
	if o.Bid <= 0 {
		return errors.New("bid must be greater than 0")
	}

	if o.AdvanceMode != ModeInterval && o.AdvanceMode != ModeSync {
		return fmt.Errorf("unknown advance mode: %s", o.AdvanceMode)
	}

	if o.TickInterval <= 0 {
		return errors.New("tick interval must be greater than 0")
	}

	if o.AdvanceMode == ModeSync && o.DecisionTimeout <= 0 {
		return errors.New("decision timeout must be greater than 0")
	}

	if o.MaxOxygen <= 0 || o.MaxHull <= 0 {
		return errors.New("oxygen and hull maximums must be greater than 0")
	}

	for name, p := range map[string]float64{
		"surge":     o.SurgeProbability,
		"leak":      o.LeakProbability,
		"salvage":   o.SalvageProbability,
		"stabilize": o.StabilizeProbability,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s probability must be within [0, 1]", name)
		}
	}

	if o.RewardMax < o.RewardMin {
		return errors.New("reward range is inverted")
	}

	if o.HullDecayMax < o.HullDecayMin {
		return errors.New("hull decay range is inverted")
	}

	if o.BaseOxygenCost <= 0 {
		return errors.New("base oxygen cost must be greater than 0")
	}

	return nil
}
