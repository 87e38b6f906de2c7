package lastbreath

// Environment is the state of the dive shared by every diver. Divergence
// between divers comes only from when each one surfaces, never from
// per-diver environment state.
type Environment struct {
	// Oxygen and Hull deplete; the run ends when either reaches zero
	Oxygen float64 `json:"oxygen"`
	Hull   float64 `json:"hull"`

	// Corruption accumulates and raises both hazard chance and reward
	Corruption int `json:"corruption"`

	// Multiplier is the reward factor a surfacing diver's bid is paid at
	Multiplier float64 `json:"multiplier"`
}

// StepEvent records everything one advance of the shared clock generated.
// The sequence of StepEvents plus the run's seed is the full audit trail.
type StepEvent struct {
	Step int `json:"step"`

	Surge      bool    `json:"surge"`
	SurgeBoost float64 `json:"surgeBoost,omitempty"`
	Leak       bool    `json:"leak"`
	Salvage    bool    `json:"salvage"`
	Stabilize  bool    `json:"stabilize"`

	RewardGain   float64 `json:"rewardGain"`
	OxygenCost   float64 `json:"oxygenCost"`
	HullDecay    float64 `json:"hullDecay"`
	HazardChance float64 `json:"hazardChance"`
	Hazard       bool    `json:"hazard"`

	// Environment after this step was applied
	Environment Environment `json:"environment"`
}
