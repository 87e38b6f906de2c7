package lastbreath

import (
	"fmt"

	"sidegame-server/pkg/playable"
)

// hazard chance never exceeds this, no matter how deep the run goes
const maxHazardChance = 0.95

// advance executes one step of the shared clock.
//
// Draw order is load-bearing: every step consumes exactly seven draws, plus
// one more when the surge hits (its magnitude). Changing the order or the
// count silently corrupts every replay of every run recorded before the
// change.
func (g *Game) advance() {
	if g.terminal != "" {
		return
	}

	g.step++
	ev := &StepEvent{Step: g.step}

	// 1. the rare high-value surge
	if g.src.Bool(g.options.SurgeProbability) {
		ev.Surge = true
		ev.SurgeBoost = g.src.FloatRange(g.options.SurgeRewardMin, g.options.SurgeRewardMax)
		g.env.Multiplier += ev.SurgeBoost
		g.env.Corruption++
	}

	// 2. minor events, each an independent Bernoulli draw
	if g.src.Bool(g.options.LeakProbability) {
		ev.Leak = true
		g.env.Corruption++
	}

	if g.src.Bool(g.options.SalvageProbability) {
		ev.Salvage = true
		g.env.Oxygen += g.options.SalvageOxygen
		if g.env.Oxygen > g.options.MaxOxygen {
			g.env.Oxygen = g.options.MaxOxygen
		}
		g.env.Multiplier += g.options.SalvageReward
	}

	if g.src.Bool(g.options.StabilizeProbability) {
		ev.Stabilize = true
		g.env.Hull += g.options.StabilizeHull
	}

	// 3. baseline reward, boosted by corruption
	gain := g.src.FloatRange(g.options.RewardMin, g.options.RewardMax)
	gain *= 1 + float64(g.env.Corruption)*g.options.CorruptionRewardBonus
	g.env.Multiplier += gain
	ev.RewardGain = gain

	// 4. resource costs
	ev.OxygenCost = g.options.BaseOxygenCost + float64(g.env.Corruption)*g.options.OxygenSurcharge
	g.env.Oxygen -= ev.OxygenCost
	if g.env.Oxygen < 0 {
		g.env.Oxygen = 0
	}

	ev.HullDecay = g.src.FloatRange(g.options.HullDecayMin, g.options.HullDecayMax)
	g.env.Hull -= ev.HullDecay
	if g.env.Hull > g.options.MaxHull {
		g.env.Hull = g.options.MaxHull
	}
	if g.env.Hull < 0 {
		g.env.Hull = 0
	}

	// 5. the terminal hazard
	chance := g.options.HazardBase +
		float64(g.step)*g.options.HazardPerStep +
		float64(g.env.Corruption)*g.options.HazardPerCorruption
	if chance < 0 {
		chance = 0
	}
	if chance > maxHazardChance {
		chance = maxHazardChance
	}

	ev.HazardChance = chance
	ev.Hazard = g.src.Bool(chance)

	ev.Environment = g.env
	g.events = append(g.events, ev)

	// 6. eliminations
	var reason ExitReason
	switch {
	case ev.Hazard:
		reason = ReasonHazard
	case g.env.Oxygen <= 0:
		reason = ReasonOxygen
	case g.env.Hull <= 0:
		reason = ReasonHull
	}

	if reason == "" {
		g.logStep(ev)
		return
	}

	// 7. a terminal event ends the run for everyone still down there
	for _, p := range g.participants {
		if p.Active() {
			p.eliminate(reason, g.step)
		}
	}

	g.terminal = reason
	g.logStep(ev)
	g.finish()
}

func (g *Game) logStep(ev *StepEvent) {
	messages := make([]*playable.LogMessage, 0, 2)
	if ev.Surge {
		messages = append(messages, playable.NewLogMessage(
			fmt.Sprintf("A surge at depth %d boosts the multiplier by %.2f", ev.Step, ev.SurgeBoost)))
	}

	messages = append(messages, playable.NewLogMessage(
		fmt.Sprintf("Depth %d: %.2fx multiplier, %.0f oxygen, %.0f hull",
			ev.Step, ev.Environment.Multiplier, ev.Environment.Oxygen, ev.Environment.Hull)))

	g.sendLogMessages(messages...)
}
