// Package lastbreath implements the shared-run descent game. Every diver
// rides the same deterministic sequence of depths; the only choice anyone
// makes is when to let go and surface.
package lastbreath

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"sidegame-server/internal/rng"
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
	"sidegame-server/pkg/settle"
)

// Game is a single shared run
type Game struct {
	options Options
	seed    int64
	src     *rng.Source
	machine *round.Machine

	step int
	env  Environment

	participants    []*Participant
	idToParticipant map[int64]*Participant

	events []*StepEvent

	// terminal records which event ended the dive; empty while descending
	terminal ExitReason
	done     bool

	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage
}

func edges() map[round.Phase][]round.Phase {
	return map[round.Phase][]round.Phase{
		round.PhaseLobby:    {round.PhaseDecision, round.PhaseEnd},
		round.PhaseDecision: {round.PhaseEnd},
	}
}

// NewGame returns a new run for the given players.
// The seed must come from rng.Seed so the run can be re-derived for audit.
func NewGame(logger logrus.FieldLogger, playerIDs []int64, options Options, seed int64, sched *round.Scheduler) (*Game, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if len(playerIDs) == 0 {
		return nil, ErrPlayerNotFound
	}

	participants := make([]*Participant, len(playerIDs))
	idToParticipant := make(map[int64]*Participant)
	for i, id := range playerIDs {
		participants[i] = newParticipant(id, options.Bid)
		idToParticipant[id] = participants[i]
	}

	g := &Game{
		options: options,
		seed:    seed,
		src:     rng.NewSource(seed),
		step:    0,
		env: Environment{
			Oxygen:     options.MaxOxygen,
			Hull:       options.MaxHull,
			Multiplier: 1,
		},
		participants:    participants,
		idToParticipant: idToParticipant,
		logger:          logger,
		logChan:         make(chan []*playable.LogMessage, 256),
	}

	g.machine = round.NewMachine(round.PhaseLobby, edges(), sched, nil)

	// armed exactly once; an explicit start cancels it on transition
	if options.StartDelay > 0 {
		sched.Schedule(options.StartDelay, func() {
			if g.machine.Phase() == round.PhaseLobby {
				g.begin()
			}
		})
	}

	g.sendLogMessages(playable.NewLogMessage(
		fmt.Sprintf("A dive is forming with a ${%d} bid", options.Bid)))

	return g, nil
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "last-breath"
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Seed returns the seed the run was derived from
func (g *Game) Seed() int64 {
	return g.seed
}

// Draws returns the number of random values the run has consumed.
// The seed plus this count fully determine the rest of the run.
func (g *Game) Draws() uint64 {
	return g.src.Draws()
}

// Step returns the current depth
func (g *Game) Step() int {
	return g.step
}

// Environment returns the shared environment state
func (g *Game) Environment() Environment {
	return g.env
}

// Action performs an action on behalf of the player
func (g *Game) Action(playerID int64, message *playable.PayloadIn) (*playable.Response, bool, error) {
	if g.machine.Phase() == round.PhaseEnd {
		return nil, false, ErrGameIsOver
	}

	participant, ok := g.idToParticipant[playerID]
	if !ok {
		return nil, false, ErrPlayerNotFound
	}

	switch message.Action {
	case "start":
		if g.machine.Phase() != round.PhaseLobby {
			return nil, false, ErrNotInLobby
		}

		g.begin()
		return playable.OK(), true, nil
	case "surface":
		if g.machine.Phase() != round.PhaseDecision {
			return nil, false, ErrNotDescending
		}

		if !participant.Active() {
			return nil, false, ErrAlreadySurfaced
		}

		g.surface(participant, ReasonSurfaced)
		g.afterDecision()
		return playable.OK(), true, nil
	case "stay":
		if g.options.AdvanceMode != ModeSync {
			return nil, false, fmt.Errorf("stay is not an action in %s mode", g.options.AdvanceMode)
		}

		if g.machine.Phase() != round.PhaseDecision {
			return nil, false, ErrNotDescending
		}

		if !participant.Active() {
			return nil, false, ErrAlreadySurfaced
		}

		if participant.decided {
			return nil, false, ErrAlreadyDecided
		}

		participant.decided = true
		g.afterDecision()
		return playable.OK(), true, nil
	default:
		return nil, false, fmt.Errorf("unknown action: %s", message.Action)
	}
}

// begin starts the descent
func (g *Game) begin() {
	if err := g.machine.Transition(round.PhaseDecision); err != nil {
		g.logger.WithError(err).Error("could not begin the dive")
		return
	}

	g.sendLogMessages(playable.NewLogMessage("The dive begins"))
	g.scheduleNext()
}

// surface pays the diver out at the current multiplier
func (g *Game) surface(p *Participant, reason ExitReason) {
	payout := settle.MultiplierPayout(g.options.Bid, g.env.Multiplier)
	p.surface(reason, g.step, payout)
	p.decided = true

	g.sendLogMessages(playable.NewLogMessage(
		fmt.Sprintf("{} surfaced at depth %d for ${%d}", g.step, payout), p.PlayerID))
}

// afterDecision advances the dive in sync mode once every diver has decided
func (g *Game) afterDecision() {
	if g.options.AdvanceMode != ModeSync || g.terminal != "" {
		return
	}

	for _, p := range g.participants {
		if p.Active() && !p.decided {
			return
		}
	}

	g.advance()
	g.scheduleNext()
}

// scheduleNext arms the single shared-clock timer for the next step.
// In sync mode with no divers left, the run keeps advancing on the interval
// for whoever is still watching.
func (g *Game) scheduleNext() {
	if g.terminal != "" {
		return
	}

	sched := g.machine.Scheduler()

	if g.options.AdvanceMode == ModeInterval || g.activeCount() == 0 {
		sched.Schedule(g.options.TickInterval, func() {
			g.advance()
			g.scheduleNext()
		})
		return
	}

	for _, p := range g.participants {
		p.decided = false
	}

	sched.Schedule(g.options.DecisionTimeout, g.applyDecisionDefaults)
}

// applyDecisionDefaults substitutes a uniformly-random stay/surface for every
// diver who missed the decision window, then advances
func (g *Game) applyDecisionDefaults() {
	for _, p := range g.participants {
		if !p.Active() || p.decided {
			continue
		}

		if g.src.Bool(0.5) {
			p.decided = true
			continue
		}

		g.surface(p, ReasonTimeout)
	}

	g.advance()
	g.scheduleNext()
}

func (g *Game) activeCount() int {
	count := 0
	for _, p := range g.participants {
		if p.Active() {
			count++
		}
	}

	return count
}

// finish ends the run and opens the display window
func (g *Game) finish() {
	if err := g.machine.Transition(round.PhaseEnd); err != nil {
		g.logger.WithError(err).Error("could not end the run")
		return
	}

	g.sendLogMessages(playable.NewLogMessage(
		fmt.Sprintf("The run ends at depth %d: %s", g.step, g.terminal)))

	g.machine.Scheduler().Schedule(g.options.EndDelay, func() {
		g.done = true
	})
}

// GetEndOfGameDetails returns the final results
func (g *Game) GetEndOfGameDetails() (*playable.GameOverDetails, bool) {
	if !g.done {
		return nil, false
	}

	adjustments := make(map[int64]int)
	record := &settle.Record{}
	for _, p := range g.participants {
		adjustments[p.PlayerID] = p.Balance()

		record.Pot += g.options.Bid
		record.Entries = append(record.Entries, settle.Entry{
			PlayerID: p.PlayerID,
			Amount:   -g.options.Bid,
			Reason:   "bid",
		})

		if p.Payout() > 0 {
			record.Entries = append(record.Entries, settle.Entry{
				PlayerID: p.PlayerID,
				Amount:   p.Payout(),
				Reason:   fmt.Sprintf("%s at depth %d", p.ExitReason(), p.exitStep),
			})
		}
	}

	return &playable.GameOverDetails{
		BalanceAdjustments: adjustments,
		Settlement:         record,
		Log:                g.events,
	}, true
}

func (g *Game) sendLogMessages(msg ...*playable.LogMessage) {
	if g.logChan != nil {
		g.logChan <- msg
	}
}
