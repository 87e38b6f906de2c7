// Package plunder implements the dice game. Everyone antes into a pot and
// shakes a cup of dice; whoever rolls the most skulls takes the pot, and a
// tie splits it.
package plunder

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"sidegame-server/internal/rng"
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
	"sidegame-server/pkg/settle"
)

// skullFace is the die face that counts as a skull
const skullFace = 1

// PlayerRoll is one player's dice in a resolved round
type PlayerRoll struct {
	PlayerID int64 `json:"playerId"`
	Dice     []int `json:"dice"`
	Skulls   int   `json:"skulls"`
}

// RoundResult records a single resolved round
type RoundResult struct {
	Round      int            `json:"round"`
	Rolls      []*PlayerRoll  `json:"rolls"`
	WinnerIDs  []int64        `json:"winnerIds"`
	Settlement *settle.Record `json:"settlement"`
}

// Game is a single game of plunder
type Game struct {
	options Options
	seed    int64
	src     *rng.Source
	machine *round.Machine

	participants    []*Participant
	idToParticipant map[int64]*Participant

	roundNumber int
	results     []*RoundResult
	done        bool

	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage
}

// NewGame returns a new game of plunder.
// The seed must come from rng.Seed so the rolls can be re-derived.
func NewGame(logger logrus.FieldLogger, playerIDs []int64, options Options, seed int64, sched *round.Scheduler) (*Game, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if len(playerIDs) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	participants := make([]*Participant, len(playerIDs))
	idToParticipant := make(map[int64]*Participant)
	for i, id := range playerIDs {
		participants[i] = newParticipant(id)
		idToParticipant[id] = participants[i]
	}

	g := &Game{
		options:         options,
		seed:            seed,
		src:             rng.NewSource(seed),
		participants:    participants,
		idToParticipant: idToParticipant,
		logger:          logger,
		logChan:         make(chan []*playable.LogMessage, 256),
	}

	g.machine = round.NewMachine(round.PhaseSetup, round.DefaultEdges(), sched, nil)
	g.beginRound()

	return g, nil
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "plunder"
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Seed returns the seed the rolls were derived from
func (g *Game) Seed() int64 {
	return g.seed
}

// Round returns the current round number, starting at 1
func (g *Game) Round() int {
	return g.roundNumber
}

// beginRound drops anyone who can no longer cover the ante and opens the
// shake window. Must be called with the machine in the setup phase.
func (g *Game) beginRound() {
	g.roundNumber++

	for _, p := range g.participants {
		if !p.active {
			continue
		}

		if g.options.BuyIn+p.balance < g.options.Ante {
			p.remove("insufficient stake")
			g.sendLogMessages(playable.NewLogMessage("{} cannot cover the ante and is out", p.PlayerID))
		}
	}

	if g.activeCount() < 2 {
		g.finish()
		return
	}

	for _, p := range g.participants {
		p.newRound()
	}

	if err := g.machine.Transition(round.PhaseDecision); err != nil {
		panic(fmt.Sprintf("could not open the shake window: %v", err))
	}

	g.machine.Scheduler().Schedule(g.options.DecisionTimeout, g.shakeForStragglers)

	g.sendLogMessages(playable.NewLogMessage(fmt.Sprintf("Round %d: shake your dice", g.roundNumber)))
}

// Action performs an action for the player
func (g *Game) Action(playerID int64, message *playable.PayloadIn) (*playable.Response, bool, error) {
	if g.done {
		return nil, false, ErrGameIsOver
	}

	p, ok := g.idToParticipant[playerID]
	if !ok {
		return nil, false, ErrPlayerNotFound
	}

	if !p.active {
		return nil, false, ErrPlayerRemoved
	}

	switch message.Action {
	case "shake":
		if g.machine.Phase() != round.PhaseDecision {
			return nil, false, ErrNotInDecisionPhase
		}

		if p.shaken {
			return nil, false, ErrAlreadyShaken
		}

		p.shaken = true
		g.sendLogMessages(playable.NewLogMessage("{} shakes the cup", playerID))

		if g.allShaken() {
			g.resolve()
		}

		return playable.OK(message.Context), true, nil
	}

	return nil, false, fmt.Errorf("unsupported action: %s", message.Action)
}

func (g *Game) allShaken() bool {
	for _, p := range g.participants {
		if p.active && !p.shaken {
			return false
		}
	}

	return true
}

func (g *Game) activeCount() int {
	n := 0
	for _, p := range g.participants {
		if p.active {
			n++
		}
	}

	return n
}

// shakeForStragglers shakes for everyone who let the window lapse
func (g *Game) shakeForStragglers() {
	for _, p := range g.participants {
		if p.active && !p.shaken {
			p.shaken = true
			g.sendLogMessages(playable.NewLogMessage("{} ran out of time; the house shakes for them", p.PlayerID))
		}
	}

	g.resolve()
}

// resolve rolls every cup and settles the pot. The dice come off the shared
// sequence in seat order regardless of who shook first, so the seed alone
// determines every roll.
func (g *Game) resolve() {
	if err := g.machine.Transition(round.PhaseResolution); err != nil {
		panic(fmt.Sprintf("could not resolve the round: %v", err))
	}

	rolls := make([]*PlayerRoll, 0, g.activeCount())
	best := 0
	for _, p := range g.participants {
		if !p.active {
			continue
		}

		p.dice = make([]int, g.options.DiceCount)
		p.skulls = 0
		for i := range p.dice {
			p.dice[i] = g.src.IntRange(1, 6)
			if p.dice[i] == skullFace {
				p.skulls++
			}
		}

		if p.skulls > best {
			best = p.skulls
		}

		rolls = append(rolls, &PlayerRoll{
			PlayerID: p.PlayerID,
			Dice:     p.dice,
			Skulls:   p.skulls,
		})
	}

	contributions := make(map[int64]int)
	var winners []int64
	for _, p := range g.participants {
		if !p.active {
			continue
		}

		contributions[p.PlayerID] = g.options.Ante
		if p.skulls == best {
			winners = append(winners, p.PlayerID)
		}
	}

	record, err := settle.WinnerTakesPot(contributions, winners, g.options.RakePct, g.options.RakeCap)
	if err != nil {
		panic(fmt.Sprintf("could not settle the pot: %v", err))
	}

	if err := record.Balanced(); err != nil {
		panic(fmt.Sprintf("unbalanced settlement: %v", err))
	}

	for _, e := range record.Entries {
		g.idToParticipant[e.PlayerID].balance += e.Amount
	}

	g.results = append(g.results, &RoundResult{
		Round:      g.roundNumber,
		Rolls:      rolls,
		WinnerIDs:  winners,
		Settlement: record,
	})

	g.sendLogMessages(playable.NewLogMessage(
		fmt.Sprintf("%d skull(s) takes round %d", best, g.roundNumber), winners...))

	if err := g.machine.Transition(round.PhaseSettlementDisplay); err != nil {
		panic(fmt.Sprintf("could not display the result: %v", err))
	}

	g.machine.Scheduler().Schedule(g.options.DisplayDelay, g.nextRound)
}

// nextRound advances past the settlement display
func (g *Game) nextRound() {
	if g.roundNumber >= g.options.Rounds {
		g.finish()
		return
	}

	if err := g.machine.Transition(round.PhaseSetup); err != nil {
		panic(fmt.Sprintf("could not start the next round: %v", err))
	}

	g.beginRound()
}

func (g *Game) finish() {
	if err := g.machine.Transition(round.PhaseEnd); err != nil {
		panic(fmt.Sprintf("could not end the game: %v", err))
	}

	g.done = true
	g.sendLogMessages(playable.NewLogMessage("The game is over"))
}

// GetEndOfGameDetails returns the end of game details, or false if the game
// is still being played
func (g *Game) GetEndOfGameDetails() (*playable.GameOverDetails, bool) {
	if !g.done {
		return nil, false
	}

	adjustments := make(map[int64]int)
	combined := &settle.Record{}
	for _, p := range g.participants {
		adjustments[p.PlayerID] = p.balance
	}

	for _, r := range g.results {
		combined.Pot += r.Settlement.Pot
		combined.Rake += r.Settlement.Rake
		combined.Entries = append(combined.Entries, r.Settlement.Entries...)
	}

	return &playable.GameOverDetails{
		BalanceAdjustments: adjustments,
		Settlement:         combined,
		Log:                g.results,
	}, true
}

func (g *Game) sendLogMessages(msg ...*playable.LogMessage) {
	if g.logChan != nil {
		g.logChan <- msg
	}
}
