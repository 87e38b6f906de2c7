// Package coincall implements the rotating coin call game. Everyone antes
// into a pot, one player calls the toss, and the pot goes to the caller on a
// correct call or to everyone else on a miss.
package coincall

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"sidegame-server/internal/rng"
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
	"sidegame-server/pkg/settle"
)

// Coin is a side of the coin
type Coin string

// Coin sides
const (
	CoinHeads Coin = "heads"
	CoinTails Coin = "tails"
)

// RoundResult records a single resolved toss
type RoundResult struct {
	Round      int            `json:"round"`
	CallerID   int64          `json:"callerId"`
	Call       Coin           `json:"call"`
	Defaulted  bool           `json:"defaulted,omitempty"`
	Toss       Coin           `json:"toss"`
	Correct    bool           `json:"correct"`
	Settlement *settle.Record `json:"settlement"`
}

// Game is a single game of coin call
type Game struct {
	options Options
	seed    int64
	src     *rng.Source
	machine *round.Machine

	participants    []*Participant
	idToParticipant map[int64]*Participant

	roundNumber int
	callerIdx   int
	results     []*RoundResult
	done        bool

	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage
}

// NewGame returns a new game of coin call.
// The seed must come from rng.Seed so the tosses can be re-derived.
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
		callerIdx:       -1,
		logger:          logger,
		logChan:         make(chan []*playable.LogMessage, 256),
	}

	g.machine = round.NewMachine(round.PhaseSetup, round.DefaultEdges(), sched, nil)
	g.beginRound()

	return g, nil
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "coin-call"
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Seed returns the seed the tosses were derived from
func (g *Game) Seed() int64 {
	return g.seed
}

// Round returns the current round number, starting at 1
func (g *Game) Round() int {
	return g.roundNumber
}

// Caller returns the player whose call it is, or nil between rounds
func (g *Game) Caller() *Participant {
	if g.callerIdx < 0 {
		return nil
	}

	return g.participants[g.callerIdx]
}

// beginRound drops anyone who can no longer cover the ante, rotates the call
// to the next active player, and opens the decision window. Must be called
// with the machine in the setup phase.
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

	g.rotateCaller()

	if err := g.machine.Transition(round.PhaseDecision); err != nil {
		panic(fmt.Sprintf("could not open the decision window: %v", err))
	}

	g.machine.Scheduler().Schedule(g.options.DecisionTimeout, g.applyDecisionDefault)

	g.sendLogMessages(playable.NewLogMessage(
		fmt.Sprintf("Round %d: {} calls the toss", g.roundNumber), g.Caller().PlayerID))
}

// rotateCaller moves the call to the next active participant
func (g *Game) rotateCaller() {
	for i := 1; i <= len(g.participants); i++ {
		idx := (g.callerIdx + i) % len(g.participants)
		if g.participants[idx].active {
			g.callerIdx = idx
			return
		}
	}
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
	case "call":
		if g.machine.Phase() != round.PhaseDecision {
			return nil, false, ErrNotInDecisionPhase
		}

		if p != g.Caller() {
			return nil, false, ErrNotCaller
		}

		side, _ := message.AdditionalData.GetString("call")
		call, err := parseCall(side)
		if err != nil {
			return nil, false, err
		}

		g.resolve(call, false)
		return playable.OK(message.Context), true, nil
	}

	return nil, false, fmt.Errorf("unsupported action: %s", message.Action)
}

func parseCall(s string) (Coin, error) {
	switch Coin(s) {
	case CoinHeads:
		return CoinHeads, nil
	case CoinTails:
		return CoinTails, nil
	}

	return "", ErrInvalidCall
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

// applyDecisionDefault makes a uniformly random call for a caller who let the
// decision window lapse. The call comes off the game's own sequence so a
// replay sees the same default.
func (g *Game) applyDecisionDefault() {
	call := CoinTails
	if g.src.Bool(0.5) {
		call = CoinHeads
	}

	g.sendLogMessages(playable.NewLogMessage("{} ran out of time; the house calls for them", g.Caller().PlayerID))
	g.resolve(call, true)
}

// resolve tosses the coin and settles the pot
func (g *Game) resolve(call Coin, defaulted bool) {
	if err := g.machine.Transition(round.PhaseResolution); err != nil {
		panic(fmt.Sprintf("could not resolve the round: %v", err))
	}

	caller := g.Caller()

	toss := CoinTails
	if g.src.Bool(0.5) {
		toss = CoinHeads
	}

	correct := toss == call

	contributions := make(map[int64]int)
	var winners []int64
	for _, p := range g.participants {
		if !p.active {
			continue
		}

		contributions[p.PlayerID] = g.options.Ante
		if correct == (p == caller) {
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
		CallerID:   caller.PlayerID,
		Call:       call,
		Defaulted:  defaulted,
		Toss:       toss,
		Correct:    correct,
		Settlement: record,
	})

	outcome := "misses"
	if correct {
		outcome = "nails it"
	}

	g.sendLogMessages(playable.NewLogMessage(
		fmt.Sprintf("The coin lands %s; {} %s", toss, outcome), caller.PlayerID))

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
