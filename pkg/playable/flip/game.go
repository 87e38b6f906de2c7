// Package flip implements the three-card color flip game. Everyone picks red
// or black at the same time, three cards come off a shared deck, and the
// losing side pays the winning side per card of difference.
package flip

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"sidegame-server/internal/rng"
	"sidegame-server/pkg/deck"
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
	"sidegame-server/pkg/settle"
)

// cardCount is how many cards are flipped each round. Odd so there is
// always a winning color.
const cardCount = 3

// RoundResult records a single resolved flip
type RoundResult struct {
	Round      int            `json:"round"`
	Cards      []*deck.Card   `json:"cards"`
	Red        int            `json:"red"`
	Black      int            `json:"black"`
	Winning    deck.Color     `json:"winning"`
	Sweep      bool           `json:"sweep"`
	Settlement *settle.Record `json:"settlement"`
}

// Game is a single game of flip
type Game struct {
	options Options
	seed    int64
	src     *rng.Source
	machine *round.Machine
	deck    *deck.Deck

	participants    []*Participant
	idToParticipant map[int64]*Participant

	roundNumber int
	results     []*RoundResult
	done        bool

	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage
}

// NewGame returns a new game of flip.
// The seed must come from rng.Seed so the deck order can be re-derived.
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

	src := rng.NewSource(seed)

	d := deck.New()
	d.Shuffle(src)

	g := &Game{
		options:         options,
		seed:            seed,
		src:             src,
		deck:            d,
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
	return "flip"
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Seed returns the seed the deck order was derived from
func (g *Game) Seed() int64 {
	return g.seed
}

// Round returns the current round number, starting at 1
func (g *Game) Round() int {
	return g.roundNumber
}

// Results returns the resolved rounds so far
func (g *Game) Results() []*RoundResult {
	return g.results
}

// beginRound runs the setup phase: drop anyone who can no longer cover the
// worst-case loss, then open the decision window. Must be called with the
// machine in the setup phase.
func (g *Game) beginRound() {
	g.roundNumber++

	worstCase := g.options.Ante * cardCount * 2
	for _, p := range g.participants {
		if !p.active {
			continue
		}

		if g.options.BuyIn+p.balance < worstCase {
			p.remove("insufficient stake")
			g.sendLogMessages(playable.NewLogMessage("{} cannot cover the stakes and is out", p.PlayerID))
		}
	}

	if g.activeCount() < 2 {
		g.finish()
		return
	}

	for _, p := range g.participants {
		p.newRound()
	}

	if !g.deck.CanDraw(cardCount) {
		g.deck = deck.New()
		g.deck.Shuffle(g.src)
	}

	if err := g.machine.Transition(round.PhaseDecision); err != nil {
		panic(fmt.Sprintf("could not open the decision window: %v", err))
	}

	g.machine.Scheduler().Schedule(g.options.DecisionTimeout, g.applyDecisionDefaults)

	g.sendLogMessages(playable.NewLogMessage(fmt.Sprintf("Round %d: pick red or black", g.roundNumber)))
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
	case "pick":
		if g.machine.Phase() != round.PhaseDecision {
			return nil, false, ErrNotInDecisionPhase
		}

		if p.side != nil {
			return nil, false, ErrAlreadyPicked
		}

		side, _ := message.AdditionalData.GetString("side")
		color, err := parseSide(side)
		if err != nil {
			return nil, false, err
		}

		p.side = &color
		g.sendLogMessages(playable.NewLogMessage("{} locked in a pick", playerID))

		if g.allPicked() {
			g.resolve()
		}

		return playable.OK(message.Context), true, nil
	}

	return nil, false, fmt.Errorf("unsupported action: %s", message.Action)
}

func parseSide(s string) (deck.Color, error) {
	switch s {
	case "red":
		return deck.Red, nil
	case "black":
		return deck.Black, nil
	}

	return "", ErrInvalidSide
}

func (g *Game) allPicked() bool {
	for _, p := range g.participants {
		if p.active && p.side == nil {
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

// applyDecisionDefaults fills in a uniformly random pick for everyone who let
// the decision window lapse. The picks come off the game's own sequence so a
// replay sees the same defaults.
func (g *Game) applyDecisionDefaults() {
	for _, p := range g.participants {
		if !p.active || p.side != nil {
			continue
		}

		color := deck.Black
		if g.src.Bool(0.5) {
			color = deck.Red
		}

		p.side = &color
		p.defaulted = true
		g.sendLogMessages(playable.NewLogMessage("{} ran out of time and was dealt a pick", p.PlayerID))
	}

	g.resolve()
}

// resolve flips the cards and settles the round
func (g *Game) resolve() {
	if err := g.machine.Transition(round.PhaseResolution); err != nil {
		panic(fmt.Sprintf("could not resolve the round: %v", err))
	}

	cards := make([]*deck.Card, cardCount)
	red := 0
	for i := range cards {
		card, err := g.deck.Draw()
		if err != nil {
			panic(fmt.Sprintf("could not draw: %v", err))
		}

		cards[i] = card
		if card.Color() == deck.Red {
			red++
		}
	}

	black := cardCount - red
	winning := deck.Black
	diff := black - red
	if red > black {
		winning = deck.Red
		diff = red - black
	}

	sweep := diff == cardCount

	unit := g.options.Ante
	if sweep {
		unit *= 2
	}

	result := &RoundResult{
		Round:   g.roundNumber,
		Cards:   cards,
		Red:     red,
		Black:   black,
		Winning: winning,
		Sweep:   sweep,
	}

	var winners, losers []int64
	for _, p := range g.participants {
		if !p.active {
			continue
		}

		if *p.side == winning {
			winners = append(winners, p.PlayerID)
		} else {
			losers = append(losers, p.PlayerID)
		}
	}

	if len(winners) > 0 && len(losers) > 0 {
		record, err := settle.Matchup(winners, losers, diff*unit, g.options.RakePct, 0)
		if err != nil {
			panic(fmt.Sprintf("could not settle the round: %v", err))
		}

		if err := record.Balanced(); err != nil {
			panic(fmt.Sprintf("unbalanced settlement: %v", err))
		}

		for _, e := range record.Entries {
			g.idToParticipant[e.PlayerID].balance += e.Amount
		}

		result.Settlement = record
		g.sendLogMessages(playable.NewLogMessage(
			fmt.Sprintf("%s wins round %d; losers pay ${%d}", winning, g.roundNumber, diff*unit)))
	} else {
		// everyone on the same side; no money moves
		g.sendLogMessages(playable.NewLogMessage(fmt.Sprintf("Round %d is a push", g.roundNumber)))
	}

	g.results = append(g.results, result)

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
		if r.Settlement == nil {
			continue
		}

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
