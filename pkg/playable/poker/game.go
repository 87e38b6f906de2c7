// Package poker implements a compact multi-variant poker loop: an ante, a
// variant-defined deal, one simultaneous stay/fold decision, five community
// cards, and a showdown. Variant behavior lives in the rules bundles; the
// loop itself never branches on a variant name.
package poker

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"sidegame-server/internal/rng"
	"sidegame-server/pkg/deck"
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/playable/poker/rules"
	"sidegame-server/pkg/round"
	"sidegame-server/pkg/settle"
)

const communityCount = 5

// ShowdownHand is one revealed hand in a resolved showdown
type ShowdownHand struct {
	PlayerID int64        `json:"playerId"`
	Hole     []*deck.Card `json:"hole"`
	Value    *HandValue   `json:"value"`
}

// HandResult records a single resolved hand
type HandResult struct {
	Hand           int             `json:"hand"`
	Community      []*deck.Card    `json:"community"`
	WinnerIDs      []int64         `json:"winnerIds"`
	Showdown       []*ShowdownHand `json:"showdown,omitempty"`
	Revealed       bool            `json:"revealed,omitempty"`
	Settlement     *settle.Record  `json:"settlement"`
	SideSettlement *settle.Record  `json:"sideSettlement,omitempty"`
}

// Game is a game of poker for one table
type Game struct {
	options Options
	bundle  rules.Bundle
	seed    int64
	src     *rng.Source
	machine *round.Machine
	deck    *deck.Deck

	participants    []*Participant
	idToParticipant map[int64]*Participant

	handNumber int
	community  []*deck.Card
	pot        map[int64]int
	locked     bool
	endAfter   bool
	results    []*HandResult
	done       bool

	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage
}

// NewGame returns a new game of poker using the variant named by the options.
// The seed must come from rng.Seed so the deals can be re-derived.
func NewGame(logger logrus.FieldLogger, playerIDs []int64, options Options, seed int64, sched *round.Scheduler, registry *rules.Registry) (*Game, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	bundle, found := registry.Get(options.Variant)
	if !found {
		return nil, fmt.Errorf("unknown variant: %s", options.Variant)
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
		bundle:          bundle,
		seed:            seed,
		src:             rng.NewSource(seed),
		participants:    participants,
		idToParticipant: idToParticipant,
		logger:          logger,
		logChan:         make(chan []*playable.LogMessage, 256),
	}

	g.machine = round.NewMachine(round.PhaseSetup, round.DefaultEdges(), sched, nil)
	g.beginHand()

	return g, nil
}

// Name returns the name of the game
func (g *Game) Name() string {
	return fmt.Sprintf("poker-%s", g.bundle.ID)
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Seed returns the seed the deals were derived from
func (g *Game) Seed() int64 {
	return g.seed
}

// Hand returns the current hand number, starting at 1
func (g *Game) Hand() int {
	return g.handNumber
}

// Lock prevents new players from joining until Unlock
func (g *Game) Lock() {
	g.locked = true
}

// Unlock reopens the table to new players
func (g *Game) Unlock() {
	g.locked = false
}

// Locked returns true while the table is closed to new players
func (g *Game) Locked() bool {
	return g.locked
}

// AwardTokens grants bounty tokens to a player
func (g *Game) AwardTokens(playerID int64, count int) {
	if p, ok := g.idToParticipant[playerID]; ok {
		p.tokens += count
	}
}

// ResetTokens clears every player's bounty tokens
func (g *Game) ResetTokens() {
	for _, p := range g.participants {
		p.tokens = 0
	}
}

// Tokens returns each player's current bounty token count
func (g *Game) Tokens() map[int64]int {
	tokens := make(map[int64]int)
	for _, p := range g.participants {
		if p.active {
			tokens[p.PlayerID] = p.tokens
		}
	}

	return tokens
}

// PlayerIDs returns every active player, in seat order
func (g *Game) PlayerIDs() []int64 {
	ids := make([]int64, 0, len(g.participants))
	for _, p := range g.participants {
		if p.active {
			ids = append(ids, p.PlayerID)
		}
	}

	return ids
}

// Join seats a new player. The variant may refuse; a player seated mid-hand
// is dealt in starting with the next hand.
func (g *Game) Join(playerID int64) error {
	if g.done {
		return ErrGameIsOver
	}

	if _, found := g.idToParticipant[playerID]; found {
		return ErrAlreadySeated
	}

	if g.bundle.CanJoin != nil {
		if err := g.bundle.CanJoin(g, playerID); err != nil {
			return err
		}
	}

	p := newParticipant(playerID)
	g.participants = append(g.participants, p)
	g.idToParticipant[playerID] = p

	g.sendLogMessages(playable.NewLogMessage("{} takes a seat", playerID))
	return nil
}

// beginHand runs the setup phase: drop anyone who can no longer cover the
// ante, shuffle a fresh deck, deal, collect antes, and run the variant's
// hand-start hook. Must be called with the machine in the setup phase.
func (g *Game) beginHand() {
	g.handNumber++

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
		p.newHand()
	}

	g.community = nil
	g.pot = make(map[int64]int)

	g.deck = deck.New()
	g.deck.Shuffle(g.src)

	for _, p := range g.participants {
		if !p.active {
			continue
		}

		p.hole = g.drawCards(g.bundle.HoleCards)
		p.dealtIn = true
		g.pot[p.PlayerID] = g.options.Ante
	}

	if g.bundle.OnHandStart != nil {
		g.bundle.OnHandStart(g)
	}

	if err := g.machine.Transition(round.PhaseDecision); err != nil {
		panic(fmt.Sprintf("could not open the decision window: %v", err))
	}

	g.machine.Scheduler().Schedule(g.options.DecisionTimeout, g.applyDecisionDefaults)

	g.sendLogMessages(playable.NewLogMessage(fmt.Sprintf("Hand %d: stay or fold", g.handNumber)))
}

func (g *Game) drawCards(count int) []*deck.Card {
	cards := make([]*deck.Card, count)
	for i := range cards {
		card, err := g.deck.Draw()
		if err != nil {
			panic(fmt.Sprintf("could not draw: %v", err))
		}

		cards[i] = card
	}

	return cards
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
	case "stay", "fold":
		if g.machine.Phase() != round.PhaseDecision {
			return nil, false, ErrNotInDecisionPhase
		}

		if !p.dealtIn {
			return nil, false, ErrNotDealtIn
		}

		if p.decided {
			return nil, false, ErrAlreadyDecided
		}

		p.decided = true
		p.stayed = message.Action == "stay"
		g.sendLogMessages(playable.NewLogMessage(fmt.Sprintf("{} %ss", message.Action), playerID))

		if g.allDecided() {
			g.resolveHand()
		}

		return playable.OK(message.Context), true, nil
	}

	return nil, false, fmt.Errorf("unsupported action: %s", message.Action)
}

func (g *Game) allDecided() bool {
	for _, p := range g.participants {
		if p.active && p.dealtIn && !p.decided {
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

// applyDecisionDefaults substitutes a uniformly random stay/fold for everyone
// who let the decision window lapse. The draws come off the game's own
// sequence so a replay sees the same defaults.
func (g *Game) applyDecisionDefaults() {
	for _, p := range g.participants {
		if !p.active || !p.dealtIn || p.decided {
			continue
		}

		p.decided = true
		p.stayed = g.src.Bool(0.5)
		g.sendLogMessages(playable.NewLogMessage("{} ran out of time; the house decides for them", p.PlayerID))
	}

	g.resolveHand()
}

// resolveHand deals the board, finds the winners, settles the pot, and runs
// the variant's pot-won and hand-end hooks
func (g *Game) resolveHand() {
	if err := g.machine.Transition(round.PhaseResolution); err != nil {
		panic(fmt.Sprintf("could not resolve the hand: %v", err))
	}

	g.community = g.drawCards(communityCount)

	result := &HandResult{
		Hand:      g.handNumber,
		Community: g.community,
	}

	var stayers []*Participant
	for _, p := range g.participants {
		if p.active && p.dealtIn && p.stayed {
			stayers = append(stayers, p)
		}
	}

	var winners []int64
	switch len(stayers) {
	case 0:
		// everyone folded; the antes go home
		g.sendLogMessages(playable.NewLogMessage(fmt.Sprintf("Everyone folds; hand %d is a push", g.handNumber)))
	case 1:
		winners = []int64{stayers[0].PlayerID}
	default:
		winners = g.showdown(stayers, result)
	}

	if len(winners) > 0 {
		record, err := settle.WinnerTakesPot(g.pot, winners, g.options.RakePct, g.options.RakeCap)
		if err != nil {
			panic(fmt.Sprintf("could not settle the pot: %v", err))
		}

		if err := record.Balanced(); err != nil {
			panic(fmt.Sprintf("unbalanced settlement: %v", err))
		}

		for _, e := range record.Entries {
			g.idToParticipant[e.PlayerID].balance += e.Amount
		}

		result.WinnerIDs = winners
		result.Settlement = record
		g.sendLogMessages(playable.NewLogMessage(fmt.Sprintf("Hand %d goes to the winner(s)", g.handNumber), winners...))

		if g.bundle.OnPotWon != nil {
			decision := g.bundle.OnPotWon(g, winners)
			result.Revealed = result.Revealed || decision.RevealHands
			if decision.RevealHands && result.Showdown == nil {
				g.revealHands(stayers, result)
			}
			if decision.EndGame {
				g.endAfter = true
			}
		}
	}

	final := g.endAfter || g.handNumber >= g.options.Hands

	if g.bundle.OnHandEnd != nil {
		decision := g.bundle.OnHandEnd(g, final)
		if decision.SideSettlement != nil && len(decision.SideSettlement.Entries) > 0 {
			for _, e := range decision.SideSettlement.Entries {
				g.idToParticipant[e.PlayerID].balance += e.Amount
			}

			result.SideSettlement = decision.SideSettlement
			g.sendLogMessages(playable.NewLogMessage("Bounties change hands"))
		}

		if decision.ResetTokens {
			g.ResetTokens()
		}
	}

	g.results = append(g.results, result)

	if err := g.machine.Transition(round.PhaseSettlementDisplay); err != nil {
		panic(fmt.Sprintf("could not display the result: %v", err))
	}

	g.machine.Scheduler().Schedule(g.options.DisplayDelay, g.nextHand)
}

// showdown evaluates every live hand and returns the winners
func (g *Game) showdown(stayers []*Participant, result *HandResult) []int64 {
	g.revealHands(stayers, result)

	var best *HandValue
	for _, s := range result.Showdown {
		if best == nil || s.Value.Compare(best) > 0 {
			best = s.Value
		}
	}

	var winners []int64
	for _, s := range result.Showdown {
		if s.Value.Compare(best) == 0 {
			winners = append(winners, s.PlayerID)
		}
	}

	result.Revealed = true
	return winners
}

func (g *Game) revealHands(stayers []*Participant, result *HandResult) {
	result.Showdown = make([]*ShowdownHand, len(stayers))
	for i, p := range stayers {
		result.Showdown[i] = &ShowdownHand{
			PlayerID: p.PlayerID,
			Hole:     p.hole,
			Value:    BestHand(p.hole, g.community, g.bundle.HoleCardsUsed),
		}
	}
}

// nextHand advances past the settlement display
func (g *Game) nextHand() {
	if g.endAfter || g.handNumber >= g.options.Hands {
		g.finish()
		return
	}

	if err := g.machine.Transition(round.PhaseSetup); err != nil {
		panic(fmt.Sprintf("could not start the next hand: %v", err))
	}

	g.beginHand()
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
		if r.Settlement != nil {
			combined.Pot += r.Settlement.Pot
			combined.Rake += r.Settlement.Rake
			combined.Entries = append(combined.Entries, r.Settlement.Entries...)
		}

		if r.SideSettlement != nil {
			combined.Pot += r.SideSettlement.Pot
			combined.Entries = append(combined.Entries, r.SideSettlement.Entries...)
		}
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
