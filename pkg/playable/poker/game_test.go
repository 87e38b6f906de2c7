package poker

import (
	"context"
	"testing"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidegame-server/pkg/deck"
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/playable/poker/rules"
	"sidegame-server/pkg/round"
)

func inlineDispatch(fn func()) {
	fn()
}

func testRegistry(t *testing.T, extra ...rules.Bundle) *rules.Registry {
	t.Helper()

	bundles := append([]rules.Bundle{
		rules.Holdem(),
		rules.Omaha(),
		rules.Squidz(DefaultOptions().Bounty),
	}, extra...)

	registry, err := rules.NewRegistry(bundles...)
	require.NoError(t, err)
	return registry
}

func newTestGame(t *testing.T, playerIDs []int64, opts Options, seed int64) (*Game, *quartz.Mock) {
	t.Helper()

	clock := quartz.NewMock(t)
	sched := round.NewScheduler(clock, inlineDispatch)

	game, err := NewGame(logrus.StandardLogger(), playerIDs, opts, seed, sched, testRegistry(t))
	require.NoError(t, err)

	drainLogs(game)
	return game, clock
}

// drainLogs keeps the buffered log channel from filling up in long tests
func drainLogs(g *Game) {
	go func() {
		for range g.logChan {
		}
	}()
}

func action(name string) *playable.PayloadIn {
	return &playable.PayloadIn{Action: name}
}

func TestNewGame_optionsValidation(t *testing.T) {
	a := assert.New(t)

	registry := testRegistry(t)

	opts := DefaultOptions()
	opts.Variant = ""
	_, err := NewGame(nil, []int64{1, 2}, opts, 5, nil, registry)
	a.EqualError(err, "a variant is required")

	opts = DefaultOptions()
	opts.Variant = "five-card-draw"
	_, err = NewGame(nil, []int64{1, 2}, opts, 5, nil, registry)
	a.EqualError(err, "unknown variant: five-card-draw")

	opts = DefaultOptions()
	opts.Ante = 0
	_, err = NewGame(nil, []int64{1, 2}, opts, 5, nil, registry)
	a.EqualError(err, "ante must be greater than 0")

	opts = DefaultOptions()
	opts.Hands = 0
	_, err = NewGame(nil, []int64{1, 2}, opts, 5, nil, registry)
	a.EqualError(err, "hands must be greater than 0")

	_, err = NewGame(nil, []int64{1}, DefaultOptions(), 5, nil, registry)
	a.Equal(ErrNotEnoughPlayers, err)
}

func TestNewGame_dealsPerVariant(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t, []int64{1, 2}, DefaultOptions(), 42)
	a.Equal("poker-holdem", g.Name())
	a.Len(g.idToParticipant[1].hole, 2)

	opts := DefaultOptions()
	opts.Variant = "omaha"
	g, _ = newTestGame(t, []int64{1, 2}, opts, 42)
	a.Equal("poker-omaha", g.Name())
	a.Len(g.idToParticipant[1].hole, 4)
}

func TestGame_sameSeedSameDeal(t *testing.T) {
	a := assert.New(t)

	g1, _ := newTestGame(t, []int64{1, 2}, DefaultOptions(), 99)
	g2, _ := newTestGame(t, []int64{1, 2}, DefaultOptions(), 99)

	a.Equal(deck.CardsToString(g1.idToParticipant[1].hole), deck.CardsToString(g2.idToParticipant[1].hole))
	a.Equal(deck.CardsToString(g1.idToParticipant[2].hole), deck.CardsToString(g2.idToParticipant[2].hole))
}

func TestGame_decisionValidation(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t, []int64{1, 2, 3}, DefaultOptions(), 42)

	_, _, err := g.Action(99, action("stay"))
	a.Equal(ErrPlayerNotFound, err)

	_, _, err = g.Action(1, action("raise"))
	a.EqualError(err, "unsupported action: raise")

	res, updateState, err := g.Action(1, action("stay"))
	a.NoError(err)
	a.True(updateState)
	a.NotNil(res)

	_, _, err = g.Action(1, action("fold"))
	a.Equal(ErrAlreadyDecided, err)
}

func TestGame_everyoneFoldsIsAPush(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t, []int64{1, 2}, DefaultOptions(), 42)

	_, _, err := g.Action(1, action("fold"))
	require.NoError(t, err)
	_, _, err = g.Action(2, action("fold"))
	require.NoError(t, err)

	require.Len(t, g.results, 1)
	a.Nil(g.results[0].Settlement)
	a.Empty(g.results[0].WinnerIDs)
	a.Equal(0, g.idToParticipant[1].balance)
	a.Equal(0, g.idToParticipant[2].balance)
}

func TestGame_lastStayerWinsWithoutShowdown(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t, []int64{1, 2}, DefaultOptions(), 42)

	_, _, err := g.Action(1, action("stay"))
	require.NoError(t, err)
	_, _, err = g.Action(2, action("fold"))
	require.NoError(t, err)

	require.Len(t, g.results, 1)
	result := g.results[0]
	a.Equal([]int64{1}, result.WinnerIDs)
	a.False(result.Revealed)
	a.Nil(result.Showdown)
	a.NoError(result.Settlement.Balanced())

	// two $2 antes, 5% rake on the $4 pot
	a.Equal(400, result.Settlement.Pot)
	a.Equal(20, result.Settlement.Rake)
	a.Equal(180, g.idToParticipant[1].balance)
	a.Equal(-200, g.idToParticipant[2].balance)
}

func TestGame_showdownFindsTheBestHand(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t, []int64{1, 2, 3}, DefaultOptions(), 42)

	for _, id := range []int64{1, 2, 3} {
		_, _, err := g.Action(id, action("stay"))
		require.NoError(t, err)
	}

	require.Len(t, g.results, 1)
	result := g.results[0]
	a.True(result.Revealed)
	require.Len(t, result.Showdown, 3)
	require.NotEmpty(t, result.WinnerIDs)
	a.Len(result.Community, communityCount)
	a.NoError(result.Settlement.Balanced())

	winners := make(map[int64]bool)
	for _, id := range result.WinnerIDs {
		winners[id] = true
	}

	var best *HandValue
	for _, s := range result.Showdown {
		if best == nil || s.Value.Compare(best) > 0 {
			best = s.Value
		}
	}

	for _, s := range result.Showdown {
		a.Equal(winners[s.PlayerID], s.Value.Compare(best) == 0)
	}
}

func TestGame_timeoutDecidesForStragglers(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	g, clock := newTestGame(t, []int64{1, 2}, DefaultOptions(), 42)

	clock.Advance(g.options.DecisionTimeout).MustWait(ctx)

	a.Equal(round.PhaseSettlementDisplay, g.machine.Phase())
	require.Len(t, g.results, 1)
	a.True(g.idToParticipant[1].decided)
	a.True(g.idToParticipant[2].decided)
}

func TestGame_endsAfterConfiguredHands(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	opts := DefaultOptions()
	opts.Hands = 2

	g, clock := newTestGame(t, []int64{1, 2}, opts, 42)

	for i := 0; i < opts.Hands; i++ {
		_, _, err := g.Action(1, action("stay"))
		require.NoError(t, err)
		_, _, err = g.Action(2, action("fold"))
		require.NoError(t, err)

		clock.Advance(opts.DisplayDelay).MustWait(ctx)
	}

	a.Equal(round.PhaseEnd, g.machine.Phase())

	details, over := g.GetEndOfGameDetails()
	require.True(t, over)
	a.Equal(800, details.Settlement.Pot)
	a.Len(details.Log.([]*HandResult), opts.Hands)

	_, _, err := g.Action(1, action("stay"))
	a.Equal(ErrGameIsOver, err)
}

func TestGame_endGameHookCutsTheGameShort(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	sudden := rules.Holdem()
	sudden.ID = "sudden-death"
	sudden.OnPotWon = func(t rules.Table, winnerIDs []int64) rules.PotWon {
		return rules.PotWon{EndGame: true}
	}

	registry, err := rules.NewRegistry(sudden)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Variant = "sudden-death"
	opts.Hands = 5

	clock := quartz.NewMock(t)
	sched := round.NewScheduler(clock, inlineDispatch)

	g, err := NewGame(logrus.StandardLogger(), []int64{1, 2}, opts, 42, sched, registry)
	require.NoError(t, err)
	drainLogs(g)

	_, _, err = g.Action(1, action("stay"))
	require.NoError(t, err)
	_, _, err = g.Action(2, action("fold"))
	require.NoError(t, err)

	clock.Advance(opts.DisplayDelay).MustWait(ctx)

	a.Equal(round.PhaseEnd, g.machine.Phase())
	_, over := g.GetEndOfGameDetails()
	a.True(over)
}

func TestGame_squidzLocksAwardsAndSettlesBounties(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	opts := DefaultOptions()
	opts.Variant = "squidz"
	opts.Hands = 1

	g, clock := newTestGame(t, []int64{1, 2}, opts, 42)

	// the variant locks the table at the deal
	a.True(g.Locked())
	a.Equal(rules.ErrTableLocked, g.Join(3))

	_, _, err := g.Action(1, action("stay"))
	require.NoError(t, err)
	_, _, err = g.Action(2, action("fold"))
	require.NoError(t, err)

	require.Len(t, g.results, 1)
	result := g.results[0]
	a.Equal([]int64{1}, result.WinnerIDs)

	// the winner is revealed and collects a bounty token; on the final
	// hand the empty-handed player pays it off
	a.True(result.Revealed)
	require.NotNil(t, result.SideSettlement)
	a.Equal(opts.Bounty.TokenValue, result.SideSettlement.Pot)

	// tokens were reset after the bounty pass
	a.Equal(0, g.idToParticipant[1].tokens)

	// pot: $4 less 5% rake nets the winner $1.80; the $5 bounty on top
	a.Equal(180+opts.Bounty.TokenValue, g.idToParticipant[1].balance)
	a.Equal(-200-opts.Bounty.TokenValue, g.idToParticipant[2].balance)

	clock.Advance(opts.DisplayDelay).MustWait(ctx)
	a.Equal(round.PhaseEnd, g.machine.Phase())
}

func TestGame_joinIsDealtInNextHand(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	g, clock := newTestGame(t, []int64{1, 2}, DefaultOptions(), 42)

	require.NoError(t, g.Join(3))
	a.Equal(ErrAlreadySeated, g.Join(3))

	p := g.idToParticipant[3]
	a.False(p.dealtIn)

	// the newcomer cannot act in a hand they weren't dealt into
	_, _, err := g.Action(3, action("stay"))
	a.Equal(ErrNotDealtIn, err)

	_, _, err = g.Action(1, action("stay"))
	require.NoError(t, err)
	_, _, err = g.Action(2, action("fold"))
	require.NoError(t, err)

	clock.Advance(g.options.DisplayDelay).MustWait(ctx)

	a.Equal(2, g.Hand())
	a.True(p.dealtIn)
	a.Len(p.hole, 2)
}

func TestGame_getPlayerState(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t, []int64{1, 2}, DefaultOptions(), 42)

	_, err := g.GetPlayerState(99)
	a.Equal(ErrPlayerNotFound, err)

	res, err := g.GetPlayerState(1)
	require.NoError(t, err)
	a.Equal("game", res.Key)

	state := res.Data.(*playerState)
	a.Equal(round.PhaseDecision, state.Phase)
	a.Equal("holdem", state.Variant)
	a.Equal(400, state.Pot)

	// you see your own cards; your opponent's stay hidden
	a.Len(state.Participants[1].Hole, 2)
	a.Empty(state.Participants[2].Hole)
	a.Equal([]string{"stay", "fold"}, state.AvailableActions)

	_, _, err = g.Action(1, action("stay"))
	require.NoError(t, err)

	res, err = g.GetPlayerState(1)
	require.NoError(t, err)
	state = res.Data.(*playerState)
	a.Empty(state.AvailableActions)
}
