package plunder

import (
	"context"
	"testing"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
)

func inlineDispatch(fn func()) {
	fn()
}

func newTestGame(t *testing.T, playerIDs []int64, opts Options, seed int64) (*Game, *quartz.Mock) {
	t.Helper()

	clock := quartz.NewMock(t)
	sched := round.NewScheduler(clock, inlineDispatch)

	game, err := NewGame(logrus.StandardLogger(), playerIDs, opts, seed, sched)
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

func shake() *playable.PayloadIn {
	return &playable.PayloadIn{Action: "shake"}
}

func TestNewGame_optionsValidation(t *testing.T) {
	a := assert.New(t)

	opts := DefaultOptions()
	opts.Ante = 0
	_, err := NewGame(nil, []int64{1, 2}, opts, 5, nil)
	a.EqualError(err, "ante must be greater than 0")

	opts = DefaultOptions()
	opts.DiceCount = 0
	_, err = NewGame(nil, []int64{1, 2}, opts, 5, nil)
	a.EqualError(err, "dice count must be greater than 0")

	opts = DefaultOptions()
	opts.Rounds = 0
	_, err = NewGame(nil, []int64{1, 2}, opts, 5, nil)
	a.EqualError(err, "rounds must be greater than 0")

	_, err = NewGame(nil, []int64{1}, DefaultOptions(), 5, nil)
	a.Equal(ErrNotEnoughPlayers, err)
}

func TestGame_shakeValidation(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t, []int64{1, 2, 3}, DefaultOptions(), 42)

	_, _, err := g.Action(99, shake())
	a.Equal(ErrPlayerNotFound, err)

	res, updateState, err := g.Action(1, shake())
	a.NoError(err)
	a.True(updateState)
	a.NotNil(res)

	_, _, err = g.Action(1, shake())
	a.Equal(ErrAlreadyShaken, err)

	_, _, err = g.Action(1, &playable.PayloadIn{Action: "roll"})
	a.EqualError(err, "unsupported action: roll")
}

func TestGame_resolvesWhenEveryoneShakes(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t, []int64{1, 2}, DefaultOptions(), 42)

	_, _, err := g.Action(1, shake())
	require.NoError(t, err)
	a.Equal(round.PhaseDecision, g.machine.Phase())

	_, _, err = g.Action(2, shake())
	require.NoError(t, err)
	a.Equal(round.PhaseSettlementDisplay, g.machine.Phase())

	require.Len(t, g.results, 1)
	result := g.results[0]
	require.Len(t, result.Rolls, 2)
	a.NoError(result.Settlement.Balanced())

	for _, roll := range result.Rolls {
		a.Len(roll.Dice, g.options.DiceCount)
		skulls := 0
		for _, die := range roll.Dice {
			a.GreaterOrEqual(die, 1)
			a.LessOrEqual(die, 6)
			if die == skullFace {
				skulls++
			}
		}
		a.Equal(skulls, roll.Skulls)
	}

	// whoever won rolled at least as many skulls as everyone else
	require.NotEmpty(t, result.WinnerIDs)
	best := result.Rolls[0].Skulls
	for _, roll := range result.Rolls {
		if roll.Skulls > best {
			best = roll.Skulls
		}
	}
	for _, id := range result.WinnerIDs {
		a.Equal(best, g.idToParticipant[id].skulls)
	}
}

func TestGame_mostSkullsTakesThePot(t *testing.T) {
	a := assert.New(t)

	opts := DefaultOptions()
	opts.RakePct = 0

	g, _ := newTestGame(t, []int64{1, 2, 3}, opts, 42)

	for _, id := range []int64{1, 2, 3} {
		_, _, err := g.Action(id, shake())
		require.NoError(t, err)
	}

	result := g.results[0]
	pot := opts.Ante * 3
	share := pot / len(result.WinnerIDs)

	a.Equal(pot, result.Settlement.Pot)

	isWinner := make(map[int64]bool)
	for _, id := range result.WinnerIDs {
		isWinner[id] = true
	}

	total := 0
	for _, p := range g.participants {
		if isWinner[p.PlayerID] {
			a.Equal(share-opts.Ante, p.balance)
		} else {
			a.Equal(-opts.Ante, p.balance)
		}
		total += p.balance
	}

	// with no rake only the split remainder stays with the house
	a.Equal(-(pot - share*len(result.WinnerIDs)), total)
}

func TestGame_timeoutShakesForStragglers(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	g, clock := newTestGame(t, []int64{1, 2}, DefaultOptions(), 42)

	_, _, err := g.Action(1, shake())
	require.NoError(t, err)

	clock.Advance(g.options.DecisionTimeout).MustWait(ctx)

	a.Equal(round.PhaseSettlementDisplay, g.machine.Phase())
	a.True(g.idToParticipant[2].shaken)
	require.Len(t, g.results, 1)
}

func TestGame_sameSeedSameRolls(t *testing.T) {
	a := assert.New(t)

	run := func() [][]int {
		g, _ := newTestGame(t, []int64{1, 2, 3}, DefaultOptions(), 777)

		for _, id := range []int64{1, 2, 3} {
			_, _, err := g.Action(id, shake())
			require.NoError(t, err)
		}

		dice := make([][]int, 0, 3)
		for _, roll := range g.results[0].Rolls {
			dice = append(dice, roll.Dice)
		}

		return dice
	}

	a.Equal(run(), run())
}

func TestGame_shakeOrderDoesNotChangeTheRolls(t *testing.T) {
	a := assert.New(t)

	run := func(order []int64) []*PlayerRoll {
		g, _ := newTestGame(t, []int64{1, 2, 3}, DefaultOptions(), 777)

		for _, id := range order {
			_, _, err := g.Action(id, shake())
			require.NoError(t, err)
		}

		return g.results[0].Rolls
	}

	a.Equal(run([]int64{1, 2, 3}), run([]int64{3, 1, 2}))
}

func TestGame_endsAfterConfiguredRounds(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	opts := DefaultOptions()
	opts.Rounds = 2

	g, clock := newTestGame(t, []int64{1, 2}, opts, 42)

	for i := 0; i < opts.Rounds; i++ {
		_, _, err := g.Action(1, shake())
		require.NoError(t, err)
		_, _, err = g.Action(2, shake())
		require.NoError(t, err)

		clock.Advance(opts.DisplayDelay).MustWait(ctx)
	}

	a.Equal(round.PhaseEnd, g.machine.Phase())

	details, over := g.GetEndOfGameDetails()
	require.True(t, over)
	a.Equal(opts.Ante*2*opts.Rounds, details.Settlement.Pot)
	a.Len(details.Log.([]*RoundResult), opts.Rounds)

	_, _, err := g.Action(1, shake())
	a.Equal(ErrGameIsOver, err)
}

func TestGame_getPlayerState(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t, []int64{1, 2}, DefaultOptions(), 42)

	_, err := g.GetPlayerState(99)
	a.Equal(ErrPlayerNotFound, err)

	_, _, err = g.Action(1, shake())
	require.NoError(t, err)

	res, err := g.GetPlayerState(1)
	require.NoError(t, err)
	a.Equal("game", res.Key)

	state := res.Data.(*playerState)
	a.Equal(round.PhaseDecision, state.Phase)
	a.True(state.Participants[1].Shaken)
	a.Empty(state.AvailableActions)

	res, err = g.GetPlayerState(2)
	require.NoError(t, err)
	state = res.Data.(*playerState)
	a.Equal([]string{"shake"}, state.AvailableActions)

	_, _, err = g.Action(2, shake())
	require.NoError(t, err)

	res, err = g.GetPlayerState(2)
	require.NoError(t, err)
	state = res.Data.(*playerState)
	a.NotNil(state.LastResult)
	a.NotEmpty(state.Participants[1].Dice)
}
