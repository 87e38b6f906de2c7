package gamefactory

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/playable/coincall"
	"sidegame-server/pkg/playable/flip"
	"sidegame-server/pkg/playable/lastbreath"
	"sidegame-server/pkg/playable/plunder"
	"sidegame-server/pkg/playable/poker"
	"sidegame-server/pkg/playable/poker/rules"
	"sidegame-server/pkg/round"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	rulesRegistry, err := rules.NewRegistry(rules.Holdem(), rules.Omaha(), rules.Squidz(poker.DefaultOptions().Bounty))
	require.NoError(t, err)

	return DefaultRegistry(rulesRegistry)
}

func testScheduler(t *testing.T) *round.Scheduler {
	t.Helper()
	return round.NewScheduler(quartz.NewMock(t), func(fn func()) { fn() })
}

func TestRegistry_Get(t *testing.T) {
	a := assert.New(t)

	registry := testRegistry(t)

	_, err := registry.Get("canasta")
	a.EqualError(err, "no factory with name: canasta")

	a.Len(registry.Names(), 5)

	tests := []struct {
		game   string
		expect interface{}
	}{
		{"flip", &flip.Game{}},
		{"coin-call", &coincall.Game{}},
		{"plunder", &plunder.Game{}},
		{"last-breath", &lastbreath.Game{}},
		{"poker", &poker.Game{}},
	}

	for _, test := range tests {
		factory, err := registry.Get(test.game)
		require.NoError(t, err, test.game)

		game, err := factory.CreateGame(logrus.StandardLogger(), []int64{1, 2}, playable.AdditionalData{}, 42, testScheduler(t))
		require.NoError(t, err, test.game)
		a.IsType(test.expect, game, test.game)
	}
}

func TestFactory_details(t *testing.T) {
	a := assert.New(t)

	registry := testRegistry(t)

	factory, err := registry.Get("flip")
	require.NoError(t, err)

	name, ante, err := factory.Details(playable.AdditionalData{"ante": float64(50)})
	a.NoError(err)
	a.Equal("Flip", name)
	a.Equal(50, ante)

	_, _, err = factory.Details(playable.AdditionalData{"rakePct": float64(200)})
	a.EqualError(err, "rake percentage must be within [0, 100]")

	factory, err = registry.Get("poker")
	require.NoError(t, err)

	name, ante, err = factory.Details(playable.AdditionalData{"variant": "squidz"})
	a.NoError(err)
	a.Equal("Poker (squidz)", name)
	a.Equal(poker.DefaultOptions().Ante, ante)

	_, _, err = factory.Details(playable.AdditionalData{"variant": "razz"})
	a.EqualError(err, "unknown variant: razz")
}
