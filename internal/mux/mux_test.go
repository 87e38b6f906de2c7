package mux

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidegame-server/pkg/playable/poker"
	"sidegame-server/pkg/playable/poker/rules"
	"sidegame-server/pkg/room"
	"sidegame-server/pkg/room/gamefactory"
)

func newTestMux(t *testing.T, version string) *Mux {
	t.Helper()

	rulesRegistry, err := rules.NewRegistry(rules.Holdem(), rules.Omaha(), rules.Squidz(poker.DefaultOptions().Bounty))
	require.NoError(t, err)

	factories := gamefactory.DefaultRegistry(rulesRegistry)

	pitBoss := room.NewPitBoss("test-secret", factories)
	pitBoss.StartShift()
	t.Cleanup(pitBoss.EndShift)

	return NewMux(version, pitBoss, room.NewTables(), factories)
}

func Test_tableMiddleware(t *testing.T) {
	ts := httptest.NewServer(newTestMux(t, ""))
	defer ts.Close()

	var errObj errorResponse
	assertGet(t, ts, "/table/9f4e41d8-0000-0000-0000-000000000000", &errObj, 404)
	assert.Equal(t, "Not Found", errObj.Message)

	// a malformed UUID never reaches the middleware
	assertGet(t, ts, "/table/not-a-uuid", nil, 404)
}

func Test_getGame(t *testing.T) {
	ts := httptest.NewServer(newTestMux(t, ""))
	defer ts.Close()

	var names []string
	assertGet(t, ts, "/game", &names, 200)
	assert.Equal(t, []string{"coin-call", "flip", "last-breath", "plunder", "poker"}, names)
}
