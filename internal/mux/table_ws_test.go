package mux

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidegame-server/pkg/playable"
)

func Test_getTableUUIDWS(t *testing.T) {
	a := assert.New(t)

	m := newTestMux(t, "")
	ts := httptest.NewServer(m)
	defer ts.Close()

	tbl := m.tables.Create("My Table", time.Now())
	player := tbl.Join("alice", 10000, time.Now())
	sessionID, err := tbl.IssueSession(player.ID, time.Now())
	require.NoError(t, err)

	wsURL := strings.Replace(ts.URL, "http", "ws", 1)

	// an unknown session is rejected before the upgrade
	_, resp, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/table/%s/ws?session=bogus", wsURL, tbl.UUID), nil)
	require.Error(t, err)
	a.Equal(http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/table/%s/ws?session=%s", wsURL, tbl.UUID, sessionID), nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second * 5))

	var msg playable.Response
	require.NoError(t, conn.ReadJSON(&msg))
	a.Equal("clientState", msg.Key)
}
