package room

import (
	"errors"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"sidegame-server/internal/rng"
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateGameEnded
)

// Dealer owns one table's run loop. Every game mutation, whether it came from
// a player action or a timer fire, runs on this loop; the game object is
// never touched from anywhere else.
type Dealer struct {
	pitBoss *PitBoss
	table   *Table
	clock   quartz.Clock

	clients map[*Client]bool
	lock    sync.RWMutex

	game        playable.Playable
	sched       *round.Scheduler
	nonce       uint64
	pending     *pendingGame
	logMessages []*playable.LogMessage

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, table *Table) *Dealer {
	return &Dealer{
		pitBoss:       pitBoss,
		table:         table,
		clock:         pitBoss.clock,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	log := logrus.WithFields(logrus.Fields{
		"uuid": d.table.UUID,
		"name": d.table.Name,
	})

	log.Debug("creating dealer run loop")
	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendPlayerData()
			case stateGameEvent:
				d.sendGameData()
			case stateGameEnded:
				d.sendGameEnded()
				d.sendPlayerData()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			log.Debug("terminating dealer run loop")
			return
		}
	}
}

// dispatch feeds a scheduler fire into the run loop. The game's phase timers
// and its player actions share one code path.
func (d *Dealer) dispatch(fn func()) {
	d.execInRunLoop <- func() {
		fn()
		d.afterGameMutation()
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.stateChanged <- stateClientEvent
	d.execInRunLoop <- func() {
		if len(d.logMessages) > 0 {
			client.Send(&playable.Response{
				Key:  "logs",
				Data: d.logMessages,
			})
		}

		if d.game == nil {
			return
		}

		gs, err := d.game.GetPlayerState(client.player.ID)
		if err != nil {
			logrus.WithError(err).Error("could not get player state")
			return
		}

		client.Send(gs)
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if client.player != nil {
		d.table.TouchPlayer(client.player.ID, d.clock.Now())
	}

	if nClients > 0 {
		d.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// connectedPlayers returns the IDs of players with at least one live client
func (d *Dealer) connectedPlayers() map[int64]bool {
	d.lock.RLock()
	defer d.lock.RUnlock()

	connected := make(map[int64]bool)
	for client := range d.clients {
		if client.player != nil {
			connected[client.player.ID] = true
		}
	}

	return connected
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// ReapIdle drops seats whose players have been gone since before the cutoff.
// The sweep only acts between games; a mid-round seat is never touched.
func (d *Dealer) ReapIdle(cutoff time.Time) {
	d.execInRunLoop <- func() {
		if d.game != nil || d.pending != nil {
			return
		}

		if reaped := d.table.reapIdle(cutoff, d.connectedPlayers()); len(reaped) > 0 {
			for _, p := range reaped {
				logrus.WithFields(logrus.Fields{
					"uuid":   d.table.UUID,
					"player": p.ID,
				}).Debug("reaped idle seat")
			}

			d.stateChanged <- stateClientEvent
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameEnded() {
	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key: "gameEnded",
		})
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	if d.game == nil {
		// should not happen
		logrus.Error("game state changed, but there's no active game")
		return
	}

	for _, client := range d.Clients() {
		data, err := d.game.GetPlayerState(client.player.ID)
		if err != nil {
			logrus.WithError(err).Error("could not get player state")
			continue
		}

		client.Send(data)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendPlayerData() {
	connected := d.connectedPlayers()

	csPlayers := make(map[int64]*clientStatePlayer)
	for _, player := range d.table.Players() {
		csPlayers[player.ID] = &clientStatePlayer{
			Player:      player,
			IsConnected: connected[player.ID],
		}
	}

	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key:  "clientState",
			Data: csPlayers,
		})
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendLogMessages(messages []*playable.LogMessage) {
	d.addLogMessages(messages)

	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key:  "logs",
			Data: messages,
		})
	}
}

// forwardLogs pumps a game's log channel into the run loop for the life of
// the game
func (d *Dealer) forwardLogs(game playable.Playable) {
	for {
		select {
		case messages := <-game.LogChan():
			d.execInRunLoop <- func() {
				d.sendLogMessages(messages)
			}
		case <-d.close:
			return
		}
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	switch msg.Action {
	case "createGame":
		d.execInRunLoop <- func() {
			if err := d.createPendingGame(c, msg); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(playable.OK(msg.Context))
		}
	case "startGame":
		d.execInRunLoop <- func() {
			if d.pending == nil {
				c.Send(newErrorResponse(msg.Context, errors.New("no game is waiting to start")))
				return
			}

			d.pending.timer.Stop()
			d.startPendingGame()
			c.Send(playable.OK(msg.Context))
		}
	case "cancelGame":
		d.execInRunLoop <- func() {
			if d.pending == nil {
				c.Send(newErrorResponse(msg.Context, errors.New("no game is waiting to start")))
				return
			}

			d.pending.timer.Stop()
			d.pending = nil
			d.stateChanged <- stateClientEvent
			c.Send(playable.OK(msg.Context))
		}
	case "terminateGame":
		d.execInRunLoop <- func() {
			if d.sched != nil {
				d.sched.Cancel()
			}

			d.game = nil
			d.sched = nil
			d.stateChanged <- stateGameEnded
			c.Send(playable.OK(msg.Context))
		}
	default:
		d.execInRunLoop <- func() {
			d.forwardToGame(c, msg)
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) forwardToGame(c *Client, msg *playable.PayloadIn) {
	game := d.game
	if game == nil {
		logrus.WithField("msg", msg).Warn("unknown message")
		c.Send(newErrorResponse(msg.Context, errors.New("there is no active game")))
		return
	}

	action, updateState, err := game.Action(c.player.ID, msg)
	if err != nil {
		logrus.WithError(err).WithField("client", c.String()).Debug("could not perform action")
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	if action != nil {
		action.Context = msg.Context
		c.Send(action)
	}

	if updateState {
		d.stateChanged <- stateGameEvent
	}

	d.checkGameOver()
}

// afterGameMutation broadcasts state and settles up after a scheduler fire
// NOTE: must only be called from the run loop
func (d *Dealer) afterGameMutation() {
	if d.game == nil {
		return
	}

	d.stateChanged <- stateGameEvent
	d.checkGameOver()
}

// checkGameOver applies the settlement to table stakes once a game reports
// it is over. The dealer is the only writer of table stakes.
// NOTE: must only be called from the run loop
func (d *Dealer) checkGameOver() {
	game := d.game
	if game == nil {
		return
	}

	details, isOver := game.GetEndOfGameDetails()
	if !isOver {
		return
	}

	for playerID, amount := range details.BalanceAdjustments {
		if p, found := d.table.Player(playerID); found {
			p.TableStake += amount
		}
	}

	logrus.WithFields(logrus.Fields{
		"uuid": d.table.UUID,
		"game": game.Name(),
	}).Info("game ended")

	if d.sched != nil {
		d.sched.Cancel()
	}

	d.game = nil
	d.sched = nil
	d.stateChanged <- stateGameEnded
}

// startPendingGame builds the pending game and puts it in play
// NOTE: must only be called from the run loop
func (d *Dealer) startPendingGame() {
	pending := d.pending
	if pending == nil {
		return
	}

	d.pending = nil

	playerIDs := d.table.ActivePlayerIDs()

	seed := rng.Seed(d.pitBoss.secret, d.table.UUID, d.clock.Now().Unix(), d.nonce)
	d.nonce++

	sched := round.NewScheduler(d.clock, d.dispatch)

	logger := logrus.WithFields(logrus.Fields{
		"uuid": d.table.UUID,
		"game": pending.message.Subject,
	})

	game, err := pending.factory.CreateGame(logger, playerIDs, pending.message.AdditionalData, seed, sched)
	if err != nil {
		logger.WithError(err).Error("could not create game")
		pending.client.Send(newErrorResponse(pending.message.Context, err))
		return
	}

	d.game = game
	d.sched = sched
	go d.forwardLogs(game)

	logger.WithField("seed", seed).Info("game started")
	d.stateChanged <- stateGameEvent
}
