package room

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/room/gamefactory"
)

const defaultSecondsUntilStart = time.Second * 10

var secondsUntilStart = getSecondsUntilStart()

// pendingGame is a game waiting on its countdown. Any seated player can start
// it early or cancel it before the timer fires.
type pendingGame struct {
	Name     string    `json:"name"`
	Ante     int       `json:"ante"`
	Start    time.Time `json:"start"`
	PlayerID int64     `json:"playerId"`
	client   *Client
	message  *playable.PayloadIn
	factory  gamefactory.GameFactory
	timer    *quartz.Timer
}

// createPendingGame validates the request and arms the countdown
// NOTE: must only be called from the run loop
func (d *Dealer) createPendingGame(c *Client, msg *playable.PayloadIn) error {
	if d.game != nil {
		return errors.New("a game is already in progress")
	}

	if d.pending != nil {
		return errors.New("a game is already waiting to start")
	}

	factory, err := d.pitBoss.factories.Get(msg.Subject)
	if err != nil {
		return err
	}

	name, ante, err := factory.Details(msg.AdditionalData)
	if err != nil {
		return err
	}

	delay := d.pitBoss.startDelay
	start := d.clock.Now().Add(delay)
	pending := &pendingGame{
		client:   c,
		message:  msg,
		factory:  factory,
		Name:     name,
		Ante:     ante,
		Start:    start,
		PlayerID: c.player.ID,
	}

	pending.timer = d.clock.AfterFunc(delay, func() {
		d.execInRunLoop <- d.startPendingGame
	})

	d.pending = pending

	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key:  "pendingGame",
			Data: pending,
		})
	}

	return nil
}

func getSecondsUntilStart() time.Duration {
	if val := os.Getenv("START_GAME_DELAY"); val != "" {
		delay, err := strconv.Atoi(val)
		if err != nil {
			logrus.WithError(err).Panic("could not parse START_GAME_DELAY")
		}

		return time.Second * time.Duration(delay)
	}

	return defaultSecondsUntilStart
}
