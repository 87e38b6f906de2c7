package room

import (
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"sidegame-server/pkg/room/gamefactory"
)

const defaultIdleAfter = time.Minute * 10
const idleSweepInterval = time.Minute

// PitBoss is responsible for dispatching players to dealers. It also runs the
// inactivity sweep that reaps abandoned seats between games.
type PitBoss struct {
	clock      quartz.Clock
	factories  *gamefactory.Registry
	secret     string
	idleAfter  time.Duration
	startDelay time.Duration

	dealers    map[string]*Dealer
	connect    chan *Client
	disconnect chan *Client
	close      chan bool
}

// PitBossOption configures a PitBoss
type PitBossOption func(*PitBoss)

// WithClock overrides the real clock
func WithClock(clock quartz.Clock) PitBossOption {
	return func(p *PitBoss) {
		p.clock = clock
	}
}

// WithIdleAfter overrides how long a disconnected seat survives the sweep
func WithIdleAfter(d time.Duration) PitBossOption {
	return func(p *PitBoss) {
		p.idleAfter = d
	}
}

// WithStartGameDelay overrides the countdown before a created game deals
func WithStartGameDelay(d time.Duration) PitBossOption {
	return func(p *PitBoss) {
		p.startDelay = d
	}
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(secret string, factories *gamefactory.Registry, opts ...PitBossOption) *PitBoss {
	p := &PitBoss{
		clock:      quartz.NewReal(),
		factories:  factories,
		secret:     secret,
		idleAfter:  defaultIdleAfter,
		startDelay: secondsUntilStart,
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		close:      make(chan bool),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

// EndShift stops the run loop and every dealer under it
func (p *PitBoss) EndShift() {
	close(p.close)
}

func (p *PitBoss) runLoop() {
	sweep := p.clock.NewTicker(idleSweepInterval)
	defer sweep.Stop()

	for {
		select {
		case client := <-p.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			dealer, found := p.dealers[client.table.UUID]
			if !found {
				dealer = NewDealer(p, client.table)
				dealer.StartShift()
				p.dealers[client.table.UUID] = dealer
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			dealer, found := p.dealers[client.table.UUID]
			if !found {
				logrus.WithField("uuid", client.table.UUID).WithField("type", "exception").Error("table not found")
				continue
			}

			if dealer.RemoveClient(client) {
				dealer.EndShift()
				delete(p.dealers, client.table.UUID)
			}
		case <-sweep.C:
			cutoff := p.clock.Now().Add(-p.idleAfter)
			for _, dealer := range p.dealers {
				dealer.ReapIdle(cutoff)
			}
		case <-p.close:
			for uuid, dealer := range p.dealers {
				dealer.EndShift()
				delete(p.dealers, uuid)
			}

			return
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
