package flip

import (
	"sidegame-server/pkg/deck"
)

// Participant is a player in a game of flip.
type Participant struct {
	PlayerID int64

	side          *deck.Color
	defaulted     bool
	active        bool
	removedReason string
	balance       int
}

func newParticipant(id int64) *Participant {
	return &Participant{
		PlayerID: id,
		active:   true,
	}
}

// newRound clears the per-round pick state.
func (p *Participant) newRound() {
	p.side = nil
	p.defaulted = false
}

func (p *Participant) remove(reason string) {
	p.active = false
	p.removedReason = reason
	p.side = nil
}
