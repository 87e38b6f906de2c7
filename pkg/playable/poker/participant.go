package poker

import (
	"sidegame-server/pkg/deck"
)

// Participant is a player in a game of poker.
type Participant struct {
	PlayerID int64

	hole    []*deck.Card
	dealtIn bool
	decided bool
	stayed  bool

	tokens        int
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

// newHand clears the per-hand state. The participant is dealt in once cards
// actually land in front of them.
func (p *Participant) newHand() {
	p.hole = nil
	p.dealtIn = false
	p.decided = false
	p.stayed = false
}

func (p *Participant) remove(reason string) {
	p.active = false
	p.removedReason = reason
	p.hole = nil
	p.dealtIn = false
}
