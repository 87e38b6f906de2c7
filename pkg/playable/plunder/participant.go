package plunder

// Participant is a player in a game of plunder.
type Participant struct {
	PlayerID int64

	shaken        bool
	dice          []int
	skulls        int
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

// newRound clears the per-round roll state
func (p *Participant) newRound() {
	p.shaken = false
	p.dice = nil
	p.skulls = 0
}

func (p *Participant) remove(reason string) {
	p.active = false
	p.removedReason = reason
}
