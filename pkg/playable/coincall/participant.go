package coincall

// Participant is a player in a game of coin call.
type Participant struct {
	PlayerID int64

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

func (p *Participant) remove(reason string) {
	p.active = false
	p.removedReason = reason
}
