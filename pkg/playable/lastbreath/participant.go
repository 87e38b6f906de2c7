package lastbreath

import "encoding/json"

// ExitReason is why a diver is no longer in the run
type ExitReason string

// exit reason constants
const (
	// ReasonSurfaced is a voluntary exit
	ReasonSurfaced ExitReason = "surfaced"
	// ReasonTimeout is a voluntary exit substituted for a missed decision
	ReasonTimeout ExitReason = "timeout-default"
	// ReasonOxygen means the shared oxygen supply ran out
	ReasonOxygen ExitReason = "oxygen-depleted"
	// ReasonHull means the shared hull gave way
	ReasonHull ExitReason = "hull-breached"
	// ReasonHazard is the terminal hazard event
	ReasonHazard ExitReason = "hazard"
)

// Participant is an individual diver in the run
type Participant struct {
	// PlayerID is the stable ID of the player
	PlayerID int64

	// active is false once the diver surfaced or was eliminated; an inactive
	// participant is never mutated again except to read their final payout
	active bool

	exitReason ExitReason
	exitStep   int

	// payout in cents; zero on elimination
	payout int

	// how much the player is up or down
	balance int

	// sync mode: whether the diver has decided this step
	decided bool
}

func newParticipant(playerID int64, bid int) *Participant {
	return &Participant{
		PlayerID: playerID,
		active:   true,
		balance:  -bid,
	}
}

// Active returns true while the diver is still in the run
func (p *Participant) Active() bool {
	return p.active
}

// ExitReason returns why the diver left the run, or "" while active
func (p *Participant) ExitReason() ExitReason {
	return p.exitReason
}

// Payout returns the diver's final payout in cents
func (p *Participant) Payout() int {
	return p.payout
}

// Balance returns how much the diver is up or down
func (p *Participant) Balance() int {
	return p.balance
}

// surface pays the diver out at the current multiplier and retires them
func (p *Participant) surface(reason ExitReason, step, payout int) {
	p.active = false
	p.exitReason = reason
	p.exitStep = step
	p.payout = payout
	p.balance += payout
}

// eliminate retires the diver with no payout
func (p *Participant) eliminate(reason ExitReason, step int) {
	p.active = false
	p.exitReason = reason
	p.exitStep = step
}

type participantJSON struct {
	PlayerID   int64      `json:"playerId"`
	Active     bool       `json:"active"`
	ExitReason ExitReason `json:"exitReason,omitempty"`
	ExitStep   int        `json:"exitStep,omitempty"`
	Payout     int        `json:"payout"`
	Balance    int        `json:"balance"`
}

// MarshalJSON encodes the participant without exposing private fields directly
func (p *Participant) MarshalJSON() ([]byte, error) {
	return json.Marshal(participantJSON{
		PlayerID:   p.PlayerID,
		Active:     p.active,
		ExitReason: p.exitReason,
		ExitStep:   p.exitStep,
		Payout:     p.payout,
		Balance:    p.balance,
	})
}
