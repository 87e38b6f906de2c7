package round

import (
	"encoding/json"
)

// Phase represents a named state in the round state machine
type Phase int

// constants for Phase
// Each game uses the subset that makes sense for it; lastbreath, for example,
// never passes through Setup because its buy-in happens in the lobby.
const (
	PhaseLobby Phase = iota
	PhaseSetup
	PhaseDecision
	PhaseResolution
	PhaseSettlementDisplay
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseSetup:
		return "setup"
	case PhaseDecision:
		return "decision"
	case PhaseResolution:
		return "resolution"
	case PhaseSettlementDisplay:
		return "settlement-display"
	case PhaseEnd:
		return "end"
	}

	return ""
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}
