package lastbreath

import (
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
)

// GameState is the run state broadcast to every participant.
// These values must be safe for anyone at the table to see.
type GameState struct {
	Phase        round.Phase            `json:"phase"`
	Step         int                    `json:"step"`
	Environment  Environment            `json:"environment"`
	Bid          int                    `json:"bid"`
	AdvanceMode  AdvanceMode            `json:"advanceMode"`
	Participants map[int64]*Participant `json:"participants"`
	LastEvent    *StepEvent             `json:"lastEvent"`
	Terminal     ExitReason             `json:"terminal,omitempty"`

	// RNGDraws lets an auditor verify the run's draw counter without
	// revealing the seed while the run is live
	RNGDraws uint64 `json:"rngDraws"`
}

type participantState struct {
	*GameState
	AvailableActions []string `json:"availableActions"`
}

// GetPlayerState returns the current state of the game for the player
func (g *Game) GetPlayerState(playerID int64) (*playable.Response, error) {
	participant, ok := g.idToParticipant[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	state := &GameState{
		Phase:        g.machine.Phase(),
		Step:         g.step,
		Environment:  g.env,
		Bid:          g.options.Bid,
		AdvanceMode:  g.options.AdvanceMode,
		Participants: g.idToParticipant,
		Terminal:     g.terminal,
		RNGDraws:     g.src.Draws(),
	}

	if len(g.events) > 0 {
		state.LastEvent = g.events[len(g.events)-1]
	}

	return &playable.Response{
		Key: "game",
		Data: &participantState{
			GameState:        state,
			AvailableActions: g.availableActions(participant),
		},
	}, nil
}

func (g *Game) availableActions(p *Participant) []string {
	actions := make([]string, 0, 2)

	switch g.machine.Phase() {
	case round.PhaseLobby:
		actions = append(actions, "start")
	case round.PhaseDecision:
		if p.Active() {
			actions = append(actions, "surface")
			if g.options.AdvanceMode == ModeSync && !p.decided {
				actions = append(actions, "stay")
			}
		}
	}

	return actions
}
