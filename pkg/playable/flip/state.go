package flip

import (
	"sidegame-server/pkg/deck"
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
)

// GameState is the game state broadcast to every participant. Picks other
// than your own are withheld until the decision window closes.
type GameState struct {
	Phase        round.Phase            `json:"phase"`
	Round        int                    `json:"round"`
	Rounds       int                    `json:"rounds"`
	Ante         int                    `json:"ante"`
	Participants map[int64]*participant `json:"participants"`
	LastResult   *RoundResult           `json:"lastResult"`
}

type participant struct {
	PlayerID  int64       `json:"playerId"`
	Picked    bool        `json:"picked"`
	Side      *deck.Color `json:"side,omitempty"`
	Defaulted bool        `json:"defaulted,omitempty"`
	Active    bool        `json:"active"`
	Balance   int         `json:"balance"`
}

type playerState struct {
	*GameState
	AvailableActions []string `json:"availableActions"`
}

// GetPlayerState returns the current state of the game for the player
func (g *Game) GetPlayerState(playerID int64) (*playable.Response, error) {
	p, ok := g.idToParticipant[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	revealed := g.machine.Phase() != round.PhaseDecision

	participants := make(map[int64]*participant)
	for _, gp := range g.participants {
		view := &participant{
			PlayerID:  gp.PlayerID,
			Picked:    gp.side != nil,
			Defaulted: gp.defaulted,
			Active:    gp.active,
			Balance:   gp.balance,
		}

		if revealed || gp == p {
			view.Side = gp.side
		}

		participants[gp.PlayerID] = view
	}

	state := &GameState{
		Phase:        g.machine.Phase(),
		Round:        g.roundNumber,
		Rounds:       g.options.Rounds,
		Ante:         g.options.Ante,
		Participants: participants,
	}

	if len(g.results) > 0 {
		state.LastResult = g.results[len(g.results)-1]
	}

	return &playable.Response{
		Key: "game",
		Data: &playerState{
			GameState:        state,
			AvailableActions: g.availableActions(p),
		},
	}, nil
}

func (g *Game) availableActions(p *Participant) []string {
	actions := make([]string, 0, 1)

	if g.machine.Phase() == round.PhaseDecision && p.active && p.side == nil {
		actions = append(actions, "pick")
	}

	return actions
}
