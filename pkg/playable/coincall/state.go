package coincall

import (
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
)

// GameState is the game state broadcast to every participant.
// These values must be safe for anyone at the table to see.
type GameState struct {
	Phase        round.Phase            `json:"phase"`
	Round        int                    `json:"round"`
	Rounds       int                    `json:"rounds"`
	Ante         int                    `json:"ante"`
	CallerID     int64                  `json:"callerId"`
	Participants map[int64]*participant `json:"participants"`
	LastResult   *RoundResult           `json:"lastResult"`
}

type participant struct {
	PlayerID int64 `json:"playerId"`
	Active   bool  `json:"active"`
	Balance  int   `json:"balance"`
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

	participants := make(map[int64]*participant)
	for _, gp := range g.participants {
		participants[gp.PlayerID] = &participant{
			PlayerID: gp.PlayerID,
			Active:   gp.active,
			Balance:  gp.balance,
		}
	}

	state := &GameState{
		Phase:        g.machine.Phase(),
		Round:        g.roundNumber,
		Rounds:       g.options.Rounds,
		Ante:         g.options.Ante,
		Participants: participants,
	}

	if caller := g.Caller(); caller != nil {
		state.CallerID = caller.PlayerID
	}

	if len(g.results) > 0 {
		state.LastResult = g.results[len(g.results)-1]
	}

	actions := make([]string, 0, 1)
	if g.machine.Phase() == round.PhaseDecision && p == g.Caller() {
		actions = append(actions, "call")
	}

	return &playable.Response{
		Key: "game",
		Data: &playerState{
			GameState:        state,
			AvailableActions: actions,
		},
	}, nil
}
