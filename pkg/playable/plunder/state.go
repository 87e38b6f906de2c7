package plunder

import (
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
)

// GameState is the game state broadcast to every participant. Dice only exist
// once a round resolves, so there is nothing to hide mid-round.
type GameState struct {
	Phase        round.Phase            `json:"phase"`
	Round        int                    `json:"round"`
	Rounds       int                    `json:"rounds"`
	Ante         int                    `json:"ante"`
	Participants map[int64]*participant `json:"participants"`
	LastResult   *RoundResult           `json:"lastResult"`
}

type participant struct {
	PlayerID int64 `json:"playerId"`
	Shaken   bool  `json:"shaken"`
	Dice     []int `json:"dice,omitempty"`
	Skulls   int   `json:"skulls"`
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
			Shaken:   gp.shaken,
			Dice:     gp.dice,
			Skulls:   gp.skulls,
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

	if len(g.results) > 0 {
		state.LastResult = g.results[len(g.results)-1]
	}

	actions := make([]string, 0, 1)
	if g.machine.Phase() == round.PhaseDecision && p.active && !p.shaken {
		actions = append(actions, "shake")
	}

	return &playable.Response{
		Key: "game",
		Data: &playerState{
			GameState:        state,
			AvailableActions: actions,
		},
	}, nil
}
