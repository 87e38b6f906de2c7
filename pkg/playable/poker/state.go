package poker

import (
	"sidegame-server/pkg/deck"
	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/round"
)

// GameState is the game state broadcast to every participant. Hole cards
// other than your own only appear once a showdown or a variant reveal has
// put them face up.
type GameState struct {
	Phase        round.Phase            `json:"phase"`
	Variant      string                 `json:"variant"`
	Hand         int                    `json:"hand"`
	Hands        int                    `json:"hands"`
	Ante         int                    `json:"ante"`
	Pot          int                    `json:"pot"`
	Locked       bool                   `json:"locked"`
	Community    []*deck.Card           `json:"community"`
	Participants map[int64]*participant `json:"participants"`
	LastResult   *HandResult            `json:"lastResult"`
}

type participant struct {
	PlayerID int64        `json:"playerId"`
	Hole     []*deck.Card `json:"hole,omitempty"`
	DealtIn  bool         `json:"dealtIn"`
	Decided  bool         `json:"decided"`
	Tokens   int          `json:"tokens"`
	Active   bool         `json:"active"`
	Balance  int          `json:"balance"`
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

	revealed := make(map[int64]bool)
	if len(g.results) > 0 {
		last := g.results[len(g.results)-1]
		if last.Hand == g.handNumber && last.Revealed {
			for _, s := range last.Showdown {
				revealed[s.PlayerID] = true
			}
		}
	}

	participants := make(map[int64]*participant)
	pot := 0
	for _, gp := range g.participants {
		view := &participant{
			PlayerID: gp.PlayerID,
			DealtIn:  gp.dealtIn,
			Decided:  gp.decided,
			Tokens:   gp.tokens,
			Active:   gp.active,
			Balance:  gp.balance,
		}

		if gp == p || revealed[gp.PlayerID] {
			view.Hole = gp.hole
		}

		participants[gp.PlayerID] = view
		pot += g.pot[gp.PlayerID]
	}

	state := &GameState{
		Phase:        g.machine.Phase(),
		Variant:      g.bundle.ID,
		Hand:         g.handNumber,
		Hands:        g.options.Hands,
		Ante:         g.options.Ante,
		Pot:          pot,
		Locked:       g.locked,
		Community:    g.community,
		Participants: participants,
	}

	if len(g.results) > 0 {
		state.LastResult = g.results[len(g.results)-1]
	}

	actions := make([]string, 0, 2)
	if g.machine.Phase() == round.PhaseDecision && p.active && p.dealtIn && !p.decided {
		actions = append(actions, "stay", "fold")
	}

	return &playable.Response{
		Key: "game",
		Data: &playerState{
			GameState:        state,
			AvailableActions: actions,
		},
	}, nil
}
