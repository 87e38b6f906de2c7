package poker

import "errors"

// ErrNotInDecisionPhase is returned when a stay or fold arrives outside the decision window
var ErrNotInDecisionPhase = errors.New("not accepting decisions right now")

// ErrAlreadyDecided is returned when a player decides twice in one hand
var ErrAlreadyDecided = errors.New("you already decided this hand")

// ErrNotDealtIn is returned when a player without cards tries to act
var ErrNotDealtIn = errors.New("you are not dealt in this hand")

// ErrPlayerNotFound is returned when a player is not in this game
var ErrPlayerNotFound = errors.New("player not found")

// ErrAlreadySeated is returned when a seated player tries to join again
var ErrAlreadySeated = errors.New("you already have a seat")

// ErrPlayerRemoved is returned when a removed player attempts an action
var ErrPlayerRemoved = errors.New("you are no longer in the game")

// ErrGameIsOver is returned when an action is attempted on an ended game
var ErrGameIsOver = errors.New("game is over")

// ErrNotEnoughPlayers is returned when there aren't enough players
var ErrNotEnoughPlayers = errors.New("need at least two players")
