package plunder

import "errors"

// ErrNotInDecisionPhase is returned when a shake arrives outside the decision window
var ErrNotInDecisionPhase = errors.New("not accepting shakes right now")

// ErrAlreadyShaken is returned when a player shakes twice in one round
var ErrAlreadyShaken = errors.New("you already shook this round")

// ErrPlayerNotFound is returned when a player is not in this game
var ErrPlayerNotFound = errors.New("player not found")

// ErrPlayerRemoved is returned when a removed player attempts an action
var ErrPlayerRemoved = errors.New("you are no longer in the game")

// ErrGameIsOver is returned when an action is attempted on an ended game
var ErrGameIsOver = errors.New("game is over")

// ErrNotEnoughPlayers is returned when there aren't enough players
var ErrNotEnoughPlayers = errors.New("need at least two players")
