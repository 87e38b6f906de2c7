package coincall

import "errors"

// ErrNotInDecisionPhase is returned when a call arrives outside the decision window
var ErrNotInDecisionPhase = errors.New("not accepting a call right now")

// ErrNotCaller is returned when someone other than the round's caller tries to call
var ErrNotCaller = errors.New("it is not your call")

// ErrInvalidCall is returned when the call is neither heads nor tails
var ErrInvalidCall = errors.New("call must be heads or tails")

// ErrPlayerNotFound is returned when a player is not in this game
var ErrPlayerNotFound = errors.New("player not found")

// ErrPlayerRemoved is returned when a removed player attempts an action
var ErrPlayerRemoved = errors.New("you are no longer in the game")

// ErrGameIsOver is returned when an action is attempted on an ended game
var ErrGameIsOver = errors.New("game is over")

// ErrNotEnoughPlayers is returned when there aren't enough players
var ErrNotEnoughPlayers = errors.New("need at least two players")
