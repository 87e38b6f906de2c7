package lastbreath

import "errors"

// ErrNotInLobby is returned when start is attempted after the dive began
var ErrNotInLobby = errors.New("the dive already started")

// ErrNotDescending is returned when a dive action arrives outside the descent
var ErrNotDescending = errors.New("the dive is not in progress")

// ErrPlayerNotFound is returned when a player is not in this run
var ErrPlayerNotFound = errors.New("player not found")

// ErrAlreadySurfaced is returned when an inactive diver attempts an action
var ErrAlreadySurfaced = errors.New("you are no longer diving")

// ErrAlreadyDecided is returned when a diver decides twice in one step
var ErrAlreadyDecided = errors.New("you already decided this step")

// ErrGameIsOver is returned when an action is attempted on an ended run
var ErrGameIsOver = errors.New("the run is over")
