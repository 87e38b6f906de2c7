package room

import (
	"sidegame-server/pkg/playable"
)

type clientStatePlayer struct {
	*Player
	IsConnected bool `json:"isConnected"`
}

func newErrorResponse(ctx string, err error) *playable.Response {
	return &playable.Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}
