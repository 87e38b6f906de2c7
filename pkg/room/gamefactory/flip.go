package gamefactory

import (
	"github.com/sirupsen/logrus"

	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/playable/flip"
	"sidegame-server/pkg/round"
)

type flipFactory struct{}

func (f flipFactory) CreateGame(logger logrus.FieldLogger, playerIDs []int64, additionalData playable.AdditionalData, seed int64, sched *round.Scheduler) (playable.Playable, error) {
	return flip.NewGame(logger, playerIDs, getFlipOptions(additionalData), seed, sched)
}

func (f flipFactory) Details(additionalData playable.AdditionalData) (string, int, error) {
	opts := getFlipOptions(additionalData)
	if err := opts.Validate(); err != nil {
		return "", 0, err
	}

	return "Flip", opts.Ante, nil
}

func getFlipOptions(data playable.AdditionalData) flip.Options {
	opts := flip.DefaultOptions()
	if ante, _ := data.GetInt("ante"); ante > 0 {
		opts.Ante = ante
	}

	if rounds, _ := data.GetInt("rounds"); rounds > 0 {
		opts.Rounds = rounds
	}

	if rakePct, ok := data.GetInt("rakePct"); ok {
		opts.RakePct = rakePct
	}

	return opts
}
