package gamefactory

import (
	"github.com/sirupsen/logrus"

	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/playable/coincall"
	"sidegame-server/pkg/round"
)

type coinCallFactory struct{}

func (f coinCallFactory) CreateGame(logger logrus.FieldLogger, playerIDs []int64, additionalData playable.AdditionalData, seed int64, sched *round.Scheduler) (playable.Playable, error) {
	return coincall.NewGame(logger, playerIDs, getCoinCallOptions(additionalData), seed, sched)
}

func (f coinCallFactory) Details(additionalData playable.AdditionalData) (string, int, error) {
	opts := getCoinCallOptions(additionalData)
	if err := opts.Validate(); err != nil {
		return "", 0, err
	}

	return "Coin Call", opts.Ante, nil
}

func getCoinCallOptions(data playable.AdditionalData) coincall.Options {
	opts := coincall.DefaultOptions()
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
