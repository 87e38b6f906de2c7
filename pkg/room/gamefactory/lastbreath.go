package gamefactory

import (
	"github.com/sirupsen/logrus"

	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/playable/lastbreath"
	"sidegame-server/pkg/round"
)

type lastBreathFactory struct{}

func (f lastBreathFactory) CreateGame(logger logrus.FieldLogger, playerIDs []int64, additionalData playable.AdditionalData, seed int64, sched *round.Scheduler) (playable.Playable, error) {
	return lastbreath.NewGame(logger, playerIDs, getLastBreathOptions(additionalData), seed, sched)
}

func (f lastBreathFactory) Details(additionalData playable.AdditionalData) (string, int, error) {
	opts := getLastBreathOptions(additionalData)
	if err := opts.Validate(); err != nil {
		return "", 0, err
	}

	return "Last Breath", opts.Bid, nil
}

func getLastBreathOptions(data playable.AdditionalData) lastbreath.Options {
	opts := lastbreath.DefaultOptions()
	if bid, _ := data.GetInt("bid"); bid > 0 {
		opts.Bid = bid
	}

	if mode, ok := data.GetString("advanceMode"); ok {
		opts.AdvanceMode = lastbreath.AdvanceMode(mode)
	}

	return opts
}
