package gamefactory

import (
	"github.com/sirupsen/logrus"

	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/playable/plunder"
	"sidegame-server/pkg/round"
)

type plunderFactory struct{}

func (f plunderFactory) CreateGame(logger logrus.FieldLogger, playerIDs []int64, additionalData playable.AdditionalData, seed int64, sched *round.Scheduler) (playable.Playable, error) {
	return plunder.NewGame(logger, playerIDs, getPlunderOptions(additionalData), seed, sched)
}

func (f plunderFactory) Details(additionalData playable.AdditionalData) (string, int, error) {
	opts := getPlunderOptions(additionalData)
	if err := opts.Validate(); err != nil {
		return "", 0, err
	}

	return "Plunder", opts.Ante, nil
}

func getPlunderOptions(data playable.AdditionalData) plunder.Options {
	opts := plunder.DefaultOptions()
	if ante, _ := data.GetInt("ante"); ante > 0 {
		opts.Ante = ante
	}

	if rounds, _ := data.GetInt("rounds"); rounds > 0 {
		opts.Rounds = rounds
	}

	if dice, _ := data.GetInt("diceCount"); dice > 0 {
		opts.DiceCount = dice
	}

	if rakePct, ok := data.GetInt("rakePct"); ok {
		opts.RakePct = rakePct
	}

	return opts
}
