package gamefactory

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/playable/poker"
	"sidegame-server/pkg/playable/poker/rules"
	"sidegame-server/pkg/round"
)

type pokerFactory struct {
	rules *rules.Registry
}

func (f pokerFactory) CreateGame(logger logrus.FieldLogger, playerIDs []int64, additionalData playable.AdditionalData, seed int64, sched *round.Scheduler) (playable.Playable, error) {
	return poker.NewGame(logger, playerIDs, getPokerOptions(additionalData), seed, sched, f.rules)
}

func (f pokerFactory) Details(additionalData playable.AdditionalData) (string, int, error) {
	opts := getPokerOptions(additionalData)
	if err := opts.Validate(); err != nil {
		return "", 0, err
	}

	if _, found := f.rules.Get(opts.Variant); !found {
		return "", 0, fmt.Errorf("unknown variant: %s", opts.Variant)
	}

	return fmt.Sprintf("Poker (%s)", opts.Variant), opts.Ante, nil
}

func getPokerOptions(data playable.AdditionalData) poker.Options {
	opts := poker.DefaultOptions()
	if variant, ok := data.GetString("variant"); ok {
		opts.Variant = variant
	}

	if ante, _ := data.GetInt("ante"); ante > 0 {
		opts.Ante = ante
	}

	if hands, _ := data.GetInt("hands"); hands > 0 {
		opts.Hands = hands
	}

	if rakePct, ok := data.GetInt("rakePct"); ok {
		opts.RakePct = rakePct
	}

	return opts
}
