package settle

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestBounty(t *testing.T) {
	a := assert.New(t)

	// four players, two holding one token each at $5, two holding none
	record := Bounty(map[int64]int{1: 1, 2: 1}, []int64{1, 2, 3, 4}, BountyOptions{
		TokenValue:     500,
		TierThreshold:  3,
		TierMultiplier: 2,
	})

	paid, collected := 0, 0
	byPlayer := make(map[int64]int)
	for _, e := range record.Entries {
		byPlayer[e.PlayerID] += e.Amount
		if e.Amount < 0 {
			paid -= e.Amount
		} else {
			collected += e.Amount
		}
	}

	// each zero-holder pays $10, each holder collects $10
	a.Equal(-1000, byPlayer[3])
	a.Equal(-1000, byPlayer[4])
	a.Equal(1000, byPlayer[1])
	a.Equal(1000, byPlayer[2])

	// payments equal receipts
	a.Equal(paid, collected)
	a.Equal(2000, record.Pot)
	a.Zero(record.Rake)
}

func TestBounty_tierMultiplier(t *testing.T) {
	a := assert.New(t)

	opts := BountyOptions{TokenValue: 500, TierThreshold: 3, TierMultiplier: 2}
	a.Equal(500, opts.TokenWorth(1))
	a.Equal(500, opts.TokenWorth(2))
	a.Equal(1000, opts.TokenWorth(3))
	a.Equal(1000, opts.TokenWorth(5))

	// a single holder at the tier collects tokens x boosted value from each payer
	record := Bounty(map[int64]int{1: 3}, []int64{1, 2, 3}, opts)
	for _, e := range record.Entries {
		switch e.PlayerID {
		case 1:
			a.Equal(6000, e.Amount)
		default:
			a.Equal(-3000, e.Amount)
		}
	}
}

func TestBounty_noHoldersOrNoPayers(t *testing.T) {
	a := assert.New(t)

	opts := BountyOptions{TokenValue: 500}

	record := Bounty(map[int64]int{}, []int64{1, 2}, opts)
	a.Empty(record.Entries)
	a.Zero(record.Pot)

	record = Bounty(map[int64]int{1: 1, 2: 2}, []int64{1, 2}, opts)
	a.Empty(record.Entries)
	a.Zero(record.Pot)
}
