package settle

import (
	"github.com/stretchr/testify/assert"
	"testing"

	"sidegame-server/pkg/snapshot"
)

func TestApplyRake(t *testing.T) {
	a := assert.New(t)

	// $10 pot at 5% is a $0.50 rake
	a.Equal(50, ApplyRake(1000, 5, 0))

	// floor, never round up
	a.Equal(4, ApplyRake(99, 5, 0))
	a.Equal(0, ApplyRake(19, 5, 0))

	// capped
	a.Equal(25, ApplyRake(1000, 5, 25))

	a.Equal(0, ApplyRake(1000, 0, 0))
	a.Equal(1000, ApplyRake(1000, 100, 0))
	a.Equal(0, ApplyRake(0, 5, 0))
}

func TestApplyRake_netNeverNegative(t *testing.T) {
	a := assert.New(t)

	for gross := 0; gross <= 500; gross += 7 {
		for pct := 0; pct <= 100; pct += 5 {
			rake := ApplyRake(gross, pct, 0)
			a.GreaterOrEqual(rake, 0)
			a.GreaterOrEqual(gross-rake, 0)
		}
	}
}

func TestApplyRake_outOfRangePanics(t *testing.T) {
	assert.Panics(t, func() {
		ApplyRake(100, 101, 0)
	})
}

func TestWinnerTakesPot(t *testing.T) {
	a := assert.New(t)

	// coin call scenario: $5 antes, two players, 5% rake
	record, err := WinnerTakesPot(map[int64]int{1: 500, 2: 500}, []int64{2}, 5, 0)
	a.NoError(err)
	a.Equal(1000, record.Pot)
	a.Equal(50, record.Rake)
	a.NoError(record.Balanced())

	net := 0
	for _, e := range record.Entries {
		if e.PlayerID == 2 && e.Amount > 0 {
			net = e.Amount
		}
	}
	a.Equal(950, net)

	snapshot.ValidateSnapshot(t, record, 0)
}

func TestWinnerTakesPot_splitRemainderStaysWithHouse(t *testing.T) {
	a := assert.New(t)

	record, err := WinnerTakesPot(map[int64]int{1: 100, 2: 100, 3: 100}, []int64{1, 2}, 0, 0)
	a.NoError(err)
	a.Equal(300, record.Pot)
	a.NoError(record.Balanced())

	credits := 0
	for _, e := range record.Entries {
		if e.Amount > 0 {
			a.Equal(150, e.Amount)
			credits += e.Amount
		}
	}

	// 300 splits evenly here; force a remainder with three winners
	record, err = WinnerTakesPot(map[int64]int{1: 100, 2: 100, 3: 100, 4: 100}, []int64{1, 2, 3}, 0, 0)
	a.NoError(err)
	a.NoError(record.Balanced())
	for _, e := range record.Entries {
		if e.Amount > 0 {
			a.Equal(133, e.Amount)
		}
	}
}

func TestWinnerTakesPot_noWinners(t *testing.T) {
	_, err := WinnerTakesPot(map[int64]int{1: 100}, nil, 0, 0)
	assert.ErrorIs(t, err, ErrNoWinners)
}

func TestMatchup(t *testing.T) {
	a := assert.New(t)

	// flip scenario: red beats black by one card at a $1 unit
	record, err := Matchup([]int64{1}, []int64{2}, 100, 0, 0)
	a.NoError(err)
	a.Equal(100, record.Pot)
	a.NoError(record.Balanced())

	for _, e := range record.Entries {
		switch e.PlayerID {
		case 1:
			a.Equal(100, e.Amount)
		case 2:
			a.Equal(-100, e.Amount)
		}
	}
}

func TestMultiplierPayout(t *testing.T) {
	a := assert.New(t)

	// descent scenario: $1 stake, exit at 1.045x pays $1.04
	a.Equal(104, MultiplierPayout(100, 1.045))
	a.Equal(100, MultiplierPayout(100, 1.0))
	a.Equal(0, MultiplierPayout(100, 0))
	a.Equal(250, MultiplierPayout(100, 2.5))
}

func TestRecord_Balanced(t *testing.T) {
	a := assert.New(t)

	bad := &Record{
		Pot: 200,
		Entries: []Entry{
			{PlayerID: 1, Amount: -100, Reason: "stake"},
			{PlayerID: 2, Amount: 300, Reason: "won pot"},
		},
	}
	a.Error(bad.Balanced())

	overpaid := &Record{
		Pot: 100,
		Entries: []Entry{
			{PlayerID: 1, Amount: -100, Reason: "stake"},
			{PlayerID: 2, Amount: 150, Reason: "won pot"},
		},
	}
	a.Error(overpaid.Balanced())
}
