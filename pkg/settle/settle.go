// Package settle computes payout distributions for finished rounds.
//
// All amounts are integer cents. Rounding is floor everywhere, and every
// integer-division remainder is retained by the house, never granted to a
// winner. The package only produces records; applying them to balances is the
// caller's business.
package settle

import (
	"errors"
	"fmt"
	"sort"
)

// Entry is one signed balance movement for one participant
type Entry struct {
	PlayerID int64  `json:"playerId"`
	Amount   int    `json:"amount"`
	Reason   string `json:"reason"`
}

// Record is the settlement for one round
type Record struct {
	Pot     int     `json:"pot"`
	Rake    int     `json:"rake"`
	Entries []Entry `json:"entries"`
}

// ErrNoWinners is returned when a settlement is requested with no winners
var ErrNoWinners = errors.New("settlement requires at least one winner")

// ApplyRake returns the house's cut of a gross payout.
// rakePct must be in [0, 100]. A cap of 0 means uncapped.
func ApplyRake(gross, rakePct, rakeCap int) int {
	if rakePct < 0 || rakePct > 100 {
		panic(fmt.Sprintf("rake percentage out of range: %d", rakePct))
	}

	if gross <= 0 {
		return 0
	}

	rake := gross * rakePct / 100
	if rakeCap > 0 && rake > rakeCap {
		rake = rakeCap
	}

	return rake
}

// WinnerTakesPot settles a pot built from the given contributions.
// The pot is split evenly among winners; the split remainder and the rake stay
// with the house. Each contributor gets a debit entry, each winner a net
// credit entry.
func WinnerTakesPot(contributions map[int64]int, winners []int64, rakePct, rakeCap int) (*Record, error) {
	if len(winners) == 0 {
		return nil, ErrNoWinners
	}

	contributors := make([]int64, 0, len(contributions))
	for id := range contributions {
		contributors = append(contributors, id)
	}
	sort.Slice(contributors, func(i, j int) bool { return contributors[i] < contributors[j] })

	pot := 0
	entries := make([]Entry, 0, len(contributions)+len(winners))
	for _, id := range contributors {
		pot += contributions[id]
		entries = append(entries, Entry{
			PlayerID: id,
			Amount:   -contributions[id],
			Reason:   "stake",
		})
	}

	share := pot / len(winners)
	totalRake := 0
	for _, id := range winners {
		rake := ApplyRake(share, rakePct, rakeCap)
		totalRake += rake
		entries = append(entries, Entry{
			PlayerID: id,
			Amount:   share - rake,
			Reason:   "won pot",
		})
	}

	return &Record{
		Pot:     pot,
		Rake:    totalRake,
		Entries: entries,
	}, nil
}

// Matchup settles a head-to-head style outcome where each loser pays the
// given amount directly, outside of any pot. The collected total is split
// evenly among winners, remainder to the house.
func Matchup(winners, losers []int64, amount, rakePct, rakeCap int) (*Record, error) {
	if len(winners) == 0 {
		return nil, ErrNoWinners
	}

	entries := make([]Entry, 0, len(winners)+len(losers))
	pot := 0
	for _, id := range losers {
		pot += amount
		entries = append(entries, Entry{
			PlayerID: id,
			Amount:   -amount,
			Reason:   "lost matchup",
		})
	}

	share := pot / len(winners)
	totalRake := 0
	for _, id := range winners {
		rake := ApplyRake(share, rakePct, rakeCap)
		totalRake += rake
		entries = append(entries, Entry{
			PlayerID: id,
			Amount:   share - rake,
			Reason:   "won matchup",
		})
	}

	return &Record{
		Pot:     pot,
		Rake:    totalRake,
		Entries: entries,
	}, nil
}

// MultiplierPayout returns the gross payout for a stake that rode a reward
// multiplier, floored to a whole cent
func MultiplierPayout(stake int, multiplier float64) int {
	if multiplier < 0 {
		return 0
	}

	return int(float64(stake) * multiplier)
}

// Balanced verifies the pre-rake zero-sum invariant: credits plus rake must
// equal the debits that built the pot. A failure here is a programming error
// in the game that produced the record.
func (r *Record) Balanced() error {
	credits, debits := 0, 0
	for _, e := range r.Entries {
		if e.Amount >= 0 {
			credits += e.Amount
		} else {
			debits -= e.Amount
		}
	}

	if debits != r.Pot {
		return fmt.Errorf("debits (%d) do not match the pot (%d)", debits, r.Pot)
	}

	house := r.Pot - credits - r.Rake
	if house < 0 {
		return fmt.Errorf("paid out %d more than the pot", -house)
	}

	return nil
}
