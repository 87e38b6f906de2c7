package settle

// BountyOptions configures the side-settlement pass.
// TokenValue is the per-token amount in cents. When a holder's token count
// reaches TierThreshold, every one of their tokens is worth TokenValue times
// TierMultiplier.
type BountyOptions struct {
	TokenValue     int
	TierThreshold  int
	TierMultiplier int
}

// TokenWorth returns what a holding of the given size pays per token
func (o BountyOptions) TokenWorth(tokens int) int {
	if o.TierThreshold > 0 && tokens >= o.TierThreshold {
		return o.TokenValue * o.TierMultiplier
	}

	return o.TokenValue
}

// Bounty runs the side-settlement pass. Participants holding no tokens pay
// every token holder that holder's full token value. The payments come out of
// each payer's table stake directly and never touch the main pot, so the
// record's pot is the sum of payments and carries no rake.
func Bounty(tokens map[int64]int, participants []int64, opts BountyOptions) *Record {
	type holding struct {
		id    int64
		value int
	}

	holders := make([]holding, 0, len(participants))
	payers := make([]int64, 0, len(participants))
	for _, id := range participants {
		if n := tokens[id]; n > 0 {
			holders = append(holders, holding{id: id, value: n * opts.TokenWorth(n)})
		} else {
			payers = append(payers, id)
		}
	}

	record := &Record{}
	if len(holders) == 0 || len(payers) == 0 {
		return record
	}

	entries := make([]Entry, 0, len(holders)+len(payers))
	for _, payer := range payers {
		owed := 0
		for _, h := range holders {
			owed += h.value
		}

		record.Pot += owed
		entries = append(entries, Entry{
			PlayerID: payer,
			Amount:   -owed,
			Reason:   "paid bounties",
		})
	}

	for _, h := range holders {
		entries = append(entries, Entry{
			PlayerID: h.id,
			Amount:   h.value * len(payers),
			Reason:   "collected bounties",
		})
	}

	record.Entries = entries
	return record
}
