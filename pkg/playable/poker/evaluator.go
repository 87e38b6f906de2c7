package poker

import (
	"fmt"
	"sort"

	"sidegame-server/pkg/deck"
)

// Hand is a poker hand, i.e., royal flush
type Hand int

// Constants for hand
const (
	HighCard Hand = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a hand
func (h Hand) String() string {
	switch h {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	case RoyalFlush:
		return "Royal flush"
	default:
		panic(fmt.Sprintf("unknown hand: %d", h))
	}
}

// HandValue is the strength of a best five-card hand
type HandValue struct {
	Hand      Hand         `json:"hand"`
	Tiebreaks []int        `json:"tiebreaks"`
	Cards     []*deck.Card `json:"cards"`
}

// Compare returns <0 if v is weaker than o, >0 if stronger, 0 on a dead tie
func (v *HandValue) Compare(o *HandValue) int {
	if v.Hand != o.Hand {
		return int(v.Hand) - int(o.Hand)
	}

	for i := range v.Tiebreaks {
		if i >= len(o.Tiebreaks) {
			break
		}

		if v.Tiebreaks[i] != o.Tiebreaks[i] {
			return v.Tiebreaks[i] - o.Tiebreaks[i]
		}
	}

	return 0
}

// BestHand returns the strongest five-card hand available from the hole and
// community cards. holeCardsUsed > 0 forces exactly that many hole cards into
// every candidate hand (the omaha rule); zero allows any combination.
func BestHand(hole, community []*deck.Card, holeCardsUsed int) *HandValue {
	var best *HandValue

	consider := func(cards []*deck.Card) {
		v := score5(cards)
		if best == nil || v.Compare(best) > 0 {
			best = v
		}
	}

	if holeCardsUsed <= 0 {
		pool := make([]*deck.Card, 0, len(hole)+len(community))
		pool = append(pool, hole...)
		pool = append(pool, community...)

		combinations(len(pool), 5, func(idx []int) {
			hand := make([]*deck.Card, 5)
			for i, j := range idx {
				hand[i] = pool[j]
			}
			consider(hand)
		})

		return best
	}

	combinations(len(hole), holeCardsUsed, func(holeIdx []int) {
		combinations(len(community), 5-holeCardsUsed, func(commIdx []int) {
			hand := make([]*deck.Card, 0, 5)
			for _, j := range holeIdx {
				hand = append(hand, hole[j])
			}
			for _, j := range commIdx {
				hand = append(hand, community[j])
			}
			consider(hand)
		})
	})

	return best
}

// combinations calls fn with every k-element index subset of [0, n).
// The slice passed to fn is reused between calls.
func combinations(n, k int, fn func(idx []int)) {
	if k > n || k < 0 {
		return
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		fn(idx)

		// advance the rightmost index that can still move
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}

		if i < 0 {
			return
		}

		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// score5 ranks exactly five cards
func score5(cards []*deck.Card) *HandValue {
	if len(cards) != 5 {
		panic(fmt.Sprintf("scored a %d-card hand", len(cards)))
	}

	counts := make(map[int]int)
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// group ranks by count, then by rank, most significant first
	ranks := make([]int, 0, len(counts))
	for rank := range counts {
		ranks = append(ranks, rank)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if counts[ranks[i]] != counts[ranks[j]] {
			return counts[ranks[i]] > counts[ranks[j]]
		}
		return ranks[i] > ranks[j]
	})

	straightHigh := straightHighCard(ranks)

	held := make([]*deck.Card, len(cards))
	copy(held, cards)
	sort.Slice(held, func(i, j int) bool {
		return held[i].Rank > held[j].Rank
	})

	value := func(hand Hand, tiebreaks ...int) *HandValue {
		return &HandValue{
			Hand:      hand,
			Tiebreaks: tiebreaks,
			Cards:     held,
		}
	}

	switch {
	case flush && straightHigh == deck.Ace:
		return value(RoyalFlush)
	case flush && straightHigh > 0:
		return value(StraightFlush, straightHigh)
	case counts[ranks[0]] == 4:
		return value(FourOfAKind, ranks...)
	case counts[ranks[0]] == 3 && counts[ranks[1]] == 2:
		return value(FullHouse, ranks...)
	case flush:
		return value(Flush, ranks...)
	case straightHigh > 0:
		return value(Straight, straightHigh)
	case counts[ranks[0]] == 3:
		return value(ThreeOfAKind, ranks...)
	case counts[ranks[0]] == 2 && counts[ranks[1]] == 2:
		return value(TwoPair, ranks...)
	case counts[ranks[0]] == 2:
		return value(OnePair, ranks...)
	}

	return value(HighCard, ranks...)
}

// straightHighCard returns the high card of a five-card straight, or zero.
// The wheel (A-2-3-4-5) plays with a high card of five.
func straightHighCard(ranks []int) int {
	if len(ranks) != 5 {
		return 0
	}

	sorted := make([]int, len(ranks))
	copy(sorted, ranks)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	if sorted[0] == deck.Ace && sorted[1] == 5 {
		sorted = []int{5, 4, 3, 2, 1}
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1]-sorted[i] != 1 {
			return 0
		}
	}

	return sorted[0]
}
