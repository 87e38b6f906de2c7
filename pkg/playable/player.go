package playable

// Player is a player in a playable game
type Player interface {
	GetPlayerID() int64

	// GetTableStake is the balance the player brought to the table, in cents.
	// A game may never commit a player beyond this amount.
	GetTableStake() int
}
