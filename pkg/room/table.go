package room

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"sidegame-server/pkg/token"
)

// ErrTableNotFound is returned when a table UUID is unknown
var ErrTableNotFound = errors.New("table not found")

// ErrPlayerNotSeated is returned when a player ID is not seated at the table
var ErrPlayerNotSeated = errors.New("player is not seated at this table")

// Player is a seat at a table. The ID is assigned at join time and is stable
// for the life of the table; it is never a transport-session identifier.
type Player struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	TableStake  int       `json:"tableStake"`
	Active      bool      `json:"active"`
	Joined      time.Time `json:"joined"`

	// lastSeen is when the player last had a live connection; a seat with
	// no connection is a placeholder until the inactivity sweep reaps it
	lastSeen time.Time
}

// Table is one table's seats and session bindings, held in memory
type Table struct {
	UUID    string    `json:"uuid"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`

	mu           sync.RWMutex
	nextPlayerID int64
	players      []*Player
	idToPlayer   map[int64]*Player

	// sessions maps a session token to a seat. The token is issued once at
	// seat time and is the only credential a websocket needs; it is
	// deliberately separate from player identity.
	sessions map[string]int64
}

func newTable(name string, now time.Time) *Table {
	return &Table{
		UUID:       uuid.New().String(),
		Name:       name,
		Created:    now,
		idToPlayer: make(map[int64]*Player),
		sessions:   make(map[string]int64),
	}
}

// Join seats a new player and returns their stable identity
func (t *Table) Join(displayName string, tableStake int, now time.Time) *Player {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextPlayerID++
	p := &Player{
		ID:          t.nextPlayerID,
		DisplayName: displayName,
		TableStake:  tableStake,
		Active:      true,
		Joined:      now,
		lastSeen:    now,
	}

	t.players = append(t.players, p)
	t.idToPlayer[p.ID] = p
	return p
}

// Player returns the seat for the given ID
func (t *Table) Player(id int64) (*Player, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, found := t.idToPlayer[id]
	return p, found
}

// Players returns the seats in join order
func (t *Table) Players() []*Player {
	t.mu.RLock()
	defer t.mu.RUnlock()

	players := make([]*Player, len(t.players))
	copy(players, t.players)
	return players
}

// ActivePlayerIDs returns the IDs of every active seat, in join order
func (t *Table) ActivePlayerIDs() []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.players))
	for _, p := range t.players {
		if p.Active {
			ids = append(ids, p.ID)
		}
	}

	return ids
}

const sessionTokenLength = 40

// IssueSession mints a session token for a seat. Losing the websocket does
// not invalidate the token; a reconnect presents the same one.
func (t *Table) IssueSession(playerID int64, now time.Time) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, found := t.idToPlayer[playerID]
	if !found {
		return "", ErrPlayerNotSeated
	}

	sessionID, err := token.Generate(sessionTokenLength)
	if err != nil {
		return "", err
	}

	t.sessions[sessionID] = playerID
	p.lastSeen = now
	return sessionID, nil
}

// PlayerBySession resolves a session token to a seat
func (t *Table) PlayerBySession(sessionID string) (*Player, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	playerID, found := t.sessions[sessionID]
	if !found {
		return nil, false
	}

	p, found := t.idToPlayer[playerID]
	return p, found
}

// TouchPlayer records activity for a seat so the sweep won't reap it yet
func (t *Table) TouchPlayer(playerID int64, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, found := t.idToPlayer[playerID]; found {
		p.lastSeen = now
	}
}

// reapIdle removes seats not in the connected set that haven't been seen
// since the cutoff. Returns the reaped players. The caller must ensure no
// game is running; mid-round seats are never reaped.
func (t *Table) reapIdle(cutoff time.Time, connected map[int64]bool) []*Player {
	t.mu.Lock()
	defer t.mu.Unlock()

	var reaped []*Player
	kept := t.players[:0]
	for _, p := range t.players {
		if !connected[p.ID] && p.lastSeen.Before(cutoff) {
			delete(t.idToPlayer, p.ID)
			for sessionID, playerID := range t.sessions {
				if playerID == p.ID {
					delete(t.sessions, sessionID)
				}
			}

			reaped = append(reaped, p)
			continue
		}

		kept = append(kept, p)
	}

	t.players = kept
	return reaped
}

// Tables is the in-memory table registry
type Tables struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewTables returns an empty registry
func NewTables() *Tables {
	return &Tables{
		tables: make(map[string]*Table),
	}
}

// Create makes a new table
func (r *Tables) Create(name string, now time.Time) *Table {
	t := newTable(name, now)

	r.mu.Lock()
	r.tables[t.UUID] = t
	r.mu.Unlock()

	return t
}

// Get returns the table with the given UUID
func (r *Tables) Get(uuid string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, found := r.tables[uuid]
	if !found {
		return nil, ErrTableNotFound
	}

	return t, nil
}

// List returns every table
func (r *Tables) List() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		tables = append(tables, t)
	}

	return tables
}
