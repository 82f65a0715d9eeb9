package game

import (
	"fmt"
	"math/rand"
	"sync"
)

// Phase tags which actions are currently meaningful for a room. The engine
// itself never gates on it; clients use it to drive their UI, matching the
// reference protocol.
type Phase string

const (
	PhaseRolling Phase = "rolling"
	PhaseAction  Phase = "action"
	PhaseEnded   Phase = "ended"
)

const (
	StartingCash = 1500
	GoBonus      = 200
)

// Player is one participant in a room.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Cash   int    `json:"cash"`
	Pos    int    `json:"pos"`
	Owned  []int  `json:"owned"`
	InJail int    `json:"inJail"`
	Color  string `json:"color"`
}

// Room holds one isolated game session. All mutating operations lock the
// room, so distinct rooms proceed fully in parallel while actions on the same
// room are serialized. Turn order is kept in an explicit order slice rather
// than relying on map iteration, so ownership checks stay stable when players
// come and go.
type Room struct {
	mu        sync.Mutex
	name      string
	tiles     []Tile
	players   map[string]*Player
	order     []string
	turnIndex int
	phase     Phase
}

// Snapshot is the broadcast-ready copy of a room's state. It shares no
// memory with the live room.
type Snapshot struct {
	Board       []Tile             `json:"board"`
	Players     map[string]*Player `json:"players"`
	Order       []string           `json:"order"`
	CurrentTurn int                `json:"currentTurn"`
	Phase       Phase              `json:"phase"`
}

func NewRoom(name string) *Room {
	return &Room{
		name:    name,
		tiles:   NewBoard(),
		players: make(map[string]*Player),
		phase:   PhaseRolling,
	}
}

func (r *Room) Name() string { return r.name }

// Join inserts a new player with starting cash at GO. It reports whether the
// room changed; joining twice with the same id is a no-op. Turn index and
// phase are left untouched.
func (r *Room) Join(id, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; ok {
		return false
	}
	r.players[id] = &Player{
		ID:    id,
		Name:  name,
		Cash:  StartingCash,
		Owned: []int{},
		Color: fmt.Sprintf("hsl(%d,70%%,50%%)", rand.Intn(360)),
	}
	r.order = append(r.order, id)
	return true
}

// RollDice moves the current player by the sum of two dice, wrapping around
// the board. Landing on GO pays the bonus. The turn does not advance; the
// player still has to buy or end the turn. Acting out of turn is a silent
// no-op.
func (r *Room) RollDice(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isTurn(id) {
		return false
	}
	p := r.players[id]
	d1 := rand.Intn(6) + 1
	d2 := rand.Intn(6) + 1
	p.Pos = (p.Pos + d1 + d2) % BoardSize
	if p.Pos == 0 {
		p.Cash += GoBonus
	}
	r.phase = PhaseAction
	return true
}

// BuyProperty sells the tile at pos to the current player if it is
// purchasable, unowned, and affordable, then advances the turn. There is
// deliberately no check that the player is standing on the tile; ownership,
// price, and cash are the only gates, as in the reference rules. Any failed
// precondition leaves the room untouched.
func (r *Room) BuyProperty(id string, pos int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isTurn(id) {
		return false
	}
	if pos < 0 || pos >= len(r.tiles) {
		return false
	}
	p := r.players[id]
	tile := &r.tiles[pos]
	if tile.Price == 0 || tile.Owner != "" || p.Cash < tile.Price {
		return false
	}
	p.Cash -= tile.Price
	tile.Owner = id
	p.Owned = append(p.Owned, pos)
	r.phase = PhaseEnded
	r.nextTurn()
	return true
}

// EndTurn passes the turn to the next player without a transaction.
func (r *Room) EndTurn(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isTurn(id) {
		return false
	}
	r.nextTurn()
	return true
}

// RemovePlayer drops a player from the room, keeping the turn index valid
// against the remaining order. The departed slot is skipped, not preserved:
// if the current turn holder leaves, the turn falls to whoever was next.
// Owned tiles are not released.
func (r *Room) RemovePlayer(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			if i < r.turnIndex {
				r.turnIndex--
			}
			break
		}
	}
	if len(r.order) == 0 {
		r.turnIndex = 0
	} else {
		r.turnIndex = r.turnIndex % len(r.order)
	}
	return true
}

// PlayerName returns the display name for a player id.
func (r *Room) PlayerName(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok {
		return "", false
	}
	return p.Name, true
}

// CurrentPlayer returns the id of the turn holder, if any.
func (r *Room) CurrentPlayer() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) == 0 {
		return "", false
	}
	return r.order[r.turnIndex], true
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Snapshot deep-copies the room for broadcasting, so marshalling never races
// with the next action.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	board := make([]Tile, len(r.tiles))
	copy(board, r.tiles)

	players := make(map[string]*Player, len(r.players))
	for id, p := range r.players {
		cp := *p
		cp.Owned = append([]int{}, p.Owned...)
		players[id] = &cp
	}

	order := make([]string, len(r.order))
	copy(order, r.order)

	return Snapshot{
		Board:       board,
		Players:     players,
		Order:       order,
		CurrentTurn: r.turnIndex,
		Phase:       r.phase,
	}
}

// isTurn is the turn-ownership check, resolved fresh against the current
// order on every call. Callers must hold r.mu.
func (r *Room) isTurn(id string) bool {
	return len(r.order) > 0 && r.order[r.turnIndex] == id
}

// nextTurn advances the turn and resets the phase. Callers must hold r.mu.
func (r *Room) nextTurn() {
	if len(r.order) == 0 {
		return
	}
	r.turnIndex = (r.turnIndex + 1) % len(r.order)
	r.phase = PhaseRolling
}
