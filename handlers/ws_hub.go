package handlers

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Connection represents a WebSocket connection and the player behind it.
// playerID is minted per connection and is the in-game identity; accountID
// and username come from the JWT claims.
type Connection struct {
	ws        *websocket.Conn
	send      chan []byte
	playerID  string
	accountID string
	username  string
}

// Hub maintains the per-room subscriber sets and fans broadcasts out to them.
// Subscribing, unregistering and broadcasting are synchronous, so a caller
// that broadcasts right after subscribing knows the new subscriber is
// included. The sends themselves never block: a subscriber whose buffer is
// full is dropped.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Connection]bool
	conns map[*Connection]map[string]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Connection]bool),
		conns: make(map[*Connection]map[string]bool),
	}
}

// Register makes the hub track a new connection.
func (h *Hub) Register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		h.conns[c] = make(map[string]bool)
	}
}

// Subscribe attaches a connection to a room's subscriber set.
func (h *Hub) Subscribe(c *Connection, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		return
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Connection]bool)
	}
	h.rooms[room][c] = true
	h.conns[c][room] = true
}

// Rooms lists the rooms a connection is subscribed to.
func (h *Hub) Rooms(c *Connection) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	rooms := make([]string, 0, len(h.conns[c]))
	for room := range h.conns[c] {
		rooms = append(rooms, room)
	}
	return rooms
}

// Unregister detaches a connection from every room and closes its send
// channel. Empty subscriber sets stay behind, mirroring the rooms themselves,
// which are never deleted either.
func (h *Hub) Unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// Broadcast sends a message to every subscriber of a room, fire-and-forget.
// Subscribers that cannot keep up are disconnected.
func (h *Hub) Broadcast(room string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for connection := range h.rooms[room] {
		select {
		case connection.send <- message:
		default:
			h.drop(connection)
		}
	}
}

// drop removes a connection from every room and closes its send channel.
// Callers must hold h.mu.
func (h *Hub) drop(c *Connection) {
	subs, ok := h.conns[c]
	if !ok {
		return
	}
	for room := range subs {
		delete(h.rooms[room], c)
	}
	delete(h.conns, c)
	close(c.send)
}
