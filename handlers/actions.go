package handlers

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gopoly/gopoly-backend/game"
	"github.com/gopoly/gopoly-backend/models"
)

// processMessage decodes one inbound action and dispatches it. Invalid game
// actions are silent no-ops: nothing is broadcast and no error reaches the
// client, the missing state change is the signal. A malformed payload is
// logged and dropped, and the recover keeps any handler fault from taking the
// process down with it.
func (g *Gateway) processMessage(c *Connection, rawMessage []byte) {
    defer func() {
        if r := recover(); r != nil {
            log.Printf("Recovered from panic handling message from player %s: %v", c.playerID, r)
        }
    }()

    var msg models.ClientMessage
    err := json.Unmarshal(rawMessage, &msg)
    if err != nil {
        log.Printf("Error unmarshalling game message: %v", err)
        return
    }

    switch msg.Event {
    case "joinRoom":
        g.handleJoinRoom(c, msg)
    case "rollDice":
        g.handleRollDice(c, msg)
    case "buyProperty":
        g.handleBuyProperty(c, msg)
    case "endTurn":
        g.handleEndTurn(c, msg)
    case "chat":
        g.handleChat(c, msg)
    default:
        log.Printf("Unhandled game event: %s", msg.Event)
    }
}

func (g *Gateway) handleJoinRoom(c *Connection, msg models.ClientMessage) {
    room := g.registry.GetOrCreate(msg.Room)
    g.hub.Subscribe(c, msg.Room)

    if room.Join(c.playerID, msg.Name) {
        g.recordAction(c, msg.Room, "join", msg.Name)
        g.broadcastState(room)
        log.Printf("Player %s (%s) joined room %s", c.playerID, msg.Name, msg.Room)
    }

    ack := mustMarshal(models.ServerMessage{
        Event: "roomJoined",
        Data:  models.RoomJoined{Room: msg.Room},
    })
    select {
    case c.send <- ack:
    default:
    }
}

func (g *Gateway) handleRollDice(c *Connection, msg models.ClientMessage) {
    room, ok := g.registry.Get(msg.Room)
    if !ok {
        return
    }
    if room.RollDice(c.playerID) {
        g.recordAction(c, msg.Room, "roll", "")
        g.broadcastState(room)
    }
}

func (g *Gateway) handleBuyProperty(c *Connection, msg models.ClientMessage) {
    room, ok := g.registry.Get(msg.Room)
    if !ok {
        return
    }
    if room.BuyProperty(c.playerID, msg.Pos) {
        g.recordAction(c, msg.Room, "buy", fmt.Sprintf("%d", msg.Pos))
        g.broadcastState(room)
    }
}

func (g *Gateway) handleEndTurn(c *Connection, msg models.ClientMessage) {
    room, ok := g.registry.Get(msg.Room)
    if !ok {
        return
    }
    if room.EndTurn(c.playerID) {
        g.recordAction(c, msg.Room, "endTurn", "")
        g.broadcastState(room)
    }
}

// handleChat bypasses the turn engine entirely. The sender's in-room display
// name is used when it has one, a fallback literal otherwise.
func (g *Gateway) handleChat(c *Connection, msg models.ClientMessage) {
    name := "Anon"
    if room, ok := g.registry.Get(msg.Room); ok {
        if n, ok := room.PlayerName(c.playerID); ok {
            name = n
        }
    }
    g.recordAction(c, msg.Room, "chat", msg.Msg)
    g.hub.Broadcast(msg.Room, mustMarshal(models.ServerMessage{
        Event: "chatMsg",
        Data:  models.ChatMessage{Name: name, Msg: msg.Msg},
    }))
}

// broadcastState pushes the full room snapshot to every subscriber. No delta
// encoding: rooms are small and human-paced.
func (g *Gateway) broadcastState(room *game.Room) {
    g.hub.Broadcast(room.Name(), mustMarshal(models.ServerMessage{
        Event: "gameState",
        Data:  room.Snapshot(),
    }))
}

func mustMarshal(msg models.ServerMessage) []byte {
    b, err := json.Marshal(msg)
    if err != nil {
        // Snapshots and chat payloads are plain data, this cannot happen.
        panic(err)
    }
    return b
}
