package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/gopoly/gopoly-backend/game"
	"github.com/gopoly/gopoly-backend/responses"
	"github.com/gopoly/gopoly-backend/utils"
)

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
    CheckOrigin:     func(r *http.Request) bool { return true },
}

// Gateway owns the websocket side of the server: it upgrades connections,
// decodes inbound actions, resolves the target room through the registry and
// broadcasts snapshots through the hub. Both collaborators are injected at
// startup.
type Gateway struct {
	registry *game.Registry
	hub      *Hub
}

func NewGateway(registry *game.Registry, hub *Hub) *Gateway {
	return &Gateway{registry: registry, hub: hub}
}

func (g *Gateway) WsHandler(w http.ResponseWriter, r *http.Request) {
    vars := mux.Vars(r)
    tokenStr := vars["token"]

    // Validate the token
    claims, err := ValidateToken(tokenStr)
    if err != nil {
        log.Println(err)
        utils.HandleError(w, responses.UnauthorizedError{Msg: "Error validating token."})
        return
    }

    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        log.Println("Upgrade error:", err)
        return
    }
    defer conn.Close()

    connection := &Connection{
        send:      make(chan []byte, 256),
        ws:        conn,
        playerID:  uuid.New().String(),
        accountID: claims.ID,
        username:  claims.Username,
    }

    g.hub.Register(connection)
    log.Printf("User %s connected as player %s", claims.Username, connection.playerID)

    // Clean up once the read loop returns: pull the player out of every room
    // it joined, let the remaining subscribers see the departure, then detach
    // the connection.
    defer func() {
        for _, name := range g.hub.Rooms(connection) {
            room, ok := g.registry.Get(name)
            if !ok {
                continue
            }
            if room.RemovePlayer(connection.playerID) {
                g.recordAction(connection, name, "leave", "")
                g.broadcastState(room)
            }
        }
        g.hub.Unregister(connection)
        log.Printf("Player %s disconnected", connection.playerID)
    }()

    go connection.writePump()
    connection.readPump(g)
}

func (c *Connection) readPump(g *Gateway) {
    for {
        _, message, err := c.ws.ReadMessage()
        if err != nil {
            log.Printf("Error reading message from player %s: %v", c.playerID, err)
            break
        }
        g.processMessage(c, message)
    }
}

func (c *Connection) writePump() {
    defer func() {
        c.ws.Close()
    }()

    for message := range c.send {
        if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
            log.Printf("error writing message: %v", err)
            break
        }
    }
}
