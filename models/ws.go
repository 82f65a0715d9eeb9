package models

// ClientMessage is the inbound websocket envelope. Fields beyond Event are
// populated per event kind: Room everywhere, Name on joinRoom, Pos on
// buyProperty, Msg on chat.
type ClientMessage struct {
	Event string `json:"event"`
	Room  string `json:"room"`
	Name  string `json:"name,omitempty"`
	Pos   int    `json:"pos,omitempty"`
	Msg   string `json:"msg,omitempty"`
}

// ServerMessage is the outbound envelope for gameState, roomJoined and
// chatMsg events.
type ServerMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type RoomJoined struct {
	Room string `json:"room"`
}

type ChatMessage struct {
	Name string `json:"name"`
	Msg  string `json:"msg"`
}
