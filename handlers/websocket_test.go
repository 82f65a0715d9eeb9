package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"

	"github.com/gopoly/gopoly-backend/game"
	"github.com/gopoly/gopoly-backend/models"
)

type serverEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newTestToken(t *testing.T, id, username string) string {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	claims := models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		ID:       id,
		Username: username,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gw := NewGateway(game.NewRegistry(), NewHub())
	server := httptest.NewServer(NewRouter(gw))
	t.Cleanup(server.Close)
	return server
}

func dialWS(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, msg models.ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("writing %s: %v", msg.Event, err)
	}
}

// waitForEvent reads until a message with the wanted event arrives, skipping
// anything else.
func waitForEvent(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var envelope serverEnvelope
		if err := conn.ReadJSON(&envelope); err != nil {
			t.Fatalf("waiting for %s: %v", event, err)
		}
		if envelope.Event == event {
			return envelope.Data
		}
	}
}

func waitForGameState(t *testing.T, conn *websocket.Conn, ok func(game.Snapshot) bool) game.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var snapshot game.Snapshot
		if err := json.Unmarshal(waitForEvent(t, conn, "gameState"), &snapshot); err != nil {
			t.Fatalf("decoding gameState: %v", err)
		}
		if ok(snapshot) {
			return snapshot
		}
	}
	t.Fatalf("no matching gameState arrived")
	return game.Snapshot{}
}

func TestWsHandlerRejectsInvalidToken(t *testing.T) {
	server := newTestServer(t)
	t.Setenv("JWT_SECRET", "test-secret")

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/not-a-token"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		conn.Close()
		t.Fatalf("expected the handshake to be refused")
	}
}

func TestJoinRoomBroadcastsStateAndAcks(t *testing.T) {
	server := newTestServer(t)
	token := newTestToken(t, "1", "alice")

	connA := dialWS(t, server, token)
	sendEvent(t, connA, models.ClientMessage{Event: "joinRoom", Room: "alpha", Name: "Alice"})

	snapshot := waitForGameState(t, connA, func(s game.Snapshot) bool { return len(s.Players) == 1 })
	if snapshot.CurrentTurn != 0 || snapshot.Phase != game.PhaseRolling {
		t.Errorf("unexpected initial state: turn %d phase %q", snapshot.CurrentTurn, snapshot.Phase)
	}
	if len(snapshot.Board) != game.BoardSize {
		t.Errorf("expected %d tiles in the snapshot, got %d", game.BoardSize, len(snapshot.Board))
	}
	for _, p := range snapshot.Players {
		if p.Name != "Alice" {
			t.Errorf("expected player named Alice, got %q", p.Name)
		}
	}

	var joined models.RoomJoined
	if err := json.Unmarshal(waitForEvent(t, connA, "roomJoined"), &joined); err != nil {
		t.Fatalf("decoding roomJoined: %v", err)
	}
	if joined.Room != "alpha" {
		t.Errorf("expected ack for room alpha, got %q", joined.Room)
	}

	connB := dialWS(t, server, newTestToken(t, "2", "bob"))
	sendEvent(t, connB, models.ClientMessage{Event: "joinRoom", Room: "alpha", Name: "Bob"})

	snapshot = waitForGameState(t, connA, func(s game.Snapshot) bool { return len(s.Players) == 2 })
	if len(snapshot.Order) != 2 {
		t.Errorf("expected 2 entries in turn order, got %d", len(snapshot.Order))
	}
}

func TestRollDiceBroadcastsOnlyForTurnHolder(t *testing.T) {
	server := newTestServer(t)

	connA := dialWS(t, server, newTestToken(t, "1", "alice"))
	sendEvent(t, connA, models.ClientMessage{Event: "joinRoom", Room: "alpha", Name: "Alice"})
	waitForGameState(t, connA, func(s game.Snapshot) bool { return len(s.Players) == 1 })

	connB := dialWS(t, server, newTestToken(t, "2", "bob"))
	sendEvent(t, connB, models.ClientMessage{Event: "joinRoom", Room: "alpha", Name: "Bob"})
	waitForGameState(t, connA, func(s game.Snapshot) bool { return len(s.Players) == 2 })

	// Bob is not the turn holder: his roll must produce nothing at all. The
	// chat that follows is the fence; the very next message Alice sees has to
	// be the chat, not a state update.
	sendEvent(t, connB, models.ClientMessage{Event: "rollDice", Room: "alpha"})
	sendEvent(t, connB, models.ClientMessage{Event: "chat", Room: "alpha", Msg: "fence"})

	conn := connA
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var envelope serverEnvelope
	if err := conn.ReadJSON(&envelope); err != nil {
		t.Fatalf("reading after silent roll: %v", err)
	}
	if envelope.Event != "chatMsg" {
		t.Fatalf("expected the fence chat first, got %q", envelope.Event)
	}

	// Alice holds the turn; her roll broadcasts an action-phase snapshot.
	sendEvent(t, connA, models.ClientMessage{Event: "rollDice", Room: "alpha"})
	snapshot := waitForGameState(t, connA, func(s game.Snapshot) bool { return s.Phase == game.PhaseAction })
	for _, p := range snapshot.Players {
		if p.Pos < 0 || p.Pos >= game.BoardSize {
			t.Errorf("player %s off the board at %d", p.ID, p.Pos)
		}
	}
}

func TestChatUsesDisplayNameWithFallback(t *testing.T) {
	server := newTestServer(t)

	connA := dialWS(t, server, newTestToken(t, "1", "alice"))
	sendEvent(t, connA, models.ClientMessage{Event: "joinRoom", Room: "alpha", Name: "Alice"})
	waitForGameState(t, connA, func(s game.Snapshot) bool { return len(s.Players) == 1 })

	sendEvent(t, connA, models.ClientMessage{Event: "chat", Room: "alpha", Msg: "hello"})
	var chat models.ChatMessage
	if err := json.Unmarshal(waitForEvent(t, connA, "chatMsg"), &chat); err != nil {
		t.Fatalf("decoding chatMsg: %v", err)
	}
	if chat.Name != "Alice" || chat.Msg != "hello" {
		t.Errorf("unexpected chat payload: %+v", chat)
	}

	// A sender with no player in the room falls back to the literal name.
	connB := dialWS(t, server, newTestToken(t, "2", "bob"))
	sendEvent(t, connB, models.ClientMessage{Event: "chat", Room: "alpha", Msg: "lurking"})
	if err := json.Unmarshal(waitForEvent(t, connA, "chatMsg"), &chat); err != nil {
		t.Fatalf("decoding chatMsg: %v", err)
	}
	if chat.Name != "Anon" || chat.Msg != "lurking" {
		t.Errorf("expected Anon fallback, got %+v", chat)
	}
}

func TestDisconnectRemovesPlayerFromRoom(t *testing.T) {
	server := newTestServer(t)

	connA := dialWS(t, server, newTestToken(t, "1", "alice"))
	sendEvent(t, connA, models.ClientMessage{Event: "joinRoom", Room: "alpha", Name: "Alice"})
	waitForGameState(t, connA, func(s game.Snapshot) bool { return len(s.Players) == 1 })

	connB := dialWS(t, server, newTestToken(t, "2", "bob"))
	sendEvent(t, connB, models.ClientMessage{Event: "joinRoom", Room: "alpha", Name: "Bob"})
	waitForGameState(t, connA, func(s game.Snapshot) bool { return len(s.Players) == 2 })

	connB.Close()

	snapshot := waitForGameState(t, connA, func(s game.Snapshot) bool { return len(s.Players) == 1 })
	for _, p := range snapshot.Players {
		if p.Name != "Alice" {
			t.Errorf("expected only Alice to remain, found %q", p.Name)
		}
	}
}

func TestMalformedPayloadDoesNotKillTheConnection(t *testing.T) {
	server := newTestServer(t)

	connA := dialWS(t, server, newTestToken(t, "1", "alice"))
	sendEvent(t, connA, models.ClientMessage{Event: "joinRoom", Room: "alpha", Name: "Alice"})
	waitForGameState(t, connA, func(s game.Snapshot) bool { return len(s.Players) == 1 })

	if err := connA.WriteMessage(websocket.TextMessage, []byte("not json at all")); err != nil {
		t.Fatalf("writing garbage: %v", err)
	}
	sendEvent(t, connA, models.ClientMessage{Event: "chat", Room: "alpha", Msg: "still here"})

	var chat models.ChatMessage
	if err := json.Unmarshal(waitForEvent(t, connA, "chatMsg"), &chat); err != nil {
		t.Fatalf("decoding chatMsg: %v", err)
	}
	if chat.Msg != "still here" {
		t.Errorf("unexpected chat after garbage: %+v", chat)
	}
}
