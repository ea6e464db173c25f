package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"

	"scoreboard-server/internal/scoreboard"
)

const testAdminKey = "test-admin-key"

func setupTestServer() (*Server, string, func()) {
	s := &Server{
		config: Config{
			AdminKey:   testAdminKey,
			RateLimit:  1000,
			RateWindow: time.Second,
		},
		connectionManager: NewConnectionManager(),
		sessionManager:    NewSessionManager(),
		rateLimiter:       NewRateLimiter(1000, time.Second),
		players:           scoreboard.NewPlayerRegistry(),
		teams:             scoreboard.NewTeamRegistry(),
		settings:          scoreboard.NewSettings(),
	}

	server := httptest.NewServer(http.HandlerFunc(s.websocketHandler))
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/websocket"

	return s, url, server.Close
}

// rawServerMessage keeps the payload raw so tests can decode it per type.
type rawServerMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func sendClientMessage(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		raw = data
	}

	data, err := json.Marshal(ClientMessage{Type: msgType, Payload: raw})
	if err != nil {
		t.Fatalf("Failed to marshal client message: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("Failed to send %s: %v", msgType, err)
	}
}

func readServerMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) rawServerMessage {
	t.Helper()

	readCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, data, err := conn.Read(readCtx)
	if err != nil {
		t.Fatalf("Failed to read server message: %v", err)
	}

	var msg rawServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to parse server message: %v", err)
	}
	return msg
}

func readStateUpdate(t *testing.T, ctx context.Context, conn *websocket.Conn) StateUpdate {
	t.Helper()

	msg := readServerMessage(t, ctx, conn)
	if msg.Type != "stateUpdate" {
		t.Fatalf("Expected stateUpdate, got %q", msg.Type)
	}

	var update StateUpdate
	if err := json.Unmarshal(msg.Payload, &update); err != nil {
		t.Fatalf("Failed to parse stateUpdate: %v", err)
	}
	return update
}

func TestHandler(t *testing.T) {
	s := &Server{}
	server := httptest.NewServer(http.HandlerFunc(s.HelloWorldHandler))
	defer server.Close()
	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("error making request to server. Err: %v", err)
	}
	defer resp.Body.Close()
	// Assertions
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK; got %v", resp.Status)
	}
	expected := "{\"message\":\"Hello World\"}"
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("error reading response body. Err: %v", err)
	}
	if expected != string(body) {
		t.Errorf("expected response body to be %v; got %v", expected, string(body))
	}
}

func TestHealthHandler(t *testing.T) {
	assert := assert.New(t)

	s, _, cleanup := setupTestServer()
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(s.healthHandler))
	defer server.Close()

	resp, err := http.Get(server.URL)
	assert.NoError(err)
	defer resp.Body.Close()

	assert.Equal(http.StatusOK, resp.StatusCode)

	var health map[string]any
	err = json.NewDecoder(resp.Body).Decode(&health)
	assert.NoError(err)
	assert.Equal("up", health["status"])
}

func TestWebSocketPingPong(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	_, url, cleanup := setupTestServer()
	defer cleanup()

	conn, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	sendClientMessage(t, ctx, conn, "ping", nil)

	response := readServerMessage(t, ctx, conn)
	assert.Equal("pong", response.Type)
}

func TestWebSocketInvalidJSON(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	_, url, cleanup := setupTestServer()
	defer cleanup()

	conn, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	err = conn.Write(ctx, websocket.MessageText, []byte("junk"))
	assert.NoError(err)

	response := readServerMessage(t, ctx, conn)
	assert.Equal("error", response.Type)

	// Ping to ensure the connection didn't close
	sendClientMessage(t, ctx, conn, "ping", nil)
	response = readServerMessage(t, ctx, conn)
	assert.Equal("pong", response.Type)
}

func TestWebSocketUnknownMessageType(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	_, url, cleanup := setupTestServer()
	defer cleanup()

	conn, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	sendClientMessage(t, ctx, conn, "teleport", map[string]any{})

	response := readServerMessage(t, ctx, conn)
	assert.Equal("error", response.Type)
}

func TestWebsocketConnectionRegistration(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	s, url, cleanup := setupTestServer()
	defer cleanup()

	assert.Equal(0, s.connectionManager.Count())

	// Connect
	conn, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)

	// Send a ping to ensure connection is fully registered
	// Why: websocket.Dial returns before AddConnection completes
	sendClientMessage(t, ctx, conn, "ping", nil)
	readServerMessage(t, ctx, conn)

	assert.Equal(1, s.connectionManager.Count())

	// Disconnect
	conn.Close(websocket.StatusNormalClosure, "")

	// Give the defer cleanup a moment to run
	// Why: Close() returns before the handler's defer completes
	time.Sleep(10 * time.Millisecond)

	assert.Equal(0, s.connectionManager.Count())
}

func TestWebSocketMultipleConnections(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	s, url, cleanup := setupTestServer()
	defer cleanup()

	// Connect 4 clients
	connections := make([]*websocket.Conn, 4)
	for i := 0; i < 4; i++ {
		conn, _, err := websocket.Dial(ctx, url, nil)
		assert.NoError(err)
		connections[i] = conn
		defer conn.Close(websocket.StatusNormalClosure, "")
	}

	// Send a ping from each connection to ensure the handler has registered it
	for _, conn := range connections {
		sendClientMessage(t, ctx, conn, "ping", nil)
		readServerMessage(t, ctx, conn)
	}

	assert.Equal(4, s.connectionManager.Count(), "All 4 connections should be registered")
}
