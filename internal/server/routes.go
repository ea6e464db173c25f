package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"scoreboard-server/internal/scoreboard"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("/", s.HelloWorldHandler)

	mux.HandleFunc("/health", s.healthHandler)

	mux.HandleFunc("/websocket", s.websocketHandler)

	// Wrap the mux with CORS middleware
	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*") // Replace "*" with specific origins if needed
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Proceed with the next handler
		next.ServeHTTP(w, r)
	})
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"message": "Hello World"}
	jsonResp, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(jsonResp); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := json.Marshal(map[string]any{
		"status":      "up",
		"connections": s.connectionManager.Count(),
		"players":     s.players.Count(),
	})
	if err != nil {
		http.Error(w, "Failed to marshal health check response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: make environment-specific
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer socket.Close(websocket.StatusGoingAway, "Server closing")

	ctx := r.Context()

	connectionID := uuid.New().String()
	log.Printf("New connection: %s", connectionID)
	s.connectionManager.AddConnection(connectionID, socket)
	s.sessionManager.StartSession(connectionID)
	defer s.handleDisconnect(connectionID)

	for {
		// Read from client
		msgType, data, err := socket.Read(ctx)

		if err != nil {
			log.Printf("Connection %s read error: %v", connectionID, err)
			return
		}

		if msgType != websocket.MessageText {
			log.Printf("Non-text input from %s", connectionID)
			continue
		}

		if !s.rateLimiter.Allow(connectionID) {
			log.Printf("Rate limit exceeded for %s", connectionID)
			s.sendError(socket, ctx, "Rate limit exceeded")
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Invalid JSON from %s: %v", connectionID, err)
			s.sendError(socket, ctx, "Invalid JSON")
			continue
		}

		log.Printf("Message Type '%s' from %s", msg.Type, connectionID)

		// Route the message
		switch msg.Type {
		case "ping":
			s.handlePing(socket, ctx, connectionID, msg.Payload)

		case "join":
			s.handleJoin(socket, ctx, connectionID, msg.Payload)

		case "scoreDelta":
			s.handleScoreDelta(socket, ctx, connectionID, msg.Payload)

		case "rename":
			s.handleRename(socket, ctx, connectionID, msg.Payload)

		case "auth":
			s.handleAuth(socket, ctx, connectionID, msg.Payload)

		case "setMode":
			s.handleSetMode(socket, ctx, connectionID, msg.Payload)

		case "setPresentation":
			s.handleSetPresentation(socket, ctx, connectionID, msg.Payload)

		case "setTeams":
			s.handleSetTeams(socket, ctx, connectionID, msg.Payload)

		case "assignTeam":
			s.handleAssignTeam(socket, ctx, connectionID, msg.Payload)

		case "resetScores":
			s.handleResetScores(socket, ctx, connectionID, msg.Payload)

		case "clearPlayers":
			s.handleClearPlayers(socket, ctx, connectionID, msg.Payload)

		default:
			log.Printf("Unknown message type '%s' from %s", msg.Type, connectionID)
			s.sendError(socket, ctx, fmt.Sprintf("Unknown message type: %s", msg.Type))
		}
	}
}

// handleDisconnect tears down everything tied to the connection. A joined
// player is removed from the scoreboard and the change is broadcast; a
// connection that never joined leaves no trace to announce.
func (s *Server) handleDisconnect(connectionID string) {
	s.connectionManager.RemoveConnection(connectionID)
	s.sessionManager.EndSession(connectionID)
	s.rateLimiter.RemoveConnection(connectionID)
	log.Printf("Connection closed: %s", connectionID)

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.players.Remove(connectionID) {
		s.broadcastAll()
	}
}

func (s *Server) handlePing(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	log.Printf("Ping from %s", connectionID)

	// No payload to parse

	// Pong
	response := ServerMessage{
		Type:    "pong",
		Payload: struct{}{},
	}

	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send pong to %s: %v", connectionID, err)
	}
}

func (s *Server) sendMessage(socket *websocket.Conn, ctx context.Context, msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("Marshal error: %w", err)
	}

	return socket.Write(ctx, websocket.MessageText, data)
}

func (s *Server) sendError(socket *websocket.Conn, ctx context.Context, msg string) {
	response := ServerMessage{
		Type: "error",
		Payload: ErrorMessage{
			Message: msg,
		},
	}

	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send error message: %v", err)
	}
}

func (s *Server) handleJoin(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	// A malformed payload is treated as an anonymous join; the registry
	// fills in the placeholder name.
	var req JoinRequest
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			req = JoinRequest{}
		}
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	player := s.players.Create(connectionID, req.Name)
	log.Printf("Player joined: %s (%s)", player.Name, connectionID)

	s.broadcastAll()
}

func (s *Server) handleScoreDelta(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	// The payload is the raw delta: a number or a numeric string.
	delta := parseDelta(payload)

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	// A delta can legitimately arrive after disconnect; absence is a no-op.
	applied := s.players.Update(connectionID, func(p *scoreboard.Player) {
		p.Score += delta
	})
	if !applied {
		return
	}

	s.broadcastAll()
}

func (s *Server) handleRename(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	// The payload is the raw new name.
	var name string
	if err := json.Unmarshal(payload, &name); err != nil {
		name = ""
	}
	name = strings.TrimSpace(name)

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	applied := s.players.Update(connectionID, func(p *scoreboard.Player) {
		if name != "" {
			p.Name = name
		}
	})
	if !applied {
		return
	}

	s.broadcastAll()
}

func (s *Server) handleAuth(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req AuthRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		req = AuthRequest{}
	}

	ok := s.config.AdminKey != "" && req.AdminKey == s.config.AdminKey

	// authResult goes to the requester only; a failed attempt is never
	// announced to anyone else.
	response := ServerMessage{
		Type:    "authResult",
		Payload: AuthResult{OK: ok},
	}
	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send authResult to %s: %v", connectionID, err)
	}

	if !ok {
		log.Printf("Failed admin auth from %s", connectionID)
		return
	}

	s.sessionManager.Authorize(connectionID)
	log.Printf("Admin authenticated: %s", connectionID)

	// The fresh admin gets a private view of the current state.
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.sendMessage(socket, ctx, ServerMessage{
		Type:    "stateUpdate",
		Payload: s.buildStateUpdate(),
	})
}

func (s *Server) handleSetMode(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	// Admin-only operations are dropped silently for everyone else: no
	// error event, no state change.
	if !s.sessionManager.IsAdmin(connectionID) {
		return
	}

	var req SetModeRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if !s.settings.SetMode(scoreboard.Mode(req.Mode)) {
		return
	}

	s.broadcastAll()
}

func (s *Server) handleSetPresentation(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	if !s.sessionManager.IsAdmin(connectionID) {
		return
	}

	var req SetPresentationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if !s.settings.SetPresentation(scoreboard.Presentation(req.Type)) {
		return
	}

	s.broadcastAll()
}

func (s *Server) handleSetTeams(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	if !s.sessionManager.IsAdmin(connectionID) {
		return
	}

	var req SetTeamsRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	// Players keep whatever team they were assigned, even if it just left
	// the registry; group aggregation resurrects stale labels on demand.
	s.teams.ReplaceAll(req.TeamList)

	s.broadcastAll()
}

func (s *Server) handleAssignTeam(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	if !s.sessionManager.IsAdmin(connectionID) {
		return
	}

	var req AssignTeamRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return
	}

	team := ""
	if req.Team != nil {
		team = strings.TrimSpace(*req.Team)
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	applied := s.players.Update(req.PlayerID, func(p *scoreboard.Player) {
		p.Team = team
	})
	if !applied {
		return
	}

	if team != "" {
		s.teams.AddIfAbsent(team)
	}

	s.broadcastAll()
}

func (s *Server) handleResetScores(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	if !s.sessionManager.IsAdmin(connectionID) {
		return
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.players.ResetScores()
	log.Printf("Scores reset by %s", connectionID)

	s.broadcastAll()
}

func (s *Server) handleClearPlayers(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	if !s.sessionManager.IsAdmin(connectionID) {
		return
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	// Mode, presentation and the team list survive; only players go.
	s.players.Clear()
	log.Printf("Players cleared by %s", connectionID)

	s.broadcastAll()
}

// parseDelta coerces the raw scoreDelta payload to an integer. Accepts a
// JSON number or a numeric string; anything else counts as 0.
func parseDelta(payload json.RawMessage) int {
	var num float64
	if err := json.Unmarshal(payload, &num); err == nil {
		return int(num)
	}

	var str string
	if err := json.Unmarshal(payload, &str); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			return int(parsed)
		}
	}

	return 0
}
