package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"scoreboard-server/internal/scoreboard"
)

// Server holds the whole session: connection bookkeeping, per-connection
// sessions, and the scoreboard state itself. All of it is process-scoped and
// ephemeral; nothing survives a restart.
type Server struct {
	config Config

	connectionManager *ConnectionManager
	sessionManager    *SessionManager
	rateLimiter       *RateLimiter

	players  *scoreboard.PlayerRegistry
	teams    *scoreboard.TeamRegistry
	settings *scoreboard.Settings

	// stateMu serializes event handlers: each mutation runs to completion,
	// broadcast included, before the next one starts, so aggregation only
	// ever sees settled state.
	stateMu sync.Mutex
}

func NewServer() (*Server, *http.Server) {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.AdminKey == "" {
		log.Println("Warning: ADMIN_KEY not set, admin authentication is disabled")
	}

	srv := &Server{
		config:            cfg,
		connectionManager: NewConnectionManager(),
		sessionManager:    NewSessionManager(),
		rateLimiter:       NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		players:           scoreboard.NewPlayerRegistry(),
		teams:             scoreboard.NewTeamRegistry(),
		settings:          scoreboard.NewSettings(),
	}

	// Start background tasks
	go srv.rateLimiterCleanupTask()

	// Declare Server config
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return srv, httpServer
}

// Shutdown tells every connected client the server is going away. State is
// intentionally not saved: the scoreboard is scoped to the process lifetime.
func (s *Server) Shutdown(ctx context.Context) error {
	conns := s.connectionManager.AllConnections()
	for _, conn := range conns {
		s.sendMessage(conn, ctx, ServerMessage{
			Type:    "serverShutdown",
			Payload: ErrorMessage{Message: "Server shutting down"},
		})
	}
	log.Printf("Notified %d connections of shutdown", len(conns))
	return nil
}

// rateLimiterCleanupTask prunes stale rate-limit entries every minute.
// Why: connections that vanished without a clean close leave timestamps
// behind in the limiter map.
func (s *Server) rateLimiterCleanupTask() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.rateLimiter.Cleanup()
	}
}
