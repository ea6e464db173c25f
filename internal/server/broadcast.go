package server

import (
	"context"
	"log"

	"scoreboard-server/internal/scoreboard"
)

// buildStateUpdate computes the full aggregate view from the current
// registries. Callers must hold stateMu so the snapshot is settled.
func (s *Server) buildStateUpdate() StateUpdate {
	mode := s.settings.Mode()
	return StateUpdate{
		Mode:         mode,
		Presentation: s.settings.Presentation(),
		Leaderboard:  scoreboard.Compute(mode, s.players.List(), s.teams.List()),
		OnlineCount:  s.players.Count(),
	}
}

// broadcastAll recomputes the aggregate view and pushes it to every open
// connection, joined or not. One mutation, one broadcast — no batching or
// coalescing; participant counts are small enough that recomputing each
// time is fine.
func (s *Server) broadcastAll() {
	update := s.buildStateUpdate()

	msg := ServerMessage{
		Type:    "stateUpdate",
		Payload: update,
	}

	for _, conn := range s.connectionManager.AllConnections() {
		// Use background context for broadcasts
		if err := s.sendMessage(conn, context.Background(), msg); err != nil {
			log.Printf("Broadcast failed for a connection: %v", err)
		}
	}
}
