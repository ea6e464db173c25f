package server

import "scoreboard-server/internal/scoreboard"

// ============================================================================
// ERROR RESPONSES
// ============================================================================
type ErrorMessage struct {
	Message string `json:"message"`
}

// ============================================================================
// JOIN (join)
// ============================================================================
type JoinRequest struct {
	Name string `json:"name"`
}

// ============================================================================
// ADMIN AUTH (auth / authResult)
// ============================================================================
type AuthRequest struct {
	AdminKey string `json:"adminKey"`
}

type AuthResult struct {
	OK bool `json:"ok"`
}

// ============================================================================
// ADMIN CONTROLS (setMode, setPresentation, setTeams, assignTeam)
// ============================================================================
type SetModeRequest struct {
	Mode string `json:"mode"`
}

type SetPresentationRequest struct {
	Type string `json:"type"`
}

type SetTeamsRequest struct {
	TeamList []string `json:"teamList"`
}

type AssignTeamRequest struct {
	PlayerID string `json:"playerId"`
	// Team is optional; null or empty clears the player's assignment.
	Team *string `json:"team"`
}

// ============================================================================
// STATE BROADCAST (stateUpdate)
// ============================================================================
type StateUpdate struct {
	Mode         scoreboard.Mode         `json:"mode"`
	Presentation scoreboard.Presentation `json:"presentation"`
	Leaderboard  scoreboard.Leaderboard  `json:"leaderboard"`
	OnlineCount  int                     `json:"onlineCount"`
}
