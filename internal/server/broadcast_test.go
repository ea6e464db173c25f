package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"scoreboard-server/internal/scoreboard"
)

func newBareServer() *Server {
	return &Server{
		config:            Config{AdminKey: testAdminKey, RateLimit: 1000, RateWindow: time.Second},
		connectionManager: NewConnectionManager(),
		sessionManager:    NewSessionManager(),
		rateLimiter:       NewRateLimiter(1000, time.Second),
		players:           scoreboard.NewPlayerRegistry(),
		teams:             scoreboard.NewTeamRegistry(),
		settings:          scoreboard.NewSettings(),
	}
}

func TestBuildStateUpdateStructure(t *testing.T) {
	assert := assert.New(t)

	s := newBareServer()
	s.players.Create("conn-1", "Alice")
	s.players.Create("conn-2", "Bob")
	s.players.Update("conn-2", func(p *scoreboard.Player) { p.Score = 4 })

	update := s.buildStateUpdate()

	assert.Equal(scoreboard.ModeSolo, update.Mode)
	assert.Equal(scoreboard.PresentationRank, update.Presentation)
	assert.Equal(2, update.OnlineCount)
	if assert.Len(update.Leaderboard.Players, 2) {
		assert.Equal("Bob", update.Leaderboard.Players[0].Name, "Highest score first")
	}
	assert.Empty(update.Leaderboard.Teams, "Solo view carries no team buckets")
}

func TestBuildStateUpdateGroupMode(t *testing.T) {
	assert := assert.New(t)

	s := newBareServer()
	s.settings.SetMode(scoreboard.ModeGroup)
	s.teams.ReplaceAll([]string{"Red", "Blue"})
	s.players.Create("conn-1", "Alice")
	s.players.Update("conn-1", func(p *scoreboard.Player) { p.Score = 3; p.Team = "Red" })

	update := s.buildStateUpdate()

	assert.Equal(scoreboard.ModeGroup, update.Mode)
	assert.Empty(update.Leaderboard.Players, "Group view carries no solo entries")
	assert.Equal([]scoreboard.TeamEntry{
		{Team: "Red", Score: 3},
		{Team: "Blue", Score: 0},
	}, update.Leaderboard.Teams)
}

func TestOnlineCountTracksPlayersNotSockets(t *testing.T) {
	assert := assert.New(t)

	s := newBareServer()
	// Two sockets open, only one has joined: onlineCount counts joined
	// participants, not connections.
	s.connectionManager.AddConnection("conn-1", nil)
	s.connectionManager.AddConnection("conn-2", nil)
	s.players.Create("conn-1", "Alice")

	update := s.buildStateUpdate()

	assert.Equal(1, update.OnlineCount)
}

func TestBuildStateUpdateIsRepeatable(t *testing.T) {
	assert := assert.New(t)

	s := newBareServer()
	s.teams.ReplaceAll([]string{"Red"})
	s.players.Create("conn-1", "Alice")
	s.players.Update("conn-1", func(p *scoreboard.Player) { p.Score = 9 })

	first := s.buildStateUpdate()
	second := s.buildStateUpdate()

	assert.Equal(first, second, "Projection must not mutate anything it reads")
}
