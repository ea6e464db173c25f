package scoreboard

import (
	"strings"
	"sync"
)

// DefaultName is used when a joining player supplies no usable name.
const DefaultName = "Anonymous"

// Player is one joined connection's scoreboard entry. Team is empty when the
// player has not been assigned to a team.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Team  string `json:"team,omitempty"`
	Score int    `json:"score"`
}

// PlayerRegistry owns every Player record, keyed by connection ID. Callers
// only ever receive copies; records never leave the registry.
type PlayerRegistry struct {
	players map[string]*Player
	order   []string // connection IDs in join order, for stable enumeration
	mu      sync.RWMutex
}

func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{
		players: make(map[string]*Player),
	}
}

// Create registers a player for connID, replacing any existing record under
// the same ID (a rejoin is treated as a fresh join). The name is trimmed and
// falls back to DefaultName when empty.
func (pr *PlayerRegistry) Create(connID, name string) Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}

	pr.mu.Lock()
	defer pr.mu.Unlock()

	if _, exists := pr.players[connID]; !exists {
		pr.order = append(pr.order, connID)
	}
	player := &Player{
		ID:   connID,
		Name: name,
	}
	pr.players[connID] = player
	return *player
}

// Get returns a copy of the player for connID.
func (pr *PlayerRegistry) Get(connID string) (Player, bool) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	player, exists := pr.players[connID]
	if !exists {
		return Player{}, false
	}
	return *player, true
}

// Update applies mutate to the player for connID and re-clamps the score to
// zero. Returns false without side effects when no such player exists;
// absence is an expected race (e.g. a score delta arriving after disconnect),
// not an error.
func (pr *PlayerRegistry) Update(connID string, mutate func(*Player)) bool {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	player, exists := pr.players[connID]
	if !exists {
		return false
	}
	mutate(player)
	if player.Score < 0 {
		player.Score = 0
	}
	return true
}

// Remove deletes the player for connID. Removing an absent ID is a no-op.
func (pr *PlayerRegistry) Remove(connID string) bool {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if _, exists := pr.players[connID]; !exists {
		return false
	}
	delete(pr.players, connID)
	for i, id := range pr.order {
		if id == connID {
			pr.order = append(pr.order[:i], pr.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns copies of all players in join order.
func (pr *PlayerRegistry) List() []Player {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	players := make([]Player, 0, len(pr.order))
	for _, id := range pr.order {
		players = append(players, *pr.players[id])
	}
	return players
}

// ResetScores zeroes every player's score, keeping names and teams.
func (pr *PlayerRegistry) ResetScores() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for _, player := range pr.players {
		player.Score = 0
	}
}

// Clear removes every player.
func (pr *PlayerRegistry) Clear() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.players = make(map[string]*Player)
	pr.order = nil
}

func (pr *PlayerRegistry) Count() int {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return len(pr.players)
}
