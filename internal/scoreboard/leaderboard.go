package scoreboard

import "sort"

// UnassignedTeam is the synthetic bucket for players without a team in group
// mode. It is produced on demand by Compute and never enters the TeamRegistry.
const UnassignedTeam = "unassigned"

type SoloEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Team  string `json:"team,omitempty"`
}

type TeamEntry struct {
	Team  string `json:"team"`
	Score int    `json:"score"`
}

// Leaderboard is the computed standings view. Exactly one of Players or
// Teams is populated, discriminated by Mode.
type Leaderboard struct {
	Mode    Mode        `json:"mode"`
	Players []SoloEntry `json:"players,omitempty"`
	Teams   []TeamEntry `json:"teams,omitempty"`
}

// Compute derives the standings for the given mode from registry snapshots.
// It is a pure projection: same input, same output, no mutation. Entries are
// sorted by score descending; ties keep their enumeration order, so output
// is deterministic for a given registry state.
func Compute(mode Mode, players []Player, teams []string) Leaderboard {
	if mode == ModeGroup {
		return Leaderboard{Mode: mode, Teams: computeGroup(players, teams)}
	}
	return Leaderboard{Mode: ModeSolo, Players: computeSolo(players)}
}

func computeSolo(players []Player) []SoloEntry {
	entries := make([]SoloEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, SoloEntry{
			ID:    p.ID,
			Name:  p.Name,
			Score: p.Score,
			Team:  p.Team,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

func computeGroup(players []Player, teams []string) []TeamEntry {
	totals := make(map[string]int, len(teams)+1)
	order := make([]string, 0, len(teams)+1)

	// Every registered team gets a bucket, even at zero.
	for _, team := range teams {
		if _, seen := totals[team]; !seen {
			totals[team] = 0
			order = append(order, team)
		}
	}

	for _, p := range players {
		team := p.Team
		if team == "" {
			team = UnassignedTeam
		}
		// A player may reference a label dropped by a later team-list
		// replacement; the bucket is created here on demand.
		if _, seen := totals[team]; !seen {
			order = append(order, team)
		}
		totals[team] += p.Score
	}

	entries := make([]TeamEntry, 0, len(order))
	for _, team := range order {
		entries = append(entries, TeamEntry{Team: team, Score: totals[team]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}
