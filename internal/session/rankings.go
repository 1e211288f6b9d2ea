package session

import "sort"

type Medal string

const (
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
	MedalNone   Medal = "none"
)

type PlayerStat struct {
	Name       string  `json:"name"`
	Wins       int     `json:"wins"`
	TotalGames int     `json:"totalGames"`
	WinRate    float64 `json:"winRate"`
	Rank       int     `json:"rank"`
	Medal      Medal   `json:"medal"`
}

// Rankings derives the leaderboard for a session. TotalGames is the session's
// total game count for every player, not a per-player participation count.
func Rankings(s Session) []PlayerStat {
	stats := make([]PlayerStat, 0, len(s.Players))
	total := len(s.Games)

	for _, player := range s.Players {
		wins := 0
		for _, g := range s.Games {
			if g.Winner == player {
				wins++
			}
		}
		rate := 0.0
		if total > 0 {
			rate = float64(wins) / float64(total) * 100
		}
		stats = append(stats, PlayerStat{
			Name:       player,
			Wins:       wins,
			TotalGames: total,
			WinRate:    rate,
		})
	}

	// Ties beyond (wins, winRate) keep input order.
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Wins != stats[j].Wins {
			return stats[i].Wins > stats[j].Wins
		}
		return stats[i].WinRate > stats[j].WinRate
	})

	for i := range stats {
		stats[i].Rank = i + 1
		switch i {
		case 0:
			stats[i].Medal = MedalGold
		case 1:
			stats[i].Medal = MedalSilver
		case 2:
			stats[i].Medal = MedalBronze
		default:
			stats[i].Medal = MedalNone
		}
	}
	return stats
}
