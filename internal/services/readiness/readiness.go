package readiness

import "github.com/regattadev/boatrace/internal/model"

// MinPlayers is the minimum roster size before a race can become ready
const MinPlayers = 2

// Evaluate reports whether a race may transition to ready: at least
// MinPlayers players recorded and every one of them flagged ready.
func Evaluate(players []model.Player) bool {
	if len(players) < MinPlayers {
		return false
	}
	for _, p := range players {
		if !p.Ready {
			return false
		}
	}
	return true
}
