// Package scheduling produces match pairings for tournament play.
package scheduling

import "fmt"

// Pairing is one scheduled encounter between two enrolled players.
type Pairing struct {
	HomeID int
	AwayID int
	Round  int
}

// RoundRobin pairs every player against every other player exactly once,
// using the circle method so each round keeps everyone busy at most once.
// With an odd player count one player sits out per round.
func RoundRobin(playerIDs []int) ([]Pairing, error) {
	if len(playerIDs) < 2 {
		return nil, fmt.Errorf("round robin needs at least 2 players, got %d", len(playerIDs))
	}

	ids := make([]int, len(playerIDs))
	copy(ids, playerIDs)

	// The circle method needs an even count; 0 marks the bye slot.
	if len(ids)%2 != 0 {
		ids = append(ids, 0)
	}

	n := len(ids)
	rounds := n - 1
	pairings := make([]Pairing, 0, n/2*rounds)

	for round := 1; round <= rounds; round++ {
		for i := 0; i < n/2; i++ {
			home, away := ids[i], ids[n-1-i]
			if home == 0 || away == 0 {
				continue
			}
			pairings = append(pairings, Pairing{HomeID: home, AwayID: away, Round: round})
		}
		// Rotate everything but the first slot.
		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}
	return pairings, nil
}
