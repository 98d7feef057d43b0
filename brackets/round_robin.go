// Package brackets builds league fixtures for a tournament.
package brackets

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughTeams = errors.New("at least two teams are required")
	ErrDuplicateTeam  = errors.New("team listed more than once")
	ErrInvalidLegs    = errors.New("legs must be 1 or 2")
)

// Pairing is one fixture of the league. Round starts at 1; Order is the
// position of the fixture across the whole schedule, also from 1.
type Pairing struct {
	Round      int
	Order      int
	HomeTeamID int
	AwayTeamID int
}

// RoundRobin pairs every team with every other team once per leg using the
// circle method, so no team plays twice in a round. With an odd number of
// teams one team rests each round. The second leg repeats the first with home
// and away swapped.
func RoundRobin(teamIDs []int, legs int) ([]Pairing, error) {
	if legs != 1 && legs != 2 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidLegs, legs)
	}
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrNotEnoughTeams, len(teamIDs))
	}
	seen := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}
	}

	const bye = 0
	slots := append([]int(nil), teamIDs...)
	if len(slots)%2 == 1 {
		slots = append(slots, bye)
	}
	n := len(slots)
	rounds := n - 1

	first := make([]Pairing, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	for r := 0; r < rounds; r++ {
		for i := 0; i < n/2; i++ {
			home, away := slots[i], slots[n-1-i]
			if home == bye || away == bye {
				continue
			}
			// Закреплённая команда иначе всегда играла бы дома.
			if i == 0 && r%2 == 1 {
				home, away = away, home
			}
			first = append(first, Pairing{Round: r + 1, HomeTeamID: home, AwayTeamID: away})
		}
		// Вращаем всех, кроме первой позиции.
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	fixtures := first
	if legs == 2 {
		for _, p := range first {
			fixtures = append(fixtures, Pairing{
				Round:      p.Round + rounds,
				HomeTeamID: p.AwayTeamID,
				AwayTeamID: p.HomeTeamID,
			})
		}
	}
	for i := range fixtures {
		fixtures[i].Order = i + 1
	}
	return fixtures, nil
}

// Rounds returns the number of rounds RoundRobin produces for teams and legs.
func Rounds(teams, legs int) int {
	if teams < 2 {
		return 0
	}
	if teams%2 == 1 {
		teams++
	}
	return (teams - 1) * legs
}
