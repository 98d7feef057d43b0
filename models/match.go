package models

import "time"

// MatchStatus представляет статусы матча.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "SCHEDULED"
	MatchStatusLive      MatchStatus = "LIVE"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusAbandoned MatchStatus = "ABANDONED"
)

// Finished reports whether no further scoring can happen in the match.
func (s MatchStatus) Finished() bool {
	return s == MatchStatusCompleted || s == MatchStatusAbandoned
}

type MatchFormat string

const (
	FormatT20  MatchFormat = "T20"
	FormatODI  MatchFormat = "ODI"
	FormatTest MatchFormat = "TEST"
)

func (f MatchFormat) Valid() bool {
	switch f {
	case FormatT20, FormatODI, FormatTest:
		return true
	}
	return false
}

// MaxOvers is the per-innings over limit; 0 means unlimited.
func (f MatchFormat) MaxOvers() int {
	switch f {
	case FormatT20:
		return 20
	case FormatODI:
		return 50
	default:
		return 0
	}
}

// FinalInnings is the number of the innings that decides the match.
func (f MatchFormat) FinalInnings() int {
	if f == FormatTest {
		return 4
	}
	return 2
}

const DefaultPlayersPerSide = 11

type Match struct {
	ID               int         `json:"id" db:"id"`
	TournamentID     *int        `json:"tournament_id,omitempty" db:"tournament_id"`
	HomeTeamID       int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID       int         `json:"away_team_id" db:"away_team_id"`
	Venue            string      `json:"venue" db:"venue"`
	ScheduledAt      time.Time   `json:"scheduled_at" db:"scheduled_at"`
	Format           MatchFormat `json:"format" db:"format"`
	Status           MatchStatus `json:"status" db:"status"`
	OversPerInnings  int         `json:"overs_per_innings" db:"overs_per_innings"`
	PlayersPerSide   int         `json:"players_per_side" db:"players_per_side"`
	CurrentInningsID *int        `json:"current_innings_id,omitempty" db:"current_innings_id"`
	WinnerTeamID     *int        `json:"winner_team_id,omitempty" db:"winner_team_id"`
	ResultText       *string     `json:"result_text,omitempty" db:"result_text"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	HomeTeam *Team `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team `json:"away_team,omitempty" db:"-"`
}

// OverLimit returns the effective over limit for one innings of this match.
// A positive OversPerInnings overrides the format default.
func (m *Match) OverLimit() int {
	if m.OversPerInnings > 0 {
		return m.OversPerInnings
	}
	return m.Format.MaxOvers()
}

// MaxWickets is the number of wickets that ends an innings as all out.
func (m *Match) MaxWickets() int {
	players := m.PlayersPerSide
	if players <= 1 {
		players = DefaultPlayersPerSide
	}
	return players - 1
}

// Opponent returns the other side's team id, or 0 if teamID is not playing.
func (m *Match) Opponent(teamID int) int {
	switch teamID {
	case m.HomeTeamID:
		return m.AwayTeamID
	case m.AwayTeamID:
		return m.HomeTeamID
	}
	return 0
}

// Team returns the loaded team with the given id, if any.
func (m *Match) Team(teamID int) *Team {
	if m.HomeTeam != nil && m.HomeTeam.ID == teamID {
		return m.HomeTeam
	}
	if m.AwayTeam != nil && m.AwayTeam.ID == teamID {
		return m.AwayTeam
	}
	return nil
}

// PlayerName looks a player up in both rosters.
func (m *Match) PlayerName(playerID int) (string, bool) {
	for _, t := range []*Team{m.HomeTeam, m.AwayTeam} {
		if t == nil {
			continue
		}
		for _, p := range t.Players {
			if p.ID == playerID {
				return p.Name, true
			}
		}
	}
	return "", false
}
