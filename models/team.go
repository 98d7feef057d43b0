package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ShortName *string   `json:"short_name,omitempty" db:"short_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Players []Player `json:"players,omitempty" db:"-"`
}

type PlayerRole string

const (
	RoleBatter       PlayerRole = "BATTER"
	RoleBowler       PlayerRole = "BOWLER"
	RoleAllRounder   PlayerRole = "ALL_ROUNDER"
	RoleWicketKeeper PlayerRole = "WICKET_KEEPER"
)

type Player struct {
	ID     int        `json:"id" db:"id"`
	TeamID int        `json:"team_id" db:"team_id"`
	Name   string     `json:"name" db:"name"`
	Role   PlayerRole `json:"role" db:"role"`
}

// HasPlayer reports whether playerID is on the roster.
func (t *Team) HasPlayer(playerID int) bool {
	for _, p := range t.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}
