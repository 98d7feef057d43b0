package models

import "time"

// Tournament группирует матчи; живые обновления матчей дублируются в канал турнира.
type Tournament struct {
	ID        int         `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Format    MatchFormat `json:"format" db:"format"`
	StartDate time.Time   `json:"start_date" db:"start_date"`
	EndDate   time.Time   `json:"end_date" db:"end_date"`
	Location  *string     `json:"location,omitempty" db:"location"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}
