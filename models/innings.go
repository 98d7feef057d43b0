package models

import "time"

type InningsStatus string

const (
	InningsNotStarted InningsStatus = "NOT_STARTED"
	InningsInProgress InningsStatus = "IN_PROGRESS"
	InningsCompleted  InningsStatus = "COMPLETED"
)

type EndedReason string

const (
	EndedAllOut         EndedReason = "ALL_OUT"
	EndedOversComplete  EndedReason = "OVERS_COMPLETE"
	EndedTargetReached  EndedReason = "TARGET_REACHED"
	EndedMatchAbandoned EndedReason = "MATCH_ABANDONED"
)

// Innings is the persisted header of one side's batting turn.
// Ball events are the durable truth; the counters and Snapshot are a cache for readers.
type Innings struct {
	ID                  int            `json:"id" db:"id"`
	MatchID             int            `json:"match_id" db:"match_id"`
	Number              int            `json:"number" db:"number"`
	BattingTeamID       int            `json:"batting_team_id" db:"batting_team_id"`
	BowlingTeamID       int            `json:"bowling_team_id" db:"bowling_team_id"`
	Target              *int           `json:"target,omitempty" db:"target"`
	Runs                int            `json:"runs" db:"runs"`
	Wickets             int            `json:"wickets" db:"wickets"`
	LegalBalls          int            `json:"legal_balls" db:"legal_balls"`
	Extras              int            `json:"extras" db:"extras"`
	Status              InningsStatus  `json:"status" db:"status"`
	EndedReason         *EndedReason   `json:"ended_reason,omitempty" db:"ended_reason"`
	OpeningStrikerID    *int           `json:"opening_striker_id,omitempty" db:"opening_striker_id"`
	OpeningNonStrikerID *int           `json:"opening_non_striker_id,omitempty" db:"opening_non_striker_id"`
	OpeningBowlerID     *int           `json:"opening_bowler_id,omitempty" db:"opening_bowler_id"`
	Version             int            `json:"version" db:"version"`
	Snapshot            *ScoreSnapshot `json:"snapshot,omitempty" db:"snapshot"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
}

// InningsRecord is what storage returns for an innings: the header and its balls in sequence order.
type InningsRecord struct {
	Innings Innings     `json:"innings"`
	Balls   []BallEvent `json:"balls"`
}

// Over is one bowler's set of deliveries; at most six of them legal.
type Over struct {
	Number     int         `json:"number"`
	BowlerID   int         `json:"bowler_id"`
	Balls      []BallEvent `json:"balls"`
	LegalBalls int         `json:"legal_balls"`
	Runs       int         `json:"runs"`
	Wickets    int         `json:"wickets"`
	Completed  bool        `json:"completed"`
}

// Maiden reports a completed over in which the bowler conceded nothing.
func (o *Over) Maiden() bool {
	if !o.Completed {
		return false
	}
	for i := range o.Balls {
		b := &o.Balls[i]
		conceded := b.Runs
		if b.IsExtra && b.ExtraType.ChargedToBowler() {
			conceded += b.ExtraRuns
		}
		if conceded > 0 {
			return false
		}
	}
	return true
}
