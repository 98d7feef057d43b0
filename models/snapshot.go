package models

type BatterFigures struct {
	PlayerID   int     `json:"player_id"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	Out        bool    `json:"out"`
	Dismissal  string  `json:"dismissal,omitempty"`
}

type BowlerFigures struct {
	PlayerID   int     `json:"player_id"`
	LegalBalls int     `json:"legal_balls"`
	Overs      float64 `json:"overs"`
	Runs       int     `json:"runs"`
	Wickets    int     `json:"wickets"`
	Maidens    int     `json:"maidens"`
	Wides      int     `json:"wides"`
	NoBalls    int     `json:"no_balls"`
	Economy    float64 `json:"economy"`
}

// ScoreSnapshot is the derived state broadcast after every accepted ball.
// It is never written back into the state machine.
type ScoreSnapshot struct {
	MatchID         int            `json:"match_id"`
	InningsID       int            `json:"innings_id"`
	InningsNumber   int            `json:"innings_number"`
	BattingTeamID   int            `json:"batting_team_id"`
	BowlingTeamID   int            `json:"bowling_team_id"`
	Status          InningsStatus  `json:"status"`
	Sequence        int            `json:"sequence"`
	Runs            int            `json:"runs"`
	Wickets         int            `json:"wickets"`
	Overs           float64        `json:"overs"`
	LegalBalls      int            `json:"legal_balls"`
	Extras          int            `json:"extras"`
	RunRate         float64        `json:"run_rate"`
	Target          *int           `json:"target,omitempty"`
	RunsNeeded      *int           `json:"runs_needed,omitempty"`
	BallsRemaining  *int           `json:"balls_remaining,omitempty"`
	RequiredRunRate *float64       `json:"required_run_rate,omitempty"`
	ProjectedScore  int            `json:"projected_score"`
	WinProbability  *float64       `json:"win_probability,omitempty"`
	StrikerID       *int           `json:"striker_id,omitempty"`
	NonStrikerID    *int           `json:"non_striker_id,omitempty"`
	BowlerID        *int           `json:"bowler_id,omitempty"`
	Striker         *BatterFigures `json:"striker,omitempty"`
	NonStriker      *BatterFigures `json:"non_striker,omitempty"`
	Bowler          *BowlerFigures `json:"bowler,omitempty"`
	ThisOver        []string       `json:"this_over"`
	EndedReason     *EndedReason   `json:"ended_reason,omitempty"`
}

type MilestoneKind string

const (
	MilestoneFifty       MilestoneKind = "FIFTY"
	MilestoneCentury     MilestoneKind = "CENTURY"
	MilestoneFiveWickets MilestoneKind = "FIVE_WICKETS"
	MilestoneHatTrick    MilestoneKind = "HAT_TRICK"
)

type Milestone struct {
	Kind      MilestoneKind `json:"kind"`
	PlayerID  int           `json:"player_id"`
	MatchID   int           `json:"match_id"`
	InningsID int           `json:"innings_id"`
	Value     int           `json:"value"`
}
