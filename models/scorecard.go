package models

// Scorecard is the archived record of a completed innings.
type Scorecard struct {
	MatchID  int             `json:"match_id"`
	Format   MatchFormat     `json:"format"`
	Innings  Innings         `json:"innings"`
	Balls    []BallEvent     `json:"balls"`
	Overs    []Over          `json:"overs"`
	Batting  []BatterFigures `json:"batting"`
	Bowling  []BowlerFigures `json:"bowling"`
	Snapshot ScoreSnapshot   `json:"snapshot"`
}
