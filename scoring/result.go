package scoring

import (
	"fmt"

	"github.com/Dosada05/cricket-live/models"
)

type MatchResult struct {
	WinnerTeamID *int   `json:"winner_team_id,omitempty"`
	Text         string `json:"text"`
	Tie          bool   `json:"tie"`
}

// TargetFor computes the target of the next innings when it is the match's final one:
// everything the bowling side has scored minus what the batting side has, plus one.
func TargetFor(previous []models.Innings, battingTeamID int) int {
	var batting, bowling int
	for _, inn := range previous {
		if inn.BattingTeamID == battingTeamID {
			batting += inn.Runs
		} else {
			bowling += inn.Runs
		}
	}
	return bowling - batting + 1
}

// DecideResult settles a match whose final innings has ended.
// teamName resolves team ids to display names.
func DecideResult(m *models.Match, final models.Innings, teamName func(int) string) MatchResult {
	chasing := final.BattingTeamID
	defending := final.BowlingTeamID
	if final.Target == nil {
		return MatchResult{Text: DrawText}
	}
	target := *final.Target

	switch {
	case final.Runs >= target:
		margin := m.MaxWickets() - final.Wickets
		return MatchResult{
			WinnerTeamID: &chasing,
			Text:         ResultText(teamName(chasing), teamName(defending), margin, true, false),
		}
	case final.Runs == target-1:
		return MatchResult{Text: TieText, Tie: true}
	default:
		margin := target - 1 - final.Runs
		return MatchResult{
			WinnerTeamID: &defending,
			Text:         ResultText(teamName(defending), teamName(chasing), margin, false, false),
		}
	}
}

// InningsVictory settles a four-innings match in which the side due to bat last
// already leads after three innings. It reports false when there is a fourth innings to play.
func InningsVictory(m *models.Match, played []models.Innings, teamName func(int) string) (MatchResult, bool) {
	final := m.Format.FinalInnings()
	if final < 4 || len(played) != final-1 {
		return MatchResult{}, false
	}
	next := played[len(played)-1].BowlingTeamID
	target := TargetFor(played, next)
	if target > 0 {
		return MatchResult{}, false
	}
	margin := 1 - target
	unit := "runs"
	if margin == 1 {
		unit = "run"
	}
	return MatchResult{
		WinnerTeamID: &next,
		Text:         fmt.Sprintf("%s won by an innings and %d %s", teamName(next), margin, unit),
	}, true
}
