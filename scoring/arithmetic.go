// Package scoring holds the cricket scoring engine: pure arithmetic helpers,
// the ball event validator and the innings state machine.
package scoring

import (
	"fmt"
	"math"

	"github.com/Dosada05/cricket-live/models"
	"github.com/shopspring/decimal"
)

const BallsPerOver = 6

// round rounds half away from zero on the decimal representation of v,
// so 1.005 becomes 1.01 rather than the binary-float 1.00.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func StrikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return round(float64(runs)/float64(balls)*100, 2)
}

// BattingAverage returns runs itself when the batter has never been dismissed.
func BattingAverage(runs, dismissals int) float64 {
	if dismissals == 0 {
		return round(float64(runs), 2)
	}
	return round(float64(runs)/float64(dismissals), 2)
}

func BowlingAverage(runsConceded, wickets int) float64 {
	if wickets == 0 {
		return 0
	}
	return round(float64(runsConceded)/float64(wickets), 2)
}

// EconomyRate takes overs as a true decimal (balls/6), not scorebook notation.
func EconomyRate(runsConceded int, oversBowled float64) float64 {
	if oversBowled <= 0 {
		return 0
	}
	return round(float64(runsConceded)/oversBowled, 2)
}

func NetRunRate(runsScored int, oversPlayed float64, runsConceded int, oversFaced float64) float64 {
	if oversPlayed <= 0 || oversFaced <= 0 {
		return 0
	}
	return round(float64(runsScored)/oversPlayed-float64(runsConceded)/oversFaced, 3)
}

// BallsToOvers converts a ball count to scorebook notation: 37 balls is 6.1.
func BallsToOvers(balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return round(float64(balls/BallsPerOver)+float64(balls%BallsPerOver)/10, 1)
}

// OversToBalls is the inverse of BallsToOvers. The fraction is read in base six.
func OversToBalls(overs float64) int {
	if overs <= 0 || math.IsNaN(overs) || math.IsInf(overs, 0) {
		return 0
	}
	whole := math.Floor(overs)
	part := int(math.Round((overs - whole) * 10))
	return int(whole)*BallsPerOver + part
}

// OversDecimal converts balls into fractional overs for rate calculations.
func OversDecimal(balls int) float64 {
	return float64(balls) / BallsPerOver
}

// RequiredRunRate goes negative once the target has been passed.
func RequiredRunRate(target, currentRuns int, oversRemaining float64) float64 {
	if oversRemaining <= 0 {
		return 0
	}
	return round(float64(target-currentRuns)/oversRemaining, 2)
}

func ProjectedScore(currentRuns int, currentOvers, totalOvers float64) int {
	if currentOvers <= 0 {
		return 0
	}
	return int(math.Round(float64(currentRuns) / currentOvers * totalOvers))
}

// WinProbability is the chasing side's chance in percent. It is a product heuristic:
// the bands below are fixed and are not derived from match data.
func WinProbability(target, currentRuns, wicketsInHand int, oversRemaining float64) float64 {
	runsNeeded := target - currentRuns
	if runsNeeded <= 0 {
		return 100
	}
	if wicketsInHand <= 0 || oversRemaining <= 0 {
		return 0
	}

	p := 50.0
	p += float64(wicketsInHand-5) * 5

	rrr := RequiredRunRate(target, currentRuns, oversRemaining)
	switch {
	case rrr < 6:
		p += 20
	case rrr < 8:
		p += 10
	case rrr <= 10:
		p -= 10
	default:
		p -= 20
	}

	switch {
	case runsNeeded < 20:
		p += 15
	case runsNeeded < 50:
		p += 10
	case runsNeeded > 100:
		p -= 10
	}

	return math.Max(0, math.Min(100, p))
}

// IsPowerplay takes a zero-based over number.
func IsPowerplay(overNumber int, format models.MatchFormat) bool {
	switch format {
	case models.FormatT20:
		return overNumber >= 0 && overNumber <= 5
	case models.FormatODI:
		return overNumber >= 0 && overNumber <= 9
	}
	return false
}

func IsDeathOvers(overNumber int, format models.MatchFormat) bool {
	switch format {
	case models.FormatT20:
		return overNumber >= 16
	case models.FormatODI:
		return overNumber >= 40
	}
	return false
}

const (
	DrawText = "Match Drawn"
	TieText  = "Match Tied"
)

func ResultText(winnerName, loserName string, margin int, isWicketMargin, isDraw bool) string {
	if isDraw {
		return DrawText
	}
	unit := "run"
	if isWicketMargin {
		unit = "wicket"
	}
	if margin != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%s won by %d %s", winnerName, margin, unit)
}

type Performance struct {
	PlayerID    int     `json:"player_id"`
	Runs        int     `json:"runs"`
	Wickets     int     `json:"wickets"`
	StrikeRate  float64 `json:"strike_rate"`
	EconomyRate float64 `json:"economy_rate"`
}

func (p Performance) score() float64 {
	s := float64(p.Runs)*1.5 + float64(p.Wickets)*25
	if p.StrikeRate > 150 {
		s += 20
	}
	if p.EconomyRate < 6 {
		s += 15
	}
	return s
}

// ManOfMatch returns the best performer; the first one seen wins a tie.
func ManOfMatch(performances []Performance) (int, bool) {
	if len(performances) == 0 {
		return 0, false
	}
	best := 0
	bestScore := performances[0].score()
	for i := 1; i < len(performances); i++ {
		if s := performances[i].score(); s > bestScore {
			best, bestScore = i, s
		}
	}
	return performances[best].PlayerID, true
}

// CurrentRunRate is runs per over for a ball count.
func CurrentRunRate(runs, balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return round(float64(runs)/OversDecimal(balls), 2)
}
