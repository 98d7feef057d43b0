package scoring

import (
	"testing"

	"github.com/Dosada05/cricket-live/models"
)

func TestOversRoundTrip(t *testing.T) {
	for n := 0; n <= 3000; n++ {
		if got := OversToBalls(BallsToOvers(n)); got != n {
			t.Fatalf("OversToBalls(BallsToOvers(%d)) = %d", n, got)
		}
	}
}

func TestBallsToOvers(t *testing.T) {
	tests := []struct {
		balls int
		want  float64
	}{
		{0, 0},
		{1, 0.1},
		{5, 0.5},
		{6, 1.0},
		{37, 6.1},
		{120, 20.0},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := BallsToOvers(tt.balls); got != tt.want {
			t.Errorf("BallsToOvers(%d) = %v, want %v", tt.balls, got, tt.want)
		}
	}
}

func TestRates(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"strike rate", StrikeRate(50, 40), 125},
		{"strike rate thirds", StrikeRate(1, 3), 33.33},
		{"strike rate no balls", StrikeRate(10, 0), 0},
		{"batting average not out", BattingAverage(73, 0), 73},
		{"batting average", BattingAverage(100, 3), 33.33},
		{"bowling average no wickets", BowlingAverage(40, 0), 0},
		{"bowling average", BowlingAverage(45, 2), 22.5},
		{"economy", EconomyRate(30, 4), 7.5},
		{"economy no overs", EconomyRate(12, 0), 0},
		{"net run rate", NetRunRate(180, 20, 160, 20), 1},
		{"required run rate", RequiredRunRate(150, 140, 1.0), 10},
		{"required run rate passed", RequiredRunRate(150, 156, 2.0), -3},
		{"required run rate no overs", RequiredRunRate(150, 100, 0), 0},
		{"current run rate one ball", CurrentRunRate(4, 1), 24},
		{"current run rate one over", CurrentRunRate(24, 6), 24},
		{"current run rate nothing", CurrentRunRate(0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestProjectedScore(t *testing.T) {
	if got := ProjectedScore(24, 1, 20); got != 480 {
		t.Fatalf("ProjectedScore = %d, want 480", got)
	}
	if got := ProjectedScore(24, 0, 20); got != 0 {
		t.Fatalf("ProjectedScore with no overs = %d, want 0", got)
	}
}

func TestWinProbability(t *testing.T) {
	tests := []struct {
		name          string
		target, runs  int
		wicketsInHand int
		overs         float64
		want          float64
	}{
		{"no wickets in hand", 200, 120, 0, 5, 0},
		{"target reached", 150, 150, 3, 2, 100},
		{"target passed", 150, 154, 1, 0.5, 100},
		{"no overs left", 150, 140, 5, 0, 0},
		{"rrr ten sits in the minus ten band", 150, 140, 5, 1.0, 55},
		{"comfortable chase", 200, 100, 10, 20, 95},
		{"hopeless chase", 300, 100, 2, 10, 5},
		{"clamped at zero", 400, 100, 1, 5, 0},
		{"clamped at hundred", 110, 100, 10, 10, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WinProbability(tt.target, tt.runs, tt.wicketsInHand, tt.overs)
			if got != tt.want {
				t.Fatalf("WinProbability = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPhases(t *testing.T) {
	tests := []struct {
		over      int
		format    models.MatchFormat
		powerplay bool
		death     bool
	}{
		{0, models.FormatT20, true, false},
		{5, models.FormatT20, true, false},
		{6, models.FormatT20, false, false},
		{15, models.FormatT20, false, false},
		{16, models.FormatT20, false, true},
		{9, models.FormatODI, true, false},
		{10, models.FormatODI, false, false},
		{40, models.FormatODI, false, true},
		{3, models.FormatTest, false, false},
		{90, models.FormatTest, false, false},
	}
	for _, tt := range tests {
		if got := IsPowerplay(tt.over, tt.format); got != tt.powerplay {
			t.Errorf("IsPowerplay(%d, %s) = %v", tt.over, tt.format, got)
		}
		if got := IsDeathOvers(tt.over, tt.format); got != tt.death {
			t.Errorf("IsDeathOvers(%d, %s) = %v", tt.over, tt.format, got)
		}
	}
}

func TestResultText(t *testing.T) {
	tests := []struct {
		name   string
		margin int
		byWkts bool
		draw   bool
		want   string
	}{
		{"one wicket", 1, true, false, "Lions won by 1 wicket"},
		{"wickets", 4, true, false, "Lions won by 4 wickets"},
		{"one run", 1, false, false, "Lions won by 1 run"},
		{"runs", 27, false, false, "Lions won by 27 runs"},
		{"draw", 0, false, true, DrawText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultText("Lions", "Tigers", tt.margin, tt.byWkts, tt.draw); got != tt.want {
				t.Fatalf("ResultText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManOfMatch(t *testing.T) {
	if _, ok := ManOfMatch(nil); ok {
		t.Fatal("ManOfMatch(nil) reported a winner")
	}

	perfs := []Performance{
		{PlayerID: 1, Runs: 40, StrikeRate: 120, EconomyRate: 99}, // 60
		{PlayerID: 2, Wickets: 2, EconomyRate: 7},                 // 50
		{PlayerID: 3, Runs: 20, Wickets: 1, EconomyRate: 8.5},     // 55
		{PlayerID: 4, Runs: 40, StrikeRate: 110, EconomyRate: 10}, // 60, tie with 1
	}
	id, ok := ManOfMatch(perfs)
	if !ok || id != 1 {
		t.Fatalf("ManOfMatch = %d, %v; want 1, true", id, ok)
	}

	perfs = append(perfs, Performance{PlayerID: 5, Runs: 30, StrikeRate: 160, EconomyRate: 5})
	if id, _ := ManOfMatch(perfs); id != 5 {
		t.Fatalf("ManOfMatch = %d, want 5", id)
	}
}
