package scoring

import (
	"testing"

	"github.com/Dosada05/cricket-live/models"
)

const (
	opener      = 11
	otherOpener = 12
	firstBowler = 21
	nextBowler  = 22
)

func ptr(v int) *int { return &v }

func testHeader(target *int) models.Innings {
	return models.Innings{
		ID:                  7,
		MatchID:             3,
		Number:              1,
		BattingTeamID:       1,
		BowlingTeamID:       2,
		Target:              target,
		Status:              models.InningsNotStarted,
		OpeningStrikerID:    ptr(opener),
		OpeningNonStrikerID: ptr(otherOpener),
		OpeningBowlerID:     ptr(firstBowler),
	}
}

func testConfig() Config {
	return Config{MatchID: 3, Format: models.FormatT20, MaxOvers: 20, MaxWickets: 10}
}

func startInnings() *InningsState {
	return NewInnings(testHeader(nil), testConfig())
}

func dot() models.BallEvent { return models.BallEvent{} }

func runs(n int) models.BallEvent { return models.BallEvent{Runs: n} }

func wide(extra int) models.BallEvent {
	return models.BallEvent{IsExtra: true, ExtraType: models.ExtraWide, ExtraRuns: extra}
}

func bowled() models.BallEvent {
	return models.BallEvent{IsWicket: true, WicketType: models.WicketBowled}
}

func by(ev models.BallEvent, bowler int) models.BallEvent {
	ev.BowlerID = ptr(bowler)
	return ev
}

// alternating assigns the bowler for the current over, swapping ends every over.
func alternating(s *InningsState, ev models.BallEvent) models.BallEvent {
	if (s.LegalBalls()/BallsPerOver)%2 == 0 {
		return by(ev, firstBowler)
	}
	return by(ev, nextBowler)
}

func mustApply(t *testing.T, s *InningsState, ev models.BallEvent) ApplyResult {
	t.Helper()
	if err := Validate(s, ev); err != nil {
		t.Fatalf("Validate(%+v) = %v", ev, err)
	}
	res, err := s.ApplyBall(ev)
	if err != nil {
		t.Fatalf("ApplyBall(%+v) = %v", ev, err)
	}
	return res
}

func wantReason(t *testing.T, err error, want RejectReason) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected rejection %s, got nil", want)
	}
	got, ok := RejectionReason(err)
	if !ok {
		t.Fatalf("error %v is not a validation error", err)
	}
	if got != want {
		t.Fatalf("reason = %s, want %s (%v)", got, want, err)
	}
}
