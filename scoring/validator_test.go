package scoring

import (
	"errors"
	"testing"

	"github.com/Dosada05/cricket-live/models"
)

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, s *InningsState)
		event models.BallEvent
		want  RejectReason
	}{
		{
			name:  "closed innings",
			setup: func(t *testing.T, s *InningsState) { s.Close(models.EndedMatchAbandoned) },
			event: dot(),
			want:  ReasonInningsClosed,
		},
		{
			name:  "wicket without type",
			event: models.BallEvent{IsWicket: true},
			want:  ReasonInvalidWicketData,
		},
		{
			name:  "bowled off a wide",
			event: models.BallEvent{IsWicket: true, WicketType: models.WicketBowled, IsExtra: true, ExtraType: models.ExtraWide, ExtraRuns: 1},
			want:  ReasonInvalidWicketData,
		},
		{
			name:  "caught off a no ball",
			event: models.BallEvent{IsWicket: true, WicketType: models.WicketCaught, IsExtra: true, ExtraType: models.ExtraNoBall, ExtraRuns: 1},
			want:  ReasonInvalidWicketData,
		},
		{
			name:  "non-striker bowled",
			event: models.BallEvent{IsWicket: true, WicketType: models.WicketBowled, DismissedPlayerID: ptr(otherOpener)},
			want:  ReasonInvalidWicketData,
		},
		{
			name:  "run out of a player not at the crease",
			event: models.BallEvent{IsWicket: true, WicketType: models.WicketRunOut, DismissedPlayerID: ptr(99)},
			want:  ReasonInvalidWicketData,
		},
		{
			name:  "wicket type on a clean ball",
			event: models.BallEvent{WicketType: models.WicketLBW},
			want:  ReasonInvalidWicketData,
		},
		{
			name:  "extra without type",
			event: models.BallEvent{IsExtra: true, ExtraRuns: 1},
			want:  ReasonInvalidExtraData,
		},
		{
			name:  "negative extra runs",
			event: models.BallEvent{IsExtra: true, ExtraType: models.ExtraNoBall, ExtraRuns: -1},
			want:  ReasonInvalidExtraData,
		},
		{
			name:  "extra runs on a clean ball",
			event: models.BallEvent{ExtraRuns: 2},
			want:  ReasonInvalidExtraData,
		},
		{
			name:  "bat runs off a bye",
			event: models.BallEvent{Runs: 2, IsExtra: true, ExtraType: models.ExtraBye, ExtraRuns: 1},
			want:  ReasonInvalidExtraData,
		},
		{
			name:  "too many runs",
			event: runs(8),
			want:  ReasonInvalidRunValue,
		},
		{
			name:  "negative runs",
			event: runs(-1),
			want:  ReasonInvalidRunValue,
		},
		{
			name: "bowler changed mid over",
			setup: func(t *testing.T, s *InningsState) {
				mustApply(t, s, dot())
			},
			event: by(dot(), nextBowler),
			want:  ReasonInvalidBowlerRotation,
		},
		{
			name:  "over from the future",
			event: models.BallEvent{OverNumber: ptr(3)},
			want:  ReasonInvalidOverNumber,
		},
		{
			name:  "negative over",
			event: models.BallEvent{OverNumber: ptr(-1)},
			want:  ReasonInvalidOverNumber,
		},
		{
			name:  "striker is the non-striker",
			event: models.BallEvent{StrikerID: ptr(otherOpener)},
			want:  ReasonInvalidBatters,
		},
		{
			name:  "bowler is batting",
			event: by(dot(), opener),
			want:  ReasonInvalidBatters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startInnings()
			if tt.setup != nil {
				tt.setup(t, s)
			}
			before := s.Snapshot()
			wantReason(t, Validate(s, tt.event), tt.want)
			if after := s.Snapshot(); after.Sequence != before.Sequence || after.Runs != before.Runs {
				t.Fatalf("Validate mutated state: %+v -> %+v", before, after)
			}
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		name  string
		event models.BallEvent
	}{
		{"dot", dot()},
		{"seven", runs(7)},
		{"stumped off a wide", models.BallEvent{IsWicket: true, WicketType: models.WicketStumped, IsExtra: true, ExtraType: models.ExtraWide, ExtraRuns: 1}},
		{"run out off a no ball", models.BallEvent{IsWicket: true, WicketType: models.WicketRunOut, IsExtra: true, ExtraType: models.ExtraNoBall, ExtraRuns: 1, DismissedPlayerID: ptr(otherOpener)}},
		{"four off a no ball", models.BallEvent{Runs: 4, IsExtra: true, ExtraType: models.ExtraNoBall, ExtraRuns: 1}},
		{"leg byes", models.BallEvent{IsExtra: true, ExtraType: models.ExtraLegBye, ExtraRuns: 2}},
		{"penalty", models.BallEvent{IsExtra: true, ExtraType: models.ExtraPenalty, ExtraRuns: 5}},
		{"explicit first over", models.BallEvent{OverNumber: ptr(0), BowlerID: ptr(firstBowler)}},
		{"caught", models.BallEvent{IsWicket: true, WicketType: models.WicketCaught, DismissedPlayerID: ptr(opener), WicketTakerID: ptr(25)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(startInnings(), tt.event); err != nil {
				t.Fatalf("Validate = %v", err)
			}
		})
	}
}

func TestValidateNeedsBowlerForFirstOver(t *testing.T) {
	header := testHeader(nil)
	header.OpeningBowlerID = nil
	s := NewInnings(header, testConfig())

	wantReason(t, Validate(s, dot()), ReasonInvalidBowlerRotation)
	if err := Validate(s, by(dot(), firstBowler)); err != nil {
		t.Fatalf("Validate with bowler = %v", err)
	}
}

func TestValidateCompletedOver(t *testing.T) {
	s := startInnings()
	for range BallsPerOver {
		mustApply(t, s, dot())
	}

	legal := by(models.BallEvent{OverNumber: ptr(0)}, firstBowler)
	wantReason(t, Validate(s, legal), ReasonOverComplete)

	illegal := by(wide(1), firstBowler)
	illegal.OverNumber = ptr(0)
	wantReason(t, Validate(s, illegal), ReasonInvalidOverNumber)

	next := by(models.BallEvent{OverNumber: ptr(1)}, nextBowler)
	if err := Validate(s, next); err != nil {
		t.Fatalf("Validate next over = %v", err)
	}
}

func TestValidationErrorUnwraps(t *testing.T) {
	err := Validate(startInnings(), runs(9))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("errors.As failed for %v", err)
	}
	if ve.Message == "" {
		t.Fatal("empty rejection message")
	}
}
