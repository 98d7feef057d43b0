package scoring

import (
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-live/models"
)

type RejectReason string

const (
	ReasonInningsClosed         RejectReason = "InningsClosed"
	ReasonOverComplete          RejectReason = "OverComplete"
	ReasonInvalidOverNumber     RejectReason = "InvalidOverNumber"
	ReasonInvalidWicketData     RejectReason = "InvalidWicketData"
	ReasonInvalidExtraData      RejectReason = "InvalidExtraData"
	ReasonInvalidRunValue       RejectReason = "InvalidRunValue"
	ReasonInvalidBowlerRotation RejectReason = "InvalidBowlerRotation"
	ReasonInvalidBatters        RejectReason = "InvalidBatters"
)

const (
	MinRuns = 0
	MaxRuns = 7
)

// ValidationError is a rejected ball event. It is reported to the submitter only.
type ValidationError struct {
	Reason  RejectReason `json:"reason"`
	Message string       `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func reject(reason RejectReason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// RejectionReason extracts the reason from a validation failure anywhere in err's chain.
func RejectionReason(err error) (RejectReason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}

// Validate checks a proposed ball against the current innings state.
// It never mutates s; a nil result means the event may be applied.
func Validate(s *InningsState, ev models.BallEvent) error {
	if s.Closed() {
		return reject(ReasonInningsClosed, "innings %d has ended", s.header.Number)
	}

	if err := validateOver(s, ev); err != nil {
		return err
	}

	bowler := s.resolveBowler(ev)
	striker, nonStriker := s.resolveBatters(ev)

	if err := validateWicket(ev, bowler, striker, nonStriker); err != nil {
		return err
	}
	if err := validateExtra(ev); err != nil {
		return err
	}
	if ev.Runs < MinRuns || ev.Runs > MaxRuns {
		return reject(ReasonInvalidRunValue, "runs must be between %d and %d, got %d", MinRuns, MaxRuns, ev.Runs)
	}
	if err := validateBowler(s, ev, bowler); err != nil {
		return err
	}

	if striker != 0 && striker == nonStriker {
		return reject(ReasonInvalidBatters, "striker and non-striker are the same player (%d)", striker)
	}
	if bowler != 0 && (bowler == striker || bowler == nonStriker) {
		return reject(ReasonInvalidBatters, "player %d cannot bat and bowl on the same delivery", bowler)
	}
	return nil
}

func validateOver(s *InningsState, ev models.BallEvent) error {
	expected := s.expectedOverNumber()
	target := expected
	if ev.OverNumber != nil {
		target = *ev.OverNumber
	}

	if target < 0 || target > expected {
		return reject(ReasonInvalidOverNumber, "over %d is out of sequence, current over is %d", target, expected)
	}
	if target < len(s.overs) {
		over := &s.overs[target]
		if over.LegalBalls >= BallsPerOver || over.Completed {
			if ev.Legal() {
				return reject(ReasonOverComplete, "over %d already has %d legal deliveries", target, over.LegalBalls)
			}
			return reject(ReasonInvalidOverNumber, "over %d is closed", target)
		}
	}
	return nil
}

func validateWicket(ev models.BallEvent, bowler, striker, nonStriker int) error {
	if !ev.IsWicket {
		if ev.WicketType != "" || ev.DismissedPlayerID != nil || ev.WicketTakerID != nil {
			return reject(ReasonInvalidWicketData, "wicket details given for a delivery without a wicket")
		}
		return nil
	}

	if !ev.WicketType.Valid() {
		return reject(ReasonInvalidWicketData, "unknown or missing wicket type %q", ev.WicketType)
	}

	if ev.IsExtra {
		switch ev.ExtraType {
		case models.ExtraWide:
			if ev.WicketType != models.WicketRunOut && ev.WicketType != models.WicketStumped {
				return reject(ReasonInvalidWicketData, "%s is not possible off a wide", ev.WicketType)
			}
		case models.ExtraNoBall, models.ExtraBye, models.ExtraLegBye:
			if ev.WicketType != models.WicketRunOut {
				return reject(ReasonInvalidWicketData, "%s is not possible off a %s", ev.WicketType, ev.ExtraType)
			}
		}
	}

	if ev.WicketType.CreditsBowler() {
		if bowler == 0 {
			return reject(ReasonInvalidWicketData, "%s must be credited to a bowler", ev.WicketType)
		}
		if ev.DismissedPlayerID != nil && striker != 0 && *ev.DismissedPlayerID != striker {
			return reject(ReasonInvalidWicketData, "only the striker can be out %s", ev.WicketType)
		}
		return nil
	}

	if ev.DismissedPlayerID != nil && striker != 0 && nonStriker != 0 &&
		*ev.DismissedPlayerID != striker && *ev.DismissedPlayerID != nonStriker {
		return reject(ReasonInvalidWicketData, "player %d is not at the crease", *ev.DismissedPlayerID)
	}
	return nil
}

func validateExtra(ev models.BallEvent) error {
	if ev.ExtraRuns < 0 {
		return reject(ReasonInvalidExtraData, "extra runs must not be negative, got %d", ev.ExtraRuns)
	}
	if !ev.IsExtra {
		if ev.ExtraType != "" || ev.ExtraRuns != 0 {
			return reject(ReasonInvalidExtraData, "extra details given for a delivery without an extra")
		}
		return nil
	}
	if !ev.ExtraType.Valid() {
		return reject(ReasonInvalidExtraData, "unknown or missing extra type %q", ev.ExtraType)
	}
	switch ev.ExtraType {
	case models.ExtraWide, models.ExtraBye, models.ExtraLegBye:
		if ev.Runs != 0 {
			return reject(ReasonInvalidExtraData, "no runs off the bat are possible on a %s", ev.ExtraType)
		}
	}
	return nil
}

func validateBowler(s *InningsState, ev models.BallEvent, bowler int) error {
	if over := s.openOver(); over != nil {
		if bowler != over.BowlerID {
			return reject(ReasonInvalidBowlerRotation, "over %d is being bowled by %d, not %d", over.Number, over.BowlerID, bowler)
		}
		return nil
	}

	if bowler == 0 {
		return reject(ReasonInvalidBowlerRotation, "a bowler is required to start over %d", s.expectedOverNumber())
	}
	if prev := s.previousOverBowler(); prev != 0 && prev == bowler {
		return reject(ReasonInvalidBowlerRotation, "bowler %d bowled the previous over", bowler)
	}
	return nil
}
