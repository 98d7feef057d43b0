package models

import (
	"strconv"
	"time"
)

type WicketType string

const (
	WicketBowled    WicketType = "BOWLED"
	WicketCaught    WicketType = "CAUGHT"
	WicketLBW       WicketType = "LBW"
	WicketRunOut    WicketType = "RUN_OUT"
	WicketStumped   WicketType = "STUMPED"
	WicketHitWicket WicketType = "HIT_WICKET"
)

func (w WicketType) Valid() bool {
	switch w {
	case WicketBowled, WicketCaught, WicketLBW, WicketRunOut, WicketStumped, WicketHitWicket:
		return true
	}
	return false
}

// CreditsBowler reports whether the dismissal counts in the bowler's figures.
func (w WicketType) CreditsBowler() bool {
	return w != WicketRunOut
}

type ExtraType string

const (
	ExtraWide    ExtraType = "WIDE"
	ExtraNoBall  ExtraType = "NO_BALL"
	ExtraBye     ExtraType = "BYE"
	ExtraLegBye  ExtraType = "LEG_BYE"
	ExtraPenalty ExtraType = "PENALTY"
)

func (e ExtraType) Valid() bool {
	switch e {
	case ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye, ExtraPenalty:
		return true
	}
	return false
}

// Illegal reports whether the delivery has to be bowled again.
func (e ExtraType) Illegal() bool {
	return e == ExtraWide || e == ExtraNoBall
}

// ChargedToBowler reports whether the extra runs go into the bowler's figures.
func (e ExtraType) ChargedToBowler() bool {
	return e == ExtraWide || e == ExtraNoBall
}

// BallLocation is visualisation metadata only; scoring never reads it.
type BallLocation struct {
	ShotAngle    *float64 `json:"shot_angle,omitempty"`
	ShotDistance *float64 `json:"shot_distance,omitempty"`
	ShotZone     *string  `json:"shot_zone,omitempty"`
	PitchLine    *string  `json:"pitch_line,omitempty"`
	PitchLength  *string  `json:"pitch_length,omitempty"`
	SpeedKph     *float64 `json:"speed_kph,omitempty"`
}

// BallEvent is one delivery. Runs are runs off the bat; ExtraRuns is the full
// extras count of the delivery (a wide that also runs one carries ExtraRuns 2).
type BallEvent struct {
	ID                int64         `json:"id,omitempty" db:"id"`
	InningsID         int           `json:"innings_id,omitempty" db:"innings_id"`
	Sequence          int           `json:"sequence,omitempty" db:"sequence"`
	OverNumber        *int          `json:"over_number,omitempty" db:"over_number"`
	BallInOver        int           `json:"ball_in_over,omitempty" db:"ball_in_over"`
	Runs              int           `json:"runs" db:"runs"`
	IsWicket          bool          `json:"is_wicket" db:"is_wicket"`
	WicketType        WicketType    `json:"wicket_type,omitempty" db:"wicket_type"`
	IsExtra           bool          `json:"is_extra" db:"is_extra"`
	ExtraType         ExtraType     `json:"extra_type,omitempty" db:"extra_type"`
	ExtraRuns         int           `json:"extra_runs" db:"extra_runs"`
	StrikerID         *int          `json:"striker_id,omitempty" db:"striker_id"`
	NonStrikerID      *int          `json:"non_striker_id,omitempty" db:"non_striker_id"`
	BowlerID          *int          `json:"bowler_id,omitempty" db:"bowler_id"`
	DismissedPlayerID *int          `json:"dismissed_player_id,omitempty" db:"dismissed_player_id"`
	WicketTakerID     *int          `json:"wicket_taker_id,omitempty" db:"wicket_taker_id"`
	Commentary        string        `json:"commentary,omitempty" db:"commentary"`
	Location          *BallLocation `json:"location,omitempty" db:"location"`
	CreatedAt         time.Time     `json:"created_at,omitempty" db:"created_at"`
}

// Legal reports whether the delivery counts toward the six balls of an over.
// Penalty runs are awarded outside play and are not a delivery at all.
func (b *BallEvent) Legal() bool {
	if !b.IsExtra {
		return true
	}
	return !b.ExtraType.Illegal() && b.ExtraType != ExtraPenalty
}

// Faced reports whether the striker is charged with a ball faced.
func (b *BallEvent) Faced() bool {
	return !b.IsExtra || (b.ExtraType != ExtraWide && b.ExtraType != ExtraPenalty)
}

// TotalRuns is what the delivery adds to the batting side's total.
func (b *BallEvent) TotalRuns() int {
	if b.IsExtra {
		return b.Runs + b.ExtraRuns
	}
	return b.Runs
}

// RunsRun is the number of times the batters crossed, which drives strike rotation.
// The automatic one-run penalty of a wide or no-ball is not a run.
func (b *BallEvent) RunsRun() int {
	if !b.IsExtra {
		return b.Runs
	}
	switch b.ExtraType {
	case ExtraBye, ExtraLegBye:
		return b.Runs + b.ExtraRuns
	case ExtraWide, ExtraNoBall:
		if b.ExtraRuns > 1 {
			return b.Runs + b.ExtraRuns - 1
		}
		return b.Runs
	default:
		return b.Runs
	}
}

// Notation renders the delivery the way a scorebook does: "4", "W", "1wd", "2nb", "1lb".
func (b *BallEvent) Notation() string {
	var s string
	if b.IsExtra {
		suffix := map[ExtraType]string{
			ExtraWide:    "wd",
			ExtraNoBall:  "nb",
			ExtraBye:     "b",
			ExtraLegBye:  "lb",
			ExtraPenalty: "p",
		}[b.ExtraType]
		s = strconv.Itoa(b.TotalRuns()) + suffix
	} else {
		s = strconv.Itoa(b.Runs)
	}
	if b.IsWicket {
		if s == "0" {
			return "W"
		}
		return s + "W"
	}
	return s
}
