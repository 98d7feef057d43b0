package live

import (
	"encoding/json"
	"fmt"

	"github.com/Dosada05/cricket-live/models"
	"github.com/Dosada05/cricket-live/scoring"
)

type MessageType string

// Inbound.
const (
	MsgSubmitBall            MessageType = "submit-ball"
	MsgSubscribeMatch        MessageType = "subscribe-match"
	MsgUnsubscribeMatch      MessageType = "unsubscribe-match"
	MsgSubscribeTournament   MessageType = "subscribe-tournament"
	MsgUnsubscribeTournament MessageType = "unsubscribe-tournament"
	MsgGetLiveScore          MessageType = "get-live-score"
)

// Outbound.
const (
	MsgScoreUpdate  MessageType = "score-update"
	MsgLiveScore    MessageType = "live-score"
	MsgBallAccepted MessageType = "ball-accepted"
	MsgBallRejected MessageType = "ball-rejected"
	MsgMilestone    MessageType = "milestone"
	MsgSubscribed   MessageType = "subscribed"
	MsgError        MessageType = "error"
)

// Envelope is the frame of every socket message in both directions.
type Envelope struct {
	Type         MessageType     `json:"type"`
	MatchID      int             `json:"match_id,omitempty"`
	TournamentID int             `json:"tournament_id,omitempty"`
	RequestID    string          `json:"request_id,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

type ScoreUpdate struct {
	MatchID     int                  `json:"match_id"`
	Snapshot    models.ScoreSnapshot `json:"snapshot"`
	Commentary  string               `json:"commentary,omitempty"`
	EndedReason *models.EndedReason  `json:"ended_reason,omitempty"`
	Event       *models.BallEvent    `json:"event,omitempty"`
	MatchStatus models.MatchStatus   `json:"match_status"`
	Result      *scoring.MatchResult `json:"result,omitempty"`
}

type LiveScore struct {
	MatchID  int                  `json:"match_id"`
	Snapshot models.ScoreSnapshot `json:"snapshot"`
}

type MilestoneNotice struct {
	models.Milestone
	PlayerName string `json:"player_name"`
	Commentary string `json:"commentary"`
}

// Rejection is sent to the submitter of a ball the validator refused.
type Rejection struct {
	Reason  scoring.RejectReason `json:"reason"`
	Message string               `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func encode(t MessageType, matchID int, requestID string, payload any) ([]byte, error) {
	env := Envelope{Type: t, MatchID: matchID, RequestID: requestID}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", t, err)
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}
