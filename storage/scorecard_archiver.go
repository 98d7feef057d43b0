package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/cricket-live/models"
	"github.com/google/uuid"
)

// ScorecardArchiver uploads completed innings as JSON documents.
type ScorecardArchiver struct {
	uploader FileUploader
	logger   *slog.Logger
}

func NewScorecardArchiver(uploader FileUploader, logger *slog.Logger) *ScorecardArchiver {
	return &ScorecardArchiver{uploader: uploader, logger: logger}
}

func ScorecardKey(matchID, inningsNumber int, id string) string {
	return fmt.Sprintf("scorecards/%d/innings-%d-%s.json", matchID, inningsNumber, id)
}

func (a *ScorecardArchiver) ArchiveInnings(ctx context.Context, card models.Scorecard) error {
	body, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encode scorecard for innings %d: %w", card.Innings.ID, err)
	}

	key := ScorecardKey(card.MatchID, card.Innings.Number, uuid.NewString())
	res, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "scorecard archived",
		slog.Int("match_id", card.MatchID),
		slog.Int("innings", card.Innings.Number),
		slog.String("key", res.Key),
		slog.String("location", res.Location),
	)
	return nil
}
