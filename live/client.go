package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/cricket-live/models"
	"github.com/Dosada05/cricket-live/scoring"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

type ClientConfig struct {
	// Scorer allows the socket to submit balls.
	Scorer            bool
	MessagesPerSecond float64
	Burst             int
}

// Client is one websocket connection. It may subscribe to any number of rooms.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	coord   *Coordinator
	limiter *rate.Limiter
	scorer  bool
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, coord *Coordinator, logger *slog.Logger, cfg ClientConfig) *Client {
	if cfg.MessagesPerSecond <= 0 {
		cfg.MessagesPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	id := uuid.NewString()
	return &Client{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		coord:   coord,
		limiter: rate.NewLimiter(rate.Limit(cfg.MessagesPerSecond), cfg.Burst),
		scorer:  cfg.Scorer,
		logger:  logger.With("subscriber_id", id),
	}
}

func (c *Client) ID() string { return c.id }

// Send queues msg without blocking. It reports false if the buffer is full
// or the client is gone.
func (c *Client) Send(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump handles inbound envelopes until the connection drops, then
// removes the client from every room.
func (c *Client) ReadPump() {
	defer func() {
		c.coord.Disconnect(c.id)
		c.close()
		c.conn.Close()
		c.logger.Debug("client read pump closed")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket closed unexpectedly", "error", err)
			}
			return
		}
		c.handle(context.Background(), message)
	}
}

// WritePump writes one frame per message and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(ctx context.Context, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.reply(MsgError, 0, "", ErrorPayload{Message: "malformed message"})
		return
	}
	if !c.limiter.Allow() {
		c.reply(MsgError, env.MatchID, env.RequestID, ErrorPayload{Message: "rate limit exceeded"})
		return
	}

	switch env.Type {
	case MsgSubscribeMatch:
		if env.MatchID <= 0 {
			c.reply(MsgError, 0, env.RequestID, ErrorPayload{Message: "match_id is required"})
			return
		}
		c.coord.Subscribe(env.MatchID, c)
		c.reply(MsgSubscribed, env.MatchID, env.RequestID, nil)
		// Текущий счёт сразу после подписки, если иннингс уже идёт.
		if snap, err := c.coord.GetSnapshot(ctx, env.MatchID); err == nil {
			c.reply(MsgLiveScore, env.MatchID, env.RequestID, LiveScore{MatchID: env.MatchID, Snapshot: *snap})
		}

	case MsgUnsubscribeMatch:
		c.coord.Unsubscribe(env.MatchID, c.id)

	case MsgSubscribeTournament:
		if env.TournamentID <= 0 {
			c.reply(MsgError, 0, env.RequestID, ErrorPayload{Message: "tournament_id is required"})
			return
		}
		c.coord.SubscribeTournament(env.TournamentID, c)
		c.reply(MsgSubscribed, 0, env.RequestID, nil)

	case MsgUnsubscribeTournament:
		c.coord.UnsubscribeTournament(env.TournamentID, c.id)

	case MsgGetLiveScore:
		snap, err := c.coord.GetSnapshot(ctx, env.MatchID)
		if err != nil {
			c.replyError(env, err)
			return
		}
		c.reply(MsgLiveScore, env.MatchID, env.RequestID, LiveScore{MatchID: env.MatchID, Snapshot: *snap})

	case MsgSubmitBall:
		if !c.scorer {
			c.reply(MsgError, env.MatchID, env.RequestID, ErrorPayload{Message: "scorer role required"})
			return
		}
		var ev models.BallEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			c.reply(MsgError, env.MatchID, env.RequestID, ErrorPayload{Message: "malformed ball event"})
			return
		}
		out, err := c.coord.SubmitBall(ctx, env.MatchID, ev)
		if err != nil {
			c.replyError(env, err)
			return
		}
		c.reply(MsgBallAccepted, env.MatchID, env.RequestID, out)

	default:
		c.reply(MsgError, env.MatchID, env.RequestID, ErrorPayload{Message: "unknown message type " + string(env.Type)})
	}
}

func (c *Client) replyError(env Envelope, err error) {
	var ve *scoring.ValidationError
	if errors.As(err, &ve) {
		c.reply(MsgBallRejected, env.MatchID, env.RequestID, Rejection{Reason: ve.Reason, Message: ve.Message})
		return
	}
	msg := "internal error"
	switch {
	case errors.Is(err, ErrNotFound):
		msg = "match not found"
	case errors.Is(err, ErrNoActiveInnings):
		msg = ErrNoActiveInnings.Error()
	case errors.Is(err, scoring.ErrStateConflict):
		msg = "state conflict, retry the submission"
	case errors.Is(err, ErrPersistenceFailure):
		msg = "ball could not be stored"
	case errors.Is(err, ErrShuttingDown):
		msg = ErrShuttingDown.Error()
	default:
		c.logger.Error("socket request failed", "type", env.Type, "match_id", env.MatchID, "error", err)
	}
	c.reply(MsgError, env.MatchID, env.RequestID, ErrorPayload{Message: msg})
}

func (c *Client) reply(t MessageType, matchID int, requestID string, payload any) {
	msg, err := encode(t, matchID, requestID, payload)
	if err != nil {
		c.logger.Error("failed to encode reply", "type", t, "error", err)
		return
	}
	if !c.Send(msg) {
		c.logger.Warn("reply dropped", "type", t)
	}
}
