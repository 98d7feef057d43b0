// Package live serialises ball submissions per match, persists them and fans
// the resulting score out to websocket rooms.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dosada05/cricket-live/commentary"
	"github.com/Dosada05/cricket-live/models"
	"github.com/Dosada05/cricket-live/repositories"
	"github.com/Dosada05/cricket-live/scoring"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrNoActiveInnings    = errors.New("no innings has been started")
	ErrInningsInProgress  = errors.New("current innings has not ended")
	ErrMatchFinished      = errors.New("match is finished")
	ErrInvalidLineup      = errors.New("invalid lineup")
	ErrShuttingDown       = errors.New("coordinator is shutting down")
)

// Store is the durable side of the coordinator.
type Store interface {
	// LoadMatch returns the match with both teams and their rosters.
	LoadMatch(ctx context.Context, matchID int) (*models.Match, error)
	ListInnings(ctx context.Context, matchID int) ([]models.Innings, error)
	LoadInnings(ctx context.Context, inningsID int) (*models.InningsRecord, error)
	// CreateInnings stores a new innings and makes it the match's current one.
	CreateInnings(ctx context.Context, innings *models.Innings) error
	AppendBallEvent(ctx context.Context, inningsID int, ev *models.BallEvent) error
	PersistInningsSnapshot(ctx context.Context, innings models.Innings, snapshot models.ScoreSnapshot) error
	UpdateMatchStatus(ctx context.Context, matchID int, status models.MatchStatus) error
	FinishMatch(ctx context.Context, matchID int, status models.MatchStatus, winnerTeamID *int, resultText *string) error
}

// Archiver keeps completed innings outside the database.
type Archiver interface {
	ArchiveInnings(ctx context.Context, card models.Scorecard) error
}

// MilestoneNotifier receives milestones for downstream delivery.
type MilestoneNotifier interface {
	NotifyMilestone(ctx context.Context, notice MilestoneNotice) error
}

type Options struct {
	// PersistRetries is how many times a failed snapshot write is retried.
	PersistRetries int
	RetryBackoff   time.Duration
	// JobTimeout bounds one submission once it is dequeued. Caller
	// cancellation does not interrupt a submission in progress.
	JobTimeout time.Duration
	Archiver   Archiver
	Notifier   MilestoneNotifier
}

// BallOutcome is what the submitter of an accepted ball gets back.
type BallOutcome struct {
	Event       models.BallEvent     `json:"event"`
	Snapshot    models.ScoreSnapshot `json:"snapshot"`
	Commentary  string               `json:"commentary"`
	EndedReason *models.EndedReason  `json:"ended_reason,omitempty"`
	Milestones  []models.Milestone   `json:"milestones,omitempty"`
	MatchStatus models.MatchStatus   `json:"match_status"`
	Result      *scoring.MatchResult `json:"result,omitempty"`
}

type InningsStart struct {
	BattingTeamID int
	StrikerID     int
	NonStrikerID  int
	BowlerID      int
}

// matchState is owned by the match's queue worker. Only snapshot may be read
// from other goroutines.
type matchState struct {
	match    *models.Match
	innings  []models.Innings
	current  *scoring.InningsState
	snapshot atomic.Pointer[models.ScoreSnapshot]
}

type job struct {
	ctx  context.Context
	run  func(ctx context.Context, st *matchState) error
	done chan error
}

type matchQueue struct {
	jobs    []*job
	running bool
}

type Coordinator struct {
	store    Store
	hub      *Hub
	comm     *commentary.Generator
	archiver Archiver
	notifier MilestoneNotifier
	logger   *slog.Logger
	opts     Options

	mu     sync.Mutex
	queues map[int]*matchQueue
	states map[int]*matchState

	closed bool
	jobs   sync.WaitGroup

	loads singleflight.Group
	tasks sync.WaitGroup
}

func NewCoordinator(store Store, hub *Hub, comm *commentary.Generator, logger *slog.Logger, opts Options) *Coordinator {
	if opts.PersistRetries < 0 {
		opts.PersistRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 50 * time.Millisecond
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 10 * time.Second
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &Coordinator{
		store:    store,
		hub:      hub,
		comm:     comm,
		archiver: opts.Archiver,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
		queues:   make(map[int]*matchQueue),
		states:   make(map[int]*matchState),
	}
}

// Subscribe takes effect immediately: the subscriber receives every update
// published after it returns.
func (c *Coordinator) Subscribe(matchID int, s Subscriber) {
	c.hub.Join(MatchRoom(matchID), s)
}

// Unsubscribe of an unknown subscriber is a no-op.
func (c *Coordinator) Unsubscribe(matchID int, subscriberID string) {
	c.hub.Leave(MatchRoom(matchID), subscriberID)
}

func (c *Coordinator) SubscribeTournament(tournamentID int, s Subscriber) {
	c.hub.Join(TournamentRoom(tournamentID), s)
}

func (c *Coordinator) UnsubscribeTournament(tournamentID int, subscriberID string) {
	c.hub.Leave(TournamentRoom(tournamentID), subscriberID)
}

// Disconnect drops a subscriber from every room it joined.
func (c *Coordinator) Disconnect(subscriberID string) {
	c.hub.LeaveAll(subscriberID)
}

// SubmitBall queues ev behind any in-flight submission for the same match.
// Rejections come back as *scoring.ValidationError and are never broadcast.
func (c *Coordinator) SubmitBall(ctx context.Context, matchID int, ev models.BallEvent) (*BallOutcome, error) {
	var out *BallOutcome
	err := c.do(ctx, matchID, func(ctx context.Context, st *matchState) error {
		var err error
		out, err = c.applyBall(ctx, st, ev)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StartInnings opens the next innings of the match. The innings before it must have ended.
func (c *Coordinator) StartInnings(ctx context.Context, matchID int, req InningsStart) (*models.Innings, error) {
	var out *models.Innings
	err := c.do(ctx, matchID, func(ctx context.Context, st *matchState) error {
		var err error
		out, err = c.startInnings(ctx, st, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AbandonMatch closes the current innings and the match. Any later ball is
// rejected as InningsClosed.
func (c *Coordinator) AbandonMatch(ctx context.Context, matchID int) (*models.Match, error) {
	var out *models.Match
	err := c.do(ctx, matchID, func(ctx context.Context, st *matchState) error {
		var err error
		out, err = c.abandon(ctx, st)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSnapshot returns the last persisted snapshot of the match's current
// innings. It never waits for the match queue.
func (c *Coordinator) GetSnapshot(ctx context.Context, matchID int) (*models.ScoreSnapshot, error) {
	st, err := c.state(ctx, matchID, false)
	if err != nil {
		return nil, err
	}
	snap := st.snapshot.Load()
	if snap == nil {
		return nil, ErrNoActiveInnings
	}
	cp := *snap
	return &cp, nil
}

// Snapshots reads several matches at once. Matches without an innings are skipped.
func (c *Coordinator) Snapshots(ctx context.Context, matchIDs []int) ([]LiveScore, error) {
	results := make([]*models.ScoreSnapshot, len(matchIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, id := range matchIDs {
		g.Go(func() error {
			snap, err := c.GetSnapshot(gctx, id)
			if errors.Is(err, ErrNoActiveInnings) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("match %d: %w", id, err)
			}
			results[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := make([]LiveScore, 0, len(matchIDs))
	for i, snap := range results {
		if snap != nil {
			scores = append(scores, LiveScore{MatchID: matchIDs[i], Snapshot: *snap})
		}
	}
	return scores, nil
}

// Shutdown stops accepting jobs, then waits for the queued ones and for
// background archive uploads. Later calls return ErrShuttingDown.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.jobs.Wait()
	c.tasks.Wait()
}

// do runs fn on the match's queue and waits for it. Jobs run in the order
// do acquired the coordinator lock.
func (c *Coordinator) do(ctx context.Context, matchID int, fn func(context.Context, *matchState) error) error {
	j := &job{ctx: ctx, run: fn, done: make(chan error, 1)}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrShuttingDown
	}
	c.jobs.Add(1)
	q, ok := c.queues[matchID]
	if !ok {
		q = &matchQueue{}
		c.queues[matchID] = q
	}
	q.jobs = append(q.jobs, j)
	if !q.running {
		q.running = true
		go c.drain(matchID, q)
	}
	c.mu.Unlock()

	return <-j.done
}

func (c *Coordinator) drain(matchID int, q *matchQueue) {
	for {
		c.mu.Lock()
		if len(q.jobs) == 0 {
			q.running = false
			// Очередь завершённого матча больше не нужна.
			if st, ok := c.states[matchID]; !ok || st.match.Status.Finished() {
				delete(c.queues, matchID)
				delete(c.states, matchID)
			}
			c.mu.Unlock()
			return
		}
		j := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		c.mu.Unlock()

		j.done <- c.runJob(matchID, j)
		c.jobs.Done()
	}
}

func (c *Coordinator) runJob(matchID int, j *job) (err error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(j.ctx), c.opts.JobTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			c.logger.Error("panic in match queue, state evicted", "match_id", matchID, "panic", p)
			c.evict(matchID)
			err = fmt.Errorf("%w: %v", scoring.ErrStateConflict, p)
		}
	}()

	st, err := c.state(ctx, matchID, true)
	if err != nil {
		return err
	}
	c.repair(ctx, st)
	return j.run(ctx, st)
}

// repair stores the result of a match whose deciding innings is closed but
// whose result never reached the store.
func (c *Coordinator) repair(ctx context.Context, st *matchState) {
	if st.current == nil || !st.current.Closed() || st.match.Status.Finished() {
		return
	}
	if res := c.settle(ctx, st); res != nil && st.match.Status.Finished() {
		c.logger.Warn("match result restored from stored balls", "match_id", st.match.ID, "result", res.Text)
	}
}

// state returns the cached match state or loads it. Concurrent cold loads of
// the same match share one trip to the store. Finished matches are cached only
// when keep is set, i.e. for the duration of a queue run.
func (c *Coordinator) state(ctx context.Context, matchID int, keep bool) (*matchState, error) {
	c.mu.Lock()
	st, ok := c.states[matchID]
	c.mu.Unlock()
	if ok {
		return st, nil
	}

	v, err, _ := c.loads.Do(strconv.Itoa(matchID), func() (any, error) {
		return c.load(context.WithoutCancel(ctx), matchID)
	})
	if err != nil {
		return nil, err
	}
	st = v.(*matchState)

	if !keep && st.match.Status.Finished() {
		return st, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.states[matchID]; ok {
		return existing, nil
	}
	c.states[matchID] = st
	return st, nil
}

func (c *Coordinator) load(ctx context.Context, matchID int) (*matchState, error) {
	m, err := c.store.LoadMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: match %d", ErrNotFound, matchID)
		}
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	list, err := c.store.ListInnings(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list innings of match %d: %w", matchID, err)
	}

	st := &matchState{match: m, innings: list}
	if m.CurrentInningsID == nil {
		return st, nil
	}

	rec, err := c.store.LoadInnings(ctx, *m.CurrentInningsID)
	if err != nil {
		if errors.Is(err, repositories.ErrInningsNotFound) {
			return nil, fmt.Errorf("%w: innings %d", ErrNotFound, *m.CurrentInningsID)
		}
		return nil, fmt.Errorf("load innings %d: %w", *m.CurrentInningsID, err)
	}
	current, err := scoring.Replay(rec.Innings, scoring.ConfigForMatch(m), rec.Balls)
	if err != nil {
		return nil, err
	}
	if m.Status == models.MatchStatusAbandoned {
		current.Close(models.EndedMatchAbandoned)
	}
	st.current = current

	header := current.Header()
	header.Version = current.Sequence()
	for i := range st.innings {
		if st.innings[i].ID == header.ID {
			st.innings[i] = header
		}
	}
	snap := current.Snapshot()
	st.snapshot.Store(&snap)

	c.logger.Debug("match state loaded", "match_id", matchID, "innings_id", header.ID, "balls", len(rec.Balls))
	return st, nil
}

func (c *Coordinator) evict(matchID int) {
	c.mu.Lock()
	delete(c.states, matchID)
	c.mu.Unlock()
}

func (c *Coordinator) applyBall(ctx context.Context, st *matchState, ev models.BallEvent) (*BallOutcome, error) {
	m := st.match
	logger := c.logger.With("match_id", m.ID)

	if st.current == nil {
		if m.Status.Finished() {
			return nil, &scoring.ValidationError{Reason: scoring.ReasonInningsClosed, Message: "match is " + string(m.Status)}
		}
		return nil, ErrNoActiveInnings
	}
	if err := scoring.Validate(st.current, ev); err != nil {
		logger.Debug("ball rejected", "innings_id", st.current.Header().ID, "error", err)
		return nil, err
	}

	// Мутации только на копии: до успешной записи состояние не меняется.
	next := st.current.Clone()
	res, err := next.ApplyBall(ev)
	if err != nil {
		logger.Error("validated ball could not be applied", "error", err)
		return nil, err
	}
	res.Event.Commentary = c.comment(st, next, res)

	header := next.Header()
	if err := c.store.AppendBallEvent(ctx, header.ID, &res.Event); err != nil {
		if errors.Is(err, repositories.ErrBallSequenceConflict) {
			logger.Error("ball sequence already taken, reloading state", "innings_id", header.ID, "sequence", res.Event.Sequence)
			c.evict(m.ID)
			return nil, fmt.Errorf("%w: %w", scoring.ErrStateConflict, err)
		}
		logger.Error("failed to append ball event", "innings_id", header.ID, "sequence", res.Event.Sequence, "error", err)
		return nil, fmt.Errorf("%w: append ball: %w", ErrPersistenceFailure, err)
	}

	// The ball is durable from here on.
	st.current = next
	header.Version = res.Event.Sequence
	st.innings[len(st.innings)-1] = header

	snapErr := c.persistSnapshot(ctx, header, res.Snapshot)
	switch {
	case errors.Is(snapErr, repositories.ErrInningsVersionConflict):
		logger.Error("innings updated by another writer, reloading state", "innings_id", header.ID)
		c.evict(m.ID)
		return nil, fmt.Errorf("%w: %w", scoring.ErrStateConflict, snapErr)
	case snapErr != nil:
		logger.Error("snapshot not persisted, update withheld", "innings_id", header.ID, "sequence", res.Event.Sequence, "error", snapErr)
	default:
		snap := res.Snapshot
		st.snapshot.Store(&snap)
	}

	if m.Status == models.MatchStatusScheduled {
		if err := c.store.UpdateMatchStatus(ctx, m.ID, models.MatchStatusLive); err != nil {
			logger.Warn("failed to mark match live", "error", err)
		}
		m.Status = models.MatchStatusLive
	}

	out := &BallOutcome{
		Event:       res.Event,
		Snapshot:    res.Snapshot,
		Commentary:  res.Event.Commentary,
		EndedReason: res.EndedReason,
		Milestones:  res.Milestones,
	}

	if res.EndedReason != nil {
		logger.Info("innings completed",
			"innings_id", header.ID,
			"number", header.Number,
			"reason", *res.EndedReason,
			"score", fmt.Sprintf("%d/%d", header.Runs, header.Wickets),
		)
		c.archive(m, next)
		out.Result = c.settle(ctx, st)
	}
	out.MatchStatus = m.Status

	if snapErr != nil {
		// Счёт не сохранён: ничего не рассылаем, но вехи уходят в notifier.
		for _, ms := range out.Milestones {
			if err := c.notify(ctx, c.notice(m, ms)); err != nil {
				logger.Error("milestone delivery failed", "kind", ms.Kind, "error", err)
			}
		}
		return nil, fmt.Errorf("%w: persist snapshot: %w", ErrPersistenceFailure, snapErr)
	}

	c.publish(ctx, st, out)
	return out, nil
}

func (c *Coordinator) persistSnapshot(ctx context.Context, header models.Innings, snap models.ScoreSnapshot) error {
	var err error
	for attempt := 0; attempt <= c.opts.PersistRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(c.opts.RetryBackoff * time.Duration(attempt)):
			}
		}
		if err = c.store.PersistInningsSnapshot(ctx, header, snap); err == nil {
			return nil
		}
		if errors.Is(err, repositories.ErrInningsVersionConflict) {
			return err
		}
		c.logger.Warn("snapshot write failed", "innings_id", header.ID, "attempt", attempt+1, "error", err)
	}
	return err
}

// settle decides the match once its last innings is over. The match stays
// unfinished in memory when the result cannot be stored, so the next job on
// the queue tries again.
func (c *Coordinator) settle(ctx context.Context, st *matchState) *scoring.MatchResult {
	m := st.match
	last := st.innings[len(st.innings)-1]
	teamName := func(id int) string { return c.teamName(m, id) }

	var result scoring.MatchResult
	switch {
	case last.Number >= m.Format.FinalInnings():
		result = scoring.DecideResult(m, last, teamName)
	default:
		r, ok := scoring.InningsVictory(m, st.innings, teamName)
		if !ok {
			return nil
		}
		result = r
	}

	if err := c.store.FinishMatch(ctx, m.ID, models.MatchStatusCompleted, result.WinnerTeamID, &result.Text); err != nil {
		c.logger.Error("failed to store match result", "match_id", m.ID, "result", result.Text, "error", err)
		return &result
	}
	m.Status = models.MatchStatusCompleted
	m.WinnerTeamID = result.WinnerTeamID
	m.ResultText = &result.Text
	c.logger.Info("match completed", "match_id", m.ID, "result", result.Text)
	return &result
}

func (c *Coordinator) startInnings(ctx context.Context, st *matchState, req InningsStart) (*models.Innings, error) {
	m := st.match
	if m.Status.Finished() {
		return nil, ErrMatchFinished
	}
	if st.current != nil && !st.current.Closed() {
		return nil, ErrInningsInProgress
	}
	number := len(st.innings) + 1
	if number > m.Format.FinalInnings() {
		return nil, ErrMatchFinished
	}

	bowling := m.Opponent(req.BattingTeamID)
	if bowling == 0 {
		return nil, fmt.Errorf("%w: team %d is not playing match %d", ErrInvalidLineup, req.BattingTeamID, m.ID)
	}
	if err := checkLineup(m, req, bowling); err != nil {
		return nil, err
	}

	inn := models.Innings{
		MatchID:             m.ID,
		Number:              number,
		BattingTeamID:       req.BattingTeamID,
		BowlingTeamID:       bowling,
		Status:              models.InningsNotStarted,
		OpeningStrikerID:    &req.StrikerID,
		OpeningNonStrikerID: &req.NonStrikerID,
		OpeningBowlerID:     &req.BowlerID,
	}
	if number == m.Format.FinalInnings() {
		target := scoring.TargetFor(st.innings, req.BattingTeamID)
		inn.Target = &target
	}

	if err := c.store.CreateInnings(ctx, &inn); err != nil {
		if errors.Is(err, repositories.ErrInningsNumberConflict) {
			c.evict(m.ID)
			return nil, fmt.Errorf("%w: %w", scoring.ErrStateConflict, err)
		}
		return nil, fmt.Errorf("%w: create innings: %w", ErrPersistenceFailure, err)
	}

	st.innings = append(st.innings, inn)
	st.current = scoring.NewInnings(inn, scoring.ConfigForMatch(m))
	m.CurrentInningsID = &inn.ID
	snap := st.current.Snapshot()
	st.snapshot.Store(&snap)

	c.logger.Info("innings started", "match_id", m.ID, "innings_id", inn.ID, "number", number, "batting_team_id", inn.BattingTeamID)
	c.publish(ctx, st, &BallOutcome{Snapshot: snap, MatchStatus: m.Status})
	return &inn, nil
}

func checkLineup(m *models.Match, req InningsStart, bowlingTeamID int) error {
	if req.StrikerID == req.NonStrikerID {
		return fmt.Errorf("%w: openers must be two different players", ErrInvalidLineup)
	}
	if bat := m.Team(req.BattingTeamID); bat != nil && len(bat.Players) > 0 {
		for _, id := range []int{req.StrikerID, req.NonStrikerID} {
			if !bat.HasPlayer(id) {
				return fmt.Errorf("%w: player %d is not on team %d", ErrInvalidLineup, id, bat.ID)
			}
		}
	}
	if bowl := m.Team(bowlingTeamID); bowl != nil && len(bowl.Players) > 0 && !bowl.HasPlayer(req.BowlerID) {
		return fmt.Errorf("%w: bowler %d is not on team %d", ErrInvalidLineup, req.BowlerID, bowl.ID)
	}
	return nil
}

func (c *Coordinator) abandon(ctx context.Context, st *matchState) (*models.Match, error) {
	m := st.match
	if m.Status.Finished() {
		return nil, ErrMatchFinished
	}
	if err := c.store.FinishMatch(ctx, m.ID, models.MatchStatusAbandoned, nil, nil); err != nil {
		return nil, fmt.Errorf("%w: abandon match: %w", ErrPersistenceFailure, err)
	}
	m.Status = models.MatchStatusAbandoned

	out := &BallOutcome{MatchStatus: m.Status}
	if st.current != nil && !st.current.Closed() {
		st.current.Close(models.EndedMatchAbandoned)
		header := st.current.Header()
		header.Version = st.current.Sequence()
		st.innings[len(st.innings)-1] = header
		snap := st.current.Snapshot()
		if err := c.persistSnapshot(ctx, header, snap); err != nil {
			// Replay closes the innings anyway once the match is abandoned.
			c.logger.Warn("failed to close abandoned innings", "match_id", m.ID, "innings_id", header.ID, "error", err)
		}
		st.snapshot.Store(&snap)
		out.Snapshot = snap
		out.EndedReason = snap.EndedReason
	} else if snap := st.snapshot.Load(); snap != nil {
		out.Snapshot = *snap
	}

	c.logger.Info("match abandoned", "match_id", m.ID)
	c.publish(ctx, st, out)
	cp := *m
	return &cp, nil
}

// publish fans an update out to the match room and the tournament room in
// parallel with milestone delivery.
func (c *Coordinator) publish(ctx context.Context, st *matchState, out *BallOutcome) {
	m := st.match
	update := ScoreUpdate{
		MatchID:     m.ID,
		Snapshot:    out.Snapshot,
		Commentary:  out.Commentary,
		EndedReason: out.EndedReason,
		MatchStatus: out.MatchStatus,
		Result:      out.Result,
	}
	if out.Event.Sequence > 0 {
		ev := out.Event
		update.Event = &ev
	}
	msg, err := encode(MsgScoreUpdate, m.ID, "", update)
	if err != nil {
		c.logger.Error("failed to encode score update", "match_id", m.ID, "error", err)
		return
	}

	rooms := []string{MatchRoom(m.ID)}
	if m.TournamentID != nil {
		rooms = append(rooms, TournamentRoom(*m.TournamentID))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, room := range rooms {
		g.Go(func() error {
			c.hub.Broadcast(room, msg)
			return nil
		})
	}
	for _, ms := range out.Milestones {
		g.Go(func() error {
			return c.announce(gctx, m, ms)
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Error("milestone delivery failed", "match_id", m.ID, "error", err)
	}
}

func (c *Coordinator) announce(ctx context.Context, m *models.Match, ms models.Milestone) error {
	notice := c.notice(m, ms)
	msg, err := encode(MsgMilestone, m.ID, "", notice)
	if err != nil {
		return err
	}
	c.hub.Broadcast(MatchRoom(m.ID), msg)
	return c.notify(ctx, notice)
}

func (c *Coordinator) notice(m *models.Match, ms models.Milestone) MilestoneNotice {
	name := c.playerName(m, ms.PlayerID)
	return MilestoneNotice{
		Milestone:  ms,
		PlayerName: name,
		Commentary: c.comm.Milestone(ms.Kind, name, ms.Value),
	}
}

func (c *Coordinator) notify(ctx context.Context, notice MilestoneNotice) error {
	c.logger.Info("milestone", "match_id", notice.MatchID, "kind", notice.Kind, "player_id", notice.PlayerID, "value", notice.Value)
	return c.notifier.NotifyMilestone(ctx, notice)
}

func (c *Coordinator) comment(st *matchState, inn *scoring.InningsState, res scoring.ApplyResult) string {
	ev := res.Event
	bc := commentary.BallContext{Event: ev, Snapshot: res.Snapshot}
	if ev.StrikerID != nil {
		bc.Batsman = c.playerName(st.match, *ev.StrikerID)
		if f, ok := inn.BatterFigures(*ev.StrikerID); ok {
			bc.BatsmanRuns, bc.BatsmanBalls = f.Runs, f.Balls
		}
	}
	if ev.BowlerID != nil {
		bc.Bowler = c.playerName(st.match, *ev.BowlerID)
		if f, ok := inn.BowlerFigures(*ev.BowlerID); ok {
			bc.BowlerWickets, bc.BowlerRuns = f.Wickets, f.Runs
		}
	}
	return c.comm.Ball(bc, "")
}

func (c *Coordinator) archive(m *models.Match, inn *scoring.InningsState) {
	if c.archiver == nil {
		return
	}
	overs := inn.Overs()
	card := models.Scorecard{
		MatchID:  m.ID,
		Format:   m.Format,
		Innings:  inn.Header(),
		Overs:    overs,
		Batting:  inn.Batting(),
		Bowling:  inn.Bowling(),
		Snapshot: inn.Snapshot(),
	}
	for _, o := range overs {
		card.Balls = append(card.Balls, o.Balls...)
	}

	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.archiver.ArchiveInnings(ctx, card); err != nil {
			c.logger.Error("failed to archive scorecard", "match_id", card.MatchID, "innings_id", card.Innings.ID, "error", err)
		}
	}()
}

func (c *Coordinator) playerName(m *models.Match, playerID int) string {
	if name, ok := m.PlayerName(playerID); ok {
		return name
	}
	return "Player " + strconv.Itoa(playerID)
}

func (c *Coordinator) teamName(m *models.Match, teamID int) string {
	if t := m.Team(teamID); t != nil {
		return t.Name
	}
	return "Team " + strconv.Itoa(teamID)
}

// LogNotifier only records milestones in the log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) NotifyMilestone(_ context.Context, notice MilestoneNotice) error {
	n.Logger.Debug("milestone notification", "kind", notice.Kind, "player", notice.PlayerName, "match_id", notice.MatchID)
	return nil
}
