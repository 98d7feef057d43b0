package scoring

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Dosada05/cricket-live/models"
)

// ErrStateConflict means ApplyBall was called with an event the validator would reject.
var ErrStateConflict = errors.New("ball applied without passing validation")

const (
	fiftyRuns     = 50
	centuryRuns   = 100
	fiveWickets   = 5
	hatTrickBalls = 3
)

// Config carries the match rules an innings is played under.
type Config struct {
	MatchID    int
	Format     models.MatchFormat
	MaxOvers   int // 0 means unlimited
	MaxWickets int
}

// ConfigForMatch derives the innings rules from a match.
func ConfigForMatch(m *models.Match) Config {
	return Config{
		MatchID:    m.ID,
		Format:     m.Format,
		MaxOvers:   m.OverLimit(),
		MaxWickets: m.MaxWickets(),
	}
}

// ApplyResult is what one accepted ball produces.
type ApplyResult struct {
	Event         models.BallEvent     `json:"event"`
	Snapshot      models.ScoreSnapshot `json:"snapshot"`
	EndedReason   *models.EndedReason  `json:"ended_reason,omitempty"`
	OverCompleted bool                 `json:"over_completed"`
	Milestones    []models.Milestone   `json:"milestones,omitempty"`
}

// InningsState is the authoritative in-memory progress of one innings.
// It is not safe for concurrent use; the live coordinator owns each instance.
type InningsState struct {
	cfg    Config
	header models.Innings

	status      models.InningsStatus
	endedReason *models.EndedReason

	runs       int
	wickets    int
	legalBalls int
	extras     int
	sequence   int

	overs []models.Over

	striker    int
	nonStriker int
	bowler     int

	batters      map[int]*models.BatterFigures
	battingOrder []int
	bowlers      map[int]*models.BowlerFigures
	bowlingOrder []int
	streaks      map[int]int
}

// NewInnings starts an innings from its persisted header. Counters in the
// header are ignored; they are rebuilt by Replay.
func NewInnings(header models.Innings, cfg Config) *InningsState {
	if cfg.MaxWickets <= 0 {
		cfg.MaxWickets = models.DefaultPlayersPerSide - 1
	}
	s := &InningsState{
		cfg:     cfg,
		header:  header,
		status:  models.InningsNotStarted,
		batters: make(map[int]*models.BatterFigures),
		bowlers: make(map[int]*models.BowlerFigures),
		streaks: make(map[int]int),
	}
	if header.OpeningStrikerID != nil {
		s.striker = *header.OpeningStrikerID
		s.batter(s.striker)
	}
	if header.OpeningNonStrikerID != nil {
		s.nonStriker = *header.OpeningNonStrikerID
		s.batter(s.nonStriker)
	}
	if header.OpeningBowlerID != nil {
		s.bowler = *header.OpeningBowlerID
	}
	return s
}

// Replay rebuilds an innings from its durable ball events.
func Replay(header models.Innings, cfg Config, balls []models.BallEvent) (*InningsState, error) {
	s := NewInnings(header, cfg)
	for i, b := range balls {
		if _, err := s.ApplyBall(b); err != nil {
			return nil, fmt.Errorf("replay innings %d ball %d (sequence %d): %w", header.ID, i, b.Sequence, err)
		}
	}
	if header.Status == models.InningsCompleted && !s.Closed() {
		reason := models.EndedMatchAbandoned
		if header.EndedReason != nil {
			reason = *header.EndedReason
		}
		s.Close(reason)
	}
	return s, nil
}

// Clone returns a deep copy so a ball can be applied speculatively and discarded.
func (s *InningsState) Clone() *InningsState {
	c := *s
	c.overs = make([]models.Over, len(s.overs))
	for i, o := range s.overs {
		o.Balls = slices.Clone(o.Balls)
		c.overs[i] = o
	}
	c.batters = make(map[int]*models.BatterFigures, len(s.batters))
	for id, f := range s.batters {
		cp := *f
		c.batters[id] = &cp
	}
	c.bowlers = make(map[int]*models.BowlerFigures, len(s.bowlers))
	for id, f := range s.bowlers {
		cp := *f
		c.bowlers[id] = &cp
	}
	c.battingOrder = slices.Clone(s.battingOrder)
	c.bowlingOrder = slices.Clone(s.bowlingOrder)
	c.streaks = maps.Clone(s.streaks)
	if s.endedReason != nil {
		r := *s.endedReason
		c.endedReason = &r
	}
	return &c
}

func (s *InningsState) Status() models.InningsStatus     { return s.status }
func (s *InningsState) Closed() bool                     { return s.status == models.InningsCompleted }
func (s *InningsState) EndedReason() *models.EndedReason { return s.endedReason }
func (s *InningsState) Runs() int                        { return s.runs }
func (s *InningsState) Wickets() int                     { return s.wickets }
func (s *InningsState) LegalBalls() int                  { return s.legalBalls }
func (s *InningsState) Sequence() int                    { return s.sequence }
func (s *InningsState) Config() Config                   { return s.cfg }

// Header returns the persisted innings row with counters brought up to date.
func (s *InningsState) Header() models.Innings {
	h := s.header
	h.Runs = s.runs
	h.Wickets = s.wickets
	h.LegalBalls = s.legalBalls
	h.Extras = s.extras
	h.Status = s.status
	h.EndedReason = s.endedReason
	return h
}

// Overs returns a copy of the over-by-over history.
func (s *InningsState) Overs() []models.Over {
	out := make([]models.Over, len(s.overs))
	for i, o := range s.overs {
		o.Balls = slices.Clone(o.Balls)
		out[i] = o
	}
	return out
}

// Batting returns batter figures in order of appearance.
func (s *InningsState) Batting() []models.BatterFigures {
	out := make([]models.BatterFigures, 0, len(s.battingOrder))
	for _, id := range s.battingOrder {
		out = append(out, *s.batters[id])
	}
	return out
}

// Bowling returns bowler figures in order of first over bowled.
func (s *InningsState) Bowling() []models.BowlerFigures {
	out := make([]models.BowlerFigures, 0, len(s.bowlingOrder))
	for _, id := range s.bowlingOrder {
		out = append(out, *s.bowlers[id])
	}
	return out
}

// Close ends the innings without a ball, e.g. when the match is abandoned.
func (s *InningsState) Close(reason models.EndedReason) {
	if s.Closed() {
		return
	}
	s.status = models.InningsCompleted
	s.endedReason = &reason
}

// ApplyBall applies an event that has passed Validate. Calling it with an
// event the validator rejects is a contract violation reported as ErrStateConflict.
func (s *InningsState) ApplyBall(ev models.BallEvent) (ApplyResult, error) {
	if err := Validate(s, ev); err != nil {
		return ApplyResult{}, fmt.Errorf("%w: %w", ErrStateConflict, err)
	}

	if s.status == models.InningsNotStarted {
		s.status = models.InningsInProgress
	}

	s.striker, s.nonStriker = s.resolveBatters(ev)
	bowlerID := s.resolveBowler(ev)

	over := s.openOver()
	if over == nil {
		s.overs = append(s.overs, models.Over{Number: len(s.overs), BowlerID: bowlerID})
		over = &s.overs[len(s.overs)-1]
	}
	s.bowler = bowlerID

	s.sequence++
	ev.InningsID = s.header.ID
	ev.Sequence = s.sequence
	overNumber := over.Number
	ev.OverNumber = &overNumber
	ev.BowlerID = intPtr(bowlerID)
	ev.StrikerID = optionalID(s.striker)
	ev.NonStrikerID = optionalID(s.nonStriker)
	if ev.IsWicket && ev.DismissedPlayerID == nil && s.striker != 0 {
		ev.DismissedPlayerID = intPtr(s.striker)
	}

	var milestones []models.Milestone

	total := ev.TotalRuns()
	s.runs += total
	if ev.IsExtra {
		s.extras += ev.ExtraRuns
	}
	if ev.Legal() {
		s.legalBalls++
		over.LegalBalls++
	}
	ev.BallInOver = over.LegalBalls
	over.Runs += total

	if s.striker != 0 {
		bat := s.batter(s.striker)
		before := bat.Runs
		if ev.Faced() {
			bat.Balls++
		}
		bat.Runs += ev.Runs
		switch ev.Runs {
		case 4:
			bat.Fours++
		case 6:
			bat.Sixes++
		}
		bat.StrikeRate = StrikeRate(bat.Runs, bat.Balls)
		if before < fiftyRuns && bat.Runs >= fiftyRuns && bat.Runs < centuryRuns {
			milestones = append(milestones, s.milestone(models.MilestoneFifty, s.striker, bat.Runs))
		}
		if before < centuryRuns && bat.Runs >= centuryRuns {
			milestones = append(milestones, s.milestone(models.MilestoneCentury, s.striker, bat.Runs))
		}
	}

	bowl := s.bowlerFigures(bowlerID)
	conceded := ev.Runs
	if ev.IsExtra {
		switch ev.ExtraType {
		case models.ExtraWide:
			bowl.Wides++
			conceded += ev.ExtraRuns
		case models.ExtraNoBall:
			bowl.NoBalls++
			conceded += ev.ExtraRuns
		}
	}
	bowl.Runs += conceded
	if ev.Legal() {
		bowl.LegalBalls++
	}

	if ev.IsWicket {
		s.wickets++
		over.Wickets++
		credited := ev.WicketType.CreditsBowler()
		if credited {
			before := bowl.Wickets
			bowl.Wickets++
			if before < fiveWickets && bowl.Wickets >= fiveWickets {
				milestones = append(milestones, s.milestone(models.MilestoneFiveWickets, bowlerID, bowl.Wickets))
			}
		}
		if ev.DismissedPlayerID != nil {
			out := s.batter(*ev.DismissedPlayerID)
			out.Out = true
			out.Dismissal = dismissalText(ev.WicketType)
		}
	}

	if ev.Legal() {
		if ev.IsWicket && ev.WicketType.CreditsBowler() {
			s.streaks[bowlerID]++
			if s.streaks[bowlerID] == hatTrickBalls {
				milestones = append(milestones, s.milestone(models.MilestoneHatTrick, bowlerID, hatTrickBalls))
			}
		} else {
			s.streaks[bowlerID] = 0
		}
	}

	bowl.Overs = BallsToOvers(bowl.LegalBalls)
	bowl.Economy = EconomyRate(bowl.Runs, OversDecimal(bowl.LegalBalls))

	if ev.RunsRun()%2 == 1 {
		s.striker, s.nonStriker = s.nonStriker, s.striker
	}

	if ev.IsWicket && ev.DismissedPlayerID != nil {
		switch *ev.DismissedPlayerID {
		case s.striker:
			s.striker = 0
		case s.nonStriker:
			s.nonStriker = 0
		}
	}

	over.Balls = append(over.Balls, ev)

	overCompleted := false
	if over.LegalBalls == BallsPerOver {
		over.Completed = true
		overCompleted = true
		s.striker, s.nonStriker = s.nonStriker, s.striker
		if over.Maiden() {
			bowl.Maidens++
		}
	}

	if reason, ended := s.endCondition(); ended {
		s.status = models.InningsCompleted
		s.endedReason = &reason
	}

	return ApplyResult{
		Event:         ev,
		Snapshot:      s.Snapshot(),
		EndedReason:   s.endedReason,
		OverCompleted: overCompleted,
		Milestones:    milestones,
	}, nil
}

func (s *InningsState) endCondition() (models.EndedReason, bool) {
	if t := s.header.Target; t != nil && s.runs >= *t {
		return models.EndedTargetReached, true
	}
	if s.wickets >= s.cfg.MaxWickets {
		return models.EndedAllOut, true
	}
	if s.cfg.MaxOvers > 0 && s.legalBalls >= s.cfg.MaxOvers*BallsPerOver {
		return models.EndedOversComplete, true
	}
	return "", false
}

// Snapshot derives the broadcast view of the innings. It does not mutate s.
func (s *InningsState) Snapshot() models.ScoreSnapshot {
	snap := models.ScoreSnapshot{
		MatchID:       s.cfg.MatchID,
		InningsID:     s.header.ID,
		InningsNumber: s.header.Number,
		BattingTeamID: s.header.BattingTeamID,
		BowlingTeamID: s.header.BowlingTeamID,
		Status:        s.status,
		Sequence:      s.sequence,
		Runs:          s.runs,
		Wickets:       s.wickets,
		Overs:         BallsToOvers(s.legalBalls),
		LegalBalls:    s.legalBalls,
		Extras:        s.extras,
		RunRate:       CurrentRunRate(s.runs, s.legalBalls),
		StrikerID:     optionalID(s.striker),
		NonStrikerID:  optionalID(s.nonStriker),
		BowlerID:      optionalID(s.bowler),
		ThisOver:      []string{},
		EndedReason:   s.endedReason,
	}

	if s.cfg.MaxOvers > 0 {
		if s.Closed() {
			snap.ProjectedScore = s.runs
		} else {
			snap.ProjectedScore = ProjectedScore(s.runs, OversDecimal(s.legalBalls), float64(s.cfg.MaxOvers))
		}
	}

	if t := s.header.Target; t != nil {
		target := *t
		needed := max(target-s.runs, 0)
		snap.Target = intPtr(target)
		snap.RunsNeeded = intPtr(needed)
		if s.cfg.MaxOvers > 0 {
			remaining := max(s.cfg.MaxOvers*BallsPerOver-s.legalBalls, 0)
			oversLeft := OversDecimal(remaining)
			rrr := RequiredRunRate(target, s.runs, oversLeft)
			wp := WinProbability(target, s.runs, s.cfg.MaxWickets-s.wickets, oversLeft)
			snap.BallsRemaining = intPtr(remaining)
			snap.RequiredRunRate = &rrr
			snap.WinProbability = &wp
		}
	}

	if f, ok := s.batters[s.striker]; ok && s.striker != 0 {
		cp := *f
		snap.Striker = &cp
	}
	if f, ok := s.batters[s.nonStriker]; ok && s.nonStriker != 0 {
		cp := *f
		snap.NonStriker = &cp
	}
	if f, ok := s.bowlers[s.bowler]; ok && s.bowler != 0 {
		cp := *f
		snap.Bowler = &cp
	}

	if n := len(s.overs); n > 0 {
		for i := range s.overs[n-1].Balls {
			snap.ThisOver = append(snap.ThisOver, s.overs[n-1].Balls[i].Notation())
		}
	}
	return snap
}

// BatterFigures returns the running figures of a batter, if the player has batted.
func (s *InningsState) BatterFigures(playerID int) (models.BatterFigures, bool) {
	f, ok := s.batters[playerID]
	if !ok {
		return models.BatterFigures{}, false
	}
	return *f, true
}

// BowlerFigures returns the running figures of a bowler, if the player has bowled.
func (s *InningsState) BowlerFigures(playerID int) (models.BowlerFigures, bool) {
	f, ok := s.bowlers[playerID]
	if !ok {
		return models.BowlerFigures{}, false
	}
	return *f, true
}

func (s *InningsState) openOver() *models.Over {
	if n := len(s.overs); n > 0 && !s.overs[n-1].Completed {
		return &s.overs[n-1]
	}
	return nil
}

func (s *InningsState) expectedOverNumber() int {
	if o := s.openOver(); o != nil {
		return o.Number
	}
	return len(s.overs)
}

func (s *InningsState) previousOverBowler() int {
	if s.openOver() != nil || len(s.overs) == 0 {
		return 0
	}
	return s.overs[len(s.overs)-1].BowlerID
}

func (s *InningsState) resolveBowler(ev models.BallEvent) int {
	if ev.BowlerID != nil {
		return *ev.BowlerID
	}
	if o := s.openOver(); o != nil {
		return o.BowlerID
	}
	if len(s.overs) == 0 {
		return s.bowler
	}
	return 0
}

func (s *InningsState) resolveBatters(ev models.BallEvent) (striker, nonStriker int) {
	striker, nonStriker = s.striker, s.nonStriker
	if ev.StrikerID != nil {
		striker = *ev.StrikerID
	}
	if ev.NonStrikerID != nil {
		nonStriker = *ev.NonStrikerID
	}
	return striker, nonStriker
}

func (s *InningsState) batter(id int) *models.BatterFigures {
	f, ok := s.batters[id]
	if !ok {
		f = &models.BatterFigures{PlayerID: id}
		s.batters[id] = f
		s.battingOrder = append(s.battingOrder, id)
	}
	return f
}

func (s *InningsState) bowlerFigures(id int) *models.BowlerFigures {
	f, ok := s.bowlers[id]
	if !ok {
		f = &models.BowlerFigures{PlayerID: id}
		s.bowlers[id] = f
		s.bowlingOrder = append(s.bowlingOrder, id)
	}
	return f
}

func (s *InningsState) milestone(kind models.MilestoneKind, playerID, value int) models.Milestone {
	return models.Milestone{
		Kind:      kind,
		PlayerID:  playerID,
		MatchID:   s.cfg.MatchID,
		InningsID: s.header.ID,
		Value:     value,
	}
}

func dismissalText(w models.WicketType) string {
	return strings.ToLower(strings.ReplaceAll(string(w), "_", " "))
}

func intPtr(v int) *int { return &v }

func optionalID(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}
