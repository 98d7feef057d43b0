package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/cricket-live/db"
	"github.com/Dosada05/cricket-live/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Connect(db.DriverSQLite, ":memory:", 5*time.Second)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(context.Background(), conn, db.DriverSQLite); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return conn
}

type testRepos struct {
	tournaments TournamentRepository
	teams       TeamRepository
	matches     MatchRepository
	innings     InningsRepository
	balls       BallRepository
	store       *LiveStore
}

func newTestRepos(t *testing.T) *testRepos {
	conn := openTestDB(t)
	r := &testRepos{
		tournaments: NewTournamentRepository(conn),
		teams:       NewTeamRepository(conn),
		matches:     NewMatchRepository(conn),
		innings:     NewInningsRepository(conn),
		balls:       NewBallRepository(conn),
	}
	r.store = NewLiveStore(conn, r.matches, r.teams, r.innings, r.balls)
	return r
}

func (r *testRepos) seedMatch(t *testing.T) *models.Match {
	t.Helper()
	ctx := context.Background()

	tour := &models.Tournament{
		Name:      "Summer Cup",
		Format:    models.FormatT20,
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	if err := r.tournaments.Create(ctx, tour); err != nil {
		t.Fatalf("create tournament: %v", err)
	}

	home := &models.Team{Name: "Lions", Players: []models.Player{
		{Name: "A. Opener", Role: models.RoleBatter},
		{Name: "B. Partner", Role: models.RoleBatter},
	}}
	away := &models.Team{Name: "Tigers", Players: []models.Player{
		{Name: "C. Quick", Role: models.RoleBowler},
	}}
	for _, team := range []*models.Team{home, away} {
		if err := r.teams.Create(ctx, team); err != nil {
			t.Fatalf("create team %s: %v", team.Name, err)
		}
	}

	m := &models.Match{
		TournamentID:   &tour.ID,
		HomeTeamID:     home.ID,
		AwayTeamID:     away.ID,
		Venue:          "Oval",
		ScheduledAt:    time.Date(2026, 6, 2, 14, 0, 0, 0, time.UTC),
		Format:         models.FormatT20,
		Status:         models.MatchStatusScheduled,
		PlayersPerSide: 11,
	}
	if err := r.matches.Create(ctx, m); err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

func TestLiveStoreRoundTrip(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	m := r.seedMatch(t)

	loaded, err := r.store.LoadMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("LoadMatch() error = %v", err)
	}
	if loaded.HomeTeam == nil || len(loaded.HomeTeam.Players) != 2 || loaded.AwayTeam == nil {
		t.Fatalf("rosters not attached: %+v", loaded)
	}
	striker, partner := loaded.HomeTeam.Players[0].ID, loaded.HomeTeam.Players[1].ID
	bowler := loaded.AwayTeam.Players[0].ID

	inn := &models.Innings{
		MatchID:             m.ID,
		Number:              1,
		BattingTeamID:       m.HomeTeamID,
		BowlingTeamID:       m.AwayTeamID,
		Status:              models.InningsNotStarted,
		OpeningStrikerID:    &striker,
		OpeningNonStrikerID: &partner,
		OpeningBowlerID:     &bowler,
	}
	if err := r.store.CreateInnings(ctx, inn); err != nil {
		t.Fatalf("CreateInnings() error = %v", err)
	}
	again, _ := r.matches.GetByID(ctx, nil, m.ID)
	if again.CurrentInningsID == nil || *again.CurrentInningsID != inn.ID {
		t.Fatalf("current innings = %v, want %d", again.CurrentInningsID, inn.ID)
	}

	over := 0
	zone := "cover"
	ev := &models.BallEvent{
		Sequence:     1,
		OverNumber:   &over,
		BallInOver:   1,
		Runs:         4,
		StrikerID:    &striker,
		NonStrikerID: &partner,
		BowlerID:     &bowler,
		Commentary:   "FOUR!",
		Location:     &models.BallLocation{ShotZone: &zone},
	}
	if err := r.store.AppendBallEvent(ctx, inn.ID, ev); err != nil {
		t.Fatalf("AppendBallEvent() error = %v", err)
	}
	dup := *ev
	if err := r.store.AppendBallEvent(ctx, inn.ID, &dup); !errors.Is(err, ErrBallSequenceConflict) {
		t.Fatalf("duplicate sequence error = %v, want ErrBallSequenceConflict", err)
	}

	header := *inn
	header.Runs, header.LegalBalls, header.Version = 4, 1, 1
	header.Status = models.InningsInProgress
	snap := models.ScoreSnapshot{MatchID: m.ID, InningsID: inn.ID, Runs: 4, Sequence: 1, ThisOver: []string{"4"}}
	if err := r.store.PersistInningsSnapshot(ctx, header, snap); err != nil {
		t.Fatalf("PersistInningsSnapshot() error = %v", err)
	}

	stale := header
	stale.Version = 0
	if err := r.store.PersistInningsSnapshot(ctx, stale, snap); !errors.Is(err, ErrInningsVersionConflict) {
		t.Fatalf("stale write error = %v, want ErrInningsVersionConflict", err)
	}
	missing := header
	missing.ID = 999
	if err := r.store.PersistInningsSnapshot(ctx, missing, snap); !errors.Is(err, ErrInningsNotFound) {
		t.Fatalf("missing innings error = %v, want ErrInningsNotFound", err)
	}

	rec, err := r.store.LoadInnings(ctx, inn.ID)
	if err != nil {
		t.Fatalf("LoadInnings() error = %v", err)
	}
	if rec.Innings.Runs != 4 || rec.Innings.Version != 1 || rec.Innings.Snapshot == nil || rec.Innings.Snapshot.Runs != 4 {
		t.Fatalf("innings header = %+v", rec.Innings)
	}
	if len(rec.Balls) != 1 {
		t.Fatalf("balls = %d, want 1", len(rec.Balls))
	}
	b := rec.Balls[0]
	if b.Runs != 4 || b.Commentary != "FOUR!" || b.Location == nil || *b.Location.ShotZone != "cover" || *b.BowlerID != bowler {
		t.Fatalf("stored ball = %+v", b)
	}

	list, err := r.store.ListInnings(ctx, m.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListInnings() = %v, %v", list, err)
	}

	text := "Lions won by 4 runs"
	if err := r.store.FinishMatch(ctx, m.ID, models.MatchStatusCompleted, &m.HomeTeamID, &text); err != nil {
		t.Fatalf("FinishMatch() error = %v", err)
	}
	done, _ := r.matches.GetByID(ctx, nil, m.ID)
	if done.Status != models.MatchStatusCompleted || done.ResultText == nil || *done.ResultText != text {
		t.Fatalf("finished match = %+v", done)
	}
}

func TestInningsNumberConflict(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	m := r.seedMatch(t)

	first := &models.Innings{MatchID: m.ID, Number: 1, BattingTeamID: m.HomeTeamID, BowlingTeamID: m.AwayTeamID, Status: models.InningsNotStarted}
	if err := r.store.CreateInnings(ctx, first); err != nil {
		t.Fatalf("CreateInnings() error = %v", err)
	}
	second := *first
	second.ID = 0
	if err := r.store.CreateInnings(ctx, &second); !errors.Is(err, ErrInningsNumberConflict) {
		t.Fatalf("duplicate innings error = %v, want ErrInningsNumberConflict", err)
	}
}

func TestMatchRepositoryErrors(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	m := r.seedMatch(t)

	if _, err := r.store.LoadMatch(ctx, 12345); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("LoadMatch() error = %v, want ErrMatchNotFound", err)
	}
	if err := r.store.UpdateMatchStatus(ctx, 12345, models.MatchStatusLive); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("UpdateMatchStatus() error = %v, want ErrMatchNotFound", err)
	}

	same := &models.Match{HomeTeamID: m.HomeTeamID, AwayTeamID: m.HomeTeamID, Venue: "X", Format: models.FormatT20, Status: models.MatchStatusScheduled, ScheduledAt: time.Now()}
	if err := r.matches.Create(ctx, same); !errors.Is(err, ErrMatchSameTeams) {
		t.Errorf("Create() with one team error = %v, want ErrMatchSameTeams", err)
	}
	ghost := &models.Match{HomeTeamID: m.HomeTeamID, AwayTeamID: 999, Venue: "X", Format: models.FormatT20, Status: models.MatchStatusScheduled, ScheduledAt: time.Now()}
	if err := r.matches.Create(ctx, ghost); !errors.Is(err, ErrMatchReferenceInvalid) {
		t.Errorf("Create() with unknown team error = %v, want ErrMatchReferenceInvalid", err)
	}

	status := models.MatchStatusScheduled
	list, err := r.matches.List(ctx, ListMatchesFilter{TournamentID: m.TournamentID, Status: &status})
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v", list, err)
	}
}

func TestTeamAndTournamentConflicts(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	r.seedMatch(t)

	if err := r.teams.Create(ctx, &models.Team{Name: "Lions"}); !errors.Is(err, ErrTeamNameConflict) {
		t.Errorf("team name conflict error = %v", err)
	}
	if _, err := r.teams.GetByID(ctx, 999); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("GetByID() error = %v, want ErrTeamNotFound", err)
	}
	dup := &models.Tournament{Name: "Summer Cup", Format: models.FormatT20, StartDate: time.Now(), EndDate: time.Now()}
	if err := r.tournaments.Create(ctx, dup); !errors.Is(err, ErrTournamentNameConflict) {
		t.Errorf("tournament name conflict error = %v", err)
	}
	if _, err := r.tournaments.GetByID(ctx, 999); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("GetByID() error = %v, want ErrTournamentNotFound", err)
	}
}
