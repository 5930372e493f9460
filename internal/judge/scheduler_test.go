package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/zoj-dev/zoj/internal/config"
	"github.com/zoj-dev/zoj/internal/contest"
	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/database/models"
	"github.com/zoj-dev/zoj/internal/lock"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeRunner struct {
	result *Result
	err    error
	calls  int
}

func (r *fakeRunner) Judge(ctx context.Context, sub *models.Submission, prob *models.Problem) (*Result, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Problem{},
		&models.Contest{},
		&models.ContestPlayer{},
		&models.ContestRanklist{},
		&models.Submission{},
		&models.ContestScoreHistory{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestScheduler(t *testing.T, db *gorm.DB, runner Runner) *Scheduler {
	t.Helper()
	cfg := &config.Config{}
	cfg.Judge.Workers = 1
	cfg.Judge.TimeoutSeconds = 5
	svc := contest.NewService(db, lock.NewRegistry(), nil)
	return NewScheduler(cfg, db, svc, runner)
}

func seedContest(t *testing.T, db *gorm.DB, problemID string) *models.Contest {
	t.Helper()
	now := time.Now().Unix()
	c := &models.Contest{
		ID:        "c1",
		Title:     "Live Contest",
		StartTime: now - 3600,
		EndTime:   now + 3600,
		Type:      "oi",
		Problems:  models.ProblemRefList{{ProblemID: problemID, Order: 0}},
		HolderID:  "holder",
	}
	ranklist := &models.ContestRanklist{
		ID:        "r1",
		ContestID: c.ID,
		Entries:   models.RanklistEntryList{},
	}
	if err := database.CreateContest(db, c, ranklist); err != nil {
		t.Fatalf("failed to create contest: %v", err)
	}
	return c
}

func seedSubmission(t *testing.T, db *gorm.DB, contestID *string) (*models.Submission, *models.Problem) {
	t.Helper()
	prob := &models.Problem{ID: "p1", Title: "A + B", IsPublic: true}
	if err := database.CreateProblem(db, prob); err != nil {
		t.Fatalf("failed to create problem: %v", err)
	}
	sub := &models.Submission{
		ID:        "s1",
		ProblemID: prob.ID,
		UserID:    "u1",
		ContestID: contestID,
		Language:  "cpp",
		Code:      "int main() {}",
		Status:    models.StatusQueued,
	}
	if err := database.CreateSubmission(db, sub); err != nil {
		t.Fatalf("failed to create submission: %v", err)
	}
	return sub, prob
}

func TestProcessRecordsVerdictAndScoresContest(t *testing.T) {
	db := newTestDB(t)
	c := seedContest(t, db, "p1")
	sub, prob := seedSubmission(t, db, &c.ID)

	runner := &fakeRunner{result: &Result{
		Verdict: models.VerdictPartialScore,
		Score:   70,
		Info:    models.JSONMap{"passed": float64(7)},
	}}
	s := newTestScheduler(t, db, runner)

	s.process(QueuedSubmission{Submission: sub, Problem: prob})

	got, err := database.GetSubmission(db, sub.ID)
	if err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if got.Status != models.StatusSuccess {
		t.Fatalf("status = %s, want Success", got.Status)
	}
	if got.Verdict != models.VerdictPartialScore || got.Score != 70 {
		t.Fatalf("verdict = %s score %d, want PartialScore 70", got.Verdict, got.Score)
	}
	if got.JudgedAt == nil {
		t.Fatal("judged_at not set")
	}

	player, err := database.GetContestPlayer(db, c.ID, "u1")
	if err != nil {
		t.Fatalf("contest player not created: %v", err)
	}
	if player.Aggregate != 70 {
		t.Fatalf("aggregate = %d, want 70", player.Aggregate)
	}

	ranklist, err := database.GetRanklist(db, c.RanklistID)
	if err != nil {
		t.Fatalf("failed to load ranklist: %v", err)
	}
	if len(ranklist.Entries) != 1 || ranklist.Version != 1 {
		t.Fatalf("ranklist not updated: version %d, %d entries", ranklist.Version, len(ranklist.Entries))
	}
}

func TestProcessPracticeSubmissionSkipsScoring(t *testing.T) {
	db := newTestDB(t)
	sub, prob := seedSubmission(t, db, nil)

	runner := &fakeRunner{result: &Result{Verdict: models.VerdictAccepted, Score: 100}}
	s := newTestScheduler(t, db, runner)

	s.process(QueuedSubmission{Submission: sub, Problem: prob})

	got, err := database.GetSubmission(db, sub.ID)
	if err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if got.Status != models.StatusSuccess || got.Verdict != models.VerdictAccepted {
		t.Fatalf("submission not judged: %s/%s", got.Status, got.Verdict)
	}

	var count int64
	if err := db.Model(&models.ContestPlayer{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count players: %v", err)
	}
	if count != 0 {
		t.Fatal("practice submission must not create contest players")
	}
}

func TestProcessRunnerFailure(t *testing.T) {
	db := newTestDB(t)
	sub, prob := seedSubmission(t, db, nil)

	runner := &fakeRunner{err: errors.New("judge daemon unreachable")}
	s := newTestScheduler(t, db, runner)

	s.process(QueuedSubmission{Submission: sub, Problem: prob})

	got, err := database.GetSubmission(db, sub.ID)
	if err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if got.Status != models.StatusFailed {
		t.Fatalf("status = %s, want Failed", got.Status)
	}
	if got.Verdict != models.VerdictSystemError {
		t.Fatalf("verdict = %s, want SystemError", got.Verdict)
	}
}

func TestProcessSkipsNonQueuedSubmission(t *testing.T) {
	db := newTestDB(t)
	sub, prob := seedSubmission(t, db, nil)

	sub.Status = models.StatusSuccess
	sub.Verdict = models.VerdictAccepted
	if err := database.UpdateSubmission(db, sub); err != nil {
		t.Fatalf("failed to update submission: %v", err)
	}

	runner := &fakeRunner{result: &Result{Verdict: models.VerdictWrongAnswer}}
	s := newTestScheduler(t, db, runner)

	s.process(QueuedSubmission{Submission: sub, Problem: prob})

	if runner.calls != 0 {
		t.Fatal("runner must not be invoked for an already judged submission")
	}
	got, err := database.GetSubmission(db, sub.ID)
	if err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if got.Verdict != models.VerdictAccepted {
		t.Fatalf("verdict overwritten to %s", got.Verdict)
	}
}

func TestRecoverInterrupted(t *testing.T) {
	db := newTestDB(t)
	sub, _ := seedSubmission(t, db, nil)

	sub.Status = models.StatusRunning
	if err := database.UpdateSubmission(db, sub); err != nil {
		t.Fatalf("failed to update submission: %v", err)
	}

	if err := RecoverInterrupted(db); err != nil {
		t.Fatalf("RecoverInterrupted failed: %v", err)
	}

	got, err := database.GetSubmission(db, sub.ID)
	if err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if got.Status != models.StatusFailed || got.Verdict != models.VerdictSystemError {
		t.Fatalf("interrupted submission not recovered: %s/%s", got.Status, got.Verdict)
	}
}
