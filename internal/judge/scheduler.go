package judge

import (
	"context"
	"time"

	"github.com/zoj-dev/zoj/internal/config"
	"github.com/zoj-dev/zoj/internal/contest"
	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/database/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QueuedSubmission struct {
	Submission *models.Submission
	Problem    *models.Problem
}

// Scheduler queues submissions for the judge runner and feeds finished
// verdicts into the contest scoring pipeline.
type Scheduler struct {
	cfg    *config.Config
	db     *gorm.DB
	svc    *contest.Service
	runner Runner
	queue  chan QueuedSubmission
}

func NewScheduler(cfg *config.Config, db *gorm.DB, svc *contest.Service, runner Runner) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		db:     db,
		svc:    svc,
		runner: runner,
		queue:  make(chan QueuedSubmission, 1024),
	}
}

func (s *Scheduler) Submit(submission *models.Submission, problem *models.Problem) {
	s.queue <- QueuedSubmission{Submission: submission, Problem: problem}
	zap.S().Infof("submission %s for problem %s added to queue", submission.ID, problem.ID)
}

// Run starts the worker pool and blocks until the queue is closed.
func (s *Scheduler) Run() {
	for i := 0; i < s.cfg.Judge.Workers; i++ {
		go s.worker()
	}
	select {}
}

func (s *Scheduler) worker() {
	for job := range s.queue {
		s.process(job)
	}
}

func (s *Scheduler) process(job QueuedSubmission) {
	// Refetch from DB to check for interruptions while in queue
	var sub models.Submission
	if err := s.db.First(&sub, "id = ?", job.Submission.ID).Error; err != nil {
		zap.S().Errorf("failed to refetch submission %s from DB: %v", job.Submission.ID, err)
		return
	}
	if sub.Status != models.StatusQueued {
		zap.S().Infof("submission %s is no longer in queued status (%s), skipping", sub.ID, sub.Status)
		return
	}

	sub.Status = models.StatusRunning
	if err := database.UpdateSubmission(s.db, &sub); err != nil {
		zap.S().Errorf("failed to update submission status: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Judge.TimeoutSeconds)*time.Second)
	defer cancel()

	result, err := s.runner.Judge(ctx, &sub, job.Problem)
	if err != nil {
		s.failSubmission(&sub, err)
		return
	}

	now := time.Now()
	sub.Status = models.StatusSuccess
	sub.Verdict = result.Verdict
	sub.Score = result.Score
	sub.Info = result.Info
	sub.JudgedAt = &now
	if err := database.UpdateSubmission(s.db, &sub); err != nil {
		zap.S().Errorf("failed to update judged submission %s: %v", sub.ID, err)
		return
	}
	zap.S().Infof("submission %s judged: %s (score %d)", sub.ID, sub.Verdict, sub.Score)

	s.recordContestResult(&sub)
}

// recordContestResult pushes a judged contest submission through the scoring
// and ranklist pipeline. Practice submissions are done at this point.
func (s *Scheduler) recordContestResult(sub *models.Submission) {
	if sub.ContestID == nil {
		return
	}

	c, err := database.GetContest(s.db, *sub.ContestID)
	if err != nil {
		zap.S().Errorf("cannot load contest %s for submission %s: %v", *sub.ContestID, sub.ID, err)
		return
	}

	ev := contest.SubmissionEvent{
		SubmissionID: sub.ID,
		UserID:       sub.UserID,
		ProblemID:    sub.ProblemID,
		Verdict:      sub.Verdict,
		Score:        sub.Score,
		SubmittedAt:  sub.CreatedAt.Unix(),
		JudgedAt:     sub.JudgedAt.Unix(),
	}
	if err := s.svc.RecordSubmission(c, ev); err != nil {
		zap.S().Errorf("failed to record contest result for submission %s: %v", sub.ID, err)
	}
}

func (s *Scheduler) failSubmission(sub *models.Submission, reason error) {
	zap.S().Errorf("submission %s failed: %v", sub.ID, reason)
	now := time.Now()
	sub.Status = models.StatusFailed
	sub.Verdict = models.VerdictSystemError
	sub.JudgedAt = &now
	sub.Info = models.JSONMap{"error": reason.Error()}
	if err := database.UpdateSubmission(s.db, sub); err != nil {
		zap.S().Errorf("failed to update failed submission status for %s: %v", sub.ID, err)
	}
}

// RequeuePendingSubmissions loads submissions with 'Queued' status from the
// DB and adds them back to the scheduler's queue on startup.
func RequeuePendingSubmissions(db *gorm.DB, s *Scheduler) error {
	pendingSubs, err := database.GetQueuedSubmissions(db)
	if err != nil {
		return err
	}

	if len(pendingSubs) == 0 {
		zap.S().Info("no pending submissions to requeue")
		return nil
	}

	zap.S().Infof("requeueing %d pending submissions...", len(pendingSubs))
	for i := range pendingSubs {
		submission := pendingSubs[i]
		problem, err := database.GetProblem(db, submission.ProblemID)
		if err != nil {
			zap.S().Warnf("problem %s for submission %s not found, skipping requeue", submission.ProblemID, submission.ID)
			continue
		}
		s.Submit(&submission, problem)
	}
	zap.S().Info("finished requeueing pending submissions")
	return nil
}
