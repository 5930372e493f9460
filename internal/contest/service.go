package contest

import (
	"errors"

	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/database/models"
	"github.com/zoj-dev/zoj/internal/lock"
	"github.com/zoj-dev/zoj/internal/pubsub"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionEvent is a judged submission as delivered by the judge
// collaborator. Timestamps are epoch seconds.
type SubmissionEvent struct {
	SubmissionID string
	UserID       string
	ProblemID    string
	Verdict      models.Verdict
	Score        int
	SubmittedAt  int64
	JudgedAt     int64
}

// Service drives the submission-to-score-to-ranklist pipeline.
type Service struct {
	db     *gorm.DB
	locks  *lock.Registry
	broker *pubsub.Broker
}

// NewService wires the scoring pipeline. broker may be nil when live
// ranklist pushes are not needed (tests, one-shot tools).
func NewService(db *gorm.DB, locks *lock.Registry, broker *pubsub.Broker) *Service {
	return &Service{db: db, locks: locks, broker: broker}
}

// RecordSubmission folds one judged submission into the player's score
// record and the contest ranklist.
//
// Updates for the same (contest, user) pair are linearized behind a keyed
// lock; players of the same contest proceed concurrently and only meet at
// the ranklist merge. On any persistence failure the update aborts with the
// player and ranklist left in their pre-update state.
func (s *Service) RecordSubmission(c *models.Contest, ev SubmissionEvent) error {
	if !HasProblem(c, ev.ProblemID) {
		return ErrNotInContest
	}
	d, err := ParseDiscipline(c.Type)
	if err != nil {
		return err
	}

	release := s.locks.Acquire(lock.PlayerKey(c.ID, ev.UserID))
	defer release()

	player, err := database.GetContestPlayer(s.db, c.ID, ev.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		player = &models.ContestPlayer{
			ContestID: c.ID,
			UserID:    ev.UserID,
			Scores:    models.ScoreMap{},
		}
	} else if err != nil {
		return &PersistenceError{Op: "load contest player", Err: err}
	}

	// Stage the new record on a copy so a failed write leaves no partial
	// mutation behind.
	staged := *player
	staged.Scores = make(models.ScoreMap, len(player.Scores)+1)
	for id, rec := range player.Scores {
		staged.Scores[id] = rec
	}

	next, changed := applyVerdict(d, c.StartTime, staged.Scores[ev.ProblemID], ev)
	staged.Scores[ev.ProblemID] = next
	if changed {
		staged.Aggregate, staged.Tiebreak = aggregate(d, staged.Scores)
	}

	if err := database.SaveContestPlayer(s.db, &staged); err != nil {
		return &PersistenceError{Op: "save contest player", Err: err}
	}

	if changed && staged.Aggregate != player.Aggregate {
		history := &models.ContestScoreHistory{
			UserID:               ev.UserID,
			ContestID:            c.ID,
			ProblemID:            ev.ProblemID,
			AggregateAfterChange: staged.Aggregate,
			SubmissionID:         ev.SubmissionID,
		}
		if err := database.CreateScoreHistory(s.db, history); err != nil {
			// Trend data only; the authoritative records are already saved.
			zap.S().Warnf("failed to record score history for user %s in contest %s: %v", ev.UserID, c.ID, err)
		}
	}

	return s.mergePlayer(c, d, &staged)
}

// HasProblem reports whether the contest's problem list contains problemID.
func HasProblem(c *models.Contest, problemID string) bool {
	for _, ref := range c.Problems {
		if ref.ProblemID == problemID {
			return true
		}
	}
	return false
}
