package user

import (
	"fmt"
	"net/http"
	"time"

	"github.com/zoj-dev/zoj/internal/contest"
	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/database/models"
	"github.com/zoj-dev/zoj/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type submitRequest struct {
	Language string `json:"language" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// submitToContestProblem accepts a submission into a running contest. The
// liveness and membership checks happen here, before the submission enters
// the judge queue; the scoring pipeline trusts them for queued work.
func (h *Handler) submitToContestProblem(c *gin.Context) {
	userID := c.GetString("userID")
	contestID := c.Param("id")
	problemID := c.Param("pid")

	user, err := database.GetUserByID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusNotFound, err)
		return
	}
	if user.BannedUntil != nil && user.BannedUntil.After(time.Now()) {
		util.Error(c, http.StatusForbidden, fmt.Errorf("account banned until %s: %s", user.BannedUntil, user.BanReason))
		return
	}

	cont, err := database.GetContest(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusNotFound, fmt.Errorf("contest not found"))
		return
	}
	if !contestVisibleTo(cont, user) {
		util.Error(c, http.StatusNotFound, fmt.Errorf("contest not found"))
		return
	}

	if !contest.IsRunning(cont, time.Now().Unix()) {
		util.Error(c, http.StatusForbidden, contest.ErrContestNotRunning)
		return
	}
	if !contest.HasProblem(cont, problemID) {
		util.Error(c, http.StatusNotFound, contest.ErrNotInContest)
		return
	}

	problem, err := database.GetProblem(h.db, problemID)
	if err != nil {
		util.Error(c, http.StatusNotFound, fmt.Errorf("problem not found"))
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	sub := &models.Submission{
		ID:        uuid.New().String(),
		ProblemID: problemID,
		UserID:    userID,
		ContestID: &contestID,
		Language:  req.Language,
		Code:      req.Code,
		Status:    models.StatusQueued,
	}
	if err := database.CreateSubmission(h.db, sub); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.scheduler.Submit(sub, problem)
	zap.S().Infof("user %s submitted to problem %s in contest %s", userID, problemID, contestID)
	util.Success(c, gin.H{"submission_id": sub.ID}, "Submission queued")
}

// submitToProblem accepts a practice submission outside any contest.
func (h *Handler) submitToProblem(c *gin.Context) {
	userID := c.GetString("userID")
	problemID := c.Param("id")

	user, err := database.GetUserByID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusNotFound, err)
		return
	}

	problem, err := database.GetProblem(h.db, problemID)
	if err != nil || !problemVisibleTo(problem, user) {
		util.Error(c, http.StatusNotFound, fmt.Errorf("problem not found"))
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	sub := &models.Submission{
		ID:        uuid.New().String(),
		ProblemID: problemID,
		UserID:    userID,
		Language:  req.Language,
		Code:      req.Code,
		Status:    models.StatusQueued,
	}
	if err := database.CreateSubmission(h.db, sub); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.scheduler.Submit(sub, problem)
	util.Success(c, gin.H{"submission_id": sub.ID}, "Submission queued")
}

func (h *Handler) getUserSubmissions(c *gin.Context) {
	userID := c.GetString("userID")
	subs, err := database.GetSubmissionsByUserID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, subs, "Submissions retrieved")
}

func (h *Handler) getUserSubmission(c *gin.Context) {
	userID := c.GetString("userID")
	sub, err := database.GetSubmission(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "submission not found")
		return
	}
	if sub.UserID != userID {
		util.Error(c, http.StatusForbidden, "you can only view your own submissions")
		return
	}

	// Verdicts of contest submissions stay hidden while results are hidden.
	if sub.ContestID != nil {
		cont, err := database.GetContest(h.db, *sub.ContestID)
		if err == nil {
			viewer, _ := database.GetUserByID(h.db, userID)
			if !contest.AllowedSeeResult(cont, viewer, time.Now().Unix()) {
				sub.Verdict = ""
				sub.Score = 0
				sub.Info = nil
			}
		}
	}

	util.Success(c, sub, "Submission retrieved")
}
