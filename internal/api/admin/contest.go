package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/zoj-dev/zoj/internal/contest"
	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/database/models"
	"github.com/zoj-dev/zoj/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contestRequest struct {
	Title       string                `json:"title" binding:"required"`
	Subtitle    string                `json:"subtitle"`
	StartTime   int64                 `json:"start_time" binding:"required"`
	EndTime     int64                 `json:"end_time" binding:"required"`
	Type        string                `json:"type" binding:"required"`
	Problems    models.ProblemRefList `json:"problems"`
	IsPublic    bool                  `json:"is_public"`
	IsProtected bool                  `json:"is_protected"`
}

func (h *Handler) validateContestRequest(req *contestRequest) error {
	if _, err := contest.ParseDiscipline(req.Type); err != nil {
		return err
	}
	if req.StartTime >= req.EndTime {
		return fmt.Errorf("start_time must be before end_time")
	}
	for _, ref := range req.Problems {
		if _, err := database.GetProblem(h.db, ref.ProblemID); err != nil {
			return fmt.Errorf("problem %s does not exist", ref.ProblemID)
		}
	}
	return nil
}

func (h *Handler) listContests(c *gin.Context) {
	contests, err := database.GetAllContests(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, contests, "Contests retrieved")
}

func (h *Handler) getContest(c *gin.Context) {
	cont, err := database.GetContest(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}
	util.Success(c, cont, "Contest retrieved")
}

func (h *Handler) createContest(c *gin.Context) {
	var req contestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if err := h.validateContestRequest(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	cont := &models.Contest{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        req.Type,
		Problems:    req.Problems,
		HolderID:    c.GetString("userID"),
		IsPublic:    req.IsPublic,
		IsProtected: req.IsProtected,
	}
	ranklist := &models.ContestRanklist{
		ID:        uuid.New().String(),
		ContestID: cont.ID,
		Entries:   models.RanklistEntryList{},
	}

	if err := database.CreateContest(h.db, cont, ranklist); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("contest %s (%s) created by %s", cont.ID, cont.Title, cont.HolderID)
	util.Success(c, cont, "Contest created")
}

func (h *Handler) updateContest(c *gin.Context) {
	cont, err := database.GetContest(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	editor, err := database.GetUserByID(h.db, c.GetString("userID"))
	if err != nil || !contest.AllowedEdit(cont, editor) {
		util.Error(c, http.StatusForbidden, "you may not edit this contest")
		return
	}

	var req contestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if err := h.validateContestRequest(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if req.Type != cont.Type {
		// The discipline defines how every stored score was computed.
		util.Error(c, http.StatusBadRequest, "contest type cannot be changed after creation")
		return
	}

	cont.Title = req.Title
	cont.Subtitle = req.Subtitle
	cont.StartTime = req.StartTime
	cont.EndTime = req.EndTime
	cont.Problems = req.Problems
	cont.IsPublic = req.IsPublic
	cont.IsProtected = req.IsProtected

	if err := database.UpdateContest(h.db, cont); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, cont, "Contest updated")
}

func (h *Handler) rebuildRanklist(c *gin.Context) {
	cont, err := database.GetContest(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	editor, err := database.GetUserByID(h.db, c.GetString("userID"))
	if err != nil || !contest.AllowedEdit(cont, editor) {
		util.Error(c, http.StatusForbidden, "you may not edit this contest")
		return
	}

	if err := h.svc.RebuildRanklist(cont); err != nil {
		var perr *contest.PersistenceError
		if errors.As(err, &perr) {
			util.Error(c, http.StatusInternalServerError, err)
			return
		}
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	util.Success(c, nil, "Ranklist rebuilt")
}
