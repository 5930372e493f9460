package admin

import (
	"net/http"

	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/database/models"
	"github.com/zoj-dev/zoj/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type problemRequest struct {
	Title       string `json:"title" binding:"required"`
	Statement   string `json:"statement"`
	IsPublic    bool   `json:"is_public"`
	IsProtected bool   `json:"is_protected"`
}

func (h *Handler) listProblems(c *gin.Context) {
	problems, err := database.GetAllProblems(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, problems, "Problems retrieved")
}

func (h *Handler) createProblem(c *gin.Context) {
	var req problemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	problem := &models.Problem{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Statement:   req.Statement,
		HolderID:    c.GetString("userID"),
		IsPublic:    req.IsPublic,
		IsProtected: req.IsProtected,
	}
	if err := database.CreateProblem(h.db, problem); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, problem, "Problem created")
}

func (h *Handler) canEditProblem(c *gin.Context, problem *models.Problem) bool {
	editor, err := database.GetUserByID(h.db, c.GetString("userID"))
	if err != nil {
		return false
	}
	return editor.Admin >= 3 || problem.HolderID == editor.ID
}

func (h *Handler) updateProblem(c *gin.Context) {
	problem, err := database.GetProblem(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "problem not found")
		return
	}
	if !h.canEditProblem(c, problem) {
		util.Error(c, http.StatusForbidden, "you may not edit this problem")
		return
	}

	var req problemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	problem.Title = req.Title
	problem.Statement = req.Statement
	problem.IsPublic = req.IsPublic
	problem.IsProtected = req.IsProtected

	if err := database.UpdateProblem(h.db, problem); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, problem, "Problem updated")
}

func (h *Handler) deleteProblem(c *gin.Context) {
	problem, err := database.GetProblem(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "problem not found")
		return
	}
	if !h.canEditProblem(c, problem) {
		util.Error(c, http.StatusForbidden, "you may not delete this problem")
		return
	}

	if err := database.DeleteProblem(h.db, problem.ID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, nil, "Problem deleted")
}
