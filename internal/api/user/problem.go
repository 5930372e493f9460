package user

import (
	"fmt"
	"net/http"

	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/database/models"
	"github.com/zoj-dev/zoj/internal/util"
	"github.com/gin-gonic/gin"
)

func problemVisibleTo(p *models.Problem, user *models.User) bool {
	if user == nil {
		return p.IsPublic && !p.IsProtected
	}
	if user.Admin >= 3 {
		return true
	}
	if p.HolderID == user.ID {
		return true
	}
	if user.Admin >= 1 {
		return p.IsPublic
	}
	return p.IsPublic && !p.IsProtected
}

func (h *Handler) getProblem(c *gin.Context) {
	viewer := h.currentUser(c)

	problem, err := database.GetProblem(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, fmt.Errorf("problem not found"))
		return
	}
	if !problemVisibleTo(problem, viewer) {
		util.Error(c, http.StatusNotFound, fmt.Errorf("problem not found"))
		return
	}

	util.Success(c, problem, "Problem found")
}
