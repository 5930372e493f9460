package admin

import (
	"net/http"

	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/util"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listSubmissions(c *gin.Context) {
	subs, err := database.GetAllSubmissions(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, subs, "Submissions retrieved")
}

func (h *Handler) getSubmission(c *gin.Context) {
	sub, err := database.GetSubmission(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "submission not found")
		return
	}
	util.Success(c, sub, "Submission retrieved")
}
