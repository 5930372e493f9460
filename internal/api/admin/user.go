package admin

import (
	"net/http"
	"time"

	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) listUsers(c *gin.Context) {
	users, err := database.GetAllUsers(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, users, "Users retrieved")
}

func (h *Handler) setUserTier(c *gin.Context) {
	var req struct {
		Admin *int `json:"admin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}

	user.Admin = *req.Admin
	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	zap.S().Infof("user %s privilege tier set to %d", user.Username, user.Admin)
	util.Success(c, user, "User tier updated")
}

func (h *Handler) banUser(c *gin.Context) {
	var req struct {
		Until  time.Time `json:"until" binding:"required"`
		Reason string    `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}

	user.BannedUntil = &req.Until
	user.BanReason = req.Reason
	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	zap.S().Warnf("user %s banned until %s: %s", user.Username, req.Until, req.Reason)
	util.Success(c, user, "User banned")
}

func (h *Handler) unbanUser(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}

	user.BannedUntil = nil
	user.BanReason = ""
	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, user, "User unbanned")
}
