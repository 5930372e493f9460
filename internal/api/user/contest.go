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
)

// contestVisibleTo applies the visibility tiers: anonymous users see public
// unprotected contests, regular users additionally their own, admins of
// tier 3 and above see everything.
func contestVisibleTo(c *models.Contest, user *models.User) bool {
	if user == nil {
		return c.IsPublic && !c.IsProtected
	}
	if user.Admin >= 3 {
		return true
	}
	if c.HolderID == user.ID {
		return true
	}
	if user.Admin >= 1 {
		return c.IsPublic
	}
	return c.IsPublic && !c.IsProtected
}

func (h *Handler) getAllContests(c *gin.Context) {
	viewer := h.currentUser(c)

	contests, err := database.GetAllContests(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	visible := make([]models.Contest, 0, len(contests))
	for _, item := range contests {
		if !contestVisibleTo(&item, viewer) {
			continue
		}
		// Hide problem lists in the list view.
		item.Problems = models.ProblemRefList{}
		visible = append(visible, item)
	}

	util.Success(c, visible, "Contests loaded")
}

func (h *Handler) getContest(c *gin.Context) {
	viewer := h.currentUser(c)

	cont, err := database.GetContest(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, fmt.Errorf("contest not found"))
		return
	}
	if !contestVisibleTo(cont, viewer) {
		util.Error(c, http.StatusNotFound, fmt.Errorf("contest not found"))
		return
	}

	// For contests that haven't started, hide the problem list.
	now := time.Now().Unix()
	if now < cont.StartTime && !contest.AllowedEdit(cont, viewer) {
		contestCopy := *cont
		contestCopy.Problems = models.ProblemRefList{}
		util.Success(c, contestCopy, "Contest found, but is not currently active")
		return
	}
	util.Success(c, cont, "Contest found")
}

func (h *Handler) getContestRanklist(c *gin.Context) {
	viewer := h.currentUser(c)

	cont, err := database.GetContest(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, fmt.Errorf("contest not found"))
		return
	}
	if !contestVisibleTo(cont, viewer) {
		util.Error(c, http.StatusNotFound, fmt.Errorf("contest not found"))
		return
	}

	if !contest.AllowedSeeResult(cont, viewer, time.Now().Unix()) {
		util.Error(c, http.StatusForbidden, fmt.Errorf("ranklist is hidden while the contest is running"))
		return
	}

	// Display reads take no lock; a slightly stale snapshot is fine.
	ranklist, err := database.GetRanklist(h.db, cont.RanklistID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, ranklist, "Ranklist retrieved")
}

func (h *Handler) getContestTrend(c *gin.Context) {
	viewer := h.currentUser(c)
	contestID := c.Param("id")

	cont, err := database.GetContest(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusNotFound, fmt.Errorf("contest not found"))
		return
	}
	if !contestVisibleTo(cont, viewer) {
		util.Error(c, http.StatusNotFound, fmt.Errorf("contest not found"))
		return
	}
	if !contest.AllowedSeeResult(cont, viewer, time.Now().Unix()) {
		util.Error(c, http.StatusForbidden, fmt.Errorf("results are hidden while the contest is running"))
		return
	}

	ranklist, err := database.GetRanklist(h.db, cont.RanklistID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	// Trend covers the top 10 players (with ties on the 10th aggregate).
	var topUserIDs []string
	tenthAggregate := -1
	for _, entry := range ranklist.Entries {
		if entry.Aggregate == 0 {
			continue
		}
		if len(topUserIDs) < 10 {
			topUserIDs = append(topUserIDs, entry.UserID)
			if len(topUserIDs) == 10 {
				tenthAggregate = entry.Aggregate
			}
		} else if tenthAggregate != -1 && entry.Aggregate == tenthAggregate {
			topUserIDs = append(topUserIDs, entry.UserID)
		}
	}

	if len(topUserIDs) == 0 {
		util.Success(c, make([]interface{}, 0), "Trend data retrieved")
		return
	}

	histories, err := database.GetScoreHistoriesForUsers(h.db, contestID, topUserIDs)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	type TrendEntry struct {
		UserID  string                           `json:"user_id"`
		History []database.UserScoreHistoryPoint `json:"history"`
	}

	trendData := make([]TrendEntry, 0, len(topUserIDs))
	for _, userID := range topUserIDs {
		userHistory, ok := histories[userID]
		if !ok {
			userHistory = []database.UserScoreHistoryPoint{}
		}
		trendData = append(trendData, TrendEntry{UserID: userID, History: userHistory})
	}

	util.Success(c, trendData, "Trend data retrieved")
}

func (h *Handler) getContestHistory(c *gin.Context) {
	userID := c.GetString("userID")
	contestID := c.Param("id")

	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	history, err := database.GetScoreHistoryForUser(h.db, contestID, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	util.Success(c, history, "User score history retrieved successfully")
}
