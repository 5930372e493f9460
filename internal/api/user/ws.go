package user

import (
	"net/http"
	"time"

	"github.com/zoj-dev/zoj/internal/auth"
	"github.com/zoj-dev/zoj/internal/contest"
	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/database/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleRanklistWs streams ranklist snapshots for a contest. The same
// visibility rules apply as for the plain ranklist endpoint; the token is
// optional and passed as a query parameter since websocket clients cannot
// set headers.
func (h *Handler) handleRanklistWs(c *gin.Context) {
	contestID := c.Param("id")

	var viewer *models.User
	if tokenString := c.Query("token"); tokenString != "" {
		claims, err := auth.ValidateJWT(tokenString, h.cfg.Auth.JWT.Secret)
		if err != nil {
			c.String(http.StatusUnauthorized, "invalid token")
			return
		}
		viewer, _ = database.GetUserByID(h.db, claims.Subject)
	}

	cont, err := database.GetContest(h.db, contestID)
	if err != nil {
		c.String(http.StatusNotFound, "contest not found")
		return
	}
	if !contestVisibleTo(cont, viewer) {
		c.String(http.StatusNotFound, "contest not found")
		return
	}
	if !contest.AllowedSeeResult(cont, viewer, time.Now().Unix()) {
		c.String(http.StatusForbidden, "ranklist is hidden while the contest is running")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.S().Errorf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	ch, unsubscribe := h.broker.Subscribe(contest.RanklistTopic(contestID))
	defer unsubscribe()

	// Reader goroutine only to detect the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
