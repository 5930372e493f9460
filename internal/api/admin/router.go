package admin

import (
	"github.com/zoj-dev/zoj/internal/api"
	"github.com/zoj-dev/zoj/internal/config"
	"github.com/zoj-dev/zoj/internal/contest"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewAdminRouter creates the admin Gin engine. Every route requires an
// authenticated user of at least tier 1; contest and problem mutation is
// additionally checked against holder/edit rights per handler, and user
// management needs tier 3.
func NewAdminRouter(cfg *config.Config, db *gorm.DB, svc *contest.Service) *gin.Engine {
	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, svc)

	v1 := r.Group("/api/v1/admin")
	v1.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret), api.AdminMiddleware(db, 1))
	{
		contests := v1.Group("/contests")
		{
			contests.GET("", h.listContests)
			contests.POST("", h.createContest)
			contests.GET("/:id", h.getContest)
			contests.PUT("/:id", h.updateContest)
			contests.POST("/:id/rebuild_ranklist", h.rebuildRanklist)
		}

		problems := v1.Group("/problems")
		{
			problems.GET("", h.listProblems)
			problems.POST("", h.createProblem)
			problems.PUT("/:id", h.updateProblem)
			problems.DELETE("/:id", h.deleteProblem)
		}

		submissions := v1.Group("/submissions")
		{
			submissions.GET("", h.listSubmissions)
			submissions.GET("/:id", h.getSubmission)
		}

		users := v1.Group("/users")
		users.Use(api.AdminMiddleware(db, 3))
		{
			users.GET("", h.listUsers)
			users.PATCH("/:id/tier", h.setUserTier)
			users.POST("/:id/ban", h.banUser)
			users.DELETE("/:id/ban", h.unbanUser)
		}
	}

	return r
}
