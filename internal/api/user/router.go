package user

import (
	"github.com/zoj-dev/zoj/internal/api"
	"github.com/zoj-dev/zoj/internal/config"
	"github.com/zoj-dev/zoj/internal/contest"
	"github.com/zoj-dev/zoj/internal/judge"
	"github.com/zoj-dev/zoj/internal/pubsub"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewUserRouter creates and configures the user Gin engine.
func NewUserRouter(
	cfg *config.Config,
	db *gorm.DB,
	svc *contest.Service,
	scheduler *judge.Scheduler,
	broker *pubsub.Broker) *gin.Engine {

	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, svc, scheduler, broker)

	v1 := r.Group("/api/v1")
	{
		// Auth
		authGroup := v1.Group("/auth")
		{
			authGroup.GET("/status", h.getAuthStatus)
			if cfg.Auth.GitLab.Enabled {
				gitlabGroup := authGroup.Group("/gitlab")
				gitlabGroup.GET("/login", h.gitlabAuthHandler.Login)
				gitlabGroup.GET("/callback", h.gitlabAuthHandler.Callback)
			}
			if cfg.Auth.Local.Enabled {
				localAuthGroup := authGroup.Group("/local")
				{
					localAuthGroup.POST("/register", h.localRegister)
					localAuthGroup.POST("/login", h.localLogin)
				}
			}
		}

		// Websocket for live ranklist updates (token passed as query param)
		v1.GET("/ws/contests/:id/ranklist", h.handleRanklistWs)

		// Visibility-tiered public info
		public := v1.Group("/")
		public.Use(api.OptionalAuthMiddleware(cfg.Auth.JWT.Secret))
		{
			public.GET("/contests", h.getAllContests)
			public.GET("/contests/:id", h.getContest)
			public.GET("/contests/:id/ranklist", h.getContestRanklist)
			public.GET("/contests/:id/trend", h.getContestTrend)
			public.GET("/problems/:id", h.getProblem)
			public.GET("/users/:id", h.getPublicUserProfile)
		}

		// Authenticated routes
		authed := v1.Group("/")
		authed.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret))
		{
			profile := authed.Group("/user")
			{
				profile.GET("/profile", h.getUserProfile)
				profile.PATCH("/profile", h.updateUserProfile)
			}

			authed.GET("/contests/:id/history", h.getContestHistory)
			authed.POST("/contests/:id/problems/:pid/submit", h.submitToContestProblem)
			authed.POST("/problems/:id/submit", h.submitToProblem)

			submissions := authed.Group("/submissions")
			{
				submissions.GET("", h.getUserSubmissions)
				submissions.GET("/:id", h.getUserSubmission)
			}
		}
	}

	return r
}
