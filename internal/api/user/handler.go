package user

import (
	"github.com/zoj-dev/zoj/internal/auth"
	"github.com/zoj-dev/zoj/internal/config"
	"github.com/zoj-dev/zoj/internal/contest"
	"github.com/zoj-dev/zoj/internal/judge"
	"github.com/zoj-dev/zoj/internal/pubsub"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the user API handlers.
type Handler struct {
	cfg               *config.Config
	db                *gorm.DB
	svc               *contest.Service
	scheduler         *judge.Scheduler
	broker            *pubsub.Broker
	gitlabAuthHandler *auth.GitLabHandler
}

// NewHandler creates a new user handler with its dependencies.
func NewHandler(
	cfg *config.Config,
	db *gorm.DB,
	svc *contest.Service,
	scheduler *judge.Scheduler,
	broker *pubsub.Broker,
) *Handler {
	return &Handler{
		cfg:               cfg,
		db:                db,
		svc:               svc,
		scheduler:         scheduler,
		broker:            broker,
		gitlabAuthHandler: auth.NewGitLabHandler(cfg, db),
	}
}
