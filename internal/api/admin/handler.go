package admin

import (
	"github.com/zoj-dev/zoj/internal/config"
	"github.com/zoj-dev/zoj/internal/contest"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the admin API handlers.
type Handler struct {
	cfg *config.Config
	db  *gorm.DB
	svc *contest.Service
}

func NewHandler(cfg *config.Config, db *gorm.DB, svc *contest.Service) *Handler {
	return &Handler{cfg: cfg, db: db, svc: svc}
}
