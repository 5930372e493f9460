package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/zoj-dev/zoj/internal/api/admin"
	"github.com/zoj-dev/zoj/internal/api/user"
	"github.com/zoj-dev/zoj/internal/config"
	"github.com/zoj-dev/zoj/internal/contest"
	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/judge"
	"github.com/zoj-dev/zoj/internal/lock"
	"github.com/zoj-dev/zoj/internal/pubsub"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var Version = "dev-build"

func main() {

	fmt.Fprintf(os.Stderr, "ZOJ %s - Online Judge\n\n", Version)

	// config
	var configPath string
	flag.StringVar(&configPath, "c", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// logger
	var logger *zap.Logger
	if cfg.Logger.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// database
	db, err := database.Init(cfg.Storage.Database)
	if err != nil {
		zap.S().Fatalf("failed to initialize database: %v", err)
	}
	zap.S().Info("database initialized successfully")

	// recovery
	if err := judge.RecoverInterrupted(db); err != nil {
		zap.S().Errorf("failed to recover interrupted submissions: %v", err)
	} else {
		zap.S().Info("successfully recovered interrupted submissions")
	}

	// scoring pipeline
	locks := lock.NewRegistry()
	broker := pubsub.NewBroker()
	svc := contest.NewService(db, locks, broker)

	// judge scheduler
	runner := judge.NewRemoteRunner(cfg.Judge)
	scheduler := judge.NewScheduler(cfg, db, svc, runner)

	// Requeue pending submissions from the last run
	if err := judge.RequeuePendingSubmissions(db, scheduler); err != nil {
		zap.S().Fatalf("failed to requeue pending submissions: %v", err)
	}

	go scheduler.Run()
	zap.S().Info("judge scheduler started")

	// API routers
	userEngine := user.NewUserRouter(cfg, db, svc, scheduler, broker)
	adminEngine := admin.NewAdminRouter(cfg, db, svc)

	// start servers
	var g errgroup.Group
	g.Go(func() error {
		zap.S().Infof("starting user server at %s", cfg.Listen)
		return userEngine.Run(cfg.Listen)
	})
	if cfg.Admin.Enabled {
		g.Go(func() error {
			zap.S().Infof("starting admin server at %s", cfg.Admin.Listen)
			return adminEngine.Run(cfg.Admin.Listen)
		})
	}
	go func() {
		if err := g.Wait(); err != nil {
			zap.S().Fatalf("server exited: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down server...")
}
