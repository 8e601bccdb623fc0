package main

import (
	"time"

	"warbler/config"
	"warbler/handler"
	"warbler/logger"
	"warbler/middleware"
	"warbler/model"
	"warbler/routes"
	"warbler/service"
	"warbler/utils"

	"github.com/sirupsen/logrus"
)

func init() {
	// Server side is UTC throughout.
	time.Local = time.UTC
}

func main() {
	cfg := config.Load()
	logger.Init()

	if err := utils.InitDB(cfg.DatabaseURL); err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	defer utils.CloseDB()

	if err := model.Migrate(utils.GetDB()); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	// Redis only backs the profile counters cache; the app runs without
	// it.
	if err := utils.InitRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logrus.Warnf("redis unavailable, profile counters uncached: %v", err)
	}
	defer utils.CloseRedis()

	middleware.InitSession(cfg.SessionSecret)
	middleware.InitAuth(cfg.JWTSecret)

	userSvc := service.NewUserService(utils.GetDB())
	userSvc.DefaultImageURL = cfg.DefaultImageURL
	userSvc.DefaultHeaderImageURL = cfg.DefaultHeaderImageURL

	followSvc := service.NewFollowService(utils.GetDB())
	messageSvc := service.NewMessageService(utils.GetDB())
	statsSvc := service.NewStatsService(utils.GetDB(), utils.GetRedis())

	hub := handler.NewHub(followSvc)
	go hub.Run()
	messageSvc.SetFeedNotifier(hub)

	r := routes.SetupRoutes(routes.Deps{
		Users:         userSvc,
		Follows:       followSvc,
		Messages:      messageSvc,
		Stats:         statsSvc,
		Hub:           hub,
		TemplatesGlob: "templates/*.html",
	})

	logrus.Infof("warbler listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
